// Package user implements the user profile feature.
//
// It persists remote user profiles and preferences into the local
// store, and runs the per-channel profile reconciliation:
//
//   - FetchProfilesInChannel: one channel's member profiles, dedup by
//     id, caller excluded, staged and committed in one batch.
//   - FetchProfilesPerChannels: concurrent fetch-only fan-out across
//     channels with per-channel failure isolation, then a single
//     combined commit of the deduplicated union.
//
// The optional AvatarCache stores fetched profile images in an
// S3-compatible bucket keyed by the profile's last picture update.
//
// # Components
//
//   - Store: prepares user/preference upserts for the operator.
//   - Syncer: orchestrates the remote fetches.
//   - Handler: exposes read-only snapshot endpoints under /users.
package user
