// Package storage provides the avatar/attachment object cache.
//
// It wraps the MinIO Go client behind a small interface so fetched
// profile images (and other binary attachments) can be cached in any
// S3-compatible bucket, self-hosted MinIO included. The cache is
// optional; when disabled, avatar sync is skipped entirely.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making
// it easy to mock storage interactions for unit testing (see
// core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: Verify or create the cache bucket.
//   - PutObject: Store fetched bytes (avatars keyed by user id).
//   - GetObject: Retrieve cached content as a stream.
//   - StatObject: Check freshness without downloading.
//   - RemoveObject: Evict a cached entry.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "team-sync")
package storage
