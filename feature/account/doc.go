// Package account implements the session reconciliation operations.
//
// It bootstraps and maintains the current user's state against one
// registered server:
//
//   - FetchMe: fetch (and optionally persist) the current profile.
//   - LoadMe: full session bootstrap after login. Six remote fetches
//     (teams, memberships, unreads, preferences, config, license) are
//     joined all-or-nothing, my-team rows are derived by left-joining
//     unread counters with membership roles, and every category plus
//     lazily-resolved roles lands in one atomic batch commit.
//   - UpdateMe: patch the current user, persist the response, and
//     refresh role definitions when the role string changed.
//
// Every remote failure runs through CheckForExpiredSession, which
// performs forced logout when the server rejected the session token.
// The logout side effect always completes before the operation returns.
//
// # Error model
//
// Operations return (value, error); no partial commit survives an
// error raised before the final batch.
package account
