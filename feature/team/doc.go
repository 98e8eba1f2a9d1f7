// Package team persists teams, the current user's memberships, and the
// derived my-team rows (unread counters joined with membership roles).
package team
