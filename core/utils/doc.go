// Package utils provides common utility functions for team-sync.
// It includes helpers for token-string parsing and deduplication shared
// by the reconciliation functions, logic that doesn't fit into
// domain-specific packages.
package utils
