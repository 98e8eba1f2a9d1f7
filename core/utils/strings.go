package utils

import "strings"

// SplitTokens splits a space-separated token string (e.g. a role-name
// list) into its non-empty tokens.
func SplitTokens(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

// UniqueStrings returns the distinct values of in, preserving first-seen
// order.
func UniqueStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
