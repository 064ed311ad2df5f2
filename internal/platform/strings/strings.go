// Package strings holds the small string helpers shared by platform and services
package strings

import std "strings"

// Blank reports whether s has no non whitespace content
func Blank(s string) bool { return std.TrimSpace(s) == "" }

// IfEmpty is def when in has no elements
func IfEmpty[T any](in, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// Deref is *ps, or "" for nil
func Deref(ps *string) string {
	if ps == nil {
		return ""
	}
	return *ps
}

// MustPrefix normalizes a route prefix to "/x/y" form and panics on the root or an empty prefix
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), "/")
	if s == "/" {
		panic("strings: route prefix is required")
	}
	return s
}
