// Package fingerprint derives the content hash used to detect duplicate claims
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Separator joins title and description before hashing
const Separator = "|"

// Size is the length of a rendered fingerprint (hex of a 256-bit digest)
const Size = sha256.Size * 2

// Of hashes "<title>|<description>" and renders the digest as lowercase hex
// callers are expected to pass trimmed strings
func Of(title, description string) string {
	sum := sha256.Sum256([]byte(title + Separator + description))
	return hex.EncodeToString(sum[:])
}

// OfTrimmed trims both fields before hashing
func OfTrimmed(title, description string) string {
	return Of(strings.TrimSpace(title), strings.TrimSpace(description))
}

// Valid reports whether s looks like a rendered fingerprint (64 hex chars, any case)
func Valid(s string) bool {
	if len(s) != Size {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Normalize lowercases and trims a caller supplied fingerprint
func Normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
