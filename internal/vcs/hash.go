package vcs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash is a lowercase hex-encoded SHA-256 content digest. It identifies a
// blob, tree, or commit; two byte strings share a Hash iff they are equal.
type Hash string

// ZeroHash is the empty Hash, used to mean "no object" (e.g. no parent
// for a root commit).
const ZeroHash Hash = ""

// hashSize is the number of raw bytes in a digest (sha256.Size); hexSize
// is the length of its hex rendering.
const (
	hashSize = sha256.Size
	hexSize  = hashSize * 2
)

// hashBytes computes the content digest of b. This is the sole entry
// point for content addressing in the system: every object reference is
// hash(bytes) of its canonical encoding.
func hashBytes(b []byte) Hash {
	sum := sha256.Sum256(b)
	return Hash(hex.EncodeToString(sum[:]))
}

// ParseHash validates s as a hex-encoded Hash, rejecting anything that is
// not exactly hexSize lowercase-or-uppercase hex characters.
func ParseHash(s string) (Hash, error) {
	if len(s) != hexSize {
		return "", fmt.Errorf("%w: hash %q has length %d, want %d", ErrInvalidArgument, s, len(s), hexSize)
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("%w: hash %q is not hex: %v", ErrInvalidArgument, s, err)
	}
	return Hash(s), nil
}

// IsHash reports whether s could be a Hash, without allocating one.
func IsHash(s string) bool {
	_, err := ParseHash(s)
	return err == nil
}

// String renders the full hash. Hash already prints naturally as its hex
// string via %s/%v since it's a defined string type; String exists so
// fmt.Stringer-aware call sites (log lines, error messages) render it the
// same way explicitly.
func (h Hash) String() string { return string(h) }

// Short returns the first 7 hex characters, matching the abbreviation
// length used by the unified-patch "index a..b 100644" line.
func (h Hash) Short() string {
	if len(h) < 7 {
		return string(h)
	}
	return string(h)[:7]
}

// splitPath returns the 2-character fan-out prefix and remainder used to
// place h under objects/<xx>/<rest>.
func (h Hash) splitPath() (prefix, rest string) {
	s := string(h)
	return s[:2], s[2:]
}
