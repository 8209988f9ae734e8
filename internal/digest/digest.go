// Package digest normalises access codes and derives the peppered digest
// under which they are stored.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// One letter and three digits, the letter in any of the four positions.
var codePattern = regexp.MustCompile(`^(?:[A-Z][0-9]{3}|[0-9][A-Z][0-9]{2}|[0-9]{2}[A-Z][0-9]|[0-9]{3}[A-Z])$`)

// Normalize trims surrounding whitespace and upper-cases the code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidFormat reports whether an already normalised code has the expected shape.
func ValidFormat(normalized string) bool {
	return codePattern.MatchString(normalized)
}

// Hasher computes deterministic code digests keyed by a server-held pepper.
type Hasher struct {
	pepper string
}

// NewHasher creates a Hasher. An empty pepper yields a plain sha256 digest.
func NewHasher(pepper string) *Hasher {
	return &Hasher{pepper: pepper}
}

// Peppered reports whether digests are keyed.
func (h *Hasher) Peppered() bool {
	return h.pepper != ""
}

// Hash returns the hex sha256 of pepper followed by the normalised code.
func (h *Hasher) Hash(code string) string {
	sum := sha256.Sum256([]byte(h.pepper + Normalize(code)))
	return hex.EncodeToString(sum[:])
}
