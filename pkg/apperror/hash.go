package apperror

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// Volatile fragments stripped before hashing so repeated observations of the
// same error collapse to one hash. ISO timestamps go first: their time part
// would otherwise be half-eaten by the position pattern.
var (
	isoTimestampRegex = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?`)
	lineNumberRegex   = regexp.MustCompile(`(?i)\bline\s+\d+`)
	columnNumberRegex = regexp.MustCompile(`(?i)\bcolumn\s+\d+`)
	atPositionRegex   = regexp.MustCompile(`@\d+:\d+`)
	filePositionRegex = regexp.MustCompile(`:\d+(?::\d+)?\b`)
	millisRegex       = regexp.MustCompile(`\b\d+\s*ms\b`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
)

// normalizeError reduces an error string to its stable residue.
func normalizeError(errStr string) string {
	s := isoTimestampRegex.ReplaceAllString(errStr, "")
	s = lineNumberRegex.ReplaceAllString(s, "line")
	s = columnNumberRegex.ReplaceAllString(s, "column")
	s = atPositionRegex.ReplaceAllString(s, "")
	s = filePositionRegex.ReplaceAllString(s, "")
	s = millisRegex.ReplaceAllString(s, "ms")
	s = strings.ToLower(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ErrorHash returns the stable content hash of an error string: SHA-256 of
// the normalized residue, hex-encoded.
func ErrorHash(errStr string) string {
	sum := sha256.Sum256([]byte(normalizeError(errStr)))
	return hex.EncodeToString(sum[:])
}
