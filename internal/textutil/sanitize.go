package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName turns a user-supplied name into a single safe path
// segment. Separators, colons and asterisks become dashes; quotes, wildcards,
// pipes and control characters are dropped. Surrounding whitespace and
// leading dots are trimmed, so "." and ".." sanitize to "".
func SanitizeFileName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*':
			return '-'
		case r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			return -1
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, name)
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(mapped), "."))
}
