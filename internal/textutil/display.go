package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Title converts snake_case or lowercase labels into title case for display,
// e.g. "not_found" becomes "Not Found".
func Title(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", " "))
	if value == "" {
		return ""
	}
	return titleCaser.String(value)
}

// Truncate shortens value to at most width runes, marking the cut with an
// ellipsis. A width below 1 returns value unchanged.
func Truncate(value string, width int) string {
	if width < 1 || utf8.RuneCountInString(value) <= width {
		return value
	}
	if width == 1 {
		return "…"
	}
	runes := []rune(value)
	return strings.TrimSpace(string(runes[:width-1])) + "…"
}
