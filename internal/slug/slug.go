// Package slug derives filename-safe slugs from titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slug converts a title into a filename-safe slug. It NFD-normalizes,
// strips combining marks, lowercases, turns whitespace into dashes,
// drops everything that is not alphanumeric or a dash, and collapses
// dash runs. The function is deterministic and idempotent:
// Slug(Slug(s)) == Slug(s).
func Slug(s string) string {
	s = norm.NFD.String(s)

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark, dropped
		case unicode.IsSpace(r):
			b.WriteRune('-')
		case r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		}
	}
	s = b.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}
