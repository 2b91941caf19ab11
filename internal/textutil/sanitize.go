package textutil

import (
	"strings"
	"unicode"
)

// FileStem strips characters that are unsafe in filenames from a
// user-supplied output name. Path separators, colons, and asterisks
// become dashes so the shape of the name survives; quoting and wildcard
// characters are dropped outright.
func FileStem(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch r {
		case '/', '\\', ':', '*':
			b.WriteRune('-')
		case '?', '"', '<', '>', '|':
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// ProjectToken reduces a project title to a lowercase filename token.
// Unicode letters and digits survive, so Chinese titles keep their
// characters; hyphens and underscores pass through, and any other run of
// characters collapses to a single underscore. Returns "" when nothing
// usable remains.
func ProjectToken(title string) string {
	var b strings.Builder
	gap := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if gap && b.Len() > 0 {
				b.WriteByte('_')
			}
			gap = false
			b.WriteRune(unicode.ToLower(r))
		case r == '-' || r == '_':
			if b.Len() > 0 {
				b.WriteRune(r)
			}
			gap = false
		default:
			gap = true
		}
	}
	return strings.TrimRight(b.String(), "-_")
}
