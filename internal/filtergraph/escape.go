package filtergraph

import "strings"

var optionEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `'\''`,
	`:`, `\:`,
	"\n", `\n`,
)

// Escape rewrites text so it can be embedded as a filter option value.
// Backslash expands first so later escapes are not double-processed; the
// replacer applies all rules in a single pass over the input.
func Escape(text string) string {
	if text == "" {
		return ""
	}
	return optionEscaper.Replace(text)
}

// EscapePath rewrites a filesystem path for embedding in a filter option,
// normalizing separators and escaping drive-letter colons. Backslashes are
// rewritten unconditionally: filepath.ToSlash only handles the host OS
// separator, but Windows paths can appear in manifests on any platform.
func EscapePath(path string) string {
	normalized := strings.ReplaceAll(path, `\`, "/")
	return strings.ReplaceAll(normalized, ":", `\:`)
}
