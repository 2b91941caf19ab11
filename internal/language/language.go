// Package language normalizes subtitle language tags to the short codes
// used in sidecar file names and player language menus.
package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Normalize parses tag and returns the canonical base language code,
// e.g. "zh-Hans" becomes "zh" and "EN_us" becomes "en". An empty tag
// normalizes to the empty string.
func Normalize(tag string) (string, error) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return "", nil
	}
	parsed, err := language.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse language tag %q: %w", trimmed, err)
	}
	base, _ := parsed.Base()
	return base.String(), nil
}

// Display returns the English display name for tag, or the tag itself
// when it cannot be parsed.
func Display(tag string) string {
	parsed, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return tag
	}
	return display.English.Tags().Name(parsed)
}
