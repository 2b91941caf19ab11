package captions

import "strings"

// WrapLines breaks text into visual lines of at most maxChars characters
// using greedy character-count wrapping. CJK and Latin characters both count
// as one. Wrapping never splits a cue into multiple time slices.
func WrapLines(text string, maxChars int) []string {
	if text == "" {
		return nil
	}
	if maxChars <= 0 {
		return []string{text}
	}

	var lines []string
	var current strings.Builder
	count := 0
	for _, r := range text {
		current.WriteRune(r)
		count++
		if count >= maxChars {
			lines = append(lines, current.String())
			current.Reset()
			count = 0
		}
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// WrapPlain renders wrapped text with newline separators (SRT).
func WrapPlain(text string, maxChars int) string {
	return strings.Join(WrapLines(text, maxChars), "\n")
}

// WrapASS renders wrapped text with ASS hard line breaks.
func WrapASS(text string, maxChars int) string {
	return strings.Join(WrapLines(text, maxChars), `\N`)
}
