package captions

import "strings"

// Sentence terminators recognized by SplitSentences: ASCII and CJK variants.
var sentenceTerminators = map[rune]struct{}{
	'.': {}, '!': {}, '?': {}, '…': {},
	'。': {}, '！': {}, '？': {},
}

// SplitSentences divides narration into sentences, keeping the terminating
// punctuation attached. Consecutive terminators stay with the sentence they
// close. Text without any terminator is returned as a single sentence.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	var current strings.Builder
	inTerminator := false
	for _, r := range text {
		_, isTerm := sentenceTerminators[r]
		if inTerminator && !isTerm {
			flush(&sentences, &current)
		}
		current.WriteRune(r)
		inTerminator = isTerm
	}
	flush(&sentences, &current)

	if len(sentences) == 0 {
		return []string{text}
	}
	return sentences
}

func flush(sentences *[]string, current *strings.Builder) {
	sentence := strings.TrimSpace(current.String())
	if sentence != "" {
		*sentences = append(*sentences, sentence)
	}
	current.Reset()
}
