package captions

import "unicode/utf8"

// minCueMS is the floor for a single sentence's on-screen time.
const minCueMS = 500

// Allocate slices durationMS across the narration's sentences in proportion
// to their character counts. Each sentence gets at least minCueMS; the last
// sentence's end is clamped to the clip duration so the track covers
// [0, durationMS] exactly regardless of rounding. Empty narration yields an
// empty track.
func Allocate(narration string, durationMS int64) []Cue {
	sentences := SplitSentences(narration)
	if len(sentences) == 0 || durationMS <= 0 {
		return nil
	}

	totalChars := 0
	for _, sentence := range sentences {
		totalChars += utf8.RuneCountInString(sentence)
	}
	if totalChars == 0 {
		return nil
	}

	cues := make([]Cue, 0, len(sentences))
	var cursor int64
	for i, sentence := range sentences {
		chars := utf8.RuneCountInString(sentence)
		slice := int64(float64(chars) / float64(totalChars) * float64(durationMS))
		if slice < minCueMS {
			slice = minCueMS
		}

		start := cursor
		end := start + slice
		if i == len(sentences)-1 || end > durationMS {
			end = durationMS
		}
		if start >= durationMS {
			// Floors for earlier sentences consumed the whole clip; the
			// remaining sentences get no screen time.
			break
		}
		cues = append(cues, Cue{Text: sentence, StartMS: start, EndMS: end})
		cursor = end
	}
	return cues
}
