// Package timeline computes on-screen durations for segments. Resolution is
// total: every segment gets a positive duration even with no audio, no
// authored duration, and empty narration.
package timeline

import (
	"unicode"

	"slidecast/internal/config"
)

// Options carries the duration policy knobs from configuration.
type Options struct {
	MinSegmentMS           int64
	PaddingMS              int64
	FallbackCharsPerSecond float64
}

// OptionsFromConfig derives resolution options from the composer settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MinSegmentMS:           int64(cfg.Composer.MinSegmentDuration * 1000),
		PaddingMS:              int64(cfg.Composer.SegmentPadding * 1000),
		FallbackCharsPerSecond: cfg.Composer.FallbackCharsPerSecond,
	}
}

// Resolve returns the segment's on-screen duration in milliseconds.
// Priority: known audio duration, then an authored duration, then an
// estimate from narration length. Padding is added afterwards and the
// result is floored at the configured minimum.
func Resolve(audioDurationMS, authoredDurationMS int64, narration string, opts Options) int64 {
	var duration int64
	switch {
	case audioDurationMS > 0:
		duration = audioDurationMS
	case authoredDurationMS > 0:
		duration = authoredDurationMS
	default:
		duration = estimate(narration, opts.FallbackCharsPerSecond)
	}

	duration += opts.PaddingMS
	if duration < opts.MinSegmentMS {
		duration = opts.MinSegmentMS
	}
	if duration <= 0 {
		// Guard against a zero minimum in hand-built options.
		duration = 1
	}
	return duration
}

func estimate(narration string, charsPerSecond float64) int64 {
	if charsPerSecond <= 0 {
		return 0
	}
	chars := 0
	for _, r := range narration {
		if unicode.IsSpace(r) {
			continue
		}
		chars++
	}
	if chars == 0 {
		return 0
	}
	return int64(float64(chars) / charsPerSecond * 1000)
}
