package captions

import (
	"fmt"
	"strings"
)

// RenderSRT writes cues as SRT blocks. Cue times must already be absolute
// within the target timeline.
func RenderSRT(cues []Cue, maxLineChars int) string {
	var sb strings.Builder
	for i, cue := range cues {
		fmt.Fprintf(&sb, "%d\n", i+1)
		fmt.Fprintf(&sb, "%s --> %s\n", FormatSRTTime(cue.StartMS), FormatSRTTime(cue.EndMS))
		sb.WriteString(WrapPlain(cue.Text, maxLineChars))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// FormatSRTTime renders milliseconds as HH:MM:SS,mmm.
func FormatSRTTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
