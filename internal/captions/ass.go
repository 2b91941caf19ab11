package captions

import (
	"fmt"
	"strings"
)

// RenderASS writes a complete ASS document: script header, one default
// style derived from Style, and a Dialogue line per cue. Cue times must
// already be absolute within the target timeline.
func RenderASS(cues []Cue, style Style) string {
	var sb strings.Builder
	sb.WriteString(assHeader(style))
	for _, cue := range cues {
		text := WrapASS(cue.Text, style.MaxLineChars)
		fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			FormatASSTime(cue.StartMS), FormatASSTime(cue.EndMS), text)
	}
	return sb.String()
}

func assHeader(style Style) string {
	fontName := style.FontName
	if fontName == "" {
		fontName = "Arial"
	}
	fontSize := style.FontSize
	if fontSize <= 0 {
		fontSize = 40
	}
	color := assColor(style.FontColor)
	return fmt.Sprintf(`[Script Info]
Title: slidecast captions
ScriptType: v4.00+
PlayResX: %d
PlayResY: %d
WrapStyle: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,%s,%d,%s,&H000000FF,&H00000000,&H80000000,0,0,0,0,100,100,0,0,1,2,1,2,10,10,%d,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`, style.PlayResX, style.PlayResY, fontName, fontSize, color, style.MarginBottom)
}

// assColor converts RRGGBB hex to the ASS &H00BBGGRR form.
func assColor(rgb string) string {
	rgb = strings.TrimPrefix(strings.TrimSpace(rgb), "#")
	if len(rgb) != 6 {
		return "&H00FFFFFF"
	}
	for _, c := range rgb {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return "&H00FFFFFF"
		}
	}
	r, g, b := rgb[0:2], rgb[2:4], rgb[4:6]
	return "&H00" + strings.ToUpper(b+g+r)
}

// FormatASSTime renders milliseconds as H:MM:SS.CC.
func FormatASSTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	centis := (ms % 1000) / 10
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}
