package captions

// Cue is one time-coded caption entry. Times are milliseconds relative to
// the start of the clip the track was allocated for.
type Cue struct {
	Text    string
	StartMS int64
	EndMS   int64
}

// Track is the caption output for one segment: the narration cues in order
// plus an optional persistent on-screen highlight covering the whole clip.
type Track struct {
	Cues     []Cue
	OnScreen *Cue
}

// Style carries the visual parameters shared by burned-in and sidecar
// rendering.
type Style struct {
	FontName     string
	FontSize     int
	FontColor    string // RRGGBB hex
	MarginBottom int
	MaxLineChars int
	PlayResX     int
	PlayResY     int
}

// NewTrack allocates the caption track for one segment.
func NewTrack(narration, onScreen string, durationMS int64) Track {
	track := Track{Cues: Allocate(narration, durationMS)}
	if onScreen != "" {
		track.OnScreen = &Cue{Text: onScreen, StartMS: 0, EndMS: durationMS}
	}
	return track
}

// Empty reports whether the track carries nothing to render.
func (t Track) Empty() bool {
	return len(t.Cues) == 0 && t.OnScreen == nil
}

// Shift returns a copy of the narration cues with both timestamps offset,
// used when assembling absolute-timecode sidecar files.
func (t Track) Shift(offsetMS int64) []Cue {
	if len(t.Cues) == 0 {
		return nil
	}
	shifted := make([]Cue, len(t.Cues))
	for i, cue := range t.Cues {
		shifted[i] = Cue{Text: cue.Text, StartMS: cue.StartMS + offsetMS, EndMS: cue.EndMS + offsetMS}
	}
	return shifted
}
