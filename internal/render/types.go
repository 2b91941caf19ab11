package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"slidecast/internal/services"
)

// MediaKind distinguishes manifest media entries.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
)

// MediaReference points at a media file on disk. DurationMS is only
// meaningful for audio and may be zero, in which case the pipeline probes
// the file before resolving segment durations.
type MediaReference struct {
	Path       string    `json:"path"`
	Kind       MediaKind `json:"kind,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
}

// Segment is one narrated unit of the slideshow: an ordered set of scene
// images shown while a single narration plays.
type Segment struct {
	OrderIndex         int              `json:"order_index"`
	NarrationText      string           `json:"narration_text,omitempty"`
	OnScreenText       string           `json:"on_screen_text,omitempty"`
	Scenes             []MediaReference `json:"scenes"`
	Audio              *MediaReference  `json:"audio,omitempty"`
	AuthoredDurationMS int64            `json:"authored_duration_ms,omitempty"`

	// ResolvedDurationMS is computed once up front and never revised,
	// so caption timing and video timing agree even if a later encode
	// step rounds differently.
	ResolvedDurationMS int64 `json:"-"`
}

// Manifest is the render input: the ordered segment list for one project.
type Manifest struct {
	Project  string    `json:"project"`
	Output   string    `json:"output,omitempty"`
	Segments []Segment `json:"segments"`
}

// ParseManifest decodes and validates a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, services.Wrap(services.ErrValidation, "render", "parse manifest", "invalid manifest document", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the structural requirements the pipeline depends on.
// A segment with no scenes is still accepted: it has no visual, so the
// assembly pass drops it instead of the whole manifest failing here.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Project) == "" {
		return services.Wrap(services.ErrValidation, "render", "validate manifest", "project name is required", nil)
	}
	if len(m.Segments) == 0 {
		return services.Wrap(services.ErrValidation, "render", "validate manifest", "manifest has no segments", nil)
	}
	for i, seg := range m.Segments {
		for j, scene := range seg.Scenes {
			if strings.TrimSpace(scene.Path) == "" {
				return services.Wrap(services.ErrValidation, "render", "validate manifest",
					fmt.Sprintf("segment %d scene %d has an empty path", i, j), nil)
			}
		}
	}
	return nil
}

// Clip is an intermediate or final rendered video with its timeline
// duration tracked arithmetically rather than probed back from the file.
type Clip struct {
	Path       string
	DurationMS int64
}

// Result summarizes a finished render.
type Result struct {
	VideoPath    string `json:"video_path"`
	SubtitlePath string `json:"subtitle_path,omitempty"`
	SegmentCount int    `json:"segment_count"`
	DroppedCount int    `json:"dropped_count"`
	DurationMS   int64  `json:"duration_ms"`
	Crossfaded   bool   `json:"crossfaded"`
}

// Progress reports pipeline advancement. Percent is monotonic within a
// job: 0-80 covers segment assembly, 80-85 transition compositing, 85-100
// finalization.
type Progress struct {
	Stage   string
	Percent float64
	Message string
}

// ProgressFunc receives progress updates. Implementations must tolerate
// being called from the rendering goroutine.
type ProgressFunc func(Progress)

// Pipeline stage names reported through Progress.
const (
	StageAssembly   = "assembly"
	StageTransition = "transition"
	StageFinalize   = "finalize"
)
