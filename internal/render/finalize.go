package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"slidecast/internal/captions"
	"slidecast/internal/config"
	"slidecast/internal/fileutil"
	"slidecast/internal/logging"
	"slidecast/internal/services"
	"slidecast/internal/textutil"
)

// finalize persists the composited timeline into the output directory and
// writes the sidecar subtitle file. Only a failure to persist the video
// is fatal; a sidecar failure degrades to a video-only result.
func (p *Pipeline) finalize(m *Manifest, timeline Clip, survivors []renderedSegment, crossfaded bool, dropped int, progress *progressTracker) (Result, error) {
	base := outputBase(m)
	if err := os.MkdirAll(p.cfg.Paths.OutputDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrJobFatal, "finalize", "output dir",
			p.cfg.Paths.OutputDir, err)
	}

	videoPath := filepath.Join(p.cfg.Paths.OutputDir, base+".mp4")
	if err := fileutil.MoveFile(timeline.Path, videoPath); err != nil {
		return Result{}, services.Wrap(services.ErrJobFatal, "finalize", "persist output",
			videoPath, err)
	}
	progress.emit(StageFinalize, 92, "output persisted")

	result := Result{
		VideoPath:    videoPath,
		SegmentCount: len(survivors),
		DroppedCount: dropped,
		DurationMS:   timeline.DurationMS,
		Crossfaded:   crossfaded,
	}

	if p.cfg.Subtitle.Enabled {
		sidecarPath, err := p.writeSidecar(base, survivors, crossfaded)
		if err != nil {
			p.logger.Warn("sidecar subtitle failed, continuing without",
				logging.Error(err))
		} else if sidecarPath != "" {
			result.SubtitlePath = sidecarPath
		}
	}
	progress.emit(StageFinalize, 96, "subtitles written")

	p.logger.Info("render finished",
		logging.String(logging.FieldPath, result.VideoPath),
		logging.Int64(logging.FieldDuration, result.DurationMS),
		logging.Int("segments", result.SegmentCount),
		logging.Int("dropped", result.DroppedCount))
	return result, nil
}

// writeSidecar emits one subtitle file covering the whole timeline. Cue
// offsets account for crossfade overlap: when segments were crossfaded,
// each join removed one transition duration from the running timeline.
func (p *Pipeline) writeSidecar(base string, survivors []renderedSegment, crossfaded bool) (string, error) {
	transitionMS := int64(p.cfg.Composer.TransitionDuration * 1000)

	var cues []captions.Cue
	var offset int64
	for i, rs := range survivors {
		cues = append(cues, rs.track.Shift(offset)...)
		offset += rs.clip.DurationMS
		if crossfaded && i < len(survivors)-1 {
			offset -= transitionMS
		}
	}
	if len(cues) == 0 {
		return "", nil
	}

	var content, ext string
	switch p.cfg.Subtitle.Format {
	case config.SubtitleFormatASS:
		content = captions.RenderASS(cues, p.captionStyle())
		ext = "ass"
	default:
		content = captions.RenderSRT(cues, p.cfg.MaxCharsPerLine())
		ext = "srt"
	}

	name := fmt.Sprintf("%s.%s.%s", base, p.cfg.Subtitle.Language, ext)
	path := filepath.Join(p.cfg.Paths.OutputDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write sidecar: %w", err)
	}
	return path, nil
}

// outputBase derives the output file stem from the manifest. An explicit
// output name is kept as-is after stripping unsafe characters, while a
// project title is reduced to a lowercase token.
func outputBase(m *Manifest) string {
	if out := strings.TrimSpace(m.Output); out != "" {
		out = strings.TrimSuffix(out, filepath.Ext(out))
		if name := textutil.FileStem(out); name != "" {
			return name
		}
	}
	if token := textutil.ProjectToken(m.Project); token != "" {
		return token
	}
	return "slidecast"
}
