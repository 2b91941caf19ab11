package render

import (
	"fmt"
	"os"
	"path/filepath"

	"slidecast/internal/captions"
	"slidecast/internal/filtergraph"
)

// captionStyle maps subtitle configuration onto the caption renderer.
func (p *Pipeline) captionStyle() captions.Style {
	width, height := p.cfg.Dimensions()
	return captions.Style{
		FontName:     p.cfg.Subtitle.FontName,
		FontSize:     p.cfg.Subtitle.FontSize,
		FontColor:    p.cfg.Subtitle.FontColor,
		MarginBottom: p.cfg.Subtitle.MarginBottom,
		MaxLineChars: p.cfg.MaxCharsPerLine(),
		PlayResX:     width,
		PlayResY:     height,
	}
}

// captionStages writes the burn-in artifacts for one segment into dir and
// returns the filter stages that render them: an ASS subtitles stage for
// the narration cues and a drawtext stage for the persistent on-screen
// text. Returns nil when burn-in is disabled or the track is empty.
func (p *Pipeline) captionStages(dir string, segmentIndex int, track captions.Track) ([]fmt.Stringer, error) {
	if !p.cfg.Subtitle.Enabled || !p.cfg.Subtitle.BurnIn || track.Empty() {
		return nil, nil
	}

	var stages []fmt.Stringer

	if len(track.Cues) > 0 {
		assPath := filepath.Join(dir, fmt.Sprintf("seg%03d.ass", segmentIndex))
		content := captions.RenderASS(track.Cues, p.captionStyle())
		if err := os.WriteFile(assPath, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("write caption file: %w", err)
		}
		stage := filtergraph.New("subtitles").Path("filename", assPath)
		if p.cfg.Subtitle.FontFile != "" {
			stage.Path("fontsdir", filepath.Dir(p.cfg.Subtitle.FontFile))
		}
		stages = append(stages, stage)
	}

	if track.OnScreen != nil {
		textPath := filepath.Join(dir, fmt.Sprintf("seg%03d_onscreen.txt", segmentIndex))
		wrapped := captions.WrapPlain(track.OnScreen.Text, p.cfg.MaxCharsPerLine())
		if err := os.WriteFile(textPath, []byte(wrapped), 0o644); err != nil {
			return nil, fmt.Errorf("write on-screen text file: %w", err)
		}
		stage := filtergraph.New("drawtext").
			Path("textfile", textPath).
			Int("fontsize", p.cfg.Subtitle.OnScreenSize).
			Opt("fontcolor", "white").
			Int("borderw", 2).
			Opt("bordercolor", "black").
			Expr("x", "(w-text_w)/2").
			Int("y", p.cfg.Subtitle.OnScreenMargin)
		if p.cfg.Subtitle.FontFile != "" {
			stage.Path("fontfile", p.cfg.Subtitle.FontFile)
		} else if p.cfg.Subtitle.FontName != "" {
			stage.Text("font", p.cfg.Subtitle.FontName)
		}
		stages = append(stages, stage)
	}

	return stages, nil
}
