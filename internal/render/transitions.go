package render

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"slidecast/internal/config"
	"slidecast/internal/logging"
)

// xfadeTransition maps the configured transition type onto the xfade
// filter's transition name.
func xfadeTransition(kind string) string {
	switch kind {
	case config.TransitionPush:
		return "slideleft"
	case config.TransitionZoom:
		return "zoomin"
	default:
		return "fade"
	}
}

// composite joins the surviving segment clips into one timeline. Non
// hard-cut transitions build a chained xfade/acrossfade graph where each
// join overlaps the preceding tail by the transition duration, so the
// final duration is the clip sum minus one overlap per join. When the
// crossfade graph cannot be built or fails to execute, the compositor
// falls back to hard-cut concatenation rather than failing the job.
//
// The returned bool reports whether crossfading was actually applied;
// sidecar subtitle timing depends on it.
func (p *Pipeline) composite(ctx context.Context, dir string, clips []Clip) (Clip, bool, error) {
	if len(clips) == 1 {
		return clips[0], false, nil
	}

	transitionMS := int64(p.cfg.Composer.TransitionDuration * 1000)
	if p.cfg.Composer.Transition == config.TransitionHardCut || transitionMS <= 0 {
		clip, err := p.concatClips(ctx, dir, "timeline", clips)
		return clip, false, err
	}

	// A crossfade consumes transition time from both neighbours. Any clip
	// too short to give that up would push an offset behind the previous
	// join, so the whole chain degrades to hard cuts.
	for _, clip := range clips {
		if clip.DurationMS <= 2*transitionMS {
			p.logger.Warn("clip shorter than transition overlap, using hard cuts",
				logging.String(logging.FieldPath, clip.Path),
				logging.Int64(logging.FieldDuration, clip.DurationMS))
			clip, err := p.concatClips(ctx, dir, "timeline", clips)
			return clip, false, err
		}
	}

	clip, err := p.crossfade(ctx, dir, clips, transitionMS)
	if err != nil {
		p.logger.Warn("crossfade failed, falling back to hard cuts", logging.Error(err))
		clip, err := p.concatClips(ctx, dir, "timeline", clips)
		return clip, false, err
	}
	return clip, true, nil
}

// crossfade runs the chained xfade graph in a single invocation. Offsets
// are computed arithmetically from the tracked clip durations: the join
// with clip i starts at the running timeline length minus one transition.
func (p *Pipeline) crossfade(ctx context.Context, dir string, clips []Clip, transitionMS int64) (Clip, error) {
	kind := xfadeTransition(p.cfg.Composer.Transition)
	transition := formatSeconds(transitionMS)

	args := make([]string, 0, 2*len(clips)+16)
	for _, clip := range clips {
		args = append(args, "-i", clip.Path)
	}

	parts := make([]string, 0, 2*(len(clips)-1))
	vIn, aIn := "0:v", "0:a"
	offset := clips[0].DurationMS - transitionMS
	for i := 1; i < len(clips); i++ {
		vOut := fmt.Sprintf("v%d", i)
		aOut := fmt.Sprintf("a%d", i)
		parts = append(parts,
			fmt.Sprintf("[%s][%d:v]xfade=transition=%s:duration=%s:offset=%s[%s]",
				vIn, i, kind, transition, formatSeconds(offset), vOut),
			fmt.Sprintf("[%s][%d:a]acrossfade=d=%s[%s]",
				aIn, i, transition, aOut))
		vIn, aIn = vOut, aOut
		offset += clips[i].DurationMS - transitionMS
	}

	outPath := filepath.Join(dir, "timeline.mp4")
	args = append(args,
		"-filter_complex", strings.Join(parts, ";"),
		"-map", "["+vIn+"]",
		"-map", "["+aIn+"]",
		"-c:v", "libx264",
		"-preset", p.cfg.FFmpeg.Preset,
		"-crf", strconv.Itoa(p.cfg.FFmpeg.CRF),
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(p.cfg.Composer.FrameRate),
		"-c:a", "aac",
		"-b:a", p.cfg.FFmpeg.AudioBitrate,
		"-movflags", "+faststart",
		"-y", outPath,
	)

	if err := p.runner.Run(ctx, args); err != nil {
		return Clip{}, err
	}

	var total int64
	for _, clip := range clips {
		total += clip.DurationMS
	}
	total -= int64(len(clips)-1) * transitionMS
	return Clip{Path: outPath, DurationMS: total}, nil
}
