package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"slidecast/internal/filtergraph"
)

// silentAudioSource is the lavfi description used whenever a clip needs an
// audio track but no narration file exists. Every clip in a job carries an
// audio stream so downstream concatenation and crossfading see uniform
// inputs.
const silentAudioSource = "anullsrc=channel_layout=stereo:sample_rate=44100"

// compileArgs renders an ffmpeg-go stream graph to the argument list the
// runner executes. The leading binary name is dropped because the runner
// supplies its own.
func compileArgs(stream *ffmpeggo.Stream) []string {
	return stream.OverWriteOutput().Compile().Args[1:]
}

// encodeKwArgs merges the configured video and audio encoder settings into
// the step-specific output options.
func (p *Pipeline) encodeKwArgs(extra ffmpeggo.KwArgs) ffmpeggo.KwArgs {
	kwargs := ffmpeggo.KwArgs{
		"c:v":      "libx264",
		"preset":   p.cfg.FFmpeg.Preset,
		"crf":      strconv.Itoa(p.cfg.FFmpeg.CRF),
		"pix_fmt":  "yuv420p",
		"r":        strconv.Itoa(p.cfg.Composer.FrameRate),
		"c:a":      "aac",
		"b:a":      p.cfg.FFmpeg.AudioBitrate,
		"movflags": "+faststart",
	}
	for key, value := range extra {
		kwargs[key] = value
	}
	return kwargs
}

// stagesChain renders filter stages as one comma-joined -vf argument.
func stagesChain(stages []fmt.Stringer) string {
	chain := &filtergraph.Chain{}
	for _, stage := range stages {
		chain.Add(stage)
	}
	return chain.String()
}

// formatSeconds renders milliseconds as a seconds value with millisecond
// precision, the form ffmpeg accepts for -t and offsets.
func formatSeconds(ms int64) string {
	return strconv.FormatFloat(float64(ms)/1000.0, 'f', 3, 64)
}

func framesFor(durationMS int64, fps int) int {
	frames := int(durationMS) * fps / 1000
	if frames < 1 {
		frames = 1
	}
	return frames
}

// concatClips joins clips with the concat demuxer and stream copy. The
// resulting duration is the plain sum of the inputs.
func (p *Pipeline) concatClips(ctx context.Context, dir, name string, clips []Clip) (Clip, error) {
	listPath := filepath.Join(dir, name+".txt")
	var list strings.Builder
	for _, clip := range clips {
		// Concat list quoting: single quotes close, escape, reopen.
		escaped := strings.ReplaceAll(clip.Path, "'", `'\''`)
		fmt.Fprintf(&list, "file '%s'\n", escaped)
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return Clip{}, fmt.Errorf("write concat list: %w", err)
	}

	outPath := filepath.Join(dir, name+".mp4")
	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-movflags", "+faststart",
		"-y", outPath,
	}
	if err := p.runner.Run(ctx, args); err != nil {
		return Clip{}, err
	}

	var total int64
	for _, clip := range clips {
		total += clip.DurationMS
	}
	return Clip{Path: outPath, DurationMS: total}, nil
}
