package render

import (
	"context"
	"fmt"
	"path/filepath"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"slidecast/internal/filtergraph"
	"slidecast/internal/logging"
)

// sceneJob describes one still image to animate into a clip.
type sceneJob struct {
	segmentIndex int
	sceneIndex   int
	imagePath    string
	durationMS   int64

	// audioPath and captionStages are only set on the single-scene fast
	// path, where the scene clip is the finished segment clip.
	audioPath     string
	captionStages []fmt.Stringer
}

// synthesizeScene renders one still image into a motion clip. Multi-scene
// segments get silent clips that are concatenated and muxed later; a
// single-scene segment is synthesized in one pass with its audio and
// captions included.
func (p *Pipeline) synthesizeScene(ctx context.Context, dir string, job sceneJob) (Clip, error) {
	width, height := p.cfg.Dimensions()
	fps := p.cfg.Composer.FrameRate
	seconds := formatSeconds(job.durationMS)

	chain := &filtergraph.Chain{}
	if p.cfg.Composer.KenBurnsEnabled {
		effect := effectFor(job.segmentIndex, job.sceneIndex)
		p.logger.Debug("scene motion selected",
			logging.Int(logging.FieldSegment, job.segmentIndex),
			logging.Int(logging.FieldScene, job.sceneIndex),
			logging.String("effect", effect.String()))
		for _, stage := range motionStages(effect, p.cfg.Composer.KenBurnsIntensity, framesFor(job.durationMS, fps), width, height, fps) {
			chain.Add(stage)
		}
	} else {
		for _, stage := range stillStages(width, height) {
			chain.Add(stage)
		}
	}
	for _, stage := range job.captionStages {
		chain.Add(stage)
	}

	image := ffmpeggo.Input(job.imagePath, ffmpeggo.KwArgs{"loop": 1, "t": seconds})
	audio := ffmpeggo.Input(silentAudioSource, ffmpeggo.KwArgs{"f": "lavfi", "t": seconds})
	if job.audioPath != "" {
		audio = ffmpeggo.Input(job.audioPath)
	}

	outPath := filepath.Join(dir, fmt.Sprintf("seg%03d_scene%02d.mp4", job.segmentIndex, job.sceneIndex))
	stream := ffmpeggo.Output([]*ffmpeggo.Stream{image, audio}, outPath, p.encodeKwArgs(ffmpeggo.KwArgs{
		"vf": chain.String(),
		"t":  seconds,
	}))

	if err := p.runner.Run(ctx, compileArgs(stream)); err != nil {
		return Clip{}, fmt.Errorf("segment %d scene %d: %w", job.segmentIndex, job.sceneIndex, err)
	}
	return Clip{Path: outPath, DurationMS: job.durationMS}, nil
}
