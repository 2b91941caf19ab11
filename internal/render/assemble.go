package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"slidecast/internal/captions"
	"slidecast/internal/logging"
	"slidecast/internal/services"
)

// renderedSegment couples a finished segment clip with the caption track
// that was allocated for it, so the finalizer can emit sidecar subtitles
// with matching timing.
type renderedSegment struct {
	index int
	clip  Clip
	track captions.Track
}

// assembleSegment turns one segment into a finished clip: scene clips are
// synthesized over an even split of the segment duration, concatenated
// with stream copy, then the narration audio and captions are applied in a
// final pass. A single-scene segment skips the split and concat entirely.
//
// Scene failures are tolerated while at least one scene clip survives;
// only a segment with zero usable scenes fails assembly.
func (p *Pipeline) assembleSegment(ctx context.Context, dir string, seg Segment) (renderedSegment, error) {
	scenes := p.usableScenes(seg)
	if len(scenes) == 0 {
		return renderedSegment{}, services.Wrap(services.ErrValidation, "assemble",
			fmt.Sprintf("segment %d", seg.OrderIndex), "no usable scene images", nil)
	}

	durationMS := seg.ResolvedDurationMS
	audioPath := ""
	if seg.Audio != nil {
		if _, err := os.Stat(seg.Audio.Path); err == nil {
			audioPath = seg.Audio.Path
		} else {
			p.logger.Warn("narration audio missing, using silence",
				logging.Int(logging.FieldSegment, seg.OrderIndex),
				logging.String(logging.FieldPath, seg.Audio.Path))
		}
	}

	var track captions.Track
	if p.cfg.Subtitle.Enabled {
		track = captions.NewTrack(seg.NarrationText, seg.OnScreenText, durationMS)
	}
	stages, err := p.captionStages(dir, seg.OrderIndex, track)
	if err != nil {
		return renderedSegment{}, err
	}

	if len(scenes) == 1 {
		clip, err := p.synthesizeScene(ctx, dir, sceneJob{
			segmentIndex:  seg.OrderIndex,
			sceneIndex:    0,
			imagePath:     scenes[0],
			durationMS:    durationMS,
			audioPath:     audioPath,
			captionStages: stages,
		})
		if err != nil {
			return renderedSegment{}, err
		}
		return renderedSegment{index: seg.OrderIndex, clip: clip, track: track}, nil
	}

	clips := p.synthesizeScenes(ctx, dir, seg, scenes, durationMS)
	if len(clips) == 0 {
		return renderedSegment{}, services.Wrap(services.ErrExternalTool, "assemble",
			fmt.Sprintf("segment %d", seg.OrderIndex), "every scene clip failed", nil)
	}

	visual := clips[0]
	if len(clips) > 1 {
		visual, err = p.concatClips(ctx, dir, fmt.Sprintf("seg%03d_scenes", seg.OrderIndex), clips)
		if err != nil {
			return renderedSegment{}, fmt.Errorf("segment %d: %w", seg.OrderIndex, err)
		}
	}

	clip, err := p.muxSegment(ctx, dir, seg.OrderIndex, visual, audioPath, stages, durationMS)
	if err != nil {
		return renderedSegment{}, err
	}
	return renderedSegment{index: seg.OrderIndex, clip: clip, track: track}, nil
}

// usableScenes filters the segment's scene images down to files that exist
// on disk.
func (p *Pipeline) usableScenes(seg Segment) []string {
	paths := make([]string, 0, len(seg.Scenes))
	for i, scene := range seg.Scenes {
		if _, err := os.Stat(scene.Path); err != nil {
			p.logger.Warn("scene image missing, skipping",
				logging.Int(logging.FieldSegment, seg.OrderIndex),
				logging.Int(logging.FieldScene, i),
				logging.String(logging.FieldPath, scene.Path))
			continue
		}
		paths = append(paths, scene.Path)
	}
	return paths
}

// synthesizeScenes renders the per-scene clips for a multi-scene segment.
// The segment duration splits evenly across scenes with the remainder on
// the last scene, so the slice durations sum exactly to the segment
// duration. Failed scenes are dropped.
func (p *Pipeline) synthesizeScenes(ctx context.Context, dir string, seg Segment, scenes []string, durationMS int64) []Clip {
	per := durationMS / int64(len(scenes))
	clips := make([]Clip, 0, len(scenes))
	for i, image := range scenes {
		sliceMS := per
		if i == len(scenes)-1 {
			sliceMS = durationMS - per*int64(len(scenes)-1)
		}
		clip, err := p.synthesizeScene(ctx, dir, sceneJob{
			segmentIndex: seg.OrderIndex,
			sceneIndex:   i,
			imagePath:    image,
			durationMS:   sliceMS,
		})
		if err != nil {
			p.logger.Warn("scene clip failed, dropping scene",
				logging.Int(logging.FieldSegment, seg.OrderIndex),
				logging.Int(logging.FieldScene, i),
				logging.Error(err))
			continue
		}
		clips = append(clips, clip)
	}
	return clips
}

// muxSegment applies narration audio and burned captions to the assembled
// visual track. Without captions the video stream is copied untouched;
// with captions it is re-encoded once.
func (p *Pipeline) muxSegment(ctx context.Context, dir string, segmentIndex int, visual Clip, audioPath string, stages []fmt.Stringer, durationMS int64) (Clip, error) {
	seconds := formatSeconds(durationMS)

	video := ffmpeggo.Input(visual.Path)
	audio := ffmpeggo.Input(silentAudioSource, ffmpeggo.KwArgs{"f": "lavfi", "t": seconds})
	if audioPath != "" {
		audio = ffmpeggo.Input(audioPath)
	}

	var kwargs ffmpeggo.KwArgs
	if len(stages) > 0 {
		chain := stagesChain(stages)
		kwargs = p.encodeKwArgs(ffmpeggo.KwArgs{
			"vf":  chain,
			"map": []string{"0:v:0", "1:a:0"},
			"t":   seconds,
		})
	} else {
		kwargs = ffmpeggo.KwArgs{
			"c:v":      "copy",
			"c:a":      "aac",
			"b:a":      p.cfg.FFmpeg.AudioBitrate,
			"map":      []string{"0:v:0", "1:a:0"},
			"t":        seconds,
			"movflags": "+faststart",
		}
	}

	outPath := filepath.Join(dir, fmt.Sprintf("seg%03d.mp4", segmentIndex))
	stream := ffmpeggo.Output([]*ffmpeggo.Stream{video, audio}, outPath, kwargs)
	if err := p.runner.Run(ctx, compileArgs(stream)); err != nil {
		return Clip{}, fmt.Errorf("segment %d mux: %w", segmentIndex, err)
	}
	return Clip{Path: outPath, DurationMS: durationMS}, nil
}
