package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"slidecast/internal/config"
	"slidecast/internal/logging"
	"slidecast/internal/media/ffprobe"
	"slidecast/internal/services"
	"slidecast/internal/services/ffmpeg"
	"slidecast/internal/timeline"
)

// Pipeline renders manifests into finished videos. It is safe for reuse
// across jobs but renders one job at a time per instance.
type Pipeline struct {
	cfg    *config.Config
	runner ffmpeg.Runner
	logger *slog.Logger
}

// New constructs a Pipeline. A nil logger disables logging.
func New(cfg *config.Config, runner ffmpeg.Runner, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:    cfg,
		runner: runner,
		logger: logging.WithComponent(logger, "render"),
	}
}

// JobSpec identifies one render run. ID keys the private workspace
// directory, so two concurrent runs must not share an ID.
type JobSpec struct {
	ID       string
	Manifest *Manifest
	Progress ProgressFunc
}

// Render executes the full pipeline for one job: resolve durations,
// assemble segment clips, composite transitions, finalize the output.
// The job workspace is removed when Render returns, on success and on
// failure alike.
func (p *Pipeline) Render(ctx context.Context, spec JobSpec) (Result, error) {
	if spec.Manifest == nil {
		return Result{}, services.Wrap(services.ErrValidation, "render", "run", "nil manifest", nil)
	}
	if err := spec.Manifest.Validate(); err != nil {
		return Result{}, err
	}

	workDir := filepath.Join(p.cfg.Paths.WorkspaceDir, "job-"+spec.ID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrJobFatal, "render", "workspace",
			"create "+workDir, err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			p.logger.Warn("workspace cleanup failed",
				logging.String(logging.FieldPath, workDir), logging.Error(err))
		}
	}()

	progress := newProgressTracker(spec.Progress)
	segments := p.resolveSegments(ctx, spec.Manifest.Segments)

	survivors := make([]renderedSegment, 0, len(segments))
	dropped := 0
	for i, seg := range segments {
		progress.emit(StageAssembly, 80*float64(i)/float64(len(segments)),
			fmt.Sprintf("segment %d of %d", i+1, len(segments)))
		rendered, err := p.assembleSegment(ctx, workDir, seg)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, services.Wrap(services.ErrJobFatal, "render", "assemble", "canceled", ctx.Err())
			}
			p.logger.Warn("segment dropped",
				logging.Int(logging.FieldSegment, seg.OrderIndex), logging.Error(err))
			dropped++
			continue
		}
		survivors = append(survivors, rendered)
	}
	progress.emit(StageAssembly, 80, "segments assembled")

	if len(survivors) == 0 {
		return Result{}, services.Wrap(services.ErrJobFatal, "render", "assemble",
			"no segment clips survived", nil)
	}

	clips := make([]Clip, len(survivors))
	for i, rs := range survivors {
		clips[i] = rs.clip
	}
	progress.emit(StageTransition, 80, "compositing transitions")
	timelineClip, crossfaded, err := p.composite(ctx, workDir, clips)
	if err != nil {
		return Result{}, services.Wrap(services.ErrJobFatal, "render", "composite",
			"transition compositing failed with no fallback", err)
	}
	progress.emit(StageTransition, 85, "transitions composited")

	result, err := p.finalize(spec.Manifest, timelineClip, survivors, crossfaded, dropped, progress)
	if err != nil {
		return Result{}, err
	}
	progress.emit(StageFinalize, 100, "done")
	return result, nil
}

// resolveSegments orders the manifest segments, probes audio durations
// that the manifest does not carry, and fixes each segment's duration
// once. The resolved values are never revised afterwards so caption and
// video timing stay in agreement.
func (p *Pipeline) resolveSegments(ctx context.Context, segments []Segment) []Segment {
	resolved := make([]Segment, len(segments))
	copy(resolved, segments)
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].OrderIndex < resolved[j].OrderIndex
	})

	opts := timeline.OptionsFromConfig(p.cfg)
	for i := range resolved {
		resolved[i].OrderIndex = i

		var audioMS int64
		if audio := resolved[i].Audio; audio != nil {
			audioMS = audio.DurationMS
			if audioMS == 0 {
				audioMS = p.probeAudio(ctx, audio.Path)
			}
		}
		resolved[i].ResolvedDurationMS = timeline.Resolve(
			audioMS, resolved[i].AuthoredDurationMS, resolved[i].NarrationText, opts)
	}
	return resolved
}

// probeAudio returns the audio duration in milliseconds, or zero when the
// file cannot be inspected. A zero result sends duration resolution down
// the authored and estimated fallbacks.
func (p *Pipeline) probeAudio(ctx context.Context, path string) int64 {
	result, err := ffprobe.Inspect(ctx, p.cfg.FFmpeg.FFprobeBinary, path)
	if err != nil {
		p.logger.Warn("audio probe failed",
			logging.String(logging.FieldPath, path), logging.Error(err))
		return 0
	}
	return result.DurationMS()
}

// progressTracker enforces monotonic percentages and drops emissions when
// no callback is registered.
type progressTracker struct {
	fn   ProgressFunc
	last float64
}

func newProgressTracker(fn ProgressFunc) *progressTracker {
	return &progressTracker{fn: fn}
}

func (t *progressTracker) emit(stage string, percent float64, message string) {
	if percent < t.last {
		percent = t.last
	}
	t.last = percent
	if t.fn != nil {
		t.fn(Progress{Stage: stage, Percent: percent, Message: message})
	}
}
