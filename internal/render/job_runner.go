package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"

	"slidecast/internal/config"
	"slidecast/internal/logging"
	"slidecast/internal/notifications"
	"slidecast/internal/queue"
)

// JobRunner executes queued render jobs against the pipeline, persisting
// progress and terminal state back to the store.
type JobRunner struct {
	cfg      *config.Config
	store    *queue.Store
	pipeline *Pipeline
	notifier notifications.Service
	logger   *slog.Logger

	// OnProgress, when set, observes every persisted progress update.
	// It runs on the rendering goroutine and must not block.
	OnProgress func(job *queue.Job, progress Progress)

	// OnFinished, when set, observes every job reaching a terminal state.
	OnFinished func(job *queue.Job)
}

// NewJobRunner constructs a runner bound to a store and pipeline.
func NewJobRunner(cfg *config.Config, store *queue.Store, pipeline *Pipeline, logger *slog.Logger) *JobRunner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &JobRunner{
		cfg:      cfg,
		store:    store,
		pipeline: pipeline,
		notifier: notifications.NewService(cfg),
		logger:   logging.WithComponent(logger, "runner"),
	}
}

// RunNext claims the oldest queued job and runs it to a terminal state.
// Returns queue.ErrNotFound when the queue is empty.
func (r *JobRunner) RunNext(ctx context.Context) (*queue.Job, error) {
	job, err := r.store.NextQueued(ctx)
	if err != nil {
		return nil, err
	}
	return job, r.Run(ctx, job)
}

// Run executes one claimed job. The returned error reflects the render
// outcome; the job row is always driven to succeeded or failed unless the
// store itself is unavailable.
func (r *JobRunner) Run(ctx context.Context, job *queue.Job) error {
	logger := r.logger.With(
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String(logging.FieldProject, job.Project))
	logger.Info("render job starting")

	manifest, err := ParseManifest([]byte(job.ManifestJSON))
	if err != nil {
		return r.fail(ctx, job, err)
	}

	release, err := r.lockProject(job.Project)
	if err != nil {
		return r.fail(ctx, job, err)
	}
	defer release()

	started := time.Now()
	if err := r.notifier.NotifyRenderStarted(ctx, job.Project); err != nil {
		logger.Warn("start notification failed", logging.Error(err))
	}

	spec := JobSpec{
		ID:       strconv.FormatInt(job.ID, 10),
		Manifest: manifest,
		Progress: func(p Progress) {
			job.Progress = p.Percent
			job.ProgressStage = p.Stage
			job.ProgressMessage = p.Message
			if err := r.store.UpdateProgress(ctx, job); err != nil {
				logger.Warn("progress persist failed", logging.Error(err))
			}
			if r.OnProgress != nil {
				r.OnProgress(job, p)
			}
		},
	}

	result, err := r.pipeline.Render(ctx, spec)
	if err != nil {
		return r.fail(ctx, job, err)
	}

	job.VideoPath = result.VideoPath
	job.SubtitlePath = result.SubtitlePath
	job.SegmentCount = result.SegmentCount
	job.DurationMS = result.DurationMS
	if err := r.store.MarkSucceeded(ctx, job); err != nil {
		return fmt.Errorf("mark succeeded: %w", err)
	}
	logger.Info("render job succeeded",
		logging.String(logging.FieldPath, result.VideoPath),
		logging.Int64(logging.FieldDuration, result.DurationMS))
	if err := r.notifier.NotifyRenderCompleted(ctx, job.Project, result.VideoPath, time.Since(started)); err != nil {
		logger.Warn("completion notification failed", logging.Error(err))
	}
	if r.OnFinished != nil {
		r.OnFinished(job)
	}
	return nil
}

// Poll drains the queue until the context is canceled, sleeping between
// empty polls.
func (r *JobRunner) Poll(ctx context.Context, interval time.Duration) error {
	for {
		_, err := r.RunNext(ctx)
		switch {
		case errors.Is(err, queue.ErrNotFound):
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			r.logger.Error("render job failed", logging.Error(err))
		}
	}
}

// lockProject takes the per-project file lock. Two renders of one project
// would race on output names, so the second is rejected instead of queued
// behind the first.
func (r *JobRunner) lockProject(project string) (func(), error) {
	if err := os.MkdirAll(r.cfg.Paths.WorkspaceDir, 0o755); err != nil {
		return nil, fmt.Errorf("workspace dir: %w", err)
	}
	lock := flock.New(filepath.Join(r.cfg.Paths.WorkspaceDir, outputBase(&Manifest{Project: project})+".lock"))
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("project lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("project %q is locked by another render", project)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("project unlock failed", logging.Error(err))
		}
	}, nil
}

func (r *JobRunner) fail(ctx context.Context, job *queue.Job, cause error) error {
	r.logger.Error("render job failed",
		logging.Int64(logging.FieldJobID, job.ID), logging.Error(cause))
	// Terminal state must persist even when the render was canceled.
	if err := r.store.MarkFailed(context.WithoutCancel(ctx), job, cause.Error()); err != nil {
		return errors.Join(cause, err)
	}
	if err := r.notifier.NotifyRenderFailed(context.WithoutCancel(ctx), job.Project, cause.Error()); err != nil {
		r.logger.Warn("failure notification failed", logging.Error(err))
	}
	if r.OnFinished != nil {
		r.OnFinished(job)
	}
	return cause
}
