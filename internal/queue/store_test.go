package queue

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewJobLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	job, err := store.NewJob(ctx, "project-7", `{"segments":[]}`)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if job.Status != StatusQueued {
		t.Errorf("status = %q, want queued", job.Status)
	}
	if job.CreatedAt.IsZero() {
		t.Error("created_at not stamped")
	}

	if err := store.MarkRunning(ctx, job); err != nil {
		t.Fatalf("MarkRunning: %v", err)
	}
	if job.StartedAt == nil {
		t.Error("started_at not stamped")
	}

	job.Progress = 42.5
	job.ProgressStage = "segments"
	job.ProgressMessage = "segment 3/7"
	if err := store.UpdateProgress(ctx, job); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	loaded, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.Progress != 42.5 || loaded.ProgressStage != "segments" {
		t.Errorf("progress = %v/%q", loaded.Progress, loaded.ProgressStage)
	}

	job.VideoPath = "/out/final.mp4"
	job.SubtitlePath = "/out/final.zh.srt"
	job.SegmentCount = 7
	job.DurationMS = 41000
	if err := store.MarkSucceeded(ctx, job); err != nil {
		t.Fatalf("MarkSucceeded: %v", err)
	}

	loaded, err = store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Status != StatusSucceeded || loaded.Progress != 100 {
		t.Errorf("final state = %q/%v", loaded.Status, loaded.Progress)
	}
	if loaded.VideoPath != "/out/final.mp4" || loaded.SegmentCount != 7 {
		t.Errorf("result fields not persisted: %+v", loaded)
	}
	if loaded.FinishedAt == nil {
		t.Error("finished_at not stamped")
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	job, err := store.NewJob(ctx, "p", "{}")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.MarkFailed(ctx, job, "zero surviving segment clips"); err != nil {
		t.Fatal(err)
	}
	if err := store.MarkRunning(ctx, job); !errors.Is(err, ErrTerminal) {
		t.Errorf("MarkRunning on failed job = %v, want ErrTerminal", err)
	}
	if err := store.MarkSucceeded(ctx, job); !errors.Is(err, ErrTerminal) {
		t.Errorf("MarkSucceeded on failed job = %v, want ErrTerminal", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.GetByID(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNextQueuedClaimsOldest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.NewJob(ctx, "a", "{}")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.NewJob(ctx, "b", "{}"); err != nil {
		t.Fatal(err)
	}

	claimed, err := store.NextQueued(ctx)
	if err != nil {
		t.Fatalf("NextQueued: %v", err)
	}
	if claimed.ID != first.ID {
		t.Errorf("claimed job %d, want oldest %d", claimed.ID, first.ID)
	}
	if claimed.Status != StatusRunning {
		t.Errorf("claimed status = %q, want running", claimed.Status)
	}
}

func TestNextQueuedDrained(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.NextQueued(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStatsAndClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	done, err := store.NewJob(ctx, "p", "{}")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.MarkSucceeded(ctx, done); err != nil {
		t.Fatal(err)
	}
	if _, err := store.NewJob(ctx, "p", "{}"); err != nil {
		t.Fatal(err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 2 || stats.Succeeded != 1 || stats.Queued != 1 {
		t.Errorf("stats = %+v", stats)
	}

	removed, err := store.ClearTerminal(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	jobs, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || jobs[0].Status != StatusQueued {
		t.Errorf("remaining jobs = %v", jobs)
	}
}
