package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"slidecast/internal/config"
	"slidecast/internal/services"
	"slidecast/internal/testsupport"
)

// fakeRunner records invocations and materializes the output file each
// command would have produced, so downstream steps find their inputs.
type fakeRunner struct {
	mu       sync.Mutex
	calls    [][]string
	failWhen func(args []string) error
}

func (f *fakeRunner) Run(_ context.Context, args []string) error {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), args...))
	f.mu.Unlock()
	if f.failWhen != nil {
		if err := f.failWhen(args); err != nil {
			return err
		}
	}
	if out := outputArg(args); out != "" {
		return os.WriteFile(out, []byte("frame data"), 0o644)
	}
	return nil
}

func (f *fakeRunner) invocations() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// outputArg finds the output file in an argument list: the .mp4 path that
// does not follow -i.
func outputArg(args []string) string {
	for i, arg := range args {
		if !strings.HasSuffix(arg, ".mp4") {
			continue
		}
		if i > 0 && args[i-1] == "-i" {
			continue
		}
		return arg
	}
	return ""
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t)
}

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testManifest(t *testing.T, sceneCount int) *Manifest {
	t.Helper()
	dir := t.TempDir()
	segments := make([]Segment, 2)
	for i := range segments {
		scenes := make([]MediaReference, sceneCount)
		for j := range scenes {
			scenes[j] = MediaReference{
				Path: writeImage(t, dir, fmt.Sprintf("seg%d_scene%d.jpg", i, j)),
				Kind: MediaImage,
			}
		}
		segments[i] = Segment{
			OrderIndex:         i,
			NarrationText:      "第一句话。第二句话。",
			Scenes:             scenes,
			AuthoredDurationMS: 4000,
		}
	}
	return &Manifest{Project: "demo", Segments: segments}
}

func TestRenderSingleScenePerSegment(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{}
	pipeline := New(cfg, runner, nil)

	var updates []Progress
	result, err := pipeline.Render(context.Background(), JobSpec{
		ID:       "t1",
		Manifest: testManifest(t, 1),
		Progress: func(p Progress) { updates = append(updates, p) },
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if result.SegmentCount != 2 || result.DroppedCount != 0 {
		t.Errorf("got %d segments, %d dropped", result.SegmentCount, result.DroppedCount)
	}
	if !result.Crossfaded {
		t.Error("expected crossfaded timeline")
	}
	// Two 4.3s segments joined by one 0.5s crossfade.
	if result.DurationMS != 8100 {
		t.Errorf("duration = %dms, want 8100", result.DurationMS)
	}
	if _, err := os.Stat(result.VideoPath); err != nil {
		t.Errorf("output video missing: %v", err)
	}
	if result.SubtitlePath == "" {
		t.Error("expected a sidecar subtitle path")
	} else if !strings.HasSuffix(result.SubtitlePath, ".zh.srt") {
		t.Errorf("sidecar name %q lacks language and format suffix", result.SubtitlePath)
	}

	if len(updates) == 0 {
		t.Fatal("no progress updates")
	}
	last := 0.0
	for _, p := range updates {
		if p.Percent < last {
			t.Fatalf("progress regressed from %.1f to %.1f", last, p.Percent)
		}
		last = p.Percent
	}
	if last != 100 {
		t.Errorf("final progress = %.1f, want 100", last)
	}

	entries, err := os.ReadDir(cfg.Paths.WorkspaceDir)
	if err != nil {
		t.Fatalf("read workspace: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("workspace not cleaned up: %v", entries)
	}
}

func TestRenderMultiSceneSegmentsConcatAndMux(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{}
	pipeline := New(cfg, runner, nil)

	_, err := pipeline.Render(context.Background(), JobSpec{ID: "t2", Manifest: testManifest(t, 3)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var concats, muxes, xfades int
	for _, args := range runner.invocations() {
		joined := strings.Join(args, " ")
		if strings.Contains(joined, "-f concat") {
			concats++
		}
		if strings.Contains(joined, "xfade=") {
			xfades++
		}
		if strings.Contains(joined, "1:a:0") {
			muxes++
		}
	}
	if concats != 2 {
		t.Errorf("expected one concat per segment, got %d", concats)
	}
	if muxes != 2 {
		t.Errorf("expected one mux per segment, got %d", muxes)
	}
	if xfades != 1 {
		t.Errorf("expected one crossfade invocation, got %d", xfades)
	}
}

func TestRenderDropsFailingSegment(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{failWhen: func(args []string) error {
		for _, arg := range args {
			if strings.Contains(arg, "seg0_scene0.jpg") {
				return errors.New("encoder exploded")
			}
		}
		return nil
	}}
	pipeline := New(cfg, runner, nil)

	result, err := pipeline.Render(context.Background(), JobSpec{ID: "t3", Manifest: testManifest(t, 1)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if result.SegmentCount != 1 || result.DroppedCount != 1 {
		t.Errorf("got %d segments, %d dropped; want 1 and 1", result.SegmentCount, result.DroppedCount)
	}
	if result.Crossfaded {
		t.Error("single surviving clip must not report a crossfade")
	}
}

func TestRenderDropsSegmentWithoutVisual(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{}
	pipeline := New(cfg, runner, nil)

	manifest := testManifest(t, 1)
	manifest.Segments = append(manifest.Segments, Segment{
		OrderIndex:         2,
		NarrationText:      "没有画面的一段。",
		AuthoredDurationMS: 2000,
	})

	result, err := pipeline.Render(context.Background(), JobSpec{ID: "t3b", Manifest: manifest})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if result.SegmentCount != 2 || result.DroppedCount != 1 {
		t.Errorf("got %d segments, %d dropped; want 2 and 1", result.SegmentCount, result.DroppedCount)
	}
}

func TestRenderFailsWhenNothingSurvives(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{failWhen: func([]string) error {
		return errors.New("encoder exploded")
	}}
	pipeline := New(cfg, runner, nil)

	_, err := pipeline.Render(context.Background(), JobSpec{ID: "t4", Manifest: testManifest(t, 1)})
	if !services.IsJobFatal(err) {
		t.Fatalf("expected job-fatal error, got %v", err)
	}
}

func TestRenderFallsBackToHardCuts(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{failWhen: func(args []string) error {
		for _, arg := range args {
			if arg == "-filter_complex" {
				return errors.New("xfade unavailable")
			}
		}
		return nil
	}}
	pipeline := New(cfg, runner, nil)

	result, err := pipeline.Render(context.Background(), JobSpec{ID: "t5", Manifest: testManifest(t, 1)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if result.Crossfaded {
		t.Error("fallback result must not report a crossfade")
	}
	// Hard cuts keep the full clip sum.
	if result.DurationMS != 8600 {
		t.Errorf("duration = %dms, want 8600", result.DurationMS)
	}
}

func TestRenderHardCutTransition(t *testing.T) {
	cfg := testConfig(t)
	cfg.Composer.Transition = config.TransitionHardCut
	runner := &fakeRunner{}
	pipeline := New(cfg, runner, nil)

	result, err := pipeline.Render(context.Background(), JobSpec{ID: "t6", Manifest: testManifest(t, 1)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if result.Crossfaded {
		t.Error("hard-cut timeline must not report a crossfade")
	}
	for _, args := range runner.invocations() {
		for _, arg := range args {
			if arg == "-filter_complex" {
				t.Fatal("hard-cut render built a crossfade graph")
			}
		}
	}
}

func TestRenderSkipsMissingSceneImages(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{}
	pipeline := New(cfg, runner, nil)

	manifest := testManifest(t, 1)
	manifest.Segments[0].Scenes[0].Path = filepath.Join(t.TempDir(), "missing.jpg")

	result, err := pipeline.Render(context.Background(), JobSpec{ID: "t7", Manifest: manifest})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if result.SegmentCount != 1 || result.DroppedCount != 1 {
		t.Errorf("got %d segments, %d dropped; want 1 and 1", result.SegmentCount, result.DroppedCount)
	}
}

func TestRenderRejectsNilAndInvalidManifests(t *testing.T) {
	pipeline := New(testConfig(t), &fakeRunner{}, nil)

	if _, err := pipeline.Render(context.Background(), JobSpec{ID: "t8"}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("nil manifest: got %v, want validation error", err)
	}
	bad := &Manifest{Project: "p", Segments: []Segment{{}}}
	if _, err := pipeline.Render(context.Background(), JobSpec{ID: "t9", Manifest: bad}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("empty segment: got %v, want validation error", err)
	}
}
