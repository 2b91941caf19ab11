package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slidecast/internal/captions"
)

func TestCaptionStagesWriteArtifactsAndFilters(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, &fakeRunner{}, nil)
	dir := t.TempDir()

	track := captions.NewTrack("第一句话。第二句话。", "重点提示", 4000)
	stages, err := p.captionStages(dir, 3, track)
	if err != nil {
		t.Fatal(err)
	}
	if len(stages) != 2 {
		t.Fatalf("expected subtitles and drawtext stages, got %d", len(stages))
	}

	subtitles := stages[0].String()
	if !strings.HasPrefix(subtitles, "subtitles=") {
		t.Fatalf("first stage is not subtitles: %s", subtitles)
	}
	assPath := filepath.Join(dir, "seg003.ass")
	if _, err := os.Stat(assPath); err != nil {
		t.Fatalf("caption file not written: %v", err)
	}

	drawtext := stages[1].String()
	if !strings.HasPrefix(drawtext, "drawtext=") {
		t.Fatalf("second stage is not drawtext: %s", drawtext)
	}
	for _, want := range []string{"fontcolor=white", "bordercolor=black", "borderw=2", "x='(w-text_w)/2'"} {
		if !strings.Contains(drawtext, want) {
			t.Errorf("drawtext stage missing %q: %s", want, drawtext)
		}
	}
	textPath := filepath.Join(dir, "seg003_onscreen.txt")
	if _, err := os.Stat(textPath); err != nil {
		t.Fatalf("on-screen text file not written: %v", err)
	}
}

func TestCaptionStagesSkipWhenDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Subtitle.BurnIn = false
	p := New(cfg, &fakeRunner{}, nil)

	track := captions.NewTrack("一句话。", "", 2000)
	stages, err := p.captionStages(t.TempDir(), 0, track)
	if err != nil {
		t.Fatal(err)
	}
	if stages != nil {
		t.Fatalf("expected no stages with burn-in disabled, got %d", len(stages))
	}
}
