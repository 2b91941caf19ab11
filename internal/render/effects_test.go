package render

import (
	"strings"
	"testing"
)

func TestEffectForIsDeterministic(t *testing.T) {
	for seg := 0; seg < 5; seg++ {
		for scene := 0; scene < 5; scene++ {
			first := effectFor(seg, scene)
			for i := 0; i < 3; i++ {
				if got := effectFor(seg, scene); got != first {
					t.Fatalf("effectFor(%d, %d) changed between calls: %v then %v", seg, scene, first, got)
				}
			}
		}
	}
}

func TestEffectForDependsOnBothIndexes(t *testing.T) {
	seen := map[Effect]bool{}
	for seg := 0; seg < 10; seg++ {
		for scene := 0; scene < 10; scene++ {
			effect := effectFor(seg, scene)
			if effect < EffectZoomIn || effect >= effectCount {
				t.Fatalf("effectFor(%d, %d) out of range: %d", seg, scene, effect)
			}
			seen[effect] = true
		}
	}
	if len(seen) < 3 {
		t.Fatalf("100 position pairs produced only %d distinct effects", len(seen))
	}
}

func TestMotionStagesLinearExpressions(t *testing.T) {
	stages := motionStages(EffectZoomIn, 0.05, 90, 1080, 1920, 30)
	if len(stages) != 2 {
		t.Fatalf("expected upscale and zoompan stages, got %d", len(stages))
	}
	zoompan := stages[1].String()
	if !strings.HasPrefix(zoompan, "zoompan=") {
		t.Fatalf("second stage is not zoompan: %s", zoompan)
	}
	for _, want := range []string{"d=90", "s=1080x1920", "fps=30", "on/90"} {
		if !strings.Contains(zoompan, want) {
			t.Errorf("zoompan stage missing %q: %s", want, zoompan)
		}
	}
	if !strings.Contains(zoompan, "1.0+0.0500*") {
		t.Errorf("zoom-in expression not linear from 1.0: %s", zoompan)
	}
}

func TestMotionStagesCapsIntensity(t *testing.T) {
	stages := motionStages(EffectZoomIn, 0.5, 60, 1920, 1080, 30)
	zoompan := stages[1].String()
	if strings.Contains(zoompan, "0.5") {
		t.Fatalf("configured intensity used uncapped: %s", zoompan)
	}
	if !strings.Contains(zoompan, "0.0800") {
		t.Fatalf("expected capped intensity in expression: %s", zoompan)
	}
}

func TestMotionStagesPanKeepsFixedZoom(t *testing.T) {
	for _, effect := range []Effect{EffectPanLeft, EffectPanRight, EffectPanUp, EffectPanDown} {
		zoompan := motionStages(effect, 0.05, 60, 1920, 1080, 30)[1].String()
		if !strings.Contains(zoompan, "z='1.0500'") {
			t.Errorf("%v: pan should hold constant zoom: %s", effect, zoompan)
		}
		if !strings.Contains(zoompan, "on/60") {
			t.Errorf("%v: pan expression not linear in frame counter: %s", effect, zoompan)
		}
	}
}

func TestStillStagesScaleAndPad(t *testing.T) {
	stages := stillStages(1080, 1920)
	if len(stages) != 2 {
		t.Fatalf("expected scale and pad stages, got %d", len(stages))
	}
	if got := stages[0].String(); got != "scale=w=1080:h=1920:force_original_aspect_ratio=decrease" {
		t.Errorf("unexpected scale stage: %s", got)
	}
	pad := stages[1].String()
	for _, want := range []string{"pad=", "w=1080", "h=1920", "x='(ow-iw)/2'", "color=black"} {
		if !strings.Contains(pad, want) {
			t.Errorf("pad stage missing %q: %s", want, pad)
		}
	}
}

func TestEffectStrings(t *testing.T) {
	names := map[Effect]string{
		EffectZoomIn:   "zoom-in",
		EffectZoomOut:  "zoom-out",
		EffectPanLeft:  "pan-left",
		EffectPanRight: "pan-right",
		EffectPanUp:    "pan-up",
		EffectPanDown:  "pan-down",
	}
	for effect, want := range names {
		if got := effect.String(); got != want {
			t.Errorf("Effect(%d).String() = %q, want %q", effect, got, want)
		}
	}
}
