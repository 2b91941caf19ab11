package captions

import (
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"ascii", "One. Two! Three?", []string{"One.", "Two!", "Three?"}},
		{"cjk", "你好。世界！", []string{"你好。", "世界！"}},
		{"ellipsis", "Wait… then go.", []string{"Wait…", "then go."}},
		{"no punctuation", "just one long line", []string{"just one long line"}},
		{"repeated terminators", "Really?! Yes.", []string{"Really?!", "Yes."}},
		{"trailing text", "Done. and more", []string{"Done.", "and more"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitSentences(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d sentences %v, want %v", len(got), got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("sentence %d = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestAllocateProportional(t *testing.T) {
	// Two sentences of two characters each split 4000ms evenly.
	cues := Allocate("你好。世界！", 4000)
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2", len(cues))
	}
	if cues[0].StartMS != 0 || cues[0].EndMS != 2000 {
		t.Errorf("cue 0 = [%d,%d], want [0,2000]", cues[0].StartMS, cues[0].EndMS)
	}
	if cues[1].StartMS != 2000 || cues[1].EndMS != 4000 {
		t.Errorf("cue 1 = [%d,%d], want [2000,4000]", cues[1].StartMS, cues[1].EndMS)
	}
}

func TestAllocateCoversDurationExactly(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		duration int64
	}{
		{"uneven", "Short. A considerably longer second sentence here.", 7321},
		{"three", "一。二二。三三三。", 5000},
		{"single", "no terminator at all", 1500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cues := Allocate(tc.text, tc.duration)
			if len(cues) == 0 {
				t.Fatal("expected cues")
			}
			if cues[0].StartMS != 0 {
				t.Errorf("track starts at %d, want 0", cues[0].StartMS)
			}
			for i := 1; i < len(cues); i++ {
				if cues[i].StartMS != cues[i-1].EndMS {
					t.Errorf("gap between cue %d end %d and cue %d start %d",
						i-1, cues[i-1].EndMS, i, cues[i].StartMS)
				}
			}
			if last := cues[len(cues)-1].EndMS; last != tc.duration {
				t.Errorf("track ends at %d, want %d", last, tc.duration)
			}
		})
	}
}

func TestAllocateFloor(t *testing.T) {
	// Nine short sentences over one second: the 500ms floor outruns the
	// clip, so later sentences are dropped and the track never exceeds it.
	text := strings.Repeat("去。", 9)
	cues := Allocate(text, 1000)
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2", len(cues))
	}
	if cues[0].EndMS-cues[0].StartMS != minCueMS {
		t.Errorf("cue 0 shorter than floor: %d", cues[0].EndMS-cues[0].StartMS)
	}
	if cues[len(cues)-1].EndMS != 1000 {
		t.Errorf("track end = %d, want 1000", cues[len(cues)-1].EndMS)
	}
}

func TestAllocateEmptyNarration(t *testing.T) {
	if cues := Allocate("", 3000); cues != nil {
		t.Errorf("empty narration should yield no cues, got %v", cues)
	}
	if cues := Allocate("   ", 3000); cues != nil {
		t.Errorf("blank narration should yield no cues, got %v", cues)
	}
}

func TestNewTrackOnScreen(t *testing.T) {
	track := NewTrack("你好。", "重点提示", 2500)
	if track.OnScreen == nil {
		t.Fatal("expected persistent on-screen cue")
	}
	if track.OnScreen.StartMS != 0 || track.OnScreen.EndMS != 2500 {
		t.Errorf("on-screen cue spans [%d,%d], want [0,2500]",
			track.OnScreen.StartMS, track.OnScreen.EndMS)
	}
	if NewTrack("", "", 2500).Empty() != true {
		t.Error("track without narration or highlight should be empty")
	}
}

func TestWrapLines(t *testing.T) {
	lines := WrapLines("abcdefghij", 4)
	want := []string{"abcd", "efgh", "ij"}
	if len(lines) != len(want) {
		t.Fatalf("got %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if got := WrapASS("一二三四五六", 3); got != `一二三\N四五六` {
		t.Errorf("WrapASS = %q", got)
	}
	if got := WrapPlain("short", 10); got != "short" {
		t.Errorf("WrapPlain = %q", got)
	}
}

func TestShift(t *testing.T) {
	track := NewTrack("你好。世界！", "", 4000)
	shifted := track.Shift(10000)
	if shifted[0].StartMS != 10000 || shifted[1].EndMS != 14000 {
		t.Errorf("shifted cues = %v", shifted)
	}
	// Original cues untouched.
	if track.Cues[0].StartMS != 0 {
		t.Error("Shift must not mutate the source track")
	}
}

func TestFormatSRTTime(t *testing.T) {
	cases := map[int64]string{
		0:        "00:00:00,000",
		1234:     "00:00:01,234",
		61000:    "00:01:01,000",
		3661042:  "01:01:01,042",
		-5:       "00:00:00,000",
		45296789: "12:34:56,789",
	}
	for ms, want := range cases {
		if got := FormatSRTTime(ms); got != want {
			t.Errorf("FormatSRTTime(%d) = %q, want %q", ms, got, want)
		}
	}
}

func TestFormatASSTime(t *testing.T) {
	cases := map[int64]string{
		0:       "0:00:00.00",
		1234:    "0:00:01.23",
		3661040: "1:01:01.04",
	}
	for ms, want := range cases {
		if got := FormatASSTime(ms); got != want {
			t.Errorf("FormatASSTime(%d) = %q, want %q", ms, got, want)
		}
	}
}

func TestRenderSRT(t *testing.T) {
	cues := []Cue{
		{Text: "你好。", StartMS: 0, EndMS: 2000},
		{Text: "世界！", StartMS: 2000, EndMS: 4000},
	}
	out := RenderSRT(cues, 18)
	for _, want := range []string{
		"1\n00:00:00,000 --> 00:00:02,000\n你好。",
		"2\n00:00:02,000 --> 00:00:04,000\n世界！",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SRT output missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n\n") {
		t.Error("SRT blocks must be blank-line terminated")
	}
}

func TestRenderASS(t *testing.T) {
	style := Style{
		FontName:     "Noto Sans CJK SC",
		FontSize:     40,
		FontColor:    "FFCC00",
		MarginBottom: 80,
		MaxLineChars: 18,
		PlayResX:     1080,
		PlayResY:     1920,
	}
	out := RenderASS([]Cue{{Text: "你好。", StartMS: 0, EndMS: 2000}}, style)
	for _, want := range []string{
		"PlayResX: 1080",
		"PlayResY: 1920",
		"Style: Default,Noto Sans CJK SC,40,&H0000CCFF,",
		"Dialogue: 0,0:00:00.00,0:00:02.00,Default,,0,0,0,,你好。",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ASS output missing %q:\n%s", want, out)
		}
	}
}

func TestASSColorFallback(t *testing.T) {
	if got := assColor("nothex"); got != "&H00FFFFFF" {
		t.Errorf("assColor fallback = %q", got)
	}
	if got := assColor("extern"); got != "&H00FFFFFF" {
		t.Errorf("assColor six-char non-hex fallback = %q", got)
	}
	if got := assColor("#FF0000"); got != "&H000000FF" {
		t.Errorf("assColor red = %q", got)
	}
	if got := assColor("1a2B3c"); got != "&H003C2B1A" {
		t.Errorf("assColor mixed case = %q", got)
	}
}
