package audiovideo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"clipforge/internal/ports"
	"clipforge/internal/script"
)

func TestBackgroundPicker_Rules(t *testing.T) {
	p := NewBackgroundPicker("fixed.png", []string{"a.png", "b.png", "c.png", "fixed.png"})
	p.intn = func(n int) int { return 1 } // deterministic draw

	sequence := []script.SectionType{
		script.SectionIntro,
		script.SectionPreClip,
		script.SectionPostClip,
		script.SectionPreClip,
		script.SectionOutro,
	}
	want := []string{"fixed.png", "fixed.png", "b.png", "b.png", "b.png"}
	for i, st := range sequence {
		if got := p.PickFor(st); got != want[i] {
			t.Fatalf("step %d (%s): got %q, want %q", i, st, got, want[i])
		}
	}
}

func TestBackgroundPicker_IntroResetsAfterPostClip(t *testing.T) {
	p := NewBackgroundPicker("fixed.png", []string{"a.png"})
	p.intn = func(n int) int { return 0 }

	if got := p.PickFor(script.SectionPostClip); got != "a.png" {
		t.Fatalf("post_clip draw = %q", got)
	}
	if got := p.PickFor(script.SectionIntroPlusHook); got != "fixed.png" {
		t.Fatalf("intro variant must reset, got %q", got)
	}
}

func TestBackgroundPicker_ExcludesDesignatedFromPool(t *testing.T) {
	p := NewBackgroundPicker("fixed.png", []string{"fixed.png"})
	// Pool is empty after filtering; post_clip has nothing to draw and the
	// current image stays.
	if got := p.PickFor(script.SectionPostClip); got != "fixed.png" {
		t.Fatalf("got %q", got)
	}
}

func TestBackgroundPicker_UnknownTypeInherits(t *testing.T) {
	p := NewBackgroundPicker("fixed.png", []string{"a.png"})
	p.intn = func(n int) int { return 0 }
	p.PickFor(script.SectionPostClip)
	if got := p.PickFor(script.SectionType("")); got != "a.png" {
		t.Fatalf("unknown narration type must inherit, got %q", got)
	}
}

type fakeTranscoder struct {
	audioDur   float64
	probeErr   error
	stillCalls []stillCall
	streams    []ports.StreamInfo
}

type stillCall struct {
	image    string
	audio    string
	duration float64
	out      string
}

func (f *fakeTranscoder) Available(context.Context) error { return nil }

func (f *fakeTranscoder) ProbeDuration(context.Context, string) (float64, error) {
	return f.audioDur, f.probeErr
}

func (f *fakeTranscoder) ProbeStreams(context.Context, string) ([]ports.StreamInfo, error) {
	if f.streams == nil {
		return nil, errors.New("unreadable")
	}
	return f.streams, nil
}

func (f *fakeTranscoder) CutClip(context.Context, string, float64, float64, string) error {
	return nil
}

func (f *fakeTranscoder) StillToVideo(_ context.Context, image, audio string, duration float64, out string) error {
	f.stillCalls = append(f.stillCalls, stillCall{image, audio, duration, out})
	return os.WriteFile(out, []byte("seg"), 0o644)
}

func (f *fakeTranscoder) ConcatFilter(context.Context, []string, string) error { return nil }

func testImage(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("png"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return p
}

func TestConvert(t *testing.T) {
	img := testImage(t, "fixed.png")
	fake := &fakeTranscoder{audioDur: 12.5}
	c := New(fake, NewBackgroundPicker(img, nil), nil)

	out := filepath.Join(t.TempDir(), "segments", "intro.mp4")
	if err := c.Convert(context.Background(), "intro.wav", out, script.SectionIntro); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(fake.stillCalls) != 1 {
		t.Fatalf("still calls = %d", len(fake.stillCalls))
	}
	call := fake.stillCalls[0]
	if call.image != img || call.duration != 12.5 || call.out != out {
		t.Fatalf("unexpected call: %+v", call)
	}
}

func TestConvert_ProbeFailure(t *testing.T) {
	img := testImage(t, "fixed.png")
	fake := &fakeTranscoder{probeErr: errors.New("no such file")}
	c := New(fake, NewBackgroundPicker(img, nil), nil)

	err := c.Convert(context.Background(), "intro.wav", filepath.Join(t.TempDir(), "o.mp4"), script.SectionIntro)
	if err == nil {
		t.Fatal("expected probe error")
	}
}

func TestConvert_MissingBackground(t *testing.T) {
	fake := &fakeTranscoder{audioDur: 5}
	c := New(fake, NewBackgroundPicker(filepath.Join(t.TempDir(), "gone.png"), nil), nil)
	if err := c.Convert(context.Background(), "a.wav", filepath.Join(t.TempDir(), "o.mp4"), script.SectionIntro); err == nil {
		t.Fatal("expected missing-image error")
	}
}

func TestValidate(t *testing.T) {
	onProfile := []ports.StreamInfo{
		{CodecType: "video", Width: 1920, Height: 1080, AvgFrameRate: "30/1"},
		{CodecType: "audio", SampleRate: "44100", Channels: 2},
	}
	offProfile := []ports.StreamInfo{
		{CodecType: "video", Width: 1280, Height: 720, AvgFrameRate: "25/1"},
		{CodecType: "audio", SampleRate: "48000", Channels: 1},
	}

	cases := []struct {
		name    string
		streams []ports.StreamInfo
		want    bool
	}{
		{"matching profile", onProfile, true},
		{"off profile", offProfile, false},
		{"unreadable", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(&fakeTranscoder{streams: tc.streams}, NewBackgroundPicker("x.png", nil), nil)
			if got := c.Validate(context.Background(), "seg.mp4"); got != tc.want {
				t.Fatalf("Validate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseRate(t *testing.T) {
	cases := map[string]float64{
		"30/1": 30,
		"25":   25,
		"":     0,
		"x/1":  0,
		"30/0": 0,
	}
	for in, want := range cases {
		if got := parseRate(in); got != want {
			t.Fatalf("parseRate(%q) = %v, want %v", in, got, want)
		}
	}
	if got := parseRate("30000/1001"); got < 29.96 || got > 29.98 {
		t.Fatalf("parseRate(30000/1001) = %v", got)
	}
}
