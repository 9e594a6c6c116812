package extractor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipforge/internal/ports"
	"clipforge/internal/types"
)

// fakeTranscoder writes synthetic outputs and can be told to fail.
type fakeTranscoder struct {
	cutCalls    int
	failCuts    int // fail this many cut calls before succeeding
	cutBytes    int
	unavailable bool
	noVideo     bool
	probeDur    map[string]float64
}

func newFake() *fakeTranscoder {
	return &fakeTranscoder{cutBytes: 4096, probeDur: map[string]float64{}}
}

func (f *fakeTranscoder) Available(context.Context) error {
	if f.unavailable {
		return errors.New("no ffmpeg on PATH")
	}
	return nil
}

func (f *fakeTranscoder) ProbeDuration(_ context.Context, path string) (float64, error) {
	if d, ok := f.probeDur[path]; ok {
		return d, nil
	}
	return 0, errors.New("unknown file")
}

func (f *fakeTranscoder) ProbeStreams(_ context.Context, path string) ([]ports.StreamInfo, error) {
	if f.noVideo {
		return []ports.StreamInfo{{CodecType: "audio"}}, nil
	}
	return []ports.StreamInfo{{CodecType: "video", Width: 1920, Height: 1080}}, nil
}

func (f *fakeTranscoder) CutClip(_ context.Context, _ string, _, durationSec float64, outPath string) error {
	f.cutCalls++
	if f.cutCalls <= f.failCuts {
		return errors.New("ffmpeg cut clip: exit status 1\nboom")
	}
	f.probeDur[outPath] = durationSec
	return os.WriteFile(outPath, bytes.Repeat([]byte{0}, f.cutBytes), 0o644)
}

func (f *fakeTranscoder) StillToVideo(_ context.Context, _, _ string, durationSec float64, outPath string) error {
	f.probeDur[outPath] = durationSec
	return os.WriteFile(outPath, bytes.Repeat([]byte{0}, f.cutBytes), 0o644)
}

func (f *fakeTranscoder) ConcatFilter(_ context.Context, _ []string, outPath string) error {
	return os.WriteFile(outPath, bytes.Repeat([]byte{0}, f.cutBytes), 0o644)
}

func spec(id, start, end string) types.ClipSpecification {
	return types.ClipSpecification{SectionID: id, StartTime: start, EndTime: end, Title: id}
}

func sourceVideo(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "original_video.mp4")
	if err := os.WriteFile(src, []byte("vid"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return src
}

func TestExtractClip_Success(t *testing.T) {
	fake := newFake()
	e := New(fake, nil)
	outDir := t.TempDir()

	res := e.ExtractClip(context.Background(), "src.mp4", spec("clip_01", "10", "25"), outDir, 2, 3)
	if !res.Success || res.Skipped {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.OutputPath != filepath.Join(outDir, "clip_01.mp4") {
		t.Fatalf("output path: %s", res.OutputPath)
	}
	// start 10 - buffer 2 = 8; end 25 + buffer 3 = 28; duration 20
	if d := fake.probeDur[res.OutputPath]; d != 20 {
		t.Fatalf("cut duration = %v, want 20", d)
	}
	if res.FileSize != 4096 {
		t.Fatalf("file size = %d", res.FileSize)
	}
}

func TestExtractClip_StartBufferClampsAtZero(t *testing.T) {
	fake := newFake()
	e := New(fake, nil)
	outDir := t.TempDir()

	res := e.ExtractClip(context.Background(), "src.mp4", spec("clip_01", "1", "10"), outDir, 5, 0)
	if !res.Success {
		t.Fatalf("extract failed: %s", res.Error)
	}
	// clamped start 0, so duration is the full 10 seconds
	if d := fake.probeDur[res.OutputPath]; d != 10 {
		t.Fatalf("cut duration = %v, want 10", d)
	}
}

func TestExtractClip_RetriesThenSucceeds(t *testing.T) {
	fake := newFake()
	fake.failCuts = 2
	e := New(fake, nil)

	res := e.ExtractClip(context.Background(), "src.mp4", spec("c", "0", "10"), t.TempDir(), 0, 0)
	if !res.Success {
		t.Fatalf("expected success after retries: %s", res.Error)
	}
	if fake.cutCalls != 3 {
		t.Fatalf("cut calls = %d, want 3", fake.cutCalls)
	}
}

func TestExtractClip_FailsAfterBudget(t *testing.T) {
	fake := newFake()
	fake.failCuts = 99
	e := New(fake, nil)
	outDir := t.TempDir()

	res := e.ExtractClip(context.Background(), "src.mp4", spec("c", "0", "10"), outDir, 0, 0)
	if res.Success {
		t.Fatal("expected failure")
	}
	if fake.cutCalls != 3 {
		t.Fatalf("cut calls = %d, want 3", fake.cutCalls)
	}
	if !strings.Contains(res.Error, "boom") {
		t.Fatalf("tool output not preserved: %q", res.Error)
	}
	if _, err := os.Stat(filepath.Join(outDir, "c.mp4")); !os.IsNotExist(err) {
		t.Fatalf("partial output left behind: %v", err)
	}
}

func TestExtractClip_ValidationFailureRetries(t *testing.T) {
	fake := newFake()
	fake.cutBytes = 100 // under the size floor
	e := New(fake, nil)

	res := e.ExtractClip(context.Background(), "src.mp4", spec("c", "0", "10"), t.TempDir(), 0, 0)
	if res.Success {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(res.Error, "validation") {
		t.Fatalf("unexpected error: %q", res.Error)
	}
}

func TestExtractClip_NoVideoStreamFails(t *testing.T) {
	fake := newFake()
	fake.noVideo = true
	e := New(fake, nil)

	res := e.ExtractClip(context.Background(), "src.mp4", spec("c", "0", "10"), t.TempDir(), 0, 0)
	if res.Success {
		t.Fatal("expected failure for video-less output")
	}
}

func TestExtractClip_IdempotentWithinTolerance(t *testing.T) {
	fake := newFake()
	e := New(fake, nil)
	outDir := t.TempDir()
	existing := filepath.Join(outDir, "c.mp4")
	if err := os.WriteFile(existing, bytes.Repeat([]byte{1}, 2048), 0o644); err != nil {
		t.Fatalf("seed existing: %v", err)
	}
	fake.probeDur[existing] = 10.4 // expected 10, within 1.0s

	res := e.ExtractClip(context.Background(), "src.mp4", spec("c", "0", "10"), outDir, 0, 0)
	if !res.Success || !res.Skipped {
		t.Fatalf("expected skip, got %+v", res)
	}
	if fake.cutCalls != 0 {
		t.Fatalf("transcoder must not be re-invoked, got %d calls", fake.cutCalls)
	}
}

func TestExtractClip_StaleOutputReExtracted(t *testing.T) {
	fake := newFake()
	e := New(fake, nil)
	outDir := t.TempDir()
	existing := filepath.Join(outDir, "c.mp4")
	if err := os.WriteFile(existing, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed existing: %v", err)
	}
	fake.probeDur[existing] = 25 // expected 10, off by far more than 1.0s

	res := e.ExtractClip(context.Background(), "src.mp4", spec("c", "0", "10"), outDir, 0, 0)
	if !res.Success || res.Skipped {
		t.Fatalf("expected fresh extraction, got %+v", res)
	}
	if fake.cutCalls != 1 {
		t.Fatalf("cut calls = %d, want 1", fake.cutCalls)
	}
}

func TestExtractClips_Report(t *testing.T) {
	fake := newFake()
	e := New(fake, nil)
	outDir := t.TempDir()
	src := sourceVideo(t)

	specs := []types.ClipSpecification{
		spec("a", "0", "10"),
		spec("b", "bad", "worse"), // unparseable bounds fail extraction
		spec("c", "20", "30"),
	}
	rep, err := e.ExtractClips(context.Background(), src, specs, outDir, BatchOptions{ContinueOnError: true})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if rep.Succeeded != 2 || rep.Failed != 1 || rep.Skipped != 0 {
		t.Fatalf("counts = %d/%d/%d", rep.Succeeded, rep.Failed, rep.Skipped)
	}
	if len(rep.Errors) != 1 || !strings.HasPrefix(rep.Errors[0], "b: ") {
		t.Fatalf("errors: %v", rep.Errors)
	}

	if err := WriteReport(rep, outDir); err != nil {
		t.Fatalf("write report: %v", err)
	}
	for _, name := range []string{"extraction_report.json", "extraction_summary.txt"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	summary := RenderSummary(rep)
	if !strings.Contains(summary, "2 ok / 0 exist / 1 failed") {
		t.Fatalf("summary footer missing:\n%s", summary)
	}
}

func TestExtractClips_StopsWithoutContinueOnError(t *testing.T) {
	fake := newFake()
	fake.failCuts = 99
	e := New(fake, nil)
	src := sourceVideo(t)

	specs := []types.ClipSpecification{spec("a", "0", "10"), spec("b", "20", "30")}
	rep, err := e.ExtractClips(context.Background(), src, specs, t.TempDir(), BatchOptions{})
	if err == nil {
		t.Fatal("expected batch error")
	}
	if len(rep.Results) != 1 {
		t.Fatalf("batch must stop at first failure, processed %d", len(rep.Results))
	}
}

func TestExtractClips_Preflight(t *testing.T) {
	e := New(newFake(), nil)
	if _, err := e.ExtractClips(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), nil, t.TempDir(), BatchOptions{}); err == nil {
		t.Fatal("expected missing-source error")
	}

	fake := newFake()
	fake.unavailable = true
	e = New(fake, nil)
	rep, err := e.ExtractClips(context.Background(), sourceVideo(t), []types.ClipSpecification{spec("a", "0", "10")}, t.TempDir(), BatchOptions{})
	if err == nil {
		t.Fatal("expected transcoder-unavailable error")
	}
	if len(rep.Results) != 0 {
		t.Fatalf("preflight failure must make zero attempts, got %d", len(rep.Results))
	}
	if fake.cutCalls != 0 {
		t.Fatalf("no cuts expected, got %d", fake.cutCalls)
	}
}
