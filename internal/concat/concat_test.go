package concat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipforge/internal/ports"
)

type fakeTranscoder struct {
	concatInputs []string
	concatErr    error
	outDuration  float64
}

func (f *fakeTranscoder) Available(context.Context) error { return nil }

func (f *fakeTranscoder) ProbeDuration(context.Context, string) (float64, error) {
	return f.outDuration, nil
}

func (f *fakeTranscoder) ProbeStreams(context.Context, string) ([]ports.StreamInfo, error) {
	return nil, nil
}

func (f *fakeTranscoder) CutClip(context.Context, string, float64, float64, string) error {
	return nil
}

func (f *fakeTranscoder) StillToVideo(context.Context, string, string, float64, string) error {
	return nil
}

func (f *fakeTranscoder) ConcatFilter(_ context.Context, inputs []string, outPath string) error {
	if f.concatErr != nil {
		return f.concatErr
	}
	f.concatInputs = inputs
	return os.WriteFile(outPath, []byte("compiled"), 0o644)
}

func inputFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var out []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte("v"), 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
		out = append(out, p)
	}
	return out
}

func TestConcatenate(t *testing.T) {
	fake := &fakeTranscoder{outDuration: 42.5}
	files := inputFiles(t, "a.mp4", "b.mp4", "c.mp4")
	out := filepath.Join(t.TempDir(), "final", "compiled.mp4")

	res, err := New(fake, nil).Concatenate(context.Background(), files, out)
	if err != nil {
		t.Fatalf("concatenate: %v", err)
	}
	if len(fake.concatInputs) != 3 || fake.concatInputs[0] != files[0] {
		t.Fatalf("input order not preserved: %v", fake.concatInputs)
	}
	if res.Duration != 42.5 || res.FileSize == 0 || res.OutputPath != out {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestConcatenate_MissingInputRejectedBeforeInvocation(t *testing.T) {
	fake := &fakeTranscoder{}
	files := inputFiles(t, "a.mp4")
	files = append(files, filepath.Join(t.TempDir(), "missing.mp4"))

	_, err := New(fake, nil).Concatenate(context.Background(), files, filepath.Join(t.TempDir(), "o.mp4"))
	if err == nil {
		t.Fatal("expected missing-input error")
	}
	if !strings.Contains(err.Error(), "missing.mp4") {
		t.Fatalf("error must name the file: %v", err)
	}
	if fake.concatInputs != nil {
		t.Fatal("tool must not be invoked when inputs are missing")
	}
}

func TestConcatenate_ToolErrorSurfacedVerbatim(t *testing.T) {
	fake := &fakeTranscoder{concatErr: errors.New("ffmpeg concat: exit status 1\nfilter mismatch")}
	files := inputFiles(t, "a.mp4")

	_, err := New(fake, nil).Concatenate(context.Background(), files, filepath.Join(t.TempDir(), "o.mp4"))
	if err == nil || !strings.Contains(err.Error(), "filter mismatch") {
		t.Fatalf("tool text not preserved: %v", err)
	}
}

func TestConcatenate_NoInputs(t *testing.T) {
	if _, err := New(&fakeTranscoder{}, nil).Concatenate(context.Background(), nil, "o.mp4"); err == nil {
		t.Fatal("expected error for empty input list")
	}
}
