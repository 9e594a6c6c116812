//go:build integration

package itest

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// ffmpegFixture shells out to the real ffmpeg to synthesize test media.
func ffmpegFixture(t *testing.T, args ...string) {
	t.Helper()
	cmd := exec.Command("ffmpeg", append([]string{"-y"}, args...)...)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}
}

// makeSourceVideo writes a color-bar video with a sine tone.
func makeSourceVideo(t *testing.T, path string, seconds int) {
	t.Helper()
	ffmpegFixture(t,
		"-f", "lavfi", "-i", fmt.Sprintf("testsrc=size=1280x720:rate=30:duration=%d", seconds),
		"-f", "lavfi", "-i", fmt.Sprintf("sine=frequency=440:duration=%d", seconds),
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-c:a", "aac",
		path,
	)
}

// makeNarrationWav writes a sine-tone wav of the given length.
func makeNarrationWav(t *testing.T, path string, seconds float64) {
	t.Helper()
	ffmpegFixture(t,
		"-f", "lavfi", "-i", fmt.Sprintf("sine=frequency=220:duration=%.1f", seconds),
		path,
	)
}

// makeBackgroundImage writes one solid-color png.
func makeBackgroundImage(t *testing.T, path, color string) {
	t.Helper()
	ffmpegFixture(t,
		"-f", "lavfi", "-i", fmt.Sprintf("color=c=%s:s=1920x1080:d=0.1", color),
		"-frames:v", "1",
		path,
	)
}

func mkdirAll(t *testing.T, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
}

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, "Output", "unified_script.json")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return p
}
