// Package ffmpeg shells out to ffmpeg/ffprobe. Every invocation is a
// blocking call with a bounded timeout; a timeout surfaces as a tool
// failure, with the tool's output preserved verbatim in the error.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"clipforge/internal/ports"
	"clipforge/internal/profile"
	"clipforge/internal/timestamp"
)

const (
	DefaultProbeTimeout  = 30 * time.Second
	DefaultRenderTimeout = 10 * time.Minute
)

type Adapter struct {
	ffmpeg  string
	ffprobe string

	probeTimeout  time.Duration
	renderTimeout time.Duration
}

var _ ports.Transcoder = (*Adapter)(nil)

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{
		ffmpeg:        ffmpegPath,
		ffprobe:       ffprobePath,
		probeTimeout:  DefaultProbeTimeout,
		renderTimeout: DefaultRenderTimeout,
	}
}

// WithTimeouts overrides the per-call deadlines. Zero values keep defaults.
func (a *Adapter) WithTimeouts(probe, render time.Duration) *Adapter {
	if probe > 0 {
		a.probeTimeout = probe
	}
	if render > 0 {
		a.renderTimeout = render
	}
	return a
}

func (a *Adapter) Available(ctx context.Context) error {
	for _, bin := range []string{a.ffmpeg, a.ffprobe} {
		if _, err := a.run(ctx, a.probeTimeout, bin, "-version"); err != nil {
			return fmt.Errorf("%s unavailable: %w", bin, err)
		}
	}
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (float64, error) {
	b, err := a.run(ctx, a.probeTimeout, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func (a *Adapter) CutClip(ctx context.Context, source string, startSec, durationSec float64, outPath string) error {
	args := []string{
		"-y",
		"-ss", timestamp.ToTranscoderFormat(startSec),
		"-i", source,
		"-t", fmtSeconds(durationSec),
		"-vf", profile.ScaleFilter(),
		"-r", strconv.Itoa(profile.FrameRate),
		"-pix_fmt", profile.PixelFormat,
		"-c:v", profile.VideoCodec,
		"-preset", profile.VideoPreset,
		"-crf", profile.VideoCRF,
		"-c:a", profile.AudioCodec,
		"-b:a", profile.AudioBitrate,
		"-ar", strconv.Itoa(profile.AudioSampleRate),
		"-ac", strconv.Itoa(profile.AudioChannels),
		outPath,
	}
	if _, err := a.run(ctx, a.renderTimeout, a.ffmpeg, args...); err != nil {
		return fmt.Errorf("ffmpeg cut clip: %w", err)
	}
	return nil
}

func (a *Adapter) StillToVideo(ctx context.Context, imagePath, audioPath string, durationSec float64, outPath string) error {
	args := []string{
		"-y",
		"-loop", "1",
		"-framerate", strconv.Itoa(profile.FrameRate),
		"-i", imagePath,
		"-i", audioPath,
		"-t", fmtSeconds(durationSec),
		"-vf", profile.ScaleFilter(),
		"-r", strconv.Itoa(profile.FrameRate),
		"-pix_fmt", profile.PixelFormat,
		"-c:v", profile.VideoCodec,
		"-tune", "stillimage",
		"-preset", profile.VideoPreset,
		"-crf", profile.VideoCRF,
		"-c:a", profile.AudioCodec,
		"-b:a", profile.AudioBitrate,
		"-ar", strconv.Itoa(profile.AudioSampleRate),
		"-ac", strconv.Itoa(profile.AudioChannels),
		outPath,
	}
	if _, err := a.run(ctx, a.renderTimeout, a.ffmpeg, args...); err != nil {
		return fmt.Errorf("ffmpeg still to video: %w", err)
	}
	return nil
}

func (a *Adapter) ConcatFilter(ctx context.Context, inputs []string, outPath string) error {
	args := []string{"-y"}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}
	var graph strings.Builder
	for i := range inputs {
		fmt.Fprintf(&graph, "[%d:v:0][%d:a:0]", i, i)
	}
	fmt.Fprintf(&graph, "concat=n=%d:v=1:a=1[outv][outa]", len(inputs))
	args = append(args,
		"-filter_complex", graph.String(),
		"-map", "[outv]",
		"-map", "[outa]",
		"-r", strconv.Itoa(profile.FrameRate),
		"-pix_fmt", profile.PixelFormat,
		"-c:v", profile.VideoCodec,
		"-preset", profile.VideoPreset,
		"-crf", profile.VideoCRF,
		"-c:a", profile.AudioCodec,
		"-b:a", profile.AudioBitrate,
		"-ar", strconv.Itoa(profile.AudioSampleRate),
		outPath,
	)
	if _, err := a.run(ctx, a.renderTimeout, a.ffmpeg, args...); err != nil {
		return fmt.Errorf("ffmpeg concat: %w", err)
	}
	return nil
}

func (a *Adapter) run(ctx context.Context, timeout time.Duration, bin string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return b, fmt.Errorf("timed out after %s: %w\n%s", timeout, err, string(b))
		}
		return b, fmt.Errorf("%w\n%s", err, string(b))
	}
	return b, nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
