// Package audiovideo turns narration audio files into video segments by
// looping a background image for the audio's exact duration.
package audiovideo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"clipforge/internal/ports"
	"clipforge/internal/profile"
	"clipforge/internal/script"
)

type Converter struct {
	tc     ports.Transcoder
	picker *BackgroundPicker
	log    *zap.Logger
}

func New(tc ports.Transcoder, picker *BackgroundPicker, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{tc: tc, picker: picker, log: log}
}

// Convert renders audioPath into a video at outPath, selecting the
// background image by the section type rules and matching the audio's
// probed duration exactly.
func (c *Converter) Convert(ctx context.Context, audioPath, outPath string, segmentType script.SectionType) error {
	image := c.picker.PickFor(segmentType)
	if image == "" {
		return errors.New("no background image available")
	}
	if _, err := os.Stat(image); err != nil {
		return fmt.Errorf("background image: %w", err)
	}

	duration, err := c.tc.ProbeDuration(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("probe narration audio: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	if err := c.tc.StillToVideo(ctx, image, audioPath, duration, outPath); err != nil {
		return err
	}
	c.log.Info("narration converted",
		zap.String("audio", filepath.Base(audioPath)),
		zap.String("type", string(segmentType)),
		zap.String("background", filepath.Base(image)),
		zap.Float64("duration", duration))
	return nil
}

// Validate probes a produced segment against the target profile and logs
// any disagreement. Non-fatal: the return value is informational.
func (c *Converter) Validate(ctx context.Context, segmentPath string) bool {
	streams, err := c.tc.ProbeStreams(ctx, segmentPath)
	if err != nil {
		c.log.Warn("segment probe failed", zap.String("segment", segmentPath), zap.Error(err))
		return false
	}
	ok := true
	for _, s := range streams {
		switch s.CodecType {
		case "video":
			if s.Width != profile.Width || s.Height != profile.Height {
				c.log.Warn("segment resolution off profile",
					zap.String("segment", segmentPath),
					zap.Int("width", s.Width),
					zap.Int("height", s.Height))
				ok = false
			}
			if fps := parseRate(s.AvgFrameRate); fps > 0 && math.Abs(fps-profile.FrameRate) > 0.01 {
				c.log.Warn("segment frame rate off profile",
					zap.String("segment", segmentPath),
					zap.Float64("fps", fps))
				ok = false
			}
		case "audio":
			if s.SampleRate != strconv.Itoa(profile.AudioSampleRate) || s.Channels != profile.AudioChannels {
				c.log.Warn("segment audio off profile",
					zap.String("segment", segmentPath),
					zap.String("sample_rate", s.SampleRate),
					zap.Int("channels", s.Channels))
				ok = false
			}
		}
	}
	return ok
}

// parseRate reads ffprobe rational rates like "30/1".
func parseRate(r string) float64 {
	if r == "" {
		return 0
	}
	num, den, found := strings.Cut(r, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
