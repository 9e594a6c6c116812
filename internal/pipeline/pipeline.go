// Package pipeline wires adapters into the two engine entry points: batch
// clip extraction and episode compilation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"clipforge/internal/audiovideo"
	"clipforge/internal/clipspec"
	"clipforge/internal/compile"
	"clipforge/internal/config"
	"clipforge/internal/extractor"
	"clipforge/internal/ports/adapters/ffmpeg"
	"clipforge/internal/script"
)

// ExtractConfig drives one batch extraction run.
type ExtractConfig struct {
	ScriptPath  string
	SourceVideo string
	OutDir      string

	StartBuffer     float64
	EndBuffer       float64
	ContinueOnError bool
	DryRun          bool

	Tools    config.Tools
	Timeouts config.Timeouts
	Logger   *zap.Logger
}

func (c ExtractConfig) Validate() error {
	if c.ScriptPath == "" {
		return errors.New("script path is empty")
	}
	if c.SourceVideo == "" {
		return errors.New("source video is required")
	}
	if _, err := os.Stat(c.SourceVideo); err != nil {
		return fmt.Errorf("stat source video: %w", err)
	}
	if c.StartBuffer < 0 || c.EndBuffer < 0 {
		return errors.New("buffers must be >= 0")
	}
	return nil
}

// RunExtract parses the script, derives clip specifications and cuts them
// out of the source video, persisting the batch report alongside the clips.
func RunExtract(ctx context.Context, cfg ExtractConfig) error {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	doc, err := script.Load(cfg.ScriptPath)
	if err != nil {
		return err
	}
	specs := clipspec.New(log).Extract(doc.Sections)
	if len(specs) == 0 {
		return errors.New("script contains no extractable clip sections")
	}
	log.Info("clip specifications ready",
		zap.Int("clips", len(specs)),
		zap.String("source", cfg.SourceVideo))

	if cfg.DryRun {
		for _, spec := range specs {
			start, end, _ := clipspec.Bounds(spec)
			log.Info("would extract",
				zap.String("section_id", spec.SectionID),
				zap.Float64("start", start),
				zap.Float64("end", end),
				zap.String("title", spec.Title))
		}
		return nil
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = filepath.Join(filepath.Dir(cfg.ScriptPath), "clips")
	}

	tc := newTranscoder(cfg.Tools, cfg.Timeouts)
	rep, runErr := extractor.New(tc, log).ExtractClips(ctx, cfg.SourceVideo, specs, outDir, extractor.BatchOptions{
		StartBuffer:     cfg.StartBuffer,
		EndBuffer:       cfg.EndBuffer,
		ContinueOnError: cfg.ContinueOnError,
	})
	if len(rep.Results) > 0 {
		if err := extractor.WriteReport(rep, outDir); err != nil {
			log.Warn("could not persist extraction report", zap.Error(err))
		}
		log.Info("extraction finished",
			zap.Int("succeeded", rep.Succeeded),
			zap.Int("skipped", rep.Skipped),
			zap.Int("failed", rep.Failed),
			zap.Float64("elapsed_sec", rep.TotalElapsedSec))
	}
	if runErr != nil {
		return runErr
	}
	if rep.Failed > 0 {
		return fmt.Errorf("%d of %d clips failed", rep.Failed, len(specs))
	}
	return nil
}

// CompileConfig drives one episode compilation.
type CompileConfig struct {
	EpisodeDir string
	ScriptPath string
	OutputPath string
	KeepTemp   bool

	BackgroundDir string
	IntroImage    string

	Tools    config.Tools
	Timeouts config.Timeouts
	Logger   *zap.Logger
}

func (c CompileConfig) Validate() error {
	if c.EpisodeDir == "" {
		return errors.New("episode dir is empty")
	}
	if _, err := os.Stat(c.EpisodeDir); err != nil {
		return fmt.Errorf("stat episode dir: %w", err)
	}
	if c.BackgroundDir == "" && c.IntroImage == "" {
		return errors.New("a background dir or intro image is required")
	}
	return nil
}

// RunCompile assembles one episode into a single video.
func RunCompile(ctx context.Context, cfg CompileConfig) error {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	pool, err := listImages(cfg.BackgroundDir)
	if err != nil {
		return err
	}
	intro := cfg.IntroImage
	if intro == "" {
		intro = filepath.Join(cfg.BackgroundDir, "intro_background.png")
	}
	if _, err := os.Stat(intro); err != nil {
		return fmt.Errorf("intro image: %w", err)
	}

	tc := newTranscoder(cfg.Tools, cfg.Timeouts)
	picker := audiovideo.NewBackgroundPicker(intro, pool)
	conv := audiovideo.New(tc, picker, log)

	started := time.Now()
	res, err := compile.New(tc, conv, log).Compile(ctx, compile.Options{
		EpisodeDir: cfg.EpisodeDir,
		ScriptPath: cfg.ScriptPath,
		OutputPath: cfg.OutputPath,
		KeepTemp:   cfg.KeepTemp,
	})
	if err != nil {
		return err
	}
	log.Info("episode compiled",
		zap.String("output", res.OutputPath),
		zap.String("trace", res.TracePath),
		zap.String("plan_source", res.Source.String()),
		zap.Int("segments", res.SegmentCount),
		zap.Strings("omitted_clips", res.OmittedVideo),
		zap.Float64("duration", res.Duration),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

func newTranscoder(tools config.Tools, timeouts config.Timeouts) *ffmpeg.Adapter {
	return ffmpeg.New(tools.FFmpeg, tools.FFprobe).WithTimeouts(
		time.Duration(timeouts.ProbeSeconds)*time.Second,
		time.Duration(timeouts.RenderMinutes)*time.Minute,
	)
}

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

func listImages(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("background dir: %w", err)
	}
	var out []string
	for _, ent := range entries {
		if ent.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(ent.Name()))] {
			continue
		}
		out = append(out, filepath.Join(dir, ent.Name()))
	}
	sort.Strings(out)
	return out, nil
}
