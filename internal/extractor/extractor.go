// Package extractor cuts clips out of the source video per specification,
// with validation and a bounded retry budget per clip.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"clipforge/internal/clipspec"
	"clipforge/internal/ports"
	"clipforge/internal/types"
)

// ErrValidationFailed marks an extracted file that fails integrity checks.
var ErrValidationFailed = errors.New("extracted clip failed validation")

const (
	maxAttempts   = 3
	minOutputSize = 1024 // bytes

	// durationTolerance decides whether an existing output already matches
	// the expected cut and can be reused as-is.
	durationTolerance = 1.0 // seconds
)

type Extractor struct {
	tc  ports.Transcoder
	log *zap.Logger
}

func New(tc ports.Transcoder, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{tc: tc, log: log}
}

// BatchOptions tunes one batch run. Buffers widen every cut: StartBuffer
// seconds before the start (clamped at zero) and EndBuffer seconds after
// the end.
type BatchOptions struct {
	StartBuffer     float64
	EndBuffer       float64
	ContinueOnError bool
}

// ExtractClip cuts one clip. An existing output whose probed duration is
// within tolerance of the expected duration is reused without re-invoking
// the transcoder; a stale one is deleted and re-extracted.
func (e *Extractor) ExtractClip(ctx context.Context, source string, spec types.ClipSpecification, outDir string, startBuffer, endBuffer float64) types.ExtractionResult {
	started := time.Now()
	res := types.ExtractionResult{SectionID: spec.SectionID}

	finish := func() types.ExtractionResult {
		res.Elapsed = time.Since(started)
		res.ElapsedSec = res.Elapsed.Seconds()
		return res
	}

	start, end, err := clipspec.Bounds(spec)
	if err != nil {
		res.Error = err.Error()
		return finish()
	}
	cutStart := start - startBuffer
	if cutStart < 0 {
		cutStart = 0
	}
	duration := (end + endBuffer) - cutStart

	outPath := filepath.Join(outDir, spec.SectionID+".mp4")
	res.OutputPath = outPath

	if e.reusableOutput(ctx, outPath, duration) {
		res.Success = true
		res.Skipped = true
		if st, err := os.Stat(outPath); err == nil {
			res.FileSize = st.Size()
		}
		e.log.Info("clip already extracted, skipping",
			zap.String("section_id", spec.SectionID),
			zap.String("output", outPath))
		return finish()
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// Drop partials from the prior attempt before cutting again.
		_ = os.Remove(outPath)

		if err := e.tc.CutClip(ctx, source, cutStart, duration, outPath); err != nil {
			lastErr = err
			e.log.Warn("cut attempt failed",
				zap.String("section_id", spec.SectionID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}
		if err := e.validateOutput(ctx, outPath); err != nil {
			lastErr = err
			e.log.Warn("cut output failed validation",
				zap.String("section_id", spec.SectionID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}

		res.Success = true
		if st, err := os.Stat(outPath); err == nil {
			res.FileSize = st.Size()
		}
		e.log.Info("clip extracted",
			zap.String("section_id", spec.SectionID),
			zap.Float64("start", cutStart),
			zap.Float64("duration", duration),
			zap.Int64("bytes", res.FileSize))
		return finish()
	}

	_ = os.Remove(outPath)
	res.OutputPath = ""
	res.Error = lastErr.Error()
	return finish()
}

// ExtractClips runs the whole batch. Pre-flight failures (missing source,
// uncreatable output dir, unreachable transcoder) abort before any per-clip
// attempt. Per-clip failures are recorded and, depending on
// ContinueOnError, either skipped past or stop the batch.
func (e *Extractor) ExtractClips(ctx context.Context, source string, specs []types.ClipSpecification, outDir string, opts BatchOptions) (types.ExtractionReport, error) {
	started := time.Now()
	rep := types.ExtractionReport{Source: source}

	if _, err := os.Stat(source); err != nil {
		return rep, fmt.Errorf("source video: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return rep, fmt.Errorf("output dir: %w", err)
	}
	if err := e.tc.Available(ctx); err != nil {
		return rep, fmt.Errorf("transcoder unavailable: %w", err)
	}

	var stopErr error
	for _, spec := range specs {
		res := e.ExtractClip(ctx, source, spec, outDir, opts.StartBuffer, opts.EndBuffer)
		rep.Results = append(rep.Results, res)
		switch {
		case res.Skipped:
			rep.Skipped++
			rep.ExistingFiles = append(rep.ExistingFiles, res.OutputPath)
		case res.Success:
			rep.Succeeded++
		default:
			rep.Failed++
			rep.Errors = append(rep.Errors, res.SectionID+": "+res.Error)
			if !opts.ContinueOnError {
				stopErr = fmt.Errorf("clip %s failed, stopping batch: %s", res.SectionID, res.Error)
			}
		}
		if stopErr != nil {
			break
		}
	}
	rep.TotalElapsedSec = time.Since(started).Seconds()
	return rep, stopErr
}

func (e *Extractor) reusableOutput(ctx context.Context, path string, expected float64) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	probed, err := e.tc.ProbeDuration(ctx, path)
	if err == nil && math.Abs(probed-expected) <= durationTolerance {
		return true
	}
	e.log.Info("existing output is stale, re-extracting",
		zap.String("output", path),
		zap.Float64("expected", expected),
		zap.Float64("probed", probed))
	_ = os.Remove(path)
	return false
}

func (e *Extractor) validateOutput(ctx context.Context, path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: output missing: %v", ErrValidationFailed, err)
	}
	if st.Size() < minOutputSize {
		return fmt.Errorf("%w: output only %d bytes", ErrValidationFailed, st.Size())
	}
	streams, err := e.tc.ProbeStreams(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	for _, s := range streams {
		if s.CodecType == "video" {
			return nil
		}
	}
	return fmt.Errorf("%w: no video stream", ErrValidationFailed)
}
