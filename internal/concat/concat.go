// Package concat joins already-compatible video files into one output
// stream via a single filter-graph invocation. Correctness depends on all
// inputs sharing the fixed target profile; nothing here normalizes them.
package concat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"clipforge/internal/ports"
)

type Result struct {
	OutputPath string
	Duration   float64
	FileSize   int64
}

type Concatenator struct {
	tc  ports.Transcoder
	log *zap.Logger
}

func New(tc ports.Transcoder, log *zap.Logger) *Concatenator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Concatenator{tc: tc, log: log}
}

// Concatenate joins files in order into outPath. Missing inputs are
// rejected per-file before the tool is invoked; a tool failure surfaces the
// tool's error text as-is.
func (c *Concatenator) Concatenate(ctx context.Context, files []string, outPath string) (Result, error) {
	if len(files) == 0 {
		return Result{}, errors.New("no input files to concatenate")
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return Result{}, fmt.Errorf("concat input %s: %w", f, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return Result{}, err
	}

	if err := c.tc.ConcatFilter(ctx, files, outPath); err != nil {
		return Result{}, err
	}

	res := Result{OutputPath: outPath}
	if dur, err := c.tc.ProbeDuration(ctx, outPath); err == nil {
		res.Duration = dur
	} else {
		c.log.Warn("could not probe compiled output", zap.Error(err))
	}
	if st, err := os.Stat(outPath); err == nil {
		res.FileSize = st.Size()
	}
	c.log.Info("concatenation complete",
		zap.Int("inputs", len(files)),
		zap.String("output", outPath),
		zap.Float64("duration", res.Duration),
		zap.Int64("bytes", res.FileSize))
	return res, nil
}
