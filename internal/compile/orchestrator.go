// Package compile drives one episode's compilation: parse the script (or
// fall back to directory discovery), convert narration audio to video,
// build the final ordered sequence and concatenate it. Stages run strictly
// in order with no backtracking; any stage can fail the compile.
package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clipforge/internal/audiovideo"
	"clipforge/internal/concat"
	"clipforge/internal/ports"
	"clipforge/internal/registry"
	"clipforge/internal/script"
)

// ErrSequenceEmpty is returned when no segment survives to concatenation.
var ErrSequenceEmpty = errors.New("no segments survived sequence build")

type Options struct {
	EpisodeDir string
	// ScriptPath defaults to <EpisodeDir>/Output/unified_script.json.
	ScriptPath string
	// OutputPath defaults to <EpisodeDir>/Output/compiled_video.mp4.
	OutputPath string
	// TempDir holds converted narration segments; defaults to a fresh
	// directory under <EpisodeDir>/Output.
	TempDir string
	// KeepTemp retains converted segments for debugging.
	KeepTemp bool
}

func (o *Options) applyDefaults() {
	if o.ScriptPath == "" {
		o.ScriptPath = filepath.Join(o.EpisodeDir, "Output", "unified_script.json")
	}
	if o.OutputPath == "" {
		o.OutputPath = filepath.Join(o.EpisodeDir, "Output", "compiled_video.mp4")
	}
	if o.TempDir == "" {
		o.TempDir = filepath.Join(o.EpisodeDir, "Output", "temp_segments_"+uuid.NewString()[:8])
	}
}

type Result struct {
	OutputPath   string
	TracePath    string
	Duration     float64
	FileSize     int64
	Source       Source
	SegmentCount int
	OmittedVideo []string
}

type Orchestrator struct {
	tc   ports.Transcoder
	conv *audiovideo.Converter
	log  *zap.Logger
}

func New(tc ports.Transcoder, conv *audiovideo.Converter, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{tc: tc, conv: conv, log: log}
}

// Compile runs the full stage sequence for one episode.
func (o *Orchestrator) Compile(ctx context.Context, opts Options) (Result, error) {
	opts.applyDefaults()

	reg, err := registry.Scan(opts.EpisodeDir)
	if err != nil {
		return Result{}, fmt.Errorf("scan episode: %w", err)
	}
	o.log.Debug("episode scanned", zap.Int("indexed_files", reg.Len()))

	plan, err := o.parseScript(opts)
	if err != nil {
		return Result{}, fmt.Errorf("parse script: %w", err)
	}
	o.log.Info("plan ready",
		zap.String("source", plan.Source.String()),
		zap.Int("segments", len(plan.Segments)))

	madeTemp := false
	if err := os.MkdirAll(opts.TempDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("temp dir: %w", err)
	}
	madeTemp = true
	defer func() {
		// Cleanup only touches the directory this run created.
		if madeTemp && !opts.KeepTemp {
			_ = os.RemoveAll(opts.TempDir)
		}
	}()

	if err := o.convertAudioSegments(ctx, plan.Segments, reg, opts.TempDir); err != nil {
		return Result{}, fmt.Errorf("convert narration: %w", err)
	}

	sequence, omitted := o.buildSequence(plan.Segments, reg)
	if len(sequence) == 0 {
		return Result{}, ErrSequenceEmpty
	}

	tracePath := strings.TrimSuffix(opts.OutputPath, filepath.Ext(opts.OutputPath)) + "_clip_order.txt"
	if err := writeTrace(tracePath, sequence); err != nil {
		o.log.Warn("could not write clip order trace", zap.Error(err))
		tracePath = ""
	}

	files := make([]string, len(sequence))
	for i, seg := range sequence {
		files[i] = seg.PlaybackPath()
	}
	cres, err := concat.New(o.tc, o.log).Concatenate(ctx, files, opts.OutputPath)
	if err != nil {
		return Result{}, fmt.Errorf("concatenate: %w", err)
	}

	return Result{
		OutputPath:   cres.OutputPath,
		TracePath:    tracePath,
		Duration:     cres.Duration,
		FileSize:     cres.FileSize,
		Source:       plan.Source,
		SegmentCount: len(sequence),
		OmittedVideo: omitted,
	}, nil
}

// parseScript reads the script into a plan, falling back to directory
// discovery on any parse failure. Both failing together fails the compile.
func (o *Orchestrator) parseScript(opts Options) (Plan, error) {
	doc, err := script.Load(opts.ScriptPath)
	if err == nil {
		return planFromScript(doc), nil
	}
	o.log.Warn("script unusable, falling back to directory discovery", zap.Error(err))
	plan, derr := discoverSegments(opts.EpisodeDir)
	if derr != nil {
		return Plan{}, fmt.Errorf("script: %v; discovery: %w", err, derr)
	}
	return plan, nil
}

// convertAudioSegments renders every narration segment to video. Narration
// has no substitute, so any single failure is fatal to the compile.
func (o *Orchestrator) convertAudioSegments(ctx context.Context, segments []SegmentInfo, reg *registry.Registry, tempDir string) error {
	for i := range segments {
		seg := &segments[i]
		if seg.Type != SegmentAudio {
			continue
		}
		if seg.FilePath == "" {
			var (
				p   string
				err error
			)
			if seg.Section != nil && seg.Section.AudioFile != "" {
				p, err = reg.Resolve(seg.Section.AudioFile)
			} else {
				p, err = reg.FindAudioFile(seg.SegmentID)
			}
			if err != nil {
				return fmt.Errorf("segment %s: %w", seg.SegmentID, err)
			}
			seg.FilePath = p
		}
		outPath := filepath.Join(tempDir, seg.SegmentID+".mp4")
		if err := o.conv.Convert(ctx, seg.FilePath, outPath, narrationType(*seg)); err != nil {
			return fmt.Errorf("segment %s: %w", seg.SegmentID, err)
		}
		o.conv.Validate(ctx, outPath) // off-profile output is logged, not fatal
		seg.ConvertedPath = outPath
	}
	return nil
}

// buildSequence walks segments in order. Audio segments contribute their
// converted video; video segments contribute their resolved clip file, or
// are omitted with a warning when the clip never materialized.
func (o *Orchestrator) buildSequence(segments []SegmentInfo, reg *registry.Registry) (sequence []SegmentInfo, omitted []string) {
	for _, seg := range segments {
		switch seg.Type {
		case SegmentAudio:
			if seg.ConvertedPath == "" {
				// Conversion is fatal on failure, so this only happens on a
				// programming error; treat it like a missing clip.
				o.log.Warn("narration segment has no converted video", zap.String("segment", seg.SegmentID))
				continue
			}
		case SegmentVideo:
			if seg.FilePath == "" {
				p, err := reg.FindVideoFile(seg.SegmentID)
				if err != nil {
					o.log.Warn("omitting missing video clip",
						zap.String("segment", seg.SegmentID),
						zap.Error(err))
					omitted = append(omitted, seg.SegmentID)
					continue
				}
				seg.FilePath = p
			}
			if _, err := os.Stat(seg.FilePath); err != nil {
				o.log.Warn("omitting unreadable video clip",
					zap.String("segment", seg.SegmentID),
					zap.Error(err))
				omitted = append(omitted, seg.SegmentID)
				continue
			}
		}
		sequence = append(sequence, seg)
	}
	return sequence, omitted
}
