// Package clipspec turns the script's video sections into validated clip
// specifications.
package clipspec

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"clipforge/internal/script"
	"clipforge/internal/timestamp"
	"clipforge/internal/types"
)

// ErrMissingTimingData marks a video section with neither explicit bounds
// nor suggested-clip timestamps.
var ErrMissingTimingData = errors.New("section has no usable timing data")

type Extractor struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{log: log}
}

// Extract produces clip specifications for the video sections of the script,
// in script order. A section without usable timing, or whose spec fails
// validation, is dropped with a logged reason; the rest keep processing.
func (e *Extractor) Extract(sections []script.Section) []types.ClipSpecification {
	var out []types.ClipSpecification
	for _, sec := range sections {
		if !sec.Type.IsVideo() {
			continue
		}
		startRaw, endRaw, err := resolveTiming(sec)
		if err != nil {
			e.log.Warn("skipping clip section",
				zap.String("section_id", sec.SectionID),
				zap.Error(err))
			continue
		}
		spec := types.ClipSpecification{
			SectionID:         sec.SectionID,
			ClipID:            sec.ClipID,
			StartTime:         startRaw,
			EndTime:           endRaw,
			Title:             sec.Title,
			SeverityLevel:     sec.SeverityLevel,
			EstimatedDuration: sec.EstimatedDuration,
			SelectionReason:   sec.SelectionReason,
			KeyClaims:         sec.KeyClaims,
		}
		if err := Validate(spec); err != nil {
			e.log.Warn("dropping invalid clip spec",
				zap.String("section_id", sec.SectionID),
				zap.Error(err))
			continue
		}
		out = append(out, spec)
	}
	return out
}

// resolveTiming applies the timing priority: explicit start/end fields win;
// otherwise the clip spans the min..max of the section's suggested-clip
// timestamps. The span rule means boundaries follow referenced quotes, not
// an explicit edit decision.
func resolveTiming(sec script.Section) (string, string, error) {
	if sec.StartTime != "" && sec.EndTime != "" {
		return string(sec.StartTime), string(sec.EndTime), nil
	}
	if len(sec.SuggestedClips) > 0 {
		lo := sec.SuggestedClips[0].Timestamp
		hi := lo
		for _, sc := range sec.SuggestedClips[1:] {
			if sc.Timestamp < lo {
				lo = sc.Timestamp
			}
			if sc.Timestamp > hi {
				hi = sc.Timestamp
			}
		}
		return formatSeconds(lo), formatSeconds(hi), nil
	}
	return "", "", fmt.Errorf("%w: %s", ErrMissingTimingData, sec.SectionID)
}

// Validate checks the fields extraction depends on: identity present, both
// bounds parseable, and a strictly positive span.
func Validate(spec types.ClipSpecification) error {
	if spec.SectionID == "" {
		return errors.New("empty section_id")
	}
	start, end, err := Bounds(spec)
	if err != nil {
		return err
	}
	if end <= start {
		return fmt.Errorf("end %.3f must be after start %.3f", end, start)
	}
	return nil
}

// Bounds normalizes the raw start/end strings to seconds.
func Bounds(spec types.ClipSpecification) (start, end float64, err error) {
	start, err = timestamp.Parse(spec.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("start_time: %w", err)
	}
	end, err = timestamp.Parse(spec.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("end_time: %w", err)
	}
	return start, end, nil
}

func formatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', -1, 64)
}
