package types

import "time"

// ClipSpecification describes one cut to take from the source video. Start
// and end keep the raw timestamp strings found in the script; normalization
// to seconds happens when the cut is computed.
type ClipSpecification struct {
	SectionID         string   `json:"section_id"`
	ClipID            string   `json:"clip_id"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
	Title             string   `json:"title"`
	SeverityLevel     string   `json:"severity_level"`
	EstimatedDuration float64  `json:"estimated_duration"`
	SelectionReason   string   `json:"selection_reason,omitempty"`
	KeyClaims         []string `json:"key_claims,omitempty"`
}

// ExtractionResult is the outcome of one clip extraction.
type ExtractionResult struct {
	SectionID  string        `json:"section_id"`
	Success    bool          `json:"success"`
	Skipped    bool          `json:"skipped"`
	OutputPath string        `json:"output_path,omitempty"`
	Error      string        `json:"error,omitempty"`
	Elapsed    time.Duration `json:"-"`
	ElapsedSec float64       `json:"elapsed_sec"`
	FileSize   int64         `json:"file_size"`
}

// ExtractionReport aggregates one batch extraction run. It is written once,
// at the end of the run, as both a JSON report and a rendered summary.
type ExtractionReport struct {
	Source          string             `json:"source"`
	Succeeded       int                `json:"succeeded"`
	Failed          int                `json:"failed"`
	Skipped         int                `json:"skipped"`
	TotalElapsedSec float64            `json:"total_elapsed_sec"`
	ExistingFiles   []string           `json:"existing_files,omitempty"`
	Errors          []string           `json:"errors,omitempty"`
	Results         []ExtractionResult `json:"results"`
}
