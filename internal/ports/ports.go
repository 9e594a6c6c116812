package ports

import "context"

// StreamInfo is the subset of probe output the engine inspects.
type StreamInfo struct {
	CodecType    string
	CodecName    string
	Width        int
	Height       int
	AvgFrameRate string
	SampleRate   string
	Channels     int
}

// Transcoder is the external media tool boundary. The engine owns argument
// construction and result interpretation; implementations shell out.
type Transcoder interface {
	// Available verifies the external tools can be invoked at all.
	Available(ctx context.Context) error

	// ProbeDuration returns a file's container duration in seconds.
	ProbeDuration(ctx context.Context, path string) (float64, error)

	// ProbeStreams returns the file's stream layout, or an error when the
	// container metadata is unparseable.
	ProbeStreams(ctx context.Context, path string) ([]StreamInfo, error)

	// CutClip re-encodes a sub-range of source into the target profile.
	// Re-encoding, not stream copy: buffered starts can land mid-keyframe.
	CutClip(ctx context.Context, source string, startSec, durationSec float64, outPath string) error

	// StillToVideo loops one still image for durationSec, muxing the
	// narration audio, encoded to the target profile.
	StillToVideo(ctx context.Context, imagePath, audioPath string, durationSec float64, outPath string) error

	// ConcatFilter joins pre-compatible inputs in one filter-graph
	// invocation, with no intermediate normalization pass.
	ConcatFilter(ctx context.Context, inputs []string, outPath string) error
}
