// Package profile pins the single output profile every produced stream
// targets. Extracted clips, narration-to-video segments and the final concat
// all share these constants; the direct concatenator depends on that.
package profile

import "fmt"

const (
	Width     = 1920
	Height    = 1080
	FrameRate = 30

	PixelFormat = "yuv420p"
	VideoCodec  = "libx264"
	VideoPreset = "veryfast"
	VideoCRF    = "20"

	AudioCodec      = "aac"
	AudioSampleRate = 44100
	AudioChannels   = 2
	AudioBitrate    = "192k"
)

// ScaleFilter letterboxes arbitrary input into the target frame.
func ScaleFilter() string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		Width, Height, Width, Height,
	)
}
