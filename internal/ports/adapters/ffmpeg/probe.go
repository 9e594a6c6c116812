package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"

	"clipforge/internal/ports"
)

// probeStream mirrors the fields of ffprobe's -show_streams JSON output the
// engine cares about.
type probeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	SampleRate   string `json:"sample_rate"`
	Channels     int    `json:"channels"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
}

func (a *Adapter) ProbeStreams(ctx context.Context, path string) ([]ports.StreamInfo, error) {
	b, err := a.run(ctx, a.probeTimeout, a.ffprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe streams: %w", err)
	}
	var out probeOutput
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	streams := make([]ports.StreamInfo, 0, len(out.Streams))
	for _, s := range out.Streams {
		streams = append(streams, ports.StreamInfo{
			CodecType:    s.CodecType,
			CodecName:    s.CodecName,
			Width:        s.Width,
			Height:       s.Height,
			AvgFrameRate: s.AvgFrameRate,
			SampleRate:   s.SampleRate,
			Channels:     s.Channels,
		})
	}
	return streams, nil
}
