package compile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// writeTrace records the final clip order for post-hoc auditing: one block
// per position with the segment's id, kind and filenames.
func writeTrace(path string, sequence []SegmentInfo) error {
	var b strings.Builder
	b.WriteString("FINAL CLIP ORDER\n")
	b.WriteString("================\n\n")
	for i, seg := range sequence {
		kind := "ORIGINAL VIDEO"
		if seg.Type == SegmentAudio {
			kind = "AUDIO->VIDEO"
		}
		fmt.Fprintf(&b, "%3d. [%s] %s\n", i+1, kind, seg.SegmentID)
		fmt.Fprintf(&b, "     source: %s\n", filepath.Base(seg.FilePath))
		fmt.Fprintf(&b, "     file:   %s\n", filepath.Base(seg.PlaybackPath()))
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
