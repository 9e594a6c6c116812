package compile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clipforge/internal/script"
)

// SegmentType classifies a compilation-time unit.
type SegmentType string

const (
	SegmentAudio SegmentType = "audio"
	SegmentVideo SegmentType = "video"
)

// SegmentInfo is one unit of the final timeline. Constructed and owned by
// the orchestrator for the duration of one compile call.
type SegmentInfo struct {
	SegmentID string
	Type      SegmentType
	Order     int

	// FilePath is the resolved source file (narration audio or clip video).
	FilePath string
	// ConvertedPath is the narration-to-video output, set during conversion.
	ConvertedPath string

	// Section is the originating script section; nil in discovery mode.
	Section *script.Section
}

// PlaybackPath is the file that enters the final sequence.
func (s SegmentInfo) PlaybackPath() string {
	if s.Type == SegmentAudio {
		return s.ConvertedPath
	}
	return s.FilePath
}

// Source tells how a plan was derived. Discovery is a degraded fallback: it
// loses the script's intended interleaving.
type Source int

const (
	SourceScript Source = iota
	SourceDiscovery
)

func (s Source) String() string {
	if s == SourceDiscovery {
		return "discovery"
	}
	return "script"
}

// Plan is the ordered segment list plus how it was obtained.
type Plan struct {
	Source   Source
	Segments []SegmentInfo
}

// planFromScript maps script sections to segments, preserving order.
func planFromScript(doc script.Document) Plan {
	plan := Plan{Source: SourceScript}
	for i := range doc.Sections {
		sec := &doc.Sections[i]
		st := SegmentAudio
		if sec.Type.IsVideo() {
			st = SegmentVideo
		}
		plan.Segments = append(plan.Segments, SegmentInfo{
			SegmentID: sec.SectionID,
			Type:      st,
			Order:     i,
			Section:   sec,
		})
	}
	return plan
}

var (
	discoveryAudioExts = map[string]bool{".wav": true, ".m4a": true, ".mp3": true, ".aac": true}
	discoveryVideoExts = map[string]bool{".mp4": true, ".mov": true, ".avi": true, ".mkv": true}
)

// discoverSegments synthesizes a plan from the episode's output directories
// when the script cannot be parsed: audio files first, then video files,
// each set in lexicographic order.
func discoverSegments(episodeDir string) (Plan, error) {
	plan := Plan{Source: SourceDiscovery}
	order := 0
	add := func(dir string, st SegmentType, exts map[string]bool) {
		entries, err := os.ReadDir(dir) // already sorted by name
		if err != nil {
			return
		}
		for _, ent := range entries {
			if ent.IsDir() || !exts[strings.ToLower(filepath.Ext(ent.Name()))] {
				continue
			}
			name := ent.Name()
			plan.Segments = append(plan.Segments, SegmentInfo{
				SegmentID: strings.TrimSuffix(name, filepath.Ext(name)),
				Type:      st,
				Order:     order,
				FilePath:  filepath.Join(dir, name),
			})
			order++
		}
	}
	add(filepath.Join(episodeDir, "Output", "Audio"), SegmentAudio, discoveryAudioExts)
	add(filepath.Join(episodeDir, "Output", "Video"), SegmentVideo, discoveryVideoExts)
	if len(plan.Segments) == 0 {
		return Plan{}, errors.New("no segments discovered under Output/Audio or Output/Video")
	}
	return plan, nil
}

// Inference order matters: longer names first so "post_clip" is not
// mistaken for "pre_clip" and "intro_plus_hook_analysis" not for "intro".
var narrationNameOrder = []script.SectionType{
	script.SectionPostClip,
	script.SectionPreClip,
	script.SectionIntroPlusHook,
	script.SectionIntro,
	script.SectionOutro,
}

// narrationType infers a narration segment's sub-type, preferring script
// metadata and falling back to filename substring matching.
func narrationType(seg SegmentInfo) script.SectionType {
	if seg.Section != nil {
		return seg.Section.Type
	}
	name := strings.ToLower(fmt.Sprintf("%s %s", seg.SegmentID, filepath.Base(seg.FilePath)))
	for _, t := range narrationNameOrder {
		if strings.Contains(name, string(t)) {
			return t
		}
	}
	return ""
}
