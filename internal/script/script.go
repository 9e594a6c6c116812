// Package script models the unified script document: an ordered list of
// typed sections, either narration blocks or video-clip references. Section
// order is authoritative and preserved verbatim; nothing here re-sorts.
package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// SectionType tags one entry of the script's section union.
type SectionType string

const (
	SectionIntro         SectionType = "intro"
	SectionIntroPlusHook SectionType = "intro_plus_hook_analysis"
	SectionPreClip       SectionType = "pre_clip"
	SectionPostClip      SectionType = "post_clip"
	SectionOutro         SectionType = "outro"
	SectionVideoClip     SectionType = "video_clip"
	SectionHookClip      SectionType = "hook_clip"
)

// IsNarration reports whether the section carries synthesized-audio content.
func (t SectionType) IsNarration() bool {
	switch t {
	case SectionIntro, SectionIntroPlusHook, SectionPreClip, SectionPostClip, SectionOutro:
		return true
	}
	return false
}

// IsVideo reports whether the section references a cut from the source video.
func (t SectionType) IsVideo() bool {
	return t == SectionVideoClip || t == SectionHookClip
}

// Known reports whether t is one of the seven section types.
func (t SectionType) Known() bool { return t.IsNarration() || t.IsVideo() }

// TimeValue tolerates both quoted timestamp strings and bare JSON numbers,
// preserving the raw text either way.
type TimeValue string

func (t *TimeValue) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = TimeValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = TimeValue(n.String())
	return nil
}

func (t TimeValue) MarshalJSON() ([]byte, error) { return json.Marshal(string(t)) }

// SuggestedClip is one quoted moment inside a video section. When a section
// has no explicit bounds, the span of its suggested-clip timestamps becomes
// the clip's bounds.
type SuggestedClip struct {
	Timestamp float64 `json:"timestamp"`
	Quote     string  `json:"quote,omitempty"`
	Speaker   string  `json:"speaker,omitempty"`
}

// Section is one entry of the script. The populated fields depend on Type:
// narration sections carry text and an optional audio file reference, video
// sections carry clip identity and timing.
type Section struct {
	Type      SectionType `json:"type"`
	SectionID string      `json:"section_id"`

	Text      string `json:"text,omitempty"`
	AudioFile string `json:"audio_file,omitempty"`

	ClipID            string          `json:"clip_id,omitempty"`
	StartTime         TimeValue       `json:"start_time,omitempty"`
	EndTime           TimeValue       `json:"end_time,omitempty"`
	Title             string          `json:"title,omitempty"`
	SeverityLevel     string          `json:"severity_level,omitempty"`
	EstimatedDuration float64         `json:"estimated_duration,omitempty"`
	SelectionReason   string          `json:"selection_reason,omitempty"`
	KeyClaims         []string        `json:"key_claims,omitempty"`
	SuggestedClips    []SuggestedClip `json:"suggested_clips,omitempty"`
}

// Document is a parsed script.
type Document struct {
	EpisodeID string    `json:"episode_id,omitempty"`
	Sections  []Section `json:"sections"`
}

// Parse decodes and validates a script document. Every section must carry a
// known type and a section id; anything else fails the parse as a whole so
// callers can fall back to directory discovery.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode script: %w", err)
	}
	if len(doc.Sections) == 0 {
		return Document{}, errors.New("script has no sections")
	}
	for i, sec := range doc.Sections {
		if !sec.Type.Known() {
			return Document{}, fmt.Errorf("section %d: unknown type %q", i, sec.Type)
		}
		if sec.SectionID == "" {
			return Document{}, fmt.Errorf("section %d (%s): missing section_id", i, sec.Type)
		}
	}
	return doc, nil
}

// Load reads and parses a script file.
func Load(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read script: %w", err)
	}
	return Parse(b)
}

// VideoSections returns the video_clip/hook_clip sections in script order.
func (d Document) VideoSections() []Section {
	var out []Section
	for _, sec := range d.Sections {
		if sec.Type.IsVideo() {
			out = append(out, sec)
		}
	}
	return out
}
