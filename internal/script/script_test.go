package script

import (
	"testing"
)

func TestParse_PreservesOrder(t *testing.T) {
	doc, err := Parse([]byte(`{
		"episode_id": "ep42",
		"sections": [
			{"type": "intro", "section_id": "intro"},
			{"type": "video_clip", "section_id": "clip_01", "start_time": "1:03:55.06", "end_time": 3900},
			{"type": "post_clip", "section_id": "post_clip_01"},
			{"type": "outro", "section_id": "outro"}
		]
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	wantIDs := []string{"intro", "clip_01", "post_clip_01", "outro"}
	if len(doc.Sections) != len(wantIDs) {
		t.Fatalf("got %d sections, want %d", len(doc.Sections), len(wantIDs))
	}
	for i, id := range wantIDs {
		if doc.Sections[i].SectionID != id {
			t.Fatalf("section %d = %q, want %q", i, doc.Sections[i].SectionID, id)
		}
	}
	clip := doc.Sections[1]
	if clip.StartTime != "1:03:55.06" {
		t.Fatalf("string start_time mangled: %q", clip.StartTime)
	}
	if clip.EndTime != "3900" {
		t.Fatalf("numeric end_time not kept raw: %q", clip.EndTime)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"sections": [}`,
		"no sections":   `{"sections": []}`,
		"unknown type":  `{"sections": [{"type": "teaser", "section_id": "x"}]}`,
		"no section id": `{"sections": [{"type": "intro"}]}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(in)); err == nil {
				t.Fatalf("expected parse error")
			}
		})
	}
}

func TestSectionType_Classification(t *testing.T) {
	narration := []SectionType{SectionIntro, SectionIntroPlusHook, SectionPreClip, SectionPostClip, SectionOutro}
	for _, st := range narration {
		if !st.IsNarration() || st.IsVideo() {
			t.Fatalf("%s misclassified", st)
		}
	}
	for _, st := range []SectionType{SectionVideoClip, SectionHookClip} {
		if !st.IsVideo() || st.IsNarration() {
			t.Fatalf("%s misclassified", st)
		}
	}
	if SectionType("teaser").Known() {
		t.Fatal("unexpected known type")
	}
}

func TestVideoSections(t *testing.T) {
	doc := Document{Sections: []Section{
		{Type: SectionIntro, SectionID: "intro"},
		{Type: SectionHookClip, SectionID: "hook"},
		{Type: SectionPreClip, SectionID: "pre_clip_01"},
		{Type: SectionVideoClip, SectionID: "clip_01"},
	}}
	vs := doc.VideoSections()
	if len(vs) != 2 || vs[0].SectionID != "hook" || vs[1].SectionID != "clip_01" {
		t.Fatalf("unexpected video sections: %+v", vs)
	}
}
