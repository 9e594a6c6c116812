package audiovideo

import (
	"math/rand/v2"

	"clipforge/internal/script"
)

// BackgroundPicker carries the one piece of compile-time state the converter
// depends on: the current background image. It is owned by the orchestrator
// and advanced in script order; background continuity across narration
// segments breaks if calls are reordered.
type BackgroundPicker struct {
	designated string
	pool       []string
	current    string
	intn       func(n int) int
}

// NewBackgroundPicker builds a picker with the designated intro image and a
// pool of rotation candidates. Pool entries equal to the designated image
// are excluded from random draws.
func NewBackgroundPicker(designated string, pool []string) *BackgroundPicker {
	filtered := make([]string, 0, len(pool))
	for _, p := range pool {
		if p != designated && p != "" {
			filtered = append(filtered, p)
		}
	}
	return &BackgroundPicker{
		designated: designated,
		pool:       filtered,
		current:    designated,
		intn:       rand.IntN,
	}
}

// PickFor returns the background for a narration section and advances the
// picker's state: intro variants always reset to the designated image,
// post_clip draws a fresh random image, everything else inherits whatever
// is current. A post_clip draw therefore carries into the following
// pre_clip/outro until the next post_clip or intro.
func (p *BackgroundPicker) PickFor(t script.SectionType) string {
	switch t {
	case script.SectionIntro, script.SectionIntroPlusHook:
		p.current = p.designated
	case script.SectionPostClip:
		if len(p.pool) > 0 {
			p.current = p.pool[p.intn(len(p.pool))]
		}
	}
	return p.current
}

// Current exposes the picker state without advancing it.
func (p *BackgroundPicker) Current() string { return p.current }
