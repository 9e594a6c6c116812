// Package registry indexes an episode's output directories once and resolves
// logical identifiers to physical files. The index is a snapshot: files that
// appear after the scan are invisible until the next one.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no indexed file matches an identifier.
var ErrNotFound = errors.New("not found in episode index")

var (
	audioExtensions = []string{".wav", ".m4a", ".mp3", ".aac"}
	videoExtensions = []string{".mp4", ".mov", ".avi", ".mkv"}
)

type Registry struct {
	episodeDir string
	index      map[string]string
}

// Scan builds the filename index for one episode. Candidate roots are read
// in priority order; a name indexed by an earlier root is never overwritten
// by a later one. Missing roots are skipped.
func Scan(episodeDir string) (*Registry, error) {
	if _, err := os.Stat(episodeDir); err != nil {
		return nil, fmt.Errorf("episode dir: %w", err)
	}
	roots := []string{
		filepath.Join(episodeDir, "Output", "Audio"),
		filepath.Join(episodeDir, "Output", "Video"),
		filepath.Join(episodeDir, "Audio"),
		filepath.Join(episodeDir, "Video"),
	}
	r := &Registry{episodeDir: episodeDir, index: make(map[string]string)}
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, ent := range entries {
			if ent.IsDir() {
				continue
			}
			name := ent.Name()
			if _, ok := r.index[name]; ok {
				continue
			}
			abs, err := filepath.Abs(filepath.Join(root, name))
			if err != nil {
				continue
			}
			r.index[name] = abs
		}
	}
	return r, nil
}

// Resolve maps an identifier to an indexed file. It tries, in order: an
// exact filename match, the final path component of a path-like identifier,
// and, for extensionless identifiers, a logical section-id lookup across the
// known audio then video extensions.
func (r *Registry) Resolve(identifier string) (string, error) {
	if identifier == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrNotFound)
	}
	if p, ok := r.index[identifier]; ok {
		return p, nil
	}
	if base := filepath.Base(filepath.FromSlash(identifier)); base != identifier {
		if p, ok := r.index[base]; ok {
			return p, nil
		}
	}
	if filepath.Ext(identifier) == "" {
		if p, err := r.FindAudioFile(identifier); err == nil {
			return p, nil
		}
		if p, err := r.FindVideoFile(identifier); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, identifier)
}

// FindAudioFile resolves a section id to its narration audio file, trying
// extensions in priority order.
func (r *Registry) FindAudioFile(sectionID string) (string, error) {
	return r.findWithExtensions(sectionID, audioExtensions)
}

// FindVideoFile resolves a section id to its clip video file.
func (r *Registry) FindVideoFile(sectionID string) (string, error) {
	return r.findWithExtensions(sectionID, videoExtensions)
}

func (r *Registry) findWithExtensions(sectionID string, exts []string) (string, error) {
	for _, ext := range exts {
		if p, ok := r.index[sectionID+ext]; ok {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrNotFound, sectionID, strings.Join(exts, ", "))
}

// Len reports how many files the scan indexed.
func (r *Registry) Len() int { return len(r.index) }
