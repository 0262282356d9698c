// Package assets persists pipeline artifacts to the output directory and
// owns the canonical file naming scheme shared by every stage.
package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store writes artifacts under a single root directory.
type Store struct {
	root string
}

// NewStore creates the output directory when missing and returns a store
// rooted there.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the store's base directory.
func (s *Store) Root() string {
	return s.root
}

// Name builds the canonical artifact filename. Empty tags are skipped, so
// stage-level artifacts omit the variant segments:
//
//	{projectID}_{stageTag}_{languageTag}_{schemeTag}_{formatTag}_{unix}.{ext}
func Name(projectID, stageTag, languageTag, schemeTag, formatTag, ext string, at time.Time) string {
	parts := []string{projectID, stageTag}
	for _, tag := range []string{languageTag, schemeTag, formatTag} {
		if tag != "" {
			parts = append(parts, tag)
		}
	}
	parts = append(parts, fmt.Sprintf("%d", at.Unix()))
	return strings.Join(parts, "_") + "." + ext
}

// LogoName builds the brand logo filename.
func LogoName(projectID string, at time.Time) string {
	return Name(projectID, "logo", "", "", "", "png", at)
}

// SaveImage writes raw image bytes and returns the absolute path.
func (s *Store) SaveImage(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("refusing to write empty image %s", name)
	}
	return s.write(name, data)
}

// SaveJSON marshals v with indentation and writes it.
func (s *Store) SaveJSON(name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return s.write(name, data)
}

// Load reads a previously written artifact by name.
func (s *Store) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", name, err)
	}
	return data, nil
}

func (s *Store) write(name string, data []byte) (string, error) {
	path := filepath.Join(s.root, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}
