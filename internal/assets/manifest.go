package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rafael/adforge/internal/types"
)

// Manifest is the on-disk snapshot of a project run. It carries every
// artifact produced so far plus the stage ledger, and is rewritten after each
// stage so an interrupted run can resume from the last completed stage.
type Manifest struct {
	ProjectID string            `json:"project_id"`
	BrandName string            `json:"brand_name,omitempty"`
	Epoch     int               `json:"epoch"`
	Stages    map[string]string `json:"stages"`

	Brief          *types.BrandBrief      `json:"brief,omitempty"`
	Concept        *types.Concept         `json:"concept,omitempty"`
	Copy           types.CopySet          `json:"copy,omitempty"`
	Designs        []types.Design         `json:"designs,omitempty"`
	DesignFailures []types.VariantFailure `json:"design_failures,omitempty"`
	Brand          *types.BrandAssets     `json:"brand_assets,omitempty"`
	Finals         []types.FinalCreative  `json:"finals,omitempty"`
	FinalFailures  []types.VariantFailure `json:"final_failures,omitempty"`

	Warnings  []string  `json:"warnings,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ManifestName returns the manifest filename for a project.
func ManifestName(projectID string) string {
	return projectID + "_manifest.json"
}

// WriteManifest persists the manifest, stamping UpdatedAt.
func (s *Store) WriteManifest(m *Manifest) (string, error) {
	if m.ProjectID == "" {
		return "", fmt.Errorf("manifest is missing a project id")
	}
	m.UpdatedAt = time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = m.UpdatedAt
	}
	return s.SaveJSON(ManifestName(m.ProjectID), m)
}

// LoadManifest reads a project manifest back from disk.
func (s *Store) LoadManifest(projectID string) (*Manifest, error) {
	data, err := s.Load(ManifestName(projectID))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest for %s: %w", projectID, err)
	}
	return &m, nil
}

// FindManifests lists the project IDs that have a manifest under root.
func FindManifests(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		const suffix = "_manifest.json"
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			ids = append(ids, name[:len(name)-len(suffix)])
		}
	}
	return ids, nil
}
