// Package types provides type definitions for the structured artifacts exchanged
// between pipeline stages.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// BrandBrief captures the briefing that seeds a pipeline run: who the brand is,
// what the campaign should achieve, and how it should sound.
type BrandBrief struct {
	BrandName      string `json:"brand_name"`
	Sector         string `json:"sector,omitempty"`
	TargetAudience string `json:"target_audience,omitempty"`
	Objective      string `json:"objective"`
	ToneOfVoice    string `json:"tone_of_voice,omitempty"`
	Description    string `json:"description,omitempty"`
	Website        string `json:"website,omitempty"`
	// SourceURL records where the brief was ingested from, when it was not typed in.
	SourceURL string `json:"source_url,omitempty"`
}

// Validate reports whether the brief carries the minimum fields a run needs.
func (b *BrandBrief) Validate() []string {
	var missing []string
	if strings.TrimSpace(b.BrandName) == "" {
		missing = append(missing, "brand_name")
	}
	if strings.TrimSpace(b.Objective) == "" {
		missing = append(missing, "objective")
	}
	return missing
}
