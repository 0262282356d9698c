package types

import "time"

// VariantRef identifies the (color scheme, format, language) tuple a creative
// was produced for. Index is the variant's position in the canonical expansion
// order, used to keep result lists deterministic.
type VariantRef struct {
	Scheme   string `json:"scheme"`
	Format   string `json:"format"`
	Language string `json:"language"`
	Index    int    `json:"index"`
}

// Key returns the canonical scheme/format/language identifier.
func (r VariantRef) Key() string {
	return r.Scheme + "/" + r.Format + "/" + r.Language
}

// Design is one synthesized base image together with the exact prompt that
// produced it. Immutable once created.
type Design struct {
	Ref       VariantRef `json:"ref"`
	Path      string     `json:"path"`
	Filename  string     `json:"filename"`
	Prompt    string     `json:"prompt"`
	Colors    []string   `json:"colors,omitempty"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	CreatedAt time.Time  `json:"created_at"`
}

// VariantFailure records a variant that could not be produced, for run reports.
type VariantFailure struct {
	Ref    VariantRef `json:"ref"`
	Reason string     `json:"reason"`
}

// BrandAssets holds the generated brand identity pieces. The logo is independent
// of the color/format/language axes.
type BrandAssets struct {
	LogoPath     string `json:"logo_path"`
	LogoFilename string `json:"logo_filename"`
	Prompt       string `json:"prompt,omitempty"`
}

// FinalCreative is a Design composited with the language-specific footer and the
// brand logo. Keyed by the full variant tuple; its language may differ from the
// base design's language.
type FinalCreative struct {
	Ref        VariantRef `json:"ref"`
	DesignPath string     `json:"design_path"`
	Path       string     `json:"path"`
	Filename   string     `json:"filename"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	CreatedAt  time.Time  `json:"created_at"`
}
