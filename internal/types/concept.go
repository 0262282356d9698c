package types

// Concept is the visual concept produced by the first pipeline stage. It is
// written once and read-only afterward; every later stage builds on it.
type Concept struct {
	MainConcept string          `json:"main_concept"`
	Visual      VisualElements  `json:"visual_elements"`
	Palette     ConceptPalette  `json:"suggested_palette"`
	Typography  Typography      `json:"typography"`
	Layout      LayoutHints     `json:"suggested_layout"`
	Mood        string          `json:"mood"`
	Conversion  ConversionHints `json:"conversion_strategy"`
	// FormatNotes maps a format id (e.g. "1:1", "9:16") to composition notes
	// specific to that aspect ratio.
	FormatNotes map[string]string `json:"format_adaptations,omitempty"`
	// Fallback marks a concept assembled from defaults after the model response
	// could not be parsed.
	Fallback bool `json:"fallback,omitempty"`
}

// VisualElements describes what the creative should show.
type VisualElements struct {
	FocalPoint         string   `json:"focal_point"`
	SupportingElements []string `json:"supporting_elements,omitempty"`
	Composition        string   `json:"composition,omitempty"`
}

// ConceptPalette is the palette the concept stage suggests. The design stage may
// replace it with a preset or derived scheme; roles are hex colors.
type ConceptPalette struct {
	Primary   string   `json:"primary"`
	Secondary string   `json:"secondary,omitempty"`
	Accent    string   `json:"accent,omitempty"`
	Neutrals  []string `json:"neutrals,omitempty"`
}

// Typography carries style hints per text role.
type Typography struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	CTA   string `json:"cta,omitempty"`
}

// LayoutHints describes the spatial organization of the creative.
type LayoutHints struct {
	Structure string `json:"structure,omitempty"`
	Hierarchy string `json:"hierarchy,omitempty"`
	Spacing   string `json:"spacing,omitempty"`
}

// ConversionHints captures where the eye should land and how the CTA is staged.
type ConversionHints struct {
	FocalAnchor        string   `json:"focal_anchor,omitempty"`
	ReadingPath        string   `json:"reading_path,omitempty"`
	PersuasionElements []string `json:"persuasion_elements,omitempty"`
	CTAPlacement       string   `json:"cta_placement,omitempty"`
}
