// Package concept produces the campaign concept that every later stage builds
// on. The concept is generated once per run from the brand brief, optionally
// informed by a visual reference image.
package concept

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rafael/adforge/internal/llm"
	"github.com/rafael/adforge/internal/prompts"
	"github.com/rafael/adforge/internal/schemas"
	"github.com/rafael/adforge/internal/types"
)

// Generate develops a campaign concept from the brief. When the model output
// cannot be parsed within the retry budget, a fallback concept assembled from
// the brief is returned together with a warning; service failures propagate.
func Generate(ctx context.Context, client llm.Client, b *types.BrandBrief, referenceNotes string) (*types.Concept, []string, error) {
	if b == nil {
		return nil, nil, fmt.Errorf("concept generation requires a brand brief")
	}

	data := promptData(b, referenceNotes)
	base, err := prompts.Get("concept.json", "generate-concept")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load concept prompt: %w", err)
	}
	strict, err := prompts.Strict("concept.json", "generate-concept")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load concept prompt: %w", err)
	}

	var warnings []string
	c := fallbackConcept(b)
	err = llm.GenerateStructured(ctx, client, llm.StructuredRequest{
		Prompt:       prompts.Format(base, data),
		StrictPrompt: prompts.Format(strict, data),
		Tier:         llm.TierAdvanced,
		Temperature:  llm.DefaultTemperature,
	}, c)

	var unparsable *llm.UnparsableError
	switch {
	case err == nil:
		c.Fallback = false
	case errors.As(err, &unparsable):
		// The budget is spent; continue with the fallback so the run can
		// still produce creatives.
		c = fallbackConcept(b)
		warnings = append(warnings, fmt.Sprintf("concept output unparsable after %d attempts; using fallback concept", unparsable.Attempts))
	default:
		return nil, nil, fmt.Errorf("failed to generate concept: %w", err)
	}

	normalize(c, b)

	if err := schemas.Validate(schemas.ConceptSchema, c); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			for _, fe := range validationErr.Errors {
				warnings = append(warnings, fmt.Sprintf("concept schema: %s: %s", fe.Field, fe.Message))
			}
		}
	}

	return c, warnings, nil
}

// AnalyzeReference describes a reference image so the concept prompt can steer
// toward its style. Failures here degrade to an empty description; the caller
// records the returned error as a warning.
func AnalyzeReference(ctx context.Context, client llm.Client, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read reference image %s: %w", imagePath, err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(imagePath))
	if mimeType == "" {
		mimeType = "image/png"
	}

	instructions, err := prompts.Get("concept.json", "analyze-reference")
	if err != nil {
		return "", fmt.Errorf("failed to load reference prompt: %w", err)
	}

	notes, err := client.AnalyzeImage(ctx, data, mimeType, instructions, llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("failed to analyze reference image: %w", err)
	}
	return strings.TrimSpace(notes), nil
}

func promptData(b *types.BrandBrief, referenceNotes string) map[string]string {
	reference := ""
	if referenceNotes != "" {
		reference = fmt.Sprintf("VISUAL REFERENCE (match this style):\n%s\n", referenceNotes)
	}
	return map[string]string{
		"BrandName":      b.BrandName,
		"Sector":         orUnspecified(b.Sector),
		"TargetAudience": orUnspecified(b.TargetAudience),
		"Objective":      b.Objective,
		"ToneOfVoice":    orUnspecified(b.ToneOfVoice),
		"Description":    orUnspecified(b.Description),
		"ReferenceNotes": reference,
	}
}

// fallbackConcept builds a serviceable generic concept from the brief alone.
func fallbackConcept(b *types.BrandBrief) *types.Concept {
	return &types.Concept{
		MainConcept: fmt.Sprintf("%s presented in an aspirational lifestyle scene", b.BrandName),
		Visual: types.VisualElements{
			FocalPoint:         fmt.Sprintf("the %s product in use", b.BrandName),
			SupportingElements: []string{"clean background", "natural light"},
			Composition:        "centered subject with generous negative space",
		},
		Typography: types.Typography{
			Title: "bold modern sans-serif",
			Body:  "clean sans-serif",
			CTA:   "heavy sans-serif on a button",
		},
		Layout: types.LayoutHints{
			Structure: "focal image with headline above and call to action below",
			Hierarchy: "image, headline, call to action",
			Spacing:   "airy",
		},
		Mood: "confident and aspirational",
		Conversion: types.ConversionHints{
			FocalAnchor:  "product",
			ReadingPath:  "top to bottom",
			CTAPlacement: "lower third",
		},
		Fallback: true,
	}
}

// normalize trims text fields and guarantees the invariants later stages rely
// on: a non-empty focal point and notes for both default formats.
func normalize(c *types.Concept, b *types.BrandBrief) {
	c.MainConcept = strings.TrimSpace(c.MainConcept)
	c.Visual.FocalPoint = strings.TrimSpace(c.Visual.FocalPoint)
	c.Mood = strings.TrimSpace(c.Mood)

	if c.MainConcept == "" {
		c.MainConcept = fmt.Sprintf("%s presented in an aspirational lifestyle scene", b.BrandName)
	}
	if c.Visual.FocalPoint == "" {
		c.Visual.FocalPoint = fmt.Sprintf("the %s product in use", b.BrandName)
	}
	if c.Mood == "" {
		c.Mood = "confident and aspirational"
	}

	if c.FormatNotes == nil {
		c.FormatNotes = map[string]string{}
	}
	if c.FormatNotes["1:1"] == "" {
		c.FormatNotes["1:1"] = "balanced square composition, focal point centered"
	}
	if c.FormatNotes["9:16"] == "" {
		c.FormatNotes["9:16"] = "vertical composition, focal point in the upper two thirds, text zones clear"
	}
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return s
}
