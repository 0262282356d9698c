// Package copywrite produces one advertising copy deck per requested language.
// Decks are written natively per language in a single structured call each; a
// language whose output stays unparsable gets a deterministic fallback deck so
// the later stages always have text to work with.
package copywrite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rafael/adforge/internal/llm"
	"github.com/rafael/adforge/internal/plan"
	"github.com/rafael/adforge/internal/prompts"
	"github.com/rafael/adforge/internal/schemas"
	"github.com/rafael/adforge/internal/types"
)

// Temperature for copy generation. Higher than the default so headlines vary;
// the strict retry still drops to the strict temperature.
const Temperature = 0.8

// maxBulletPoints caps the bullet list at what the creative layouts can show.
const maxBulletPoints = 5

// Write produces a copy deck for every language, in order. Unparsable output
// for a language degrades to a fallback deck with a warning; service failures
// abort the stage because every later stage needs the copy.
func Write(ctx context.Context, client llm.Client, b *types.BrandBrief, concept *types.Concept, languages []plan.Language) (types.CopySet, []string, error) {
	if b == nil {
		return nil, nil, fmt.Errorf("copywriting requires a brand brief")
	}
	if concept == nil {
		return nil, nil, fmt.Errorf("copywriting requires a campaign concept")
	}
	if len(languages) == 0 {
		return nil, nil, fmt.Errorf("copywriting requires at least one language")
	}

	base, err := prompts.Get("copywrite.json", "write-copy")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load copy prompt: %w", err)
	}
	strict, err := prompts.Strict("copywrite.json", "write-copy")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load copy prompt: %w", err)
	}

	set := make(types.CopySet, len(languages))
	var warnings []string

	for _, lang := range languages {
		data := map[string]string{
			"Language":     lang.Code,
			"LanguageName": lang.Name,
			"BrandName":    b.BrandName,
			"Sector":       b.Sector,
			"Objective":    b.Objective,
			"ToneOfVoice":  b.ToneOfVoice,
			"MainConcept":  concept.MainConcept,
			"Mood":         concept.Mood,
		}

		deck := &types.CopyDeck{}
		err := llm.GenerateStructured(ctx, client, llm.StructuredRequest{
			Prompt:       prompts.Format(base, data),
			StrictPrompt: prompts.Format(strict, data),
			Tier:         llm.TierStandard,
			Temperature:  Temperature,
		}, deck)

		var unparsable *llm.UnparsableError
		switch {
		case err == nil:
		case errors.As(err, &unparsable):
			deck = fallbackDeck(b, lang)
			warnings = append(warnings, fmt.Sprintf("%s copy unparsable after %d attempts; using fallback deck", lang.Code, unparsable.Attempts))
		default:
			return nil, warnings, fmt.Errorf("failed to write %s copy: %w", lang.Code, err)
		}

		normalize(deck, lang)
		if deck.Empty() {
			deck = fallbackDeck(b, lang)
			warnings = append(warnings, fmt.Sprintf("%s copy came back without headline or call to action; using fallback deck", lang.Code))
		}

		if err := schemas.Validate(schemas.CopyDeckSchema, deck); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				for _, fe := range validationErr.Errors {
					warnings = append(warnings, fmt.Sprintf("%s copy schema: %s: %s", lang.Code, fe.Field, fe.Message))
				}
			}
		}

		set[lang.Code] = deck
	}

	return set, warnings, nil
}

// normalize trims the text fields, pins the language code, and clamps the
// bullet list to what layouts can show.
func normalize(d *types.CopyDeck, lang plan.Language) {
	d.Language = lang.Code
	d.Headline = strings.TrimSpace(d.Headline)
	d.Subheadline = strings.TrimSpace(d.Subheadline)
	d.PrimaryCTA = strings.TrimSpace(d.PrimaryCTA)
	d.SecondaryCTA = strings.TrimSpace(d.SecondaryCTA)
	d.Urgency = strings.TrimSpace(d.Urgency)
	d.KeyBenefit = strings.TrimSpace(d.KeyBenefit)

	bullets := d.BulletPoints[:0]
	for _, b := range d.BulletPoints {
		if b = strings.TrimSpace(b); b != "" {
			bullets = append(bullets, b)
		}
	}
	if len(bullets) > maxBulletPoints {
		bullets = bullets[:maxBulletPoints]
	}
	d.BulletPoints = bullets
}

// fallbackDeck builds the deterministic default deck for a language.
func fallbackDeck(b *types.BrandBrief, lang plan.Language) *types.CopyDeck {
	deck := &types.CopyDeck{
		Language: lang.Code,
		Fallback: true,
	}
	switch lang.Code {
	case "pt":
		deck.Headline = fmt.Sprintf("Conheça %s", b.BrandName)
		deck.Subheadline = "Qualidade que você percebe no primeiro uso."
		deck.PrimaryCTA = "Saiba mais"
		deck.Urgency = "Por tempo limitado"
	case "es":
		deck.Headline = fmt.Sprintf("Conozca %s", b.BrandName)
		deck.Subheadline = "Calidad que se nota desde el primer uso."
		deck.PrimaryCTA = "Más información"
		deck.Urgency = "Por tiempo limitado"
	default:
		deck.Headline = fmt.Sprintf("Meet %s", b.BrandName)
		deck.Subheadline = "Quality you notice from the first use."
		deck.PrimaryCTA = "Learn more"
		deck.Urgency = "For a limited time"
	}
	return deck
}
