// Package design synthesizes one base creative image per expansion variant.
// Variants run on a bounded worker pool behind a shared pacing limiter; a
// failed variant is recorded and skipped, and the stage fails only when no
// variant produced an image.
package design

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/rafael/adforge/internal/assets"
	"github.com/rafael/adforge/internal/imaging"
	"github.com/rafael/adforge/internal/llm"
	"github.com/rafael/adforge/internal/plan"
	"github.com/rafael/adforge/internal/prompts"
	"github.com/rafael/adforge/internal/types"
)

// StageTag is the filename tag for design artifacts.
const StageTag = "design"

const (
	defaultWorkers = 3
	defaultPacing  = 2 * time.Second
)

// Inputs bundles the artifacts the design stage consumes.
type Inputs struct {
	ProjectID string
	Concept   *types.Concept
	Copy      types.CopySet
	Variants  []plan.Variant
	// BaseLanguage is the deck used when a variant's language has no deck.
	BaseLanguage string
}

// Options tunes concurrency and pacing. Nil selects the defaults.
type Options struct {
	// Workers caps concurrent image calls. 1 degenerates to sequential
	// fixed-delay generation.
	Workers int
	// Pacing is the minimum gap between image calls across all workers.
	Pacing time.Duration
}

func (o *Options) withDefaults() Options {
	out := Options{Workers: defaultWorkers, Pacing: defaultPacing}
	if o == nil {
		return out
	}
	if o.Workers > 0 {
		out.Workers = o.Workers
	}
	if o.Pacing > 0 {
		out.Pacing = o.Pacing
	}
	return out
}

// Render produces one image per variant. Results come back in canonical
// expansion order regardless of completion order; failures are collected per
// variant. The returned error is non-nil only when the context was cancelled
// or every variant failed.
func Render(ctx context.Context, images llm.ImageClient, store *assets.Store, in Inputs, opts *Options) ([]types.Design, []types.VariantFailure, error) {
	if in.Concept == nil {
		return nil, nil, fmt.Errorf("design requires a campaign concept")
	}
	if len(in.Variants) == 0 {
		return nil, nil, fmt.Errorf("design requires at least one variant")
	}
	if images == nil {
		return nil, nil, fmt.Errorf("design requires an image client")
	}
	if store == nil {
		return nil, nil, fmt.Errorf("design requires an artifact store")
	}

	if _, err := prompts.Get("design.json", "compose-scene"); err != nil {
		return nil, nil, fmt.Errorf("failed to load design prompt: %w", err)
	}

	settings := opts.withDefaults()
	limiter := rate.NewLimiter(rate.Every(settings.Pacing), 1)

	// Slots indexed by variant Index keep output order canonical without a
	// mutex; each goroutine owns exactly one slot of each slice.
	results := make([]*types.Design, len(in.Variants))
	failures := make([]*types.VariantFailure, len(in.Variants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(settings.Workers)

	for _, v := range in.Variants {
		v := v
		g.Go(func() error {
			deck := in.Copy.Get(v.Language.Code, in.BaseLanguage)
			if deck == nil {
				failures[v.Index] = &types.VariantFailure{Ref: v.Ref(), Reason: fmt.Sprintf("no copy deck for language %s", v.Language.Code)}
				return nil
			}

			if err := limiter.Wait(gctx); err != nil {
				failures[v.Index] = &types.VariantFailure{Ref: v.Ref(), Reason: "cancelled before generation"}
				return nil
			}

			prompt := BuildPrompt(in.Concept, deck, v)
			img, err := llm.SynthesizeWithRetry(gctx, images, llm.ImageRequest{
				Prompt:  prompt,
				Width:   v.Format.Width,
				Height:  v.Format.Height,
				Quality: "high",
			})
			if err != nil {
				failures[v.Index] = &types.VariantFailure{Ref: v.Ref(), Reason: err.Error()}
				return nil
			}

			data, _, _, err := imaging.Normalize(img.Data)
			if err != nil {
				failures[v.Index] = &types.VariantFailure{Ref: v.Ref(), Reason: fmt.Sprintf("unusable image payload: %v", err)}
				return nil
			}
			data, err = imaging.EnsureSize(data, v.Format.Width, v.Format.Height)
			if err != nil {
				failures[v.Index] = &types.VariantFailure{Ref: v.Ref(), Reason: fmt.Sprintf("resize failed: %v", err)}
				return nil
			}

			now := time.Now()
			name := assets.Name(in.ProjectID, StageTag, v.Language.Code, v.Scheme.ID, v.Format.Tag, "png", now)
			path, err := store.SaveImage(name, data)
			if err != nil {
				failures[v.Index] = &types.VariantFailure{Ref: v.Ref(), Reason: err.Error()}
				return nil
			}

			results[v.Index] = &types.Design{
				Ref:       v.Ref(),
				Path:      path,
				Filename:  name,
				Prompt:    prompt,
				Colors:    v.Scheme.Colors,
				Width:     v.Format.Width,
				Height:    v.Format.Height,
				CreatedAt: now.UTC(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	designs := make([]types.Design, 0, len(in.Variants))
	for _, d := range results {
		if d != nil {
			designs = append(designs, *d)
		}
	}
	failed := make([]types.VariantFailure, 0)
	for _, f := range failures {
		if f != nil {
			failed = append(failed, *f)
		}
	}

	if err := ctx.Err(); err != nil {
		return designs, failed, err
	}
	if len(designs) == 0 {
		return nil, failed, fmt.Errorf("all %d design variants failed", len(in.Variants))
	}
	return designs, failed, nil
}

// BuildPrompt renders the scene prompt for one variant from the concept, the
// variant's copy deck, and the scheme colors.
func BuildPrompt(concept *types.Concept, deck *types.CopyDeck, v plan.Variant) string {
	template := prompts.MustGet("design.json", "compose-scene")

	notes := concept.FormatNotes[v.Format.ID]
	if notes == "" {
		notes = "Compose for this aspect ratio."
	}

	return prompts.Format(template, map[string]string{
		"MainConcept":        concept.MainConcept,
		"FocalPoint":         concept.Visual.FocalPoint,
		"SupportingElements": strings.Join(concept.Visual.SupportingElements, ", "),
		"Composition":        concept.Visual.Composition,
		"Mood":               concept.Mood,
		"Primary":            v.Scheme.Primary(),
		"Secondary":          v.Scheme.Secondary(),
		"Accent":             v.Scheme.Accent(),
		"Neutrals":           strings.Join(v.Scheme.Neutrals(), ", "),
		"FormatLabel":        fmt.Sprintf("%s (%dx%d)", v.Format.Label, v.Format.Width, v.Format.Height),
		"FormatNotes":        notes,
		"Headline":           deck.Headline,
		"CTA":                deck.PrimaryCTA,
	})
}
