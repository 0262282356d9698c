// Package finalize turns base designs into delivery-ready creatives: a
// localized footer with the legal line is rendered into the image through an
// edit call, then the brand logo is composited locally onto the bottom-right
// corner. Like the design stage it tolerates per-creative failures and fails
// only when nothing could be produced.
package finalize

import (
	"context"
	"fmt"
	"os"
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

// StageTag is the filename tag for final creatives.
const StageTag = "final"

const (
	defaultWorkers = 3
	defaultPacing  = 2 * time.Second
)

// Inputs bundles the artifacts the finalization stage consumes.
type Inputs struct {
	ProjectID string
	Brief     *types.BrandBrief
	Designs   []types.Design
	Copy      types.CopySet
	Brand     *types.BrandAssets
	// Formats resolves format ids back to filename tags and pixel sizes.
	Formats []plan.Format
	// BaseLanguage is the deck used when a design's language has no deck.
	BaseLanguage string
}

// Options tunes concurrency and pacing. Nil selects the defaults.
type Options struct {
	Workers int
	Pacing  time.Duration
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

// Run finalizes every design. Only successfully produced designs and decks are
// referenced; a design whose language has no deck (and no base-language deck)
// is recorded as a failure rather than shipped without text.
func Run(ctx context.Context, images llm.ImageClient, store *assets.Store, in Inputs, opts *Options) ([]types.FinalCreative, []types.VariantFailure, error) {
	if len(in.Designs) == 0 {
		return nil, nil, fmt.Errorf("finalization requires at least one design")
	}
	if in.Brief == nil {
		return nil, nil, fmt.Errorf("finalization requires a brand brief")
	}
	if images == nil {
		return nil, nil, fmt.Errorf("finalization requires an image client")
	}
	if store == nil {
		return nil, nil, fmt.Errorf("finalization requires an artifact store")
	}
	if in.Brand == nil || in.Brand.LogoPath == "" {
		return nil, nil, fmt.Errorf("finalization requires the brand logo")
	}

	logo, err := os.ReadFile(in.Brand.LogoPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read brand logo: %w", err)
	}

	template, err := prompts.Get("finalize.json", "apply-footer")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load footer prompt: %w", err)
	}

	settings := opts.withDefaults()
	limiter := rate.NewLimiter(rate.Every(settings.Pacing), 1)
	year := time.Now().Year()

	results := make([]*types.FinalCreative, len(in.Designs))
	failures := make([]*types.VariantFailure, len(in.Designs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(settings.Workers)

	for i, d := range in.Designs {
		i, d := i, d
		g.Go(func() error {
			deck := in.Copy.Get(d.Ref.Language, in.BaseLanguage)
			if deck == nil || deck.Empty() {
				failures[i] = &types.VariantFailure{Ref: d.Ref, Reason: fmt.Sprintf("no usable copy deck for language %s", d.Ref.Language)}
				return nil
			}

			base, err := os.ReadFile(d.Path)
			if err != nil {
				failures[i] = &types.VariantFailure{Ref: d.Ref, Reason: fmt.Sprintf("design image unreadable: %v", err)}
				return nil
			}

			if err := limiter.Wait(gctx); err != nil {
				failures[i] = &types.VariantFailure{Ref: d.Ref, Reason: "cancelled before finalization"}
				return nil
			}

			instructions := prompts.Format(template, map[string]string{
				"FooterText": FooterText(deck, in.Brief),
				"LegalLine":  LegalLine(d.Ref.Language, in.Brief.BrandName, year),
			})

			edited, err := llm.EditWithRetry(gctx, images, &llm.ImageData{Data: base, MIMEType: "image/png"}, instructions, llm.ImageRequest{
				Width:  d.Width,
				Height: d.Height,
			})
			if err != nil {
				failures[i] = &types.VariantFailure{Ref: d.Ref, Reason: err.Error()}
				return nil
			}

			composited, err := imaging.OverlayLogo(edited.Data, logo)
			if err != nil {
				failures[i] = &types.VariantFailure{Ref: d.Ref, Reason: fmt.Sprintf("logo overlay failed: %v", err)}
				return nil
			}

			composited, err = imaging.EnsureSize(composited, d.Width, d.Height)
			if err != nil {
				failures[i] = &types.VariantFailure{Ref: d.Ref, Reason: fmt.Sprintf("resize failed: %v", err)}
				return nil
			}

			now := time.Now()
			name := assets.Name(in.ProjectID, StageTag, d.Ref.Language, d.Ref.Scheme, formatTag(in.Formats, d.Ref.Format), "png", now)
			path, err := store.SaveImage(name, composited)
			if err != nil {
				failures[i] = &types.VariantFailure{Ref: d.Ref, Reason: err.Error()}
				return nil
			}

			results[i] = &types.FinalCreative{
				Ref:        d.Ref,
				DesignPath: d.Path,
				Path:       path,
				Filename:   name,
				Width:      d.Width,
				Height:     d.Height,
				CreatedAt:  now.UTC(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	finals := make([]types.FinalCreative, 0, len(in.Designs))
	for _, f := range results {
		if f != nil {
			finals = append(finals, *f)
		}
	}
	failed := make([]types.VariantFailure, 0)
	for _, f := range failures {
		if f != nil {
			failed = append(failed, *f)
		}
	}

	if err := ctx.Err(); err != nil {
		return finals, failed, err
	}
	if len(finals) == 0 {
		return nil, failed, fmt.Errorf("all %d final creatives failed", len(in.Designs))
	}
	return finals, failed, nil
}

// FooterText picks the deck's footer when the copywriter produced one, falling
// back to the brand website and finally the brand name.
func FooterText(deck *types.CopyDeck, b *types.BrandBrief) string {
	if text := strings.TrimSpace(deck.FooterText); text != "" {
		return text
	}
	if b.Website != "" {
		return b.Website
	}
	return b.BrandName
}

// LegalLine renders the per-language copyright line.
func LegalLine(language, brandName string, year int) string {
	switch language {
	case "pt":
		return fmt.Sprintf("© %d %s. Todos os direitos reservados.", year, brandName)
	case "es":
		return fmt.Sprintf("© %d %s. Todos los derechos reservados.", year, brandName)
	default:
		return fmt.Sprintf("© %d %s. All rights reserved.", year, brandName)
	}
}

// formatTag resolves a format id to its filename tag, degrading to a
// filename-safe spelling of the id for formats not in the run configuration.
func formatTag(formats []plan.Format, id string) string {
	if f, ok := plan.FindFormat(formats, id); ok {
		return f.Tag
	}
	return strings.ReplaceAll(id, ":", "x")
}
