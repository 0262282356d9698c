// Package branding generates the brand identity assets. Today that is a single
// logo, independent of the color/format/language axes, composited onto every
// final creative by the finalization stage.
package branding

import (
	"context"
	"fmt"
	"time"

	"github.com/rafael/adforge/internal/assets"
	"github.com/rafael/adforge/internal/imaging"
	"github.com/rafael/adforge/internal/llm"
	"github.com/rafael/adforge/internal/palette"
	"github.com/rafael/adforge/internal/prompts"
	"github.com/rafael/adforge/internal/types"
)

// LogoSize is the square edge of the generated logo in pixels.
const LogoSize = 1024

// GenerateLogo synthesizes the brand logo on a white background and stores it.
// The scheme provides the color direction; callers pass the first active scheme
// of the run.
func GenerateLogo(ctx context.Context, images llm.ImageClient, store *assets.Store, b *types.BrandBrief, scheme palette.Scheme, projectID string) (*types.BrandAssets, error) {
	if b == nil {
		return nil, fmt.Errorf("logo generation requires a brand brief")
	}
	if images == nil {
		return nil, fmt.Errorf("logo generation requires an image client")
	}
	if store == nil {
		return nil, fmt.Errorf("logo generation requires an artifact store")
	}

	template, err := prompts.Get("branding.json", "generate-logo")
	if err != nil {
		return nil, fmt.Errorf("failed to load logo prompt: %w", err)
	}

	prompt := prompts.Format(template, map[string]string{
		"BrandName":   b.BrandName,
		"Sector":      b.Sector,
		"Primary":     scheme.Primary(),
		"Accent":      scheme.Accent(),
		"ToneOfVoice": b.ToneOfVoice,
	})

	img, err := llm.SynthesizeWithRetry(ctx, images, llm.ImageRequest{
		Prompt: prompt,
		Width:  LogoSize,
		Height: LogoSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate logo: %w", err)
	}

	data, _, _, err := imaging.Normalize(img.Data)
	if err != nil {
		return nil, fmt.Errorf("logo payload is not a usable image: %w", err)
	}

	name := assets.LogoName(projectID, time.Now())
	path, err := store.SaveImage(name, data)
	if err != nil {
		return nil, err
	}

	return &types.BrandAssets{
		LogoPath:     path,
		LogoFilename: name,
		Prompt:       prompt,
	}, nil
}
