// Package brief ingests the brand briefing that seeds a pipeline run. A brief
// arrives as a local text file or as a brand page URL; either way it is
// reduced to text and extracted into a structured record.
package brief

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rafael/adforge/internal/fetch"
	"github.com/rafael/adforge/internal/llm"
	"github.com/rafael/adforge/internal/prompts"
	"github.com/rafael/adforge/internal/types"
)

// Options configures URL ingestion.
type Options struct {
	// UseBrowser enables headless rendering when plain HTTP yields too little
	// text, which happens on JavaScript-rendered storefronts.
	UseBrowser bool
	Verbose    bool
}

// FromFile reads a briefing document from disk.
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read brief file %s: %w", path, err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", fmt.Errorf("brief file %s is empty", path)
	}
	return content, nil
}

// FromURL fetches a brand page and reduces it to briefing text. Page metadata
// (title, description, Open Graph tags) is prepended because brand positioning
// often lives there rather than in the body.
func FromURL(ctx context.Context, urlStr string, opts *Options) (string, error) {
	if opts == nil {
		opts = &Options{}
	}

	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", err
	}

	html := result.HTML
	text := extractForPlatform(urlStr, html)

	// Thin extractions usually mean a client-rendered page.
	if fetch.ShouldUseBrowser(text) && opts.UseBrowser {
		rendered, berr := fetch.BrowserSimple(ctx, urlStr, opts.Verbose)
		if berr != nil {
			return "", fmt.Errorf("page at %s has too little static content and browser rendering failed: %w", urlStr, berr)
		}
		if renderedText := extractForPlatform(urlStr, rendered); len(renderedText) > len(text) {
			html = rendered
			text = renderedText
		}
	}

	content := composeContent(html, text)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("no usable text extracted from %s", urlStr)
	}
	return content, nil
}

// Extract turns free-form briefing text into a structured brand brief using
// the shared retry policy. Returns warnings for optional fields the model
// could not fill.
func Extract(ctx context.Context, client llm.Client, content, sourceURL string) (*types.BrandBrief, []string, error) {
	schema := llm.BrandBriefSchema()

	strictTemplate, err := prompts.Strict("brief.json", "extract-brief")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load brief prompt: %w", err)
	}
	strict := prompts.Format(strictTemplate, map[string]string{
		"SchemaDescription": schema.Describe(),
		"Content":           content,
	})

	var b types.BrandBrief
	err = llm.GenerateStructured(ctx, client, llm.StructuredRequest{
		Prompt:       llm.BuildExtractionPrompt(schema, content),
		StrictPrompt: strict,
		Tier:         llm.TierLite,
	}, &b)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract brief: %w", err)
	}

	b.SourceURL = sourceURL
	if b.Website == "" && sourceURL != "" {
		b.Website = sourceURL
	}

	var warnings []string
	if strings.TrimSpace(b.Sector) == "" {
		warnings = append(warnings, "brief has no sector; concepts will lean on the description")
	}
	if strings.TrimSpace(b.ToneOfVoice) == "" {
		warnings = append(warnings, "brief has no tone of voice; copy will default to a neutral register")
	}

	return &b, warnings, nil
}

func extractForPlatform(urlStr, html string) string {
	platform := fetch.DetectPlatform(urlStr, html)
	text, err := fetch.ExtractMainText(html,
		fetch.PlatformContentSelectors(platform),
		fetch.PlatformNoiseSelectors(platform)...)
	if err != nil {
		return ""
	}
	return text
}

// composeContent merges page metadata and body text into one briefing blob.
func composeContent(html, text string) string {
	meta, err := fetch.ExtractMetadata(html)
	if err != nil || len(meta) == 0 {
		return text
	}

	var sb strings.Builder
	for _, key := range []string{"site_name", "title", "og_title", "description", "og_description", "keywords"} {
		if value, ok := meta[key]; ok {
			sb.WriteString(strings.ReplaceAll(key, "_", " "))
			sb.WriteString(": ")
			sb.WriteString(value)
			sb.WriteString("\n")
		}
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(text)
	return sb.String()
}
