// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rafael/adforge/internal/assets"
	"github.com/rafael/adforge/internal/plan"
	"github.com/rafael/adforge/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintBrief outputs a human-readable summary of the brand brief.
func (p *Printer) PrintBrief(b *types.BrandBrief) {
	if b == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Brand:      %s\n", b.BrandName))
	sb.WriteString(fmt.Sprintf("Sector:     %s\n", b.Sector))
	sb.WriteString(fmt.Sprintf("Objective:  %s\n", b.Objective))
	sb.WriteString(fmt.Sprintf("Audience:   %s\n", b.TargetAudience))
	sb.WriteString(fmt.Sprintf("Tone:       %s", b.ToneOfVoice))
	if b.SourceURL != "" {
		sb.WriteString(fmt.Sprintf("\nSource:     %s", b.SourceURL))
	}

	p.printBox("BRAND BRIEF", sb.String())
}

// PrintConcept outputs the generated campaign concept.
func (p *Printer) PrintConcept(c *types.Concept) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Concept:  %s\n", c.MainConcept))
	sb.WriteString(fmt.Sprintf("Focal:    %s\n", c.Visual.FocalPoint))
	sb.WriteString(fmt.Sprintf("Mood:     %s\n", c.Mood))

	if len(c.Visual.SupportingElements) > 0 {
		sb.WriteString("\nSupporting elements:\n")
		count := min(len(c.Visual.SupportingElements), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", c.Visual.SupportingElements[i]))
		}
		if len(c.Visual.SupportingElements) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(c.Visual.SupportingElements)-maxItemsToShow))
		}
	}

	if c.Palette.Primary != "" {
		sb.WriteString("\nSuggested palette:\n")
		sb.WriteString(fmt.Sprintf("  primary %s  secondary %s  accent %s\n", c.Palette.Primary, c.Palette.Secondary, c.Palette.Accent))
	}
	if c.Fallback {
		sb.WriteString("\n⚠ fallback concept (model output was unparsable)\n")
	}

	p.printBox("CAMPAIGN CONCEPT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCopySet outputs one section per language deck, base language first when
// present, the rest in sorted order.
func (p *Printer) PrintCopySet(set types.CopySet) {
	if len(set) == 0 {
		return
	}

	var sb strings.Builder
	langs := set.Languages()
	for i, lang := range langs {
		deck := set[lang]
		if deck == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("[%s]", lang))
		if deck.Fallback {
			sb.WriteString(" (fallback)")
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  %s\n", deck.Headline))
		if deck.Subheadline != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", deck.Subheadline))
		}
		sb.WriteString(fmt.Sprintf("  CTA: %s\n", deck.PrimaryCTA))
		if i < len(langs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("COPY DECKS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintVariantMatrix outputs the expansion work list grouped by color scheme.
func (p *Printer) PrintVariantMatrix(variants []plan.Variant) {
	if len(variants) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total variants: %d\n", len(variants)))

	var currentScheme string
	for _, v := range variants {
		if v.Scheme.ID != currentScheme {
			currentScheme = v.Scheme.ID
			sb.WriteString(fmt.Sprintf("\n%s (%s)\n", v.Scheme.Label, v.Scheme.Primary()))
		}
		sb.WriteString(fmt.Sprintf("  #%d  %s · %s\n", v.Index, v.Format.ID, v.Language.Code))
	}

	p.printBox("VARIANT MATRIX", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs the end-of-run report: the stage ledger, artifact
// counts, and any failed variants.
func (p *Printer) PrintRunSummary(m *assets.Manifest, duration time.Duration) {
	if m == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Project:   %s\n", m.ProjectID))
	if m.BrandName != "" {
		sb.WriteString(fmt.Sprintf("Brand:     %s\n", m.BrandName))
	}
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", duration.Round(time.Second)))
	sb.WriteString("\nStages:\n")
	for _, stage := range []string{"concept", "copy", "design", "branding", "finalize"} {
		status := m.Stages[stage]
		if status == "" {
			status = "pending"
		}
		marker := "•"
		switch status {
		case "completed":
			marker = "✓"
		case "failed":
			marker = "✗"
		}
		sb.WriteString(fmt.Sprintf("  %s %-10s %s\n", marker, stage, status))
	}

	sb.WriteString(fmt.Sprintf("\nDesigns:   %d\n", len(m.Designs)))
	sb.WriteString(fmt.Sprintf("Finals:    %d\n", len(m.Finals)))

	failures := len(m.DesignFailures) + len(m.FinalFailures)
	if failures > 0 {
		sb.WriteString(fmt.Sprintf("\nFailed variants (%d):\n", failures))
		shown := 0
		for _, f := range append(append([]types.VariantFailure{}, m.DesignFailures...), m.FinalFailures...) {
			if shown == maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", failures-shown))
				break
			}
			sb.WriteString(fmt.Sprintf("  ✗ %s\n", f.Ref.Key()))
			shown++
		}
	}
	if len(m.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("\nWarnings:  %d\n", len(m.Warnings)))
	}

	p.printBox("RUN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs accumulated run warnings.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO WARNINGS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d warnings:\n\n", len(warnings)))
	for i, w := range warnings {
		if len(w) > 50 {
			w = w[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s", w))
		if i < len(warnings)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RUN WARNINGS", sb.String())
}
