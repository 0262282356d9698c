// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "BrandBrief")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// Describe renders the expected output structure as a prompt block.
func (s ExtractionSchema) Describe() string {
	var sb strings.Builder

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range s.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(s.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}")

	return sb.String()
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString(schema.Describe())
	sb.WriteString("\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize beyond it.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// BrandBriefSchema returns the extraction schema for campaign briefings. Used
// when a brief arrives as free text or as a scraped brand page instead of
// structured CLI flags.
func BrandBriefSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "BrandBrief",
		Description: `You are an expert brand strategist. Your task is to extract campaign briefing
information from raw text about a brand (a briefing document or a brand's website copy).
Capture how the brand presents itself; do not embellish.`,
		Fields: []SchemaField{
			{
				Name:        "brand_name",
				Type:        "\"string\"",
				Description: "Name of the brand or product",
				Required:    true,
			},
			{
				Name:        "sector",
				Type:        "\"string\"",
				Description: "Industry/sector (e.g., 'food delivery', 'B2B SaaS')",
				Required:    false,
			},
			{
				Name:        "target_audience",
				Type:        "\"string\"",
				Description: "Who the campaign should reach",
				Required:    false,
			},
			{
				Name:        "objective",
				Type:        "\"string\"",
				Description: "What the campaign should achieve (launch, conversion, awareness)",
				Required:    true,
			},
			{
				Name:        "tone_of_voice",
				Type:        "\"string\"",
				Description: "How the brand speaks (e.g., 'direct, playful', 'formal, reassuring')",
				Required:    false,
			},
			{
				Name:        "description",
				Type:        "\"string\"",
				Description: "One-paragraph summary of the brand and its offer",
				Required:    false,
			},
		},
	}
}
