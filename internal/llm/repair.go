// Package llm - repair.go recovers structured records from free-form model output.
package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// Models often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// RepairJSON extracts a JSON object or array from raw model output. Attempts, in
// order, short-circuiting on the first parseable result:
//
//  1. the text as-is
//  2. the text with markdown fences stripped
//  3. the substring between the first opening and last closing brace
//  4. the substring after light syntactic repair: trailing commas removed,
//     then single quotes normalized to double quotes
//
// Returns the recovered JSON bytes, or an *UnparsableError when nothing worked.
func RepairJSON(raw string) ([]byte, error) {
	candidate := strings.TrimSpace(raw)
	if json.Valid([]byte(candidate)) {
		return []byte(candidate), nil
	}

	candidate = CleanJSONBlock(candidate)
	if json.Valid([]byte(candidate)) {
		return []byte(candidate), nil
	}

	if sub, ok := braceSubstring(candidate); ok {
		if json.Valid([]byte(sub)) {
			return []byte(sub), nil
		}
		candidate = sub
	}

	repaired := trailingCommaRe.ReplaceAllString(candidate, "$1")
	if json.Valid([]byte(repaired)) {
		return []byte(repaired), nil
	}

	requoted := strings.ReplaceAll(repaired, "'", `"`)
	if json.Valid([]byte(requoted)) {
		return []byte(requoted), nil
	}

	return nil, &UnparsableError{
		Attempts: 1,
		Raw:      raw,
		Cause:    firstSyntaxError(raw),
	}
}

// DecodeLenient runs the repair ladder over raw and unmarshals the result into v.
// When no JSON can be recovered v is never written, so pre-filled defaults
// survive; on a type-mismatch error the caller should rebuild its default record
// instead of trusting v. Never panics on malformed input.
func DecodeLenient(raw string, v any) error {
	data, err := RepairJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &UnparsableError{Attempts: 1, Raw: raw, Cause: err}
	}
	return nil
}

// braceSubstring returns the substring between the first '{' and the last '}'.
// Falls back to '[' / ']' when the payload is a bare array.
func braceSubstring(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1], true
	}
	start = strings.IndexByte(s, '[')
	end = strings.LastIndexByte(s, ']')
	if start >= 0 && end > start {
		return s[start : end+1], true
	}
	return "", false
}

// firstSyntaxError surfaces the decoder's complaint about the original text,
// which is more useful in logs than "invalid JSON".
func firstSyntaxError(raw string) error {
	var v any
	return json.Unmarshal([]byte(strings.TrimSpace(raw)), &v)
}
