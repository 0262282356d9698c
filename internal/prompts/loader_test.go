package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("concept.json", "generate-concept")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "creative director")
	assert.Contains(t, prompt, "{{.BrandName}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("concept.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStrict(t *testing.T) {
	ClearCache()

	t.Run("returns strict variant when defined", func(t *testing.T) {
		prompt, err := Strict("copywrite.json", "write-copy")
		require.NoError(t, err)
		assert.Contains(t, prompt, "CRITICAL")
		assert.Contains(t, prompt, "ONLY a valid JSON object")
	})

	t.Run("falls back to base key", func(t *testing.T) {
		prompt, err := Strict("design.json", "compose-scene")
		require.NoError(t, err)
		assert.Contains(t, prompt, "{{.FocalPoint}}")
	})

	t.Run("missing base key still errors", func(t *testing.T) {
		_, err := Strict("design.json", "nonexistent-key")
		assert.Error(t, err)
	})
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("branding.json", "generate-logo")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Brand {{.BrandName}} targeting {{.TargetAudience}}"
	data := map[string]string{
		"BrandName":      "Aurora Fit",
		"TargetAudience": "urban runners",
	}

	result := Format(template, data)
	assert.Equal(t, "Brand Aurora Fit targeting urban runners", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Brand {{.BrandName}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("concept.json")
	require.NoError(t, err)
	assert.Contains(t, keys, "generate-concept")
	assert.Contains(t, keys, "generate-concept-strict")
	assert.Contains(t, keys, "analyze-reference")
	assert.IsIncreasing(t, keys)
}

func TestStageFilesAreComplete(t *testing.T) {
	ClearCache()

	tests := []struct {
		filename string
		keys     []string
	}{
		{"concept.json", []string{"generate-concept", "generate-concept-strict", "analyze-reference"}},
		{"copywrite.json", []string{"write-copy", "write-copy-strict"}},
		{"design.json", []string{"compose-scene"}},
		{"branding.json", []string{"generate-logo"}},
		{"finalize.json", []string{"apply-footer"}},
		{"brief.json", []string{"extract-brief", "extract-brief-strict"}},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			for _, key := range tt.keys {
				prompt, err := Get(tt.filename, key)
				require.NoError(t, err, "key %s", key)
				assert.NotEmpty(t, prompt)
			}
		})
	}
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get("concept.json", "generate-concept")
	require.NoError(t, err)

	prompt2, err := Get("concept.json", "generate-concept")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
