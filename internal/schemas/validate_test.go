package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafael/adforge/internal/types"
)

func TestValidate_Concept(t *testing.T) {
	tests := []struct {
		name      string
		concept   types.Concept
		wantError bool
	}{
		{
			name: "complete concept passes",
			concept: types.Concept{
				MainConcept: "movement as energy",
				Visual: types.VisualElements{
					FocalPoint:         "runner mid-stride at sunrise",
					SupportingElements: []string{"city skyline", "motion blur"},
					Composition:        "rule of thirds, subject left",
				},
				Palette: types.ConceptPalette{Primary: "#FF6B35", Neutrals: []string{"#FFFFFF"}},
				Mood:    "energetic",
			},
			wantError: false,
		},
		{
			name: "missing main concept fails",
			concept: types.Concept{
				Visual: types.VisualElements{FocalPoint: "runner"},
				Mood:   "energetic",
			},
			wantError: true,
		},
		{
			name: "missing focal point fails",
			concept: types.Concept{
				MainConcept: "movement as energy",
				Mood:        "energetic",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(ConceptSchema, tt.concept)
			if tt.wantError {
				require.Error(t, err)
				var validationErr *ValidationError
				require.True(t, errors.As(err, &validationErr), "error should be ValidationError type")
				assert.Greater(t, len(validationErr.Errors), 0)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_CopyDeck(t *testing.T) {
	tests := []struct {
		name      string
		deck      types.CopyDeck
		wantError bool
	}{
		{
			name: "complete deck passes",
			deck: types.CopyDeck{
				Language:     "pt",
				Headline:     "Sua melhor corrida",
				PrimaryCTA:   "Comece agora",
				BulletPoints: []string{"a", "b", "c"},
			},
			wantError: false,
		},
		{
			name:      "missing headline fails",
			deck:      types.CopyDeck{Language: "pt", PrimaryCTA: "Comece agora"},
			wantError: true,
		},
		{
			name:      "missing cta fails",
			deck:      types.CopyDeck{Language: "en", Headline: "Run further"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(CopyDeckSchema, tt.deck)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBytes_WrongType(t *testing.T) {
	err := ValidateBytes(CopyDeckSchema, []byte(`{"language": "pt", "headline": 42, "primary_cta": "Go"}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Greater(t, len(validationErr.Errors), 0)
	assert.Contains(t, validationErr.Error(), "headline")
}

func TestValidateBytes_UnknownSchema(t *testing.T) {
	err := ValidateBytes("nonexistent", []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Error(), "nonexistent")
}

func TestValidateFile(t *testing.T) {
	t.Run("valid artifact on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.json")
		payload := []byte(`{"language": "en", "headline": "Run further", "primary_cta": "Start now"}`)
		require.NoError(t, os.WriteFile(path, payload, 0o644))

		assert.NoError(t, ValidateFile(CopyDeckSchema, path))
	})

	t.Run("missing file", func(t *testing.T) {
		err := ValidateFile(CopyDeckSchema, filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{ invalid json }"), 0o644))

		err := ValidateFile(CopyDeckSchema, path)
		assert.Error(t, err)
	})
}

func TestList(t *testing.T) {
	names := List()
	assert.Contains(t, names, ConceptSchema)
	assert.Contains(t, names, CopyDeckSchema)
}
