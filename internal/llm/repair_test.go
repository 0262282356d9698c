package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"key\": \"value\"}\n\n",
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "already valid",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "fenced block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "preamble before object",
			input:    "As requested, here is the JSON:\n{\"company\": \"Acme\"}",
			expected: `{"company": "Acme"}`,
		},
		{
			name:     "trailing prose after object",
			input:    "{\"key\": \"value\"}\n\nLet me know if you need anything else!",
			expected: `{"key": "value"}`,
		},
		{
			name:     "preamble before array",
			input:    "Here are the items:\n[\"item1\", \"item2\"]",
			expected: `["item1", "item2"]`,
		},
		{
			name:     "trailing comma in object",
			input:    `{"a": 1, "b": 2,}`,
			expected: `{"a": 1, "b": 2}`,
		},
		{
			name:     "trailing comma in array",
			input:    `{"items": [1, 2, 3,]}`,
			expected: `{"items": [1, 2, 3]}`,
		},
		{
			name:     "single quotes",
			input:    "{'headline': 'Buy now'}",
			expected: `{"headline": "Buy now"}`,
		},
		{
			name:     "fences plus trailing commas",
			input:    "```json\n{\"mood\": \"bold\", \"tags\": [\"a\", \"b\",],}\n```",
			expected: `{"mood": "bold", "tags": ["a", "b"]}`,
		},
		{
			name:     "escaped quotes survive",
			input:    "Result: {\"message\": \"He said \\\"hello\\\"\"}",
			expected: `{"message": "He said \"hello\""}`,
		},
		{
			name:    "plain prose",
			input:   "I could not produce the requested structure, sorry.",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "unbalanced braces",
			input:   `{"key": "value"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RepairJSON(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var unparsable *UnparsableError
				assert.True(t, errors.As(err, &unparsable), "expected UnparsableError, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(got))
		})
	}
}

func TestRepairJSON_FencedEqualsClean(t *testing.T) {
	clean := `{"headline": "Fast delivery", "bullet_points": ["a", "b"]}`
	wrapped := "```json\n{\"headline\": \"Fast delivery\", \"bullet_points\": [\"a\", \"b\",],}\n```"

	fromClean, err := RepairJSON(clean)
	require.NoError(t, err)
	fromWrapped, err := RepairJSON(wrapped)
	require.NoError(t, err)

	assert.JSONEq(t, string(fromClean), string(fromWrapped))
}

func TestDecodeLenient(t *testing.T) {
	type record struct {
		Headline string `json:"headline"`
		CTA      string `json:"cta"`
	}

	t.Run("decodes repaired payload", func(t *testing.T) {
		var rec record
		err := DecodeLenient("```json\n{'headline': 'Go now', 'cta': 'Start',}\n```", &rec)
		require.NoError(t, err)
		assert.Equal(t, "Go now", rec.Headline)
		assert.Equal(t, "Start", rec.CTA)
	})

	t.Run("leaves defaults on failure", func(t *testing.T) {
		rec := record{Headline: "default headline", CTA: "default cta"}
		err := DecodeLenient("no structure here at all", &rec)
		require.Error(t, err)

		var unparsable *UnparsableError
		require.True(t, errors.As(err, &unparsable))
		assert.Equal(t, "default headline", rec.Headline)
		assert.Equal(t, "default cta", rec.CTA)
	})

	t.Run("type mismatch reported as unparsable", func(t *testing.T) {
		var rec record
		err := DecodeLenient(`{"headline": 42}`, &rec)
		require.Error(t, err)
		var unparsable *UnparsableError
		assert.True(t, errors.As(err, &unparsable))
	})
}
