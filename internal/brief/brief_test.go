package brief

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafael/adforge/internal/llm"
)

func TestFromFile(t *testing.T) {
	t.Run("reads briefing text", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "brief.txt")
		require.NoError(t, os.WriteFile(path, []byte("Aurora Fit: running apparel.\nObjective: spring launch.\n"), 0o644))

		content, err := FromFile(path)
		require.NoError(t, err)
		assert.Contains(t, content, "Aurora Fit")
		assert.Contains(t, content, "spring launch")
	})

	t.Run("rejects empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.txt")
		require.NoError(t, os.WriteFile(path, []byte("   \n"), 0o644))

		_, err := FromFile(path)
		assert.ErrorContains(t, err, "is empty")
	})

	t.Run("rejects missing file", func(t *testing.T) {
		_, err := FromFile(filepath.Join(t.TempDir(), "missing.txt"))
		assert.ErrorContains(t, err, "failed to read brief file")
	})
}

func TestFromURL(t *testing.T) {
	t.Run("extracts body text and metadata", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html>
				<head>
					<title>Aurora Fit - Run Further</title>
					<meta name="description" content="Performance apparel for city runners">
				</head>
				<body>
					<nav>Menu</nav>
					<main>
						<h1>Built for the city</h1>
						<p>Technical fabrics engineered for daily training in any weather. Our mission is to make every run in the city feel like a race day, with apparel tested by club runners across three continents and designed to disappear on the body the moment the warmup ends. From reflective shells for night intervals to featherweight singlets for summer tempo runs, each piece is cut for motion and built to last seasons of hard training.</p>
					</main>
				</body>
			</html>`))
		}))
		defer server.Close()

		content, err := FromURL(context.Background(), server.URL, nil)
		require.NoError(t, err)
		assert.Contains(t, content, "title: Aurora Fit - Run Further")
		assert.Contains(t, content, "description: Performance apparel for city runners")
		assert.Contains(t, content, "Built for the city")
		assert.NotContains(t, content, "Menu")
	})

	t.Run("fails on empty page without browser fallback", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><head></head><body></body></html>`))
		}))
		defer server.Close()

		_, err := FromURL(context.Background(), server.URL, nil)
		assert.ErrorContains(t, err, "no usable text")
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := FromURL(context.Background(), server.URL, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})
}

// extractClient replays a scripted JSON response for the extraction call.
type extractClient struct {
	response string
	err      error
	prompts  []string
}

func (c *extractClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.response, c.err
}

func (c *extractClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier, _ float32) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.response, c.err
}

func (c *extractClient) AnalyzeImage(_ context.Context, _ []byte, _ string, _ string, _ llm.ModelTier) (string, error) {
	return "", nil
}

func (c *extractClient) GetModel(_ llm.ModelTier) string { return "test-model" }

func (c *extractClient) Close() error { return nil }

func TestExtract(t *testing.T) {
	t.Run("parses a complete brief", func(t *testing.T) {
		client := &extractClient{response: `{
			"brand_name": "Aurora Fit",
			"sector": "sports apparel",
			"target_audience": "urban runners",
			"objective": "launch the spring collection",
			"tone_of_voice": "direct, energetic",
			"description": "Performance running apparel."
		}`}

		b, warnings, err := Extract(context.Background(), client, "some page text", "https://aurora-fit.com")
		require.NoError(t, err)
		assert.Equal(t, "Aurora Fit", b.BrandName)
		assert.Equal(t, "launch the spring collection", b.Objective)
		assert.Equal(t, "https://aurora-fit.com", b.SourceURL)
		assert.Equal(t, "https://aurora-fit.com", b.Website)
		assert.Empty(t, warnings)
		assert.Empty(t, b.Validate())

		require.NotEmpty(t, client.prompts)
		assert.Contains(t, client.prompts[0], "brand strategist")
		assert.Contains(t, client.prompts[0], "some page text")
	})

	t.Run("warns on missing optional fields", func(t *testing.T) {
		client := &extractClient{response: `{"brand_name": "Aurora Fit", "objective": "awareness"}`}

		b, warnings, err := Extract(context.Background(), client, "content", "")
		require.NoError(t, err)
		assert.Empty(t, b.Validate())
		assert.Len(t, warnings, 2)
	})

	t.Run("fails when nothing parses", func(t *testing.T) {
		client := &extractClient{response: "I cannot help with that."}

		_, _, err := Extract(context.Background(), client, "content", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to extract brief")

		// Retries switched to the strict prompt after the first parse failure.
		require.Equal(t, llm.MaxAttempts, len(client.prompts))
		assert.Contains(t, client.prompts[1], "CRITICAL")
	})
}
