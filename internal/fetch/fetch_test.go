package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	// Create test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractMainText_WithMainElement(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<main>
				<h1>Main Content</h1>
				<p>This is the important text.</p>
			</main>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Main Content")
	assert.Contains(t, text, "important text")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	html := `
	<html>
		<body>
			<div>Some content here.</div>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Some content here")
}

func TestExtractMainText_BrandPageSelectors(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="sidebar">Sidebar junk</div>
			<div class="brand-story">
				<h2>Our Story</h2>
				<p>Performance gear for urban athletes</p>
			</div>
		</body>
	</html>`

	text, err := ExtractMainText(html, BrandPageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Our Story")
	assert.Contains(t, text, "urban athletes")
	assert.NotContains(t, text, "Sidebar junk")
}

func TestExtractMainText_NoiseSelectors(t *testing.T) {
	html := `
	<html>
		<body>
			<main>
				<p>Real content.</p>
				<div class="newsletter-signup">Join our newsletter!</div>
			</main>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors(), ".newsletter-signup")
	require.NoError(t, err)
	assert.Contains(t, text, "Real content")
	assert.NotContains(t, text, "newsletter")
}

func TestExtractMetadata(t *testing.T) {
	html := `
	<html>
		<head>
			<title>Aurora Fit - Run Further</title>
			<meta name="description" content="Performance apparel for runners">
			<meta property="og:title" content="Aurora Fit">
			<meta property="og:site_name" content="Aurora Fit Store">
			<meta name="keywords" content="running, apparel">
		</head>
		<body></body>
	</html>`

	meta, err := ExtractMetadata(html)
	require.NoError(t, err)
	assert.Equal(t, "Aurora Fit - Run Further", meta["title"])
	assert.Equal(t, "Performance apparel for runners", meta["description"])
	assert.Equal(t, "Aurora Fit", meta["og_title"])
	assert.Equal(t, "Aurora Fit Store", meta["site_name"])
	assert.Equal(t, "running, apparel", meta["keywords"])
}

func TestExtractMetadata_EmptyPage(t *testing.T) {
	meta, err := ExtractMetadata("<html><head></head><body></body></html>")
	require.NoError(t, err)
	assert.Empty(t, meta)
}

func TestDefaultTextSelectors(t *testing.T) {
	selectors := DefaultTextSelectors()
	assert.Contains(t, selectors, "main")
	assert.Contains(t, selectors, "article")
}

func TestBrandPageSelectors(t *testing.T) {
	selectors := BrandPageSelectors()
	assert.Contains(t, selectors, ".brand-story")
	assert.Contains(t, selectors, ".hero")
	assert.Contains(t, selectors, "main")
}
