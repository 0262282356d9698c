package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform_ByHost(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://aurora-fit.myshopify.com/products/tights", PlatformShopify},
		{"https://aurorafit.wordpress.com/about", PlatformWordPress},
		{"https://rafael123.wixsite.com/aurora", PlatformWix},
		{"https://aurora-fit.squarespace.com", PlatformSquarespace},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			result := DetectPlatform(tt.url, "")
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDetectPlatform_ByFingerprint(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected Platform
	}{
		{
			name:     "shopify cdn asset",
			html:     `<link href="https://cdn.shopify.com/s/files/1/theme.css">`,
			expected: PlatformShopify,
		},
		{
			name:     "wordpress content path",
			html:     `<img src="/wp-content/uploads/2024/hero.jpg">`,
			expected: PlatformWordPress,
		},
		{
			name:     "wix static asset",
			html:     `<img src="https://static.wixstatic.com/media/logo.png">`,
			expected: PlatformWix,
		},
		{
			name:     "squarespace generator meta",
			html:     `<meta name="generator" content="Squarespace">`,
			expected: PlatformSquarespace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectPlatform("https://www.aurora-fit.com", tt.html)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDetectPlatform_Unknown(t *testing.T) {
	tests := []struct {
		url  string
		html string
	}{
		{"https://example.com", "<html><body>hand rolled</body></html>"},
		{"https://aurora-fit.com/about", ""},
		{"not-a-valid-url", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			result := DetectPlatform(tt.url, tt.html)
			assert.Equal(t, PlatformUnknown, result)
		})
	}
}

func TestPlatformContentSelectors_Shopify(t *testing.T) {
	selectors := PlatformContentSelectors(PlatformShopify)
	assert.Contains(t, selectors, ".rte")
	assert.Contains(t, selectors, "#MainContent")
}

func TestPlatformContentSelectors_Unknown(t *testing.T) {
	selectors := PlatformContentSelectors(PlatformUnknown)
	// Should fall back to generic BrandPageSelectors
	assert.Contains(t, selectors, ".brand-story")
	assert.Contains(t, selectors, "main")
}

func TestPlatformNoiseSelectors_Shopify(t *testing.T) {
	selectors := PlatformNoiseSelectors(PlatformShopify)
	// Common selectors
	assert.Contains(t, selectors, "form")
	assert.Contains(t, selectors, ".newsletter")
	// Shopify-specific
	assert.Contains(t, selectors, ".announcement-bar")
	assert.Contains(t, selectors, ".recommended-products")
}

func TestPlatformNoiseSelectors_Unknown(t *testing.T) {
	selectors := PlatformNoiseSelectors(PlatformUnknown)
	// Should have common noise selectors
	assert.Contains(t, selectors, "form")
	assert.Contains(t, selectors, ".cart")
	assert.Contains(t, selectors, ".cookie-banner")
}
