// Package fetch - platform.go provides site platform detection and
// platform-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known website platform a brand page may be built on.
type Platform string

const (
	// PlatformShopify is the Shopify storefront platform
	PlatformShopify Platform = "shopify"
	// PlatformWordPress is the WordPress CMS
	PlatformWordPress Platform = "wordpress"
	// PlatformWix is the Wix site builder
	PlatformWix Platform = "wix"
	// PlatformSquarespace is the Squarespace site builder
	PlatformSquarespace Platform = "squarespace"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the website platform from the URL and, when the
// host is a custom domain, from fingerprints in the rendered HTML.
func DetectPlatform(urlStr, html string) Platform {
	if parsed, err := url.Parse(urlStr); err == nil {
		host := strings.ToLower(parsed.Host)

		if strings.Contains(host, "myshopify.com") {
			return PlatformShopify
		}
		if strings.Contains(host, "wordpress.com") {
			return PlatformWordPress
		}
		if strings.Contains(host, "wixsite.com") || strings.Contains(host, "wix.com") {
			return PlatformWix
		}
		if strings.Contains(host, "squarespace.com") {
			return PlatformSquarespace
		}
	}

	lower := strings.ToLower(html)
	switch {
	case strings.Contains(lower, "cdn.shopify.com") || strings.Contains(lower, "shopify.theme"):
		return PlatformShopify
	case strings.Contains(lower, "wp-content/") || strings.Contains(lower, `content="wordpress`):
		return PlatformWordPress
	case strings.Contains(lower, "static.wixstatic.com") || strings.Contains(lower, "wix.com website builder"):
		return PlatformWix
	case strings.Contains(lower, "static1.squarespace.com") || strings.Contains(lower, `content="squarespace`):
		return PlatformSquarespace
	}

	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformShopify:
		return []string{
			".shopify-section--main",
			".product__description",
			".rte", // Shopify rich text editor blocks
			"#MainContent",
			"main",
		}
	case PlatformWordPress:
		return []string{
			".entry-content",
			".post-content",
			"article .content",
			"#primary",
			"main",
		}
	case PlatformWix:
		return []string{
			"[data-testid='richTextElement']",
			"#PAGES_CONTAINER",
			"#SITE_PAGES",
			"main",
		}
	case PlatformSquarespace:
		return []string{
			".sqs-block-content",
			".page-section",
			"#page",
			"main",
		}
	default:
		return BrandPageSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	// Common noise selectors for all platforms
	common := []string{
		// Checkout and cart surfaces
		"form",
		".cart",
		".cart-drawer",
		"#cart-drawer",
		".checkout-button",

		// Newsletter and signup prompts
		".newsletter",
		".newsletter-signup",
		".subscribe-form",
		"[data-testid='newsletter']",

		// Social and share buttons
		".social-share",
		".share-buttons",
		".social-links",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",

		// Generic navigation already handled in fetch.go
	}

	// Platform-specific noise selectors
	switch platform {
	case PlatformShopify:
		return append(common,
			".shopify-section--header",
			".shopify-section--footer",
			".announcement-bar",
			"#shopify-product-reviews",
			".recommended-products",
		)
	case PlatformWordPress:
		return append(common,
			".widget-area",
			".comments-area",
			"#comments",
			".related-posts",
		)
	case PlatformWix:
		return append(common,
			"#SITE_HEADER",
			"#SITE_FOOTER",
			"#WIX_ADS",
		)
	case PlatformSquarespace:
		return append(common,
			".sqs-announcement-bar",
			".sqs-cookie-banner-v2",
			"#footer-sections",
		)
	default:
		return common
	}
}
