// Package llm provides centralized generative-model configuration and client
// abstractions for text, vision, and image synthesis. It also owns the response
// repair parser and the bounded-retry wrapper shared by every pipeline stage.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: extraction, summarization, brief parsing
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: copywriting, structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: concept development, strategy
	TierAdvanced ModelTier = "advanced"
)

// Provider represents a generative-service provider
type Provider string

// Provider constants define supported providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future)
	ProviderOpenAI Provider = "openai"
)

// Default sampling temperatures. Stage executors pick the creative temperature
// for first attempts and drop to the strict one when re-issuing after a parse
// failure.
const (
	// DefaultTemperature is the baseline for structured generation.
	DefaultTemperature float32 = 0.7
	// StrictTemperature is used on retry attempts after unparsable output.
	StrictTemperature float32 = 0.2
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// ImageModel is the model used for image synthesis and image editing.
	ImageModel string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		ImageModel: "gemini-2.0-flash-preview-image-generation",
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// GetImageModel returns the image synthesis model name.
func (c *Config) GetImageModel() string {
	return c.ImageModel
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:   c.Provider,
		Models:     make(map[ModelTier]string),
		ImageModel: c.ImageModel,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}

// WithImageModel returns a new Config with a specific image model.
func (c *Config) WithImageModel(model string) *Config {
	newConfig := &Config{
		Provider:   c.Provider,
		Models:     make(map[ModelTier]string),
		ImageModel: model,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	return newConfig
}
