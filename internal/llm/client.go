package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is an abstraction over generative text/vision providers.
type Client interface {
	// GenerateContent generates free text using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates JSON content at the given sampling temperature
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier, temperature float32) (string, error)
	// AnalyzeImage runs a vision prompt over an image and returns the raw text answer
	AnalyzeImage(ctx context.Context, image []byte, mimeType, instructions string, tier ModelTier) (string, error)
	// GetModel returns the underlying provider model for a tier (for direct access if needed)
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new text/vision client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	// case ProviderOpenAI:
	//     return NewOpenAIClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateContent generates free text using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(DefaultTemperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ServiceError{Op: "generate content", Model: modelName, Cause: err}
	}

	return extractTextFromResponse(resp, "generate content")
}

// GenerateJSON generates JSON content at the given sampling temperature.
// The response MIME type is pinned to JSON, but providers still wrap or
// truncate output often enough that callers run the result through the
// repair parser.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier, temperature float32) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ServiceError{Op: "generate json", Model: modelName, Cause: err}
	}

	text, err := extractTextFromResponse(resp, "generate json")
	if err != nil {
		return "", err
	}

	// Clean any markdown code block wrappers
	return CleanJSONBlock(text), nil
}

// AnalyzeImage runs a vision prompt over an image and returns the raw text answer
func (c *GeminiClient) AnalyzeImage(ctx context.Context, image []byte, mimeType, instructions string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}
	if len(image) == 0 {
		return "", &EmptyOutputError{Op: "analyze image", Message: "no image bytes supplied"}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(StrictTemperature)

	format := strings.TrimPrefix(mimeType, "image/")
	if !isImageFormat(format) {
		format = "png"
	}

	resp, err := model.GenerateContent(ctx, genai.ImageData(format, image), genai.Text(instructions))
	if err != nil {
		return "", &ServiceError{Op: "analyze image", Model: modelName, Cause: err}
	}

	return extractTextFromResponse(resp, "analyze image")
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func isImageFormat(format string) bool {
	switch format {
	case "png", "jpeg", "jpg", "webp", "gif":
		return true
	}
	return false
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse, op string) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &EmptyOutputError{Op: op, Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &EmptyOutputError{Op: op, Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &EmptyOutputError{Op: op, Message: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}
