package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ImageRequest describes one image synthesis or edit call.
type ImageRequest struct {
	Prompt  string
	Width   int
	Height  int
	Quality string
}

// ImageData is a synthesized image payload.
type ImageData struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// ImageClient is an abstraction over generative image providers.
type ImageClient interface {
	// Generate synthesizes a new image from a text prompt
	Generate(ctx context.Context, req ImageRequest) (*ImageData, error)
	// Edit transforms an existing image following text instructions
	Edit(ctx context.Context, base *ImageData, instructions string, req ImageRequest) (*ImageData, error)
	// Close releases any resources held by the client
	Close() error
}

// GeminiImageClient implements ImageClient for Google Gemini image models.
type GeminiImageClient struct {
	client *genai.Client
	config *Config
}

// NewImageClient creates a new image client based on configuration.
func NewImageClient(ctx context.Context, config *Config, apiKey string) (ImageClient, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return NewGeminiImageClient(ctx, config, apiKey)
}

// NewGeminiImageClient creates a new Gemini image client.
func NewGeminiImageClient(ctx context.Context, config *Config, apiKey string) (*GeminiImageClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiImageClient{
		client: client,
		config: config,
	}, nil
}

// Generate synthesizes a new image from a text prompt. Target size and quality
// are folded into the prompt; the model decides the actual pixel dimensions, so
// callers normalize with the imaging helpers afterward.
func (c *GeminiImageClient) Generate(ctx context.Context, req ImageRequest) (*ImageData, error) {
	modelName := c.config.GetImageModel()
	if modelName == "" {
		return nil, fmt.Errorf("no image model configured")
	}

	model := c.client.GenerativeModel(modelName)

	resp, err := model.GenerateContent(ctx, genai.Text(renderImagePrompt(req)))
	if err != nil {
		return nil, &ServiceError{Op: "synthesize image", Model: modelName, Cause: err}
	}

	return extractImageFromResponse(resp, "synthesize image", req)
}

// Edit transforms an existing image following text instructions.
func (c *GeminiImageClient) Edit(ctx context.Context, base *ImageData, instructions string, req ImageRequest) (*ImageData, error) {
	modelName := c.config.GetImageModel()
	if modelName == "" {
		return nil, fmt.Errorf("no image model configured")
	}
	if base == nil || len(base.Data) == 0 {
		return nil, &EmptyOutputError{Op: "edit image", Message: "no base image supplied"}
	}

	model := c.client.GenerativeModel(modelName)

	format := "png"
	if base.MIMEType == "image/jpeg" {
		format = "jpeg"
	}

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(format, base.Data),
		genai.Text(instructions),
	)
	if err != nil {
		return nil, &ServiceError{Op: "edit image", Model: modelName, Cause: err}
	}

	return extractImageFromResponse(resp, "edit image", req)
}

// Close releases resources held by the client.
func (c *GeminiImageClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// renderImagePrompt appends size and quality directives to the caller's prompt.
func renderImagePrompt(req ImageRequest) string {
	prompt := req.Prompt
	if req.Width > 0 && req.Height > 0 {
		prompt = fmt.Sprintf("%s\n\nOUTPUT SIZE: %dx%d pixels.", prompt, req.Width, req.Height)
	}
	if req.Quality != "" {
		prompt = fmt.Sprintf("%s\nQUALITY: %s.", prompt, req.Quality)
	}
	return prompt
}

// extractImageFromResponse pulls the first inline image payload out of a
// Gemini response.
func extractImageFromResponse(resp *genai.GenerateContentResponse, op string, req ImageRequest) (*ImageData, error) {
	if len(resp.Candidates) == 0 {
		return nil, &EmptyOutputError{Op: op, Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, &EmptyOutputError{Op: op, Message: "no content in response"}
	}

	for _, part := range candidate.Content.Parts {
		blob, ok := part.(genai.Blob)
		if !ok {
			continue
		}
		if len(blob.Data) == 0 {
			return nil, &EmptyOutputError{Op: op, Message: "zero-length image payload"}
		}
		return &ImageData{
			Data:     blob.Data,
			MIMEType: blob.MIMEType,
			Width:    req.Width,
			Height:   req.Height,
		}, nil
	}

	return nil, &EmptyOutputError{Op: op, Message: "no image parts in response"}
}
