package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client is an abstraction over the oracle provider. Every call is a
// long-latency network operation and must be awaited under the caller's
// context; no retries happen at this layer.
type Client interface {
	// GenerateContent generates free-form text using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates content expected to contain a JSON object
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// ExtractDocumentText runs the vision capability over a document image
	// or PDF and returns all textual content found in it
	ExtractDocumentText(ctx context.Context, data []byte, mimeType string, prompt string) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new oracle client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return NewGeminiClient(ctx, config, apiKey)
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

// GenerateContent generates text content using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1) // Low temperature for consistent output

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", wrapGenerateError(err)
	}

	return extractTextFromResponse(resp)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", wrapGenerateError(err)
	}

	return extractTextFromResponse(resp)
}

// ExtractDocumentText runs vision OCR over a document using the lite tier
func (c *GeminiClient) ExtractDocumentText(ctx context.Context, data []byte, mimeType string, prompt string) (string, error) {
	modelName := c.config.GetModel(TierLite)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", TierLite)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: data},
		genai.Text(prompt),
	)
	if err != nil {
		return "", wrapGenerateError(err)
	}

	return extractTextFromResponse(resp)
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

// wrapGenerateError classifies provider failures so callers can distinguish
// "try again later" (rate limit, quota) from hard failures.
func wrapGenerateError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429:
			return &UnavailableError{Kind: KindRateLimit, Reason: "rate limit exceeded", Cause: err}
		case 402, 403:
			return &UnavailableError{Kind: KindQuota, Reason: "quota or billing limit reached", Cause: err}
		case 500, 502, 503:
			return &UnavailableError{Kind: KindTransient, Reason: "provider temporarily unavailable", Cause: err}
		}
	}
	// Some transport paths surface rate limits as plain errors.
	msg := err.Error()
	if strings.Contains(msg, "429") {
		return &UnavailableError{Kind: KindRateLimit, Reason: "rate limit exceeded", Cause: err}
	}
	if strings.Contains(strings.ToLower(msg), "quota") {
		return &UnavailableError{Kind: KindQuota, Reason: "quota or billing limit reached", Cause: err}
	}
	return fmt.Errorf("failed to generate content: %w", err)
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
