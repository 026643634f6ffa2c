// internal/infra/gemini/client.go
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Client implements the analysis.Generator interface using the Google
// Gemini SDK.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Generate produces a free-text completion for the prompt. An empty answer
// from the model is reported as an error so callers don't persist blanks.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("no text content found in model response")
	}
	return text, nil
}
