// Package gemini answers single-document questions through the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"cognidoc-backend/internal/llm"
)

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Answerer against the API-key Gemini endpoint.
type Client struct {
	client *genai.Client
	model  generator
	name   string
}

// NewClient constructs a Gemini client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini new client: %w", err)
	}
	gm := client.GenerativeModel(model)
	gm.SetTemperature(0)
	return &Client{client: client, model: gm, name: model}, nil
}

func (c *Client) Answer(ctx context.Context, question, documentText string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(llm.DocumentPrompt(question, documentText)))
	if err != nil {
		return "", fmt.Errorf("gemini generate model=%s: %w", c.name, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini generate model=%s: %w", c.name, llm.ErrEmptyResponse)
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini generate model=%s: %w", c.name, llm.ErrEmptyResponse)
	}
	return b.String(), nil
}

func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
