// Package vertex answers single-document questions with Gemini on Vertex AI.
package vertex

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"cognidoc-backend/internal/llm"
)

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Answerer using a Vertex AI generative model.
type Client struct {
	client *genai.Client
	model  generator
	name   string
}

// NewClient constructs a Vertex AI client for model in projectID/location.
func NewClient(ctx context.Context, projectID, location, model string, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Vertex AI")
	}
	client, err := genai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("vertex new client: %w", err)
	}
	return &Client{
		client: client,
		model:  client.GenerativeModel(model),
		name:   model,
	}, nil
}

// Answer issues one generation call for the grounded document prompt.
func (c *Client) Answer(ctx context.Context, question, documentText string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(llm.DocumentPrompt(question, documentText)))
	if err != nil {
		return "", fmt.Errorf("vertex generate model=%s: %w", c.name, err)
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("vertex generate model=%s: %w", c.name, llm.ErrEmptyResponse)
	}
	return text, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

var _ llm.Answerer = (*Client)(nil)
