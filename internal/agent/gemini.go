package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"baristasim/internal/config"
)

// GeminiClient plays customer personas through Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed persona client.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Name() string { return "gemini" }

// Reply asks the model for the customer's next line.
func (c *GeminiClient) Reply(ctx context.Context, customer config.Customer, history []Turn) (string, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		var role genai.Role = genai.RoleUser
		if t.Role == RoleCustomer {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(personaPrompt(customer), genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("Gemini generation failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("Gemini returned no text")
	}
	return text, nil
}
