package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"baristasim/internal/config"
)

// OpenAIClient plays customer personas through the OpenAI chat API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI-backed persona client. baseURL is optional and
// supports OpenAI-compatible gateways.
func NewOpenAI(apiKey, baseURL, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (c *OpenAIClient) Name() string { return "openai" }

// Reply asks the model for the customer's next line.
func (c *OpenAIClient) Reply(ctx context.Context, customer config.Customer, history []Turn) (string, error) {
	msgs := []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: personaPrompt(customer),
	}}
	for _, t := range history {
		role := openai.ChatMessageRoleUser
		if t.Role == RoleCustomer {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Text})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		MaxTokens:   160,
		Temperature: 0.8,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// personaPrompt frames the customer role for a chat model. Shared by the
// OpenAI and Gemini clients.
func personaPrompt(customer config.Customer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a customer at a coffee shop, speaking to the barista at the counter.\n", customer.Name)
	if customer.Persona != "" {
		fmt.Fprintf(&b, "Persona: %s\n", customer.Persona)
	}
	if customer.Complaint != "" {
		fmt.Fprintf(&b, "You came in because: %s\n", customer.Complaint)
	}
	b.WriteString("Stay in character. Speak in one or two short conversational sentences. " +
		"Voice your complaint plainly; if the barista resolves your concerns, wrap up and say goodbye.")
	return b.String()
}
