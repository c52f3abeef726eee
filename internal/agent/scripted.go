package agent

import (
	"context"
	"strings"

	"baristasim/internal/config"
)

// ScriptedClient is a deterministic offline persona: the customer voices the
// roster complaint, follows up once, then says goodbye. It exists so the full
// training loop runs without any API key or network.
type ScriptedClient struct{}

// NewScripted creates the offline persona client.
func NewScripted() *ScriptedClient {
	return &ScriptedClient{}
}

func (c *ScriptedClient) Name() string { return "scripted" }

// Reply derives the next line from how many times the customer has already
// spoken, so the same roster always produces the same session.
func (c *ScriptedClient) Reply(_ context.Context, customer config.Customer, history []Turn) (string, error) {
	spoken := 0
	for _, t := range history {
		if t.Role == RoleCustomer {
			spoken++
		}
	}

	switch spoken {
	case 0:
		complaint := strings.TrimSpace(customer.Complaint)
		if complaint == "" {
			complaint = "I'm not happy with my order"
		}
		return "Look, " + complaint + ". I expect better than this.", nil
	case 1:
		return "And on top of that, I had to wait forever before anyone even looked at me.", nil
	default:
		return "Fine. That's all from me, thanks for hearing me out.", nil
	}
}
