// Package agent hosts the external conversational agent boundary: persona
// clients that produce customer speech (OpenAI, Gemini, or a deterministic
// scripted provider) and the instance controller the session orchestrator
// drives them through.
package agent

import (
	"context"

	"baristasim/internal/config"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	// RoleBarista is the operator's side of the conversation.
	RoleBarista Role = "barista"
	// RoleCustomer is the simulated customer's side.
	RoleCustomer Role = "customer"
)

// Turn is one line of the running conversation.
type Turn struct {
	Role Role
	Text string
}

// PersonaClient produces the customer's next line in character. History is
// ordered oldest first and always ends with the barista's latest line.
type PersonaClient interface {
	Reply(ctx context.Context, customer config.Customer, history []Turn) (string, error)
	Name() string
}
