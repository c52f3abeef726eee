package session

import (
	"time"

	"github.com/google/uuid"

	"baristasim/internal/config"
)

// Session is the value object for one customer's interaction. It is created
// on activation, passed explicitly through the state machine, and destroyed
// on handoff; there is no global "currently active instance" reference.
// Exactly one Session is active system-wide.
type Session struct {
	// ID uniquely identifies this session for logging and metrics.
	ID string

	// CustomerIndex is the roster position being served.
	CustomerIndex int

	// Customer is the roster entry the agent is playing.
	Customer config.Customer

	// InstanceID references the active agent instance.
	InstanceID string

	// CapturedComplaint is the finalized transcript of the current exchange.
	CapturedComplaint string

	// ExchangeCount is how many complaint/response rounds have completed.
	// Never exceeds the configured maximum.
	ExchangeCount int

	// StartedAt records activation time.
	StartedAt time.Time
}

// NewSession creates the session value for a customer activation.
func NewSession(index int, customer config.Customer, instanceID string) *Session {
	return &Session{
		ID:            uuid.NewString(),
		CustomerIndex: index,
		Customer:      customer,
		InstanceID:    instanceID,
		StartedAt:     time.Now(),
	}
}
