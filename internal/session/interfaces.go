package session

import (
	"context"

	"baristasim/internal/config"
)

// AgentController is the boundary to the external agent service. Every
// SendText caller must hold the rate limiter gate first; the controller
// itself does no pacing.
type AgentController interface {
	// Activate brings up an agent instance playing the given customer and
	// returns its instance ID.
	Activate(ctx context.Context, customer config.Customer) (string, error)

	// Deactivate tears an instance down. Idempotent.
	Deactivate(ctx context.Context, instanceID string) error

	// DeactivateAll tears down every live instance. Used on cancellation.
	DeactivateAll(ctx context.Context)

	// IsSpeaking reports whether the instance is currently producing speech.
	IsSpeaking(instanceID string) bool

	// SendText delivers operator text to the instance.
	SendText(ctx context.Context, instanceID, text string) error

	// Subscribe registers an utterance listener for the instance and
	// returns its unsubscribe func. The orchestrator holds a single
	// current-subscription handle and unsubscribes before resubscribing.
	Subscribe(instanceID string, fn func(text string)) (func(), error)
}

// ChoicePresenter shows the operator both reply options and blocks until one
// is picked. This is the conversation's only unbounded suspension point; the
// presenter's own affordance bounds it, not a timeout.
type ChoicePresenter interface {
	PresentChoice(ctx context.Context, prompt, goodText, badText string) (selectedGood bool, err error)
}

// Satisfaction applies the effect of an operator choice to the meter.
type Satisfaction interface {
	ApplyChoice(wasGood bool)
	Value() int
}

// MetricsRecorder receives interaction lifecycle events. The core emits
// these; it does not retain or score them.
type MetricsRecorder interface {
	StartInteraction(complaintType string)
	RecordChoice()
	EndInteraction()
}

// TransitionPresenter drives the fade on either side of a customer handoff.
// Both calls block until the fade completes (bounded internally by the
// configured fade duration).
type TransitionPresenter interface {
	FadeIn(ctx context.Context) error
	FadeOut(ctx context.Context) error
}

// Owner is notified as the run progresses.
type Owner interface {
	CustomerServed(index int)
	AllCustomersComplete()
}
