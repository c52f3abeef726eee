package session

import "fmt"

// State is the explicit lifecycle state of the active session. Only the run
// flow advances it; there are no boolean in-progress flags on the side.
type State int32

const (
	// StateIdle - no session active.
	StateIdle State = iota
	// StateInitializing - previous instance torn down, target activating.
	StateInitializing
	// StateAwaitingAgentStart - waiting for the agent to start speaking.
	StateAwaitingAgentStart
	// StateAgentSpeaking - agent is producing speech; capture window open.
	StateAgentSpeaking
	// StateCapturingTranscript - speech ended; finalizing the capture buffer.
	StateCapturingTranscript
	// StateClassifying - running the complaint classifier.
	StateClassifying
	// StatePresentingChoice - operator is choosing between the two options.
	StatePresentingChoice
	// StateRelayingChoice - relaying the selected reply to the agent.
	StateRelayingChoice
	// StateExchangeContinuation - deciding whether another round happens.
	StateExchangeContinuation
	// StateTerminating - winding down the current agent instance.
	StateTerminating
	// StateTransitioning - fading and handing off to the next customer.
	StateTransitioning
	// StateCompleted - all customers served.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateAwaitingAgentStart:
		return "awaiting_agent_start"
	case StateAgentSpeaking:
		return "agent_speaking"
	case StateCapturingTranscript:
		return "capturing_transcript"
	case StateClassifying:
		return "classifying"
	case StatePresentingChoice:
		return "presenting_choice"
	case StateRelayingChoice:
		return "relaying_choice"
	case StateExchangeContinuation:
		return "exchange_continuation"
	case StateTerminating:
		return "terminating"
	case StateTransitioning:
		return "transitioning"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}
