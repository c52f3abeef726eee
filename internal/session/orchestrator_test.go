package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"baristasim/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testHarness struct {
	agent        *mockAgent
	choices      *mockChoices
	satisfaction *mockSatisfaction
	metrics      *mockMetrics
	fades        *mockFades
	owner        *mockOwner
}

func newHarness(script ...string) *testHarness {
	return &testHarness{
		agent:        newMockAgent(script...),
		choices:      &mockChoices{},
		satisfaction: &mockSatisfaction{},
		metrics:      &mockMetrics{},
		fades:        &mockFades{},
		owner:        &mockOwner{},
	}
}

func (h *testHarness) deps() Deps {
	return Deps{
		Agents:       h.agent,
		Choices:      h.choices,
		Satisfaction: h.satisfaction,
		Metrics:      h.metrics,
		Fades:        h.fades,
		Owner:        h.owner,
	}
}

func testCustomers(names ...string) []config.Customer {
	out := make([]config.Customer, 0, len(names))
	for _, n := range names {
		out = append(out, config.Customer{
			Name:      n,
			Persona:   "a regular with strong opinions",
			Complaint: "my coffee is cold",
		})
	}
	return out
}

func TestRunEndsWhenCustomerSaysGoodbye(t *testing.T) {
	h := newHarness(
		"My latte is ice cold and I paid for a hot drink!",
		"Thanks, that's all I needed.",
	)
	o := New(Config{
		Customers:    testCustomers("Margaret"),
		Timeouts:     config.FastSessionTimeouts(),
		MaxExchanges: 5,
	}, h.deps())

	err := o.Run(context.Background())
	h.agent.waitIdle()
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, o.State())
	assert.Equal(t, []int{0}, h.owner.served)
	assert.Equal(t, 1, h.owner.complete)

	// One classified complaint presented, then the goodbye line skipped
	// straight to the closing relay.
	require.Equal(t, 1, h.choices.count())
	assert.Contains(t, h.choices.prompts[0], "ice cold")
	assert.Contains(t, h.choices.goods[0], "properly hot")

	assert.Equal(t, []string{"temperature"}, h.metrics.starts)
	assert.Equal(t, 1, h.metrics.choiceCount)
	assert.Equal(t, 1, h.metrics.endCount)
	assert.Equal(t, []bool{true}, h.satisfaction.applied)

	// The closing relay is personalized and the chosen good reply was sent.
	sends := h.agent.allSends()
	var sawGood, sawClosing bool
	for _, s := range sends {
		if s == h.choices.goods[0] {
			sawGood = true
		}
		if strings.Contains(s, "Margaret") && strings.Contains(s, "make it right") {
			sawClosing = true
		}
	}
	assert.True(t, sawGood, "chosen good reply should be relayed, sends: %v", sends)
	assert.True(t, sawClosing, "closing line should be relayed, sends: %v", sends)

	assert.Len(t, h.agent.deactivated, 1)
	assert.Equal(t, 0, h.agent.deactivateAllCalls)
}

func TestExchangeCapForcesTransition(t *testing.T) {
	h := newHarness(
		"My cappuccino is lukewarm at best.",
		"And the foam is completely flat, this is wrong.",
		"Also you got my order wrong again!",
	)
	h.choices.selections = []bool{true, false}
	o := New(Config{
		Customers:    testCustomers("Dev"),
		Timeouts:     config.FastSessionTimeouts(),
		MaxExchanges: 2,
	}, h.deps())

	require.NoError(t, o.Run(context.Background()))
	h.agent.waitIdle()

	// Two exchanges, then the cap cuts the session off without a third
	// classification round.
	assert.Equal(t, 2, h.choices.count())
	assert.Equal(t, 2, h.metrics.choiceCount)
	assert.Equal(t, 1, h.metrics.endCount)
	assert.Equal(t, []bool{true, false}, h.satisfaction.applied)
	assert.Equal(t, []int{0}, h.owner.served)
	assert.Len(t, h.agent.deactivated, 1)
}

func TestRunServesAllCustomersInOrder(t *testing.T) {
	h := newHarness(
		"This espresso tastes burnt.",
		"There is nowhere to sit in here.",
	)
	o := New(Config{
		Customers:    testCustomers("Margaret", "Priya"),
		Timeouts:     config.FastSessionTimeouts(),
		MaxExchanges: 1,
	}, h.deps())

	require.NoError(t, o.Run(context.Background()))
	h.agent.waitIdle()

	assert.Equal(t, []int{0, 1}, h.owner.served)
	assert.Equal(t, 1, h.owner.complete)
	assert.Equal(t, StateCompleted, o.State())

	// Every customer opens and closes exactly one metrics interaction.
	assert.Len(t, h.metrics.starts, 2)
	assert.Equal(t, 2, h.metrics.endCount)

	// Fade-in on each teardown; fade-out after the second init and at the
	// end of the run.
	assert.Equal(t, 2, h.fades.fadeIns)
	assert.Equal(t, 2, h.fades.fadeOuts)

	assert.Len(t, h.agent.deactivated, 2)
}

func TestCancellationTearsDown(t *testing.T) {
	h := newHarness("The wifi never works and I need it NOW!")
	h.choices.blockOnCtx = true
	o := New(Config{
		Customers:    testCustomers("Margaret", "Priya"),
		Timeouts:     config.FastSessionTimeouts(),
		MaxExchanges: 3,
	}, h.deps())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	// Let the run reach the blocking choice, then stop it.
	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
	h.agent.waitIdle()

	assert.Equal(t, StateIdle, o.State())
	assert.Equal(t, 1, h.agent.deactivateAllCalls)
	// The open interaction is closed out even on abort.
	assert.Equal(t, 1, h.metrics.endCount)
}

func TestEmptyRosterCompletesImmediately(t *testing.T) {
	h := newHarness()
	o := New(Config{
		Customers:    nil,
		Timeouts:     config.FastSessionTimeouts(),
		MaxExchanges: 3,
	}, h.deps())

	require.NoError(t, o.Run(context.Background()))
	assert.Equal(t, 1, h.owner.complete)
	assert.Empty(t, h.owner.served)
}

func TestActivationFailureSkipsCustomer(t *testing.T) {
	h := newHarness("My muffin was stale.")
	h.agent.activateErr = assert.AnError
	o := New(Config{
		Customers:    testCustomers("Dev"),
		Timeouts:     config.FastSessionTimeouts(),
		MaxExchanges: 3,
	}, h.deps())

	require.NoError(t, o.Run(context.Background()))

	// The customer is accounted for even though no session ran.
	assert.Equal(t, []int{0}, h.owner.served)
	assert.Equal(t, 1, h.owner.complete)
	assert.Equal(t, 0, h.choices.count())
	assert.Empty(t, h.metrics.starts)
}

func TestSilentAgentFallsBackToGenericPrompt(t *testing.T) {
	// No scripted lines: the agent never speaks, the transcript wait runs
	// out, and the operator still gets a presentable choice.
	h := newHarness()
	o := New(Config{
		Customers:    testCustomers("Priya"),
		Timeouts:     config.FastSessionTimeouts(),
		MaxExchanges: 1,
	}, h.deps())

	require.NoError(t, o.Run(context.Background()))
	h.agent.waitIdle()

	require.Equal(t, 1, h.choices.count())
	assert.Contains(t, h.choices.prompts[0], "Priya")
	assert.NotEmpty(t, h.choices.goods[0])
	assert.NotEmpty(t, h.choices.bads[0])
	assert.NotEqual(t, h.choices.goods[0], h.choices.bads[0])
}

func TestMissingChoicePresenterEndsSessionGracefully(t *testing.T) {
	h := newHarness("My flat white is cold.")
	deps := h.deps()
	deps.Choices = nil
	o := New(Config{
		Customers:    testCustomers("Margaret"),
		Timeouts:     config.FastSessionTimeouts(),
		MaxExchanges: 3,
	}, deps)

	require.NoError(t, o.Run(context.Background()))
	h.agent.waitIdle()

	assert.Equal(t, StateCompleted, o.State())
	assert.Equal(t, 1, h.metrics.endCount)
	assert.Len(t, h.agent.deactivated, 1)
}

func TestStateStrings(t *testing.T) {
	states := []State{
		StateIdle, StateInitializing, StateAwaitingAgentStart,
		StateAgentSpeaking, StateCapturingTranscript, StateClassifying,
		StatePresentingChoice, StateRelayingChoice, StateExchangeContinuation,
		StateTerminating, StateTransitioning, StateCompleted,
	}
	seen := make(map[string]bool)
	for _, s := range states {
		name := s.String()
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate state name %q", name)
		seen[name] = true
	}
	assert.Contains(t, State(99).String(), "unknown")
}
