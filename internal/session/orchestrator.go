// Package session implements the customer-service training loop: one
// orchestrator drives sequential sessions against an external conversational
// agent, classifies what the agent says, and relays the operator's chosen
// reply. Exactly one logical flow of control advances the state machine; all
// waits are suspension points inside that flow, never parallel workers.
package session

import (
	"context"
	"fmt"
	"time"

	"baristasim/internal/classify"
	"baristasim/internal/config"
	"baristasim/internal/gate"
	"baristasim/internal/logging"
	"baristasim/internal/respond"
	"baristasim/internal/transcript"
)

const (
	continuationPrompt = "What else is wrong? I want to make sure we cover everything."
	// pollInterval paces the IsSpeaking checks during bounded waits.
	pollInterval = 50 * time.Millisecond
)

// Config bounds the orchestrator's pacing and exchange limits.
type Config struct {
	Customers    []config.Customer
	Timeouts     config.SessionTimeouts
	MaxExchanges int
}

// Deps are the collaborators at the orchestration boundary. Agents is
// required; the rest degrade gracefully when nil (logged, step skipped).
type Deps struct {
	Agents       AgentController
	Choices      ChoicePresenter
	Satisfaction Satisfaction
	Metrics      MetricsRecorder
	Fades        TransitionPresenter
	Owner        Owner
}

// Orchestrator owns the per-customer lifecycle and the transitions between
// customers. Create one per run; Run is not reentrant.
type Orchestrator struct {
	cfg  Config
	deps Deps

	gate   *gate.Gate
	buffer *transcript.Buffer

	// Single-flow state: only the Run goroutine touches these after start.
	state           State
	current         *Session
	unsubscribe     func()
	interactionOpen bool
}

// New creates an orchestrator. The gate and buffer are shared with no one:
// the orchestrator is the only component that sends outbound or finalizes
// capture.
func New(cfg Config, deps Deps) *Orchestrator {
	if cfg.MaxExchanges < 1 {
		cfg.MaxExchanges = 1
	}
	return &Orchestrator{
		cfg:    cfg,
		deps:   deps,
		gate:   gate.New(cfg.Timeouts.APICallDelay),
		buffer: transcript.NewBuffer(),
		state:  StateIdle,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// Run serves every customer in order and blocks until the roster is done or
// the context is cancelled. Cancellation is cooperative: it is observed at
// the next suspension point, tears everything down, and returns ctx.Err().
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.deps.Agents == nil {
		logging.SessionWarn("no agent controller wired; nothing to run")
		return fmt.Errorf("agent controller is required")
	}
	if len(o.cfg.Customers) == 0 {
		logging.SessionWarn("customer roster is empty; nothing to run")
		o.notifyAllComplete()
		return nil
	}

	logging.Session("run starting: %d customers, max %d exchanges each",
		len(o.cfg.Customers), o.cfg.MaxExchanges)

	for i := range o.cfg.Customers {
		if ctx.Err() != nil {
			return o.abort(ctx)
		}

		// Fades pair across a handoff: the previous customer's teardown
		// faded in, so every customer after the first fades out once its
		// own initialization is done.
		o.serveCustomer(ctx, i, i > 0)

		if ctx.Err() != nil {
			return o.abort(ctx)
		}
	}

	if ctx.Err() != nil {
		return o.abort(ctx)
	}

	o.setState(StateCompleted)
	if err := o.fadeOut(ctx); err != nil {
		logging.SessionWarn("final fade-out failed: %v", err)
	}
	o.notifyAllComplete()
	logging.Session("run complete: all %d customers served", len(o.cfg.Customers))
	return nil
}

// serveCustomer runs one full session: initialize, exchange loop, teardown.
// Failures are absorbed: the worst outcome is a degraded interaction, never
// an error that halts the run.
func (o *Orchestrator) serveCustomer(ctx context.Context, index int, fadeOutAfterInit bool) {
	sess, ok := o.initialize(ctx, index)
	if !ok {
		// Missing collaborator path: warn and move on to the next customer.
		o.notifyServed(index)
		return
	}

	if fadeOutAfterInit {
		if err := o.fadeOut(ctx); err != nil {
			logging.SessionWarn("fade-out failed: %v", err)
		}
	}

	o.exchangeLoop(ctx, sess)
	o.teardown(ctx, sess)
	o.notifyServed(index)
}

// initialize activates the customer's agent instance, subscribes to its
// transcript signal, and sends the opening prompt through the gate.
func (o *Orchestrator) initialize(ctx context.Context, index int) (*Session, bool) {
	o.setState(StateInitializing)

	if index < 0 || index >= len(o.cfg.Customers) {
		logging.SessionWarn("customer index %d out of range (roster size %d)", index, len(o.cfg.Customers))
		return nil, false
	}
	cust := o.cfg.Customers[index]

	// A leftover session means the previous teardown did not complete;
	// force a full terminating pass before activating the next instance.
	if o.current != nil {
		logging.SessionWarn("stale session %s found during init; tearing down", o.current.ID)
		o.teardown(ctx, o.current)
	}

	instanceID, err := o.deps.Agents.Activate(ctx, cust)
	if err != nil {
		logging.SessionWarn("could not activate agent for %s: %v", cust.Name, err)
		return nil, false
	}

	sess := NewSession(index, cust, instanceID)
	o.current = sess
	logging.Session("session %s: serving customer %d (%s), instance %s",
		sess.ID, index, cust.Name, instanceID)

	o.resubscribe(instanceID)
	o.sleep(ctx, o.cfg.Timeouts.DelayBetweenCustomers)

	complaintType := string(classify.Classify(cust.Complaint).PrimaryIssue())
	if o.deps.Metrics != nil {
		o.deps.Metrics.StartInteraction(complaintType)
	}
	o.interactionOpen = true

	opening := fmt.Sprintf("Hi %s, welcome back! What can I do for you today?", cust.Name)
	o.sendToAgent(ctx, sess, opening)

	return sess, true
}

// exchangeLoop runs complaint/response rounds until the conversation ends,
// the exchange cap is reached, or the flow is cancelled.
func (o *Orchestrator) exchangeLoop(ctx context.Context, sess *Session) {
	for {
		// Wait for the agent to start speaking. Timeout is non-fatal:
		// transcript delivery may still arrive, and capture evaluation
		// handles an empty buffer.
		o.setState(StateAwaitingAgentStart)
		if !o.pollUntil(ctx, o.cfg.Timeouts.StartTimeout, func() bool {
			return o.deps.Agents.IsSpeaking(sess.InstanceID)
		}) {
			logging.SessionWarn("session %s: agent never started speaking; proceeding", sess.ID)
		}
		if ctx.Err() != nil {
			return
		}

		// Capture while the agent talks, bounded by the response timeout.
		o.setState(StateAgentSpeaking)
		o.buffer.SetEligible(true)
		if !o.pollUntil(ctx, o.cfg.Timeouts.ResponseTimeout, func() bool {
			return !o.deps.Agents.IsSpeaking(sess.InstanceID)
		}) {
			logging.SessionWarn("session %s: agent still speaking at response timeout; proceeding", sess.ID)
		}

		o.setState(StateCapturingTranscript)
		text, captured := o.buffer.Await(ctx, transcript.AwaitConfig{
			GracePeriod: o.cfg.Timeouts.TranscriptGracePeriod,
			Retries:     o.cfg.Timeouts.TranscriptPollRetries,
			Interval:    o.cfg.Timeouts.TranscriptPollInterval,
		})
		o.buffer.SetEligible(false)
		sess.CapturedComplaint = text

		if ctx.Err() != nil {
			return
		}

		o.setState(StateClassifying)
		result := classify.Classify(text)
		logging.Session("session %s: classified issues=%v emotion=%s urgency=%s",
			sess.ID, result.Issues, result.Emotion, result.Urgency)

		// Conversation-ending turns take the single-choice path: relay the
		// cooperative close directly and transition.
		if result.ConversationEnding {
			closing := respond.GenerateClosing(sess.Customer.Name)
			o.setState(StateRelayingChoice)
			o.sendToAgent(ctx, sess, closing.Good)
			logging.Session("session %s: conversation ended by customer", sess.ID)
			return
		}

		opts := respond.Generate(result, sess.Customer.Name)

		o.setState(StatePresentingChoice)
		if o.deps.Choices == nil {
			logging.SessionWarn("session %s: no choice presenter wired; ending session", sess.ID)
			return
		}
		prompt := text
		if !captured {
			prompt = fmt.Sprintf("%s has a complaint for you. How do you respond?", sess.Customer.Name)
		}
		selectedGood, err := o.deps.Choices.PresentChoice(ctx, prompt, opts.Good, opts.Bad)
		if err != nil {
			logging.SessionWarn("session %s: choice presentation failed: %v", sess.ID, err)
			return
		}

		o.setState(StateRelayingChoice)
		if o.deps.Metrics != nil {
			o.deps.Metrics.RecordChoice()
		}
		if o.deps.Satisfaction != nil {
			o.deps.Satisfaction.ApplyChoice(selectedGood)
		}
		chosen := opts.Bad
		if selectedGood {
			chosen = opts.Good
		}
		o.sendToAgent(ctx, sess, chosen)

		o.setState(StateExchangeContinuation)
		sess.ExchangeCount++
		logging.Session("session %s: exchange %d/%d complete (good=%v)",
			sess.ID, sess.ExchangeCount, o.cfg.MaxExchanges, selectedGood)
		if sess.ExchangeCount >= o.cfg.MaxExchanges {
			logging.Session("session %s: exchange cap reached; forcing transition", sess.ID)
			return
		}

		o.buffer.Clear()
		o.sendToAgent(ctx, sess, continuationPrompt)
	}
}

// sendToAgent relays text through the rate limiter gate. Errors are absorbed:
// a failed send degrades the interaction but never halts it.
func (o *Orchestrator) sendToAgent(ctx context.Context, sess *Session, text string) {
	if err := o.gate.Acquire(ctx); err != nil {
		logging.SessionWarn("session %s: gate acquire aborted: %v", sess.ID, err)
		return
	}
	if err := o.deps.Agents.SendText(ctx, sess.InstanceID, text); err != nil {
		logging.SessionWarn("session %s: send failed: %v", sess.ID, err)
	}
}

// resubscribe swaps the single current-subscription handle to a new instance.
// Unsubscribe always happens before resubscribe so an utterance is never
// delivered twice.
func (o *Orchestrator) resubscribe(instanceID string) {
	if o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
	unsub, err := o.deps.Agents.Subscribe(instanceID, o.buffer.Offer)
	if err != nil {
		logging.SessionWarn("subscribe failed for instance %s: %v", instanceID, err)
		return
	}
	o.unsubscribe = unsub
}

func (o *Orchestrator) clearSubscription() {
	if o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
}

// abort handles cooperative cancellation: close out metrics, drop the
// subscription, deactivate every instance, and return to Idle.
func (o *Orchestrator) abort(ctx context.Context) error {
	logging.Session("stop signal observed in state %s; aborting", o.state)

	o.closeInteraction()
	o.buffer.SetEligible(false)
	o.clearSubscription()
	o.deps.Agents.DeactivateAll(context.WithoutCancel(ctx))
	o.current = nil
	o.setState(StateIdle)
	return ctx.Err()
}

// closeInteraction emits the end event if a start event is outstanding.
// No partial metrics event is ever left open.
func (o *Orchestrator) closeInteraction() {
	if !o.interactionOpen {
		return
	}
	o.interactionOpen = false
	if o.deps.Metrics != nil {
		o.deps.Metrics.EndInteraction()
	}
}

func (o *Orchestrator) setState(s State) {
	logging.SessionDebug("state %s -> %s", o.state, s)
	o.state = s
}

func (o *Orchestrator) notifyServed(index int) {
	if o.deps.Owner != nil {
		o.deps.Owner.CustomerServed(index)
	}
}

func (o *Orchestrator) notifyAllComplete() {
	if o.deps.Owner != nil {
		o.deps.Owner.AllCustomersComplete()
	}
}

func (o *Orchestrator) fadeOut(ctx context.Context) error {
	if o.deps.Fades == nil {
		return nil
	}
	return o.deps.Fades.FadeOut(ctx)
}

// pollUntil checks cond every pollInterval until it holds or the timeout
// elapses. Reports whether cond became true. Cancellation reports false.
func (o *Orchestrator) pollUntil(ctx context.Context, timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return false
		}
	}
}

// sleep waits d or until cancellation.
func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
