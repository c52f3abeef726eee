package session

import (
	"context"

	"baristasim/internal/logging"
)

// teardown runs the between-customer handoff: close the metrics interaction,
// wait (bounded) for the agent to finish its last line, fade in, and
// deactivate the instance. Every wait is soft; teardown always completes.
func (o *Orchestrator) teardown(ctx context.Context, sess *Session) {
	if sess == nil {
		return
	}

	o.closeInteraction()

	// Wait only for the agent to go quiet. Never wait for it to start a
	// goodbye line: if it has nothing more to say the wait would burn the
	// whole timeout for no benefit.
	o.setState(StateTerminating)
	if !o.pollUntil(ctx, o.cfg.Timeouts.TerminationTimeout, func() bool {
		return !o.deps.Agents.IsSpeaking(sess.InstanceID)
	}) {
		logging.Transition("session %s: agent still speaking at termination timeout; proceeding", sess.ID)
	}

	o.setState(StateTransitioning)
	if o.deps.Fades != nil {
		if err := o.deps.Fades.FadeIn(ctx); err != nil {
			logging.Transition("session %s: fade-in failed: %v", sess.ID, err)
		}
	}

	o.buffer.SetEligible(false)
	o.buffer.Clear()
	o.clearSubscription()

	// Deactivation must survive a cancelled run context so no instance
	// outlives its session.
	if err := o.deps.Agents.Deactivate(context.WithoutCancel(ctx), sess.InstanceID); err != nil {
		logging.Transition("session %s: deactivate failed: %v", sess.ID, err)
	}

	o.sleep(ctx, o.cfg.Timeouts.DelayBetweenCustomers)

	if o.current == sess {
		o.current = nil
	}
	logging.Transition("session %s: teardown complete for %s", sess.ID, sess.Customer.Name)
}
