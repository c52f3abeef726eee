package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"baristasim/internal/config"
	"baristasim/internal/logging"
)

// Options tunes how the controller simulates a customer speaking. The pause
// models think time before the first word; the word pace stretches delivery
// so transcripts land while the instance reads as speaking.
type Options struct {
	ReplyPause time.Duration
	WordPace   time.Duration
	MaxSpeech  time.Duration
}

// DefaultOptions paces speech roughly like a person talking.
func DefaultOptions() Options {
	return Options{
		ReplyPause: 400 * time.Millisecond,
		WordPace:   120 * time.Millisecond,
		MaxSpeech:  8 * time.Second,
	}
}

// FastOptions compresses speech simulation for tests and scripted runs.
func FastOptions() Options {
	return Options{
		ReplyPause: 5 * time.Millisecond,
		WordPace:   time.Millisecond,
		MaxSpeech:  100 * time.Millisecond,
	}
}

// instance is one live simulated customer.
type instance struct {
	id       string
	customer config.Customer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	history  []Turn
	speaking int
	subs     map[int]func(string)
	nextSub  int
}

// Controller manages agent instances on top of a persona client. It
// implements the session orchestrator's agent boundary: activation,
// speech simulation with utterance delivery, and teardown.
type Controller struct {
	client PersonaClient
	opts   Options

	mu        sync.Mutex
	instances map[string]*instance
}

// NewController creates a controller over the given persona client.
func NewController(client PersonaClient, opts Options) *Controller {
	return &Controller{
		client:    client,
		opts:      opts,
		instances: make(map[string]*instance),
	}
}

// Activate brings up an instance playing the given customer.
func (c *Controller) Activate(ctx context.Context, customer config.Customer) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("no persona client configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ictx, cancel := context.WithCancel(context.Background())
	inst := &instance{
		id:       uuid.NewString(),
		customer: customer,
		ctx:      ictx,
		cancel:   cancel,
		subs:     make(map[int]func(string)),
	}

	c.mu.Lock()
	c.instances[inst.id] = inst
	c.mu.Unlock()

	logging.Agent("activated instance %s for %s (provider %s)", inst.id, customer.Name, c.client.Name())
	return inst.id, nil
}

// Deactivate tears an instance down and waits for its in-flight speech to
// finish. Idempotent: unknown IDs are a no-op.
func (c *Controller) Deactivate(_ context.Context, instanceID string) error {
	c.mu.Lock()
	inst, ok := c.instances[instanceID]
	delete(c.instances, instanceID)
	c.mu.Unlock()
	if !ok {
		return nil
	}

	inst.cancel()
	inst.wg.Wait()
	logging.Agent("deactivated instance %s (%s)", inst.id, inst.customer.Name)
	return nil
}

// DeactivateAll tears down every live instance.
func (c *Controller) DeactivateAll(ctx context.Context) {
	c.mu.Lock()
	ids := make([]string, 0, len(c.instances))
	for id := range c.instances {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	for _, id := range ids {
		_ = c.Deactivate(ctx, id)
	}
	if len(ids) > 0 {
		logging.Agent("deactivated all %d instances", len(ids))
	}
}

// IsSpeaking reports whether the instance is producing speech, including the
// think time before the first word.
func (c *Controller) IsSpeaking(instanceID string) bool {
	inst := c.lookup(instanceID)
	if inst == nil {
		return false
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.speaking > 0
}

// SendText delivers operator text to the instance. The customer's reply is
// produced asynchronously; the instance reads as speaking from this call
// until delivery completes.
func (c *Controller) SendText(ctx context.Context, instanceID, text string) error {
	inst := c.lookup(instanceID)
	if inst == nil {
		return fmt.Errorf("no such instance %s", instanceID)
	}

	inst.mu.Lock()
	inst.history = append(inst.history, Turn{Role: RoleBarista, Text: text})
	history := make([]Turn, len(inst.history))
	copy(history, inst.history)
	inst.speaking++
	inst.mu.Unlock()

	logging.Agent("instance %s <- %q", inst.id, truncate(text, 80))

	inst.wg.Add(1)
	go func() {
		defer inst.wg.Done()
		c.speak(inst, history)
	}()
	return nil
}

// speak produces and delivers the customer's reply, pacing delivery so the
// speaking window covers transcript arrival.
func (c *Controller) speak(inst *instance, history []Turn) {
	defer func() {
		inst.mu.Lock()
		inst.speaking--
		inst.mu.Unlock()
	}()

	reply, err := c.client.Reply(inst.ctx, inst.customer, history)
	if err != nil {
		if inst.ctx.Err() == nil {
			logging.AgentWarn("instance %s: reply failed: %v", inst.id, err)
		}
		return
	}
	if reply == "" {
		return
	}

	if !sleepCtx(inst.ctx, c.opts.ReplyPause) {
		return
	}

	inst.mu.Lock()
	inst.history = append(inst.history, Turn{Role: RoleCustomer, Text: reply})
	subs := make([]func(string), 0, len(inst.subs))
	for _, fn := range inst.subs {
		subs = append(subs, fn)
	}
	inst.mu.Unlock()

	logging.Agent("instance %s -> %q", inst.id, truncate(reply, 80))
	for _, fn := range subs {
		fn(reply)
	}

	sleepCtx(inst.ctx, c.speechDuration(reply))
}

// speechDuration stretches the speaking window with the reply's length.
func (c *Controller) speechDuration(text string) time.Duration {
	d := time.Duration(len(strings.Fields(text))) * c.opts.WordPace
	if c.opts.MaxSpeech > 0 && d > c.opts.MaxSpeech {
		d = c.opts.MaxSpeech
	}
	return d
}

// Subscribe registers an utterance listener and returns its unsubscribe func.
func (c *Controller) Subscribe(instanceID string, fn func(text string)) (func(), error) {
	inst := c.lookup(instanceID)
	if inst == nil {
		return nil, fmt.Errorf("no such instance %s", instanceID)
	}

	inst.mu.Lock()
	key := inst.nextSub
	inst.nextSub++
	inst.subs[key] = fn
	inst.mu.Unlock()

	return func() {
		inst.mu.Lock()
		delete(inst.subs, key)
		inst.mu.Unlock()
	}, nil
}

// History returns a copy of the instance's conversation so far.
func (c *Controller) History(instanceID string) []Turn {
	inst := c.lookup(instanceID)
	if inst == nil {
		return nil
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	out := make([]Turn, len(inst.history))
	copy(out, inst.history)
	return out
}

func (c *Controller) lookup(instanceID string) *instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instances[instanceID]
}

// sleepCtx waits d and reports whether the full duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
