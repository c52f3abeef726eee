// Package gate enforces the minimum interval between any two outbound calls
// to the external agent service. One process-wide instance paces every send:
// opening prompts, continuation prompts, and relayed choices all acquire the
// gate before calling out.
package gate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"baristasim/internal/logging"
)

// Gate is the process-wide rate limiter for outbound agent calls.
type Gate struct {
	mu       sync.Mutex
	minDelay time.Duration
	lastCall time.Time

	// Metrics
	totalAcquires int64
	totalWaitNs   int64
}

// New creates a gate with the given minimum interval between calls.
func New(minDelay time.Duration) *Gate {
	return &Gate{minDelay: minDelay}
}

// Acquire blocks until at least the configured interval has elapsed since the
// last accepted call, then records the new last-call timestamp. Returns early
// with the context error if the caller is cancelled while waiting.
//
// The recorded timestamp is monotonically non-decreasing and is the single
// source of truth for outbound pacing; no caller sends without acquiring.
func (g *Gate) Acquire(ctx context.Context) error {
	g.mu.Lock()
	now := time.Now()
	wait := time.Duration(0)
	if !g.lastCall.IsZero() {
		if elapsed := now.Sub(g.lastCall); elapsed < g.minDelay {
			wait = g.minDelay - elapsed
		}
	}

	if wait <= 0 {
		g.lastCall = now
		g.mu.Unlock()
		atomic.AddInt64(&g.totalAcquires, 1)
		return nil
	}
	g.mu.Unlock()

	logging.GateDebug("pacing outbound call: waiting %v", wait)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		logging.Get(logging.CategoryGate).Warn("cancelled while pacing (waited part of %v)", wait)
		return ctx.Err()
	}

	g.mu.Lock()
	g.lastCall = time.Now()
	g.mu.Unlock()

	atomic.AddInt64(&g.totalAcquires, 1)
	atomic.AddInt64(&g.totalWaitNs, int64(wait))
	return nil
}

// LastCall returns the timestamp of the most recently accepted call.
func (g *Gate) LastCall() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastCall
}

// Stats returns the total accepted calls and cumulative pacing wait.
func (g *Gate) Stats() (acquires int64, totalWait time.Duration) {
	return atomic.LoadInt64(&g.totalAcquires), time.Duration(atomic.LoadInt64(&g.totalWaitNs))
}
