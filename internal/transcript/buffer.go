// Package transcript accumulates the agent's speech output during a bounded
// listening window. The buffer is single-writer by construction: utterances
// are only stored while the orchestrator has marked the session
// capture-eligible, and only the orchestrator toggles eligibility.
package transcript

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"baristasim/internal/logging"
)

// FallbackText substitutes for the complaint when nothing was captured.
const FallbackText = "Customer has made a complaint about the service"

// minSubstantialLen filters out filler fragments ("uh", "hm", "ok").
const minSubstantialLen = 10

// Buffer holds the latest substantial utterance for the active session.
type Buffer struct {
	mu       sync.Mutex
	eligible bool
	latest   string

	// Counters for debugging dropped deliveries
	accepted  int64
	discarded int64
}

// NewBuffer creates an empty, ineligible buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// SetEligible opens or closes the capture window. Utterances offered while
// the window is closed are discarded.
func (b *Buffer) SetEligible(eligible bool) {
	b.mu.Lock()
	b.eligible = eligible
	b.mu.Unlock()
	logging.TranscriptDebug("capture window eligible=%v", eligible)
}

// Offer stores the utterance if the window is open and the text is
// substantial. Later utterances replace earlier ones: the newest full
// utterance is the one that gets classified.
func (b *Buffer) Offer(text string) {
	trimmed := strings.TrimSpace(text)

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.eligible {
		atomic.AddInt64(&b.discarded, 1)
		logging.TranscriptDebug("discarded utterance outside capture window (%d chars)", len(trimmed))
		return
	}
	if len(trimmed) < minSubstantialLen {
		logging.TranscriptDebug("skipped filler utterance %q", trimmed)
		return
	}

	b.latest = trimmed
	atomic.AddInt64(&b.accepted, 1)
	logging.Transcript("captured utterance (%d chars)", len(trimmed))
}

// Latest returns the most recent substantial utterance, or "".
func (b *Buffer) Latest() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

// Clear empties the buffer between exchanges.
func (b *Buffer) Clear() {
	b.mu.Lock()
	b.latest = ""
	b.mu.Unlock()
}

// Stats returns accepted and discarded delivery counts.
func (b *Buffer) Stats() (accepted, discarded int64) {
	return atomic.LoadInt64(&b.accepted), atomic.LoadInt64(&b.discarded)
}

// AwaitConfig bounds the finalization wait.
type AwaitConfig struct {
	// GracePeriod runs before the first poll. Transcript delivery can lag
	// the end of audible speech; cutting this short loses real complaints.
	GracePeriod time.Duration
	// Retries is the number of polls after the grace period.
	Retries int
	// Interval separates polls.
	Interval time.Duration
}

// Await finalizes capture after speech ends: it waits the grace period, then
// polls for a non-empty utterance, and falls back to FallbackText if the
// buffer stays empty. The returned bool reports whether real text was
// captured. Cancellation returns whatever is buffered at that moment.
func (b *Buffer) Await(ctx context.Context, cfg AwaitConfig) (string, bool) {
	if !sleepCtx(ctx, cfg.GracePeriod) {
		return b.finalize()
	}

	for i := 0; i <= cfg.Retries; i++ {
		if text := b.Latest(); text != "" {
			return text, true
		}
		if i == cfg.Retries {
			break
		}
		if !sleepCtx(ctx, cfg.Interval) {
			break
		}
	}

	return b.finalize()
}

func (b *Buffer) finalize() (string, bool) {
	if text := b.Latest(); text != "" {
		return text, true
	}
	logging.Transcript("no utterance captured; substituting fallback text")
	return FallbackText, false
}

// sleepCtx sleeps d unless the context is cancelled first.
// Reports whether the full duration elapsed.
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
