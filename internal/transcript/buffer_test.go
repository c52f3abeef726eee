package transcript

import (
	"context"
	"testing"
	"time"
)

func TestOfferRequiresEligibility(t *testing.T) {
	b := NewBuffer()

	b.Offer("I have been waiting for twenty minutes")
	if got := b.Latest(); got != "" {
		t.Fatalf("Latest() = %q, want empty while ineligible", got)
	}

	b.SetEligible(true)
	b.Offer("I have been waiting for twenty minutes")
	if got := b.Latest(); got == "" {
		t.Fatal("Latest() empty, want captured utterance")
	}

	_, discarded := b.Stats()
	if discarded != 1 {
		t.Errorf("discarded = %d, want 1", discarded)
	}
}

func TestOfferKeepsLatestSubstantial(t *testing.T) {
	b := NewBuffer()
	b.SetEligible(true)

	b.Offer("My first complaint is about the wait")
	b.Offer("hm")
	b.Offer("  ")
	b.Offer("Actually the real problem is the cold latte")

	if got := b.Latest(); got != "Actually the real problem is the cold latte" {
		t.Fatalf("Latest() = %q, want the newest substantial utterance", got)
	}
}

func TestClear(t *testing.T) {
	b := NewBuffer()
	b.SetEligible(true)
	b.Offer("Something went wrong with my order")

	b.Clear()
	if b.Latest() != "" {
		t.Error("Clear() should empty the buffer")
	}
}

func TestAwaitReturnsCapturedText(t *testing.T) {
	b := NewBuffer()
	b.SetEligible(true)
	b.Offer("The espresso tastes burnt to me")

	text, captured := b.Await(context.Background(), AwaitConfig{
		GracePeriod: time.Millisecond,
		Retries:     2,
		Interval:    time.Millisecond,
	})
	if !captured {
		t.Fatal("captured = false, want true")
	}
	if text != "The espresso tastes burnt to me" {
		t.Fatalf("text = %q", text)
	}
}

func TestAwaitPollsForLateDelivery(t *testing.T) {
	b := NewBuffer()
	b.SetEligible(true)

	go func() {
		time.Sleep(15 * time.Millisecond)
		b.Offer("Sorry, the machine ate my order ticket")
	}()

	text, captured := b.Await(context.Background(), AwaitConfig{
		GracePeriod: 5 * time.Millisecond,
		Retries:     5,
		Interval:    10 * time.Millisecond,
	})
	if !captured {
		t.Fatalf("captured = false, want true (text=%q)", text)
	}
}

func TestAwaitFallsBackWhenEmpty(t *testing.T) {
	b := NewBuffer()
	b.SetEligible(true)

	text, captured := b.Await(context.Background(), AwaitConfig{
		GracePeriod: time.Millisecond,
		Retries:     3,
		Interval:    time.Millisecond,
	})
	if captured {
		t.Fatal("captured = true, want false")
	}
	if text != FallbackText {
		t.Fatalf("text = %q, want fallback", text)
	}
}

func TestAwaitCancelledReturnsFallback(t *testing.T) {
	b := NewBuffer()
	b.SetEligible(true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	text, captured := b.Await(ctx, AwaitConfig{
		GracePeriod: time.Minute,
		Retries:     5,
		Interval:    time.Second,
	})
	if captured {
		t.Fatal("captured = true, want false")
	}
	if text != FallbackText {
		t.Fatalf("text = %q, want fallback", text)
	}
}
