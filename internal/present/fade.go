package present

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Fader marks customer handoffs in the terminal and holds the configured
// fade duration so the transition reads as a scene change rather than an
// instant swap.
type Fader struct {
	out io.Writer
	dur time.Duration
}

// NewFader creates a fader with the given fade duration.
func NewFader(out io.Writer, dur time.Duration) *Fader {
	return &Fader{out: out, dur: dur}
}

// FadeIn covers the end of a session.
func (f *Fader) FadeIn(ctx context.Context) error {
	fmt.Fprintf(f.out, "\n%s\n", fadeStyle.Render("~ the customer steps away from the counter ~"))
	return f.hold(ctx)
}

// FadeOut reveals the next session.
func (f *Fader) FadeOut(ctx context.Context) error {
	fmt.Fprintf(f.out, "%s\n", fadeStyle.Render("~ the next customer walks up ~"))
	return f.hold(ctx)
}

func (f *Fader) hold(ctx context.Context) error {
	if f.dur <= 0 {
		return nil
	}
	timer := time.NewTimer(f.dur)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
