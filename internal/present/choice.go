package present

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"baristasim/internal/logging"
)

// TerminalChoices presents both reply options in the terminal and blocks
// until the operator picks one. The two options appear in random order so
// the slot number never gives the answer away.
type TerminalChoices struct {
	in  *bufio.Reader
	out io.Writer

	// shuffle decides whether the good option takes slot 2. Swappable so
	// tests get a fixed order.
	shuffle func() bool
}

// NewTerminalChoices reads selections from in and renders to out.
func NewTerminalChoices(in io.Reader, out io.Writer) *TerminalChoices {
	return &TerminalChoices{
		in:      bufio.NewReader(in),
		out:     out,
		shuffle: func() bool { return rand.IntN(2) == 1 },
	}
}

// PresentChoice renders the customer's words and both candidate replies,
// then blocks until the operator types 1 or 2. This is the conversation's
// deliberate suspension point; only context cancellation cuts it short.
func (p *TerminalChoices) PresentChoice(ctx context.Context, prompt, goodText, badText string) (bool, error) {
	first, second := goodText, badText
	goodSlot := 1
	if p.shuffle() {
		first, second = badText, goodText
		goodSlot = 2
	}

	fmt.Fprintf(p.out, "\n%s\n", complaintStyle.Render(prompt))
	fmt.Fprintf(p.out, "\nHow do you respond?\n")
	fmt.Fprintf(p.out, "  %s %s\n", optionNumStyle.Render("[1]"), first)
	fmt.Fprintf(p.out, "  %s %s\n", optionNumStyle.Render("[2]"), second)
	fmt.Fprintf(p.out, "%s ", hintStyle.Render("choice (1/2):"))

	for {
		line, err := p.readLine(ctx)
		if err != nil {
			return false, err
		}
		switch strings.TrimSpace(line) {
		case "1":
			return goodSlot == 1, nil
		case "2":
			return goodSlot == 2, nil
		default:
			fmt.Fprintf(p.out, "%s ", hintStyle.Render("please type 1 or 2:"))
		}
	}
}

// readLine reads one input line, abandoning the wait if the context ends.
// A read abandoned this way finishes in the background and its result is
// dropped; the process is shutting down when that happens.
func (p *TerminalChoices) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil && r.line == "" {
			return "", fmt.Errorf("reading choice: %w", r.err)
		}
		return r.line, nil
	case <-ctx.Done():
		logging.Session("choice wait abandoned: %v", ctx.Err())
		return "", ctx.Err()
	}
}
