package present

import (
	"fmt"
	"strings"
	"time"
)

// Summary is the end-of-run report shown after the last customer leaves.
type Summary struct {
	CustomersServed int
	CustomersTotal  int
	ChoicesMade     int
	Satisfaction    int
	Elapsed         time.Duration
}

// Render draws the run summary panel.
func (s Summary) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shift complete\n\n")
	fmt.Fprintf(&b, "customers served  %d/%d\n", s.CustomersServed, s.CustomersTotal)
	fmt.Fprintf(&b, "choices made      %d\n", s.ChoicesMade)
	fmt.Fprintf(&b, "satisfaction      %d/100\n", s.Satisfaction)
	fmt.Fprintf(&b, "shift length      %s", s.Elapsed.Round(time.Second))
	return summaryStyle.Render(b.String())
}
