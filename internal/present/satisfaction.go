package present

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"baristasim/internal/config"
)

const meterWidth = 20

// Meter tracks customer satisfaction across the whole run. Good choices add
// the configured delta, bad choices subtract theirs, and the value always
// stays within 0 to 100.
type Meter struct {
	mu    sync.Mutex
	value int
	good  int
	bad   int

	// publish, when set, receives every new value. Wired to the metrics
	// gauge by cmd.
	publish func(int)
}

// NewMeter creates a meter from the satisfaction config. Out-of-range
// initial values are clamped.
func NewMeter(cfg config.SatisfactionConfig, publish func(int)) *Meter {
	m := &Meter{
		value:   clamp(cfg.Initial),
		good:    cfg.GoodDelta,
		bad:     cfg.BadDelta,
		publish: publish,
	}
	if m.publish != nil {
		m.publish(m.value)
	}
	return m
}

// ApplyChoice moves the meter for one operator choice.
func (m *Meter) ApplyChoice(wasGood bool) {
	m.mu.Lock()
	if wasGood {
		m.value = clamp(m.value + m.good)
	} else {
		m.value = clamp(m.value - m.bad)
	}
	v := m.value
	publish := m.publish
	m.mu.Unlock()

	if publish != nil {
		publish(v)
	}
}

// Value returns the current meter reading.
func (m *Meter) Value() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

// Render draws the meter as a colored bar for the terminal.
func (m *Meter) Render() string {
	v := m.Value()
	filled := v * meterWidth / 100

	color := colorAccent
	switch {
	case v < 35:
		color = colorBad
	case v < 65:
		color = colorWarn
	}

	bar := lipgloss.NewStyle().Foreground(color).
		Render(strings.Repeat("█", filled))
	rest := fadeStyle.Render(strings.Repeat("░", meterWidth-filled))
	return fmt.Sprintf("satisfaction %s%s %d/100", bar, rest, v)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
