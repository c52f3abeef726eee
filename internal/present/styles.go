// Package present renders the operator-facing surfaces of a training run:
// the reply choice prompt, the between-customer fades, the satisfaction
// meter, and the end-of-run summary. Nothing here feeds back into
// orchestration beyond the operator's choice.
package present

import "github.com/charmbracelet/lipgloss"

// Palette shared by the terminal surfaces.
var (
	colorAccent  = lipgloss.Color("#8BC34A")
	colorWarn    = lipgloss.Color("#FFC107")
	colorBad     = lipgloss.Color("#e53935")
	colorMuted   = lipgloss.Color("#808890")
	colorSpeaker = lipgloss.Color("#2196F3")
)

var (
	speakerStyle = lipgloss.NewStyle().
			Foreground(colorSpeaker).
			Bold(true)

	complaintStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	optionNumStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	fadeStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(0, 2)
)
