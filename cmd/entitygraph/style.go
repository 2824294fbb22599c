package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")).
			Width(14)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	summaryBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1)
)

// renderSummary draws the end-of-simulation statistics box
func renderSummary(s *summary) string {
	row := func(label string, value any) string {
		return labelStyle.Render(label) + fmt.Sprint(value)
	}

	rows := []string{
		titleStyle.Render("simulation " + s.RunID),
		row("ticks", s.Ticks),
		row("applied", s.Applied),
		row("no-op", s.Noop),
		row("dropped", s.Dropped),
		row("despawned", s.Despawned),
		row("created", s.Created),
		row("reused", s.Reused),
		row("destroyed", s.Destroyed),
		row("components", s.Components),
		row("largest", s.Largest),
		row("edges", s.Edges),
		row("elapsed", s.Elapsed.Round(time.Microsecond)),
	}
	if s.Diagnostics > 0 {
		rows = append(rows, warnStyle.Render(fmt.Sprintf("%d diagnostics", s.Diagnostics)))
	}
	if s.Interrupted {
		rows = append(rows, errorStyle.Render("interrupted"))
	}
	return summaryBoxStyle.Render(strings.Join(rows, "\n"))
}
