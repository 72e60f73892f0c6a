package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#005F87"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	timecodeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AA00")).
			Padding(0, 1)

	unsyncedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Italic(true)
)

// renderMonitorView renders the live timecode display
func renderMonitorView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")
	b.WriteString(renderTimecode(m))
	b.WriteString("\n\n")
	b.WriteString(renderCounters(m))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("Press q to quit"))
	b.WriteString("\n")

	return fitToTerminal(b.String(), m.Width, m.Height)
}

// fitToTerminal clips the render to the reported terminal size so a
// narrow window never wraps the counter line.
func fitToTerminal(view string, width, height int) string {
	style := lipgloss.NewStyle()
	if width > 0 {
		style = style.MaxWidth(width)
	}
	if height > 0 {
		style = style.MaxHeight(height)
	}
	return style.Render(view)
}

func renderHeader(m Model) string {
	title := titleStyle.Render("tcgrab ⏱ - Live Timecode Monitor")
	elapsed := time.Since(m.StartTime).Round(time.Second)
	subtitle := subtitleStyle.Render(fmt.Sprintf("Listening for %s", elapsed))
	return title + "\n" + subtitle
}

func renderTimecode(m Model) string {
	if !m.Synced {
		return unsyncedStyle.Render("--:--:--:--") + "  " +
			labelStyle.Render("waiting for sync")
	}
	return timecodeStyle.Render(m.Timecode.String())
}

func renderCounters(m Model) string {
	return fmt.Sprintf("%s %d   %s %d   %s %d   %s %d",
		labelStyle.Render("Blocks:"), m.Stats.Blocks,
		labelStyle.Render("Samples:"), m.Stats.Samples,
		labelStyle.Render("Frames:"), m.Stats.Frames,
		labelStyle.Render("Malformed:"), m.Stats.Malformed,
	)
}
