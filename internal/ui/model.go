// Package ui provides the Bubbletea terminal user interface for the
// live timecode monitor.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/tcgrab/internal/capture"
	"github.com/linuxmatters/tcgrab/internal/ltc"
)

// pollInterval is how often the monitor samples the latch and counters.
// 100ms is fast enough to look live without hammering the terminal.
const pollInterval = 100 * time.Millisecond

// tickMsg drives the poll loop.
type tickMsg time.Time

// Model is the Bubbletea model for the listen monitor.
type Model struct {
	listener *capture.Listener

	// Latest snapshot, refreshed on every tick
	Timecode ltc.Timecode
	Synced   bool
	Stats    capture.Stats

	StartTime time.Time

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a monitor over a running listener.
func NewModel(listener *capture.Listener) Model {
	return Model{
		listener:  listener,
		StartTime: time.Now(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tickMsg:
		m.Timecode, m.Synced = m.listener.Latch().Read()
		m.Stats = m.listener.Stats()
		return m, tick()

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}

	return m, nil
}

// View renders the monitor
func (m Model) View() string {
	return renderMonitorView(m)
}
