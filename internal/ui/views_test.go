package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/tcgrab/internal/capture"
	"github.com/linuxmatters/tcgrab/internal/ltc"
)

func TestViewFitsTerminalSize(t *testing.T) {
	m := Model{
		Timecode: ltc.Timecode{Hours: 1, Minutes: 2, Seconds: 3, Frames: 4},
		Synced:   true,
		Stats:    capture.Stats{Blocks: 123456, Samples: 252837888, Frames: 98765},
		Width:    24,
		Height:   4,
	}

	out := m.View()
	lines := strings.Split(out, "\n")
	if len(lines) > m.Height {
		t.Errorf("view has %d lines, terminal height is %d", len(lines), m.Height)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w > m.Width {
			t.Errorf("line %d is %d cells wide, terminal width is %d: %q", i, w, m.Width, line)
		}
	}
}

func TestViewUnsizedTerminalUnclipped(t *testing.T) {
	m := Model{Synced: false}

	out := m.View()
	if !strings.Contains(out, "--:--:--:--") {
		t.Errorf("unsynced view missing placeholder:\n%s", out)
	}
	if !strings.Contains(out, "waiting for sync") {
		t.Errorf("unsynced view missing sync hint:\n%s", out)
	}
}
