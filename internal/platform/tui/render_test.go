package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-maze/internal/core"
)

func TestRenderGridSize(t *testing.T) {
	m, err := NewModel(testOptions(nil))
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	defer m.detach()

	grid := RenderGrid(m.World())
	lines := strings.Split(grid, "\n")
	if len(lines) != 7 {
		t.Fatalf("grid has %d lines, expected 7", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 9*cellWidth {
			t.Errorf("line %d width = %d, expected %d", i, w, 9*cellWidth)
		}
	}
	if !strings.Contains(grid, "@1") {
		t.Error("grid is missing player one")
	}
}

func TestBuildLayerPriority(t *testing.T) {
	m, err := NewModel(testOptions(nil))
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	defer m.detach()

	l := buildLayer(m.World())
	p1 := m.World().Player(core.Player1).Pos().Cell()
	if c := l[p1]; c.tone != tonePlayer1 {
		t.Errorf("cell %v tone = %v, expected player one on top", p1, c.tone)
	}

	var doors int
	for _, c := range l {
		if c.tone == toneDoor {
			doors++
		}
	}
	if doors != 1 {
		t.Errorf("rendered %d doors, expected 1", doors)
	}
}

func TestBannerStates(t *testing.T) {
	m, err := NewModel(testOptions(nil))
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	defer m.detach()

	if b := banner(m.World()); b != "" {
		t.Errorf("banner = %q during play", b)
	}
	m = send(t, m, runeKey("p"))
	m = send(t, m, TickMsg{})
	if b := banner(m.World()); b != "PAUSED" {
		t.Errorf("banner = %q, expected PAUSED", b)
	}
}
