package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/twbisect/internal/fixtures"
	"github.com/matzehuels/twbisect/pkg/nice"
)

func press(t *testing.T, m InspectModel, keys ...string) InspectModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(InspectModel)
	}
	return m
}

func TestInspectNavigation(t *testing.T) {
	_, d := fixtures.Example()
	m := NewInspectModel(d)

	if got := m.Selected().ID; got != d.Root {
		t.Fatalf("initial selection = n%d, want root n%d", got, d.Root)
	}

	m = press(t, m, "h")
	if m.Layer != 0 {
		t.Errorf("h at the root layer moved to layer %d", m.Layer)
	}

	m = press(t, m, "enter", "enter")
	join := m.Selected()
	if join.Kind != nice.KindJoin || m.Layer != 2 {
		t.Fatalf("two steps down = %s at layer %d, want the join at layer 2", join, m.Layer)
	}

	m = press(t, m, "enter")
	if got := m.Selected().ID; got != join.Left {
		t.Errorf("enter on join selected n%d, want left child n%d", got, join.Left)
	}
	m = press(t, m, "down")
	if got := m.Selected().ID; got != join.Right {
		t.Errorf("down selected n%d, want right child n%d", got, join.Right)
	}

	m = press(t, m, "p")
	if got := m.Selected().ID; got != join.ID {
		t.Errorf("p selected n%d, want join n%d", got, join.ID)
	}

	m = press(t, m, "r")
	if m.Layer != 0 || m.Selected().ID != d.Root {
		t.Errorf("r should return to the root, at layer %d", m.Layer)
	}

	m = press(t, m, "p")
	if m.Selected().ID != d.Root {
		t.Error("p on the root should stay put")
	}
}

func TestInspectLayers(t *testing.T) {
	_, d := fixtures.Example()
	m := NewInspectModel(d)
	last := len(d.Layers) - 1

	for range len(d.Layers) + 2 {
		m = press(t, m, "l")
	}
	if m.Layer != last {
		t.Errorf("l past the bottom = layer %d, want %d", m.Layer, last)
	}
	if leaf := m.Selected(); leaf.Kind != nice.KindLeaf {
		t.Errorf("deepest layer starts with %s, want a leaf", leaf)
	}
}

func TestInspectScroll(t *testing.T) {
	_, d := fixtures.Example()
	m := NewInspectModel(d)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 2})
	m = next.(InspectModel)
	if m.Height != 5 {
		t.Errorf("Height = %d, want the minimum 5", m.Height)
	}
}

func TestInspectQuit(t *testing.T) {
	_, d := fixtures.Example()
	_, cmd := NewInspectModel(d).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestInspectView(t *testing.T) {
	_, d := fixtures.Example()
	view := NewInspectModel(d).View()
	for _, want := range []string{"Layer 0/7", "Root: Intro 3", "child   Forget 6", "Forgotten"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestLayerTable(t *testing.T) {
	_, d := fixtures.Example()
	rows := layerRows(d)
	if len(rows) != len(d.Layers) {
		t.Fatalf("got %d rows, want %d", len(rows), len(d.Layers))
	}
	// Layer 2 is the single join node.
	if got := rows[2]; got[1] != "1" || got[5] != "1" {
		t.Errorf("layer 2 row = %v, want one join node", got)
	}
	if !strings.Contains(layerTable(d), "Max bag") {
		t.Error("table should have a Max bag column")
	}
}
