package menu

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/wkeeling/pyrite/internal/input/keymap"
)

func TestFileMenuItems(t *testing.T) {
	m := NewFile()
	items := m.Items()
	want := []string{"New...", "Open...", "", "Save", "Exit"}
	if len(items) != len(want) {
		t.Fatalf("got %d items", len(items))
	}
	for i, label := range want {
		if items[i].Label != label {
			t.Errorf("item %d = %q, want %q", i, items[i].Label, label)
		}
	}
	if !items[2].Separator() {
		t.Error("item 2 should be a separator")
	}
	if r, _ := items[4].Mnemonic(); r != 'x' {
		t.Errorf("Exit mnemonic = %q", r)
	}
}

func TestNavigationSkipsSeparator(t *testing.T) {
	m := NewFile()
	if m.Selected() != -1 {
		t.Error("closed menu should have no selection")
	}

	m.Open()
	steps := []struct {
		move func()
		want int
	}{
		{m.Down, 1},
		{m.Down, 3},
		{m.Down, 4},
		{m.Down, 0},
		{m.Up, 4},
		{m.Up, 3},
		{m.Up, 1},
	}
	if m.Selected() != 0 {
		t.Fatalf("Open selected %d", m.Selected())
	}
	for i, s := range steps {
		s.move()
		if m.Selected() != s.want {
			t.Errorf("step %d: selected %d, want %d", i, m.Selected(), s.want)
		}
	}
}

func TestSelect(t *testing.T) {
	m := NewFile()
	m.Open()
	if m.Select(2) || m.Select(9) || m.Select(-1) {
		t.Error("separator and out of range should be rejected")
	}
	if !m.Select(3) || m.Selected() != 3 {
		t.Error("Select(3) failed")
	}
}

func TestHandleKey(t *testing.T) {
	m := NewFile()
	if _, handled := m.HandleKey(tcell.NewEventKey(tcell.KeyDown, 0, 0)); handled {
		t.Error("closed menu should not handle keys")
	}

	m.Open()
	m.HandleKey(tcell.NewEventKey(tcell.KeyDown, 0, 0))
	cmd, handled := m.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, 0))
	if !handled || cmd != keymap.CmdFileOpen {
		t.Errorf("Enter = %q, %v", cmd, handled)
	}
	if m.IsOpen() {
		t.Error("activating should close the menu")
	}

	m.Open()
	if cmd, _ := m.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'S', 0)); cmd != keymap.CmdFileSave {
		t.Errorf("mnemonic S = %q", cmd)
	}

	m.Open()
	if cmd, _ := m.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'z', 0)); cmd != "" || !m.IsOpen() {
		t.Errorf("unknown mnemonic = %q, open %v", cmd, m.IsOpen())
	}
	m.HandleKey(tcell.NewEventKey(tcell.KeyEscape, 0, 0))
	if m.IsOpen() {
		t.Error("Esc should close the menu")
	}
}

func TestToggle(t *testing.T) {
	m := NewFile()
	m.Toggle()
	if !m.IsOpen() {
		t.Fatal("Toggle should open")
	}
	m.Toggle()
	if m.IsOpen() {
		t.Fatal("Toggle should close")
	}
	if _, ok := m.Activate(); ok {
		t.Error("Activate on a closed menu should fail")
	}
}

func TestShortcut(t *testing.T) {
	km := keymap.Default()
	items := NewFile().Items()
	if got := Shortcut(items[0], km); got != "Ctrl+N" {
		t.Errorf("New shortcut = %q", got)
	}
	if got := Shortcut(items[2], km); got != "" {
		t.Errorf("separator shortcut = %q", got)
	}
	if got := Shortcut(items[4], nil); got != "" {
		t.Errorf("nil keymap shortcut = %q", got)
	}
}
