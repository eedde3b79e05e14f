// Package menu holds the File menu model: its items, which one is
// selected, and the keyboard navigation between them. Drawing is left to
// the renderer.
package menu

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/wkeeling/pyrite/internal/input/keymap"
)

// Item is a menu entry. An item with an empty Label is a separator.
type Item struct {
	Label string
	// Underline is the rune index of the mnemonic in Label, or -1.
	Underline int
	Command   string
}

// Separator reports whether the item is a separator.
func (i Item) Separator() bool {
	return i.Label == ""
}

// Mnemonic returns the underlined rune, lower-cased.
func (i Item) Mnemonic() (rune, bool) {
	if i.Underline < 0 {
		return 0, false
	}
	for n, r := range []rune(i.Label) {
		if n == i.Underline {
			return unicode.ToLower(r), true
		}
	}
	return 0, false
}

// Menu is a drop-down menu attached to the menu bar.
type Menu struct {
	Title     string
	Underline int

	items    []Item
	open     bool
	selected int
}

// New creates a closed menu.
func New(title string, underline int, items ...Item) *Menu {
	return &Menu{Title: title, Underline: underline, items: items, selected: -1}
}

// NewFile returns the File menu.
func NewFile() *Menu {
	return New("File", 0,
		Item{Label: "New...", Underline: 0, Command: keymap.CmdFileNew},
		Item{Label: "Open...", Underline: 0, Command: keymap.CmdFileOpen},
		Item{},
		Item{Label: "Save", Underline: 0, Command: keymap.CmdFileSave},
		Item{Label: "Exit", Underline: 1, Command: keymap.CmdAppExit},
	)
}

// Items returns the menu entries.
func (m *Menu) Items() []Item {
	return m.items
}

// IsOpen reports whether the drop-down is showing.
func (m *Menu) IsOpen() bool {
	return m.open
}

// Selected returns the index of the highlighted item, or -1.
func (m *Menu) Selected() int {
	if !m.open {
		return -1
	}
	return m.selected
}

// Open shows the drop-down with the first item selected.
func (m *Menu) Open() {
	m.open = true
	m.selected = -1
	m.Down()
}

// Close hides the drop-down.
func (m *Menu) Close() {
	m.open = false
	m.selected = -1
}

// Toggle opens a closed menu and closes an open one.
func (m *Menu) Toggle() {
	if m.open {
		m.Close()
		return
	}
	m.Open()
}

// Down selects the next item, skipping separators and wrapping.
func (m *Menu) Down() {
	m.step(1)
}

// Up selects the previous item, skipping separators and wrapping.
func (m *Menu) Up() {
	m.step(-1)
}

func (m *Menu) step(dir int) {
	n := len(m.items)
	if n == 0 {
		return
	}
	i := m.selected
	for range n {
		i = ((i+dir)%n + n) % n
		if !m.items[i].Separator() {
			m.selected = i
			return
		}
	}
}

// Select highlights item i. Separators and out of range indices are
// ignored.
func (m *Menu) Select(i int) bool {
	if i < 0 || i >= len(m.items) || m.items[i].Separator() {
		return false
	}
	m.selected = i
	return true
}

// Activate closes the menu and returns the selected item's command.
func (m *Menu) Activate() (string, bool) {
	if !m.open || m.selected < 0 {
		return "", false
	}
	cmd := m.items[m.selected].Command
	m.Close()
	return cmd, true
}

// ActivateRune activates the item whose mnemonic is r.
func (m *Menu) ActivateRune(r rune) (string, bool) {
	r = unicode.ToLower(r)
	for i, item := range m.items {
		if mn, ok := item.Mnemonic(); ok && mn == r {
			m.selected = i
			return m.Activate()
		}
	}
	return "", false
}

// HandleKey drives an open menu from the keyboard. handled is false when
// the menu is closed. cmd is set when an item was chosen.
func (m *Menu) HandleKey(ev *tcell.EventKey) (cmd string, handled bool) {
	if !m.open {
		return "", false
	}
	switch ev.Key() {
	case tcell.KeyUp:
		m.Up()
	case tcell.KeyDown, tcell.KeyTab:
		m.Down()
	case tcell.KeyEnter:
		cmd, _ = m.Activate()
	case tcell.KeyEscape, tcell.KeyF10:
		m.Close()
	case tcell.KeyRune:
		cmd, _ = m.ActivateRune(ev.Rune())
	}
	return cmd, true
}

// Shortcut returns the chord label for an item, or "" when it is unbound.
func Shortcut(item Item, km *keymap.Keymap) string {
	if km == nil || item.Separator() {
		return ""
	}
	label, _ := km.ChordFor(item.Command)
	return label
}
