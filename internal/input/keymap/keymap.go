// Package keymap maps key chords to editor commands.
//
// The default bindings cover the file menu, tab switching and leaving
// column mode. A user script named by the "keybindings" setting can
// override them through a sandboxed Lua environment.
package keymap

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/gdamore/tcell/v2"
)

// Command names.
const (
	CmdFileNew      = "file.new"
	CmdFileOpen     = "file.open"
	CmdFileSave     = "file.save"
	CmdFileSaveAs   = "file.save_as"
	CmdFileClose    = "file.close"
	CmdAppExit      = "app.exit"
	CmdMenuOpen     = "menu.open"
	CmdTabNext      = "tab.next"
	CmdTabPrev      = "tab.prev"
	CmdColumnCancel = "column.cancel"
)

var commands = []string{
	CmdFileNew, CmdFileOpen, CmdFileSave, CmdFileSaveAs, CmdFileClose,
	CmdAppExit, CmdMenuOpen, CmdTabNext, CmdTabPrev, CmdColumnCancel,
}

// ErrUnknownCommand is returned when binding a command that does not exist.
var ErrUnknownCommand = errors.New("unknown command")

// Commands returns every command name.
func Commands() []string {
	return slices.Clone(commands)
}

// DefaultBindings is the built-in chord table.
var DefaultBindings = map[string]string{
	"Ctrl+N":    CmdFileNew,
	"Ctrl+O":    CmdFileOpen,
	"Ctrl+S":    CmdFileSave,
	"Ctrl+W":    CmdFileClose,
	"Ctrl+Q":    CmdAppExit,
	"F10":       CmdMenuOpen,
	"Alt+Right": CmdTabNext,
	"Alt+Left":  CmdTabPrev,
	"Esc":       CmdColumnCancel,
}

// Keymap is a chord to command table.
type Keymap struct {
	bindings map[Chord]string
}

// New returns an empty keymap.
func New() *Keymap {
	return &Keymap{bindings: make(map[Chord]string)}
}

// Default returns a keymap holding DefaultBindings.
func Default() *Keymap {
	k := New()
	for spec, cmd := range DefaultBindings {
		k.bindings[MustParseChord(spec)] = cmd
	}
	return k
}

// Bind maps the chord spec to cmd, replacing any existing binding.
func (k *Keymap) Bind(spec, cmd string) error {
	c, err := ParseChord(spec)
	if err != nil {
		return err
	}
	if !slices.Contains(commands, cmd) {
		return fmt.Errorf("bind %s: %q: %w", spec, cmd, ErrUnknownCommand)
	}
	k.bindings[c] = cmd
	return nil
}

// Unbind removes the chord's binding, if any.
func (k *Keymap) Unbind(spec string) error {
	c, err := ParseChord(spec)
	if err != nil {
		return err
	}
	delete(k.bindings, c)
	return nil
}

// Lookup returns the command bound to a key event.
func (k *Keymap) Lookup(ev *tcell.EventKey) (string, bool) {
	cmd, ok := k.bindings[FromEvent(ev)]
	return cmd, ok
}

// LookupChord returns the command bound to c.
func (k *Keymap) LookupChord(c Chord) (string, bool) {
	cmd, ok := k.bindings[c]
	return cmd, ok
}

// ChordFor returns a chord bound to cmd for display, preferring the
// shortest label. ok is false when cmd is unbound.
func (k *Keymap) ChordFor(cmd string) (string, bool) {
	var labels []string
	for c, bound := range k.bindings {
		if bound == cmd {
			labels = append(labels, c.String())
		}
	}
	if len(labels) == 0 {
		return "", false
	}
	slices.SortFunc(labels, func(a, b string) int {
		return cmp.Or(cmp.Compare(len(a), len(b)), cmp.Compare(a, b))
	})
	return labels[0], true
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	return len(k.bindings)
}
