package keymap

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// ErrInvalidChord is returned for chord specifications that cannot be parsed.
var ErrInvalidChord = errors.New("invalid key chord")

// Chord is a single key press with its modifiers, in a form that compares
// equal for the same physical chord whichever way tcell reported it.
type Chord struct {
	Mod  tcell.ModMask
	Key  tcell.Key
	Rune rune
}

var keyNames = map[string]tcell.Key{
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"enter":     tcell.KeyEnter,
	"return":    tcell.KeyEnter,
	"tab":       tcell.KeyTab,
	"backspace": tcell.KeyBackspace2,
	"bs":        tcell.KeyBackspace2,
	"delete":    tcell.KeyDelete,
	"del":       tcell.KeyDelete,
	"insert":    tcell.KeyInsert,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"pageup":    tcell.KeyPgUp,
	"pgup":      tcell.KeyPgUp,
	"pagedown":  tcell.KeyPgDn,
	"pgdn":      tcell.KeyPgDn,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"f1":        tcell.KeyF1,
	"f2":        tcell.KeyF2,
	"f3":        tcell.KeyF3,
	"f4":        tcell.KeyF4,
	"f5":        tcell.KeyF5,
	"f6":        tcell.KeyF6,
	"f7":        tcell.KeyF7,
	"f8":        tcell.KeyF8,
	"f9":        tcell.KeyF9,
	"f10":       tcell.KeyF10,
	"f11":       tcell.KeyF11,
	"f12":       tcell.KeyF12,
}

var keyLabels = map[tcell.Key]string{
	tcell.KeyEscape:     "Esc",
	tcell.KeyEnter:      "Enter",
	tcell.KeyTab:        "Tab",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyDelete:     "Delete",
	tcell.KeyInsert:     "Insert",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PgUp",
	tcell.KeyPgDn:       "PgDn",
	tcell.KeyUp:         "Up",
	tcell.KeyDown:       "Down",
	tcell.KeyLeft:       "Left",
	tcell.KeyRight:      "Right",
}

// ParseChord parses specifications such as "Ctrl+N", "Alt+Shift+Left",
// "F10" or "Esc". Modifier and key names are case-insensitive.
func ParseChord(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, fmt.Errorf("%w: empty", ErrInvalidChord)
	}

	parts := strings.Split(spec, "+")
	// "Ctrl++" binds the plus key.
	if strings.HasSuffix(spec, "++") {
		parts = append(parts[:len(parts)-2], "+")
	}

	var c Chord
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control", "c":
			c.Mod |= tcell.ModCtrl
		case "alt", "option", "a":
			c.Mod |= tcell.ModAlt
		case "shift", "s":
			c.Mod |= tcell.ModShift
		case "meta", "cmd", "m":
			c.Mod |= tcell.ModMeta
		default:
			return Chord{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidChord, p, spec)
		}
	}

	name := strings.TrimSpace(parts[len(parts)-1])
	if name == "" {
		return Chord{}, fmt.Errorf("%w: missing key in %q", ErrInvalidChord, spec)
	}
	if k, ok := keyNames[strings.ToLower(name)]; ok {
		c.Key = k
		return c, nil
	}
	if strings.EqualFold(name, "space") {
		name = " "
	}
	if utf8.RuneCountInString(name) != 1 {
		return Chord{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidChord, name, spec)
	}
	r, _ := utf8.DecodeRuneInString(name)
	c.Key = tcell.KeyRune
	c.Rune = r
	return c.normalise(), nil
}

// MustParseChord is ParseChord that panics on error.
func MustParseChord(spec string) Chord {
	c, err := ParseChord(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// FromEvent converts a tcell key event to a Chord.
func FromEvent(ev *tcell.EventKey) Chord {
	c := Chord{Mod: ev.Modifiers(), Key: ev.Key()}
	switch {
	case c.Key == tcell.KeyRune:
		c.Rune = ev.Rune()
		// Terminals report Alt+Shift+n as Alt with an upper-case rune.
		if c.hasCommandMod() && unicode.IsUpper(c.Rune) {
			c.Mod |= tcell.ModShift
		}
	case c.Key >= tcell.KeyCtrlA && c.Key <= tcell.KeyCtrlZ && c.Mod&tcell.ModCtrl != 0:
		c.Rune = rune('a' + (c.Key - tcell.KeyCtrlA))
		c.Key = tcell.KeyRune
	case c.Key == tcell.KeyBackspace:
		c.Key = tcell.KeyBackspace2
	}
	return c.normalise()
}

// normalise lowercases runes held with Ctrl, Alt or Meta, so "Ctrl+N" and
// "Ctrl+n" name the same chord. Shift must be spelled out. A plain rune keeps
// its case and drops Shift, which tcell reports inconsistently for runes.
func (c Chord) normalise() Chord {
	if c.Key != tcell.KeyRune {
		return c
	}
	if c.hasCommandMod() {
		c.Rune = unicode.ToLower(c.Rune)
		return c
	}
	c.Mod &^= tcell.ModShift
	return c
}

func (c Chord) hasCommandMod() bool {
	return c.Mod&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0
}

// String renders the chord in ParseChord syntax.
func (c Chord) String() string {
	var sb strings.Builder
	for _, m := range []struct {
		mask tcell.ModMask
		name string
	}{
		{tcell.ModCtrl, "Ctrl"},
		{tcell.ModAlt, "Alt"},
		{tcell.ModShift, "Shift"},
		{tcell.ModMeta, "Meta"},
	} {
		if c.Mod&m.mask != 0 {
			sb.WriteString(m.name)
			sb.WriteByte('+')
		}
	}

	switch {
	case c.Key == tcell.KeyRune && c.Rune == ' ':
		sb.WriteString("Space")
	case c.Key == tcell.KeyRune && c.hasCommandMod():
		sb.WriteRune(unicode.ToUpper(c.Rune))
	case c.Key == tcell.KeyRune:
		sb.WriteRune(c.Rune)
	case c.Key >= tcell.KeyF1 && c.Key <= tcell.KeyF12:
		fmt.Fprintf(&sb, "F%d", c.Key-tcell.KeyF1+1)
	default:
		if label, ok := keyLabels[c.Key]; ok {
			sb.WriteString(label)
		} else {
			fmt.Fprintf(&sb, "Key(%d)", c.Key)
		}
	}
	return sb.String()
}
