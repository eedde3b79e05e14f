package keymap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestParseChord(t *testing.T) {
	tests := []struct {
		spec string
		want Chord
	}{
		{"Ctrl+N", Chord{Mod: tcell.ModCtrl, Key: tcell.KeyRune, Rune: 'n'}},
		{"ctrl+n", Chord{Mod: tcell.ModCtrl, Key: tcell.KeyRune, Rune: 'n'}},
		{"Alt+Shift+Left", Chord{Mod: tcell.ModAlt | tcell.ModShift, Key: tcell.KeyLeft}},
		{"F10", Chord{Key: tcell.KeyF10}},
		{"Esc", Chord{Key: tcell.KeyEscape}},
		{"x", Chord{Key: tcell.KeyRune, Rune: 'x'}},
		{"Ctrl+Space", Chord{Mod: tcell.ModCtrl, Key: tcell.KeyRune, Rune: ' '}},
		{"Ctrl++", Chord{Mod: tcell.ModCtrl, Key: tcell.KeyRune, Rune: '+'}},
	}
	for _, tt := range tests {
		got, err := ParseChord(tt.spec)
		if err != nil {
			t.Errorf("ParseChord(%q): %v", tt.spec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseChord(%q) = %+v, want %+v", tt.spec, got, tt.want)
		}
	}
}

func TestParseChordErrors(t *testing.T) {
	for _, spec := range []string{"", "Ctrl+", "Hyper+X", "Ctrl+Banana"} {
		if _, err := ParseChord(spec); !errors.Is(err, ErrInvalidChord) {
			t.Errorf("ParseChord(%q) err = %v", spec, err)
		}
	}
}

func TestChordString(t *testing.T) {
	for _, spec := range []string{"Ctrl+N", "Alt+Shift+Left", "F10", "Esc", "Ctrl+Space", "x", "Alt+Right"} {
		if got := MustParseChord(spec).String(); got != spec {
			t.Errorf("String() of %q = %q", spec, got)
		}
	}
}

func TestFromEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		spec string
	}{
		{"ctrl letter key", tcell.NewEventKey(tcell.KeyCtrlN, 0, tcell.ModCtrl), "Ctrl+N"},
		{"ctrl rune", tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModCtrl), "Ctrl+N"},
		{"alt arrow", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModAlt), "Alt+Right"},
		{"function key", tcell.NewEventKey(tcell.KeyF10, 0, tcell.ModNone), "F10"},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "Esc"},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'X', tcell.ModShift), "X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, want := FromEvent(tt.ev), MustParseChord(tt.spec); got != want {
				t.Errorf("FromEvent = %+v, want %+v", got, want)
			}
		})
	}
}

func TestDefaultLookup(t *testing.T) {
	k := Default()
	if k.Len() != len(DefaultBindings) {
		t.Errorf("Len = %d, want %d", k.Len(), len(DefaultBindings))
	}

	cmd, ok := k.Lookup(tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl))
	if !ok || cmd != CmdFileSave {
		t.Errorf("Ctrl+S = %q, %v", cmd, ok)
	}
	if _, ok := k.Lookup(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone)); ok {
		t.Error("plain s should be unbound")
	}
	if cmd, _ := k.LookupChord(MustParseChord("Esc")); cmd != CmdColumnCancel {
		t.Errorf("Esc = %q", cmd)
	}
}

func TestBindUnbind(t *testing.T) {
	k := Default()

	if err := k.Bind("Ctrl+T", CmdTabNext); err != nil {
		t.Fatal(err)
	}
	if label, _ := k.ChordFor(CmdTabNext); label != "Ctrl+T" {
		t.Errorf("ChordFor(tab.next) = %q, want the shorter Ctrl+T", label)
	}
	if err := k.Bind("Ctrl+T", "launch.rockets"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown command err = %v", err)
	}
	if err := k.Bind("Nope+T", CmdTabNext); !errors.Is(err, ErrInvalidChord) {
		t.Errorf("bad chord err = %v", err)
	}

	if err := k.Unbind("Ctrl+Q"); err != nil {
		t.Fatal(err)
	}
	if _, ok := k.ChordFor(CmdAppExit); ok {
		t.Error("app.exit should be unbound")
	}
}

func TestRunScript(t *testing.T) {
	k := Default()
	err := RunScript(k, `
for _, c in ipairs(commands()) do
  if c == "tab.next" then
    bind("Ctrl+Right", c)
  end
end
unbind("Alt+Right")
`, nil)
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if cmd, _ := k.LookupChord(MustParseChord("Ctrl+Right")); cmd != CmdTabNext {
		t.Errorf("Ctrl+Right = %q", cmd)
	}
	if _, ok := k.LookupChord(MustParseChord("Alt+Right")); ok {
		t.Error("Alt+Right should be unbound")
	}
}

func TestRunScriptErrors(t *testing.T) {
	k := Default()
	if err := RunScript(k, `bind("Ctrl+T", "no.such")`, nil); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("expected unknown command error, got %v", err)
	}
	if err := RunScript(k, `bind(`, nil); err == nil {
		t.Error("expected syntax error")
	}
}

func TestScriptSandbox(t *testing.T) {
	for _, src := range []string{
		`os.exit(1)`,
		`io.open("/etc/passwd")`,
		`dofile("/tmp/x.lua")`,
		`require("os")`,
		`load("return 1")()`,
	} {
		if err := RunScript(New(), src, nil); err == nil {
			t.Errorf("%q should fail in the sandbox", src)
		}
	}
}

func TestScriptTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the script timeout")
	}
	if err := RunScript(New(), `while true do end`, nil); err == nil {
		t.Error("infinite loop should be stopped")
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.lua")
	os.WriteFile(path, []byte(`bind("Ctrl+E", "app.exit")`), 0o644)

	k := New()
	if err := LoadScript(k, path, nil); err != nil {
		t.Fatal(err)
	}
	if cmd, _ := k.LookupChord(MustParseChord("Ctrl+E")); cmd != CmdAppExit {
		t.Errorf("Ctrl+E = %q", cmd)
	}
	if err := LoadScript(k, filepath.Join(t.TempDir(), "missing.lua"), nil); err == nil {
		t.Error("missing script should fail")
	}
}
