package keymap

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/wkeeling/pyrite/internal/logging"
)

// ScriptTimeout bounds how long a keybinding script may run.
const ScriptTimeout = 2 * time.Second

// LoadScript runs the Lua file at path against k. The script sees the
// base, table, string and math libraries plus:
//
//	bind(chord, command)   -- e.g. bind("Ctrl+T", "tab.next")
//	unbind(chord)
//	commands()             -- array of command names
//
// Bindings made before an error are kept.
func LoadScript(k *Keymap, path string, log *logging.Logger) error {
	return runScript(k, log, func(L *lua.LState) error { return L.DoFile(path) })
}

// RunScript is LoadScript for source held in memory.
func RunScript(k *Keymap, src string, log *logging.Logger) error {
	return runScript(k, log, func(L *lua.LState) error { return L.DoString(src) })
}

func runScript(k *Keymap, log *logging.Logger, run func(*lua.LState) error) (err error) {
	if log == nil {
		log = logging.Nop()
	}
	log = log.WithComponent("keymap")

	L := newSandbox()
	defer L.Close()

	ctx, cancel := context.WithTimeout(context.Background(), ScriptTimeout)
	defer cancel()
	L.SetContext(ctx)

	L.SetGlobal("bind", L.NewFunction(func(L *lua.LState) int {
		spec, cmd := L.CheckString(1), L.CheckString(2)
		if err := k.Bind(spec, cmd); err != nil {
			L.RaiseError("%s", err.Error())
		}
		log.Debug("bound %s to %s", spec, cmd)
		return 0
	}))
	L.SetGlobal("unbind", L.NewFunction(func(L *lua.LState) int {
		spec := L.CheckString(1)
		if err := k.Unbind(spec); err != nil {
			L.RaiseError("%s", err.Error())
		}
		log.Debug("unbound %s", spec)
		return 0
	}))
	L.SetGlobal("commands", L.NewFunction(func(L *lua.LState) int {
		t := L.NewTable()
		for _, c := range commands {
			t.Append(lua.LString(c))
		}
		L.Push(t)
		return 1
	}))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("keybindings script panic: %v", r)
		}
	}()
	if err := run(L); err != nil {
		return fmt.Errorf("keybindings script: %w", err)
	}
	return nil
}

// newSandbox returns a state with only the safe standard libraries and no
// way to load further code.
func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
