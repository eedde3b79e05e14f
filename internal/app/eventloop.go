package app

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/wkeeling/pyrite/internal/input/mouse"
)

// handleEvent routes one backend event. Command failures are shown on the
// status line; only ErrQuit is returned.
func (app *Application) handleEvent(ev tcell.Event) error {
	var err error
	switch ev := ev.(type) {
	case *tcell.EventResize:
		app.backend.Sync()
		app.input.SetPageSize(max(1, app.renderer.DocumentHeight()-1))
	case *tcell.EventKey:
		err = app.handleKey(ev)
	case *tcell.EventMouse:
		err = app.handleMouse(ev)
	case *tcell.EventPaste:
		app.pasting = ev.Start()
	case *tcell.EventFocus:
		if !ev.Focused {
			app.input.FocusLost(app.editor.Active())
		}
	case *tcell.EventInterrupt:
		switch ev.Data().(type) {
		case quitRequest:
			return ErrQuit
		case settingsChanged:
			app.applySettings()
		}
	}

	if err == nil || errors.Is(err, ErrPromptCancelled) {
		return nil
	}
	if errors.Is(err, ErrQuit) {
		return ErrQuit
	}
	app.log.Error("%v", err)
	app.message = err.Error()
	return nil
}

func (app *Application) handleKey(ev *tcell.EventKey) error {
	if app.prompt != nil {
		return app.handlePromptKey(ev)
	}
	if cmd, handled := app.menu.HandleKey(ev); handled {
		if cmd == "" {
			return nil
		}
		return app.runCommand(cmd)
	}
	if !app.pasting {
		if cmd, ok := app.keymap.Lookup(ev); ok {
			return app.runCommand(cmd)
		}
	}
	if app.input.HandleKey(app.editor.Active(), ev) {
		app.message = ""
	}
	return nil
}

func (app *Application) handleMouse(ev *tcell.EventMouse) error {
	x, y := ev.Position()
	press := ev.Buttons()&tcell.Button1 != 0 && !app.input.Dragging()

	if app.menu.IsOpen() {
		if !press {
			return nil
		}
		if i, ok := app.renderer.MenuItemAt(x, y); ok {
			if !app.menu.Select(i) {
				return nil
			}
			if cmd, ok := app.menu.Activate(); ok {
				return app.runCommand(cmd)
			}
			return nil
		}
		app.menu.Close()
		return nil
	}

	if press {
		if app.renderer.IsMenuTitle(x, y) {
			app.menu.Open()
			return nil
		}
		if i, ok := app.renderer.TabAt(x, y); ok {
			return app.editor.Select(i)
		}
	}

	doc := app.editor.Active()
	r := app.input.HandleMouse(doc, ev, app.renderer.CellToPosition)
	switch r.Gesture {
	case mouse.GestureScrollUp:
		app.renderer.ScrollBy(doc, -r.Lines)
	case mouse.GestureScrollDown:
		app.renderer.ScrollBy(doc, r.Lines)
	}
	return nil
}
