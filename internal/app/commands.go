package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/wkeeling/pyrite/internal/config"
	"github.com/wkeeling/pyrite/internal/config/state"
	"github.com/wkeeling/pyrite/internal/document"
	"github.com/wkeeling/pyrite/internal/input/keymap"
)

// prompt is a one-line question asked on the status line.
type prompt struct {
	label  string
	text   string
	accept func(text string) error
}

func (app *Application) ask(label, initial string, accept func(string) error) {
	app.menu.Close()
	app.prompt = &prompt{label: label, text: initial, accept: accept}
}

func (app *Application) handlePromptKey(ev *tcell.EventKey) error {
	p := app.prompt
	switch ev.Key() {
	case tcell.KeyEnter:
		app.prompt = nil
		if strings.TrimSpace(p.text) == "" {
			return ErrPromptCancelled
		}
		return p.accept(p.text)
	case tcell.KeyEscape:
		app.prompt = nil
		return ErrPromptCancelled
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(p.text); len(r) > 0 {
			p.text = string(r[:len(r)-1])
		}
	case tcell.KeyCtrlU:
		p.text = ""
	case tcell.KeyRune:
		p.text += string(ev.Rune())
	}
	return nil
}

// runCommand executes a keymap or menu command.
func (app *Application) runCommand(cmd string) error {
	app.log.Debug("command %s", cmd)
	app.message = ""

	switch cmd {
	case keymap.CmdFileNew:
		app.editor.New()
	case keymap.CmdFileOpen:
		app.ask("Open", app.lastOpenDir()+string(filepath.Separator), app.OpenFile)
	case keymap.CmdFileSave:
		return app.save()
	case keymap.CmdFileSaveAs:
		return app.saveAsPrompt()
	case keymap.CmdFileClose:
		return app.closeActive()
	case keymap.CmdAppExit:
		return ErrQuit
	case keymap.CmdMenuOpen:
		app.menu.Toggle()
	case keymap.CmdTabNext:
		app.editor.Next()
	case keymap.CmdTabPrev:
		app.editor.Prev()
	case keymap.CmdColumnCancel:
		if doc := app.editor.Active(); doc != nil {
			doc.Column.Cancel()
		}
	default:
		return fmt.Errorf("%q: %w", cmd, keymap.ErrUnknownCommand)
	}
	return nil
}

// lastOpenDir is where the open prompt starts.
func (app *Application) lastOpenDir() string {
	dir := app.state.GetString(state.KeyLastOpenLoc, "")
	if dir == "" {
		return homeDir()
	}
	return dir
}

// OpenFile opens path in a new tab and remembers its directory.
func (app *Application) OpenFile(path string) error {
	doc, err := app.editor.Open(path, app.settings.String(config.KeyEncoding))
	if err != nil {
		return NewOperationError("open", path, err)
	}
	app.rememberDir(doc.Path)
	return nil
}

func (app *Application) rememberDir(path string) {
	app.setState(state.KeyLastOpenLoc, filepath.Dir(path))
	if err := app.state.Save(); err != nil {
		app.log.Error("save state: %v", err)
	}
}

func (app *Application) save() error {
	doc := app.editor.Active()
	if doc == nil {
		return ErrNoActiveDocument
	}
	err := app.editor.Save()
	switch {
	case errors.Is(err, document.ErrNoFilename):
		return app.saveAsPrompt()
	case err != nil:
		return NewOperationError("save", doc.Name(), err)
	}
	app.message = "Saved " + doc.Name()
	return nil
}

func (app *Application) saveAsPrompt() error {
	doc := app.editor.Active()
	if doc == nil {
		return ErrNoActiveDocument
	}
	initial := doc.Path
	if initial == "" {
		initial = filepath.Join(app.lastOpenDir(), doc.Name())
	}
	app.ask("Save as", initial, app.SaveAs)
	return nil
}

// SaveAs writes the active document to path.
func (app *Application) SaveAs(path string) error {
	doc := app.editor.Active()
	if doc == nil {
		return ErrNoActiveDocument
	}
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return NewOperationError("save", path, os.ErrInvalid).WithContext("is a directory")
	}
	if err := app.editor.SaveAs(path); err != nil {
		return NewOperationError("save", path, err)
	}
	app.rememberDir(doc.Path)
	app.message = "Saved " + doc.Name()
	return nil
}

func (app *Application) closeActive() error {
	doc := app.editor.Active()
	if doc == nil {
		return ErrNoActiveDocument
	}
	if err := app.editor.Close(app.editor.ActiveIndex()); err != nil {
		return NewOperationError("close", doc.Name(), err)
	}
	app.renderer.Forget(doc)
	return nil
}
