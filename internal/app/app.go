// Package app wires the editor together and runs its event loop.
//
// Everything that touches documents, the renderer or the input adapter runs
// on the goroutine that calls Run. Other goroutines (the settings watcher,
// signal handlers) reach the loop by posting interrupt events.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/wkeeling/pyrite/internal/config"
	"github.com/wkeeling/pyrite/internal/config/notify"
	"github.com/wkeeling/pyrite/internal/config/state"
	"github.com/wkeeling/pyrite/internal/config/watcher"
	"github.com/wkeeling/pyrite/internal/document"
	"github.com/wkeeling/pyrite/internal/input"
	"github.com/wkeeling/pyrite/internal/input/keymap"
	"github.com/wkeeling/pyrite/internal/logging"
	"github.com/wkeeling/pyrite/internal/menu"
	"github.com/wkeeling/pyrite/internal/renderer"
	"github.com/wkeeling/pyrite/internal/renderer/backend"
	"github.com/wkeeling/pyrite/internal/theme"
)

// DefaultWatchDebounce is how long the settings watcher waits for writes
// to settle.
const DefaultWatchDebounce = 100 * time.Millisecond

// Options configures the application.
type Options struct {
	// ConfigPath is the user settings file. Defaults to ~/.pyrite.settings.
	ConfigPath string

	// StatePath is the state file. Defaults to ~/.pyrite_data/state.
	StatePath string

	// ThemeDir holds user *.toml themes. Defaults to ~/.pyrite_data/themes.
	ThemeDir string

	// Files are files to open on startup.
	Files []string

	// Logger receives application logs. Defaults to logging.Default().
	Logger *logging.Logger

	// Backend is an initialised backend. When nil the controlling terminal
	// is opened.
	Backend backend.Backend

	// WatchDebounce overrides DefaultWatchDebounce.
	WatchDebounce time.Duration

	// NoWatch disables the settings file watcher.
	NoWatch bool
}

// Events posted to the loop from other goroutines.
type (
	quitRequest     struct{}
	settingsChanged struct{}
)

// Application is the running editor.
type Application struct {
	opts Options
	log  *logging.Logger

	settings *config.Settings
	state    *state.State
	themes   *theme.Registry
	keymap   *keymap.Keymap
	editor   *document.Editor
	menu     *menu.Menu
	input    *input.Adapter
	backend  backend.Backend
	renderer *renderer.Renderer
	watcher  *watcher.Watcher
	subs     []*notify.Subscription

	prompt   *prompt
	message  string
	pasting  bool
	keyPath  string
	running  atomic.Bool
	shutdown sync.Once
}

// New creates an Application. Settings and state that fail to load are
// logged and replaced by defaults; only a backend failure is fatal.
func New(opts Options) (*Application, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath()
	}
	if opts.StatePath == "" {
		opts.StatePath = state.DefaultPath()
	}
	if opts.ThemeDir == "" {
		opts.ThemeDir = filepath.Join(state.DataDir(), "themes")
	}
	if opts.WatchDebounce <= 0 {
		opts.WatchDebounce = DefaultWatchDebounce
	}
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}

	app := &Application{
		opts: opts,
		log:  log.WithComponent("app"),
		menu: menu.NewFile(),
	}

	app.settings = config.New(config.WithPath(opts.ConfigPath), config.WithLogger(log))
	if err := app.settings.Load(); err != nil {
		app.log.Error("load settings: %v", err)
	}

	app.state = state.New(opts.StatePath)
	if err := app.state.Load(); err != nil {
		app.log.Error("load state: %v", err)
	}

	app.themes = theme.NewRegistry(log)
	if err := app.themes.LoadDir(opts.ThemeDir); err != nil {
		app.log.Warn("user themes: %v", err)
	}

	app.loadKeymap()

	app.editor = document.NewEditor(document.WithLogger(log))
	app.input = input.NewAdapter(input.DefaultConfig(), log)

	b := opts.Backend
	if b == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			return nil, &InitError{Component: "terminal", Err: err}
		}
		if err := term.Init(); err != nil {
			return nil, &InitError{Component: "terminal", Err: err}
		}
		b = term
	}
	app.backend = b
	app.renderer = renderer.New(b, app.themes.Current(app.settings.String(config.KeyTheme)), renderer.DefaultOptions())

	app.editor.OnTabChange(func(prev, _ *document.Document) {
		app.input.FocusLost(prev)
		app.message = ""
	})
	app.applySettings()
	app.openInitialFiles()

	app.subs = append(app.subs,
		app.settings.OnSave(app.postSettingsChanged),
		app.settings.OnChange("", func(notify.Change) { app.postSettingsChanged() }),
	)
	if !opts.NoWatch {
		w, err := app.settings.Watch(opts.WatchDebounce)
		if err != nil {
			app.log.Warn("watch %s: %v", app.settings.Path(), err)
		} else {
			app.watcher = w
		}
	}

	return app, nil
}

// loadKeymap builds the keymap from the defaults and the user script.
func (app *Application) loadKeymap() {
	km := keymap.Default()
	app.keyPath = app.settings.String(config.KeyKeybindings)
	if app.keyPath != "" {
		if err := keymap.LoadScript(km, app.keyPath, app.log); err != nil {
			app.log.Error("keybindings %s: %v", app.keyPath, err)
		}
	}
	app.keymap = km
}

// openInitialFiles opens the command line files, otherwise the files open
// at the last exit, otherwise one Untitled document.
func (app *Application) openInitialFiles() {
	files := app.opts.Files
	if len(files) == 0 {
		files = app.state.GetStrings(state.KeyOpenFiles)
	}
	enc := app.settings.String(config.KeyEncoding)
	for _, f := range files {
		if _, err := app.editor.Open(f, enc); err != nil {
			app.log.Warn("%v", NewOperationError("open", f, err))
			app.message = NewOperationError("open", f, err).Error()
		}
	}
	if app.editor.Len() == 0 {
		app.editor.New()
	}
}

// postSettingsChanged may run on the watcher goroutine.
func (app *Application) postSettingsChanged() {
	if err := app.backend.PostEvent(tcell.NewEventInterrupt(settingsChanged{})); err != nil {
		app.log.Debug("post settings change: %v", err)
	}
}

// applySettings pushes the current settings into the theme, renderer,
// input adapter and keymap.
func (app *Application) applySettings() {
	s := app.settings
	app.renderer.SetTheme(app.themes.Current(s.String(config.KeyTheme)))

	tab := s.Int(config.KeyTabSize)
	if tab < 1 {
		tab = input.DefaultConfig().TabSize
	}
	opts := app.renderer.Options()
	opts.TabWidth = tab
	opts.ShowLineNumbers = s.Bool(config.KeyShowLineNumbers)
	opts.ScrollMargin = max(0, s.Int(config.KeyScrollMargin))
	app.renderer.SetOptions(opts)

	app.input.SetTabSize(tab)
	app.input.SetCancelOnRelease(s.Bool(config.KeyCancelOnRelease))
	app.input.SetPageSize(max(1, app.renderer.DocumentHeight()-1))

	if s.String(config.KeyKeybindings) != app.keyPath {
		app.loadKeymap()
	}
}

// Run processes events until the user exits, Stop is called or the
// backend shuts down.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.draw()
	for {
		ev := app.backend.PollEvent()
		if ev == nil {
			return nil
		}
		if err := app.handleEvent(ev); err != nil {
			if err == ErrQuit {
				return nil
			}
			return err
		}
		app.draw()
	}
}

// Stop asks a running event loop to return. Safe from any goroutine.
func (app *Application) Stop() {
	if err := app.backend.PostEvent(tcell.NewEventInterrupt(quitRequest{})); err != nil {
		app.log.Debug("post quit: %v", err)
	}
}

// IsRunning reports whether Run is executing.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

func (app *Application) view() renderer.View {
	v := renderer.View{
		Docs:    app.editor.Documents(),
		Active:  app.editor.ActiveIndex(),
		Menu:    app.menu,
		Keymap:  app.keymap,
		Message: app.message,
	}
	if app.prompt != nil {
		v.Prompt = &renderer.Prompt{Label: app.prompt.label, Text: app.prompt.text}
	}
	return v
}

func (app *Application) draw() {
	app.renderer.Draw(app.view())
}

// Shutdown records the session in the state file, stops the settings
// watcher and restores the terminal. It is idempotent and must not run
// concurrently with Run; use Stop first.
func (app *Application) Shutdown() {
	app.shutdown.Do(func() {
		for _, sub := range app.subs {
			sub.Unsubscribe()
		}
		if app.watcher != nil {
			if err := app.watcher.Close(); err != nil {
				app.log.Warn("close watcher: %v", err)
			}
		}

		w, h := app.backend.Size()
		app.setState(state.KeyGeometry, fmt.Sprintf("%dx%d", w, h))
		app.setState(state.KeyOpenFiles, app.editor.Paths())
		if err := app.state.Save(); err != nil {
			app.log.Error("save state: %v", err)
		}

		app.backend.Shutdown()
		app.log.Info("shut down")
	})
}

func (app *Application) setState(key string, value any) {
	if err := app.state.Set(key, value); err != nil {
		app.log.Error("state %s: %v", key, err)
	}
}

// Settings returns the settings.
func (app *Application) Settings() *config.Settings { return app.settings }

// State returns the application state.
func (app *Application) State() *state.State { return app.state }

// Editor returns the open documents.
func (app *Application) Editor() *document.Editor { return app.editor }

// Keymap returns the active keymap.
func (app *Application) Keymap() *keymap.Keymap { return app.keymap }

// Renderer returns the renderer.
func (app *Application) Renderer() *renderer.Renderer { return app.renderer }

// Message returns the status line message.
func (app *Application) Message() string { return app.message }

// homeDir is the fallback directory for the open prompt.
func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}
