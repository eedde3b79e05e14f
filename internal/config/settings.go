// Package config holds pyrite's user settings.
//
// Settings are the built-in defaults (defaults.yaml, embedded) overlaid by
// the user's ~/.pyrite.settings YAML file and by unsaved runtime values.
// Typed getters never fail: a value of the wrong type is logged and the
// built-in default is returned instead.
//
// Listeners registered with OnSave and OnChange run on the goroutine that
// triggered the event. Reload is normally called from the file watcher's
// goroutine, so UI code must hand work back to its own loop.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wkeeling/pyrite/internal/config/layer"
	"github.com/wkeeling/pyrite/internal/config/loader"
	"github.com/wkeeling/pyrite/internal/config/notify"
	"github.com/wkeeling/pyrite/internal/config/watcher"
	"github.com/wkeeling/pyrite/internal/logging"
)

// SettingsFilename is the user settings file in the home directory.
const SettingsFilename = ".pyrite.settings"

// Setting keys.
const (
	KeyTheme           = "theme"
	KeyTabSize         = "tab_size"
	KeyEncoding        = "encoding"
	KeyShowLineNumbers = "show_line_numbers"
	KeyScrollMargin    = "scroll_margin"
	KeyKeybindings     = "keybindings"
	KeyCancelOnRelease = "column_edit.cancel_on_release"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultPath returns ~/.pyrite.settings, or the bare filename when the home
// directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return SettingsFilename
	}
	return filepath.Join(home, SettingsFilename)
}

// Settings is the merged settings view.
type Settings struct {
	mu       sync.Mutex
	path     string
	defaults []byte
	stack    *layer.Stack
	notifier *notify.Notifier
	log      *logging.Logger
}

// Option configures Settings.
type Option func(*Settings)

// WithPath sets the user settings file.
func WithPath(path string) Option {
	return func(s *Settings) { s.path = path }
}

// WithDefaults replaces the embedded defaults document.
func WithDefaults(yaml []byte) Option {
	return func(s *Settings) { s.defaults = yaml }
}

// WithLogger sets the logger used for warnings.
func WithLogger(l *logging.Logger) Option {
	return func(s *Settings) { s.log = l }
}

// New creates Settings holding only the defaults. Call Load to read the
// user file.
func New(opts ...Option) *Settings {
	s := &Settings{
		path:     DefaultPath(),
		defaults: defaultsYAML,
		stack:    layer.NewStack(),
		notifier: notify.New(),
		log:      logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("settings")
	return s
}

// Path returns the user settings file.
func (s *Settings) Path() string {
	return s.path
}

// Load reads the defaults and the user file. When the user file is missing
// or empty it is written out with the current values.
func (s *Settings) Load() error {
	defaults, err := loader.Decode("defaults.yaml", loader.FormatYAML, s.defaults)
	if err != nil {
		return fmt.Errorf("config: defaults: %w", err)
	}
	s.stack.Put(layer.NewWithData(layer.SourceDefault, defaults))

	user, err := s.readUser()
	if err != nil {
		return err
	}
	s.stack.Put(user)

	if len(user.Data) == 0 {
		s.log.Info("writing initial settings to %s", s.path)
		return s.Save()
	}
	return nil
}

func (s *Settings) readUser() (*layer.Layer, error) {
	data, err := loader.New(s.path, loader.WithFormat(loader.FormatYAML)).Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	l := layer.NewWithData(layer.SourceUser, data)
	l.Path = s.path
	if info, err := os.Stat(s.path); err == nil {
		l.ModTime = info.ModTime()
	}
	return l, nil
}

// Get returns the effective value for key, which may be a dotted path.
func (s *Settings) Get(key string) (any, bool) {
	v, _, ok := s.stack.Get(key)
	return v, ok
}

// Default returns the built-in value for key.
func (s *Settings) Default(key string) (any, bool) {
	l := s.stack.Layer(layer.SourceDefault)
	if l == nil {
		return nil, false
	}
	return layer.GetByPath(l.Data, key)
}

// String returns key as a string.
func (s *Settings) String(key string) string {
	return typed(s, key, "string", func(v any) (string, bool) {
		str, ok := v.(string)
		return str, ok
	})
}

// Bool returns key as a bool.
func (s *Settings) Bool(key string) bool {
	return typed(s, key, "bool", func(v any) (bool, bool) {
		b, ok := v.(bool)
		return b, ok
	})
}

// Int returns key as an int.
func (s *Settings) Int(key string) int {
	return typed(s, key, "int", func(v any) (int, bool) {
		switch n := v.(type) {
		case int:
			return n, true
		case int64:
			return int(n), true
		}
		return 0, false
	})
}

// Float returns key as a float64. Integers are not accepted.
func (s *Settings) Float(key string) float64 {
	return typed(s, key, "float", func(v any) (float64, bool) {
		f, ok := v.(float64)
		return f, ok
	})
}

// typed reads key with conv. On a type mismatch it logs a warning and falls
// back to the default layer's value, or the zero value.
func typed[T any](s *Settings, key, kind string, conv func(any) (T, bool)) T {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		s.log.Warn("unknown setting %s", key)
		return zero
	}
	if t, ok := conv(v); ok {
		return t
	}

	s.log.Warn("%v; using default", &TypeError{Key: key, Expected: kind, Value: v})
	if d, ok := s.Default(key); ok {
		if t, ok := conv(d); ok {
			return t
		}
	}
	return zero
}

// Set stores value for key in the user layer. It is written on the next
// Save.
func (s *Settings) Set(key string, value any) {
	old, _ := s.Get(key)
	s.stack.Set(layer.SourceUser, key, value)
	s.notifier.Notify(notify.Change{Kind: notify.KindSet, Path: key, OldValue: old, NewValue: value})
}

// Save writes every effective value to the user file, then runs the on-save
// listeners.
func (s *Settings) Save() error {
	s.mu.Lock()
	err := loader.New(s.path, loader.WithFormat(loader.FormatYAML)).Write(s.stack.Merged())
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("config: save: %w", err)
	}
	s.notifier.Notify(notify.Change{Kind: notify.KindSave})
	return nil
}

// OnSave registers fn to run after every successful Save.
func (s *Settings) OnSave(fn func()) *notify.Subscription {
	return s.notifier.Subscribe(func(c notify.Change) {
		if c.Kind == notify.KindSave {
			fn()
		}
	})
}

// OnChange registers fn for set and reload events under path ("" for all).
func (s *Settings) OnChange(path string, fn notify.Listener) *notify.Subscription {
	return s.notifier.SubscribePath(path, func(c notify.Change) {
		if c.Kind == notify.KindSet || c.Kind == notify.KindReload {
			fn(c)
		}
	})
}

// Reload re-reads the user file and returns the keys whose effective value
// changed. Listeners receive one reload event when anything changed.
func (s *Settings) Reload() ([]string, error) {
	s.mu.Lock()
	before := s.stack.Merged()
	user, err := s.readUser()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.stack.Put(user)
	changed := layer.ChangedPaths(before, s.stack.Merged())
	s.mu.Unlock()

	if len(changed) > 0 {
		s.log.Info("reloaded %s: %v", s.path, changed)
		s.notifier.Notify(notify.Change{Kind: notify.KindReload, NewValue: changed})
	}
	return changed, nil
}

// Watch reloads the settings whenever the user file changes on disk. The
// caller owns the returned watcher and must Close it.
func (s *Settings) Watch(debounce time.Duration) (*watcher.Watcher, error) {
	w, err := watcher.New(func(ev watcher.Event) {
		if _, err := s.Reload(); err != nil {
			s.log.Error("reload after %s: %v", ev.Op, err)
		}
	},
		watcher.WithDebounce(debounce),
		watcher.WithErrorHandler(func(err error) { s.log.Error("watch: %v", err) }),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(s.path); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}
