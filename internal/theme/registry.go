package theme

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/wkeeling/pyrite/internal/config/loader"
	"github.com/wkeeling/pyrite/internal/logging"
)

// Registry holds the known themes by name.
type Registry struct {
	mu     sync.RWMutex
	themes map[string]*Theme
	log    *logging.Logger
}

// NewRegistry returns a registry holding the built-in themes.
func NewRegistry(log *logging.Logger) *Registry {
	if log == nil {
		log = logging.Default()
	}
	r := &Registry{themes: make(map[string]*Theme), log: log.WithComponent("theme")}
	for _, s := range builtins {
		if err := r.Add(s); err != nil {
			panic(err)
		}
	}
	return r
}

// Add resolves s against its parent and registers it, replacing any theme
// of the same name.
func (r *Registry) Add(s Spec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var parent *Theme
	if s.Inherits != "" {
		p, ok := r.themes[s.Inherits]
		if !ok {
			return fmt.Errorf("theme %s inherits %q: %w", s.Name, s.Inherits, ErrNoSuchTheme)
		}
		parent = p
	} else if existing, ok := r.themes[DefaultName]; ok && s.Name != DefaultName {
		parent = existing
	}

	t, err := Resolve(s, parent)
	if err != nil {
		return err
	}
	r.themes[s.Name] = t
	return nil
}

// LoadDir adds every *.toml theme in dir. Themes that fail to load are
// logged and skipped; the joined errors are returned.
func (r *Registry) LoadDir(dir string) error {
	files, err := loader.LoadDir(dir, ".toml")
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	// Sorted so that a theme inheriting from another user theme can find it
	// when named after it.
	slices.Sort(names)

	for _, name := range names {
		spec, serr := SpecFromMap(name, files[name])
		if serr == nil {
			serr = r.Add(spec)
		}
		if serr != nil {
			r.log.Error("skipping theme %s: %v", name, serr)
			err = errors.Join(err, serr)
			continue
		}
		r.log.Debug("loaded theme %s", name)
	}
	return err
}

// Get returns the named theme.
func (r *Registry) Get(name string) (*Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.themes[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNoSuchTheme)
	}
	return t, nil
}

// Current returns the named theme, falling back to the default theme (and
// logging an error) when it does not exist.
func (r *Registry) Current(name string) *Theme {
	t, err := r.Get(name)
	if err == nil {
		return t
	}
	r.log.Error("invalid theme %q, falling back to %q", name, DefaultName)
	t, _ = r.Get(DefaultName)
	return t
}

// Names returns the registered theme names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.themes))
	for n := range r.themes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
