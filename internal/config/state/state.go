// Package state persists application state between runs.
//
// State differs from settings in that the user never edits it: it records
// things like the last directory a file was opened from, the terminal size
// and the files that were open. It is stored as a JSON object in
// ~/.pyrite_data/state and addressed with gjson path syntax, so nested
// values such as "geometry.width" are allowed.
package state

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Directory and file names under the home directory.
const (
	DataDirName = ".pyrite_data"
	FileName    = "state"
)

// Keys recorded by the application.
const (
	KeyLastOpenLoc = "last_open_loc"
	KeyGeometry    = "geometry"
	KeyOpenFiles   = "open_files"
)

// ErrCorrupt is returned by Load when the state file is not a JSON object.
var ErrCorrupt = errors.New("state file is corrupt")

// DataDir returns ~/.pyrite_data, or a relative .pyrite_data when the home
// directory is unknown.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DataDirName
	}
	return filepath.Join(home, DataDirName)
}

// DefaultPath returns the state file location.
func DefaultPath() string {
	return filepath.Join(DataDir(), FileName)
}

// State is a JSON document of application state. It is safe for
// concurrent use.
type State struct {
	mu   sync.RWMutex
	path string
	doc  []byte
}

// New creates empty state backed by path.
func New(path string) *State {
	return &State{path: path, doc: []byte("{}")}
}

// Path returns the backing file.
func (s *State) Path() string {
	return s.path
}

// Load replaces the in-memory state with the file's content. A missing file
// leaves the state empty.
func (s *State) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.mu.Lock()
		s.doc = []byte("{}")
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("state: %w", err)
	}

	data = bytes.TrimSpace(data)
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return fmt.Errorf("state: %s: %w", s.path, ErrCorrupt)
	}

	s.mu.Lock()
	s.doc = data
	s.mu.Unlock()
	return nil
}

// Save writes the state, creating the data directory if needed.
func (s *State) Save() error {
	s.mu.RLock()
	data := bytes.Clone(s.doc)
	s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("state: %w", err)
	}
	return nil
}

// Get returns the value at key as a Go value (string, float64, bool,
// []any, map[string]any or nil).
func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := gjson.GetBytes(s.doc, key)
	if !r.Exists() {
		return nil, false
	}
	return r.Value(), true
}

// GetString returns the value at key as a string, or def when absent.
func (s *State) GetString(key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := gjson.GetBytes(s.doc, key)
	if !r.Exists() {
		return def
	}
	return r.String()
}

// GetStrings returns the array at key as strings. Non-array values yield nil.
func (s *State) GetStrings(key string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := gjson.GetBytes(s.doc, key)
	if !r.IsArray() {
		return nil
	}
	var out []string
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}

// Set stores value at key. The value must be JSON encodable.
func (s *State) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := sjson.SetBytes(s.doc, key, value)
	if err != nil {
		return fmt.Errorf("state: set %s: %w", key, err)
	}
	s.doc = doc
	return nil
}

// Delete removes key. Missing keys are ignored.
func (s *State) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := sjson.DeleteBytes(s.doc, key)
	if err != nil {
		return fmt.Errorf("state: delete %s: %w", key, err)
	}
	s.doc = doc
	return nil
}

// Len returns the number of top-level keys.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	gjson.ParseBytes(s.doc).ForEach(func(_, _ gjson.Result) bool {
		n++
		return true
	})
	return n
}
