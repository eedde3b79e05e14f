// Package loader reads and writes pyrite's settings and theme files.
//
// Settings are YAML (~/.pyrite.settings); themes are TOML. Both decode to a
// nested map[string]any so they can be merged by the layer package. A
// missing file is not an error: Load returns nil, nil.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is an on-disk encoding.
type Format uint8

const (
	FormatYAML Format = iota
	FormatTOML
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatTOML {
		return "toml"
	}
	return "yaml"
}

// FormatFor picks a format from a file extension. Files without a known
// extension, such as ".pyrite.settings", are YAML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// FileSystem is the read side of the file system used by loaders. It is
// satisfied by OSFS and by testing/fstest.MapFS.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS reads from the real file system.
type OSFS struct{}

func (OSFS) ReadFile(path string) ([]byte, error)  { return os.ReadFile(path) }
func (OSFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// ParseError reports a malformed file.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %s: %v", e.Format, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Loader reads one file in one format.
type Loader struct {
	fs     FileSystem
	path   string
	format Format
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the file system.
func WithFS(fsys FileSystem) Option {
	return func(l *Loader) { l.fs = fsys }
}

// WithFormat overrides the extension-derived format.
func WithFormat(f Format) Option {
	return func(l *Loader) { l.format = f }
}

// New creates a loader for path.
func New(path string, opts ...Option) *Loader {
	l := &Loader{fs: OSFS{}, path: path, format: FormatFor(path)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the file path.
func (l *Loader) Path() string { return l.path }

// Exists reports whether the file is present.
func (l *Loader) Exists() bool {
	_, err := l.fs.Stat(l.path)
	return err == nil
}

// Load reads and decodes the file.
func (l *Loader) Load() (map[string]any, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", l.path, err)
	}
	return Decode(l.path, l.format, data)
}

// Decode parses data in the given format. An empty document decodes to an
// empty map.
func Decode(path string, format Format, data []byte) (map[string]any, error) {
	out := make(map[string]any)
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}

	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &out)
	default:
		err = yaml.Unmarshal(data, &out)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}
	if out == nil {
		out = make(map[string]any)
	}
	return out, nil
}

// Encode renders data in the given format.
func Encode(format Format, data map[string]any) ([]byte, error) {
	if format == FormatTOML {
		return toml.Marshal(data)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes data and writes it to the loader's path on the real file
// system, creating the parent directory.
func (l *Loader) Write(data map[string]any) error {
	out, err := Encode(l.format, data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", l.path, err)
	}
	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(l.path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", l.path, err)
	}
	return nil
}

// LoadDir loads every file in dir with the given extension, keyed by base name
// without extension. A missing directory yields an empty result.
func LoadDir(dir, ext string, opts ...Option) (map[string]map[string]any, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]map[string]any{}, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	out := make(map[string]map[string]any, len(entries))
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		data, err := New(filepath.Join(dir, e.Name()), opts...).Load()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))] = data
	}
	return out, errors.Join(errs...)
}
