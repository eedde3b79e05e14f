// Package layer merges prioritised settings sources.
//
// Pyrite has two persistent layers (embedded defaults and the user's
// settings file) and an in-memory session layer for values set at runtime
// but not yet saved. Higher priority layers override lower ones key by key;
// nested maps are merged rather than replaced.
package layer

import "time"

// Source identifies where a layer's data came from.
type Source uint8

const (
	// SourceDefault is the built-in defaults file.
	SourceDefault Source = iota
	// SourceUser is ~/.pyrite.settings.
	SourceUser
	// SourceSession holds unsaved runtime overrides.
	SourceSession
)

// Priorities for the standard sources.
const (
	PriorityDefault = 0
	PriorityUser    = 100
	PrioritySession = 1000
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceUser:
		return "user"
	case SourceSession:
		return "session"
	default:
		return "unknown"
	}
}

// Priority returns the standard priority of the source.
func (s Source) Priority() int {
	switch s {
	case SourceUser:
		return PriorityUser
	case SourceSession:
		return PrioritySession
	default:
		return PriorityDefault
	}
}

// Layer is one source of settings.
type Layer struct {
	Name     string
	Source   Source
	Priority int
	// Path is the backing file, empty for in-memory layers.
	Path    string
	Data    map[string]any
	ModTime time.Time
}

// New creates an empty layer for source, named after it.
func New(source Source) *Layer {
	return NewWithData(source, nil)
}

// NewWithData creates a layer holding data. A nil map is replaced by an empty
// one.
func NewWithData(source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{
		Name:     source.String(),
		Source:   source,
		Priority: source.Priority(),
		Data:     data,
		ModTime:  time.Now(),
	}
}

// Clone returns a deep copy.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Data = cloneMap(l.Data)
	return &c
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}
