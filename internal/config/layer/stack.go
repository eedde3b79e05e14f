package layer

import (
	"slices"
	"sync"
)

// Stack holds layers ordered by priority and answers merged lookups.
type Stack struct {
	mu     sync.RWMutex
	layers []*Layer
	merged map[string]any
}

// NewStack creates a stack from the given layers.
func NewStack(layers ...*Layer) *Stack {
	s := &Stack{}
	for _, l := range layers {
		s.put(l)
	}
	return s
}

// Put adds l, replacing any layer with the same source.
func (s *Stack) Put(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(l)
}

func (s *Stack) put(l *Layer) {
	s.layers = slices.DeleteFunc(s.layers, func(o *Layer) bool { return o.Source == l.Source })
	s.layers = append(s.layers, l)
	slices.SortStableFunc(s.layers, func(a, b *Layer) int { return a.Priority - b.Priority })
	s.merged = nil
}

// Layer returns the layer for source, or nil.
func (s *Stack) Layer(source Source) *Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.layers {
		if l.Source == source {
			return l
		}
	}
	return nil
}

// Get returns the effective value at path and the source that supplied it.
func (s *Stack) Get(path string) (any, Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.layers) - 1; i >= 0; i-- {
		if v, ok := GetByPath(s.layers[i].Data, path); ok {
			return v, s.layers[i].Source, true
		}
	}
	return nil, SourceDefault, false
}

// Set stores value at path in the layer for source, creating the layer when
// missing.
func (s *Stack) Set(source Source, path string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var target *Layer
	for _, l := range s.layers {
		if l.Source == source {
			target = l
		}
	}
	if target == nil {
		target = New(source)
		s.put(target)
	}
	SetByPath(target.Data, path, value)
	s.merged = nil
}

// Merged returns a deep copy of all layers merged in priority order.
func (s *Stack) Merged() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.merged == nil {
		s.merged = make(map[string]any)
		for _, l := range s.layers {
			DeepMerge(s.merged, l.Data)
		}
	}
	return cloneMap(s.merged)
}
