package layer

import (
	"reflect"
	"testing"
)

func TestSourcePriority(t *testing.T) {
	tests := []struct {
		source   Source
		name     string
		priority int
	}{
		{SourceDefault, "default", PriorityDefault},
		{SourceUser, "user", PriorityUser},
		{SourceSession, "session", PrioritySession},
		{Source(9), "unknown", PriorityDefault},
	}

	for _, tt := range tests {
		if tt.source.String() != tt.name {
			t.Errorf("Source(%d).String() = %q, expected %q", tt.source, tt.source.String(), tt.name)
		}
		if tt.source.Priority() != tt.priority {
			t.Errorf("Source(%d).Priority() = %d, expected %d", tt.source, tt.source.Priority(), tt.priority)
		}
	}
}

func TestLayerClone(t *testing.T) {
	l := NewWithData(SourceUser, map[string]any{
		"column_edit": map[string]any{"cancel_on_release": true},
		"recent":      []any{"a", map[string]any{"b": 1}},
	})
	c := l.Clone()

	c.Data["column_edit"].(map[string]any)["cancel_on_release"] = false
	c.Data["recent"].([]any)[1].(map[string]any)["b"] = 2

	if v, _ := GetByPath(l.Data, "column_edit.cancel_on_release"); v != true {
		t.Error("clone shares nested map with original")
	}
	if l.Data["recent"].([]any)[1].(map[string]any)["b"] != 1 {
		t.Error("clone shares slice contents with original")
	}
}

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name     string
		dst      map[string]any
		src      map[string]any
		expected map[string]any
	}{
		{
			name:     "nil dst",
			dst:      nil,
			src:      map[string]any{"theme": "dark"},
			expected: map[string]any{"theme": "dark"},
		},
		{
			name:     "src overrides",
			dst:      map[string]any{"theme": "dark"},
			src:      map[string]any{"theme": "light"},
			expected: map[string]any{"theme": "light"},
		},
		{
			name: "nested maps merge",
			dst: map[string]any{
				"column_edit": map[string]any{"cancel_on_release": false, "x": 1},
			},
			src: map[string]any{
				"column_edit": map[string]any{"cancel_on_release": true},
			},
			expected: map[string]any{
				"column_edit": map[string]any{"cancel_on_release": true, "x": 1},
			},
		},
		{
			name:     "scalar replaces map",
			dst:      map[string]any{"a": map[string]any{"b": 1}},
			src:      map[string]any{"a": 3},
			expected: map[string]any{"a": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeepMerge(tt.dst, tt.src)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("DeepMerge() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestPathHelpers(t *testing.T) {
	data := map[string]any{}

	SetByPath(data, "column_edit.cancel_on_release", true)
	SetByPath(data, "theme", "light")

	if v, ok := GetByPath(data, "column_edit.cancel_on_release"); !ok || v != true {
		t.Errorf("GetByPath nested = %v, %v", v, ok)
	}
	if _, ok := GetByPath(data, "theme.name"); ok {
		t.Error("GetByPath through a scalar should fail")
	}
	if _, ok := GetByPath(data, "missing"); ok {
		t.Error("GetByPath missing key should fail")
	}

	SetByPath(data, "theme.name", "arc")
	if v, _ := GetByPath(data, "theme.name"); v != "arc" {
		t.Error("SetByPath should replace a scalar intermediate")
	}

	if !DeleteByPath(data, "theme.name") {
		t.Error("DeleteByPath existing = false")
	}
	if DeleteByPath(data, "theme.name") {
		t.Error("DeleteByPath twice = true")
	}
	if DeleteByPath(data, "nope.deeper") {
		t.Error("DeleteByPath missing parent = true")
	}
}

func TestChangedPaths(t *testing.T) {
	old := map[string]any{
		"theme":       "dark",
		"tab_size":    4,
		"column_edit": map[string]any{"cancel_on_release": false},
	}
	new := map[string]any{
		"theme":       "light",
		"tab_size":    4,
		"column_edit": map[string]any{"cancel_on_release": false},
		"encoding":    "utf-8",
	}

	got := ChangedPaths(old, new)
	want := []string{"encoding", "theme"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ChangedPaths = %v, expected %v", got, want)
	}

	if got := ChangedPaths(new, old); !reflect.DeepEqual(got, want) {
		t.Errorf("ChangedPaths reversed = %v, expected %v", got, want)
	}
}

func TestStack(t *testing.T) {
	defaults := NewWithData(SourceDefault, map[string]any{
		"theme":       "dark",
		"tab_size":    4,
		"column_edit": map[string]any{"cancel_on_release": false},
	})
	user := NewWithData(SourceUser, map[string]any{
		"theme": "light",
	})
	s := NewStack(user, defaults)

	if v, src, ok := s.Get("theme"); !ok || v != "light" || src != SourceUser {
		t.Errorf("Get(theme) = %v, %v, %v", v, src, ok)
	}
	if v, src, _ := s.Get("tab_size"); v != 4 || src != SourceDefault {
		t.Errorf("Get(tab_size) = %v from %v", v, src)
	}
	if _, _, ok := s.Get("nope"); ok {
		t.Error("Get(nope) should fail")
	}

	s.Set(SourceSession, "tab_size", 8)
	if v, src, _ := s.Get("tab_size"); v != 8 || src != SourceSession {
		t.Errorf("session override = %v from %v", v, src)
	}

	merged := s.Merged()
	if merged["theme"] != "light" || merged["tab_size"] != 8 {
		t.Errorf("Merged = %v", merged)
	}
	merged["theme"] = "mutated"
	if s.Merged()["theme"] != "light" {
		t.Error("Merged should return a copy")
	}

	s.Put(NewWithData(SourceUser, map[string]any{"theme": "solar"}))
	if v, _, _ := s.Get("theme"); v != "solar" {
		t.Errorf("Put should replace the user layer, got %v", v)
	}
	if s.Layer(SourceUser).Data["theme"] != "solar" {
		t.Error("Layer(SourceUser) returned stale layer")
	}
	if s.Layer(Source(7)) != nil {
		t.Error("Layer of unknown source should be nil")
	}
}
