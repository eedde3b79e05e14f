// Package notify delivers settings change events to listeners.
//
// Delivery is synchronous and in subscription order, on the goroutine that
// calls Notify. Listeners added or removed during delivery take effect for
// the next event.
package notify

import (
	"slices"
	"strings"
	"sync"
)

// Kind is the type of a settings change.
type Kind uint8

const (
	// KindSet means a value was set or updated.
	KindSet Kind = iota
	// KindDelete means a value was removed.
	KindDelete
	// KindReload means the user file was re-read from disk.
	KindReload
	// KindSave means settings were written to disk.
	KindSave
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSet:
		return "set"
	case KindDelete:
		return "delete"
	case KindReload:
		return "reload"
	case KindSave:
		return "save"
	default:
		return "unknown"
	}
}

// Change describes one event. Path is empty for reload and save events.
type Change struct {
	Kind     Kind
	Path     string
	OldValue any
	NewValue any
}

// Listener receives changes.
type Listener func(Change)

type entry struct {
	id     uint64
	prefix string
	fn     Listener
}

// Subscription is a handle to a registered listener.
type Subscription struct {
	id uint64
	n  *Notifier
}

// Unsubscribe removes the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.n == nil {
		return
	}
	s.n.remove(s.id)
	s.n = nil
}

// Notifier is a listener registry.
type Notifier struct {
	mu      sync.Mutex
	nextID  uint64
	entries []entry
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers fn for every change.
func (n *Notifier) Subscribe(fn Listener) *Subscription {
	return n.SubscribePath("", fn)
}

// SubscribePath registers fn for changes at path or below it. Events without
// a path (reload, save) reach every listener.
func (n *Notifier) SubscribePath(path string, fn Listener) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	n.entries = append(n.entries, entry{id: n.nextID, prefix: path, fn: fn})
	return &Subscription{id: n.nextID, n: n}
}

// Len returns the number of listeners.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.entries)
}

// Notify delivers c to every matching listener.
func (n *Notifier) Notify(c Change) {
	n.mu.Lock()
	entries := slices.Clone(n.entries)
	n.mu.Unlock()

	for _, e := range entries {
		if matches(e.prefix, c.Path) {
			e.fn(c)
		}
	}
}

func (n *Notifier) remove(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = slices.DeleteFunc(n.entries, func(e entry) bool { return e.id == id })
}

// matches reports whether a listener on prefix wants an event on path.
// "column_edit" matches "column_edit.cancel_on_release" but not
// "column_editor".
func matches(prefix, path string) bool {
	if prefix == "" || path == "" || prefix == path {
		return true
	}
	return strings.HasPrefix(path, prefix) && path[len(prefix)] == '.'
}
