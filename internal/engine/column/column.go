// Package column implements rectangular (block) selection and editing.
//
// An Editor tracks an anchor and an extent across lines of a TextBuffer.
// While active it keeps one highlight per spanned line at the extent's
// column, clamped to each line's length, and redirects character inserts
// and deletions to every highlighted position at once.
//
// The Editor never owns buffer content. It reads positions from the buffer
// and issues point mutations at the highlight positions. All calls are
// expected on the single UI goroutine, in event order.
package column

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/wkeeling/pyrite/internal/engine/position"
)

// HighlightStyle is the buffer highlight style used for column marks.
const HighlightStyle = "column"

// Position is an alias for position.Position for convenience.
type Position = position.Position

// TextBuffer is the buffer surface the Editor needs.
type TextBuffer interface {
	PositionOf(location string) (Position, error)
	Insert(p Position, text string) error
	DeleteRange(start, end Position) error
	LineCount() int
	LineLength(line int) int
	AddHighlight(p Position, styleID string)
	ClearHighlights(styleID string)
	SelectionRange() (start, end Position, ok bool)
}

// State is the Editor mode.
type State uint8

const (
	// Inactive means no column selection exists.
	Inactive State = iota
	// Active means an anchor is set and highlights are live.
	Active
)

// String returns the state name.
func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "inactive"
}

// Editor is the column selection and editing state machine.
type Editor struct {
	buf        TextBuffer
	state      State
	anchor     Position
	extent     Position
	highlights []Position
}

// New creates an inactive Editor over buf.
func New(buf TextBuffer) *Editor {
	return &Editor{buf: buf}
}

// State returns the current state.
func (e *Editor) State() State {
	return e.state
}

// Active returns true when column mode is on.
func (e *Editor) Active() bool {
	return e.state == Active
}

// Anchor returns the fixed corner of the block. Zero when inactive.
func (e *Editor) Anchor() Position {
	return e.anchor
}

// Extent returns the moving corner of the block. Its column is the requested
// column, which may lie past the end of the extent line. Zero when inactive.
func (e *Editor) Extent() Position {
	return e.extent
}

// Highlights returns a copy of the highlight set, one position per line in
// ascending line order.
func (e *Editor) Highlights() []Position {
	return slices.Clone(e.highlights)
}

// BeginOrExtend activates column mode with p as the anchor, or, when already
// active, moves the extent to p. The anchor is never reset by repeated
// activation.
func (e *Editor) BeginOrExtend(p Position) {
	if e.state == Inactive {
		e.activate(p)
		return
	}
	e.move(p)
}

// BeginOrExtendAt resolves location through the buffer and calls
// BeginOrExtend. A malformed location means the caller and the buffer
// disagree about indices; the error is wrapped and returned, never recovered.
func (e *Editor) BeginOrExtendAt(location string) error {
	p, err := e.buf.PositionOf(location)
	if err != nil {
		return fmt.Errorf("column: resolve %q: %w", location, err)
	}
	e.BeginOrExtend(p)
	return nil
}

func (e *Editor) activate(anchor Position) {
	e.anchor = position.Clamp(e.buf, anchor.Line, anchor.Column)
	e.state = Active
	e.move(e.anchor)
}

// move recomputes the highlight set from scratch for the block between the
// anchor line and target's line, using target's column for every line. The
// extent keeps the requested column so that a short extent line does not
// pull the other lines' highlights in. The anchor is clamped again because a
// selection delete may have removed its line.
func (e *Editor) move(target Position) {
	e.anchor = position.Clamp(e.buf, e.anchor.Line, e.anchor.Column)
	line := position.Clamp(e.buf, target.Line, 0).Line
	e.extent = position.New(line, max(0, target.Column))

	first := min(e.anchor.Line, e.extent.Line)
	last := max(e.anchor.Line, e.extent.Line)

	e.highlights = e.highlights[:0]
	for l := first; l <= last; l++ {
		e.highlights = append(e.highlights, position.Clamp(e.buf, l, e.extent.Column))
	}
	e.render()
}

// targets returns the highlight set clamped to the buffer as it is now, one
// position per line. The set goes stale when an edit shortens lines or a
// selection delete removes them before the next move.
func (e *Editor) targets() []Position {
	out := make([]Position, 0, len(e.highlights))
	for _, p := range e.highlights {
		c := position.Clamp(e.buf, p.Line, p.Column)
		if n := len(out); n > 0 && out[n-1].Line == c.Line {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (e *Editor) render() {
	e.buf.ClearHighlights(HighlightStyle)
	for _, p := range e.highlights {
		e.buf.AddHighlight(p, HighlightStyle)
	}
}

// Cancel deactivates column mode and clears the highlights. Calling it while
// inactive is a no-op.
func (e *Editor) Cancel() {
	if e.state == Inactive && len(e.highlights) == 0 {
		return
	}
	e.state = Inactive
	e.anchor = Position{}
	e.extent = Position{}
	e.highlights = nil
	e.buf.ClearHighlights(HighlightStyle)
}

// InsertAtColumns inserts text at every highlighted position and returns the
// number of insertions. It is a no-op while inactive, and for text that
// contains a line break.
//
// All target positions are taken from the highlight set, clamped to the
// current line lengths, before the first insert. Each sits on its own line,
// so an insert never shifts another target. The highlight set itself is left
// as is; the extent advances by the inserted width so the caller can realign
// with BeginOrExtend(Extent()). Until then the marks drawn on the buffer,
// which shift right with the inserted text, lead the positions returned by
// Highlights by that width.
func (e *Editor) InsertAtColumns(text string) (int, error) {
	if e.state != Active || text == "" || strings.ContainsAny(text, "\r\n") {
		return 0, nil
	}

	targets := e.targets()
	for i, p := range targets {
		if err := e.buf.Insert(p, text); err != nil {
			return i, fmt.Errorf("column: insert at %s: %w", p, err)
		}
	}

	e.extent.Column += utf8.RuneCountInString(text)
	return len(targets), nil
}

// DeleteBeforeColumns deletes the rune before every highlighted position, or
// the buffer's plain selection if one exists. It returns the number of runes
// removed, counting a deleted selection as one.
func (e *Editor) DeleteBeforeColumns() (int, error) {
	return e.deleteAtColumns(-1)
}

// DeleteAfterColumns deletes the rune after every highlighted position, or
// the buffer's plain selection if one exists. It returns the number of runes
// removed, counting a deleted selection as one.
func (e *Editor) DeleteAfterColumns() (int, error) {
	return e.deleteAtColumns(1)
}

func (e *Editor) deleteAtColumns(direction int) (int, error) {
	if e.state != Active {
		return 0, nil
	}

	if start, end, ok := e.buf.SelectionRange(); ok {
		if err := e.buf.DeleteRange(start, end); err != nil {
			return 0, fmt.Errorf("column: delete selection: %w", err)
		}
		if direction < 0 {
			e.extent.Column = max(0, e.extent.Column-1)
		}
		return 1, nil
	}

	targets := e.targets()
	deleted := 0
	for _, p := range targets {
		// Deletion never crosses a line boundary.
		var start, end Position
		if direction < 0 {
			if p.Column == 0 {
				continue
			}
			start, end = position.New(p.Line, p.Column-1), p
		} else {
			if p.Column >= e.buf.LineLength(p.Line) {
				continue
			}
			start, end = p, position.New(p.Line, p.Column+1)
		}
		if err := e.buf.DeleteRange(start, end); err != nil {
			return deleted, fmt.Errorf("column: delete at %s: %w", p, err)
		}
		deleted++
	}

	if direction < 0 && deleted > 0 {
		e.extent.Column = max(0, e.extent.Column-1)
	}
	return deleted, nil
}
