package buffer

import (
	"slices"

	"github.com/wkeeling/pyrite/internal/engine/position"
)

// Motion identifies a cursor movement.
type Motion uint8

const (
	MoveLeft Motion = iota
	MoveRight
	MoveUp
	MoveDown
	MoveLineStart
	MoveLineEnd
	MoveDocStart
	MoveDocEnd
)

// Cursor returns the insert cursor position.
func (b *Buffer) Cursor() Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor
}

// SetCursor moves the cursor to p (clamped) and clears any selection.
func (b *Buffer) SetCursor(p Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = position.Clamp(lineMeasure{b}, p.Line, p.Column)
	b.goalCol = b.cursor.Column
	b.anchor = nil
}

// Move moves the cursor. When extend is set the selection anchor is kept (or
// dropped at the pre-motion cursor) so the selection grows; otherwise any
// selection is cleared. count repeats the motion; for MoveUp/MoveDown it is
// the line distance.
func (b *Buffer) Move(m Motion, count int, extend bool) Position {
	b.mu.Lock()
	defer b.mu.Unlock()

	if count < 1 {
		count = 1
	}
	if extend && b.anchor == nil {
		a := b.cursor
		b.anchor = &a
	} else if !extend {
		b.anchor = nil
	}

	c := b.cursor
	keepGoal := false
	switch m {
	case MoveLeft:
		for range count {
			if c.Column > 0 {
				c.Column--
			} else if c.Line > 1 {
				c.Line--
				c.Column = len(b.lines[c.Line-1])
			}
		}
	case MoveRight:
		for range count {
			if c.Column < len(b.lines[c.Line-1]) {
				c.Column++
			} else if c.Line < len(b.lines) {
				c.Line++
				c.Column = 0
			}
		}
	case MoveUp:
		c.Line = max(1, c.Line-count)
		c.Column = min(b.goalCol, len(b.lines[c.Line-1]))
		keepGoal = true
	case MoveDown:
		c.Line = min(len(b.lines), c.Line+count)
		c.Column = min(b.goalCol, len(b.lines[c.Line-1]))
		keepGoal = true
	case MoveLineStart:
		c.Column = 0
	case MoveLineEnd:
		c.Column = len(b.lines[c.Line-1])
	case MoveDocStart:
		c = Position{Line: 1}
	case MoveDocEnd:
		c.Line = len(b.lines)
		c.Column = len(b.lines[c.Line-1])
	}

	b.cursor = c
	if !keepGoal {
		b.goalCol = c.Column
	}
	return c
}

// SetSelection selects the text between anchor and head; the cursor moves
// to head.
func (b *Buffer) SetSelection(anchor, head Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a := position.Clamp(lineMeasure{b}, anchor.Line, anchor.Column)
	b.anchor = &a
	b.cursor = position.Clamp(lineMeasure{b}, head.Line, head.Column)
	b.goalCol = b.cursor.Column
}

// ClearSelection drops the selection anchor.
func (b *Buffer) ClearSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.anchor = nil
}

// SelectionRange returns the ordered bounds of the plain selection.
// ok is false when there is no selection or it is empty.
func (b *Buffer) SelectionRange() (start, end Position, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.anchor == nil || *b.anchor == b.cursor {
		return Position{}, Position{}, false
	}
	return position.Min(*b.anchor, b.cursor), position.Max(*b.anchor, b.cursor), true
}

// DeleteSelection deletes the plain selection, returning false when there was
// none.
func (b *Buffer) DeleteSelection() (bool, error) {
	start, end, ok := b.SelectionRange()
	if !ok {
		return false, nil
	}
	if err := b.DeleteRange(start, end); err != nil {
		return false, err
	}
	b.ClearSelection()
	return true, nil
}

// AddHighlight adds a highlight mark for the given style.
func (b *Buffer) AddHighlight(p Position, style string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.highlights[style] = append(b.highlights[style], p)
}

// ClearHighlights removes every highlight mark of the given style.
func (b *Buffer) ClearHighlights(style string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.highlights, style)
}

// Highlights returns a copy of the highlight marks of a style in position
// order.
func (b *Buffer) Highlights(style string) []Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	marks := slices.Clone(b.highlights[style])
	slices.SortFunc(marks, Position.Compare)
	return marks
}

// HighlightStyles returns the styles that currently have marks.
func (b *Buffer) HighlightStyles() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	styles := make([]string, 0, len(b.highlights))
	for s, marks := range b.highlights {
		if len(marks) > 0 {
			styles = append(styles, s)
		}
	}
	slices.Sort(styles)
	return styles
}
