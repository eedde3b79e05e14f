package buffer

import (
	"fmt"
	"slices"
	"strings"
)

// Insert inserts text at p. The text may contain line breaks.
// Marks at or after p move with the inserted text.
func (b *Buffer) Insert(p Position, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validPosition(p) {
		return fmt.Errorf("insert at %s: %w", p, ErrOutOfRange)
	}
	if text == "" {
		return nil
	}

	segments := splitLines(normalizeLineEndings(text))
	line := b.lines[p.Line-1]
	head := slices.Clone(line[:p.Column])
	tail := slices.Clone(line[p.Column:])

	if len(segments) == 1 {
		b.lines[p.Line-1] = slices.Concat(head, segments[0], tail)
	} else {
		newLines := make([][]rune, 0, len(segments))
		newLines = append(newLines, slices.Concat(head, segments[0]))
		newLines = append(newLines, segments[1:len(segments)-1]...)
		newLines = append(newLines, slices.Concat(segments[len(segments)-1], tail))
		b.lines = slices.Replace(b.lines, p.Line-1, p.Line, newLines...)
	}

	added := len(segments) - 1
	lastLen := len(segments[len(segments)-1])
	b.adjustMarks(func(m Position) Position {
		return shiftForInsert(m, p, added, lastLen)
	})
	b.revision++
	return nil
}

// shiftForInsert moves a right-gravity mark for an insert at p that adds
// `added` line breaks and ends with a segment of lastLen runes.
func shiftForInsert(m, p Position, added, lastLen int) Position {
	if m.Before(p) {
		return m
	}
	if m.Line != p.Line {
		return Position{Line: m.Line + added, Column: m.Column}
	}
	if added == 0 {
		return Position{Line: m.Line, Column: m.Column + lastLen}
	}
	return Position{Line: m.Line + added, Column: lastLen + m.Column - p.Column}
}

// DeleteRange deletes the text between start and end. The two positions may
// be given in either order.
func (b *Buffer) DeleteRange(start, end Position) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validPosition(start) || !b.validPosition(end) {
		return fmt.Errorf("delete %s-%s: %w", start, end, ErrRangeInvalid)
	}
	if end.Before(start) {
		start, end = end, start
	}
	if start == end {
		return nil
	}

	head := b.lines[start.Line-1][:start.Column]
	tail := b.lines[end.Line-1][end.Column:]
	joined := slices.Concat(head, tail)
	b.lines = slices.Replace(b.lines, start.Line-1, end.Line, joined)

	b.adjustMarks(func(m Position) Position {
		return shiftForDelete(m, start, end)
	})
	b.revision++
	return nil
}

func shiftForDelete(m, start, end Position) Position {
	if m.Before(start) {
		return m
	}
	if m.Before(end) {
		return start
	}
	if m.Line == end.Line {
		return Position{Line: start.Line, Column: start.Column + m.Column - end.Column}
	}
	return Position{Line: m.Line - (end.Line - start.Line), Column: m.Column}
}

// TextRange returns the text between start and end joined with "\n".
func (b *Buffer) TextRange(start, end Position) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.validPosition(start) || !b.validPosition(end) {
		return ""
	}
	if end.Before(start) {
		start, end = end, start
	}
	if start.Line == end.Line {
		return string(b.lines[start.Line-1][start.Column:end.Column])
	}

	var sb strings.Builder
	sb.WriteString(string(b.lines[start.Line-1][start.Column:]))
	for l := start.Line + 1; l < end.Line; l++ {
		sb.WriteByte('\n')
		sb.WriteString(string(b.lines[l-1]))
	}
	sb.WriteByte('\n')
	sb.WriteString(string(b.lines[end.Line-1][:end.Column]))
	return sb.String()
}

// SetText replaces the whole content, resetting the cursor and all marks.
func (b *Buffer) SetText(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = splitLines(normalizeLineEndings(s))
	b.cursor = Position{Line: 1}
	b.anchor = nil
	b.goalCol = 0
	b.highlights = make(map[string][]Position)
	b.revision++
}

// adjustMarks applies fn to every mark. Caller must hold the write lock.
func (b *Buffer) adjustMarks(fn func(Position) Position) {
	b.cursor = fn(b.cursor)
	if b.anchor != nil {
		a := fn(*b.anchor)
		b.anchor = &a
	}
	for style, marks := range b.highlights {
		for i := range marks {
			marks[i] = fn(marks[i])
		}
		b.highlights[style] = marks
	}
}
