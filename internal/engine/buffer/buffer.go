package buffer

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/wkeeling/pyrite/internal/engine/position"
)

// Position is an alias for position.Position for convenience.
type Position = position.Position

// Errors returned by buffer operations.
var (
	ErrOutOfRange   = errors.New("position out of range")
	ErrRangeInvalid = errors.New("invalid range")
	ErrUnknownMark  = errors.New("unknown location")
)

// Symbolic locations understood by PositionOf.
const (
	LocInsert = "insert"
	LocAnchor = "anchor"
	LocEnd    = "end"
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "CRLF"
	case LineEndingCR:
		return "CR"
	default:
		return "LF"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer holds document text as rune lines together with its marks.
type Buffer struct {
	mu         sync.RWMutex
	lines      [][]rune
	lineEnding LineEnding
	revision   uint64

	cursor  Position
	anchor  *Position
	goalCol int

	highlights map[string][]Position
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      [][]rune{{}},
		lineEnding: LineEndingLF,
		cursor:     Position{Line: 1},
		highlights: make(map[string][]Position),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
// Line endings are normalized to "\n"; the original style is kept for Text.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	opts = append([]Option{WithDetectedLineEnding(s)}, opts...)
	b := NewBuffer(opts...)
	b.lines = splitLines(normalizeLineEndings(s))
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func splitLines(s string) [][]rune {
	parts := strings.Split(s, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

// Text returns the buffer content joined with the buffer's line ending.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.join(b.lineEnding.Sequence())
}

// String returns the buffer content joined with "\n".
func (b *Buffer) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.join("\n")
}

func (b *Buffer) join(sep string) string {
	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(string(line))
	}
	return sb.String()
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of a line without its line ending.
// Returns "" for lines outside the buffer.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.validLine(line) {
		return ""
	}
	return string(b.lines[line-1])
}

// LineLength returns the length of a line in runes.
// Returns 0 for lines outside the buffer.
func (b *Buffer) LineLength(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.validLine(line) {
		return 0
	}
	return len(b.lines[line-1])
}

// RuneAt returns the rune at p, or false when p is at or past end of line.
func (b *Buffer) RuneAt(p Position) (rune, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.validLine(p.Line) || p.Column < 0 || p.Column >= len(b.lines[p.Line-1]) {
		return 0, false
	}
	return b.lines[p.Line-1][p.Column], true
}

// IsEmpty returns true if the buffer has no text.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines) == 1 && len(b.lines[0]) == 0
}

// Revision returns a counter incremented by every mutation.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// LineEnding returns the line ending used by Text.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// SetLineEnding changes the line ending used by Text.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// PositionOf resolves a symbolic location to a Position.
//
// Accepted forms are "insert", "anchor", "end", "<line>.end" and raw
// "<line>.<column>" indices. Raw indices are clamped to the buffer.
// Undecodable raw indices return a *position.MalformedPositionError.
func (b *Buffer) PositionOf(location string) (Position, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	switch location {
	case LocInsert:
		return b.cursor, nil
	case LocAnchor:
		if b.anchor == nil {
			return Position{}, ErrUnknownMark
		}
		return *b.anchor, nil
	case LocEnd:
		last := len(b.lines)
		return Position{Line: last, Column: len(b.lines[last-1])}, nil
	}

	if lineStr, ok := strings.CutSuffix(location, ".end"); ok {
		line, err := strconv.Atoi(lineStr)
		if err != nil || line < 1 {
			return Position{}, &position.MalformedPositionError{Raw: location, Reason: "line is not a positive integer"}
		}
		return position.Clamp(lineMeasure{b}, line, len(b.lines[min(line, len(b.lines))-1])), nil
	}

	p, err := position.Parse(location)
	if err != nil {
		return Position{}, err
	}
	return position.Clamp(lineMeasure{b}, p.Line, p.Column), nil
}

// Clamp limits p to the buffer's bounds.
func (b *Buffer) Clamp(p Position) Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return position.Clamp(lineMeasure{b}, p.Line, p.Column)
}

// lineMeasure exposes the unlocked line accessors to position.Clamp while
// the buffer lock is already held.
type lineMeasure struct{ b *Buffer }

func (m lineMeasure) LineCount() int { return len(m.b.lines) }

func (m lineMeasure) LineLength(line int) int {
	if !m.b.validLine(line) {
		return 0
	}
	return len(m.b.lines[line-1])
}

func (b *Buffer) validLine(line int) bool {
	return line >= 1 && line <= len(b.lines)
}

func (b *Buffer) validPosition(p Position) bool {
	return b.validLine(p.Line) && p.Column >= 0 && p.Column <= len(b.lines[p.Line-1])
}
