// Package position provides line/column addressing for text buffers.
//
// A Position uses 1-based line numbers and 0-based column numbers, both
// counted in runes. The native string form is "<line>.<column>", e.g. "3.2".
package position

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedPosition is the sentinel wrapped by MalformedPositionError.
var ErrMalformedPosition = errors.New("malformed position")

// MalformedPositionError reports a position string that cannot be decoded.
// It indicates that the buffer and its caller disagree about indices and is
// not meant to be recovered from.
type MalformedPositionError struct {
	Raw    string
	Reason string
}

func (e *MalformedPositionError) Error() string {
	return fmt.Sprintf("malformed position %q: %s", e.Raw, e.Reason)
}

// Unwrap returns ErrMalformedPosition.
func (e *MalformedPositionError) Unwrap() error {
	return ErrMalformedPosition
}

// Position is a line and column pair.
type Position struct {
	Line   int // 1-indexed line number
	Column int // 0-indexed rune column
}

// New creates a Position.
func New(line, column int) Position {
	return Position{Line: line, Column: column}
}

// String returns the native "<line>.<column>" form.
func (p Position) String() string {
	return strconv.Itoa(p.Line) + "." + strconv.Itoa(p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Min returns the earlier of a and b.
func Min(a, b Position) Position {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of a and b.
func Max(a, b Position) Position {
	if b.After(a) {
		return b
	}
	return a
}

// Parse decodes a "<line>.<column>" string.
func Parse(raw string) (Position, error) {
	lineStr, colStr, ok := strings.Cut(strings.TrimSpace(raw), ".")
	if !ok {
		return Position{}, &MalformedPositionError{Raw: raw, Reason: "missing '.' separator"}
	}

	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return Position{}, &MalformedPositionError{Raw: raw, Reason: "line is not an integer"}
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return Position{}, &MalformedPositionError{Raw: raw, Reason: "column is not an integer"}
	}
	if line < 1 {
		return Position{}, &MalformedPositionError{Raw: raw, Reason: "line must be >= 1"}
	}
	if col < 0 {
		return Position{}, &MalformedPositionError{Raw: raw, Reason: "column must be >= 0"}
	}

	return Position{Line: line, Column: col}, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(raw string) Position {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// LineMeasurer reports line lengths in runes.
type LineMeasurer interface {
	LineCount() int
	LineLength(line int) int
}

// Clamp limits line to the buffer's lines and column to that line's length.
// A line shorter than column yields its end-of-line position.
func Clamp(m LineMeasurer, line, column int) Position {
	count := m.LineCount()
	if count < 1 {
		count = 1
	}
	line = max(1, min(line, count))

	length := m.LineLength(line)
	column = max(0, min(column, length))

	return Position{Line: line, Column: column}
}
