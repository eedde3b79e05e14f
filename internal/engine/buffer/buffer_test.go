package buffer

import (
	"errors"
	"strings"
	"testing"

	"github.com/wkeeling/pyrite/internal/engine/position"
)

func pos(line, col int) Position {
	return position.New(line, col)
}

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
	if b.Cursor() != pos(1, 0) {
		t.Errorf("expected cursor at 1.0, got %s", b.Cursor())
	}
}

func TestNewBufferFromStringMultiline(t *testing.T) {
	b := NewBufferFromString("line1\nline2\nline3")

	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}
	if b.LineText(2) != "line2" {
		t.Errorf("expected line2, got %q", b.LineText(2))
	}
	if b.LineText(4) != "" {
		t.Errorf("expected empty text for missing line, got %q", b.LineText(4))
	}
}

func TestLineLengthCountsRunes(t *testing.T) {
	b := NewBufferFromString("héllo\n日本")

	if got := b.LineLength(1); got != 5 {
		t.Errorf("LineLength(1) = %d, want 5", got)
	}
	if got := b.LineLength(2); got != 2 {
		t.Errorf("LineLength(2) = %d, want 2", got)
	}
	if got := b.LineLength(3); got != 0 {
		t.Errorf("LineLength(3) = %d, want 0", got)
	}
}

func TestLineEndingPreserved(t *testing.T) {
	b := NewBufferFromString("a\r\nb\r\nc")

	if b.LineEnding() != LineEndingCRLF {
		t.Errorf("expected CRLF, got %s", b.LineEnding())
	}
	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}
	if b.Text() != "a\r\nb\r\nc" {
		t.Errorf("Text() = %q", b.Text())
	}
	if b.String() != "a\nb\nc" {
		t.Errorf("String() = %q", b.String())
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"no endings", LineEndingLF},
		{"a\nb\n", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\r", LineEndingCR},
		{"a\r\nb\nc\n", LineEndingLF},
	}
	for _, tt := range tests {
		if got := DetectLineEnding(tt.text); got != tt.want {
			t.Errorf("DetectLineEnding(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestInsert(t *testing.T) {
	b := NewBufferFromString("Hello World")

	if err := b.Insert(pos(1, 5), ","); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if b.String() != "Hello, World" {
		t.Errorf("expected 'Hello, World', got %q", b.String())
	}
}

func TestInsertMultiline(t *testing.T) {
	b := NewBufferFromString("abcd\nefgh")

	if err := b.Insert(pos(1, 2), "X\nYY\nZ"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	want := "abX\nYY\nZcd\nefgh"
	if b.String() != want {
		t.Errorf("expected %q, got %q", want, b.String())
	}
	if b.LineCount() != 4 {
		t.Errorf("expected 4 lines, got %d", b.LineCount())
	}
}

func TestInsertOutOfRange(t *testing.T) {
	b := NewBufferFromString("abc")

	for _, p := range []Position{pos(1, 4), pos(2, 0), pos(0, 0)} {
		err := b.Insert(p, "x")
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Insert(%s) error = %v, want ErrOutOfRange", p, err)
		}
	}
}

func TestDeleteRange(t *testing.T) {
	b := NewBufferFromString("Hello, World")

	if err := b.DeleteRange(pos(1, 5), pos(1, 7)); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if b.String() != "HelloWorld" {
		t.Errorf("expected 'HelloWorld', got %q", b.String())
	}
}

func TestDeleteRangeAcrossLines(t *testing.T) {
	b := NewBufferFromString("one\ntwo\nthree")

	if err := b.DeleteRange(pos(3, 2), pos(1, 1)); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if b.String() != "oree" {
		t.Errorf("expected 'oree', got %q", b.String())
	}
}

func TestDeleteRangeInvalid(t *testing.T) {
	b := NewBufferFromString("abc")

	err := b.DeleteRange(pos(1, 0), pos(1, 9))
	if !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestTextRange(t *testing.T) {
	b := NewBufferFromString("one\ntwo\nthree")

	if got := b.TextRange(pos(1, 1), pos(3, 2)); got != "ne\ntwo\nth" {
		t.Errorf("TextRange = %q", got)
	}
	if got := b.TextRange(pos(2, 1), pos(2, 3)); got != "wo" {
		t.Errorf("TextRange = %q", got)
	}
}

func TestRevisionIncrements(t *testing.T) {
	b := NewBufferFromString("abc")
	r0 := b.Revision()

	_ = b.Insert(pos(1, 0), "x")
	r1 := b.Revision()
	_ = b.DeleteRange(pos(1, 0), pos(1, 1))
	r2 := b.Revision()

	if !(r0 < r1 && r1 < r2) {
		t.Errorf("revisions not increasing: %d %d %d", r0, r1, r2)
	}
}

func TestPositionOf(t *testing.T) {
	b := NewBufferFromString("hello\nab\nxyz")
	b.SetCursor(pos(2, 1))

	tests := []struct {
		loc  string
		want Position
	}{
		{LocInsert, pos(2, 1)},
		{LocEnd, pos(3, 3)},
		{"1.3", pos(1, 3)},
		{"2.9", pos(2, 2)},
		{"9.0", pos(3, 0)},
		{"1.end", pos(1, 5)},
		{"2.end", pos(2, 2)},
	}
	for _, tt := range tests {
		got, err := b.PositionOf(tt.loc)
		if err != nil {
			t.Fatalf("PositionOf(%q) error: %v", tt.loc, err)
		}
		if got != tt.want {
			t.Errorf("PositionOf(%q) = %s, want %s", tt.loc, got, tt.want)
		}
	}
}

func TestPositionOfMalformed(t *testing.T) {
	b := NewBufferFromString("abc")

	for _, loc := range []string{"bogus", "x.end", "1,2"} {
		_, err := b.PositionOf(loc)
		if !errors.Is(err, position.ErrMalformedPosition) {
			t.Errorf("PositionOf(%q) error = %v, want malformed", loc, err)
		}
	}

	if _, err := b.PositionOf(LocAnchor); !errors.Is(err, ErrUnknownMark) {
		t.Errorf("PositionOf(anchor) without selection = %v, want ErrUnknownMark", err)
	}
}

func TestCursorGravityOnInsert(t *testing.T) {
	b := NewBufferFromString("abc")
	b.SetCursor(pos(1, 1))

	_ = b.Insert(b.Cursor(), "xy")
	if b.Cursor() != pos(1, 3) {
		t.Errorf("cursor should follow inserted text, got %s", b.Cursor())
	}

	_ = b.Insert(pos(1, 0), "Q\n")
	if b.Cursor() != pos(2, 3) {
		t.Errorf("cursor should move to next line, got %s", b.Cursor())
	}
}

func TestCursorOnDelete(t *testing.T) {
	b := NewBufferFromString("abcdef\nghi")
	b.SetCursor(pos(2, 2))

	_ = b.DeleteRange(pos(1, 4), pos(2, 1))
	if b.String() != "abcdhi" {
		t.Fatalf("unexpected text %q", b.String())
	}
	if b.Cursor() != pos(1, 5) {
		t.Errorf("cursor after delete = %s, want 1.5", b.Cursor())
	}

	_ = b.DeleteRange(pos(1, 0), pos(1, 6))
	if b.Cursor() != pos(1, 0) {
		t.Errorf("cursor inside deleted range should collapse, got %s", b.Cursor())
	}
}

func TestMove(t *testing.T) {
	b := NewBufferFromString("long line\nab\nanother line")
	b.SetCursor(pos(1, 7))

	if got := b.Move(MoveDown, 1, false); got != pos(2, 2) {
		t.Errorf("MoveDown = %s, want 2.2", got)
	}
	if got := b.Move(MoveDown, 1, false); got != pos(3, 7) {
		t.Errorf("MoveDown should restore goal column, got %s", got)
	}
	if got := b.Move(MoveLineStart, 1, false); got != pos(3, 0) {
		t.Errorf("MoveLineStart = %s", got)
	}
	if got := b.Move(MoveLeft, 1, false); got != pos(2, 2) {
		t.Errorf("MoveLeft at line start should wrap, got %s", got)
	}
	if got := b.Move(MoveRight, 1, false); got != pos(3, 0) {
		t.Errorf("MoveRight at line end should wrap, got %s", got)
	}
	if got := b.Move(MoveDocEnd, 1, false); got != pos(3, 12) {
		t.Errorf("MoveDocEnd = %s", got)
	}
	if got := b.Move(MoveUp, 10, false); got != pos(1, 9) {
		t.Errorf("MoveUp clamps to first line, got %s", got)
	}
}

func TestSelection(t *testing.T) {
	b := NewBufferFromString("hello world")
	b.SetCursor(pos(1, 2))

	if _, _, ok := b.SelectionRange(); ok {
		t.Fatal("no selection expected")
	}

	b.Move(MoveRight, 3, true)
	start, end, ok := b.SelectionRange()
	if !ok || start != pos(1, 2) || end != pos(1, 5) {
		t.Fatalf("selection = %s-%s ok=%v", start, end, ok)
	}

	b.Move(MoveLeft, 5, true)
	start, end, _ = b.SelectionRange()
	if start != pos(1, 0) || end != pos(1, 2) {
		t.Errorf("backward selection = %s-%s, want 1.0-1.2", start, end)
	}

	b.Move(MoveRight, 1, false)
	if _, _, ok := b.SelectionRange(); ok {
		t.Error("plain motion should clear selection")
	}
}

func TestDeleteSelection(t *testing.T) {
	b := NewBufferFromString("hello world")
	b.SetSelection(pos(1, 5), pos(1, 11))

	deleted, err := b.DeleteSelection()
	if err != nil || !deleted {
		t.Fatalf("DeleteSelection = %v, %v", deleted, err)
	}
	if b.String() != "hello" {
		t.Errorf("expected 'hello', got %q", b.String())
	}
	if _, _, ok := b.SelectionRange(); ok {
		t.Error("selection should be cleared")
	}

	deleted, _ = b.DeleteSelection()
	if deleted {
		t.Error("second DeleteSelection should report nothing deleted")
	}
}

func TestHighlights(t *testing.T) {
	b := NewBufferFromString("abc\ndef\nghi")

	b.AddHighlight(pos(3, 1), "column")
	b.AddHighlight(pos(1, 1), "column")
	b.AddHighlight(pos(2, 0), "other")

	got := b.Highlights("column")
	if len(got) != 2 || got[0] != pos(1, 1) || got[1] != pos(3, 1) {
		t.Errorf("Highlights(column) = %v", got)
	}
	if styles := b.HighlightStyles(); strings.Join(styles, ",") != "column,other" {
		t.Errorf("HighlightStyles = %v", styles)
	}

	b.ClearHighlights("column")
	if len(b.Highlights("column")) != 0 {
		t.Error("column highlights should be cleared")
	}
	if len(b.Highlights("other")) != 1 {
		t.Error("other style should be untouched")
	}
}

func TestHighlightsFollowEdits(t *testing.T) {
	b := NewBufferFromString("abc\ndef")
	b.AddHighlight(pos(1, 1), "column")
	b.AddHighlight(pos(2, 1), "column")

	_ = b.Insert(pos(1, 1), "x")
	_ = b.Insert(pos(2, 0), "yy")

	got := b.Highlights("column")
	if got[0] != pos(1, 2) || got[1] != pos(2, 3) {
		t.Errorf("highlights after insert = %v, want [1.2 2.3]", got)
	}

	_ = b.DeleteRange(pos(2, 0), pos(2, 1))
	got = b.Highlights("column")
	if got[1] != pos(2, 2) {
		t.Errorf("highlight after delete = %s, want 2.2", got[1])
	}
}

func TestSetText(t *testing.T) {
	b := NewBufferFromString("abc")
	b.SetCursor(pos(1, 2))
	b.AddHighlight(pos(1, 1), "column")

	b.SetText("x\ny")
	if b.LineCount() != 2 || b.Cursor() != pos(1, 0) {
		t.Errorf("SetText did not reset: lines=%d cursor=%s", b.LineCount(), b.Cursor())
	}
	if len(b.Highlights("column")) != 0 {
		t.Error("SetText should drop highlights")
	}
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("x\ny"))
	if err != nil {
		t.Fatal(err)
	}
	if b.LineCount() != 2 {
		t.Errorf("expected 2 lines, got %d", b.LineCount())
	}
}
