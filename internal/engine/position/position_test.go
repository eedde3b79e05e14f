package position

import (
	"errors"
	"testing"
)

type fakeLines []int

func (f fakeLines) LineCount() int { return len(f) }

func (f fakeLines) LineLength(line int) int {
	if line < 1 || line > len(f) {
		return 0
	}
	return f[line-1]
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want Position
	}{
		{"1.0", Position{1, 0}},
		{"3.2", Position{3, 2}},
		{" 12.40 ", Position{12, 40}},
	}

	for _, tt := range tests {
		got, err := Parse(tt.raw)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	for _, raw := range []string{"", "3", "a.b", "3.x", "0.1", "2.-1", "1.2.3"} {
		_, err := Parse(raw)
		if err == nil {
			t.Errorf("Parse(%q) expected error", raw)
			continue
		}
		var mpe *MalformedPositionError
		if !errors.As(err, &mpe) {
			t.Errorf("Parse(%q) error %T, want *MalformedPositionError", raw, err)
		}
		if !errors.Is(err, ErrMalformedPosition) {
			t.Errorf("Parse(%q) error should wrap ErrMalformedPosition", raw)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on malformed input")
		}
	}()
	MustParse("nope")
}

func TestStringRoundTrip(t *testing.T) {
	p := New(7, 13)
	if p.String() != "7.13" {
		t.Errorf("String() = %q, want 7.13", p.String())
	}
	if MustParse(p.String()) != p {
		t.Error("round trip through String/Parse changed the position")
	}
}

func TestCompare(t *testing.T) {
	a := New(2, 5)
	b := New(3, 0)
	c := New(2, 6)

	if !a.Before(b) || !b.After(a) {
		t.Error("line ordering wrong")
	}
	if !a.Before(c) || !c.After(a) {
		t.Error("column ordering wrong")
	}
	if a.Compare(a) != 0 {
		t.Error("position should equal itself")
	}
	if Min(b, a) != a || Max(a, b) != b {
		t.Error("Min/Max wrong")
	}
}

func TestClamp(t *testing.T) {
	lines := fakeLines{5, 3, 0}

	tests := []struct {
		line, col int
		want      Position
	}{
		{1, 2, Position{1, 2}},
		{1, 5, Position{1, 5}},
		{2, 5, Position{2, 3}},
		{3, 4, Position{3, 0}},
		{9, 1, Position{3, 0}},
		{0, 1, Position{1, 1}},
		{1, -4, Position{1, 0}},
	}

	for _, tt := range tests {
		if got := Clamp(lines, tt.line, tt.col); got != tt.want {
			t.Errorf("Clamp(%d, %d) = %v, want %v", tt.line, tt.col, got, tt.want)
		}
	}
}
