// Package layout maps buffer columns (runes) to terminal cells.
//
// Tabs expand to the next tab stop and wide runes take two cells, as
// measured by uniseg. A column past the end of the line maps to one cell
// per column beyond the last rune, so column marks on short lines and
// drags into empty space line up.
package layout

import (
	"github.com/rivo/uniseg"
)

// RuneWidth returns the number of cells r occupies. Zero-width runes are
// given one cell so every column stays addressable.
func RuneWidth(r rune) int {
	return max(1, uniseg.StringWidth(string(r)))
}

// StringWidth returns the display width of s.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// Truncate cuts s to at most width cells without splitting a grapheme.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	out, used := 0, 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width {
			break
		}
		used += w
		out += len(cluster)
	}
	return s[:out]
}

// Line is the cell layout of one buffer line.
type Line struct {
	// starts[i] is the first cell of rune i; starts[len] is the width.
	starts []int
	runes  []rune
}

// Layout measures text with the given tab width.
func Layout(text string, tabWidth int) Line {
	if tabWidth < 1 {
		tabWidth = 1
	}
	runes := []rune(text)
	starts := make([]int, len(runes)+1)
	cell := 0
	for i, r := range runes {
		starts[i] = cell
		if r == '\t' {
			cell += tabWidth - cell%tabWidth
		} else {
			cell += RuneWidth(r)
		}
	}
	starts[len(runes)] = cell
	return Line{starts: starts, runes: runes}
}

// Len returns the number of runes.
func (l Line) Len() int {
	return len(l.runes)
}

// Width returns the number of cells the line occupies.
func (l Line) Width() int {
	return l.starts[len(l.runes)]
}

// Rune returns rune i.
func (l Line) Rune(i int) rune {
	return l.runes[i]
}

// CellOf returns the first cell of column col.
func (l Line) CellOf(col int) int {
	if col < 0 {
		return 0
	}
	if col <= len(l.runes) {
		return l.starts[col]
	}
	return l.Width() + col - len(l.runes)
}

// CellWidth returns the cells taken by column col; one for columns past
// the end.
func (l Line) CellWidth(col int) int {
	if col < 0 || col >= len(l.runes) {
		return 1
	}
	return l.starts[col+1] - l.starts[col]
}

// ColumnAt returns the column whose cells include cell. Cells past the end
// map to columns past the end.
func (l Line) ColumnAt(cell int) int {
	if cell <= 0 {
		return 0
	}
	if cell >= l.Width() {
		return len(l.runes) + cell - l.Width()
	}
	lo, hi := 0, len(l.runes)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l.starts[mid] <= cell {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
