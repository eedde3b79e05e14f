// Package viewport keeps a cursor visible inside a scrolled text area.
package viewport

// Viewport is the visible window onto a document: Top is the first shown
// line (0-based) and Left the first shown cell.
type Viewport struct {
	Top  int
	Left int

	width  int
	height int
	margin int
}

// New creates a viewport of the given size. margin is the number of lines
// and cells kept between the cursor and the edges where possible.
func New(width, height, margin int) *Viewport {
	v := &Viewport{margin: max(0, margin)}
	v.Resize(width, height)
	return v
}

// Resize changes the visible area.
func (v *Viewport) Resize(width, height int) {
	v.width = max(0, width)
	v.height = max(0, height)
}

// Size returns the visible area.
func (v *Viewport) Size() (width, height int) {
	return v.width, v.height
}

// SetMargin changes the scroll margin.
func (v *Viewport) SetMargin(margin int) {
	v.margin = max(0, margin)
}

// effective limits the margin to a third of the dimension so the cursor
// always has room to move.
func (v *Viewport) effective(dim int) int {
	return min(v.margin, max(0, (dim-1)/3))
}

// EnsureVisible scrolls the least amount needed to show line (0-based) and
// cell with the margin around them.
func (v *Viewport) EnsureVisible(line, cell int) {
	if v.height > 0 {
		m := v.effective(v.height)
		if line < v.Top+m {
			v.Top = line - m
		} else if line > v.Top+v.height-1-m {
			v.Top = line - v.height + 1 + m
		}
	}
	if v.width > 0 {
		m := v.effective(v.width)
		if cell < v.Left+m {
			v.Left = cell - m
		} else if cell > v.Left+v.width-1-m {
			v.Left = cell - v.width + 1 + m
		}
	}
	v.Top = max(0, v.Top)
	v.Left = max(0, v.Left)
}

// ScrollBy moves the viewport by lines, keeping at least one line of a
// lineCount-line document on screen.
func (v *Viewport) ScrollBy(lines, lineCount int) {
	v.Top = max(0, min(v.Top+lines, lineCount-1))
}

// Contains reports whether line and cell are inside the visible area.
func (v *Viewport) Contains(line, cell int) bool {
	return line >= v.Top && line < v.Top+v.height && cell >= v.Left && cell < v.Left+v.width
}
