// Package renderer draws the editor onto a backend.
//
// The screen is laid out top to bottom as the menu bar, the tab bar, the
// document area and the status line. An open menu drops down over the
// tab bar and document. The renderer remembers the geometry of the last
// frame so mouse reports can be mapped back to tabs, menu items and buffer
// positions.
package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/wkeeling/pyrite/internal/document"
	"github.com/wkeeling/pyrite/internal/engine/column"
	"github.com/wkeeling/pyrite/internal/engine/position"
	"github.com/wkeeling/pyrite/internal/input/keymap"
	"github.com/wkeeling/pyrite/internal/menu"
	"github.com/wkeeling/pyrite/internal/renderer/backend"
	"github.com/wkeeling/pyrite/internal/renderer/layout"
	"github.com/wkeeling/pyrite/internal/renderer/viewport"
	"github.com/wkeeling/pyrite/internal/theme"
)

const (
	menuRow = 0
	tabRow  = 1
	docTop  = 2
	// chromeRows is the menu bar, tab bar and status line.
	chromeRows = 3
)

// Options configures the renderer.
type Options struct {
	ShowLineNumbers bool
	TabWidth        int
	// ScrollMargin is the number of lines and cells kept around the cursor.
	ScrollMargin int
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{ShowLineNumbers: true, TabWidth: 4, ScrollMargin: 2}
}

// Prompt is a one-line text input shown on the status line.
type Prompt struct {
	Label string
	Text  string
}

// View is the state one frame shows.
type View struct {
	Docs    []*document.Document
	Active  int
	Menu    *menu.Menu
	Keymap  *keymap.Keymap
	Message string
	Prompt  *Prompt
}

func (v View) doc() *document.Document {
	if v.Active < 0 || v.Active >= len(v.Docs) {
		return nil
	}
	return v.Docs[v.Active]
}

type span struct{ start, end int }

func (s span) contains(x int) bool { return x >= s.start && x < s.end }

type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// cursorKey identifies a cursor state; the viewport follows the cursor
// only when it changes, so wheel scrolling is not undone by the next frame.
type cursorKey struct {
	pos      position.Position
	revision uint64
}

// Renderer draws Views. It is used from the UI goroutine only.
type Renderer struct {
	backend backend.Backend
	theme   *theme.Theme
	opts    Options

	// Geometry of the last frame.
	width, height int
	doc           *document.Document
	gutter        int
	vp            *viewport.Viewport
	tabs          []span
	menuTitle     span
	dropdown      rect

	lastCursor map[uuid.UUID]cursorKey
}

// New creates a Renderer.
func New(b backend.Backend, th *theme.Theme, opts Options) *Renderer {
	if opts.TabWidth < 1 {
		opts.TabWidth = DefaultOptions().TabWidth
	}
	return &Renderer{
		backend:    b,
		theme:      th,
		opts:       opts,
		vp:         viewport.New(0, 0, opts.ScrollMargin),
		lastCursor: make(map[uuid.UUID]cursorKey),
	}
}

// SetTheme changes the colours used from the next frame.
func (r *Renderer) SetTheme(th *theme.Theme) {
	r.theme = th
}

// Theme returns the current theme.
func (r *Renderer) Theme() *theme.Theme {
	return r.theme
}

// SetOptions replaces the options.
func (r *Renderer) SetOptions(opts Options) {
	if opts.TabWidth < 1 {
		opts.TabWidth = r.opts.TabWidth
	}
	r.opts = opts
	r.vp.SetMargin(opts.ScrollMargin)
}

// Options returns the current options.
func (r *Renderer) Options() Options {
	return r.opts
}

// DocumentHeight returns the number of text rows for the current size.
func (r *Renderer) DocumentHeight() int {
	_, h := r.backend.Size()
	return max(0, h-chromeRows)
}

func (r *Renderer) style(e theme.Element) tcell.Style {
	if r.theme == nil {
		return tcell.StyleDefault
	}
	return r.theme.Style(e)
}

// Draw renders v and flushes it to the display.
func (r *Renderer) Draw(v View) {
	r.width, r.height = r.backend.Size()
	if r.width <= 0 || r.height <= 0 {
		return
	}
	r.backend.Fill(0, 0, r.width, r.height, ' ', r.style(theme.ElemText))

	r.doc = v.doc()
	cx, cy, cursorOK := r.drawDocument(r.doc)
	r.drawTabs(v)
	px, promptOK := r.drawStatus(v)
	r.drawMenuBar(v.Menu)
	if v.Menu != nil && v.Menu.IsOpen() {
		r.drawDropdown(v.Menu, v.Keymap)
	} else {
		r.dropdown = rect{}
	}

	switch {
	case promptOK:
		r.backend.ShowCursor(px, r.height-1)
	case cursorOK && (v.Menu == nil || !v.Menu.IsOpen()):
		r.backend.ShowCursor(cx, cy)
	default:
		r.backend.HideCursor()
	}
	r.backend.Show()
}

func (r *Renderer) puts(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		if x >= r.width {
			break
		}
		r.backend.SetContent(x, y, ch, style)
		x += layout.RuneWidth(ch)
	}
	return x
}

func (r *Renderer) drawMenuBar(m *menu.Menu) {
	bar := r.style(theme.ElemMenuBar)
	r.backend.Fill(0, menuRow, r.width, 1, ' ', bar)
	r.menuTitle = span{}
	if m == nil {
		return
	}

	style := bar
	if m.IsOpen() {
		style = r.style(theme.ElemMenuActive)
	}
	x := r.puts(0, menuRow, " ", style)
	x = r.putMnemonic(x, menuRow, m.Title, m.Underline, style)
	x = r.puts(x, menuRow, " ", style)
	r.menuTitle = span{0, x}
}

// putMnemonic draws label with rune index underline underlined.
func (r *Renderer) putMnemonic(x, y int, label string, underline int, style tcell.Style) int {
	for i, ch := range []rune(label) {
		if x >= r.width {
			break
		}
		s := style
		if i == underline {
			s = s.Underline(true)
		}
		r.backend.SetContent(x, y, ch, s)
		x += layout.RuneWidth(ch)
	}
	return x
}

func (r *Renderer) drawDropdown(m *menu.Menu, km *keymap.Keymap) {
	items := m.Items()
	labelW, keyW := 0, 0
	keys := make([]string, len(items))
	for i, it := range items {
		labelW = max(labelW, layout.StringWidth(it.Label))
		keys[i] = menu.Shortcut(it, km)
		keyW = max(keyW, layout.StringWidth(keys[i]))
	}
	w := 1 + labelW + 1
	if keyW > 0 {
		w += 2 + keyW + 1
	}
	r.dropdown = rect{x: r.menuTitle.start, y: menuRow + 1, w: w, h: len(items)}

	bar := r.style(theme.ElemMenuBar)
	active := r.style(theme.ElemMenuActive)
	for i, it := range items {
		y := r.dropdown.y + i
		if y >= r.height {
			break
		}
		x0 := r.dropdown.x
		if it.Separator() {
			r.backend.Fill(x0, y, w, 1, tcell.RuneHLine, bar)
			continue
		}
		style := bar
		if i == m.Selected() {
			style = active
		}
		r.backend.Fill(x0, y, w, 1, ' ', style)
		r.putMnemonic(x0+1, y, it.Label, it.Underline, style)
		if keys[i] != "" {
			r.puts(x0+w-1-layout.StringWidth(keys[i]), y, keys[i], style)
		}
	}
}

func (r *Renderer) drawTabs(v View) {
	style := r.style(theme.ElemTab)
	r.backend.Fill(0, tabRow, r.width, 1, ' ', style)

	r.tabs = r.tabs[:0]
	x := 0
	for i, d := range v.Docs {
		label := " " + d.Name()
		if d.Modified() {
			label += "*"
		}
		label += " "
		s := style
		if i == v.Active {
			s = r.style(theme.ElemTabActive)
		}
		start := x
		x = r.puts(x, tabRow, layout.Truncate(label, max(0, r.width-x)), s)
		r.tabs = append(r.tabs, span{start, x})
		x = r.puts(x, tabRow, "│", style)
	}
}

func (r *Renderer) drawStatus(v View) (promptX int, promptOK bool) {
	y := r.height - 1
	if y < docTop {
		return 0, false
	}
	style := r.style(theme.ElemStatus)
	r.backend.Fill(0, y, r.width, 1, ' ', style)

	var right string
	if d := r.doc; d != nil {
		c := d.Buffer.Cursor()
		right = fmt.Sprintf("Ln %d, Col %d  %s ", c.Line, c.Column+1, strings.ToUpper(d.Encoding))
		if d.Column.Active() {
			right = "COLUMN  " + right
		}
	}
	rw := layout.StringWidth(right)
	r.puts(max(0, r.width-rw), y, right, style)

	if v.Prompt != nil {
		text := " " + v.Prompt.Label + ": " + v.Prompt.Text
		x := r.puts(0, y, layout.Truncate(text, max(0, r.width-rw-1)), style)
		return x, true
	}
	r.puts(0, y, layout.Truncate(" "+v.Message, max(0, r.width-rw-1)), style)
	return 0, false
}

// drawDocument draws the text area and returns the screen cell of the
// cursor.
func (r *Renderer) drawDocument(d *document.Document) (cx, cy int, ok bool) {
	height := max(0, r.height-chromeRows)
	if d == nil || height == 0 {
		return 0, 0, false
	}
	buf := d.Buffer
	lines := buf.LineCount()

	r.gutter = 0
	if r.opts.ShowLineNumbers {
		r.gutter = len(strconv.Itoa(lines)) + 1
	}
	textW := max(0, r.width-r.gutter)

	cur := buf.Cursor()
	curLayout := layout.Layout(buf.LineText(cur.Line), r.opts.TabWidth)
	r.vp.Resize(textW, height)
	r.vp.Top, r.vp.Left = d.ScrollLine, d.ScrollCol
	key := cursorKey{cur, buf.Revision()}
	if last, seen := r.lastCursor[d.ID]; !seen || last != key {
		r.vp.EnsureVisible(cur.Line-1, curLayout.CellOf(cur.Column))
		r.lastCursor[d.ID] = key
	}
	d.ScrollLine, d.ScrollCol = r.vp.Top, r.vp.Left

	selStart, selEnd, hasSel := buf.SelectionRange()
	marks := make(map[int][]int)
	for _, p := range buf.Highlights(column.HighlightStyle) {
		marks[p.Line] = append(marks[p.Line], p.Column)
	}

	text := r.style(theme.ElemText)
	gutter := r.style(theme.ElemGutter)
	sel := r.style(theme.ElemSelection)
	mark := r.style(theme.ElemColumnMark)

	for row := range height {
		y := docTop + row
		ln := r.vp.Top + row + 1
		if r.gutter > 0 {
			r.backend.Fill(0, y, r.gutter, 1, ' ', gutter)
		}
		if ln > lines {
			continue
		}
		if r.gutter > 0 {
			num := strconv.Itoa(ln)
			r.puts(r.gutter-1-len(num), y, num, gutter)
		}

		l := layout.Layout(buf.LineText(ln), r.opts.TabWidth)
		for col := 0; col <= l.Len(); col++ {
			p := position.New(ln, col)
			style := text
			inSel := hasSel && !p.Before(selStart) && p.Before(selEnd)
			if inSel {
				style = sel
			}
			isMark := false
			for _, mc := range marks[ln] {
				if mc == col {
					isMark = true
				}
			}
			if isMark {
				style = mark
			}
			// The cell after the last rune shows a selected line break or
			// a column mark at the end of the line.
			if col == l.Len() && !isMark && !(inSel && ln < selEnd.Line) {
				continue
			}

			ch := ' '
			if col < l.Len() && l.Rune(col) != '\t' {
				ch = l.Rune(col)
			}
			start := r.gutter + l.CellOf(col) - r.vp.Left
			width := l.CellWidth(col)
			if start < r.gutter {
				continue
			}
			if start >= r.width {
				break
			}
			r.backend.SetContent(start, y, ch, style)
			if ch == ' ' {
				for i := 1; i < width && start+i < r.width; i++ {
					r.backend.SetContent(start+i, y, ' ', style)
				}
			}
		}
	}

	cx = r.gutter + curLayout.CellOf(cur.Column) - r.vp.Left
	cy = docTop + cur.Line - 1 - r.vp.Top
	if cx < r.gutter || cx >= r.width || cy < docTop || cy >= docTop+height {
		return 0, 0, false
	}
	ch, _ := r.backend.Content(cx, cy)
	r.backend.SetContent(cx, cy, ch, r.style(theme.ElemCursor))
	return cx, cy, true
}

// CellToPosition maps a screen cell in the document area of the last frame
// to a buffer position. The line is clamped to the document; the column is
// raw, so cells right of a short line give columns past its end. Cells in
// the gutter map to column 0.
func (r *Renderer) CellToPosition(x, y int) (position.Position, bool) {
	height := max(0, r.height-chromeRows)
	if r.doc == nil || y < docTop || y >= docTop+height {
		return position.Position{}, false
	}
	buf := r.doc.Buffer
	line := min(r.vp.Top+y-docTop+1, buf.LineCount())
	cell := max(0, x-r.gutter+r.vp.Left)
	if x < r.gutter {
		cell = 0
	}
	l := layout.Layout(buf.LineText(line), r.opts.TabWidth)
	return position.New(line, l.ColumnAt(cell)), true
}

// TabAt returns the index of the tab drawn at x, y.
func (r *Renderer) TabAt(x, y int) (int, bool) {
	if y != tabRow {
		return 0, false
	}
	for i, s := range r.tabs {
		if s.contains(x) {
			return i, true
		}
	}
	return 0, false
}

// IsMenuTitle reports whether x, y is on the menu title.
func (r *Renderer) IsMenuTitle(x, y int) bool {
	return y == menuRow && r.menuTitle.contains(x)
}

// MenuItemAt returns the index of the drop-down item drawn at x, y.
func (r *Renderer) MenuItemAt(x, y int) (int, bool) {
	if !r.dropdown.contains(x, y) {
		return 0, false
	}
	return y - r.dropdown.y, true
}

// ScrollBy scrolls the document view without moving the cursor.
func (r *Renderer) ScrollBy(d *document.Document, lines int) {
	if d == nil {
		return
	}
	vp := viewport.New(0, 0, 0)
	vp.Top = d.ScrollLine
	vp.ScrollBy(lines, d.Buffer.LineCount())
	d.ScrollLine = vp.Top
	if d == r.doc {
		r.vp.Top = d.ScrollLine
	}
}

// Forget drops per-document state for a closed document.
func (r *Renderer) Forget(d *document.Document) {
	delete(r.lastCursor, d.ID)
	if r.doc == d {
		r.doc = nil
	}
}
