// Package input applies key and mouse events to the active document.
//
// Column mode is entered with Alt+Shift+Arrow/Home/End or an Alt+drag.
// While it is active, typed runes, Backspace and Delete are redirected to
// every column position and the block is realigned afterwards. Any other
// navigation key, a plain click, Enter or loss of focus leaves column
// mode. When column mode is off the adapter does plain editing.
//
// Chords bound in the keymap are resolved by the caller before events
// reach the adapter.
package input

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/wkeeling/pyrite/internal/document"
	"github.com/wkeeling/pyrite/internal/engine/buffer"
	"github.com/wkeeling/pyrite/internal/engine/position"
	"github.com/wkeeling/pyrite/internal/input/mouse"
	"github.com/wkeeling/pyrite/internal/logging"
)

// Config configures an Adapter.
type Config struct {
	// TabSize is the number of spaces Tab inserts.
	TabSize int
	// CancelOnRelease leaves column mode when the button of an Alt+drag is
	// released. Terminals do not report the Alt key going up, so by default
	// the block stays for typing.
	CancelOnRelease bool
	// PageSize is the PgUp/PgDn distance in lines.
	PageSize int
	Mouse    mouse.Config
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{TabSize: 4, PageSize: 20, Mouse: mouse.DefaultConfig()}
}

// Locator maps a screen cell to a buffer position. The line is clamped to
// the buffer; the column is the raw cell column so a drag may run past the
// end of short lines. ok is false outside the document area.
type Locator func(x, y int) (p position.Position, ok bool)

// Adapter translates events into buffer and column editor operations.
// It is used from the UI goroutine only.
type Adapter struct {
	config Config
	mouse  *mouse.Handler
	log    *logging.Logger

	// selAnchor is where a plain drag started.
	selAnchor position.Position
}

// NewAdapter creates an Adapter.
func NewAdapter(config Config, log *logging.Logger) *Adapter {
	if log == nil {
		log = logging.Nop()
	}
	if config.TabSize < 1 {
		config.TabSize = DefaultConfig().TabSize
	}
	if config.PageSize < 1 {
		config.PageSize = 1
	}
	return &Adapter{
		config: config,
		mouse:  mouse.NewHandler(config.Mouse),
		log:    log.WithComponent("input"),
	}
}

// SetTabSize changes the Tab width.
func (a *Adapter) SetTabSize(n int) {
	if n > 0 {
		a.config.TabSize = n
	}
}

// SetCancelOnRelease changes the release behaviour of Alt+drag.
func (a *Adapter) SetCancelOnRelease(v bool) {
	a.config.CancelOnRelease = v
}

// SetPageSize sets the PgUp/PgDn distance, normally the document area
// height.
func (a *Adapter) SetPageSize(n int) {
	a.config.PageSize = max(1, n)
}

// Config returns the current configuration.
func (a *Adapter) Config() Config {
	return a.config
}

// HandleKey applies ev to doc. It returns false for keys it does not use.
func (a *Adapter) HandleKey(doc *document.Document, ev *tcell.EventKey) bool {
	if doc == nil {
		return false
	}
	mod := ev.Modifiers()

	if isColumnMotion(ev.Key(), mod) {
		a.columnMotion(doc, ev.Key())
		return true
	}

	if doc.Column.Active() {
		if handled, err := a.columnEdit(doc, ev); handled {
			if err != nil {
				a.log.Error("column edit: %v", err)
			}
			return true
		}
		doc.Column.Cancel()
	}

	if handled, err := a.plainEdit(doc, ev); handled {
		if err != nil {
			a.log.Error("edit: %v", err)
		}
		return true
	}
	return false
}

func isColumnMotion(k tcell.Key, mod tcell.ModMask) bool {
	if mod&tcell.ModAlt == 0 || mod&tcell.ModShift == 0 {
		return false
	}
	switch k {
	case tcell.KeyLeft, tcell.KeyRight, tcell.KeyUp, tcell.KeyDown, tcell.KeyHome, tcell.KeyEnd:
		return true
	}
	return false
}

// columnMotion moves the extent one step. The extent column may run past
// short lines but not past the longest line of the block.
func (a *Adapter) columnMotion(doc *document.Document, k tcell.Key) {
	buf, col := doc.Buffer, doc.Column
	if !col.Active() {
		col.BeginOrExtend(buf.Cursor())
	}

	ext := col.Extent()
	switch k {
	case tcell.KeyLeft:
		ext.Column = max(0, ext.Column-1)
	case tcell.KeyRight:
		if ext.Column < blockWidth(buf, col.Anchor().Line, ext.Line) {
			ext.Column++
		}
	case tcell.KeyUp:
		ext.Line = max(1, ext.Line-1)
	case tcell.KeyDown:
		ext.Line = min(buf.LineCount(), ext.Line+1)
	case tcell.KeyHome:
		ext.Column = 0
	case tcell.KeyEnd:
		ext.Column = buf.LineLength(ext.Line)
	}

	buf.SetCursor(ext)
	col.BeginOrExtend(ext)
}

func blockWidth(buf *buffer.Buffer, a, b int) int {
	width := 0
	for l := min(a, b); l <= max(a, b); l++ {
		width = max(width, buf.LineLength(l))
	}
	return width
}

// columnEdit handles the keys that edit every column at once. handled is
// false for keys that leave column mode.
func (a *Adapter) columnEdit(doc *document.Document, ev *tcell.EventKey) (bool, error) {
	col := doc.Column
	var err error
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
			return false, nil
		}
		_, err = col.InsertAtColumns(string(ev.Rune()))
	case tcell.KeyTab:
		_, err = col.InsertAtColumns(strings.Repeat(" ", a.config.TabSize))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		_, err = col.DeleteBeforeColumns()
	case tcell.KeyDelete:
		_, err = col.DeleteAfterColumns()
	default:
		return false, nil
	}
	realign(doc)
	return true, err
}

// realign moves the cursor to the extent and recomputes the highlights
// after an edit shifted the text under them.
func realign(doc *document.Document) {
	ext := doc.Column.Extent()
	doc.Buffer.SetCursor(ext)
	doc.Column.BeginOrExtend(ext)
}

func (a *Adapter) plainEdit(doc *document.Document, ev *tcell.EventKey) (bool, error) {
	buf := doc.Buffer
	mod := ev.Modifiers()
	extend := mod&tcell.ModShift != 0

	if m, count, ok := a.motionFor(ev.Key(), mod); ok {
		buf.Move(m, count, extend)
		return true, nil
	}

	switch ev.Key() {
	case tcell.KeyRune:
		if mod&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
			return false, nil
		}
		return true, insert(buf, string(ev.Rune()))
	case tcell.KeyEnter:
		return true, insert(buf, "\n")
	case tcell.KeyTab:
		return true, insert(buf, strings.Repeat(" ", a.config.TabSize))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return true, deleteAround(buf, -1)
	case tcell.KeyDelete:
		return true, deleteAround(buf, 1)
	}
	return false, nil
}

func (a *Adapter) motionFor(k tcell.Key, mod tcell.ModMask) (buffer.Motion, int, bool) {
	ctrl := mod&tcell.ModCtrl != 0
	switch k {
	case tcell.KeyLeft:
		return buffer.MoveLeft, 1, true
	case tcell.KeyRight:
		return buffer.MoveRight, 1, true
	case tcell.KeyUp:
		return buffer.MoveUp, 1, true
	case tcell.KeyDown:
		return buffer.MoveDown, 1, true
	case tcell.KeyPgUp:
		return buffer.MoveUp, a.config.PageSize, true
	case tcell.KeyPgDn:
		return buffer.MoveDown, a.config.PageSize, true
	case tcell.KeyHome:
		if ctrl {
			return buffer.MoveDocStart, 1, true
		}
		return buffer.MoveLineStart, 1, true
	case tcell.KeyEnd:
		if ctrl {
			return buffer.MoveDocEnd, 1, true
		}
		return buffer.MoveLineEnd, 1, true
	}
	return 0, 0, false
}

// insert replaces the selection, if any, with text at the cursor.
func insert(buf *buffer.Buffer, text string) error {
	if _, err := buf.DeleteSelection(); err != nil {
		return err
	}
	return buf.Insert(buf.Cursor(), text)
}

// deleteAround deletes the selection, or one rune before (dir < 0) or
// after the cursor, joining lines at the edges.
func deleteAround(buf *buffer.Buffer, dir int) error {
	if deleted, err := buf.DeleteSelection(); deleted || err != nil {
		return err
	}
	c := buf.Cursor()
	start, end := c, c
	switch {
	case dir < 0 && c.Column > 0:
		start.Column--
	case dir < 0 && c.Line > 1:
		start = position.New(c.Line-1, buf.LineLength(c.Line-1))
	case dir > 0 && c.Column < buf.LineLength(c.Line):
		end.Column++
	case dir > 0 && c.Line < buf.LineCount():
		end = position.New(c.Line+1, 0)
	default:
		return nil
	}
	return buf.DeleteRange(start, end)
}

// HandleMouse applies a mouse report to doc and returns the decoded
// gesture so the caller can scroll.
func (a *Adapter) HandleMouse(doc *document.Document, ev *tcell.EventMouse, locate Locator) mouse.Result {
	r := a.mouse.Handle(ev)
	if doc == nil {
		return r
	}
	buf, col := doc.Buffer, doc.Column
	p, ok := locate(r.Position.X, r.Position.Y)

	switch r.Gesture {
	case mouse.GestureColumnStart:
		if !ok {
			return r
		}
		col.Cancel()
		buf.SetCursor(p)
		col.BeginOrExtend(p)
	case mouse.GestureColumnExtend:
		if ok && col.Active() {
			buf.SetCursor(p)
			col.BeginOrExtend(p)
		}
	case mouse.GestureColumnEnd:
		if a.config.CancelOnRelease {
			col.Cancel()
		}
	case mouse.GestureClick:
		col.Cancel()
		if ok {
			buf.SetCursor(p)
			a.selAnchor = buf.Cursor()
		}
	case mouse.GestureSelect:
		if ok {
			buf.SetSelection(a.selAnchor, p)
		}
	}
	return r
}

// FocusLost leaves column mode and abandons any mouse gesture.
func (a *Adapter) FocusLost(doc *document.Document) {
	a.mouse.Reset()
	if doc != nil {
		doc.Column.Cancel()
	}
}

// Dragging reports whether a mouse button is held over the document.
func (a *Adapter) Dragging() bool {
	return a.mouse.IsDragging()
}
