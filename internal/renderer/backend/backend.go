// Package backend abstracts the terminal the renderer draws to.
package backend

import "github.com/gdamore/tcell/v2"

// CursorStyle defines how the cursor appears.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
	CursorHidden
)

// Backend is a cell grid with an event queue.
type Backend interface {
	// Init prepares the terminal and must be called first.
	Init() error
	// Shutdown restores the terminal. Safe to call more than once.
	Shutdown()

	Size() (width, height int)

	// SetContent sets one cell. Cells outside the grid are ignored.
	SetContent(x, y int, r rune, style tcell.Style)
	// Content returns the rune and style of a cell.
	Content(x, y int) (rune, tcell.Style)
	// Fill paints every cell of the rectangle.
	Fill(x, y, width, height int, r rune, style tcell.Style)
	Clear()
	// Show flushes pending changes to the display.
	Show()
	// Sync redraws the whole display.
	Sync()

	ShowCursor(x, y int)
	HideCursor()
	SetCursorStyle(style CursorStyle)

	// PollEvent blocks for the next event. It returns nil once the
	// backend is shut down.
	PollEvent() tcell.Event
	// PostEvent queues a synthetic event.
	PostEvent(ev tcell.Event) error

	Beep()
}
