package backend

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Backend on a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	closed bool
}

// NewTerminal creates a backend for the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return &Terminal{screen: screen}, nil
}

// NewSimulation creates a backend over an in-memory tcell screen of the
// given size, for tests.
func NewSimulation(width, height int) *Terminal {
	screen := tcell.NewSimulationScreen("UTF-8")
	t := &Terminal{screen: screen}
	if err := t.Init(); err == nil {
		screen.SetSize(width, height)
	}
	return t
}

// Screen returns the underlying tcell screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	t.screen.EnableFocus()
	t.screen.SetStyle(tcell.StyleDefault)
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

func (t *Terminal) SetContent(x, y int, r rune, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.SetContent(x, y, r, nil, style)
}

func (t *Terminal) Content(x, y int) (rune, tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()
	mainc, _, style, _ := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return mainc, style
}

func (t *Terminal) Fill(x, y, width, height int, r rune, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sw, sh := t.screen.Size()
	for row := max(0, y); row < y+height && row < sh; row++ {
		for col := max(0, x); col < x+width && col < sw; col++ {
			t.screen.SetContent(col, row, r, nil, style)
		}
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Sync()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.HideCursor()
}

func (t *Terminal) SetCursorStyle(style CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var cs tcell.CursorStyle
	switch style {
	case CursorBlock:
		cs = tcell.CursorStyleSteadyBlock
	case CursorUnderline:
		cs = tcell.CursorStyleSteadyUnderline
	case CursorBar:
		cs = tcell.CursorStyleSteadyBar
	case CursorHidden:
		t.screen.HideCursor()
		return
	}
	t.screen.SetCursorStyle(cs)
}

// PollEvent is not locked: it blocks, and tcell's queue is safe for
// concurrent use.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

func (t *Terminal) PostEvent(ev tcell.Event) error {
	return t.screen.PostEvent(ev)
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.screen.Beep() // best-effort; terminal may not support beep
}
