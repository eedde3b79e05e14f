// Package mouse turns raw terminal mouse reports into editor gestures.
//
// Terminals report only the set of buttons currently held, so presses,
// drags and releases are recovered by comparing each report with the
// gesture in progress. Holding Alt at press time turns the gesture into a
// column (block) selection.
package mouse

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// Position is a screen cell.
type Position struct {
	X int
	Y int
}

// Gesture is what a mouse report means to the editor.
type Gesture uint8

const (
	// GestureNone means the report changes nothing.
	GestureNone Gesture = iota
	// GestureClick is a plain left press.
	GestureClick
	// GestureSelect is a plain drag after a click.
	GestureSelect
	// GestureRelease ends a plain click or drag.
	GestureRelease
	// GestureColumnStart is a left press with Alt held.
	GestureColumnStart
	// GestureColumnExtend is a drag that started as a column gesture.
	GestureColumnExtend
	// GestureColumnEnd ends a column gesture.
	GestureColumnEnd
	// GestureScrollUp and GestureScrollDown are wheel ticks.
	GestureScrollUp
	GestureScrollDown
)

// String returns the gesture name.
func (g Gesture) String() string {
	switch g {
	case GestureClick:
		return "click"
	case GestureSelect:
		return "select"
	case GestureRelease:
		return "release"
	case GestureColumnStart:
		return "column-start"
	case GestureColumnExtend:
		return "column-extend"
	case GestureColumnEnd:
		return "column-end"
	case GestureScrollUp:
		return "scroll-up"
	case GestureScrollDown:
		return "scroll-down"
	default:
		return "none"
	}
}

// IsColumn reports whether g belongs to a column gesture.
func (g Gesture) IsColumn() bool {
	return g == GestureColumnStart || g == GestureColumnExtend || g == GestureColumnEnd
}

// Result is a decoded mouse report.
type Result struct {
	Gesture  Gesture
	Position Position
	// Start is where the current gesture began.
	Start Position
	// Lines is the scroll distance for wheel gestures.
	Lines int
	Time  time.Time
}

// Config configures a Handler.
type Config struct {
	// ScrollLines is the number of lines per wheel tick.
	ScrollLines int
	// ScrollLinesShift is used instead when Shift is held.
	ScrollLinesShift int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{ScrollLines: 3, ScrollLinesShift: 1}
}

// Handler tracks the gesture in progress. It is used from the UI goroutine
// only.
type Handler struct {
	config Config
	drag   *dragTracker
}

// NewHandler creates a Handler.
func NewHandler(config Config) *Handler {
	if config.ScrollLines < 1 {
		config.ScrollLines = 1
	}
	if config.ScrollLinesShift < 1 {
		config.ScrollLinesShift = 1
	}
	return &Handler{config: config, drag: newDragTracker()}
}

// Handle decodes one tcell mouse report.
func (h *Handler) Handle(ev *tcell.EventMouse) Result {
	x, y := ev.Position()
	return h.handle(Position{X: x, Y: y}, ev.Buttons(), ev.Modifiers(), ev.When())
}

func (h *Handler) handle(pos Position, buttons tcell.ButtonMask, mod tcell.ModMask, when time.Time) Result {
	r := Result{Position: pos, Time: when}

	if buttons&(tcell.WheelUp|tcell.WheelDown) != 0 {
		r.Lines = h.config.ScrollLines
		if mod&tcell.ModShift != 0 {
			r.Lines = h.config.ScrollLinesShift
		}
		r.Gesture = GestureScrollUp
		if buttons&tcell.WheelDown != 0 {
			r.Gesture = GestureScrollDown
		}
		return r
	}

	held := buttons&tcell.Button1 != 0
	switch {
	case held && !h.drag.isActive():
		column := mod&tcell.ModAlt != 0
		h.drag.start(pos, column)
		r.Start = pos
		r.Gesture = GestureClick
		if column {
			r.Gesture = GestureColumnStart
		}

	case held:
		r.Start = h.drag.startPos
		if pos == h.drag.currentPos {
			return r
		}
		h.drag.update(pos)
		r.Gesture = GestureSelect
		if h.drag.column {
			r.Gesture = GestureColumnExtend
		}

	case h.drag.isActive():
		r.Start = h.drag.startPos
		r.Gesture = GestureRelease
		if h.drag.column {
			r.Gesture = GestureColumnEnd
		}
		h.drag.end()
	}
	return r
}

// Reset abandons any gesture in progress.
func (h *Handler) Reset() {
	h.drag.end()
}

// IsDragging reports whether a button is held.
func (h *Handler) IsDragging() bool {
	return h.drag.isActive()
}

// DragState returns a snapshot of the gesture in progress.
func (h *Handler) DragState() DragState {
	return h.drag.state()
}
