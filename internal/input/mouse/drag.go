package mouse

// dragTracker records the left-button gesture between press and release.
type dragTracker struct {
	active bool
	// column is fixed at press time; releasing Alt mid-drag does not
	// change the gesture.
	column     bool
	startPos   Position
	currentPos Position
}

func newDragTracker() *dragTracker {
	return &dragTracker{}
}

func (t *dragTracker) start(pos Position, column bool) {
	t.active = true
	t.column = column
	t.startPos = pos
	t.currentPos = pos
}

func (t *dragTracker) update(pos Position) {
	if t.active {
		t.currentPos = pos
	}
}

func (t *dragTracker) end() {
	*t = dragTracker{}
}

func (t *dragTracker) isActive() bool {
	return t.active
}

// DragState is a snapshot of a drag.
type DragState struct {
	Active     bool
	Column     bool
	StartPos   Position
	CurrentPos Position
}

func (t *dragTracker) state() DragState {
	return DragState{
		Active:     t.active,
		Column:     t.column,
		StartPos:   t.startPos,
		CurrentPos: t.currentPos,
	}
}
