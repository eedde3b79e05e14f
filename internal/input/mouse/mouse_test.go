package mouse

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

type report struct {
	x, y    int
	buttons tcell.ButtonMask
	mod     tcell.ModMask
}

func replay(h *Handler, reports []report) []Gesture {
	var got []Gesture
	for _, r := range reports {
		res := h.handle(Position{r.x, r.y}, r.buttons, r.mod, time.Time{})
		got = append(got, res.Gesture)
	}
	return got
}

func TestGestures(t *testing.T) {
	tests := []struct {
		name    string
		reports []report
		want    []Gesture
	}{
		{
			name: "plain click",
			reports: []report{
				{5, 3, tcell.Button1, 0},
				{5, 3, tcell.ButtonNone, 0},
			},
			want: []Gesture{GestureClick, GestureRelease},
		},
		{
			name: "plain drag",
			reports: []report{
				{5, 3, tcell.Button1, 0},
				{6, 3, tcell.Button1, 0},
				{6, 4, tcell.Button1, 0},
				{6, 4, tcell.ButtonNone, 0},
			},
			want: []Gesture{GestureClick, GestureSelect, GestureSelect, GestureRelease},
		},
		{
			name: "alt drag",
			reports: []report{
				{5, 3, tcell.Button1, tcell.ModAlt},
				{5, 5, tcell.Button1, tcell.ModAlt},
				{5, 5, tcell.ButtonNone, tcell.ModAlt},
			},
			want: []Gesture{GestureColumnStart, GestureColumnExtend, GestureColumnEnd},
		},
		{
			name: "alt released mid drag stays column",
			reports: []report{
				{5, 3, tcell.Button1, tcell.ModAlt},
				{5, 6, tcell.Button1, 0},
				{5, 6, tcell.ButtonNone, 0},
			},
			want: []Gesture{GestureColumnStart, GestureColumnExtend, GestureColumnEnd},
		},
		{
			name: "repeat report at same cell",
			reports: []report{
				{1, 2, tcell.Button1, tcell.ModAlt},
				{1, 2, tcell.Button1, tcell.ModAlt},
			},
			want: []Gesture{GestureColumnStart, GestureNone},
		},
		{
			name: "motion without button",
			reports: []report{
				{1, 2, tcell.ButtonNone, 0},
			},
			want: []Gesture{GestureNone},
		},
		{
			name: "right button ignored",
			reports: []report{
				{1, 2, tcell.Button2, 0},
				{1, 2, tcell.ButtonNone, 0},
			},
			want: []Gesture{GestureNone, GestureNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := replay(NewHandler(DefaultConfig()), tt.reports)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("report %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDragStartIsKept(t *testing.T) {
	h := NewHandler(DefaultConfig())
	h.handle(Position{2, 3}, tcell.Button1, tcell.ModAlt, time.Time{})
	r := h.handle(Position{4, 7}, tcell.Button1, tcell.ModAlt, time.Time{})

	if r.Start != (Position{2, 3}) || r.Position != (Position{4, 7}) {
		t.Errorf("start %v pos %v", r.Start, r.Position)
	}
	st := h.DragState()
	if !st.Active || !st.Column || st.CurrentPos != (Position{4, 7}) {
		t.Errorf("state = %+v", st)
	}

	h.Reset()
	if h.IsDragging() {
		t.Error("Reset should end the drag")
	}
}

func TestWheel(t *testing.T) {
	h := NewHandler(DefaultConfig())

	r := h.handle(Position{}, tcell.WheelDown, 0, time.Time{})
	if r.Gesture != GestureScrollDown || r.Lines != 3 {
		t.Errorf("wheel down = %s %d", r.Gesture, r.Lines)
	}
	r = h.handle(Position{}, tcell.WheelUp, tcell.ModShift, time.Time{})
	if r.Gesture != GestureScrollUp || r.Lines != 1 {
		t.Errorf("shift wheel up = %s %d", r.Gesture, r.Lines)
	}
}

func TestHandleTcellEvent(t *testing.T) {
	h := NewHandler(DefaultConfig())
	r := h.Handle(tcell.NewEventMouse(7, 9, tcell.Button1, tcell.ModAlt))
	if r.Gesture != GestureColumnStart || r.Position != (Position{7, 9}) {
		t.Errorf("got %+v", r)
	}
	if !r.Gesture.IsColumn() || GestureClick.IsColumn() {
		t.Error("IsColumn mismatch")
	}
}
