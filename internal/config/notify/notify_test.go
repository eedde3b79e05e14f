package notify

import (
	"reflect"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSet, "set"},
		{KindDelete, "delete"},
		{KindReload, "reload"},
		{KindSave, "save"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestSubscribeOrder(t *testing.T) {
	n := New()
	var order []int
	n.Subscribe(func(Change) { order = append(order, 1) })
	n.Subscribe(func(Change) { order = append(order, 2) })
	n.Subscribe(func(Change) { order = append(order, 3) })

	n.Notify(Change{Kind: KindSave})

	if !reflect.DeepEqual(order, []int{1, 2, 3}) {
		t.Errorf("delivery order = %v", order)
	}
}

func TestSubscribePath(t *testing.T) {
	n := New()
	var got []string
	n.SubscribePath("column_edit", func(c Change) { got = append(got, c.Path) })

	n.Notify(Change{Kind: KindSet, Path: "column_edit.cancel_on_release"})
	n.Notify(Change{Kind: KindSet, Path: "column_editor"})
	n.Notify(Change{Kind: KindSet, Path: "theme"})
	n.Notify(Change{Kind: KindSet, Path: "column_edit"})
	n.Notify(Change{Kind: KindReload})

	want := []string{"column_edit.cancel_on_release", "column_edit", ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUnsubscribe(t *testing.T) {
	n := New()
	calls := 0
	sub := n.Subscribe(func(Change) { calls++ })

	n.Notify(Change{})
	sub.Unsubscribe()
	sub.Unsubscribe()
	n.Notify(Change{})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n.Len() != 0 {
		t.Errorf("Len = %d after unsubscribe", n.Len())
	}

	var nilSub *Subscription
	nilSub.Unsubscribe()
}

func TestSubscribeDuringDelivery(t *testing.T) {
	n := New()
	late := 0
	n.Subscribe(func(Change) {
		n.Subscribe(func(Change) { late++ })
	})

	n.Notify(Change{})
	if late != 0 {
		t.Error("listener added during delivery should not see the current event")
	}
	n.Notify(Change{})
	if late != 1 {
		t.Errorf("late = %d, want 1", late)
	}
}
