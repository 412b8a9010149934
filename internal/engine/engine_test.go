package engine

import (
	"testing"
)

func TestHitTestTopmostWins(t *testing.T) {
	store := newTestStore(
		rect("back", 0, 0, 200, 200),
		rect("front", 50, 50, 100, 100),
	)
	eng := NewEngine(store, nopResizer{})

	if got := eng.HitTest(60, 60); got != "front" {
		t.Errorf("HitTest(60,60) = %q, want front", got)
	}
	if got := eng.HitTest(10, 10); got != "back" {
		t.Errorf("HitTest(10,10) = %q, want back", got)
	}
	if got := eng.HitTest(500, 500); got != "" {
		t.Errorf("HitTest(500,500) = %q, want empty", got)
	}
}

func TestHitTestResolvesGroup(t *testing.T) {
	child := withParent(rect("c", 0, 0, 100, 100), "g")
	store := newTestStore(group("g", "c"), child)
	eng := NewEngine(store, nopResizer{})

	if got := eng.HitTest(50, 50); got != "g" {
		t.Errorf("HitTest inside group child = %q, want g", got)
	}
}

func TestHitTestSkipsInvisible(t *testing.T) {
	hidden := rect("h", 0, 0, 100, 100)
	hidden.Visible = false
	store := newTestStore(hidden)
	eng := NewEngine(store, nopResizer{})

	if got := eng.HitTest(50, 50); got != "" {
		t.Errorf("HitTest on hidden element = %q, want empty", got)
	}
}

func TestScreenToWorld(t *testing.T) {
	store := newTestStore()
	eng := NewEngine(store, nopResizer{})

	eng.SetViewport(100, 50, 2)
	x, y := eng.ScreenToWorld(300, 250)
	approx(t, "x", x, 100)
	approx(t, "y", y, 100)

	// Invalid scale falls back to 1.
	eng.SetViewport(0, 0, 0)
	x, y = eng.ScreenToWorld(30, 40)
	approx(t, "x", x, 30)
	approx(t, "y", y, 40)
}

func TestEngineGestureLifecycle(t *testing.T) {
	store := newTestStore(rect("a", 0, 0, 100, 100))
	eng := NewEngine(store, nopResizer{})
	eng.SetSelection([]string{"a"})

	if eng.GestureActive() {
		t.Fatal("gesture active before any Start")
	}
	if !eng.StartDrag(50, 50) {
		t.Fatal("StartDrag failed")
	}
	if !eng.GestureActive() {
		t.Fatal("drag not reported active")
	}
	eng.UpdateDrag(60, 50)
	eng.Tick()
	eng.EndDrag()
	if eng.GestureActive() {
		t.Fatal("gesture still active after EndDrag")
	}

	el, _ := store.ElementByID("a")
	approx(t, "el.X", el.X, 10)
}

func TestSelectionBoundsJSON(t *testing.T) {
	store := newTestStore(rect("a", 0, 0, 100, 100), rect("b", 100, 100, 100, 100))
	eng := NewEngine(store, nopResizer{})

	eng.SetSelection([]string{"a", "b"})
	got := eng.SelectionBoundsJSON()
	if got == "" || got == "{}" {
		t.Fatalf("SelectionBoundsJSON = %q", got)
	}

	eng.SetSelection([]string{"missing"})
	empty := eng.SelectionBoundsJSON()
	if empty == got {
		t.Error("unresolvable selection should produce zero bounds")
	}
}
