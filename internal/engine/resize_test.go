package engine

import (
	"math"
	"testing"

	"github.com/linea-app/linea/backend-go/internal/document"
)

func newResizeController(store *testStore) (*ResizeController, *UpdateScheduler) {
	sched := NewUpdateScheduler(store)
	return NewResizeController(store, sched, nopResizer{}), sched
}

func TestResizeSouthEastGrowsRect(t *testing.T) {
	store := newTestStore(rect("a", 0, 0, 100, 100))
	rc, sched := newResizeController(store)

	if !rc.Start(100, 100, HandleSE, []string{"a"}, false) {
		t.Fatal("Start returned false")
	}
	rc.Update(150, 150, false)
	sched.Flush()

	el, _ := store.ElementByID("a")
	approx(t, "el.X", el.X, 0)
	approx(t, "el.Y", el.Y, 0)
	approx(t, "el.Width", el.Width, 150)
	approx(t, "el.Height", el.Height, 150)
}

func TestResizeGroupRemapsProportionally(t *testing.T) {
	r1 := withParent(rect("r1", 0, 0, 50, 50), "g")
	r2 := withParent(rect("r2", 50, 50, 50, 50), "g")
	store := newTestStore(group("g", "r1", "r2"), r1, r2)
	rc, sched := newResizeController(store)

	rc.Start(100, 100, HandleSE, []string{"g"}, false)
	rc.Update(200, 200, false)
	sched.Flush()

	el, _ := store.ElementByID("r1")
	approx(t, "r1.X", el.X, 0)
	approx(t, "r1.Width", el.Width, 100)

	el, _ = store.ElementByID("r2")
	approx(t, "r2.X", el.X, 100)
	approx(t, "r2.Y", el.Y, 100)
	approx(t, "r2.Width", el.Width, 100)
	approx(t, "r2.Height", el.Height, 100)
}

func TestResizeClampsToMinSize(t *testing.T) {
	store := newTestStore(rect("a", 0, 0, 100, 100))
	rc, sched := newResizeController(store)

	// Dragging the east edge 95 left would leave a 5-wide box; the
	// dragged edge stops at the minimum extent from the anchor.
	rc.Start(100, 50, HandleE, []string{"a"}, false)
	rc.Update(5, 50, false)
	sched.Flush()

	el, _ := store.ElementByID("a")
	approx(t, "el.X", el.X, 0)
	approx(t, "el.Width", el.Width, MinElementSize)
	approx(t, "el.Height", el.Height, 100)
}

func TestResizeAspectLockedCorner(t *testing.T) {
	store := newTestStore(rect("a", 0, 0, 100, 50))
	rc, sched := newResizeController(store)

	// dx=50 against dy=10 scaled by aspect 2: X drives, Y follows.
	rc.Start(100, 50, HandleSE, []string{"a"}, false)
	rc.Update(150, 60, true)
	sched.Flush()

	el, _ := store.ElementByID("a")
	approx(t, "el.Width", el.Width, 150)
	approx(t, "el.Height", el.Height, 75)
	approx(t, "el.X", el.X, 0)
	approx(t, "el.Y", el.Y, 0)
}

func TestXDrivesAspect(t *testing.T) {
	tests := []struct {
		handle Handle
		dx, dy float64
		aspect float64
		want   bool
	}{
		{HandleE, 1, 100, 1, true},
		{HandleN, 100, 1, 1, false},
		{HandleSE, 50, 10, 2, true},
		{HandleSE, 10, 50, 2, false},
		{HandleSE, 20, 10, 2, true}, // exact tie goes to X
	}
	for _, tt := range tests {
		if got := xDrivesAspect(tt.handle, tt.dx, tt.dy, tt.aspect); got != tt.want {
			t.Errorf("xDrivesAspect(%q, %v, %v, %v) = %v, want %v",
				tt.handle, tt.dx, tt.dy, tt.aspect, got, tt.want)
		}
	}
}

func TestResizeRotatedSingleKeepsWorldAnchor(t *testing.T) {
	el := rect("a", 0, 0, 100, 50)
	el.Rotation = math.Pi / 2
	store := newTestStore(el)
	rc, sched := newResizeController(store)

	// Rotated 90 degrees, the local x axis points along world +y, so
	// a world drag of (0,10) on the east handle extends the width by
	// 10 while the west edge midpoint stays fixed at (50,-25).
	rc.Start(50, 75, HandleE, []string{"a"}, false)
	rc.Update(50, 85, false)
	sched.Flush()

	got, _ := store.ElementByID("a")
	approx(t, "el.Width", got.Width, 110)
	approx(t, "el.Height", got.Height, 50)
	approx(t, "el.X", got.X, -5)
	approx(t, "el.Y", got.Y, 5)
	approx(t, "el.Rotation", got.Rotation, math.Pi/2)
}

func TestResizeRotatedEastHandleLocalDelta(t *testing.T) {
	// A local-frame delta of (10,0) on the east handle grows the
	// width by 10 and touches nothing else, at any rotation.
	rotations := []float64{0.0001, math.Pi / 4, math.Pi / 2, math.Pi, 2 * math.Pi, -math.Pi / 4}
	for _, rotation := range rotations {
		el := rect("a", 0, 0, 100, 50)
		el.Rotation = rotation
		store := newTestStore(el)
		rc, sched := newResizeController(store)

		wx, wy := Rotate(rotation).TransformVector(10, 0)
		rc.Start(0, 0, HandleE, []string{"a"}, false)
		rc.Update(wx, wy, false)
		sched.Flush()

		got, _ := store.ElementByID("a")
		approxTol(t, "el.Width", got.Width, 110, 1e-9)
		approxTol(t, "el.Height", got.Height, 50, 1e-9)
		approx(t, "el.Rotation", got.Rotation, rotation)
	}
}

func TestResizeNearZeroRotationMatchesWorld(t *testing.T) {
	el := rect("a", 0, 0, 100, 50)
	el.Rotation = 1e-9
	store := newTestStore(el)
	rc, sched := newResizeController(store)

	rc.Start(100, 25, HandleE, []string{"a"}, false)
	rc.Update(110, 25, false)
	sched.Flush()

	got, _ := store.ElementByID("a")
	approxTol(t, "el.Width", got.Width, 110, 1e-6)
	approxTol(t, "el.X", got.X, 0, 1e-6)
	approxTol(t, "el.Y", got.Y, 0, 1e-6)
}

func TestResizeLineDragsNearestEndpoint(t *testing.T) {
	store := newTestStore(line("l", 0, 0, 100, 0))
	rc, sched := newResizeController(store)

	// Pointer-down next to (x2,y2).
	rc.Start(100, 0, HandleSE, []string{"l"}, false)
	rc.Update(90, 20, false)
	sched.Flush()

	el, _ := store.ElementByID("l")
	approx(t, "el.X1", el.X1, 0)
	approx(t, "el.Y1", el.Y1, 0)
	approx(t, "el.X2", el.X2, 90)
	approx(t, "el.Y2", el.Y2, 20)
}

func TestResizeScalesTextFont(t *testing.T) {
	txt := document.Element{
		ID: "t", Type: document.TypeText, Visible: true,
		X: 0, Y: 0, Width: 100, Height: 50, FontSize: 16,
	}
	store := newTestStore(txt)
	rc, sched := newResizeController(store)

	// sx=2, sy=1: the font follows the average scale.
	rc.Start(100, 50, HandleE, []string{"t"}, false)
	rc.Update(200, 50, false)
	sched.Flush()

	el, _ := store.ElementByID("t")
	approx(t, "el.Width", el.Width, 200)
	approx(t, "el.Height", el.Height, 50)
	approx(t, "el.FontSize", el.FontSize, 24)
}

func TestResizeZeroHeightSelectionStaysFinite(t *testing.T) {
	pl := document.Element{
		ID: "p", Type: document.TypePolyline, Visible: true,
		Points: []document.Point{{X: 0, Y: 0}, {X: 100, Y: 0}},
	}
	store := newTestStore(pl)
	rc, sched := newResizeController(store)

	rc.Start(100, 0, HandleE, []string{"p"}, false)
	rc.Update(150, 0, false)
	sched.Flush()

	el, _ := store.ElementByID("p")
	for i, p := range el.Points {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			t.Fatalf("point %d not finite: %+v", i, p)
		}
	}
	approx(t, "p.Points[1].X", el.Points[1].X, 150)
}

func TestResizeSnapCorrectsDraggedEdgeOnly(t *testing.T) {
	store := newTestStore(
		rect("m", 0, 0, 100, 100),
		rect("t", 153, 300, 100, 50),
	)
	store.settings.SnapToObjects = true
	rc, sched := newResizeController(store)

	rc.Start(100, 50, HandleE, []string{"m"}, false)
	rc.Update(151, 50, false)
	sched.Flush()

	el, _ := store.ElementByID("m")
	approx(t, "m.X", el.X, 0)
	approx(t, "m.Width", el.Width, 153)
	if len(store.guides) != 1 {
		t.Fatalf("guides = %+v", store.guides)
	}
}

func TestResizeNoGestureIsNoop(t *testing.T) {
	store := newTestStore(rect("a", 0, 0, 100, 100))
	rc, sched := newResizeController(store)

	rc.Update(10, 10, false)
	if sched.HasPending() {
		t.Fatal("Update without Start enqueued a batch")
	}
	if rc.Start(0, 0, HandleSE, nil, false) {
		t.Fatal("Start with empty selection should fail")
	}
}
