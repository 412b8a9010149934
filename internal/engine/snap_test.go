package engine

import (
	"math"
	"testing"

	"github.com/linea-app/linea/backend-go/internal/document"
)

func buildSnapState(excluded map[string]bool, elements ...document.Element) *SnapState {
	return CreateSnapState(elements, elementMap(elements), excluded)
}

func TestCreateSnapStateIndexesTopLevel(t *testing.T) {
	a := rect("a", 0, 0, 100, 50)
	child := withParent(rect("child", 10, 10, 10, 10), "g")
	g := group("g", "child")
	hidden := rect("hidden", 500, 500, 10, 10)
	hidden.Visible = false

	state := buildSnapState(nil, a, child, g, hidden)

	// a and g contribute three vertical lines each; child is not
	// top-level and hidden is invisible.
	if len(state.Vertical) != 6 {
		t.Fatalf("len(Vertical) = %d, want 6", len(state.Vertical))
	}
	if len(state.Horizontal) != 6 {
		t.Fatalf("len(Horizontal) = %d, want 6", len(state.Horizontal))
	}
	for i := 1; i < len(state.Vertical); i++ {
		if state.Vertical[i-1].Value > state.Vertical[i].Value {
			t.Fatal("Vertical not sorted")
		}
	}
	for _, ln := range state.Vertical {
		if ln.ElementID == "child" || ln.ElementID == "hidden" {
			t.Errorf("unexpected line owner %q", ln.ElementID)
		}
	}
	// Non-polygon elements contribute 4 corners + center.
	if len(state.Points) != 10 {
		t.Errorf("len(Points) = %d, want 10", len(state.Points))
	}
}

func TestCreateSnapStateExcludesMovedSet(t *testing.T) {
	a := rect("a", 0, 0, 100, 50)
	b := rect("b", 200, 0, 100, 50)

	state := buildSnapState(map[string]bool{"a": true}, a, b)
	for _, ln := range state.Vertical {
		if ln.ElementID == "a" {
			t.Fatal("excluded element leaked into index")
		}
	}
	if len(state.Vertical) != 3 {
		t.Errorf("len(Vertical) = %d, want 3", len(state.Vertical))
	}
}

func TestHasExcludedAncestor(t *testing.T) {
	inner := withParent(group("inner", "leaf"), "outer")
	leaf := withParent(rect("leaf", 0, 0, 10, 10), "inner")
	outer := group("outer", "inner")
	all := elementMap([]document.Element{leaf, inner, outer})

	if !hasExcludedAncestor(&leaf, all, map[string]bool{"outer": true}) {
		t.Error("grandparent exclusion not detected")
	}
	if hasExcludedAncestor(&leaf, all, map[string]bool{"other": true}) {
		t.Error("false positive")
	}
}

func TestPolygonSnapPointsAreVertices(t *testing.T) {
	poly := document.Element{
		ID: "p", Type: document.TypePolygon, Visible: true,
		Points: []document.Point{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 20, Y: 30}},
	}
	state := buildSnapState(nil, poly)
	if len(state.Points) != 3 {
		t.Fatalf("len(Points) = %d, want 3", len(state.Points))
	}
	if state.Points[2].X != 20 || state.Points[2].Y != 30 {
		t.Errorf("unexpected vertex %+v", state.Points[2])
	}
}

func TestAlignmentSnapWithinThreshold(t *testing.T) {
	target := rect("t", 103, 0, 100, 100)
	state := buildSnapState(nil, target)

	// Dragged box right edge at 101, 2 units from target's left edge.
	projected := NewBounds(1, 300, 101, 400)
	res := CalculateSnaps(projected, state, SnapConfig{Threshold: 5, ViewScale: 1, Objects: true})

	if !res.SnappedX {
		t.Fatal("expected X snap")
	}
	approx(t, "res.X", res.X, 2)
	if res.SnappedY {
		t.Error("unexpected Y snap")
	}
	if len(res.Guides) != 1 || res.Guides[0].Kind != GuideAlignment || res.Guides[0].Axis != AxisVertical {
		t.Fatalf("guides = %+v", res.Guides)
	}
	approx(t, "guide value", res.Guides[0].Value, 103)
	// Guide spans both shapes on the perpendicular axis.
	approx(t, "guide start", res.Guides[0].Start, 0)
	approx(t, "guide end", res.Guides[0].End, 400)
}

func TestAlignmentSnapOutsideThreshold(t *testing.T) {
	target := rect("t", 103, 0, 100, 100)
	state := buildSnapState(nil, target)

	projected := NewBounds(0, 300, 90, 400)
	res := CalculateSnaps(projected, state, SnapConfig{Threshold: 5, ViewScale: 1, Objects: true})
	if res.SnappedX || res.SnappedY {
		t.Errorf("unexpected snap: %+v", res)
	}
}

func TestSnapThresholdIsZoomInvariant(t *testing.T) {
	target := rect("t", 103, 0, 100, 100)
	state := buildSnapState(nil, target)

	// Right edge 3 world units away. At 1x that is inside the 5px
	// tolerance; at 2x the world tolerance shrinks to 2.5.
	projected := NewBounds(0, 0, 100, 100)

	res := CalculateSnaps(projected, state, SnapConfig{Threshold: 5, ViewScale: 1, Objects: true})
	if !res.SnappedX {
		t.Error("expected snap at 1x zoom")
	}

	res = CalculateSnaps(projected, state, SnapConfig{Threshold: 5, ViewScale: 2, Objects: true})
	if res.SnappedX {
		t.Error("unexpected snap at 2x zoom")
	}
}

func TestGridSnapFallback(t *testing.T) {
	state := buildSnapState(nil)

	projected := NewBounds(12, 18, 112, 118)
	res := CalculateSnaps(projected, state, SnapConfig{
		Threshold: 5, ViewScale: 1, Grid: true, GridSize: 10,
	})

	if !res.SnappedX || !res.SnappedY {
		t.Fatalf("expected grid snap on both axes: %+v", res)
	}
	approx(t, "res.X", res.X, -2)
	approx(t, "res.Y", res.Y, 2)
	if len(res.Guides) != 0 {
		t.Errorf("grid snapping should not emit guides, got %+v", res.Guides)
	}
}

func TestObjectHitSuppressesGridFallback(t *testing.T) {
	target := rect("t", 14, 200, 100, 50)
	state := buildSnapState(nil, target)

	// minX=12: object edge at 14 (offset +2) beats grid at 10 (-2).
	projected := NewBounds(12, 200, 112, 250)
	res := CalculateSnaps(projected, state, SnapConfig{
		Threshold: 5, ViewScale: 1, Objects: true, Grid: true, GridSize: 10,
	})
	if !res.SnappedX {
		t.Fatal("expected X snap")
	}
	approx(t, "res.X", res.X, 2)
}

func TestSpacingSnapEqualizesGaps(t *testing.T) {
	left := rect("left", 0, 0, 40, 100)
	right := rect("right", 160, 0, 40, 100)
	state := buildSnapState(nil, left, right)

	// Box [84,124]: gaps 44 and 36. Equalizing moves it by -4. The
	// vertical extent overlaps the neighbors without lining up with
	// any of their horizontal edges.
	projected := NewBounds(84, 20, 124, 60)
	res := CalculateSnaps(projected, state, SnapConfig{Threshold: 5, ViewScale: 1, Objects: true})

	if !res.SnappedX {
		t.Fatal("expected spacing snap")
	}
	approx(t, "res.X", res.X, -4)
	if len(res.Guides) != 2 {
		t.Fatalf("spacing should emit a guide pair, got %d", len(res.Guides))
	}
	for _, g := range res.Guides {
		if g.Kind != GuideSpacing {
			t.Errorf("guide kind = %q", g.Kind)
		}
		if g.Label != "40" {
			t.Errorf("guide label = %q, want 40", g.Label)
		}
	}
}

func TestSpacingIgnoresNonOverlappingNeighbors(t *testing.T) {
	// Same layout but the right element shares no vertical extent.
	left := rect("left", 0, 0, 40, 100)
	right := rect("right", 160, 300, 40, 100)
	state := buildSnapState(nil, left, right)

	projected := NewBounds(84, 0, 124, 100)
	res := CalculateSnaps(projected, state, SnapConfig{Threshold: 5, ViewScale: 1, Objects: true})
	if res.SnappedX {
		t.Errorf("unexpected snap: %+v", res)
	}
}

func TestAlignmentWinsTieAgainstSpacing(t *testing.T) {
	left := rect("left", 0, 0, 40, 100)
	right := rect("right", 160, 0, 40, 100)
	// Alignment-only neighbor: no vertical overlap with the dragged
	// box, so it never enters the spacing search. Its left edge at
	// 120 is exactly 4 from the dragged MaxX, tying the spacing
	// offset of -4.
	edge := rect("edge", 120, 300, 20, 20)
	state := buildSnapState(nil, left, right, edge)

	projected := NewBounds(84, 20, 124, 60)
	res := CalculateSnaps(projected, state, SnapConfig{Threshold: 5, ViewScale: 1, Objects: true})

	if !res.SnappedX {
		t.Fatal("expected snap")
	}
	approx(t, "res.X", res.X, -4)
	if len(res.Guides) != 1 || res.Guides[0].Kind != GuideAlignment {
		t.Fatalf("tie must go to alignment, got %+v", res.Guides)
	}
}

func TestGeometrySnapOverridesBothAxes(t *testing.T) {
	target := rect("t", 100, 100, 50, 50)
	state := buildSnapState(nil, target)

	// Dragged min corner at (98, 103): 2 right, 3 up to the target's
	// (100, 100) corner.
	projected := NewBounds(98, 103, 148, 153)
	res := CalculateSnaps(projected, state, SnapConfig{Threshold: 5, ViewScale: 1, Geometry: true})

	if !res.SnappedX || !res.SnappedY {
		t.Fatalf("expected 2-D snap: %+v", res)
	}
	approx(t, "res.X", res.X, 2)
	approx(t, "res.Y", res.Y, -3)
	if len(res.Guides) != 1 || res.Guides[0].Kind != GuidePoint {
		t.Fatalf("guides = %+v", res.Guides)
	}
	approx(t, "point x", res.Guides[0].X, 100)
	approx(t, "point y", res.Guides[0].Y, 100)
}

func TestGeometrySnapYieldsToCloserAxisHit(t *testing.T) {
	target := rect("t", 100, 100, 50, 50)
	state := buildSnapState(nil, target)

	// X alignment is 1 unit away; the best point match is sqrt(1+16)
	// away, so both axis results must survive.
	projected := NewBounds(99, 104, 149, 154)
	res := CalculateSnaps(projected, state, SnapConfig{
		Threshold: 5, ViewScale: 1, Objects: true, Geometry: true,
	})

	if !res.SnappedX {
		t.Fatal("expected X snap")
	}
	approx(t, "res.X", res.X, 1)
	for _, g := range res.Guides {
		if g.Kind == GuidePoint {
			t.Fatalf("geometry must not override a closer axis hit: %+v", res.Guides)
		}
	}
}

func TestCalculateSnapsNilState(t *testing.T) {
	res := CalculateSnaps(NewBounds(0, 0, 10, 10), nil, SnapConfig{Threshold: 5, Objects: true})
	if res.SnappedX || res.SnappedY || len(res.Guides) != 0 {
		t.Errorf("nil state should produce empty result: %+v", res)
	}
}

func TestNearestLineBinarySearch(t *testing.T) {
	lines := []SnapLine{
		{Value: 0}, {Value: 10}, {Value: 25}, {Value: 100}, {Value: 101},
	}

	tests := []struct {
		value     float64
		threshold float64
		want      float64
		found     bool
	}{
		{9, 5, 10, true},
		{12, 5, 10, true},
		{18, 5, 0, false},
		{100.4, 5, 100, true},
		{-4, 5, 0, true},
		{107, 5, 0, false},
	}
	for _, tt := range tests {
		got, ok := nearestLine(lines, tt.value, tt.threshold)
		if ok != tt.found {
			t.Errorf("nearestLine(%v): found = %v, want %v", tt.value, ok, tt.found)
			continue
		}
		if ok && math.Abs(got.Value-tt.want) > 1e-9 {
			t.Errorf("nearestLine(%v) = %v, want %v", tt.value, got.Value, tt.want)
		}
	}
}
