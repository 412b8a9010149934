package engine

import (
	"math"
	"testing"

	"github.com/linea-app/linea/backend-go/internal/document"
)

// testStore is a minimal Store over a flat element list, in paint
// order, for driving the gesture controllers.
type testStore struct {
	elements []document.Element
	settings SnapSettings
	guides   []Guide
}

func newTestStore(elements ...document.Element) *testStore {
	return &testStore{elements: elements, settings: SnapSettings{ViewScale: 1}}
}

func (s *testStore) ElementByID(id string) (document.Element, bool) {
	for _, el := range s.elements {
		if el.ID == id {
			return el, true
		}
	}
	return document.Element{}, false
}

func (s *testStore) Elements() []document.Element {
	out := make([]document.Element, len(s.elements))
	copy(out, s.elements)
	return out
}

func (s *testStore) ApplyUpdate(id string, patch Patch) {
	for i := range s.elements {
		if s.elements[i].ID == id {
			patch.ApplyTo(&s.elements[i])
			return
		}
	}
}

func (s *testStore) ApplyUpdates(updates map[string]Patch) {
	for id, patch := range updates {
		s.ApplyUpdate(id, patch)
	}
}

func (s *testStore) SnapSettings() SnapSettings    { return s.settings }
func (s *testStore) SetSmartGuides(guides []Guide) { s.guides = guides }

// nopResizer passes path data through unchanged.
type nopResizer struct{}

func (nopResizer) Resize(d string, oldBounds, newBounds Bounds) string { return d }

func rect(id string, x, y, w, h float64) document.Element {
	return document.Element{ID: id, Type: document.TypeRect, X: x, Y: y, Width: w, Height: h, Visible: true, Opacity: 1}
}

func ellipse(id string, cx, cy, rx, ry float64) document.Element {
	return document.Element{ID: id, Type: document.TypeEllipse, CX: cx, CY: cy, RX: rx, RY: ry, Visible: true, Opacity: 1}
}

func line(id string, x1, y1, x2, y2 float64) document.Element {
	return document.Element{ID: id, Type: document.TypeLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Visible: true, Opacity: 1}
}

func group(id string, childIDs ...string) document.Element {
	return document.Element{ID: id, Type: document.TypeGroup, ChildIDs: childIDs, Visible: true, Opacity: 1}
}

func withParent(el document.Element, parentID string) document.Element {
	el.ParentID = &parentID
	return el
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func approxTol(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (tol %v)", name, got, want, tol)
	}
}
