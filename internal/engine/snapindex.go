package engine

import (
	"sort"

	"github.com/linea-app/linea/backend-go/internal/document"
)

// SnapEdge identifies which edge of its owner a snap line came from.
type SnapEdge int

const (
	EdgeStart SnapEdge = iota // minX / minY
	EdgeCenter
	EdgeEnd // maxX / maxY
)

// SnapLine is one candidate coordinate an edge or center may lock
// onto. RangeStart/RangeEnd carry the owner's extent on the
// perpendicular axis so guide segments can span both shapes.
type SnapLine struct {
	Value      float64
	Edge       SnapEdge
	RangeStart float64
	RangeEnd   float64
	ElementID  string
}

// SnapPoint is an indexed point for geometry snapping.
type SnapPoint struct {
	X, Y      float64
	ElementID string
}

// ElementBounds pairs an element ID with its cached bounds.
type ElementBounds struct {
	ID     string
	Bounds Bounds
}

// SnapState is the per-gesture snap index. It is built once at
// pointer-down, excluding the moved element set and all of its
// descendants, and discarded at pointer-up.
type SnapState struct {
	Vertical   []SnapLine // sorted by Value
	Horizontal []SnapLine // sorted by Value
	XSorted    []ElementBounds
	YSorted    []ElementBounds
	Points     []SnapPoint
}

// CreateSnapState scans the scene's top-level elements into sorted
// snap-line arrays, spacing-search bound lists, and a flat point list.
// Excluded IDs, and any element whose ancestor chain contains an
// excluded ID, never enter the index.
func CreateSnapState(elements []document.Element, allElements map[string]document.Element, excludeIDs map[string]bool) *SnapState {
	state := &SnapState{}

	for i := range elements {
		el := &elements[i]
		if el.ParentID != nil || !el.Visible {
			continue
		}
		if excludeIDs[el.ID] || hasExcludedAncestor(el, allElements, excludeIDs) {
			continue
		}

		b := GetBounds(el, allElements)

		state.Vertical = append(state.Vertical,
			SnapLine{Value: b.MinX, Edge: EdgeStart, RangeStart: b.MinY, RangeEnd: b.MaxY, ElementID: el.ID},
			SnapLine{Value: b.CenterX, Edge: EdgeCenter, RangeStart: b.MinY, RangeEnd: b.MaxY, ElementID: el.ID},
			SnapLine{Value: b.MaxX, Edge: EdgeEnd, RangeStart: b.MinY, RangeEnd: b.MaxY, ElementID: el.ID},
		)
		state.Horizontal = append(state.Horizontal,
			SnapLine{Value: b.MinY, Edge: EdgeStart, RangeStart: b.MinX, RangeEnd: b.MaxX, ElementID: el.ID},
			SnapLine{Value: b.CenterY, Edge: EdgeCenter, RangeStart: b.MinX, RangeEnd: b.MaxX, ElementID: el.ID},
			SnapLine{Value: b.MaxY, Edge: EdgeEnd, RangeStart: b.MinX, RangeEnd: b.MaxX, ElementID: el.ID},
		)

		state.XSorted = append(state.XSorted, ElementBounds{ID: el.ID, Bounds: b})
		state.YSorted = append(state.YSorted, ElementBounds{ID: el.ID, Bounds: b})

		state.Points = append(state.Points, snapPointsFor(el, b)...)
	}

	sort.Slice(state.Vertical, func(i, j int) bool {
		return state.Vertical[i].Value < state.Vertical[j].Value
	})
	sort.Slice(state.Horizontal, func(i, j int) bool {
		return state.Horizontal[i].Value < state.Horizontal[j].Value
	})
	sort.Slice(state.XSorted, func(i, j int) bool {
		return state.XSorted[i].Bounds.MinX < state.XSorted[j].Bounds.MinX
	})
	sort.Slice(state.YSorted, func(i, j int) bool {
		return state.YSorted[i].Bounds.MinY < state.YSorted[j].Bounds.MinY
	})

	return state
}

// snapPointsFor returns the geometry-snap points of an element: raw
// vertices for polygons and polylines, otherwise the four bound
// corners plus the center.
func snapPointsFor(el *document.Element, b Bounds) []SnapPoint {
	if el.Type == document.TypePolygon || el.Type == document.TypePolyline {
		points := make([]SnapPoint, len(el.Points))
		for i, p := range el.Points {
			points[i] = SnapPoint{X: p.X, Y: p.Y, ElementID: el.ID}
		}
		return points
	}

	return []SnapPoint{
		{X: b.MinX, Y: b.MinY, ElementID: el.ID},
		{X: b.MaxX, Y: b.MinY, ElementID: el.ID},
		{X: b.MaxX, Y: b.MaxY, ElementID: el.ID},
		{X: b.MinX, Y: b.MaxY, ElementID: el.ID},
		{X: b.CenterX, Y: b.CenterY, ElementID: el.ID},
	}
}

func hasExcludedAncestor(el *document.Element, allElements map[string]document.Element, excludeIDs map[string]bool) bool {
	parent := el.ParentID
	for parent != nil {
		if excludeIDs[*parent] {
			return true
		}
		p, ok := allElements[*parent]
		if !ok {
			return false
		}
		parent = p.ParentID
	}
	return false
}
