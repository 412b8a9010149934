package engine

import (
	"math"

	"github.com/linea-app/linea/backend-go/internal/document"
)

// GetBounds computes the axis-aligned bounding box of an element.
// Leaf elements' own rotation is NOT folded into the result; only a
// group's rotation is applied, by rotating the union of its children
// about the union center and re-enclosing. allElements is needed to
// resolve group children.
func GetBounds(el *document.Element, allElements map[string]document.Element) Bounds {
	switch el.Type {
	case document.TypeRect, document.TypeImage, document.TypePath, document.TypeText:
		return NewBounds(el.X, el.Y, el.X+el.Width, el.Y+el.Height)

	case document.TypeEllipse:
		return NewBounds(el.CX-el.RX, el.CY-el.RY, el.CX+el.RX, el.CY+el.RY)

	case document.TypeLine:
		return NewBounds(
			math.Min(el.X1, el.X2),
			math.Min(el.Y1, el.Y2),
			math.Max(el.X1, el.X2),
			math.Max(el.Y1, el.Y2),
		)

	case document.TypePolygon, document.TypePolyline:
		if len(el.Points) == 0 {
			return Bounds{}
		}
		minX, minY := el.Points[0].X, el.Points[0].Y
		maxX, maxY := minX, minY
		for _, p := range el.Points[1:] {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
		return NewBounds(minX, minY, maxX, maxY)

	case document.TypeGroup:
		return groupBounds(el, allElements)

	default:
		return Bounds{}
	}
}

// groupBounds unions child bounds recursively. A group with no
// resolvable children yields a zero box.
func groupBounds(group *document.Element, allElements map[string]document.Element) Bounds {
	var union Bounds
	first := true

	for _, childID := range group.ChildIDs {
		child, ok := allElements[childID]
		if !ok {
			continue
		}
		b := GetBounds(&child, allElements)
		if first {
			union = b
			first = false
		} else {
			union = union.Union(b)
		}
	}

	if first {
		return Bounds{}
	}

	if group.Rotation != 0 {
		// The one place a rotation is folded into an AABB: rotate the
		// union's corners about its own center and re-enclose.
		union = RotateAbout(group.Rotation, union.CenterX, union.CenterY).TransformBounds(union)
	}

	return union
}

// elementMap indexes a slice of elements by ID.
func elementMap(elements []document.Element) map[string]document.Element {
	m := make(map[string]document.Element, len(elements))
	for _, el := range elements {
		m[el.ID] = el
	}
	return m
}
