package engine

import "math"

// Bounds is an axis-aligned bounding box in world coordinates.
// Invariant: MinX <= MaxX, MinY <= MaxY, center is the midpoint.
type Bounds struct {
	MinX    float64 `json:"minX"`
	MinY    float64 `json:"minY"`
	MaxX    float64 `json:"maxX"`
	MaxY    float64 `json:"maxY"`
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
}

// NewBounds builds a Bounds, normalizing flipped extents.
func NewBounds(minX, minY, maxX, maxY float64) Bounds {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Bounds{
		MinX:    minX,
		MinY:    minY,
		MaxX:    maxX,
		MaxY:    maxY,
		CenterX: (minX + maxX) / 2,
		CenterY: (minY + maxY) / 2,
	}
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Union returns the smallest Bounds containing both boxes.
func (b Bounds) Union(other Bounds) Bounds {
	return NewBounds(
		math.Min(b.MinX, other.MinX),
		math.Min(b.MinY, other.MinY),
		math.Max(b.MaxX, other.MaxX),
		math.Max(b.MaxY, other.MaxY),
	)
}

// Translate returns the box shifted by (dx, dy).
func (b Bounds) Translate(dx, dy float64) Bounds {
	return NewBounds(b.MinX+dx, b.MinY+dy, b.MaxX+dx, b.MaxY+dy)
}

// Contains checks if a point is inside the box (edges inclusive).
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// IsFinite reports whether every field is a finite number.
func (b Bounds) IsFinite() bool {
	return isFinite(b.MinX) && isFinite(b.MinY) &&
		isFinite(b.MaxX) && isFinite(b.MaxY) &&
		isFinite(b.CenterX) && isFinite(b.CenterY)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// rotatePoint rotates (x, y) about (cx, cy) by the given angle in radians.
func rotatePoint(x, y, cx, cy, angle float64) (float64, float64) {
	sin := math.Sin(angle)
	cos := math.Cos(angle)
	dx := x - cx
	dy := y - cy
	return cx + dx*cos - dy*sin, cy + dx*sin + dy*cos
}
