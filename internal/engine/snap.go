package engine

import (
	"fmt"
	"math"
	"sort"
)

// DefaultSnapThreshold is the on-screen snap tolerance in pixels.
const DefaultSnapThreshold = 5.0

// Guide kinds and axes, as the frontend renders them.
const (
	GuideAlignment = "alignment"
	GuideSpacing   = "spacing"
	GuidePoint     = "point"

	AxisVertical   = "vertical"
	AxisHorizontal = "horizontal"
)

// Guide is a renderable smart-guide artifact produced by a snap.
// For alignment guides Value is the line coordinate on Axis and
// Start/End span the perpendicular extent of both shapes. Spacing
// guides additionally carry a Label with the gap size. Point guides
// mark a 2-D geometry match at (X, Y).
type Guide struct {
	Kind  string  `json:"kind"`
	Axis  string  `json:"axis,omitempty"`
	Value float64 `json:"value,omitempty"`
	Start float64 `json:"start,omitempty"`
	End   float64 `json:"end,omitempty"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
}

// SnapConfig controls one resolver call. Threshold is in screen
// pixels; it is divided by ViewScale so the felt tolerance is
// zoom-invariant.
type SnapConfig struct {
	Threshold float64
	ViewScale float64
	GridSize  float64
	Objects   bool
	Grid      bool
	Geometry  bool
}

// SnapResult is the resolver's output: additive corrections to the
// caller's unsnapped delta, plus the guides to render.
type SnapResult struct {
	X        float64
	Y        float64
	SnappedX bool
	SnappedY bool
	Guides   []Guide
}

// axisHit is one axis's best object-level snap candidate.
type axisHit struct {
	offset float64
	guide  Guide
	pair   *Guide // second guide of a spacing pair
	ok     bool
}

// CalculateSnaps resolves snapping for a projected box against the
// per-gesture index. Each axis is resolved independently: alignment
// and spacing compete by |offset|, grid is the fallback when neither
// object-level candidate is in threshold, and a 2-D geometry match
// overrides both axes only when its Euclidean distance beats each
// axis's own offset.
func CalculateSnaps(projected Bounds, state *SnapState, cfg SnapConfig) SnapResult {
	var result SnapResult
	if state == nil {
		return result
	}

	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultSnapThreshold
	}
	if cfg.ViewScale > 0 {
		threshold /= cfg.ViewScale
	}

	var xHit, yHit axisHit
	if cfg.Objects {
		xHit = resolveAxis(projected, state, threshold, true)
		yHit = resolveAxis(projected, state, threshold, false)
	}

	if xHit.ok {
		result.X = xHit.offset
		result.SnappedX = true
		result.Guides = append(result.Guides, xHit.guide)
		if xHit.pair != nil {
			result.Guides = append(result.Guides, *xHit.pair)
		}
	} else if cfg.Grid && cfg.GridSize > 0 {
		if off, ok := gridOffset(projected.MinX, cfg.GridSize, threshold); ok {
			result.X = off
			result.SnappedX = true
		}
	}

	if yHit.ok {
		result.Y = yHit.offset
		result.SnappedY = true
		result.Guides = append(result.Guides, yHit.guide)
		if yHit.pair != nil {
			result.Guides = append(result.Guides, *yHit.pair)
		}
	} else if cfg.Grid && cfg.GridSize > 0 {
		if off, ok := gridOffset(projected.MinY, cfg.GridSize, threshold); ok {
			result.Y = off
			result.SnappedY = true
		}
	}

	if cfg.Geometry {
		applyGeometrySnap(projected, state, threshold, &result)
	}

	return result
}

// resolveAxis picks the best object-level snap on one axis:
// the globally closest alignment hit and the equal-gap spacing hit
// compete by smaller |offset|, alignment winning ties.
func resolveAxis(projected Bounds, state *SnapState, threshold float64, vertical bool) axisHit {
	align := alignmentHit(projected, state, threshold, vertical)
	space := spacingHit(projected, state, threshold, vertical)

	switch {
	case align.ok && space.ok:
		if math.Abs(space.offset) < math.Abs(align.offset) {
			return space
		}
		return align
	case align.ok:
		return align
	default:
		return space
	}
}

// alignmentHit binary-searches the sorted line array for the closest
// in-threshold value for each of the box's three candidate edges and
// keeps the globally closest hit.
func alignmentHit(projected Bounds, state *SnapState, threshold float64, vertical bool) axisHit {
	lines := state.Vertical
	candidates := [3]float64{projected.MinX, projected.CenterX, projected.MaxX}
	selfStart, selfEnd := projected.MinY, projected.MaxY
	if !vertical {
		lines = state.Horizontal
		candidates = [3]float64{projected.MinY, projected.CenterY, projected.MaxY}
		selfStart, selfEnd = projected.MinX, projected.MaxX
	}
	if len(lines) == 0 {
		return axisHit{}
	}

	best := axisHit{}
	bestDist := math.Inf(1)

	for _, candidate := range candidates {
		line, ok := nearestLine(lines, candidate, threshold)
		if !ok {
			continue
		}
		dist := math.Abs(line.Value - candidate)
		if dist >= bestDist {
			continue
		}
		bestDist = dist

		axis := AxisVertical
		if !vertical {
			axis = AxisHorizontal
		}
		best = axisHit{
			offset: line.Value - candidate,
			ok:     true,
			guide: Guide{
				Kind:  GuideAlignment,
				Axis:  axis,
				Value: line.Value,
				Start: math.Min(selfStart, line.RangeStart),
				End:   math.Max(selfEnd, line.RangeEnd),
			},
		}
	}

	return best
}

// nearestLine finds the in-threshold line closest to value in a
// Value-sorted slice.
func nearestLine(lines []SnapLine, value, threshold float64) (SnapLine, bool) {
	idx := sort.Search(len(lines), func(i int) bool {
		return lines[i].Value >= value
	})

	best := SnapLine{}
	bestDist := math.Inf(1)
	found := false

	for _, i := range [2]int{idx - 1, idx} {
		if i < 0 || i >= len(lines) {
			continue
		}
		dist := math.Abs(lines[i].Value - value)
		if dist <= threshold && dist < bestDist {
			best = lines[i]
			bestDist = dist
			found = true
		}
	}

	return best, found
}

// spacingHit looks for the position that equalizes the gaps to the
// nearest overlapping neighbor on each side of the box.
func spacingHit(projected Bounds, state *SnapState, threshold float64, vertical bool) axisHit {
	var before, after *ElementBounds

	if vertical {
		for i := range state.XSorted {
			eb := &state.XSorted[i]
			if !overlaps(eb.Bounds.MinY, eb.Bounds.MaxY, projected.MinY, projected.MaxY) {
				continue
			}
			if eb.Bounds.MaxX <= projected.MinX {
				if before == nil || eb.Bounds.MaxX > before.Bounds.MaxX {
					before = eb
				}
			} else if eb.Bounds.MinX >= projected.MaxX {
				if after == nil || eb.Bounds.MinX < after.Bounds.MinX {
					after = eb
				}
			}
		}
	} else {
		for i := range state.YSorted {
			eb := &state.YSorted[i]
			if !overlaps(eb.Bounds.MinX, eb.Bounds.MaxX, projected.MinX, projected.MaxX) {
				continue
			}
			if eb.Bounds.MaxY <= projected.MinY {
				if before == nil || eb.Bounds.MaxY > before.Bounds.MaxY {
					before = eb
				}
			} else if eb.Bounds.MinY >= projected.MaxY {
				if after == nil || eb.Bounds.MinY < after.Bounds.MinY {
					after = eb
				}
			}
		}
	}

	if before == nil || after == nil {
		return axisHit{}
	}

	var gapBefore, gapAfter float64
	if vertical {
		gapBefore = projected.MinX - before.Bounds.MaxX
		gapAfter = after.Bounds.MinX - projected.MaxX
	} else {
		gapBefore = projected.MinY - before.Bounds.MaxY
		gapAfter = after.Bounds.MinY - projected.MaxY
	}

	offset := (gapAfter - gapBefore) / 2
	if math.Abs(offset) > threshold {
		return axisHit{}
	}
	gap := (gapBefore + gapAfter) / 2
	label := fmt.Sprintf("%.0f", gap)

	// Guides run along the snap axis, centered on the shared overlap.
	axis := AxisHorizontal
	if !vertical {
		axis = AxisVertical
	}
	var mid float64
	if vertical {
		mid = (math.Max(before.Bounds.MinY, projected.MinY) + math.Min(before.Bounds.MaxY, projected.MaxY)) / 2
	} else {
		mid = (math.Max(before.Bounds.MinX, projected.MinX) + math.Min(before.Bounds.MaxX, projected.MaxX)) / 2
	}

	var g1, g2 Guide
	if vertical {
		g1 = Guide{Kind: GuideSpacing, Axis: axis, Value: mid, Start: before.Bounds.MaxX, End: projected.MinX + offset, Label: label}
		g2 = Guide{Kind: GuideSpacing, Axis: axis, Value: mid, Start: projected.MaxX + offset, End: after.Bounds.MinX, Label: label}
	} else {
		g1 = Guide{Kind: GuideSpacing, Axis: axis, Value: mid, Start: before.Bounds.MaxY, End: projected.MinY + offset, Label: label}
		g2 = Guide{Kind: GuideSpacing, Axis: axis, Value: mid, Start: projected.MaxY + offset, End: after.Bounds.MinY, Label: label}
	}

	// Spacing emits a pair of guides; the second rides along in the
	// axisHit and is split back out by the caller via guidePair.
	return axisHit{offset: offset, ok: true, guide: g1, pair: &g2}
}

// overlaps reports whether two 1-D ranges share any extent.
func overlaps(aMin, aMax, bMin, bMax float64) bool {
	return aMin < bMax && aMax > bMin
}

// gridOffset rounds a coordinate to the nearest grid multiple and
// returns the correction if it is within threshold.
func gridOffset(value, gridSize, threshold float64) (float64, bool) {
	snapped := math.Round(value/gridSize) * gridSize
	offset := snapped - value
	if math.Abs(offset) > threshold {
		return 0, false
	}
	return offset, true
}

// applyGeometrySnap compares the box's five candidate self-points
// against the indexed points. A match replaces both per-axis results
// only when its combined Euclidean distance is smaller than each
// axis's own offset (a missing axis result counts as infinite).
func applyGeometrySnap(projected Bounds, state *SnapState, threshold float64, result *SnapResult) {
	selfPoints := [5][2]float64{
		{projected.MinX, projected.MinY},
		{projected.MaxX, projected.MinY},
		{projected.MaxX, projected.MaxY},
		{projected.MinX, projected.MaxY},
		{projected.CenterX, projected.CenterY},
	}

	bestDist := math.Inf(1)
	var bestDX, bestDY float64
	var bestPoint SnapPoint
	found := false

	for _, p := range state.Points {
		for _, s := range selfPoints {
			dx := p.X - s[0]
			dy := p.Y - s[1]
			if math.Abs(dx) > threshold || math.Abs(dy) > threshold {
				continue
			}
			dist := math.Hypot(dx, dy)
			if dist < bestDist {
				bestDist = dist
				bestDX, bestDY = dx, dy
				bestPoint = p
				found = true
			}
		}
	}

	if !found {
		return
	}

	xDist := math.Inf(1)
	if result.SnappedX {
		xDist = math.Abs(result.X)
	}
	yDist := math.Inf(1)
	if result.SnappedY {
		yDist = math.Abs(result.Y)
	}
	if bestDist >= xDist || bestDist >= yDist {
		return
	}

	result.X = bestDX
	result.Y = bestDY
	result.SnappedX = true
	result.SnappedY = true
	result.Guides = []Guide{{Kind: GuidePoint, X: bestPoint.X, Y: bestPoint.Y}}
}
