package engine

import (
	"math"

	"github.com/linea-app/linea/backend-go/internal/document"
)

// rotateLeaf snapshots one leaf's rotation and anchor geometry at
// pointer-down.
type rotateLeaf struct {
	el document.Element
}

// RotateState is the ephemeral record of an active rotate gesture.
// The pivot is the center of the flattened selection's union AABB and
// never moves during the gesture.
type RotateState struct {
	pivotX, pivotY float64
	startAngle     float64
	lastAngle      float64
	accumulated    float64
	handle         Handle

	leaves []rotateLeaf

	// selection is exactly one group: only its rotation field moves
	soloGroupID       string
	soloGroupRotation float64

	// lone selected text rotates about its own anchor, not the pivot
	soloTextID       string
	soloTextRotation float64
}

// Pivot exposes the gesture pivot for introspection.
func (s *RotateState) Pivot() (float64, float64) { return s.pivotX, s.pivotY }

// RotateController owns the rotate gesture: atan2 deltas about a
// fixed pivot, per-type point rotation, and rotation accumulation
// without wrapping.
type RotateController struct {
	store  Store
	sched  *UpdateScheduler
	state  *RotateState
	handle Handle
}

func NewRotateController(store Store, sched *UpdateScheduler) *RotateController {
	return &RotateController{store: store, sched: sched}
}

// Start begins a rotation at the given world pointer position. The
// handle selects the cursor icon only; it has no geometric effect.
// Returns false, with no mutation, on an unboundable selection.
func (c *RotateController) Start(px, py float64, handle Handle, selection []string) bool {
	all := elementMap(c.store.Elements())
	leaves, _ := flattenSelection(selection, all)
	if len(leaves) == 0 {
		return false
	}

	union := GetBounds(&leaves[0], all)
	for i := 1; i < len(leaves); i++ {
		union = union.Union(GetBounds(&leaves[i], all))
	}

	startAngle := math.Atan2(py-union.CenterY, px-union.CenterX)
	state := &RotateState{
		pivotX:     union.CenterX,
		pivotY:     union.CenterY,
		startAngle: startAngle,
		lastAngle:  startAngle,
		handle:     handle,
	}

	if len(selection) == 1 {
		if el, ok := all[selection[0]]; ok {
			switch {
			case el.IsGroup():
				state.soloGroupID = el.ID
				state.soloGroupRotation = el.Rotation
			case el.Type == document.TypeText:
				state.soloTextID = el.ID
				state.soloTextRotation = el.Rotation
			}
		}
	}

	if state.soloGroupID == "" && state.soloTextID == "" {
		for i := range leaves {
			state.leaves = append(state.leaves, rotateLeaf{el: leaves[i]})
		}
	}

	c.state = state
	c.handle = handle
	return true
}

// Update recomputes the rotation from the current pointer position.
// The per-move delta is unwrapped so the accumulated angle crosses
// the ±π seam without jumping; stored rotations accumulate without
// wrapping. Safe to call with no active gesture.
func (c *RotateController) Update(px, py float64) {
	if c.state == nil {
		return
	}
	state := c.state

	angle := math.Atan2(py-state.pivotY, px-state.pivotX)
	step := normalizeAngle(angle - state.lastAngle)
	state.lastAngle = angle
	state.accumulated += step
	delta := state.accumulated

	if state.soloGroupID != "" {
		// The group's rotation field drives the whole subtree at
		// render time; children are not touched.
		c.sched.Enqueue(map[string]Patch{
			state.soloGroupID: {Rotation: ptr(state.soloGroupRotation + delta)},
		})
		return
	}

	if state.soloTextID != "" {
		// A lone text element spins about its own anchor.
		c.sched.Enqueue(map[string]Patch{
			state.soloTextID: {Rotation: ptr(state.soloTextRotation + delta)},
		})
		return
	}

	updates := make(map[string]Patch, len(state.leaves))
	for i := range state.leaves {
		el := &state.leaves[i].el
		updates[el.ID] = rotatePatch(el, state.pivotX, state.pivotY, delta)
	}
	c.sched.Enqueue(updates)
}

// End discards the ephemeral rotate state.
func (c *RotateController) End() {
	c.state = nil
}

// Active reports whether a rotate gesture is in progress.
func (c *RotateController) Active() bool { return c.state != nil }

// State exposes the gesture state for introspection in tests.
func (c *RotateController) State() *RotateState { return c.state }

// ActiveHandle returns the compass handle that initiated the gesture.
// It selects the cursor icon only.
func (c *RotateController) ActiveHandle() Handle { return c.handle }

// rotatePatch rotates a leaf's defining point(s) about the pivot and
// adds the delta to its stored rotation.
func rotatePatch(el *document.Element, pivotX, pivotY, delta float64) Patch {
	rotation := ptr(el.Rotation + delta)

	switch el.Type {
	case document.TypeEllipse:
		cx, cy := rotatePoint(el.CX, el.CY, pivotX, pivotY, delta)
		return Patch{CX: ptr(cx), CY: ptr(cy), Rotation: rotation}

	case document.TypeLine:
		x1, y1 := rotatePoint(el.X1, el.Y1, pivotX, pivotY, delta)
		x2, y2 := rotatePoint(el.X2, el.Y2, pivotX, pivotY, delta)
		return Patch{
			X1: ptr(x1), Y1: ptr(y1), X2: ptr(x2), Y2: ptr(y2),
			Rotation: rotation,
		}

	case document.TypePolygon, document.TypePolyline:
		points := make([]document.Point, len(el.Points))
		for i, p := range el.Points {
			x, y := rotatePoint(p.X, p.Y, pivotX, pivotY, delta)
			points[i] = document.Point{X: x, Y: y}
		}
		return Patch{Points: points, Rotation: rotation}

	default:
		// rect, image, text, path: rotate the center, keep the size.
		cx, cy := rotatePoint(el.X+el.Width/2, el.Y+el.Height/2, pivotX, pivotY, delta)
		return Patch{
			X: ptr(cx - el.Width/2), Y: ptr(cy - el.Height/2),
			Rotation: rotation,
		}
	}
}

// normalizeAngle maps an angle difference into (-π, π].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
