package engine

import "github.com/linea-app/linea/backend-go/internal/document"

// dragLeaf records the defining coordinates of one moved leaf at
// pointer-down. Which fields are meaningful depends on the type.
type dragLeaf struct {
	id     string
	typ    document.ElementType
	x, y   float64
	cx, cy float64
	x1, y1 float64
	x2, y2 float64
	points []document.Point
}

// DragState is the ephemeral, single-owner record of an active drag.
// It is read-only for the gesture's duration and discarded at
// pointer-up or cancel.
type DragState struct {
	startX, startY float64
	leaves         []dragLeaf
	originalBounds Bounds
	snap           *SnapState
}

// OriginalBounds exposes the union AABB recorded at gesture start.
func (s *DragState) OriginalBounds() Bounds { return s.originalBounds }

// DragController owns the drag gesture: flattening the selection,
// consulting the snap resolver, and emitting batched translations.
type DragController struct {
	store Store
	sched *UpdateScheduler
	state *DragState
}

func NewDragController(store Store, sched *UpdateScheduler) *DragController {
	return &DragController{store: store, sched: sched}
}

// Start begins a drag at the given world-space pointer position.
// Returns false, with no mutation, if the selection has no resolvable
// bounds.
func (c *DragController) Start(px, py float64, selection []string) bool {
	all := elementMap(c.store.Elements())
	leaves, touched := flattenSelection(selection, all)
	if len(leaves) == 0 {
		return false
	}

	state := &DragState{startX: px, startY: py}
	first := true
	for i := range leaves {
		leaf := &leaves[i]
		state.leaves = append(state.leaves, recordDragLeaf(leaf))

		b := GetBounds(leaf, all)
		if first {
			state.originalBounds = b
			first = false
		} else {
			state.originalBounds = state.originalBounds.Union(b)
		}
	}

	state.snap = CreateSnapState(c.store.Elements(), all, touched)
	c.state = state
	return true
}

// Update recomputes the drag from the current pointer position and
// enqueues one batched update. Safe to call with no active gesture.
func (c *DragController) Update(px, py float64) {
	if c.state == nil {
		return
	}

	dx := px - c.state.startX
	dy := py - c.state.startY

	settings := c.store.SnapSettings()
	var guides []Guide
	if settings.Enabled() {
		projected := c.state.originalBounds.Translate(dx, dy)
		res := CalculateSnaps(projected, c.state.snap, SnapConfig{
			Threshold: DefaultSnapThreshold,
			ViewScale: settings.ViewScale,
			GridSize:  settings.GridSize,
			Objects:   settings.SnapToObjects,
			Grid:      settings.SnapToGrid,
			Geometry:  settings.SnapToGeometry,
		})
		dx += res.X
		dy += res.Y
		guides = res.Guides
	}
	c.store.SetSmartGuides(guides)

	updates := make(map[string]Patch, len(c.state.leaves))
	for i := range c.state.leaves {
		leaf := &c.state.leaves[i]
		updates[leaf.id] = translatePatch(leaf, dx, dy)
	}
	c.sched.Enqueue(updates)
}

// End discards the ephemeral drag state.
func (c *DragController) End() {
	c.state = nil
	c.store.SetSmartGuides(nil)
}

// Active reports whether a drag gesture is in progress.
func (c *DragController) Active() bool { return c.state != nil }

// State exposes the gesture state for introspection in tests.
func (c *DragController) State() *DragState { return c.state }

func recordDragLeaf(el *document.Element) dragLeaf {
	leaf := dragLeaf{id: el.ID, typ: el.Type}
	switch el.Type {
	case document.TypeEllipse:
		leaf.cx, leaf.cy = el.CX, el.CY
	case document.TypeLine:
		leaf.x1, leaf.y1 = el.X1, el.Y1
		leaf.x2, leaf.y2 = el.X2, el.Y2
	case document.TypePolygon, document.TypePolyline:
		leaf.points = make([]document.Point, len(el.Points))
		copy(leaf.points, el.Points)
	default:
		leaf.x, leaf.y = el.X, el.Y
	}
	return leaf
}

// translatePatch applies the final delta per the leaf type's update
// rule: x/y origin, center, both endpoints, or every vertex.
func translatePatch(leaf *dragLeaf, dx, dy float64) Patch {
	switch leaf.typ {
	case document.TypeEllipse:
		return Patch{CX: ptr(leaf.cx + dx), CY: ptr(leaf.cy + dy)}
	case document.TypeLine:
		return Patch{
			X1: ptr(leaf.x1 + dx), Y1: ptr(leaf.y1 + dy),
			X2: ptr(leaf.x2 + dx), Y2: ptr(leaf.y2 + dy),
		}
	case document.TypePolygon, document.TypePolyline:
		moved := make([]document.Point, len(leaf.points))
		for i, p := range leaf.points {
			moved[i] = document.Point{X: p.X + dx, Y: p.Y + dy}
		}
		return Patch{Points: moved}
	default:
		return Patch{X: ptr(leaf.x + dx), Y: ptr(leaf.y + dy)}
	}
}
