package engine

import (
	"math"
	"strings"

	"github.com/linea-app/linea/backend-go/internal/document"
)

// Handle names the compass position of a resize/rotate handle.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// signX is +1 for east handles, -1 for west, 0 for pure n/s.
func (h Handle) signX() float64 {
	if strings.Contains(string(h), "e") {
		return 1
	}
	if strings.Contains(string(h), "w") {
		return -1
	}
	return 0
}

// signY is +1 for south handles, -1 for north, 0 for pure e/w.
func (h Handle) signY() float64 {
	if strings.Contains(string(h), "s") {
		return 1
	}
	if strings.Contains(string(h), "n") {
		return -1
	}
	return 0
}

func (h Handle) isCorner() bool {
	return h.signX() != 0 && h.signY() != 0
}

// resizeLeaf is a full snapshot of one leaf's original geometry.
type resizeLeaf struct {
	el document.Element
	b  Bounds
}

// ResizeState is the ephemeral record of an active resize gesture.
// The mode is selected once at pointer-down and never changes.
type ResizeState struct {
	startX, startY float64
	handle         Handle
	aspectLocked   bool

	// single-rotated mode: one non-group element with nonzero
	// rotation, or a line
	single       *document.Element
	singleBounds Bounds
	lineSecond   bool // dragging (x2,y2) rather than (x1,y1)

	// world mode: multi-element / group proportional remap
	world          bool
	leaves         []resizeLeaf
	originalBounds Bounds
	snap           *SnapState
}

// Handle exposes the active handle for introspection.
func (s *ResizeState) Handle() Handle { return s.handle }

// OriginalBounds exposes the union AABB recorded at gesture start.
func (s *ResizeState) OriginalBounds() Bounds { return s.originalBounds }

// ResizeController owns the resize gesture. A single rotated element
// is resized in its local (unrotated) frame with the anchor solved in
// world space; everything else goes through a proportional remap of
// the selection's union AABB.
type ResizeController struct {
	store   Store
	sched   *UpdateScheduler
	resizer PathResizer
	state   *ResizeState
}

func NewResizeController(store Store, sched *UpdateScheduler, resizer PathResizer) *ResizeController {
	return &ResizeController{store: store, sched: sched, resizer: resizer}
}

// Start begins a resize at the given world pointer position.
// aspectLocked is the persisted lock flag; a live shift key is passed
// per Update. Returns false, with no mutation, on an unboundable
// selection.
func (c *ResizeController) Start(px, py float64, handle Handle, selection []string, aspectLocked bool) bool {
	all := elementMap(c.store.Elements())

	if len(selection) == 1 {
		if el, ok := all[selection[0]]; ok && !el.IsGroup() && (el.Rotation != 0 || el.Type == document.TypeLine) {
			snapshot := el
			state := &ResizeState{
				startX: px, startY: py,
				handle:       handle,
				aspectLocked: aspectLocked,
				single:       &snapshot,
				singleBounds: GetBounds(&snapshot, all),
			}
			if el.Type == document.TypeLine {
				d1 := math.Hypot(px-el.X1, py-el.Y1)
				d2 := math.Hypot(px-el.X2, py-el.Y2)
				state.lineSecond = d2 < d1
			}
			state.originalBounds = state.singleBounds
			c.state = state
			return true
		}
	}

	leaves, touched := flattenSelection(selection, all)
	if len(leaves) == 0 {
		return false
	}

	state := &ResizeState{
		startX: px, startY: py,
		handle:       handle,
		aspectLocked: aspectLocked,
		world:        true,
	}
	first := true
	for i := range leaves {
		b := GetBounds(&leaves[i], all)
		state.leaves = append(state.leaves, resizeLeaf{el: leaves[i], b: b})
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

// Update recomputes the resize from the current pointer position and
// enqueues the resulting updates. Safe to call with no active gesture.
func (c *ResizeController) Update(px, py float64, shiftKey bool) {
	if c.state == nil {
		return
	}

	dx := px - c.state.startX
	dy := py - c.state.startY
	locked := c.state.aspectLocked || shiftKey

	if c.state.world {
		c.updateWorld(dx, dy, locked)
		return
	}
	if c.state.single.Type == document.TypeLine {
		c.updateLineEndpoint(dx, dy)
		return
	}
	c.updateSingleRotated(dx, dy, locked)
}

// End discards the ephemeral resize state.
func (c *ResizeController) End() {
	c.state = nil
	c.store.SetSmartGuides(nil)
}

// Active reports whether a resize gesture is in progress.
func (c *ResizeController) Active() bool { return c.state != nil }

// State exposes the gesture state for introspection in tests.
func (c *ResizeController) State() *ResizeState { return c.state }

// updateLineEndpoint free-drags the single endpoint under the active
// handle.
func (c *ResizeController) updateLineEndpoint(dx, dy float64) {
	el := c.state.single
	var patch Patch
	if c.state.lineSecond {
		patch = Patch{X2: ptr(el.X2 + dx), Y2: ptr(el.Y2 + dy)}
	} else {
		patch = Patch{X1: ptr(el.X1 + dx), Y1: ptr(el.Y1 + dy)}
	}
	c.sched.Enqueue(map[string]Patch{el.ID: patch})
}

// updateSingleRotated resizes one rotated element in its local frame:
// the world delta is rotated by -rotation, width/height grow per the
// active handle, and the new center is solved so the anchor (the
// corner or edge opposite the handle, computed from the original
// geometry) stays fixed in world space.
func (c *ResizeController) updateSingleRotated(dx, dy float64, locked bool) {
	el := c.state.single
	handle := c.state.handle

	var w0, h0, cx0, cy0 float64
	switch el.Type {
	case document.TypeEllipse:
		w0, h0 = 2*el.RX, 2*el.RY
		cx0, cy0 = el.CX, el.CY
	default:
		w0, h0 = el.Width, el.Height
		cx0, cy0 = el.X+el.Width/2, el.Y+el.Height/2
	}

	rot := Rotate(el.Rotation)
	ldx, ldy := rot.Invert().TransformVector(dx, dy)

	sx := handle.signX()
	sy := handle.signY()
	newW := w0 + sx*ldx
	newH := h0 + sy*ldy

	if locked && w0 > 0 && h0 > 0 {
		aspect := w0 / h0
		if xDrivesAspect(handle, ldx, ldy, aspect) {
			newH = newW / aspect
		} else {
			newW = newH * aspect
		}
	}

	// Clamping pins the dragged side near the anchor; the handle can
	// never cross it.
	if newW < MinElementSize {
		newW = MinElementSize
	}
	if newH < MinElementSize {
		newH = MinElementSize
	}

	// The anchor is the point opposite the handle, in world space,
	// from the original geometry.
	anchorWX, anchorWY := rot.TransformVector(-sx*w0/2, -sy*h0/2)
	anchorWX += cx0
	anchorWY += cy0

	// Solve the new center so the anchor stays fixed.
	offX, offY := rot.TransformVector(sx*newW/2, sy*newH/2)
	cx := anchorWX + offX
	cy := anchorWY + offY

	var patch Patch
	switch el.Type {
	case document.TypeEllipse:
		patch = Patch{CX: ptr(cx), CY: ptr(cy), RX: ptr(newW / 2), RY: ptr(newH / 2)}
	case document.TypePath:
		newBounds := NewBounds(cx-newW/2, cy-newH/2, cx+newW/2, cy+newH/2)
		oldBounds := NewBounds(el.X, el.Y, el.X+el.Width, el.Y+el.Height)
		patch = Patch{
			X: ptr(newBounds.MinX), Y: ptr(newBounds.MinY),
			Width: ptr(newW), Height: ptr(newH),
			D: strPtr(c.resizer.Resize(el.D, oldBounds, newBounds)),
		}
	default:
		patch = Patch{
			X: ptr(cx - newW/2), Y: ptr(cy - newH/2),
			Width: ptr(newW), Height: ptr(newH),
		}
	}
	c.sched.Enqueue(map[string]Patch{el.ID: patch})
}

// updateWorld derives the new target AABB from the handle in world
// space and remaps every leaf proportionally into it.
func (c *ResizeController) updateWorld(dx, dy float64, locked bool) {
	state := c.state
	o := state.originalBounds
	handle := state.handle
	minX, minY, maxX, maxY := o.MinX, o.MinY, o.MaxX, o.MaxY

	sx := handle.signX()
	sy := handle.signY()
	switch {
	case sx > 0:
		maxX += dx
	case sx < 0:
		minX += dx
	}
	switch {
	case sy > 0:
		maxY += dy
	case sy < 0:
		minY += dy
	}

	settings := c.store.SnapSettings()
	var guides []Guide
	if settings.Enabled() && state.snap != nil {
		res := CalculateSnaps(NewBounds(minX, minY, maxX, maxY), state.snap, SnapConfig{
			Threshold: DefaultSnapThreshold,
			ViewScale: settings.ViewScale,
			GridSize:  settings.GridSize,
			Objects:   settings.SnapToObjects,
			Grid:      settings.SnapToGrid,
			Geometry:  settings.SnapToGeometry,
		})
		// Corrections only move the dragged edges; the anchor never
		// shifts.
		if res.SnappedX && sx != 0 {
			if sx > 0 {
				maxX += res.X
			} else {
				minX += res.X
			}
		}
		if res.SnappedY && sy != 0 {
			if sy > 0 {
				maxY += res.Y
			} else {
				minY += res.Y
			}
		}
		if (res.SnappedX && sx != 0) || (res.SnappedY && sy != 0) {
			guides = res.Guides
		}
	}
	c.store.SetSmartGuides(guides)

	w0 := o.Width()
	h0 := o.Height()
	if locked && w0 > 0 && h0 > 0 {
		aspect := w0 / h0
		if xDrivesAspect(handle, dx, dy, aspect) {
			targetH := (maxX - minX) / aspect
			switch {
			case sy > 0:
				maxY = minY + targetH
			case sy < 0:
				minY = maxY - targetH
			default:
				minY = o.CenterY - targetH/2
				maxY = o.CenterY + targetH/2
			}
		} else {
			targetW := (maxY - minY) * aspect
			switch {
			case sx > 0:
				maxX = minX + targetW
			case sx < 0:
				minX = maxX - targetW
			default:
				minX = o.CenterX - targetW/2
				maxX = o.CenterX + targetW/2
			}
		}
	}

	if maxX-minX < MinElementSize {
		switch {
		case sx < 0:
			minX = maxX - MinElementSize
		case sx > 0:
			maxX = minX + MinElementSize
		default:
			minX = o.CenterX - MinElementSize/2
			maxX = o.CenterX + MinElementSize/2
		}
	}
	if maxY-minY < MinElementSize {
		switch {
		case sy < 0:
			minY = maxY - MinElementSize
		case sy > 0:
			maxY = minY + MinElementSize
		default:
			minY = o.CenterY - MinElementSize/2
			maxY = o.CenterY + MinElementSize/2
		}
	}

	target := NewBounds(minX, minY, maxX, maxY)
	c.sched.Enqueue(c.remapLeaves(o, target))
}

// remapLeaves maps every recorded leaf proportionally from the old
// union box into the new one: new = newOrigin + (old-oldOrigin)/oldSize*newSize.
// A zero-length source axis maps with scale 1; the ratio is never
// formed, so no NaN/Inf can escape.
func (c *ResizeController) remapLeaves(from, to Bounds) map[string]Patch {
	sx := 1.0
	if from.Width() != 0 {
		sx = to.Width() / from.Width()
	}
	sy := 1.0
	if from.Height() != 0 {
		sy = to.Height() / from.Height()
	}
	mapX := func(v float64) float64 { return to.MinX + (v-from.MinX)*sx }
	mapY := func(v float64) float64 { return to.MinY + (v-from.MinY)*sy }

	updates := make(map[string]Patch, len(c.state.leaves))
	for i := range c.state.leaves {
		leaf := &c.state.leaves[i]
		el := &leaf.el

		switch el.Type {
		case document.TypeEllipse:
			updates[el.ID] = Patch{
				CX: ptr(mapX(el.CX)), CY: ptr(mapY(el.CY)),
				RX: ptr(el.RX * sx), RY: ptr(el.RY * sy),
			}
		case document.TypeLine:
			updates[el.ID] = Patch{
				X1: ptr(mapX(el.X1)), Y1: ptr(mapY(el.Y1)),
				X2: ptr(mapX(el.X2)), Y2: ptr(mapY(el.Y2)),
			}
		case document.TypePolygon, document.TypePolyline:
			points := make([]document.Point, len(el.Points))
			for j, p := range el.Points {
				points[j] = document.Point{X: mapX(p.X), Y: mapY(p.Y)}
			}
			updates[el.ID] = Patch{Points: points}
		case document.TypePath:
			oldB := NewBounds(el.X, el.Y, el.X+el.Width, el.Y+el.Height)
			newB := NewBounds(mapX(el.X), mapY(el.Y), mapX(el.X+el.Width), mapY(el.Y+el.Height))
			updates[el.ID] = Patch{
				X: ptr(newB.MinX), Y: ptr(newB.MinY),
				Width: ptr(newB.Width()), Height: ptr(newB.Height()),
				D: strPtr(c.resizer.Resize(el.D, oldB, newB)),
			}
		case document.TypeText:
			updates[el.ID] = Patch{
				X: ptr(mapX(el.X)), Y: ptr(mapY(el.Y)),
				Width: ptr(el.Width * sx), Height: ptr(el.Height * sy),
				FontSize: ptr(el.FontSize * (sx + sy) / 2),
			}
		default: // rect, image
			updates[el.ID] = Patch{
				X: ptr(mapX(el.X)), Y: ptr(mapY(el.Y)),
				Width: ptr(el.Width * sx), Height: ptr(el.Height * sy),
			}
		}
	}
	return updates
}

// xDrivesAspect picks the driving axis under aspect lock: edge
// handles are driven by their own axis; corner handles compare the
// axis deltas scaled by the original aspect ratio, with exact ties
// going to X.
func xDrivesAspect(handle Handle, dx, dy, aspect float64) bool {
	sx := handle.signX()
	sy := handle.signY()
	if sx != 0 && sy == 0 {
		return true
	}
	if sy != 0 && sx == 0 {
		return false
	}
	return math.Abs(dx) >= math.Abs(dy)*aspect
}

