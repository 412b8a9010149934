package engine

import "encoding/json"

// Engine is the interaction engine the frontend drives. It owns the
// three gesture controllers, the frame-coalescing scheduler, the
// selection, and the viewport state; the element store itself is an
// external collaborator injected at construction.
//
// Everything runs synchronously on the pointer-event callbacks;
// exactly one gesture is active at a time.
type Engine struct {
	store Store

	drag   *DragController
	resize *ResizeController
	rotate *RotateController
	sched  *UpdateScheduler

	// Selection state (backend owns this)
	selection []string

	// Viewport state, pushed by the frontend
	viewScale  float64
	panX, panY float64
}

// NewEngine creates an engine over a store and a path-rescale
// collaborator.
func NewEngine(store Store, resizer PathResizer) *Engine {
	sched := NewUpdateScheduler(store)
	return &Engine{
		store:     store,
		sched:     sched,
		drag:      NewDragController(store, sched),
		resize:    NewResizeController(store, sched, resizer),
		rotate:    NewRotateController(store, sched),
		viewScale: 1,
	}
}

// --- Commands (frontend → backend) ---

// SetSelection sets the selected element IDs.
func (e *Engine) SetSelection(ids []string) {
	e.selection = ids
}

// SetViewport sets the pan offset and zoom used by ScreenToWorld and
// the snap tolerance.
func (e *Engine) SetViewport(panX, panY, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	e.panX, e.panY = panX, panY
	e.viewScale = scale
}

// ScreenToWorld converts screen coordinates into world coordinates.
func (e *Engine) ScreenToWorld(x, y float64) (float64, float64) {
	return (x - e.panX) / e.viewScale, (y - e.panY) / e.viewScale
}

// StartDrag begins a drag of the current selection.
func (e *Engine) StartDrag(px, py float64) bool {
	return e.drag.Start(px, py, e.selection)
}

func (e *Engine) UpdateDrag(px, py float64) { e.drag.Update(px, py) }
func (e *Engine) EndDrag()                  { e.drag.End() }

// StartResize begins a resize of the current selection from a handle.
func (e *Engine) StartResize(px, py float64, handle Handle, aspectLocked bool) bool {
	return e.resize.Start(px, py, handle, e.selection, aspectLocked)
}

func (e *Engine) UpdateResize(px, py float64, shiftKey bool) { e.resize.Update(px, py, shiftKey) }
func (e *Engine) EndResize()                                 { e.resize.End() }

// StartRotate begins a rotation of the current selection.
func (e *Engine) StartRotate(px, py float64, handle Handle) bool {
	return e.rotate.Start(px, py, handle, e.selection)
}

func (e *Engine) UpdateRotate(px, py float64) { e.rotate.Update(px, py) }
func (e *Engine) EndRotate()                  { e.rotate.End() }

// Tick flushes the pending update batch. Called once per animation
// frame from the frontend.
func (e *Engine) Tick() {
	e.sched.Flush()
}

// --- Queries (frontend ← backend) ---

// HitTest returns the ID of the topmost element containing the point,
// or empty string. Children of groups resolve to the group, matching
// selection semantics.
func (e *Engine) HitTest(x, y float64) string {
	elements := e.store.Elements()
	all := elementMap(elements)

	// Reverse paint order so the frontmost hit wins.
	for i := len(elements) - 1; i >= 0; i-- {
		el := &elements[i]
		if el.ParentID != nil || !el.Visible {
			continue
		}
		if GetBounds(el, all).Contains(x, y) {
			return el.ID
		}
	}
	return ""
}

// SelectionBoundsJSON returns the union AABB of the current selection
// as JSON for the frontend's selection chrome.
func (e *Engine) SelectionBoundsJSON() string {
	all := elementMap(e.store.Elements())
	b, ok := SelectionBounds(e.selection, all)
	if !ok {
		b = Bounds{}
	}
	data, _ := json.Marshal(b)
	return string(data)
}

// Selection returns the current selection.
func (e *Engine) Selection() []string { return e.selection }

// GestureActive reports whether any gesture is in progress.
func (e *Engine) GestureActive() bool {
	return e.drag.Active() || e.resize.Active() || e.rotate.Active()
}

// Drag exposes the drag controller (introspection and tests).
func (e *Engine) Drag() *DragController { return e.drag }

// Resize exposes the resize controller.
func (e *Engine) Resize() *ResizeController { return e.resize }

// Rotate exposes the rotate controller.
func (e *Engine) Rotate() *RotateController { return e.rotate }

// Scheduler exposes the update scheduler.
func (e *Engine) Scheduler() *UpdateScheduler { return e.sched }

// ElementBoundsJSON returns one element's AABB as JSON.
func (e *Engine) ElementBoundsJSON(id string) string {
	all := elementMap(e.store.Elements())
	el, ok := all[id]
	if !ok {
		data, _ := json.Marshal(Bounds{})
		return string(data)
	}
	b := GetBounds(&el, all)
	data, _ := json.Marshal(b)
	return string(data)
}
