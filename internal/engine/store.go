package engine

import "github.com/linea-app/linea/backend-go/internal/document"

// MinElementSize is the smallest extent a resize may produce on
// either axis, in world units.
const MinElementSize = 20.0

// Store is the engine's view of the element store. The engine never
// mutates elements directly; it emits Patch batches through the
// scheduler, and the store applies them. The store is single-writer,
// main-thread-only; the engine reads frame-settled snapshots.
type Store interface {
	ElementByID(id string) (document.Element, bool)
	// Elements returns every element of the current scene in paint
	// order (top-level elements first, each group followed by its
	// descendants).
	Elements() []document.Element
	ApplyUpdate(id string, patch Patch)
	ApplyUpdates(updates map[string]Patch)
	SnapSettings() SnapSettings
	SetSmartGuides(guides []Guide)
}

// PathResizer rescales a path's d-string from one box to another.
// The engine treats the transform as opaque.
type PathResizer interface {
	Resize(d string, oldBounds, newBounds Bounds) string
}

// SnapSettings are the store-owned snap-mode flags, plus the viewport
// scale used to keep the on-screen snap tolerance zoom-invariant.
type SnapSettings struct {
	SnapToObjects  bool    `json:"snapToObjects"`
	SnapToGrid     bool    `json:"snapToGrid"`
	SnapToGeometry bool    `json:"snapToGeometry"`
	GridSize       float64 `json:"gridSize"`
	ViewScale      float64 `json:"viewScale"`
}

// Enabled reports whether any snapping mode is active.
func (s SnapSettings) Enabled() bool {
	return s.SnapToObjects || s.SnapToGrid || s.SnapToGeometry
}

// Patch is a partial element update. Nil fields are left untouched.
type Patch struct {
	X        *float64         `json:"x,omitempty"`
	Y        *float64         `json:"y,omitempty"`
	Width    *float64         `json:"width,omitempty"`
	Height   *float64         `json:"height,omitempty"`
	CX       *float64         `json:"cx,omitempty"`
	CY       *float64         `json:"cy,omitempty"`
	RX       *float64         `json:"rx,omitempty"`
	RY       *float64         `json:"ry,omitempty"`
	X1       *float64         `json:"x1,omitempty"`
	Y1       *float64         `json:"y1,omitempty"`
	X2       *float64         `json:"x2,omitempty"`
	Y2       *float64         `json:"y2,omitempty"`
	Points   []document.Point `json:"points,omitempty"`
	D        *string          `json:"d,omitempty"`
	FontSize *float64         `json:"fontSize,omitempty"`
	Rotation *float64         `json:"rotation,omitempty"`
}

// ApplyTo writes the patch's set fields onto an element.
func (p Patch) ApplyTo(el *document.Element) {
	if p.X != nil {
		el.X = *p.X
	}
	if p.Y != nil {
		el.Y = *p.Y
	}
	if p.Width != nil {
		el.Width = *p.Width
	}
	if p.Height != nil {
		el.Height = *p.Height
	}
	if p.CX != nil {
		el.CX = *p.CX
	}
	if p.CY != nil {
		el.CY = *p.CY
	}
	if p.RX != nil {
		el.RX = *p.RX
	}
	if p.RY != nil {
		el.RY = *p.RY
	}
	if p.X1 != nil {
		el.X1 = *p.X1
	}
	if p.Y1 != nil {
		el.Y1 = *p.Y1
	}
	if p.X2 != nil {
		el.X2 = *p.X2
	}
	if p.Y2 != nil {
		el.Y2 = *p.Y2
	}
	if p.Points != nil {
		el.Points = p.Points
	}
	if p.D != nil {
		el.D = *p.D
	}
	if p.FontSize != nil {
		el.FontSize = *p.FontSize
	}
	if p.Rotation != nil {
		el.Rotation = *p.Rotation
	}
}

func ptr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }
