package document

// LineaDocument is the full persisted state of a drawing project.
type LineaDocument struct {
	Project  Project            `json:"project"`
	Scenes   map[string]Scene   `json:"scenes"`
	Elements map[string]Element `json:"elements"`
}

type Project struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Version   int      `json:"version"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
	Scenes    []string `json:"scenes"`
}

// Scene is one canvas. RootIDs lists the top-level elements in paint order.
type Scene struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Background string   `json:"background"`
	RootIDs    []string `json:"rootIds"`
}

type ElementType string

const (
	TypeRect     ElementType = "rect"
	TypeEllipse  ElementType = "ellipse"
	TypeLine     ElementType = "line"
	TypePath     ElementType = "path"
	TypeText     ElementType = "text"
	TypePolygon  ElementType = "polygon"
	TypePolyline ElementType = "polyline"
	TypeImage    ElementType = "image"
	TypeGroup    ElementType = "group"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Element is a closed tagged union over all shape kinds. Only the
// fields for the element's Type are meaningful; the rest stay zero.
// Rotation is in radians and accumulates without wrapping. For path
// and text elements X/Y/Width/Height hold the cached bounds.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	Name     string      `json:"name"`
	Rotation float64     `json:"rotation"`
	Opacity  float64     `json:"opacity"`
	Fill     string      `json:"fill,omitempty"`
	Stroke   string      `json:"stroke,omitempty"`
	ParentID *string     `json:"parentId,omitempty"`
	Visible  bool        `json:"visible"`
	Locked   bool        `json:"locked"`

	// rect, image, and the cached bounds of path and text
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// ellipse
	CX float64 `json:"cx,omitempty"`
	CY float64 `json:"cy,omitempty"`
	RX float64 `json:"rx,omitempty"`
	RY float64 `json:"ry,omitempty"`

	// line
	X1 float64 `json:"x1,omitempty"`
	Y1 float64 `json:"y1,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`

	// path
	D string `json:"d,omitempty"`

	// polygon / polyline
	Points []Point `json:"points,omitempty"`

	// text
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`

	// image
	AssetID string `json:"assetId,omitempty"`

	// group
	ChildIDs []string `json:"childIds,omitempty"`
}

// IsGroup reports whether the element is a group container.
func (e *Element) IsGroup() bool {
	return e.Type == TypeGroup
}

// NewEmptyDocument creates an empty document for a new project.
func NewEmptyDocument(projectID, projectName, sceneID string) *LineaDocument {
	return &LineaDocument{
		Project: Project{
			ID:        projectID,
			Name:      projectName,
			Version:   1,
			CreatedAt: "",
			UpdatedAt: "",
			Scenes:    []string{sceneID},
		},
		Scenes: map[string]Scene{
			sceneID: {
				ID:         sceneID,
				Name:       "Page 1",
				Width:      1920,
				Height:     1080,
				Background: "#ffffff",
				RootIDs:    []string{},
			},
		},
		Elements: map[string]Element{},
	}
}
