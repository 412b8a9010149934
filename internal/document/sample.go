package document

import (
	"time"

	"github.com/linea-app/linea/backend-go/internal/typeid"
)

// NewSampleDocument builds the document loaded into the playground:
// a few loose shapes plus a grouped badge so every gesture path
// (leaf, rotated leaf, nested group) has something to grab.
func NewSampleDocument(projectID string) *LineaDocument {
	now := time.Now().UTC().Format(time.RFC3339)

	sceneID := typeid.NewSceneID()
	rectID := typeid.NewElementID()
	ellipseID := typeid.NewElementID()
	lineID := typeid.NewElementID()
	labelID := typeid.NewElementID()
	starID := typeid.NewElementID()

	badgeID := typeid.NewElementID()
	badgeRectID := typeid.NewElementID()
	badgeTextID := typeid.NewElementID()

	badgeIDPtr := &badgeID

	return &LineaDocument{
		Project: Project{
			ID:        projectID,
			Name:      "Untitled",
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
			Scenes:    []string{sceneID},
		},
		Scenes: map[string]Scene{
			sceneID: {
				ID:         sceneID,
				Name:       "Page 1",
				Width:      1920,
				Height:     1080,
				Background: "#ffffff",
				RootIDs:    []string{rectID, ellipseID, lineID, labelID, starID, badgeID},
			},
		},
		Elements: map[string]Element{
			rectID: {
				ID: rectID, Type: TypeRect, Name: "Rectangle",
				X: 120, Y: 120, Width: 220, Height: 140,
				Fill: "#4f7cff", Stroke: "#1f3a99", Opacity: 1, Visible: true,
			},
			ellipseID: {
				ID: ellipseID, Type: TypeEllipse, Name: "Ellipse",
				CX: 560, CY: 220, RX: 90, RY: 60,
				Fill: "#ff6b6b", Opacity: 1, Visible: true,
			},
			lineID: {
				ID: lineID, Type: TypeLine, Name: "Line",
				X1: 140, Y1: 420, X2: 420, Y2: 520,
				Stroke: "#222222", Opacity: 1, Visible: true,
			},
			labelID: {
				ID: labelID, Type: TypeText, Name: "Label",
				X: 560, Y: 420, Width: 180, Height: 32,
				Text: "Hello, Linea", FontSize: 24,
				Fill: "#222222", Opacity: 1, Visible: true,
			},
			starID: {
				ID: starID, Type: TypePolygon, Name: "Star",
				Points: []Point{
					{X: 860, Y: 120}, {X: 884, Y: 186}, {X: 954, Y: 186},
					{X: 898, Y: 228}, {X: 920, Y: 296}, {X: 860, Y: 256},
					{X: 800, Y: 296}, {X: 822, Y: 228}, {X: 766, Y: 186},
					{X: 836, Y: 186},
				},
				Fill: "#ffc94d", Opacity: 1, Visible: true,
			},
			badgeID: {
				ID: badgeID, Type: TypeGroup, Name: "Badge",
				ChildIDs: []string{badgeRectID, badgeTextID},
				Opacity:  1, Visible: true,
			},
			badgeRectID: {
				ID: badgeRectID, Type: TypeRect, Name: "Badge background",
				ParentID: badgeIDPtr,
				X:        1100, Y: 500, Width: 200, Height: 80,
				Fill: "#2ec27e", Opacity: 1, Visible: true,
			},
			badgeTextID: {
				ID: badgeTextID, Type: TypeText, Name: "Badge label",
				ParentID: badgeIDPtr,
				X:        1120, Y: 524, Width: 160, Height: 32,
				Text: "NEW", FontSize: 28,
				Fill: "#ffffff", Opacity: 1, Visible: true,
			},
		},
	}
}
