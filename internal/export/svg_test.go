package export

import (
	"math"
	"strings"
	"testing"

	"github.com/linea-app/linea/backend-go/internal/document"
)

func testDoc() *document.LineaDocument {
	gid := "g1"
	return &document.LineaDocument{
		Project: document.Project{ID: "proj_1", Name: "Test", Scenes: []string{"scene_1"}},
		Scenes: map[string]document.Scene{
			"scene_1": {
				ID: "scene_1", Name: "Page 1", Width: 800, Height: 600,
				Background: "#ffffff",
				RootIDs:    []string{"r1", "e1", "l1", "t1", "g1", "hidden"},
			},
		},
		Elements: map[string]document.Element{
			"r1": {
				ID: "r1", Type: document.TypeRect,
				X: 10, Y: 20, Width: 100, Height: 50,
				Fill: "#ff0000", Rotation: math.Pi / 2, Visible: true, Opacity: 1,
			},
			"e1": {
				ID: "e1", Type: document.TypeEllipse,
				CX: 300, CY: 200, RX: 40, RY: 30,
				Fill: "#00ff00", Visible: true, Opacity: 0.5,
			},
			"l1": {
				ID: "l1", Type: document.TypeLine,
				X1: 0, Y1: 0, X2: 50, Y2: 50,
				Stroke: "#000000", Visible: true, Opacity: 1,
			},
			"t1": {
				ID: "t1", Type: document.TypeText,
				X: 100, Y: 100, Width: 200, Height: 30,
				Text: "a < b & c", FontSize: 24,
				Fill: "#222222", Visible: true, Opacity: 1,
			},
			"g1": {
				ID: "g1", Type: document.TypeGroup,
				ChildIDs: []string{"c1"}, Visible: true, Opacity: 1,
			},
			"c1": {
				ID: "c1", Type: document.TypeRect, ParentID: &gid,
				X: 400, Y: 400, Width: 60, Height: 60,
				Fill: "#0000ff", Visible: true, Opacity: 1,
			},
			"hidden": {
				ID: "hidden", Type: document.TypeRect,
				X: 0, Y: 0, Width: 10, Height: 10,
				Fill: "#123456", Visible: false, Opacity: 1,
			},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(testDoc(), "scene_1")
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}

	wantFragments := []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600" viewBox="0 0 800 600">`,
		`<rect width="800" height="600" fill="#ffffff"/>`,
		`<rect x="10" y="20" width="100" height="50" fill="#ff0000" transform="rotate(90 60 45)"/>`,
		`<ellipse cx="300" cy="200" rx="40" ry="30" fill="#00ff00" opacity="0.5"/>`,
		`<line x1="0" y1="0" x2="50" y2="50" fill="none" stroke="#000000"/>`,
		// Text baseline sits one font-size below the cached top edge;
		// content is escaped.
		`<text x="100" y="124" font-size="24" fill="#222222">a &lt; b &amp; c</text>`,
		`<rect x="400" y="400" width="60" height="60" fill="#0000ff"/>`,
		"</svg>\n",
	}
	for _, frag := range wantFragments {
		if !strings.Contains(svg, frag) {
			t.Errorf("missing fragment %q in:\n%s", frag, svg)
		}
	}

	if strings.Contains(svg, "#123456") {
		t.Error("hidden element rendered")
	}

	// Group children are nested inside the group tag.
	gOpen := strings.Index(svg, "<g>")
	gClose := strings.Index(svg, "</g>")
	child := strings.Index(svg, `x="400"`)
	if gOpen == -1 || gClose == -1 || child < gOpen || child > gClose {
		t.Errorf("group nesting wrong:\n%s", svg)
	}
}

func TestRenderSVGPolygonAndRotatedGroup(t *testing.T) {
	gid := "g1"
	doc := &document.LineaDocument{
		Scenes: map[string]document.Scene{
			"s": {ID: "s", Width: 100, Height: 100, RootIDs: []string{"g1", "p1"}},
		},
		Elements: map[string]document.Element{
			"g1": {
				ID: "g1", Type: document.TypeGroup, ChildIDs: []string{"c1"},
				Rotation: math.Pi, Visible: true, Opacity: 1,
			},
			"c1": {
				ID: "c1", Type: document.TypeRect, ParentID: &gid,
				X: 0, Y: 0, Width: 40, Height: 20, Fill: "#fff", Visible: true, Opacity: 1,
			},
			"p1": {
				ID: "p1", Type: document.TypePolygon,
				Points: []document.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 8}},
				Fill:   "#abc", Visible: true, Opacity: 1,
			},
		},
	}

	svg, err := RenderSVG(doc, "s")
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}

	// The group rotates about its children's extent center (20,10).
	if !strings.Contains(svg, `<g transform="rotate(180 20 10)">`) {
		t.Errorf("group rotation missing:\n%s", svg)
	}
	if !strings.Contains(svg, `<polygon points="0,0 10,0 5,8" fill="#abc"/>`) {
		t.Errorf("polygon missing:\n%s", svg)
	}
}

func TestRenderSVGMissingScene(t *testing.T) {
	if _, err := RenderSVG(testDoc(), "scene_zzz"); err == nil {
		t.Fatal("expected error for unknown scene")
	}
}
