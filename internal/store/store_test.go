package store

import (
	"testing"

	"github.com/linea-app/linea/backend-go/internal/document"
	"github.com/linea-app/linea/backend-go/internal/engine"
)

const docJSON = `{
	"project": {"id": "proj_1", "name": "Test", "version": 1, "scenes": ["scene_a", "scene_b"]},
	"scenes": {
		"scene_a": {"id": "scene_a", "name": "A", "width": 800, "height": 600, "rootIds": ["r1", "g1"]},
		"scene_b": {"id": "scene_b", "name": "B", "width": 800, "height": 600, "rootIds": ["r2"]}
	},
	"elements": {
		"r1": {"id": "r1", "type": "rect", "x": 0, "y": 0, "width": 100, "height": 100, "visible": true},
		"r2": {"id": "r2", "type": "rect", "x": 10, "y": 10, "width": 50, "height": 50, "visible": true},
		"g1": {"id": "g1", "type": "group", "childIds": ["c1"], "visible": true},
		"c1": {"id": "c1", "type": "ellipse", "parentId": "g1", "cx": 40, "cy": 40, "rx": 20, "ry": 20, "visible": true}
	}
}`

func TestLoadDocumentSelectsFirstScene(t *testing.T) {
	s := NewMemStore()
	if err := s.LoadDocument(docJSON); err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	elements := s.Elements()
	if len(elements) != 3 {
		t.Fatalf("len(Elements) = %d, want 3", len(elements))
	}
	// Paint order: scene roots in order, each group followed by its
	// descendants.
	wantOrder := []string{"r1", "g1", "c1"}
	for i, want := range wantOrder {
		if elements[i].ID != want {
			t.Errorf("elements[%d].ID = %q, want %q", i, elements[i].ID, want)
		}
	}
}

func TestLoadDocumentRejectsBadJSON(t *testing.T) {
	s := NewMemStore()
	if err := s.LoadDocument("{nope"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if s.Elements() != nil {
		t.Error("store should stay empty after a failed load")
	}
}

func TestSetScene(t *testing.T) {
	s := NewMemStore()
	if err := s.LoadDocument(docJSON); err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	s.SetScene("scene_b")
	elements := s.Elements()
	if len(elements) != 1 || elements[0].ID != "r2" {
		t.Fatalf("elements = %+v", elements)
	}

	// Unknown scene IDs are ignored.
	s.SetScene("scene_zzz")
	if got := s.Elements(); len(got) != 1 || got[0].ID != "r2" {
		t.Errorf("active scene changed on unknown ID")
	}
}

func TestApplyUpdates(t *testing.T) {
	s := NewMemStore()
	if err := s.LoadDocument(docJSON); err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	x := 30.0
	cy := 70.0
	s.ApplyUpdates(map[string]engine.Patch{
		"r1": {X: &x},
		"c1": {CY: &cy},
	})

	el, ok := s.ElementByID("r1")
	if !ok || el.X != 30 {
		t.Errorf("r1.X = %v, want 30", el.X)
	}
	el, _ = s.ElementByID("c1")
	if el.CY != 70 {
		t.Errorf("c1.CY = %v, want 70", el.CY)
	}
	// Untouched fields survive the patch.
	if el.RX != 20 {
		t.Errorf("c1.RX = %v, want 20", el.RX)
	}
}

func TestAddAndRemoveElement(t *testing.T) {
	s := NewMemStore()
	if err := s.LoadDocument(docJSON); err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	err := s.AddElement(document.Element{
		ID: "r9", Type: document.TypeRect, X: 5, Y: 5, Width: 10, Height: 10, Visible: true,
	})
	if err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	elements := s.Elements()
	if elements[len(elements)-1].ID != "r9" {
		t.Fatalf("new top-level element not appended to paint order: %+v", elements)
	}

	// Removing a group removes its subtree and its root entry.
	s.RemoveElement("g1")
	if _, ok := s.ElementByID("g1"); ok {
		t.Error("g1 still present")
	}
	if _, ok := s.ElementByID("c1"); ok {
		t.Error("descendant c1 still present")
	}
	for _, el := range s.Elements() {
		if el.ID == "g1" || el.ID == "c1" {
			t.Errorf("removed element still painted: %q", el.ID)
		}
	}
}

func TestAddElementWithoutDocument(t *testing.T) {
	s := NewMemStore()
	if err := s.AddElement(document.Element{ID: "x"}); err != ErrNoDocument {
		t.Fatalf("err = %v, want ErrNoDocument", err)
	}
}

func TestLoadSample(t *testing.T) {
	s := NewMemStore()
	s.LoadSample("proj_sample")

	doc := s.Document()
	if doc == nil || doc.Project.ID != "proj_sample" {
		t.Fatal("sample document not installed")
	}
	elements := s.Elements()
	if len(elements) == 0 {
		t.Fatal("sample scene is empty")
	}
	// Group children follow their group in paint order.
	for i, el := range elements {
		if el.ParentID == nil {
			continue
		}
		found := false
		for j := 0; j < i; j++ {
			if elements[j].ID == *el.ParentID {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("child %q painted before its group", el.ID)
		}
	}
}

func TestSnapSettingsGuards(t *testing.T) {
	s := NewMemStore()

	s.SetViewScale(0)
	if got := s.SnapSettings().ViewScale; got != 1 {
		t.Errorf("ViewScale = %v, want 1 after invalid input", got)
	}
	s.SetViewScale(2)
	if got := s.SnapSettings().ViewScale; got != 2 {
		t.Errorf("ViewScale = %v, want 2", got)
	}

	s.SetSnapSettings(engine.SnapSettings{SnapToGrid: true, GridSize: 8})
	settings := s.SnapSettings()
	if !settings.SnapToGrid || settings.GridSize != 8 || settings.ViewScale != 1 {
		t.Errorf("settings = %+v", settings)
	}
}

func TestSmartGuidesJSON(t *testing.T) {
	s := NewMemStore()
	if got := s.SmartGuidesJSON(); got != "[]" {
		t.Errorf("empty guides JSON = %q, want []", got)
	}

	s.SetSmartGuides([]engine.Guide{{Kind: engine.GuideAlignment, Axis: engine.AxisVertical, Value: 10}})
	got := s.SmartGuidesJSON()
	if got == "[]" || got == "" {
		t.Errorf("guides JSON = %q", got)
	}
}
