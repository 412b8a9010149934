// Package store holds the in-memory element store the engine drives.
// It is single-writer and main-thread-only: gesture controllers emit
// patches through the scheduler, and readers always observe a
// frame-settled snapshot.
package store

import (
	"encoding/json"
	"errors"

	"github.com/linea-app/linea/backend-go/internal/document"
	"github.com/linea-app/linea/backend-go/internal/engine"
)

var ErrNoDocument = errors.New("no document loaded")

// MemStore implements engine.Store over a LineaDocument.
type MemStore struct {
	doc     *document.LineaDocument
	sceneID string

	settings engine.SnapSettings
	guides   []engine.Guide
}

func NewMemStore() *MemStore {
	return &MemStore{
		settings: engine.SnapSettings{
			SnapToObjects: true,
			SnapToGrid:    false,
			GridSize:      10,
			ViewScale:     1,
		},
	}
}

// LoadDocument loads a document from JSON and selects its first scene.
func (s *MemStore) LoadDocument(jsonData string) error {
	var doc document.LineaDocument
	if err := json.Unmarshal([]byte(jsonData), &doc); err != nil {
		return err
	}
	s.doc = &doc
	s.sceneID = ""
	if len(doc.Project.Scenes) > 0 {
		s.sceneID = doc.Project.Scenes[0]
	}
	return nil
}

// LoadSample loads the built-in sample document.
func (s *MemStore) LoadSample(projectID string) {
	s.doc = document.NewSampleDocument(projectID)
	if len(s.doc.Project.Scenes) > 0 {
		s.sceneID = s.doc.Project.Scenes[0]
	}
}

// SetDocument installs an already-built document.
func (s *MemStore) SetDocument(doc *document.LineaDocument) {
	s.doc = doc
	s.sceneID = ""
	if doc != nil && len(doc.Project.Scenes) > 0 {
		s.sceneID = doc.Project.Scenes[0]
	}
}

// Document returns the underlying document (callers must not mutate).
func (s *MemStore) Document() *document.LineaDocument { return s.doc }

// DocumentJSON returns the full document as JSON.
func (s *MemStore) DocumentJSON() string {
	if s.doc == nil {
		return "{}"
	}
	data, _ := json.Marshal(s.doc)
	return string(data)
}

// SetScene selects the active scene.
func (s *MemStore) SetScene(sceneID string) {
	if s.doc == nil {
		return
	}
	if _, ok := s.doc.Scenes[sceneID]; ok {
		s.sceneID = sceneID
	}
}

// ElementByID implements engine.Store.
func (s *MemStore) ElementByID(id string) (document.Element, bool) {
	if s.doc == nil {
		return document.Element{}, false
	}
	el, ok := s.doc.Elements[id]
	return el, ok
}

// Elements returns the active scene's elements in paint order:
// top-level elements in scene order, each group immediately followed
// by its descendants.
func (s *MemStore) Elements() []document.Element {
	if s.doc == nil {
		return nil
	}
	scene, ok := s.doc.Scenes[s.sceneID]
	if !ok {
		return nil
	}

	var out []document.Element
	var walk func(id string)
	walk = func(id string) {
		el, ok := s.doc.Elements[id]
		if !ok {
			return
		}
		out = append(out, el)
		for _, childID := range el.ChildIDs {
			walk(childID)
		}
	}
	for _, id := range scene.RootIDs {
		walk(id)
	}
	return out
}

// ApplyUpdate implements engine.Store.
func (s *MemStore) ApplyUpdate(id string, patch engine.Patch) {
	if s.doc == nil {
		return
	}
	el, ok := s.doc.Elements[id]
	if !ok {
		return
	}
	patch.ApplyTo(&el)
	s.doc.Elements[id] = el
}

// ApplyUpdates applies a batched update, one field-replacement per
// element.
func (s *MemStore) ApplyUpdates(updates map[string]engine.Patch) {
	for id, patch := range updates {
		s.ApplyUpdate(id, patch)
	}
}

// SnapSettings implements engine.Store.
func (s *MemStore) SnapSettings() engine.SnapSettings { return s.settings }

// SetSnapSettings replaces the snap-mode flags and grid size.
func (s *MemStore) SetSnapSettings(settings engine.SnapSettings) {
	if settings.ViewScale <= 0 {
		settings.ViewScale = 1
	}
	s.settings = settings
}

// SetViewScale updates only the viewport scale used for snap
// tolerance.
func (s *MemStore) SetViewScale(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	s.settings.ViewScale = scale
}

// SetSmartGuides implements engine.Store.
func (s *MemStore) SetSmartGuides(guides []engine.Guide) {
	s.guides = guides
}

// SmartGuides returns the current smart guides.
func (s *MemStore) SmartGuides() []engine.Guide { return s.guides }

// SmartGuidesJSON returns the current guides as JSON.
func (s *MemStore) SmartGuidesJSON() string {
	if len(s.guides) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(s.guides)
	return string(data)
}

// AddElement inserts an element, appending top-level elements to the
// active scene's paint order.
func (s *MemStore) AddElement(el document.Element) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	s.doc.Elements[el.ID] = el
	if el.ParentID == nil {
		scene := s.doc.Scenes[s.sceneID]
		scene.RootIDs = append(scene.RootIDs, el.ID)
		s.doc.Scenes[s.sceneID] = scene
	}
	return nil
}

// RemoveElement deletes an element and, recursively, its descendants.
func (s *MemStore) RemoveElement(id string) {
	if s.doc == nil {
		return
	}
	el, ok := s.doc.Elements[id]
	if !ok {
		return
	}
	for _, childID := range el.ChildIDs {
		s.RemoveElement(childID)
	}
	delete(s.doc.Elements, id)

	scene, ok := s.doc.Scenes[s.sceneID]
	if !ok {
		return
	}
	for i, rootID := range scene.RootIDs {
		if rootID == id {
			scene.RootIDs = append(scene.RootIDs[:i], scene.RootIDs[i+1:]...)
			s.doc.Scenes[s.sceneID] = scene
			break
		}
	}
}
