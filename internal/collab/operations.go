package collab

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/linea-app/linea/backend-go/internal/document"
)

// DocumentState holds the authoritative document state for a room
type DocumentState struct {
	mu        sync.RWMutex
	doc       *document.LineaDocument
	serverSeq int64
	opLog     []Operation // Operation history for persistence
}

// NewDocumentState creates a new document state from an initial document
func NewDocumentState(doc *document.LineaDocument) *DocumentState {
	return &DocumentState{
		doc:       doc,
		serverSeq: 0,
		opLog:     make([]Operation, 0),
	}
}

// GetDocument returns the current document (caller should not mutate)
func (ds *DocumentState) GetDocument() *document.LineaDocument {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.doc
}

// ServerSeq returns the sequence number of the last applied operation.
func (ds *DocumentState) ServerSeq() int64 {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.serverSeq
}

// ApplyOperation applies an operation to the document and returns the server sequence
func (ds *DocumentState) ApplyOperation(op Operation) (int64, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := ds.applyOperationLocked(op); err != nil {
		return 0, err
	}

	ds.serverSeq++
	ds.opLog = append(ds.opLog, op)

	return ds.serverSeq, nil
}

// applyOperationLocked applies the operation without locking (caller must hold lock)
func (ds *DocumentState) applyOperationLocked(op Operation) error {
	switch op.Type {
	case OpElementUpdate:
		return ds.applyUpdate(op)
	case OpElementCreate:
		return ds.applyCreate(op)
	case OpElementDelete:
		return ds.applyDelete(op)
	case OpElementReparent:
		return ds.applyReparent(op)
	case OpElementVisibility:
		return ds.applyVisibility(op)
	case OpElementLocked:
		return ds.applyLocked(op)
	case OpSceneUpdate:
		return ds.applySceneUpdate(op)
	case OpProjectRename:
		return ds.applyProjectRename(op)
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

// applyUpdate merges partial element JSON over the existing element.
// Identity and tree structure cannot be changed this way, reparenting
// has its own operation.
func (ds *DocumentState) applyUpdate(op Operation) error {
	el, ok := ds.doc.Elements[op.ElementID]
	if !ok {
		return fmt.Errorf("element not found: %s", op.ElementID)
	}

	id, typ, parent, children := el.ID, el.Type, el.ParentID, el.ChildIDs
	if err := json.Unmarshal(op.Changes, &el); err != nil {
		return fmt.Errorf("invalid changes: %w", err)
	}
	el.ID, el.Type, el.ParentID, el.ChildIDs = id, typ, parent, children

	ds.doc.Elements[op.ElementID] = el
	return nil
}

func (ds *DocumentState) applyCreate(op Operation) error {
	var el document.Element
	if err := json.Unmarshal(op.Element, &el); err != nil {
		return fmt.Errorf("invalid element: %w", err)
	}
	if el.ID == "" {
		return fmt.Errorf("element has no id")
	}

	if op.ParentID != "" {
		parent, ok := ds.doc.Elements[op.ParentID]
		if !ok {
			return fmt.Errorf("parent not found: %s", op.ParentID)
		}
		if !parent.IsGroup() {
			return fmt.Errorf("parent is not a group: %s", op.ParentID)
		}
		parent.ChildIDs = insertAt(parent.ChildIDs, el.ID, op.Index)
		ds.doc.Elements[op.ParentID] = parent
		pid := op.ParentID
		el.ParentID = &pid
	} else {
		scene, ok := ds.doc.Scenes[op.SceneID]
		if !ok {
			return fmt.Errorf("scene not found: %s", op.SceneID)
		}
		scene.RootIDs = insertAt(scene.RootIDs, el.ID, op.Index)
		ds.doc.Scenes[op.SceneID] = scene
		el.ParentID = nil
	}

	ds.doc.Elements[el.ID] = el
	return nil
}

func (ds *DocumentState) applyDelete(op Operation) error {
	el, ok := ds.doc.Elements[op.ElementID]
	if !ok {
		return fmt.Errorf("element not found: %s", op.ElementID)
	}

	ds.detachLocked(el)
	ds.deleteSubtreeLocked(op.ElementID)
	return nil
}

// detachLocked removes the element's ID from its container, either the
// parent group's child list or a scene root list.
func (ds *DocumentState) detachLocked(el document.Element) {
	if el.ParentID != nil {
		parent, ok := ds.doc.Elements[*el.ParentID]
		if ok {
			parent.ChildIDs = removeID(parent.ChildIDs, el.ID)
			ds.doc.Elements[*el.ParentID] = parent
		}
		return
	}
	for sceneID, scene := range ds.doc.Scenes {
		scene.RootIDs = removeID(scene.RootIDs, el.ID)
		ds.doc.Scenes[sceneID] = scene
	}
}

func (ds *DocumentState) deleteSubtreeLocked(id string) {
	el, ok := ds.doc.Elements[id]
	if !ok {
		return
	}
	for _, childID := range el.ChildIDs {
		ds.deleteSubtreeLocked(childID)
	}
	delete(ds.doc.Elements, id)
}

func (ds *DocumentState) applyReparent(op Operation) error {
	el, ok := ds.doc.Elements[op.ElementID]
	if !ok {
		return fmt.Errorf("element not found: %s", op.ElementID)
	}

	ds.detachLocked(el)

	if op.NewParentID != "" {
		parent, ok := ds.doc.Elements[op.NewParentID]
		if !ok {
			return fmt.Errorf("new parent not found: %s", op.NewParentID)
		}
		if !parent.IsGroup() {
			return fmt.Errorf("new parent is not a group: %s", op.NewParentID)
		}
		idx := op.NewIndex
		parent.ChildIDs = insertAt(parent.ChildIDs, op.ElementID, &idx)
		ds.doc.Elements[op.NewParentID] = parent
		pid := op.NewParentID
		el.ParentID = &pid
	} else {
		scene, ok := ds.doc.Scenes[op.SceneID]
		if !ok {
			return fmt.Errorf("scene not found: %s", op.SceneID)
		}
		idx := op.NewIndex
		scene.RootIDs = insertAt(scene.RootIDs, op.ElementID, &idx)
		ds.doc.Scenes[op.SceneID] = scene
		el.ParentID = nil
	}

	ds.doc.Elements[op.ElementID] = el
	return nil
}

func (ds *DocumentState) applyVisibility(op Operation) error {
	el, ok := ds.doc.Elements[op.ElementID]
	if !ok {
		return fmt.Errorf("element not found: %s", op.ElementID)
	}

	if op.Visible != nil {
		el.Visible = *op.Visible
	}

	ds.doc.Elements[op.ElementID] = el
	return nil
}

func (ds *DocumentState) applyLocked(op Operation) error {
	el, ok := ds.doc.Elements[op.ElementID]
	if !ok {
		return fmt.Errorf("element not found: %s", op.ElementID)
	}

	if op.Locked != nil {
		el.Locked = *op.Locked
	}

	ds.doc.Elements[op.ElementID] = el
	return nil
}

func (ds *DocumentState) applySceneUpdate(op Operation) error {
	scene, ok := ds.doc.Scenes[op.SceneID]
	if !ok {
		return fmt.Errorf("scene not found: %s", op.SceneID)
	}

	var changes map[string]interface{}
	if err := json.Unmarshal(op.SceneChanges, &changes); err != nil {
		return fmt.Errorf("invalid scene changes: %w", err)
	}

	if v, ok := changes["name"].(string); ok {
		scene.Name = v
	}
	if v, ok := changes["width"].(float64); ok {
		scene.Width = int(v)
	}
	if v, ok := changes["height"].(float64); ok {
		scene.Height = int(v)
	}
	if v, ok := changes["background"].(string); ok {
		scene.Background = v
	}

	ds.doc.Scenes[op.SceneID] = scene
	return nil
}

func (ds *DocumentState) applyProjectRename(op Operation) error {
	ds.doc.Project.Name = op.Name
	return nil
}

func insertAt(ids []string, id string, index *int) []string {
	if index != nil && *index >= 0 && *index <= len(ids) {
		out := make([]string, 0, len(ids)+1)
		out = append(out, ids[:*index]...)
		out = append(out, id)
		out = append(out, ids[*index:]...)
		return out
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// GetServerTimestamp returns the current server timestamp
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
