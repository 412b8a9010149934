package engine

import "github.com/linea-app/linea/backend-go/internal/document"

// flattenSelection expands groups recursively and returns the leaf
// elements of a selection, plus the set of every touched ID (selected
// leaves, selected groups, and all their descendants). The ID set is
// what gesture controllers exclude from the snap index.
func flattenSelection(ids []string, allElements map[string]document.Element) ([]document.Element, map[string]bool) {
	touched := make(map[string]bool)
	var leaves []document.Element

	var walk func(id string)
	walk = func(id string) {
		if touched[id] {
			return
		}
		el, ok := allElements[id]
		if !ok {
			return
		}
		touched[id] = true
		if el.IsGroup() {
			for _, childID := range el.ChildIDs {
				walk(childID)
			}
			return
		}
		leaves = append(leaves, el)
	}

	for _, id := range ids {
		walk(id)
	}

	return leaves, touched
}

// SelectionBounds unions the bounds of the flattened selection.
// ok is false when the selection contains no resolvable leaf.
func SelectionBounds(ids []string, allElements map[string]document.Element) (Bounds, bool) {
	leaves, _ := flattenSelection(ids, allElements)
	if len(leaves) == 0 {
		return Bounds{}, false
	}

	union := GetBounds(&leaves[0], allElements)
	for i := 1; i < len(leaves); i++ {
		union = union.Union(GetBounds(&leaves[i], allElements))
	}
	return union, true
}
