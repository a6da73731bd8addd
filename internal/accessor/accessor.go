// Package accessor resolves and assigns values inside a JSON document
// addressed by a parsed path. Get and Set share one notion of what a valid
// route through the document is: key steps descend into objects, index steps
// descend into arrays, and anything else is a miss.
package accessor

import (
	"github.com/cmunro/confpath/internal/models"
)

// Get walks the path from root and returns the addressed value. The boolean
// reports whether the path resolved; absence is an expected outcome, not an
// error. An empty path returns the root unchanged.
func Get(root models.JSONValue, path models.Path) (models.JSONValue, bool) {
	current := root
	for _, step := range path {
		switch container := current.(type) {
		case models.JSONObject:
			if step.IsIndex {
				return nil, false
			}
			child, ok := container[step.Key]
			if !ok {
				return nil, false
			}
			current = child
		case models.JSONArray:
			if !step.IsIndex {
				return nil, false
			}
			if step.Index < 0 || step.Index >= len(container) {
				return nil, false
			}
			current = container[step.Index]
		default:
			// Scalar or null in the way.
			return nil, false
		}
	}
	return current, true
}

// Set assigns value at path, materializing missing intermediate containers as
// it goes: an empty object when the next step is a key, an empty array when
// the next step is an index. Arrays grow with null padding when an index
// addresses a slot beyond their current length. A scalar sitting where a
// container is needed blocks the walk; Set never tunnels through existing
// data. The returned root is the document with the assignment applied (the
// root value itself is replaced when it is a grown array); the boolean
// reports success.
//
// The empty path is not a valid assignment target and reports failure.
func Set(root models.JSONValue, path models.Path, value models.JSONValue) (models.JSONValue, bool) {
	if len(path) == 0 {
		return root, false
	}

	step := path[0]
	switch container := root.(type) {
	case models.JSONObject:
		if step.IsIndex {
			return root, false
		}
		if len(path) == 1 {
			container[step.Key] = value
			return container, true
		}
		child, exists := container[step.Key]
		if !exists {
			child = emptyContainerFor(path[1])
		}
		newChild, ok := Set(child, path[1:], value)
		if !ok {
			return root, false
		}
		container[step.Key] = newChild
		return container, true

	case models.JSONArray:
		if !step.IsIndex {
			return root, false
		}
		if len(path) == 1 {
			container = grow(container, step.Index+1)
			container[step.Index] = value
			return container, true
		}
		var child models.JSONValue
		exists := step.Index < len(container)
		if exists {
			child = container[step.Index]
		} else {
			child = emptyContainerFor(path[1])
		}
		newChild, ok := Set(child, path[1:], value)
		if !ok {
			return root, false
		}
		container = grow(container, step.Index+1)
		container[step.Index] = newChild
		return container, true

	default:
		return root, false
	}
}

// emptyContainerFor picks the container kind a missing slot must hold so that
// the following step can descend into it.
func emptyContainerFor(next models.Step) models.JSONValue {
	if next.IsIndex {
		return models.JSONArray{}
	}
	return models.JSONObject{}
}

// grow pads an array with nulls up to the given length.
func grow(arr models.JSONArray, length int) models.JSONArray {
	for len(arr) < length {
		arr = append(arr, nil)
	}
	return arr
}
