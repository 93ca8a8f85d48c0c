// Package scene holds the ordered element collection of a board and the
// read-only query helpers (groups, frames, bound text, selection) that the
// mutation, binding, and duplication engines consult.
//
// A Scene is not safe for concurrent use.
package scene

import (
	"fmt"

	"github.com/BakaI9/excalidraw/pkg/types"
)

// ElementsMap resolves element IDs. It is the only view of the store the
// binding synchronizer and the router need.
type ElementsMap interface {
	// Get returns the element with id, or nil when absent.
	Get(id string) *types.Element
}

// Map is a plain ElementsMap over a Go map.
type Map map[string]*types.Element

// Get implements ElementsMap.
func (m Map) Get(id string) *types.Element {
	return m[id]
}

// MapOf indexes elements by ID. Later entries win on duplicate IDs.
func MapOf(elements []*types.Element) Map {
	m := make(Map, len(elements))
	for _, el := range elements {
		m[el.ID] = el
	}
	return m
}

// Scene is an ordered element collection with an ID index. The slice order is
// the paint order.
type Scene struct {
	elements []*types.Element
	byID     map[string]*types.Element
	updates  int
	onUpdate []func()
}

// New creates a scene holding elements in the given order.
func New(elements []*types.Element) *Scene {
	s := &Scene{}
	s.Replace(elements)
	return s
}

// Get implements ElementsMap.
func (s *Scene) Get(id string) *types.Element {
	return s.byID[id]
}

// Elements returns the scene's elements in paint order. The slice is shared;
// callers must not modify it.
func (s *Scene) Elements() []*types.Element {
	return s.elements
}

// NonDeleted returns the elements whose IsDeleted flag is unset.
func (s *Scene) NonDeleted() []*types.Element {
	return NonDeleted(s.elements)
}

// Len returns the number of elements, deleted ones included.
func (s *Scene) Len() int {
	return len(s.elements)
}

// Replace swaps in a new element collection and rebuilds the index.
func (s *Scene) Replace(elements []*types.Element) {
	s.elements = append([]*types.Element(nil), elements...)
	s.byID = make(map[string]*types.Element, len(elements))
	for _, el := range s.elements {
		s.byID[el.ID] = el
	}
}

// Insert appends an element. Returns ErrDuplicateID if the ID is taken.
func (s *Scene) Insert(el *types.Element) error {
	if el == nil || el.ID == "" {
		return types.ErrInvalidID
	}
	if _, ok := s.byID[el.ID]; ok {
		return fmt.Errorf("%w: %s", types.ErrDuplicateID, el.ID)
	}
	s.elements = append(s.elements, el)
	s.byID[el.ID] = el
	return nil
}

// TriggerUpdate records a store change and runs the registered callbacks.
func (s *Scene) TriggerUpdate() {
	s.updates++
	for _, fn := range s.onUpdate {
		fn()
	}
}

// OnUpdate registers fn to run on every TriggerUpdate.
func (s *Scene) OnUpdate(fn func()) {
	s.onUpdate = append(s.onUpdate, fn)
}

// UpdateCount returns how many times TriggerUpdate has run.
func (s *Scene) UpdateCount() int {
	return s.updates
}

// NonDeleted filters out soft-deleted elements, keeping order.
func NonDeleted(elements []*types.Element) []*types.Element {
	out := make([]*types.Element, 0, len(elements))
	for _, el := range elements {
		if !el.IsDeleted {
			out = append(out, el)
		}
	}
	return out
}

// GetBoundTextElement returns the text label bound to container, or nil.
func GetBoundTextElement(container *types.Element, store ElementsMap) *types.Element {
	id := container.BoundTextID()
	if id == "" {
		return nil
	}
	if el := store.Get(id); el.IsText() {
		return el
	}
	return nil
}

// GetContainerElement returns the container of a bound text element, or nil.
func GetContainerElement(text *types.Element, store ElementsMap) *types.Element {
	if !text.IsBoundToContainer() {
		return nil
	}
	return store.Get(text.ContainerID)
}
