package duplicate

import (
	"go.uber.org/zap"

	"github.com/BakaI9/excalidraw/internal/order"
	"github.com/BakaI9/excalidraw/internal/scene"
	"github.com/BakaI9/excalidraw/pkg/types"
)

const opDuplicate = "duplicate"

// DuplicateSelectionWithOffset copies the selected elements, their bound text,
// and the children of selected frames. Each copy is inserted right after the
// block it was copied from, shifted by the engine offset. Whole groups are
// copied when one of their groups is selected. Relations among the copies
// are rewired to point at copies; relations to elements outside the
// selection are kept.
//
// An inconsistent collection aborts the operation with an
// *types.InvariantError before any element is written.
func (e *Engine) DuplicateSelectionWithOffset(elements []*types.Element, appState types.AppState) (*Result, error) {
	normalized := order.NormalizeElementOrder(elements)
	live := scene.NonDeleted(normalized)

	w := &walker{
		engine:     e,
		appState:   appState,
		live:       live,
		liveMap:    scene.MapOf(live),
		withClones: append([]*types.Element(nil), normalized...),
		processed:  make(map[string]bool),
		origToDup:  make(map[string]string),
		groupIDMap: make(map[string]string),
		offset:     types.Point{e.offset, e.offset},
	}

	closure := scene.GetSelectedElements(live, appState, scene.SelectOptions{
		IncludeBoundText:        true,
		IncludeElementsInFrames: true,
	})
	if len(closure) == 0 {
		return nil, types.ErrEmptySelection
	}
	inClosure := make(map[string]bool, len(closure))
	framesToDuplicate := make(map[string]bool)
	for _, el := range closure {
		inClosure[el.ID] = true
		if appState.IsSelected(el.ID) && el.IsFrameLike() {
			framesToDuplicate[el.ID] = true
		}
	}

	for _, el := range live {
		if w.processed[el.ID] || !inClosure[el.ID] {
			continue
		}
		if err := w.visit(el, framesToDuplicate); err != nil {
			return nil, err
		}
	}

	if err := e.fixRelations(w.withClones, w.oldElements, w.origToDup, rebindCopy); err != nil {
		return nil, err
	}
	moved := make(map[string]bool, len(w.newElements))
	for _, el := range w.newElements {
		moved[el.ID] = true
	}
	if err := order.SyncMovedIndices(e.mut, w.withClones, moved); err != nil {
		return nil, err
	}

	selected := types.AppState{
		SelectedElementIDs: make(map[string]bool),
		SelectedGroupIDs:   make(map[string]bool),
		EditingGroupID:     appState.EditingGroupID,
	}
	for _, el := range scene.ExcludeElementsInFramesFromSelection(w.newElements) {
		if !el.IsBoundToContainer() {
			selected.SelectedElementIDs[el.ID] = true
		}
	}

	e.metrics.Duplicated(len(w.newElements))
	e.logger.Debug("selection duplicated",
		zap.Int("selected", len(closure)),
		zap.Int("duplicated", len(w.newElements)))

	return &Result{
		Elements:   w.withClones,
		AppState:   scene.SelectGroupsForSelectedElements(selected, scene.NonDeleted(w.withClones)),
		Duplicates: w.origToDup,
	}, nil
}

// walker carries the state of one duplication pass.
type walker struct {
	engine   *Engine
	appState types.AppState
	live     []*types.Element
	liveMap  scene.Map

	withClones  []*types.Element
	processed   map[string]bool
	origToDup   map[string]string
	oldElements []*types.Element
	newElements []*types.Element
	groupIDMap  map[string]string
	offset      types.Point
}

func (w *walker) visit(el *types.Element, framesToDuplicate map[string]bool) error {
	kind, groupID := classify(el, w.appState, framesToDuplicate)
	switch kind {
	case topologyGroup:
		var members []*types.Element
		for _, m := range scene.GetElementsInGroup(w.live, groupID) {
			if m.IsFrameLike() {
				members = append(members, scene.GetFrameChildren(w.live, m.ID)...)
			}
			members = append(members, m)
		}
		at := w.lastIndex(func(x *types.Element) bool { return x.InGroup(groupID) })
		return w.insertAfter(at, w.copyElements(members...), el)

	case topologyFrameChild:
		return nil

	case topologyFrame:
		children := scene.GetFrameChildren(w.live, el.ID)
		at := w.lastIndex(func(x *types.Element) bool { return x.FrameID == el.ID || x.ID == el.ID })
		return w.insertAfter(at, w.copyElements(append(children, el)...), el)

	case topologyContainer:
		at := w.lastIndex(func(x *types.Element) bool { return x.ID == el.ID || x.ContainerID == el.ID })
		if text := scene.GetBoundTextElement(el, w.liveMap); text != nil {
			return w.insertAfter(at, w.copyElements(el, text), el)
		}
		return w.insertAfter(at, w.copyElements(el), el)

	case topologyBoundText:
		container := scene.GetContainerElement(el, w.liveMap)
		at := w.lastIndex(func(x *types.Element) bool {
			return x.ID == el.ID || (container != nil && x.ID == container.ID)
		})
		if container != nil {
			return w.insertAfter(at, w.copyElements(container, el), el)
		}
		return w.insertAfter(at, w.copyElements(el), el)
	}

	at := w.lastIndex(func(x *types.Element) bool { return x.ID == el.ID })
	return w.insertAfter(at, w.copyElements(el), el)
}

// copyElements clones every element not yet processed, in order.
func (w *walker) copyElements(elements ...*types.Element) []*types.Element {
	var out []*types.Element
	for _, el := range elements {
		if w.processed[el.ID] {
			continue
		}
		w.processed[el.ID] = true
		dup := w.engine.CloneElement(w.appState.EditingGroupID, w.groupIDMap, el, w.offset)
		w.processed[dup.ID] = true
		w.origToDup[el.ID] = dup.ID
		w.oldElements = append(w.oldElements, el)
		w.newElements = append(w.newElements, dup)
		out = append(out, dup)
	}
	return out
}

// lastIndex returns the position of the last element in the working list
// matching pred, or -1.
func (w *walker) lastIndex(pred func(*types.Element) bool) int {
	for i := len(w.withClones) - 1; i >= 0; i-- {
		if pred(w.withClones[i]) {
			return i
		}
	}
	return -1
}

// insertAfter splices elements into the working list after index.
func (w *walker) insertAfter(index int, elements []*types.Element, subject *types.Element) error {
	if index < 0 || index >= len(w.withClones) {
		return &types.InvariantError{
			Op:        opDuplicate,
			Message:   "insertion point not found",
			ElementID: subject.ID,
		}
	}
	if len(elements) == 0 {
		return nil
	}
	next := make([]*types.Element, 0, len(w.withClones)+len(elements))
	next = append(next, w.withClones[:index+1]...)
	next = append(next, elements...)
	next = append(next, w.withClones[index+1:]...)
	w.withClones = next
	return nil
}
