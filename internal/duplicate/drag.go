package duplicate

import (
	"go.uber.org/zap"

	"github.com/BakaI9/excalidraw/internal/mutation"
	"github.com/BakaI9/excalidraw/internal/order"
	"github.com/BakaI9/excalidraw/internal/scene"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// HitState describes the element under the pointer when the gesture began.
type HitState struct {
	Element *types.Element
	// WasAddedToSelection is set when the pointer-down selected Element and
	// the app state may not reflect it yet.
	WasAddedToSelection bool
	// HasBeenDuplicated is set by DragDuplicate; later calls in the same
	// gesture do nothing.
	HasBeenDuplicated bool
}

// PointerDownState is the per-gesture state shared with the caller.
type PointerDownState struct {
	Hit HitState
	// OriginalElements holds the pre-drag snapshot of every element taking
	// part in the drag, keyed by ID. Duplicates are added to it so snapping
	// can treat them as fixed references.
	OriginalElements map[string]*types.Element
	// Origin is where the pointer went down, Pointer where it is now.
	Origin  types.Point
	Pointer types.Point
}

// Delta is the pointer travel since the gesture began.
func (s *PointerDownState) Delta() types.Point {
	return types.Point{s.Pointer[0] - s.Origin[0], s.Pointer[1] - s.Origin[1]}
}

// DragApp is the host of a drag gesture.
type DragApp interface {
	Elements() []*types.Element
	AppState() types.AppState
	// OnDuplicate may return a replacement for the collection produced by the
	// duplication. Returning nil keeps it.
	OnDuplicate(next []*types.Element) []*types.Element
}

// StaticApp is a DragApp over a fixed element list.
type StaticApp struct {
	Items []*types.Element
	State types.AppState
	Hook  func(next []*types.Element) []*types.Element
}

func (a *StaticApp) Elements() []*types.Element { return a.Items }

func (a *StaticApp) AppState() types.AppState { return a.State }

func (a *StaticApp) OnDuplicate(next []*types.Element) []*types.Element {
	if a.Hook == nil {
		return nil
	}
	return a.Hook(next)
}

// DragDuplicate runs the duplication step of an Alt-drag gesture. The dragged
// elements are copied in place: each copy stays at the pre-drag position of
// its original while the original follows the pointer. Copies are appended
// after every existing element, and relations with elements outside the drag
// move to the copies.
//
// The first call in a gesture returns the new collection. Later calls return
// nil and no error. A scene whose coordinates or sizes exceed
// types.MaxSceneMagnitude aborts with types.ErrSceneBounds and leaves every
// element untouched.
func (e *Engine) DragDuplicate(state *PointerDownState, app DragApp) ([]*types.Element, error) {
	if state == nil || app == nil {
		return nil, types.ErrInvalidData
	}
	if state.Hit.HasBeenDuplicated {
		return nil, nil
	}
	state.Hit.HasBeenDuplicated = true
	if state.OriginalElements == nil {
		state.OriginalElements = make(map[string]*types.Element)
	}

	elements := app.Elements()
	appState := app.AppState()
	dragged := e.dragSelection(elements, appState, state.Hit)
	if len(dragged) == 0 {
		return elements, nil
	}

	var (
		originals  []*types.Element
		dups       []*types.Element
		snaps      = make(map[string]*types.Element, len(dragged))
		origToDup  = make(map[string]string, len(dragged))
		groupIDMap = make(map[string]string)
	)
	for _, el := range elements {
		if !dragged[el.ID] {
			continue
		}
		snap := state.OriginalElements[el.ID]
		if snap == nil {
			snap = el.Clone()
		}
		dup := e.CloneElement(appState.EditingGroupID, groupIDMap, el, types.Point{})
		if err := checkSceneBounds(el, dup, snap); err != nil {
			e.metrics.DragAborted()
			e.logger.Error("drag duplication aborted",
				zap.String("elementId", el.ID),
				zap.Error(err))
			return nil, err
		}
		if _, err := e.mut.Mutate(nil, dup, types.Updates{
			types.FieldX: snap.X,
			types.FieldY: snap.Y,
		}, mutation.WithInform(false)); err != nil {
			return nil, err
		}
		snaps[el.ID] = snap
		origToDup[el.ID] = dup.ID
		originals = append(originals, el)
		dups = append(dups, dup)
	}

	next := make([]*types.Element, 0, len(elements)+len(dups))
	next = append(next, elements...)
	next = append(next, dups...)
	if replaced := app.OnDuplicate(next); replaced != nil {
		next = replaced
	}

	store := scene.MapOf(next)
	for _, el := range originals {
		if store.Get(el.ID) == nil || store.Get(origToDup[el.ID]) == nil {
			return nil, &types.InvariantError{Op: "drag duplicate", Message: "collection lost a dragged element", ElementID: el.ID}
		}
	}
	delta := state.Delta()
	for _, el := range originals {
		snap := snaps[el.ID]
		if _, err := e.mut.Mutate(store, el, types.Updates{
			types.FieldX: snap.X + delta[0],
			types.FieldY: snap.Y + delta[1],
		}, mutation.WithInform(false)); err != nil {
			return nil, err
		}
	}

	moved := make(map[string]bool, len(dups))
	for _, d := range dups {
		moved[d.ID] = true
	}
	if err := order.SyncMovedIndices(e.mut, next, moved); err != nil {
		return nil, err
	}
	if err := e.fixRelations(next, originals, origToDup, rebindDrag); err != nil {
		return nil, err
	}

	for _, d := range dups {
		state.OriginalElements[d.ID] = d.Clone()
	}
	e.metrics.Duplicated(len(dups))
	e.logger.Debug("drag duplicated",
		zap.Int("duplicated", len(dups)),
		zap.Float64("dx", delta[0]),
		zap.Float64("dy", delta[1]))
	return next, nil
}

// dragSelection returns the IDs taking part in the drag: the selection and
// the hit element, their bound text, the children of selected frames, and
// the containers of selected text labels.
func (e *Engine) dragSelection(elements []*types.Element, appState types.AppState, hit HitState) map[string]bool {
	live := scene.NonDeleted(elements)
	st := types.AppState{
		SelectedElementIDs: make(map[string]bool, len(appState.SelectedElementIDs)+1),
		SelectedGroupIDs:   appState.SelectedGroupIDs,
		EditingGroupID:     appState.EditingGroupID,
	}
	for id, ok := range appState.SelectedElementIDs {
		st.SelectedElementIDs[id] = ok
	}
	if hit.Element != nil && hit.WasAddedToSelection {
		st.SelectedElementIDs[hit.Element.ID] = true
	}

	store := scene.MapOf(live)
	out := make(map[string]bool)
	for _, el := range scene.GetSelectedElements(live, st, scene.SelectOptions{
		IncludeBoundText:        true,
		IncludeElementsInFrames: true,
	}) {
		out[el.ID] = true
		if c := scene.GetContainerElement(el, store); c != nil {
			out[c.ID] = true
		}
	}
	return out
}
