package scene

import "github.com/BakaI9/excalidraw/pkg/types"

// GetSelectedGroupForElement returns the first of the element's groups that
// is selected, skipping the group being edited. It returns "" when none is.
func GetSelectedGroupForElement(appState types.AppState, el *types.Element) string {
	for _, g := range el.GroupIDs {
		if g == appState.EditingGroupID {
			continue
		}
		if appState.SelectedGroupIDs[g] {
			return g
		}
	}
	return ""
}

// GetElementsInGroup returns the elements belonging to groupID at any nesting
// level, in input order.
func GetElementsInGroup(elements []*types.Element, groupID string) []*types.Element {
	var out []*types.Element
	for _, el := range elements {
		if el.InGroup(groupID) {
			out = append(out, el)
		}
	}
	return out
}

// GetNewGroupIDsForDuplication maps the group IDs of a duplicated element.
// Groups nested inside the editing group are remapped; the editing group and
// everything enclosing it are kept so the copy stays in the group being
// edited.
func GetNewGroupIDsForDuplication(groupIDs []string, editingGroupID string, mapper func(string) string) []string {
	if groupIDs == nil {
		return nil
	}
	out := append([]string{}, groupIDs...)
	end := len(out)
	if editingGroupID != "" {
		for i, g := range out {
			if g == editingGroupID {
				end = i
				break
			}
		}
	}
	for i := 0; i < end; i++ {
		out[i] = mapper(out[i])
	}
	return out
}

// SelectGroupsForSelectedElements expands the element selection to whole
// groups. For each selected element the outermost group below the editing
// group is selected, together with all of its members. Groups with fewer
// than two live members are not selected.
func SelectGroupsForSelectedElements(appState types.AppState, elements []*types.Element) types.AppState {
	next := types.AppState{
		SelectedElementIDs: make(map[string]bool, len(appState.SelectedElementIDs)),
		SelectedGroupIDs:   make(map[string]bool),
		EditingGroupID:     appState.EditingGroupID,
	}
	for id, ok := range appState.SelectedElementIDs {
		if ok {
			next.SelectedElementIDs[id] = true
		}
	}

	live := NonDeleted(elements)
	for _, el := range live {
		if !appState.SelectedElementIDs[el.ID] {
			continue
		}
		groupIDs := el.GroupIDs
		if appState.EditingGroupID != "" {
			for i, g := range groupIDs {
				if g == appState.EditingGroupID {
					groupIDs = groupIDs[:i]
					break
				}
			}
		}
		if len(groupIDs) == 0 {
			continue
		}
		selectGroup(&next, groupIDs[len(groupIDs)-1], live)
	}
	return next
}

func selectGroup(state *types.AppState, groupID string, elements []*types.Element) {
	members := GetElementsInGroup(elements, groupID)
	if len(members) < 2 {
		return
	}
	state.SelectedGroupIDs[groupID] = true
	for _, m := range members {
		state.SelectedElementIDs[m.ID] = true
	}
}
