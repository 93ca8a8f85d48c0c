package types

// AppState is the selection projection of the editor state that the
// duplication engine reads and returns.
type AppState struct {
	SelectedElementIDs map[string]bool `json:"selectedElementIds"`
	SelectedGroupIDs   map[string]bool `json:"selectedGroupIds"`
	// EditingGroupID is the group the user has entered for editing, or "".
	EditingGroupID string `json:"editingGroupId,omitempty"`
}

// NewAppState returns an AppState selecting the given element IDs.
func NewAppState(selected ...string) AppState {
	s := AppState{
		SelectedElementIDs: make(map[string]bool, len(selected)),
		SelectedGroupIDs:   make(map[string]bool),
	}
	for _, id := range selected {
		s.SelectedElementIDs[id] = true
	}
	return s
}

// IsSelected reports whether id is in the element selection.
func (s AppState) IsSelected(id string) bool {
	return s.SelectedElementIDs[id]
}

// SelectedIDs returns the IDs of selected elements in no particular order.
func (s AppState) SelectedIDs() []string {
	ids := make([]string, 0, len(s.SelectedElementIDs))
	for id, ok := range s.SelectedElementIDs {
		if ok {
			ids = append(ids, id)
		}
	}
	return ids
}
