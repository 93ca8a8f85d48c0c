package duplicate

import "github.com/BakaI9/excalidraw/internal/scene"

// GetNewGroupIDs remaps groupIDs for a copy, generating an ID for each group
// seen for the first time in this pass.
func GetNewGroupIDs(groupIDs []string, editingGroupID string, groupIDMap map[string]string, newID func() string) []string {
	return scene.GetNewGroupIDsForDuplication(groupIDs, editingGroupID, func(g string) string {
		if id, ok := groupIDMap[g]; ok {
			return id
		}
		id := newID()
		groupIDMap[g] = id
		return id
	})
}
