package scene

import "github.com/BakaI9/excalidraw/pkg/types"

// SelectOptions widens GetSelectedElements beyond the literal selection.
type SelectOptions struct {
	// IncludeBoundText adds the text labels of selected containers.
	IncludeBoundText bool
	// IncludeElementsInFrames adds the children of selected frames.
	IncludeElementsInFrames bool
}

// GetSelectedElements returns the live selected elements in scene order,
// widened per opts.
func GetSelectedElements(elements []*types.Element, appState types.AppState, opts SelectOptions) []*types.Element {
	included := make(map[string]bool)
	for _, el := range elements {
		if el.IsDeleted {
			continue
		}
		if appState.SelectedElementIDs[el.ID] {
			included[el.ID] = true
		}
	}
	if opts.IncludeElementsInFrames {
		for _, el := range elements {
			if !el.IsDeleted && el.FrameID != "" && appState.SelectedElementIDs[el.FrameID] {
				included[el.ID] = true
			}
		}
	}
	if opts.IncludeBoundText {
		for _, el := range elements {
			if !el.IsDeleted && el.IsBoundToContainer() && included[el.ContainerID] {
				included[el.ID] = true
			}
		}
	}

	out := make([]*types.Element, 0, len(included))
	for _, el := range elements {
		if included[el.ID] && !el.IsDeleted {
			out = append(out, el)
		}
	}
	return out
}

// ExcludeElementsInFramesFromSelection drops elements whose frame is itself
// part of the selection.
func ExcludeElementsInFramesFromSelection(selected []*types.Element) []*types.Element {
	frames := make(map[string]bool)
	for _, el := range selected {
		if el.IsFrameLike() {
			frames[el.ID] = true
		}
	}
	out := make([]*types.Element, 0, len(selected))
	for _, el := range selected {
		if el.FrameID != "" && frames[el.FrameID] {
			continue
		}
		out = append(out, el)
	}
	return out
}

// GetFrameChildren returns the elements whose FrameID is frameID.
func GetFrameChildren(elements []*types.Element, frameID string) []*types.Element {
	var out []*types.Element
	for _, el := range elements {
		if el.FrameID == frameID {
			out = append(out, el)
		}
	}
	return out
}
