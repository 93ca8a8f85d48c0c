package duplicate

import (
	"github.com/BakaI9/excalidraw/internal/scene"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// topology is the role an element plays in a duplication walk. Each element
// is classified once; the first matching role wins in declaration order.
type topology int

const (
	topologyGroup topology = iota
	topologyFrameChild
	topologyFrame
	topologyContainer
	topologyBoundText
	topologyPlain
)

func (t topology) String() string {
	switch t {
	case topologyGroup:
		return "group"
	case topologyFrameChild:
		return "frame-child"
	case topologyFrame:
		return "frame"
	case topologyContainer:
		return "container"
	case topologyBoundText:
		return "bound-text"
	default:
		return "plain"
	}
}

// classify returns el's role and, for topologyGroup, the selected group.
func classify(el *types.Element, appState types.AppState, framesToDuplicate map[string]bool) (topology, string) {
	if g := scene.GetSelectedGroupForElement(appState, el); g != "" {
		return topologyGroup, g
	}
	switch {
	case el.FrameID != "" && framesToDuplicate[el.FrameID]:
		return topologyFrameChild, ""
	case el.IsFrameLike():
		return topologyFrame, ""
	case el.HasBoundText():
		return topologyContainer, ""
	case el.IsBoundToContainer():
		return topologyBoundText, ""
	}
	return topologyPlain, ""
}
