package order

import "github.com/BakaI9/excalidraw/pkg/types"

// NormalizeElementOrder returns a new slice in which every bound text element
// sits directly after its container. All other elements keep their relative
// order. Text whose container is absent stays where it is.
func NormalizeElementOrder(elements []*types.Element) []*types.Element {
	byID := make(map[string]*types.Element, len(elements))
	for _, el := range elements {
		byID[el.ID] = el
	}

	// labelOf maps a container ID to the text that will follow it.
	labelOf := make(map[string]*types.Element)
	for _, el := range elements {
		if !el.IsBoundToContainer() {
			continue
		}
		c, ok := byID[el.ContainerID]
		if !ok || c.IsText() || c.BoundTextID() != el.ID {
			continue
		}
		labelOf[c.ID] = el
	}

	out := make([]*types.Element, 0, len(elements))
	for _, el := range elements {
		if el.IsBoundToContainer() && labelOf[el.ContainerID] == el {
			continue
		}
		out = append(out, el)
		if label, ok := labelOf[el.ID]; ok {
			out = append(out, label)
		}
	}
	return out
}
