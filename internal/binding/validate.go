package binding

import (
	"fmt"

	"github.com/BakaI9/excalidraw/internal/scene"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// ViolationKind names a broken board invariant.
type ViolationKind string

// Violation kinds.
const (
	ViolationDuplicateID      ViolationKind = "duplicate_id"
	ViolationMissingBound     ViolationKind = "missing_bound_element"
	ViolationArrowNotBound    ViolationKind = "arrow_not_bound_back"
	ViolationTextNotContained ViolationKind = "text_not_contained"
	ViolationDanglingBinding  ViolationKind = "dangling_binding"
	ViolationTargetMissingRef ViolationKind = "target_missing_connector"
	ViolationMissingContainer ViolationKind = "missing_container"
	ViolationTextInText       ViolationKind = "text_container_is_text"
	ViolationContainerNoRef   ViolationKind = "container_missing_text"
	ViolationMissingFrame     ViolationKind = "missing_frame"
)

// Violation is one broken relation found by Validate.
type Violation struct {
	Kind      ViolationKind `json:"kind"`
	ElementID string        `json:"elementId"`
	RelatedID string        `json:"relatedId,omitempty"`
}

// String formats the violation for terminal output.
func (v Violation) String() string {
	if v.RelatedID == "" {
		return fmt.Sprintf("%s: %s", v.ElementID, v.Kind)
	}
	return fmt.Sprintf("%s: %s (%s)", v.ElementID, v.Kind, v.RelatedID)
}

// Validate checks every relation on the board in both directions. Soft
// deleted elements are still valid reference targets. The result is ordered
// by element position.
func Validate(elements []*types.Element) []Violation {
	var out []Violation
	add := func(kind ViolationKind, id, related string) {
		out = append(out, Violation{Kind: kind, ElementID: id, RelatedID: related})
	}

	seen := make(map[string]bool, len(elements))
	for _, el := range elements {
		if seen[el.ID] {
			add(ViolationDuplicateID, el.ID, "")
		}
		seen[el.ID] = true
	}
	store := scene.MapOf(elements)

	for _, el := range elements {
		for _, be := range el.BoundElements {
			other := store.Get(be.ID)
			if other == nil {
				add(ViolationMissingBound, el.ID, be.ID)
				continue
			}
			switch be.Type {
			case types.BoundArrow:
				if !bindsTo(other, el.ID) {
					add(ViolationArrowNotBound, el.ID, be.ID)
				}
			case types.BoundText:
				if !other.IsText() || other.ContainerID != el.ID {
					add(ViolationTextNotContained, el.ID, be.ID)
				}
			}
		}

		if el.IsBindingElement() {
			for _, b := range []*types.PointBinding{el.StartBinding, el.EndBinding} {
				if b == nil || b.ElementID == "" {
					continue
				}
				target := store.Get(b.ElementID)
				switch {
				case target == nil:
					add(ViolationDanglingBinding, el.ID, b.ElementID)
				case !target.HasBoundElement(el.ID):
					add(ViolationTargetMissingRef, el.ID, b.ElementID)
				}
			}
		}

		if el.IsBoundToContainer() {
			c := store.Get(el.ContainerID)
			switch {
			case c == nil:
				add(ViolationMissingContainer, el.ID, el.ContainerID)
			case c.IsText():
				add(ViolationTextInText, el.ID, el.ContainerID)
			case c.BoundTextID() != el.ID:
				add(ViolationContainerNoRef, el.ID, el.ContainerID)
			}
		}

		if el.FrameID != "" {
			if f := store.Get(el.FrameID); !f.IsFrameLike() {
				add(ViolationMissingFrame, el.ID, el.FrameID)
			}
		}
	}
	return out
}

func bindsTo(conn *types.Element, targetID string) bool {
	if !conn.IsBindingElement() {
		return false
	}
	return (conn.StartBinding != nil && conn.StartBinding.ElementID == targetID) ||
		(conn.EndBinding != nil && conn.EndBinding.ElementID == targetID)
}
