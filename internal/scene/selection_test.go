package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BakaI9/excalidraw/pkg/types"
)

func ids(els []*types.Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.ID
	}
	return out
}

func TestGetSelectedElements(t *testing.T) {
	frame := &types.Element{ID: "f", Type: types.TypeFrame}
	child := &types.Element{ID: "c", Type: types.TypeRectangle, FrameID: "f",
		BoundElements: []types.BoundElement{{ID: "ct", Type: types.BoundText}}}
	childText := &types.Element{ID: "ct", Type: types.TypeText, ContainerID: "c"}
	box := &types.Element{ID: "r", Type: types.TypeRectangle,
		BoundElements: []types.BoundElement{{ID: "rt", Type: types.BoundText}}}
	boxText := &types.Element{ID: "rt", Type: types.TypeText, ContainerID: "r"}
	gone := &types.Element{ID: "x", Type: types.TypeRectangle, IsDeleted: true}
	els := []*types.Element{frame, child, childText, box, boxText, gone}

	tests := []struct {
		name     string
		selected []string
		opts     SelectOptions
		want     []string
	}{
		{
			name:     "literal selection",
			selected: []string{"r", "x"},
			want:     []string{"r"},
		},
		{
			name:     "bound text included",
			selected: []string{"r"},
			opts:     SelectOptions{IncludeBoundText: true},
			want:     []string{"r", "rt"},
		},
		{
			name:     "frame children and their labels",
			selected: []string{"f"},
			opts:     SelectOptions{IncludeBoundText: true, IncludeElementsInFrames: true},
			want:     []string{"f", "c", "ct"},
		},
		{
			name:     "frame without children option",
			selected: []string{"f"},
			opts:     SelectOptions{IncludeBoundText: true},
			want:     []string{"f"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSelectedElements(els, types.NewAppState(tt.selected...), tt.opts)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestExcludeElementsInFramesFromSelection(t *testing.T) {
	frame := &types.Element{ID: "f", Type: types.TypeFrame}
	inside := &types.Element{ID: "a", Type: types.TypeRectangle, FrameID: "f"}
	otherFrame := &types.Element{ID: "b", Type: types.TypeRectangle, FrameID: "g"}
	loose := &types.Element{ID: "c", Type: types.TypeRectangle}

	got := ExcludeElementsInFramesFromSelection([]*types.Element{frame, inside, otherFrame, loose})
	assert.Equal(t, []string{"f", "b", "c"}, ids(got))
}

func TestExcludeElementsInFramesKeepsUnframedSelection(t *testing.T) {
	a := &types.Element{ID: "a", Type: types.TypeRectangle}
	b := &types.Element{ID: "b", Type: types.TypeArrow}

	got := ExcludeElementsInFramesFromSelection([]*types.Element{a, b})
	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.Empty(t, ExcludeElementsInFramesFromSelection(nil))
}

func TestGetFrameChildren(t *testing.T) {
	els := []*types.Element{
		{ID: "f", Type: types.TypeFrame},
		{ID: "a", FrameID: "f"},
		{ID: "b"},
		{ID: "c", FrameID: "f"},
	}
	assert.Equal(t, []string{"a", "c"}, ids(GetFrameChildren(els, "f")))
}
