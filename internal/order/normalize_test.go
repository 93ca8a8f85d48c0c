package order

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

func container(id, text string) *types.Element {
	return &types.Element{ID: id, Type: types.TypeRectangle,
		BoundElements: []types.BoundElement{{ID: text, Type: types.BoundText}}}
}

func label(id, container string) *types.Element {
	return &types.Element{ID: id, Type: types.TypeText, ContainerID: container}
}

func TestNormalizeElementOrder(t *testing.T) {
	tests := []struct {
		name     string
		elements []*types.Element
		want     []string
	}{
		{
			name:     "text before container moves after it",
			elements: []*types.Element{label("t", "r"), {ID: "x"}, container("r", "t")},
			want:     []string{"x", "r", "t"},
		},
		{
			name:     "text far after container moves up",
			elements: []*types.Element{container("r", "t"), {ID: "x"}, {ID: "y"}, label("t", "r")},
			want:     []string{"r", "t", "x", "y"},
		},
		{
			name:     "orphan text stays",
			elements: []*types.Element{{ID: "x"}, label("t", "gone"), {ID: "y"}},
			want:     []string{"x", "t", "y"},
		},
		{
			name:     "container not listing text leaves it alone",
			elements: []*types.Element{label("t", "r"), {ID: "r", Type: types.TypeRectangle}},
			want:     []string{"t", "r"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]*types.Element(nil), tt.elements...)
			got := NormalizeElementOrder(tt.elements)
			assert.Equal(t, tt.want, ids(got))
			assert.Equal(t, ids(in), ids(tt.elements), "input must not be reordered")
		})
	}
}
