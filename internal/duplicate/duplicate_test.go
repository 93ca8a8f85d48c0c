package duplicate

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BakaI9/excalidraw/internal/binding"
	"github.com/BakaI9/excalidraw/internal/metrics"
	"github.com/BakaI9/excalidraw/internal/mutation"
	"github.com/BakaI9/excalidraw/internal/order"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// testEngine returns a duplication engine with deterministic IDs and nonces.
func testEngine(opts ...mutation.Option) *Engine {
	nonce := int64(500)
	ids := 0
	base := []mutation.Option{
		mutation.WithClock(func() time.Time { return time.UnixMilli(1_700_000_000_000) }),
		mutation.WithRandom(func() int64 { nonce++; return nonce }),
		mutation.WithIDGenerator(func() string {
			ids++
			return "id" + strconv.Itoa(ids)
		}),
	}
	return NewEngine(mutation.NewEngine(append(base, opts...)...))
}

func rect(id, index string, x, y float64) *types.Element {
	return &types.Element{
		ID: id, Type: types.TypeRectangle, Index: index,
		X: x, Y: y, Width: 100, Height: 50, Version: 1,
	}
}

func arrow(id, index, from, to string) *types.Element {
	a := &types.Element{
		ID: id, Type: types.TypeArrow, Index: index,
		Points: []types.Point{{0, 0}, {200, 0}}, Width: 200, Version: 1,
	}
	if from != "" {
		a.StartBinding = &types.PointBinding{ElementID: from, Gap: 4}
	}
	if to != "" {
		a.EndBinding = &types.PointBinding{ElementID: to, Gap: 4}
	}
	return a
}

func bindArrow(a *types.Element, targets ...*types.Element) {
	for _, t := range targets {
		t.BoundElements = append(t.BoundElements, types.BoundElement{ID: a.ID, Type: types.BoundArrow})
	}
}

func ids(elements []*types.Element) []string {
	out := make([]string, len(elements))
	for i, el := range elements {
		out[i] = el.ID
	}
	return out
}

func byID(elements []*types.Element, id string) *types.Element {
	for _, el := range elements {
		if el.ID == id {
			return el
		}
	}
	return nil
}

func TestDuplicatePlainElement(t *testing.T) {
	e := testEngine()
	a, b := rect("a", "a", 0, 0), rect("b", "b", 300, 0)

	res, err := e.DuplicateSelectionWithOffset([]*types.Element{a, b}, types.NewAppState("a"))
	require.NoError(t, err)

	require.Equal(t, []string{"a", "id1", "b"}, ids(res.Elements))
	dup := res.Elements[1]
	assert.Equal(t, 10.0, dup.X)
	assert.Equal(t, 10.0, dup.Y)
	assert.Equal(t, map[string]string{"a": "id1"}, res.Duplicates)
	assert.Equal(t, map[string]bool{"id1": true}, res.AppState.SelectedElementIDs)
	assert.True(t, order.IsOrdered(res.Elements))

	// originals are untouched
	assert.Equal(t, 0.0, a.X)
	assert.Equal(t, int64(1), a.Version)
}

func TestDuplicateIDsAreDisjoint(t *testing.T) {
	e := NewEngine(mutation.NewEngine())
	a, b := rect("a", "a", 0, 0), rect("b", "b", 300, 0)
	x := arrow("x", "c", "a", "b")
	bindArrow(x, a, b)
	elements := []*types.Element{a, b, x}

	existing := map[string]bool{"a": true, "b": true, "x": true}
	res, err := e.DuplicateSelectionWithOffset(elements, types.NewAppState("a", "b", "x"))
	require.NoError(t, err)
	require.Len(t, res.Elements, 6)
	for orig, dup := range res.Duplicates {
		assert.True(t, existing[orig])
		assert.False(t, existing[dup], "duplicate %s reuses an existing id", dup)
	}
}

func TestDuplicateRemapsConnector(t *testing.T) {
	e := testEngine()
	a, b := rect("a", "a", 0, 0), rect("b", "b", 300, 0)
	x := arrow("x", "c", "a", "b")
	bindArrow(x, a, b)

	res, err := e.DuplicateSelectionWithOffset([]*types.Element{a, b, x}, types.NewAppState("a", "b", "x"))
	require.NoError(t, err)

	da := byID(res.Elements, res.Duplicates["a"])
	db := byID(res.Elements, res.Duplicates["b"])
	dx := byID(res.Elements, res.Duplicates["x"])
	require.NotNil(t, dx)
	assert.Equal(t, da.ID, dx.StartBinding.ElementID)
	assert.Equal(t, db.ID, dx.EndBinding.ElementID)
	assert.Equal(t, []types.BoundElement{{ID: dx.ID, Type: types.BoundArrow}}, da.BoundElements)
	assert.Equal(t, []types.BoundElement{{ID: dx.ID, Type: types.BoundArrow}}, db.BoundElements)

	// originals keep their own connector
	assert.Equal(t, "a", x.StartBinding.ElementID)
	assert.Equal(t, []types.BoundElement{{ID: "x", Type: types.BoundArrow}}, a.BoundElements)
	assert.Empty(t, binding.Validate(res.Elements))
}

func TestDuplicateConnectorToUnselectedShape(t *testing.T) {
	e := testEngine()
	a, b := rect("a", "a", 0, 0), rect("b", "b", 300, 0)
	x := arrow("x", "c", "a", "b")
	bindArrow(x, a, b)

	res, err := e.DuplicateSelectionWithOffset([]*types.Element{a, b, x}, types.NewAppState("a", "x"))
	require.NoError(t, err)

	dx := byID(res.Elements, res.Duplicates["x"])
	assert.Equal(t, res.Duplicates["a"], dx.StartBinding.ElementID)
	assert.Equal(t, "b", dx.EndBinding.ElementID)
	assert.True(t, b.HasBoundElement("x"))
	assert.True(t, b.HasBoundElement(dx.ID))
	assert.Empty(t, binding.Validate(res.Elements))
}

func TestDuplicateRemapsBoundText(t *testing.T) {
	e := testEngine()
	box := rect("box", "a", 0, 0)
	label := &types.Element{ID: "label", Type: types.TypeText, Index: "b", Text: "hi", ContainerID: "box", Version: 1}
	box.BoundElements = []types.BoundElement{{ID: "label", Type: types.BoundText}}
	other := rect("other", "c", 500, 0)

	res, err := e.DuplicateSelectionWithOffset([]*types.Element{box, label, other}, types.NewAppState("box"))
	require.NoError(t, err)

	require.Equal(t, []string{"box", "label", res.Duplicates["box"], res.Duplicates["label"], "other"}, ids(res.Elements))
	dBox := byID(res.Elements, res.Duplicates["box"])
	dLabel := byID(res.Elements, res.Duplicates["label"])
	assert.Equal(t, []types.BoundElement{{ID: dLabel.ID, Type: types.BoundText}}, dBox.BoundElements)
	assert.Equal(t, dBox.ID, dLabel.ContainerID)
	assert.Equal(t, "box", label.ContainerID)

	// bound text is never selected on its own
	assert.Equal(t, map[string]bool{dBox.ID: true}, res.AppState.SelectedElementIDs)
	assert.Empty(t, binding.Validate(res.Elements))
}

func TestDuplicateSelectedLabelCarriesContainer(t *testing.T) {
	e := testEngine()
	box := rect("box", "a", 0, 0)
	label := &types.Element{ID: "label", Type: types.TypeText, Index: "b", ContainerID: "box", Version: 1}
	box.BoundElements = []types.BoundElement{{ID: "label", Type: types.BoundText}}

	res, err := e.DuplicateSelectionWithOffset([]*types.Element{box, label}, types.NewAppState("label"))
	require.NoError(t, err)
	require.Len(t, res.Elements, 4)
	assert.Contains(t, res.Duplicates, "box")
	assert.Empty(t, binding.Validate(res.Elements))
}

func TestDuplicateGroupWithConnector(t *testing.T) {
	e := testEngine()
	a, b := rect("A", "a", 0, 0), rect("B", "b", 300, 0)
	c := arrow("C", "c", "A", "B")
	bindArrow(c, a, b)
	for _, el := range []*types.Element{a, b, c} {
		el.GroupIDs = []string{"G"}
	}
	state := types.NewAppState("A", "B", "C")
	state.SelectedGroupIDs["G"] = true

	res, err := e.DuplicateSelectionWithOffset([]*types.Element{a, b, c}, state)
	require.NoError(t, err)
	require.Len(t, res.Elements, 6)

	newGroup := res.Elements[3].GroupIDs[0]
	assert.NotEqual(t, "G", newGroup)
	for _, dup := range res.Elements[3:] {
		assert.Equal(t, []string{newGroup}, dup.GroupIDs)
	}
	dc := byID(res.Elements, res.Duplicates["C"])
	assert.Equal(t, res.Duplicates["A"], dc.StartBinding.ElementID)
	assert.Equal(t, res.Duplicates["B"], dc.EndBinding.ElementID)
	assert.Equal(t, map[string]bool{newGroup: true}, res.AppState.SelectedGroupIDs)
	assert.Len(t, res.AppState.SelectedElementIDs, 3)
}

func TestDuplicateFrameWithChildren(t *testing.T) {
	e := testEngine()
	c1 := rect("c1", "a", 10, 10)
	c2 := rect("c2", "b", 20, 20)
	c1.FrameID, c2.FrameID = "f", "f"
	f := &types.Element{ID: "f", Type: types.TypeFrame, Index: "c", Width: 400, Height: 400, Version: 1}
	loose := rect("loose", "d", 900, 0)

	res, err := e.DuplicateSelectionWithOffset([]*types.Element{c1, c2, f, loose}, types.NewAppState("f"))
	require.NoError(t, err)

	df := res.Duplicates["f"]
	require.Equal(t, []string{"c1", "c2", "f", res.Duplicates["c1"], res.Duplicates["c2"], df, "loose"}, ids(res.Elements))
	assert.Equal(t, df, byID(res.Elements, res.Duplicates["c1"]).FrameID)
	assert.Equal(t, df, byID(res.Elements, res.Duplicates["c2"]).FrameID)
	assert.Equal(t, "f", c1.FrameID)
	assert.Equal(t, map[string]bool{df: true}, res.AppState.SelectedElementIDs)
	assert.True(t, order.IsOrdered(res.Elements))
}

func TestDuplicateChildKeepsUnselectedFrame(t *testing.T) {
	e := testEngine()
	c1 := rect("c1", "a", 10, 10)
	c1.FrameID = "f"
	f := &types.Element{ID: "f", Type: types.TypeFrame, Index: "b", Version: 1}

	res, err := e.DuplicateSelectionWithOffset([]*types.Element{c1, f}, types.NewAppState("c1"))
	require.NoError(t, err)
	assert.Equal(t, "f", byID(res.Elements, res.Duplicates["c1"]).FrameID)
}

func TestDuplicateSkipsDeleted(t *testing.T) {
	e := testEngine()
	a := rect("a", "a", 0, 0)
	gone := rect("gone", "b", 0, 0)
	gone.IsDeleted = true

	res, err := e.DuplicateSelectionWithOffset([]*types.Element{a, gone}, types.NewAppState("a", "gone"))
	require.NoError(t, err)
	assert.Len(t, res.Elements, 3)
	assert.NotContains(t, res.Duplicates, "gone")
}

func TestDuplicateEmptySelection(t *testing.T) {
	e := testEngine()
	_, err := e.DuplicateSelectionWithOffset([]*types.Element{rect("a", "a", 0, 0)}, types.NewAppState())
	assert.ErrorIs(t, err, types.ErrEmptySelection)
}

func TestDuplicateCustomOffset(t *testing.T) {
	e := NewEngine(mutation.NewEngine(), WithOffset(40))
	assert.Equal(t, 40.0, e.Offset())

	res, err := e.DuplicateSelectionWithOffset([]*types.Element{rect("a", "a", 5, 5)}, types.NewAppState("a"))
	require.NoError(t, err)
	assert.Equal(t, 45.0, res.Elements[1].X)
	assert.Equal(t, 45.0, res.Elements[1].Y)
}

func TestDuplicateRecordsMetrics(t *testing.T) {
	m := metrics.NewCollector()
	e := testEngine(mutation.WithMetrics(m))
	_, err := e.DuplicateSelectionWithOffset(
		[]*types.Element{rect("a", "a", 0, 0), rect("b", "b", 0, 0)},
		types.NewAppState("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ElementsDuplicated))
}

func TestInsertAfterMissingIndex(t *testing.T) {
	w := &walker{withClones: []*types.Element{rect("a", "a", 0, 0)}}
	err := w.insertAfter(-1, nil, rect("z", "", 0, 0))

	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvariant))
	var inv *types.InvariantError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "z", inv.ElementID)
	assert.Len(t, w.withClones, 1)
}

func TestClassify(t *testing.T) {
	state := types.NewAppState()
	state.SelectedGroupIDs["g"] = true
	frames := map[string]bool{"f": true}

	tests := []struct {
		name string
		el   *types.Element
		want topology
	}{
		{"group", &types.Element{ID: "1", Type: types.TypeRectangle, GroupIDs: []string{"g"}}, topologyGroup},
		{"frame child", &types.Element{ID: "2", Type: types.TypeRectangle, FrameID: "f"}, topologyFrameChild},
		{"frame", &types.Element{ID: "3", Type: types.TypeFrame}, topologyFrame},
		{"container", &types.Element{ID: "4", Type: types.TypeRectangle, BoundElements: []types.BoundElement{{ID: "t", Type: types.BoundText}}}, topologyContainer},
		{"bound text", &types.Element{ID: "5", Type: types.TypeText, ContainerID: "4"}, topologyBoundText},
		{"plain", &types.Element{ID: "6", Type: types.TypeEllipse, FrameID: "other"}, topologyPlain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := classify(tt.el, state, frames)
			assert.Equal(t, tt.want, got, got.String())
		})
	}
}

func TestCheckSceneBounds(t *testing.T) {
	assert.NoError(t, checkSceneBounds(rect("a", "", 1e7, -1e7), nil))

	wide := rect("w", "", 0, 0)
	wide.Width = 1e7 + 1
	assert.ErrorIs(t, checkSceneBounds(rect("a", "", 0, 0), wide), types.ErrSceneBounds)
}

// render prints the relations of every element one per line.
func render(res *Result) string {
	var b strings.Builder
	for _, el := range res.Elements {
		fmt.Fprintf(&b, "%s %s x=%g y=%g groups=%s", el.ID, el.Type, el.X, el.Y, strings.Join(el.GroupIDs, ","))
		if el.ContainerID != "" {
			fmt.Fprintf(&b, " container=%s", el.ContainerID)
		}
		if el.StartBinding != nil {
			fmt.Fprintf(&b, " start=%s", el.StartBinding.ElementID)
		}
		if el.EndBinding != nil {
			fmt.Fprintf(&b, " end=%s", el.EndBinding.ElementID)
		}
		if len(el.BoundElements) > 0 {
			entries := make([]string, len(el.BoundElements))
			for i, be := range el.BoundElements {
				entries[i] = be.ID + ":" + be.Type
			}
			fmt.Fprintf(&b, " bound=%s", strings.Join(entries, ","))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "selected=%s\n", strings.Join(sortedKeys(res.AppState.SelectedElementIDs), ","))
	fmt.Fprintf(&b, "selectedGroups=%s\n", strings.Join(sortedKeys(res.AppState.SelectedGroupIDs), ","))
	return b.String()
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k, ok := range m {
		if ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func TestDuplicateGroupGolden(t *testing.T) {
	e := testEngine()
	a, b := rect("A", "a", 0, 0), rect("B", "b", 300, 0)
	c := arrow("C", "c", "A", "B")
	c.X, c.Y = 100, 25
	bindArrow(c, a, b)
	for _, el := range []*types.Element{a, b, c} {
		el.GroupIDs = []string{"G"}
	}
	d := &types.Element{ID: "D", Type: types.TypeEllipse, Index: "d", Y: 200, Version: 1}
	state := types.NewAppState("A", "B", "C")
	state.SelectedGroupIDs["G"] = true

	res, err := e.DuplicateSelectionWithOffset([]*types.Element{a, b, c, d}, state)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "duplicate_group", []byte(render(res)))
}
