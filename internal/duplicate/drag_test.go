package duplicate

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BakaI9/excalidraw/internal/binding"
	"github.com/BakaI9/excalidraw/internal/metrics"
	"github.com/BakaI9/excalidraw/internal/mutation"
	"github.com/BakaI9/excalidraw/internal/order"
	"github.com/BakaI9/excalidraw/pkg/types"
)

func snapshot(elements ...*types.Element) map[string]*types.Element {
	out := make(map[string]*types.Element, len(elements))
	for _, el := range elements {
		out[el.ID] = el.Clone()
	}
	return out
}

func TestDragDuplicateHitElement(t *testing.T) {
	e := testEngine()
	a, b := rect("a", "a", 0, 0), rect("b", "b", 300, 0)
	state := &PointerDownState{
		Hit:              HitState{Element: a, WasAddedToSelection: true},
		OriginalElements: snapshot(a),
		Origin:           types.Point{5, 5},
		Pointer:          types.Point{25, 45},
	}
	// the pointer has already dragged a before the modifier was pressed
	a.X, a.Y = 20, 40

	next, err := e.DragDuplicate(state, &StaticApp{Items: []*types.Element{a, b}, State: types.NewAppState()})
	require.NoError(t, err)

	require.Len(t, next, 3)
	assert.Equal(t, []string{"a", "b"}, ids(next[:2]))
	dup := next[2]
	assert.Equal(t, 0.0, dup.X)
	assert.Equal(t, 0.0, dup.Y)
	assert.Equal(t, 20.0, a.X)
	assert.Equal(t, 40.0, a.Y)
	assert.Equal(t, 300.0, b.X)
	assert.True(t, state.Hit.HasBeenDuplicated)
	assert.Contains(t, state.OriginalElements, dup.ID)
	assert.True(t, order.IsOrdered(next))
}

func TestDragDuplicateRunsOncePerGesture(t *testing.T) {
	e := testEngine()
	a := rect("a", "a", 0, 0)
	app := &StaticApp{Items: []*types.Element{a}, State: types.NewAppState("a")}
	state := &PointerDownState{OriginalElements: snapshot(a)}

	first, err := e.DragDuplicate(state, app)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := e.DragDuplicate(state, app)
	require.NoError(t, err)
	assert.Nil(t, second)
}

func TestDragDuplicateIgnoresHitNotAdded(t *testing.T) {
	e := testEngine()
	a := rect("a", "a", 0, 0)
	state := &PointerDownState{Hit: HitState{Element: a}}

	next, err := e.DragDuplicate(state, &StaticApp{Items: []*types.Element{a}, State: types.NewAppState()})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(next))
}

func TestDragDuplicateAbortsOnHugeElement(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	m := metrics.NewCollector()
	e := testEngine(mutation.WithLogger(zap.New(core)), mutation.WithMetrics(m))

	a, b := rect("a", "a", 0, 0), rect("b", "b", 300, 0)
	a.Width = 20_000_000
	elements := []*types.Element{a, b}
	state := &PointerDownState{
		OriginalElements: snapshot(a),
		Pointer:          types.Point{50, 50},
	}

	next, err := e.DragDuplicate(state, &StaticApp{Items: elements, State: types.NewAppState("a", "b")})
	assert.ErrorIs(t, err, types.ErrSceneBounds)
	assert.Nil(t, next)

	assert.Len(t, elements, 2)
	assert.Equal(t, 0.0, a.X)
	assert.Equal(t, int64(1), a.Version)
	assert.Equal(t, int64(1), b.Version)
	assert.Len(t, state.OriginalElements, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DragDuplicateAborts))
	assert.Equal(t, 1, logs.FilterMessage("drag duplication aborted").Len())
}

func TestDragDuplicateAbortsOnHugeSnapshot(t *testing.T) {
	e := testEngine()
	a := rect("a", "a", 0, 0)
	snap := a.Clone()
	snap.X = -3e7
	state := &PointerDownState{OriginalElements: map[string]*types.Element{"a": snap}}

	_, err := e.DragDuplicate(state, &StaticApp{Items: []*types.Element{a}, State: types.NewAppState("a")})
	assert.ErrorIs(t, err, types.ErrSceneBounds)
	assert.Equal(t, int64(1), a.Version)
}

func TestDragDuplicateLeavesPeersOnCopy(t *testing.T) {
	e := testEngine()
	a, b := rect("a", "a", 0, 0), rect("b", "b", 300, 0)
	x := arrow("x", "c", "a", "b")
	bindArrow(x, a, b)
	state := &PointerDownState{
		OriginalElements: snapshot(a),
		Pointer:          types.Point{0, 100},
	}

	next, err := e.DragDuplicate(state, &StaticApp{Items: []*types.Element{a, b, x}, State: types.NewAppState("a")})
	require.NoError(t, err)
	require.Len(t, next, 4)

	dup := next[3]
	assert.Equal(t, 0.0, dup.Y)
	assert.Equal(t, 100.0, a.Y)
	assert.Equal(t, dup.ID, x.StartBinding.ElementID)
	assert.Equal(t, "b", x.EndBinding.ElementID)
	assert.Equal(t, []types.BoundElement{{ID: "x", Type: types.BoundArrow}}, dup.BoundElements)
	assert.Empty(t, a.BoundElements)
	assert.Empty(t, binding.Validate(next))
}

func TestDragDuplicateConnectorWithOneEnd(t *testing.T) {
	e := testEngine()
	a, b := rect("a", "a", 0, 0), rect("b", "b", 300, 0)
	x := arrow("x", "c", "a", "b")
	bindArrow(x, a, b)
	state := &PointerDownState{OriginalElements: snapshot(a, x)}

	next, err := e.DragDuplicate(state, &StaticApp{Items: []*types.Element{a, b, x}, State: types.NewAppState("a", "x")})
	require.NoError(t, err)
	require.Len(t, next, 5)

	da, dx := next[3], next[4]
	// the left-behind connector keeps the unselected end
	assert.Equal(t, da.ID, dx.StartBinding.ElementID)
	assert.Equal(t, "b", dx.EndBinding.ElementID)
	assert.Equal(t, []types.BoundElement{{ID: dx.ID, Type: types.BoundArrow}}, b.BoundElements)

	// the dragged connector lets go of it
	assert.Equal(t, "a", x.StartBinding.ElementID)
	assert.Nil(t, x.EndBinding)
	assert.Equal(t, []types.BoundElement{{ID: "x", Type: types.BoundArrow}}, a.BoundElements)
	assert.Equal(t, []types.BoundElement{{ID: dx.ID, Type: types.BoundArrow}}, da.BoundElements)
	assert.Empty(t, binding.Validate(next))
}

func TestDragDuplicateBoundText(t *testing.T) {
	e := testEngine()
	box := rect("box", "a", 0, 0)
	label := &types.Element{ID: "label", Type: types.TypeText, Index: "b", ContainerID: "box", Version: 1}
	box.BoundElements = []types.BoundElement{{ID: "label", Type: types.BoundText}}
	state := &PointerDownState{OriginalElements: snapshot(box, label)}

	next, err := e.DragDuplicate(state, &StaticApp{Items: []*types.Element{box, label}, State: types.NewAppState("box")})
	require.NoError(t, err)
	require.Len(t, next, 4)

	dBox, dLabel := next[2], next[3]
	assert.Equal(t, dBox.ID, dLabel.ContainerID)
	assert.Equal(t, dLabel.ID, dBox.BoundTextID())
	assert.Equal(t, "box", label.ContainerID)
	assert.Equal(t, "label", box.BoundTextID())
	assert.Empty(t, binding.Validate(next))
}

func TestDragDuplicateHookReplacesCollection(t *testing.T) {
	e := testEngine()
	a, b := rect("a", "a", 0, 0), rect("b", "b", 300, 0)
	app := &StaticApp{
		Items: []*types.Element{a, b},
		State: types.NewAppState("a"),
		Hook: func(next []*types.Element) []*types.Element {
			// copies go to the back of the paint order
			return []*types.Element{next[2], next[0], next[1]}
		},
	}
	state := &PointerDownState{OriginalElements: snapshot(a)}

	next, err := e.DragDuplicate(state, app)
	require.NoError(t, err)
	assert.Equal(t, []string{"id1", "a", "b"}, ids(next))
	assert.True(t, order.IsOrdered(next))
}

func TestDragDuplicateHookDroppingCopy(t *testing.T) {
	e := testEngine()
	a := rect("a", "a", 0, 0)
	app := &StaticApp{
		Items: []*types.Element{a},
		State: types.NewAppState("a"),
		Hook:  func(next []*types.Element) []*types.Element { return next[:1] },
	}
	state := &PointerDownState{OriginalElements: snapshot(a), Pointer: types.Point{10, 10}}

	_, err := e.DragDuplicate(state, app)
	assert.ErrorIs(t, err, types.ErrInvariant)
	assert.Equal(t, 0.0, a.X)
}

func TestDragDuplicateNilState(t *testing.T) {
	_, err := testEngine().DragDuplicate(nil, &StaticApp{})
	assert.ErrorIs(t, err, types.ErrInvalidData)
}
