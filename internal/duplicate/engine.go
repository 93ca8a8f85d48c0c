// Package duplicate copies element selections while keeping every relation
// among the copies intact: group membership, frame containment, bound text,
// and connector bindings. It provides the offset duplication used by the
// duplicate command and the Alt-drag duplication used while dragging.
package duplicate

import (
	"go.uber.org/zap"

	"github.com/BakaI9/excalidraw/internal/metrics"
	"github.com/BakaI9/excalidraw/internal/mutation"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// Engine duplicates selections. All element writes after cloning go through
// the mutation engine.
type Engine struct {
	mut     *mutation.Engine
	offset  float64
	logger  *zap.Logger
	metrics *metrics.Collector
}

// Option configures an Engine.
type Option func(*Engine)

// WithOffset sets the distance added to x and y of every duplicate.
func WithOffset(offset float64) Option {
	return func(e *Engine) { e.offset = offset }
}

// NewEngine creates a duplication engine writing through mut. Logging and
// metrics are shared with mut.
func NewEngine(mut *mutation.Engine, opts ...Option) *Engine {
	e := &Engine{
		mut:     mut,
		offset:  types.DefaultDuplicateOffset,
		logger:  mut.Logger(),
		metrics: mut.Metrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Offset returns the configured duplication offset.
func (e *Engine) Offset() float64 { return e.offset }

// Result is the outcome of DuplicateSelectionWithOffset.
type Result struct {
	// Elements is the full collection with duplicates inserted.
	Elements []*types.Element
	// AppState selects the new top-level duplicates.
	AppState types.AppState
	// Duplicates maps each original ID to the ID of its copy.
	Duplicates map[string]string
}

// CloneElement returns a copy of el with a fresh ID and seed, group IDs
// remapped through groupIDMap, and offset added to its position. New group IDs
// are generated on first use and recorded in groupIDMap, so one map shared
// across a pass keeps copies of the same group together. The copy's bound
// element list is left empty for the caller to rebuild.
func (e *Engine) CloneElement(editingGroupID string, groupIDMap map[string]string, el *types.Element, offset types.Point) *types.Element {
	c := el.Clone()
	c.ID = e.mut.GenerateID()
	c.Seed = e.mut.Random()
	c.BoundElements = nil
	c.X += offset[0]
	c.Y += offset[1]
	c.GroupIDs = GetNewGroupIDs(c.GroupIDs, editingGroupID, groupIDMap, e.mut.GenerateID)
	e.mut.BumpVersion(c)
	return c
}
