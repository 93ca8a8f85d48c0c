package mutation

import (
	"math"

	"go.uber.org/zap"

	"github.com/BakaI9/excalidraw/internal/binding"
	"github.com/BakaI9/excalidraw/internal/scene"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// MutateOption adjusts a single Mutate call.
type MutateOption func(*mutateConfig)

type mutateConfig struct {
	inform bool
}

// WithInform controls whether the store is notified after a real change.
// The default is true.
func WithInform(inform bool) MutateOption {
	return func(c *mutateConfig) { c.inform = inform }
}

// fields whose change makes a cached shape stale
var shapeFields = []string{types.FieldWidth, types.FieldHeight, types.FieldFileID, types.FieldPoints}

// elbow arrows are rerouted when any of these change
var routeFields = []string{types.FieldPoints, types.FieldFixedSegments, types.FieldStartBinding, types.FieldEndBinding}

// Mutate applies updates to el in place and reports whether el changed.
//
// All keys are validated before anything is written. The binding cascades
// implied by the write are applied to the other elements in store through the
// same path. store may be nil when el is not part of a board.
func (e *Engine) Mutate(store scene.ElementsMap, el *types.Element, updates types.Updates, opts ...MutateOption) (bool, error) {
	if el == nil {
		return false, types.ErrNotFound
	}
	cfg := mutateConfig{inform: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if store == nil {
		store = scene.Map(nil)
	}

	norm, err := updates.Normalize()
	if err != nil {
		return false, err
	}

	if el.IsElbowArrow() && e.router != nil && (len(norm) == 0 || hasAny(norm, routeFields)) {
		routed, err := e.router.Route(store, el, norm)
		if err != nil {
			return false, err
		}
		routed, err = routed.Normalize()
		if err != nil {
			return false, err
		}
		for k, v := range routed {
			norm[k] = v
		}
		norm[types.FieldAngle] = 0.0
	} else if pts, ok := norm[types.FieldPoints].([]types.Point); ok {
		w, h := sizeFromPoints(pts)
		if !norm.Has(types.FieldWidth) {
			norm[types.FieldWidth] = w
		}
		if !norm.Has(types.FieldHeight) {
			norm[types.FieldHeight] = h
		}
	}

	plan := binding.Plan(store, el, norm, e.reporter)

	changed := e.apply(plan[0].Element, plan[0].Updates)
	anyChanged := changed
	for _, u := range plan[1:] {
		if e.apply(u.Element, u.Updates) {
			e.metrics.CascadeApplied()
			anyChanged = true
		}
	}

	if anyChanged && cfg.inform {
		if n, ok := store.(Notifier); ok {
			n.TriggerUpdate()
		}
	}
	return changed, nil
}

// apply writes normalized updates to el and bumps its version when at least
// one field changed.
func (e *Engine) apply(el *types.Element, updates types.Updates) bool {
	var changed []string
	for _, key := range updates.Keys() {
		val := updates[key]
		cur, kind, ok := el.Field(key)
		if !ok {
			continue
		}
		if unchanged(kind, cur, val) {
			continue
		}
		_ = el.SetField(key, val)
		changed = append(changed, key)
	}
	if len(changed) == 0 {
		e.metrics.MutationNoop()
		return false
	}

	if e.cache != nil && containsAny(changed, shapeFields) {
		e.cache.Delete(el)
		e.metrics.ShapeInvalidated()
	}
	e.BumpVersion(el)
	e.metrics.MutationApplied()
	e.logger.Debug("element mutated",
		zap.String("elementId", el.ID),
		zap.Int64("version", el.Version),
		zap.Strings("fields", changed))
	return true
}

// BumpVersion increments the element version, draws a new nonce, and stamps
// the updated time.
func (e *Engine) BumpVersion(el *types.Element) {
	el.Version++
	el.VersionNonce = e.random()
	el.Updated = e.Now()
}

// unchanged reports whether writing val over cur is a no-op. Scalars compare
// by value and clearing an empty field is skipped. Among structured values
// only scale and points are compared; any other present value counts as a
// change.
func unchanged(kind types.FieldKind, cur, val any) bool {
	if val == nil {
		return isEmpty(cur)
	}
	switch kind {
	case types.KindNumber, types.KindString, types.KindBool:
		return cur == val
	case types.KindScale:
		prev, ok := cur.(types.Scale)
		next, _ := val.(types.Scale)
		return ok && prev == next
	case types.KindPoints:
		prev, _ := cur.([]types.Point)
		next, _ := val.([]types.Point)
		if len(prev) != len(next) {
			return false
		}
		for i := range prev {
			if prev[i] != next[i] {
				return false
			}
		}
		return true
	}
	return false
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []string:
		return t == nil
	case []types.BoundElement:
		return t == nil
	case []types.FixedSegment:
		return t == nil
	case *types.PointBinding:
		return t == nil
	case map[string]any:
		return t == nil
	}
	return false
}

func hasAny(u types.Updates, keys []string) bool {
	for _, k := range keys {
		if u.Has(k) {
			return true
		}
	}
	return false
}

func containsAny(keys, want []string) bool {
	for _, k := range keys {
		for _, w := range want {
			if k == w {
				return true
			}
		}
	}
	return false
}

// sizeFromPoints returns the width and height of the points' bounding box.
func sizeFromPoints(points []types.Point) (float64, float64) {
	if len(points) == 0 {
		return 0, 0
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p[0])
		maxX = math.Max(maxX, p[0])
		minY = math.Min(minY, p[1])
		maxY = math.Max(maxY, p[1])
	}
	return maxX - minX, maxY - minY
}
