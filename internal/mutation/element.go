package mutation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/BakaI9/excalidraw/internal/binding"
	"github.com/BakaI9/excalidraw/internal/scene"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// NewElement builds a fresh element from proto. The engine owns the ID (kept
// when proto sets one), seed, version, nonce, and updated stamp. Relations in
// proto are synchronized against store: bound text gets its containerId and
// bound targets list the new connector. The new element is not inserted into
// store.
func (e *Engine) NewElement(store scene.ElementsMap, proto types.Element) (*types.Element, error) {
	el := proto.Clone()
	if el.ID == "" {
		el.ID = e.newID()
	}
	if err := types.ValidateElement(el); err != nil {
		return nil, err
	}
	if el.GroupIDs == nil {
		el.GroupIDs = []string{}
	}
	if el.Opacity == 0 {
		el.Opacity = 100
	}
	el.Seed = e.random()
	el.Version = 1
	el.VersionNonce = e.random()
	el.Updated = e.Now()
	if el.IsLinear() && len(el.Points) > 0 && el.Width == 0 && el.Height == 0 {
		el.Width, el.Height = sizeFromPoints(el.Points)
	}

	if store == nil {
		store = scene.Map(nil)
	}
	relations := types.Updates{}
	if len(el.BoundElements) > 0 {
		relations[types.FieldBoundElements] = el.BoundElements
	}
	if el.StartBinding != nil {
		relations[types.FieldStartBinding] = el.StartBinding
	}
	if el.EndBinding != nil {
		relations[types.FieldEndBinding] = el.EndBinding
	}
	// The primary entry is already in place; only cascades are applied.
	plan := binding.Plan(store, el, relations, e.reporter)
	for _, u := range plan[1:] {
		if e.apply(u.Element, u.Updates) {
			e.metrics.CascadeApplied()
		}
	}

	e.logger.Debug("element created",
		zap.String("elementId", el.ID),
		zap.String("type", string(el.Type)))
	return el, nil
}

// NewElementWith returns a copy of el with updates applied and its version
// bumped. When nothing would change, el itself is returned. No cascades run
// and the shape cache is untouched; the copy is not yet part of any board.
func (e *Engine) NewElementWith(el *types.Element, updates types.Updates) (*types.Element, error) {
	if el == nil {
		return nil, types.ErrNotFound
	}
	norm, err := updates.Normalize()
	if err != nil {
		return nil, err
	}

	didChange := false
	for key, val := range norm {
		cur, kind, _ := el.Field(key)
		if !unchanged(kind, cur, val) {
			didChange = true
			break
		}
	}
	if !didChange {
		return el, nil
	}

	next := el.Clone()
	for key, val := range norm {
		if err := next.SetField(key, val); err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}
	e.BumpVersion(next)
	return next, nil
}
