package duplicate

import (
	"github.com/BakaI9/excalidraw/internal/mutation"
	"github.com/BakaI9/excalidraw/internal/scene"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// rebindMode selects how relations to elements outside the copied set are
// resolved.
type rebindMode int

const (
	// rebindCopy leaves the originals untouched. Copies keep connectors to
	// outside elements, which then list both original and copy.
	rebindCopy rebindMode = iota
	// rebindDrag hands every outside relation over to the copies, which stay
	// where the originals were, and detaches it from the originals.
	rebindDrag
)

// fixRelations rewires the relations of every copy after a duplication pass.
// originals lists the copied elements and origToDup maps each to its copy.
// All writes go through the mutation engine with notifications suppressed.
func (e *Engine) fixRelations(all, originals []*types.Element, origToDup map[string]string, mode rebindMode) error {
	r := &rebinder{
		mut:   e.mut,
		store: scene.MapOf(all),
		m:     origToDup,
		mode:  mode,
	}
	steps := []func(o, d *types.Element) error{
		r.fixContainer,
		r.fixFrame,
		r.fixBoundElements,
		r.fixBindings,
	}
	for _, step := range steps {
		for _, o := range originals {
			d := r.store.Get(origToDup[o.ID])
			if d == nil {
				return &types.InvariantError{Op: opDuplicate, Message: "copy missing from collection", ElementID: o.ID}
			}
			if err := step(o, d); err != nil {
				return err
			}
		}
	}
	return nil
}

type rebinder struct {
	mut   *mutation.Engine
	store scene.Map
	m     map[string]string
	mode  rebindMode
}

func (r *rebinder) write(el *types.Element, updates types.Updates) error {
	_, err := r.mut.Mutate(r.store, el, updates, mutation.WithInform(false))
	return err
}

// fixContainer points a copied text label at the copy of its container, or
// detaches it when the container was not copied.
func (r *rebinder) fixContainer(o, d *types.Element) error {
	if !d.IsText() || d.ContainerID == "" {
		return nil
	}
	if id, ok := r.m[d.ContainerID]; ok {
		return r.write(d, types.Updates{types.FieldContainerID: id})
	}
	return r.write(d, types.Updates{types.FieldContainerID: nil})
}

// fixFrame moves a copy into the copy of its frame when the frame was copied.
func (r *rebinder) fixFrame(o, d *types.Element) error {
	if d.FrameID == "" {
		return nil
	}
	if id, ok := r.m[d.FrameID]; ok {
		return r.write(d, types.Updates{types.FieldFrameID: id})
	}
	return nil
}

// fixBoundElements rebuilds the bound element list of a copied owner.
func (r *rebinder) fixBoundElements(o, d *types.Element) error {
	if len(o.BoundElements) == 0 || !(o.IsBindable() || o.IsTextBindableContainer()) {
		return nil
	}
	var mapped, kept, unmapped []types.BoundElement
	for _, be := range o.BoundElements {
		if id, ok := r.m[be.ID]; ok {
			mapped = append(mapped, types.BoundElement{ID: id, Type: be.Type})
			kept = append(kept, be)
			continue
		}
		unmapped = append(unmapped, be)
	}

	if r.mode == rebindCopy {
		if len(mapped) == 0 {
			return nil
		}
		return r.write(d, types.Updates{types.FieldBoundElements: mapped})
	}

	if next := append(mapped, unmapped...); len(next) > 0 {
		if err := r.write(d, types.Updates{types.FieldBoundElements: next}); err != nil {
			return err
		}
	}
	for _, be := range unmapped {
		if err := r.handOver(r.store.Get(be.ID), o, d); err != nil {
			return err
		}
	}
	if len(unmapped) == 0 {
		return nil
	}
	if len(kept) == 0 {
		return r.write(o, types.Updates{types.FieldBoundElements: nil})
	}
	return r.write(o, types.Updates{types.FieldBoundElements: kept})
}

// handOver moves the relations peer holds with o over to d.
func (r *rebinder) handOver(peer, o, d *types.Element) error {
	if peer == nil {
		return nil
	}
	if peer.IsText() && peer.ContainerID == o.ID {
		return r.write(peer, types.Updates{types.FieldContainerID: d.ID})
	}
	if !peer.IsBindingElement() {
		return nil
	}
	u := types.Updates{}
	if b := peer.StartBinding; b != nil && b.ElementID == o.ID {
		u[types.FieldStartBinding] = retarget(b, d.ID)
	}
	if b := peer.EndBinding; b != nil && b.ElementID == o.ID {
		u[types.FieldEndBinding] = retarget(b, d.ID)
	}
	if len(u) == 0 {
		return nil
	}
	return r.write(peer, u)
}

// fixBindings rewires both ends of a copied connector.
func (r *rebinder) fixBindings(o, d *types.Element) error {
	if !o.IsBindingElement() || (o.StartBinding == nil && o.EndBinding == nil) {
		return nil
	}
	dup := types.Updates{}
	orig := types.Updates{}
	for _, end := range []struct {
		field string
		b     *types.PointBinding
	}{
		{types.FieldStartBinding, o.StartBinding},
		{types.FieldEndBinding, o.EndBinding},
	} {
		if end.b == nil {
			continue
		}
		if id, ok := r.m[end.b.ElementID]; ok {
			dup[end.field] = retarget(end.b, id)
			continue
		}
		dup[end.field] = end.b.Clone()
		if r.mode == rebindDrag {
			if err := r.replaceEntry(r.store.Get(end.b.ElementID), o.ID, d.ID); err != nil {
				return err
			}
			orig[end.field] = nil
		}
	}
	if err := r.write(d, dup); err != nil {
		return err
	}
	if len(orig) == 0 {
		return nil
	}
	return r.write(o, orig)
}

// replaceEntry swaps oldID for newID in target's bound element list, keeping
// a single entry for newID.
func (r *rebinder) replaceEntry(target *types.Element, oldID, newID string) error {
	if target == nil || !target.HasBoundElement(oldID) {
		return nil
	}
	next := make([]types.BoundElement, 0, len(target.BoundElements))
	seen := false
	for _, be := range target.BoundElements {
		if be.ID == oldID {
			be.ID = newID
		}
		if be.ID == newID {
			if seen {
				continue
			}
			seen = true
		}
		next = append(next, be)
	}
	return r.write(target, types.Updates{types.FieldBoundElements: next})
}

func retarget(b *types.PointBinding, id string) *types.PointBinding {
	c := b.Clone()
	c.ElementID = id
	return c
}
