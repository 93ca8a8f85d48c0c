// Package binding keeps the two sides of every element relation consistent:
// connectors and the shapes they bind to, and containers and their text
// labels.
//
// The synchronizer never mutates anything itself. Plan returns the ordered
// list of writes that a mutation implies, and the mutation engine applies
// them through its normal path.
package binding

import (
	"github.com/BakaI9/excalidraw/internal/scene"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// Update is one planned write.
type Update struct {
	Element *types.Element
	Updates types.Updates
}

// Plan returns the writes implied by applying updates to el. The first entry
// is always the primary write itself; the rest are cascades, at most one per
// target element. updates must already be normalized.
func Plan(store scene.ElementsMap, el *types.Element, updates types.Updates, reporter Reporter) []Update {
	if reporter == nil {
		reporter = nopReporter{}
	}
	p := &planner{
		store:    store,
		reporter: reporter,
		queued:   make(map[string]int),
	}
	p.plan = append(p.plan, Update{Element: el, Updates: updates})
	p.queued[el.ID] = 0

	if el.IsBindable() || el.IsTextBindableContainer() {
		if v, ok := updates[types.FieldBoundElements]; ok {
			entries, _ := v.([]types.BoundElement)
			p.syncOwnedElements(el, entries)
		}
	}
	if el.IsBindingElement() {
		p.syncConnectorTargets(el, updates)
	}
	return p.plan
}

type planner struct {
	store    scene.ElementsMap
	reporter Reporter
	plan     []Update
	queued   map[string]int
}

func (p *planner) queue(target *types.Element, field string, value any) {
	if i, ok := p.queued[target.ID]; ok {
		if i == 0 {
			// Never cascade back onto the primary.
			return
		}
		p.plan[i].Updates[field] = value
		return
	}
	p.queued[target.ID] = len(p.plan)
	p.plan = append(p.plan, Update{Element: target, Updates: types.Updates{field: value}})
}

// syncOwnedElements points every text label listed in entries at owner.
func (p *planner) syncOwnedElements(owner *types.Element, entries []types.BoundElement) {
	for _, be := range entries {
		switch be.Type {
		case types.BoundText:
			if owner.IsText() {
				p.reporter.Report(Issue{Kind: IssueTextOwnsText, ElementID: owner.ID, RelatedID: be.ID})
				continue
			}
			text := p.store.Get(be.ID)
			if !text.IsText() {
				p.reporter.Report(Issue{Kind: IssueMissingText, ElementID: owner.ID, RelatedID: be.ID})
				continue
			}
			if text.ContainerID != owner.ID {
				p.queue(text, types.FieldContainerID, owner.ID)
			}
		case types.BoundArrow:
			p.reporter.Report(Issue{Kind: IssueArrowEntry, ElementID: owner.ID, RelatedID: be.ID})
		default:
			p.reporter.Report(Issue{Kind: IssueUnknownEntry, ElementID: owner.ID, RelatedID: be.ID})
		}
	}
}

// syncConnectorTargets appends the connector to each bound target that does
// not list it yet.
func (p *planner) syncConnectorTargets(conn *types.Element, updates types.Updates) {
	seen := make(map[string]bool, 2)
	for _, field := range []string{types.FieldStartBinding, types.FieldEndBinding} {
		b := resolveBinding(conn, updates, field)
		if b == nil || b.ElementID == "" || seen[b.ElementID] {
			continue
		}
		seen[b.ElementID] = true

		target := p.store.Get(b.ElementID)
		if target == nil {
			p.reporter.Report(Issue{Kind: IssueDanglingBinding, ElementID: conn.ID, RelatedID: b.ElementID})
			continue
		}
		if target.HasBoundElement(conn.ID) {
			continue
		}
		base := target.BoundElements
		if i, ok := p.queued[target.ID]; ok && i > 0 {
			if pending, ok := p.plan[i].Updates[types.FieldBoundElements].([]types.BoundElement); ok {
				base = pending
			}
		}
		next := make([]types.BoundElement, 0, len(base)+1)
		next = append(next, base...)
		next = append(next, types.BoundElement{ID: conn.ID, Type: types.BoundArrow})
		p.queue(target, types.FieldBoundElements, next)
	}
}

// resolveBinding returns the binding named by field, taking the pending
// update over the element's current value.
func resolveBinding(el *types.Element, updates types.Updates, field string) *types.PointBinding {
	if v, ok := updates[field]; ok {
		b, _ := v.(*types.PointBinding)
		return b
	}
	if field == types.FieldStartBinding {
		return el.StartBinding
	}
	return el.EndBinding
}
