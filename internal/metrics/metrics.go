// Package metrics counts engine activity on a per-instance Prometheus
// registry. A nil *Collector is valid and records nothing, so engines can
// take one unconditionally.
package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "board"

// Collector holds the engine counters and the registry they are registered on.
type Collector struct {
	registry *prometheus.Registry

	MutationsApplied       prometheus.Counter
	MutationsNoop          prometheus.Counter
	CascadeUpdates         prometheus.Counter
	ShapeCacheInvalidation prometheus.Counter
	ElementsDuplicated     prometheus.Counter
	BindingWarnings        prometheus.Counter
	DragDuplicateAborts    prometheus.Counter
}

func counter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	})
}

// NewCollector creates a collector with its own registry. Nothing is
// registered globally, so tests may create as many as they like.
func NewCollector() *Collector {
	c := &Collector{
		registry:               prometheus.NewRegistry(),
		MutationsApplied:       counter("mutations_applied_total", "Element mutations that changed at least one field"),
		MutationsNoop:          counter("mutations_noop_total", "Element mutations skipped because nothing changed"),
		CascadeUpdates:         counter("cascade_updates_total", "Binding updates applied to elements other than the mutated one"),
		ShapeCacheInvalidation: counter("shape_cache_invalidations_total", "Shape cache entries invalidated by geometry changes"),
		ElementsDuplicated:     counter("elements_duplicated_total", "Elements created by duplication"),
		BindingWarnings:        counter("binding_warnings_total", "Binding relations skipped because of dangling or invalid references"),
		DragDuplicateAborts:    counter("drag_duplicate_aborts_total", "Drag duplications aborted by the scene bounds guard"),
	}
	c.registry.MustRegister(
		c.MutationsApplied,
		c.MutationsNoop,
		c.CascadeUpdates,
		c.ShapeCacheInvalidation,
		c.ElementsDuplicated,
		c.BindingWarnings,
		c.DragDuplicateAborts,
	)
	return c
}

// Registry returns the collector's registry, or nil for a nil collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// MutationApplied counts one mutation that changed the element.
func (c *Collector) MutationApplied() {
	if c != nil {
		c.MutationsApplied.Inc()
	}
}

// MutationNoop counts one mutation that was skipped.
func (c *Collector) MutationNoop() {
	if c != nil {
		c.MutationsNoop.Inc()
	}
}

// CascadeApplied counts one cascaded binding update.
func (c *Collector) CascadeApplied() {
	if c != nil {
		c.CascadeUpdates.Inc()
	}
}

// ShapeInvalidated counts one shape cache invalidation.
func (c *Collector) ShapeInvalidated() {
	if c != nil {
		c.ShapeCacheInvalidation.Inc()
	}
}

// Duplicated adds n to the duplicated element count.
func (c *Collector) Duplicated(n int) {
	if c != nil && n > 0 {
		c.ElementsDuplicated.Add(float64(n))
	}
}

// BindingWarning counts one skipped binding relation.
func (c *Collector) BindingWarning() {
	if c != nil {
		c.BindingWarnings.Inc()
	}
}

// DragAborted counts one aborted drag duplication.
func (c *Collector) DragAborted() {
	if c != nil {
		c.DragDuplicateAborts.Inc()
	}
}

// Sample is one gathered counter value.
type Sample struct {
	Name  string
	Value float64
}

// Snapshot gathers every counter from the registry, sorted by name.
func (c *Collector) Snapshot() ([]Sample, error) {
	if c == nil {
		return nil, nil
	}
	families, err := c.registry.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			out = append(out, Sample{Name: mf.GetName(), Value: m.GetCounter().GetValue()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
