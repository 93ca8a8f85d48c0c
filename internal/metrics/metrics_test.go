package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()
	c.MutationApplied()
	c.MutationApplied()
	c.MutationNoop()
	c.CascadeApplied()
	c.ShapeInvalidated()
	c.Duplicated(3)
	c.Duplicated(0)
	c.BindingWarning()
	c.DragAborted()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.MutationsApplied))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.MutationsNoop))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CascadeUpdates))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ShapeCacheInvalidation))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.ElementsDuplicated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.BindingWarnings))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DragDuplicateAborts))
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.MutationApplied()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.MutationsApplied))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.MutationApplied()
		c.MutationNoop()
		c.CascadeApplied()
		c.ShapeInvalidated()
		c.Duplicated(2)
		c.BindingWarning()
		c.DragAborted()
	})
	assert.Nil(t, c.Registry())
	s, err := c.Snapshot()
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestSnapshot(t *testing.T) {
	c := NewCollector()
	c.Duplicated(4)

	samples, err := c.Snapshot()
	require.NoError(t, err)
	require.Len(t, samples, 7)
	assert.Equal(t, "board_binding_warnings_total", samples[0].Name)

	found := false
	for _, s := range samples {
		if s.Name == "board_elements_duplicated_total" {
			found = true
			assert.Equal(t, 4.0, s.Value)
		}
	}
	assert.True(t, found)
}
