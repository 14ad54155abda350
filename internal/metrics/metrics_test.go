package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopMetrics(t *testing.T) {
	m := NewNop()

	var _ Collector = m

	require.NotPanics(t, func() {
		m.RecordSplit("copy", 6, 0.01)
		m.RecordStack(6, 0.02)
		m.AddElementsCopied("split", 50)
	})
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordSplit("copy", 6, 0.001)
	p.RecordSplit("copy", 4, 0.002)
	p.RecordSplit("view", 2, 0.001)
	p.RecordStack(6, 0.003)
	p.AddElementsCopied("split", 50)
	p.AddElementsCopied("split", 10)
	p.AddElementsCopied("stack", 50)

	assert.InDelta(t, 2, testutil.ToFloat64(p.splits.WithLabelValues("copy")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(p.splits.WithLabelValues("view")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(p.stacks), 1e-9)
	assert.InDelta(t, 60, testutil.ToFloat64(p.elementsCopied.WithLabelValues("split")), 1e-9)
	assert.InDelta(t, 50, testutil.ToFloat64(p.elementsCopied.WithLabelValues("stack")), 1e-9)

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Positive(t, count)
}

func TestPrometheusCollectorDefaults(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry(), "")
	assert.Equal(t, "blockwise", p.namespace)
}
