// Package metrics records block split and assembly activity.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector receives measurements from Split and Stack.
type Collector interface {
	// RecordSplit observes one Split call producing blocks in the given mode.
	RecordSplit(mode string, blocks int, seconds float64)
	// RecordStack observes one Stack call assembling blocks.
	RecordStack(blocks int, seconds float64)
	// AddElementsCopied counts elements copied in a direction (split or stack).
	AddElementsCopied(direction string, n int)
}

// NopMetrics implements a no-op metrics collector.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements Collector.
var _ Collector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordSplit discards the split metric.
func (n *NopMetrics) RecordSplit(_ /* mode */ string, _ /* blocks */ int, _ /* seconds */ float64) {}

// RecordStack discards the stack metric.
func (n *NopMetrics) RecordStack(_ /* blocks */ int, _ /* seconds */ float64) {}

// AddElementsCopied discards the copy counter.
func (n *NopMetrics) AddElementsCopied(_ /* direction */ string, _ /* n */ int) {}

// PrometheusCollector implements Collector backed by Prometheus.
// Metrics are registered lazily on first use.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	splits         *prometheus.CounterVec
	splitBlocks    prometheus.Histogram
	splitDuration  *prometheus.HistogramVec
	stacks         prometheus.Counter
	stackDuration  prometheus.Histogram
	elementsCopied *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements Collector.
var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: metrics namespace (defaults to "blockwise" if empty)
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "blockwise"
	}
	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.splits = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "split",
			Name:      "calls_total",
			Help:      "Total Split calls by extraction mode (view,copy).",
		}, []string{"mode"})

		p.splitBlocks = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "split",
			Name:      "blocks",
			Help:      "Number of blocks produced per Split call.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1 .. 2048
		})

		p.splitDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "split",
			Name:      "duration_seconds",
			Help:      "Duration of Split calls in seconds by extraction mode.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"mode"})

		p.stacks = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "stack",
			Name:      "calls_total",
			Help:      "Total Stack calls.",
		})

		p.stackDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "stack",
			Name:      "duration_seconds",
			Help:      "Duration of Stack calls in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		})

		p.elementsCopied = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "elements_copied_total",
			Help:      "Total array elements copied by direction (split,stack).",
		}, []string{"direction"})

		p.reg.MustRegister(p.splits)
		p.reg.MustRegister(p.splitBlocks)
		p.reg.MustRegister(p.splitDuration)
		p.reg.MustRegister(p.stacks)
		p.reg.MustRegister(p.stackDuration)
		p.reg.MustRegister(p.elementsCopied)
	})
}

// RecordSplit counts the call and observes its block count and duration.
func (p *PrometheusCollector) RecordSplit(mode string, blocks int, seconds float64) {
	p.ensureRegistered()
	p.splits.WithLabelValues(mode).Inc()
	p.splitBlocks.Observe(float64(blocks))
	p.splitDuration.WithLabelValues(mode).Observe(seconds)
}

// RecordStack counts the call and observes its duration.
func (p *PrometheusCollector) RecordStack(_ int, seconds float64) {
	p.ensureRegistered()
	p.stacks.Inc()
	p.stackDuration.Observe(seconds)
}

// AddElementsCopied adds n to the copied-elements counter of direction.
func (p *PrometheusCollector) AddElementsCopied(direction string, n int) {
	p.ensureRegistered()
	p.elementsCopied.WithLabelValues(direction).Add(float64(n))
}
