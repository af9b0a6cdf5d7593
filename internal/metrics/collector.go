package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/agbru/fibtree/internal/fibonacci"
)

const namespace = "fibtree"

// Collector records evaluator and calculation metrics in its own Prometheus
// registry. It implements fibonacci.Instrumentation and
// fibonacci.TreeObserver and is safe for concurrent use.
type Collector struct {
	registry *prometheus.Registry

	pairsForked  prometheus.Counter
	activeTasks  prometheus.Gauge
	leavesTotal  prometheus.Counter
	leafDuration prometheus.Histogram
	evaluations  *prometheus.CounterVec
	evalDuration prometheus.Histogram
	treeLeaves   prometheus.Gauge
	treeDepth    prometheus.Gauge
	calculations *prometheus.CounterVec
	calcDuration *prometheus.HistogramVec
	resultDigits prometheus.Gauge
}

var (
	_ fibonacci.Instrumentation = (*Collector)(nil)
	_ fibonacci.TreeObserver    = (*Collector)(nil)
)

// NewCollector creates a collector with a fresh registry that also carries
// the Go runtime and process collectors.
func NewCollector() *Collector {
	durationBuckets := prometheus.ExponentialBuckets(1e-5, 4, 12)
	c := &Collector{
		registry: prometheus.NewRegistry(),
		pairsForked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pairs_forked_total",
			Help: "Pairs whose halves were evaluated concurrently.",
		}),
		activeTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "active_forks",
			Help: "Forked pairs that have not joined yet.",
		}),
		leavesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "leaves_evaluated_total",
			Help: "Leaves computed by the base-case calculator.",
		}),
		leafDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "leaf_duration_seconds",
			Help: "Time spent computing a single leaf.", Buckets: durationBuckets,
		}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "evaluations_total",
			Help: "Tree evaluations by outcome.",
		}, []string{"outcome"}),
		evalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "evaluation_duration_seconds",
			Help: "Wall time of a whole tree evaluation.", Buckets: durationBuckets,
		}),
		treeLeaves: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "tree_leaves",
			Help: "Leaf count of the most recently built tree.",
		}),
		treeDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "tree_depth",
			Help: "Depth of the most recently built tree.",
		}),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "calculations_total",
			Help: "Calculator runs by calculator and outcome.",
		}, []string{"calculator", "outcome"}),
		calcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "calculation_duration_seconds",
			Help: "Wall time of a calculator run.", Buckets: durationBuckets,
		}, []string{"calculator"}),
		resultDigits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "result_digits",
			Help: "Decimal digits of the most recent result.",
		}),
	}

	c.registry.MustRegister(
		c.pairsForked, c.activeTasks, c.leavesTotal, c.leafDuration,
		c.evaluations, c.evalDuration, c.treeLeaves, c.treeDepth,
		c.calculations, c.calcDuration, c.resultDigits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// PairForked implements fibonacci.Instrumentation.
func (c *Collector) PairForked() {
	c.pairsForked.Inc()
	c.activeTasks.Inc()
}

// PairJoined implements fibonacci.Instrumentation.
func (c *Collector) PairJoined() { c.activeTasks.Dec() }

// LeafEvaluated implements fibonacci.Instrumentation.
func (c *Collector) LeafEvaluated(_ uint64, elapsed time.Duration) {
	c.leavesTotal.Inc()
	c.leafDuration.Observe(elapsed.Seconds())
}

// Evaluated implements fibonacci.Instrumentation.
func (c *Collector) Evaluated(_ uint64, elapsed time.Duration, err error) {
	c.evaluations.WithLabelValues(outcome(err)).Inc()
	c.evalDuration.Observe(elapsed.Seconds())
}

// TreeBuilt implements fibonacci.TreeObserver.
func (c *Collector) TreeBuilt(leaves uint64, depth int) {
	c.treeLeaves.Set(float64(leaves))
	c.treeDepth.Set(float64(depth))
}

// ObserveCalculation records one calculator run. digits is ignored for
// failed runs.
func (c *Collector) ObserveCalculation(calculator string, elapsed time.Duration, digits int, err error) {
	c.calculations.WithLabelValues(calculator, outcome(err)).Inc()
	c.calcDuration.WithLabelValues(calculator).Observe(elapsed.Seconds())
	if err == nil {
		c.resultDigits.Set(float64(digits))
	}
}

// WriteTextfile writes every metric in the Prometheus text format to path,
// atomically, for pickup by a node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
