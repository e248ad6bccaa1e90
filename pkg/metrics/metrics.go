package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/lazydom/pkg/vdom"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "lazydom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "lazydom",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Operation label values of dom_operations_total.
const (
	OpInsert  = "insert"
	OpDelete  = "delete"
	OpReplace = "replace"
	OpRepair  = "repair"
	OpSkip    = "skip"
)

// Collector records flush statistics. It is safe for concurrent use.
type Collector struct {
	flushesTotal    *prometheus.CounterVec
	flushDuration   prometheus.Histogram
	elementsFlushed prometheus.Counter
	nodesCreated    prometheus.Counter
	domOperations   *prometheus.CounterVec
	queueLength     prometheus.Gauge
}

var _ vdom.FlushObserver = (*Collector)(nil)

// New registers the flush metrics and returns their Collector. Registering
// twice on the same registry panics, as with promauto.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		flushesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of flush calls by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		elementsFlushed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "elements_flushed_total",
			Help:        "Total number of queued elements processed by flushes",
			ConstLabels: config.ConstLabels,
		}),

		nodesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_created_total",
			Help:        "Total number of rendered nodes created",
			ConstLabels: config.ConstLabels,
		}),

		domOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dom_operations_total",
			Help:        "Total child-list operations by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		queueLength: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "queue_length",
			Help:        "Number of elements waiting for the next flush",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveFlush implements vdom.FlushObserver.
func (c *Collector) ObserveFlush(s vdom.FlushStats) {
	if s.Skipped {
		c.flushesTotal.WithLabelValues("skipped").Inc()
		return
	}
	c.flushesTotal.WithLabelValues("applied").Inc()
	c.flushDuration.Observe(s.Duration.Seconds())
	c.elementsFlushed.Add(float64(s.Elements))
	c.nodesCreated.Add(float64(s.Created))

	c.domOperations.WithLabelValues(OpInsert).Add(float64(s.Inserts))
	c.domOperations.WithLabelValues(OpDelete).Add(float64(s.Deletes))
	c.domOperations.WithLabelValues(OpReplace).Add(float64(s.Replaces))
	c.domOperations.WithLabelValues(OpRepair).Add(float64(s.Repairs))
	c.domOperations.WithLabelValues(OpSkip).Add(float64(s.Skips))

	c.queueLength.Set(float64(s.Pending))
}

// SetQueueLength reports the current queue length outside a flush.
func (c *Collector) SetQueueLength(n int) {
	c.queueLength.Set(float64(n))
}
