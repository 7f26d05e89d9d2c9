package middleware

import (
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/hive/internal/errors"
	"github.com/vango-dev/hive/pkg/store"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "hive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "hive",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for one or more stores. It is a
// store.BroadcastObserver, and Middleware returns the operation middleware.
type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationErrors   *prometheus.CounterVec
	broadcastsTotal   *prometheus.CounterVec
	patchesDelivered  *prometheus.CounterVec
	dirtyKeys         prometheus.Histogram
	missingDone       *prometheus.CounterVec

	connectionsActive   prometheus.Gauge
	subscriptionsActive prometheus.Gauge
	protocolErrors      *prometheus.CounterVec
}

var _ store.BroadcastObserver = (*Metrics)(nil)

// NewMetrics creates and registers the collectors. Registering twice on the
// same registry panics, as with any promauto collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		operationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operations_total",
			Help:        "Total number of store operations",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "module", "status"}),

		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_duration_seconds",
			Help:        "Store operation duration in seconds, including the broadcast",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind", "module"}),

		operationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_errors_total",
			Help:        "Total number of failed store operations",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "error_type"}),

		broadcastsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "broadcasts_total",
			Help:        "Total number of broadcast passes",
			ConstLabels: config.ConstLabels,
		}, []string{"module"}),

		patchesDelivered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_delivered_total",
			Help:        "Total number of patches delivered to components",
			ConstLabels: config.ConstLabels,
		}, []string{"module"}),

		dirtyKeys: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "broadcast_dirty_keys",
			Help:        "Number of dirty keys drained per broadcast",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 4, 8, 16, 32, 64},
		}),

		missingDone: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "missing_done_total",
			Help:        "Actions that returned with unbroadcast writes and no Done call",
			ConstLabels: config.ConstLabels,
		}, []string{"module", "action"}),

		connectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "connections_active",
			Help:        "Number of open WebSocket connections",
			ConstLabels: config.ConstLabels,
		}),

		subscriptionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscriptions_active",
			Help:        "Number of remote components subscribed over WebSocket",
			ConstLabels: config.ConstLabels,
		}),

		protocolErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "protocol_errors_total",
			Help:        "Total WebSocket protocol errors by code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),
	}
}

// Middleware returns store middleware recording operation counts, errors
// and durations.
func (m *Metrics) Middleware() store.Middleware {
	return func(next store.Handler) store.Handler {
		return func(op *store.Operation) (any, error) {
			start := time.Now()
			res, err := next(op)

			kind := string(op.Kind)
			m.operationDuration.WithLabelValues(kind, moduleLabel(op.Module)).
				Observe(time.Since(start).Seconds())

			status := "success"
			if err != nil {
				status = "error"
				m.operationErrors.WithLabelValues(kind, categorizeError(err)).Inc()
			}
			m.operationsTotal.WithLabelValues(kind, moduleLabel(op.Module), status).Inc()

			return res, err
		}
	}
}

// ObserveBroadcast implements store.BroadcastObserver.
func (m *Metrics) ObserveBroadcast(stats store.BroadcastStats) {
	module := moduleLabel(stats.Module)
	m.broadcastsTotal.WithLabelValues(module).Inc()
	m.patchesDelivered.WithLabelValues(module).Add(float64(stats.Patches))
	m.dirtyKeys.Observe(float64(stats.DirtyKeys))
}

// ObserveMissingDone implements store.BroadcastObserver.
func (m *Metrics) ObserveMissingDone(module, action string) {
	m.missingDone.WithLabelValues(moduleLabel(module), action).Inc()
}

// ConnectionOpened records a new WebSocket connection.
func (m *Metrics) ConnectionOpened() {
	m.connectionsActive.Inc()
}

// ConnectionClosed records a closed WebSocket connection.
func (m *Metrics) ConnectionClosed() {
	m.connectionsActive.Dec()
}

// SubscriptionAdded records a remote component subscribing.
func (m *Metrics) SubscriptionAdded() {
	m.subscriptionsActive.Inc()
}

// SubscriptionRemoved records a remote component going away.
func (m *Metrics) SubscriptionRemoved() {
	m.subscriptionsActive.Dec()
}

// RecordProtocolError records a protocol error by code.
func (m *Metrics) RecordProtocolError(code string) {
	m.protocolErrors.WithLabelValues(code).Inc()
}

// moduleLabel names the root module explicitly so the label is never empty.
func moduleLabel(path string) string {
	if path == "" {
		return "root"
	}
	return path
}

// categorizeError returns the error's category, keeping label cardinality
// bounded by the category list instead of error messages.
func categorizeError(err error) string {
	var he *errors.HiveError
	if stderrors.As(err, &he) && he.Category != "" {
		return string(he.Category)
	}
	return "internal"
}
