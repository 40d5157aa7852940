package telemetry

import (
	"reflect"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/narvi-dev/narvi/pkg/notify"
)

// MetricsConfig configures the Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "narvi").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for cascade duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus instrumentation.
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

// WithBuckets sets the cascade duration buckets.
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

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "narvi",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Prometheus records engine activity as Prometheus metrics.
//
// Metrics collected:
//   - narvi_cascades_total: cascades started, by owner type
//   - narvi_cascades_aborted_total: cascades cut short by a panicking listener
//   - narvi_notifications_total: properties raised, by owner type
//   - narvi_cascade_size: properties raised per cascade
//   - narvi_cascade_duration_seconds: wall time of a cascade
//   - narvi_callbacks_collected_total: weak callbacks removed after collection
//   - narvi_subscriptions_active: open subscriptions, by kind
//   - narvi_path_rewires_total: path segments re-attached
type Prometheus struct {
	cascadesTotal      *prometheus.CounterVec
	cascadesAborted    *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	cascadeSize        prometheus.Histogram
	cascadeDuration    prometheus.Histogram
	callbacksCollected prometheus.Counter
	subscriptions      *prometheus.GaugeVec
	pathRewires        prometheus.Counter
}

// NewPrometheus registers the engine metrics and returns the
// instrumentation that feeds them. Install it with notify.SetInstrumentation.
func NewPrometheus(opts ...MetricsOption) *Prometheus {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Prometheus{
		cascadesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cascades_total",
			Help:        "Total number of change cascades started",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		cascadesAborted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cascades_aborted_total",
			Help:        "Total number of cascades aborted by a panicking listener",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		notificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of property change notifications raised",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		cascadeSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cascade_size",
			Help:        "Number of properties raised per cascade",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 4, 8, 16, 32, 64},
		}),

		cascadeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cascade_duration_seconds",
			Help:        "Cascade duration in seconds, listeners included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		callbacksCollected: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "callbacks_collected_total",
			Help:        "Total number of weak callbacks removed after their receiver was collected",
			ConstLabels: config.ConstLabels,
		}),

		subscriptions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscriptions_active",
			Help:        "Number of open subscriptions",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		pathRewires: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "path_rewires_total",
			Help:        "Total number of path segments re-attached to a new value",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (p *Prometheus) CascadeStarted(owner reflect.Type, _ string) notify.CascadeScope {
	typ := typeLabel(owner)
	p.cascadesTotal.WithLabelValues(typ).Inc()
	return &promScope{
		p:     p,
		typ:   typ,
		start: time.Now(),
	}
}

func (p *Prometheus) CallbackCollected() {
	p.callbacksCollected.Inc()
}

func (p *Prometheus) SubscriptionOpened(kind string) {
	p.subscriptions.WithLabelValues(kind).Inc()
}

func (p *Prometheus) SubscriptionClosed(kind string) {
	p.subscriptions.WithLabelValues(kind).Dec()
}

func (p *Prometheus) PathRewired(string) {
	p.pathRewires.Inc()
}

type promScope struct {
	p     *Prometheus
	typ   string
	start time.Time
	count int
}

func (s *promScope) Notified(string) {
	s.count++
	s.p.notificationsTotal.WithLabelValues(s.typ).Inc()
}

func (s *promScope) End(err error) {
	s.p.cascadeSize.Observe(float64(s.count))
	s.p.cascadeDuration.Observe(time.Since(s.start).Seconds())
	if err != nil {
		s.p.cascadesAborted.WithLabelValues(s.typ).Inc()
	}
}

// typeLabel keeps label values bounded to the declared type name.
func typeLabel(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	return t.String()
}
