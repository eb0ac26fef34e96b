// Package metrics provides Prometheus metrics for the FFE bridge service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the bridge.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Parsing
	parses         *prometheus.CounterVec
	entitiesParsed *prometheus.CounterVec

	// Batch import
	batchSends          *prometheus.CounterVec
	customFieldFailures prometheus.Counter

	// Platform API
	platformLatency  *prometheus.HistogramVec
	platformFailures *prometheus.CounterVec

	// Fan-out checks
	jobs *prometheus.HistogramVec

	// Exports
	exports *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ffebridge",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// Default returns the manager registered on the custom registry.
func Default() *Manager { return globalManager }

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.parses = m.counterVec("parses_total", "XML documents parsed by outcome", "outcome")
	m.entitiesParsed = m.counterVec("entities_parsed_total", "Entities extracted from parsed documents by kind", "kind")

	m.batchSends = m.counterVec("batch_sends_total", "Batch transactions sent by outcome", "outcome")
	m.customFieldFailures = promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "custom_field_setup_failures_total",
		Help:        "Custom field configuration steps that failed before a send",
		ConstLabels: m.customLabels,
	})

	m.platformLatency = m.histogramVec("platform_request_duration_seconds", "Platform API latency by endpoint", "endpoint")
	m.platformFailures = m.counterVec("platform_failures_total", "Failed platform API calls by endpoint and kind", "endpoint", "kind")

	m.jobs = m.histogramVec("pool_job_duration_seconds", "Fan-out job duration by pool and outcome", "pool", "outcome")

	m.exports = m.counterVec("exports_total", "Generated export files by format", "format")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// ParseStats is the entity breakdown of one parsed document.
type ParseStats map[string]int

// ObserveParse records one parse and, on success, the entities it produced.
func (m *Manager) ObserveParse(stats ParseStats, err error) {
	if !m.enabled {
		return
	}
	m.parses.WithLabelValues(outcome(err)).Inc()
	for kind, n := range stats {
		m.entitiesParsed.WithLabelValues(kind).Add(float64(n))
	}
}

// ObserveBatch records one batch send.
func (m *Manager) ObserveBatch(err error) {
	if m.enabled {
		m.batchSends.WithLabelValues(outcome(err)).Inc()
	}
}

// ObserveCustomFieldFailure records a failed custom-field setup step.
func (m *Manager) ObserveCustomFieldFailure() {
	if m.enabled {
		m.customFieldFailures.Inc()
	}
}

// ObservePlatformRequest records one platform call.
func (m *Manager) ObservePlatformRequest(endpoint string, seconds float64, err error) {
	if !m.enabled {
		return
	}
	m.platformLatency.WithLabelValues(endpoint).Observe(seconds)
	if err != nil {
		m.platformFailures.WithLabelValues(endpoint, FailureKind(err)).Inc()
	}
}

// ObserveJob records one fan-out job.
func (m *Manager) ObserveJob(pool string, seconds float64, err error) {
	if m.enabled {
		m.jobs.WithLabelValues(pool, outcome(err)).Observe(seconds)
	}
}

// ObserveExport records generated files of a format.
func (m *Manager) ObserveExport(format string, files int) {
	if m.enabled {
		m.exports.WithLabelValues(format).Add(float64(files))
	}
}

// ObserveHTTP records one served request.
func (m *Manager) ObserveHTTP(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.ObserveHTTP(endpoint, method, statusCode, durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
