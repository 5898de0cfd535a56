// Package metrics provides Prometheus metrics for the affinity recommendation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exposes.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Engine metrics
	interactionsIngested  prometheus.Counter
	interactionsDuplicate prometheus.Counter
	recomputeLatency      prometheus.Histogram
	historySize           prometheus.Gauge
	recommendationCount   prometheus.Gauge
	filterRequests        *prometheus.CounterVec

	// Persistence metrics
	persistenceOps     *prometheus.CounterVec
	persistenceErrors  *prometheus.CounterVec
	persistenceLatency *prometheus.HistogramVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "affinity",
		subsystem:        "recommender",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.interactionsIngested = auto.NewCounter(m.counterOpts("interactions_ingested_total",
		"Total number of interactions appended to the history"))
	m.interactionsDuplicate = auto.NewCounter(m.counterOpts("interactions_duplicate_total",
		"Total number of interactions dropped because their ID was already ingested"))
	m.recomputeLatency = auto.NewHistogram(m.histogramOpts("recompute_latency_milliseconds",
		"Time to rescore the full history and rebuild the ranking"))
	m.historySize = auto.NewGauge(m.gaugeOpts("history_size",
		"Number of interactions currently held in the history"))
	m.recommendationCount = auto.NewGauge(m.gaugeOpts("recommendations",
		"Number of items in the last published recommendation list"))
	m.filterRequests = auto.NewCounterVec(m.counterOpts("filter_requests_total",
		"Score view computations by decay and normalization mode"), []string{"decayed", "normalized"})

	m.persistenceOps = auto.NewCounterVec(m.counterOpts("persistence_operations_total",
		"Persistence load/save operations by store"), []string{"store", "op"})
	m.persistenceErrors = auto.NewCounterVec(m.counterOpts("persistence_errors_total",
		"Persistence failures swallowed by the store"), []string{"store", "op"})
	m.persistenceLatency = auto.NewHistogramVec(m.histogramOpts("persistence_latency_milliseconds",
		"Persistence operation latency in milliseconds"), []string{"store", "op"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorsByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Total number of errors by type"), []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// RecordIngested adds n to the ingested interactions counter.
func (m *Manager) RecordIngested(n int) {
	if m.enabled && n > 0 {
		m.interactionsIngested.Add(float64(n))
	}
}

// RecordDuplicates adds n to the duplicate interactions counter.
func (m *Manager) RecordDuplicates(n int) {
	if m.enabled && n > 0 {
		m.interactionsDuplicate.Add(float64(n))
	}
}

// RecordRecompute records one recompute and the resulting sizes.
func (m *Manager) RecordRecompute(latencyMs float64, historySize, recommendations int) {
	if !m.enabled {
		return
	}
	m.recomputeLatency.Observe(latencyMs)
	m.historySize.Set(float64(historySize))
	m.recommendationCount.Set(float64(recommendations))
}

// RecordFilter counts one score-view computation.
func (m *Manager) RecordFilter(decayed, normalized bool) {
	if m.enabled {
		m.filterRequests.WithLabelValues(boolLabel(decayed), boolLabel(normalized)).Inc()
	}
}

// RecordPersistence records a load or save against store.
func (m *Manager) RecordPersistence(store, op string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.persistenceOps.WithLabelValues(store, op).Inc()
	m.persistenceLatency.WithLabelValues(store, op).Observe(latencyMs)
}

// RecordPersistenceError counts a swallowed persistence failure.
func (m *Manager) RecordPersistenceError(store, op string) {
	if m.enabled {
		m.persistenceErrors.WithLabelValues(store, op).Inc()
	}
}

// RecordHTTPRequest records a request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records a failed request by endpoint and by type.
func (m *Manager) RecordHTTPError(endpoint, method, errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordSystem updates the process-level gauges.
func (m *Manager) RecordSystem(memBytes uint64, goroutines int, avgGCPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if avgGCPauseMs > 0 {
		m.systemGCPauseTime.Observe(avgGCPauseMs)
	}
}

// Package-level helpers delegate to the global manager.

// RecordIngested adds n to the ingested interactions counter.
func RecordIngested(n int) { globalManager.RecordIngested(n) }

// RecordDuplicates adds n to the duplicate interactions counter.
func RecordDuplicates(n int) { globalManager.RecordDuplicates(n) }

// RecordRecompute records one recompute and the resulting sizes.
func RecordRecompute(latencyMs float64, historySize, recommendations int) {
	globalManager.RecordRecompute(latencyMs, historySize, recommendations)
}

// RecordFilter counts one score-view computation.
func RecordFilter(decayed, normalized bool) { globalManager.RecordFilter(decayed, normalized) }

// RecordPersistence records a load or save against store.
func RecordPersistence(store, op string, latencyMs float64) {
	globalManager.RecordPersistence(store, op, latencyMs)
}

// RecordPersistenceError counts a swallowed persistence failure.
func RecordPersistenceError(store, op string) { globalManager.RecordPersistenceError(store, op) }

// RecordHTTPRequest records a request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError records a failed request by endpoint and by type.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	globalManager.RecordHTTPError(endpoint, method, errorType, severity)
}

// RecordSystem updates the process-level gauges.
func RecordSystem(memBytes uint64, goroutines int, avgGCPauseMs float64) {
	globalManager.RecordSystem(memBytes, goroutines, avgGCPauseMs)
}

// GetRegistry returns the custom registry the global manager registers on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
