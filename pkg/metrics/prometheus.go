// Package metrics provides Prometheus metrics for the cohort search service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the cohort service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Query interpretation
	queriesInterpreted   prometheus.Counter
	queriesEmpty         prometheus.Counter
	constraintsExtracted *prometheus.CounterVec

	// Record filtering
	filterLatency  prometheus.Histogram
	recordsScanned prometheus.Counter
	searchMatches  prometheus.Histogram

	// Record store
	panelSize         prometheus.Gauge
	storeQueryLatency prometheus.Histogram
	storeErrors       prometheus.Counter
	panelLoadsTotal   prometheus.Counter
	panelLastLoadUnix prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
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
		namespace:        "cohort",
		subsystem:        "search",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.queriesInterpreted = m.counter("queries_interpreted_total", "Total number of query texts interpreted")
	m.queriesEmpty = m.counter("queries_empty_total", "Queries from which no constraint could be extracted")
	m.constraintsExtracted = m.counterVec("constraints_extracted_total", "Constraints extracted from queries by field", "field")

	m.filterLatency = m.histogram("filter_latency_milliseconds", "Time spent applying a filter spec to the panel", m.histogramBuckets)
	m.recordsScanned = m.counter("records_scanned_total", "Total number of records evaluated by the filter")
	m.searchMatches = m.histogram("search_matches", "Number of records matched per search",
		prometheus.ExponentialBuckets(1, 4, 10))

	m.panelSize = m.gauge("panel_size", "Number of people in the record store")
	m.storeQueryLatency = m.histogram("store_query_latency_milliseconds", "Record store read latency in milliseconds", m.histogramBuckets)
	m.storeErrors = m.counter("store_errors_total", "Total number of record store failures")
	m.panelLoadsTotal = m.counter("panel_loads_total", "Total number of panel (re)loads")
	m.panelLastLoadUnix = m.gauge("panel_last_load_unix", "Unix timestamp of the last panel load")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		"endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint, method and type", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that ended in an error", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordQueryInterpreted counts one interpreted query and the fields it produced.
func (m *Manager) RecordQueryInterpreted(fields []string) {
	m.queriesInterpreted.Inc()
	if len(fields) == 0 {
		m.queriesEmpty.Inc()
		return
	}
	for _, f := range fields {
		m.constraintsExtracted.WithLabelValues(f).Inc()
	}
}

// RecordFilter records one filter pass over scanned records yielding matched records.
func (m *Manager) RecordFilter(scanned, matched int, latencyMs float64) {
	m.recordsScanned.Add(float64(scanned))
	m.searchMatches.Observe(float64(matched))
	m.filterLatency.Observe(latencyMs)
}

// UpdatePanelSize sets the number of people in the store.
func (m *Manager) UpdatePanelSize(size int) { m.panelSize.Set(float64(size)) }

// RecordPanelLoad marks a completed panel load at unix time ts.
func (m *Manager) RecordPanelLoad(size int, ts int64) {
	m.panelLoadsTotal.Inc()
	m.panelLastLoadUnix.Set(float64(ts))
	m.panelSize.Set(float64(size))
}

// RecordStoreQueryLatency records a record store read latency.
func (m *Manager) RecordStoreQueryLatency(latencyMs float64) { m.storeQueryLatency.Observe(latencyMs) }

// RecordStoreError counts a record store failure.
func (m *Manager) RecordStoreError() { m.storeErrors.Inc() }

// RecordHTTPRequest records an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func (m *Manager) RecordErrorLatency(component, errorType string, latencyMs float64) {
	m.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) { m.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func (m *Manager) UpdateSystemGoroutineCount(count int) { m.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) { m.systemGCPauseTime.Observe(pauseMs) }

// Package-level helpers record on the global manager.

// RecordQueryInterpreted counts one interpreted query on the global manager.
func RecordQueryInterpreted(fields []string) { globalManager.RecordQueryInterpreted(fields) }

// RecordFilter records one filter pass on the global manager.
func RecordFilter(scanned, matched int, latencyMs float64) {
	globalManager.RecordFilter(scanned, matched, latencyMs)
}

// UpdatePanelSize sets the panel size on the global manager.
func UpdatePanelSize(size int) { globalManager.UpdatePanelSize(size) }

// RecordPanelLoad marks a panel load on the global manager.
func RecordPanelLoad(size int, ts int64) { globalManager.RecordPanelLoad(size, ts) }

// RecordStoreQueryLatency records store latency on the global manager.
func RecordStoreQueryLatency(latencyMs float64) { globalManager.RecordStoreQueryLatency(latencyMs) }

// RecordStoreError counts a store failure on the global manager.
func RecordStoreError() { globalManager.RecordStoreError() }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration records HTTP duration on the global manager.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, duration)
}

// RecordErrorByComponent records a component error on the global manager.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// RecordErrorByType records a typed error on the global manager.
func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

// RecordErrorByEndpoint records an endpoint error on the global manager.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// RecordErrorLatency records error latency on the global manager.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.RecordErrorLatency(component, errorType, latencyMs)
}

// UpdateSystemMemoryUsage sets memory usage on the global manager.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the goroutine count on the global manager.
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

// RecordSystemGCPauseTime records GC pause on the global manager.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.RecordSystemGCPauseTime(pauseMs) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
