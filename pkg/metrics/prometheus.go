package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes used as label values.
const (
	OutcomeOK     = "ok"
	OutcomeError  = "error"
	OutcomeCached = "cached"
)

// Manager manages all Prometheus metrics for the territory service.
type Manager struct {
	namespace   string
	subsystem   string
	runBuckets  []float64
	httpBuckets []float64
	enabled     bool
	constLabels prometheus.Labels
	registry    prometheus.Registerer

	// Assignment runs
	assignmentRuns    *prometheus.CounterVec
	assignmentLatency prometheus.Histogram
	accountsAssigned  prometheus.Counter
	cacheLookups      *prometheus.CounterVec
	cacheEntries      prometheus.Gauge
	balance           *prometheus.GaugeVec
	locationMatchRate *prometheus.GaugeVec
	lastThreshold     prometheus.Gauge
	segmentAccounts   *prometheus.GaugeVec

	// Dataset
	datasetAccounts    prometheus.Gauge
	datasetReps        prometheus.Gauge
	datasetLoads       *prometheus.CounterVec
	datasetLoadLatency prometheus.Histogram

	// Threshold sweep
	sweepEvaluations   prometheus.Counter
	sweepLatency       prometheus.Histogram
	sweepBestThreshold prometheus.Gauge
	sweepActiveWorkers prometheus.Gauge

	// Outbound
	publishes *prometheus.CounterVec
	exports   *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:   "territory",
		subsystem:   "assignment",
		runBuckets:  DefaultRunBuckets,
		httpBuckets: DefaultHTTPBuckets,
		enabled:     true,
		constLabels: prometheus.Labels{},
		registry:    prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.assignmentRuns = auto.NewCounterVec(
		m.counterOpts("runs_total", "Total number of assignment runs by outcome"),
		[]string{"outcome"},
	)
	m.assignmentLatency = auto.NewHistogram(
		m.histogramOpts("run_latency_milliseconds", "Histogram of assignment run latency in milliseconds", m.runBuckets),
	)
	m.accountsAssigned = auto.NewCounter(
		m.counterOpts("accounts_assigned_total", "Total number of accounts placed on a rep"),
	)
	m.cacheLookups = auto.NewCounterVec(
		m.counterOpts("cache_lookups_total", "Run cache lookups by result"),
		[]string{"result"},
	)
	m.cacheEntries = auto.NewGauge(
		m.gaugeOpts("cache_entries", "Number of assignment runs held in the run cache"),
	)
	m.balance = auto.NewGaugeVec(
		m.gaugeOpts("balance_percent", "Balance score (100 - CV) of the latest run by segment and facet"),
		[]string{"segment", "facet"},
	)
	m.locationMatchRate = auto.NewGaugeVec(
		m.gaugeOpts("location_match_percent", "Share of accounts placed with a same-location rep in the latest run"),
		[]string{"segment"},
	)
	m.lastThreshold = auto.NewGauge(
		m.gaugeOpts("threshold_employees", "Employee threshold used by the latest run"),
	)
	m.segmentAccounts = auto.NewGaugeVec(
		m.gaugeOpts("segment_accounts", "Accounts per segment in the latest run"),
		[]string{"segment"},
	)

	m.datasetAccounts = auto.NewGauge(
		m.gaugeOpts("dataset_accounts", "Accounts in the loaded dataset"),
	)
	m.datasetReps = auto.NewGauge(
		m.gaugeOpts("dataset_reps", "Reps in the loaded dataset"),
	)
	m.datasetLoads = auto.NewCounterVec(
		m.counterOpts("dataset_loads_total", "Dataset loads by outcome"),
		[]string{"outcome"},
	)
	m.datasetLoadLatency = auto.NewHistogram(
		m.histogramOpts("dataset_load_latency_milliseconds", "Histogram of dataset load latency in milliseconds", m.runBuckets),
	)

	m.sweepEvaluations = auto.NewCounter(
		m.counterOpts("sweep_evaluations_total", "Thresholds evaluated by sweeps"),
	)
	m.sweepLatency = auto.NewHistogram(
		m.histogramOpts("sweep_latency_milliseconds", "Histogram of full sweep latency in milliseconds", m.runBuckets),
	)
	m.sweepBestThreshold = auto.NewGauge(
		m.gaugeOpts("sweep_best_threshold", "Best threshold found by the latest sweep"),
	)
	m.sweepActiveWorkers = auto.NewGauge(
		m.gaugeOpts("sweep_active_workers", "Sweep workers currently evaluating a threshold"),
	)

	m.publishes = auto.NewCounterVec(
		m.counterOpts("publishes_total", "Run summaries published by outcome"),
		[]string{"outcome"},
	)
	m.exports = auto.NewCounterVec(
		m.counterOpts("exports_total", "Assignment exports by format"),
		[]string{"format"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.httpBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_bytes", "Heap memory in use in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutines", "Number of goroutines"),
	)
}

// RecordRun records the outcome and latency of one assignment run.
func (m *Manager) RecordRun(outcome string, latencyMs float64, accounts int) {
	if !m.enabled {
		return
	}
	m.assignmentRuns.WithLabelValues(outcome).Inc()
	if outcome == OutcomeCached {
		return
	}
	m.assignmentLatency.Observe(latencyMs)
	if accounts > 0 {
		m.accountsAssigned.Add(float64(accounts))
	}
}

// RecordCacheLookup counts a run cache hit or miss.
func (m *Manager) RecordCacheLookup(hit bool) {
	if !m.enabled {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// UpdateCacheEntries sets the run cache size.
func (m *Manager) UpdateCacheEntries(n int) {
	if m.enabled {
		m.cacheEntries.Set(float64(n))
	}
}

// UpdateBalance sets the balance gauge for one segment and facet.
func (m *Manager) UpdateBalance(segment, facet string, balance float64) {
	if m.enabled {
		m.balance.WithLabelValues(segment, facet).Set(balance)
	}
}

// UpdateLocationMatchRate sets the location match gauge for one segment.
func (m *Manager) UpdateLocationMatchRate(segment string, rate float64) {
	if m.enabled {
		m.locationMatchRate.WithLabelValues(segment).Set(rate)
	}
}

// UpdateThreshold sets the threshold of the latest run.
func (m *Manager) UpdateThreshold(threshold int) {
	if m.enabled {
		m.lastThreshold.Set(float64(threshold))
	}
}

// UpdateSegmentAccounts sets the account count of one segment.
func (m *Manager) UpdateSegmentAccounts(segment string, n int) {
	if m.enabled {
		m.segmentAccounts.WithLabelValues(segment).Set(float64(n))
	}
}

// RecordDatasetLoad records a dataset load attempt.
func (m *Manager) RecordDatasetLoad(outcome string, latencyMs float64, accounts, reps int) {
	if !m.enabled {
		return
	}
	m.datasetLoads.WithLabelValues(outcome).Inc()
	m.datasetLoadLatency.Observe(latencyMs)
	if outcome == OutcomeOK {
		m.datasetAccounts.Set(float64(accounts))
		m.datasetReps.Set(float64(reps))
	}
}

// RecordSweep records a finished sweep.
func (m *Manager) RecordSweep(evaluated int, latencyMs float64, best int) {
	if !m.enabled {
		return
	}
	m.sweepEvaluations.Add(float64(evaluated))
	m.sweepLatency.Observe(latencyMs)
	m.sweepBestThreshold.Set(float64(best))
}

// AddSweepActiveWorkers adjusts the active sweep worker gauge by delta.
func (m *Manager) AddSweepActiveWorkers(delta int) {
	if m.enabled {
		m.sweepActiveWorkers.Add(float64(delta))
	}
}

// RecordPublish counts a run summary publish attempt.
func (m *Manager) RecordPublish(outcome string) {
	if m.enabled {
		m.publishes.WithLabelValues(outcome).Inc()
	}
}

// RecordExport counts an export in the given format.
func (m *Manager) RecordExport(format string) {
	if m.enabled {
		m.exports.WithLabelValues(format).Inc()
	}
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if m.enabled {
		m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// CollectSystem samples heap usage and goroutine count.
func (m *Manager) CollectSystem() {
	if !m.enabled {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.HeapAlloc))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// Package-level helpers operate on the global manager.

// RecordRun records an assignment run on the global manager.
func RecordRun(outcome string, latencyMs float64, accounts int) {
	globalManager.RecordRun(outcome, latencyMs, accounts)
}

// RecordCacheLookup counts a run cache hit or miss.
func RecordCacheLookup(hit bool) { globalManager.RecordCacheLookup(hit) }

// UpdateCacheEntries sets the run cache size.
func UpdateCacheEntries(n int) { globalManager.UpdateCacheEntries(n) }

// UpdateBalance sets the balance gauge for one segment and facet.
func UpdateBalance(segment, facet string, balance float64) {
	globalManager.UpdateBalance(segment, facet, balance)
}

// UpdateLocationMatchRate sets the location match gauge for one segment.
func UpdateLocationMatchRate(segment string, rate float64) {
	globalManager.UpdateLocationMatchRate(segment, rate)
}

// UpdateThreshold sets the threshold of the latest run.
func UpdateThreshold(threshold int) { globalManager.UpdateThreshold(threshold) }

// UpdateSegmentAccounts sets the account count of one segment.
func UpdateSegmentAccounts(segment string, n int) { globalManager.UpdateSegmentAccounts(segment, n) }

// RecordDatasetLoad records a dataset load attempt.
func RecordDatasetLoad(outcome string, latencyMs float64, accounts, reps int) {
	globalManager.RecordDatasetLoad(outcome, latencyMs, accounts, reps)
}

// RecordSweep records a finished sweep.
func RecordSweep(evaluated int, latencyMs float64, best int) {
	globalManager.RecordSweep(evaluated, latencyMs, best)
}

// AddSweepActiveWorkers adjusts the active sweep worker gauge.
func AddSweepActiveWorkers(delta int) { globalManager.AddSweepActiveWorkers(delta) }

// RecordPublish counts a run summary publish attempt.
func RecordPublish(outcome string) { globalManager.RecordPublish(outcome) }

// RecordExport counts an export in the given format.
func RecordExport(format string) { globalManager.RecordExport(format) }

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// CollectSystem samples runtime stats into the global manager.
func CollectSystem() { globalManager.CollectSystem() }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
