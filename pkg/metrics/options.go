// Package metrics provides Prometheus metrics for the territory assignment service.
package metrics

import (
	"maps"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
)

// Latencies are recorded in milliseconds, so the Prometheus second-based
// default buckets do not fit.
var (
	// DefaultRunBuckets covers assignment runs, dataset loads and sweeps: 0.5ms to about 8s.
	DefaultRunBuckets = prometheus.ExponentialBuckets(0.5, 2, 15) //nolint:gochecknoglobals // read-only defaults

	// DefaultHTTPBuckets covers request handling including workbook exports.
	DefaultHTTPBuckets = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000} //nolint:gochecknoglobals // read-only defaults
)

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace. Empty keeps the default.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem overrides the metric subsystem. Empty keeps the default.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithRunBuckets sets the millisecond buckets of the run, dataset load and
// sweep histograms. Buckets that are empty or not strictly increasing are ignored.
func WithRunBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if validBuckets(buckets) {
			m.runBuckets = slices.Clone(buckets)
		}
	}
}

// WithHTTPBuckets sets the millisecond buckets of the request duration histogram.
func WithHTTPBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if validBuckets(buckets) {
			m.httpBuckets = slices.Clone(buckets)
		}
	}
}

// WithEnabled toggles recording.
// A disabled manager still registers its collectors but drops every observation.
func WithEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithConstLabels merges constant labels, such as the deployment region,
// into every collector.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		maps.Copy(m.constLabels, labels)
	}
}

// WithRegisterer registers the collectors on reg instead of the default registerer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}

func validBuckets(buckets []float64) bool {
	if len(buckets) == 0 {
		return false
	}
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return false
		}
	}
	return true
}
