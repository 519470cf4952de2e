package metrics

import "time"

// APIMetrics observes the REST API.
//
// Route is the chi route pattern (e.g. "/api/v1/storage/volumes/{id}"), never
// the raw path, so label cardinality stays bounded.
type APIMetrics interface {
	// RecordRequest records a completed request.
	RecordRequest(method, route string, status int, duration time.Duration)

	// RecordRequestStart increments the in-flight gauge.
	RecordRequestStart(method string)

	// RecordRequestEnd decrements the in-flight gauge.
	RecordRequestEnd(method string)
}

// NewAPIMetrics returns the Prometheus implementation, or nil when metrics
// are disabled or the implementation package was not imported.
func NewAPIMetrics() APIMetrics {
	if !IsEnabled() || newPrometheusAPIMetrics == nil {
		return nil
	}
	return newPrometheusAPIMetrics()
}

// newPrometheusAPIMetrics is set by pkg/metrics/prometheus.
var newPrometheusAPIMetrics func() APIMetrics

// RegisterAPIMetricsConstructor is called by pkg/metrics/prometheus during init.
func RegisterAPIMetricsConstructor(constructor func() APIMetrics) {
	newPrometheusAPIMetrics = constructor
}
