// Package prometheus implements the pkg/metrics interfaces on top of the
// process registry. Import it for its side effects.
package prometheus

import (
	"strconv"
	"time"

	"github.com/marmos91/dittonas/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func init() {
	metrics.RegisterAPIMetricsConstructor(NewAPIMetrics)
	metrics.RegisterTreeMetricsConstructor(NewTreeMetrics)
}

type apiMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec
}

// NewAPIMetrics returns nil if metrics are not enabled.
func NewAPIMetrics() metrics.APIMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &apiMetrics{
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dittonas_api_requests_total",
				Help: "Total number of API requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "dittonas_api_request_duration_milliseconds",
				Help: "Duration of API requests in milliseconds",
				Buckets: []float64{
					1, // cached auth failures
					5, // single row lookups
					10,
					25,
					50, // paginated listings
					100,
					250, // large volume trees
					500,
					1000,
				},
			},
			[]string{"method", "route"},
		),
		inFlight: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dittonas_api_requests_in_flight",
				Help: "Number of API requests currently being served",
			},
			[]string{"method"},
		),
	}
}

func (m *apiMetrics) RecordRequest(method, route string, status int, duration time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(float64(duration.Microseconds()) / 1000)
}

func (m *apiMetrics) RecordRequestStart(method string) {
	m.inFlight.WithLabelValues(method).Inc()
}

func (m *apiMetrics) RecordRequestEnd(method string) {
	m.inFlight.WithLabelValues(method).Dec()
}
