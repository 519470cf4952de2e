package prometheus

import (
	"time"

	"github.com/marmos91/dittonas/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type treeMetrics struct {
	projections *prometheus.CounterVec
	nodes       *prometheus.HistogramVec
	duration    *prometheus.HistogramVec
	overflows   *prometheus.CounterVec
}

// NewTreeMetrics returns nil if metrics are not enabled.
func NewTreeMetrics() metrics.TreeMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &treeMetrics{
		projections: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dittonas_tree_projections_total",
				Help: "Total number of storage tree projections by volume and outcome",
			},
			[]string{"volume", "status"}, // "success", "error"
		),
		nodes: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dittonas_tree_nodes",
				Help:    "Number of nodes emitted per projection",
				Buckets: []float64{1, 5, 10, 25, 50, 75, 100, 250, 1000},
			},
			[]string{"volume"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dittonas_tree_projection_duration_milliseconds",
				Help:    "Duration of storage tree projections in milliseconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50},
			},
			[]string{"volume"},
		),
		overflows: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dittonas_tree_stride_overflows_total",
				Help: "Projections whose node count reached the configured id stride",
			},
			[]string{"volume"},
		),
	}
}

func (m *treeMetrics) RecordProjection(volume string, nodes int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.projections.WithLabelValues(volume, status).Inc()
	if err != nil {
		return
	}
	m.nodes.WithLabelValues(volume).Observe(float64(nodes))
	m.duration.WithLabelValues(volume).Observe(float64(duration.Nanoseconds()) / 1e6)
}

func (m *treeMetrics) RecordStrideOverflow(volume string) {
	m.overflows.WithLabelValues(volume).Inc()
}
