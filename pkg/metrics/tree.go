package metrics

import "time"

// TreeMetrics observes storage tree projections.
type TreeMetrics interface {
	// RecordProjection records one projection of a volume. err is the
	// projection error, nil on success.
	RecordProjection(volume string, nodes int, duration time.Duration, err error)

	// RecordStrideOverflow counts projections whose node count reached the
	// id stride, i.e. whose ids spill into the next volume's block.
	RecordStrideOverflow(volume string)
}

// NewTreeMetrics returns the Prometheus implementation, or nil when metrics
// are disabled.
func NewTreeMetrics() TreeMetrics {
	if !IsEnabled() || newPrometheusTreeMetrics == nil {
		return nil
	}
	return newPrometheusTreeMetrics()
}

var newPrometheusTreeMetrics func() TreeMetrics

// RegisterTreeMetricsConstructor is called by pkg/metrics/prometheus during init.
func RegisterTreeMetricsConstructor(constructor func() TreeMetrics) {
	newPrometheusTreeMetrics = constructor
}

// ObserveProjection records a projection on m if m is non-nil.
func ObserveProjection(m TreeMetrics, volume string, nodes int, duration time.Duration, err error) {
	if m != nil {
		m.RecordProjection(volume, nodes, duration, err)
	}
}

// ObserveStrideOverflow records an overflow on m if m is non-nil.
func ObserveStrideOverflow(m TreeMetrics, volume string) {
	if m != nil {
		m.RecordStrideOverflow(volume)
	}
}
