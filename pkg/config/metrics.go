package config

import (
	"github.com/marmos91/dittonas/pkg/metrics"
)

// MetricsResult holds what InitializeMetrics set up. Server is nil when
// metrics are disabled.
type MetricsResult struct {
	Server *metrics.Server
}

// InitializeMetrics creates the registry and the /metrics server when
// enabled. It must run before anything calls a metrics constructor.
func InitializeMetrics(cfg *Config) MetricsResult {
	if !cfg.Metrics.Enabled {
		return MetricsResult{}
	}

	metrics.InitRegistry()
	return MetricsResult{Server: metrics.NewServer(cfg.Metrics.Port)}
}
