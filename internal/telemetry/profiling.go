package telemetry

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"github.com/grafana/pyroscope-go"

	"github.com/marmos91/dittonas/internal/logger"
)

// ProfilingOptions configures the Pyroscope client.
type ProfilingOptions struct {
	Enabled      bool
	Endpoint     string // Pyroscope server URL
	ProfileTypes []string
}

// profileTypes maps configuration names onto Pyroscope profile types.
var profileTypes = map[string]pyroscope.ProfileType{
	"cpu":            pyroscope.ProfileCPU,
	"alloc_objects":  pyroscope.ProfileAllocObjects,
	"alloc_space":    pyroscope.ProfileAllocSpace,
	"inuse_objects":  pyroscope.ProfileInuseObjects,
	"inuse_space":    pyroscope.ProfileInuseSpace,
	"goroutines":     pyroscope.ProfileGoroutines,
	"mutex_count":    pyroscope.ProfileMutexCount,
	"mutex_duration": pyroscope.ProfileMutexDuration,
	"block_count":    pyroscope.ProfileBlockCount,
	"block_duration": pyroscope.ProfileBlockDuration,
}

const (
	mutexProfileFraction = 5
	blockProfileRate     = 5
)

// ParseProfileTypes resolves profile names, rejecting unknown ones.
func ParseProfileTypes(names []string) ([]pyroscope.ProfileType, error) {
	out := make([]pyroscope.ProfileType, 0, len(names))
	for _, name := range names {
		pt, ok := profileTypes[name]
		if !ok {
			return nil, fmt.Errorf("unknown profile type %q", name)
		}
		out = append(out, pt)
	}
	return out, nil
}

func startProfiling(opts Options) (Shutdown, error) {
	types, err := ParseProfileTypes(opts.Profiling.ProfileTypes)
	if err != nil {
		return nil, err
	}

	// Mutex and block profiles are empty unless the runtime samples them.
	if slices.Contains(types, pyroscope.ProfileMutexCount) || slices.Contains(types, pyroscope.ProfileMutexDuration) {
		runtime.SetMutexProfileFraction(mutexProfileFraction)
	}
	if slices.Contains(types, pyroscope.ProfileBlockCount) || slices.Contains(types, pyroscope.ProfileBlockDuration) {
		runtime.SetBlockProfileRate(blockProfileRate)
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: opts.ServiceName,
		ServerAddress:   opts.Profiling.Endpoint,
		Tags:            map[string]string{"version": opts.ServiceVersion},
		ProfileTypes:    types,
		Logger:          pyroscopeLogger{},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}

	return func(_ context.Context) error { return profiler.Stop() }, nil
}

// pyroscopeLogger routes the profiler's own messages to the DittoNAS logger.
type pyroscopeLogger struct{}

func (pyroscopeLogger) Infof(format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...), "component", "pyroscope")
}

func (pyroscopeLogger) Debugf(format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...), "component", "pyroscope")
}

func (pyroscopeLogger) Errorf(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...), "component", "pyroscope")
}
