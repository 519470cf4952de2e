package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/internal/telemetry"
	"github.com/marmos91/dittonas/pkg/config"
	"github.com/marmos91/dittonas/pkg/controlplane"
	"github.com/marmos91/dittonas/pkg/controlplane/runtime"

	// Import prometheus metrics to register init() functions
	_ "github.com/marmos91/dittonas/pkg/metrics/prometheus"
)

const serviceName = "dittonas"

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the DittoNAS API server",
	Long: `Start the DittoNAS REST API (and the Prometheus endpoint when enabled)
in the foreground until SIGINT or SIGTERM.

On first start an admin account is created. Its password is taken from
DITTONAS_ADMIN_INITIAL_PASSWORD or generated and printed once.

Logging level and format follow edits of the configuration file without a
restart.

Examples:
  # Start with the default configuration file
  dnas start

  # Start with a custom config file
  dnas start --config /etc/dittonas/config.yaml

  # Override settings from the environment
  DITTONAS_LOGGING_LEVEL=DEBUG dnas start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("DittoNAS starting", "version", Version, "commit", Commit)
	configSource := getConfigSource(GetConfigFile())
	logger.Info("Configuration loaded", "source", configSource)

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetryOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	// Must run before the API server creates its collectors.
	metricsResult := config.InitializeMetrics(cfg)

	cp, err := controlplane.New(ctx, &controlplane.Options{
		Database:        &cfg.Database,
		API:             &cfg.ControlPlane,
		ShutdownTimeout: cfg.ShutdownTimeout,
		OnInventoryChange: func(status runtime.InventoryStatus) {
			logger.Info("Serving new inventory", "source", status.Source)
		},
	})
	if err != nil {
		return err
	}
	defer func() { _ = cp.Close() }()

	adminPassword, err := cp.EnsureAdminUser(ctx, cfg.Admin.Username, cfg.Admin.Email)
	if err != nil {
		return fmt.Errorf("failed to ensure admin user: %w", err)
	}
	if adminPassword != "" {
		logger.Info("Admin user created", logger.Username(cfg.Admin.Username))
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "\n*** IMPORTANT: Admin user %q created with password: %s ***\n", cfg.Admin.Username, adminPassword)
		_, _ = fmt.Fprintln(out, "Please save this password. It will not be shown again.")
		_, _ = fmt.Fprintln(out)
	}

	rt := cp.Runtime()
	if metricsResult.Server != nil {
		if err := rt.AddServer("metrics", metricsResult.Server); err != nil {
			return err
		}
	} else {
		logger.Info("Metrics collection disabled")
	}

	if configSource != "defaults" {
		if err := config.Watch(configSource, config.ApplyLogging); err != nil {
			logger.Warn("Configuration hot reload disabled", logger.Err(err))
		}
	}

	logger.Info("Server is running. Press Ctrl+C to stop.")
	if err := rt.Serve(ctx); err != nil {
		logger.Error("Server error", logger.Err(err))
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// telemetryOptions maps the telemetry section of cfg onto telemetry.Options.
func telemetryOptions(cfg *config.Config) telemetry.Options {
	return telemetry.Options{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Tracing: telemetry.TracingOptions{
			Enabled:    cfg.Telemetry.Enabled,
			Endpoint:   cfg.Telemetry.Endpoint,
			Insecure:   cfg.Telemetry.Insecure,
			SampleRate: cfg.Telemetry.SampleRate,
		},
		Profiling: telemetry.ProfilingOptions{
			Enabled:      cfg.Telemetry.Profiling.Enabled,
			Endpoint:     cfg.Telemetry.Profiling.Endpoint,
			ProfileTypes: cfg.Telemetry.Profiling.ProfileTypes,
		},
	}
}
