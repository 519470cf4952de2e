package commands

import (
	"fmt"

	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/pkg/config"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig loads the configuration named by --config, or the defaults
// when no file exists, and initializes the logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, err
	}
	if err := InitLogger(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore connects to the control plane database of cfg. The caller
// closes the store.
func openStore(cfg *config.Config) (*store.GORMStore, error) {
	cpStore, err := store.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize control plane store: %w", err)
	}
	return cpStore, nil
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
