package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/marmos91/dittonas/internal/logger"
	"github.com/spf13/viper"
)

// Watch re-reads the file at configPath whenever it changes and hands the
// new configuration to onChange. Invalid edits are logged and ignored, the
// previous configuration stays in effect.
//
// Only settings that can change at runtime should be acted upon by
// onChange; see ApplyLogging.
func Watch(configPath string, onChange func(*Config)) error {
	v := viper.New()
	setupViper(v, configPath)

	if _, err := readConfigFile(v); err != nil {
		return err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			logger.Warn("Ignoring invalid configuration change", "file", e.Name, logger.Err(err))
			return
		}
		logger.Info("Configuration reloaded", "file", e.Name)
		onChange(cfg)
	})
	v.WatchConfig()

	return nil
}

// ApplyLogging pushes the logging level and format to the global logger.
func ApplyLogging(cfg *Config) {
	logger.SetLevel(cfg.Logging.Level)
	logger.SetFormat(cfg.Logging.Format)
}
