package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags first, then the cross-field rules that tags
// cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return err
	}

	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if secret := cfg.ControlPlane.JWT.Secret; secret != "" && len(secret) < 32 {
		return fmt.Errorf("controlplane.jwt.secret: must be at least 32 characters, got %d", len(secret))
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Port == cfg.ControlPlane.Port {
		return fmt.Errorf("metrics.port: must differ from controlplane.port (%d)", cfg.ControlPlane.Port)
	}

	return nil
}

// formatValidationErrors renders every failed field on its own line as
// "Field.Path: failed 'tag' (param)".
func formatValidationErrors(verrs validator.ValidationErrors) error {
	lines := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		line := fmt.Sprintf("%s: failed '%s'", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag())
		if fe.Param() != "" {
			line += fmt.Sprintf(" (%s)", fe.Param())
		}
		lines = append(lines, line)
	}
	return errors.New(strings.Join(lines, "\n"))
}
