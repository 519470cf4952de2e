package api

import (
	"os"
	"time"

	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/pkg/storagetree"
)

// EnvControlPlaneSecret is the name of the environment variable for the control plane's JWT signing secret.
const EnvControlPlaneSecret = "DITTONAS_CONTROLPLANE_SECRET"

// DefaultUIBaseURL is the prefix under which action links are rendered.
const DefaultUIBaseURL = "/ui"

// APIConfig configures the REST API HTTP server.
//
// The API server exposes the health checks, the authentication endpoints
// and the read-only NAS resources (storage, sharing, network, system).
type APIConfig struct {
	// Port is the HTTP port for the API endpoints.
	// Default: 8080
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 10s
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	// Default: 10s
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 60s
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`

	// UIBaseURL prefixes every action link (_edit_url, _delete_url, ...)
	// returned by the resource endpoints.
	// Default: /ui
	UIBaseURL string `mapstructure:"ui_base_url" yaml:"ui_base_url"`

	// Tree configures the storage tree projection.
	Tree TreeConfig `mapstructure:"tree" yaml:"tree"`

	// JWT configures JWT authentication for API endpoints.
	JWT JWTConfig `mapstructure:"jwt" yaml:"jwt"`
}

// TreeConfig configures the per-volume node id namespace.
type TreeConfig struct {
	// IDStride is multiplied by the volume id to seed node ids.
	// Default: 100
	IDStride int `mapstructure:"id_stride" validate:"omitempty,min=1" yaml:"id_stride"`
}

// JWTConfig configures JWT token generation and validation.
type JWTConfig struct {
	// Secret is the HMAC signing key for JWT tokens.
	// Must be at least 32 characters long.
	// DITTONAS_CONTROLPLANE_SECRET takes precedence over this value.
	Secret string `mapstructure:"secret" yaml:"secret"`

	// AccessTokenDuration is the lifetime of access tokens.
	// Default: 15m
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration" yaml:"access_token_duration"`

	// RefreshTokenDuration is the lifetime of refresh tokens.
	// Default: 168h (7 days)
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" yaml:"refresh_token_duration"`
}

// ApplyDefaults fills in zero values.
func (c *APIConfig) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.UIBaseURL == "" {
		c.UIBaseURL = DefaultUIBaseURL
	}
	if c.Tree.IDStride == 0 {
		c.Tree.IDStride = storagetree.DefaultStride
	}
	if c.JWT.AccessTokenDuration == 0 {
		c.JWT.AccessTokenDuration = 15 * time.Minute
	}
	if c.JWT.RefreshTokenDuration == 0 {
		c.JWT.RefreshTokenDuration = 7 * 24 * time.Hour
	}
}

// GetJWTSecret returns the JWT secret, preferring the environment variable.
// Logs a warning if the environment variable overrides a config file value.
func (c *APIConfig) GetJWTSecret() string {
	envSecret := os.Getenv(EnvControlPlaneSecret)
	if envSecret != "" {
		if c.JWT.Secret != "" && c.JWT.Secret != envSecret {
			logger.Warn("JWT secret from environment variable overrides config file value",
				"env_var", EnvControlPlaneSecret)
		}
		return envSecret
	}
	return c.JWT.Secret
}

// HasJWTSecret returns whether a JWT secret is configured.
func (c *APIConfig) HasJWTSecret() bool {
	return c.GetJWTSecret() != ""
}
