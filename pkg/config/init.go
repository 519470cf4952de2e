package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"
)

// configTemplate is rendered by WriteSample. It is a commented version of
// GetDefaultConfig with a freshly generated JWT secret.
var configTemplate = template.Must(template.New("config").Parse(`# DittoNAS Configuration File
#
# Every value can be overridden with a DITTONAS_* environment variable,
# e.g. DITTONAS_LOGGING_LEVEL=DEBUG or DITTONAS_CONTROLPLANE_PORT=9000.
# The storage inventory is not configured here: load it with
#   dnas import inventory.yaml

logging:
  # DEBUG, INFO, WARN, ERROR
  level: INFO
  # text or json
  format: text
  # stdout, stderr or a file path
  output: stdout

telemetry:
  enabled: false
  endpoint: localhost:4317
  insecure: true
  sample_rate: 1.0
  profiling:
    enabled: false
    endpoint: http://localhost:4040

shutdown_timeout: 30s

database:
  # sqlite or postgres
  type: sqlite
  sqlite:
    path: {{ .SQLitePath }}
  # postgres:
  #   host: localhost
  #   port: 5432
  #   database: dittonas
  #   user: dittonas
  #   password: ""
  #   sslmode: disable

metrics:
  enabled: false
  port: 9090

controlplane:
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  idle_timeout: 60s
  # Prefix of the action links (_edit_url, _delete_url, ...) in API responses
  ui_base_url: /ui
  tree:
    # Node ids of a volume's tree start at volume id * id_stride
    id_stride: 100
  jwt:
    # Development secret. In production prefer DITTONAS_CONTROLPLANE_SECRET.
    secret: {{ .JWTSecret }}
    access_token_duration: 15m
    refresh_token_duration: 168h

inventory:
  max_file_size: 16Mi

admin:
  username: {{ .Admin.Username }}
{{- if .Admin.Email }}
  email: {{ .Admin.Email }}
{{- end }}
`))

type templateData struct {
	SQLitePath string
	JWTSecret  string
	Admin      AdminConfig
}

// SampleOptions tunes WriteSample.
type SampleOptions struct {
	// Force replaces an existing file.
	Force bool

	// Admin is the bootstrap account. An empty username selects "admin".
	Admin AdminConfig
}

// WriteSample renders the commented sample configuration to path with a
// fresh JWT secret. The SQLite database is placed next to the file.
func WriteSample(path string, opts SampleOptions) error {
	admin := opts.Admin
	if admin.Username == "" {
		admin.Username = "admin"
	}

	secret, err := generateSecret()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_EXCL
	if opts.Force {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
	}
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	err = configTemplate.Execute(f, templateData{
		SQLitePath: filepath.ToSlash(filepath.Join(filepath.Dir(path), "controlplane.db")),
		JWTSecret:  secret,
		Admin:      admin,
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// generateSecret returns 32 random bytes hex encoded.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
