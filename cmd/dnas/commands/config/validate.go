package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittonas/internal/cli/output"
	"github.com/marmos91/dittonas/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the DittoNAS configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  dnas config validate

  # Validate specific config file
  dnas config validate --config /etc/dittonas/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	var warnings []string
	if !cfg.ControlPlane.HasJWTSecret() {
		warnings = append(warnings, "JWT secret not configured - the server will refuse to start")
	} else if len(cfg.ControlPlane.GetJWTSecret()) < 32 {
		warnings = append(warnings, "JWT secret shorter than 32 characters - the server will refuse to start")
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Port == cfg.ControlPlane.Port {
		warnings = append(warnings, fmt.Sprintf("metrics and API share port %d", cfg.Metrics.Port))
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", displayPath)
	_, _ = fmt.Fprintln(out, "Validation: OK")

	if len(warnings) > 0 {
		noColor, _ := cmd.Flags().GetBool("no-color")
		printer := output.NewPrinter(out, output.FormatTable, !noColor && os.Getenv("NO_COLOR") == "")
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			printer.Warning("  - " + w)
		}
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(out, "  Database type:   %s\n", cfg.Database.Type)
	_, _ = fmt.Fprintf(out, "  API port:        %d\n", cfg.ControlPlane.Port)
	_, _ = fmt.Fprintf(out, "  Tree id stride:  %d\n", cfg.ControlPlane.Tree.IDStride)
	_, _ = fmt.Fprintf(out, "  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
