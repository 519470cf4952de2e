package config

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/dittonas/internal/cli/output"
	"github.com/marmos91/dittonas/pkg/config"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the configuration after defaults and DITTONAS_* environment
overrides are applied. The JWT secret is masked.

By default outputs YAML. Use --output json for JSON.

Examples:
  dnas config show
  dnas config show --output json --config /etc/dittonas/config.yaml`,
	RunE: runConfigShow,
}

const maskedSecret = "********"

func runConfigShow(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	format, _ := cmd.Flags().GetString("output")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	f, err := output.ParseFormat(format, output.FormatYAML)
	if err != nil {
		return err
	}
	if f == output.FormatTable {
		f = output.FormatYAML
	}

	if cfg.ControlPlane.JWT.Secret != "" {
		cfg.ControlPlane.JWT.Secret = maskedSecret
	}
	if cfg.Database.Postgres.Password != "" {
		cfg.Database.Postgres.Password = maskedSecret
	}

	return output.NewPrinter(cmd.OutOrStdout(), f, false).Print(cfg)
}
