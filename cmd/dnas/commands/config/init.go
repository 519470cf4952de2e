package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittonas/internal/cli/prompt"
	"github.com/marmos91/dittonas/pkg/config"
	"github.com/marmos91/dittonas/pkg/controlplane/api"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

var (
	initForce       bool
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file",
	Long: `Create a commented DittoNAS configuration file with a freshly generated
JWT secret.

By default, the file is created at $XDG_CONFIG_HOME/dittonas/config.yaml.
Use --config to specify a custom path.

Examples:
  # Create at the default location
  dnas config init

  # Choose the bootstrap admin account interactively
  dnas config init --interactive

  # Overwrite an existing file
  dnas config init --config /etc/dittonas/config.yaml --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Prompt for the bootstrap admin account")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	var admin config.AdminConfig
	if initInteractive {
		var err error
		if admin, err = promptAdmin(); err != nil {
			return err
		}
	}

	if err := config.WriteSample(configPath, config.SampleOptions{Force: initForce, Admin: admin}); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file created at: %s\n", configPath)
	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintln(out, "  1. Import the storage inventory: dnas import inventory.yaml")
	_, _ = fmt.Fprintf(out, "  2. Start the server: dnas start --config %s\n", configPath)
	_, _ = fmt.Fprintln(out, "\nSecurity note:")
	_, _ = fmt.Fprintln(out, "  A random JWT secret has been generated for development use.")
	_, _ = fmt.Fprintln(out, "  For production, keep the secret out of the file:")
	_, _ = fmt.Fprintf(out, "    export %s=$(openssl rand -hex 32)\n", api.EnvControlPlaneSecret)
	_, _ = fmt.Fprintf(out, "  The admin password is generated on first start unless %s is set.\n", models.EnvAdminInitialPassword)

	return nil
}

func promptAdmin() (config.AdminConfig, error) {
	username, err := prompt.Input("Admin username", models.AdminUsername, prompt.ValidateUsername)
	if err != nil {
		return config.AdminConfig{}, err
	}
	email, err := prompt.Input("Admin email (optional)", "", prompt.ValidateOptionalEmail)
	if err != nil {
		return config.AdminConfig{}, err
	}
	return config.AdminConfig{Username: username, Email: email}, nil
}
