// Package commands implements the dnas command line.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittonas/cmd/dnas/commands/config"
	"github.com/marmos91/dittonas/internal/cli/output"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile      string
	outputFormat string
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "dnas",
	Short: "DittoNAS - read-only storage presentation API",
	Long: `DittoNAS serves a NAS's storage, sharing, network and scheduling
inventory over a read-only REST API. Volumes are presented as trees of
datasets and zvols with stable per-volume node ids.

The inventory is imported from a YAML snapshot with 'dnas import'.

Use "dnas [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/dittonas/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(completionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}

// newPrinter builds a printer from the global flags. def applies when
// --output is not set.
func newPrinter(cmd *cobra.Command, def output.Format) (*output.Printer, error) {
	format, err := output.ParseFormat(outputFormat, def)
	if err != nil {
		return nil, err
	}
	color := !noColor && os.Getenv("NO_COLOR") == ""
	return output.NewPrinter(cmd.OutOrStdout(), format, color), nil
}
