package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittonas/internal/cli/output"
	"github.com/marmos91/dittonas/internal/cli/prompt"
	"github.com/marmos91/dittonas/pkg/inventory"
)

var (
	importYes    bool
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Replace the stored inventory with a YAML snapshot",
	Long: `Import a storage inventory snapshot into the control plane database.

The document describes volumes (mount points, datasets, zvols), disks,
scrubs, snapshot tasks, NFS shares, network interfaces, LAGGs, cron jobs,
rsync tasks and SMART tests. It is validated completely before anything is
written, and the previous inventory is replaced in a single transaction.

A running server picks the new inventory up on its next request.

Examples:
  # Validate without writing
  dnas import inventory.yaml --dry-run

  # Import without the confirmation prompt
  dnas import inventory.yaml --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Do not ask for confirmation")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Only validate the document")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	printer, err := newPrinter(cmd, output.FormatTable)
	if err != nil {
		return err
	}

	if importDryRun {
		sum, err := inventory.Check(path, cfg.Inventory.MaxFileSize)
		if err != nil {
			return err
		}
		if err := printSummary(printer, sum); err != nil {
			return err
		}
		if printer.Format() == output.FormatTable {
			printer.Success("Document is valid, nothing was written")
		}
		return nil
	}

	ok, err := prompt.ConfirmWithForce(fmt.Sprintf("Replace the stored inventory with %s", path), importYes)
	if err != nil {
		if prompt.IsAborted(err) {
			return fmt.Errorf("import aborted")
		}
		return err
	}
	if !ok {
		return fmt.Errorf("import aborted")
	}

	cpStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cpStore.Close() }()

	sum, err := inventory.Import(cmd.Context(), cpStore, path, cfg.Inventory.MaxFileSize)
	if err != nil {
		return err
	}

	if err := printSummary(printer, sum); err != nil {
		return err
	}
	if printer.Format() == output.FormatTable {
		printer.Success("Inventory imported")
	}
	return nil
}

// summaryView is the structured form of an import summary.
type summaryView struct {
	Source        string `json:"source" yaml:"source"`
	Volumes       int    `json:"volumes" yaml:"volumes"`
	Datasets      int    `json:"datasets" yaml:"datasets"`
	ZVols         int    `json:"zvols" yaml:"zvols"`
	Disks         int    `json:"disks" yaml:"disks"`
	Scrubs        int    `json:"scrubs" yaml:"scrubs"`
	SnapshotTasks int    `json:"snapshot_tasks" yaml:"snapshot_tasks"`
	NFSShares     int    `json:"nfs_shares" yaml:"nfs_shares"`
	Interfaces    int    `json:"interfaces" yaml:"interfaces"`
	LAGGs         int    `json:"laggs" yaml:"laggs"`
	LAGGMembers   int    `json:"lagg_members" yaml:"lagg_members"`
	CronJobs      int    `json:"cron_jobs" yaml:"cron_jobs"`
	RsyncTasks    int    `json:"rsync_tasks" yaml:"rsync_tasks"`
	SMARTTests    int    `json:"smart_tests" yaml:"smart_tests"`
	DurationMs    int64  `json:"duration_ms" yaml:"duration_ms"`
}

func printSummary(p *output.Printer, sum *inventory.Summary) error {
	if p.Format() != output.FormatTable {
		return p.Print(summaryView{
			Source:        sum.Source,
			Volumes:       sum.Volumes,
			Datasets:      sum.Datasets,
			ZVols:         sum.ZVols,
			Disks:         sum.Disks,
			Scrubs:        sum.Scrubs,
			SnapshotTasks: sum.SnapshotTasks,
			NFSShares:     sum.NFSShares,
			Interfaces:    sum.Interfaces,
			LAGGs:         sum.LAGGs,
			LAGGMembers:   sum.LAGGMembers,
			CronJobs:      sum.CronJobs,
			RsyncTasks:    sum.RsyncTasks,
			SMARTTests:    sum.SMARTTests,
			DurationMs:    sum.Duration.Milliseconds(),
		})
	}

	count := strconv.Itoa
	return output.PrintKeyValues(p.Writer(), []output.KeyValue{
		{Key: "Source", Value: sum.Source},
		{Key: "Volumes", Value: count(sum.Volumes)},
		{Key: "Datasets", Value: count(sum.Datasets)},
		{Key: "ZVols", Value: count(sum.ZVols)},
		{Key: "Disks", Value: count(sum.Disks)},
		{Key: "Scrubs", Value: count(sum.Scrubs)},
		{Key: "Snapshot tasks", Value: count(sum.SnapshotTasks)},
		{Key: "NFS shares", Value: count(sum.NFSShares)},
		{Key: "Interfaces", Value: count(sum.Interfaces)},
		{Key: "LAGGs", Value: fmt.Sprintf("%d (%d members)", sum.LAGGs, sum.LAGGMembers)},
		{Key: "Cron jobs", Value: count(sum.CronJobs)},
		{Key: "Rsync tasks", Value: count(sum.RsyncTasks)},
		{Key: "SMART tests", Value: count(sum.SMARTTests)},
		{Key: "Duration", Value: sum.Duration.Round(time.Millisecond).String()},
	})
}
