package inventory

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/dittonas/internal/bytesize"
	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/internal/telemetry"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
)

// Summary counts what an import wrote.
type Summary struct {
	Source        string
	Volumes       int
	Datasets      int
	ZVols         int
	Disks         int
	Scrubs        int
	SnapshotTasks int
	NFSShares     int
	Interfaces    int
	LAGGs         int
	LAGGMembers   int
	CronJobs      int
	RsyncTasks    int
	SMARTTests    int
	Duration      time.Duration
}

// Import loads the document at path and replaces the stored inventory with
// it in a single transaction. A document that fails validation leaves the
// store untouched.
func Import(ctx context.Context, s store.InventoryStore, path string, maxSize bytesize.ByteSize) (*Summary, error) {
	start := time.Now()
	source := absPath(path)

	ctx, span := telemetry.StartSpan(ctx, "inventory.import", trace.WithAttributes(telemetry.ImportFile(source)))
	defer span.End()

	doc, err := Load(path, maxSize)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}

	inv := doc.Inventory()
	if err := s.ReplaceInventory(ctx, inv, source); err != nil {
		telemetry.RecordError(ctx, err)
		return nil, fmt.Errorf("replace inventory: %w", err)
	}

	sum := summarize(inv, source)
	sum.Duration = time.Since(start)

	logger.InfoCtx(ctx, "inventory imported",
		"source", source,
		"volumes", sum.Volumes,
		"datasets", sum.Datasets,
		"disks", sum.Disks,
		logger.DurationMs(logger.Duration(start)),
	)
	return sum, nil
}

// Check loads and validates the document at path without writing anything.
func Check(path string, maxSize bytesize.ByteSize) (*Summary, error) {
	start := time.Now()
	doc, err := Load(path, maxSize)
	if err != nil {
		return nil, err
	}
	sum := summarize(doc.Inventory(), absPath(path))
	sum.Duration = time.Since(start)
	return sum, nil
}

func summarize(inv *models.Inventory, source string) *Summary {
	sum := &Summary{
		Source:        source,
		Volumes:       len(inv.Volumes),
		Disks:         len(inv.Disks),
		Scrubs:        len(inv.Scrubs),
		SnapshotTasks: len(inv.SnapshotTasks),
		NFSShares:     len(inv.NFSShares),
		Interfaces:    len(inv.Interfaces),
		LAGGs:         len(inv.LAGGs),
		LAGGMembers:   len(inv.LAGGMembers),
		CronJobs:      len(inv.CronJobs),
		RsyncTasks:    len(inv.RsyncTasks),
		SMARTTests:    len(inv.SMARTTests),
	}
	for _, v := range inv.Volumes {
		sum.Datasets += len(v.Datasets)
		sum.ZVols += len(v.ZVols)
	}
	return sum
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
