package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

// Orderable fields per resource, keyed by their JSON name.
var (
	volumeColumns = columns{
		"id":         "id",
		"vol_name":   "name",
		"vol_fstype": "fs_type",
		"status":     "status",
	}
	diskColumns = columns{
		"id":              "id",
		"disk_name":       "name",
		"disk_serial":     "serial",
		"disk_identifier": "identifier",
		"disk_size":       "size_bytes",
	}
	scrubColumns = columns{
		"id":              "id",
		"scrub_threshold": "threshold",
		"scrub_enabled":   "enabled",
	}
	taskColumns = columns{
		"id":              "id",
		"task_filesystem": "filesystem",
		"task_interval":   "interval",
		"task_begin":      "begin",
		"task_enabled":    "enabled",
	}
)

// ============================================
// VOLUME OPERATIONS
// ============================================

func (s *GORMStore) ListVolumes(ctx context.Context, opts ListOptions) ([]*models.Volume, int64, error) {
	return listPage[models.Volume](s.db, ctx, opts, volumeColumns, nil, withOrdered("MountPoints"))
}

func (s *GORMStore) GetVolume(ctx context.Context, id uint) (*models.Volume, error) {
	return getByField[models.Volume](s.db, ctx, "id", id, models.ErrVolumeNotFound, withOrdered("MountPoints"))
}

func (s *GORMStore) GetVolumeByName(ctx context.Context, name string) (*models.Volume, error) {
	return getByField[models.Volume](s.db, ctx, "name", name, models.ErrVolumeNotFound, withOrdered("MountPoints"))
}

func (s *GORMStore) ListDatasets(ctx context.Context, volumeID uint) ([]models.Dataset, error) {
	datasets := []models.Dataset{}
	err := s.db.WithContext(ctx).
		Where("volume_id = ?", volumeID).
		Order("position").Order("id").
		Find(&datasets).Error
	return datasets, err
}

func (s *GORMStore) ListZVols(ctx context.Context, volumeID uint) ([]models.ZVol, error) {
	zvols := []models.ZVol{}
	err := s.db.WithContext(ctx).
		Where("volume_id = ?", volumeID).
		Order("position").Order("id").
		Find(&zvols).Error
	return zvols, err
}

// ============================================
// DISK OPERATIONS
// ============================================

// listableDisks mirrors models.Disk.IsListable in SQL.
func listableDisks(db *gorm.DB) *gorm.DB {
	return db.
		Where("enabled = ?", true).
		Where("multipath_name = ? OR multipath_name IS NULL", "").
		Where("name <> ?", "").
		Where("name NOT LIKE ?", "multipath%")
}

func (s *GORMStore) ListDisks(ctx context.Context, opts ListOptions) ([]*models.Disk, int64, error) {
	return listPage[models.Disk](s.db, ctx, opts, diskColumns, listableDisks)
}

// ============================================
// SCHEDULED STORAGE TASKS
// ============================================

func (s *GORMStore) ListScrubs(ctx context.Context, opts ListOptions) ([]*models.Scrub, int64, error) {
	return listPage[models.Scrub](s.db, ctx, opts, scrubColumns, nil, with("Volume"))
}

func (s *GORMStore) ListSnapshotTasks(ctx context.Context, opts ListOptions) ([]*models.PeriodicSnapshotTask, int64, error) {
	return listPage[models.PeriodicSnapshotTask](s.db, ctx, opts, taskColumns, nil)
}
