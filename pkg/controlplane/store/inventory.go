package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

// ============================================
// INVENTORY REPLACEMENT
// ============================================

// ReplaceInventory implements InventoryStore. IDs assigned by the database
// are written back into inv.
func (s *GORMStore) ReplaceInventory(ctx context.Context, inv *models.Inventory, source string) error {
	if inv == nil {
		return errors.New("nil inventory")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearInventory(tx); err != nil {
			return fmt.Errorf("clear inventory: %w", err)
		}

		volumes := make(map[string]uint, len(inv.Volumes))
		for i := range inv.Volumes {
			v := &inv.Volumes[i]
			for j := range v.Datasets {
				v.Datasets[j].Position = j
			}
			for j := range v.ZVols {
				v.ZVols[j].Position = j
			}
			if err := create(tx, v, models.ErrDuplicateVolume); err != nil {
				return fmt.Errorf("volume %q: %w", v.Name, err)
			}
			volumes[v.Name] = v.ID
		}

		disks := make(map[string]models.Disk, len(inv.Disks))
		for i := range inv.Disks {
			d := &inv.Disks[i]
			if err := create(tx, d, models.ErrDuplicate); err != nil {
				return fmt.Errorf("disk %q: %w", d.Name, err)
			}
			disks[d.Name] = *d
		}

		for i := range inv.Scrubs {
			sc := &inv.Scrubs[i]
			if sc.VolumeName != "" {
				id, ok := volumes[sc.VolumeName]
				if !ok {
					return fmt.Errorf("scrub %d: %w: %q", i, models.ErrVolumeNotFound, sc.VolumeName)
				}
				sc.VolumeID = id
			}
			if err := create(tx.Omit(clause.Associations), sc, models.ErrDuplicate); err != nil {
				return fmt.Errorf("scrub %d: %w", i, err)
			}
		}

		for i := range inv.SnapshotTasks {
			if err := create(tx, &inv.SnapshotTasks[i], models.ErrDuplicate); err != nil {
				return fmt.Errorf("snapshot task %d: %w", i, err)
			}
		}

		for i := range inv.NFSShares {
			if err := create(tx, &inv.NFSShares[i], models.ErrDuplicate); err != nil {
				return fmt.Errorf("nfs share %d: %w", i, err)
			}
		}

		interfaces := make(map[string]uint, len(inv.Interfaces))
		for i := range inv.Interfaces {
			nic := &inv.Interfaces[i]
			if err := create(tx, nic, models.ErrDuplicate); err != nil {
				return fmt.Errorf("interface %q: %w", nic.Interface, err)
			}
			interfaces[nic.Interface] = nic.ID
		}

		laggs := make(map[string]uint, len(inv.LAGGs))
		for i := range inv.LAGGs {
			l := &inv.LAGGs[i]
			if l.InterfaceName != "" {
				id, ok := interfaces[l.InterfaceName]
				if !ok {
					return fmt.Errorf("lagg %d: %w: %q", i, models.ErrInterfaceNotFound, l.InterfaceName)
				}
				l.InterfaceID = id
			}
			if err := create(tx.Omit(clause.Associations), l, models.ErrDuplicate); err != nil {
				return fmt.Errorf("lagg %q: %w", l.InterfaceName, err)
			}
			laggs[l.InterfaceName] = l.ID
		}

		for i := range inv.LAGGMembers {
			m := &inv.LAGGMembers[i]
			if m.LAGGName != "" {
				id, ok := laggs[m.LAGGName]
				if !ok {
					return fmt.Errorf("lagg member %q: %w: %q", m.PhysNIC, models.ErrLAGGNotFound, m.LAGGName)
				}
				m.LAGGGroupID = id
			}
			if err := create(tx.Omit(clause.Associations), m, models.ErrDuplicate); err != nil {
				return fmt.Errorf("lagg member %q: %w", m.PhysNIC, err)
			}
		}

		for i := range inv.CronJobs {
			if err := create(tx, &inv.CronJobs[i], models.ErrDuplicate); err != nil {
				return fmt.Errorf("cron job %d: %w", i, err)
			}
		}

		for i := range inv.RsyncTasks {
			if err := create(tx, &inv.RsyncTasks[i], models.ErrDuplicate); err != nil {
				return fmt.Errorf("rsync task %d: %w", i, err)
			}
		}

		for i := range inv.SMARTTests {
			t := &inv.SMARTTests[i]
			if len(t.DiskRefs) > 0 {
				t.Disks = make([]models.Disk, 0, len(t.DiskRefs))
				for _, name := range t.DiskRefs {
					d, ok := disks[name]
					if !ok {
						return fmt.Errorf("smart test %d: %w: %q", i, models.ErrDiskNotFound, name)
					}
					t.Disks = append(t.Disks, d)
				}
			}
			// Disks already exist; only the join rows are written.
			if err := create(tx.Omit("Disks.*"), t, models.ErrDuplicate); err != nil {
				return fmt.Errorf("smart test %d: %w", i, err)
			}
		}

		if err := setSetting(tx, models.SettingInventoryImportedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return err
		}
		return setSetting(tx, models.SettingInventorySource, source)
	})
}

// clearInventory deletes inventory rows children first.
func clearInventory(tx *gorm.DB) error {
	if err := tx.Exec("DELETE FROM system_smarttest_disks").Error; err != nil {
		return err
	}
	steps := []func(*gorm.DB) error{
		deleteAll[models.SMARTTest],
		deleteAll[models.RsyncTask],
		deleteAll[models.CronJob],
		deleteAll[models.LAGGInterfaceMember],
		deleteAll[models.LAGGInterface],
		deleteAll[models.InterfaceAlias],
		deleteAll[models.NetworkInterface],
		deleteAll[models.NFSSharePath],
		deleteAll[models.NFSShare],
		deleteAll[models.PeriodicSnapshotTask],
		deleteAll[models.Scrub],
		deleteAll[models.Disk],
		deleteAll[models.ZVol],
		deleteAll[models.Dataset],
		deleteAll[models.MountPoint],
		deleteAll[models.Volume],
	}
	for _, step := range steps {
		if err := step(tx); err != nil {
			return err
		}
	}
	return nil
}

func create[T any](tx *gorm.DB, entity *T, dupErr error) error {
	if err := tx.Create(entity).Error; err != nil {
		if isUniqueConstraintError(err) {
			return dupErr
		}
		return err
	}
	return nil
}
