package models

import (
	"github.com/marmos91/dittonas/pkg/storagetree"
)

// Volume encryption modes.
const (
	EncryptNone       = 0
	EncryptKey        = 1 // key only, unlocked on import
	EncryptPassphrase = 2 // key plus passphrase, locked until unlocked
)

// Volume is a storage pool.
type Volume struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"uniqueIndex;not null;size:120" json:"vol_name"`
	FSType   string `gorm:"column:fs_type;size:120;default:ZFS" json:"vol_fstype"`
	GUID     string `gorm:"size:50" json:"vol_guid,omitempty"`
	Encrypt  int    `gorm:"default:0" json:"vol_encrypt"`
	Unlocked bool   `gorm:"default:false" json:"-"`
	Status   string `gorm:"size:32;default:UNKNOWN" json:"status"`

	MountPoints []MountPoint `gorm:"foreignKey:VolumeID;constraint:OnDelete:CASCADE" json:"-"`
	Datasets    []Dataset    `gorm:"foreignKey:VolumeID;constraint:OnDelete:CASCADE" json:"-"`
	ZVols       []ZVol       `gorm:"foreignKey:VolumeID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Volume.
func (Volume) TableName() string {
	return "storage_volumes"
}

// IsDecrypted reports whether the pool contents are readable: unencrypted
// pools always are, encrypted ones once unlocked.
func (v *Volume) IsDecrypted() bool {
	return v.Encrypt == EncryptNone || v.Unlocked
}

// PrimaryMountPoint returns the first mount point of the volume.
func (v *Volume) PrimaryMountPoint() (*MountPoint, error) {
	if len(v.MountPoints) == 0 {
		return nil, ErrNoMountPoint
	}
	return &v.MountPoints[0], nil
}

// MountPoint is where a volume is mounted, with its aggregate usage.
type MountPoint struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	VolumeID   uint   `gorm:"index;not null" json:"-"`
	Path       string `gorm:"not null;size:255" json:"mp_path"`
	Options    string `gorm:"size:120" json:"mp_options,omitempty"`
	Status     string `gorm:"size:32;default:UNKNOWN" json:"status"`
	TotalBytes uint64 `json:"total"`
	AvailBytes uint64 `json:"avail"`
	UsedBytes  uint64 `json:"used"`
}

// TableName returns the table name for MountPoint.
func (MountPoint) TableName() string {
	return "storage_mountpoints"
}

// Usage returns the mount point's space accounting.
func (mp *MountPoint) Usage() storagetree.Usage {
	return storagetree.Usage{Total: mp.TotalBytes, Avail: mp.AvailBytes, Used: mp.UsedBytes}
}

// Dataset is a filesystem dataset of a volume, stored flat by full path.
// Position keeps the listing order the storage subsystem reported.
type Dataset struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	VolumeID   uint   `gorm:"uniqueIndex:idx_dataset_volume_name;not null" json:"-"`
	Name       string `gorm:"uniqueIndex:idx_dataset_volume_name;not null;size:255" json:"name"`
	Mountpoint string `gorm:"size:255" json:"mountpoint"`
	Position   int    `gorm:"default:0" json:"-"`
	TotalBytes uint64 `json:"total"`
	AvailBytes uint64 `json:"avail"`
	UsedBytes  uint64 `json:"used"`
}

// TableName returns the table name for Dataset.
func (Dataset) TableName() string {
	return "storage_datasets"
}

// ZVol is a block volume carved out of a volume.
type ZVol struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	VolumeID uint   `gorm:"uniqueIndex:idx_zvol_volume_name;not null" json:"-"`
	Name     string `gorm:"uniqueIndex:idx_zvol_volume_name;not null;size:255" json:"name"`
	Size     uint64 `json:"volsize"`
	Position int    `gorm:"default:0" json:"-"`
}

// TableName returns the table name for ZVol.
func (ZVol) TableName() string {
	return "storage_zvols"
}

// TreeVolume converts the volume and its primary mount point into the
// projector's input.
func (v *Volume) TreeVolume() (*storagetree.Volume, error) {
	mp, err := v.PrimaryMountPoint()
	if err != nil {
		return nil, err
	}
	return &storagetree.Volume{
		ID:        v.ID,
		Name:      v.Name,
		Status:    v.Status,
		Decrypted: v.IsDecrypted(),
		MountPoint: &storagetree.MountPoint{
			ID:     mp.ID,
			Path:   mp.Path,
			Status: mp.Status,
			Usage:  mp.Usage(),
		},
	}, nil
}

// TreeDatasets converts stored datasets, already in listing order, into the
// projector's flat input.
func TreeDatasets(rows []Dataset) []storagetree.Dataset {
	out := make([]storagetree.Dataset, 0, len(rows))
	for _, r := range rows {
		out = append(out, storagetree.Dataset{
			Name:       r.Name,
			Path:       r.Name,
			Mountpoint: r.Mountpoint,
			Usage:      storagetree.Usage{Total: r.TotalBytes, Avail: r.AvailBytes, Used: r.UsedBytes},
		})
	}
	return out
}

// TreeZVols converts stored zvols, already in listing order, into the
// projector's ordered zvol mapping.
func TreeZVols(rows []ZVol) *storagetree.ZVols {
	out := storagetree.NewZVols()
	for _, r := range rows {
		out.Set(r.Name, &storagetree.ZVol{Name: r.Name, Size: r.Size})
	}
	return out
}

// Project builds the presentation tree of the volume from its stored
// datasets and zvols, both in listing order.
func (v *Volume) Project(datasets []Dataset, zvols []ZVol, opts ...storagetree.Option) ([]*storagetree.Node, error) {
	tv, err := v.TreeVolume()
	if err != nil {
		return nil, err
	}
	tree, err := storagetree.BuildHierarchy(v.Name, TreeDatasets(datasets))
	if err != nil {
		return nil, err
	}
	return storagetree.Project(tv, tree, TreeZVols(zvols), opts...)
}
