package models

import "strings"

// Disk is a physical disk known to the system.
type Disk struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:120;index" json:"disk_name"`
	Identifier      string `gorm:"size:42" json:"disk_identifier,omitempty"`
	Serial          string `gorm:"size:30" json:"disk_serial,omitempty"`
	Description     string `gorm:"size:120" json:"disk_description,omitempty"`
	MultipathName   string `gorm:"size:30;default:''" json:"disk_multipath_name"`
	MultipathMember string `gorm:"size:30" json:"disk_multipath_member,omitempty"`
	TransferMode    string `gorm:"size:120;default:Auto" json:"disk_transfermode"`
	HDDStandby      string `gorm:"size:120;default:Always On" json:"disk_hddstandby"`
	AdvPowerMgmt    string `gorm:"size:120;default:Disabled" json:"disk_advpowermgmt"`
	AcousticLevel   string `gorm:"size:120;default:Disabled" json:"disk_acousticlevel"`
	ToggleSMART     bool   `gorm:"not null" json:"disk_togglesmart"`
	SMARTOptions    string `gorm:"size:120" json:"disk_smartoptions,omitempty"`
	Enabled         bool   `gorm:"not null" json:"disk_enabled"`
	SizeBytes       uint64 `json:"disk_size"`
}

// TableName returns the table name for Disk.
func (Disk) TableName() string {
	return "storage_disks"
}

// IsListable reports whether the disk shows up in the disk listing: enabled,
// not a multipath member, and not a multipath device itself.
func (d *Disk) IsListable() bool {
	return d.Enabled &&
		d.MultipathName == "" &&
		d.Name != "" &&
		!strings.HasPrefix(d.Name, "multipath")
}
