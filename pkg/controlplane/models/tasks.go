package models

import (
	"github.com/marmos91/dittonas/pkg/schedule"
)

// Scrub is a scheduled pool scrub.
type Scrub struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	VolumeID    uint         `gorm:"uniqueIndex;not null" json:"-"`
	Volume      Volume       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Threshold   int          `gorm:"default:35" json:"scrub_threshold"`
	Description string       `gorm:"size:200" json:"scrub_description,omitempty"`
	Schedule    CronSchedule `gorm:"embedded;embeddedPrefix:scrub_" json:"-"`
	Enabled     bool         `gorm:"not null" json:"scrub_enabled"`

	// VolumeName resolves VolumeID during inventory import.
	VolumeName string `gorm:"-" json:"-"`
}

// TableName returns the table name for Scrub.
func (Scrub) TableName() string {
	return "storage_scrubs"
}

// PeriodicSnapshotTask takes recurring snapshots of a filesystem.
type PeriodicSnapshotTask struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Filesystem string `gorm:"size:150;not null" json:"task_filesystem"`
	Recursive  bool   `gorm:"default:false" json:"task_recursive"`
	RetCount   int    `gorm:"default:2" json:"task_ret_count"`
	RetUnit    string `gorm:"size:120;default:week" json:"task_ret_unit"`
	Begin      string `gorm:"size:5;default:'09:00'" json:"task_begin"`
	End        string `gorm:"size:5;default:'18:00'" json:"task_end"`
	Interval   int    `gorm:"default:60" json:"task_interval"`
	RepeatUnit string `gorm:"size:120;default:weekly" json:"task_repeat_unit"`
	ByWeekday  string `gorm:"size:120;default:'1,2,3,4,5'" json:"task_byweekday"`
	Enabled    bool   `gorm:"not null" json:"task_enabled"`
}

// TableName returns the table name for PeriodicSnapshotTask.
func (PeriodicSnapshotTask) TableName() string {
	return "storage_tasks"
}

// SnapshotTask converts the stored task into its schedule description.
// A malformed weekday list is reported rather than silently dropped.
func (t *PeriodicSnapshotTask) SnapshotTask() (schedule.SnapshotTask, error) {
	days, err := schedule.ParseWeekdays(t.ByWeekday)
	if err != nil {
		return schedule.SnapshotTask{}, err
	}
	return schedule.SnapshotTask{
		Begin:      t.Begin,
		End:        t.End,
		Interval:   t.Interval,
		RepeatUnit: t.RepeatUnit,
		ByWeekday:  days,
		RetCount:   t.RetCount,
		RetUnit:    t.RetUnit,
	}, nil
}
