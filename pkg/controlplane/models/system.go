package models

import "github.com/marmos91/dittonas/pkg/schedule"

// CronJob is a user-defined command run on a cron schedule.
type CronJob struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	User        string       `gorm:"size:60;not null" json:"cron_user"`
	Command     string       `gorm:"type:text;not null" json:"cron_command"`
	Description string       `gorm:"size:200" json:"cron_description,omitempty"`
	Schedule    CronSchedule `gorm:"embedded;embeddedPrefix:cron_" json:"-"`
	Stdout      bool         `gorm:"not null" json:"cron_stdout"`
	Stderr      bool         `gorm:"default:false" json:"cron_stderr"`
	Enabled     bool         `gorm:"not null" json:"cron_enabled"`
}

// TableName returns the table name for CronJob.
func (CronJob) TableName() string {
	return "system_cronjobs"
}

// Rsync directions.
const (
	RsyncPush = "push"
	RsyncPull = "pull"
)

// RsyncTask is a scheduled rsync transfer.
type RsyncTask struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Path         string       `gorm:"size:255;not null" json:"rsync_path"`
	RemoteHost   string       `gorm:"size:120;not null" json:"rsync_remotehost"`
	RemoteModule string       `gorm:"size:120" json:"rsync_remotemodule,omitempty"`
	RemotePath   string       `gorm:"size:255" json:"rsync_remotepath,omitempty"`
	Direction    string       `gorm:"size:10;default:push" json:"rsync_direction"`
	Description  string       `gorm:"size:120" json:"rsync_desc,omitempty"`
	Schedule     CronSchedule `gorm:"embedded;embeddedPrefix:rsync_" json:"-"`
	User         string       `gorm:"size:60" json:"rsync_user"`
	Recursive    bool         `gorm:"not null" json:"rsync_recursive"`
	Enabled      bool         `gorm:"not null" json:"rsync_enabled"`
}

// TableName returns the table name for RsyncTask.
func (RsyncTask) TableName() string {
	return "system_rsyncs"
}

// SMARTTest is a scheduled SMART self-test over a set of disks.
type SMARTTest struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Disks       []Disk        `gorm:"many2many:system_smarttest_disks;" json:"-"`
	Type        string        `gorm:"size:2;not null" json:"smarttest_type_code"`
	Description string        `gorm:"size:120" json:"smarttest_desc,omitempty"`
	Schedule    DailySchedule `gorm:"embedded;embeddedPrefix:smarttest_" json:"-"`

	// DiskRefs resolves Disks by name during inventory import.
	DiskRefs []string `gorm:"-" json:"-"`
}

// TableName returns the table name for SMARTTest.
func (SMARTTest) TableName() string {
	return "system_smarttests"
}

// TypeDisplay returns the display label of the test type.
func (s *SMARTTest) TypeDisplay() string {
	return schedule.Label(schedule.SMARTTestTypeChoices, s.Type)
}

// DiskNames returns the names of the disks under test.
func (s *SMARTTest) DiskNames() []string {
	names := make([]string, 0, len(s.Disks))
	for _, d := range s.Disks {
		names = append(names, d.Name)
	}
	return names
}
