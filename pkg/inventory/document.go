// Package inventory reads the YAML snapshot of the storage, sharing,
// network and scheduling records that the API serves, and replaces the
// control plane's copy with it.
//
// The document mirrors the listings: volumes carry their mount points,
// datasets and zvols; LAGGs carry their members. Sizes accept either a
// byte count or a human-readable value ("1.5Ti", "500G").
package inventory

import (
	"github.com/marmos91/dittonas/internal/bytesize"
)

// Document is the root of an inventory file.
type Document struct {
	Volumes       []VolumeDoc       `yaml:"volumes" validate:"dive"`
	Disks         []DiskDoc         `yaml:"disks" validate:"dive"`
	Scrubs        []ScrubDoc        `yaml:"scrubs" validate:"dive"`
	SnapshotTasks []SnapshotTaskDoc `yaml:"snapshot_tasks" validate:"dive"`
	NFSShares     []NFSShareDoc     `yaml:"nfs_shares" validate:"dive"`
	Interfaces    []InterfaceDoc    `yaml:"interfaces" validate:"dive"`
	LAGGs         []LAGGDoc         `yaml:"laggs" validate:"dive"`
	CronJobs      []CronJobDoc      `yaml:"cron_jobs" validate:"dive"`
	RsyncTasks    []RsyncTaskDoc    `yaml:"rsync_tasks" validate:"dive"`
	SMARTTests    []SMARTTestDoc    `yaml:"smart_tests" validate:"dive"`
}

// Usage is the size triple shared by mount points and datasets.
type Usage struct {
	Total bytesize.ByteSize `yaml:"total"`
	Avail bytesize.ByteSize `yaml:"avail"`
	Used  bytesize.ByteSize `yaml:"used"`
}

type VolumeDoc struct {
	Name   string `yaml:"name" validate:"required,max=120"`
	FSType string `yaml:"fstype" validate:"omitempty,max=120"`
	GUID   string `yaml:"guid" validate:"omitempty,max=50"`
	Status string `yaml:"status" validate:"omitempty,max=32"`

	// Encrypt is 0 (none), 1 (key) or 2 (key plus passphrase).
	Encrypt  int  `yaml:"encrypt" validate:"gte=0,lte=2"`
	Unlocked bool `yaml:"unlocked"`

	MountPoints []MountPointDoc `yaml:"mountpoints" validate:"dive"`

	// Datasets are listed flat, parents before children, with names
	// relative to nothing: "tank/media/photos".
	Datasets []DatasetDoc `yaml:"datasets" validate:"dive"`
	ZVols    []ZVolDoc    `yaml:"zvols" validate:"dive"`
}

type MountPointDoc struct {
	Path    string `yaml:"path" validate:"required,max=255"`
	Options string `yaml:"options" validate:"omitempty,max=120"`
	Status  string `yaml:"status" validate:"omitempty,max=32"`
	Usage   `yaml:",inline"`
}

type DatasetDoc struct {
	Name       string `yaml:"name" validate:"required,max=255"`
	Mountpoint string `yaml:"mountpoint" validate:"omitempty,max=255"`
	Usage      `yaml:",inline"`
}

type ZVolDoc struct {
	Name string            `yaml:"name" validate:"required,max=255"`
	Size bytesize.ByteSize `yaml:"size"`
}

type DiskDoc struct {
	Name            string            `yaml:"name" validate:"required,max=120"`
	Identifier      string            `yaml:"identifier" validate:"omitempty,max=42"`
	Serial          string            `yaml:"serial" validate:"omitempty,max=30"`
	Description     string            `yaml:"description" validate:"omitempty,max=120"`
	MultipathName   string            `yaml:"multipath_name" validate:"omitempty,max=30"`
	MultipathMember string            `yaml:"multipath_member" validate:"omitempty,max=30"`
	TransferMode    string            `yaml:"transfer_mode" validate:"omitempty,max=120"`
	HDDStandby      string            `yaml:"hdd_standby" validate:"omitempty,max=120"`
	AdvPowerMgmt    string            `yaml:"adv_power_mgmt" validate:"omitempty,max=120"`
	AcousticLevel   string            `yaml:"acoustic_level" validate:"omitempty,max=120"`
	ToggleSMART     *bool             `yaml:"smart"`
	SMARTOptions    string            `yaml:"smart_options" validate:"omitempty,max=120"`
	Enabled         *bool             `yaml:"enabled"`
	Size            bytesize.ByteSize `yaml:"size"`
}

// CronScheduleDoc fields default to "00" for the minute and "*" otherwise.
type CronScheduleDoc struct {
	Minute   string `yaml:"minute" validate:"omitempty,max=100"`
	Hour     string `yaml:"hour" validate:"omitempty,max=100"`
	Daymonth string `yaml:"daymonth" validate:"omitempty,max=100"`
	Month    string `yaml:"month" validate:"omitempty,max=100"`
	Dayweek  string `yaml:"dayweek" validate:"omitempty,max=100"`
}

type ScrubDoc struct {
	Volume      string          `yaml:"volume" validate:"required"`
	Threshold   int             `yaml:"threshold" validate:"gte=0"`
	Description string          `yaml:"description" validate:"omitempty,max=200"`
	Schedule    CronScheduleDoc `yaml:"schedule"`
	Enabled     *bool           `yaml:"enabled"`
}

type SnapshotTaskDoc struct {
	Filesystem string `yaml:"filesystem" validate:"required,max=150"`
	Recursive  bool   `yaml:"recursive"`
	RetCount   int    `yaml:"ret_count" validate:"gte=0"`
	RetUnit    string `yaml:"ret_unit" validate:"omitempty,oneof=hour day week month year"`
	Begin      string `yaml:"begin" validate:"omitempty,len=5"`
	End        string `yaml:"end" validate:"omitempty,len=5"`
	// Interval is in minutes.
	Interval   int    `yaml:"interval" validate:"gte=0"`
	RepeatUnit string `yaml:"repeat_unit" validate:"omitempty,oneof=daily weekly"`
	Weekdays   []int  `yaml:"weekdays" validate:"dive,gte=1,lte=7"`
	Enabled    *bool  `yaml:"enabled"`
}

type NFSShareDoc struct {
	Comment      string   `yaml:"comment" validate:"omitempty,max=120"`
	Paths        []string `yaml:"paths" validate:"required,min=1,dive,required,max=255"`
	Network      string   `yaml:"network"`
	Hosts        string   `yaml:"hosts"`
	AllDirs      bool     `yaml:"alldirs"`
	ReadOnly     bool     `yaml:"ro"`
	Quiet        bool     `yaml:"quiet"`
	MaprootUser  string   `yaml:"maproot_user" validate:"omitempty,max=120"`
	MaprootGroup string   `yaml:"maproot_group" validate:"omitempty,max=120"`
	MapallUser   string   `yaml:"mapall_user" validate:"omitempty,max=120"`
	MapallGroup  string   `yaml:"mapall_group" validate:"omitempty,max=120"`
}

type InterfaceDoc struct {
	Interface   string     `yaml:"interface" validate:"required,max=300"`
	Name        string     `yaml:"name" validate:"required,max=120"`
	DHCP        bool       `yaml:"dhcp"`
	IPv4Address string     `yaml:"ipv4_address" validate:"omitempty,ipv4"`
	IPv4Netmask int        `yaml:"ipv4_netmask" validate:"gte=0,lte=32"`
	IPv6Auto    bool       `yaml:"ipv6_auto"`
	IPv6Address string     `yaml:"ipv6_address" validate:"omitempty,ipv6"`
	IPv6Netmask int        `yaml:"ipv6_netmask" validate:"gte=0,lte=128"`
	Options     string     `yaml:"options" validate:"omitempty,max=120"`
	Aliases     []AliasDoc `yaml:"aliases" validate:"dive"`
}

type AliasDoc struct {
	IPv4Address string `yaml:"ipv4_address" validate:"omitempty,ipv4"`
	IPv4Netmask int    `yaml:"ipv4_netmask" validate:"gte=0,lte=32"`
	IPv6Address string `yaml:"ipv6_address" validate:"omitempty,ipv6"`
	IPv6Netmask int    `yaml:"ipv6_netmask" validate:"gte=0,lte=128"`
}

type LAGGDoc struct {
	// Interface names an entry of interfaces.
	Interface string          `yaml:"interface" validate:"required"`
	Protocol  string          `yaml:"protocol" validate:"required,oneof=failover fec lacp loadbalance roundrobin none"`
	Members   []LAGGMemberDoc `yaml:"members" validate:"dive"`
}

type LAGGMemberDoc struct {
	PhysNIC       string `yaml:"nic" validate:"required,max=120"`
	OrderNum      int    `yaml:"order" validate:"gte=0"`
	DeviceOptions string `yaml:"options" validate:"omitempty,max=120"`
}

type CronJobDoc struct {
	User        string          `yaml:"user" validate:"required,max=60"`
	Command     string          `yaml:"command" validate:"required"`
	Description string          `yaml:"description" validate:"omitempty,max=200"`
	Schedule    CronScheduleDoc `yaml:"schedule"`
	Stdout      *bool           `yaml:"stdout"`
	Stderr      bool            `yaml:"stderr"`
	Enabled     *bool           `yaml:"enabled"`
}

type RsyncTaskDoc struct {
	Path         string          `yaml:"path" validate:"required,max=255"`
	RemoteHost   string          `yaml:"remote_host" validate:"required,max=120"`
	RemoteModule string          `yaml:"remote_module" validate:"omitempty,max=120"`
	RemotePath   string          `yaml:"remote_path" validate:"omitempty,max=255"`
	Direction    string          `yaml:"direction" validate:"omitempty,oneof=push pull"`
	Description  string          `yaml:"description" validate:"omitempty,max=120"`
	Schedule     CronScheduleDoc `yaml:"schedule"`
	User         string          `yaml:"user" validate:"omitempty,max=60"`
	Recursive    *bool           `yaml:"recursive"`
	Enabled      *bool           `yaml:"enabled"`
}

type SMARTTestDoc struct {
	// Disks name entries of disks.
	Disks       []string `yaml:"disks" validate:"dive,required"`
	Type        string   `yaml:"type" validate:"required,oneof=L S C O"`
	Description string   `yaml:"description" validate:"omitempty,max=120"`
	// Minute is not part of a SMART schedule and is rejected.
	Schedule CronScheduleDoc `yaml:"schedule"`
}
