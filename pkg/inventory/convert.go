package inventory

import (
	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/schedule"
)

// Inventory converts a validated document into the records the store
// writes. Fields left empty take the store's column defaults.
func (d *Document) Inventory() *models.Inventory {
	inv := &models.Inventory{
		Volumes:       make([]models.Volume, 0, len(d.Volumes)),
		Disks:         make([]models.Disk, 0, len(d.Disks)),
		Scrubs:        make([]models.Scrub, 0, len(d.Scrubs)),
		SnapshotTasks: make([]models.PeriodicSnapshotTask, 0, len(d.SnapshotTasks)),
		NFSShares:     make([]models.NFSShare, 0, len(d.NFSShares)),
		Interfaces:    make([]models.NetworkInterface, 0, len(d.Interfaces)),
		LAGGs:         make([]models.LAGGInterface, 0, len(d.LAGGs)),
		CronJobs:      make([]models.CronJob, 0, len(d.CronJobs)),
		RsyncTasks:    make([]models.RsyncTask, 0, len(d.RsyncTasks)),
		SMARTTests:    make([]models.SMARTTest, 0, len(d.SMARTTests)),
	}

	for _, v := range d.Volumes {
		inv.Volumes = append(inv.Volumes, v.model())
	}
	for _, disk := range d.Disks {
		inv.Disks = append(inv.Disks, disk.model())
	}
	for _, s := range d.Scrubs {
		inv.Scrubs = append(inv.Scrubs, models.Scrub{
			VolumeName:  s.Volume,
			Threshold:   s.Threshold,
			Description: s.Description,
			Schedule:    s.Schedule.cron(),
			Enabled:     boolOr(s.Enabled, true),
		})
	}
	for _, t := range d.SnapshotTasks {
		inv.SnapshotTasks = append(inv.SnapshotTasks, models.PeriodicSnapshotTask{
			Filesystem: t.Filesystem,
			Recursive:  t.Recursive,
			RetCount:   t.RetCount,
			RetUnit:    t.RetUnit,
			Begin:      t.Begin,
			End:        t.End,
			Interval:   t.Interval,
			RepeatUnit: t.RepeatUnit,
			ByWeekday:  schedule.FormatWeekdays(t.Weekdays),
			Enabled:    boolOr(t.Enabled, true),
		})
	}
	for _, s := range d.NFSShares {
		share := models.NFSShare{
			Comment:      s.Comment,
			Network:      s.Network,
			Hosts:        s.Hosts,
			AllDirs:      s.AllDirs,
			ReadOnly:     s.ReadOnly,
			Quiet:        s.Quiet,
			MaprootUser:  s.MaprootUser,
			MaprootGroup: s.MaprootGroup,
			MapallUser:   s.MapallUser,
			MapallGroup:  s.MapallGroup,
		}
		for _, p := range s.Paths {
			share.Paths = append(share.Paths, models.NFSSharePath{Path: p})
		}
		inv.NFSShares = append(inv.NFSShares, share)
	}
	for _, nic := range d.Interfaces {
		inv.Interfaces = append(inv.Interfaces, nic.model())
	}
	for _, l := range d.LAGGs {
		inv.LAGGs = append(inv.LAGGs, models.LAGGInterface{
			InterfaceName: l.Interface,
			Protocol:      l.Protocol,
		})
		for _, m := range l.Members {
			inv.LAGGMembers = append(inv.LAGGMembers, models.LAGGInterfaceMember{
				LAGGName:      l.Interface,
				OrderNum:      m.OrderNum,
				PhysNIC:       m.PhysNIC,
				DeviceOptions: m.DeviceOptions,
			})
		}
	}
	for _, c := range d.CronJobs {
		inv.CronJobs = append(inv.CronJobs, models.CronJob{
			User:        c.User,
			Command:     c.Command,
			Description: c.Description,
			Schedule:    c.Schedule.cron(),
			Stdout:      boolOr(c.Stdout, true),
			Stderr:      c.Stderr,
			Enabled:     boolOr(c.Enabled, true),
		})
	}
	for _, r := range d.RsyncTasks {
		inv.RsyncTasks = append(inv.RsyncTasks, models.RsyncTask{
			Path:         r.Path,
			RemoteHost:   r.RemoteHost,
			RemoteModule: r.RemoteModule,
			RemotePath:   r.RemotePath,
			Direction:    r.Direction,
			Description:  r.Description,
			Schedule:     r.Schedule.cron(),
			User:         r.User,
			Recursive:    boolOr(r.Recursive, true),
			Enabled:      boolOr(r.Enabled, true),
		})
	}
	for _, t := range d.SMARTTests {
		inv.SMARTTests = append(inv.SMARTTests, models.SMARTTest{
			DiskRefs:    append([]string(nil), t.Disks...),
			Type:        t.Type,
			Description: t.Description,
			Schedule:    t.Schedule.daily(),
		})
	}

	return inv
}

func (v VolumeDoc) model() models.Volume {
	vol := models.Volume{
		Name:     v.Name,
		FSType:   v.FSType,
		GUID:     v.GUID,
		Encrypt:  v.Encrypt,
		Unlocked: v.Unlocked,
		Status:   v.Status,
	}
	for _, mp := range v.MountPoints {
		vol.MountPoints = append(vol.MountPoints, models.MountPoint{
			Path:       mp.Path,
			Options:    mp.Options,
			Status:     orDefault(mp.Status, v.Status),
			TotalBytes: uint64(mp.Total),
			AvailBytes: uint64(mp.Avail),
			UsedBytes:  uint64(mp.Used),
		})
	}
	for _, ds := range v.Datasets {
		vol.Datasets = append(vol.Datasets, models.Dataset{
			Name:       ds.Name,
			Mountpoint: ds.Mountpoint,
			TotalBytes: uint64(ds.Total),
			AvailBytes: uint64(ds.Avail),
			UsedBytes:  uint64(ds.Used),
		})
	}
	for _, z := range v.ZVols {
		vol.ZVols = append(vol.ZVols, models.ZVol{Name: z.Name, Size: uint64(z.Size)})
	}
	return vol
}

func (d DiskDoc) model() models.Disk {
	return models.Disk{
		Name:            d.Name,
		Identifier:      d.Identifier,
		Serial:          d.Serial,
		Description:     d.Description,
		MultipathName:   d.MultipathName,
		MultipathMember: d.MultipathMember,
		TransferMode:    d.TransferMode,
		HDDStandby:      d.HDDStandby,
		AdvPowerMgmt:    d.AdvPowerMgmt,
		AcousticLevel:   d.AcousticLevel,
		ToggleSMART:     boolOr(d.ToggleSMART, true),
		SMARTOptions:    d.SMARTOptions,
		Enabled:         boolOr(d.Enabled, true),
		SizeBytes:       uint64(d.Size),
	}
}

func (n InterfaceDoc) model() models.NetworkInterface {
	nic := models.NetworkInterface{
		Interface:   n.Interface,
		Name:        n.Name,
		DHCP:        n.DHCP,
		IPv4Address: n.IPv4Address,
		IPv4Netmask: n.IPv4Netmask,
		IPv6Auto:    n.IPv6Auto,
		IPv6Address: n.IPv6Address,
		IPv6Netmask: n.IPv6Netmask,
		Options:     n.Options,
	}
	for _, a := range n.Aliases {
		nic.Aliases = append(nic.Aliases, models.InterfaceAlias{
			V4Address: a.IPv4Address,
			V4Netmask: a.IPv4Netmask,
			V6Address: a.IPv6Address,
			V6Netmask: a.IPv6Netmask,
		})
	}
	return nic
}

func (c CronScheduleDoc) cron() models.CronSchedule {
	return models.CronSchedule{
		Minute:   orDefault(c.Minute, "00"),
		Hour:     orDefault(c.Hour, "*"),
		Daymonth: orDefault(c.Daymonth, "*"),
		Month:    orDefault(c.Month, "*"),
		Dayweek:  orDefault(c.Dayweek, "*"),
	}
}

func (c CronScheduleDoc) daily() models.DailySchedule {
	return models.DailySchedule{
		Hour:     orDefault(c.Hour, "*"),
		Daymonth: orDefault(c.Daymonth, "*"),
		Month:    orDefault(c.Month, "*"),
		Dayweek:  orDefault(c.Dayweek, "*"),
	}
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
