package models

// AllModels returns all GORM models for auto-migration.
func AllModels() []any {
	return []any{
		&User{},
		&Setting{},
		&Volume{},
		&MountPoint{},
		&Dataset{},
		&ZVol{},
		&Disk{},
		&Scrub{},
		&PeriodicSnapshotTask{},
		&NFSShare{},
		&NFSSharePath{},
		&NetworkInterface{},
		&InterfaceAlias{},
		&LAGGInterface{},
		&LAGGInterfaceMember{},
		&CronJob{},
		&RsyncTask{},
		&SMARTTest{},
	}
}
