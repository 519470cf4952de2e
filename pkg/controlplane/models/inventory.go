package models

// Inventory is a complete snapshot of the storage, sharing, network and
// scheduling records, replaced as a whole on import. Cross references
// (scrub volume, LAGG interface, LAGG member group, SMART test disks) are
// given by name and resolved by the store.
type Inventory struct {
	Volumes       []Volume
	Disks         []Disk
	Scrubs        []Scrub
	SnapshotTasks []PeriodicSnapshotTask
	NFSShares     []NFSShare
	Interfaces    []NetworkInterface
	LAGGs         []LAGGInterface
	LAGGMembers   []LAGGInterfaceMember
	CronJobs      []CronJob
	RsyncTasks    []RsyncTask
	SMARTTests    []SMARTTest
}
