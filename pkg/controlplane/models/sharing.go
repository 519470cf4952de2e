package models

// NFSShare is an NFS export covering one or more paths.
type NFSShare struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Comment      string         `gorm:"size:120" json:"nfs_comment,omitempty"`
	Network      string         `gorm:"type:text" json:"nfs_network,omitempty"`
	Hosts        string         `gorm:"type:text" json:"nfs_hosts,omitempty"`
	AllDirs      bool           `json:"nfs_alldirs"`
	ReadOnly     bool           `json:"nfs_ro"`
	Quiet        bool           `json:"nfs_quiet"`
	MaprootUser  string         `gorm:"size:120" json:"nfs_maproot_user,omitempty"`
	MaprootGroup string         `gorm:"size:120" json:"nfs_maproot_group,omitempty"`
	MapallUser   string         `gorm:"size:120" json:"nfs_mapall_user,omitempty"`
	MapallGroup  string         `gorm:"size:120" json:"nfs_mapall_group,omitempty"`
	Paths        []NFSSharePath `gorm:"foreignKey:ShareID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for NFSShare.
func (NFSShare) TableName() string {
	return "sharing_nfs_shares"
}

// NFSPaths returns the exported paths in insertion order.
func (s *NFSShare) NFSPaths() []string {
	paths := make([]string, 0, len(s.Paths))
	for _, p := range s.Paths {
		paths = append(paths, p.Path)
	}
	return paths
}

// NFSSharePath is one exported path of an NFS share.
type NFSSharePath struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	ShareID uint   `gorm:"index;not null" json:"-"`
	Path    string `gorm:"size:255;not null" json:"path"`
}

// TableName returns the table name for NFSSharePath.
func (NFSSharePath) TableName() string {
	return "sharing_nfs_share_paths"
}
