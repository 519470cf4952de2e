package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

var (
	interfaceColumns = columns{
		"id":            "id",
		"int_interface": "interface",
		"int_name":      "name",
	}
	laggColumns = columns{
		"id":            "id",
		"lagg_protocol": "protocol",
	}
	laggMemberColumns = columns{
		"id":            "id",
		"lagg_ordernum": "order_num",
		"lagg_physnic":  "phys_nic",
	}
)

// ============================================
// NETWORK OPERATIONS
// ============================================

func (s *GORMStore) ListInterfaces(ctx context.Context, opts ListOptions) ([]*models.NetworkInterface, int64, error) {
	return listPage[models.NetworkInterface](s.db, ctx, opts, interfaceColumns, nil, withOrdered("Aliases"))
}

func (s *GORMStore) ListLAGGs(ctx context.Context, opts ListOptions) ([]*models.LAGGInterface, int64, error) {
	return listPage[models.LAGGInterface](s.db, ctx, opts, laggColumns, nil, with("Interface"))
}

func (s *GORMStore) ListLAGGMembers(ctx context.Context, laggID *uint, opts ListOptions) ([]*models.LAGGInterfaceMember, int64, error) {
	var scope func(*gorm.DB) *gorm.DB
	if laggID != nil {
		id := *laggID
		scope = func(db *gorm.DB) *gorm.DB {
			return db.Where("lagg_group_id = ?", id)
		}
	}
	return listPage[models.LAGGInterfaceMember](s.db, ctx, opts, laggMemberColumns, scope, with("LAGGGroup.Interface"))
}
