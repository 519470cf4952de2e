package store

import (
	"context"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

var nfsShareColumns = columns{
	"id":          "id",
	"nfs_comment": "comment",
	"nfs_ro":      "read_only",
}

// ============================================
// SHARING OPERATIONS
// ============================================

func (s *GORMStore) ListNFSShares(ctx context.Context, opts ListOptions) ([]*models.NFSShare, int64, error) {
	return listPage[models.NFSShare](s.db, ctx, opts, nfsShareColumns, nil, withOrdered("Paths"))
}
