package store

import (
	"context"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

var (
	cronJobColumns = columns{
		"id":           "id",
		"cron_user":    "user",
		"cron_command": "command",
		"cron_enabled": "enabled",
	}
	rsyncColumns = columns{
		"id":               "id",
		"rsync_path":       "path",
		"rsync_remotehost": "remote_host",
		"rsync_enabled":    "enabled",
	}
	smartTestColumns = columns{
		"id":                  "id",
		"smarttest_type_code": "type",
	}
)

// ============================================
// SYSTEM JOB OPERATIONS
// ============================================

func (s *GORMStore) ListCronJobs(ctx context.Context, opts ListOptions) ([]*models.CronJob, int64, error) {
	return listPage[models.CronJob](s.db, ctx, opts, cronJobColumns, nil)
}

func (s *GORMStore) ListRsyncTasks(ctx context.Context, opts ListOptions) ([]*models.RsyncTask, int64, error) {
	return listPage[models.RsyncTask](s.db, ctx, opts, rsyncColumns, nil)
}

func (s *GORMStore) ListSMARTTests(ctx context.Context, opts ListOptions) ([]*models.SMARTTest, int64, error) {
	return listPage[models.SMARTTest](s.db, ctx, opts, smartTestColumns, nil, with("Disks"))
}
