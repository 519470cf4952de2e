package store

import (
	"context"
	"fmt"
)

// ============================================
// HEALTH & LIFECYCLE
// ============================================

func (s *GORMStore) Healthcheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.Close()
}

// Compile-time interface checks
var (
	_ Store          = (*GORMStore)(nil)
	_ UserStore      = (*GORMStore)(nil)
	_ SettingsStore  = (*GORMStore)(nil)
	_ StorageStore   = (*GORMStore)(nil)
	_ SharingStore   = (*GORMStore)(nil)
	_ NetworkStore   = (*GORMStore)(nil)
	_ SystemStore    = (*GORMStore)(nil)
	_ InventoryStore = (*GORMStore)(nil)
)
