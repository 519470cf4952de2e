// Package store provides the control plane persistence layer.
//
// This package implements the Store interface over the storage, sharing,
// network and scheduling records served by the API, plus the user accounts
// and settings of the control plane itself.
//
// Two backends are supported:
//   - SQLite (single-node, default)
//   - PostgreSQL
package store

import (
	"context"
	"time"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

// UserStore manages API accounts.
type UserStore interface {
	// GetUser returns a user by username.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	GetUser(ctx context.Context, username string) (*models.User, error)

	// GetUserByID returns a user by their unique ID (UUID).
	// Returns models.ErrUserNotFound if no user has this ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns all users.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateUser creates a new user. The user ID will be generated if empty.
	// Returns models.ErrDuplicateUser if a user with the same username exists.
	CreateUser(ctx context.Context, user *models.User) (string, error)

	// UpdatePassword replaces a user's password hash and clears
	// MustChangePassword.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	UpdatePassword(ctx context.Context, username, passwordHash string) error

	// UpdateLastLogin updates the user's last login timestamp.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	UpdateLastLogin(ctx context.Context, username string, timestamp time.Time) error

	// ValidateCredentials verifies username/password credentials.
	// Returns models.ErrInvalidCredentials if the credentials are invalid.
	// Returns models.ErrUserDisabled if the user account is disabled.
	ValidateCredentials(ctx context.Context, username, password string) (*models.User, error)

	// EnsureAdminUser creates the named admin account on first start and
	// returns its initial password. Returns "" if the account already exists.
	// An empty username selects models.AdminUsername.
	EnsureAdminUser(ctx context.Context, username, email string) (string, error)

	// IsAdminInitialized reports whether any admin account exists.
	IsAdminInitialized(ctx context.Context) (bool, error)
}

// SettingsStore manages system-wide key-value settings.
type SettingsStore interface {
	// GetSetting returns a setting value, or "" if unset.
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
	ListSettings(ctx context.Context) ([]*models.Setting, error)
}

// StorageStore reads volumes and everything hanging off them.
type StorageStore interface {
	// ListVolumes returns a page of volumes with their mount points.
	ListVolumes(ctx context.Context, opts ListOptions) ([]*models.Volume, int64, error)

	// GetVolume returns a volume by ID with its mount points.
	// Returns models.ErrVolumeNotFound if the volume doesn't exist.
	GetVolume(ctx context.Context, id uint) (*models.Volume, error)

	// GetVolumeByName returns a volume by pool name with its mount points.
	// Returns models.ErrVolumeNotFound if the volume doesn't exist.
	GetVolumeByName(ctx context.Context, name string) (*models.Volume, error)

	// ListDatasets returns the volume's datasets in listing order.
	ListDatasets(ctx context.Context, volumeID uint) ([]models.Dataset, error)

	// ListZVols returns the volume's zvols in listing order.
	ListZVols(ctx context.Context, volumeID uint) ([]models.ZVol, error)

	// ListDisks returns a page of enabled disks, excluding multipath
	// members and multipath devices.
	ListDisks(ctx context.Context, opts ListOptions) ([]*models.Disk, int64, error)

	// ListScrubs returns a page of scrubs with their volume.
	ListScrubs(ctx context.Context, opts ListOptions) ([]*models.Scrub, int64, error)

	// ListSnapshotTasks returns a page of periodic snapshot tasks.
	ListSnapshotTasks(ctx context.Context, opts ListOptions) ([]*models.PeriodicSnapshotTask, int64, error)
}

// SharingStore reads file shares.
type SharingStore interface {
	// ListNFSShares returns a page of NFS shares with their paths.
	ListNFSShares(ctx context.Context, opts ListOptions) ([]*models.NFSShare, int64, error)
}

// NetworkStore reads network configuration.
type NetworkStore interface {
	// ListInterfaces returns a page of interfaces with their aliases.
	ListInterfaces(ctx context.Context, opts ListOptions) ([]*models.NetworkInterface, int64, error)

	// ListLAGGs returns a page of link aggregations with their interface.
	ListLAGGs(ctx context.Context, opts ListOptions) ([]*models.LAGGInterface, int64, error)

	// ListLAGGMembers returns a page of LAGG members, restricted to one
	// LAGG when laggID is non-nil.
	ListLAGGMembers(ctx context.Context, laggID *uint, opts ListOptions) ([]*models.LAGGInterfaceMember, int64, error)
}

// SystemStore reads scheduled system jobs.
type SystemStore interface {
	ListCronJobs(ctx context.Context, opts ListOptions) ([]*models.CronJob, int64, error)
	ListRsyncTasks(ctx context.Context, opts ListOptions) ([]*models.RsyncTask, int64, error)

	// ListSMARTTests returns a page of SMART tests with their disks.
	ListSMARTTests(ctx context.Context, opts ListOptions) ([]*models.SMARTTest, int64, error)
}

// InventoryStore replaces the storage, sharing, network and scheduling
// records wholesale.
type InventoryStore interface {
	// ReplaceInventory deletes every inventory record and inserts inv in a
	// single transaction, recording source and the import time in settings.
	// Name references that do not resolve fail the whole import.
	ReplaceInventory(ctx context.Context, inv *models.Inventory, source string) error
}

// Store provides the control plane persistence interface.
//
// Thread Safety: Implementations must be safe for concurrent use from multiple
// goroutines.
type Store interface {
	UserStore
	SettingsStore
	StorageStore
	SharingStore
	NetworkStore
	SystemStore
	InventoryStore

	// Healthcheck verifies the database connection.
	Healthcheck(ctx context.Context) error

	// Close releases the database connection.
	Close() error
}
