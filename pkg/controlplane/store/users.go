package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

// ============================================
// USER OPERATIONS
// ============================================

func (s *GORMStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	return getByField[models.User](s.db, ctx, "username", username, models.ErrUserNotFound)
}

func (s *GORMStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return getByField[models.User](s.db, ctx, "id", id, models.ErrUserNotFound)
}

func (s *GORMStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	return listAll[models.User](s.db, ctx)
}

func (s *GORMStore) CreateUser(ctx context.Context, user *models.User) (string, error) {
	if err := user.Validate(); err != nil {
		return "", err
	}
	user.CreatedAt = time.Now()
	return createWithID(s.db, ctx, user, func(u *models.User, id string) { u.ID = id }, user.ID, models.ErrDuplicateUser)
}

func (s *GORMStore) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Updates(map[string]any{
			"password_hash":        passwordHash,
			"must_change_password": false,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (s *GORMStore) UpdateLastLogin(ctx context.Context, username string, timestamp time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("last_login", timestamp)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (s *GORMStore) ValidateCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Enabled {
		return nil, models.ErrUserDisabled
	}

	if !models.VerifyPassword(password, user.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}

	if models.NeedsRehash(user.PasswordHash) {
		s.upgradePasswordHash(ctx, user, password)
	}

	return user, nil
}

// upgradePasswordHash re-hashes a verified password at the current cost.
// Failures leave the old hash in place.
func (s *GORMStore) upgradePasswordHash(ctx context.Context, user *models.User, password string) {
	hash, err := models.HashPassword(password)
	if err != nil {
		logger.WarnCtx(ctx, "Password hash upgrade skipped", logger.Username(user.Username), logger.Err(err))
		return
	}
	err = s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", user.Username).
		Update("password_hash", hash).Error
	if err != nil {
		logger.WarnCtx(ctx, "Password hash upgrade failed", logger.Username(user.Username), logger.Err(err))
		return
	}
	user.PasswordHash = hash
	logger.DebugCtx(ctx, "Password hash upgraded", logger.Username(user.Username))
}

// ============================================
// ADMIN INITIALIZATION
// ============================================

func (s *GORMStore) EnsureAdminUser(ctx context.Context, username, email string) (string, error) {
	if username == "" {
		username = models.AdminUsername
	}

	initialized, err := s.IsAdminInitialized(ctx)
	if err != nil {
		return "", err
	}
	if initialized {
		return "", nil
	}

	_, err = s.GetUser(ctx, username)
	if err == nil {
		return "", nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return "", err
	}

	passwordFromEnv := os.Getenv(models.EnvAdminInitialPassword) != ""

	password, err := models.GetOrGenerateAdminPassword()
	if err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}

	passwordHash, err := models.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.DefaultAdminUser(username, email, passwordHash)

	// An operator-chosen password does not need to be rotated.
	if passwordFromEnv {
		admin.MustChangePassword = false
	}

	if _, err := s.CreateUser(ctx, admin); err != nil {
		return "", fmt.Errorf("failed to create admin user: %w", err)
	}

	return password, nil
}

func (s *GORMStore) IsAdminInitialized(ctx context.Context) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", string(models.RoleAdmin)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
