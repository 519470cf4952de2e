package models

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

const (
	// AdminUsername is the account created on first start.
	AdminUsername = "admin"

	// EnvAdminInitialPassword sets the bootstrap admin password instead of
	// generating one.
	EnvAdminInitialPassword = "DITTONAS_ADMIN_INITIAL_PASSWORD"

	generatedPasswordBytes = 18
)

// GetOrGenerateAdminPassword returns the password from EnvAdminInitialPassword,
// or a random one when the variable is unset.
func GetOrGenerateAdminPassword() (string, error) {
	if pw := os.Getenv(EnvAdminInitialPassword); pw != "" {
		return pw, nil
	}

	buf := make([]byte, generatedPasswordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// DefaultAdminUser returns the bootstrap admin account. It must change its
// password on first login unless the caller says otherwise. An empty
// username selects AdminUsername.
func DefaultAdminUser(username, email, passwordHash string) *User {
	if username == "" {
		username = AdminUsername
	}
	return &User{
		Username:           username,
		Email:              email,
		PasswordHash:       passwordHash,
		Enabled:            true,
		MustChangePassword: true,
		Role:               string(RoleAdmin),
		DisplayName:        "Administrator",
	}
}
