package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// UserRole is the access level carried in a user's tokens.
type UserRole string

const (
	// RoleOperator may browse storage, sharing and network listings.
	RoleOperator UserRole = "operator"
	// RoleAdmin may additionally manage accounts and settings.
	RoleAdmin UserRole = "admin"
)

// Roles lists every role the API accepts.
var Roles = []UserRole{RoleOperator, RoleAdmin}

// IsValid reports whether r is one of Roles. Matching is case sensitive.
func (r UserRole) IsValid() bool {
	return slices.Contains(Roles, r)
}

// MaxUsernameLength matches the size of the users.username column.
const MaxUsernameLength = 255

// ValidateUsername rejects empty names, names with whitespace and names
// longer than MaxUsernameLength.
func ValidateUsername(name string) error {
	switch {
	case name == "":
		return errors.New("username is required")
	case strings.ContainsAny(name, " \t\r\n"):
		return errors.New("username must not contain whitespace")
	case len(name) > MaxUsernameLength:
		return fmt.Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	return nil
}

// User is an account allowed to log in to the API.
type User struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id"`
	Username           string     `gorm:"uniqueIndex;not null;size:255" json:"username"`
	PasswordHash       string     `gorm:"not null" json:"-"`
	Enabled            bool       `gorm:"not null" json:"enabled"`
	MustChangePassword bool       `gorm:"default:false" json:"must_change_password"`
	Role               string     `gorm:"default:operator;size:50" json:"role"`
	DisplayName        string     `gorm:"size:255" json:"display_name,omitempty"`
	Email              string     `gorm:"size:255" json:"email,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Validate checks the fields CreateUser persists. An empty role falls back
// to the column default.
func (u *User) Validate() error {
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}
	if u.Role != "" && !UserRole(u.Role).IsValid() {
		return fmt.Errorf("invalid role %q", u.Role)
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == string(RoleAdmin)
}
