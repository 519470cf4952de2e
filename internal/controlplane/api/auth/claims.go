// Package auth signs and checks the bearer tokens of the DittoNAS API.
package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType tells access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the payload of every DittoNAS token.
type Claims struct {
	jwt.RegisteredClaims

	UserID   string `json:"uid"`
	Username string `json:"username"`

	// Role is "admin" or "operator"; both may read the storage listings.
	Role string `json:"role"`

	TokenType TokenType `json:"token_type"`

	// MustChangePassword confines the holder to the password change
	// endpoint until a new password is set.
	MustChangePassword bool `json:"must_change_password,omitempty"`
}

// HasRole reports whether the token's role is one of roles. Roles compare
// case-sensitively.
func (c *Claims) HasRole(roles ...string) bool {
	return c != nil && slices.Contains(roles, c.Role)
}
