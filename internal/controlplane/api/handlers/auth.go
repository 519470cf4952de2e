package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/marmos91/dittonas/internal/controlplane/api/auth"
	"github.com/marmos91/dittonas/internal/controlplane/api/middleware"
	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
)

// AuthHandler serves /api/v1/auth: login, token refresh, the current user
// and password changes.
type AuthHandler struct {
	store  store.UserStore
	tokens *auth.JWTService
}

func NewAuthHandler(s store.UserStore, tokens *auth.JWTService) *AuthHandler {
	return &AuthHandler{store: s, tokens: tokens}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest may omit CurrentPassword while the account is
// flagged must_change_password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// LoginResponse is returned by login, refresh and password change.
type LoginResponse struct {
	auth.TokenPair
	User UserResponse `json:"user"`
}

// UserResponse is a user without credentials.
type UserResponse struct {
	ID                 string     `json:"id"`
	Username           string     `json:"username"`
	DisplayName        string     `json:"display_name,omitempty"`
	Email              string     `json:"email,omitempty"`
	Role               string     `json:"role"`
	Enabled            bool       `json:"enabled"`
	MustChangePassword bool       `json:"must_change_password"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Username:           u.Username,
		DisplayName:        u.DisplayName,
		Email:              u.Email,
		Role:               u.Role,
		Enabled:            u.Enabled,
		MustChangePassword: u.MustChangePassword,
		LastLogin:          u.LastLogin,
	}
}

const maxAuthBody = 4 << 10

// decodeJSONBody reads exactly one JSON object of at most maxAuthBody bytes
// into v. Unknown fields and trailing data are rejected. On failure a 400
// is written and false returned.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAuthBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		BadRequest(w, "Invalid request body")
		return false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		BadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// issue writes a fresh token pair for u.
func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, u *models.User) {
	pair, err := h.tokens.GenerateTokenPair(u)
	if err != nil {
		logger.ErrorCtx(r.Context(), "token signing failed", logger.Err(err))
		InternalServerError(w, "Failed to generate token")
		return
	}
	WriteJSONOK(w, LoginResponse{TokenPair: *pair, User: newUserResponse(u)})
}

// lookup reloads the account named in a token. A deleted account is a 401.
func (h *AuthHandler) lookup(w http.ResponseWriter, r *http.Request, username string) (*models.User, bool) {
	u, err := h.store.GetUser(r.Context(), username)
	switch {
	case err == nil:
		return u, true
	case errors.Is(err, models.ErrUserNotFound):
		Unauthorized(w, "User not found")
	default:
		logger.ErrorCtx(r.Context(), "user lookup failed", logger.Err(err))
		InternalServerError(w, "Failed to fetch user")
	}
	return nil, false
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		BadRequest(w, "Username and password are required")
		return
	}

	ctx := r.Context()
	u, err := h.store.ValidateCredentials(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrUserNotFound):
		logger.InfoCtx(ctx, "login rejected", logger.Username(req.Username))
		Unauthorized(w, "Invalid username or password")
		return
	case errors.Is(err, models.ErrUserDisabled):
		Forbidden(w, "User account is disabled")
		return
	case err != nil:
		logger.ErrorCtx(ctx, "credential check failed", logger.Err(err))
		InternalServerError(w, "Authentication failed")
		return
	}
	logger.FromContext(ctx).SetUser(u.Username)

	if err := h.store.UpdateLastLogin(ctx, u.Username, time.Now()); err != nil {
		logger.WarnCtx(ctx, "last login not recorded", logger.Err(err))
	}
	h.issue(w, r, u)
}

// Refresh handles POST /api/v1/auth/refresh. The account is reloaded so
// role changes and disabling take effect on the next refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		BadRequest(w, "Refresh token is required")
		return
	}

	claims, err := h.tokens.ValidateRefreshToken(req.RefreshToken)
	if errors.Is(err, auth.ErrExpiredToken) {
		Unauthorized(w, "Refresh token has expired")
		return
	}
	if err != nil {
		Unauthorized(w, "Invalid refresh token")
		return
	}
	logger.FromContext(r.Context()).SetUser(claims.Username)

	u, ok := h.lookup(w, r, claims.Username)
	if !ok {
		return
	}
	if !u.Enabled {
		Forbidden(w, "User account is disabled")
		return
	}
	h.issue(w, r, u)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		Unauthorized(w, "Authentication required")
		return
	}
	if u, ok := h.lookup(w, r, claims.Username); ok {
		WriteJSONOK(w, newUserResponse(u))
	}
}

// ChangePassword handles POST /api/v1/auth/password and answers with a
// token pair that no longer carries must_change_password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		Unauthorized(w, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		BadRequest(w, "New password is required")
		return
	}

	u, ok := h.lookup(w, r, claims.Username)
	if !ok {
		return
	}
	if !u.MustChangePassword {
		if req.CurrentPassword == "" {
			BadRequest(w, "Current password is required")
			return
		}
		if !models.VerifyPassword(req.CurrentPassword, u.PasswordHash) {
			Unauthorized(w, "Current password is incorrect")
			return
		}
	}

	hash, err := models.HashPassword(req.NewPassword)
	if errors.Is(err, models.ErrPasswordTooShort) || errors.Is(err, models.ErrPasswordTooLong) {
		BadRequest(w, err.Error())
		return
	}
	if err != nil {
		InternalServerError(w, "Failed to hash password")
		return
	}
	if err := h.store.UpdatePassword(r.Context(), u.Username, hash); err != nil {
		HandleStoreError(w, r, err)
		return
	}
	u.MustChangePassword = false

	logger.InfoCtx(r.Context(), "password changed", logger.Username(u.Username))
	h.issue(w, r, u)
}
