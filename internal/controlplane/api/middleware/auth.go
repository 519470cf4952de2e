// Package middleware provides HTTP middleware for the DittoNAS API.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/marmos91/dittonas/internal/controlplane/api/auth"
	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/internal/telemetry"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// GetClaimsFromContext returns the claims stored by JWTAuth, or nil.
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// JWTAuth rejects requests without a valid access token and stores the
// token's claims in the request context.
func JWTAuth(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				writeUnauthorized(w, "Missing or invalid authorization header")
				return
			}

			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				logger.DebugCtx(r.Context(), "Access token rejected", logger.Err(err))
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					writeUnauthorized(w, "Token has expired")
				case errors.Is(err, auth.ErrInvalidTokenType):
					writeUnauthorized(w, "Refresh tokens cannot be used for API access")
				default:
					writeUnauthorized(w, "Invalid token")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// RequireRole allows any of the given roles. Must run after JWTAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims == nil {
				writeUnauthorized(w, "Authentication required")
				return
			}

			if claims.HasRole(roles...) {
				next.ServeHTTP(w, r)
				return
			}

			logger.WarnCtx(r.Context(), "Role not allowed", "role", claims.Role, "allowed", roles)
			writeForbidden(w, "Insufficient permissions")
		})
	}
}

// RequirePasswordChange blocks users flagged with must_change_password from
// every path except allowedPaths. Must run after JWTAuth.
func RequirePasswordChange(allowedPaths ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedPaths))
	for _, p := range allowedPaths {
		allowed[strings.TrimSuffix(p, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims == nil {
				writeUnauthorized(w, "Authentication required")
				return
			}

			if claims.MustChangePassword {
				if _, ok := allowed[strings.TrimSuffix(r.URL.Path, "/")]; !ok {
					writeForbidden(w, "Password change required")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// withClaims stores claims and tags the request's LogContext and span with
// the user.
func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	logger.FromContext(ctx).SetUser(claims.Username)
	telemetry.SetAttributes(ctx, telemetry.Username(claims.Username), telemetry.Role(claims.Role))
	return context.WithValue(ctx, claimsContextKey, claims)
}

// extractBearerToken parses "Authorization: Bearer <token>", scheme
// case-insensitive.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}

	return token, true
}

// problem mirrors handlers.Problem; handlers imports this package, so it
// cannot be reused here.
type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="dittonas"`)
	writeProblem(w, http.StatusUnauthorized, "Unauthorized", detail)
}

func writeForbidden(w http.ResponseWriter, detail string) {
	writeProblem(w, http.StatusForbidden, "Forbidden", detail)
}
