package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

const testSecret = "test-secret-key-must-be-32-chars!"

func newTestService(t *testing.T, cfg JWTConfig) *JWTService {
	t.Helper()
	if cfg.Secret == "" {
		cfg.Secret = testSecret
	}
	svc, err := NewJWTService(cfg)
	require.NoError(t, err)
	return svc
}

func operator() *models.User {
	return &models.User{ID: "u-1", Username: "nas-ops", Role: string(models.RoleOperator)}
}

// forge signs claims with the test secret outside the service.
func forge(t *testing.T, method jwt.SigningMethod, claims *Claims) string {
	t.Helper()
	var key any = []byte(testSecret)
	if method == jwt.SigningMethodNone {
		key = jwt.UnsafeAllowNoneSignatureType
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims(kind TokenType) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    DefaultIssuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Username:  "nas-ops",
		Role:      "operator",
		TokenType: kind,
	}
}

func TestNewJWTService_SecretLength(t *testing.T) {
	_, err := NewJWTService(JWTConfig{Secret: strings.Repeat("s", 31)})
	assert.ErrorIs(t, err, ErrInvalidSecretLength)

	_, err = NewJWTService(JWTConfig{})
	assert.ErrorIs(t, err, ErrInvalidSecretLength)

	_, err = NewJWTService(JWTConfig{Secret: strings.Repeat("s", 32)})
	assert.NoError(t, err)
}

func TestGenerateTokenPair_DefaultLifetimes(t *testing.T) {
	svc := newTestService(t, JWTConfig{})

	pair, err := svc.GenerateTokenPair(operator())
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(DefaultAccessTokenDuration/time.Second), pair.ExpiresIn)
	assert.WithinDuration(t, time.Now().Add(DefaultAccessTokenDuration), pair.ExpiresAt, 5*time.Second)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, DefaultRefreshTokenDuration, refresh.ExpiresAt.Sub(refresh.IssuedAt.Time))
}

func TestGenerateTokenPair_CarriesUserState(t *testing.T) {
	svc := newTestService(t, JWTConfig{Issuer: "nas-1"})
	user := operator()
	user.MustChangePassword = true

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	access, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", access.UserID)
	assert.Equal(t, "nas-ops", access.Subject)
	assert.Equal(t, "nas-1", access.Issuer)
	assert.Equal(t, jwt.ClaimStrings{Audience}, access.Audience)
	assert.True(t, access.HasRole("operator"))
	assert.True(t, access.MustChangePassword)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access.ID)
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestValidate_Rejections(t *testing.T) {
	svc := newTestService(t, JWTConfig{})
	pair, err := svc.GenerateTokenPair(operator())
	require.NoError(t, err)

	otherIssuer := newTestService(t, JWTConfig{Issuer: "someone-else"})
	otherSecret := newTestService(t, JWTConfig{Secret: "another-secret-that-is-32-chars-long!"})
	shortLived := newTestService(t, JWTConfig{AccessTokenDuration: -time.Minute})
	expiredPair, err := shortLived.GenerateTokenPair(operator())
	require.NoError(t, err)

	noAudience := validClaims(TokenTypeAccess)
	noAudience.Audience = nil
	noExpiry := validClaims(TokenTypeAccess)
	noExpiry.ExpiresAt = nil
	future := validClaims(TokenTypeAccess)
	future.IssuedAt = jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name  string
		svc   *JWTService
		token string
		kind  TokenType
		want  error
	}{
		{"garbage", svc, "not-a-token", TokenTypeAccess, ErrInvalidToken},
		{"refresh used as access", svc, pair.RefreshToken, TokenTypeAccess, ErrInvalidTokenType},
		{"access used as refresh", svc, pair.AccessToken, TokenTypeRefresh, ErrInvalidTokenType},
		{"other issuer", otherIssuer, pair.AccessToken, TokenTypeAccess, ErrInvalidToken},
		{"other secret", otherSecret, pair.AccessToken, TokenTypeAccess, ErrInvalidToken},
		{"expired", shortLived, expiredPair.AccessToken, TokenTypeAccess, ErrExpiredToken},
		{"no audience", svc, forge(t, jwt.SigningMethodHS256, noAudience), TokenTypeAccess, ErrInvalidToken},
		{"no expiry", svc, forge(t, jwt.SigningMethodHS256, noExpiry), TokenTypeAccess, ErrInvalidToken},
		{"issued in the future", svc, forge(t, jwt.SigningMethodHS256, future), TokenTypeAccess, ErrInvalidToken},
		{"HS512", svc, forge(t, jwt.SigningMethodHS512, validClaims(TokenTypeAccess)), TokenTypeAccess, ErrInvalidToken},
		{"unsigned", svc, forge(t, jwt.SigningMethodNone, validClaims(TokenTypeAccess)), TokenTypeAccess, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.kind == TokenTypeAccess {
				_, err = tt.svc.ValidateAccessToken(tt.token)
			} else {
				_, err = tt.svc.ValidateRefreshToken(tt.token)
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_ForgedWithSameSecret(t *testing.T) {
	svc := newTestService(t, JWTConfig{})

	claims, err := svc.ValidateAccessToken(forge(t, jwt.SigningMethodHS256, validClaims(TokenTypeAccess)))
	require.NoError(t, err)
	assert.Equal(t, "nas-ops", claims.Username)
}

func TestClaims_HasRole(t *testing.T) {
	tests := []struct {
		role  string
		roles []string
		want  bool
	}{
		{"admin", []string{"admin", "operator"}, true},
		{"operator", []string{"admin", "operator"}, true},
		{"operator", []string{"admin"}, false},
		{"Admin", []string{"admin"}, false},
		{"", []string{"admin", "operator"}, false},
		{"admin", nil, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, (&Claims{Role: tt.role}).HasRole(tt.roles...), "%q in %v", tt.role, tt.roles)
	}

	var none *Claims
	assert.False(t, none.HasRole("admin"))
}
