package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrInvalidTokenType    = errors.New("invalid token type")
	ErrTokenSigningFailed  = errors.New("failed to sign token")
	ErrInvalidSecretLength = errors.New("JWT secret must be at least 32 characters")
)

const (
	// DefaultIssuer is the iss claim when none is configured.
	DefaultIssuer = "dittonas"

	// Audience is the aud claim of every token. Tokens minted for another
	// audience with the same secret are refused.
	Audience = "dittonas-api"

	DefaultAccessTokenDuration  = 15 * time.Minute
	DefaultRefreshTokenDuration = 7 * 24 * time.Hour

	minSecretLength = 32
)

// JWTConfig configures token signing. Zero durations and an empty issuer
// take the defaults above.
type JWTConfig struct {
	Secret               string
	Issuer               string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// JWTService signs and checks the HS256 tokens of the REST API.
type JWTService struct {
	key    []byte
	issuer string
	ttl    map[TokenType]time.Duration
	parser *jwt.Parser
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"` // always "Bearer"
	ExpiresIn    int64     `json:"expires_in"` // access token lifetime in seconds
	ExpiresAt    time.Time `json:"expires_at"`
}

// NewJWTService checks the secret and builds the shared token parser.
func NewJWTService(config JWTConfig) (*JWTService, error) {
	if len(config.Secret) < minSecretLength {
		return nil, ErrInvalidSecretLength
	}

	issuer := config.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	access := config.AccessTokenDuration
	if access == 0 {
		access = DefaultAccessTokenDuration
	}
	refresh := config.RefreshTokenDuration
	if refresh == 0 {
		refresh = DefaultRefreshTokenDuration
	}

	return &JWTService{
		key:    []byte(config.Secret),
		issuer: issuer,
		ttl: map[TokenType]time.Duration{
			TokenTypeAccess:  access,
			TokenTypeRefresh: refresh,
		},
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(Audience),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}, nil
}

// GenerateTokenPair signs an access and a refresh token for user. Both
// carry the role and the must_change_password flag as they are now, so a
// refresh after a role or password change picks up the new state.
func (s *JWTService) GenerateTokenPair(user *models.User) (*TokenPair, error) {
	now := time.Now()

	access, accessExp, err := s.sign(user, TokenTypeAccess, now)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.sign(user, TokenTypeRefresh, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.ttl[TokenTypeAccess] / time.Second),
		ExpiresAt:    accessExp,
	}, nil
}

func (s *JWTService) sign(user *models.User, kind TokenType, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.ttl[kind])
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   user.Username,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:             user.ID,
		Username:           user.Username,
		Role:               user.Role,
		TokenType:          kind,
		MustChangePassword: user.MustChangePassword,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %s token: %v", ErrTokenSigningFailed, kind, err)
	}
	return signed, exp, nil
}

// ValidateAccessToken returns the claims of a valid access token.
func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	return s.validate(token, TokenTypeAccess)
}

// ValidateRefreshToken returns the claims of a valid refresh token.
func (s *JWTService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.validate(token, TokenTypeRefresh)
}

// validate maps every parser failure onto ErrExpiredToken or
// ErrInvalidToken, then checks the token kind.
func (s *JWTService) validate(token string, kind TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case claims.TokenType != kind:
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}
