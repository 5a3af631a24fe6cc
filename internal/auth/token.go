// Package auth issues and validates session tokens and decides whether a set
// of token claims grants a role or permission.
//
// Tokens are stateless: claims are re-read from the token on every request and
// nothing is stored server-side, so a role or permission change only reaches a
// client when its token expires (TokenTTL) or it signs in again.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tourlog/internal/model"
)

// TokenTTL is the lifetime of an issued session token
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned for every validation failure. Expired, malformed
// and forged tokens are not distinguished.
var ErrInvalidToken = errors.New("invalid token")

// TokenConfig holds the signing configuration. Secret is required.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration // defaults to TokenTTL
}

// Claims is the identity payload embedded in a session token
type Claims struct {
	UserID      string             `json:"uid"`
	Username    string             `json:"username"`
	DisplayName string             `json:"displayName"`
	Role        model.Role         `json:"role"`
	Permissions []model.Permission `json:"permissions"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService fails when the signing secret is missing
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = TokenTTL
	}
	return &TokenService{secret: []byte(cfg.Secret), issuer: cfg.Issuer, ttl: ttl}, nil
}

// Issue creates a signed token for the user
func (s *TokenService) Issue(user *model.User) (string, error) {
	now := time.Now()
	perms := make([]model.Permission, 0, len(user.Permissions))
	perms = append(perms, user.Permissions...)

	claims := Claims{
		UserID:      user.ID.String(),
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature and expiry and returns the embedded claims
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
