package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// AccessTokenTTL is how long an access token stays valid.
	AccessTokenTTL = 1 * time.Hour
	// RefreshTokenTTL is how long a refresh session stays valid.
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// ErrInvalidToken is returned when a token fails parsing or validation.
var ErrInvalidToken = errors.New("invalid or expired token")

// AccessClaims are the JWT claims carried by an access token.
type AccessClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAccessToken issues a signed HS256 access token for a user.
func GenerateAccessToken(userID uint, role string) (string, error) {
	cfg := config.GetConfig()
	if cfg == nil || cfg.JWTSecret == "" {
		return "", errors.New("JWT secret is not configured")
	}

	claims := AccessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseAccessToken validates a signed access token and returns its claims.
func ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	cfg := config.GetConfig()
	if cfg == nil || cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret is not configured")
	}

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GenerateRefreshToken returns a new opaque refresh token and the SHA-256
// hash under which it is persisted. The raw token is only ever sent to the
// client.
func GenerateRefreshToken() (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, HashRefreshToken(raw), nil
}

// HashRefreshToken returns the storage hash of a raw refresh token.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
