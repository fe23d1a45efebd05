package services

import (
	"testing"
	"time"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestSecret(t *testing.T, secret string) {
	t.Helper()
	config.SetConfig(&config.Config{
		GoEnv:     "test",
		JWTSecret: secret,
		JWTIssuer: "jewelry-workshop-api",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	setTestSecret(t, "token-test-secret")

	token, err := GenerateAccessToken(15, "sale_staff")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(15), claims.UserID)
	assert.Equal(t, "sale_staff", claims.Role)
	assert.Equal(t, "jewelry-workshop-api", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(AccessTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	setTestSecret(t, "first-secret")
	token, err := GenerateAccessToken(1, "customer")
	require.NoError(t, err)

	setTestSecret(t, "second-secret")
	_, err = ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessToken_RejectsUnsignedToken(t *testing.T) {
	setTestSecret(t, "token-test-secret")

	// alg=none tokens must never validate.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{
		UserID: 99,
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAccessToken(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessToken_Expired(t *testing.T) {
	setTestSecret(t, "token-test-secret")

	cfg := config.GetConfig()
	claims := AccessClaims{
		UserID: 3,
		Role:   "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateAccessToken_NoSecret(t *testing.T) {
	config.SetConfig(&config.Config{GoEnv: "test"})

	_, err := GenerateAccessToken(1, "customer")
	assert.Error(t, err)
}

func TestRefreshTokens(t *testing.T) {
	raw, hash, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Len(t, hash, 64)
	assert.NotEqual(t, raw, hash)
	assert.Equal(t, hash, HashRefreshToken(raw))

	raw2, hash2, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
	assert.NotEqual(t, hash, hash2)
}
