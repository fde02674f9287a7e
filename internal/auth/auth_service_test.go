package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentfolio/internal/config"
)

const testSecret = "test-secret-with-enough-entropy"

func newService(t *testing.T, audience string) *AuthService {
	t.Helper()
	svc, err := NewAuthService(context.Background(), config.AuthConfig{JWTSecret: testSecret, Audience: audience}, nil)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func TestValidateIssuedToken(t *testing.T) {
	svc := newService(t, "authenticated")
	user := uuid.New()

	token, err := IssueToken(testSecret, user, "ada@example.com", "authenticated", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user, id)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := newService(t, "authenticated")
	user := uuid.New()

	expired, err := IssueToken(testSecret, user, "", "authenticated", -time.Minute)
	require.NoError(t, err)
	wrongSecret, err := IssueToken("other-secret", user, "", "authenticated", time.Hour)
	require.NoError(t, err)
	wrongAudience, err := IssueToken(testSecret, user, "", "anon", time.Hour)
	require.NoError(t, err)
	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.String(), Audience: jwt.ClaimStrings{"authenticated"}},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":          "",
		"garbage":        "not-a-jwt",
		"expired":        expired,
		"wrong secret":   wrongSecret,
		"wrong audience": wrongAudience,
		"bad subject":    badSubject,
		"no expiry":      noExpiry,
	} {
		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestNewAuthServiceRequiresKeyMaterial(t *testing.T) {
	_, err := NewAuthService(context.Background(), config.AuthConfig{}, nil)
	assert.Error(t, err)
}
