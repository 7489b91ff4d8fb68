package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-vocab/internal/config"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

var fixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, secret string, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newJWTService(config.AuthConfig{JWTSecret: secret, TokenLifetimeMinutes: 60},
		func() time.Time { return now })
	require.NoError(t, err)
	return svc
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSecret, fixedTime)
	token, err := svc.GenerateToken(context.Background(), "discord-1234")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "discord-1234", claims.UserID)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)

	_, err = svc.GenerateToken(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	issuer := newTestService(t, testSecret, fixedTime)
	valid, err := issuer.GenerateToken(context.Background(), "u1")
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	notYet, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		NotBefore: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		svc     *hmacJWTService
		token   string
		wantErr error
	}{
		{"valid token", issuer, valid, nil},
		{"within clock skew", newTestService(t, testSecret, fixedTime.Add(61*time.Minute)), valid, nil},
		{"expired token", newTestService(t, testSecret, fixedTime.Add(2*time.Hour)), valid, ErrExpiredToken},
		{"invalid signature", newTestService(t, wrongSecret, fixedTime), valid, ErrInvalidToken},
		{"malformed token", issuer, "this.is.not.a.valid.jwt.token", ErrInvalidToken},
		{"empty token", issuer, "", ErrMissingToken},
		{"missing subject", issuer, noSubject, ErrMissingSubject},
		{"not yet valid", issuer, notYet, ErrTokenNotYetValid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			claims, err := tc.svc.ValidateToken(context.Background(), tc.token)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", claims.UserID)
		})
	}
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSecret, fixedTime)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "u1"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
