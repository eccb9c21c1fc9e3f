package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-platform/internal/domain"
)

func newTestTokenService() *TokenService {
	return NewTokenService("access-secret", "refresh-secret", "recovery-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestTokenService_AccessRoundTrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.GenerateAccessToken("u1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestTokenService_SecretsAreKindSpecific(t *testing.T) {
	svc := newTestTokenService()

	refresh, err := svc.GenerateRefreshToken("u1")
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.VerifyRefreshToken(refresh)
	assert.NoError(t, err)
}

func TestTokenService_ExpiredAccessToken(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", "recovery-secret", -time.Minute, 7*24*time.Hour)

	token, err := svc.GenerateAccessToken("u1")
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenService_GarbageToken(t *testing.T) {
	svc := newTestTokenService()

	_, err := svc.VerifyAccessToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenService_RecoveryRoundTrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.GenerateRecoveryToken("u1")
	require.NoError(t, err)

	userID, err := svc.VerifyRecoveryToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenService_DecodeToleratesExpiry(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", "recovery-secret", -time.Minute, 7*24*time.Hour)

	token, err := svc.GenerateAccessToken("u1")
	require.NoError(t, err)

	claims, err := svc.DecodeAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.ID)
	assert.True(t, claims.ExpiresAt.Before(time.Now()))
}

func TestTokenService_DecodeRejectsWrongSignature(t *testing.T) {
	svc := newTestTokenService()
	other := NewTokenService("other-secret", "refresh-secret", "recovery-secret", 15*time.Minute, time.Hour)

	token, err := other.GenerateAccessToken("u1")
	require.NoError(t, err)

	_, err = svc.DecodeAccessToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
