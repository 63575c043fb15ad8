package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrips(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "alice@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestRefreshToken_CarriesOwnTokenID(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateRefreshToken(userID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.NotEqual(t, uuid.Nil, claims.TokenID)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Hour)
	token, err := svc.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestValidateAccessToken_RejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, time.Hour)
	token, err := svc.GenerateAccessToken(uuid.New(), "bob@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidateAccessToken_RejectsWrongSecret(t *testing.T) {
	svc := NewJWTService("secret-a", time.Minute, time.Hour)
	token, err := svc.GenerateAccessToken(uuid.New(), "carl@example.com")
	require.NoError(t, err)

	other := NewJWTService("secret-b", time.Minute, time.Hour)
	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
