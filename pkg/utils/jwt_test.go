package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	m := NewJWTManager("test-secret", "sitecraft-api")

	token, err := m.GenerateToken(42, "user@example.com", "access", time.Minute)
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "sitecraft-api", claims.Issuer)
}

func TestGenerateTokenPair(t *testing.T) {
	m := NewJWTManager("test-secret", "sitecraft-api")

	pair, err := m.GenerateTokenPair(7, "user@example.com", time.Minute, time.Hour)
	require.NoError(t, err)

	access, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access", access.Type)

	refresh, err := m.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refresh.Type)
	assert.Equal(t, int64(7), refresh.UserID)
}

func TestParseExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", "sitecraft-api")

	token, err := m.GenerateToken(1, "user@example.com", "access", -time.Minute)
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseTokenWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", "sitecraft-api")
	other := NewJWTManager("other-secret", "sitecraft-api")

	token, err := m.GenerateToken(1, "user@example.com", "access", time.Minute)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbageToken(t *testing.T) {
	m := NewJWTManager("test-secret", "sitecraft-api")

	_, err := m.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
