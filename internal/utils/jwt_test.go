package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	at, err := NewAccessToken(secret, 42, 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

	tok, err := jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	at, err := NewAccessToken("right", 1, 15)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	})
	assert.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
	rt, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.Len(t, rt.Raw, 96)
	assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), rt.Exp, 5*time.Second)

	other, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.NotEqual(t, rt.Raw, other.Raw)
}

func TestHashRefreshRaw(t *testing.T) {
	h := HashRefreshRaw("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRefreshRaw("abc"))
	assert.NotEqual(t, h, HashRefreshRaw("abd"))
}

func TestNewInviteToken(t *testing.T) {
	tok, err := NewInviteToken()
	require.NoError(t, err)
	assert.Len(t, tok, 64)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
}
