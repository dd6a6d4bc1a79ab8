package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(42, secret, time.Hour)
	require.NoError(t, err)

	userID, err := UserIDFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(42, []byte("right"), time.Hour)
	require.NoError(t, err)

	_, err = UserIDFromToken(token, []byte("wrong"))
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	token, err := GenerateToken(42, []byte("secret"), -time.Minute)
	require.NoError(t, err)

	_, err = UserIDFromToken(token, []byte("secret"))
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	_, err := UserIDFromToken("not-a-token", []byte("secret"))
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("hunter22", hash))
	assert.False(t, VerifyPassword("hunter23", hash))
}
