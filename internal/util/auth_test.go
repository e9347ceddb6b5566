package util

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "secret")
	require.NoError(t, err)

	userID, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT(42, "secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/habits", nil)
	assert.Empty(t, ExtractToken(req))

	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", ExtractToken(req))

	req.Header.Set("Authorization", "abc123")
	assert.Empty(t, ExtractToken(req))
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword("hunter2", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
