package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hashed)
	assert.True(t, CheckPassword("s3cret", hashed))
	assert.False(t, CheckPassword("wrong", hashed))
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("operator", "secret", time.Hour)
	require.NoError(t, err)

	username, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "operator", username)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}
