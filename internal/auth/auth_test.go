package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("not a bcrypt hash", "anything"))
}

func TestTokenRoundTrip(t *testing.T) {
	Init("test-secret")

	userID := uuid.New()
	token, err := CreateToken(userID)
	require.NoError(t, err)

	got, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	Init("secret-one")
	token, err := CreateToken(uuid.New())
	require.NoError(t, err)

	Init("secret-two")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	Init("test-secret")
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}
