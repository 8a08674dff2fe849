package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckToken(t *testing.T) {
	hash, err := HashToken("correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckToken("correct-horse-battery", hash))
	assert.False(t, CheckToken("wrong-token-entirely", hash))
}

func TestHashTokenRejectsShortTokens(t *testing.T) {
	_, err := HashToken("short")
	assert.Error(t, err)
}

func TestCheckTokenWithGarbageHash(t *testing.T) {
	assert.False(t, CheckToken("anything-at-all", "not-a-bcrypt-hash"))
}
