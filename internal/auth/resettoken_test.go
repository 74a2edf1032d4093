package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetToken(t *testing.T) {
	t.Parallel()

	before := time.Now()
	plain, hash, expiresAt, err := GenerateResetToken(10 * time.Minute)
	require.NoError(t, err)

	assert.Len(t, plain, resetTokenBytes*2)
	assert.NotEqual(t, plain, hash)
	assert.Equal(t, HashResetToken(plain), hash)

	assert.True(t, expiresAt.After(before.Add(9*time.Minute)))
	assert.True(t, expiresAt.Before(before.Add(11*time.Minute)))
}

func TestGenerateResetToken_Unique(t *testing.T) {
	t.Parallel()

	first, _, _, err := GenerateResetToken(time.Minute)
	require.NoError(t, err)
	second, _, _, err := GenerateResetToken(time.Minute)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashResetToken_Deterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, HashResetToken("abc"), HashResetToken("abc"))
	assert.NotEqual(t, HashResetToken("abc"), HashResetToken("abd"))
}
