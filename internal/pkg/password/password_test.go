package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := Hash("correct-horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct-horse", hash)

	assert.True(t, Verify("correct-horse", hash))
	assert.False(t, Verify("wrong-horse", hash))
}

func TestHash_Salted(t *testing.T) {
	t.Parallel()

	h1, err := Hash("same-password")
	require.NoError(t, err)
	h2, err := Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.False(t, ValidatePassword("short"))
	assert.False(t, ValidatePassword("1234567"))
	assert.True(t, ValidatePassword("12345678"))
}
