package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(10)

	digest, err := hasher.Hash("supersecret")
	require.NoError(t, err)
	require.NotEqual(t, "supersecret", digest)

	require.True(t, hasher.Verify(digest, "supersecret"))
	require.False(t, hasher.Verify(digest, "supersecret2"))
	require.False(t, hasher.Verify(digest, ""))
}

func TestPasswordHasher_DistinctDigests(t *testing.T) {
	hasher := NewPasswordHasher(10)

	first, err := hasher.Hash("supersecret")
	require.NoError(t, err)
	second, err := hasher.Hash("supersecret")
	require.NoError(t, err)

	// bcrypt salts, so equal inputs never produce equal digests
	require.NotEqual(t, first, second)
	require.True(t, hasher.Verify(first, "supersecret"))
	require.True(t, hasher.Verify(second, "supersecret"))
}

func TestPasswordHasher_InvalidCostFallsBack(t *testing.T) {
	hasher := NewPasswordHasher(99)

	digest, err := hasher.Hash("supersecret")
	require.NoError(t, err)
	require.True(t, hasher.Verify(digest, "supersecret"))
}
