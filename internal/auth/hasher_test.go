package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hartetoti/backend/internal/auth"
)

func TestBcryptHasherHash(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	t.Run("produces bcrypt digest", func(t *testing.T) {
		digest, err := hasher.Hash("abcdef")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(digest, "$2a$"))
		assert.NotContains(t, digest, "abcdef")
	})

	t.Run("same password produces different digests", func(t *testing.T) {
		d1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		d2, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, d1, d2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})

	t.Run("rejects password over bcrypt limit", func(t *testing.T) {
		_, err := hasher.Hash(strings.Repeat("a", auth.MaxPasswordBytes+1))
		assert.Error(t, err)
	})
}

func TestBcryptHasherVerify(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	digest, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	t.Run("correct password verifies", func(t *testing.T) {
		assert.True(t, hasher.Verify("correct-horse", digest))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		assert.False(t, hasher.Verify("wrong-horse", digest))
	})

	t.Run("empty inputs fail", func(t *testing.T) {
		assert.False(t, hasher.Verify("", digest))
		assert.False(t, hasher.Verify("correct-horse", ""))
	})

	t.Run("malformed digest fails", func(t *testing.T) {
		assert.False(t, hasher.Verify("correct-horse", "not-a-digest"))
	})
}

func TestNewBcryptHasherCostFallback(t *testing.T) {
	hasher := auth.NewBcryptHasher(0)
	digest, err := hasher.Hash("abcdef")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, auth.DefaultBcryptCost, cost)
}
