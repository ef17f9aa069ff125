package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.NoError(t, ComparePassword(hash, "s3cret!"))
	assert.ErrorIs(t, ComparePassword(hash, "wrong"), ErrPasswordMismatch)
}

func TestComparePasswordWithoutHash(t *testing.T) {
	assert.ErrorIs(t, ComparePassword("", "anything"), ErrPasswordMismatch)
}

func TestHashPasswordOutOfRangeCostFallsBack(t *testing.T) {
	hash, err := HashPassword("s3cret!", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
