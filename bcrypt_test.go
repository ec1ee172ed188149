package board_test

import (
	"testing"

	board "github.com/goliatone/go-board"
	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes a password", func(t *testing.T) {
		hash, err := board.HashPassword("password123")
		assert.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "password123", hash)
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		_, err := board.HashPassword("")
		assert.Error(t, err)
		assert.Equal(t, board.ErrNoEmptyString, err)
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		first, err := board.HashPassword("password123")
		assert.NoError(t, err)
		second, err := board.HashPassword("password123")
		assert.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := board.HashPassword("correct_password")
	assert.NoError(t, err)

	t.Run("matching password", func(t *testing.T) {
		assert.NoError(t, board.ComparePasswordAndHash("correct_password", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := board.ComparePasswordAndHash("wrong_password", hash)
		assert.Error(t, err)
		assert.Equal(t, board.ErrInvalidCredentials, err)
	})
}
