package board_test

import (
	"context"
	"errors"
	"testing"

	board "github.com/goliatone/go-board"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserProviderValidateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return the user", func(t *testing.T) {
		store := new(MockUserStore)
		provider := board.NewUserProvider(store)

		userID := uuid.New()
		hash, _ := board.HashPassword("password123")
		user := &board.User{
			ID:           userID,
			Email:        "test@example.com",
			Nickname:     "tester",
			PasswordHash: hash,
		}

		store.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()

		got, err := provider.ValidateUser(ctx, "test@example.com", "password123")
		assert.NoError(t, err)
		assert.NotNil(t, got)
		assert.Equal(t, userID, got.ID)

		store.AssertExpectations(t)
	})

	t.Run("unknown email returns nil nil", func(t *testing.T) {
		store := new(MockUserStore)
		provider := board.NewUserProvider(store)

		store.On("GetByEmail", ctx, "nobody@example.com").
			Return(nil, board.NewNotFound("user")).Once()

		got, err := provider.ValidateUser(ctx, "nobody@example.com", "password123")
		assert.NoError(t, err)
		assert.Nil(t, got)

		store.AssertExpectations(t)
	})

	t.Run("wrong password returns nil nil", func(t *testing.T) {
		store := new(MockUserStore)
		provider := board.NewUserProvider(store)

		hash, _ := board.HashPassword("correct_password")
		user := &board.User{
			ID:           uuid.New(),
			Email:        "test@example.com",
			PasswordHash: hash,
		}

		store.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()

		got, err := provider.ValidateUser(ctx, "test@example.com", "wrong_password")
		assert.NoError(t, err)
		assert.Nil(t, got)

		store.AssertExpectations(t)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		store := new(MockUserStore)
		provider := board.NewUserProvider(store)

		hash, _ := board.HashPassword("correct_password")
		known := &board.User{ID: uuid.New(), Email: "known@example.com", PasswordHash: hash}

		store.On("GetByEmail", ctx, "known@example.com").Return(known, nil).Once()
		store.On("GetByEmail", ctx, "unknown@example.com").
			Return(nil, board.NewNotFound("user")).Once()

		knownUser, knownErr := provider.ValidateUser(ctx, "known@example.com", "wrong_password")
		unknownUser, unknownErr := provider.ValidateUser(ctx, "unknown@example.com", "wrong_password")

		assert.Equal(t, knownUser, unknownUser)
		assert.Equal(t, knownErr, unknownErr)

		store.AssertExpectations(t)
	})

	t.Run("infrastructure failure surfaces as error", func(t *testing.T) {
		store := new(MockUserStore)
		provider := board.NewUserProvider(store)

		store.On("GetByEmail", ctx, "test@example.com").
			Return(nil, errors.New("connection refused")).Once()

		got, err := provider.ValidateUser(ctx, "test@example.com", "password123")
		assert.Error(t, err)
		assert.Nil(t, got)

		store.AssertExpectations(t)
	})
}
