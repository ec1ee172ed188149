package board_test

import (
	"context"
	"testing"

	board "github.com/goliatone/go-board"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testCookieName = "board_session"

func newSessionWithUser(t *testing.T, store *MockUserStore, user *board.User) (*board.SessionManager, string) {
	t.Helper()

	manager := board.NewSessionManager(store, board.NewUserProvider(store))

	ctx := context.Background()
	store.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()

	token, _, err := manager.Login(ctx, user.Email, "password123")
	assert.NoError(t, err)

	return manager, token
}

func TestRequireAuthenticated(t *testing.T) {
	t.Run("no cookie is rejected with login required", func(t *testing.T) {
		store := new(MockUserStore)
		manager := board.NewSessionManager(store, board.NewUserProvider(store))

		var captured error
		var guards *board.Guards = board.NewGuards(manager, testCookieName,
			board.WithGuardErrorHandler(func(ctx router.Context, err error) error {
				captured = err
				return nil
			}))

		mockCtx := new(MockContext)
		mockCtx.On("Cookies", testCookieName, "").Return("")

		handlerCalled := false
		handler := guards.RequireAuthenticated()(func(ctx router.Context) error {
			handlerCalled = true
			return nil
		})

		assert.NoError(t, handler(mockCtx))
		assert.False(t, handlerCalled)
		assert.Equal(t, board.ErrLoginRequired, captured)
	})

	t.Run("stale token is rejected", func(t *testing.T) {
		store := new(MockUserStore)
		manager := board.NewSessionManager(store, board.NewUserProvider(store))

		var captured error
		guards := board.NewGuards(manager, testCookieName,
			board.WithGuardErrorHandler(func(ctx router.Context, err error) error {
				captured = err
				return nil
			}))

		mockCtx := new(MockContext)
		mockCtx.On("Cookies", testCookieName, "").Return("stale-token")
		mockCtx.On("Context").Return(context.Background())

		handler := guards.RequireAuthenticated()(func(ctx router.Context) error {
			t.Fatal("handler must not run")
			return nil
		})

		assert.NoError(t, handler(mockCtx))
		assert.Equal(t, board.ErrLoginRequired, captured)
	})

	t.Run("live session admits and attaches the user", func(t *testing.T) {
		store := new(MockUserStore)

		userID := uuid.New()
		hash, _ := board.HashPassword("password123")
		user := &board.User{ID: userID, Email: "test@example.com", PasswordHash: hash}

		manager, token := newSessionWithUser(t, store, user)
		store.On("GetByID", mock.Anything, userID).Return(user, nil).Once()

		guards := board.NewGuards(manager, testCookieName)

		mockCtx := new(MockContext)
		mockCtx.On("Cookies", testCookieName, "").Return(token)
		mockCtx.On("Context").Return(context.Background())
		mockCtx.On("Locals", mock.Anything, mock.Anything).Return(nil)
		mockCtx.On("SetContext", mock.Anything).Return()

		handlerCalled := false
		handler := guards.RequireAuthenticated()(func(ctx router.Context) error {
			handlerCalled = true
			return nil
		})

		assert.NoError(t, handler(mockCtx))
		assert.True(t, handlerCalled)

		mockCtx.AssertCalled(t, "Locals", mock.Anything, mock.MatchedBy(func(v any) bool {
			u, ok := v.(*board.User)
			return ok && u.ID == userID
		}))

		store.AssertExpectations(t)
	})
}

func TestRequireAnonymous(t *testing.T) {
	t.Run("no session passes", func(t *testing.T) {
		store := new(MockUserStore)
		manager := board.NewSessionManager(store, board.NewUserProvider(store))

		guards := board.NewGuards(manager, testCookieName)

		mockCtx := new(MockContext)
		mockCtx.On("Cookies", testCookieName, "").Return("")

		handlerCalled := false
		handler := guards.RequireAnonymous()(func(ctx router.Context) error {
			handlerCalled = true
			return nil
		})

		assert.NoError(t, handler(mockCtx))
		assert.True(t, handlerCalled)
	})

	t.Run("live session is rejected", func(t *testing.T) {
		store := new(MockUserStore)

		userID := uuid.New()
		hash, _ := board.HashPassword("password123")
		user := &board.User{ID: userID, Email: "test@example.com", PasswordHash: hash}

		manager, token := newSessionWithUser(t, store, user)
		store.On("GetByID", mock.Anything, userID).Return(user, nil).Once()

		var captured error
		guards := board.NewGuards(manager, testCookieName,
			board.WithGuardErrorHandler(func(ctx router.Context, err error) error {
				captured = err
				return nil
			}))

		mockCtx := new(MockContext)
		mockCtx.On("Cookies", testCookieName, "").Return(token)
		mockCtx.On("Context").Return(context.Background())

		handler := guards.RequireAnonymous()(func(ctx router.Context) error {
			t.Fatal("handler must not run")
			return nil
		})

		assert.NoError(t, handler(mockCtx))
		assert.Equal(t, board.ErrAlreadyAuthenticated, captured)
		assert.True(t, board.IsForbidden(captured))

		store.AssertExpectations(t)
	})
}
