package board

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DefaultSessionTTL is the opaque session lifetime when none is configured.
const DefaultSessionTTL = 30 * 24 * time.Hour

// SessionOption configures a SessionManager instance.
type SessionOption func(*SessionManager)

// WithSessionStore injects a custom SessionStore implementation.
func WithSessionStore(store SessionStore) SessionOption {
	return func(m *SessionManager) {
		if store != nil {
			m.store = store
		}
	}
}

// WithSessionTTL overrides the session lifetime.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(m *SessionManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithTokenLength sets the random byte length of newly minted tokens.
func WithTokenLength(length int) SessionOption {
	return func(m *SessionManager) {
		if length > 0 {
			m.tokenLength = length
		}
	}
}

// WithSessionLogger overrides the manager logger.
func WithSessionLogger(logger Logger) SessionOption {
	return func(m *SessionManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// SessionManager drives the two-state session machine: Anonymous becomes
// Authenticated through Login, and Authenticated falls back to Anonymous on
// Logout or store-side expiry. Tokens are opaque; every request rehydrates
// the full identity from the user store.
type SessionManager struct {
	store        SessionStore
	users        UserStore
	validator    CredentialValidator
	ttl          time.Duration
	tokenLength  int
	tokenFactory func(int) (string, error)
	logger       Logger
}

// NewSessionManager constructs a SessionManager over the given user store and
// credential validator. It defaults to a 30-day TTL and an in-memory store.
func NewSessionManager(users UserStore, validator CredentialValidator, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		users:        users,
		validator:    validator,
		ttl:          DefaultSessionTTL,
		tokenLength:  32,
		tokenFactory: generateToken,
		logger:       defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if m.store == nil {
		m.store = NewMemorySessionStore()
	}

	return m
}

// TTL returns the configured session lifetime, for cookie expiry alignment.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Login validates credentials and, on success, opens a session and returns
// its opaque token with the sanitized user. Unknown email and wrong password
// both come back as ErrInvalidCredentials.
func (m *SessionManager) Login(ctx context.Context, email, password string) (string, *UserResponse, error) {
	user, err := m.validator.ValidateUser(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := m.tokenFactory(m.tokenLength)
	if err != nil {
		return "", nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint session token")
	}

	if err := m.store.Set(ctx, token, user.ID.String(), m.ttl); err != nil {
		return "", nil, err
	}

	return token, SanitizeUser(user), nil
}

// Resolve maps an opaque token to the full user record. A token whose user no
// longer resolves marks a corrupt session: the session is destroyed and the
// request is treated as anonymous. Only infrastructure failures return errors.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}

	userID, ok, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, nil
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		m.logger.Error("corrupt session payload %s, destroying", userID)
		_ = m.store.Destroy(ctx, token)
		return nil, nil
	}

	user, err := m.users.GetByID(ctx, id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			m.logger.Error("session user %s no longer exists, destroying", userID)
			_ = m.store.Destroy(ctx, token)
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to rehydrate session user")
	}

	return user, nil
}

// Destroy revokes the token in the backing store. Logout is explicit, it is
// never inferred; the HTTP layer additionally expires the cookie so no replay
// is possible.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Destroy(ctx, token)
}

func generateToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
