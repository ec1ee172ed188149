package board

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// UserProvider validates credentials against the user store.
type UserProvider struct {
	users  UserStore
	logger Logger
}

// UserProviderOption configures a UserProvider.
type UserProviderOption func(*UserProvider)

// WithUserProviderLogger overrides the provider logger.
func WithUserProviderLogger(logger Logger) UserProviderOption {
	return func(p *UserProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewUserProvider creates a credential validator over the given user store.
func NewUserProvider(users UserStore, opts ...UserProviderOption) *UserProvider {
	p := &UserProvider{
		users:  users,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// ValidateUser checks the email/password pair. Unknown email and wrong
// password both return (nil, nil) so the caller cannot tell them apart.
// Only infrastructure failures return a non-nil error.
func (p *UserProvider) ValidateUser(ctx context.Context, email, password string) (*User, error) {
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			p.logger.Debug("login attempt for unknown email")
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user by email")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		p.logger.Debug("login attempt with wrong password for %s", user.ID)
		return nil, nil
	}

	return user, nil
}
