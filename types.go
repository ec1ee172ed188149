package board

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Mailer is the notification boundary. No delivery guarantee is assumed.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Authored is implemented by resources that record an author relation.
// AuthorRef must return the loaded relation, not a bare id.
type Authored interface {
	AuthorRef() *User
}

// CredentialValidator checks an email/password pair against stored credentials.
type CredentialValidator interface {
	ValidateUser(ctx context.Context, email, password string) (*User, error)
}

// SessionResolver rehydrates the acting identity from an opaque session token.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*User, error)
	Destroy(ctx context.Context, token string) error
}

// UserStore is the lookup surface the credential validator needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] BOARD "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] BOARD "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] BOARD "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
