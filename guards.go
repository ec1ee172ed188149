package board

import (
	"github.com/goliatone/go-router"
)

// AuthState is the request's session state, derived once per request from a
// single store lookup.
type AuthState int

const (
	// Anonymous means no session cookie, an unknown token, or an expired one.
	Anonymous AuthState = iota
	// Authenticated means the cookie resolved to a live user record.
	Authenticated
)

func (s AuthState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// GuardOption configures guard middleware construction.
type GuardOption func(*Guards)

// WithGuardErrorHandler overrides how guard rejections are rendered.
func WithGuardErrorHandler(handler func(router.Context, error) error) GuardOption {
	return func(g *Guards) {
		if handler != nil {
			g.onError = handler
		}
	}
}

// Guards builds the session-state route middleware.
type Guards struct {
	resolver   SessionResolver
	cookieName string
	onError    func(router.Context, error) error
}

// NewGuards builds the route guard pair over the given session resolver.
// Both guards classify the request with one lookup and never double-resolve.
func NewGuards(resolver SessionResolver, cookieName string, opts ...GuardOption) *Guards {
	g := &Guards{
		resolver:   resolver,
		cookieName: cookieName,
		onError:    respondError,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// resolve classifies the request and returns the user when authenticated.
// Store or database failures surface as errors, they are never downgraded to
// an anonymous classification.
func (g *Guards) resolve(ctx router.Context) (AuthState, *User, error) {
	token := ctx.Cookies(g.cookieName, "")
	if token == "" {
		return Anonymous, nil, nil
	}

	user, err := g.resolver.Resolve(ctx.Context(), token)
	if err != nil {
		return Anonymous, nil, err
	}

	if user == nil {
		return Anonymous, nil, nil
	}

	return Authenticated, user, nil
}

// RequireAuthenticated admits only requests with a live session. The resolved
// user is attached to the request before the handler runs.
func (g *Guards) RequireAuthenticated() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			state, user, err := g.resolve(ctx)
			if err != nil {
				return g.onError(ctx, err)
			}

			if state != Authenticated {
				return g.onError(ctx, ErrLoginRequired)
			}

			ctx.Locals(localsUserKey, user)
			ctx.SetContext(WithContext(ctx.Context(), user))

			return next(ctx)
		}
	}
}

// RequireAnonymous admits only requests without a live session, for login and
// registration routes.
func (g *Guards) RequireAnonymous() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			state, _, err := g.resolve(ctx)
			if err != nil {
				return g.onError(ctx, err)
			}

			if state != Anonymous {
				return g.onError(ctx, ErrAlreadyAuthenticated)
			}

			return next(ctx)
		}
	}
}

// Optional resolves the session when present without rejecting anyone. Routes
// open to both states use it to personalize responses.
func (g *Guards) Optional() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			state, user, err := g.resolve(ctx)
			if err != nil {
				return g.onError(ctx, err)
			}

			if state == Authenticated {
				ctx.Locals(localsUserKey, user)
				ctx.SetContext(WithContext(ctx.Context(), user))
			}

			return next(ctx)
		}
	}
}
