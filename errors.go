package board

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeLoginRequired marks requests that need an authenticated session.
	TextCodeLoginRequired = "LOGIN_REQUIRED"
	// TextCodeAlreadyAuthenticated marks anonymous-only routes hit with a live session.
	TextCodeAlreadyAuthenticated = "ALREADY_AUTHENTICATED"
	// TextCodeInvalidCredentials is returned for unknown email or wrong password alike.
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	// TextCodeNotResourceOwner marks ownership failures on posts and comments.
	TextCodeNotResourceOwner = "NOT_RESOURCE_OWNER"
	// TextCodeEmailTaken marks registration with an email already in use.
	TextCodeEmailTaken = "EMAIL_TAKEN"
	// TextCodeNicknameTaken marks registration with a nickname already in use.
	TextCodeNicknameTaken = "NICKNAME_TAKEN"
	// TextCodeInvalidPageParams marks malformed pagination query parameters.
	TextCodeInvalidPageParams = "INVALID_PAGE_PARAMS"
	// TextCodeInvalidVerification marks unknown verification codes.
	TextCodeInvalidVerification = "INVALID_VERIFICATION_CODE"
	// TextCodeExpiredVerification marks codes past their expiry. A fresh code
	// has already been issued and mailed when the caller sees this.
	TextCodeExpiredVerification = "EXPIRED_VERIFICATION_CODE"
	// TextCodeEmptyPassword marks hash attempts on an empty password.
	TextCodeEmptyPassword = "EMPTY_PASSWORD"
)

// ErrLoginRequired is returned by the authenticated guard for missing or invalid sessions.
var ErrLoginRequired = goerrors.New("login required", goerrors.CategoryAuth).
	WithTextCode(TextCodeLoginRequired).
	WithCode(goerrors.CodeUnauthorized)

// ErrAlreadyAuthenticated is returned by the anonymous guard when a valid session exists.
var ErrAlreadyAuthenticated = goerrors.New("already authenticated", goerrors.CategoryAuthz).
	WithTextCode(TextCodeAlreadyAuthenticated).
	WithCode(goerrors.CodeForbidden)

// ErrInvalidCredentials covers both unknown email and wrong password; the two
// cases are indistinguishable to the caller by design.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrNotResourceOwner is returned when the acting identity is not the recorded author.
var ErrNotResourceOwner = goerrors.New("not the author of this resource", goerrors.CategoryAuthz).
	WithTextCode(TextCodeNotResourceOwner).
	WithCode(goerrors.CodeForbidden)

// ErrEmailTaken is the uniqueness conflict on email, surfaced as BadRequest by convention.
var ErrEmailTaken = goerrors.New("email already in use", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmailTaken).
	WithCode(goerrors.CodeBadRequest)

// ErrNicknameTaken is the uniqueness conflict on nickname, surfaced as BadRequest by convention.
var ErrNicknameTaken = goerrors.New("nickname already in use", goerrors.CategoryValidation).
	WithTextCode(TextCodeNicknameTaken).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidPageParams rejects negative page or item-size values before any query runs.
var ErrInvalidPageParams = goerrors.New("query parameters must be zero or positive", goerrors.CategoryBadInput).
	WithTextCode(TextCodeInvalidPageParams).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidVerification is returned when no verification record matches the code.
var ErrInvalidVerification = goerrors.New("verification code not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeInvalidVerification).
	WithCode(goerrors.CodeNotFound)

// ErrExpiredVerification is returned for expired codes, distinct from the
// invalid-code case so callers know a replacement mail is on its way.
var ErrExpiredVerification = goerrors.New("verification code expired, a new code was issued", goerrors.CategoryBadInput).
	WithTextCode(TextCodeExpiredVerification).
	WithCode(goerrors.CodeBadRequest)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// NewNotFound builds the NotFound error for a named resource kind.
func NewNotFound(kind string) *goerrors.Error {
	return goerrors.New(kind+" not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound)
}

// IsForbidden reports whether err carries the authorization (403) category.
func IsForbidden(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryAuthz
}

// HTTPStatus maps an error to the boundary status code. Unknown errors count
// as infrastructure failures and map to 500, never to a 4xx.
func HTTPStatus(err error) int {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return 500
	}

	if richErr.Code != 0 {
		return richErr.Code
	}

	switch richErr.Category {
	case goerrors.CategoryAuth:
		return 401
	case goerrors.CategoryAuthz:
		return 403
	case goerrors.CategoryNotFound:
		return 404
	case goerrors.CategoryValidation, goerrors.CategoryBadInput, goerrors.CategoryConflict:
		return 400
	default:
		return 500
	}
}
