package board

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// Response is the uniform envelope every route returns, success or failure.
type Response struct {
	Success    bool `json:"success"`
	StatusCode int  `json:"statusCode"`
	Data       any  `json:"data"`
}

// FailureData carries the error messages on failure envelopes.
type FailureData struct {
	Messages []string `json:"messages"`
}

func respond(ctx router.Context, status int, data any) error {
	return ctx.JSON(status, Response{
		Success:    true,
		StatusCode: status,
		Data:       data,
	})
}

func respondFailure(ctx router.Context, status int, messages []string) error {
	return ctx.JSON(status, Response{
		Success:    false,
		StatusCode: status,
		Data:       FailureData{Messages: messages},
	})
}

// NewErrorHandler builds the boundary error renderer. Validation errors fan
// out per field, rich errors map through their status code, and anything
// unrecognized is reported as a 500 without leaking internals.
func NewErrorHandler(logger Logger) func(router.Context, error) error {
	if logger == nil {
		logger = defLogger{}
	}

	return func(ctx router.Context, err error) error {
		var vErrs validation.Errors
		if errors.As(err, &vErrs) {
			messages := formatValidationErrors(vErrs)
			logFailure(logger, ctx, 400, strings.Join(messages, "; "))
			return respondFailure(ctx, 400, messages)
		}

		var richErr *goerrors.Error
		if !goerrors.As(err, &richErr) {
			richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "an unexpected server error occurred")
		}

		status := HTTPStatus(richErr)

		message := richErr.Message
		if status >= 500 {
			// Internal details stay in the logs.
			logger.Error("request failed: %s %s", richErr.Message, print.MaybePrettyJSON(richErr.Metadata))
			message = "internal server error"
		}

		logFailure(logger, ctx, status, message)

		return respondFailure(ctx, status, []string{message})
	}
}

func respondError(ctx router.Context, err error) error {
	return NewErrorHandler(defLogger{})(ctx, err)
}

func formatValidationErrors(errs validation.Errors) []string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(errs))
	for _, field := range fields {
		messages = append(messages, field+": "+errs[field].Error())
	}
	return messages
}

func logFailure(logger Logger, ctx router.Context, status int, message string) {
	line := ctx.OriginalURL() + " | " + clientAddr(ctx) + " | " + strconv.Itoa(status) + " | " + message
	if status >= 500 {
		logger.Error("%s", line)
		return
	}
	logger.Info("%s", line)
}

func clientAddr(ctx router.Context) string {
	if forwarded := ctx.Header("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}

	if real := ctx.Header("X-Real-IP"); real != "" {
		return real
	}

	return "unknown"
}

// queryInt parses an integer query parameter. Absent means zero, which the
// pagination resolver reads as "return everything". Anything non-numeric is
// rejected before a query runs.
func queryInt(ctx router.Context, key string) (int, error) {
	raw := ctx.Query(key, "")
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, goerrors.New("query parameter "+key+" must be an integer", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	return value, nil
}

func setSessionCookie(ctx router.Context, name, token string, ttl time.Duration) {
	ctx.Cookie(&router.Cookie{
		Name:     name,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func clearSessionCookie(ctx router.Context, name string) {
	ctx.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
