package board

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ResendVerificationMessage struct {
	UserID     uuid.UUID
	OnResponse func(resp *ResendVerificationResponse)
}

func (e ResendVerificationMessage) Type() string { return "user.resend_verification" }

type ResendVerificationResponse struct {
	AlreadyVerified bool
}

// ResendVerificationHandler issues a fresh code for an unverified account and
// mails it. A verified account gets no new code and the call reports that.
type ResendVerificationHandler struct {
	repo    RepositoryManager
	mailer  Mailer
	baseURL string
}

func NewResendVerificationHandler(repo RepositoryManager, mailer Mailer, baseURL string) *ResendVerificationHandler {
	return &ResendVerificationHandler{
		repo:    repo,
		mailer:  mailer,
		baseURL: baseURL,
	}
}

func (h *ResendVerificationHandler) Execute(ctx context.Context, event ResendVerificationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during verification resend",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ResendVerificationHandler) execute(ctx context.Context, event ResendVerificationMessage) error {
	var user *User
	var verification *EmailVerification

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if user, err = h.repo.Users().GetByID(ctx, event.UserID); err != nil {
			return err
		}

		if user.EmailVerified {
			return nil
		}

		verification, err = h.repo.EmailVerifications().IssueOrRefreshTx(ctx, tx, user.ID, time.Now())
		return err
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "verification resend transaction failed")
	}

	if verification != nil {
		subject, body := VerificationMail(h.baseURL, verification.Code)
		if err := h.mailer.Send(ctx, user.Email, subject, body); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to send verification email")
		}
	}

	if event.OnResponse != nil {
		event.OnResponse(&ResendVerificationResponse{
			AlreadyVerified: verification == nil,
		})
	}

	return nil
}
