package board

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type VerifyEmailMessage struct {
	Code       string `json:"verification_code"`
	OnResponse func(resp *VerifyEmailResponse)
}

func (e VerifyEmailMessage) Type() string { return "user.verify_email" }

type VerifyEmailResponse struct {
	User *User
}

// VerifyEmailHandler confirms a verification code. An unknown code fails with
// not found. An expired code triggers a reissue plus a fresh email, and still
// fails so the caller knows to check their inbox again. A live code flips the
// account flag and retires the record. Confirming an already verified account
// succeeds without touching the flag.
type VerifyEmailHandler struct {
	repo    RepositoryManager
	mailer  Mailer
	baseURL string
	now     func() time.Time
}

func NewVerifyEmailHandler(repo RepositoryManager, mailer Mailer, baseURL string) *VerifyEmailHandler {
	return &VerifyEmailHandler{
		repo:    repo,
		mailer:  mailer,
		baseURL: baseURL,
		now:     time.Now,
	}
}

func (h *VerifyEmailHandler) Execute(ctx context.Context, event VerifyEmailMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during email verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyEmailHandler) execute(ctx context.Context, event VerifyEmailMessage) error {
	var user *User
	var reissued *EmailVerification

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		verification, err := h.repo.EmailVerifications().GetByCode(ctx, event.Code)
		if err != nil {
			return err
		}

		user = verification.User
		if user == nil {
			if user, err = h.repo.Users().GetByID(ctx, verification.UserID); err != nil {
				return err
			}
		}

		if user.EmailVerified {
			// Already confirmed through another request. Retire the stale
			// record and report success.
			return h.repo.EmailVerifications().DeleteByCodeTx(ctx, tx, verification.Code)
		}

		if verification.Expired(h.now()) {
			// The reissue must commit, the failure is reported after the
			// transaction closes.
			reissued, err = h.repo.EmailVerifications().IssueOrRefreshTx(ctx, tx, user.ID, h.now())
			return err
		}

		if err := h.repo.Users().SetEmailVerifiedTx(ctx, tx, user.ID); err != nil {
			return err
		}
		user.EmailVerified = true

		return h.repo.EmailVerifications().DeleteByCodeTx(ctx, tx, verification.Code)
	})

	if err == nil && reissued != nil {
		subject, body := VerificationMail(h.baseURL, reissued.Code)
		if mailErr := h.mailer.Send(ctx, user.Email, subject, body); mailErr != nil {
			return goerrors.Wrap(mailErr, goerrors.CategoryOperation, "failed to send replacement verification email")
		}
		return ErrExpiredVerification
	}

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "email verification transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(&VerifyEmailResponse{User: user})
	}

	return nil
}
