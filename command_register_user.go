package board

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	Email      string `json:"email"`
	Nickname   string `json:"nickname"`
	Password   string `json:"password"`
	UseHashid  bool
	OnResponse func(resp *RegisterUserResponse)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserResponse struct {
	User             *User
	VerificationCode string
}

// RegisterUserHandler creates an account, issues its first verification code,
// and mails it. The account starts unverified.
type RegisterUserHandler struct {
	repo    RepositoryManager
	mailer  Mailer
	baseURL string
}

func NewRegisterUserHandler(repo RepositoryManager, mailer Mailer, baseURL string) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:    repo,
		mailer:  mailer,
		baseURL: baseURL,
	}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	user := &User{}
	verification := &EmailVerification{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := h.repo.Users().CheckOverlapTx(ctx, tx, event.Email, event.Nickname, uuid.Nil); err != nil {
			return err
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.Email = event.Email
		user.Nickname = event.Nickname
		user.PasswordHash = hash
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		if verification, err = h.repo.EmailVerifications().IssueOrRefreshTx(ctx, tx, user.ID, time.Now()); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	subject, body := VerificationMail(h.baseURL, verification.Code)
	if err := h.mailer.Send(ctx, user.Email, subject, body); err != nil {
		// The account exists either way, the user can ask for a resend.
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to send verification email")
	}

	if event.OnResponse != nil {
		event.OnResponse(&RegisterUserResponse{
			User:             user,
			VerificationCode: verification.Code,
		})
	}

	return nil
}
