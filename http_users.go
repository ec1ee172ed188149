package board

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func paramUUID(ctx router.Context, key string) (uuid.UUID, error) {
	raw := ctx.Param(key, "")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, goerrors.New("path parameter "+key+" must be a valid id", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}
	return id, nil
}

// JoinRequest is the registration payload.
type JoinRequest struct {
	Email    string `form:"email" json:"email"`
	Nickname string `form:"nickname" json:"nickname"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r JoinRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Nickname, validation.Required, validation.Length(1, 15)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *BoardController) Register(ctx router.Context) error {
	payload := new(JoinRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	var res *RegisterUserResponse

	req := RegisterUserMessage{
		Email:    payload.Email,
		Nickname: payload.Nickname,
		Password: payload.Password,
		OnResponse: func(resp *RegisterUserResponse) {
			res = resp
		},
	}

	registerUser := NewRegisterUserHandler(a.Repo, a.Mailer, a.BaseURL)
	if err := registerUser.Execute(ctx.Context(), req); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 201, SanitizeUser(res.User))
}

func (a *BoardController) Profile(ctx router.Context) error {
	user, ok := UserFromRouterContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrLoginRequired)
	}

	return respond(ctx, 200, SanitizeUser(user))
}

// UserUpdateRequest carries optional profile changes. Email never changes.
type UserUpdateRequest struct {
	Nickname string `form:"nickname" json:"nickname"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r UserUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nickname, validation.Length(1, 15)),
		validation.Field(&r.Password, validation.Length(8, 100)),
	)
}

func (a *BoardController) UpdateProfile(ctx router.Context) error {
	user, ok := UserFromRouterContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrLoginRequired)
	}

	payload := new(UserUpdateRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	var updated *User
	err := a.Repo.RunInTx(ctx.Context(), nil, func(c context.Context, tx bun.Tx) error {
		if payload.Nickname != "" && payload.Nickname != user.Nickname {
			if err := a.Repo.Users().CheckOverlapTx(c, tx, "", payload.Nickname, user.ID); err != nil {
				return err
			}
			user.Nickname = payload.Nickname
		}

		if payload.Password != "" {
			hash, err := HashPassword(payload.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}

		var err error
		updated, err = a.Repo.Users().UpdateTx(c, tx, user)
		return err
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, SanitizeUser(updated))
}

func (a *BoardController) DeleteAccount(ctx router.Context) error {
	user, ok := UserFromRouterContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrLoginRequired)
	}

	deleteAccount := NewDeleteAccountHandler(a.Repo)
	if err := deleteAccount.Execute(ctx.Context(), DeleteAccountMessage{UserID: user.ID}); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	// The account is gone, the session dies with it.
	token := ctx.Cookies(a.CookieName, "")
	if err := a.Sessions.Destroy(ctx.Context(), token); err != nil {
		a.Logger.Error("failed to destroy session after account deletion: %s", err)
	}
	clearSessionCookie(ctx, a.CookieName)

	return respond(ctx, 200, map[string]bool{"deleted": true})
}

func (a *BoardController) UploadProfileImage(ctx router.Context) error {
	user, ok := UserFromRouterContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrLoginRequired)
	}

	body := ctx.Body()
	if len(body) == 0 {
		return a.ErrorHandler(ctx, goerrors.New("empty upload body", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest))
	}

	path, err := SaveUpload(a.UploadDir, ctx.Header("Content-Type"), body)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	user.ProfileImage = path
	updated, err := a.Repo.Users().Update(ctx.Context(), user)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, SanitizeUser(updated))
}

func (a *BoardController) VerifyEmail(ctx router.Context) error {
	code := ctx.Query("verificationCode", "")
	if code == "" {
		return a.ErrorHandler(ctx, goerrors.New("verificationCode is required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest))
	}

	var res *VerifyEmailResponse

	verify := NewVerifyEmailHandler(a.Repo, a.Mailer, a.BaseURL)
	err := verify.Execute(ctx.Context(), VerifyEmailMessage{
		Code: code,
		OnResponse: func(resp *VerifyEmailResponse) {
			res = resp
		},
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, SanitizeUser(res.User))
}

func (a *BoardController) ResendVerification(ctx router.Context) error {
	user, ok := UserFromRouterContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrLoginRequired)
	}

	var res *ResendVerificationResponse

	resend := NewResendVerificationHandler(a.Repo, a.Mailer, a.BaseURL)
	err := resend.Execute(ctx.Context(), ResendVerificationMessage{
		UserID: user.ID,
		OnResponse: func(resp *ResendVerificationResponse) {
			res = resp
		},
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, map[string]bool{
		"alreadyVerified": res.AlreadyVerified,
	})
}

func (a *BoardController) ListUserPosts(ctx router.Context) error {
	authorID, err := paramUUID(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	// The user is the subject of the lookup, an unknown id is 404.
	if _, err := a.Repo.Users().GetByID(ctx.Context(), authorID); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	page, err := a.resolvePageQuery(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	posts, err := a.Repo.Posts().List(ctx.Context(), page, PostFilter{AuthorID: authorID})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, PostsToResponse(posts))
}

// resolvePageQuery reads the shared page / itemSize parameters.
func (a *BoardController) resolvePageQuery(ctx router.Context) (Pagination, error) {
	page, err := queryInt(ctx, "page")
	if err != nil {
		return Pagination{}, err
	}

	itemSize, err := queryInt(ctx, "itemSize")
	if err != nil {
		return Pagination{}, err
	}

	return ResolvePage(page, itemSize)
}
