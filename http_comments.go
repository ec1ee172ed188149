package board

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CommentCreateRequest is the comment creation payload.
type CommentCreateRequest struct {
	Content string `form:"content" json:"content"`
	PostID  string `form:"post_id" json:"post_id"`
}

// Validate will run validation rules
func (r CommentCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.PostID, validation.Required),
	)
}

// CommentUpdateRequest is the comment update payload.
type CommentUpdateRequest struct {
	Content string `form:"content" json:"content"`
}

// Validate will run validation rules
func (r CommentUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
	)
}

func (a *BoardController) ListComments(ctx router.Context) error {
	postID, err := paramUUID(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	page, err := a.resolvePageQuery(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	comments, err := a.Repo.Comments().ListByPost(ctx.Context(), postID, page)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, CommentsToResponse(comments))
}

func (a *BoardController) CountComments(ctx router.Context) error {
	postID, err := paramUUID(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	count, err := a.Repo.Comments().CountByPost(ctx.Context(), postID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, map[string]int{"count": count})
}

func (a *BoardController) CreateComment(ctx router.Context) error {
	user, ok := UserFromRouterContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrLoginRequired)
	}

	payload := new(CommentCreateRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	postID, err := uuid.Parse(payload.PostID)
	if err != nil {
		return a.ErrorHandler(ctx, goerrors.New("post_id must be a valid id", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest))
	}

	// The target post is the subject of the write, missing means 404.
	if _, err := a.Repo.Posts().GetByID(ctx.Context(), postID); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	var created *Comment
	err = a.Repo.RunInTx(ctx.Context(), nil, func(c context.Context, tx bun.Tx) error {
		record := &Comment{
			Content:  payload.Content,
			AuthorID: user.ID,
			PostID:   postID,
		}

		var err error
		created, err = a.Repo.Comments().CreateTx(c, tx, record)
		return err
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 201, CommentToResponse(created))
}

func (a *BoardController) UpdateComment(ctx router.Context) error {
	user, ok := UserFromRouterContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrLoginRequired)
	}

	id, err := paramUUID(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(CommentUpdateRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	comment, err := a.Repo.Comments().GetByID(ctx.Context(), id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := EnsureAuthor(user, comment); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	err = a.Repo.RunInTx(ctx.Context(), nil, func(c context.Context, tx bun.Tx) error {
		comment.Content = payload.Content
		return a.Repo.Comments().UpdateTx(c, tx, comment)
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	updated, err := a.Repo.Comments().GetByID(ctx.Context(), id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, CommentToResponse(updated))
}

func (a *BoardController) DeleteComment(ctx router.Context) error {
	user, ok := UserFromRouterContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrLoginRequired)
	}

	id, err := paramUUID(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	comment, err := a.Repo.Comments().GetByID(ctx.Context(), id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := EnsureAuthor(user, comment); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	err = a.Repo.RunInTx(ctx.Context(), nil, func(c context.Context, tx bun.Tx) error {
		return a.Repo.Comments().DeleteTx(c, tx, id)
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, map[string]bool{"deleted": true})
}
