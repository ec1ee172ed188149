package board

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PostCreateRequest is the post creation payload.
type PostCreateRequest struct {
	Title      string `form:"title" json:"title"`
	Content    string `form:"content" json:"content"`
	CategoryID string `form:"category_id" json:"category_id"`
}

// Validate will run validation rules
func (r PostCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.CategoryID, validation.Required),
	)
}

// PostUpdateRequest is the post update payload.
type PostUpdateRequest struct {
	Title      string `form:"title" json:"title"`
	Content    string `form:"content" json:"content"`
	CategoryID string `form:"category_id" json:"category_id"`
}

// Validate will run validation rules
func (r PostUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.CategoryID, validation.Required),
	)
}

// resolveCategory turns a raw category id into a verified record. A category
// is an input to the write, not its subject, so both a malformed and an
// unknown id are the caller's mistake and come back as 400.
func (a *BoardController) resolveCategory(ctx context.Context, raw string) (*Category, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, goerrors.New("category_id must be a valid id", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	category, err := a.Repo.Categories().GetByID(ctx, id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, goerrors.New("category does not exist", goerrors.CategoryBadInput).
				WithCode(goerrors.CodeBadRequest)
		}
		return nil, err
	}

	return category, nil
}

func (a *BoardController) ListPosts(ctx router.Context) error {
	page, err := a.resolvePageQuery(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	filter := PostFilter{}
	if raw := ctx.Query("categoryId", ""); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return a.ErrorHandler(ctx, goerrors.New("categoryId must be a valid id", goerrors.CategoryBadInput).
				WithCode(goerrors.CodeBadRequest))
		}
		filter.CategoryID = id
	}

	posts, err := a.Repo.Posts().List(ctx.Context(), page, filter)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, PostsToResponse(posts))
}

func (a *BoardController) CountPosts(ctx router.Context) error {
	filter := PostFilter{}
	if raw := ctx.Query("categoryId", ""); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return a.ErrorHandler(ctx, goerrors.New("categoryId must be a valid id", goerrors.CategoryBadInput).
				WithCode(goerrors.CodeBadRequest))
		}
		filter.CategoryID = id
	}

	count, err := a.Repo.Posts().Count(ctx.Context(), filter)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, map[string]int{"count": count})
}

func (a *BoardController) GetPost(ctx router.Context) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	post, err := a.Repo.Posts().GetByID(ctx.Context(), id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, PostToResponse(post))
}

func (a *BoardController) CreatePost(ctx router.Context) error {
	user, ok := UserFromRouterContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrLoginRequired)
	}

	payload := new(PostCreateRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	category, err := a.resolveCategory(ctx.Context(), payload.CategoryID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	var created *Post
	err = a.Repo.RunInTx(ctx.Context(), nil, func(c context.Context, tx bun.Tx) error {
		record := &Post{
			Title:      payload.Title,
			Content:    payload.Content,
			AuthorID:   user.ID,
			CategoryID: category.ID,
		}

		var err error
		created, err = a.Repo.Posts().CreateTx(c, tx, record)
		return err
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 201, PostToResponse(created))
}

func (a *BoardController) UpdatePost(ctx router.Context) error {
	user, ok := UserFromRouterContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrLoginRequired)
	}

	id, err := paramUUID(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(PostUpdateRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	// Existence before ownership, a missing post is 404 not 403.
	post, err := a.Repo.Posts().GetByID(ctx.Context(), id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := EnsureAuthor(user, post); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	category, err := a.resolveCategory(ctx.Context(), payload.CategoryID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	err = a.Repo.RunInTx(ctx.Context(), nil, func(c context.Context, tx bun.Tx) error {
		post.Title = payload.Title
		post.Content = payload.Content
		post.CategoryID = category.ID
		return a.Repo.Posts().UpdateTx(c, tx, post)
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	updated, err := a.Repo.Posts().GetByID(ctx.Context(), id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, PostToResponse(updated))
}

func (a *BoardController) DeletePost(ctx router.Context) error {
	user, ok := UserFromRouterContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrLoginRequired)
	}

	id, err := paramUUID(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	post, err := a.Repo.Posts().GetByID(ctx.Context(), id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := EnsureAuthor(user, post); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	err = a.Repo.RunInTx(ctx.Context(), nil, func(c context.Context, tx bun.Tx) error {
		return a.Repo.Posts().DeleteTx(c, tx, id)
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, map[string]bool{"deleted": true})
}
