package board

import (
	"github.com/goliatone/go-router"
)

func (a *BoardController) ListCategories(ctx router.Context) error {
	categories, err := a.Repo.Categories().List(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, categories)
}

func (a *BoardController) ListCategoryPosts(ctx router.Context) error {
	categoryID, err := paramUUID(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if _, err := a.Repo.Categories().GetByID(ctx.Context(), categoryID); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	page, err := a.resolvePageQuery(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	posts, err := a.Repo.Posts().List(ctx.Context(), page, PostFilter{CategoryID: categoryID})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return respond(ctx, 200, PostsToResponse(posts))
}
