package board

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PostFilter narrows post list and count queries. Zero values mean no filter.
type PostFilter struct {
	CategoryID uuid.UUID
	AuthorID   uuid.UUID
}

func (f PostFilter) apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.CategoryID != uuid.Nil {
		q = q.Where("?TableAlias.category_id = ?", f.CategoryID)
	}
	if f.AuthorID != uuid.Nil {
		q = q.Where("?TableAlias.author_id = ?", f.AuthorID)
	}
	return q
}

// Posts is the post repository surface.
type Posts interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	List(ctx context.Context, page Pagination, filter PostFilter) ([]*Post, error)
	Count(ctx context.Context, filter PostFilter) (int, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Post) (*Post, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *Post) error
	DeleteTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

// PostsRepository implements Posts using Bun.
type PostsRepository struct {
	db *bun.DB
}

var _ Posts = (*PostsRepository)(nil)

// NewPostsRepository creates a new repository.
func NewPostsRepository(db *bun.DB) *PostsRepository {
	return &PostsRepository{db: db}
}

// GetByID loads a post with its author and category relations. The author is
// always needed downstream, for ownership checks or response shaping.
func (r *PostsRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	record := &Post{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Author").
		Relation("Category").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFound("post")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to get post")
	}
	return record, nil
}

// List returns posts matching the filter in stable creation order.
func (r *PostsRepository) List(ctx context.Context, page Pagination, filter PostFilter) ([]*Post, error) {
	var records []*Post
	q := r.db.NewSelect().
		Model(&records).
		Relation("Author").
		Relation("Category")

	q = filter.apply(q)
	q = page.Apply(q)

	if err := q.Scan(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list posts")
	}

	if records == nil {
		records = []*Post{}
	}

	return records, nil
}

// Count returns the number of posts matching the filter.
func (r *PostsRepository) Count(ctx context.Context, filter PostFilter) (int, error) {
	q := r.db.NewSelect().Model((*Post)(nil))
	q = filter.apply(q)

	count, err := q.Count(ctx)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count posts")
	}

	return count, nil
}

// CreateTx persists a new post and returns it with relations loaded.
func (r *PostsRepository) CreateTx(ctx context.Context, tx bun.IDB, record *Post) (*Post, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create post")
	}

	created := &Post{}
	err := tx.NewSelect().
		Model(created).
		Relation("Author").
		Relation("Category").
		Where("?TableAlias.id = ?", record.ID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reload created post")
	}

	return created, nil
}

// UpdateTx persists title, content, and category changes for a post.
// Authorship never changes here.
func (r *PostsRepository) UpdateTx(ctx context.Context, tx bun.IDB, record *Post) error {
	res, err := tx.NewUpdate().
		Model(record).
		Column("title", "content", "category_id").
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("?TableAlias.id = ?", record.ID).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update post")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return NewNotFound("post")
	}

	return nil
}

// DeleteTx removes a post and its comments.
func (r *PostsRepository) DeleteTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	if _, err := tx.NewDelete().
		Model((*Comment)(nil)).
		Where("?TableAlias.post_id = ?", id).
		Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete post comments")
	}

	res, err := tx.NewDelete().
		Model((*Post)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete post")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return NewNotFound("post")
	}

	return nil
}
