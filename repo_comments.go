package board

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Comments is the comment repository surface.
type Comments interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID, page Pagination) ([]*Comment, error)
	CountByPost(ctx context.Context, postID uuid.UUID) (int, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Comment) (*Comment, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *Comment) error
	DeleteTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

// CommentsRepository implements Comments using Bun.
type CommentsRepository struct {
	db *bun.DB
}

var _ Comments = (*CommentsRepository)(nil)

// NewCommentsRepository creates a new repository.
func NewCommentsRepository(db *bun.DB) *CommentsRepository {
	return &CommentsRepository{db: db}
}

// GetByID loads a comment with its author relation.
func (r *CommentsRepository) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	record := &Comment{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Author").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFound("comment")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to get comment")
	}
	return record, nil
}

// ListByPost returns comments under the post in stable creation order.
func (r *CommentsRepository) ListByPost(ctx context.Context, postID uuid.UUID, page Pagination) ([]*Comment, error) {
	var records []*Comment
	q := r.db.NewSelect().
		Model(&records).
		Relation("Author").
		Where("?TableAlias.post_id = ?", postID)

	q = page.Apply(q)

	if err := q.Scan(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list comments")
	}

	if records == nil {
		records = []*Comment{}
	}

	return records, nil
}

// CountByPost returns the number of comments under the post.
func (r *CommentsRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int, error) {
	count, err := r.db.NewSelect().
		Model((*Comment)(nil)).
		Where("?TableAlias.post_id = ?", postID).
		Count(ctx)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count comments")
	}
	return count, nil
}

// CreateTx persists a new comment and returns it with its author loaded.
func (r *CommentsRepository) CreateTx(ctx context.Context, tx bun.IDB, record *Comment) (*Comment, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create comment")
	}

	created := &Comment{}
	err := tx.NewSelect().
		Model(created).
		Relation("Author").
		Where("?TableAlias.id = ?", record.ID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reload created comment")
	}

	return created, nil
}

// UpdateTx persists content changes for a comment.
func (r *CommentsRepository) UpdateTx(ctx context.Context, tx bun.IDB, record *Comment) error {
	res, err := tx.NewUpdate().
		Model(record).
		Column("content").
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("?TableAlias.id = ?", record.ID).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update comment")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return NewNotFound("comment")
	}

	return nil
}

// DeleteTx removes a comment.
func (r *CommentsRepository) DeleteTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	res, err := tx.NewDelete().
		Model((*Comment)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete comment")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return NewNotFound("comment")
	}

	return nil
}
