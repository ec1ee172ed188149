package board

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Categories is the category repository surface. Categories are reference
// data, the write path only seeds them.
type Categories interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Create(ctx context.Context, record *Category) (*Category, error)
}

// CategoriesRepository implements Categories using Bun.
type CategoriesRepository struct {
	db *bun.DB
}

var _ Categories = (*CategoriesRepository)(nil)

// NewCategoriesRepository creates a new repository.
func NewCategoriesRepository(db *bun.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

// GetByID loads a category by id.
func (r *CategoriesRepository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	record := &Category{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFound("category")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to get category")
	}
	return record, nil
}

// List returns every category ordered by name.
func (r *CategoriesRepository) List(ctx context.Context) ([]*Category, error) {
	var records []*Category
	err := r.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list categories")
	}

	if records == nil {
		records = []*Category{}
	}

	return records, nil
}

// Create seeds a category. Existing names are returned as-is so seeding stays
// idempotent.
func (r *CategoriesRepository) Create(ctx context.Context, record *Category) (*Category, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(record).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create category")
	}

	existing := &Category{}
	err = r.db.NewSelect().
		Model(existing).
		Where("?TableAlias.name = ?", record.Name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reload category")
	}

	return existing, nil
}
