package board

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the account repository surface. Lookups return the rich NotFound
// error so callers can branch without string matching.
type Users interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, record *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)
	Update(ctx context.Context, record *User) (*User, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)
	SetEmailVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
	CheckOverlapTx(ctx context.Context, tx bun.IDB, email, nickname string, exclude uuid.UUID) error
	DeleteAccountTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users     = (*users)(nil)
	_ UserStore = (*users)(nil)
)

// NewUsersRepository builds the account repository over the given database.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

// GetByEmail looks a user up by exact email. No normalization happens here,
// the stored value must match byte for byte.
func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	record, err := a.Repository.GetByIdentifier(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, NewNotFound("user")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to get user by email")
	}
	return record, nil
}

func (a *users) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	record, err := a.Repository.GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, NewNotFound("user")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to get user by id")
	}
	return record, nil
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	prepareUserDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *users) Update(ctx context.Context, record *User) (*User, error) {
	return a.UpdateTx(ctx, a.db, record)
}

func (a *users) UpdateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	return a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(record.ID.String()))
}

// SetEmailVerifiedTx flips the verification flag. The raw statement keeps the
// update idempotent under concurrent confirmations.
func (a *users) SetEmailVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewRaw(`
		UPDATE "users" AS "usr"
		SET "email_verified" = TRUE
		WHERE ("usr".id = ?);
	`, id).Exec(ctx)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark email verified")
	}

	return err
}

// CheckOverlapTx rejects an email or nickname already held by another
// account. Email is reported first when both collide. Pass uuid.Nil as
// exclude for registration; pass the account id for profile updates so the
// user can keep their own values.
func (a *users) CheckOverlapTx(ctx context.Context, tx bun.IDB, email, nickname string, exclude uuid.UUID) error {
	if email != "" {
		exists, err := a.overlapExists(ctx, tx, "email", email, exclude)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailTaken
		}
	}

	if nickname != "" {
		exists, err := a.overlapExists(ctx, tx, "nickname", nickname, exclude)
		if err != nil {
			return err
		}
		if exists {
			return ErrNicknameTaken
		}
	}

	return nil
}

func (a *users) overlapExists(ctx context.Context, tx bun.IDB, column, value string, exclude uuid.UUID) (bool, error) {
	q := tx.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias."+column+" = ?", value)

	if exclude != uuid.Nil {
		q = q.Where("?TableAlias.id != ?", exclude)
	}

	exists, err := q.Exists(ctx)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check "+column+" overlap")
	}

	return exists, nil
}

// DeleteAccountTx removes a user and everything the user owns. Dependents go
// first so the statements also hold on engines without cascading constraints.
func (a *users) DeleteAccountTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	if _, err := tx.NewDelete().
		Model((*Comment)(nil)).
		Where("?TableAlias.author_id = ?", id).
		Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user comments")
	}

	if _, err := tx.NewRaw(`
		DELETE FROM "comments"
		WHERE "post_id" IN (SELECT "id" FROM "posts" WHERE "author_id" = ?);
	`, id).Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete comments on user posts")
	}

	if _, err := tx.NewDelete().
		Model((*Post)(nil)).
		Where("?TableAlias.author_id = ?", id).
		Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user posts")
	}

	if _, err := tx.NewDelete().
		Model((*EmailVerification)(nil)).
		Where("?TableAlias.user_id = ?", id).
		Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user verification")
	}

	res, err := tx.NewDelete().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return NewNotFound("user")
	}

	return nil
}
