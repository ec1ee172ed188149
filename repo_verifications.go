package board

import (
	"context"
	"database/sql"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EmailVerifications is the verification token repository surface. Each user
// holds at most one live row, reissue overwrites in place.
type EmailVerifications interface {
	GetByCode(ctx context.Context, code string) (*EmailVerification, error)
	IssueOrRefreshTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, now time.Time) (*EmailVerification, error)
	DeleteByCodeTx(ctx context.Context, tx bun.IDB, code string) error
	DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error
}

// EmailVerificationsRepository implements EmailVerifications using Bun.
type EmailVerificationsRepository struct {
	db *bun.DB
}

var _ EmailVerifications = (*EmailVerificationsRepository)(nil)

// NewEmailVerificationsRepository creates a new repository.
func NewEmailVerificationsRepository(db *bun.DB) *EmailVerificationsRepository {
	return &EmailVerificationsRepository{db: db}
}

// GetByCode loads a verification record with its user relation. An unknown
// code returns ErrInvalidVerification.
func (r *EmailVerificationsRepository) GetByCode(ctx context.Context, code string) (*EmailVerification, error) {
	record := &EmailVerification{}
	err := r.db.NewSelect().
		Model(record).
		Relation("User").
		Where("?TableAlias.code = ?", code).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidVerification
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to get verification")
	}
	return record, nil
}

// IssueOrRefreshTx mints a fresh code for the user. The conflict clause keeps
// the one-row-per-user invariant under concurrent requests: whichever insert
// lands second overwrites code and expiry instead of adding a row.
func (r *EmailVerificationsRepository) IssueOrRefreshTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, now time.Time) (*EmailVerification, error) {
	record := NewVerificationFor(userID, now)

	_, err := tx.NewInsert().
		Model(record).
		On("CONFLICT (user_id) DO UPDATE").
		Set("code = EXCLUDED.code").
		Set("expires_at = EXCLUDED.expires_at").
		Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue verification")
	}

	return record, nil
}

// DeleteByCodeTx removes the record holding the given code. Deleting a code
// that raced away is not an error.
func (r *EmailVerificationsRepository) DeleteByCodeTx(ctx context.Context, tx bun.IDB, code string) error {
	_, err := tx.NewDelete().
		Model((*EmailVerification)(nil)).
		Where("?TableAlias.code = ?", code).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete verification")
	}
	return nil
}

// DeleteByUserTx removes the user's verification record if any exists.
func (r *EmailVerificationsRepository) DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*EmailVerification)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user verification")
	}
	return nil
}
