package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRep      = "22P02"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// WithTx runs fn inside a transaction, committing when it returns nil.
func (r *BaseRepository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	err := pgx.BeginFunc(ctx, r.Pool, fn)
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewAppError(http.StatusInternalServerError, "transaction failed", err)
}

// mapWriteError turns constraint violations into typed application errors.
// conflictMsg is used for unique violations, anything else becomes a 500 with msg.
func mapWriteError(err error, msg, conflictMsg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.NewConflictError(conflictMsg)
		case pgForeignKeyViolation:
			return apperrors.NewValidationFailedError("referenced record does not exist (" + pgErr.ConstraintName + ")")
		case pgInvalidTextRep:
			return apperrors.NewValidationFailedError("malformed identifier")
		}
	}
	return apperrors.NewAppError(http.StatusInternalServerError, msg, err)
}

// mapReadError maps no-rows to a not-found error and malformed UUIDs to not-found too,
// so probing with garbage ids looks the same as probing with foreign ones.
func mapReadError(err error, notFoundMsg, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(notFoundMsg)
	}
	if isMalformedID(err) {
		return apperrors.NewNotFoundError(notFoundMsg)
	}
	return apperrors.NewAppError(http.StatusInternalServerError, msg, err)
}

// requireOneRow reports not-found when an UPDATE or DELETE matched nothing.
func requireOneRow(tag pgconn.CommandTag, notFoundMsg string) error {
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(notFoundMsg)
	}
	return nil
}

// nullableJSON encodes a jsonb column that may be NULL.
func nullableJSON(m domain.JSONMap) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return m.Bytes()
}

// isMalformedID reports a UUID column compared against a value that is not a UUID.
func isMalformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRep
}
