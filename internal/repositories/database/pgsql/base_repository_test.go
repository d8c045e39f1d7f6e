package pgsql

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
)

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique violation", &pgconn.PgError{Code: pgUniqueViolation}, apperrors.ErrDuplicate},
		{"wrapped unique violation", fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgUniqueViolation}), apperrors.ErrDuplicate},
		{"foreign key violation", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "stores_workspace_fk"}, apperrors.ErrValidation},
		{"malformed uuid", &pgconn.PgError{Code: pgInvalidTextRep}, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapWriteError(tt.err, "failed", "taken"), tt.want)
		})
	}

	err := mapWriteError(&pgconn.PgError{Code: "57014"}, "failed to save store", "taken")
	assert.Equal(t, 500, apperrors.StatusCode(err))
	assert.Contains(t, err.Error(), "failed to save store")
}

func TestMapReadError(t *testing.T) {
	assert.ErrorIs(t, mapReadError(pgx.ErrNoRows, "store not found", "failed"), apperrors.ErrNotFound)
	assert.ErrorIs(t, mapReadError(&pgconn.PgError{Code: pgInvalidTextRep}, "store not found", "failed"), apperrors.ErrNotFound)
	assert.Equal(t, 500, apperrors.StatusCode(mapReadError(fmt.Errorf("conn reset"), "store not found", "failed")))
}

func TestRequireOneRow(t *testing.T) {
	assert.ErrorIs(t, requireOneRow(pgconn.NewCommandTag("DELETE 0"), "store not found"), apperrors.ErrNotFound)
	assert.NoError(t, requireOneRow(pgconn.NewCommandTag("DELETE 1"), "store not found"))
}

func TestNullableJSON(t *testing.T) {
	b, err := nullableJSON(nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = nullableJSON(domain.JSONMap{"message": "rate limited"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"rate limited"}`, string(b))
}

func TestAggregateExpr(t *testing.T) {
	for _, method := range []domain.AggregationMethod{
		domain.AggregateSum, domain.AggregateAvg, domain.AggregateMax, domain.AggregateMin, domain.AggregateLast,
	} {
		expr, err := aggregateExpr(method)
		require.NoError(t, err, method)
		assert.Contains(t, expr, "value")
	}

	last, _ := aggregateExpr(domain.AggregateLast)
	assert.Contains(t, last, "ORDER BY recorded_at DESC")

	_, err := aggregateExpr("median")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
