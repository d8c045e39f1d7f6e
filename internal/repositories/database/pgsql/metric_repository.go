package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
)

type PgxMetricRepository struct {
	BaseRepository
}

// newPgxMetricRepository creates a new repository for metric definitions and events.
func newPgxMetricRepository(pool *pgxpool.Pool) portsrepo.MetricRepositoryFacade {
	return &PgxMetricRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.MetricRepositoryFacade = (*PgxMetricRepository)(nil)

const metricDefinitionSelectQuery = `
SELECT
	d.id, d.key, d.source, d.display_name, COALESCE(d.unit, '') AS unit,
	d.aggregation_method, COALESCE(d.category, '') AS category, d.description,
	d.metadata, d.created_at
FROM metric_definitions d
`

var metricEventColumns = []string{
	"id", "store_id", "org_id", "source", "metric_key", "value", "recorded_at", "synced_at", "dimensions",
}

func (r *PgxMetricRepository) getDefinitions(ctx context.Context, filterQuery string, args ...any) ([]domain.MetricDefinition, error) {
	rows, err := r.Pool.Query(ctx, metricDefinitionSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query metric definitions", err)
	}
	defs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.MetricDefinition])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect metric definition rows", err)
	}
	return defs, nil
}

// ListDefinitions lists the registry, narrowed to one source when source is not empty.
func (r *PgxMetricRepository) ListDefinitions(ctx context.Context, source domain.Source) ([]domain.MetricDefinition, error) {
	if source == "" {
		return r.getDefinitions(ctx, `ORDER BY d.key`)
	}
	return r.getDefinitions(ctx, `WHERE d.source = $1 ORDER BY d.key`, string(source))
}

func (r *PgxMetricRepository) FindDefinitionByKey(ctx context.Context, key string) (*domain.MetricDefinition, error) {
	defs, err := r.getDefinitions(ctx, `WHERE d.key = $1`, key)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, apperrors.NewNotFoundError("metric definition " + key + " not found")
	}
	return &defs[0], nil
}

// ListEvents pages oldest first on (recorded_at, id) inside [From, To).
func (r *PgxMetricRepository) ListEvents(ctx context.Context, filter domain.MetricEventFilter) ([]domain.MetricEvent, error) {
	var sb strings.Builder
	args := []any{filter.OrgID, filter.StoreID, filter.From, filter.To}
	sb.WriteString(`
		SELECT id, store_id, org_id, source, metric_key, value, recorded_at, synced_at, dimensions
		FROM metric_events
		WHERE org_id = $1 AND store_id = $2 AND recorded_at >= $3 AND recorded_at < $4`)
	if filter.MetricKey != "" {
		args = append(args, filter.MetricKey)
		fmt.Fprintf(&sb, ` AND metric_key = $%d`, len(args))
	}
	if filter.AfterRecordedAt != nil && filter.AfterID != nil {
		args = append(args, *filter.AfterRecordedAt, *filter.AfterID)
		fmt.Fprintf(&sb, ` AND (recorded_at, id) > ($%d, $%d)`, len(args)-1, len(args))
	}
	sb.WriteString(` ORDER BY recorded_at, id`)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
	}

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		if isMalformedID(err) {
			return []domain.MetricEvent{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query metric events", err)
	}
	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.MetricEvent])
	if err != nil {
		if isMalformedID(err) {
			return []domain.MetricEvent{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect metric event rows", err)
	}
	return events, nil
}

// aggregateExpr maps an aggregation method onto its SQL rollup.
func aggregateExpr(method domain.AggregationMethod) (string, error) {
	switch method {
	case domain.AggregateSum:
		return "SUM(value)", nil
	case domain.AggregateAvg:
		return "AVG(value)", nil
	case domain.AggregateMax:
		return "MAX(value)", nil
	case domain.AggregateMin:
		return "MIN(value)", nil
	case domain.AggregateLast:
		return "(ARRAY_AGG(value ORDER BY recorded_at DESC, id DESC))[1]", nil
	}
	return "", apperrors.NewValidationFailedError("unsupported aggregation " + string(method))
}

func (r *PgxMetricRepository) Summarize(ctx context.Context, filter domain.MetricEventFilter, method domain.AggregationMethod) (*domain.MetricSummary, error) {
	expr, err := aggregateExpr(method)
	if err != nil {
		return nil, err
	}

	var value decimal.NullDecimal
	var count int64
	err = r.Pool.QueryRow(ctx, `
		SELECT `+expr+`, COUNT(*)
		FROM metric_events
		WHERE org_id = $1 AND store_id = $2 AND metric_key = $3 AND recorded_at >= $4 AND recorded_at < $5`,
		filter.OrgID, filter.StoreID, filter.MetricKey, filter.From, filter.To,
	).Scan(&value, &count)
	if err != nil && !isMalformedID(err) {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to summarize metric events", err)
	}

	summary := &domain.MetricSummary{
		StoreID:           filter.StoreID,
		MetricKey:         filter.MetricKey,
		AggregationMethod: method,
		Value:             decimal.Zero,
		Count:             count,
		From:              filter.From,
		To:                filter.To,
	}
	if value.Valid {
		summary.Value = value.Decimal.Round(4)
	}
	return summary, nil
}

// InsertEvents bulk-loads the batch with COPY.
func (r *PgxMetricRepository) InsertEvents(ctx context.Context, events []domain.MetricEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(events))
	for _, e := range events {
		var value pgtype.Numeric
		if err := value.Scan(e.Value.String()); err != nil {
			return 0, apperrors.NewValidationFailedError("metric value " + e.Value.String() + " is not numeric")
		}
		dims, err := e.Dimensions.Bytes()
		if err != nil {
			return 0, apperrors.NewValidationFailedError("metric dimensions are not valid JSON")
		}
		rows = append(rows, []any{
			e.ID, e.StoreID, e.OrgID, string(e.Source), e.MetricKey, value, e.RecordedAt, e.SyncedAt, dims,
		})
	}

	n, err := r.Pool.CopyFrom(ctx, pgx.Identifier{"metric_events"}, metricEventColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, mapWriteError(err, "failed to insert metric events", "metric event already recorded")
	}
	return n, nil
}
