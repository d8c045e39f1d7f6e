package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/core/rbac"
	"github.com/aloftly/aloftly_app/internal/utils/pagination"
)

const (
	defaultMetricPageSize = 100
	maxMetricPageSize     = 1000
	defaultMetricWindow   = 30 * 24 * time.Hour
)

type metricService struct {
	BaseService
	metricRepo portsrepo.MetricRepositoryFacade
	stores     portssvc.StoreReaderSvc
	now        func() time.Time
}

// NewMetricService creates the metric service.
func NewMetricService(metricRepo portsrepo.MetricRepositoryFacade, stores portssvc.StoreReaderSvc) portssvc.MetricSvcFacade {
	return &metricService{
		metricRepo: metricRepo,
		stores:     stores,
		now:        time.Now,
	}
}

var _ portssvc.MetricSvcFacade = (*metricService)(nil)

func (s *metricService) ListDefinitions(ctx context.Context, source domain.Source) ([]domain.MetricDefinition, error) {
	if source != "" && !source.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown source " + string(source))
	}
	defs, err := s.metricRepo.ListDefinitions(ctx, source)
	if err != nil {
		s.LogError(ctx, err, "Failed to list metric definitions")
		return nil, err
	}
	if defs == nil {
		return []domain.MetricDefinition{}, nil
	}
	return defs, nil
}

// RecordEvents validates events against the registry and bulk-inserts them.
// The whole batch is rejected when any event is invalid.
func (s *metricService) RecordEvents(ctx context.Context, events []domain.MetricEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	defs, err := s.metricRepo.ListDefinitions(ctx, "")
	if err != nil {
		return 0, err
	}
	byKey := make(map[string]domain.MetricDefinition, len(defs))
	for _, d := range defs {
		byKey[d.Key] = d
	}

	syncedAt := s.now()
	batch := make([]domain.MetricEvent, len(events))
	for i, e := range events {
		def, ok := byKey[e.MetricKey]
		if !ok {
			return 0, apperrors.NewValidationFailedError("unknown metric key " + e.MetricKey)
		}
		if e.Source == "" {
			e.Source = def.Source
		}
		if e.Source != def.Source {
			return 0, apperrors.NewValidationFailedError("metric " + e.MetricKey + " belongs to source " + string(def.Source))
		}
		if e.OrgID == "" || e.StoreID == "" {
			return 0, apperrors.NewValidationFailedError("metric events need an org and a store")
		}
		if e.RecordedAt.IsZero() {
			return 0, apperrors.NewValidationFailedError("metric events need a recorded time")
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Dimensions == nil {
			e.Dimensions = domain.JSONMap{}
		}
		e.SyncedAt = syncedAt
		batch[i] = e
	}

	n, err := s.metricRepo.InsertEvents(ctx, batch)
	if err != nil {
		s.LogError(ctx, err, "Failed to insert metric events", slog.Int("count", len(batch)))
		return 0, err
	}
	s.LogDebug(ctx, "Metric events recorded", slog.Int64("count", n))
	return n, nil
}

// window fills a missing bound and rejects empty or inverted ranges.
func (s *metricService) window(from, to time.Time) (time.Time, time.Time, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.Add(-defaultMetricWindow)
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, apperrors.NewValidationFailedError("from must be before to")
	}
	return from, to, nil
}

func (s *metricService) ListEvents(ctx context.Context, oc domain.OrgContext, query portssvc.MetricEventsQuery) ([]domain.MetricEvent, string, error) {
	if err := s.Authorize(ctx, oc, rbac.ViewDashboards); err != nil {
		return nil, "", err
	}
	if _, err := s.stores.GetStore(ctx, oc, query.StoreID); err != nil {
		return nil, "", err
	}
	from, to, err := s.window(query.From, query.To)
	if err != nil {
		return nil, "", err
	}

	limit := pagination.ClampLimit(query.Limit, defaultMetricPageSize, maxMetricPageSize)
	filter := domain.MetricEventFilter{
		OrgID:     oc.OrgID,
		StoreID:   query.StoreID,
		MetricKey: query.MetricKey,
		From:      from,
		To:        to,
		Limit:     limit + 1,
	}
	if query.PageToken != "" {
		at, id, err := pagination.DecodeToken(query.PageToken)
		if err != nil {
			return nil, "", apperrors.NewValidationFailedError(err.Error())
		}
		filter.AfterRecordedAt = &at
		filter.AfterID = &id
	}

	events, err := s.metricRepo.ListEvents(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list metric events", slog.String("store_id", query.StoreID))
		return nil, "", err
	}

	var next string
	if len(events) > limit {
		events = events[:limit]
		last := events[limit-1]
		next = pagination.EncodeToken(last.RecordedAt, last.ID)
	}
	if events == nil {
		events = []domain.MetricEvent{}
	}
	return events, next, nil
}

func (s *metricService) Summarize(ctx context.Context, oc domain.OrgContext, storeID, metricKey string, from, to time.Time) (*domain.MetricSummary, error) {
	if err := s.Authorize(ctx, oc, rbac.ViewDashboards); err != nil {
		return nil, err
	}
	if _, err := s.stores.GetStore(ctx, oc, storeID); err != nil {
		return nil, err
	}
	from, to, err := s.window(from, to)
	if err != nil {
		return nil, err
	}
	def, err := s.metricRepo.FindDefinitionByKey(ctx, metricKey)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewValidationFailedError("unknown metric key " + metricKey)
		}
		return nil, err
	}

	summary, err := s.metricRepo.Summarize(ctx, domain.MetricEventFilter{
		OrgID:     oc.OrgID,
		StoreID:   storeID,
		MetricKey: metricKey,
		From:      from,
		To:        to,
	}, def.AggregationMethod)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize metric",
			slog.String("store_id", storeID),
			slog.String("metric_key", metricKey))
		return nil, err
	}
	return summary, nil
}
