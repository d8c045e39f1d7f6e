package services

import (
	"context"
	"time"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// MetricEventsQuery selects one page of a store's metric events.
type MetricEventsQuery struct {
	StoreID   string
	MetricKey string
	From      time.Time
	To        time.Time
	Limit     int
	PageToken string
}

// MetricReaderSvc defines read operations for metrics.
type MetricReaderSvc interface {
	ListDefinitions(ctx context.Context, source domain.Source) ([]domain.MetricDefinition, error)
	ListEvents(ctx context.Context, oc domain.OrgContext, query MetricEventsQuery) ([]domain.MetricEvent, string, error)
	Summarize(ctx context.Context, oc domain.OrgContext, storeID, metricKey string, from, to time.Time) (*domain.MetricSummary, error)
}

// MetricWriterSvc appends metric events. Service level only.
type MetricWriterSvc interface {
	RecordEvents(ctx context.Context, events []domain.MetricEvent) (int64, error)
}

// MetricSvcFacade combines all metric service interfaces.
type MetricSvcFacade interface {
	MetricReaderSvc
	MetricWriterSvc
}
