package repositories

import (
	"context"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// MetricDefinitionReader reads the metric registry.
type MetricDefinitionReader interface {
	ListDefinitions(ctx context.Context, source domain.Source) ([]domain.MetricDefinition, error)
	FindDefinitionByKey(ctx context.Context, key string) (*domain.MetricDefinition, error)
}

// MetricEventReader reads recorded metric events.
type MetricEventReader interface {
	ListEvents(ctx context.Context, filter domain.MetricEventFilter) ([]domain.MetricEvent, error)

	// Summarize rolls the filtered events up with the given aggregation.
	Summarize(ctx context.Context, filter domain.MetricEventFilter, method domain.AggregationMethod) (*domain.MetricSummary, error)
}

// MetricEventWriter appends metric events.
type MetricEventWriter interface {
	// InsertEvents bulk-loads events and returns how many rows were copied.
	InsertEvents(ctx context.Context, events []domain.MetricEvent) (int64, error)
}

// MetricRepositoryFacade combines all metric repository interfaces.
type MetricRepositoryFacade interface {
	MetricDefinitionReader
	MetricEventReader
	MetricEventWriter
}
