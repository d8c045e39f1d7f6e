package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// ListMetricDefinitionsQuery narrows the registry to one source.
type ListMetricDefinitionsQuery struct {
	Source string `form:"source" binding:"omitempty,integration_source"`
}

// MetricDefinitionResponse defines data returned for a metric definition.
type MetricDefinitionResponse struct {
	Key               string  `json:"key"`
	Source            string  `json:"source"`
	DisplayName       string  `json:"displayName"`
	Unit              string  `json:"unit,omitempty"`
	AggregationMethod string  `json:"aggregationMethod"`
	Category          string  `json:"category,omitempty"`
	Description       *string `json:"description,omitempty"`
}

// ToMetricDefinitionResponse converts domain.MetricDefinition to DTO.
func ToMetricDefinitionResponse(d *domain.MetricDefinition) MetricDefinitionResponse {
	return MetricDefinitionResponse{
		Key:               d.Key,
		Source:            string(d.Source),
		DisplayName:       d.DisplayName,
		Unit:              d.Unit,
		AggregationMethod: string(d.AggregationMethod),
		Category:          d.Category,
		Description:       d.Description,
	}
}

// ListMetricDefinitionsResponse wraps the registry.
type ListMetricDefinitionsResponse struct {
	Definitions []MetricDefinitionResponse `json:"definitions"`
}

// ToListMetricDefinitionsResponse converts a slice of definitions to DTO.
func ToListMetricDefinitionsResponse(ds []domain.MetricDefinition) ListMetricDefinitionsResponse {
	list := make([]MetricDefinitionResponse, len(ds))
	for i := range ds {
		list[i] = ToMetricDefinitionResponse(&ds[i])
	}
	return ListMetricDefinitionsResponse{Definitions: list}
}

// MetricWindowQuery is the [from, to) window of a metric read. Both bounds are RFC 3339.
type MetricWindowQuery struct {
	MetricKey string    `form:"metricKey" binding:"omitempty,max=100"`
	From      time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To        time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit     int       `form:"limit" binding:"omitempty,min=1,max=1000"`
	PageToken string    `form:"pageToken"`
}

// MetricEventResponse defines data returned for a metric event.
type MetricEventResponse struct {
	ID         string          `json:"id"`
	MetricKey  string          `json:"metricKey"`
	Source     string          `json:"source"`
	Value      decimal.Decimal `json:"value" swaggertype:"string"`
	RecordedAt time.Time       `json:"recordedAt"`
	Dimensions domain.JSONMap  `json:"dimensions,omitempty"`
}

// ToMetricEventResponse converts domain.MetricEvent to DTO.
func ToMetricEventResponse(e *domain.MetricEvent) MetricEventResponse {
	return MetricEventResponse{
		ID:         e.ID,
		MetricKey:  e.MetricKey,
		Source:     string(e.Source),
		Value:      e.Value,
		RecordedAt: e.RecordedAt,
		Dimensions: e.Dimensions,
	}
}

// ListMetricEventsResponse is one page of metric events.
type ListMetricEventsResponse struct {
	Events []MetricEventResponse `json:"events"`
	PageInfo
}

// ToListMetricEventsResponse converts a page of events to DTO.
func ToListMetricEventsResponse(es []domain.MetricEvent, next string) ListMetricEventsResponse {
	list := make([]MetricEventResponse, len(es))
	for i := range es {
		list[i] = ToMetricEventResponse(&es[i])
	}
	return ListMetricEventsResponse{Events: list, PageInfo: PageInfo{NextPageToken: next}}
}

// MetricSummaryResponse defines data returned for a metric rollup.
type MetricSummaryResponse struct {
	StoreID           string          `json:"storeId"`
	MetricKey         string          `json:"metricKey"`
	AggregationMethod string          `json:"aggregationMethod"`
	Value             decimal.Decimal `json:"value" swaggertype:"string"`
	Count             int64           `json:"count"`
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
}

// ToMetricSummaryResponse converts domain.MetricSummary to DTO.
func ToMetricSummaryResponse(s *domain.MetricSummary) MetricSummaryResponse {
	return MetricSummaryResponse{
		StoreID:           s.StoreID,
		MetricKey:         s.MetricKey,
		AggregationMethod: string(s.AggregationMethod),
		Value:             s.Value,
		Count:             s.Count,
		From:              s.From,
		To:                s.To,
	}
}
