package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregationMethod tells consumers how to roll a metric up over a window.
type AggregationMethod string

const (
	AggregateSum  AggregationMethod = "sum"
	AggregateAvg  AggregationMethod = "avg"
	AggregateMax  AggregationMethod = "max"
	AggregateMin  AggregationMethod = "min"
	AggregateLast AggregationMethod = "last"
)

// Valid reports whether a is a supported aggregation.
func (a AggregationMethod) Valid() bool {
	switch a {
	case AggregateSum, AggregateAvg, AggregateMax, AggregateMin, AggregateLast:
		return true
	}
	return false
}

// MetricDefinition registers a namespaced metric key such as "shopify.revenue".
type MetricDefinition struct {
	ID                string            `json:"id" db:"id"`
	Key               string            `json:"key" db:"key"`
	Source            Source            `json:"source" db:"source"`
	DisplayName       string            `json:"displayName" db:"display_name"`
	Unit              string            `json:"unit" db:"unit"`
	AggregationMethod AggregationMethod `json:"aggregationMethod" db:"aggregation_method"`
	Category          string            `json:"category" db:"category"`
	Description       *string           `json:"description,omitempty" db:"description"`
	Metadata          JSONMap           `json:"metadata,omitempty" db:"metadata"`
	CreatedAt         time.Time         `json:"createdAt" db:"created_at"`
}

// MetricEvent is one recorded value. Events are append-only.
type MetricEvent struct {
	ID         string          `json:"id" db:"id"`
	StoreID    string          `json:"storeId" db:"store_id"`
	OrgID      string          `json:"orgId" db:"org_id"`
	Source     Source          `json:"source" db:"source"`
	MetricKey  string          `json:"metricKey" db:"metric_key"`
	Value      decimal.Decimal `json:"value" db:"value"`
	RecordedAt time.Time       `json:"recordedAt" db:"recorded_at"`
	SyncedAt   time.Time       `json:"syncedAt" db:"synced_at"`
	Dimensions JSONMap         `json:"dimensions,omitempty" db:"dimensions"`
}

// MetricEventFilter selects events for one store and metric over [From, To).
type MetricEventFilter struct {
	OrgID     string
	StoreID   string
	MetricKey string
	From      time.Time
	To        time.Time
	Limit     int
	// Keyset position of the last row already returned, if any.
	AfterRecordedAt *time.Time
	AfterID         *string
}

// MetricSummary is one metric rolled up over a window.
type MetricSummary struct {
	StoreID           string            `json:"storeId"`
	MetricKey         string            `json:"metricKey"`
	AggregationMethod AggregationMethod `json:"aggregationMethod"`
	Value             decimal.Decimal   `json:"value"`
	Count             int64             `json:"count"`
	From              time.Time         `json:"from"`
	To                time.Time         `json:"to"`
}
