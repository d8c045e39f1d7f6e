package domain

import "time"

// SyncStatus is the lifecycle state of a sync job.
type SyncStatus string

const (
	SyncPending   SyncStatus = "pending"
	SyncRunning   SyncStatus = "running"
	SyncSucceeded SyncStatus = "succeeded"
	SyncFailed    SyncStatus = "failed"
	SyncRetrying  SyncStatus = "retrying"
)

var syncTransitions = map[SyncStatus][]SyncStatus{
	SyncPending:  {SyncRunning},
	SyncRunning:  {SyncSucceeded, SyncFailed, SyncRetrying},
	SyncRetrying: {SyncRunning, SyncFailed},
}

// Valid reports whether s is a known sync status.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncPending, SyncRunning, SyncSucceeded, SyncFailed, SyncRetrying:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s SyncStatus) Terminal() bool {
	return s == SyncSucceeded || s == SyncFailed
}

// CanTransitionTo reports whether a job in status s may move to next.
func (s SyncStatus) CanTransitionTo(next SyncStatus) bool {
	for _, allowed := range syncTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SyncJob is one data-pull attempt for a (store, source) pair. Cursor is an
// opaque resume token owned by the ingestion worker.
type SyncJob struct {
	ID           string     `json:"id" db:"id"`
	OrgID        string     `json:"orgId" db:"org_id"`
	StoreID      string     `json:"storeId" db:"store_id"`
	Source       Source     `json:"source" db:"source"`
	Status       SyncStatus `json:"status" db:"status"`
	Cursor       *string    `json:"cursor,omitempty" db:"cursor"`
	StartedAt    *time.Time `json:"startedAt,omitempty" db:"started_at"`
	CompletedAt  *time.Time `json:"completedAt,omitempty" db:"completed_at"`
	DurationMs   *int64     `json:"durationMs,omitempty" db:"duration_ms"`
	ErrorDetails JSONMap    `json:"errorDetails,omitempty" db:"error_details"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}
