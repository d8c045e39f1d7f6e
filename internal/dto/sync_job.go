package dto

import (
	"time"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// RequestSyncRequest asks for a new sync of one source.
type RequestSyncRequest struct {
	Source string `json:"source" binding:"required,integration_source"`
}

// ListSyncJobsQuery holds the query parameters of the job list.
type ListSyncJobsQuery struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	PageToken string `form:"pageToken"`
}

// SyncJobResponse defines data returned for a sync job.
type SyncJobResponse struct {
	ID           string         `json:"id"`
	StoreID      string         `json:"storeId"`
	Source       string         `json:"source"`
	Status       string         `json:"status"`
	StartedAt    *time.Time     `json:"startedAt,omitempty"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	DurationMs   *int64         `json:"durationMs,omitempty"`
	ErrorDetails domain.JSONMap `json:"errorDetails,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// ToSyncJobResponse converts domain.SyncJob to DTO. The cursor stays internal.
func ToSyncJobResponse(j *domain.SyncJob) SyncJobResponse {
	return SyncJobResponse{
		ID:           j.ID,
		StoreID:      j.StoreID,
		Source:       string(j.Source),
		Status:       string(j.Status),
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
		DurationMs:   j.DurationMs,
		ErrorDetails: j.ErrorDetails,
		CreatedAt:    j.CreatedAt,
	}
}

// ListSyncJobsResponse is one page of sync jobs.
type ListSyncJobsResponse struct {
	Jobs []SyncJobResponse `json:"jobs"`
	PageInfo
}

// ToListSyncJobsResponse converts a page of jobs to DTO.
func ToListSyncJobsResponse(js []domain.SyncJob, next string) ListSyncJobsResponse {
	list := make([]SyncJobResponse, len(js))
	for i := range js {
		list[i] = ToSyncJobResponse(&js[i])
	}
	return ListSyncJobsResponse{Jobs: list, PageInfo: PageInfo{NextPageToken: next}}
}
