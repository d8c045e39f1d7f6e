package dto

// ErrorResponse is the body of every non-2xx JSON answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PageInfo carries the keyset cursor of a paginated list.
type PageInfo struct {
	NextPageToken string `json:"nextPageToken,omitempty"`
}
