package dto

// PageResponse is the JSON envelope for paginated listings.
type PageResponse[T any] struct {
	Items         []T   `json:"items"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	PageIndex     int   `json:"pageIndex"`
	PageSize      int   `json:"pageSize"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
