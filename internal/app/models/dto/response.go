package dto

// APIResponse is the envelope of every JSON answer
type APIResponse struct {
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// PaginationInfo describes one page of a list
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// SiteResponse carries the site-wide settings clients render with
type SiteResponse struct {
	SiteName          string `json:"siteName"`
	GAMeasurementID   string `json:"gaMeasurementId,omitempty"`
	AddMaterialURL    string `json:"addMaterialUrl"`
	AddOpportunityURL string `json:"addOpportunityUrl"`
	DataSource        string `json:"dataSource"`
	LiveData          bool   `json:"liveData"`
}

// HealthResponse is returned by the liveness check
type HealthResponse struct {
	Status     string `json:"status"`
	DataSource string `json:"dataSource"`
}
