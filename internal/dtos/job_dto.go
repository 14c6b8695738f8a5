package dtos

type SaveJobRequest struct {
	ExternalID  string `json:"external_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	CompanyName string `json:"company_name" binding:"required"`
	ApplyLink   string `json:"apply_link"`

	// Optional; defaults to SAVED
	Status string `json:"status"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type JobExtractionRequest struct {
	RawHTML string `json:"raw_html" binding:"required"`
	URL     string `json:"url"`
}

type SearchRequest struct {
	Query          string `json:"query" binding:"required"`
	EmploymentType string `json:"employment_type"`
	RemoteOnly     bool   `json:"remote_only"`
	Requirements   string `json:"requirements"`
	DatePosted     string `json:"date_posted"`
}

type ConnectCallbackRequest struct {
	Code string `json:"code" binding:"required"`
}
