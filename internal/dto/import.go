package dto

// ReelImportError represents an error for a specific row
type ReelImportError struct {
	Row   int    `json:"row"`
	Title string `json:"title,omitempty"`
	Error string `json:"error"`
}

// ReelImportDryRunResponse is the response for dry run
type ReelImportDryRunResponse struct {
	TotalRows        int               `json:"total_rows"`
	ReelsToCreate    int               `json:"reels_to_create"`
	ValidationErrors []ReelImportError `json:"validation_errors"`
}

// ReelImportResponse is the response for actual import
type ReelImportResponse struct {
	TotalRows    int               `json:"total_rows"`
	CreatedReels int               `json:"created_reels"`
	Skipped      int               `json:"skipped"`
	Errors       []ReelImportError `json:"errors"`
}
