package dto

type DocumentResponse struct {
	ID               string `json:"id"`
	OriginalFilename string `json:"original_filename"`
	Extension        string `json:"extension"`
	FileSize         int64  `json:"file_size"`
	FileURL          string `json:"file_url"`
	ExtractedText    string `json:"extracted_text,omitempty"`
	UploadedAt       string `json:"uploaded_at"`
}

type UploadDocumentResponse struct {
	Success  bool             `json:"success"`
	Document DocumentResponse `json:"document"`
}

type StatsResponse struct {
	TotalDocuments int64   `json:"total_documents"`
	TotalJobs      int64   `json:"total_jobs"`
	CompletedJobs  int64   `json:"completed_jobs"`
	FailedJobs     int64   `json:"failed_jobs"`
	SuccessRate    float64 `json:"success_rate"`
}
