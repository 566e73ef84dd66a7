package dto

type ChatMessageRequest struct {
	Type    string `json:"type" validate:"oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type ChatMessageResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type JobResponse struct {
	ID            string `json:"id"`
	DocumentID    string `json:"document_id"`
	Query         string `json:"query"`
	RawCompletion string `json:"raw_completion,omitempty"`
	ParseTier     string `json:"parse_tier,omitempty"`
	Status        string `json:"status"`
	ErrorMessage  string `json:"error_message,omitempty"`
	StartedAt     string `json:"started_at"`
	CompletedAt   string `json:"completed_at,omitempty"`
	DurationMs    int64  `json:"duration_ms"`
}
