package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded file with its extracted text.
// ExtractedText is populated exactly once, at upload time; documents whose
// extraction failed are never persisted.
type Document struct {
	ID               uuid.UUID `db:"id"`
	UserID           uuid.UUID `db:"user_id"`
	OriginalFilename string    `db:"original_filename"`
	StoredPath       string    `db:"stored_path"`
	Extension        string    `db:"extension"`
	FileSize         int64     `db:"file_size"`
	MimeType         string    `db:"mime_type"`
	ExtractedText    string    `db:"extracted_text"`
	UploadedAt       time.Time `db:"uploaded_at"`
}
