package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-parser/constants"
)

// Resume is one uploaded document. Content is only populated by reads that ask for it.
type Resume struct {
	ID           uuid.UUID             `json:"id"`
	CandidateID  uuid.UUID             `json:"candidate_id"`
	OriginalName string                `json:"original_name"`
	MimeType     string                `json:"mime_type"`
	SizeBytes    int64                 `json:"size_bytes"`
	Content      []byte                `json:"-"`
	Status       constants.ParseStatus `json:"status"`
	UploadedAt   time.Time             `json:"uploaded_at"`
}
