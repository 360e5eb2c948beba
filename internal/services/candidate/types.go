package candidate

import (
	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-parser/constants"
)

// UploadRequest carries one uploaded résumé file.
type UploadRequest struct {
	Filename    string
	ContentType string
	Content     []byte
	TraceID     string
}

type UploadResult struct {
	CandidateID uuid.UUID             `json:"candidate_id"`
	ResumeID    uuid.UUID             `json:"resume_id"`
	Status      constants.ParseStatus `json:"status"`
	Message     string                `json:"message"`
}

// Summary is the list view of a candidate with contact details masked.
type Summary struct {
	ID               uuid.UUID             `json:"id"`
	Name             string                `json:"name"`
	Email            string                `json:"email"`
	Phone            string                `json:"phone"`
	LatestCompany    string                `json:"latest_company"`
	Designation      string                `json:"designation"`
	ExtractionStatus constants.ParseStatus `json:"extraction_status"`
	CreatedAt        string                `json:"created_at"`
}

type FieldValue struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Masked     string  `json:"masked,omitempty"`
}

type SkillValue struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type ProfileFields struct {
	Name        FieldValue   `json:"name"`
	Email       FieldValue   `json:"email"`
	Phone       FieldValue   `json:"phone"`
	Company     FieldValue   `json:"company"`
	Designation FieldValue   `json:"designation"`
	Skills      []SkillValue `json:"skills"`
	ModelName   string       `json:"model_name"`
	ExtractedAt *string      `json:"extracted_at"`
}

// Profile is the detail view built from the candidate and its latest extraction.
type Profile struct {
	ID               uuid.UUID             `json:"id"`
	Profile          ProfileFields         `json:"profile"`
	ExtractionStatus constants.ParseStatus `json:"extraction_status"`
	CreatedAt        string                `json:"created_at"`
	UpdatedAt        string                `json:"updated_at"`
}

type ResumeSummary struct {
	ID           uuid.UUID             `json:"id"`
	OriginalName string                `json:"original_name"`
	MimeType     string                `json:"mime_type"`
	SizeBytes    int64                 `json:"size_bytes"`
	Status       constants.ParseStatus `json:"status"`
	UploadedAt   string                `json:"uploaded_at"`
}

// RecoveryReport summarizes a RecoverPending pass.
type RecoveryReport struct {
	StaleExtractions int64 `json:"stale_extractions"`
	Requeued         int   `json:"requeued"`
	Failed           int   `json:"failed"`
}
