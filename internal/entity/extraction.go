package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
)

// Extraction records a single pipeline run against a résumé.
type Extraction struct {
	ID           uuid.UUID                  `json:"id"`
	CandidateID  uuid.UUID                  `json:"candidate_id"`
	ResumeID     *uuid.UUID                 `json:"resume_id,omitempty"`
	RawText      string                     `json:"raw_text"`
	Fields       extract.Fields             `json:"fields"`
	Confidence   extract.Confidences        `json:"confidence"`
	ModelName    string                     `json:"model_name"`
	Status       constants.ExtractionStatus `json:"status"`
	ErrorMessage *string                    `json:"error_message,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	CompletedAt  *time.Time                 `json:"completed_at,omitempty"`
}

// Result returns the stored fields as an extraction result.
func (e *Extraction) Result() extract.Result {
	return extract.Result{Fields: e.Fields, Confidence: e.Confidence, Model: e.ModelName}
}
