package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-parser/constants"
)

// Candidate is the canonical person record derived from uploaded résumés.
type Candidate struct {
	ID               uuid.UUID             `json:"id"`
	Name             string                `json:"name"`
	PrimaryEmail     string                `json:"primary_email"`
	PrimaryPhone     string                `json:"primary_phone"`
	LatestCompany    string                `json:"latest_company"`
	Designation      string                `json:"designation"`
	ExtractionStatus constants.ParseStatus `json:"extraction_status"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}
