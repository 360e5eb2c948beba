package server

import (
	"github.com/joseph-ayodele/resume-parser/internal/services/candidate"
)

type UploadResumeRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

type UploadResumeResponse struct {
	Result candidate.UploadResult `json:"result"`
}

type ListCandidatesRequest struct{}

type ListCandidatesResponse struct {
	Candidates []candidate.Summary `json:"candidates"`
}

type GetCandidateRequest struct {
	ID string `json:"id"`
}

type GetCandidateResponse struct {
	Candidate *candidate.Profile        `json:"candidate"`
	Resumes   []candidate.ResumeSummary `json:"resumes"`
}

type ExportCandidatesRequest struct {
	IncludeContact bool   `json:"include_contact"`
	Status         string `json:"status"`
}

type ExportCandidatesResponse struct {
	Xlsx []byte `json:"xlsx"`
}
