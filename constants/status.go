package constants

import "strings"

// ParseStatus is the canonical status for candidates and resumes.
type ParseStatus string

// Stable values (store these exact strings in DB).
const (
	ParseStatusPending ParseStatus = "PENDING" // created, nothing queued yet
	ParseStatusParsing ParseStatus = "PARSING" // queued or in progress
	ParseStatusParsed  ParseStatus = "PARSED"
	ParseStatusFailed  ParseStatus = "FAILED"
)

// ExtractionStatus is the canonical status for rows in extractions.
type ExtractionStatus string

const (
	ExtractionStatusStarted   ExtractionStatus = "STARTED"
	ExtractionStatusCompleted ExtractionStatus = "COMPLETED"
	ExtractionStatusFailed    ExtractionStatus = "FAILED"
)

// Terminal reports whether no further transitions are expected.
func (s ExtractionStatus) Terminal() bool {
	return s == ExtractionStatusCompleted || s == ExtractionStatusFailed
}

// LookupParseStatus matches s case-insensitively against the known statuses.
func LookupParseStatus(s string) (ParseStatus, bool) {
	switch ParseStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case ParseStatusPending:
		return ParseStatusPending, true
	case ParseStatusParsing:
		return ParseStatusParsing, true
	case ParseStatusParsed:
		return ParseStatusParsed, true
	case ParseStatusFailed:
		return ParseStatusFailed, true
	}
	return "", false
}
