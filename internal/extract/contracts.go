package extract

import (
	"context"
	"time"
)

// Document is a stored resume file as handed to stage 1.
type Document struct {
	Data        []byte
	Filename    string
	ContentType string // declared; may be empty or wrong
}

// TextExtractor is Stage 1: file bytes -> text.
type TextExtractor interface {
	Extract(ctx context.Context, doc Document) (TextResult, error)
}

type TextResult struct {
	Text     string
	Pages    int
	Format   string // constants.PDF | constants.DOCX
	Method   string // "pdf-text" | "docx-xml"
	Duration time.Duration
	Warnings []string
}

// FieldExtractor is Stage 2: text -> fields (rules or model).
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string) (Result, error)
}

// Result is one extractor's view of a resume.
type Result struct {
	Fields     Fields      `json:"fields"`
	Confidence Confidences `json:"confidence"`
	Model      string      `json:"model_name"`
}
