package llm

import (
	"context"

	"github.com/joseph-ayodele/resume-parser/internal/extract"
)

// Augmenter is an optional second extraction pass backed by a structured-completion model.
// Implementations return an error on any transport or contract failure; callers decide
// whether that is fatal.
type Augmenter interface {
	Augment(ctx context.Context, text string) (*extract.Result, error)
	Model() string
}

// Confidence assigned to each field the model returned.
const (
	ConfName        = 0.9
	ConfEmail       = 0.95
	ConfPhone       = 0.9
	ConfCompany     = 0.75
	ConfDesignation = 0.75
	ConfSkill       = 0.9
)

// DefaultTemperature keeps the model close to the source text.
const DefaultTemperature float32 = 0.2
