package pipeline

import (
	"time"

	"github.com/joseph-ayodele/resume-parser/constants"
)

// Config holds behavior flags for a run. It is fixed at construction so tests can inject any combination.
type Config struct {
	AugmentEnabled     bool
	AugmentTimeout     time.Duration // 0 means no extra deadline beyond ctx
	MaxStoredTextChars int           // default constants.MaxStoredTextChars
}

func (c Config) withDefaults() Config {
	if c.MaxStoredTextChars <= 0 {
		c.MaxStoredTextChars = constants.MaxStoredTextChars
	}
	if c.AugmentTimeout < 0 {
		c.AugmentTimeout = 0
	}
	return c
}
