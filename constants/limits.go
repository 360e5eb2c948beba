package constants

const (
	// MaxStoredTextChars bounds extractions.raw_text; extraction itself sees the full text.
	MaxStoredTextChars = 300000
	// MaxAugmentChars bounds the snippet sent to the augmentation model.
	MaxAugmentChars = 12000

	DefaultMaxUploadMB = 10

	ModelHeuristics = "heuristics"
)
