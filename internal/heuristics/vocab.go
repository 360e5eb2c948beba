package heuristics

import "regexp"

// Confidence assigned to each heuristic hit.
const (
	confName        = 0.6
	confEmail       = 0.95
	confPhone       = 0.9
	confCompany     = 0.55
	confDesignation = 0.6
	confSkill       = 0.85
)

const (
	nameScanLines        = 10
	designationScanLines = 30
	companyWindow        = 120 // runes after a hint
	defaultRegion        = "IN"
)

// skillTokens is the recognized vocabulary; "postgres" is reported as "postgresql".
var skillTokens = map[string]string{
	"python":     "python",
	"django":     "django",
	"flask":      "flask",
	"react":      "react",
	"javascript": "javascript",
	"typescript": "typescript",
	"postgres":   "postgresql",
	"postgresql": "postgresql",
	"sqlite":     "sqlite",
	"redis":      "redis",
	"docker":     "docker",
	"kubernetes": "kubernetes",
	"aws":        "aws",
	"gcp":        "gcp",
	"azure":      "azure",
	"celery":     "celery",
	"langchain":  "langchain",
	"pytorch":    "pytorch",
	"tensorflow": "tensorflow",
	"nlp":        "nlp",
	"llm":        "llm",
	"openai":     "openai",
	"anthropic":  "anthropic",
	"gpt":        "gpt",
	"fastapi":    "fastapi",
}

var designationHints = []string{
	"software engineer", "senior software", "sde", "developer",
	"data scientist", "machine learning", "ml engineer",
	"frontend", "backend", "full stack", "tech lead", "engineering manager",
}

// companyHints are searched in this order.
var companyHints = []string{" at ", " @ ", "experience", "work history", "employment"}

var (
	emailRe   = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	companyRe = regexp.MustCompile(`(?:\bat|\s@)\s+([A-Z][A-Za-z0-9& ._-]{2,})`)
	tokenRe   = regexp.MustCompile(`[a-z0-9+#.]+`)

	// phone candidates stay on one line
	phoneCandidateRe = regexp.MustCompile(`\+?\(?\d[\d \t().-]{5,}\d`)
	phoneFallbackRe  = regexp.MustCompile(`(?:\+91[-\s]?)?\b[6-9]\d{9}\b`)
	yearRangeRe      = regexp.MustCompile(`^(?:19|20)\d{2}\s*[-./]\s*(?:19|20)\d{2}$`)
)
