package llm

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/resume-parser/constants"
)

// SystemPrompt constrains the model to the resume JSON contract.
const SystemPrompt = "You extract resume fields for an HR pipeline. " +
	"Return strict JSON with keys: name, email, phone, company, designation, skills. " +
	"Use E.164 for phone if possible. skills must be an array of strings."

// BuildUserPrompt trims text to the send budget and prefixes it.
func BuildUserPrompt(text string) string {
	return "Resume text:\n" + TrimText(text, constants.MaxAugmentChars)
}

// TrimText keeps at most n runes of s.
func TrimText(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	var b strings.Builder
	i := 0
	for _, r := range s {
		if i == n {
			break
		}
		b.WriteRune(r)
		i++
	}
	return b.String()
}
