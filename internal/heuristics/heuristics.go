// Package heuristics extracts candidate fields from resume text with fixed rules.
// Everything here is a pure function of the input text.
package heuristics

import (
	"context"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
)

// Extractor adapts Extract to extract.FieldExtractor.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

func (Extractor) ExtractFields(_ context.Context, text string) (extract.Result, error) {
	return Extract(text), nil
}

// Extract runs every field rule over text.
func Extract(text string) extract.Result {
	norm := strings.ReplaceAll(text, "\r", "")
	lines := nonEmptyLines(norm)
	lower := strings.ToLower(norm)

	res := extract.Result{
		Confidence: extract.Confidences{},
		Model:      constants.ModelHeuristics,
	}
	set := func(f extract.Field, v string, score float64) {
		if v == "" {
			return
		}
		res.Fields.Set(f, v)
		res.Confidence[f] = extract.ScalarConfidence(score)
	}

	set(extract.FieldName, findName(lines), confName)
	set(extract.FieldEmail, emailRe.FindString(text), confEmail)
	set(extract.FieldPhone, findPhone(text), confPhone)
	set(extract.FieldCompany, findCompany(norm, lines), confCompany)
	set(extract.FieldDesignation, findDesignation(lines), confDesignation)

	if skills := findSkills(lower); len(skills) > 0 {
		res.Fields.Skills = skills
		scores := make(map[string]float64, len(skills))
		for _, s := range skills {
			scores[s] = confSkill
		}
		res.Confidence[extract.FieldSkills] = extract.SkillConfidence(scores)
	}
	return res
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// findName picks the first early line of 2-5 words that is mostly letters.
func findName(lines []string) string {
	for _, ln := range head(lines, nameScanLines) {
		words := len(strings.Fields(ln))
		if words < 2 || words > 5 {
			continue
		}
		letters := 0
		for _, r := range ln {
			if unicode.IsLetter(r) {
				letters++
			}
		}
		if float64(letters)/float64(max(1, utf8.RuneCountInString(ln))) > 0.7 {
			return ln
		}
	}
	return ""
}

// findCompany looks after each hint for "at/@ Capitalized Name", then falls back
// to the line following an "Experience" heading.
func findCompany(norm string, lines []string) string {
	runes := []rune(norm)
	lowered := make([]rune, len(runes))
	for i, r := range runes {
		lowered[i] = unicode.ToLower(r)
	}
	lower := string(lowered)

	for _, hint := range companyHints {
		bi := strings.Index(lower, hint)
		if bi < 0 {
			continue
		}
		ri := utf8.RuneCountInString(lower[:bi])
		seg := string(runes[ri:min(ri+companyWindow, len(runes))])
		m := companyRe.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		name, _, _ := strings.Cut(strings.TrimSpace(m[1]), "  ")
		if name != "" {
			return name
		}
	}

	for i, ln := range lines {
		if strings.HasPrefix(strings.ToLower(ln), "experience") {
			if i+1 < len(lines) {
				return lines[i+1]
			}
			return ""
		}
	}
	return ""
}

func findDesignation(lines []string) string {
	for _, ln := range head(lines, designationScanLines) {
		l := strings.ToLower(ln)
		for _, h := range designationHints {
			if strings.Contains(l, h) {
				return ln
			}
		}
	}
	return ""
}

// findSkills returns the sorted, deduplicated vocabulary hits in lower.
func findSkills(lower string) []string {
	seen := map[string]struct{}{}
	for _, tok := range tokenRe.FindAllString(lower, -1) {
		if canon, ok := skillTokens[tok]; ok {
			seen[canon] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

func head(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}
