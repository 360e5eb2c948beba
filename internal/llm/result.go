package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/joseph-ayodele/resume-parser/internal/extract"
)

// ParseAugmentation validates a model's JSON content against the contract, applying a
// lenient sanitize pass when strict validation fails, and builds a scored result.
func ParseAugmentation(content []byte, model string, logger *slog.Logger) (*extract.Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := ValidateJSONAgainstSchema(content); err != nil {
		cleaned, dropped, sErr := NormalizeAndSanitizeJSON(content, logger)
		if sErr != nil {
			return nil, fmt.Errorf("sanitize failed: %w", sErr)
		}
		if vErr := ValidateJSONAgainstSchema(cleaned); vErr != nil {
			return nil, fmt.Errorf("schema validation failed: %w", vErr)
		}
		logger.Warn("llm.augment.lenient_sanitize_applied", "model", model, "dropped", dropped, "cause", err)
		content = cleaned
	}

	var m map[string]any
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	var fields extract.Fields
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &fields,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	_, hasSkills := m["skills"].([]any)
	return BuildResult(tidy(fields), hasSkills, model), nil
}

// BuildResult scores model output by field: a fixed confidence when present, 0 otherwise.
// Skills are scored only when the model returned a list.
func BuildResult(f extract.Fields, skillsListed bool, model string) *extract.Result {
	score := func(v string, c float64) extract.Confidence {
		if v == "" {
			return extract.ScalarConfidence(0)
		}
		return extract.ScalarConfidence(c)
	}
	conf := extract.Confidences{
		extract.FieldName:        score(f.Name, ConfName),
		extract.FieldEmail:       score(f.Email, ConfEmail),
		extract.FieldPhone:       score(f.Phone, ConfPhone),
		extract.FieldCompany:     score(f.Company, ConfCompany),
		extract.FieldDesignation: score(f.Designation, ConfDesignation),
	}
	if skillsListed {
		scores := make(map[string]float64, len(f.Skills))
		for _, s := range f.Skills {
			scores[s] = ConfSkill
		}
		conf[extract.FieldSkills] = extract.SkillConfidence(scores)
	}
	return &extract.Result{Fields: f, Confidence: conf, Model: model}
}

func tidy(f extract.Fields) extract.Fields {
	for _, k := range extract.ScalarFields {
		f.Set(k, strings.TrimSpace(f.Get(k)))
	}
	seen := make(map[string]struct{}, len(f.Skills))
	skills := make([]string, 0, len(f.Skills))
	for _, s := range f.Skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		skills = append(skills, s)
	}
	if len(skills) == 0 {
		skills = nil
	}
	f.Skills = skills
	return f
}
