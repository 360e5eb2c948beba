package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

type ConfidenceKind uint8

const (
	ConfidenceScalar ConfidenceKind = iota + 1
	ConfidenceSkills
)

// Confidence is either a single score or, for skills, a score per skill name.
// The zero value carries neither.
type Confidence struct {
	kind   ConfidenceKind
	score  float64
	skills map[string]float64
}

// ScalarConfidence builds a single-score confidence clamped to [0,1].
func ScalarConfidence(v float64) Confidence {
	return Confidence{kind: ConfidenceScalar, score: clamp01(v)}
}

// SkillConfidence builds a per-skill confidence; scores are clamped to [0,1].
func SkillConfidence(scores map[string]float64) Confidence {
	m := make(map[string]float64, len(scores))
	for k, v := range scores {
		m[k] = clamp01(v)
	}
	return Confidence{kind: ConfidenceSkills, skills: m}
}

func (c Confidence) Kind() ConfidenceKind { return c.kind }

func (c Confidence) Scalar() (float64, bool) {
	return c.score, c.kind == ConfidenceScalar
}

// Skills returns a copy of the per-skill scores.
func (c Confidence) Skills() (map[string]float64, bool) {
	if c.kind != ConfidenceSkills {
		return nil, false
	}
	return maps.Clone(c.skills), true
}

// SkillScore returns the score for one skill, 0 when unknown.
func (c Confidence) SkillScore(skill string) float64 {
	return c.skills[skill]
}

func (c Confidence) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case ConfidenceScalar:
		return json.Marshal(c.score)
	case ConfidenceSkills:
		if c.skills == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(c.skills)
	}
	return []byte("null"), nil
}

func (c *Confidence) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*c = Confidence{}
		return nil
	case b[0] == '{':
		var m map[string]float64
		if err := json.Unmarshal(b, &m); err != nil {
			return fmt.Errorf("decode skill confidence: %w", err)
		}
		*c = SkillConfidence(m)
		return nil
	default:
		var v float64
		if err := json.Unmarshal(b, &v); err != nil {
			return fmt.Errorf("decode confidence: %w", err)
		}
		*c = ScalarConfidence(v)
		return nil
	}
}

// Confidences is keyed by the same field names as Fields.
type Confidences map[Field]Confidence

func (c Confidences) Clone() Confidences {
	out := make(Confidences, len(c))
	for k, v := range c {
		if v.kind == ConfidenceSkills {
			v = SkillConfidence(v.skills)
		}
		out[k] = v
	}
	return out
}

// Score returns the scalar score for a field, 0 when absent.
func (c Confidences) Score(f Field) float64 {
	s, _ := c[f].Scalar()
	return s
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
