package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseline() Result {
	return Result{
		Fields: Fields{Email: "a@x.com", Skills: []string{"docker"}},
		Confidence: Confidences{
			FieldEmail:  ScalarConfidence(0.95),
			FieldSkills: SkillConfidence(map[string]float64{"docker": 0.85}),
		},
		Model: "heuristics",
	}
}

func TestMerge_NilAugmentationKeepsBaseline(t *testing.T) {
	base := baseline()
	out := Merge(base, nil)

	assert.Equal(t, base.Fields, out.Fields)
	assert.Equal(t, "heuristics", out.Model)
	assert.Equal(t, 0.95, out.Confidence.Score(FieldEmail))
}

func TestMerge_SameValueSameConfidence(t *testing.T) {
	aug := &Result{
		Fields:     Fields{Email: "a@x.com"},
		Confidence: Confidences{FieldEmail: ScalarConfidence(0.95)},
		Model:      "gpt-4o-mini",
	}
	out := Merge(baseline(), aug)

	assert.Equal(t, "a@x.com", out.Fields.Email)
	assert.Equal(t, 0.95, out.Confidence.Score(FieldEmail))
	assert.Equal(t, "heuristics+gpt-4o-mini", out.Model)
}

func TestMerge_AugmentationAddsField(t *testing.T) {
	aug := &Result{
		Fields: Fields{Email: "a@x.com", Phone: "+911234567890"},
		Confidence: Confidences{
			FieldEmail: ScalarConfidence(0.95),
			FieldPhone: ScalarConfidence(0.9),
		},
		Model: "gpt-4o-mini",
	}
	out := Merge(baseline(), aug)

	assert.Equal(t, "+911234567890", out.Fields.Phone)
	assert.Equal(t, 0.9, out.Confidence.Score(FieldPhone))
	assert.Equal(t, 0.95, out.Confidence.Score(FieldEmail))
}

func TestMerge_EmptyValuesNeverClobber(t *testing.T) {
	base := baseline()
	base.Fields.Company = "Acme"
	base.Confidence[FieldCompany] = ScalarConfidence(0.55)

	aug := &Result{
		Fields: Fields{Name: "Jane Doe"},
		Confidence: Confidences{
			FieldName:    ScalarConfidence(0.9),
			FieldCompany: ScalarConfidence(0),
			FieldPhone:   ScalarConfidence(0),
		},
		Model: "m",
	}
	out := Merge(base, aug)

	assert.Equal(t, "Acme", out.Fields.Company)
	assert.Equal(t, 0.55, out.Confidence.Score(FieldCompany))
	assert.Equal(t, []string{"docker"}, out.Fields.Skills)
	_, hasPhone := out.Confidence[FieldPhone]
	assert.False(t, hasPhone, "zero score for an absent field must not appear")
}

func TestMerge_ConfidenceNeverDecreases(t *testing.T) {
	base := baseline()
	aug := &Result{
		Fields:     Fields{Email: "b@x.com"},
		Confidence: Confidences{FieldEmail: ScalarConfidence(0.5)},
		Model:      "m",
	}
	out := Merge(base, aug)

	assert.Equal(t, "b@x.com", out.Fields.Email)
	assert.Equal(t, 0.95, out.Confidence.Score(FieldEmail))
}

func TestMerge_SkillsReplacedAndScoredPerSkill(t *testing.T) {
	aug := &Result{
		Fields:     Fields{Skills: []string{"docker", "go"}},
		Confidence: Confidences{FieldSkills: SkillConfidence(map[string]float64{"docker": 0.9, "go": 0.9})},
		Model:      "m",
	}
	out := Merge(baseline(), aug)

	require.Equal(t, []string{"docker", "go"}, out.Fields.Skills)
	skills, ok := out.Confidence[FieldSkills].Skills()
	require.True(t, ok)
	assert.Equal(t, map[string]float64{"docker": 0.9, "go": 0.9}, skills)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := baseline()
	aug := &Result{
		Fields:     Fields{Skills: []string{"go"}},
		Confidence: Confidences{FieldSkills: SkillConfidence(map[string]float64{"go": 0.9})},
		Model:      "m",
	}
	_ = Merge(base, aug)

	assert.Equal(t, []string{"docker"}, base.Fields.Skills)
	skills, _ := base.Confidence[FieldSkills].Skills()
	assert.Equal(t, map[string]float64{"docker": 0.85}, skills)
}
