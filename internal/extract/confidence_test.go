package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidence_Clamp(t *testing.T) {
	s, ok := ScalarConfidence(1.7).Scalar()
	require.True(t, ok)
	assert.Equal(t, 1.0, s)

	s, _ = ScalarConfidence(-3).Scalar()
	assert.Equal(t, 0.0, s)

	m, ok := SkillConfidence(map[string]float64{"go": 2}).Skills()
	require.True(t, ok)
	assert.Equal(t, 1.0, m["go"])
}

func TestConfidence_ShapeFollowsKind(t *testing.T) {
	_, ok := SkillConfidence(nil).Scalar()
	assert.False(t, ok)
	_, ok = ScalarConfidence(0.5).Skills()
	assert.False(t, ok)
}

func TestConfidences_JSONShape(t *testing.T) {
	c := Confidences{
		FieldName:   ScalarConfidence(0.6),
		FieldSkills: SkillConfidence(map[string]float64{"docker": 0.85}),
	}
	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":0.6,"skills":{"docker":0.85}}`, string(b))

	var back Confidences
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, ConfidenceScalar, back[FieldName].Kind())
	assert.Equal(t, ConfidenceSkills, back[FieldSkills].Kind())
	assert.Equal(t, 0.85, back[FieldSkills].SkillScore("docker"))
}

func TestFields_JSONOmitsEmpty(t *testing.T) {
	b, err := json.Marshal(Fields{Name: "Jane Doe", Skills: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Jane Doe"}`, string(b))
}
