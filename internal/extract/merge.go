package extract

import (
	"slices"

	"github.com/joseph-ayodele/resume-parser/constants"
)

// Merge folds an augmentation result over a baseline. Non-empty augmentation values
// win; confidences only rise. A nil or empty aug leaves base untouched.
func Merge(base Result, aug *Result) Result {
	out := Result{
		Fields:     base.Fields.Clone(),
		Confidence: base.Confidence.Clone(),
		Model:      base.Model,
	}
	if out.Model == "" {
		out.Model = constants.ModelHeuristics
	}
	if aug == nil || aug.Fields.IsEmpty() {
		return out
	}

	for _, f := range ScalarFields {
		if v := aug.Fields.Get(f); v != "" {
			out.Fields.Set(f, v)
		}
	}
	if len(aug.Fields.Skills) > 0 {
		out.Fields.Skills = slices.Clone(aug.Fields.Skills)
	}

	for f, c := range aug.Confidence {
		prev, ok := out.Confidence[f]
		if !ok && !out.Fields.Has(f) {
			// a zero score for a field nobody found
			continue
		}
		if f == FieldSkills {
			out.Confidence[f] = mergeSkillConfidence(prev, c, out.Fields.Skills)
			continue
		}
		a, _ := prev.Scalar()
		b, _ := c.Scalar()
		out.Confidence[f] = ScalarConfidence(max(a, b))
	}

	if aug.Model != "" {
		out.Model = constants.ModelHeuristics + "+" + aug.Model
	}
	return out
}

// mergeSkillConfidence takes the per-skill max, restricted to the skills that survived the merge.
func mergeSkillConfidence(a, b Confidence, skills []string) Confidence {
	out := make(map[string]float64, len(skills))
	for _, s := range skills {
		out[s] = max(a.SkillScore(s), b.SkillScore(s))
	}
	return SkillConfidence(out)
}
