package scoring

import "fmt"

// ScoreMultiChoice awards points in proportion to the distinct correct options
// selected, using the default extra-selection penalty.
func ScoreMultiChoice(rule MultiChoiceRule, answer Value) QuestionScore {
	return scoreMultiChoice(rule, answer, DefaultExtraSelectionPenalty)
}

func scoreMultiChoice(rule MultiChoiceRule, answer Value, penalty float64) QuestionScore {
	max := rule.MaxPoints

	selected, ok := answer.Strings()
	if !ok {
		return QuestionScore{Max: max, Reason: "Invalid answer type for multi choice question"}
	}
	if len(selected) == 0 {
		return QuestionScore{Max: max, Reason: "No options selected"}
	}

	correct := toSet(rule.CorrectOptions)
	if len(correct) == 0 {
		return QuestionScore{Max: max, Reason: "Invalid scoring configuration: no correct options defined"}
	}

	// Matches count set membership, so repeating an option earns nothing.
	matched := make(map[string]struct{}, len(selected))
	hasExtras := false
	for _, s := range selected {
		if _, ok := correct[s]; ok {
			matched[s] = struct{}{}
		} else {
			hasExtras = true
		}
	}

	awarded := float64(len(matched)) / float64(len(correct)) * max
	penalized := hasExtras && rule.PenalizeExtras
	if penalized {
		awarded *= penalty
	}

	reason := fmt.Sprintf("Matched %d/%d correct options", len(matched), len(correct))
	if penalized {
		reason += " (penalty applied for extra selections)"
	}

	return QuestionScore{
		Awarded: round2(clamp(awarded, max)),
		Max:     max,
		Reason:  reason,
	}
}

func toSet(ss []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		m[s] = struct{}{}
	}
	return m
}
