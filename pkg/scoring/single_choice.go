package scoring

import (
	"fmt"
	"strings"
)

// ScoreSingleChoice awards full points when answer is exactly the correct
// option. Matching is case-sensitive; only blankness is checked after trimming.
func ScoreSingleChoice(rule SingleChoiceRule, answer Value) QuestionScore {
	max := rule.MaxPoints

	selected, ok := answer.String()
	if !ok {
		return QuestionScore{Max: max, Reason: "Invalid answer type for single choice question"}
	}
	if strings.TrimSpace(selected) == "" {
		return QuestionScore{Max: max, Reason: "Empty answer provided"}
	}

	if selected != rule.CorrectOption {
		return QuestionScore{
			Max:    max,
			Reason: fmt.Sprintf(`Selected "%s" but correct option is "%s"`, selected, rule.CorrectOption),
		}
	}
	return QuestionScore{
		Awarded: clamp(max, max),
		Max:     max,
		Reason:  "Matched correct option",
	}
}
