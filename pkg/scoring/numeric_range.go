package scoring

import (
	"fmt"
	"math"
)

// ScoreNumericRange awards full points when answer lies in [Min, Max],
// inclusive at both ends. There is no partial credit.
func ScoreNumericRange(rule NumericRangeRule, answer Value) QuestionScore {
	max := rule.MaxPoints

	n, ok := answer.Number()
	if !ok {
		return QuestionScore{Max: max, Reason: "Invalid answer type for number question"}
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return QuestionScore{Max: max, Reason: "Answer must be a finite number"}
	}

	lo, hi := formatNumber(rule.Min), formatNumber(rule.Max)
	if n < rule.Min || n > rule.Max {
		return QuestionScore{
			Max:    max,
			Reason: fmt.Sprintf("Number %s is out of range [%s, %s]", formatNumber(n), lo, hi),
		}
	}
	return QuestionScore{
		Awarded: clamp(max, max),
		Max:     max,
		Reason:  fmt.Sprintf("Number within range [%s, %s]", lo, hi),
	}
}
