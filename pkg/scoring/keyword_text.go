package scoring

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ScoreKeywordText awards points in proportion to the keywords contained in a
// free-text answer. Matching is case-folded substring containment, so
// "database" satisfies the keyword "data".
func ScoreKeywordText(rule KeywordTextRule, answer Value) QuestionScore {
	max := rule.MaxPoints

	text, ok := answer.String()
	if !ok {
		return QuestionScore{Max: max, Reason: "Invalid answer type for text question"}
	}
	if strings.TrimSpace(text) == "" {
		return QuestionScore{Max: max, Reason: "Empty answer provided"}
	}
	if len(rule.Keywords) == 0 {
		return QuestionScore{Max: max, Reason: "Invalid scoring configuration: no keywords defined"}
	}

	// A Caser keeps state between calls and must not be shared.
	fold := cases.Fold()
	folded := fold.String(text)

	var matched []string
	for _, kw := range rule.Keywords {
		if strings.Contains(folded, fold.String(kw)) {
			matched = append(matched, kw)
		}
	}

	total := len(rule.Keywords)
	ratio := float64(len(matched)) / float64(total)

	if rule.MinimumMatchRatio != nil && ratio < *rule.MinimumMatchRatio {
		return QuestionScore{
			Max: max,
			Reason: fmt.Sprintf("Matched %d/%d keywords but below minimum ratio %s",
				len(matched), total, formatNumber(*rule.MinimumMatchRatio)),
		}
	}

	reason := fmt.Sprintf("Matched 0/%d keywords", total)
	if len(matched) > 0 {
		reason = fmt.Sprintf("Matched %d/%d keywords: %s", len(matched), total, strings.Join(matched, ", "))
	}

	return QuestionScore{
		Awarded: round2(clamp(ratio*max, max)),
		Max:     max,
		Reason:  reason,
	}
}
