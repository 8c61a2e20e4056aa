package scoring

import (
	"encoding/json"
	"fmt"
)

// Rule is the grading configuration for one question. It is a closed set of
// variants, one per question type: every variant must know how to score an
// answer, so a new kind cannot be added without a scorer.
type Rule interface {
	// Kind returns the question type this rule grades.
	Kind() QuestionType
	// Points returns the maximum award for the question.
	Points() float64

	score(e *Engine, answer Value) QuestionScore
}

// SingleChoiceRule awards full points for the one correct option.
type SingleChoiceRule struct {
	MaxPoints     float64 `json:"maxPoints"`
	CorrectOption string  `json:"correctOption"`
}

// MultiChoiceRule awards partial credit per correct option selected.
type MultiChoiceRule struct {
	MaxPoints      float64  `json:"maxPoints"`
	CorrectOptions []string `json:"correctOptions"`
	PenalizeExtras bool     `json:"penalizeExtras,omitempty"`
}

// NumericRangeRule awards full points for a number inside [Min, Max].
type NumericRangeRule struct {
	MaxPoints float64 `json:"maxPoints"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// KeywordTextRule awards points in proportion to the keywords found in a
// free-text answer.
type KeywordTextRule struct {
	MaxPoints         float64  `json:"maxPoints"`
	Keywords          []string `json:"keywords"`
	MinimumMatchRatio *float64 `json:"minimumMatchRatio,omitempty"`
}

func (SingleChoiceRule) Kind() QuestionType { return TypeSingleChoice }
func (MultiChoiceRule) Kind() QuestionType  { return TypeMultiChoice }
func (NumericRangeRule) Kind() QuestionType { return TypeNumber }
func (KeywordTextRule) Kind() QuestionType  { return TypeText }

func (r SingleChoiceRule) Points() float64 { return r.MaxPoints }
func (r MultiChoiceRule) Points() float64  { return r.MaxPoints }
func (r NumericRangeRule) Points() float64 { return r.MaxPoints }
func (r KeywordTextRule) Points() float64  { return r.MaxPoints }

func (r SingleChoiceRule) score(_ *Engine, answer Value) QuestionScore {
	return ScoreSingleChoice(r, answer)
}

func (r MultiChoiceRule) score(e *Engine, answer Value) QuestionScore {
	return scoreMultiChoice(r, answer, e.weights.ExtraSelectionPenalty)
}

func (r NumericRangeRule) score(_ *Engine, answer Value) QuestionScore {
	return ScoreNumericRange(r, answer)
}

func (r KeywordTextRule) score(_ *Engine, answer Value) QuestionScore {
	return ScoreKeywordText(r, answer)
}

// The variants marshal with their kind tag inline so that a stored rule
// reads back as the same variant.

func (r SingleChoiceRule) MarshalJSON() ([]byte, error) {
	type plain SingleChoiceRule
	return json.Marshal(struct {
		Kind QuestionType `json:"kind"`
		plain
	}{r.Kind(), plain(r)})
}

func (r MultiChoiceRule) MarshalJSON() ([]byte, error) {
	type plain MultiChoiceRule
	return json.Marshal(struct {
		Kind QuestionType `json:"kind"`
		plain
	}{r.Kind(), plain(r)})
}

func (r NumericRangeRule) MarshalJSON() ([]byte, error) {
	type plain NumericRangeRule
	return json.Marshal(struct {
		Kind QuestionType `json:"kind"`
		plain
	}{r.Kind(), plain(r)})
}

func (r KeywordTextRule) MarshalJSON() ([]byte, error) {
	type plain KeywordTextRule
	return json.Marshal(struct {
		Kind QuestionType `json:"kind"`
		plain
	}{r.Kind(), plain(r)})
}

// Scoring is the JSON envelope for a Rule, discriminated by its "kind" field.
type Scoring struct {
	Rule
}

func (s Scoring) MarshalJSON() ([]byte, error) {
	if s.Rule == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.Rule)
}

func (s *Scoring) UnmarshalJSON(data []byte) error {
	var head struct {
		Kind QuestionType `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("decode scoring kind: %w", err)
	}

	var (
		rule Rule
		err  error
	)
	switch head.Kind {
	case TypeSingleChoice:
		var r SingleChoiceRule
		err = json.Unmarshal(data, &r)
		rule = r
	case TypeMultiChoice:
		var r MultiChoiceRule
		err = json.Unmarshal(data, &r)
		rule = r
	case TypeNumber:
		var r NumericRangeRule
		err = json.Unmarshal(data, &r)
		rule = r
	case TypeText:
		var r KeywordTextRule
		err = json.Unmarshal(data, &r)
		rule = r
	default:
		return fmt.Errorf("unknown scoring kind %q", head.Kind)
	}
	if err != nil {
		return fmt.Errorf("decode %s scoring: %w", head.Kind, err)
	}
	s.Rule = rule
	return nil
}
