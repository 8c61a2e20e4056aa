package scoring_test

import (
	"strings"
	"testing"

	"github.com/applyscore/applyscore/pkg/scoring"
)

func TestScoreMultiChoice(t *testing.T) {
	abc := []string{"A", "B", "C"}

	tests := []struct {
		name       string
		rule       scoring.MultiChoiceRule
		answer     scoring.Value
		wantPoints float64
		wantReason string
	}{
		{
			name:       "all correct",
			rule:       scoring.MultiChoiceRule{MaxPoints: 10, CorrectOptions: abc},
			answer:     scoring.StringsValue("A", "B", "C"),
			wantPoints: 10,
			wantReason: "Matched 3/3 correct options",
		},
		{
			name:       "partial",
			rule:       scoring.MultiChoiceRule{MaxPoints: 10, CorrectOptions: abc},
			answer:     scoring.StringsValue("A", "B"),
			wantPoints: 6.67,
			wantReason: "Matched 2/3 correct options",
		},
		{
			name:       "extras with penalty",
			rule:       scoring.MultiChoiceRule{MaxPoints: 10, CorrectOptions: abc, PenalizeExtras: true},
			answer:     scoring.StringsValue("A", "B", "X"),
			wantPoints: 5.33,
			wantReason: "Matched 2/3 correct options (penalty applied for extra selections)",
		},
		{
			name:       "extras without penalty",
			rule:       scoring.MultiChoiceRule{MaxPoints: 10, CorrectOptions: abc},
			answer:     scoring.StringsValue("A", "B", "X"),
			wantPoints: 6.67,
			wantReason: "Matched 2/3 correct options",
		},
		{
			name:       "all correct plus extra penalized",
			rule:       scoring.MultiChoiceRule{MaxPoints: 10, CorrectOptions: abc, PenalizeExtras: true},
			answer:     scoring.StringsValue("A", "B", "C", "D"),
			wantPoints: 8,
			wantReason: "Matched 3/3 correct options (penalty applied for extra selections)",
		},
		{
			name:       "only wrong options",
			rule:       scoring.MultiChoiceRule{MaxPoints: 10, CorrectOptions: abc, PenalizeExtras: true},
			answer:     scoring.StringsValue("X", "Y"),
			wantPoints: 0,
			wantReason: "Matched 0/3 correct options (penalty applied for extra selections)",
		},
		{
			name:       "duplicates do not inflate matches",
			rule:       scoring.MultiChoiceRule{MaxPoints: 10, CorrectOptions: abc},
			answer:     scoring.StringsValue("A", "A", "A"),
			wantPoints: 3.33,
			wantReason: "Matched 1/3 correct options",
		},
		{
			name:       "empty selection",
			rule:       scoring.MultiChoiceRule{MaxPoints: 10, CorrectOptions: abc},
			answer:     scoring.StringsValue(),
			wantPoints: 0,
			wantReason: "No options selected",
		},
		{
			name:       "string instead of sequence",
			rule:       scoring.MultiChoiceRule{MaxPoints: 10, CorrectOptions: abc},
			answer:     scoring.StringValue("A"),
			wantPoints: 0,
			wantReason: "Invalid answer type for multi choice question",
		},
		{
			name:       "sequence with non-string element",
			rule:       scoring.MultiChoiceRule{MaxPoints: 10, CorrectOptions: abc},
			answer:     scoring.RawValue([]any{"A", 2.0}),
			wantPoints: 0,
			wantReason: "Invalid answer type for multi choice question",
		},
		{
			name:       "no correct options configured",
			rule:       scoring.MultiChoiceRule{MaxPoints: 10},
			answer:     scoring.StringsValue("A"),
			wantPoints: 0,
			wantReason: "Invalid scoring configuration: no correct options defined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoring.ScoreMultiChoice(tt.rule, tt.answer)
			if got.Awarded != tt.wantPoints {
				t.Errorf("expected %v points, got %v", tt.wantPoints, got.Awarded)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, got.Reason)
			}
			if got.Awarded < 0 || got.Awarded > got.Max {
				t.Errorf("awarded %v outside [0, %v]", got.Awarded, got.Max)
			}
		})
	}
}

func TestScoreMultiChoiceDecodedSequence(t *testing.T) {
	// Answers decoded from JSON arrive as []any.
	rule := scoring.MultiChoiceRule{MaxPoints: 15, CorrectOptions: []string{"Airflow", "Prefect"}}
	got := scoring.ScoreMultiChoice(rule, scoring.RawValue([]any{"Airflow", "Prefect"}))
	if got.Awarded != 15 {
		t.Errorf("expected 15 points, got %v", got.Awarded)
	}
}

func TestScoreMultiChoiceMonotonicInMatches(t *testing.T) {
	correct := []string{"a", "b", "c", "d", "e"}
	for _, penalize := range []bool{false, true} {
		rule := scoring.MultiChoiceRule{MaxPoints: 12, CorrectOptions: correct, PenalizeExtras: penalize}
		prev := -1.0
		for m := 1; m <= len(correct); m++ {
			got := scoring.ScoreMultiChoice(rule, scoring.StringsValue(correct[:m]...))
			if got.Awarded < prev {
				t.Errorf("penalize=%v: award decreased from %v to %v at %d matches", penalize, prev, got.Awarded, m)
			}
			prev = got.Awarded
		}
	}
}

func TestEnginePenaltyFactorIsConfigurable(t *testing.T) {
	rule := scoring.MultiChoiceRule{MaxPoints: 10, CorrectOptions: []string{"A", "B"}, PenalizeExtras: true}
	answer := scoring.StringsValue("A", "B", "Z")

	if got := scoring.NewEngine().ScoreQuestion(rule, answer); got.Awarded != 8 {
		t.Errorf("expected default penalty to award 8, got %v", got.Awarded)
	}

	engine := scoring.NewEngine(scoring.WithExtraSelectionPenalty(0.5))
	if got := engine.ScoreQuestion(rule, answer); got.Awarded != 5 {
		t.Errorf("expected 0.5 penalty to award 5, got %v", got.Awarded)
	}

	engine = scoring.NewEngine(scoring.WithExtraSelectionPenalty(1.5))
	if engine.Weights().ExtraSelectionPenalty != scoring.DefaultExtraSelectionPenalty {
		t.Errorf("expected out-of-range factor to be ignored, got %v", engine.Weights().ExtraSelectionPenalty)
	}
}

func TestScoreMultiChoiceReasonNotesPenalty(t *testing.T) {
	rule := scoring.MultiChoiceRule{MaxPoints: 10, CorrectOptions: []string{"A"}, PenalizeExtras: true}
	got := scoring.ScoreMultiChoice(rule, scoring.StringsValue("A"))
	if strings.Contains(got.Reason, "penalty") {
		t.Errorf("expected no penalty note without extras, got %q", got.Reason)
	}
}
