package scoring_test

import (
	"strings"
	"testing"

	"github.com/applyscore/applyscore/pkg/scoring"
)

func ratio(f float64) *float64 { return &f }

func TestScoreKeywordText(t *testing.T) {
	keywords := []string{"ETL", "pipeline", "data", "streaming"}

	tests := []struct {
		name       string
		rule       scoring.KeywordTextRule
		answer     scoring.Value
		wantPoints float64
		wantReason string
	}{
		{
			name:       "all keywords",
			rule:       scoring.KeywordTextRule{MaxPoints: 10, Keywords: keywords},
			answer:     scoring.StringValue("Built ETL pipeline for data streaming"),
			wantPoints: 10,
			wantReason: "Matched 4/4 keywords: ETL, pipeline, data, streaming",
		},
		{
			name:       "case insensitive",
			rule:       scoring.KeywordTextRule{MaxPoints: 10, Keywords: keywords},
			answer:     scoring.StringValue("etl PIPELINE"),
			wantPoints: 5,
			wantReason: "Matched 2/4 keywords: ETL, pipeline",
		},
		{
			name:       "substring containment",
			rule:       scoring.KeywordTextRule{MaxPoints: 10, Keywords: []string{"data"}},
			answer:     scoring.StringValue("I tuned the database"),
			wantPoints: 10,
			wantReason: "Matched 1/1 keywords: data",
		},
		{
			name:       "no matches",
			rule:       scoring.KeywordTextRule{MaxPoints: 10, Keywords: keywords},
			answer:     scoring.StringValue("I like gardening"),
			wantPoints: 0,
			wantReason: "Matched 0/4 keywords",
		},
		{
			name:       "below minimum ratio",
			rule:       scoring.KeywordTextRule{MaxPoints: 10, Keywords: keywords, MinimumMatchRatio: ratio(0.75)},
			answer:     scoring.StringValue("I have ETL experience"),
			wantPoints: 0,
			wantReason: "Matched 1/4 keywords but below minimum ratio 0.75",
		},
		{
			name:       "exactly at minimum ratio",
			rule:       scoring.KeywordTextRule{MaxPoints: 10, Keywords: keywords, MinimumMatchRatio: ratio(0.5)},
			answer:     scoring.StringValue("ETL and data"),
			wantPoints: 5,
			wantReason: "Matched 2/4 keywords: ETL, data",
		},
		{
			name:       "zero minimum ratio accepts no matches",
			rule:       scoring.KeywordTextRule{MaxPoints: 10, Keywords: keywords, MinimumMatchRatio: ratio(0)},
			answer:     scoring.StringValue("nothing relevant"),
			wantPoints: 0,
			wantReason: "Matched 0/4 keywords",
		},
		{
			name:       "full minimum ratio requires every keyword",
			rule:       scoring.KeywordTextRule{MaxPoints: 10, Keywords: keywords, MinimumMatchRatio: ratio(1)},
			answer:     scoring.StringValue("ETL pipeline data"),
			wantPoints: 0,
			wantReason: "Matched 3/4 keywords but below minimum ratio 1",
		},
		{
			name:       "partial rounds to two decimals",
			rule:       scoring.KeywordTextRule{MaxPoints: 20, Keywords: []string{"a", "b", "c"}},
			answer:     scoring.StringValue("a and b are here"),
			wantPoints: 13.33,
			wantReason: "Matched 2/3 keywords: a, b",
		},
		{
			name:       "blank",
			rule:       scoring.KeywordTextRule{MaxPoints: 10, Keywords: keywords},
			answer:     scoring.StringValue("  \n "),
			wantPoints: 0,
			wantReason: "Empty answer provided",
		},
		{
			name:       "number",
			rule:       scoring.KeywordTextRule{MaxPoints: 10, Keywords: keywords},
			answer:     scoring.NumberValue(42),
			wantPoints: 0,
			wantReason: "Invalid answer type for text question",
		},
		{
			name:       "no keywords configured",
			rule:       scoring.KeywordTextRule{MaxPoints: 10},
			answer:     scoring.StringValue("ETL"),
			wantPoints: 0,
			wantReason: "Invalid scoring configuration: no keywords defined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoring.ScoreKeywordText(tt.rule, tt.answer)
			if got.Awarded != tt.wantPoints {
				t.Errorf("expected %v points, got %v", tt.wantPoints, got.Awarded)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, got.Reason)
			}
		})
	}
}

func TestScoreKeywordTextRepeatedKeyword(t *testing.T) {
	rule := scoring.KeywordTextRule{MaxPoints: 4, Keywords: []string{"ETL"}}
	for _, text := range []string{"etl pipeline", "ETLETL"} {
		got := scoring.ScoreKeywordText(rule, scoring.StringValue(text))
		if got.Awarded != 4 {
			t.Errorf("%q: expected 4 points, got %v", text, got.Awarded)
		}
	}
}

func TestScoreKeywordTextUnicodeFolding(t *testing.T) {
	rule := scoring.KeywordTextRule{MaxPoints: 10, Keywords: []string{"Straße", "ÉCOLE"}}
	got := scoring.ScoreKeywordText(rule, scoring.StringValue("Ich wohne in der STRASSE neben der école"))
	if got.Awarded != 10 {
		t.Errorf("expected full folding match, got %v (%s)", got.Awarded, got.Reason)
	}
}

func TestScoreKeywordTextEmptyKeywordAlwaysMatches(t *testing.T) {
	rule := scoring.KeywordTextRule{MaxPoints: 10, Keywords: []string{"", "kafka"}}
	got := scoring.ScoreKeywordText(rule, scoring.StringValue("no streaming here"))
	if got.Awarded != 5 {
		t.Errorf("expected empty keyword to count as a match, got %v", got.Awarded)
	}
	if !strings.HasPrefix(got.Reason, "Matched 1/2 keywords") {
		t.Errorf("unexpected reason %q", got.Reason)
	}
}
