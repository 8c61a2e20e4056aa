package scoring

import (
	"math"
	"strconv"
)

// ReasonNoAnswer explains a zero award for a question the candidate skipped.
const ReasonNoAnswer = "No answer provided"

// Engine scores applications against a job's rules. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	weights Weights
}

// NewEngine creates a scoring engine with default weights adjusted by opts.
func NewEngine(opts ...Option) *Engine {
	w := Defaults()
	for _, o := range opts {
		o(&w)
	}
	return &Engine{weights: w}
}

// Weights returns the engine's effective weights.
func (e *Engine) Weights() Weights {
	return e.weights
}

// ScoreQuestion scores a single answer against rule. The returned entry has
// no question ID; the caller knows which question it belongs to.
func (e *Engine) ScoreQuestion(rule Rule, answer Value) QuestionScore {
	if rule == nil {
		return QuestionScore{Reason: "Invalid scoring configuration: no rule defined"}
	}
	return rule.score(e, answer)
}

// ScoreApplication scores answers against every question of job, in the job's
// question order. Questions without an answer score zero. It never fails:
// malformed answers degrade to zero points with an explanatory reason.
func (e *Engine) ScoreApplication(job *Job, answers []Answer) ScoreReport {
	report := ScoreReport{PerQuestion: []QuestionScore{}}
	if job == nil {
		return report
	}

	var total float64
	for _, q := range job.Questions {
		answer, ok := findAnswer(answers, q.ID)
		if !ok {
			report.PerQuestion = append(report.PerQuestion, QuestionScore{
				QuestionID: q.ID,
				Awarded:    0,
				Max:        q.MaxPoints(),
				Reason:     ReasonNoAnswer,
			})
			report.MaxTotal += q.MaxPoints()
			continue
		}

		qs := e.ScoreQuestion(q.Scoring.Rule, answer.Answer)
		qs.QuestionID = q.ID

		report.PerQuestion = append(report.PerQuestion, qs)
		total += qs.Awarded
		report.MaxTotal += qs.Max
	}

	report.Total = round2(total)
	return report
}

// ScoreApplication scores answers against job with the default weights.
func ScoreApplication(job *Job, answers []Answer) ScoreReport {
	return defaultEngine.ScoreApplication(job, answers)
}

// findAnswer returns the first answer referencing questionID.
func findAnswer(answers []Answer, questionID string) (Answer, bool) {
	for _, a := range answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return Answer{}, false
}

// clamp bounds v to [0, max]. NaN collapses to 0.
func clamp(v, max float64) float64 {
	if v > max {
		v = max
	}
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatNumber prints v in shortest decimal form: 15, 0.5, -2.25.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
