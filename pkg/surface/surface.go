// Package surface renders score reports for people and tools.
// Implementations handle different output targets: terminal, Markdown, JSON.
package surface

import (
	"fmt"
	"io"

	"github.com/applyscore/applyscore/pkg/scoring"
)

// Renderer produces formatted output from a Report.
type Renderer interface {
	// Render writes the formatted report to the writer.
	Render(w io.Writer, report *Report) error
}

// Report is a scored application with the job context needed to explain it.
type Report struct {
	JobID     string              `json:"jobId,omitempty"`
	JobTitle  string              `json:"jobTitle"`
	Candidate scoring.Candidate   `json:"candidate"`
	Score     scoring.ScoreReport `json:"score"`
	Band      string              `json:"band"`

	// questions maps question IDs to their text.
	questions map[string]string
}

// NewReport builds a Report for score against job.
func NewReport(job *scoring.Job, candidate scoring.Candidate, score scoring.ScoreReport) *Report {
	r := &Report{
		Candidate: candidate,
		Score:     score,
		Band:      Band(score.Ratio()),
		questions: make(map[string]string),
	}
	if job != nil {
		r.JobID = job.ID
		r.JobTitle = job.Title
		for _, q := range job.Questions {
			r.questions[q.ID] = q.Text
		}
	}
	return r
}

// QuestionText returns the text of the question with the given ID, or the ID
// itself when the job did not provide one.
func (r *Report) QuestionText(id string) string {
	if text, ok := r.questions[id]; ok && text != "" {
		return text
	}
	return id
}

// Score bands by share of attainable points.
const (
	BandStrong   = "strong"
	BandModerate = "moderate"
	BandWeak     = "weak"
)

// Band classifies a total/maxTotal ratio.
func Band(ratio float64) string {
	switch {
	case ratio >= 0.75:
		return BandStrong
	case ratio >= 0.5:
		return BandModerate
	default:
		return BandWeak
	}
}

// RendererFor returns the renderer for an output format name.
func RendererFor(format string) (Renderer, error) {
	switch format {
	case "", "text":
		return &TerminalRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text, json or markdown)", format)
	}
}

func formatPoints(v float64) string {
	return fmt.Sprintf("%g", v)
}
