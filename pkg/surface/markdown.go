package surface

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownRenderer renders a Report as a Markdown summary, suitable for
// pasting into a ticket or a hiring channel.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, report *Report) error {
	_, err := io.WriteString(w, BuildMarkdownSummary(report))
	return err
}

// BuildMarkdownSummary formats report as Markdown.
func BuildMarkdownSummary(report *Report) string {
	var sb strings.Builder
	score := report.Score

	sb.WriteString(fmt.Sprintf("## %s %s: %s / %s\n\n", bandIcon(report.Band),
		escapeMarkdown(report.Candidate.Name), formatPoints(score.Total), formatPoints(score.MaxTotal)))
	if report.JobTitle != "" {
		sb.WriteString(fmt.Sprintf("Job: **%s**\n\n", escapeMarkdown(report.JobTitle)))
	}

	if len(score.PerQuestion) == 0 {
		sb.WriteString("_No questions._\n")
		return sb.String()
	}

	sb.WriteString("| Question | Awarded | Max | Reason |\n|----------|---------|-----|--------|\n")
	for _, qs := range score.PerQuestion {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeMarkdown(report.QuestionText(qs.QuestionID)),
			formatPoints(qs.Awarded), formatPoints(qs.Max), escapeMarkdown(qs.Reason)))
	}
	return sb.String()
}

func bandIcon(band string) string {
	switch band {
	case BandStrong:
		return ":green_circle:"
	case BandModerate:
		return ":yellow_circle:"
	default:
		return ":red_circle:"
	}
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
