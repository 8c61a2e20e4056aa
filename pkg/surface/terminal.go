package surface

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// TerminalRenderer renders a Report as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func bandColor(band string) string {
	switch band {
	case BandStrong:
		return colorGreen
	case BandModerate:
		return colorYellow
	default:
		return colorRed
	}
}

func awardColor(awarded, max float64) string {
	switch {
	case max > 0 && awarded >= max:
		return colorGreen
	case awarded > 0:
		return colorYellow
	default:
		return colorRed
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, report *Report) error {
	score := report.Score

	// Header
	title := report.Candidate.Name
	if report.JobTitle != "" {
		title += " for " + report.JobTitle
	}
	fmt.Fprintf(w, "%s\n", bold(title))
	fmt.Fprintf(w, "Score %s / %s (%.0f%%, %s)\n\n",
		formatPoints(score.Total), formatPoints(score.MaxTotal), score.Ratio()*100,
		colored(report.Band, bandColor(report.Band)))

	if len(score.PerQuestion) == 0 {
		fmt.Fprintln(w, "No questions.")
		return nil
	}

	fmt.Fprintln(w, "Questions:")
	for _, qs := range score.PerQuestion {
		points := fmt.Sprintf("%s/%s", formatPoints(qs.Awarded), formatPoints(qs.Max))
		fmt.Fprintf(w, "  %s %s\n", colored(fmt.Sprintf("%-9s", points), awardColor(qs.Awarded, qs.Max)),
			report.QuestionText(qs.QuestionID))
		for _, line := range wrapText(qs.Reason, 70) {
			fmt.Fprintf(w, "            %s\n", dim(line))
		}
	}
	fmt.Fprintln(w)
	return nil
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
