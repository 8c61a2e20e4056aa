package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/applyscore/applyscore/pkg/scoring"
	"github.com/applyscore/applyscore/pkg/surface"
	"github.com/applyscore/applyscore/pkg/validate"
)

func newScoreCmd() *cobra.Command {
	var (
		jobPath   string
		appPath   string
		outputFmt string
		penalty   float64
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Validate and score an application offline",
		Long: `Reads a job and an application from JSON files, validates both, scores the
application and renders the report. No database is involved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.OutOrStdout(), cmd.ErrOrStderr(), scoreOpts{
				jobPath:   jobPath,
				appPath:   appPath,
				outputFmt: outputFmt,
				penalty:   penalty,
			})
		},
	}

	cmd.Flags().StringVar(&jobPath, "job", "", "Job JSON file, or - for stdin (required)")
	cmd.Flags().StringVar(&appPath, "application", "", "Application JSON file, or - for stdin (required)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json or markdown")
	cmd.Flags().Float64Var(&penalty, "penalty", scoring.DefaultExtraSelectionPenalty, "Multiplier for multi-choice answers with extra selections")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("application")

	return cmd
}

type scoreOpts struct {
	jobPath   string
	appPath   string
	outputFmt string
	penalty   float64
}

type applicationFile struct {
	Candidate scoring.Candidate `json:"candidate"`
	Answers   []scoring.Answer  `json:"answers"`
}

func runScore(stdout, stderr io.Writer, opts scoreOpts) error {
	if opts.jobPath == "-" && opts.appPath == "-" {
		return fmt.Errorf("only one of --job and --application can read stdin")
	}
	if opts.penalty < 0 || opts.penalty > 1 {
		return fmt.Errorf("--penalty must be between 0 and 1, got %g", opts.penalty)
	}

	renderer, err := surface.RendererFor(opts.outputFmt)
	if err != nil {
		return err
	}

	job, err := loadJob(stderr, opts.jobPath)
	if err != nil {
		return err
	}

	payload, err := readInput(opts.appPath)
	if err != nil {
		return err
	}
	if err := validate.ValidateApplication(payload, job); err != nil {
		return reportValidation(stderr, "application", err)
	}

	var app applicationFile
	if err := json.Unmarshal(payload, &app); err != nil {
		return fmt.Errorf("decode application: %w", err)
	}

	engine := scoring.NewEngine(scoring.WithExtraSelectionPenalty(opts.penalty))
	report := engine.ScoreApplication(job, app.Answers)

	return renderer.Render(stdout, surface.NewReport(job, app.Candidate, report))
}

// loadJob reads, validates and decodes a job file. Questions without an ID
// are numbered q1, q2, ... by position so answers can reference them; a
// number another question already uses is skipped.
func loadJob(stderr io.Writer, path string) (*scoring.Job, error) {
	payload, err := readInput(path)
	if err != nil {
		return nil, err
	}
	job, err := validate.ParseJob(payload)
	if err != nil {
		return nil, reportValidation(stderr, "job", err)
	}

	taken := make(map[string]bool, len(job.Questions))
	for _, q := range job.Questions {
		taken[q.ID] = true
	}
	for i := range job.Questions {
		if job.Questions[i].ID != "" {
			continue
		}
		id := fmt.Sprintf("q%d", i+1)
		for k := i + 2; taken[id]; k++ {
			id = fmt.Sprintf("q%d", k)
		}
		job.Questions[i].ID = id
		taken[id] = true
	}
	return job, nil
}

// reportValidation prints every validation detail and returns a summary error.
func reportValidation(w io.Writer, kind string, err error) error {
	details := validate.Details(err)
	if details == nil {
		return err
	}
	fmt.Fprintf(w, "%s is invalid:\n", kind)
	for _, d := range details {
		fmt.Fprintf(w, "  - %s\n", d)
	}
	return fmt.Errorf("%s failed validation with %d problem(s)", kind, len(details))
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
