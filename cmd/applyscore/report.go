package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/applyscore/applyscore/internal/archive"
	"github.com/applyscore/applyscore/internal/bootstrap"
	"github.com/applyscore/applyscore/internal/store"
	"github.com/applyscore/applyscore/pkg/scoring"
	"github.com/applyscore/applyscore/pkg/surface"
)

func newReportCmd() *cobra.Command {
	var (
		jobID     string
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "report <application-id>",
		Short: "Show an archived score report",
		Long: `Reads a score report from the configured archive and renders it. The job is
looked up in the database for question text; the report still renders when
the job is gone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			renderer, err := surface.RendererFor(outputFmt)
			if err != nil {
				return err
			}

			s, cfg, err := openStore(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			reports, err := bootstrap.NewArchive(ctx, cfg.Archive)
			if err != nil {
				return err
			}
			if reports == nil {
				return fmt.Errorf("no report archive configured (archive.driver is %q)", cfg.Archive.Driver)
			}
			if c, ok := reports.(io.Closer); ok {
				defer c.Close()
			}

			rec, err := archive.Load(ctx, reports, jobID, args[0])
			if errors.Is(err, archive.ErrNotFound) {
				return fmt.Errorf("no archived report for application %s of job %s", args[0], jobID)
			}
			if err != nil {
				return err
			}

			job, err := s.GetJob(ctx, rec.JobID)
			if errors.Is(err, store.ErrNotFound) {
				job = &scoring.Job{ID: rec.JobID}
			} else if err != nil {
				return err
			}

			return renderer.Render(cmd.OutOrStdout(), surface.NewReport(job, rec.Candidate, rec.Score))
		},
	}

	cmd.Flags().StringVar(&jobID, "job", "", "Job ID the application belongs to (required)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json or markdown")
	_ = cmd.MarkFlagRequired("job")

	return cmd
}
