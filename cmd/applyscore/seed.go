package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/applyscore/applyscore/internal/bootstrap"
	"github.com/applyscore/applyscore/internal/seed"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample jobs and scored applications",
		Long: `Stores three sample jobs and five sample candidates per job, scored with the
configured engine. Jobs that already exist (by jobName) are left alone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, cfg, err := openStore(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			results, err := seed.Run(ctx, s, bootstrap.NewEngine(cfg.Scoring), time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, res := range results {
				if res.Skipped {
					fmt.Fprintf(out, "%s: already present, skipped\n", res.Job.JobName)
					continue
				}
				fmt.Fprintf(out, "%s (%s)\n", res.Job.Title, res.Job.ID)
				for _, app := range res.Applications {
					fmt.Fprintf(out, "  %-16s %g / %g\n", app.Candidate.Name, app.Score.Total, app.Score.MaxTotal)
				}
			}
			return nil
		},
	}
}
