package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/applyscore/applyscore/internal/store"
)

func newApplicationsCmd() *cobra.Command {
	var (
		jobID     string
		sortOrder string
		limit     int
		offset    int
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "applications",
		Short: "List a job's applications ranked by score",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, err := openStore(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			job, err := s.GetJob(ctx, jobID)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("job %s not found", jobID)
			}
			if err != nil {
				return err
			}

			opts := store.ListOptions{Sort: store.SortOrder(sortOrder), Limit: limit, Offset: offset}.Normalize()
			apps, err := s.ListApplications(ctx, job.ID, opts)
			if err != nil {
				return err
			}

			switch outputFmt {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(apps)
			case "text":
				return printApplications(cmd.OutOrStdout(), job.Title, apps, opts.Offset)
			default:
				return fmt.Errorf("unknown output format %q (want text or json)", outputFmt)
			}
		},
	}

	cmd.Flags().StringVar(&jobID, "job", "", "Job ID (required)")
	cmd.Flags().StringVar(&sortOrder, "sort", string(store.SortScoreDesc), "Sort order: score_desc or score_asc")
	cmd.Flags().IntVar(&limit, "limit", store.DefaultListLimit, "Maximum number of applications")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of applications to skip")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("job")

	return cmd
}

func printApplications(w io.Writer, title string, apps []store.ApplicationSummary, offset int) error {
	fmt.Fprintf(w, "%s: %d application(s)\n\n", title, len(apps))
	if len(apps) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCANDIDATE\tSCORE\tSUBMITTED\tID")
	for i, a := range apps {
		fmt.Fprintf(tw, "%d\t%s\t%g / %g\t%s\t%s\n",
			offset+i+1, a.CandidateName, a.TotalScore, a.MaxTotalScore, humanize.Time(a.CreatedAt), a.ID)
	}
	return tw.Flush()
}
