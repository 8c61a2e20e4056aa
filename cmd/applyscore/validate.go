package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/applyscore/applyscore/pkg/validate"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check job or application payloads without storing them",
	}
	cmd.AddCommand(newValidateJobCmd(), newValidateApplicationCmd())
	return cmd
}

func newValidateJobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "job <file>",
		Short: "Validate a job payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readInput(args[0])
			if err != nil {
				return err
			}
			if err := validate.ValidateJob(payload); err != nil {
				return reportValidation(cmd.ErrOrStderr(), "job", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "job is valid")
			return nil
		},
	}
}

func newValidateApplicationCmd() *cobra.Command {
	var jobPath string

	cmd := &cobra.Command{
		Use:   "application <file>",
		Short: "Validate an application payload against a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := loadJob(cmd.ErrOrStderr(), jobPath)
			if err != nil {
				return err
			}
			payload, err := readInput(args[0])
			if err != nil {
				return err
			}
			if err := validate.ValidateApplication(payload, job); err != nil {
				return reportValidation(cmd.ErrOrStderr(), "application", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "application is valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&jobPath, "job", "", "Job JSON file the application targets (required)")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}
