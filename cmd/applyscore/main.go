// Package main provides the applyscore CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "applyscore",
		Short: "Score job applications against structured grading rules",
		Long: `applyscore validates job postings and candidate applications, scores
answers against each question's grading rule, and manages the applyscored
database.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (default: nearest .applyscore/config.yaml)")

	rootCmd.AddCommand(
		newScoreCmd(),
		newValidateCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newApplicationsCmd(),
		newReportCmd(),
	)
	return rootCmd
}
