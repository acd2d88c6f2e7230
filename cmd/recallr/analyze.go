package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recallr/internal/cli"
	"github.com/at-ishikawa/recallr/internal/config"
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze learning progress and statistics",
	}
	cmd.AddCommand(newAnalyzeReportCommand())
	return cmd
}

func newAnalyzeReportCommand() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show monthly/yearly report of review statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year to be specified")
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}

			return withStore(cmd.Context(), func(_ *config.Config, s store) error {
				return cli.RunAnalyzeReport(cmd.Context(), s, cmd.OutOrStdout(), year, month)
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")

	return cmd
}
