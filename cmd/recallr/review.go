package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recallr/internal/cli"
	"github.com/at-ishikawa/recallr/internal/config"
)

func newDueCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "due",
		Short: "Show the items due today, highest priority first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(_ *config.Config, s store) error {
				return cli.RunDue(cmd.Context(), s, cmd.OutOrStdout(), time.Now(), limit)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of items to show (0 shows all)")
	return cmd
}

func newReviewCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review the items due today interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(cfg *config.Config, s store) error {
				if !cmd.Flags().Changed("limit") {
					limit = cfg.Review.SessionLimit
				}
				reviewCLI, err := cli.NewReviewCLI(cmd.Context(), s, limit, cmd.InOrStdin(), cmd.OutOrStdout(), time.Now)
				if err != nil {
					return err
				}
				return cli.Run(cmd.Context(), reviewCLI, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of items in the session (defaults to review.session_limit, 0 is unlimited)")
	return cmd
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <id>",
		Short: "Show the review statistics of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(_ *config.Config, s store) error {
				return cli.RunStats(cmd.Context(), s, cmd.OutOrStdout(), args[0])
			})
		},
	}
}
