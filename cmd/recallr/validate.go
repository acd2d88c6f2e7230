package main

import (
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recallr/internal/cli"
	"github.com/at-ishikawa/recallr/internal/config"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate stored learning items for consistency and correctness",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(_ *config.Config, s store) error {
				return cli.RunValidate(cmd.Context(), s, cmd.OutOrStdout())
			})
		},
	}
}
