package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/recallr/internal/cli"
	"github.com/at-ishikawa/recallr/internal/config"
	"github.com/at-ishikawa/recallr/internal/learning"
)

type SortFlag string

// Set implements pflag.Value.
func (s *SortFlag) Set(v string) error {
	switch v {
	case string(SortDescending):
		*s = SortDescending
	case string(SortAscending):
		*s = SortAscending
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, SortDescending, SortAscending)
	}
	return nil
}

// String implements pflag.Value.
func (s *SortFlag) String() string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// Type implements pflag.Value.
func (s *SortFlag) Type() string {
	return "SortFlag"
}

var (
	_ pflag.Value = (*SortFlag)(nil)
)

const (
	SortDescending SortFlag = "desc"
	SortAscending  SortFlag = "asc"
)

func newAddCommand() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new learning item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(_ *config.Config, s store) error {
				item := &learning.Item{
					ID:        uuid.NewString(),
					Title:     args[0],
					Body:      body,
					CreatedAt: time.Now().UTC().Truncate(time.Second),
				}
				if err := s.Create(cmd.Context(), item); err != nil {
					return fmt.Errorf("Create() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", item.ID, item.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&body, "body", "", "Recall question or notes for the item")
	return cmd
}

func newListCommand() *cobra.Command {
	sortFlag := SortDescending

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List learning items ordered by their last review",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(_ *config.Config, s store) error {
				return cli.RunList(cmd.Context(), s, cmd.OutOrStdout(), sortFlag == SortAscending)
			})
		},
	}
	cmd.Flags().Var(&sortFlag, "sort", "Sort order for the output. Options: asc, desc")
	return cmd
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a learning item and its review history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(_ *config.Config, s store) error {
				if err := s.Delete(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("Delete(%s) > %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}
