package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recallr/internal/cli"
	"github.com/at-ishikawa/recallr/internal/config"
	"github.com/at-ishikawa/recallr/internal/database"
	"github.com/at-ishikawa/recallr/internal/datasync"
	"github.com/at-ishikawa/recallr/internal/learning"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migration commands",
	}

	migrateCmd.AddCommand(newMigrateBackfillCommand())
	migrateCmd.AddCommand(newMigrateSchemaCommand())
	migrateCmd.AddCommand(newMigrateImportDBCommand())
	migrateCmd.AddCommand(newMigrateExportYAMLCommand())

	return migrateCmd
}

func newMigrateBackfillCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Persist normalized difficulties and backfilled correctness of legacy reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(_ *config.Config, s store) error {
				return cli.RunBackfill(cmd.Context(), s, cmd.OutOrStdout())
			})
		},
	}
}

func newMigrateSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Apply the database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			db, err := database.Connect(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Connect() > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			applied, err := database.Migrate(ctx, db)
			if err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			for _, file := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "  [APPLIED]  %s\n", file)
			}
			return nil
		},
	}
}

func newMigrateImportDBCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-db",
		Short: "Import the YAML learning file into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, dryRun, func(yamlRepo, dbRepo learning.Repository) (learning.Repository, learning.Repository) {
				return yamlRepo, dbRepo
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	return cmd
}

func newMigrateExportYAMLCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "export-yaml",
		Short: "Export the database into the YAML learning file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, dryRun, func(yamlRepo, dbRepo learning.Repository) (learning.Repository, learning.Repository) {
				return dbRepo, yamlRepo
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the YAML file")
	return cmd
}

// runImport copies items between the YAML file and the database.
// direction picks the source and the target from the two stores.
func runImport(
	cmd *cobra.Command,
	dryRun bool,
	direction func(yamlRepo, dbRepo learning.Repository) (source, target learning.Repository),
) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loader.Load() > %w", err)
	}

	dbRepo, closeDB, err := openDBStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	source, target := direction(openYAMLStore(cfg), dbRepo)
	importer := datasync.NewImporter(source, target, cmd.OutOrStdout())
	result, err := importer.ImportItems(ctx, datasync.ImportOptions{DryRun: dryRun})
	if err != nil {
		return fmt.Errorf("importer.ImportItems() > %w", err)
	}

	printImportSummary(cmd.OutOrStdout(), result, dryRun)
	return nil
}

func printImportSummary(w io.Writer, result *datasync.ImportResult, dryRun bool) {
	fmt.Fprintln(w, "\nImport Summary:")
	if dryRun {
		fmt.Fprintln(w, "  (dry-run mode, no changes made)")
	}
	fmt.Fprintf(w, "  Items:    %d new, %d updated, %d skipped\n", result.ItemsNew, result.ItemsUpdated, result.ItemsSkipped)
	fmt.Fprintf(w, "  Reviews:  %d new, %d skipped\n", result.ReviewsNew, result.ReviewsSkipped)
	if result.Warnings > 0 {
		fmt.Fprintf(w, "  Warnings: %d\n", result.Warnings)
	}
}
