package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	pgRepo "newsfeed-hub/internal/infra/adapter/persistence/postgres"
	"newsfeed-hub/internal/infra/db"
	"newsfeed-hub/internal/usecase/seed"
	"newsfeed-hub/pkg/config"
)

// dbOpener opens the database and prepares goose for the given version table.
type dbOpener func(ctx context.Context, table string) (*sql.DB, error)

func openDB(ctx context.Context, table string) (*sql.DB, error) {
	if err := db.SetupGoose(table); err != nil {
		return nil, err
	}
	return db.Open(ctx)
}

func newRootCmd(open dbOpener) *cobra.Command {
	var table string

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the newsfeed database",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&table, "table",
		config.GetEnvString("MIGRATIONS_TABLE", "goose_db_version"), "goose version table")

	// withDB runs fn against an opened database and closes it afterwards.
	withDB := func(fn func(cmd *cobra.Command, database *sql.DB) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			database, err := open(cmd.Context(), table)
			if err != nil {
				return err
			}
			defer database.Close()
			return fn(cmd, database)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withDB(func(cmd *cobra.Command, database *sql.DB) error {
				return goose.UpContext(cmd.Context(), database, db.MigrationsDir)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			Args:  cobra.NoArgs,
			RunE: withDB(func(cmd *cobra.Command, database *sql.DB) error {
				return goose.DownContext(cmd.Context(), database, db.MigrationsDir)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the status of every migration",
			Args:  cobra.NoArgs,
			RunE: withDB(func(cmd *cobra.Command, database *sql.DB) error {
				return goose.StatusContext(cmd.Context(), database, db.MigrationsDir)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: withDB(func(cmd *cobra.Command, database *sql.DB) error {
				v, err := goose.GetDBVersionContext(cmd.Context(), database)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d\n", v)
				return nil
			}),
		},
		newSeedCmd(open, &table),
		newDiagnoseCmd(open, &table),
	)
	return root
}

func newSeedCmd(open dbOpener, table *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import countries and newspapers from a YAML file",
		Long: `Import countries and newspapers from a YAML file.

Countries are matched by short code and newspapers by RSS URL, so running
the same file again only adds what is missing. Rows are owned by "seed".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return errors.New("no seed file: pass --file or set FEEDS_SEED_FILE")
			}
			fh, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer fh.Close()

			doc, err := seed.Parse(fh)
			if err != nil {
				return err
			}

			database, err := open(cmd.Context(), *table)
			if err != nil {
				return err
			}
			defer database.Close()

			imp := &seed.Importer{
				Countries:  pgRepo.NewCountryRepo(database),
				Newspapers: pgRepo.NewNewspaperRepo(database),
			}
			rep, err := imp.Import(cmd.Context(), doc)
			if rep != nil {
				fmt.Fprintf(cmd.OutOrStdout(),
					"countries: %d created, %d existing\nnewspapers: %d created, %d existing\n",
					rep.CountriesCreated, rep.CountriesExisting,
					rep.NewspapersCreated, rep.NewspapersExisting)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", config.GetEnvString("FEEDS_SEED_FILE", ""), "seed YAML file")
	return cmd
}
