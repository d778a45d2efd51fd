package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/spf13/cobra"

	"github.com/mobil-koeln/roamly/internal/repository"
	"github.com/mobil-koeln/roamly/migrations"
)

var errNoDatabase = errors.New("no database configured: set DATABASE_URL or --db")

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Create or upgrade the destinations table in the Postgres database given
by --db or DATABASE_URL.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errNoDatabase
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	versions, err := migrations.Up(ctx, db)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Println("Database is up to date.")
		return nil
	}
	for _, v := range versions {
		fmt.Printf("Applied migration %d\n", v)
	}
	return nil
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy destinations from the JSON document into Postgres",
	Long: `Read the destinations document given by --data or ROAMLY_DATA and write
every destination to the database. Existing rows with the same id are
overwritten.

Examples:
  roam import --data trips.json --db postgres://localhost/roamly`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errNoDatabase
	}
	logger, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := []repository.Option{repository.WithLogger(logger)}
	if !flagNoCache {
		opts = append(opts, repository.WithDefaultCache())
	}
	ds, err := repository.NewJSONStore(cfg.DataSource, opts...).Load(ctx)
	if err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	store := repository.NewPostgresStore(pool)
	for _, d := range ds {
		if err := store.Upsert(ctx, d); err != nil {
			return fmt.Errorf("destination %d: %w", d.ID, err)
		}
	}
	fmt.Printf("Imported %d destinations.\n", len(ds))
	return nil
}
