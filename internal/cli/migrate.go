package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"gait-quiz/internal/config"
	"gait-quiz/internal/infra/file"
	pgbank "gait-quiz/internal/infra/postgres"
	pgmigrations "gait-quiz/internal/infra/postgres/migrations"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// NewMigrateCmd applies database migrations and optionally seeds the bank.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run Postgres migrations for the question bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath, seed)
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "question bank file (.json or .xlsx) to upsert after migrating")
	return cmd
}

func runMigrations(ctx context.Context, configPath, seed string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	return runMigrationsWithConfig(ctx, cfg, seed)
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, seed string) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	if _, err := migrator.Migrate(ctx); err != nil {
		return err
	}
	log.Printf("migrations applied")

	if seed == "" {
		return nil
	}
	questions, err := file.NewBankLoader(seed).WithSheet(cfg.Bank.Sheet).LoadBank(ctx)
	if err != nil {
		return err
	}
	n, err := pgbank.SeedBank(ctx, db, questions)
	if err != nil {
		return err
	}
	log.Printf("seeded %d questions from %s", n, seed)
	return nil
}
