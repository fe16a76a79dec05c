package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"birdsong-quiz/database"
	"birdsong-quiz/internal/config"
	idb "birdsong-quiz/internal/database"
	"birdsong-quiz/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply or revert the database schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(upCommand(), downCommand())
	return rootCmd
}

func upCommand() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(m *idb.Migrator) error {
				applied, err := m.Up(cmd.Context(), steps)
				logger.Get().Info("Migrations applied", zap.Uints("versions", applied))
				return err
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to apply (0 applies all)")
	return cmd
}

func downCommand() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Revert applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(m *idb.Migrator) error {
				reverted, err := m.Down(cmd.Context(), steps)
				logger.Get().Info("Migrations reverted", zap.Uints("versions", reverted))
				return err
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to revert (0 reverts all)")
	return cmd
}

func withMigrator(ctx context.Context, fn func(m *idb.Migrator) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := idb.NewSQLXOracleDB(ctx, cfg.DB, cfg.GetDSN())
	if err != nil {
		l.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	defer db.Close()

	migrator, err := idb.NewMigrator(db, database.Migrations, database.MigrationsDir)
	if err != nil {
		l.Error("Failed to open migrations", zap.Error(err))
		return err
	}
	defer migrator.Close()

	if err := fn(migrator); err != nil {
		l.Error("Migration failed", zap.Error(err))
		return err
	}
	return nil
}
