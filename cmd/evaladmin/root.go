package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/EvalAdminBack/internal/config"
	"github.com/saeid-a/EvalAdminBack/internal/database"
	"github.com/saeid-a/EvalAdminBack/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "evaladmin",
	Short: "Operator tooling for the evaluation admin backend",
	Long: `evaladmin runs one-off operations against the admin database.

It reads the same environment as the API server (DB_URL, JWT_SECRET,
IMPORT_MAX_ROWS, IMPORT_TIMEZONE, ...), including a local .env file.

Examples:
  evaladmin create-superadmin --email ops@example.com --name "Ops" --password 's3cret-pass'
  evaladmin seed-drills --association 3 --file drills.yaml
  evaladmin import players --association 3 --file roster.csv --user admin@example.com --commit`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(createSuperadminCmd)
	rootCmd.AddCommand(seedDrillsCmd)
	rootCmd.AddCommand(importCmd)
}

// env is what every subcommand needs once connected.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

// connect loads config and opens the shared pool. The returned func closes it.
func connect(ctx context.Context) (*env, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DBUrl == "" {
		return nil, nil, fmt.Errorf("DB_URL is required")
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(level, "console")
	zap.ReplaceGlobals(log)

	if err := database.ConnectDB(ctx, cfg.DBUrl, log); err != nil {
		return nil, nil, err
	}
	return &env{cfg: cfg, logger: log}, func() {
		database.CloseDB()
		_ = log.Sync()
	}, nil
}

func (e *env) pool() *pgxpool.Pool {
	return database.DB
}

func printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format, args...)
}
