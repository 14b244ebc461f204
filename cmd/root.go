package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/slotwarden/slotbot/internal/gateways/database"
	"github.com/slotwarden/slotbot/slotbot"
	"github.com/slotwarden/slotbot/slotbot/logger"
)

const setupTimeout = 2 * time.Minute

var (
	version = "dev"
	commit  = "unknown"

	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "slotbot",
	Short:         "Discord bot managing promotion slots and their mention limits",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
}

// Execute runs the CLI. The bot itself is the default command.
func Execute(v, c string) {
	version, commit = v, c
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", slog.String("type", "sys"), slog.Any("error", err))
		os.Exit(1)
	}
}

func setupLogger(cfg slotbot.LogConfig) {
	slog.SetDefault(slog.New(logger.New(os.Stdout, logger.Options{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: cfg.AddSource,
	})))
}

// openDatabase connects and makes sure the schema exists.
func openDatabase(ctx context.Context, cfg database.DBConfig) (*database.DB, error) {
	start := time.Now()
	db, err := database.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}
	slog.Info("Database connected successfully",
		slog.String("type", "db"),
		slog.String("database", cfg.Database),
		slog.Duration("took", time.Since(start)))
	return db, nil
}
