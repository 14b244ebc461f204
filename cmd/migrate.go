package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/slotwarden/slotbot/slotbot"
)

var resetTables bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the slot tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := slotbot.LoadOfflineConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupLogger(cfg.Log)

		db, err := openDatabase(cmd.Context(), cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		if resetTables {
			if err := db.ResetTables(cmd.Context()); err != nil {
				return err
			}
			slog.Warn("All tables truncated", slog.String("type", "db"))
		}

		slog.Info("Migration completed successfully", slog.String("type", "db"))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&resetTables, "reset", false, "truncate every table after migrating")
	rootCmd.AddCommand(migrateCmd)
}
