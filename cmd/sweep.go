package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/slotwarden/slotbot/internal/jobs"
	"github.com/slotwarden/slotbot/slotbot"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the counter resets and expiry sweep once, without connecting to Discord",
	Long: "Runs every scheduled maintenance job a single time. Expired slots are deleted " +
		"but their channels and roles are left in place, since no gateway session is open.",
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

		orchestrator, _ := slotbot.Services(db, nil, *cfg)
		if err := jobs.New(orchestrator, cfg.Schedule).RunAll(cmd.Context()); err != nil {
			return err
		}
		slog.Info("Maintenance finished", slog.String("type", "sys"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
