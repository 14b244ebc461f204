package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/spf13/cobra"

	"github.com/slotwarden/slotbot/slotbot"
	"github.com/slotwarden/slotbot/slotbot/commands"
	"github.com/slotwarden/slotbot/slotbot/handlers"
)

var syncCommands bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve slot commands",
	RunE:  runBot,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().BoolVar(&syncCommands, "sync-commands", false, "Whether to sync commands to discord")
	}
	rootCmd.AddCommand(runCmd)
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg, err := slotbot.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogger(cfg.Log)

	slog.Info("Starting SlotBot",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(cmd.Context(), setupTimeout)
	defer cancel()

	db, err := openDatabase(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	b := slotbot.New(*cfg, version, commit)
	b.DB = db

	h := handler.New()
	commands.Register(h, b)

	if err = b.SetupBot(
		h,
		bot.NewListenerFunc(b.OnReady),
		handlers.MessageHandler(b),
		handlers.MemberJoinHandler(b),
		handlers.InviteHandler(b),
		handlers.GuildHandler(b),
	); err != nil {
		return fmt.Errorf("failed to setup bot: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	b.InitServices()
	if err := b.Scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		b.Scheduler.Stop(ctx)
	}()

	if syncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
			)
		}
	}

	if err = b.Client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.", slog.String("type", "sys"))
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...", slog.String("type", "sys"))
	return nil
}
