package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
)

const slowCommand = 2 * time.Second

// WrapWithLogging logs start and outcome of a command. A command still
// running after timeout is reported as failed; the handler goroutine is
// left to finish on its own.
func WrapWithLogging(name string, timeout time.Duration, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()
		base := []any{
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		}

		guildID := "dm"
		if id := e.GuildID(); id != nil {
			guildID = id.String()
		}
		slog.Debug("Command started", append(base,
			slog.String("guild_id", guildID),
			slog.String("channel_id", e.ChannelID().String()),
		)...)

		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- fmt.Errorf("command panicked: %v", r)
				}
			}()
			done <- h(e)
		}()

		select {
		case err := <-done:
			took := time.Since(start)
			attrs := append(base, slog.Duration("took", took))
			switch {
			case err != nil:
				slog.Error("Command failed", append(attrs, slog.Any("error", err), slog.String("status", "failed"))...)
			case took > slowCommand:
				slog.Warn("Command executed slowly", append(attrs, slog.String("status", "slow"))...)
			default:
				slog.Info("Command completed", append(attrs, slog.String("status", "success"))...)
			}
			return err

		case <-time.After(timeout):
			slog.Error("Command timed out", append(base,
				slog.String("status", "timeout"),
				slog.Duration("timeout", timeout),
			)...)
			return fmt.Errorf("command timed out after %s", timeout)
		}
	}
}
