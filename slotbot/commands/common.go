package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/slotwarden/slotbot/internal/domain/slots"
	"github.com/slotwarden/slotbot/slotbot"
	"github.com/slotwarden/slotbot/slotbot/utils"
)

var errGuildOnly = fmt.Errorf("this command only works inside a server")

func commandContext(b *slotbot.Bot) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.CommandTimeout())
}

func guildID(e *handler.CommandEvent) (string, bool) {
	id := e.GuildID()
	if id == nil {
		return "", false
	}
	return id.String(), true
}

// adminOnly runs next only for members holding perm (or Administrator).
func adminOnly(perm discord.Permissions, next handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.HasPermission(e, perm) {
			return utils.EH.CreatePermissionError(e)
		}
		return next(e)
	}
}

// guildOnly resolves the guild or answers with an error.
func guildOnly(next func(e *handler.CommandEvent, guildID string) error) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		gid, ok := guildID(e)
		if !ok {
			return utils.EH.CreateErrorEmbed(e, errGuildOnly.Error())
		}
		return next(e, gid)
	}
}

func timestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

func channelMention(id string) string {
	if id == "" {
		return "none"
	}
	return "<#" + id + ">"
}

func slotColor(c slots.Category) int {
	if c.IsVIP() {
		return utils.VIPColor
	}
	return utils.FreeColor
}

func slotFields(s *slots.Slot, now time.Time) []discord.EmbedField {
	return []discord.EmbedField{
		{Name: "Type", Value: s.Category.Label(), Inline: utils.Ptr(true)},
		{Name: "Category", Value: string(s.Category), Inline: utils.Ptr(true)},
		{Name: "Channel", Value: channelMention(s.ChannelID), Inline: utils.Ptr(true)},
		{Name: "Expires", Value: fmt.Sprintf("%s (%d days left)", timestamp(s.ExpiresAt, "F"), s.DaysLeft(now)), Inline: utils.Ptr(false)},
		{Name: "Points", Value: fmt.Sprintf("%d", s.Points), Inline: utils.Ptr(true)},
	}
}
