package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"

	"github.com/slotwarden/slotbot/internal/domain/enforcement"
	"github.com/slotwarden/slotbot/internal/domain/penalty"
	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/slotbot"
	"github.com/slotwarden/slotbot/slotbot/utils"
)

func userOption(description string) discord.ApplicationCommandOption {
	return discord.ApplicationCommandOptionUser{
		Name:        "user",
		Description: description,
		Required:    true,
	}
}

var AddHere = discord.SlashCommandCreate{
	Name:                     "addhere",
	Description:              "Count one @here against a user's slot",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	Options:                  []discord.ApplicationCommandOption{userOption("Slot owner")},
}

// The misspelling is the command name users already know.
var AddEveryone = discord.SlashCommandCreate{
	Name:                     "addevryone",
	Description:              "Count one @everyone against a VIP slot",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	Options:                  []discord.ApplicationCommandOption{userOption("VIP slot owner")},
}

var HereUsed = discord.SlashCommandCreate{
	Name:                     "hereused",
	Description:              "Report an @here used by a slot owner",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageMessages),
	Options:                  []discord.ApplicationCommandOption{userOption("Slot owner who pinged")},
}

var Warn = discord.SlashCommandCreate{
	Name:                     "warn",
	Description:              "Warn a slot owner (two warnings revoke the slot)",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	Options: []discord.ApplicationCommandOption{
		userOption("Slot owner to warn"),
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Reason shown in the slot channel",
		},
	},
}

func AddHereHandler(b *slotbot.Bot) handler.CommandHandler {
	return adminOnly(discord.PermissionAdministrator, usageHandler(b, period.Here, false))
}

func AddEveryoneHandler(b *slotbot.Bot) handler.CommandHandler {
	return adminOnly(discord.PermissionAdministrator, usageHandler(b, period.Everyone, false))
}

func HereUsedHandler(b *slotbot.Bot) handler.CommandHandler {
	return adminOnly(discord.PermissionManageMessages, usageHandler(b, period.Here, true))
}

func usageHandler(b *slotbot.Bot, kind period.Kind, report bool) handler.CommandHandler {
	return guildOnly(func(e *handler.CommandEvent, guildID string) error {
		user := e.SlashCommandInteractionData().User("user")

		ctx, cancel := commandContext(b)
		defer cancel()

		out, err := b.Enforcement.AddUsage(ctx, enforcement.AddUsageRequest{
			UserID:    user.ID.String(),
			GuildID:   guildID,
			Kind:      kind,
			ChannelID: e.ChannelID().String(),
			Report:    report,
		})
		if err != nil {
			return utils.EH.CreateFromError(e, err)
		}
		return utils.EH.CreateEmbed(e, usageEmbed(user.ID.String(), kind, out))
	})
}

func usageEmbed(userID string, kind period.Kind, out *enforcement.UsageOutcome) discord.Embed {
	embed := discord.Embed{
		Title:       fmt.Sprintf("📢 %s recorded", kind.Marker()),
		Description: fmt.Sprintf("<@%s> has used **%d/%d** %s.", userID, out.Usage.Count, out.Usage.Limit, kind.Marker()),
		Color:       utils.InfoColor,
	}
	if out.PointsDelta != 0 {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:   "Points",
			Value:  fmt.Sprintf("%+d (now %d)", out.PointsDelta, out.Slot.Points),
			Inline: utils.Ptr(true),
		})
	}
	if out.Penalty != nil {
		embed.Color = penaltyColor(out.Penalty.Action)
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:   "Penalty",
			Value:  penaltyText(*out.Penalty),
			Inline: utils.Ptr(true),
		})
	}
	return embed
}

func penaltyColor(a penalty.Action) int {
	if a == penalty.ActionRevoked {
		return utils.ErrorColor
	}
	return utils.WarningColor
}

func penaltyText(p penalty.Outcome) string {
	if p.Action == penalty.ActionRevoked {
		return fmt.Sprintf("Warning %d/%d, slot revoked", p.WarningCount, penalty.Threshold)
	}
	return fmt.Sprintf("Warning %d/%d", p.WarningCount, penalty.Threshold)
}

func WarnHandler(b *slotbot.Bot) handler.CommandHandler {
	return adminOnly(discord.PermissionAdministrator, guildOnly(func(e *handler.CommandEvent, guildID string) error {
		data := e.SlashCommandInteractionData()
		user := data.User("user")
		reason := data.String("reason")
		if reason == "" {
			reason = "warned by " + e.User().Username
		}

		ctx, cancel := commandContext(b)
		defer cancel()

		_, out, err := b.Enforcement.Warn(ctx, user.ID.String(), guildID, e.ChannelID().String(), reason)
		if err != nil {
			return utils.EH.CreateFromError(e, err)
		}
		return utils.EH.CreateEmbed(e, discord.Embed{
			Title:       "⚠️ Warning issued",
			Description: fmt.Sprintf("<@%s>: %s", user.ID, reason),
			Color:       penaltyColor(out.Action),
			Fields: []discord.EmbedField{
				{Name: "Status", Value: penaltyText(out)},
			},
		})
	}))
}
