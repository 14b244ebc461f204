package commands

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"

	"github.com/slotwarden/slotbot/internal/domain/enforcement"
	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/domain/slots"
	"github.com/slotwarden/slotbot/slotbot"
	"github.com/slotwarden/slotbot/slotbot/utils"
)

func slotCreateOptions(who string) []discord.ApplicationCommandOption {
	return []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "User to give the " + who + " to",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "duration",
			Description: "Duration in days",
			Required:    true,
			MinValue:    utils.Ptr(slots.MinDurationDays),
			MaxValue:    utils.Ptr(slots.MaxDurationDays),
		},
		discord.ApplicationCommandOptionString{
			Name:        "category",
			Description: "Category for the " + who,
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "channel_name",
			Description: "Name for the channel (letters, numbers and dashes)",
			Required:    true,
		},
	}
}

var FreeSlot = discord.SlashCommandCreate{
	Name:                     "freeslot",
	Description:              "Create a free slot with its role and channel",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	Options:                  slotCreateOptions("slot"),
}

var VIPSlot = discord.SlashCommandCreate{
	Name:                     "vipslot",
	Description:              "💎 Create a VIP slot with premium benefits",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	Options:                  slotCreateOptions("VIP slot"),
}

var SlotInfo = discord.SlashCommandCreate{
	Name:        "slotinfo",
	Description: "Check slot information and usage",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "User to check (defaults to yourself)",
		},
	},
}

var RemoveSlot = discord.SlashCommandCreate{
	Name:                     "removeslot",
	Description:              "Remove a user's slot, channel and role",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "User to remove the slot from",
			Required:    true,
		},
	},
}

func FreeSlotHandler(b *slotbot.Bot) handler.CommandHandler {
	return issueHandler(b, false)
}

func VIPSlotHandler(b *slotbot.Bot) handler.CommandHandler {
	return issueHandler(b, true)
}

func issueHandler(b *slotbot.Bot, vip bool) handler.CommandHandler {
	return adminOnly(discord.PermissionAdministrator, guildOnly(func(e *handler.CommandEvent, guildID string) error {
		data := e.SlashCommandInteractionData()
		user := data.User("user")
		if user.Bot {
			return utils.EH.CreateErrorEmbed(e, "Bots cannot hold slots.")
		}

		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		ctx, cancel := commandContext(b)
		defer cancel()

		slot, err := b.Enforcement.IssueSlot(ctx, enforcement.IssueRequest{
			UserID:       user.ID.String(),
			GuildID:      guildID,
			UserTag:      user.Username,
			ChannelName:  data.String("channel_name"),
			Category:     slots.Category(data.String("category")),
			DurationDays: data.Int("duration"),
			VIP:          vip,
		})
		if err != nil {
			return utils.EH.UpdateFromError(e, err)
		}

		title := "✅ Slot Created"
		if vip {
			title = "💎 VIP Slot Created"
		}
		return utils.EH.UpdateEmbed(e, discord.Embed{
			Title:       title,
			Description: fmt.Sprintf("<@%s> now holds a **%s** slot.", user.ID, slot.Category.Label()),
			Color:       slotColor(slot.Category),
			Fields:      slotFields(slot, time.Now()),
		})
	}))
}

func SlotInfoHandler(b *slotbot.Bot) handler.CommandHandler {
	return guildOnly(func(e *handler.CommandEvent, guildID string) error {
		user, ok := e.SlashCommandInteractionData().OptUser("user")
		if !ok {
			user = e.User()
		}

		ctx, cancel := commandContext(b)
		defer cancel()

		userID := user.ID.String()
		slot, err := b.Enforcement.Slots().LookupActive(ctx, userID, guildID)
		if err != nil {
			return utils.EH.CreateFromError(e, err)
		}

		fields := slotFields(slot, time.Now())
		for _, kind := range []period.Kind{period.Here, period.Everyone} {
			res, err := b.Enforcement.Usage().Current(ctx, userID, guildID, kind, slot.Category)
			if err != nil {
				return utils.EH.CreateFromError(e, err)
			}
			fields = append(fields, discord.EmbedField{
				Name:   kind.Marker() + " used",
				Value:  fmt.Sprintf("%d/%d (resets %s)", res.Count, res.Limit, timestamp(period.NextReset(kind, time.Now()), "R")),
				Inline: utils.Ptr(true),
			})
		}

		rec, err := b.Enforcement.Penalty().Get(ctx, userID, guildID)
		if err != nil {
			return utils.EH.CreateFromError(e, err)
		}
		fields = append(fields, discord.EmbedField{
			Name:   "Warnings",
			Value:  fmt.Sprintf("%d", rec.WarningCount),
			Inline: utils.Ptr(true),
		})

		return utils.EH.CreateEmbed(e, discord.Embed{
			Title:  "📋 Slot of " + user.Username,
			Color:  slotColor(slot.Category),
			Fields: fields,
		})
	})
}

func RemoveSlotHandler(b *slotbot.Bot) handler.CommandHandler {
	return adminOnly(discord.PermissionAdministrator, guildOnly(func(e *handler.CommandEvent, guildID string) error {
		user := e.SlashCommandInteractionData().User("user")
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		ctx, cancel := commandContext(b)
		defer cancel()

		slot, err := b.Enforcement.RemoveSlot(ctx, user.ID.String(), guildID, "removed by "+e.User().Username)
		if err != nil {
			return utils.EH.UpdateFromError(e, err)
		}
		return utils.EH.UpdateEmbed(e, discord.Embed{
			Title:       "🗑️ Slot Removed",
			Description: fmt.Sprintf("The %s slot of <@%s> was removed together with its channel and role.", slot.Category.Label(), user.ID),
			Color:       utils.WarningColor,
		})
	}))
}
