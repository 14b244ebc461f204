package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/slotwarden/slotbot/internal/domain/enforcement"
	"github.com/slotwarden/slotbot/internal/domain/slots"
	"github.com/slotwarden/slotbot/slotbot"
	"github.com/slotwarden/slotbot/slotbot/utils"
)

const leaderboardSize = 50

var InvitePoints = discord.SlashCommandCreate{
	Name:        "invitepoints",
	Description: "Check invite points",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "User to check (admins only)",
		},
	},
}

var RedeemSlot = discord.SlashCommandCreate{
	Name:        "redeemslot",
	Description: "Spend invite points on a free slot (1 point = 1 day)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "days",
			Description: "Number of days",
			Required:    true,
			MinValue:    utils.Ptr(1),
			MaxValue:    utils.Ptr(enforcement.MaxRedeemDays),
		},
		discord.ApplicationCommandOptionString{
			Name:        "category",
			Description: "Category for your slot",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "channel_name",
			Description: "Name for your channel",
			Required:    true,
		},
	},
}

var InviteLeaderboard = discord.SlashCommandCreate{
	Name:        "inviteleaderboard",
	Description: "Top inviters of this server",
}

var InviteInfo = discord.SlashCommandCreate{
	Name:        "inviteinfo",
	Description: "How the invite reward system works",
}

func InvitePointsHandler(b *slotbot.Bot) handler.CommandHandler {
	return guildOnly(func(e *handler.CommandEvent, guildID string) error {
		user, ok := e.SlashCommandInteractionData().OptUser("user")
		if !ok {
			user = e.User()
		} else if user.ID != e.User().ID && !utils.HasPermission(e, discord.PermissionAdministrator) {
			return utils.EH.CreatePermissionError(e)
		}

		ctx, cancel := commandContext(b)
		defer cancel()

		acct, err := b.Enforcement.Invites().Balance(ctx, user.ID.String(), guildID)
		if err != nil {
			return utils.EH.CreateFromError(e, err)
		}
		return utils.EH.CreateEmbed(e, discord.Embed{
			Title: "🎟️ Invite points of " + user.Username,
			Color: utils.InfoColor,
			Fields: []discord.EmbedField{
				{Name: "Points", Value: fmt.Sprintf("%d", acct.Points), Inline: utils.Ptr(true)},
				{Name: "Total invites", Value: fmt.Sprintf("%d", acct.TotalInvites), Inline: utils.Ptr(true)},
				{Name: "Redeemable", Value: fmt.Sprintf("%d days", min(acct.Points, enforcement.MaxRedeemDays)), Inline: utils.Ptr(true)},
			},
		})
	})
}

func RedeemSlotHandler(b *slotbot.Bot) handler.CommandHandler {
	return guildOnly(func(e *handler.CommandEvent, guildID string) error {
		data := e.SlashCommandInteractionData()
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		ctx, cancel := commandContext(b)
		defer cancel()

		days := data.Int("days")
		slot, err := b.Enforcement.Redeem(ctx, enforcement.RedeemRequest{
			UserID:      e.User().ID.String(),
			GuildID:     guildID,
			UserTag:     e.User().Username,
			ChannelName: data.String("channel_name"),
			Category:    slots.Category(data.String("category")),
			Days:        days,
		})
		if err != nil {
			return utils.EH.UpdateFromError(e, err)
		}
		return utils.EH.UpdateEmbed(e, discord.Embed{
			Title:       "🎉 Slot redeemed",
			Description: fmt.Sprintf("You spent **%d** invite points on a %d day slot.", days, days),
			Color:       slotColor(slot.Category),
			Fields:      slotFields(slot, slot.CreatedAt),
		})
	})
}

func InviteLeaderboardHandler(b *slotbot.Bot) handler.CommandHandler {
	return guildOnly(func(e *handler.CommandEvent, guildID string) error {
		ctx, cancel := commandContext(b)
		defer cancel()

		top, err := b.Enforcement.Invites().TopN(ctx, guildID, leaderboardSize)
		if err != nil {
			return utils.EH.CreateFromError(e, err)
		}
		lines := make([]string, len(top))
		for i, acct := range top {
			lines[i] = fmt.Sprintf("`%d.` <@%s> • %d invites • %d points", i+1, acct.UserID, acct.TotalInvites, acct.Points)
		}
		return paginate(b, e, "🏆 Invite leaderboard", utils.VIPColor, lines)
	})
}

func InviteInfoHandler(b *slotbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		reward := b.Cfg.Policy.InviteReward
		return utils.EH.CreateEmbed(e, discord.Embed{
			Title: "🎟️ Invite rewards",
			Description: fmt.Sprintf(
				"Every member who joins through your invite earns you **%d** point(s).\n"+
					"Use `/redeemslot` to turn points into a free slot: 1 point buys 1 day, up to %d days at once.\n"+
					"Check your balance with `/invitepoints` and the top inviters with `/inviteleaderboard`.",
				reward, enforcement.MaxRedeemDays),
			Color: utils.InfoColor,
		})
	}
}
