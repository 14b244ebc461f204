package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/slotwarden/slotbot/slotbot"
	"github.com/slotwarden/slotbot/slotbot/utils"
)

var SlotHelp = discord.SlashCommandCreate{
	Name:        "slothelp",
	Description: "List the slot commands",
}

var Version = discord.SlashCommandCreate{
	Name:        "version",
	Description: "Show the bot version",
}

var helpSections = []discord.EmbedField{
	{
		Name:  "👑 Admin",
		Value: "`/freeslot` `/vipslot` create a slot\n`/removeslot` delete a slot\n`/addhere` `/addevryone` count a ping\n`/warn` warn an owner\n`/givepoints` reward an owner\n`/slotconfig` server settings",
	},
	{
		Name:  "🛡️ Moderation",
		Value: "`/hereused` report an @here (+1 point within the limit, -5 and a warning over it)",
	},
	{
		Name:  "📋 Everyone",
		Value: "`/slotinfo` `/slotstats` `/searchslots`\n`/invitepoints` `/redeemslot` `/inviteleaderboard` `/inviteinfo`",
	},
	{
		Name:  "📏 Rules",
		Value: "Free slots: @here per day as configured, no @everyone.\nVIP slots: @here per day and @everyone per week.\nGoing over a limit is a warning. The second warning revokes the slot.",
	},
}

func SlotHelpHandler(b *slotbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return utils.EH.CreateEmbed(e, discord.Embed{
			Title:  "🎰 Slot commands",
			Color:  utils.InfoColor,
			Fields: helpSections,
		})
	}
}

func VersionHandler(b *slotbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return utils.EH.CreateEmbed(e, discord.Embed{
			Title:       "Version",
			Description: "Version: " + b.Version + "\nCommit: " + b.Commit,
			Color:       utils.InfoColor,
		})
	}
}
