package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"

	"github.com/slotwarden/slotbot/internal/domain/guildconfig"
	"github.com/slotwarden/slotbot/slotbot"
	"github.com/slotwarden/slotbot/slotbot/utils"
)

var SlotConfig = discord.SlashCommandCreate{
	Name:                     "slotconfig",
	Description:              "Configure slot settings for this server",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "role",
			Description: "Set the role given to slot owners",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "Role name",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "color",
					Description: "Role color as hex, e.g. #FFD700",
					Required:    false,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "limits",
			Description: "Set the daily @here limit for free slots",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "here_limit",
					Description: "@here pings per day",
					Required:    true,
					MinValue:    utils.Ptr(1),
					MaxValue:    utils.Ptr(guildconfig.MaxLimit),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "vip-limits",
			Description: "Set the mention limits for VIP slots",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "here_limit",
					Description: "@here pings per day",
					Required:    true,
					MinValue:    utils.Ptr(1),
					MaxValue:    utils.Ptr(guildconfig.MaxLimit),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "everyone_limit",
					Description: "@everyone pings per week",
					Required:    true,
					MinValue:    utils.Ptr(0),
					MaxValue:    utils.Ptr(guildconfig.MaxLimit),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "logs",
			Description: "Set the channel receiving slot activity logs",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionChannel{
					Name:         "channel",
					Description:  "Logs channel",
					Required:     true,
					ChannelTypes: []discord.ChannelType{discord.ChannelTypeGuildText},
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "autorole",
			Description: "Toggle giving the slot role on creation",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionBool{
					Name:        "enabled",
					Description: "Give the slot role automatically",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "show",
			Description: "Show the current configuration",
		},
	},
}

func SlotConfigHandler(b *slotbot.Bot) handler.CommandHandler {
	return adminOnly(discord.PermissionAdministrator, guildOnly(func(e *handler.CommandEvent, guildID string) error {
		data := e.SlashCommandInteractionData()
		if data.SubCommandName == nil {
			return utils.EH.CreateErrorEmbed(e, "Pick a subcommand.")
		}

		ctx, cancel := commandContext(b)
		defer cancel()

		svc := b.Enforcement.Config()
		var (
			cfg *guildconfig.Config
			err error
		)
		switch *data.SubCommandName {
		case "role":
			cfg, err = svc.SetRole(ctx, guildID, data.String("name"), data.String("color"))
		case "limits":
			cfg, err = svc.SetFreeLimits(ctx, guildID, data.Int("here_limit"))
		case "vip-limits":
			cfg, err = svc.SetVIPLimits(ctx, guildID, data.Int("here_limit"), data.Int("everyone_limit"))
		case "logs":
			cfg, err = svc.SetLogsChannel(ctx, guildID, data.Channel("channel").ID.String())
		case "autorole":
			cfg, err = svc.SetAutoRole(ctx, guildID, data.Bool("enabled"))
		case "show":
			cfg, err = svc.Get(ctx, guildID)
		default:
			return utils.EH.CreateErrorEmbed(e, "Unknown subcommand.")
		}
		if err != nil {
			return utils.EH.CreateFromError(e, err)
		}
		return utils.EH.CreateEmbed(e, configEmbed(cfg))
	}))
}

func configEmbed(cfg *guildconfig.Config) discord.Embed {
	autoRole := "off"
	if cfg.AutoRole {
		autoRole = "on"
	}
	return discord.Embed{
		Title: "⚙️ Slot configuration",
		Color: utils.InfoColor,
		Fields: []discord.EmbedField{
			{Name: "Slot role", Value: fmt.Sprintf("%s (%s)", cfg.SlotRoleName, cfg.SlotRoleColor), Inline: utils.Ptr(true)},
			{Name: "Auto role", Value: autoRole, Inline: utils.Ptr(true)},
			{Name: "Logs channel", Value: channelMention(cfg.LogsChannelID), Inline: utils.Ptr(true)},
			{Name: "Free limits", Value: fmt.Sprintf("%d @here per day", cfg.FreeHerePerDay), Inline: utils.Ptr(false)},
			{Name: "VIP limits", Value: fmt.Sprintf("%d @here per day, %d @everyone per week", cfg.VIPHerePerDay, cfg.VIPEveryonePerWeek), Inline: utils.Ptr(false)},
		},
	}
}
