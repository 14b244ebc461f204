package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/slotwarden/slotbot/internal/domain/slots"
	"github.com/slotwarden/slotbot/internal/gateways/search"
	"github.com/slotwarden/slotbot/slotbot"
	"github.com/slotwarden/slotbot/slotbot/utils"
)

const searchLimit = 50

var SearchSlots = discord.SlashCommandCreate{
	Name:        "searchslots",
	Description: "Search slots by owner or category",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "query",
			Description: "Text to search for",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "category",
			Description: "Only show slots in this category",
		},
	},
}

func SearchSlotsHandler(b *slotbot.Bot) handler.CommandHandler {
	return guildOnly(func(e *handler.CommandEvent, guildID string) error {
		data := e.SlashCommandInteractionData()
		query := search.Normalize(data.String("query"))
		if query == "" {
			return utils.EH.CreateErrorEmbed(e, "Search query cannot be empty.")
		}

		ctx, cancel := commandContext(b)
		defer cancel()

		hits, err := b.Search.Search(ctx, guildID, query, data.String("category"), searchLimit)
		if errors.Is(err, search.ErrDisabled) {
			return utils.EH.CreateErrorEmbed(e, "Slot search is not enabled on this bot.")
		}
		if err != nil {
			return utils.EH.CreateFromError(e, err)
		}

		lines := make([]string, len(hits))
		for i, h := range hits {
			icon := "⭐"
			if slots.Category(h.Category).IsVIP() {
				icon = "💎"
			}
			lines[i] = fmt.Sprintf("`%d.` %s <@%s> • %s • %d pts • expires %s", i+1, icon, h.UserID, h.Category, h.Points, timestamp(h.ExpiresAt, "R"))
		}
		return paginate(b, e, fmt.Sprintf("🔍 Results for `%s`", strings.ReplaceAll(query, "`", "")), utils.InfoColor, lines)
	})
}
