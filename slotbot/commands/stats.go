package commands

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/slotwarden/slotbot/internal/domain/slots"
	"github.com/slotwarden/slotbot/slotbot"
	"github.com/slotwarden/slotbot/slotbot/utils"
)

const (
	listLimit     = 100
	activityLimit = 10
)

var SlotStats = discord.SlashCommandCreate{
	Name:        "slotstats",
	Description: "Show slot statistics for this server",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "type",
			Description: "Which statistics to show",
			Required:    true,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Overview", Value: "overview"},
				{Name: "Active slots", Value: "active"},
				{Name: "Recent activity", Value: "activity"},
				{Name: "Points leaderboard", Value: "points"},
			},
		},
	},
}

var GivePoints = discord.SlashCommandCreate{
	Name:        "givepoints",
	Description: "Reward a slot owner with points",
	Options: []discord.ApplicationCommandOption{
		userOption("Slot owner to reward"),
		discord.ApplicationCommandOptionInt{
			Name:        "points",
			Description: "Points to add",
			Required:    true,
			MinValue:    utils.Ptr(1),
			MaxValue:    utils.Ptr(1000),
		},
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Why the points were given",
		},
	},
}

// paginate shows lines in pages of utils.EntriesPerPage.
func paginate(b *slotbot.Bot, e *handler.CommandEvent, title string, color int, lines []string) error {
	if len(lines) == 0 {
		return utils.EH.CreateEmbed(e, discord.Embed{
			Title:       title,
			Description: "Nothing to show yet.",
			Color:       color,
		})
	}

	totalPages := int(math.Ceil(float64(len(lines)) / float64(utils.EntriesPerPage)))
	return b.Paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			start := page * utils.EntriesPerPage
			end := min(start+utils.EntriesPerPage, len(lines))
			embed.
				SetTitle(title).
				SetDescription(strings.Join(lines[start:end], "\n")).
				SetColor(color).
				SetFooter(fmt.Sprintf("Page %d/%d • Total: %d", page+1, totalPages, len(lines)), "")
		},
		Pages:      totalPages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

func slotLine(rank int, s *slots.Slot, now time.Time) string {
	icon := "⭐"
	if s.Category.IsVIP() {
		icon = "💎"
	}
	return fmt.Sprintf("`%d.` %s <@%s> • %s • %d pts • %dd left", rank, icon, s.UserID, s.Category, s.Points, s.DaysLeft(now))
}

func SlotStatsHandler(b *slotbot.Bot) handler.CommandHandler {
	return guildOnly(func(e *handler.CommandEvent, guildID string) error {
		ctx, cancel := commandContext(b)
		defer cancel()

		now := time.Now()
		switch e.SlashCommandInteractionData().String("type") {
		case "overview":
			stats, err := b.Enforcement.Slots().Stats(ctx, guildID)
			if err != nil {
				return utils.EH.CreateFromError(e, err)
			}
			return utils.EH.CreateEmbed(e, overviewEmbed(stats))

		case "active", "points":
			var (
				list  []*slots.Slot
				err   error
				title = "📋 Active slots"
			)
			if e.SlashCommandInteractionData().String("type") == "points" {
				title = "🏆 Points leaderboard"
				list, err = b.Enforcement.Slots().TopByPoints(ctx, guildID, listLimit)
			} else {
				list, err = b.Enforcement.Slots().ListActive(ctx, guildID, slots.OrderNewest, listLimit)
			}
			if err != nil {
				return utils.EH.CreateFromError(e, err)
			}
			lines := make([]string, len(list))
			for i, s := range list {
				lines[i] = slotLine(i+1, s, now)
			}
			return paginate(b, e, title, utils.InfoColor, lines)

		case "activity":
			entries, err := b.Enforcement.RecentActivity(ctx, guildID, activityLimit)
			if err != nil {
				return utils.EH.CreateFromError(e, err)
			}
			var sb strings.Builder
			for _, entry := range entries {
				sb.WriteString(fmt.Sprintf("%s `%s` <@%s> %s\n", timestamp(entry.CreatedAt, "R"), entry.Action, entry.UserID, entry.Details))
			}
			if sb.Len() == 0 {
				sb.WriteString("No activity recorded yet.")
			}
			return utils.EH.CreateEmbed(e, discord.Embed{
				Title:       "🕒 Recent activity",
				Description: sb.String(),
				Color:       utils.InfoColor,
			})
		}
		return utils.EH.CreateErrorEmbed(e, "Unknown statistics type.")
	})
}

func overviewEmbed(stats *slots.Stats) discord.Embed {
	var sb strings.Builder
	for _, c := range stats.Categories {
		sb.WriteString(fmt.Sprintf("**%s**: %d\n", c.Category, c.Count))
	}
	if sb.Len() == 0 {
		sb.WriteString("No active slots.")
	}
	return discord.Embed{
		Title: "📊 Slot overview",
		Color: utils.InfoColor,
		Fields: []discord.EmbedField{
			{Name: "Active slots", Value: fmt.Sprintf("%d", stats.Active), Inline: utils.Ptr(true)},
			{Name: "Total points", Value: fmt.Sprintf("%d", stats.TotalPoints), Inline: utils.Ptr(true)},
			{Name: "By category", Value: sb.String(), Inline: utils.Ptr(false)},
		},
	}
}

func GivePointsHandler(b *slotbot.Bot) handler.CommandHandler {
	return adminOnly(discord.PermissionAdministrator, guildOnly(func(e *handler.CommandEvent, guildID string) error {
		data := e.SlashCommandInteractionData()
		user := data.User("user")
		points := data.Int("points")

		ctx, cancel := commandContext(b)
		defer cancel()

		slot, err := b.Enforcement.GivePoints(ctx, user.ID.String(), guildID, int64(points), data.String("reason"))
		if err != nil {
			return utils.EH.CreateFromError(e, err)
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Gave **%d** points to <@%s>. They now have **%d** points.", points, user.ID, slot.Points))
	}))
}
