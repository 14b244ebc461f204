package handlers

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"

	"github.com/slotwarden/slotbot/internal/domain/enforcement"
	"github.com/slotwarden/slotbot/internal/domain/invites"
	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/gateways/platform"
	"github.com/slotwarden/slotbot/slotbot"
)

const eventTimeout = 5 * time.Second

var (
	codeSpan        = regexp.MustCompile("(?s)```.*?```|`[^`]*`")
	hereMention     = regexp.MustCompile(`@here\b`)
	everyoneMention = regexp.MustCompile(`@everyone\b`)
)

// MentionKinds lists the broadcast mentions present in content. Markers
// inside code spans and longer words like @hereford do not count.
func MentionKinds(content string) []period.Kind {
	content = codeSpan.ReplaceAllString(content, "")

	var kinds []period.Kind
	if hereMention.MatchString(content) {
		kinds = append(kinds, period.Here)
	}
	if everyoneMention.MatchString(content) {
		kinds = append(kinds, period.Everyone)
	}
	return kinds
}

type inviteLedger interface {
	Credit(ctx context.Context, userID, guildID string, amount int64) (*invites.Account, error)
}

// attributeJoin credits the inviter of memberID with reward points. It
// returns a nil account when no inviter is found or the member invited
// themselves.
func attributeJoin(ctx context.Context, tracker *invites.Tracker, ledger inviteLedger, reward int64, guildID, memberID string, current []invites.Invite) (string, *invites.Account, error) {
	inviter, ok := tracker.ResolveInviter(guildID, current)
	if !ok || inviter == memberID {
		return "", nil, nil
	}
	acc, err := ledger.Credit(ctx, inviter, guildID, reward)
	if err != nil {
		return inviter, nil, err
	}
	return inviter, acc, nil
}

// MessageHandler meters @here and @everyone in messages of slot holders.
func MessageHandler(b *slotbot.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageCreate) {
		// MentionEveryone is only set when the message actually pinged.
		if e.Message.Author.Bot || !e.Message.MentionEveryone {
			return
		}
		kinds := MentionKinds(e.Message.Content)
		if len(kinds) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()

		outcomes, err := b.Enforcement.RecordMention(ctx, enforcement.MentionEvent{
			UserID:    e.Message.Author.ID.String(),
			GuildID:   e.GuildID.String(),
			ChannelID: e.ChannelID.String(),
			Kinds:     kinds,
		})
		if err != nil {
			slog.Error("Failed to record mention",
				slog.String("type", "sys"),
				slog.String("user_id", e.Message.Author.ID.String()),
				slog.String("guild_id", e.GuildID.String()),
				slog.Any("error", err),
			)
			return
		}
		for _, o := range outcomes {
			if o.Penalty != nil {
				slog.Info("Mention penalized",
					slog.String("type", "sys"),
					slog.String("user_id", e.Message.Author.ID.String()),
					slog.String("kind", string(o.Usage.Kind)),
					slog.String("action", o.Penalty.Action.String()),
				)
			}
		}
	})
}

// MemberJoinHandler credits the inviter of a new member.
func MemberJoinHandler(b *slotbot.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMemberJoin) {
		if e.Member.User.Bot {
			return
		}
		guildID := e.GuildID.String()

		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()

		current, err := platform.FetchInvites(ctx, b.Client.Rest(), guildID)
		if err != nil {
			slog.Error("Failed to fetch invites", slog.String("type", "sys"), slog.String("guild_id", guildID), slog.Any("error", err))
			return
		}

		inviter, acc, err := attributeJoin(ctx, b.Tracker, b.Enforcement.Invites(), b.Cfg.Policy.InviteReward,
			guildID, e.Member.User.ID.String(), current)
		if err != nil {
			slog.Error("Failed to credit invite", slog.String("type", "sys"), slog.String("inviter_id", inviter), slog.Any("error", err))
			return
		}
		if acc == nil {
			return
		}
		slog.Info("Invite credited",
			slog.String("type", "sys"),
			slog.String("guild_id", guildID),
			slog.String("inviter_id", inviter),
			slog.String("member_id", e.Member.User.ID.String()),
			slog.Int64("points", acc.Points),
		)
	})
}

// InviteHandler keeps the tracker in step with invite create and delete events.
func InviteHandler(b *slotbot.Bot) bot.EventListener {
	return &events.ListenerAdapter{
		OnInviteCreate: func(e *events.InviteCreate) {
			if e.GuildID == nil {
				return
			}
			inv := invites.Invite{Code: e.Code}
			if e.Invite.Inviter != nil {
				inv.InviterID = e.Invite.Inviter.ID.String()
			}
			b.Tracker.Add(e.GuildID.String(), inv)
		},
		OnInviteDelete: func(e *events.InviteDelete) {
			if e.GuildID == nil {
				return
			}
			b.Tracker.Remove(e.GuildID.String(), e.Code)
		},
	}
}

// GuildHandler snapshots invites when a guild becomes available and drops
// them when the bot leaves.
func GuildHandler(b *slotbot.Bot) bot.EventListener {
	snapshot := func(guildID string) {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		current, err := platform.FetchInvites(ctx, b.Client.Rest(), guildID)
		if err != nil {
			slog.Warn("Failed to snapshot invites", slog.String("type", "sys"), slog.String("guild_id", guildID), slog.Any("error", err))
			return
		}
		b.Tracker.Snapshot(guildID, current)
	}

	return &events.ListenerAdapter{
		OnGuildReady: func(e *events.GuildReady) { snapshot(e.GuildID.String()) },
		OnGuildJoin:  func(e *events.GuildJoin) { snapshot(e.GuildID.String()) },
		OnGuildLeave: func(e *events.GuildLeave) { b.Tracker.Forget(e.GuildID.String()) },
	}
}
