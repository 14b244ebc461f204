// Package enforcement ties the slot, usage, penalty and invite ledgers to
// the chat platform. It owns every multi-step flow that must clean up after
// itself when a later step fails.
package enforcement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/slotwarden/slotbot/internal/domain/guildconfig"
	"github.com/slotwarden/slotbot/internal/domain/invites"
	"github.com/slotwarden/slotbot/internal/domain/penalty"
	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/domain/slots"
	"github.com/slotwarden/slotbot/internal/domain/usage"
)

const cleanupTimeout = 10 * time.Second

var (
	ErrNotVIP        = errors.New("slot is not a VIP slot")
	ErrInvalidRedeem = errors.New("invalid redemption")
)

type Deps struct {
	Slots       slots.Service
	Usage       usage.Service
	Penalty     penalty.Service
	Invites     invites.Service
	Config      guildconfig.Service
	Provisioner Provisioner
	Notifier    Notifier
	Indexer     Indexer
	Activity    ActivityLog
	Clock       period.Clock
}

type Orchestrator struct {
	slots       slots.Service
	usage       usage.Service
	penalty     penalty.Service
	invites     invites.Service
	config      guildconfig.Service
	provisioner Provisioner
	notifier    Notifier
	indexer     Indexer
	activity    ActivityLog
	clock       period.Clock
}

func New(d Deps) *Orchestrator {
	if d.Clock == nil {
		d.Clock = period.SystemClock{}
	}
	if d.Indexer == nil {
		d.Indexer = nopIndexer{}
	}
	return &Orchestrator{
		slots:       d.Slots,
		usage:       d.Usage,
		penalty:     d.Penalty,
		invites:     d.Invites,
		config:      d.Config,
		provisioner: d.Provisioner,
		notifier:    d.Notifier,
		indexer:     d.Indexer,
		activity:    d.Activity,
		clock:       d.Clock,
	}
}

type nopIndexer struct{}

func (nopIndexer) Upsert(context.Context, *slots.Slot) error      { return nil }
func (nopIndexer) Remove(context.Context, string, string) error { return nil }

func (o *Orchestrator) Slots() slots.Service {
	return o.slots
}

func (o *Orchestrator) Usage() usage.Service {
	return o.usage
}

func (o *Orchestrator) Penalty() penalty.Service {
	return o.penalty
}

func (o *Orchestrator) Invites() invites.Service {
	return o.invites
}

func (o *Orchestrator) Config() guildconfig.Service {
	return o.config
}

func (o *Orchestrator) RecentActivity(ctx context.Context, guildID string, limit int) ([]Entry, error) {
	return o.activity.Recent(ctx, guildID, limit)
}

// notify delivers content and only logs failures.
func (o *Orchestrator) notify(ctx context.Context, channelID, content string) {
	if channelID == "" {
		return
	}
	if err := o.notifier.Notify(ctx, channelID, content); err != nil {
		slog.Warn("Failed to deliver notice",
			slog.String("type", "sys"),
			slog.String("channel_id", channelID),
			slog.Any("error", err),
		)
	}
}

// audit writes the activity row and mirrors it to the guild's logs channel.
func (o *Orchestrator) audit(ctx context.Context, guildID, userID, action, details string) {
	entry := Entry{
		GuildID:   guildID,
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: o.clock.Now(),
	}
	if err := o.activity.Record(ctx, entry); err != nil {
		slog.Error("Failed to record activity",
			slog.String("type", "db"),
			slog.String("action", action),
			slog.Any("error", err),
		)
	}

	cfg, err := o.config.Get(ctx, guildID)
	if err != nil || cfg.LogsChannelID == "" {
		return
	}
	o.notify(ctx, cfg.LogsChannelID, fmt.Sprintf("[%s] <@%s> %s", action, userID, details))
}

func (o *Orchestrator) index(ctx context.Context, slot *slots.Slot) {
	if err := o.indexer.Upsert(ctx, slot); err != nil {
		slog.Warn("Failed to index slot",
			slog.String("type", "sys"),
			slog.String("user_id", slot.UserID),
			slog.Any("error", err),
		)
	}
}

func (o *Orchestrator) unindex(ctx context.Context, userID, guildID string) {
	if err := o.indexer.Remove(ctx, userID, guildID); err != nil {
		slog.Warn("Failed to remove slot from index",
			slog.String("type", "sys"),
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}

// release deletes the slot channel and takes the slot role back. Both run
// on a context that survives the caller's cancellation.
func (o *Orchestrator) release(ctx context.Context, guildID, userID, channelID, roleID string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	var g errgroup.Group
	if channelID != "" {
		g.Go(func() error {
			if err := o.provisioner.DeleteChannel(ctx, channelID); err != nil {
				return fmt.Errorf("failed to delete channel %s: %w", channelID, err)
			}
			return nil
		})
	}
	if roleID != "" {
		g.Go(func() error {
			if err := o.provisioner.RemoveRole(ctx, guildID, userID, roleID); err != nil {
				return fmt.Errorf("failed to remove role %s: %w", roleID, err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		slog.Warn("Slot resources not fully released",
			slog.String("type", "sys"),
			slog.String("guild_id", guildID),
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
	return err
}
