package enforcement

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/slotwarden/slotbot/internal/domain/penalty"
	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/domain/slots"
	"github.com/slotwarden/slotbot/internal/domain/usage"
)

const (
	ReportReward  int64 = 1
	ReportPenalty int64 = -5
)

type MentionEvent struct {
	UserID    string
	GuildID   string
	ChannelID string
	Kinds     []period.Kind
}

type MentionOutcome struct {
	Usage   usage.Result
	Penalty *penalty.Outcome
}

type AddUsageRequest struct {
	UserID    string
	GuildID   string
	Kind      period.Kind
	ChannelID string
	// Report marks a moderator observation of a real mention. Reports reward
	// use within the limit and fine a breach on top of the warning.
	Report bool
}

type UsageOutcome struct {
	Slot        *slots.Slot
	Usage       usage.Result
	Penalty     *penalty.Outcome
	PointsDelta int64
}

// RecordMention meters every mention kind found in a message of a slot
// holder. Members without an active slot are ignored. A free slot's
// @everyone is answered with a notice and the whole message goes unmetered.
func (o *Orchestrator) RecordMention(ctx context.Context, ev MentionEvent) ([]MentionOutcome, error) {
	if len(ev.Kinds) == 0 {
		return nil, nil
	}
	slot, err := o.slots.LookupActive(ctx, ev.UserID, ev.GuildID)
	if errors.Is(err, slots.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !slot.Category.IsVIP() && slices.Contains(ev.Kinds, period.Everyone) {
		o.notify(ctx, ev.ChannelID, everyoneRejectedNotice(slot.UserID))
		return nil, nil
	}

	outcomes := make([]MentionOutcome, 0, len(ev.Kinds))
	for _, kind := range ev.Kinds {
		res, err := o.usage.RecordUsage(ctx, slot.UserID, slot.GuildID, kind, slot.Category)
		if err != nil {
			return outcomes, err
		}
		o.notify(ctx, ev.ChannelID, counterNotice(res))

		out := MentionOutcome{Usage: res}
		if res.Breached {
			p, err := o.infraction(ctx, slot, ev.ChannelID, fmt.Sprintf("exceeded %s limit", kind.Marker()))
			if err != nil {
				return outcomes, err
			}
			out.Penalty = &p
		}
		outcomes = append(outcomes, out)
		if out.Penalty != nil && out.Penalty.Action == penalty.ActionRevoked {
			break
		}
	}
	return outcomes, nil
}

// AddUsage counts a mention on behalf of a moderator.
func (o *Orchestrator) AddUsage(ctx context.Context, req AddUsageRequest) (*UsageOutcome, error) {
	slot, err := o.slots.LookupActive(ctx, req.UserID, req.GuildID)
	if err != nil {
		return nil, err
	}
	if req.Kind == period.Everyone && !slot.Category.IsVIP() {
		return nil, ErrNotVIP
	}

	res, err := o.usage.RecordUsage(ctx, slot.UserID, slot.GuildID, req.Kind, slot.Category)
	if err != nil {
		return nil, err
	}
	out := &UsageOutcome{Slot: slot, Usage: res}

	o.notify(ctx, slot.ChannelID, remainingNotice(slot.UserID, res))
	o.audit(ctx, slot.GuildID, slot.UserID, ActionUsage, fmt.Sprintf("%s %d/%d added by moderator", req.Kind.Marker(), res.Count, res.Limit))

	if !req.Report {
		return out, nil
	}

	switch {
	case res.Breached:
		out.PointsDelta = ReportPenalty
	case res.Remaining > 0:
		out.PointsDelta = ReportReward
	}
	if out.PointsDelta != 0 {
		if err := o.slots.AwardPoints(ctx, slot.UserID, slot.GuildID, out.PointsDelta); err != nil {
			return nil, err
		}
		slot.Points += out.PointsDelta
	}

	if res.Breached {
		p, err := o.infraction(ctx, slot, req.ChannelID, fmt.Sprintf("exceeded %s limit", req.Kind.Marker()))
		if err != nil {
			return nil, err
		}
		out.Penalty = &p
	}
	return out, nil
}

// Warn issues a manual warning through the same escalation as a breach.
func (o *Orchestrator) Warn(ctx context.Context, userID, guildID, channelID, reason string) (*slots.Slot, penalty.Outcome, error) {
	slot, err := o.slots.LookupActive(ctx, userID, guildID)
	if err != nil {
		return nil, penalty.Outcome{}, err
	}
	if reason == "" {
		reason = "manual warning"
	}
	out, err := o.infraction(ctx, slot, channelID, reason)
	return slot, out, err
}

func (o *Orchestrator) infraction(ctx context.Context, slot *slots.Slot, channelID, reason string) (penalty.Outcome, error) {
	out, err := o.penalty.ApplyInfraction(ctx, slot.UserID, slot.GuildID)
	if err != nil {
		return out, err
	}

	switch out.Action {
	case penalty.ActionWarned:
		o.notify(ctx, channelID, fmt.Sprintf("<@%s> warning %d/%d (%s). The next warning revokes your slot.",
			slot.UserID, out.WarningCount, penalty.Threshold, reason))
		o.audit(ctx, slot.GuildID, slot.UserID, ActionWarning, fmt.Sprintf("warning %d/%d: %s", out.WarningCount, penalty.Threshold, reason))
	case penalty.ActionRevoked:
		if err := o.revoke(ctx, slot, ActionSlotRevoked, fmt.Sprintf("revoked after %d warnings: %s", out.WarningCount, reason)); err != nil {
			return out, err
		}
		if channelID != slot.ChannelID {
			o.notify(ctx, channelID, fmt.Sprintf("<@%s> your slot has been revoked after %d warnings (%s).",
				slot.UserID, out.WarningCount, reason))
		}
	}
	return out, nil
}

func everyoneRejectedNotice(userID string) string {
	return fmt.Sprintf("🚫 <@%s>, free slots cannot use @everyone! Only @here is allowed.", userID)
}

func counterNotice(res usage.Result) string {
	status := "use a middleman to be safe"
	if res.Breached {
		status = "LIMIT EXCEEDED"
	}
	return fmt.Sprintf("• **%d/%d** %s | %s", res.Count, res.Limit, res.Kind.Marker(), status)
}

func remainingNotice(userID string, res usage.Result) string {
	window := "today"
	if res.Kind == period.Everyone {
		window = "this week"
	}
	return fmt.Sprintf("<@%s>, you have **%d/%d %s** left %s.", userID, res.Remaining, res.Limit, res.Kind.Marker(), window)
}
