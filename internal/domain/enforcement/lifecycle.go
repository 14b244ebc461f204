package enforcement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slotwarden/slotbot/internal/domain/faults"
	"github.com/slotwarden/slotbot/internal/domain/guildconfig"
	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/domain/slots"
)

// MaxRedeemDays caps a single redemption. One point buys one day.
const MaxRedeemDays = 30

type IssueRequest struct {
	UserID       string
	GuildID      string
	UserTag      string
	ChannelName  string
	Category     slots.Category
	DurationDays int
	VIP          bool
}

type RedeemRequest struct {
	UserID      string
	GuildID     string
	UserTag     string
	ChannelName string
	Category    slots.Category
	Days        int
}

func (o *Orchestrator) ensureNoActive(ctx context.Context, userID, guildID string) error {
	_, err := o.slots.LookupActive(ctx, userID, guildID)
	switch {
	case err == nil:
		return slots.ErrAlreadyActive
	case errors.Is(err, slots.ErrNotFound):
		return nil
	}
	return err
}

func (o *Orchestrator) slotRole(ctx context.Context, guildID string, cfg *guildconfig.Config) (string, error) {
	roleID, found, err := o.provisioner.FindRole(ctx, guildID, cfg.SlotRoleName)
	if err != nil {
		return "", faults.Provisioning("find role", err)
	}
	if found {
		return roleID, nil
	}
	roleID, err = o.provisioner.CreateRole(ctx, guildID, cfg.SlotRoleName, cfg.SlotRoleColor)
	if err != nil {
		return "", faults.Provisioning("create role", err)
	}
	return roleID, nil
}

// IssueSlot provisions the role and channel for a new slot and stores it.
// Anything created before a failing step is released again.
func (o *Orchestrator) IssueSlot(ctx context.Context, req IssueRequest) (*slots.Slot, error) {
	if err := validateIssue(req); err != nil {
		return nil, err
	}
	if err := o.ensureNoActive(ctx, req.UserID, req.GuildID); err != nil {
		return nil, err
	}
	return o.issue(ctx, req)
}

func validateIssue(req IssueRequest) error {
	if strings.TrimSpace(string(req.Category)) == "" {
		return fmt.Errorf("%w: category is required", slots.ErrInvalidRequest)
	}
	if req.DurationDays < slots.MinDurationDays || req.DurationDays > slots.MaxDurationDays {
		return fmt.Errorf("%w: duration must be between %d and %d days", slots.ErrInvalidRequest, slots.MinDurationDays, slots.MaxDurationDays)
	}
	return nil
}

// issue runs provisioning for a validated request whose caller already
// checked for an active slot. The unique key still rejects a racing insert.
func (o *Orchestrator) issue(ctx context.Context, req IssueRequest) (*slots.Slot, error) {
	category := slots.Category(strings.TrimSpace(string(req.Category)))
	if req.VIP {
		category = category.AsVIP()
	}

	cfg, err := o.config.Get(ctx, req.GuildID)
	if err != nil {
		return nil, err
	}

	var roleID string
	if cfg.AutoRole {
		if roleID, err = o.slotRole(ctx, req.GuildID, cfg); err != nil {
			return nil, err
		}
		if err := o.provisioner.AddRole(ctx, req.GuildID, req.UserID, roleID); err != nil {
			return nil, faults.Provisioning("add role", err)
		}
	}

	channelName := req.ChannelName
	if channelName == "" {
		channelName = req.UserTag
	}
	channelID, err := o.provisioner.CreateChannel(ctx, req.GuildID, ChannelSpec{
		Name:    channelName,
		OwnerID: req.UserID,
		VIP:     category.IsVIP(),
		Reason:  fmt.Sprintf("%s slot for %s", category.Label(), req.UserTag),
	})
	if err != nil {
		_ = o.release(ctx, req.GuildID, req.UserID, "", roleID)
		return nil, faults.Provisioning("create channel", err)
	}

	slot, err := o.slots.Issue(ctx, slots.IssueRequest{
		UserID:       req.UserID,
		GuildID:      req.GuildID,
		UserTag:      req.UserTag,
		DurationDays: req.DurationDays,
		Category:     category,
		ChannelID:    channelID,
		RoleID:       roleID,
	})
	if err != nil {
		_ = o.release(ctx, req.GuildID, req.UserID, channelID, roleID)
		return nil, err
	}

	o.index(ctx, slot)
	o.notify(ctx, channelID, welcomeNotice(slot, cfg))
	o.audit(ctx, req.GuildID, req.UserID, ActionSlotCreated,
		fmt.Sprintf("%s slot %q for %d days", category.Label(), string(category), req.DurationDays))
	return slot, nil
}

func welcomeNotice(slot *slots.Slot, cfg *guildconfig.Config) string {
	vip := slot.Category.IsVIP()
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome <@%s>! Your %s slot lasts %d days.\n", slot.UserID, slot.Category.Label(), slot.DurationDays)
	fmt.Fprintf(&b, "Allowance: %d @here per day", cfg.LimitFor(period.Here, vip))
	if vip {
		fmt.Fprintf(&b, ", %d @everyone per week", cfg.LimitFor(period.Everyone, vip))
	}
	b.WriteString(". Going over the limit earns a warning; the second warning revokes the slot.")
	return b.String()
}

// RemoveSlot releases the slot's channel and role and deletes the slot.
// Resource cleanup is best effort; the row is deleted regardless.
func (o *Orchestrator) RemoveSlot(ctx context.Context, userID, guildID, reason string) (*slots.Slot, error) {
	slot, err := o.slots.LookupActive(ctx, userID, guildID)
	if err != nil {
		return nil, err
	}
	if err := o.revoke(ctx, slot, ActionSlotRemoved, reason); err != nil {
		return nil, err
	}
	return slot, nil
}

func (o *Orchestrator) revoke(ctx context.Context, slot *slots.Slot, action, reason string) error {
	_ = o.release(ctx, slot.GuildID, slot.UserID, slot.ChannelID, slot.RoleID)

	if _, err := o.slots.Revoke(ctx, slot.UserID, slot.GuildID); err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	o.unindex(ctx, slot.UserID, slot.GuildID)
	o.audit(ctx, slot.GuildID, slot.UserID, action, reason)
	return nil
}

// Redeem spends one invite point per day on a free slot. The debit happens
// first; if the slot cannot be created the points are refunded.
func (o *Orchestrator) Redeem(ctx context.Context, req RedeemRequest) (*slots.Slot, error) {
	if req.Days < 1 || req.Days > MaxRedeemDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidRedeem, MaxRedeemDays)
	}
	if req.Category.IsVIP() {
		return nil, fmt.Errorf("%w: redeemed slots cannot use a VIP category", ErrInvalidRedeem)
	}
	issueReq := IssueRequest{
		UserID:       req.UserID,
		GuildID:      req.GuildID,
		UserTag:      req.UserTag,
		ChannelName:  req.ChannelName,
		Category:     req.Category,
		DurationDays: req.Days,
	}
	if err := validateIssue(issueReq); err != nil {
		return nil, err
	}
	if err := o.ensureNoActive(ctx, req.UserID, req.GuildID); err != nil {
		return nil, err
	}

	cost := int64(req.Days)
	if err := o.invites.Debit(ctx, req.UserID, req.GuildID, cost); err != nil {
		return nil, err
	}

	slot, err := o.issue(ctx, issueReq)
	if err != nil {
		refundCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()
		if rerr := o.invites.Refund(refundCtx, req.UserID, req.GuildID, cost); rerr != nil {
			slog.Error("Redemption refund failed",
				slog.String("type", "sys"),
				slog.String("user_id", req.UserID),
				slog.String("guild_id", req.GuildID),
				slog.Int64("points", cost),
				slog.Any("error", rerr),
			)
			return nil, errors.Join(err, rerr)
		}
		return nil, err
	}

	o.audit(ctx, req.GuildID, req.UserID, ActionSlotRedeemed, fmt.Sprintf("%d points for %d days", cost, req.Days))
	return slot, nil
}

// GivePoints adds reward points to an active slot and returns it updated.
func (o *Orchestrator) GivePoints(ctx context.Context, userID, guildID string, points int64, reason string) (*slots.Slot, error) {
	if err := o.slots.AwardPoints(ctx, userID, guildID, points); err != nil {
		return nil, err
	}
	slot, err := o.slots.LookupActive(ctx, userID, guildID)
	if err != nil {
		return nil, err
	}
	o.index(ctx, slot)

	details := fmt.Sprintf("%+d points", points)
	if reason != "" {
		details += ": " + reason
	}
	o.audit(ctx, guildID, userID, ActionPoints, details)
	return slot, nil
}

// Sweep deletes expired slots and releases what they held.
func (o *Orchestrator) Sweep(ctx context.Context) (int, error) {
	expired, err := o.slots.Expire(ctx, o.clock.Now())
	if err != nil {
		return 0, err
	}
	for _, slot := range expired {
		_ = o.release(ctx, slot.GuildID, slot.UserID, slot.ChannelID, slot.RoleID)
		o.unindex(ctx, slot.UserID, slot.GuildID)
		o.audit(ctx, slot.GuildID, slot.UserID, ActionSlotExpired, fmt.Sprintf("expired at %s", slot.ExpiresAt.Format("2006-01-02 15:04")))
	}
	return len(expired), nil
}

func (o *Orchestrator) Compact(ctx context.Context, kind period.Kind) (int64, error) {
	return o.usage.Compact(ctx, kind)
}
