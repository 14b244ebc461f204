package platform

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/singleflight"

	"github.com/slotwarden/slotbot/internal/domain/enforcement"
)

const (
	FreeCategoryName = "🌟 FREE | slots"
	VIPCategoryName  = "💎 VIP | slots"

	freeChannelPrefix = "⭐-"
	vipChannelPrefix  = "💎-"
)

const (
	viewerAllow = discord.PermissionViewChannel | discord.PermissionReadMessageHistory
	viewerDeny  = discord.PermissionSendMessages | discord.PermissionAddReactions | discord.PermissionUseExternalEmojis
	ownerAllow  = discord.PermissionViewChannel | discord.PermissionSendMessages |
		discord.PermissionReadMessageHistory | discord.PermissionUseExternalEmojis | discord.PermissionAddReactions
)

var (
	invalidNameChars = regexp.MustCompile(`[^a-z0-9\-]`)
	repeatedDashes   = regexp.MustCompile(`-+`)
)

// ChannelName builds the slot channel name: lower case, dashes only, with
// the tier marker in front.
func ChannelName(name string, vip bool) string {
	clean := invalidNameChars.ReplaceAllString(strings.ToLower(name), "-")
	clean = strings.Trim(repeatedDashes.ReplaceAllString(clean, "-"), "-")
	prefix := freeChannelPrefix
	if vip {
		prefix = vipChannelPrefix
	}
	return prefix + clean
}

// Provisioner creates and removes slot channels and roles over REST.
type Provisioner struct {
	rest       REST
	categories *xsync.MapOf[string, snowflake.ID]
	group      singleflight.Group
}

var _ enforcement.Provisioner = (*Provisioner)(nil)

func NewProvisioner(r REST) *Provisioner {
	return &Provisioner{
		rest:       r,
		categories: xsync.NewMapOf[string, snowflake.ID](),
	}
}

func (p *Provisioner) CreateChannel(ctx context.Context, guildID string, spec enforcement.ChannelSpec) (string, error) {
	gid, err := parseID("guild", guildID)
	if err != nil {
		return "", err
	}
	owner, err := parseID("user", spec.OwnerID)
	if err != nil {
		return "", err
	}

	parent, err := p.category(ctx, gid, spec.VIP)
	if err != nil {
		return "", err
	}

	name := ChannelName(spec.Name, spec.VIP)
	if name == freeChannelPrefix || name == vipChannelPrefix {
		name += "slot-" + spec.OwnerID
	}

	ch, err := p.rest.CreateGuildChannel(gid, discord.GuildTextChannelCreate{
		Name:     name,
		ParentID: parent,
		PermissionOverwrites: []discord.PermissionOverwrite{
			discord.RolePermissionOverwrite{RoleID: gid, Allow: viewerAllow, Deny: viewerDeny},
			discord.MemberPermissionOverwrite{UserID: owner, Allow: ownerAllow},
		},
	}, rest.WithCtx(ctx), rest.WithReason(spec.Reason))
	if err != nil {
		return "", fmt.Errorf("failed to create channel %s: %w", name, err)
	}

	slog.Info("Slot channel created",
		slog.String("type", "sys"),
		slog.String("guild_id", guildID),
		slog.String("channel", name),
		slog.String("channel_id", ch.ID().String()),
	)
	return ch.ID().String(), nil
}

// category finds the tier's parent category, creating it once per guild.
func (p *Provisioner) category(ctx context.Context, guildID snowflake.ID, vip bool) (snowflake.ID, error) {
	name := FreeCategoryName
	if vip {
		name = VIPCategoryName
	}
	key := guildID.String() + ":" + name
	if id, ok := p.categories.Load(key); ok {
		return id, nil
	}

	v, err, _ := p.group.Do(key, func() (any, error) {
		channels, err := p.rest.GetGuildChannels(guildID, rest.WithCtx(ctx))
		if err != nil {
			return snowflake.ID(0), fmt.Errorf("failed to list channels: %w", err)
		}
		for _, ch := range channels {
			if ch.Type() == discord.ChannelTypeGuildCategory && matchesCategory(ch.Name(), vip) {
				p.categories.Store(key, ch.ID())
				return ch.ID(), nil
			}
		}

		created, err := p.rest.CreateGuildChannel(guildID, discord.GuildCategoryChannelCreate{Name: name},
			rest.WithCtx(ctx), rest.WithReason("slot category"))
		if err != nil {
			return snowflake.ID(0), fmt.Errorf("failed to create category %s: %w", name, err)
		}
		p.categories.Store(key, created.ID())
		return created.ID(), nil
	})
	if err != nil {
		return 0, err
	}
	return v.(snowflake.ID), nil
}

func matchesCategory(name string, vip bool) bool {
	lower := strings.ToLower(name)
	if !strings.Contains(lower, "slots") {
		return false
	}
	if vip {
		return strings.Contains(lower, "vip")
	}
	return strings.Contains(lower, "free")
}

func (p *Provisioner) DeleteChannel(ctx context.Context, channelID string) error {
	id, err := parseID("channel", channelID)
	if err != nil {
		return err
	}
	if err := p.rest.DeleteChannel(id, rest.WithCtx(ctx)); err != nil && !gone(err) {
		return fmt.Errorf("failed to delete channel %s: %w", channelID, err)
	}
	return nil
}

func (p *Provisioner) FindRole(ctx context.Context, guildID, name string) (string, bool, error) {
	gid, err := parseID("guild", guildID)
	if err != nil {
		return "", false, err
	}
	roles, err := p.rest.GetRoles(gid, rest.WithCtx(ctx))
	if err != nil {
		return "", false, fmt.Errorf("failed to list roles: %w", err)
	}
	for _, role := range roles {
		if role.Name == name {
			return role.ID.String(), true, nil
		}
	}
	return "", false, nil
}

func (p *Provisioner) CreateRole(ctx context.Context, guildID, name, color string) (string, error) {
	gid, err := parseID("guild", guildID)
	if err != nil {
		return "", err
	}
	perms := ownerAllow
	role, err := p.rest.CreateRole(gid, discord.RoleCreate{
		Name:        name,
		Color:       parseColor(color),
		Permissions: &perms,
	}, rest.WithCtx(ctx), rest.WithReason("auto-created slot role"))
	if err != nil {
		return "", fmt.Errorf("failed to create role %s: %w", name, err)
	}
	return role.ID.String(), nil
}

func (p *Provisioner) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	return p.memberRole(ctx, guildID, userID, roleID, p.rest.AddMemberRole)
}

func (p *Provisioner) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	err := p.memberRole(ctx, guildID, userID, roleID, p.rest.RemoveMemberRole)
	if gone(err) {
		return nil
	}
	return err
}

type memberRoleFunc func(guildID, userID, roleID snowflake.ID, opts ...rest.RequestOpt) error

func (p *Provisioner) memberRole(ctx context.Context, guildID, userID, roleID string, fn memberRoleFunc) error {
	gid, err := parseID("guild", guildID)
	if err != nil {
		return err
	}
	uid, err := parseID("user", userID)
	if err != nil {
		return err
	}
	rid, err := parseID("role", roleID)
	if err != nil {
		return err
	}
	return fn(gid, uid, rid, rest.WithCtx(ctx))
}

// parseColor reads "#RRGGBB"; anything else yields 0.
func parseColor(hex string) int {
	var c int
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%06x", &c); err != nil {
		return 0
	}
	return c
}
