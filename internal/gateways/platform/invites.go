package platform

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/rest"

	"github.com/slotwarden/slotbot/internal/domain/invites"
)

// FetchInvites loads the guild's current invites with their use counts.
func FetchInvites(ctx context.Context, r REST, guildID string) ([]invites.Invite, error) {
	gid, err := parseID("guild", guildID)
	if err != nil {
		return nil, err
	}
	list, err := r.GetGuildInvites(gid, rest.WithCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invites: %w", err)
	}

	out := make([]invites.Invite, 0, len(list))
	for _, inv := range list {
		entry := invites.Invite{Code: inv.Code, Uses: inv.Uses}
		if inv.Inviter != nil {
			entry.InviterID = inv.Inviter.ID.String()
		}
		out = append(out, entry)
	}
	return out, nil
}
