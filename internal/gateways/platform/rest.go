// Package platform adapts the Discord REST API to the slot services.
package platform

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// REST is the subset of rest.Rest the adapters call.
type REST interface {
	GetGuildChannels(guildID snowflake.ID, opts ...rest.RequestOpt) ([]discord.GuildChannel, error)
	CreateGuildChannel(guildID snowflake.ID, guildChannelCreate discord.GuildChannelCreate, opts ...rest.RequestOpt) (discord.GuildChannel, error)
	DeleteChannel(channelID snowflake.ID, opts ...rest.RequestOpt) error
	GetRoles(guildID snowflake.ID, opts ...rest.RequestOpt) ([]discord.Role, error)
	CreateRole(guildID snowflake.ID, roleCreate discord.RoleCreate, opts ...rest.RequestOpt) (*discord.Role, error)
	AddMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
	RemoveMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
	GetGuildInvites(guildID snowflake.ID, opts ...rest.RequestOpt) ([]discord.ExtendedInvite, error)
}

var _ REST = rest.Rest(nil)

var (
	ErrInvalidID = errors.New("invalid snowflake")
	ErrOffline   = errors.New("platform is not connected")
)

func parseID(kind, s string) (snowflake.ID, error) {
	id, err := snowflake.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidID, kind, s)
	}
	return id, nil
}

// gone reports whether err means the target no longer exists.
func gone(err error) bool {
	return rest.IsJSONErrorCode(err,
		rest.JSONErrorCodeUnknownChannel,
		rest.JSONErrorCodeUnknownRole,
		rest.JSONErrorCodeUnknownMember,
	)
}
