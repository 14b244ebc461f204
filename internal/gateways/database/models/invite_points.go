package models

import (
	"time"

	"github.com/uptrace/bun"
)

type InvitePoints struct {
	bun.BaseModel `bun:"table:invite_points,alias:ip"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       string    `bun:"user_id,notnull,unique:invite_points_user_guild_key"`
	GuildID      string    `bun:"guild_id,notnull,unique:invite_points_user_guild_key"`
	Points       int64     `bun:"points,notnull,default:0"`
	TotalInvites int64     `bun:"total_invites,notnull,default:0"`
	LastUpdated  time.Time `bun:"last_updated,notnull,default:current_timestamp"`
}
