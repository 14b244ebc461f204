package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Slot struct {
	bun.BaseModel `bun:"table:slots,alias:s"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       string    `bun:"user_id,notnull,unique:slots_user_guild_key"`
	GuildID      string    `bun:"guild_id,notnull,unique:slots_user_guild_key"`
	UserTag      string    `bun:"user_tag,notnull"`
	DurationDays int       `bun:"duration,notnull"`
	Category     string    `bun:"category,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	ExpiryDate   time.Time `bun:"expiry_date,notnull"`
	ChannelID    string    `bun:"channel_id,nullzero"`
	RoleID       string    `bun:"role_id,nullzero"`
	Points       int64     `bun:"points,notnull,default:0"`
}

// SlotCategoryCount is one row of a per-category aggregate.
type SlotCategoryCount struct {
	Category string `bun:"category"`
	Count    int    `bun:"count"`
}
