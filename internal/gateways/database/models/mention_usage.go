package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MentionUsage counts one mention kind per user, guild and period bucket.
type MentionUsage struct {
	bun.BaseModel `bun:"table:mention_usage,alias:mu"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    string    `bun:"user_id,notnull,unique:mention_usage_key"`
	GuildID   string    `bun:"guild_id,notnull,unique:mention_usage_key"`
	PeriodKey string    `bun:"period_key,notnull,unique:mention_usage_key"`
	Kind      string    `bun:"kind,notnull,unique:mention_usage_key"`
	Count     int       `bun:"count,notnull,default:0"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
