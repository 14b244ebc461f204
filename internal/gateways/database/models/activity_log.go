package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ActivityLog struct {
	bun.BaseModel `bun:"table:activity_logs,alias:al"`

	ID        int64     `bun:"id,pk,autoincrement"`
	GuildID   string    `bun:"guild_id,notnull"`
	UserID    string    `bun:"user_id,notnull"`
	Action    string    `bun:"action,notnull"`
	Details   string    `bun:"details,notnull,default:''"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
