package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Warning struct {
	bun.BaseModel `bun:"table:warnings,alias:w"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       string    `bun:"user_id,notnull,unique:warnings_user_guild_key"`
	GuildID      string    `bun:"guild_id,notnull,unique:warnings_user_guild_key"`
	WarningCount int       `bun:"warning_count,notnull,default:0"`
	LastWarning  time.Time `bun:"last_warning,notnull,default:current_timestamp"`
}
