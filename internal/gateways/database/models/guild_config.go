package models

import (
	"time"

	"github.com/uptrace/bun"
)

type GuildConfig struct {
	bun.BaseModel `bun:"table:guild_configs,alias:gc"`

	GuildID            string    `bun:"guild_id,pk"`
	SlotRoleName       string    `bun:"slot_role_name,notnull"`
	SlotRoleColor      string    `bun:"slot_role_color,notnull"`
	LogsChannelID      string    `bun:"logs_channel_id,nullzero"`
	MaxHerePerDay      int       `bun:"max_here_per_day,notnull"`
	VIPHerePerDay      int       `bun:"vip_here_per_day,notnull"`
	VIPEveryonePerWeek int       `bun:"vip_everyone_per_week,notnull"`
	AutoRole           bool      `bun:"auto_role,notnull"`
	CreatedAt          time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt          time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
