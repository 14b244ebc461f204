package guildconfig

import "time"

const (
	DefaultRoleName           = "VIP Slot"
	DefaultRoleColor          = "#FFD700"
	DefaultFreeHerePerDay     = 1
	DefaultVIPHerePerDay      = 2
	DefaultVIPEveryonePerWeek = 1
)

type Config struct {
	GuildID            string
	SlotRoleName       string
	SlotRoleColor      string
	LogsChannelID      string
	FreeHerePerDay     int
	VIPHerePerDay      int
	VIPEveryonePerWeek int
	AutoRole           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func Defaults(guildID string) *Config {
	return &Config{
		GuildID:            guildID,
		SlotRoleName:       DefaultRoleName,
		SlotRoleColor:      DefaultRoleColor,
		FreeHerePerDay:     DefaultFreeHerePerDay,
		VIPHerePerDay:      DefaultVIPHerePerDay,
		VIPEveryonePerWeek: DefaultVIPEveryonePerWeek,
		AutoRole:           true,
	}
}

// Field names one settable column of a guild config.
type Field int

const (
	FieldRoleName Field = iota
	FieldRoleColor
	FieldLogsChannel
	FieldFreeHereLimit
	FieldVIPHereLimit
	FieldVIPEveryoneLimit
	FieldAutoRole
)

func (f Field) String() string {
	switch f {
	case FieldRoleName:
		return "slot_role_name"
	case FieldRoleColor:
		return "slot_role_color"
	case FieldLogsChannel:
		return "logs_channel_id"
	case FieldFreeHereLimit:
		return "max_here_per_day"
	case FieldVIPHereLimit:
		return "vip_here_per_day"
	case FieldVIPEveryoneLimit:
		return "vip_everyone_per_week"
	case FieldAutoRole:
		return "auto_role"
	}
	return "unknown"
}

// Change is one field assignment. Value holds a string, int or bool
// depending on the field.
type Change struct {
	Field Field
	Value any
}

// Apply writes the change into c. It reports false when the value type does
// not match the field.
func (ch Change) Apply(c *Config) bool {
	switch ch.Field {
	case FieldRoleName, FieldRoleColor, FieldLogsChannel:
		v, ok := ch.Value.(string)
		if !ok {
			return false
		}
		switch ch.Field {
		case FieldRoleName:
			c.SlotRoleName = v
		case FieldRoleColor:
			c.SlotRoleColor = v
		default:
			c.LogsChannelID = v
		}
	case FieldFreeHereLimit, FieldVIPHereLimit, FieldVIPEveryoneLimit:
		v, ok := ch.Value.(int)
		if !ok {
			return false
		}
		switch ch.Field {
		case FieldFreeHereLimit:
			c.FreeHerePerDay = v
		case FieldVIPHereLimit:
			c.VIPHerePerDay = v
		default:
			c.VIPEveryonePerWeek = v
		}
	case FieldAutoRole:
		v, ok := ch.Value.(bool)
		if !ok {
			return false
		}
		c.AutoRole = v
	default:
		return false
	}
	return true
}
