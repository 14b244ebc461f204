package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/slotwarden/slotbot/internal/domain/faults"
	"github.com/slotwarden/slotbot/internal/domain/guildconfig"
	"github.com/slotwarden/slotbot/internal/gateways/database/models"
)

type guildConfigRepository struct {
	base
}

func NewGuildConfigRepository(db *bun.DB, timeout time.Duration) guildconfig.Repository {
	return &guildConfigRepository{base: newBase(db, timeout)}
}

func (r *guildConfigRepository) Ensure(ctx context.Context, cfg *guildconfig.Config) (*guildconfig.Config, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	row := fromGuildConfig(cfg)
	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (guild_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, faults.Storage("ensure guild config", err)
	}
	return r.get(ctx, cfg.GuildID)
}

func (r *guildConfigRepository) Update(ctx context.Context, guildID string, changes []guildconfig.Change) (*guildconfig.Config, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	q := r.db.NewUpdate().
		Model((*models.GuildConfig)(nil)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("guild_id = ?", guildID)
	for _, ch := range changes {
		col, ok := columnFor(ch.Field)
		if !ok {
			return nil, fmt.Errorf("unknown guild config field %d", ch.Field)
		}
		value := ch.Value
		if ch.Field == guildconfig.FieldLogsChannel {
			s, _ := value.(string)
			value = nullable(s)
		}
		q = q.Set("? = ?", bun.Ident(col), value)
	}

	if _, err := q.Exec(ctx); err != nil {
		return nil, faults.Storage("update guild config", err)
	}
	return r.get(ctx, guildID)
}

func (r *guildConfigRepository) get(ctx context.Context, guildID string) (*guildconfig.Config, error) {
	var row models.GuildConfig
	err := r.db.NewSelect().
		Model(&row).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		return nil, faults.Storage("get guild config", err)
	}
	return toGuildConfig(&row), nil
}

// columnFor is the closed set of columns a change may touch.
func columnFor(f guildconfig.Field) (string, bool) {
	switch f {
	case guildconfig.FieldRoleName, guildconfig.FieldRoleColor, guildconfig.FieldLogsChannel,
		guildconfig.FieldFreeHereLimit, guildconfig.FieldVIPHereLimit, guildconfig.FieldVIPEveryoneLimit,
		guildconfig.FieldAutoRole:
		return f.String(), true
	}
	return "", false
}

func fromGuildConfig(c *guildconfig.Config) *models.GuildConfig {
	now := time.Now().UTC()
	return &models.GuildConfig{
		GuildID:            c.GuildID,
		SlotRoleName:       c.SlotRoleName,
		SlotRoleColor:      c.SlotRoleColor,
		LogsChannelID:      c.LogsChannelID,
		MaxHerePerDay:      c.FreeHerePerDay,
		VIPHerePerDay:      c.VIPHerePerDay,
		VIPEveryonePerWeek: c.VIPEveryonePerWeek,
		AutoRole:           c.AutoRole,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func toGuildConfig(m *models.GuildConfig) *guildconfig.Config {
	return &guildconfig.Config{
		GuildID:            m.GuildID,
		SlotRoleName:       m.SlotRoleName,
		SlotRoleColor:      m.SlotRoleColor,
		LogsChannelID:      m.LogsChannelID,
		FreeHerePerDay:     m.MaxHerePerDay,
		VIPHerePerDay:      m.VIPHerePerDay,
		VIPEveryonePerWeek: m.VIPEveryonePerWeek,
		AutoRole:           m.AutoRole,
		CreatedAt:          m.CreatedAt.UTC(),
		UpdatedAt:          m.UpdatedAt.UTC(),
	}
}
