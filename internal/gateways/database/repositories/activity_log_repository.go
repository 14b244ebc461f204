package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/slotwarden/slotbot/internal/domain/enforcement"
	"github.com/slotwarden/slotbot/internal/domain/faults"
	"github.com/slotwarden/slotbot/internal/gateways/database/models"
)

type activityLogRepository struct {
	base
}

func NewActivityLogRepository(db *bun.DB, timeout time.Duration) enforcement.ActivityLog {
	return &activityLogRepository{base: newBase(db, timeout)}
}

func (r *activityLogRepository) Record(ctx context.Context, e enforcement.Entry) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	row := &models.ActivityLog{
		GuildID:   e.GuildID,
		UserID:    e.UserID,
		Action:    e.Action,
		Details:   e.Details,
		CreatedAt: e.CreatedAt,
	}
	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return faults.Storage("record activity", err)
	}
	return nil
}

func (r *activityLogRepository) Recent(ctx context.Context, guildID string, limit int) ([]enforcement.Entry, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var rows []models.ActivityLog
	err := r.db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		Order("created_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Storage("recent activity", err)
	}

	out := make([]enforcement.Entry, len(rows))
	for i, row := range rows {
		out[i] = enforcement.Entry{
			GuildID:   row.GuildID,
			UserID:    row.UserID,
			Action:    row.Action,
			Details:   row.Details,
			CreatedAt: row.CreatedAt.UTC(),
		}
	}
	return out, nil
}
