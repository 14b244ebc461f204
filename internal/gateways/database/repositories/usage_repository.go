package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/slotwarden/slotbot/internal/domain/faults"
	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/domain/usage"
	"github.com/slotwarden/slotbot/internal/gateways/database/models"
)

type usageRepository struct {
	base
}

func NewUsageRepository(db *bun.DB, timeout time.Duration) usage.Repository {
	return &usageRepository{base: newBase(db, timeout)}
}

const incrementUsageQuery = `
INSERT INTO mention_usage (user_id, guild_id, period_key, kind, count, updated_at)
VALUES (?, ?, ?, ?, 1, current_timestamp)
ON CONFLICT (user_id, guild_id, period_key, kind) DO UPDATE SET
	count = mention_usage.count + 1,
	updated_at = EXCLUDED.updated_at
RETURNING count`

func (r *usageRepository) Increment(ctx context.Context, userID, guildID string, kind period.Kind, periodKey string) (int, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var count int
	if err := r.db.NewRaw(incrementUsageQuery, userID, guildID, periodKey, string(kind)).Scan(ctx, &count); err != nil {
		return 0, faults.Storage("increment usage", err)
	}
	return count, nil
}

func (r *usageRepository) Count(ctx context.Context, userID, guildID string, kind period.Kind, periodKey string) (int, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var row models.MentionUsage
	err := r.db.NewSelect().
		Model(&row).
		Column("count").
		Where("user_id = ? AND guild_id = ?", userID, guildID).
		Where("period_key = ? AND kind = ?", periodKey, string(kind)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, faults.Storage("read usage", err)
	}
	return row.Count, nil
}

func (r *usageRepository) DeleteStale(ctx context.Context, kind period.Kind, currentKey string) (int64, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.MentionUsage)(nil)).
		Where("kind = ?", string(kind)).
		Where("period_key <> ?", currentKey).
		Exec(ctx)
	if err != nil {
		return 0, faults.Storage("compact usage", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
