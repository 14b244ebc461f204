package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/slotwarden/slotbot/internal/domain/faults"
	"github.com/slotwarden/slotbot/internal/domain/penalty"
	"github.com/slotwarden/slotbot/internal/gateways/database/models"
)

type warningRepository struct {
	base
}

func NewWarningRepository(db *bun.DB, timeout time.Duration) penalty.Repository {
	return &warningRepository{base: newBase(db, timeout)}
}

const incrementWarningQuery = `
INSERT INTO warnings (user_id, guild_id, warning_count, last_warning)
VALUES (?, ?, 1, ?)
ON CONFLICT (user_id, guild_id) DO UPDATE SET
	warning_count = warnings.warning_count + 1,
	last_warning = EXCLUDED.last_warning
RETURNING warning_count`

func (r *warningRepository) Increment(ctx context.Context, userID, guildID string, now time.Time) (int, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var count int
	if err := r.db.NewRaw(incrementWarningQuery, userID, guildID, now).Scan(ctx, &count); err != nil {
		return 0, faults.Storage("increment warnings", err)
	}
	return count, nil
}

func (r *warningRepository) Get(ctx context.Context, userID, guildID string) (*penalty.Record, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var row models.Warning
	err := r.db.NewSelect().
		Model(&row).
		Where("user_id = ? AND guild_id = ?", userID, guildID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, faults.Storage("get warnings", err)
	}
	return &penalty.Record{
		UserID:       row.UserID,
		GuildID:      row.GuildID,
		WarningCount: row.WarningCount,
		LastWarning:  row.LastWarning.UTC(),
	}, nil
}

func (r *warningRepository) Reset(ctx context.Context, userID, guildID string) (bool, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.Warning)(nil)).
		Where("user_id = ? AND guild_id = ?", userID, guildID).
		Exec(ctx)
	if err != nil {
		return false, faults.Storage("reset warnings", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
