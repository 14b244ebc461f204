package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/slotwarden/slotbot/internal/domain/faults"
	"github.com/slotwarden/slotbot/internal/domain/slots"
	"github.com/slotwarden/slotbot/internal/gateways/database/models"
)

type slotRepository struct {
	base
}

func NewSlotRepository(db *bun.DB, timeout time.Duration) slots.Repository {
	return &slotRepository{base: newBase(db, timeout)}
}

const insertSlotQuery = `
INSERT INTO slots (user_id, guild_id, user_tag, duration, category, created_at, expiry_date, channel_id, role_id, points)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
ON CONFLICT (user_id, guild_id) DO UPDATE SET
	user_tag = EXCLUDED.user_tag,
	duration = EXCLUDED.duration,
	category = EXCLUDED.category,
	created_at = EXCLUDED.created_at,
	expiry_date = EXCLUDED.expiry_date,
	channel_id = EXCLUDED.channel_id,
	role_id = EXCLUDED.role_id,
	points = 0
WHERE slots.expiry_date <= ?
RETURNING *`

func (r *slotRepository) InsertIfNoneActive(ctx context.Context, slot *slots.Slot, now time.Time) (*slots.Slot, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var row models.Slot
	err := r.db.NewRaw(insertSlotQuery,
		slot.UserID, slot.GuildID, slot.UserTag, slot.DurationDays, string(slot.Category),
		slot.CreatedAt, slot.ExpiresAt, nullable(slot.ChannelID), nullable(slot.RoleID),
		now,
	).Scan(ctx, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, slots.ErrAlreadyActive
	}
	if err != nil {
		return nil, faults.Storage("insert slot", err)
	}
	return toSlot(&row), nil
}

func (r *slotRepository) FindActive(ctx context.Context, userID, guildID string, now time.Time) (*slots.Slot, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var row models.Slot
	err := r.db.NewSelect().
		Model(&row).
		Where("user_id = ? AND guild_id = ?", userID, guildID).
		Where("expiry_date > ?", now).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, slots.ErrNotFound
	}
	if err != nil {
		return nil, faults.Storage("find active slot", err)
	}
	return toSlot(&row), nil
}

func (r *slotRepository) Delete(ctx context.Context, userID, guildID string) (bool, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.Slot)(nil)).
		Where("user_id = ? AND guild_id = ?", userID, guildID).
		Exec(ctx)
	if err != nil {
		return false, faults.Storage("delete slot", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *slotRepository) DeleteExpired(ctx context.Context, now time.Time) ([]*slots.Slot, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var rows []models.Slot
	err := r.db.NewRaw("DELETE FROM slots WHERE expiry_date < ? RETURNING *", now).Scan(ctx, &rows)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Storage("delete expired slots", err)
	}

	out := make([]*slots.Slot, len(rows))
	for i := range rows {
		out[i] = toSlot(&rows[i])
	}
	return out, nil
}

func (r *slotRepository) AddPoints(ctx context.Context, userID, guildID string, delta int64, now time.Time) (bool, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		"UPDATE slots SET points = points + ? WHERE user_id = ? AND guild_id = ? AND expiry_date > ?",
		delta, userID, guildID, now,
	)
	if err != nil {
		return false, faults.Storage("add slot points", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *slotRepository) ListActive(ctx context.Context, guildID string, now time.Time, order slots.Order, limit int) ([]*slots.Slot, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var rows []models.Slot
	q := r.db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		Where("expiry_date > ?", now).
		Limit(limit)
	switch order {
	case slots.OrderPoints:
		q = q.Order("points DESC", "id ASC")
	default:
		q = q.Order("created_at DESC", "id DESC")
	}
	if err := q.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Storage("list active slots", err)
	}

	out := make([]*slots.Slot, len(rows))
	for i := range rows {
		out[i] = toSlot(&rows[i])
	}
	return out, nil
}

func (r *slotRepository) Stats(ctx context.Context, guildID string, now time.Time) (*slots.Stats, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var totals struct {
		Active      int   `bun:"active"`
		TotalPoints int64 `bun:"total_points"`
	}
	err := r.db.NewRaw(
		"SELECT COUNT(*) AS active, COALESCE(SUM(points), 0) AS total_points FROM slots WHERE guild_id = ? AND expiry_date > ?",
		guildID, now,
	).Scan(ctx, &totals)
	if err != nil {
		return nil, faults.Storage("slot totals", err)
	}

	var counts []models.SlotCategoryCount
	err = r.db.NewRaw(
		"SELECT category, COUNT(*) AS count FROM slots WHERE guild_id = ? AND expiry_date > ? GROUP BY category ORDER BY count DESC, category ASC",
		guildID, now,
	).Scan(ctx, &counts)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Storage("slot categories", err)
	}

	stats := &slots.Stats{
		Active:      totals.Active,
		TotalPoints: totals.TotalPoints,
		Categories:  make([]slots.CategoryCount, len(counts)),
	}
	for i, c := range counts {
		stats.Categories[i] = slots.CategoryCount{Category: slots.Category(c.Category), Count: c.Count}
	}
	return stats, nil
}

func toSlot(m *models.Slot) *slots.Slot {
	return &slots.Slot{
		ID:           m.ID,
		UserID:       m.UserID,
		GuildID:      m.GuildID,
		UserTag:      m.UserTag,
		DurationDays: m.DurationDays,
		Category:     slots.Category(m.Category),
		CreatedAt:    m.CreatedAt.UTC(),
		ExpiresAt:    m.ExpiryDate.UTC(),
		ChannelID:    m.ChannelID,
		RoleID:       m.RoleID,
		Points:       m.Points,
	}
}
