package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/slotwarden/slotbot/internal/domain/faults"
	"github.com/slotwarden/slotbot/internal/domain/invites"
	"github.com/slotwarden/slotbot/internal/gateways/database/models"
)

type invitePointsRepository struct {
	base
}

func NewInvitePointsRepository(db *bun.DB, timeout time.Duration) invites.Repository {
	return &invitePointsRepository{base: newBase(db, timeout)}
}

const creditQuery = `
INSERT INTO invite_points (user_id, guild_id, points, total_invites, last_updated)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (user_id, guild_id) DO UPDATE SET
	points = invite_points.points + EXCLUDED.points,
	total_invites = invite_points.total_invites + EXCLUDED.total_invites,
	last_updated = EXCLUDED.last_updated
RETURNING *`

const refundQuery = `
INSERT INTO invite_points (user_id, guild_id, points, total_invites, last_updated)
VALUES (?, ?, ?, 0, ?)
ON CONFLICT (user_id, guild_id) DO UPDATE SET
	points = invite_points.points + EXCLUDED.points,
	last_updated = EXCLUDED.last_updated`

func (r *invitePointsRepository) Credit(ctx context.Context, userID, guildID string, amount int64, now time.Time) (*invites.Account, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var row models.InvitePoints
	if err := r.db.NewRaw(creditQuery, userID, guildID, amount, amount, now).Scan(ctx, &row); err != nil {
		return nil, faults.Storage("credit invite points", err)
	}
	return toAccount(&row), nil
}

func (r *invitePointsRepository) Debit(ctx context.Context, userID, guildID string, amount int64, now time.Time) (bool, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		"UPDATE invite_points SET points = points - ?, last_updated = ? WHERE user_id = ? AND guild_id = ? AND points >= ?",
		amount, now, userID, guildID, amount,
	)
	if err != nil {
		return false, faults.Storage("debit invite points", err)
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *invitePointsRepository) Refund(ctx context.Context, userID, guildID string, amount int64, now time.Time) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, refundQuery, userID, guildID, amount, now); err != nil {
		return faults.Storage("refund invite points", err)
	}
	return nil
}

func (r *invitePointsRepository) Ensure(ctx context.Context, userID, guildID string, now time.Time) (*invites.Account, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	row := &models.InvitePoints{UserID: userID, GuildID: guildID, LastUpdated: now}
	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, guild_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, faults.Storage("ensure invite account", err)
	}

	var stored models.InvitePoints
	err = r.db.NewSelect().
		Model(&stored).
		Where("user_id = ? AND guild_id = ?", userID, guildID).
		Scan(ctx)
	if err != nil {
		return nil, faults.Storage("get invite account", err)
	}
	return toAccount(&stored), nil
}

func (r *invitePointsRepository) Top(ctx context.Context, guildID string, limit int) ([]*invites.Account, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var rows []models.InvitePoints
	err := r.db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		Order("total_invites DESC", "id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Storage("top invite accounts", err)
	}

	out := make([]*invites.Account, len(rows))
	for i := range rows {
		out[i] = toAccount(&rows[i])
	}
	return out, nil
}

func toAccount(m *models.InvitePoints) *invites.Account {
	return &invites.Account{
		ID:           m.ID,
		UserID:       m.UserID,
		GuildID:      m.GuildID,
		Points:       m.Points,
		TotalInvites: m.TotalInvites,
		LastUpdated:  m.LastUpdated.UTC(),
	}
}
