package invites

import (
	"context"
	"time"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	// Credit upserts the account, adding amount to points and total_invites.
	Credit(ctx context.Context, userID, guildID string, amount int64, now time.Time) (*Account, error)
	// Debit subtracts amount only while points >= amount. It reports whether a row changed.
	Debit(ctx context.Context, userID, guildID string, amount int64, now time.Time) (bool, error)
	Refund(ctx context.Context, userID, guildID string, amount int64, now time.Time) error
	Ensure(ctx context.Context, userID, guildID string, now time.Time) (*Account, error)
	Top(ctx context.Context, guildID string, limit int) ([]*Account, error)
}
