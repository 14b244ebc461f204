package slots

import (
	"context"
	"time"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	// InsertIfNoneActive stores slot unless an active one exists for the same
	// user and guild, replacing an expired row in the same statement.
	InsertIfNoneActive(ctx context.Context, slot *Slot, now time.Time) (*Slot, error)
	FindActive(ctx context.Context, userID, guildID string, now time.Time) (*Slot, error)
	Delete(ctx context.Context, userID, guildID string) (bool, error)
	// DeleteExpired removes every slot with an expiry before now and returns the removed rows.
	DeleteExpired(ctx context.Context, now time.Time) ([]*Slot, error)
	AddPoints(ctx context.Context, userID, guildID string, delta int64, now time.Time) (bool, error)
	ListActive(ctx context.Context, guildID string, now time.Time, order Order, limit int) ([]*Slot, error)
	Stats(ctx context.Context, guildID string, now time.Time) (*Stats, error)
}
