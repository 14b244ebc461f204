package penalty

import (
	"context"
	"time"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	// Increment creates the record at one or adds one, stamping now, and returns the new count.
	Increment(ctx context.Context, userID, guildID string, now time.Time) (int, error)
	Get(ctx context.Context, userID, guildID string) (*Record, error)
	Reset(ctx context.Context, userID, guildID string) (bool, error)
}
