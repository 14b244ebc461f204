package usage

import (
	"context"

	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/domain/slots"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	// Increment adds one to the counter in a single statement and returns the new count.
	Increment(ctx context.Context, userID, guildID string, kind period.Kind, periodKey string) (int, error)
	Count(ctx context.Context, userID, guildID string, kind period.Kind, periodKey string) (int, error)
	DeleteStale(ctx context.Context, kind period.Kind, currentKey string) (int64, error)
}

// Limits resolves the allowance for a mention kind.
type Limits interface {
	LimitFor(ctx context.Context, guildID string, kind period.Kind, category slots.Category) (int, error)
}
