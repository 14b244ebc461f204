package usage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/domain/slots"
)

var ErrInvalidKind = errors.New("invalid mention kind")

type Service interface {
	RecordUsage(ctx context.Context, userID, guildID string, kind period.Kind, category slots.Category) (Result, error)
	Current(ctx context.Context, userID, guildID string, kind period.Kind, category slots.Category) (Result, error)
	Compact(ctx context.Context, kind period.Kind) (int64, error)
}

type service struct {
	repository Repository
	limits     Limits
	clock      period.Clock
}

func NewService(repository Repository, limits Limits, clock period.Clock) *service {
	if clock == nil {
		clock = period.SystemClock{}
	}
	return &service{
		repository: repository,
		limits:     limits,
		clock:      clock,
	}
}

// RecordUsage counts one use of kind and evaluates it against the guild's
// limit. It never applies a penalty itself.
func (s *service) RecordUsage(ctx context.Context, userID, guildID string, kind period.Kind, category slots.Category) (Result, error) {
	key, err := period.KeyFor(kind, s.clock.Now())
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	limit, err := s.limits.LimitFor(ctx, guildID, kind, category)
	if err != nil {
		return Result{}, err
	}

	count, err := s.repository.Increment(ctx, userID, guildID, kind, key)
	if err != nil {
		return Result{}, err
	}

	res := newResult(kind, key, count, limit)
	if res.Breached {
		slog.Warn("Mention limit breached",
			slog.String("type", "sys"),
			slog.String("user_id", userID),
			slog.String("guild_id", guildID),
			slog.String("kind", string(kind)),
			slog.Int("count", count),
			slog.Int("limit", limit),
		)
	}
	return res, nil
}

func (s *service) Current(ctx context.Context, userID, guildID string, kind period.Kind, category slots.Category) (Result, error) {
	key, err := period.KeyFor(kind, s.clock.Now())
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	limit, err := s.limits.LimitFor(ctx, guildID, kind, category)
	if err != nil {
		return Result{}, err
	}

	count, err := s.repository.Count(ctx, userID, guildID, kind, key)
	if err != nil {
		return Result{}, err
	}
	return newResult(kind, key, count, limit), nil
}

// Compact drops counters from past periods. Lookups only ever read the
// current key, so skipping this leaves results unchanged.
func (s *service) Compact(ctx context.Context, kind period.Kind) (int64, error) {
	key, err := period.KeyFor(kind, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	removed, err := s.repository.DeleteStale(ctx, kind, key)
	if err != nil {
		return 0, err
	}
	slog.Info("Usage counters compacted",
		slog.String("type", "sys"),
		slog.String("kind", string(kind)),
		slog.String("period", key),
		slog.Int64("removed", removed),
	)
	return removed, nil
}
