package penalty

import (
	"context"
	"log/slog"

	"github.com/slotwarden/slotbot/internal/domain/period"
)

type Service interface {
	ApplyInfraction(ctx context.Context, userID, guildID string) (Outcome, error)
	Get(ctx context.Context, userID, guildID string) (*Record, error)
	Reset(ctx context.Context, userID, guildID string) (bool, error)
}

type service struct {
	repository Repository
	clock      period.Clock
	policy     Policy
}

func NewService(repository Repository, clock period.Clock, policy Policy) *service {
	if clock == nil {
		clock = period.SystemClock{}
	}
	return &service{
		repository: repository,
		clock:      clock,
		policy:     policy,
	}
}

// ApplyInfraction records one warning and decides the consequence. Every
// call counts, so callers invoke it once per confirmed breach.
func (s *service) ApplyInfraction(ctx context.Context, userID, guildID string) (Outcome, error) {
	count, err := s.repository.Increment(ctx, userID, guildID, s.clock.Now())
	if err != nil {
		return Outcome{Action: ActionNone}, err
	}

	out := Outcome{WarningCount: count, Action: ActionWarned}
	if count >= Threshold {
		out.Action = ActionRevoked
	}

	slog.Info("Infraction applied",
		slog.String("type", "sys"),
		slog.String("user_id", userID),
		slog.String("guild_id", guildID),
		slog.Int("warnings", count),
		slog.String("action", out.Action.String()),
	)

	if out.Action == ActionRevoked && s.policy.ResetOnRevoke {
		if _, err := s.repository.Reset(ctx, userID, guildID); err != nil {
			// revocation already decided
			slog.Error("Failed to reset warnings after revocation",
				slog.String("type", "sys"),
				slog.String("user_id", userID),
				slog.String("guild_id", guildID),
				slog.Any("error", err),
			)
		}
	}
	return out, nil
}

// Get returns the record, or a zero record when the user was never warned.
func (s *service) Get(ctx context.Context, userID, guildID string) (*Record, error) {
	rec, err := s.repository.Get(ctx, userID, guildID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &Record{UserID: userID, GuildID: guildID}, nil
	}
	return rec, nil
}

func (s *service) Reset(ctx context.Context, userID, guildID string) (bool, error) {
	return s.repository.Reset(ctx, userID, guildID)
}
