package slots

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/slotwarden/slotbot/internal/domain/period"
)

const (
	MinDurationDays = 1
	MaxDurationDays = 365
)

var (
	ErrAlreadyActive  = errors.New("user already has an active slot")
	ErrNotFound       = errors.New("no active slot")
	ErrInvalidRequest = errors.New("invalid slot request")
)

type Service interface {
	Issue(ctx context.Context, req IssueRequest) (*Slot, error)
	LookupActive(ctx context.Context, userID, guildID string) (*Slot, error)
	Revoke(ctx context.Context, userID, guildID string) (bool, error)
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
	Expire(ctx context.Context, now time.Time) ([]*Slot, error)
	AwardPoints(ctx context.Context, userID, guildID string, delta int64) error
	ListActive(ctx context.Context, guildID string, order Order, limit int) ([]*Slot, error)
	TopByPoints(ctx context.Context, guildID string, limit int) ([]*Slot, error)
	Stats(ctx context.Context, guildID string) (*Stats, error)
}

type service struct {
	repository Repository
	clock      period.Clock
}

func NewService(repository Repository, clock period.Clock) *service {
	if clock == nil {
		clock = period.SystemClock{}
	}
	return &service{
		repository: repository,
		clock:      clock,
	}
}

func validate(req IssueRequest) error {
	switch {
	case strings.TrimSpace(req.UserID) == "", strings.TrimSpace(req.GuildID) == "":
		return fmt.Errorf("%w: user and guild are required", ErrInvalidRequest)
	case req.DurationDays < MinDurationDays || req.DurationDays > MaxDurationDays:
		return fmt.Errorf("%w: duration must be between %d and %d days", ErrInvalidRequest, MinDurationDays, MaxDurationDays)
	case strings.TrimSpace(string(req.Category)) == "":
		return fmt.Errorf("%w: category is required", ErrInvalidRequest)
	}
	return nil
}

func (s *service) Issue(ctx context.Context, req IssueRequest) (*Slot, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	slot := &Slot{
		UserID:       req.UserID,
		GuildID:      req.GuildID,
		UserTag:      req.UserTag,
		DurationDays: req.DurationDays,
		Category:     req.Category,
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Duration(req.DurationDays) * 24 * time.Hour),
		ChannelID:    req.ChannelID,
		RoleID:       req.RoleID,
	}

	created, err := s.repository.InsertIfNoneActive(ctx, slot, now)
	if err != nil {
		return nil, err
	}

	slog.Info("Slot issued",
		slog.String("type", "sys"),
		slog.String("user_id", created.UserID),
		slog.String("guild_id", created.GuildID),
		slog.String("category", string(created.Category)),
		slog.Int("duration_days", created.DurationDays),
	)
	return created, nil
}

func (s *service) LookupActive(ctx context.Context, userID, guildID string) (*Slot, error) {
	return s.repository.FindActive(ctx, userID, guildID, s.clock.Now())
}

func (s *service) Revoke(ctx context.Context, userID, guildID string) (bool, error) {
	return s.repository.Delete(ctx, userID, guildID)
}

func (s *service) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	removed, err := s.Expire(ctx, now)
	return int64(len(removed)), err
}

// Expire deletes slots whose expiry is before now and returns them so their
// external resources can be released.
func (s *service) Expire(ctx context.Context, now time.Time) ([]*Slot, error) {
	removed, err := s.repository.DeleteExpired(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		slog.Info("Expired slots swept",
			slog.String("type", "sys"),
			slog.Int("removed", len(removed)),
		)
	}
	return removed, nil
}

// AwardPoints adds delta to the holder's slot points. There is no floor.
func (s *service) AwardPoints(ctx context.Context, userID, guildID string, delta int64) error {
	ok, err := s.repository.AddPoints(ctx, userID, guildID, delta, s.clock.Now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *service) ListActive(ctx context.Context, guildID string, order Order, limit int) ([]*Slot, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repository.ListActive(ctx, guildID, s.clock.Now(), order, limit)
}

func (s *service) TopByPoints(ctx context.Context, guildID string, limit int) ([]*Slot, error) {
	return s.ListActive(ctx, guildID, OrderPoints, limit)
}

func (s *service) Stats(ctx context.Context, guildID string) (*Stats, error) {
	return s.repository.Stats(ctx, guildID, s.clock.Now())
}
