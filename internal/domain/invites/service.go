package invites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/slotwarden/slotbot/internal/domain/period"
)

var ErrInvalidAmount = errors.New("amount must be positive")

type Service interface {
	Credit(ctx context.Context, userID, guildID string, amount int64) (*Account, error)
	Debit(ctx context.Context, userID, guildID string, amount int64) error
	Refund(ctx context.Context, userID, guildID string, amount int64) error
	Balance(ctx context.Context, userID, guildID string) (*Account, error)
	TopN(ctx context.Context, guildID string, n int) ([]*Account, error)
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

func (s *service) Credit(ctx context.Context, userID, guildID string, amount int64) (*Account, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	acc, err := s.repository.Credit(ctx, userID, guildID, amount, s.clock.Now())
	if err != nil {
		return nil, err
	}
	slog.Info("Invite points credited",
		slog.String("type", "sys"),
		slog.String("user_id", userID),
		slog.String("guild_id", guildID),
		slog.Int64("amount", amount),
		slog.Int64("balance", acc.Points),
	)
	return acc, nil
}

// Debit removes amount from the balance in one conditional statement. A
// rejected debit returns *InsufficientFundsError.
func (s *service) Debit(ctx context.Context, userID, guildID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	ok, err := s.repository.Debit(ctx, userID, guildID, amount, s.clock.Now())
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	fundsErr := &InsufficientFundsError{Requested: amount}
	if acc, err := s.repository.Ensure(ctx, userID, guildID, s.clock.Now()); err == nil {
		fundsErr.Balance = acc.Points
	}
	return fundsErr
}

// Refund returns points taken by a debit whose follow-up failed.
// total_invites is left alone.
func (s *service) Refund(ctx context.Context, userID, guildID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := s.repository.Refund(ctx, userID, guildID, amount, s.clock.Now()); err != nil {
		return fmt.Errorf("failed to refund %d points: %w", amount, err)
	}
	slog.Info("Invite points refunded",
		slog.String("type", "sys"),
		slog.String("user_id", userID),
		slog.String("guild_id", guildID),
		slog.Int64("amount", amount),
	)
	return nil
}

func (s *service) Balance(ctx context.Context, userID, guildID string) (*Account, error) {
	return s.repository.Ensure(ctx, userID, guildID, s.clock.Now())
}

func (s *service) TopN(ctx context.Context, guildID string, n int) ([]*Account, error) {
	if n <= 0 {
		n = 10
	}
	return s.repository.Top(ctx, guildID, n)
}
