package invites

import (
	"errors"
	"fmt"
	"time"
)

var ErrInsufficientFunds = errors.New("insufficient invite points")

type Account struct {
	ID           int64
	UserID       string
	GuildID      string
	Points       int64
	TotalInvites int64
	LastUpdated  time.Time
}

// InsufficientFundsError is returned by Debit when the balance does not
// cover the request. It matches ErrInsufficientFunds.
type InsufficientFundsError struct {
	Balance   int64
	Requested int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient invite points: have %d, need %d", e.Balance, e.Requested)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

func (e *InsufficientFundsError) Shortfall() int64 {
	return max(0, e.Requested-e.Balance)
}

// Invite is one guild invite as last reported by the platform.
type Invite struct {
	Code      string
	InviterID string
	Uses      int
}
