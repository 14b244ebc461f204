package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/slotwarden/slotbot/internal/domain/enforcement"
	"github.com/slotwarden/slotbot/internal/domain/faults"
	"github.com/slotwarden/slotbot/internal/domain/guildconfig"
	"github.com/slotwarden/slotbot/internal/domain/invites"
	"github.com/slotwarden/slotbot/internal/domain/slots"
	"github.com/slotwarden/slotbot/internal/domain/usage"
)

type ErrorType int

const (
	UserError ErrorType = iota
	SystemError
	NotFoundError
	PermissionError
	BusinessLogicError
)

func (t ErrorType) prefix() string {
	switch t {
	case UserError:
		return "⚠️"
	case SystemError:
		return "🔧"
	case NotFoundError:
		return "🔍"
	case PermissionError:
		return "🚫"
	case BusinessLogicError:
		return "⏰"
	}
	return "❌"
}

func (t ErrorType) color() int {
	switch t {
	case UserError, BusinessLogicError:
		return WarningColor
	case NotFoundError:
		return InfoColor
	}
	return ErrorColor
}

// Classify turns a service error into the message shown to the member.
// Infrastructure failures never leak their cause.
func Classify(err error) (ErrorType, string) {
	var funds *invites.InsufficientFundsError
	switch {
	case errors.As(err, &funds):
		return BusinessLogicError, fmt.Sprintf("Not enough invite points: you have **%d**, this costs **%d** (%d short).",
			funds.Balance, funds.Requested, funds.Shortfall())
	case errors.Is(err, slots.ErrAlreadyActive):
		return BusinessLogicError, "This member already has an active slot."
	case errors.Is(err, slots.ErrNotFound):
		return NotFoundError, "This member has no active slot."
	case errors.Is(err, enforcement.ErrNotVIP):
		return BusinessLogicError, "@everyone is only available to VIP slots."
	case errors.Is(err, slots.ErrInvalidRequest),
		errors.Is(err, enforcement.ErrInvalidRedeem),
		errors.Is(err, guildconfig.ErrInvalidValue),
		errors.Is(err, invites.ErrInvalidAmount),
		errors.Is(err, usage.ErrInvalidKind):
		return UserError, detail(err)
	case errors.Is(err, faults.ErrProvisioning):
		return SystemError, "Could not create or remove the slot channel or role. Check that the bot can manage channels and roles."
	}
	return SystemError, "Something went wrong. Please try again later."
}

// detail keeps the part of a validation error after the sentinel text.
func detail(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	if msg == "" {
		return "Invalid input."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
