package penalty

import "time"

// Threshold is the warning count at which a slot is revoked.
const Threshold = 2

type Action int

const (
	ActionNone Action = iota
	ActionWarned
	ActionRevoked
)

func (a Action) String() string {
	switch a {
	case ActionWarned:
		return "warned"
	case ActionRevoked:
		return "revoked"
	}
	return "none"
}

type Record struct {
	UserID       string
	GuildID      string
	WarningCount int
	LastWarning  time.Time
}

type Outcome struct {
	WarningCount int
	Action       Action
}

type Policy struct {
	// ResetOnRevoke clears the warning record once a revocation is decided.
	// When false a re-issued slot inherits the previous count.
	ResetOnRevoke bool
}
