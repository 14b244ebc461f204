package usage

import "github.com/slotwarden/slotbot/internal/domain/period"

// Result describes a counter after a read or an increment.
type Result struct {
	Kind      period.Kind
	PeriodKey string
	Count     int
	Limit     int
	Remaining int
	Breached  bool
}

func newResult(kind period.Kind, key string, count, limit int) Result {
	return Result{
		Kind:      kind,
		PeriodKey: key,
		Count:     count,
		Limit:     limit,
		Remaining: max(0, limit-count),
		Breached:  count > limit,
	}
}
