// Package period derives the bucket keys that partition mention usage
// counters. All keys are computed in UTC.
package period

import (
	"fmt"
	"time"
)

const keyLayout = "2006-01-02"

// Kind is the mention marker a counter tracks.
type Kind string

const (
	Here     Kind = "here"
	Everyone Kind = "everyone"
)

func (k Kind) Valid() bool {
	return k == Here || k == Everyone
}

// Marker returns the text form as it appears in a message.
func (k Kind) Marker() string {
	return "@" + string(k)
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At.UTC()
}

// DayKey is the calendar day of t.
func DayKey(t time.Time) string {
	return t.UTC().Format(keyLayout)
}

// WeekKey is the Monday that starts t's calendar week.
func WeekKey(t time.Time) string {
	return weekStart(t).Format(keyLayout)
}

func weekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// KeyFor buckets "here" by day and "everyone" by week.
func KeyFor(kind Kind, t time.Time) (string, error) {
	switch kind {
	case Here:
		return DayKey(t), nil
	case Everyone:
		return WeekKey(t), nil
	default:
		return "", fmt.Errorf("unknown mention kind %q", kind)
	}
}

// NextReset is the first instant after t that belongs to a new bucket.
func NextReset(kind Kind, t time.Time) time.Time {
	t = t.UTC()
	if kind == Everyone {
		return weekStart(t).AddDate(0, 0, 7)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
