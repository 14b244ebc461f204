package slots

import (
	"strings"
	"time"
)

// Category is the free-form tag a slot is issued under. VIP slots are told
// apart from free ones by convention on this string.
type Category string

func (c Category) IsVIP() bool {
	lower := strings.ToLower(string(c))
	return strings.Contains(lower, "vip") || strings.Contains(lower, "💎")
}

// AsVIP tags c as VIP unless it already reads as one.
func (c Category) AsVIP() Category {
	if c.IsVIP() {
		return c
	}
	return Category("VIP " + strings.TrimSpace(string(c)))
}

func (c Category) Label() string {
	if c.IsVIP() {
		return "VIP"
	}
	return "Free"
}

type Slot struct {
	ID           int64
	UserID       string
	GuildID      string
	UserTag      string
	DurationDays int
	Category     Category
	CreatedAt    time.Time
	ExpiresAt    time.Time
	ChannelID    string
	RoleID       string
	Points       int64
}

func (s *Slot) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// DaysLeft rounds the remaining time up to whole days.
func (s *Slot) DaysLeft(now time.Time) int {
	remaining := s.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	return days
}

type IssueRequest struct {
	UserID       string
	GuildID      string
	UserTag      string
	DurationDays int
	Category     Category
	ChannelID    string
	RoleID       string
}

type CategoryCount struct {
	Category Category
	Count    int
}

type Stats struct {
	Active      int
	TotalPoints int64
	Categories  []CategoryCount
}

// Order selects how active slots are listed.
type Order int

const (
	OrderNewest Order = iota
	OrderPoints
)
