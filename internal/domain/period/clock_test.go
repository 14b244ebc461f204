package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKey(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"midday", time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), "2024-03-10"},
		{"last second", time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC), "2024-03-10"},
		{"next day", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), "2024-03-11"},
		{"converted to utc", time.Date(2024, 3, 11, 1, 0, 0, 0, time.FixedZone("CET", 3600*2)), "2024-03-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayKey(tt.at))
		})
	}
}

func TestWeekKey(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"monday", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), "2024-03-11"},
		{"wednesday", time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC), "2024-03-11"},
		{"sunday belongs to previous monday", time.Date(2024, 3, 17, 23, 0, 0, 0, time.UTC), "2024-03-11"},
		{"sunday before", time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), "2024-03-04"},
		{"across year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2024-12-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekKey(tt.at))
		})
	}
}

func TestKeyFor(t *testing.T) {
	at := time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC)

	key, err := KeyFor(Here, at)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-13", key)

	key, err = KeyFor(Everyone, at)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", key)

	_, err = KeyFor(Kind("channel"), at)
	assert.Error(t, err)
}

func TestNextReset(t *testing.T) {
	at := time.Date(2024, 3, 13, 8, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), NextReset(Here, at))
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), NextReset(Everyone, at))
}

func TestKindMarker(t *testing.T) {
	assert.Equal(t, "@here", Here.Marker())
	assert.Equal(t, "@everyone", Everyone.Marker())
	assert.True(t, Here.Valid())
	assert.False(t, Kind("").Valid())
}
