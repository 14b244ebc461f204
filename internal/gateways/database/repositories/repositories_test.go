package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwarden/slotbot/internal/domain/enforcement"
	"github.com/slotwarden/slotbot/internal/domain/guildconfig"
	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/domain/slots"
	"github.com/slotwarden/slotbot/internal/gateways/database"
	"github.com/slotwarden/slotbot/internal/gateways/database/dbtest"
	"github.com/slotwarden/slotbot/internal/gateways/database/repositories"
)

const guildID = "100000000000000001"

func TestRepositories(t *testing.T) {
	db := dbtest.Setup(t)

	t.Run("slots", func(t *testing.T) { testSlots(t, db) })
	t.Run("usage", func(t *testing.T) { testUsage(t, db) })
	t.Run("warnings", func(t *testing.T) { testWarnings(t, db) })
	t.Run("invite points", func(t *testing.T) { testInvitePoints(t, db) })
	t.Run("guild config", func(t *testing.T) { testGuildConfig(t, db) })
	t.Run("activity log", func(t *testing.T) { testActivityLog(t, db) })
}

func newSlot(userID string, now time.Time, days int) *slots.Slot {
	return &slots.Slot{
		UserID:       userID,
		GuildID:      guildID,
		UserTag:      "user#" + userID,
		DurationDays: days,
		Category:     "Free Slots",
		CreatedAt:    now,
		ExpiresAt:    now.AddDate(0, 0, days),
		ChannelID:    "chan-" + userID,
	}
}

func testSlots(t *testing.T, db *database.DB) {
	ctx := context.Background()
	repo := repositories.NewSlotRepository(db.BunDB(), db.Timeout())
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("insert and find", func(t *testing.T) {
		dbtest.Reset(t, db)

		stored, err := repo.InsertIfNoneActive(ctx, newSlot("1", now, 7), now)
		require.NoError(t, err)
		assert.NotZero(t, stored.ID)
		assert.Equal(t, "chan-1", stored.ChannelID)
		assert.Empty(t, stored.RoleID)

		found, err := repo.FindActive(ctx, "1", guildID, now)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, found.ID)
		assert.True(t, found.ExpiresAt.Equal(now.AddDate(0, 0, 7)))

		_, err = repo.FindActive(ctx, "2", guildID, now)
		assert.ErrorIs(t, err, slots.ErrNotFound)
	})

	t.Run("active slot blocks a second insert", func(t *testing.T) {
		dbtest.Reset(t, db)

		_, err := repo.InsertIfNoneActive(ctx, newSlot("1", now, 7), now)
		require.NoError(t, err)
		_, err = repo.InsertIfNoneActive(ctx, newSlot("1", now, 30), now)
		assert.ErrorIs(t, err, slots.ErrAlreadyActive)
	})

	t.Run("expired slot is replaced", func(t *testing.T) {
		dbtest.Reset(t, db)

		past := now.AddDate(0, 0, -10)
		_, err := repo.InsertIfNoneActive(ctx, newSlot("1", past, 1), past)
		require.NoError(t, err)
		ok, err := repo.AddPoints(ctx, "1", guildID, 5, past)
		require.NoError(t, err)
		require.True(t, ok)

		replaced, err := repo.InsertIfNoneActive(ctx, newSlot("1", now, 3), now)
		require.NoError(t, err)
		assert.Equal(t, 3, replaced.DurationDays)
		assert.Zero(t, replaced.Points)
	})

	t.Run("concurrent inserts admit one", func(t *testing.T) {
		dbtest.Reset(t, db)

		var wins, dupes atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.InsertIfNoneActive(ctx, newSlot("1", now, 7), now)
				switch {
				case err == nil:
					wins.Add(1)
				case errors.Is(err, slots.ErrAlreadyActive):
					dupes.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
		assert.Equal(t, int32(9), dupes.Load())
	})

	t.Run("delete expired returns removed rows", func(t *testing.T) {
		dbtest.Reset(t, db)

		past := now.AddDate(0, 0, -5)
		_, err := repo.InsertIfNoneActive(ctx, newSlot("old", past, 1), past)
		require.NoError(t, err)
		_, err = repo.InsertIfNoneActive(ctx, newSlot("new", now, 7), now)
		require.NoError(t, err)

		removed, err := repo.DeleteExpired(ctx, now)
		require.NoError(t, err)
		require.Len(t, removed, 1)
		assert.Equal(t, "old", removed[0].UserID)
		assert.Equal(t, "chan-old", removed[0].ChannelID)

		removed, err = repo.DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, removed)
	})

	t.Run("list, points and stats", func(t *testing.T) {
		dbtest.Reset(t, db)

		for i, user := range []string{"a", "b", "c"} {
			s := newSlot(user, now.Add(time.Duration(i)*time.Minute), 7)
			if user == "c" {
				s.Category = "VIP Slots"
			}
			_, err := repo.InsertIfNoneActive(ctx, s, now)
			require.NoError(t, err)
		}
		ok, err := repo.AddPoints(ctx, "a", guildID, 10, now)
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = repo.AddPoints(ctx, "b", guildID, -5, now)
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = repo.AddPoints(ctx, "zzz", guildID, 1, now)
		require.NoError(t, err)
		assert.False(t, ok)

		newest, err := repo.ListActive(ctx, guildID, now, slots.OrderNewest, 10)
		require.NoError(t, err)
		require.Len(t, newest, 3)
		assert.Equal(t, "c", newest[0].UserID)

		top, err := repo.ListActive(ctx, guildID, now, slots.OrderPoints, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "a", top[0].UserID)

		stats, err := repo.Stats(ctx, guildID, now)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Active)
		assert.Equal(t, int64(5), stats.TotalPoints)
		require.Len(t, stats.Categories, 2)
		assert.Equal(t, slots.Category("Free Slots"), stats.Categories[0].Category)
		assert.Equal(t, 2, stats.Categories[0].Count)

		deleted, err := repo.Delete(ctx, "a", guildID)
		require.NoError(t, err)
		assert.True(t, deleted)
		deleted, err = repo.Delete(ctx, "a", guildID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func testUsage(t *testing.T, db *database.DB) {
	ctx := context.Background()
	repo := repositories.NewUsageRepository(db.BunDB(), db.Timeout())
	dbtest.Reset(t, db)

	const workers = 40
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Increment(ctx, "u", guildID, period.Here, "2024-03-10")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := repo.Count(ctx, "u", guildID, period.Here, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, workers, count)

	next, err := repo.Increment(ctx, "u", guildID, period.Here, "2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	weekly, err := repo.Increment(ctx, "u", guildID, period.Everyone, "2024-W10")
	require.NoError(t, err)
	assert.Equal(t, 1, weekly)

	removed, err := repo.DeleteStale(ctx, period.Here, "2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	count, err = repo.Count(ctx, "u", guildID, period.Here, "2024-03-10")
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = repo.Count(ctx, "u", guildID, period.Everyone, "2024-W10")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func testWarnings(t *testing.T, db *database.DB) {
	ctx := context.Background()
	repo := repositories.NewWarningRepository(db.BunDB(), db.Timeout())
	dbtest.Reset(t, db)
	now := time.Now().UTC().Truncate(time.Second)

	rec, err := repo.Get(ctx, "u", guildID)
	require.NoError(t, err)
	assert.Nil(t, rec)

	for want := 1; want <= 2; want++ {
		got, err := repo.Increment(ctx, "u", guildID, now)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	rec, err = repo.Get(ctx, "u", guildID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.WarningCount)

	reset, err := repo.Reset(ctx, "u", guildID)
	require.NoError(t, err)
	assert.True(t, reset)

	got, err := repo.Increment(ctx, "u", guildID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func testInvitePoints(t *testing.T, db *database.DB) {
	ctx := context.Background()
	repo := repositories.NewInvitePointsRepository(db.BunDB(), db.Timeout())
	now := time.Now().UTC()

	t.Run("ledger", func(t *testing.T) {
		dbtest.Reset(t, db)

		acc, err := repo.Ensure(ctx, "u", guildID, now)
		require.NoError(t, err)
		assert.Zero(t, acc.Points)

		acc, err = repo.Credit(ctx, "u", guildID, 3, now)
		require.NoError(t, err)
		assert.Equal(t, int64(3), acc.Points)
		assert.Equal(t, int64(3), acc.TotalInvites)

		ok, err := repo.Debit(ctx, "u", guildID, 5, now)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.Debit(ctx, "u", guildID, 2, now)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, repo.Refund(ctx, "u", guildID, 2, now))
		acc, err = repo.Ensure(ctx, "u", guildID, now)
		require.NoError(t, err)
		assert.Equal(t, int64(3), acc.Points)
		assert.Equal(t, int64(3), acc.TotalInvites)
	})

	t.Run("concurrent debits never overdraw", func(t *testing.T) {
		dbtest.Reset(t, db)

		_, err := repo.Credit(ctx, "u", guildID, 10, now)
		require.NoError(t, err)

		var spent atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < 30; i++ {
			amount := int64(i%4 + 1)
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := repo.Debit(ctx, "u", guildID, amount, now)
				assert.NoError(t, err)
				if ok {
					spent.Add(amount)
				}
			}()
		}
		wg.Wait()

		acc, err := repo.Ensure(ctx, "u", guildID, now)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, acc.Points, int64(0))
		assert.Equal(t, int64(10), acc.Points+spent.Load())
	})

	t.Run("top orders by invites then age", func(t *testing.T) {
		dbtest.Reset(t, db)

		for i, amount := range []int64{2, 5, 2, 1} {
			_, err := repo.Credit(ctx, fmt.Sprintf("u%d", i), guildID, amount, now)
			require.NoError(t, err)
		}
		top, err := repo.Top(ctx, guildID, 3)
		require.NoError(t, err)
		require.Len(t, top, 3)
		assert.Equal(t, "u1", top[0].UserID)
		assert.Equal(t, "u0", top[1].UserID)
		assert.Equal(t, "u2", top[2].UserID)
	})
}

func testGuildConfig(t *testing.T, db *database.DB) {
	ctx := context.Background()
	repo := repositories.NewGuildConfigRepository(db.BunDB(), db.Timeout())
	dbtest.Reset(t, db)

	cfg, err := repo.Ensure(ctx, guildconfig.Defaults(guildID))
	require.NoError(t, err)
	assert.Equal(t, guildconfig.DefaultRoleName, cfg.SlotRoleName)
	assert.True(t, cfg.AutoRole)

	updated, err := repo.Update(ctx, guildID, []guildconfig.Change{
		{Field: guildconfig.FieldRoleName, Value: "Sellers"},
		{Field: guildconfig.FieldVIPHereLimit, Value: 4},
		{Field: guildconfig.FieldAutoRole, Value: false},
		{Field: guildconfig.FieldLogsChannel, Value: "555"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sellers", updated.SlotRoleName)
	assert.Equal(t, 4, updated.VIPHerePerDay)
	assert.False(t, updated.AutoRole)
	assert.Equal(t, "555", updated.LogsChannelID)

	again, err := repo.Ensure(ctx, guildconfig.Defaults(guildID))
	require.NoError(t, err)
	assert.Equal(t, "Sellers", again.SlotRoleName)
}

func testActivityLog(t *testing.T, db *database.DB) {
	ctx := context.Background()
	repo := repositories.NewActivityLogRepository(db.BunDB(), db.Timeout())
	dbtest.Reset(t, db)
	base := time.Now().UTC().Truncate(time.Second)

	for i, action := range []string{enforcement.ActionSlotCreated, enforcement.ActionWarning, enforcement.ActionSlotRevoked} {
		require.NoError(t, repo.Record(ctx, enforcement.Entry{
			GuildID:   guildID,
			UserID:    "u",
			Action:    action,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	recent, err := repo.Recent(ctx, guildID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, enforcement.ActionSlotRevoked, recent[0].Action)
	assert.Equal(t, enforcement.ActionWarning, recent[1].Action)
}
