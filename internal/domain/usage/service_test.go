package usage_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/domain/slots"
	"github.com/slotwarden/slotbot/internal/domain/usage"
	"github.com/slotwarden/slotbot/internal/domain/usage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type counterKey struct {
	user, guild, key string
	kind             period.Kind
}

// memoryRepository mirrors the single-statement upsert of the SQL repository.
type memoryRepository struct {
	mu     sync.Mutex
	counts map[counterKey]int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{counts: make(map[counterKey]int)}
}

func (r *memoryRepository) Increment(_ context.Context, userID, guildID string, kind period.Kind, periodKey string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := counterKey{userID, guildID, periodKey, kind}
	r.counts[k]++
	return r.counts[k], nil
}

func (r *memoryRepository) Count(_ context.Context, userID, guildID string, kind period.Kind, periodKey string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[counterKey{userID, guildID, periodKey, kind}], nil
}

func (r *memoryRepository) DeleteStale(_ context.Context, kind period.Kind, currentKey string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for k := range r.counts {
		if k.kind == kind && k.key != currentKey {
			delete(r.counts, k)
			removed++
		}
	}
	return removed, nil
}

type fixedLimits map[period.Kind]int

func (f fixedLimits) LimitFor(_ context.Context, _ string, kind period.Kind, _ slots.Category) (int, error) {
	return f[kind], nil
}

var monday = time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

func Test_service_RecordUsage_breachBoundary(t *testing.T) {
	for _, limit := range []int{1, 2, 5} {
		s := usage.NewService(newMemoryRepository(), fixedLimits{period.Here: limit}, period.FixedClock{At: monday})
		for call := 1; call <= limit+2; call++ {
			res, err := s.RecordUsage(context.Background(), "1", "10", period.Here, "Shop")
			require.NoError(t, err)
			assert.Equal(t, call, res.Count)
			assert.Equal(t, call > limit, res.Breached, "limit %d call %d", limit, call)
			assert.Equal(t, max(0, limit-call), res.Remaining)
			assert.Equal(t, "2024-03-11", res.PeriodKey)
		}
	}
}

func Test_service_RecordUsage_concurrent(t *testing.T) {
	repo := newMemoryRepository()
	s := usage.NewService(repo, fixedLimits{period.Here: 1}, period.FixedClock{At: monday})

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.RecordUsage(context.Background(), "1", "10", period.Here, "Shop")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	res, err := s.Current(context.Background(), "1", "10", period.Here, "Shop")
	require.NoError(t, err)
	assert.Equal(t, n, res.Count)
}

func Test_service_RecordUsage_periodBoundary(t *testing.T) {
	repo := newMemoryRepository()
	day1 := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 11, 0, 1, 0, 0, time.UTC)

	s := usage.NewService(repo, fixedLimits{period.Here: 1}, period.FixedClock{At: day1})
	_, err := s.RecordUsage(context.Background(), "1", "10", period.Here, "Shop")
	require.NoError(t, err)

	s = usage.NewService(repo, fixedLimits{period.Here: 1}, period.FixedClock{At: day2})
	res, err := s.RecordUsage(context.Background(), "1", "10", period.Here, "Shop")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", res.PeriodKey)
	assert.Equal(t, 1, res.Count)
	assert.False(t, res.Breached)

	removed, err := s.Compact(context.Background(), period.Here)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func Test_service_RecordUsage_freeEveryone(t *testing.T) {
	s := usage.NewService(newMemoryRepository(), fixedLimits{period.Everyone: 0}, period.FixedClock{At: monday})
	res, err := s.RecordUsage(context.Background(), "1", "10", period.Everyone, "Shop")
	require.NoError(t, err)
	assert.True(t, res.Breached)
	assert.Equal(t, 0, res.Remaining)
}

func Test_service_RecordUsage_errors(t *testing.T) {
	storageErr := errors.New("connection refused")

	tests := []struct {
		name    string
		kind    period.Kind
		setup   func(repo *mock.MockRepository, limits *mock.MockLimits)
		wantErr error
	}{
		{
			name:    "InvalidKind",
			kind:    period.Kind("channel"),
			setup:   func(*mock.MockRepository, *mock.MockLimits) {},
			wantErr: usage.ErrInvalidKind,
		},
		{
			name: "LimitLookupFails",
			kind: period.Here,
			setup: func(_ *mock.MockRepository, limits *mock.MockLimits) {
				limits.EXPECT().LimitFor(gomock.Any(), "10", period.Here, slots.Category("Shop")).Return(0, storageErr)
			},
			wantErr: storageErr,
		},
		{
			name: "IncrementFails",
			kind: period.Everyone,
			setup: func(repo *mock.MockRepository, limits *mock.MockLimits) {
				limits.EXPECT().LimitFor(gomock.Any(), "10", period.Everyone, slots.Category("Shop")).Return(1, nil)
				repo.EXPECT().Increment(gomock.Any(), "1", "10", period.Everyone, "2024-03-11").Return(0, storageErr)
			},
			wantErr: storageErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock.NewMockRepository(ctrl)
			limits := mock.NewMockLimits(ctrl)
			tt.setup(repo, limits)

			s := usage.NewService(repo, limits, period.FixedClock{At: monday})
			_, err := s.RecordUsage(context.Background(), "1", "10", tt.kind, "Shop")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
