package guildconfig_test

import (
	"context"
	"sync"
	"testing"

	"github.com/slotwarden/slotbot/internal/domain/guildconfig"
	"github.com/slotwarden/slotbot/internal/domain/guildconfig/mock"
	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/domain/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestConfig_LimitFor(t *testing.T) {
	cfg := guildconfig.Defaults("1")
	tests := []struct {
		name string
		kind period.Kind
		vip  bool
		want int
	}{
		{"FreeHere", period.Here, false, guildconfig.DefaultFreeHerePerDay},
		{"VIPHere", period.Here, true, guildconfig.DefaultVIPHerePerDay},
		{"VIPEveryone", period.Everyone, true, guildconfig.DefaultVIPEveryonePerWeek},
		{"FreeEveryone", period.Everyone, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.LimitFor(tt.kind, tt.vip))
		})
	}
}

func TestChange_Apply(t *testing.T) {
	cfg := guildconfig.Defaults("1")
	assert.True(t, guildconfig.Change{Field: guildconfig.FieldFreeHereLimit, Value: 4}.Apply(cfg))
	assert.Equal(t, 4, cfg.FreeHerePerDay)
	assert.True(t, guildconfig.Change{Field: guildconfig.FieldAutoRole, Value: false}.Apply(cfg))
	assert.False(t, cfg.AutoRole)
	assert.False(t, guildconfig.Change{Field: guildconfig.FieldRoleName, Value: 3}.Apply(cfg))
	assert.False(t, guildconfig.Change{Field: guildconfig.Field(99), Value: "x"}.Apply(cfg))
}

func Test_service_Get_caches(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().
		Ensure(gomock.Any(), guildconfig.Defaults("1")).
		Return(guildconfig.Defaults("1"), nil).
		Times(1)

	s := guildconfig.NewService(repo)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg, err := s.Get(context.Background(), "1")
			assert.NoError(t, err)
			assert.Equal(t, guildconfig.DefaultRoleName, cfg.SlotRoleName)
		}()
	}
	wg.Wait()

	cfg, err := s.Get(context.Background(), "1")
	require.NoError(t, err)
	cfg.SlotRoleName = "mutated"

	again, err := s.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, guildconfig.DefaultRoleName, again.SlotRoleName)
}

func Test_service_SetVIPLimits(t *testing.T) {
	tests := []struct {
		name     string
		here     int
		everyone int
		wantErr  bool
	}{
		{name: "Success", here: 3, everyone: 2},
		{name: "EveryoneDisabled", here: 3, everyone: 0},
		{name: "HereZero", here: 0, everyone: 1, wantErr: true},
		{name: "TooHigh", here: 3, everyone: 11, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			if !tt.wantErr {
				updated := guildconfig.Defaults("1")
				updated.VIPHerePerDay = tt.here
				updated.VIPEveryonePerWeek = tt.everyone
				repo.EXPECT().Ensure(gomock.Any(), gomock.Any()).Return(guildconfig.Defaults("1"), nil)
				repo.EXPECT().
					Update(gomock.Any(), "1", []guildconfig.Change{
						{Field: guildconfig.FieldVIPHereLimit, Value: tt.here},
						{Field: guildconfig.FieldVIPEveryoneLimit, Value: tt.everyone},
					}).
					Return(updated, nil)
			}

			s := guildconfig.NewService(repo)
			cfg, err := s.SetVIPLimits(context.Background(), "1", tt.here, tt.everyone)
			if tt.wantErr {
				require.ErrorIs(t, err, guildconfig.ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.here, cfg.VIPHerePerDay)

			limit, err := s.LimitFor(context.Background(), "1", period.Everyone, slots.Category("VIP shop"))
			require.NoError(t, err)
			assert.Equal(t, tt.everyone, limit)
		})
	}
}

func Test_service_SetRole(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	s := guildconfig.NewService(repo)

	_, err := s.SetRole(context.Background(), "1", "Slots", "gold")
	require.ErrorIs(t, err, guildconfig.ErrInvalidValue)

	_, err = s.SetRole(context.Background(), "1", "  ", "")
	require.ErrorIs(t, err, guildconfig.ErrInvalidValue)

	repo.EXPECT().Ensure(gomock.Any(), gomock.Any()).Return(guildconfig.Defaults("1"), nil)
	repo.EXPECT().
		Update(gomock.Any(), "1", []guildconfig.Change{
			{Field: guildconfig.FieldRoleName, Value: "Slots"},
			{Field: guildconfig.FieldRoleColor, Value: "#00FF00"},
		}).
		Return(&guildconfig.Config{GuildID: "1", SlotRoleName: "Slots", SlotRoleColor: "#00FF00"}, nil)

	cfg, err := s.SetRole(context.Background(), "1", "Slots", "#00ff00")
	require.NoError(t, err)
	assert.Equal(t, "#00FF00", cfg.SlotRoleColor)
}
