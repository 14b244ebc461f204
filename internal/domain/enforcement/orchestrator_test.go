package enforcement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slotwarden/slotbot/internal/domain/enforcement"
	"github.com/slotwarden/slotbot/internal/domain/enforcement/mock"
	"github.com/slotwarden/slotbot/internal/domain/faults"
	"github.com/slotwarden/slotbot/internal/domain/guildconfig"
	configmock "github.com/slotwarden/slotbot/internal/domain/guildconfig/mock"
	"github.com/slotwarden/slotbot/internal/domain/invites"
	invitesmock "github.com/slotwarden/slotbot/internal/domain/invites/mock"
	"github.com/slotwarden/slotbot/internal/domain/penalty"
	penaltymock "github.com/slotwarden/slotbot/internal/domain/penalty/mock"
	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/domain/slots"
	slotsmock "github.com/slotwarden/slotbot/internal/domain/slots/mock"
	"github.com/slotwarden/slotbot/internal/domain/usage"
	usagemock "github.com/slotwarden/slotbot/internal/domain/usage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

type fixture struct {
	slots       *slotsmock.MockService
	usage       *usagemock.MockService
	penalty     *penaltymock.MockService
	invites     *invitesmock.MockService
	config      *configmock.MockService
	provisioner *mock.MockProvisioner
	notifier    *mock.MockNotifier
	indexer     *mock.MockIndexer
	activity    *mock.MockActivityLog
	o           *enforcement.Orchestrator
}

func newFixture(t *testing.T, cfg *guildconfig.Config) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		slots:       slotsmock.NewMockService(ctrl),
		usage:       usagemock.NewMockService(ctrl),
		penalty:     penaltymock.NewMockService(ctrl),
		invites:     invitesmock.NewMockService(ctrl),
		config:      configmock.NewMockService(ctrl),
		provisioner: mock.NewMockProvisioner(ctrl),
		notifier:    mock.NewMockNotifier(ctrl),
		indexer:     mock.NewMockIndexer(ctrl),
		activity:    mock.NewMockActivityLog(ctrl),
	}
	f.o = enforcement.New(enforcement.Deps{
		Slots:       f.slots,
		Usage:       f.usage,
		Penalty:     f.penalty,
		Invites:     f.invites,
		Config:      f.config,
		Provisioner: f.provisioner,
		Notifier:    f.notifier,
		Indexer:     f.indexer,
		Activity:    f.activity,
		Clock:       period.FixedClock{At: now},
	})

	f.config.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cfg, nil).AnyTimes()
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.activity.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.indexer.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	return f
}

func noAutoRole() *guildconfig.Config {
	cfg := guildconfig.Defaults("10")
	cfg.AutoRole = false
	return cfg
}

func activeSlot(category slots.Category) *slots.Slot {
	return &slots.Slot{
		ID:           1,
		UserID:       "1",
		GuildID:      "10",
		Category:     category,
		DurationDays: 7,
		CreatedAt:    now,
		ExpiresAt:    now.Add(7 * 24 * time.Hour),
		ChannelID:    "100",
		RoleID:       "200",
	}
}

func usageResult(count, limit int) usage.Result {
	return usage.Result{
		Kind:      period.Here,
		PeriodKey: period.DayKey(now),
		Count:     count,
		Limit:     limit,
		Remaining: max(0, limit-count),
		Breached:  count > limit,
	}
}

func TestRecordMention_warnThenRevoke(t *testing.T) {
	f := newFixture(t, guildconfig.Defaults("10"))
	slot := activeSlot("Shop")
	ev := enforcement.MentionEvent{UserID: "1", GuildID: "10", ChannelID: "100", Kinds: []period.Kind{period.Here}}

	f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(slot, nil).Times(3)
	gomock.InOrder(
		f.usage.EXPECT().RecordUsage(gomock.Any(), "1", "10", period.Here, slots.Category("Shop")).Return(usageResult(1, 1), nil),
		f.usage.EXPECT().RecordUsage(gomock.Any(), "1", "10", period.Here, slots.Category("Shop")).Return(usageResult(2, 1), nil),
		f.usage.EXPECT().RecordUsage(gomock.Any(), "1", "10", period.Here, slots.Category("Shop")).Return(usageResult(3, 1), nil),
	)
	gomock.InOrder(
		f.penalty.EXPECT().ApplyInfraction(gomock.Any(), "1", "10").Return(penalty.Outcome{WarningCount: 1, Action: penalty.ActionWarned}, nil),
		f.penalty.EXPECT().ApplyInfraction(gomock.Any(), "1", "10").Return(penalty.Outcome{WarningCount: 2, Action: penalty.ActionRevoked}, nil),
	)
	f.provisioner.EXPECT().DeleteChannel(gomock.Any(), "100").Return(nil)
	f.provisioner.EXPECT().RemoveRole(gomock.Any(), "10", "1", "200").Return(nil)
	f.slots.EXPECT().Revoke(gomock.Any(), "1", "10").Return(true, nil)
	f.indexer.EXPECT().Remove(gomock.Any(), "1", "10").Return(nil)

	ctx := context.Background()
	out, err := f.o.RecordMention(ctx, ev)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.False(t, out[0].Usage.Breached)
	assert.Nil(t, out[0].Penalty)

	out, err = f.o.RecordMention(ctx, ev)
	require.NoError(t, err)
	require.NotNil(t, out[0].Penalty)
	assert.Equal(t, penalty.ActionWarned, out[0].Penalty.Action)
	assert.Equal(t, 1, out[0].Penalty.WarningCount)

	out, err = f.o.RecordMention(ctx, ev)
	require.NoError(t, err)
	require.NotNil(t, out[0].Penalty)
	assert.Equal(t, penalty.ActionRevoked, out[0].Penalty.Action)
}

func TestRecordMention_ignoresNonHolders(t *testing.T) {
	f := newFixture(t, guildconfig.Defaults("10"))
	f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(nil, slots.ErrNotFound)

	out, err := f.o.RecordMention(context.Background(), enforcement.MentionEvent{
		UserID: "1", GuildID: "10", Kinds: []period.Kind{period.Here, period.Everyone},
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRecordMention_storageFailureAppliesNoPenalty(t *testing.T) {
	f := newFixture(t, guildconfig.Defaults("10"))
	storageErr := faults.Storage("increment usage", errors.New("connection reset"))
	f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(activeSlot("Shop"), nil)
	f.usage.EXPECT().RecordUsage(gomock.Any(), "1", "10", period.Here, slots.Category("Shop")).Return(usage.Result{}, storageErr)

	_, err := f.o.RecordMention(context.Background(), enforcement.MentionEvent{
		UserID: "1", GuildID: "10", Kinds: []period.Kind{period.Here},
	})
	require.ErrorIs(t, err, faults.ErrStorage)
}

func TestRecordMention_stopsAfterRevocation(t *testing.T) {
	f := newFixture(t, guildconfig.Defaults("10"))
	slot := activeSlot("VIP Shop")
	f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(slot, nil)
	f.usage.EXPECT().RecordUsage(gomock.Any(), "1", "10", period.Everyone, slots.Category("VIP Shop")).
		Return(usage.Result{Kind: period.Everyone, Count: 2, Limit: 1, Breached: true}, nil)
	f.penalty.EXPECT().ApplyInfraction(gomock.Any(), "1", "10").Return(penalty.Outcome{WarningCount: 2, Action: penalty.ActionRevoked}, nil)
	f.provisioner.EXPECT().DeleteChannel(gomock.Any(), "100").Return(nil)
	f.provisioner.EXPECT().RemoveRole(gomock.Any(), "10", "1", "200").Return(nil)
	f.slots.EXPECT().Revoke(gomock.Any(), "1", "10").Return(true, nil)
	f.indexer.EXPECT().Remove(gomock.Any(), "1", "10").Return(nil)

	out, err := f.o.RecordMention(context.Background(), enforcement.MentionEvent{
		UserID: "1", GuildID: "10", ChannelID: "555", Kinds: []period.Kind{period.Everyone, period.Here},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestRecordMention_freeSlotEveryoneIsRejected(t *testing.T) {
	tests := []struct {
		name  string
		kinds []period.Kind
	}{
		{"EveryoneOnly", []period.Kind{period.Everyone}},
		{"HereAndEveryone", []period.Kind{period.Here, period.Everyone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			notifier := mock.NewMockNotifier(ctrl)
			slotsSvc := slotsmock.NewMockService(ctrl)
			// usage and penalty carry no expectations: any call fails the test.
			o := enforcement.New(enforcement.Deps{
				Slots:       slotsSvc,
				Usage:       usagemock.NewMockService(ctrl),
				Penalty:     penaltymock.NewMockService(ctrl),
				Invites:     invitesmock.NewMockService(ctrl),
				Config:      configmock.NewMockService(ctrl),
				Provisioner: mock.NewMockProvisioner(ctrl),
				Notifier:    notifier,
				Indexer:     mock.NewMockIndexer(ctrl),
				Activity:    mock.NewMockActivityLog(ctrl),
				Clock:       period.FixedClock{At: now},
			})

			slotsSvc.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(activeSlot("Shop"), nil)
			notifier.EXPECT().Notify(gomock.Any(), "555", gomock.Any()).
				DoAndReturn(func(_ context.Context, _, content string) error {
					assert.Contains(t, content, "free slots cannot use @everyone")
					return nil
				})

			out, err := o.RecordMention(context.Background(), enforcement.MentionEvent{
				UserID: "1", GuildID: "10", ChannelID: "555", Kinds: tt.kinds,
			})
			require.NoError(t, err)
			assert.Empty(t, out)
		})
	}
}

func TestRedeem_refundsWhenIssuanceFails(t *testing.T) {
	f := newFixture(t, noAutoRole())
	issueErr := faults.Storage("insert slot", errors.New("connection refused"))

	f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(nil, slots.ErrNotFound)
	f.invites.EXPECT().Debit(gomock.Any(), "1", "10", int64(3)).Return(nil)
	f.provisioner.EXPECT().CreateChannel(gomock.Any(), "10", gomock.Any()).Return("100", nil)
	f.slots.EXPECT().Issue(gomock.Any(), gomock.Any()).Return(nil, issueErr)
	f.provisioner.EXPECT().DeleteChannel(gomock.Any(), "100").Return(nil)
	f.invites.EXPECT().Refund(gomock.Any(), "1", "10", int64(3)).Return(nil)

	_, err := f.o.Redeem(context.Background(), enforcement.RedeemRequest{
		UserID: "1", GuildID: "10", UserTag: "user", ChannelName: "shop", Category: "Shop", Days: 3,
	})
	require.ErrorIs(t, err, faults.ErrStorage)
}

func TestRedeem_insufficientFunds(t *testing.T) {
	f := newFixture(t, noAutoRole())
	f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(nil, slots.ErrNotFound)
	f.invites.EXPECT().Debit(gomock.Any(), "1", "10", int64(5)).
		Return(&invites.InsufficientFundsError{Balance: 3, Requested: 5})

	_, err := f.o.Redeem(context.Background(), enforcement.RedeemRequest{
		UserID: "1", GuildID: "10", Category: "Shop", Days: 5,
	})
	require.ErrorIs(t, err, invites.ErrInsufficientFunds)
}

func TestRedeem_blankCategoryIsRejectedBeforeDebit(t *testing.T) {
	f := newFixture(t, noAutoRole())

	_, err := f.o.Redeem(context.Background(), enforcement.RedeemRequest{
		UserID: "1", GuildID: "10", Category: "  ", Days: 2,
	})
	require.ErrorIs(t, err, slots.ErrInvalidRequest)
}

func TestRedeem_validation(t *testing.T) {
	f := newFixture(t, noAutoRole())
	tests := []struct {
		name string
		req  enforcement.RedeemRequest
	}{
		{"ZeroDays", enforcement.RedeemRequest{UserID: "1", GuildID: "10", Category: "Shop", Days: 0}},
		{"TooManyDays", enforcement.RedeemRequest{UserID: "1", GuildID: "10", Category: "Shop", Days: 31}},
		{"VIPCategory", enforcement.RedeemRequest{UserID: "1", GuildID: "10", Category: "VIP Shop", Days: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.o.Redeem(context.Background(), tt.req)
			require.ErrorIs(t, err, enforcement.ErrInvalidRedeem)
		})
	}
}

func TestRedeem_success(t *testing.T) {
	f := newFixture(t, noAutoRole())
	f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(nil, slots.ErrNotFound)
	f.invites.EXPECT().Debit(gomock.Any(), "1", "10", int64(2)).Return(nil)
	f.provisioner.EXPECT().CreateChannel(gomock.Any(), "10", enforcement.ChannelSpec{
		Name: "shop", OwnerID: "1", VIP: false, Reason: "Free slot for user",
	}).Return("100", nil)
	f.slots.EXPECT().Issue(gomock.Any(), slots.IssueRequest{
		UserID: "1", GuildID: "10", UserTag: "user", DurationDays: 2, Category: "Shop", ChannelID: "100",
	}).Return(activeSlot("Shop"), nil)

	slot, err := f.o.Redeem(context.Background(), enforcement.RedeemRequest{
		UserID: "1", GuildID: "10", UserTag: "user", ChannelName: "shop", Category: "Shop", Days: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "100", slot.ChannelID)
}

func TestIssueSlot_compensatesRoleWhenChannelFails(t *testing.T) {
	f := newFixture(t, guildconfig.Defaults("10"))
	f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(nil, slots.ErrNotFound)
	f.provisioner.EXPECT().FindRole(gomock.Any(), "10", guildconfig.DefaultRoleName).Return("", false, nil)
	f.provisioner.EXPECT().CreateRole(gomock.Any(), "10", guildconfig.DefaultRoleName, guildconfig.DefaultRoleColor).Return("200", nil)
	f.provisioner.EXPECT().AddRole(gomock.Any(), "10", "1", "200").Return(nil)
	f.provisioner.EXPECT().CreateChannel(gomock.Any(), "10", gomock.Any()).Return("", errors.New("missing permissions"))
	f.provisioner.EXPECT().RemoveRole(gomock.Any(), "10", "1", "200").Return(nil)

	_, err := f.o.IssueSlot(context.Background(), enforcement.IssueRequest{
		UserID: "1", GuildID: "10", UserTag: "user", Category: "Shop", DurationDays: 7, VIP: true,
	})
	require.ErrorIs(t, err, faults.ErrProvisioning)
}

func TestIssueSlot_alreadyActive(t *testing.T) {
	f := newFixture(t, guildconfig.Defaults("10"))
	f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(activeSlot("Shop"), nil)

	_, err := f.o.IssueSlot(context.Background(), enforcement.IssueRequest{
		UserID: "1", GuildID: "10", Category: "Shop", DurationDays: 7,
	})
	require.ErrorIs(t, err, slots.ErrAlreadyActive)
}

func TestIssueSlot_vipCategory(t *testing.T) {
	f := newFixture(t, guildconfig.Defaults("10"))
	f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(nil, slots.ErrNotFound)
	f.provisioner.EXPECT().FindRole(gomock.Any(), "10", guildconfig.DefaultRoleName).Return("200", true, nil)
	f.provisioner.EXPECT().AddRole(gomock.Any(), "10", "1", "200").Return(nil)
	f.provisioner.EXPECT().CreateChannel(gomock.Any(), "10", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, spec enforcement.ChannelSpec) (string, error) {
			assert.True(t, spec.VIP)
			assert.Equal(t, "user", spec.Name)
			return "100", nil
		})
	f.slots.EXPECT().Issue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req slots.IssueRequest) (*slots.Slot, error) {
			assert.Equal(t, slots.Category("VIP Shop"), req.Category)
			assert.Equal(t, "200", req.RoleID)
			return &slots.Slot{UserID: req.UserID, GuildID: req.GuildID, Category: req.Category, ChannelID: req.ChannelID, RoleID: req.RoleID, DurationDays: req.DurationDays}, nil
		})

	slot, err := f.o.IssueSlot(context.Background(), enforcement.IssueRequest{
		UserID: "1", GuildID: "10", UserTag: "user", Category: "Shop", DurationDays: 7, VIP: true,
	})
	require.NoError(t, err)
	assert.True(t, slot.Category.IsVIP())
}

func TestRemoveSlot_cleanupFailureStillDeletesRow(t *testing.T) {
	f := newFixture(t, guildconfig.Defaults("10"))
	f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(activeSlot("Shop"), nil)
	f.provisioner.EXPECT().DeleteChannel(gomock.Any(), "100").Return(errors.New("unknown channel"))
	f.provisioner.EXPECT().RemoveRole(gomock.Any(), "10", "1", "200").Return(nil)
	f.slots.EXPECT().Revoke(gomock.Any(), "1", "10").Return(true, nil)
	f.indexer.EXPECT().Remove(gomock.Any(), "1", "10").Return(nil)

	slot, err := f.o.RemoveSlot(context.Background(), "1", "10", "removed by admin")
	require.NoError(t, err)
	assert.Equal(t, "100", slot.ChannelID)
}

func TestAddUsage(t *testing.T) {
	t.Run("EveryoneNeedsVIP", func(t *testing.T) {
		f := newFixture(t, guildconfig.Defaults("10"))
		f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(activeSlot("Shop"), nil)

		_, err := f.o.AddUsage(context.Background(), enforcement.AddUsageRequest{UserID: "1", GuildID: "10", Kind: period.Everyone})
		require.ErrorIs(t, err, enforcement.ErrNotVIP)
	})

	t.Run("ReportWithinLimitRewards", func(t *testing.T) {
		f := newFixture(t, guildconfig.Defaults("10"))
		f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(activeSlot("VIP Shop"), nil)
		f.usage.EXPECT().RecordUsage(gomock.Any(), "1", "10", period.Here, slots.Category("VIP Shop")).Return(usageResult(1, 2), nil)
		f.slots.EXPECT().AwardPoints(gomock.Any(), "1", "10", enforcement.ReportReward).Return(nil)

		out, err := f.o.AddUsage(context.Background(), enforcement.AddUsageRequest{UserID: "1", GuildID: "10", Kind: period.Here, Report: true})
		require.NoError(t, err)
		assert.Equal(t, enforcement.ReportReward, out.PointsDelta)
		assert.Nil(t, out.Penalty)
	})

	t.Run("ReportBreachFinesAndWarns", func(t *testing.T) {
		f := newFixture(t, guildconfig.Defaults("10"))
		f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(activeSlot("Shop"), nil)
		f.usage.EXPECT().RecordUsage(gomock.Any(), "1", "10", period.Here, slots.Category("Shop")).Return(usageResult(2, 1), nil)
		f.slots.EXPECT().AwardPoints(gomock.Any(), "1", "10", enforcement.ReportPenalty).Return(nil)
		f.penalty.EXPECT().ApplyInfraction(gomock.Any(), "1", "10").Return(penalty.Outcome{WarningCount: 1, Action: penalty.ActionWarned}, nil)

		out, err := f.o.AddUsage(context.Background(), enforcement.AddUsageRequest{UserID: "1", GuildID: "10", Kind: period.Here, Report: true})
		require.NoError(t, err)
		assert.Equal(t, int64(-5), out.Slot.Points)
		require.NotNil(t, out.Penalty)
		assert.Equal(t, penalty.ActionWarned, out.Penalty.Action)
	})

	t.Run("AdminAddNeverPenalizes", func(t *testing.T) {
		f := newFixture(t, guildconfig.Defaults("10"))
		f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(activeSlot("Shop"), nil)
		f.usage.EXPECT().RecordUsage(gomock.Any(), "1", "10", period.Here, slots.Category("Shop")).Return(usageResult(3, 1), nil)

		out, err := f.o.AddUsage(context.Background(), enforcement.AddUsageRequest{UserID: "1", GuildID: "10", Kind: period.Here})
		require.NoError(t, err)
		assert.True(t, out.Usage.Breached)
		assert.Nil(t, out.Penalty)
	})
}

func TestWarn_revokesAtThreshold(t *testing.T) {
	f := newFixture(t, guildconfig.Defaults("10"))
	f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(activeSlot("Shop"), nil)
	f.penalty.EXPECT().ApplyInfraction(gomock.Any(), "1", "10").Return(penalty.Outcome{WarningCount: 2, Action: penalty.ActionRevoked}, nil)
	f.provisioner.EXPECT().DeleteChannel(gomock.Any(), "100").Return(nil)
	f.provisioner.EXPECT().RemoveRole(gomock.Any(), "10", "1", "200").Return(nil)
	f.slots.EXPECT().Revoke(gomock.Any(), "1", "10").Return(true, nil)
	f.indexer.EXPECT().Remove(gomock.Any(), "1", "10").Return(nil)

	_, out, err := f.o.Warn(context.Background(), "1", "10", "555", "")
	require.NoError(t, err)
	assert.Equal(t, penalty.ActionRevoked, out.Action)
}

func TestSweep(t *testing.T) {
	f := newFixture(t, guildconfig.Defaults("10"))
	expired := []*slots.Slot{
		{UserID: "1", GuildID: "10", ChannelID: "100", ExpiresAt: now.Add(-time.Hour)},
		{UserID: "2", GuildID: "10", ExpiresAt: now.Add(-time.Minute)},
	}
	f.slots.EXPECT().Expire(gomock.Any(), now).Return(expired, nil)
	f.provisioner.EXPECT().DeleteChannel(gomock.Any(), "100").Return(nil)
	f.indexer.EXPECT().Remove(gomock.Any(), "1", "10").Return(nil)
	f.indexer.EXPECT().Remove(gomock.Any(), "2", "10").Return(nil)

	n, err := f.o.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGivePoints(t *testing.T) {
	f := newFixture(t, guildconfig.Defaults("10"))
	updated := activeSlot("Shop")
	updated.Points = 15
	f.slots.EXPECT().AwardPoints(gomock.Any(), "1", "10", int64(15)).Return(nil)
	f.slots.EXPECT().LookupActive(gomock.Any(), "1", "10").Return(updated, nil)

	slot, err := f.o.GivePoints(context.Background(), "1", "10", 15, "helpful")
	require.NoError(t, err)
	assert.Equal(t, int64(15), slot.Points)
}
