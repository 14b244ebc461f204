package slotbot

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"

	"github.com/slotwarden/slotbot/internal/domain/enforcement"
	"github.com/slotwarden/slotbot/internal/domain/guildconfig"
	"github.com/slotwarden/slotbot/internal/domain/invites"
	"github.com/slotwarden/slotbot/internal/domain/penalty"
	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/domain/slots"
	"github.com/slotwarden/slotbot/internal/domain/usage"
	"github.com/slotwarden/slotbot/internal/gateways/database"
	"github.com/slotwarden/slotbot/internal/gateways/database/repositories"
	"github.com/slotwarden/slotbot/internal/gateways/platform"
	"github.com/slotwarden/slotbot/internal/gateways/search"
	"github.com/slotwarden/slotbot/internal/jobs"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
		Tracker:   invites.NewTracker(),
	}
}

type Bot struct {
	Cfg         Config
	Client      bot.Client
	Paginator   *paginator.Manager
	Version     string
	Commit      string
	DB          *database.DB
	Enforcement *enforcement.Orchestrator
	Tracker     *invites.Tracker
	Search      search.Searcher
	Scheduler   *jobs.Scheduler
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMessages,
			gateway.IntentMessageContent,
			gateway.IntentGuildMembers,
			gateway.IntentGuildInvites,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

// InitServices builds the repositories, ledgers and orchestrator on top of
// the open database and the REST client.
func (b *Bot) InitServices() {
	b.Enforcement, b.Search = Services(b.DB, b.Client.Rest(), b.Cfg)
	b.Scheduler = jobs.New(b.Enforcement, b.Cfg.Schedule)
}

// Services wires the domain on top of db. r may be nil for offline use such
// as the sweep command, in which case nothing is provisioned on the platform.
func Services(db *database.DB, r platform.REST, cfg Config) (*enforcement.Orchestrator, search.Searcher) {
	bunDB, timeout := db.BunDB(), db.Timeout()
	clock := period.SystemClock{}

	configs := guildconfig.NewService(repositories.NewGuildConfigRepository(bunDB, timeout))
	searcher := search.New(cfg.Search)

	deps := enforcement.Deps{
		Slots:    slots.NewService(repositories.NewSlotRepository(bunDB, timeout), clock),
		Usage:    usage.NewService(repositories.NewUsageRepository(bunDB, timeout), configs, clock),
		Penalty:  penalty.NewService(repositories.NewWarningRepository(bunDB, timeout), clock, penalty.Policy{ResetOnRevoke: cfg.Policy.ResetOnRevoke}),
		Invites:  invites.NewService(repositories.NewInvitePointsRepository(bunDB, timeout), clock),
		Config:   configs,
		Indexer:  searcher,
		Activity: repositories.NewActivityLogRepository(bunDB, timeout),
		Clock:    clock,
	}
	if r != nil {
		deps.Provisioner = platform.NewProvisioner(r)
		deps.Notifier = platform.NewNotifier(r)
	} else {
		deps.Provisioner = platform.Offline{}
		deps.Notifier = platform.Offline{}
	}
	return enforcement.New(deps), searcher
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("Slot bot is now ready",
		slog.String("type", "sys"),
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("the slots"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.String("type", "sys"), slog.Any("error", err))
	}
}

// CommandTimeout is the finalize deadline applied by the logging wrapper.
func (b *Bot) CommandTimeout() time.Duration {
	d, err := time.ParseDuration(b.Cfg.Bot.CommandTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
