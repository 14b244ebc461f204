// Package jobs runs the periodic maintenance work: usage compaction and the
// expiry sweep.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/slotwarden/slotbot/internal/domain/period"
)

//go:generate mockgen -source=scheduler.go -destination=mock/scheduler.go -package=mock

// Maintainer is the slice of the orchestrator the jobs drive.
type Maintainer interface {
	Compact(ctx context.Context, kind period.Kind) (int64, error)
	Sweep(ctx context.Context) (int, error)
}

type Config struct {
	HereReset     string `toml:"here_reset"`
	EveryoneReset string `toml:"everyone_reset"`
	Sweep         string `toml:"sweep"`
	// Timeout bounds a single run, e.g. "2m".
	Timeout string `toml:"timeout"`
}

const defaultRunTimeout = 2 * time.Minute

func DefaultConfig() Config {
	return Config{
		HereReset:     "0 0 * * *",
		EveryoneReset: "0 0 * * 1",
		Sweep:         "0 0 * * *",
		Timeout:       defaultRunTimeout.String(),
	}
}

func (c Config) runTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultRunTimeout
	}
	return d
}

type job struct {
	name string
	spec string
	run  func(ctx context.Context) error
}

type Scheduler struct {
	cron       *cron.Cron
	maintainer Maintainer
	cfg        Config
}

func New(m Maintainer, cfg Config) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		maintainer: m,
		cfg:        cfg,
	}
}

func (s *Scheduler) jobs() []job {
	return []job{
		{name: "here-reset", spec: s.cfg.HereReset, run: s.compact(period.Here)},
		{name: "everyone-reset", spec: s.cfg.EveryoneReset, run: s.compact(period.Everyone)},
		{name: "expiry-sweep", spec: s.cfg.Sweep, run: s.sweep},
	}
}

func (s *Scheduler) compact(kind period.Kind) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := s.maintainer.Compact(ctx, kind)
		return err
	}
}

func (s *Scheduler) sweep(ctx context.Context) error {
	_, err := s.maintainer.Sweep(ctx)
	return err
}

// Start registers every job and starts the cron loop.
func (s *Scheduler) Start() error {
	for _, j := range s.jobs() {
		j := j
		if _, err := s.cron.AddFunc(j.spec, func() { s.execute(context.Background(), j) }); err != nil {
			return fmt.Errorf("failed to schedule %s (%q): %w", j.name, j.spec, err)
		}
		slog.Info("Job scheduled",
			slog.String("type", "sys"),
			slog.String("job", j.name),
			slog.String("spec", j.spec),
		)
	}
	s.cron.Start()
	return nil
}

// Stop waits for running jobs or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunAll runs every job once in order and returns the first failure.
func (s *Scheduler) RunAll(ctx context.Context) error {
	var first error
	for _, j := range s.jobs() {
		if err := s.execute(ctx, j); err != nil && first == nil {
			first = fmt.Errorf("%s: %w", j.name, err)
		}
	}
	return first
}

func (s *Scheduler) execute(ctx context.Context, j job) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.runTimeout())
	defer cancel()

	start := time.Now()
	err := j.run(ctx)
	if err != nil {
		slog.Error("Job failed",
			slog.String("type", "sys"),
			slog.String("job", j.name),
			slog.Duration("took", time.Since(start)),
			slog.Any("error", err),
		)
		return err
	}
	slog.Info("Job completed",
		slog.String("type", "sys"),
		slog.String("job", j.name),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}
