package guildconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/slotwarden/slotbot/internal/domain/period"
	"github.com/slotwarden/slotbot/internal/domain/slots"
)

const (
	cacheSize = 256
	MaxLimit  = 10
)

var (
	ErrInvalidValue = errors.New("invalid config value")
	colorPattern    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

type Service interface {
	Get(ctx context.Context, guildID string) (*Config, error)
	SetRole(ctx context.Context, guildID, name, color string) (*Config, error)
	SetFreeLimits(ctx context.Context, guildID string, herePerDay int) (*Config, error)
	SetVIPLimits(ctx context.Context, guildID string, herePerDay, everyonePerWeek int) (*Config, error)
	SetLogsChannel(ctx context.Context, guildID, channelID string) (*Config, error)
	SetAutoRole(ctx context.Context, guildID string, enabled bool) (*Config, error)
	LimitFor(ctx context.Context, guildID string, kind period.Kind, category slots.Category) (int, error)
}

type service struct {
	repository Repository
	cache      *lru.Cache
	group      singleflight.Group
}

func NewService(repository Repository) *service {
	cache, _ := lru.New(cacheSize)
	return &service{
		repository: repository,
		cache:      cache,
	}
}

func (s *service) Get(ctx context.Context, guildID string) (*Config, error) {
	if cfg, ok := s.cached(guildID); ok {
		return copyOf(cfg), nil
	}

	v, err, _ := s.group.Do(guildID, func() (any, error) {
		if cfg, ok := s.cached(guildID); ok {
			return cfg, nil
		}
		cfg, err := s.repository.Ensure(ctx, Defaults(guildID))
		if err != nil {
			return nil, err
		}
		s.cache.Add(guildID, cfg)
		return cfg, nil
	})
	if err != nil {
		return nil, err
	}
	return copyOf(v.(*Config)), nil
}

func (s *service) cached(guildID string) (*Config, bool) {
	v, ok := s.cache.Get(guildID)
	if !ok {
		return nil, false
	}
	cfg, ok := v.(*Config)
	return cfg, ok
}

func (s *service) SetRole(ctx context.Context, guildID, name, color string) (*Config, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrInvalidValue)
	}
	changes := []Change{{Field: FieldRoleName, Value: name}}
	if color != "" {
		if !colorPattern.MatchString(color) {
			return nil, fmt.Errorf("%w: color must look like #FFD700", ErrInvalidValue)
		}
		changes = append(changes, Change{Field: FieldRoleColor, Value: strings.ToUpper(color)})
	}
	return s.update(ctx, guildID, changes)
}

func (s *service) SetFreeLimits(ctx context.Context, guildID string, herePerDay int) (*Config, error) {
	if err := checkLimit(herePerDay, 1); err != nil {
		return nil, err
	}
	return s.update(ctx, guildID, []Change{{Field: FieldFreeHereLimit, Value: herePerDay}})
}

func (s *service) SetVIPLimits(ctx context.Context, guildID string, herePerDay, everyonePerWeek int) (*Config, error) {
	if err := checkLimit(herePerDay, 1); err != nil {
		return nil, err
	}
	if err := checkLimit(everyonePerWeek, 0); err != nil {
		return nil, err
	}
	return s.update(ctx, guildID, []Change{
		{Field: FieldVIPHereLimit, Value: herePerDay},
		{Field: FieldVIPEveryoneLimit, Value: everyonePerWeek},
	})
}

func (s *service) SetLogsChannel(ctx context.Context, guildID, channelID string) (*Config, error) {
	return s.update(ctx, guildID, []Change{{Field: FieldLogsChannel, Value: channelID}})
}

func (s *service) SetAutoRole(ctx context.Context, guildID string, enabled bool) (*Config, error) {
	return s.update(ctx, guildID, []Change{{Field: FieldAutoRole, Value: enabled}})
}

// LimitFor returns the allowance for one mention kind. Free slots have no
// @everyone allowance.
func (s *service) LimitFor(ctx context.Context, guildID string, kind period.Kind, category slots.Category) (int, error) {
	cfg, err := s.Get(ctx, guildID)
	if err != nil {
		return 0, err
	}
	return cfg.LimitFor(kind, category.IsVIP()), nil
}

func (c *Config) LimitFor(kind period.Kind, vip bool) int {
	switch {
	case kind == period.Here && vip:
		return c.VIPHerePerDay
	case kind == period.Here:
		return c.FreeHerePerDay
	case kind == period.Everyone && vip:
		return c.VIPEveryonePerWeek
	}
	return 0
}

func (s *service) update(ctx context.Context, guildID string, changes []Change) (*Config, error) {
	// the row must exist before a partial update
	if _, err := s.Get(ctx, guildID); err != nil {
		return nil, err
	}

	s.cache.Remove(guildID)
	cfg, err := s.repository.Update(ctx, guildID, changes)
	if err != nil {
		return nil, err
	}
	s.cache.Add(guildID, cfg)

	fields := make([]string, 0, len(changes))
	for _, ch := range changes {
		fields = append(fields, ch.Field.String())
	}
	slog.Info("Guild config updated",
		slog.String("type", "sys"),
		slog.String("guild_id", guildID),
		slog.String("fields", strings.Join(fields, ",")),
	)
	return copyOf(cfg), nil
}

func checkLimit(v, min int) error {
	if v < min || v > MaxLimit {
		return fmt.Errorf("%w: limit must be between %d and %d", ErrInvalidValue, min, MaxLimit)
	}
	return nil
}

func copyOf(cfg *Config) *Config {
	c := *cfg
	return &c
}
