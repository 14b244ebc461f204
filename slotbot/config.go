package slotbot

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/slotwarden/slotbot/internal/gateways/database"
	"github.com/slotwarden/slotbot/internal/gateways/search"
	"github.com/slotwarden/slotbot/internal/jobs"
)

var ErrMissingToken = errors.New("bot token is not set")

// LoadConfig reads the TOML file at path, then lets a .env file and the
// process environment override the secrets.
func LoadConfig(path string) (*Config, error) {
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOfflineConfig is LoadConfig for commands that never open the gateway,
// so no bot token is required.
func LoadOfflineConfig(path string) (*Config, error) {
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", slog.String("type", "sys"), slog.Any("error", err))
	}
	cfg.applyEnv()
	return &cfg, nil
}

type Config struct {
	Log      LogConfig         `toml:"log"`
	Bot      BotConfig         `toml:"bot"`
	DB       database.DBConfig `toml:"db"`
	Search   search.Config     `toml:"search"`
	Policy   PolicyConfig      `toml:"policy"`
	Schedule jobs.Config       `toml:"schedule"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
	// CommandTimeout is how long a command may run before it is reported as timed out.
	CommandTimeout string `toml:"command_timeout"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type PolicyConfig struct {
	// ResetOnRevoke clears a member's warnings once their slot is revoked.
	ResetOnRevoke bool `toml:"reset_on_revoke"`
	// InviteReward is the number of points credited per attributed join.
	InviteReward int64 `toml:"invite_reward"`
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: "text",
		},
		Bot: BotConfig{
			CommandTimeout: "10s",
		},
		DB: database.DBConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Database: "slotbot",
			PoolSize: 10,
			Timeout:  "3s",
		},
		Policy: PolicyConfig{
			InviteReward: 1,
		},
		Schedule: jobs.DefaultConfig(),
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		c.Bot.Token = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("MEILISEARCH_URL"); v != "" {
		c.Search.Host = v
	}
	if v := os.Getenv("MEILISEARCH_MASTER_KEY"); v != "" {
		c.Search.APIKey = v
	}
}

func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return ErrMissingToken
	}
	return c.validateSettings()
}

func (c *Config) validateSettings() error {
	if c.Policy.InviteReward < 1 {
		return fmt.Errorf("policy.invite_reward must be at least 1, got %d", c.Policy.InviteReward)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
