package slotbot

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("MEILISEARCH_URL", "")
	t.Setenv("MEILISEARCH_MASTER_KEY", "")

	path := writeConfig(t, `
[log]
level = "debug"
format = "json"

[bot]
token = "file-token"

[db]
host = "db"
database = "slots"

[schedule]
sweep = "*/30 * * * *"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "file-token", cfg.Bot.Token)
	assert.Equal(t, "db", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "*/30 * * * *", cfg.Schedule.Sweep)
	assert.Equal(t, "0 0 * * 1", cfg.Schedule.EveryoneReset)
	assert.Equal(t, int64(1), cfg.Policy.InviteReward)
	assert.False(t, cfg.Search.Enabled())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("MEILISEARCH_URL", "http://search:7700")
	t.Setenv("MEILISEARCH_MASTER_KEY", "key")

	cfg, err := LoadConfig(writeConfig(t, "[bot]\ntoken = \"file-token\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Bot.Token)
	assert.Equal(t, "secret", cfg.DB.Password)
	assert.Equal(t, "http://search:7700", cfg.Search.Host)
	assert.True(t, cfg.Search.Enabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "defaults with token", modify: func(c *Config) {}},
		{name: "missing token", modify: func(c *Config) { c.Bot.Token = "" }, wantErr: true},
		{name: "zero invite reward", modify: func(c *Config) { c.Policy.InviteReward = 0 }, wantErr: true},
		{name: "unknown log format", modify: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Bot.Token = "token"
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadOfflineConfigWithoutToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	path := writeConfig(t, "[db]\nhost = \"db\"\n")
	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrMissingToken)

	cfg, err := LoadOfflineConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "db", cfg.DB.Host)
}
