package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/slotwarden/slotbot/internal/gateways/database/models"
)

const (
	defaultConnTimeout    = 5 * time.Second
	defaultMaxRetries     = 3
	defaultRetryInterval  = time.Second
	defaultStorageTimeout = 3 * time.Second
)

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	SSLMode      string `toml:"ssl_mode"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
	// Timeout bounds every repository call, e.g. "3s".
	Timeout string `toml:"timeout"`
	// LogQueries logs every statement at debug level.
	LogQueries bool `toml:"log_queries"`
}

// StorageTimeout parses Timeout, falling back to the default when unset or invalid.
func (c DBConfig) StorageTimeout() time.Duration {
	if c.Timeout == "" {
		return defaultStorageTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultStorageTimeout
	}
	return d
}

type DB struct {
	pool    *pgxpool.Pool
	bunDB   *bun.DB
	timeout time.Duration
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	var err error
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	for i := 0; i < defaultMaxRetries; i++ {
		var conn net.Conn
		conn, err = net.DialTimeout("tcp", addr, defaultConnTimeout)
		if err == nil {
			conn.Close()
			break
		}
		slog.Warn("Database not reachable yet",
			slog.String("type", "db"),
			slog.String("addr", addr),
			slog.Int("attempt", i+1),
		)
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}

	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &DB{
		pool:    pool,
		bunDB:   newBunDB(cfg),
		timeout: cfg.StorageTimeout(),
	}, nil
}

func sslMode(cfg DBConfig) string {
	if cfg.SSLMode != "" {
		return cfg.SSLMode
	}
	if mode := os.Getenv("PG_SSLMODE"); mode != "" {
		return mode
	}
	return "disable"
}

func buildConnString(cfg DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, sslMode(cfg),
	)
}

func newBunDB(cfg DBConfig) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(buildConnString(cfg))))
	if cfg.PoolSize > 0 {
		sqldb.SetMaxOpenConns(cfg.PoolSize)
	}
	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(newQueryHook(cfg.LogQueries))
	return db
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

// Timeout is the per-call deadline repositories apply.
func (db *DB) Timeout() time.Duration {
	return db.timeout
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping pool: %w", err)
	}
	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping bun connection: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", sql),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}

var tables = []any{
	(*models.Slot)(nil),
	(*models.MentionUsage)(nil),
	(*models.Warning)(nil),
	(*models.GuildConfig)(nil),
	(*models.InvitePoints)(nil),
	(*models.ActivityLog)(nil),
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_slots_guild_expiry ON slots(guild_id, expiry_date);",
	"CREATE INDEX IF NOT EXISTS idx_slots_expiry ON slots(expiry_date);",
	"CREATE INDEX IF NOT EXISTS idx_mention_usage_kind_period ON mention_usage(kind, period_key);",
	"CREATE INDEX IF NOT EXISTS idx_invite_points_leaderboard ON invite_points(guild_id, total_invites DESC, id ASC);",
	"CREATE INDEX IF NOT EXISTS idx_activity_logs_guild_created ON activity_logs(guild_id, created_at DESC);",
}

// InitializeSchema creates all tables and indexes. It is safe to run on
// every start.
func (db *DB) InitializeSchema(ctx context.Context) error {
	for _, model := range tables {
		_, err := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	slog.Info("Database schema initialized",
		slog.String("type", "db"),
		slog.Int("tables", len(tables)),
		slog.Int("indexes", len(indexes)),
	)
	return nil
}

// ResetTables truncates every application table.
func (db *DB) ResetTables(ctx context.Context) error {
	stmt := "TRUNCATE TABLE slots, mention_usage, warnings, guild_configs, invite_points, activity_logs RESTART IDENTITY;"
	if _, err := db.ExecWithLog(ctx, stmt); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}
