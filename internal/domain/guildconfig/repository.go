package guildconfig

import "context"

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	// Ensure inserts cfg unless the guild already has a row and returns the stored row.
	Ensure(ctx context.Context, cfg *Config) (*Config, error)
	Update(ctx context.Context, guildID string, changes []Change) (*Config, error)
}
