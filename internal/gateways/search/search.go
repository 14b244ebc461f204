// Package search mirrors active slots into a Meilisearch index for /searchslots.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/meilisearch/meilisearch-go"

	"github.com/slotwarden/slotbot/internal/domain/enforcement"
	"github.com/slotwarden/slotbot/internal/domain/slots"
)

const (
	IndexName   = "slots"
	maxQueryLen = 100
)

var ErrDisabled = errors.New("search is not configured")

type Config struct {
	Host   string `toml:"host"`
	APIKey string `toml:"api_key"`
}

func (c Config) Enabled() bool {
	return c.Host != ""
}

// Hit is one slot returned by a search.
type Hit struct {
	UserID    string
	UserTag   string
	Category  string
	Points    int64
	ExpiresAt time.Time
}

type Searcher interface {
	enforcement.Indexer
	Search(ctx context.Context, guildID, query, category string, limit int) ([]Hit, error)
}

// New returns a Meilisearch-backed searcher, or a no-op one when cfg has no host.
func New(cfg Config) Searcher {
	if !cfg.Enabled() {
		slog.Info("Slot search disabled", slog.String("type", "sys"))
		return nop{}
	}
	client := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))
	m := &meili{index: client.Index(IndexName)}
	m.setup()
	return m
}

type document struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	GuildID   string `json:"guild_id"`
	UserTag   string `json:"user_tag"`
	Category  string `json:"category"`
	Points    int64  `json:"points"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expiry_date"`
}

func documentID(userID, guildID string) string {
	return guildID + "_" + userID
}

func toDocument(s *slots.Slot) document {
	return document{
		ID:        documentID(s.UserID, s.GuildID),
		UserID:    s.UserID,
		GuildID:   s.GuildID,
		UserTag:   s.UserTag,
		Category:  string(s.Category),
		Points:    s.Points,
		CreatedAt: s.CreatedAt.Unix(),
		ExpiresAt: s.ExpiresAt.Unix(),
	}
}

type meili struct {
	index meilisearch.IndexManager
}

// setup applies the index settings. Failures are logged; the index still
// accepts documents with default settings.
func (m *meili) setup() {
	searchable := []string{"user_tag", "category", "user_id"}
	if _, err := m.index.UpdateSearchableAttributes(&searchable); err != nil {
		slog.Warn("Failed to update searchable attributes", slog.String("type", "sys"), slog.Any("error", err))
	}

	filterable := []any{"guild_id", "category", "points"}
	if _, err := m.index.UpdateFilterableAttributes(&filterable); err != nil {
		slog.Warn("Failed to update filterable attributes", slog.String("type", "sys"), slog.Any("error", err))
	}

	sortable := []string{"created_at", "expiry_date", "points"}
	if _, err := m.index.UpdateSortableAttributes(&sortable); err != nil {
		slog.Warn("Failed to update sortable attributes", slog.String("type", "sys"), slog.Any("error", err))
	}
}

func (m *meili) Upsert(ctx context.Context, s *slots.Slot) error {
	primaryKey := "id"
	if _, err := m.index.AddDocumentsWithContext(ctx, []document{toDocument(s)}, &primaryKey); err != nil {
		return fmt.Errorf("failed to index slot: %w", err)
	}
	return nil
}

func (m *meili) Remove(ctx context.Context, userID, guildID string) error {
	if _, err := m.index.DeleteDocumentWithContext(ctx, documentID(userID, guildID)); err != nil {
		return fmt.Errorf("failed to remove slot from index: %w", err)
	}
	return nil
}

func (m *meili) Search(ctx context.Context, guildID, query, category string, limit int) ([]Hit, error) {
	raw, err := m.index.SearchRawWithContext(ctx, query, &meilisearch.SearchRequest{
		Filter: filter(guildID, category),
		Sort:   []string{"points:desc"},
		Limit:  int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search slots: %w", err)
	}
	return decodeHits(*raw)
}

func filter(guildID, category string) string {
	f := "guild_id = " + strconv.Quote(guildID)
	if category != "" {
		f += " AND category = " + strconv.Quote(category)
	}
	return f
}

func decodeHits(raw []byte) ([]Hit, error) {
	var resp struct {
		Hits []document `json:"hits"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]Hit, len(resp.Hits))
	for i, d := range resp.Hits {
		hits[i] = Hit{
			UserID:    d.UserID,
			UserTag:   d.UserTag,
			Category:  d.Category,
			Points:    d.Points,
			ExpiresAt: time.Unix(d.ExpiresAt, 0).UTC(),
		}
	}
	return hits, nil
}

type nop struct{}

func (nop) Upsert(context.Context, *slots.Slot) error      { return nil }
func (nop) Remove(context.Context, string, string) error { return nil }

func (nop) Search(context.Context, string, string, string, int) ([]Hit, error) {
	return nil, ErrDisabled
}

// Normalize trims a user query and caps its length.
func Normalize(query string) string {
	query = strings.TrimSpace(query)
	if r := []rune(query); len(r) > maxQueryLen {
		query = string(r[:maxQueryLen])
	}
	return query
}
