package enforcement

import (
	"context"
	"time"

	"github.com/slotwarden/slotbot/internal/domain/slots"
)

//go:generate mockgen -source=collaborators.go -destination=mock/collaborators.go -package=mock

// ChannelSpec describes the personal channel created for a slot holder.
type ChannelSpec struct {
	Name    string
	OwnerID string
	VIP     bool
	Reason  string
}

type Provisioner interface {
	CreateChannel(ctx context.Context, guildID string, spec ChannelSpec) (string, error)
	DeleteChannel(ctx context.Context, channelID string) error
	FindRole(ctx context.Context, guildID, name string) (string, bool, error)
	CreateRole(ctx context.Context, guildID, name, color string) (string, error)
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
}

type Notifier interface {
	Notify(ctx context.Context, channelID, content string) error
}

type Indexer interface {
	Upsert(ctx context.Context, slot *slots.Slot) error
	Remove(ctx context.Context, userID, guildID string) error
}

type ActivityLog interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, guildID string, limit int) ([]Entry, error)
}

// Entry is one line of a guild's activity history.
type Entry struct {
	GuildID   string
	UserID    string
	Action    string
	Details   string
	CreatedAt time.Time
}

const (
	ActionSlotCreated  = "slot_created"
	ActionSlotRedeemed = "slot_redeemed"
	ActionSlotRemoved  = "slot_removed"
	ActionSlotRevoked  = "slot_revoked"
	ActionSlotExpired  = "slot_expired"
	ActionUsage        = "mention_usage"
	ActionWarning      = "warning"
	ActionPoints       = "points"
)
