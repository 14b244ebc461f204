package platform

import (
	"context"

	"github.com/slotwarden/slotbot/internal/domain/enforcement"
)

// Offline stands in for the platform when no gateway session exists, e.g.
// a one-off sweep from the CLI. Releases succeed without doing anything;
// creation is refused.
type Offline struct{}

var (
	_ enforcement.Provisioner = Offline{}
	_ enforcement.Notifier    = Offline{}
)

func (Offline) CreateChannel(context.Context, string, enforcement.ChannelSpec) (string, error) {
	return "", ErrOffline
}

func (Offline) DeleteChannel(context.Context, string) error { return nil }

func (Offline) FindRole(context.Context, string, string) (string, bool, error) {
	return "", false, ErrOffline
}

func (Offline) CreateRole(context.Context, string, string, string) (string, error) {
	return "", ErrOffline
}

func (Offline) AddRole(context.Context, string, string, string) error { return ErrOffline }

func (Offline) RemoveRole(context.Context, string, string, string) error { return nil }

func (Offline) Notify(context.Context, string, string) error { return nil }
