package platform

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"

	"github.com/slotwarden/slotbot/internal/domain/enforcement"
)

type Notifier struct {
	rest REST
}

var _ enforcement.Notifier = (*Notifier)(nil)

func NewNotifier(r REST) *Notifier {
	return &Notifier{rest: r}
}

func (n *Notifier) Notify(ctx context.Context, channelID, content string) error {
	id, err := parseID("channel", channelID)
	if err != nil {
		return err
	}
	_, err = n.rest.CreateMessage(id, discord.MessageCreate{
		Content:         content,
		AllowedMentions: &discord.AllowedMentions{Parse: []discord.AllowedMentionType{discord.AllowedMentionTypeUsers}},
	}, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
