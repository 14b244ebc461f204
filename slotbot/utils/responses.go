package utils

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

// ResponseHandler provides standardized responses for commands.
type ResponseHandler struct{}

var EH = &ResponseHandler{}

func (h *ResponseHandler) CreateErrorEmbed(e *handler.CommandEvent, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{Description: message, Color: ErrorColor}},
		Flags:  discord.MessageFlagEphemeral,
	})
}

func (h *ResponseHandler) CreateSuccessEmbed(e *handler.CommandEvent, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{Description: message, Color: SuccessColor}},
	})
}

func (h *ResponseHandler) CreateEmbed(e *handler.CommandEvent, embed discord.Embed) error {
	return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
}

// CreateFromError answers with the classified message for err.
func (h *ResponseHandler) CreateFromError(e *handler.CommandEvent, err error) error {
	t, msg := Classify(err)
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{Description: t.prefix() + " " + msg, Color: t.color()}},
		Flags:  discord.MessageFlagEphemeral,
	})
}

// UpdateFromError edits a deferred response with the classified message for err.
func (h *ResponseHandler) UpdateFromError(e *handler.CommandEvent, err error) error {
	t, msg := Classify(err)
	return h.UpdateEmbed(e, discord.Embed{Description: t.prefix() + " " + msg, Color: t.color()})
}

func (h *ResponseHandler) UpdateEmbed(e *handler.CommandEvent, embed discord.Embed) error {
	_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{embed},
	})
	return err
}

func (h *ResponseHandler) CreatePermissionError(e *handler.CommandEvent) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: PermissionError.prefix() + " You do not have permission to use this command.",
			Color:       ErrorColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}

// HasPermission reports whether the invoking member holds perm.
func HasPermission(e *handler.CommandEvent, perm discord.Permissions) bool {
	m := e.Member()
	if m == nil {
		return false
	}
	return m.Permissions.Has(discord.PermissionAdministrator) || m.Permissions.Has(perm)
}
