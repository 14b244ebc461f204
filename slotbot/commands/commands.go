package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/slotwarden/slotbot/slotbot"
	"github.com/slotwarden/slotbot/slotbot/handlers"
)

var Commands = []discord.ApplicationCommandCreate{
	FreeSlot,
	VIPSlot,
	SlotInfo,
	RemoveSlot,
	AddHere,
	AddEveryone,
	HereUsed,
	Warn,
	SlotConfig,
	SlotStats,
	GivePoints,
	SlotHelp,
	SearchSlots,
	InvitePoints,
	RedeemSlot,
	InviteLeaderboard,
	InviteInfo,
	Version,
}

// Register routes every slash command through the logging wrapper.
func Register(h *handler.Mux, b *slotbot.Bot) {
	route := func(name string, ch handler.CommandHandler) {
		h.Command("/"+name, handlers.WrapWithLogging(name, b.CommandTimeout(), ch))
	}

	route("freeslot", FreeSlotHandler(b))
	route("vipslot", VIPSlotHandler(b))
	route("slotinfo", SlotInfoHandler(b))
	route("removeslot", RemoveSlotHandler(b))
	route("addhere", AddHereHandler(b))
	route("addevryone", AddEveryoneHandler(b))
	route("hereused", HereUsedHandler(b))
	route("warn", WarnHandler(b))
	route("slotconfig", SlotConfigHandler(b))
	route("slotstats", SlotStatsHandler(b))
	route("givepoints", GivePointsHandler(b))
	route("slothelp", SlotHelpHandler(b))
	route("searchslots", SearchSlotsHandler(b))
	route("invitepoints", InvitePointsHandler(b))
	route("redeemslot", RedeemSlotHandler(b))
	route("inviteleaderboard", InviteLeaderboardHandler(b))
	route("inviteinfo", InviteInfoHandler(b))
	route("version", VersionHandler(b))
}
