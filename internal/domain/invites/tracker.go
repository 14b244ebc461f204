package invites

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// Tracker remembers invite use counts per guild so that a member join can
// be attributed to the invite whose count went up.
type Tracker struct {
	guilds *xsync.MapOf[string, *guildInvites]
}

type guildInvites struct {
	mu    sync.Mutex
	codes map[string]Invite
}

func NewTracker() *Tracker {
	return &Tracker{guilds: xsync.NewMapOf[string, *guildInvites]()}
}

func (t *Tracker) guild(guildID string) *guildInvites {
	g, _ := t.guilds.LoadOrCompute(guildID, func() *guildInvites {
		return &guildInvites{codes: make(map[string]Invite)}
	})
	return g
}

// Snapshot replaces the known invites of a guild.
func (t *Tracker) Snapshot(guildID string, current []Invite) {
	g := t.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.codes = make(map[string]Invite, len(current))
	for _, inv := range current {
		g.codes[inv.Code] = inv
	}
}

func (t *Tracker) Add(guildID string, inv Invite) {
	g := t.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.codes[inv.Code] = inv
}

func (t *Tracker) Remove(guildID, code string) {
	g := t.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.codes, code)
}

func (t *Tracker) Forget(guildID string) {
	t.guilds.Delete(guildID)
}

// ResolveInviter compares current against the stored counts and returns the
// inviter of the first invite whose uses grew. Stored counts never go
// backwards, so a stale fetch cannot cause a second attribution.
func (t *Tracker) ResolveInviter(guildID string, current []Invite) (string, bool) {
	g := t.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	var (
		inviter string
		found   bool
	)
	for _, inv := range current {
		prev, known := g.codes[inv.Code]
		if !found && known && inv.Uses > prev.Uses && inv.InviterID != "" {
			inviter, found = inv.InviterID, true
		}
		if known && prev.Uses > inv.Uses {
			inv.Uses = prev.Uses
		}
		g.codes[inv.Code] = inv
	}
	return inviter, found
}
