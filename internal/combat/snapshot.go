package combat

import "github.com/samdwyer/bitacora/internal/entity"

// Snapshot is a deep copy of a session's observable state, handed to the
// presentation after every intent.
type Snapshot struct {
	SessionID   string             `json:"sessionId"`
	ProfileName string             `json:"profileName"`
	Phase       Phase              `json:"phase"`
	Round       int                `json:"round"`
	Turn        int                `json:"turn"`
	ActionCount int                `json:"actionCount"`
	Player      entity.Combatant   `json:"player"`
	Enemies     []entity.Combatant `json:"enemies"`
	Indirects   []IndirectEffect   `json:"indirects"`
	Log         []Entry            `json:"log"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	enemies := s.enemies.All()
	copies := make([]entity.Combatant, len(enemies))
	for i, e := range enemies {
		copies[i] = e.Clone()
	}

	return Snapshot{
		SessionID:   s.id,
		ProfileName: s.profile.Name,
		Phase:       s.phase,
		Round:       s.round,
		Turn:        s.turn,
		ActionCount: s.actionCount,
		Player:      s.player.Clone(),
		Enemies:     copies,
		Indirects:   s.ledger.Effects(),
		Log:         s.log.Entries(),
	}
}

// Groups returns the log grouped by round then turn.
func (s Snapshot) Groups() []RoundGroup {
	return GroupEntries(s.Log)
}

// Enemy returns the enemy with the given ID from the snapshot.
func (s Snapshot) Enemy(id string) (entity.Combatant, bool) {
	for _, e := range s.Enemies {
		if e.ID == id {
			return e, true
		}
	}
	return entity.Combatant{}, false
}
