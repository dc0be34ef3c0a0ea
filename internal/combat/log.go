package combat

import "sort"

// EntryType discriminates log entries.
type EntryType string

const (
	EntrySkill        EntryType = "skill"
	EntryEnemyAction  EntryType = "enemy-action"
	EntryPlayerFree   EntryType = "player-free"
	EntryBlank        EntryType = "blank"
	EntryIndirectTick EntryType = "indirect-tick"
)

// IndirectSummary records the indirect effect an entry spawned.
type IndirectSummary struct {
	Percent int `json:"percent"`
	Actions int `json:"actions"`
}

// Entry is one line of the action log.
type Entry struct {
	ID             int              `json:"id"`
	Type           EntryType        `json:"type"`
	Round          int              `json:"round"`
	Turn           int              `json:"turn"`
	ActorID        string           `json:"actorId,omitempty"`
	ActorName      string           `json:"actorName,omitempty"`
	TargetID       string           `json:"targetId,omitempty"`
	Target         string           `json:"target,omitempty"`
	Damage         int              `json:"damage"`
	PACost         int              `json:"paCost,omitempty"`
	DamageReceived bool             `json:"damageReceived"`
	Indirect       *IndirectSummary `json:"indirect,omitempty"`
	Notes          string           `json:"notes,omitempty"`

	// Skill entries only.
	SkillID   string `json:"skillId,omitempty"`
	SkillName string `json:"skillName,omitempty"`
	Range     string `json:"alcance,omitempty"`
	Effect    string `json:"efecto,omitempty"`

	// Indirect-tick entries only.
	SourceName string `json:"sourceName,omitempty"`
}

// ReadOnly returns true for system-generated entries that cannot be toggled
// or edited.
func (e *Entry) ReadOnly() bool {
	return e.Type == EntryIndirectTick
}

// SpendsPlayerPA returns true if the entry's cost was paid by the player.
func (e *Entry) SpendsPlayerPA() bool {
	return e.Type == EntrySkill || e.Type == EntryPlayerFree
}

// Log is the ordered action log. IDs come from a counter that never rewinds.
type Log struct {
	entries []*Entry
	counter int
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append assigns the next ID to entry, appends it and returns the stored entry.
func (l *Log) Append(entry Entry) *Entry {
	l.counter++
	entry.ID = l.counter
	stored := &entry
	l.entries = append(l.entries, stored)
	return stored
}

// Get returns the entry with the given ID, or nil.
func (l *Log) Get(id int) *Entry {
	for _, e := range l.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Remove deletes the entry with the given ID. It returns false if no such
// entry exists.
func (l *Log) Remove(id int) bool {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Select returns the entries matching keep, in log order.
func (l *Log) Select(keep func(*Entry) bool) []*Entry {
	var out []*Entry
	for _, e := range l.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Entries returns copies of all entries in log order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

func cloneEntry(e *Entry) Entry {
	c := *e
	if e.Indirect != nil {
		ind := *e.Indirect
		c.Indirect = &ind
	}
	return c
}

// TurnGroup is the entries logged during one turn.
type TurnGroup struct {
	Turn    int
	Entries []Entry
}

// RoundGroup is the turns logged during one round.
type RoundGroup struct {
	Round int
	Turns []TurnGroup
}

// GroupEntries groups entries by round then turn, both ascending. Entries
// keep their log order within a turn.
func GroupEntries(entries []Entry) []RoundGroup {
	byRound := make(map[int]map[int][]Entry)
	for _, e := range entries {
		turns, ok := byRound[e.Round]
		if !ok {
			turns = make(map[int][]Entry)
			byRound[e.Round] = turns
		}
		turns[e.Turn] = append(turns[e.Turn], e)
	}

	rounds := make([]RoundGroup, 0, len(byRound))
	for round, turns := range byRound {
		group := RoundGroup{Round: round}
		for turn, list := range turns {
			group.Turns = append(group.Turns, TurnGroup{Turn: turn, Entries: list})
		}
		sort.Slice(group.Turns, func(i, j int) bool { return group.Turns[i].Turn < group.Turns[j].Turn })
		rounds = append(rounds, group)
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Round < rounds[j].Round })

	return rounds
}
