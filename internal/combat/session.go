package combat

import (
	"strings"

	"github.com/google/uuid"

	"github.com/samdwyer/bitacora/internal/entity"
	"github.com/samdwyer/bitacora/internal/gamedata"
)

// Phase is the lifecycle state of a session.
type Phase int

const (
	// PhaseNotStarted - created from a profile, not yet accepting intents
	PhaseNotStarted Phase = iota
	// PhaseInProgress - accepting intents
	PhaseInProgress
	// PhaseEnded - terminal; the session is discarded
	PhaseEnded
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Options holds the numeric defaults of a session.
type Options struct {
	PlayerPAMax     int // PA pool of the player
	EnemyVitMax     int // VIT pool of an enemy added without one
	EnemyPAMax      int // PA pool of an enemy added without one
	EnemyActionCost int // Cost of an enemy action when none is declared
	IndirectPercent int // Indirect percent when none is declared
	IndirectActions int // Indirect duration when none is declared
}

// DefaultOptions returns the standard ruleset defaults.
func DefaultOptions() Options {
	return Options{
		PlayerPAMax:     8,
		EnemyVitMax:     100,
		EnemyPAMax:      8,
		EnemyActionCost: 1,
		IndirectPercent: 10,
		IndirectActions: 3,
	}
}

// withDefaults fills non-positive fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PlayerPAMax <= 0 {
		o.PlayerPAMax = d.PlayerPAMax
	}
	if o.EnemyVitMax <= 0 {
		o.EnemyVitMax = d.EnemyVitMax
	}
	if o.EnemyPAMax <= 0 {
		o.EnemyPAMax = d.EnemyPAMax
	}
	if o.EnemyActionCost <= 0 {
		o.EnemyActionCost = d.EnemyActionCost
	}
	if o.IndirectPercent <= 0 {
		o.IndirectPercent = d.IndirectPercent
	}
	if o.IndirectActions <= 0 {
		o.IndirectActions = d.IndirectActions
	}
	return o
}

// Session is one combat: the acting profile, the combatants, the indirect
// ledger and the action log. A session is owned by a single caller; its
// methods are not safe for concurrent use.
type Session struct {
	id          string
	profile     *gamedata.Profile
	catalog     *gamedata.Catalog
	opts        Options
	phase       Phase
	round       int
	turn        int
	player      *entity.Combatant
	enemies     *entity.Roster
	log         *Log
	ledger      *Ledger
	actionCount int
}

// NewSession creates a session for profile. The profile is referenced, never
// modified. The session starts in PhaseNotStarted.
func NewSession(profile *gamedata.Profile, opts Options) *Session {
	if profile == nil {
		profile = &gamedata.Profile{Stats: gamedata.DefaultStats()}
	}
	opts = opts.withDefaults()

	return &Session{
		id:      uuid.NewString(),
		profile: profile,
		catalog: profile.Catalog(),
		opts:    opts,
		phase:   PhaseNotStarted,
		round:   1,
		turn:    1,
		player:  entity.NewPlayer(profile.Name, profile.Stats.VitMax(), opts.PlayerPAMax),
		enemies: entity.NewRoster(),
		log:     NewLog(),
		ledger:  NewLedger(),
	}
}

// Start creates a session for profile and puts it in progress.
func Start(profile *gamedata.Profile, opts Options) *Session {
	s := NewSession(profile, opts)
	s.phase = PhaseInProgress
	return s
}

// Begin moves a not-started session into progress.
func (s *Session) Begin() error {
	if s.phase != PhaseNotStarted {
		return errorf(ErrSessionNotActive, "combat already %s", s.phase)
	}
	s.phase = PhaseInProgress
	return nil
}

// End moves the session to its terminal phase.
func (s *Session) End() {
	s.phase = PhaseEnded
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Profile returns the acting profile.
func (s *Session) Profile() *gamedata.Profile { return s.profile }

// Catalog returns the acting profile's skill catalog.
func (s *Session) Catalog() *gamedata.Catalog { return s.catalog }

// Options returns the session's numeric defaults.
func (s *Session) Options() Options { return s.opts }

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Round returns the current round (≥1).
func (s *Session) Round() int { return s.round }

// Turn returns the current turn within the round (≥1).
func (s *Session) Turn() int { return s.turn }

// ActionCount returns the number of processed actions.
func (s *Session) ActionCount() int { return s.actionCount }

// Player returns the player combatant.
func (s *Session) Player() *entity.Combatant { return s.player }

// Enemies returns the enemies in display order.
func (s *Session) Enemies() []*entity.Combatant { return s.enemies.All() }

// Enemy returns the enemy with the given ID, or nil.
func (s *Session) Enemy(id string) *entity.Combatant { return s.enemies.Get(id) }

// EnemyAt returns the enemy at a 0-based display index, or nil.
func (s *Session) EnemyAt(index int) *entity.Combatant { return s.enemies.At(index) }

// Indirects returns copies of the active indirect effects.
func (s *Session) Indirects() []IndirectEffect { return s.ledger.Effects() }

// Entries returns copies of the log entries in order.
func (s *Session) Entries() []Entry { return s.log.Entries() }

// Entry returns a copy of the entry with the given ID.
func (s *Session) Entry(id int) (Entry, bool) {
	e := s.log.Get(id)
	if e == nil {
		return Entry{}, false
	}
	return cloneEntry(e), true
}

// combatant returns the player or the enemy with the given ID, or nil.
func (s *Session) combatant(id string) *entity.Combatant {
	if id == entity.PlayerID {
		return s.player
	}
	return s.enemies.Get(id)
}

func (s *Session) active() error {
	if s.phase != PhaseInProgress {
		return ErrSessionNotActive
	}
	return nil
}

// NextTurn advances to the next turn of the current round.
func (s *Session) NextTurn() error {
	if err := s.active(); err != nil {
		return err
	}
	s.turn++
	return nil
}

// EndRound refills PA for the player and every enemy with a PA pool, then
// starts the next round at turn 1. Vitality and indirect effects carry over.
func (s *Session) EndRound() error {
	if err := s.active(); err != nil {
		return err
	}
	s.player.RefillPA()
	s.enemies.RefillPA()
	s.round++
	s.turn = 1
	return nil
}

// AddEnemy adds an enemy to the roster. Non-positive pool sizes use the
// session defaults.
func (s *Session) AddEnemy(name string, vitMax, paMax int) (*entity.Combatant, error) {
	if err := s.active(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if vitMax <= 0 {
		vitMax = s.opts.EnemyVitMax
	}
	if paMax <= 0 {
		paMax = s.opts.EnemyPAMax
	}
	return s.enemies.Add(name, vitMax, paMax), nil
}

// RemoveEnemy removes an enemy and every indirect effect targeting it.
func (s *Session) RemoveEnemy(id string) error {
	if err := s.active(); err != nil {
		return err
	}
	if !s.enemies.Remove(id) {
		return errorf(ErrUnknownEnemy, "unknown enemy %q", id)
	}
	s.ledger.PurgeTarget(id)
	return nil
}
