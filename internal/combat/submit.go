package combat

import (
	"errors"
	"fmt"

	"github.com/samdwyer/bitacora/internal/entity"
)

// IndirectSpec requests an indirect effect on an action. Zero fields take the
// session defaults.
type IndirectSpec struct {
	Percent int
	Actions int
}

// SkillIntent uses a skill from the profile catalog.
type SkillIntent struct {
	SkillID  string
	TargetID string
	Notes    string
	Damage   *int // Overrides the formula estimate when set
	Cost     *int // Declared cost; only used by variable-cost skills
	Indirect *IndirectSpec
}

// FreeIntent is a player action described in free text.
type FreeIntent struct {
	Description string
	TargetID    string
	Damage      int
	Cost        int
	Indirect    *IndirectSpec
}

// EnemyIntent is an action declared for an enemy.
type EnemyIntent struct {
	ActorID  string
	TargetID string
	Damage   int
	Cost     *int // Defaults to Options.EnemyActionCost
	Notes    string
	Indirect *IndirectSpec
}

// Result is what a submitted action produced.
type Result struct {
	Entry  Entry           // The action's own entry
	Ticks  []Entry         // Indirect-tick entries appended before it
	Effect *IndirectEffect // Effect spawned by the action, if any
}

// action is the normalised input to the submission pipeline.
type action struct {
	entry    Entry // Template; ID, round, turn and damage fields are filled in
	actor    *entity.Combatant
	target   *entity.Combatant
	damage   int
	cost     int
	indirect *IndirectSpec
	tick     bool // Whether the action advances the indirect ledger
	source   string
}

// UseSkill submits a skill use by the player.
func (s *Session) UseSkill(intent SkillIntent) (Result, error) {
	if err := s.active(); err != nil {
		return Result{}, err
	}
	skill := s.catalog.GetByID(intent.SkillID)
	if skill == nil {
		return Result{}, errorf(ErrUnknownSkill, "unknown skill %q", intent.SkillID)
	}
	target, err := s.resolveTarget(intent.TargetID)
	if err != nil {
		return Result{}, err
	}

	damage := ResolveDamage(skill.Formula, s.profile.Stats)
	if intent.Damage != nil {
		damage = *intent.Damage
	}
	cost := skill.PACost
	if skill.IsVariableCost() && intent.Cost != nil {
		cost = *intent.Cost
	}

	return s.submit(action{
		entry: Entry{
			Type:      EntrySkill,
			SkillID:   skill.ID,
			SkillName: skill.Name,
			Range:     skill.Range,
			Effect:    skill.Effect,
			Notes:     intent.Notes,
		},
		actor:    s.player,
		target:   target,
		damage:   damage,
		cost:     cost,
		indirect: intent.Indirect,
		tick:     true,
		source:   skill.Name,
	})
}

// FreeAction submits a free-text player action. A free action with no
// damage, no cost and no indirect effect is narrative: it is logged and
// counted but does not advance the indirect ledger.
func (s *Session) FreeAction(intent FreeIntent) (Result, error) {
	if err := s.active(); err != nil {
		return Result{}, err
	}
	target, err := s.resolveTarget(intent.TargetID)
	if err != nil {
		return Result{}, err
	}

	narrative := intent.Damage <= 0 && intent.Cost <= 0 && intent.Indirect == nil
	return s.submit(action{
		entry: Entry{
			Type:  EntryPlayerFree,
			Notes: intent.Description,
		},
		actor:    s.player,
		target:   target,
		damage:   intent.Damage,
		cost:     intent.Cost,
		indirect: intent.Indirect,
		tick:     !narrative,
		source:   s.player.Name,
	})
}

// EnemyAction submits an action declared for an enemy.
func (s *Session) EnemyAction(intent EnemyIntent) (Result, error) {
	if err := s.active(); err != nil {
		return Result{}, err
	}
	actor := s.enemies.Get(intent.ActorID)
	if actor == nil {
		return Result{}, errorf(ErrUnknownEnemy, "unknown enemy %q", intent.ActorID)
	}
	target, err := s.resolveTarget(intent.TargetID)
	if err != nil {
		return Result{}, err
	}
	cost := s.opts.EnemyActionCost
	if intent.Cost != nil {
		cost = *intent.Cost
	}

	return s.submit(action{
		entry: Entry{
			Type:  EntryEnemyAction,
			Notes: intent.Notes,
		},
		actor:    actor,
		target:   target,
		damage:   intent.Damage,
		cost:     cost,
		indirect: intent.Indirect,
		tick:     true,
		source:   actor.Name,
	})
}

// Blank submits an action that does nothing except advance the ledger.
func (s *Session) Blank() (Result, error) {
	if err := s.active(); err != nil {
		return Result{}, err
	}
	ticks := s.tickStage()
	entry := s.log.Append(Entry{
		Type:  EntryBlank,
		Round: s.round,
		Turn:  s.turn,
	})
	s.actionCount++
	return Result{Entry: cloneEntry(entry), Ticks: ticks}, nil
}

// resolveTarget maps a target ID to a combatant. An empty ID means no target.
func (s *Session) resolveTarget(id string) (*entity.Combatant, error) {
	if id == "" {
		return nil, nil
	}
	target := s.combatant(id)
	if target == nil {
		return nil, errorf(ErrUnknownEnemy, "unknown target %q", id)
	}
	return target, nil
}

// submit runs the submission pipeline. Stages run in a fixed order:
// validate, tick, spend, spawn effect, append entry, count. Nothing is
// mutated unless validation passes.
func (s *Session) submit(a action) (Result, error) {
	a.damage = max(a.damage, 0)
	a.cost = max(a.cost, 0)

	if err := s.validateStage(a); err != nil {
		return Result{}, err
	}

	var ticks []Entry
	if a.tick {
		ticks = s.tickStage()
	}
	if err := s.spendStage(a); err != nil {
		return Result{Ticks: ticks}, err
	}
	effect := s.spawnStage(a)
	entry := s.appendStage(a, effect)
	s.actionCount++

	return Result{Entry: entry, Ticks: ticks, Effect: effect}, nil
}

func (s *Session) validateStage(a action) error {
	if a.damage > 0 && a.target == nil {
		return ErrMissingTarget
	}
	if a.cost > a.actor.PA.Current {
		return errorf(ErrInsufficientActionPoints,
			"%s needs %d PA, has %d", a.actor.Name, a.cost, a.actor.PA.Current)
	}
	return nil
}

// tickStage advances the ledger and logs one indirect-tick entry per tick.
func (s *Session) tickStage() []Entry {
	ticks := s.ledger.Advance(s.combatant)
	if len(ticks) == 0 {
		return nil
	}
	out := make([]Entry, 0, len(ticks))
	for _, t := range ticks {
		entry := s.log.Append(Entry{
			Type:           EntryIndirectTick,
			Round:          s.round,
			Turn:           s.turn,
			TargetID:       t.TargetID,
			Target:         t.TargetName,
			Damage:         t.Damage,
			DamageReceived: true,
			SourceName:     t.SourceName,
		})
		out = append(out, cloneEntry(entry))
	}
	return out
}

// spendStage cannot fail after validateStage; the error path keeps the
// resource error chain intact if it ever does.
func (s *Session) spendStage(a action) error {
	if err := a.actor.PA.Spend(a.cost); err != nil {
		return wrap(ErrInsufficientActionPoints, fmt.Sprintf("spend %d PA", a.cost), err)
	}
	return nil
}

func (s *Session) spawnStage(a action) *IndirectEffect {
	if a.indirect == nil || a.damage <= 0 || a.target == nil {
		return nil
	}
	percent := a.indirect.Percent
	if percent <= 0 {
		percent = s.opts.IndirectPercent
	}
	actions := a.indirect.Actions
	if actions <= 0 {
		actions = s.opts.IndirectActions
	}
	effect := IndirectEffect{
		TargetID:    a.target.ID,
		TargetName:  a.target.Name,
		BaseDamage:  a.damage,
		Percent:     percent,
		ActionsLeft: actions,
		SourceName:  a.source,
	}
	s.ledger.Add(effect)
	return &effect
}

func (s *Session) appendStage(a action, effect *IndirectEffect) Entry {
	e := a.entry
	e.Round = s.round
	e.Turn = s.turn
	e.ActorID = a.actor.ID
	e.ActorName = a.actor.Name
	e.Damage = a.damage
	e.PACost = a.cost
	e.DamageReceived = false
	if a.target != nil {
		e.TargetID = a.target.ID
		e.Target = a.target.Name
	}
	if effect != nil {
		e.Indirect = &IndirectSummary{Percent: effect.Percent, Actions: effect.ActionsLeft}
	}
	return cloneEntry(s.log.Append(e))
}

// IsRejection reports whether err is a rejected intent rather than a failure.
func IsRejection(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
