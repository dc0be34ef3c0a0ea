package combat

import "github.com/samdwyer/bitacora/internal/entity"

// IndirectEffect is an active damage-over-time effect. It deals
// floor(BaseDamage * Percent / 100) to its target on each processed action
// until ActionsLeft reaches zero.
type IndirectEffect struct {
	TargetID    string `json:"targetId"`
	TargetName  string `json:"targetName"`
	BaseDamage  int    `json:"baseDamage"`
	Percent     int    `json:"percent"`
	ActionsLeft int    `json:"actionsLeft"`
	SourceName  string `json:"sourceName"`
}

// TickDamage returns the damage dealt by one tick.
func (e IndirectEffect) TickDamage() int {
	if e.BaseDamage <= 0 || e.Percent <= 0 {
		return 0
	}
	return e.BaseDamage * e.Percent / 100
}

// Tick records what one effect did during a ledger advance.
type Tick struct {
	TargetID    string
	TargetName  string
	SourceName  string
	Damage      int // Tick damage as computed, whether or not the target still exists
	ActionsLeft int // Remaining actions after this tick
	Expired     bool
}

// Ledger is the set of active indirect effects, kept in insertion order.
// Every effect in the ledger has ActionsLeft > 0.
type Ledger struct {
	effects []*IndirectEffect
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Add inserts an effect. Effects with no actions left are ignored.
func (l *Ledger) Add(effect IndirectEffect) {
	if effect.ActionsLeft <= 0 {
		return
	}
	l.effects = append(l.effects, &effect)
}

// Advance ticks every effect once, newest first. Tick damage is applied
// immediately to the combatant returned by lookup; there is no received gate.
// Effects reaching zero actions are removed. The returned ticks are in the
// order they were produced.
func (l *Ledger) Advance(lookup func(id string) *entity.Combatant) []Tick {
	var ticks []Tick

	for i := len(l.effects) - 1; i >= 0; i-- {
		effect := l.effects[i]
		damage := effect.TickDamage()

		if target := lookup(effect.TargetID); target != nil {
			target.Vit.Damage(damage)
		}

		effect.ActionsLeft--
		tick := Tick{
			TargetID:    effect.TargetID,
			TargetName:  effect.TargetName,
			SourceName:  effect.SourceName,
			Damage:      damage,
			ActionsLeft: effect.ActionsLeft,
		}
		if effect.ActionsLeft <= 0 {
			tick.Expired = true
			l.effects = append(l.effects[:i], l.effects[i+1:]...)
		}
		ticks = append(ticks, tick)
	}

	return ticks
}

// PurgeTarget removes every effect bound to targetID and returns how many
// were removed.
func (l *Ledger) PurgeTarget(targetID string) int {
	kept := l.effects[:0]
	removed := 0
	for _, e := range l.effects {
		if e.TargetID == targetID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(l.effects); i++ {
		l.effects[i] = nil
	}
	l.effects = kept
	return removed
}

// Effects returns copies of the active effects in insertion order.
func (l *Ledger) Effects() []IndirectEffect {
	out := make([]IndirectEffect, len(l.effects))
	for i, e := range l.effects {
		out[i] = *e
	}
	return out
}

// Len returns the number of active effects.
func (l *Ledger) Len() int {
	return len(l.effects)
}
