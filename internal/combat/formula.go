// Package combat implements the combat session engine: resource mutation,
// the indirect effect ledger, the editable action log, and the submission
// and reversal rules tying them together.
package combat

import "github.com/samdwyer/bitacora/internal/gamedata"

// ResolveDamage turns a damage formula into a number using the actor's stats:
// stats[formula.Stat] * formula.Multiplier, truncated toward zero. A missing
// stat counts as gamedata.DefaultStat. A nil formula resolves to 0.
func ResolveDamage(formula *gamedata.DamageFormula, stats gamedata.Stats) int {
	if formula == nil {
		return 0
	}

	value, ok := stats.Get(formula.Stat)
	if !ok {
		value = gamedata.DefaultStat
	}

	return int(float64(value) * formula.Multiplier)
}
