// Package game provides the main loop, the operator command language and the
// controller driving a combat session.
package game

// State represents the current screen state.
type State int

const (
	// StateSelect is profile selection, shown at startup and after a combat.
	StateSelect State = iota
	// StateCombat is an active combat session taking commands.
	StateCombat
	// StateEnded shows the summary of a finished combat.
	StateEnded
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateSelect:
		return "select"
	case StateCombat:
		return "combat"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}
