package entity

import (
	"strconv"
)

// PlayerID identifies the player combatant in targets and log entries.
const PlayerID = "player"

// enemyIDPrefix is prepended to the roster counter to form enemy IDs.
const enemyIDPrefix = "enemy_"

// Combatant is the player or an enemy: a name plus VIT and PA pools.
type Combatant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Vit  Pool   `json:"vit"`
	PA   Pool   `json:"pa"`
}

// NewPlayer creates the player combatant with full pools.
func NewPlayer(name string, vitMax, paMax int) *Combatant {
	return &Combatant{
		ID:   PlayerID,
		Name: name,
		Vit:  NewPool(vitMax),
		PA:   NewPool(paMax),
	}
}

// newEnemy creates an enemy with the given roster counter value.
func newEnemy(counter int, name string, vitMax, paMax int) *Combatant {
	return &Combatant{
		ID:   EnemyID(counter),
		Name: name,
		Vit:  NewPool(vitMax),
		PA:   NewPool(paMax),
	}
}

// EnemyID formats the identifier for the nth enemy added to a roster.
func EnemyID(counter int) string {
	return enemyIDPrefix + strconv.Itoa(counter)
}

// IsPlayer returns true if this is the player combatant.
func (c *Combatant) IsPlayer() bool {
	return c.ID == PlayerID
}

// IsDown returns true if vitality is exhausted. It has no mechanical effect.
func (c *Combatant) IsDown() bool {
	return c.Vit.Current == 0
}

// RefillPA restores the PA pool to its maximum when the combatant has one.
func (c *Combatant) RefillPA() {
	if c.PA.Max > 0 {
		c.PA.Refill()
	}
}

// Clone returns a copy of the combatant.
func (c *Combatant) Clone() Combatant {
	return *c
}
