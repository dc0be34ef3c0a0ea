package entity

// Roster is the ordered set of enemies in a combat. Insertion order is display
// order. Identifiers come from a counter that never rewinds, so an ID is never
// reused after removal.
type Roster struct {
	enemies []*Combatant
	counter int
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{}
}

// Add appends a new enemy with full pools and returns it.
func (r *Roster) Add(name string, vitMax, paMax int) *Combatant {
	r.counter++
	enemy := newEnemy(r.counter, name, vitMax, paMax)
	r.enemies = append(r.enemies, enemy)
	return enemy
}

// Remove deletes the enemy with the given ID. It returns false if no such
// enemy exists.
func (r *Roster) Remove(id string) bool {
	for i, e := range r.enemies {
		if e.ID == id {
			r.enemies = append(r.enemies[:i], r.enemies[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the enemy with the given ID, or nil.
func (r *Roster) Get(id string) *Combatant {
	for _, e := range r.enemies {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// At returns the enemy at the 0-based display index, or nil.
func (r *Roster) At(index int) *Combatant {
	if index < 0 || index >= len(r.enemies) {
		return nil
	}
	return r.enemies[index]
}

// All returns the enemies in display order.
func (r *Roster) All() []*Combatant {
	return r.enemies
}

// Len returns the number of enemies.
func (r *Roster) Len() int {
	return len(r.enemies)
}

// RefillPA restores PA for every enemy that has a PA pool.
func (r *Roster) RefillPA() {
	for _, e := range r.enemies {
		e.RefillPA()
	}
}
