// Package entity provides combatants and their resource pools.
package entity

import "errors"

// ErrInsufficientResource is returned when a spend exceeds the current value.
var ErrInsufficientResource = errors.New("insufficient resource")

// Pool is a bounded resource such as vitality (VIT) or action points (PA).
// Every mutation clamps Current to [0, Max].
type Pool struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// NewPool creates a full pool with the given maximum.
func NewPool(max int) Pool {
	if max < 0 {
		max = 0
	}
	return Pool{Current: max, Max: max}
}

// Spend removes amount from the pool, or fails without change when the pool
// holds less than amount.
func (p *Pool) Spend(amount int) error {
	if amount <= 0 {
		return nil
	}
	if amount > p.Current {
		return ErrInsufficientResource
	}
	p.Current -= amount
	return nil
}

// Restore returns amount to the pool and returns the actual amount restored.
func (p *Pool) Restore(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, p.Max-p.Current)
	if actual < 0 {
		actual = 0
	}
	p.Current += actual
	return actual
}

// Damage reduces the pool, not below zero, and returns the actual amount removed.
func (p *Pool) Damage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, p.Current)
	p.Current -= actual
	return actual
}

// Heal raises the pool up to Max and returns the actual amount healed.
func (p *Pool) Heal(amount int) int {
	return p.Restore(amount)
}

// Refill sets the pool back to its maximum.
func (p *Pool) Refill() {
	p.Current = p.Max
}

// Ratio returns Current/Max in [0, 1], or 0 for an empty pool.
func (p Pool) Ratio() float64 {
	if p.Max <= 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Max)
}
