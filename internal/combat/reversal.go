package combat

// ToggleDamageReceived flips an entry's received flag. Turning it on applies
// the entry's damage to its target; turning it off heals the same amount.
// If the target is gone only the flag changes.
func (s *Session) ToggleDamageReceived(id int) (Entry, error) {
	entry, err := s.editable(id)
	if err != nil {
		return Entry{}, err
	}

	entry.DamageReceived = !entry.DamageReceived
	if target := s.combatant(entry.TargetID); target != nil && entry.TargetID != "" {
		if entry.DamageReceived {
			target.Vit.Damage(entry.Damage)
		} else {
			target.Vit.Heal(entry.Damage)
		}
	}
	return cloneEntry(entry), nil
}

// EditEntry replaces an entry's notes and damage. Pools are not touched,
// even when the damage was already received.
func (s *Session) EditEntry(id int, notes string, damage int) (Entry, error) {
	entry, err := s.editable(id)
	if err != nil {
		return Entry{}, err
	}
	entry.Notes = notes
	entry.Damage = max(damage, 0)
	return cloneEntry(entry), nil
}

// DeleteEntry reverses an entry and removes it from the log.
func (s *Session) DeleteEntry(id int) (Entry, error) {
	if err := s.active(); err != nil {
		return Entry{}, err
	}
	entry := s.log.Get(id)
	if entry == nil {
		return Entry{}, errorf(ErrUnknownEntry, "unknown entry #%d", id)
	}
	s.reverse(entry)
	s.log.Remove(id)
	return cloneEntry(entry), nil
}

// DeleteTurn reverses and removes every entry logged in the given turn.
func (s *Session) DeleteTurn(round, turn int) ([]Entry, error) {
	return s.deleteWhere(func(e *Entry) bool {
		return e.Round == round && e.Turn == turn
	}, "no entries in round %d turn %d", round, turn)
}

// DeleteRound reverses and removes every entry logged in the given round.
func (s *Session) DeleteRound(round int) ([]Entry, error) {
	return s.deleteWhere(func(e *Entry) bool {
		return e.Round == round
	}, "no entries in round %d", round)
}

func (s *Session) deleteWhere(match func(*Entry) bool, format string, args ...any) ([]Entry, error) {
	if err := s.active(); err != nil {
		return nil, err
	}
	selected := s.log.Select(match)
	if len(selected) == 0 {
		return nil, errorf(ErrUnknownEntry, format, args...)
	}

	removed := make([]Entry, 0, len(selected))
	for _, e := range selected {
		s.reverse(e)
		s.log.Remove(e.ID)
		removed = append(removed, cloneEntry(e))
	}
	return removed, nil
}

// reverse undoes what an entry did to the pools. PA goes back to whoever paid
// it; vitality is healed only if the damage was received. Indirect ticks are
// never reversed, and neither is an effect the entry spawned.
func (s *Session) reverse(e *Entry) {
	if e.ReadOnly() {
		return
	}

	if e.PACost > 0 {
		switch {
		case e.SpendsPlayerPA():
			s.player.PA.Restore(e.PACost)
		case e.Type == EntryEnemyAction:
			if actor := s.enemies.Get(e.ActorID); actor != nil {
				actor.PA.Restore(e.PACost)
			}
		}
	}

	if e.DamageReceived && e.TargetID != "" {
		if target := s.combatant(e.TargetID); target != nil {
			target.Vit.Heal(e.Damage)
		}
	}
}

// editable returns the stored entry if it exists and may be changed.
func (s *Session) editable(id int) (*Entry, error) {
	if err := s.active(); err != nil {
		return nil, err
	}
	entry := s.log.Get(id)
	if entry == nil {
		return nil, errorf(ErrUnknownEntry, "unknown entry #%d", id)
	}
	if entry.ReadOnly() {
		return nil, errorf(ErrReadOnlyEntry, "entry #%d is an indirect tick", id)
	}
	return entry, nil
}
