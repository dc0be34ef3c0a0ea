package combat

import (
	"errors"
	"testing"

	"github.com/samdwyer/bitacora/internal/entity"
)

func TestLogCounterNeverRewinds(t *testing.T) {
	l := NewLog()
	a := l.Append(Entry{Type: EntryBlank})
	b := l.Append(Entry{Type: EntryBlank})

	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("ids = %d, %d", a.ID, b.ID)
	}
	if !l.Remove(b.ID) {
		t.Fatal("Remove() = false")
	}
	if l.Remove(b.ID) {
		t.Error("second Remove() should report false")
	}
	c := l.Append(Entry{Type: EntryBlank})
	if c.ID != 3 {
		t.Errorf("id after removal = %d, want 3", c.ID)
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}

func TestLogEntriesAreCopies(t *testing.T) {
	l := NewLog()
	l.Append(Entry{Type: EntrySkill, Indirect: &IndirectSummary{Percent: 10, Actions: 3}})

	entries := l.Entries()
	entries[0].Indirect.Actions = 0
	entries[0].Notes = "changed"

	stored := l.Get(1)
	if stored.Indirect.Actions != 3 || stored.Notes != "" {
		t.Error("Entries() leaked the stored entry")
	}
}

func TestGroupEntries(t *testing.T) {
	entries := []Entry{
		{ID: 1, Round: 2, Turn: 1},
		{ID: 2, Round: 1, Turn: 2},
		{ID: 3, Round: 1, Turn: 1},
		{ID: 4, Round: 1, Turn: 2},
	}

	groups := GroupEntries(entries)
	if len(groups) != 2 || groups[0].Round != 1 || groups[1].Round != 2 {
		t.Fatalf("rounds = %+v", groups)
	}
	turns := groups[0].Turns
	if len(turns) != 2 || turns[0].Turn != 1 || turns[1].Turn != 2 {
		t.Fatalf("turns = %+v", turns)
	}
	if ids := []int{turns[1].Entries[0].ID, turns[1].Entries[1].ID}; ids[0] != 2 || ids[1] != 4 {
		t.Errorf("turn 2 order = %v, want [2 4]", ids)
	}
	if len(GroupEntries(nil)) != 0 {
		t.Error("GroupEntries(nil) should be empty")
	}
}

func TestToggleRoundTrip(t *testing.T) {
	s, e1 := newTestSession(t)
	res := mustFree(t, s, FreeIntent{TargetID: e1.ID, Damage: 33})

	mustToggle(t, s, res.Entry.ID)
	if e1.Vit.Current != 67 {
		t.Errorf("after toggle on VIT = %d, want 67", e1.Vit.Current)
	}
	entry, err := s.ToggleDamageReceived(res.Entry.ID)
	if err != nil {
		t.Fatalf("ToggleDamageReceived() error: %v", err)
	}
	if entry.DamageReceived || e1.Vit.Current != 100 {
		t.Errorf("round trip: received %v, VIT %d", entry.DamageReceived, e1.Vit.Current)
	}
}

func TestReadOnlyTicks(t *testing.T) {
	s, e1 := newTestSession(t)
	mustFree(t, s, FreeIntent{TargetID: e1.ID, Damage: 50, Indirect: &IndirectSpec{Percent: 20, Actions: 2}})
	res, err := s.Blank()
	if err != nil {
		t.Fatalf("Blank() error: %v", err)
	}
	tick := res.Ticks[0]

	if _, err := s.ToggleDamageReceived(tick.ID); !errors.Is(err, ErrReadOnlyEntry) {
		t.Errorf("toggle tick = %v, want ErrReadOnlyEntry", err)
	}
	if _, err := s.EditEntry(tick.ID, "x", 1); !errors.Is(err, ErrReadOnlyEntry) {
		t.Errorf("edit tick = %v, want ErrReadOnlyEntry", err)
	}

	// Deleting a tick removes it without healing.
	vit := e1.Vit.Current
	if _, err := s.DeleteEntry(tick.ID); err != nil {
		t.Fatalf("DeleteEntry(tick) error: %v", err)
	}
	if e1.Vit.Current != vit {
		t.Error("tick deletion healed the target")
	}
}

func TestEditEntryDoesNotReapply(t *testing.T) {
	s, e1 := newTestSession(t)
	res := mustFree(t, s, FreeIntent{TargetID: e1.ID, Damage: 10})
	mustToggle(t, s, res.Entry.ID)

	entry, err := s.EditEntry(res.Entry.ID, "corregido", 25)
	if err != nil {
		t.Fatalf("EditEntry() error: %v", err)
	}
	if entry.Damage != 25 || entry.Notes != "corregido" {
		t.Errorf("entry = %+v", entry)
	}
	if e1.Vit.Current != 90 {
		t.Errorf("VIT = %d, edit should not re-apply", e1.Vit.Current)
	}

	// The reversal then uses the edited amount.
	mustToggle(t, s, res.Entry.ID)
	if e1.Vit.Current != 100 {
		t.Errorf("VIT = %d, want clamp at 100", e1.Vit.Current)
	}

	if _, err := s.EditEntry(999, "", 0); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("EditEntry(999) = %v", err)
	}
}

func TestDeleteTurnAndRound(t *testing.T) {
	s, e1 := newTestSession(t)
	mustFree(t, s, FreeIntent{TargetID: e1.ID, Damage: 10, Cost: 2})
	mustEnemy(t, s, EnemyIntent{ActorID: e1.ID, TargetID: entity.PlayerID, Damage: 4, Cost: intPtr(3)})
	mustNextTurn(t, s)
	res := mustFree(t, s, FreeIntent{TargetID: e1.ID, Damage: 10, Cost: 1})
	mustToggle(t, s, res.Entry.ID)

	removed, err := s.DeleteTurn(1, 2)
	if err != nil {
		t.Fatalf("DeleteTurn() error: %v", err)
	}
	if len(removed) != 1 || e1.Vit.Current != 100 || s.Player().PA.Current != 6 {
		t.Errorf("after DeleteTurn: removed %d, VIT %d, PA %d", len(removed), e1.Vit.Current, s.Player().PA.Current)
	}

	removed, err = s.DeleteRound(1)
	if err != nil {
		t.Fatalf("DeleteRound() error: %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("removed %d, want 2", len(removed))
	}
	if s.Player().PA.Current != 8 || e1.PA.Current != 8 {
		t.Errorf("PA not restored: player %d, enemy %d", s.Player().PA.Current, e1.PA.Current)
	}
	if len(s.Entries()) != 0 {
		t.Errorf("log has %d entries", len(s.Entries()))
	}

	if _, err := s.DeleteRound(1); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("DeleteRound(empty) = %v", err)
	}
	if _, err := s.DeleteEntry(1); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("DeleteEntry(removed) = %v", err)
	}
}

func TestDeleteEnemyActionAfterEnemyRemoved(t *testing.T) {
	s, e1 := newTestSession(t)
	res := mustEnemy(t, s, EnemyIntent{ActorID: e1.ID, TargetID: entity.PlayerID, Damage: 8})
	mustToggle(t, s, res.Entry.ID)
	if err := s.RemoveEnemy(e1.ID); err != nil {
		t.Fatalf("RemoveEnemy() error: %v", err)
	}

	if _, err := s.DeleteEntry(res.Entry.ID); err != nil {
		t.Fatalf("DeleteEntry() error: %v", err)
	}
	if s.Player().Vit.Current != 100 {
		t.Errorf("player VIT = %d, want 100", s.Player().Vit.Current)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s, e1 := newTestSession(t)
	mustFree(t, s, FreeIntent{TargetID: e1.ID, Damage: 10, Indirect: &IndirectSpec{}})

	snap := s.Snapshot()
	snap.Enemies[0].Vit.Current = 1
	snap.Player.PA.Current = 0
	snap.Log[0].Indirect.Percent = 99

	if e1.Vit.Current != 100 || s.Player().PA.Current != 8 {
		t.Error("snapshot shares combatant state")
	}
	if e, _ := s.Entry(snap.Log[0].ID); e.Indirect.Percent != 10 {
		t.Error("snapshot shares log entries")
	}
	if snap.ProfileName != "Tester" || snap.SessionID != s.ID() || snap.Phase != PhaseInProgress {
		t.Errorf("snapshot header = %q %q %v", snap.ProfileName, snap.SessionID, snap.Phase)
	}
	if got, ok := snap.Enemy(e1.ID); !ok || got.Name != "E1" {
		t.Errorf("Enemy() = %+v, %v", got, ok)
	}
	if len(snap.Groups()) != 1 {
		t.Errorf("Groups() = %d rounds", len(snap.Groups()))
	}
}
