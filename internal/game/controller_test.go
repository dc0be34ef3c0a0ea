package game

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/samdwyer/bitacora/internal/combat"
	"github.com/samdwyer/bitacora/internal/gamedata"
	"github.com/samdwyer/bitacora/internal/profile"
	"github.com/samdwyer/bitacora/internal/profile/mocks"
)

func testProfile() gamedata.Profile {
	return gamedata.Profile{
		ID:    "tester",
		Name:  "Tester",
		Stats: gamedata.Stats{gamedata.StatVitMax: 100, gamedata.StatFUE: 5},
		Skills: []gamedata.Skill{
			{
				ID:      "golpe_0001",
				Name:    "Golpe",
				PACost:  3,
				Effect:  "Golpea con FUE x4.",
				Formula: &gamedata.DamageFormula{Stat: gamedata.StatFUE, Multiplier: 4},
			},
			{ID: "guardia_0002", Name: "Guardia", Type: "Pasiva", Passive: true},
			{ID: "orden_0003", Name: "Orden", PACost: 0, Effect: "Coste variable."},
		},
	}
}

// newCombatController returns a controller already in combat with one
// enemy, backed by a mock store holding testProfile.
func newCombatController(t *testing.T) *Controller {
	t.Helper()
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	p := testProfile()
	store.EXPECT().List(gomock.Any()).Return([]gamedata.Profile{p}, nil).Times(2)
	store.EXPECT().Get(gomock.Any(), p.ID).Return(p, nil)

	c := NewController(store, combat.DefaultOptions(), nil)
	if err := c.LoadProfiles(ctx); err != nil {
		t.Fatalf("LoadProfiles() error: %v", err)
	}
	if err := c.SelectProfile(ctx, 0); err != nil {
		t.Fatalf("SelectProfile() error: %v", err)
	}
	if c.State() != StateCombat {
		t.Fatalf("State() = %s, want combat", c.State())
	}
	mustExecute(t, c, "add Orco 100 8")
	return c
}

func mustExecute(t *testing.T, c *Controller, line string) {
	t.Helper()
	if err := c.Execute(context.Background(), line); err != nil {
		t.Fatalf("Execute(%q) error: %v", line, err)
	}
}

func TestControllerScenario(t *testing.T) {
	c := newCombatController(t)
	s := c.Session()
	orc := s.EnemyAt(0)

	mustExecute(t, c, "skill 1 @1 ind=25%x3")
	if s.Player().PA.Current != 5 {
		t.Errorf("player PA = %d, want 5", s.Player().PA.Current)
	}
	if orc.Vit.Current != 100 {
		t.Errorf("orc VIT = %d, want 100 before confirmation", orc.Vit.Current)
	}

	mustExecute(t, c, "recv 1")
	if orc.Vit.Current != 80 {
		t.Errorf("orc VIT = %d, want 80", orc.Vit.Current)
	}

	mustExecute(t, c, "blank")
	if orc.Vit.Current != 75 {
		t.Errorf("orc VIT = %d, want 75 after a tick", orc.Vit.Current)
	}

	mustExecute(t, c, "del 1")
	if s.Player().PA.Current != 8 || orc.Vit.Current != 95 {
		t.Errorf("after delete PA = %d VIT = %d, want 8 and 95", s.Player().PA.Current, orc.Vit.Current)
	}

	mustExecute(t, c, "enemy 1 dmg=7 claws")
	if orc.PA.Current != 7 {
		t.Errorf("orc PA = %d, want 7", orc.PA.Current)
	}
	if orc.Vit.Current != 90 {
		t.Errorf("orc VIT = %d, want 90 after second tick", orc.Vit.Current)
	}
	last := s.Entries()[len(s.Entries())-1]
	if last.Type != combat.EntryEnemyAction || last.TargetID != "player" || last.Notes != "claws" {
		t.Errorf("enemy entry = %+v", last)
	}

	mustExecute(t, c, "end")
	if c.State() != StateEnded {
		t.Errorf("State() = %s, want ended", c.State())
	}
	if err := c.Execute(context.Background(), "blank"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Execute() after end error = %v, want ErrNoSession", err)
	}
}

func TestControllerSkillReferences(t *testing.T) {
	c := newCombatController(t)

	// Position 2 skips the passive skill.
	mustExecute(t, c, "skill 2 pa=2")
	last := c.Session().Entries()[0]
	if last.SkillID != "orden_0003" || last.PACost != 2 {
		t.Errorf("entry = %+v, want orden_0003 for 2 PA", last)
	}

	mustExecute(t, c, "skill golpe_0001 @enemy_1")
	if got := c.Session().Player().PA.Current; got != 3 {
		t.Errorf("player PA = %d, want 3", got)
	}
}

func TestControllerRejections(t *testing.T) {
	c := newCombatController(t)
	ctx := context.Background()
	before := c.Session().Snapshot()

	tests := []struct {
		line string
		want error
	}{
		{"skill 9 @1", combat.ErrUnknownSkill},
		{"skill 1 @7", combat.ErrUnknownEnemy},
		{"skill 1", combat.ErrMissingTarget},
		{"free @1 dmg=3 pa=20 charge", combat.ErrInsufficientActionPoints},
		{"recv 42", combat.ErrUnknownEntry},
		{"dance", ErrInvalidCommand},
	}
	for _, tt := range tests {
		err := c.Execute(ctx, tt.line)
		if !errors.Is(err, tt.want) {
			t.Errorf("Execute(%q) error = %v, want %v", tt.line, err, tt.want)
		}
		if c.Status() != err.Error() {
			t.Errorf("Status() = %q, want the error", c.Status())
		}
	}

	after := c.Session().Snapshot()
	if after.ActionCount != before.ActionCount || len(after.Log) != len(before.Log) ||
		after.Player.PA.Current != before.Player.PA.Current {
		t.Error("rejected commands changed the session")
	}
}

func TestControllerSkillFilter(t *testing.T) {
	c := newCombatController(t)

	mustExecute(t, c, "skills gol")
	if c.SkillFilter() != "gol" {
		t.Errorf("SkillFilter() = %q, want gol", c.SkillFilter())
	}
	if c.Status() != `1 skills match "gol"` {
		t.Errorf("Status() = %q", c.Status())
	}
}

func TestControllerWithoutSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewController(mocks.NewMockStore(ctrl), combat.DefaultOptions(), nil)

	if err := c.Execute(context.Background(), "blank"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Execute() error = %v, want ErrNoSession", err)
	}
	if err := c.SelectProfile(context.Background(), 0); err == nil {
		t.Error("SelectProfile() with no profiles should fail")
	}

	if err := c.Execute(context.Background(), "quit"); err != nil {
		t.Fatalf("Execute(quit) error: %v", err)
	}
	if !c.Done() {
		t.Error("Done() = false after quit")
	}
}

func TestControllerSeedsEmptyStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	defaults, err := gamedata.LoadDefaultProfiles()
	if err != nil {
		t.Fatalf("LoadDefaultProfiles() error: %v", err)
	}

	gomock.InOrder(
		store.EXPECT().List(gomock.Any()).Return(nil, nil),
		store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(len(defaults)),
		store.EXPECT().List(gomock.Any()).Return(defaults, nil),
	)

	c := NewController(store, combat.DefaultOptions(), nil)
	if err := c.LoadProfiles(context.Background()); err != nil {
		t.Fatalf("LoadProfiles() error: %v", err)
	}
	if len(c.Profiles()) != len(defaults) {
		t.Errorf("Profiles() = %d, want %d", len(c.Profiles()), len(defaults))
	}
}

func TestControllerGetFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	p := testProfile()

	store.EXPECT().List(gomock.Any()).Return([]gamedata.Profile{p}, nil).Times(2)
	store.EXPECT().Get(gomock.Any(), p.ID).Return(gamedata.Profile{}, profile.ErrNotFound)

	c := NewController(store, combat.DefaultOptions(), nil)
	if err := c.LoadProfiles(context.Background()); err != nil {
		t.Fatalf("LoadProfiles() error: %v", err)
	}
	err := c.SelectProfile(context.Background(), 0)
	if !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("SelectProfile() error = %v, want ErrNotFound", err)
	}
	if c.Status() != err.Error() {
		t.Errorf("Status() = %q, want the select error", c.Status())
	}
	if c.State() != StateSelect {
		t.Errorf("State() = %s, want select", c.State())
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateSelect, "select"},
		{StateCombat, "combat"},
		{StateEnded, "ended"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestControllerDeleteProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	p := testProfile()
	other := gamedata.Profile{ID: "zora", Name: "Zora"}

	gomock.InOrder(
		store.EXPECT().List(gomock.Any()).Return([]gamedata.Profile{p, other}, nil).Times(2),
		store.EXPECT().Delete(gomock.Any(), p.ID).Return(nil),
		store.EXPECT().List(gomock.Any()).Return([]gamedata.Profile{other}, nil),
	)

	c := NewController(store, combat.DefaultOptions(), nil)
	if err := c.LoadProfiles(context.Background()); err != nil {
		t.Fatalf("LoadProfiles() error: %v", err)
	}
	if err := c.DeleteProfile(context.Background(), 0); err != nil {
		t.Fatalf("DeleteProfile() error: %v", err)
	}
	if len(c.Profiles()) != 1 || c.Profiles()[0].ID != "zora" {
		t.Errorf("Profiles() = %+v, want only zora", c.Profiles())
	}
	if c.Status() != "Tester deleted" {
		t.Errorf("Status() = %q", c.Status())
	}
	if err := c.DeleteProfile(context.Background(), 5); err == nil {
		t.Error("DeleteProfile() out of range should fail")
	}
}

func TestControllerDeleteProfileFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	p := testProfile()

	store.EXPECT().List(gomock.Any()).Return([]gamedata.Profile{p}, nil).Times(2)
	store.EXPECT().Delete(gomock.Any(), p.ID).Return(profile.ErrNotFound)

	c := NewController(store, combat.DefaultOptions(), nil)
	if err := c.LoadProfiles(context.Background()); err != nil {
		t.Fatalf("LoadProfiles() error: %v", err)
	}
	err := c.DeleteProfile(context.Background(), 0)
	if !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("DeleteProfile() error = %v, want ErrNotFound", err)
	}
	if c.Status() != err.Error() || len(c.Profiles()) != 1 {
		t.Errorf("Status() = %q, profiles = %d", c.Status(), len(c.Profiles()))
	}
}
