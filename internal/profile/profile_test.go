package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/samdwyer/bitacora/internal/combat"
	"github.com/samdwyer/bitacora/internal/gamedata"
)

func newTestDirStore(t *testing.T) *DirStore {
	t.Helper()
	store, err := NewDirStore(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewDirStore() error: %v", err)
	}
	return store
}

func TestDirStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestDirStore(t)

	p := gamedata.Profile{
		ID:    "zora",
		Name:  "Zora",
		Stats: gamedata.Stats{gamedata.StatFUE: 9},
		Skills: []gamedata.Skill{
			{ID: "golpe_0001", Name: "Golpe", PACost: 2, Formula: &gamedata.DamageFormula{Stat: "FUE", Multiplier: 2}},
		},
	}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Save(ctx, gamedata.Profile{ID: "ana", Name: "ana"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := store.Get(ctx, "zora")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name != "Zora" || got.Stats[gamedata.StatFUE] != 9 || len(got.Skills) != 1 {
		t.Errorf("Get() = %+v", got)
	}
	if got.Skills[0].Formula == nil || got.Skills[0].Formula.Multiplier != 2 {
		t.Errorf("formula lost: %+v", got.Skills[0])
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 || list[0].ID != "ana" {
		t.Errorf("List() order = %+v", list)
	}

	if err := store.Delete(ctx, "zora"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Get(ctx, "zora"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "zora"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(deleted) = %v, want ErrNotFound", err)
	}
}

func TestDirStoreSkipsBrokenFiles(t *testing.T) {
	store := newTestDirStore(t)
	if err := os.WriteFile(filepath.Join(store.dir, "broken.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	list, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %d profiles, want 0", len(list))
	}
}

func TestDirStoreRejectsEmptyID(t *testing.T) {
	store := newTestDirStore(t)
	if err := store.Save(context.Background(), gamedata.Profile{Name: "x"}); err == nil {
		t.Error("Save() without id should fail")
	}
	if _, err := NewDirStore(" ", nil); err == nil {
		t.Error("NewDirStore(blank) should fail")
	}
}

func TestBuild(t *testing.T) {
	doc := "PATADA RÁPIDA\nPA: 2\nEfecto: Daña FUE x2.\n\nPIEL DE HIERRO\nHabilidad Pasiva\nEfecto: Resiste.\n"
	p := Build("Señora Ríos", gamedata.Stats{gamedata.StatFUE: 8}, []Source{
		{Name: "a.txt", Path: "docs/a.txt", Content: doc},
		{Name: "a.txt", Path: "docs/a.txt", Content: doc},
	})

	if p.ID != "senora_rios" {
		t.Errorf("ID = %q, want senora_rios", p.ID)
	}
	if p.Stats[gamedata.StatFUE] != 8 || p.Stats[gamedata.StatPM] != gamedata.DefaultStat {
		t.Errorf("stats = %v", p.Stats)
	}
	if p.Stats.VitMax() != gamedata.DefaultVitMax {
		t.Errorf("VitMax() = %d", p.Stats.VitMax())
	}
	if len(p.Documents) != 2 || p.Documents[0].SkillCount != 2 {
		t.Errorf("documents = %+v", p.Documents)
	}
	if len(p.Skills) != 2 {
		t.Fatalf("skills = %d, want 2 (duplicates dropped)", len(p.Skills))
	}
	if len(p.Catalog().Active()) != 1 {
		t.Error("passive skill should not be active")
	}

	if ID("¡!") != "perfil" {
		t.Errorf("ID(symbols) = %q", ID("¡!"))
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := newTestDirStore(t)

	n, err := Seed(ctx, store)
	if err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	if n != 1 {
		t.Errorf("Seed() = %d, want 1", n)
	}
	if _, err := store.Get(ctx, "demo"); err != nil {
		t.Errorf("demo profile missing: %v", err)
	}

	n, err = Seed(ctx, store)
	if err != nil || n != 0 {
		t.Errorf("second Seed() = %d, %v; want 0, nil", n, err)
	}
}

const legacyProfile = `{
  "id": "kira",
  "nombre": "Kira",
  "stats": {"VIT_max": 90, "FUE": 7},
  "documentos": [],
  "habilidades": [
    {"id": "tajo_0042", "nombre": "Tajo", "costo_pa": 2, "efecto": "Daña FUE x3 al objetivo.", "aclaraciones": []}
  ]
}`

func TestDirStoreFillsMissingFormulas(t *testing.T) {
	ctx := context.Background()
	store := newTestDirStore(t)
	if err := os.WriteFile(filepath.Join(store.dir, "kira.json"), []byte(legacyProfile), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := store.Get(ctx, "kira")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	f := p.Skills[0].Formula
	if f == nil || f.Stat != gamedata.StatFUE || f.Multiplier != 3 {
		t.Fatalf("formula = %+v, want FUE x3", f)
	}

	s := combat.Start(&p, combat.DefaultOptions())
	orc, err := s.AddEnemy("Orco", 100, 4)
	if err != nil {
		t.Fatalf("AddEnemy() error: %v", err)
	}
	res, err := s.UseSkill(combat.SkillIntent{SkillID: "tajo_0042", TargetID: orc.ID})
	if err != nil {
		t.Fatalf("UseSkill() error: %v", err)
	}
	if res.Entry.Damage != 21 {
		t.Errorf("damage = %d, want 21", res.Entry.Damage)
	}
}

func TestNormalizeKeepsExistingFormula(t *testing.T) {
	p := gamedata.Profile{Skills: []gamedata.Skill{
		{Effect: "Daña FUE x3.", Formula: &gamedata.DamageFormula{Stat: gamedata.StatPM, Multiplier: 1}},
		{Effect: "Cura a un aliado."},
	}}
	Normalize(&p)
	if p.Skills[0].Formula.Stat != gamedata.StatPM {
		t.Errorf("existing formula replaced: %+v", p.Skills[0].Formula)
	}
	if p.Skills[1].Formula != nil {
		t.Errorf("formula = %+v, want nil", p.Skills[1].Formula)
	}
}
