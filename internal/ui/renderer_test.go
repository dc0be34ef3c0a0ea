package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/bitacora/internal/combat"
	"github.com/samdwyer/bitacora/internal/entity"
	"github.com/samdwyer/bitacora/internal/gamedata"
)

func newSimScreen(t *testing.T, w, h int) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := NewScreenFrom(sim)
	if err != nil {
		t.Fatalf("NewScreenFrom() error: %v", err)
	}
	sim.SetSize(w, h)
	t.Cleanup(screen.Close)
	return screen, sim
}

// rowText returns the characters of row y.
func rowText(sim tcell.SimulationScreen, y int) string {
	cells, w, _ := sim.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		for _, r := range cells[y*w+x].Runes {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestDrawTextClips(t *testing.T) {
	screen, sim := newSimScreen(t, 10, 2)

	end := screen.DrawText(2, 0, "abcdefghijkl", tcell.StyleDefault)
	screen.Show()
	if end != 10 {
		t.Errorf("DrawText() end = %d, want 10", end)
	}
	if got := strings.TrimSpace(rowText(sim, 0)); got != "abcdefgh" {
		t.Errorf("row = %q", got)
	}
	if end := screen.DrawText(0, 5, "x", tcell.StyleDefault); end != 0 {
		t.Errorf("off-screen DrawText() = %d, want 0", end)
	}
}

func TestFormatEntry(t *testing.T) {
	tests := []struct {
		entry combat.Entry
		want  string
	}{
		{
			combat.Entry{ID: 1, Type: combat.EntrySkill, ActorName: "Ana", SkillName: "Golpe", Target: "Orco", Damage: 20, PACost: 3,
				Indirect: &combat.IndirectSummary{Percent: 25, Actions: 3}},
			"#1 Ana uses Golpe → Orco 20 dmg [3 PA] +25%×3",
		},
		{
			combat.Entry{ID: 2, Type: combat.EntryIndirectTick, SourceName: "Golpe", Target: "Orco", Damage: 5, DamageReceived: true},
			"#2 Golpe ticks → Orco 5 dmg ✓",
		},
		{
			combat.Entry{ID: 3, Type: combat.EntryBlank},
			"#3 (blank)",
		},
		{
			combat.Entry{ID: 4, Type: combat.EntryPlayerFree, ActorName: "Ana", Notes: "mira alrededor"},
			"#4 Ana acts · mira alrededor",
		},
	}
	for _, tt := range tests {
		if got := FormatEntry(tt.entry); got != tt.want {
			t.Errorf("FormatEntry() = %q, want %q", got, tt.want)
		}
	}
}

func TestLogLinesHeadings(t *testing.T) {
	groups := combat.GroupEntries([]combat.Entry{
		{ID: 1, Round: 1, Turn: 1, Type: combat.EntryBlank},
		{ID: 2, Round: 1, Turn: 2, Type: combat.EntryEnemyAction, ActorName: "Orco"},
		{ID: 3, Round: 2, Turn: 1, Type: combat.EntryBlank},
	})
	lines := LogLines(groups)

	headings := 0
	for _, l := range lines {
		if l.Heading {
			headings++
		}
	}
	if len(lines) != 8 || headings != 5 {
		t.Errorf("lines = %d, headings = %d; want 8, 5", len(lines), headings)
	}
	if lines[0].Text != "── Round 1" || lines[len(lines)-1].Type != combat.EntryBlank {
		t.Errorf("unexpected lines: %+v", lines)
	}
}

func TestRenderCombat(t *testing.T) {
	screen, sim := newSimScreen(t, 120, 30)
	r := NewRenderer(screen, gamedata.MustLoadTheme())

	s := combat.Start(&gamedata.Profile{Name: "Ana", Stats: gamedata.DefaultStats()}, combat.DefaultOptions())
	orc, err := s.AddEnemy("Orco", 60, 4)
	if err != nil {
		t.Fatalf("AddEnemy() error: %v", err)
	}
	if _, err := s.FreeAction(combat.FreeIntent{TargetID: orc.ID, Damage: 10, Indirect: &combat.IndirectSpec{}}); err != nil {
		t.Fatalf("FreeAction() error: %v", err)
	}

	r.RenderCombat(CombatView{
		Snapshot: s.Snapshot(),
		Skills:   []SkillLine{{Index: 1, Name: "Golpe", Cost: 3, Description: "Daña FUE x4"}},
		Input:    "blank",
		Status:   "ok",
	})

	if got := rowText(sim, 0); !strings.Contains(got, "Round 1") || !strings.Contains(got, "Ana") {
		t.Errorf("header = %q", got)
	}
	if got := rowText(sim, 3); !strings.Contains(got, "Orco") || !strings.Contains(got, entity.EnemyID(1)) {
		t.Errorf("enemy row = %q", got)
	}
	if got := rowText(sim, 29); !strings.HasPrefix(strings.TrimSpace(got), "> blank") {
		t.Errorf("input row = %q", got)
	}

	found := false
	for y := 0; y < 30; y++ {
		if strings.Contains(rowText(sim, y), "Golpe [3 PA] Daña FUE x4") {
			found = true
		}
	}
	if !found {
		t.Error("skill panel not drawn")
	}
}

func TestRenderSelectAndEnded(t *testing.T) {
	screen, sim := newSimScreen(t, 80, 20)
	r := NewRenderer(screen, gamedata.MustLoadTheme())

	profiles, err := gamedata.LoadDefaultProfiles()
	if err != nil {
		t.Fatalf("LoadDefaultProfiles() error: %v", err)
	}
	r.RenderSelect(profiles, 0, "1 profiles")
	if got := rowText(sim, 2); !strings.Contains(got, "> "+profiles[0].Name) {
		t.Errorf("selected row = %q", got)
	}

	s := combat.Start(&profiles[0], combat.DefaultOptions())
	s.End()
	r.RenderEnded(s.Snapshot())
	if got := rowText(sim, 0); !strings.Contains(got, "combat ended") {
		t.Errorf("ended header = %q", got)
	}
}
