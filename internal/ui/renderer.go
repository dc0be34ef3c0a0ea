package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/bitacora/internal/combat"
	"github.com/samdwyer/bitacora/internal/entity"
	"github.com/samdwyer/bitacora/internal/gamedata"
)

const (
	barWidth        = 20
	skillPanelWidth = 38
	minSplitWidth   = 100
)

// SkillLine is one row of the skill panel.
type SkillLine struct {
	Index       int // 1-based position in the active skill list
	Name        string
	Cost        int // 0 means variable
	Range       string
	Description string
}

// CombatView is everything the combat screen shows.
type CombatView struct {
	Snapshot combat.Snapshot
	Skills   []SkillLine
	Input    string
	Status   string
	Error    bool
}

// Renderer handles drawing the tracker to the screen.
type Renderer struct {
	screen *Screen
	theme  gamedata.Theme
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, theme gamedata.Theme) *Renderer {
	return &Renderer{screen: screen, theme: theme}
}

func (r *Renderer) style(hex string) tcell.Style {
	return tcell.StyleDefault.Foreground(r.theme.Color(hex))
}

// RenderSelect draws the profile list with the cursor on selected.
func (r *Renderer) RenderSelect(profiles []gamedata.Profile, selected int, status string) {
	r.screen.Clear()
	r.screen.HideCursor()

	r.screen.DrawText(1, 0, "BITÁCORA · select a profile", r.style(r.theme.Highlight).Bold(true))
	for i, p := range profiles {
		style := r.style(r.theme.Text)
		marker := "  "
		if i == selected {
			style = r.style(r.theme.Highlight).Bold(true)
			marker = "> "
		}
		line := fmt.Sprintf("%s%s  (VIT %d, %d skills)", marker, p.Name, p.Stats.VitMax(), len(p.Skills))
		r.screen.DrawText(1, 2+i, line, style)
	}
	if len(profiles) == 0 {
		r.screen.DrawText(3, 2, "No profiles. Import one with skillimport.", r.style(r.theme.Muted))
	}

	_, h := r.screen.Size()
	r.screen.DrawText(1, h-2, status, r.style(r.theme.Muted))
	r.screen.DrawText(1, h-1, "↑/↓ choose · Enter start · d delete · q quit", r.style(r.theme.Muted))
	r.screen.Show()
}

// RenderCombat draws the combat screen.
func (r *Renderer) RenderCombat(view CombatView) {
	r.screen.Clear()
	w, h := r.screen.Size()
	snap := view.Snapshot

	header := fmt.Sprintf("BITÁCORA · %s · Round %d · Turn %d · %d actions",
		snap.ProfileName, snap.Round, snap.Turn, snap.ActionCount)
	r.screen.DrawText(1, 0, header, r.style(r.theme.Highlight).Bold(true))

	y := 2
	r.drawCombatant(1, y, "", snap.Player)
	y++
	for i, e := range snap.Enemies {
		r.drawCombatant(1, y, fmt.Sprintf("%d.", i+1), e)
		y++
	}
	if len(snap.Enemies) == 0 {
		r.screen.DrawText(3, y, "no enemies · add <name> [vit] [pa]", r.style(r.theme.Muted))
		y++
	}

	if len(snap.Indirects) > 0 {
		y++
		r.screen.DrawText(1, y, "Indirect effects", r.style(r.theme.Indirect).Bold(true))
		y++
		for _, eff := range snap.Indirects {
			line := fmt.Sprintf("  %s: %d/action for %d more (%d%% of %d, %s)",
				eff.TargetName, eff.TickDamage(), eff.ActionsLeft, eff.Percent, eff.BaseDamage, eff.SourceName)
			r.screen.DrawText(1, y, line, r.style(r.theme.Indirect))
			y++
		}
	}

	y++
	logWidth := w
	if w >= minSplitWidth {
		logWidth = w - skillPanelWidth - 1
		r.drawSkills(logWidth+1, y, h-3-y, view.Skills)
	}
	r.drawLog(1, y, h-3-y, logWidth-2, snap)

	statusStyle := r.style(r.theme.Muted)
	if view.Error {
		statusStyle = r.style(r.theme.Damage)
	}
	r.screen.DrawText(1, h-2, view.Status, statusStyle)

	end := r.screen.DrawText(1, h-1, "> "+view.Input, r.style(r.theme.Text))
	r.screen.ShowCursor(end, h-1)
	r.screen.Show()
}

// RenderEnded draws the summary of a finished combat.
func (r *Renderer) RenderEnded(snap combat.Snapshot) {
	r.screen.Clear()
	r.screen.HideCursor()

	r.screen.DrawText(1, 0, "BITÁCORA · combat ended", r.style(r.theme.Highlight).Bold(true))
	lines := []string{
		fmt.Sprintf("Profile: %s", snap.ProfileName),
		fmt.Sprintf("Rounds: %d   Actions: %d   Log entries: %d", snap.Round, snap.ActionCount, len(snap.Log)),
		fmt.Sprintf("%s: VIT %d/%d", snap.Player.Name, snap.Player.Vit.Current, snap.Player.Vit.Max),
	}
	for _, e := range snap.Enemies {
		lines = append(lines, fmt.Sprintf("%s: VIT %d/%d", e.Name, e.Vit.Current, e.Vit.Max))
	}
	for i, line := range lines {
		r.screen.DrawText(1, 2+i, line, r.style(r.theme.Text))
	}

	_, h := r.screen.Size()
	r.screen.DrawText(1, h-1, "Enter: back to profiles · q quit", r.style(r.theme.Muted))
	r.screen.Show()
}

func (r *Renderer) drawCombatant(x, y int, prefix string, c entity.Combatant) {
	nameStyle := r.style(r.theme.Text).Bold(true)
	if !c.IsPlayer() {
		nameStyle = r.style(r.theme.Enemy)
	}
	label := strings.TrimSpace(fmt.Sprintf("%s %s", prefix, c.Name))
	if c.IsDown() {
		label += " (down)"
	}
	x = r.screen.DrawText(x, y, fmt.Sprintf("%-22s", label), nameStyle)
	x = r.screen.DrawText(x+1, y, "VIT ", r.style(r.theme.Muted))
	x = r.drawBar(x, y, c.Vit, r.theme.Vitality)
	if c.PA.Max > 0 {
		x = r.screen.DrawText(x+2, y, "PA ", r.style(r.theme.Muted))
		x = r.drawBar(x, y, c.PA, r.theme.Action)
	}
	if !c.IsPlayer() {
		r.screen.DrawText(x+2, y, c.ID, r.style(r.theme.Muted))
	}
}

func (r *Renderer) drawBar(x, y int, pool entity.Pool, hex string) int {
	filled := int(pool.Ratio() * barWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	x = r.screen.DrawText(x, y, bar, r.style(hex))
	return r.screen.DrawText(x+1, y, fmt.Sprintf("%d/%d", pool.Current, pool.Max), r.style(r.theme.Text))
}

func (r *Renderer) drawSkills(x, y, height int, skills []SkillLine) {
	r.screen.DrawText(x, y, "Skills", r.style(r.theme.Highlight).Bold(true))
	for i, s := range skills {
		if i+1 >= height {
			r.screen.DrawText(x, y+i+1, fmt.Sprintf("… %d more", len(skills)-i), r.style(r.theme.Muted))
			return
		}
		cost := fmt.Sprintf("%d PA", s.Cost)
		if s.Cost == 0 {
			cost = "PA var"
		}
		end := r.screen.DrawText(x, y+i+1, fmt.Sprintf("%2d. %s [%s]", s.Index, s.Name, cost), r.style(r.theme.Text))
		if s.Description != "" {
			r.screen.DrawText(end+1, y+i+1, s.Description, r.style(r.theme.Muted))
		}
	}
}

// drawLog shows the newest log lines that fit in height rows.
func (r *Renderer) drawLog(x, y, height, width int, snap combat.Snapshot) {
	if height <= 1 {
		return
	}
	lines := LogLines(snap.Groups())
	r.screen.DrawText(x, y, "Log", r.style(r.theme.Highlight).Bold(true))
	if len(lines) > height-1 {
		lines = lines[len(lines)-(height-1):]
	}
	for i, line := range lines {
		text := line.Text
		if n := len([]rune(text)); width > 0 && n > width {
			text = string([]rune(text)[:width-1]) + "…"
		}
		r.screen.DrawText(x, y+1+i, text, r.lineStyle(line))
	}
}

func (r *Renderer) lineStyle(line LogLine) tcell.Style {
	switch {
	case line.Heading:
		return r.style(r.theme.Muted).Bold(true)
	case line.Type == combat.EntryIndirectTick:
		return r.style(r.theme.Indirect)
	case line.Received:
		return r.style(r.theme.Received)
	case line.Type == combat.EntryEnemyAction:
		return r.style(r.theme.Enemy)
	default:
		return r.style(r.theme.Text)
	}
}

// LogLine is one formatted row of the log panel.
type LogLine struct {
	Text     string
	Heading  bool
	Type     combat.EntryType
	Received bool
}

// LogLines formats grouped log entries with round and turn headings.
func LogLines(groups []combat.RoundGroup) []LogLine {
	var lines []LogLine
	for _, round := range groups {
		lines = append(lines, LogLine{Text: fmt.Sprintf("── Round %d", round.Round), Heading: true})
		for _, turn := range round.Turns {
			lines = append(lines, LogLine{Text: fmt.Sprintf("  Turn %d", turn.Turn), Heading: true})
			for _, e := range turn.Entries {
				lines = append(lines, LogLine{
					Text:     "    " + FormatEntry(e),
					Type:     e.Type,
					Received: e.DamageReceived,
				})
			}
		}
	}
	return lines
}

// FormatEntry renders one log entry as a single line.
func FormatEntry(e combat.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d ", e.ID)

	switch e.Type {
	case combat.EntrySkill:
		fmt.Fprintf(&b, "%s uses %s", e.ActorName, e.SkillName)
	case combat.EntryPlayerFree:
		fmt.Fprintf(&b, "%s acts", e.ActorName)
	case combat.EntryEnemyAction:
		fmt.Fprintf(&b, "%s attacks", e.ActorName)
	case combat.EntryBlank:
		b.WriteString("(blank)")
	case combat.EntryIndirectTick:
		fmt.Fprintf(&b, "%s ticks", e.SourceName)
	}

	if e.Target != "" {
		fmt.Fprintf(&b, " → %s", e.Target)
	}
	if e.Damage > 0 {
		fmt.Fprintf(&b, " %d dmg", e.Damage)
		if e.DamageReceived {
			b.WriteString(" ✓")
		}
	}
	if e.PACost > 0 {
		fmt.Fprintf(&b, " [%d PA]", e.PACost)
	}
	if e.Indirect != nil {
		fmt.Fprintf(&b, " +%d%%×%d", e.Indirect.Percent, e.Indirect.Actions)
	}
	if e.Notes != "" {
		fmt.Fprintf(&b, " · %s", e.Notes)
	}
	return b.String()
}
