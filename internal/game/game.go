package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/bitacora/internal/combat"
	"github.com/samdwyer/bitacora/internal/gamedata"
	"github.com/samdwyer/bitacora/internal/profile"
	"github.com/samdwyer/bitacora/internal/telemetry"
	"github.com/samdwyer/bitacora/internal/ui"
)

// Game holds the terminal and the controller it drives.
type Game struct {
	screen     *ui.Screen
	renderer   *ui.Renderer
	controller *Controller
	logger     *slog.Logger
	input      []rune
	cursor     int // Selected profile
	deleting   bool
	failed     bool
}

// New creates a new tracker instance on the terminal.
func New(store profile.Store, opts combat.Options, logger *slog.Logger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return newGame(screen, store, opts, logger), nil
}

func newGame(screen *ui.Screen, store profile.Store, opts combat.Options, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		screen:     screen,
		renderer:   ui.NewRenderer(screen, gamedata.MustLoadTheme()),
		controller: NewController(store, opts, logger),
		logger:     logger,
	}
}

// Run executes the main loop until the operator quits.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")

	ctx, initSpan := tracer.Start(ctx, "game.init")
	if err := g.controller.LoadProfiles(ctx); err != nil {
		initSpan.RecordError(err)
		initSpan.End()
		g.screen.Close()
		return err
	}
	initSpan.SetAttributes(attribute.Int("profiles", len(g.controller.Profiles())))
	initSpan.End()

	for !g.controller.Done() {
		g.render()
		g.handleInput(ctx)
	}

	g.screen.Close()
	return nil
}

func (g *Game) render() {
	switch g.controller.State() {
	case StateSelect:
		status := g.controller.Status()
		if g.deleting {
			status = fmt.Sprintf("Delete %s? y to confirm", g.controller.Profiles()[g.cursor].Name)
		}
		g.renderer.RenderSelect(g.controller.Profiles(), g.cursor, status)
	case StateCombat:
		g.renderer.RenderCombat(ui.CombatView{
			Snapshot: g.controller.Session().Snapshot(),
			Skills:   g.skillLines(),
			Input:    string(g.input),
			Status:   g.controller.Status(),
			Error:    g.failed,
		})
	case StateEnded:
		g.renderer.RenderEnded(g.controller.Session().Snapshot())
	}
}

// skillLines lists the skills matching the current filter, numbered by
// their position in the full active list so the numbers stay valid for
// the skill command.
func (g *Game) skillLines() []ui.SkillLine {
	catalog := g.controller.Session().Catalog()
	index := make(map[string]int)
	for i, s := range catalog.Active() {
		index[s.ID] = i + 1
	}
	var lines []ui.SkillLine
	for _, s := range catalog.Search(g.controller.SkillFilter()) {
		lines = append(lines, ui.SkillLine{
			Index:       index[s.ID],
			Name:        s.Name,
			Cost:        s.PACost,
			Range:       s.Range,
			Description: s.Description(),
		})
	}
	return lines
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	case nil:
		g.controller.Quit()
	}
}

func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		g.controller.Quit()
		return
	}

	switch g.controller.State() {
	case StateSelect:
		g.handleSelectKey(ctx, ev)
	case StateCombat:
		g.handleCombatKey(ctx, ev)
	case StateEnded:
		switch {
		case ev.Key() == tcell.KeyEnter:
			g.controller.Reset()
			g.cursor = 0
			if err := g.controller.LoadProfiles(ctx); err != nil {
				g.logger.Error("reload profiles", "error", err)
			}
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			g.controller.Quit()
		}
	}
}

func (g *Game) handleSelectKey(ctx context.Context, ev *tcell.EventKey) {
	n := len(g.controller.Profiles())
	if g.deleting {
		g.deleting = false
		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y') {
			if err := g.controller.DeleteProfile(ctx, g.cursor); err == nil {
				g.cursor = min(g.cursor, max(len(g.controller.Profiles())-1, 0))
			}
		}
		return
	}
	switch ev.Key() {
	case tcell.KeyEscape:
		g.controller.Quit()
	case tcell.KeyUp:
		if g.cursor > 0 {
			g.cursor--
		}
	case tcell.KeyDown:
		if g.cursor < n-1 {
			g.cursor++
		}
	case tcell.KeyEnter:
		if err := g.controller.SelectProfile(ctx, g.cursor); err != nil {
			g.logger.Warn("select profile", "error", err)
			return
		}
		g.input = g.input[:0]
		g.failed = false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.controller.Quit()
		case 'd', 'D':
			g.deleting = n > 0
		}
	}
}

func (g *Game) handleCombatKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		line := string(g.input)
		g.input = g.input[:0]
		g.failed = g.controller.Execute(ctx, line) != nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(g.input) > 0 {
			g.input = g.input[:len(g.input)-1]
		}
	case tcell.KeyEscape:
		g.input = g.input[:0]
	case tcell.KeyRune:
		g.input = append(g.input, ev.Rune())
	}
}
