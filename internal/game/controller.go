package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/bitacora/internal/combat"
	"github.com/samdwyer/bitacora/internal/entity"
	"github.com/samdwyer/bitacora/internal/gamedata"
	"github.com/samdwyer/bitacora/internal/profile"
	"github.com/samdwyer/bitacora/internal/telemetry"
)

// ErrNoSession is returned when a combat command arrives outside combat.
var ErrNoSession = errors.New("no combat in progress")

// Controller turns operator commands into session intents. It owns the
// profile store and at most one session, and knows nothing about the
// terminal.
type Controller struct {
	store    profile.Store
	opts     combat.Options
	logger   *slog.Logger
	tracer   trace.Tracer
	state    State
	profiles []gamedata.Profile
	session  *combat.Session
	status   string
	filter   string // Skill list filter
	quit     bool
}

// NewController creates a controller in the profile selection state.
func NewController(store profile.Store, opts combat.Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:  store,
		opts:   opts,
		logger: logger,
		tracer: telemetry.Tracer("combat"),
		state:  StateSelect,
	}
}

// State returns the current screen state.
func (c *Controller) State() State { return c.state }

// Status returns the last message for the operator.
func (c *Controller) Status() string { return c.status }

// Profiles returns the profiles offered for selection.
func (c *Controller) Profiles() []gamedata.Profile { return c.profiles }

// Session returns the active session, or nil.
func (c *Controller) Session() *combat.Session { return c.session }

// Done reports whether the operator asked to quit.
func (c *Controller) Done() bool { return c.quit }

// Quit marks the controller as finished.
func (c *Controller) Quit() { c.quit = true }

// SkillFilter returns the current skill list filter.
func (c *Controller) SkillFilter() string { return c.filter }

// LoadProfiles seeds an empty store with the demo profile and reads the
// profile list.
func (c *Controller) LoadProfiles(ctx context.Context) error {
	seeded, err := profile.Seed(ctx, c.store)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	if seeded > 0 {
		c.logger.Info("seeded demo profiles", "count", seeded)
	}

	profiles, err := c.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	c.profiles = profiles
	c.status = fmt.Sprintf("%d profiles", len(profiles))
	return nil
}

// SelectProfile starts a combat session for the profile at index. A failure
// is also left in the status line.
func (c *Controller) SelectProfile(ctx context.Context, index int) error {
	if index < 0 || index >= len(c.profiles) {
		err := fmt.Errorf("no profile at position %d", index+1)
		c.status = err.Error()
		return err
	}

	_, span := c.tracer.Start(ctx, "combat.start")
	defer span.End()

	p, err := c.store.Get(ctx, c.profiles[index].ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		err = fmt.Errorf("select profile: %w", err)
		c.status = err.Error()
		return err
	}

	c.session = combat.Start(&p, c.opts)
	c.state = StateCombat
	c.filter = ""
	c.status = fmt.Sprintf("Combat started for %s", p.Name)

	span.SetAttributes(
		attribute.String("session.id", c.session.ID()),
		attribute.String("profile.id", p.ID),
		attribute.Int("profile.skills", len(p.Skills)),
	)
	c.logger.Info("combat started", "session", c.session.ID(), "profile", p.ID)
	return nil
}

// DeleteProfile removes the profile at index from the store and reloads the
// list. An empty store is not reseeded until the next start.
func (c *Controller) DeleteProfile(ctx context.Context, index int) error {
	if index < 0 || index >= len(c.profiles) {
		err := fmt.Errorf("no profile at position %d", index+1)
		c.status = err.Error()
		return err
	}
	target := c.profiles[index]

	ctx, span := c.tracer.Start(ctx, "profile.delete")
	defer span.End()
	span.SetAttributes(attribute.String("profile.id", target.ID))

	if err := c.store.Delete(ctx, target.ID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		err = fmt.Errorf("delete profile: %w", err)
		c.status = err.Error()
		c.logger.Error("delete profile", "profile", target.ID, "error", err)
		return err
	}

	profiles, err := c.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		err = fmt.Errorf("load profiles: %w", err)
		c.status = err.Error()
		return err
	}
	c.profiles = profiles
	c.status = fmt.Sprintf("%s deleted", target.Name)
	c.logger.Info("profile deleted", "profile", target.ID)
	return nil
}

// Reset drops the ended session and returns to profile selection.
func (c *Controller) Reset() {
	c.session = nil
	c.state = StateSelect
	c.status = ""
}

// Execute parses and runs one command line. Errors are also left in the
// status line; the session is unchanged when an error is returned.
func (c *Controller) Execute(ctx context.Context, line string) error {
	cmd, err := ParseCommand(line)
	if err != nil {
		c.status = err.Error()
		return err
	}
	if cmd.Kind == CmdQuit {
		c.quit = true
		return nil
	}
	if c.session == nil || c.state != StateCombat {
		c.status = ErrNoSession.Error()
		return ErrNoSession
	}

	msg, err := c.dispatch(ctx, cmd)
	if err != nil {
		c.status = err.Error()
		return err
	}
	c.status = msg
	return nil
}

func (c *Controller) dispatch(ctx context.Context, cmd Command) (string, error) {
	switch cmd.Kind {
	case CmdSkill:
		return c.useSkill(ctx, cmd)
	case CmdFree:
		return c.freeAction(ctx, cmd)
	case CmdEnemy:
		return c.enemyAction(ctx, cmd)
	case CmdBlank:
		return c.trace(ctx, "combat.blank", nil, func(span trace.Span) (string, error) {
			res, err := c.session.Blank()
			if err != nil {
				return "", err
			}
			span.SetAttributes(attribute.Int("ticks", len(res.Ticks)))
			return describeResult("Blank action", res), nil
		})
	case CmdToggle:
		return c.trace(ctx, "combat.toggle_received", []attribute.KeyValue{attribute.Int("entry", cmd.Entry)},
			func(span trace.Span) (string, error) {
				e, err := c.session.ToggleDamageReceived(cmd.Entry)
				if err != nil {
					return "", err
				}
				span.SetAttributes(attribute.Bool("received", e.DamageReceived), attribute.Int("damage", e.Damage))
				if e.DamageReceived {
					return fmt.Sprintf("#%d: %s takes %d", e.ID, e.Target, e.Damage), nil
				}
				return fmt.Sprintf("#%d: %d damage undone on %s", e.ID, e.Damage, e.Target), nil
			})
	case CmdEdit:
		return c.trace(ctx, "combat.edit", []attribute.KeyValue{attribute.Int("entry", cmd.Entry)},
			func(trace.Span) (string, error) {
				e, err := c.session.EditEntry(cmd.Entry, cmd.Text, *cmd.Damage)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("#%d edited", e.ID), nil
			})
	case CmdDelete:
		return c.trace(ctx, "combat.delete", []attribute.KeyValue{attribute.Int("entry", cmd.Entry)},
			func(trace.Span) (string, error) {
				e, err := c.session.DeleteEntry(cmd.Entry)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("#%d deleted", e.ID), nil
			})
	case CmdDeleteTurn:
		return c.trace(ctx, "combat.delete_turn",
			[]attribute.KeyValue{attribute.Int("round", cmd.Round), attribute.Int("turn", cmd.Turn)},
			func(span trace.Span) (string, error) {
				removed, err := c.session.DeleteTurn(cmd.Round, cmd.Turn)
				if err != nil {
					return "", err
				}
				span.SetAttributes(attribute.Int("removed", len(removed)))
				return fmt.Sprintf("Round %d turn %d deleted (%d entries)", cmd.Round, cmd.Turn, len(removed)), nil
			})
	case CmdDeleteRound:
		return c.trace(ctx, "combat.delete_round", []attribute.KeyValue{attribute.Int("round", cmd.Round)},
			func(span trace.Span) (string, error) {
				removed, err := c.session.DeleteRound(cmd.Round)
				if err != nil {
					return "", err
				}
				span.SetAttributes(attribute.Int("removed", len(removed)))
				return fmt.Sprintf("Round %d deleted (%d entries)", cmd.Round, len(removed)), nil
			})
	case CmdNextTurn:
		return c.trace(ctx, "combat.next_turn", nil, func(trace.Span) (string, error) {
			if err := c.session.NextTurn(); err != nil {
				return "", err
			}
			return fmt.Sprintf("Turn %d", c.session.Turn()), nil
		})
	case CmdEndRound:
		return c.trace(ctx, "combat.end_round", nil, func(trace.Span) (string, error) {
			if err := c.session.EndRound(); err != nil {
				return "", err
			}
			return fmt.Sprintf("Round %d, PA refilled", c.session.Round()), nil
		})
	case CmdAddEnemy:
		return c.trace(ctx, "combat.add_enemy", []attribute.KeyValue{attribute.String("name", cmd.Text)},
			func(span trace.Span) (string, error) {
				e, err := c.session.AddEnemy(cmd.Text, cmd.Vit, cmd.PA)
				if err != nil {
					return "", err
				}
				span.SetAttributes(attribute.String("enemy.id", e.ID))
				return fmt.Sprintf("%s joins (VIT %d, PA %d)", e.Name, e.Vit.Max, e.PA.Max), nil
			})
	case CmdRemoveEnemy:
		id := c.enemyRef(cmd.Ref)
		return c.trace(ctx, "combat.remove_enemy", []attribute.KeyValue{attribute.String("enemy.id", id)},
			func(trace.Span) (string, error) {
				if err := c.session.RemoveEnemy(id); err != nil {
					return "", err
				}
				return fmt.Sprintf("%s removed", id), nil
			})
	case CmdSkills:
		c.filter = cmd.Text
		n := len(c.session.Catalog().Search(cmd.Text))
		return fmt.Sprintf("%d skills match %q", n, cmd.Text), nil
	case CmdEnd:
		return c.trace(ctx, "combat.end", nil, func(span trace.Span) (string, error) {
			snap := c.session.Snapshot()
			c.session.End()
			c.state = StateEnded
			span.SetAttributes(
				attribute.Int("rounds", snap.Round),
				attribute.Int("actions", snap.ActionCount),
				attribute.Int("player.vit", snap.Player.Vit.Current),
			)
			c.logger.Info("combat ended", "session", snap.SessionID, "rounds", snap.Round, "actions", snap.ActionCount)
			return "Combat ended", nil
		})
	}
	return "", fmt.Errorf("%w: unsupported command", ErrInvalidCommand)
}

func (c *Controller) useSkill(ctx context.Context, cmd Command) (string, error) {
	skillID := c.skillRef(cmd.Ref)
	attrs := []attribute.KeyValue{
		attribute.String("skill", skillID),
		attribute.String("actor", entity.PlayerID),
	}
	return c.trace(ctx, "combat.skill", attrs, func(span trace.Span) (string, error) {
		res, err := c.session.UseSkill(combat.SkillIntent{
			SkillID:  skillID,
			TargetID: c.targetRef(cmd.Target),
			Notes:    cmd.Text,
			Damage:   cmd.Damage,
			Cost:     cmd.Cost,
			Indirect: cmd.Indirect,
		})
		if err != nil {
			return "", err
		}
		setActionAttributes(span, res)
		return describeResult(res.Entry.SkillName, res), nil
	})
}

func (c *Controller) freeAction(ctx context.Context, cmd Command) (string, error) {
	attrs := []attribute.KeyValue{attribute.String("actor", entity.PlayerID)}
	return c.trace(ctx, "combat.free_action", attrs, func(span trace.Span) (string, error) {
		res, err := c.session.FreeAction(combat.FreeIntent{
			Description: cmd.Text,
			TargetID:    c.targetRef(cmd.Target),
			Damage:      deref(cmd.Damage),
			Cost:        deref(cmd.Cost),
			Indirect:    cmd.Indirect,
		})
		if err != nil {
			return "", err
		}
		setActionAttributes(span, res)
		return describeResult("Free action", res), nil
	})
}

func (c *Controller) enemyAction(ctx context.Context, cmd Command) (string, error) {
	actorID := c.enemyRef(cmd.Ref)
	attrs := []attribute.KeyValue{attribute.String("actor", actorID)}
	return c.trace(ctx, "combat.enemy_action", attrs, func(span trace.Span) (string, error) {
		res, err := c.session.EnemyAction(combat.EnemyIntent{
			ActorID:  actorID,
			TargetID: c.targetRef(cmd.Target),
			Damage:   deref(cmd.Damage),
			Cost:     cmd.Cost,
			Notes:    cmd.Text,
			Indirect: cmd.Indirect,
		})
		if err != nil {
			return "", err
		}
		setActionAttributes(span, res)
		return describeResult(res.Entry.ActorName, res), nil
	})
}

// trace runs fn inside a span. Rejections are recorded on the span and
// logged; they are not failures of the program.
func (c *Controller) trace(ctx context.Context, name string, attrs []attribute.KeyValue, fn func(trace.Span) (string, error)) (string, error) {
	_, span := c.tracer.Start(ctx, name)
	defer span.End()

	span.SetAttributes(attrs...)
	span.SetAttributes(
		attribute.String("session.id", c.session.ID()),
		attribute.Int("round", c.session.Round()),
		attribute.Int("turn", c.session.Turn()),
	)

	msg, err := fn(span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		level := slog.LevelError
		if combat.IsRejection(err) {
			level = slog.LevelWarn
			span.SetAttributes(attribute.Bool("rejected", true))
		}
		c.logger.Log(ctx, level, "intent rejected", "intent", name, "error", err)
		return "", err
	}
	return msg, nil
}

// skillRef maps a 1-based position in the active skill list to an ID.
// Anything else is taken as an ID.
func (c *Controller) skillRef(ref string) string {
	if n, err := strconv.Atoi(ref); err == nil {
		active := c.session.Catalog().Active()
		if n >= 1 && n <= len(active) {
			return active[n-1].ID
		}
	}
	return ref
}

// enemyRef maps a 1-based roster position to an enemy ID. Anything else is
// taken as an ID.
func (c *Controller) enemyRef(ref string) string {
	if n, err := strconv.Atoi(ref); err == nil {
		if e := c.session.EnemyAt(n - 1); e != nil {
			return e.ID
		}
	}
	return ref
}

// targetRef resolves a target reference: "player", a roster position or an
// enemy ID.
func (c *Controller) targetRef(ref string) string {
	switch strings.ToLower(ref) {
	case "":
		return ""
	case entity.PlayerID, "jugador", "me":
		return entity.PlayerID
	}
	return c.enemyRef(ref)
}

func setActionAttributes(span trace.Span, res combat.Result) {
	span.SetAttributes(
		attribute.Int("entry", res.Entry.ID),
		attribute.String("target", res.Entry.TargetID),
		attribute.Int("damage", res.Entry.Damage),
		attribute.Int("cost", res.Entry.PACost),
		attribute.Int("ticks", len(res.Ticks)),
		attribute.Bool("indirect", res.Effect != nil),
	)
}

func describeResult(label string, res combat.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s", res.Entry.ID, label)
	if res.Entry.Target != "" {
		fmt.Fprintf(&b, " -> %s", res.Entry.Target)
	}
	if res.Entry.Damage > 0 {
		fmt.Fprintf(&b, " (%d dmg)", res.Entry.Damage)
	}
	if res.Entry.PACost > 0 {
		fmt.Fprintf(&b, " [%d PA]", res.Entry.PACost)
	}
	if n := len(res.Ticks); n > 0 {
		total := 0
		for _, t := range res.Ticks {
			total += t.Damage
		}
		fmt.Fprintf(&b, ", %d indirect ticks for %d", n, total)
	}
	return b.String()
}

func deref(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
