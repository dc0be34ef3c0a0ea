package game

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samdwyer/bitacora/internal/combat"
)

// CommandKind identifies an operator command.
type CommandKind int

const (
	CmdSkill CommandKind = iota + 1
	CmdFree
	CmdEnemy
	CmdBlank
	CmdToggle
	CmdEdit
	CmdDelete
	CmdDeleteTurn
	CmdDeleteRound
	CmdNextTurn
	CmdEndRound
	CmdAddEnemy
	CmdRemoveEnemy
	CmdSkills
	CmdEnd
	CmdQuit
)

// ErrInvalidCommand is returned for input that does not parse.
var ErrInvalidCommand = errors.New("invalid command")

// Usage lists the command grammar, one line per command.
var Usage = []string{
	"skill <n|id> [@target] [dmg=N] [pa=N] [ind=P%xA] [notes...]",
	"free [@target] [dmg=N] [pa=N] [ind=P%xA] <text...>",
	"enemy <n|id> [@target] dmg=N [pa=N] [ind=P%xA] [notes...]",
	"blank | recv <entry> | edit <entry> <damage> [notes...]",
	"del <entry> | delturn <round> <turn> | delround <round>",
	"next | round | add <name> [vit] [pa] | rm <n|id>",
	"skills [filter] | end | quit",
}

// Command is one parsed line of operator input. References are kept raw;
// the controller resolves them against the running session.
type Command struct {
	Kind     CommandKind
	Ref      string // Skill or enemy: 1-based index or ID
	Target   string // Target reference without the '@'
	Damage   *int
	Cost     *int
	Indirect *combat.IndirectSpec
	Text     string // Notes, free-action text, enemy name or skill filter
	Entry    int
	Round    int
	Turn     int
	Vit      int
	PA       int
}

const (
	maxIndirectPercent = 100
	maxIndirectActions = 99
)

var indirectRe = regexp.MustCompile(`^(?:(\d+)%?)?(?:[xX](\d+))?$`)

// ParseCommand parses one line of operator input.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrInvalidCommand)
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "skill", "s":
		if len(args) == 0 {
			return Command{}, usageError(0)
		}
		cmd := Command{Kind: CmdSkill, Ref: args[0]}
		if err := parseActionArgs(&cmd, args[1:]); err != nil {
			return Command{}, err
		}
		return cmd, nil

	case "free", "f":
		cmd := Command{Kind: CmdFree}
		if err := parseActionArgs(&cmd, args); err != nil {
			return Command{}, err
		}
		return cmd, nil

	case "enemy", "e":
		if len(args) == 0 {
			return Command{}, usageError(2)
		}
		cmd := Command{Kind: CmdEnemy, Ref: args[0]}
		if err := parseActionArgs(&cmd, args[1:]); err != nil {
			return Command{}, err
		}
		if cmd.Target == "" {
			cmd.Target = "player"
		}
		return cmd, nil

	case "blank", "b":
		return Command{Kind: CmdBlank}, nil

	case "recv", "r":
		n, err := intArg(args, 0, 3)
		return Command{Kind: CmdToggle, Entry: n}, err

	case "edit":
		n, err := intArg(args, 0, 3)
		if err != nil {
			return Command{}, err
		}
		dmg, err := intArg(args, 1, 3)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdEdit, Entry: n, Damage: &dmg, Text: strings.Join(args[2:], " ")}, nil

	case "del":
		n, err := intArg(args, 0, 4)
		return Command{Kind: CmdDelete, Entry: n}, err

	case "delturn":
		round, err := intArg(args, 0, 4)
		if err != nil {
			return Command{}, err
		}
		turn, err := intArg(args, 1, 4)
		return Command{Kind: CmdDeleteTurn, Round: round, Turn: turn}, err

	case "delround":
		round, err := intArg(args, 0, 4)
		return Command{Kind: CmdDeleteRound, Round: round}, err

	case "next", "n":
		return Command{Kind: CmdNextTurn}, nil

	case "round":
		return Command{Kind: CmdEndRound}, nil

	case "add":
		return parseAdd(args)

	case "rm":
		if len(args) != 1 {
			return Command{}, usageError(5)
		}
		return Command{Kind: CmdRemoveEnemy, Ref: args[0]}, nil

	case "skills":
		return Command{Kind: CmdSkills, Text: strings.Join(args, " ")}, nil

	case "end":
		return Command{Kind: CmdEnd}, nil

	case "quit", "q":
		return Command{Kind: CmdQuit}, nil
	}

	return Command{}, fmt.Errorf("%w: unknown command %q", ErrInvalidCommand, verb)
}

// parseActionArgs reads the shared action options. Tokens that are not
// options become the notes, in order.
func parseActionArgs(cmd *Command, args []string) error {
	var notes []string
	for _, arg := range args {
		key, value, hasValue := strings.Cut(arg, "=")
		switch {
		case strings.HasPrefix(arg, "@") && len(arg) > 1 && cmd.Target == "":
			cmd.Target = arg[1:]
		case hasValue && strings.EqualFold(key, "dmg"):
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("%w: dmg must be a non-negative number, got %q", ErrInvalidCommand, value)
			}
			cmd.Damage = &n
		case hasValue && strings.EqualFold(key, "pa"):
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("%w: pa must be a non-negative number, got %q", ErrInvalidCommand, value)
			}
			cmd.Cost = &n
		case hasValue && strings.EqualFold(key, "ind"):
			spec, err := parseIndirect(value)
			if err != nil {
				return err
			}
			cmd.Indirect = spec
		default:
			notes = append(notes, arg)
		}
	}
	cmd.Text = strings.Join(notes, " ")
	return nil
}

// parseIndirect reads "P%xA", "P%", "xA" or "" (all defaults).
func parseIndirect(value string) (*combat.IndirectSpec, error) {
	m := indirectRe.FindStringSubmatch(value)
	if m == nil {
		return nil, fmt.Errorf("%w: ind must look like 25%%x3, got %q", ErrInvalidCommand, value)
	}
	spec := &combat.IndirectSpec{}
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > maxIndirectPercent {
			return nil, fmt.Errorf("%w: ind percent must be at most %d, got %q", ErrInvalidCommand, maxIndirectPercent, m[1])
		}
		spec.Percent = n
	}
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil || n > maxIndirectActions {
			return nil, fmt.Errorf("%w: ind actions must be at most %d, got %q", ErrInvalidCommand, maxIndirectActions, m[2])
		}
		spec.Actions = n
	}
	return spec, nil
}

// parseAdd reads "add <name...> [vit] [pa]": trailing numbers are pools.
func parseAdd(args []string) (Command, error) {
	cmd := Command{Kind: CmdAddEnemy}
	var nums []int
	for len(args) > 1 && len(nums) < 2 {
		n, err := strconv.Atoi(args[len(args)-1])
		if err != nil {
			break
		}
		nums = append([]int{n}, nums...)
		args = args[:len(args)-1]
	}
	cmd.Text = strings.Join(args, " ")
	if cmd.Text == "" {
		return Command{}, usageError(5)
	}
	if len(nums) > 0 {
		cmd.Vit = nums[0]
	}
	if len(nums) > 1 {
		cmd.PA = nums[1]
	}
	return cmd, nil
}

func intArg(args []string, i, usage int) (int, error) {
	if i >= len(args) {
		return 0, usageError(usage)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(args[i], "#"))
	if err != nil {
		return 0, fmt.Errorf("%w: expected a number, got %q", ErrInvalidCommand, args[i])
	}
	return n, nil
}

func usageError(line int) error {
	return fmt.Errorf("%w: usage: %s", ErrInvalidCommand, Usage[line])
}
