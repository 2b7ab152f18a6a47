package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CommandKind identifies what a command does.
type CommandKind int

const (
	CmdWait CommandKind = iota
	CmdSearch
	CmdMove
	CmdDescend
	CmdAscend
	CmdRest
	CmdNoop
)

var commandNames = map[CommandKind]string{
	CmdWait:    "wait",
	CmdSearch:  "search",
	CmdMove:    "move",
	CmdDescend: "descend",
	CmdAscend:  "ascend",
	CmdRest:    "rest",
	CmdNoop:    "noop",
}

// String returns the command kind name.
func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// Direction is one of the eight compass directions.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var directionNames = [...]string{"n", "ne", "e", "se", "s", "sw", "w", "nw"}

var directionDeltas = [...][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// String returns the short direction name.
func (d Direction) String() string {
	if d < North || d > NorthWest {
		return "?"
	}
	return directionNames[d]
}

// Delta returns the x, y offset of one step in this direction.
func (d Direction) Delta() (int, int) {
	if d < North || d > NorthWest {
		return 0, 0
	}
	return directionDeltas[d][0], directionDeltas[d][1]
}

// ParseDirection parses a short direction name.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("entity: unknown direction %q", s)
}

// Command is one player action.
type Command struct {
	Kind  CommandKind
	Dir   Direction // For CmdMove
	Count int       // For CmdRest and repeated CmdSearch
}

// Wait returns a wait command.
func Wait() Command { return Command{Kind: CmdWait} }

// Search returns a search command.
func Search() Command { return Command{Kind: CmdSearch} }

// MoveDir returns a move command.
func MoveDir(d Direction) Command { return Command{Kind: CmdMove, Dir: d} }

// Rest returns a command that waits up to n turns.
func Rest(n int) Command { return Command{Kind: CmdRest, Count: n} }

// TakesTime reports whether the command normally uses a move.
func (c Command) TakesTime() bool {
	return c.Kind != CmdNoop
}

// String renders the command in the form ParseCommand accepts.
func (c Command) String() string {
	switch c.Kind {
	case CmdMove:
		return "move:" + c.Dir.String()
	case CmdRest, CmdSearch:
		if c.Count > 0 {
			return c.Kind.String() + ":" + strconv.Itoa(c.Count)
		}
	}
	return c.Kind.String()
}

// MarshalText implements encoding.TextMarshaler.
func (c Command) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Command) UnmarshalText(text []byte) error {
	parsed, err := ParseCommand(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

var keyCommands = map[string]Command{
	".": Wait(),
	"s": Search(),
	">": {Kind: CmdDescend},
	"<": {Kind: CmdAscend},
	"k": MoveDir(North),
	"u": MoveDir(NorthEast),
	"l": MoveDir(East),
	"n": MoveDir(SouthEast),
	"j": MoveDir(South),
	"b": MoveDir(SouthWest),
	"h": MoveDir(West),
	"y": MoveDir(NorthWest),
}

// ParseCommand parses "wait", "search[:N]", "move:DIR", "descend",
// "ascend", "rest:N", "noop" or a single roguelike key.
func ParseCommand(s string) (Command, error) {
	s = strings.TrimSpace(s)
	if c, ok := keyCommands[s]; ok {
		return c, nil
	}

	name, arg, hasArg := strings.Cut(s, ":")
	switch name {
	case "wait":
		return Wait(), nil
	case "descend":
		return Command{Kind: CmdDescend}, nil
	case "ascend":
		return Command{Kind: CmdAscend}, nil
	case "noop":
		return Command{Kind: CmdNoop}, nil
	case "move":
		if !hasArg {
			return Command{}, errors.New("entity: move needs a direction")
		}
		d, err := ParseDirection(arg)
		if err != nil {
			return Command{}, err
		}
		return MoveDir(d), nil
	case "search", "rest":
		c := Command{Kind: CmdSearch}
		if name == "rest" {
			c.Kind = CmdRest
		}
		if !hasArg {
			if c.Kind == CmdRest {
				return Command{}, errors.New("entity: rest needs a turn count")
			}
			return c, nil
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return Command{}, fmt.Errorf("entity: invalid count %q", arg)
		}
		c.Count = n
		return c, nil
	}
	return Command{}, fmt.Errorf("entity: unknown command %q", s)
}

// ParseCommands parses a whitespace or comma separated command script.
func ParseCommands(script string) ([]Command, error) {
	fields := strings.FieldsFunc(script, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
	cmds := make([]Command, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCommand(f)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}
