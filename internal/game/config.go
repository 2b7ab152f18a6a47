package game

import "github.com/samdwyer/nhparity/internal/world"

const (
	defaultName  = "Agent"
	defaultRole  = "valkyrie"
	defaultRace  = "human"
	defaultDepth = 1

	// Below this depth ordinary levels give way to mazes.
	mazeDepth = 26
)

// LevelSpec overrides the kind of level generated at one depth.
type LevelSpec struct {
	Kind    world.LevelKind
	Special string
}

// Config holds game configuration options.
type Config struct {
	// Seed for both random streams. The same seed and commands always
	// reproduce the same game.
	Seed uint64

	Name  string
	Role  string
	Race  string
	Depth int // Starting depth

	// Levels overrides the generated level kind per depth.
	Levels map[int]LevelSpec

	// MaxAttempts bounds level generation retries; 0 uses the default.
	MaxAttempts int

	// TraceCapacity enables core stream tracing from the first draw when
	// positive.
	TraceCapacity int
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Role == "" {
		c.Role = defaultRole
	}
	if c.Race == "" {
		c.Race = defaultRace
	}
	if c.Depth < 1 {
		c.Depth = defaultDepth
	}
	return c
}

// levelParams returns the generation parameters for depth.
func (c Config) levelParams(depth int) world.Params {
	p := world.Params{Depth: depth, Kind: world.KindOrdinary, MaxAttempts: c.MaxAttempts}
	if spec, ok := c.Levels[depth]; ok {
		p.Kind = spec.Kind
		p.Special = spec.Special
	} else if depth >= mazeDepth {
		p.Kind = world.KindMaze
	}
	return p
}
