package game

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/nhparity/internal/combat"
	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/gamedata"
	"github.com/samdwyer/nhparity/internal/rng"
	"github.com/samdwyer/nhparity/internal/telemetry"
	"github.com/samdwyer/nhparity/internal/world"
)

// firstAttribCheck is the turn of the first exercise check.
const firstAttribCheck = 600

// Context holds the entire simulation state. It is owned by one goroutine.
type Context struct {
	Player   *entity.Player
	Monsters *entity.MonsterList
	Level    *world.Level
	Turn     int

	core     *rng.Stream
	display  *rng.Stream
	cfg      Config
	species  *gamedata.SpeciesRegistry
	resolver *combat.Resolver
	gen      *world.Generator
	out      Display

	status   Status
	final    Result
	messages []string

	visited    map[int]*savedLevel
	regions    []Region
	engravings map[world.Point]string

	nextAttribCheck int
	resting         bool
	sleeping        bool
	pending         *transition
	onWake          func()
}

// savedLevel is a level the player has left, kept with what lives on it.
type savedLevel struct {
	level      *world.Level
	monsters   *entity.MonsterList
	regions    []Region
	engravings map[world.Point]string
}

// New creates a game from cfg. All character creation and level
// generation draws come from the core stream, in that order.
func New(ctx context.Context, cfg Config, display Display) (*Context, error) {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.new")
	defer span.End()

	cfg = cfg.withDefaults()
	span.SetAttributes(
		attribute.Int64("seed", int64(cfg.Seed)),
		attribute.String("role", cfg.Role),
		attribute.String("race", cfg.Race),
	)

	roles, err := gamedata.LoadRoleRegistry()
	if err != nil {
		return nil, fmt.Errorf("game: load roles: %w", err)
	}
	role := roles.Role(cfg.Role)
	if role == nil {
		return nil, fmt.Errorf("game: unknown role %q", cfg.Role)
	}
	race := roles.Race(cfg.Race)
	if race == nil {
		return nil, fmt.Errorf("game: unknown race %q", cfg.Race)
	}
	species, err := gamedata.LoadSpeciesRegistry()
	if err != nil {
		return nil, fmt.Errorf("game: load species: %w", err)
	}
	if display == nil {
		display = nopDisplay{}
	}

	core := rng.NewStream("core", cfg.Seed)
	if cfg.TraceCapacity > 0 {
		core.EnableTrace(cfg.TraceCapacity)
	}
	c := &Context{
		Turn:            1,
		core:            core,
		display:         rng.NewStream("display", cfg.Seed),
		cfg:             cfg,
		species:         species,
		resolver:        combat.NewResolver(core),
		gen:             world.NewGenerator(core),
		out:             display,
		visited:         make(map[int]*savedLevel),
		nextAttribCheck: firstAttribCheck,
	}
	c.Player = entity.NewPlayer(cfg.Name, role, race, core)
	c.Player.Movement = entity.NormalSpeed

	if err := c.enterLevel(ctx, cfg.Depth, arriveStart); err != nil {
		telemetry.Fail(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("player.hp", c.Player.HP),
		attribute.Int("level.rooms", len(c.Level.Rooms)),
		attribute.Int("monsters", c.Monsters.Len()),
	)
	return c, nil
}

// Step applies one command and runs the world until the player can act
// again. Once the game has ended every call returns ErrGameOver.
func (c *Context) Step(ctx context.Context, cmd entity.Command) (Result, error) {
	if c.status == StatusGameOver {
		return c.final, ErrGameOver
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.step")
	defer span.End()
	span.SetAttributes(
		attribute.Int("turn", c.Turn),
		attribute.String("command", cmd.String()),
	)

	c.messages = nil
	res, err := c.step(ctx, cmd)
	res.Turn = c.Turn
	res.Messages = c.messages
	if err != nil {
		telemetry.Fail(span, err)
		return res, err
	}
	if res.Outcome.Terminal() {
		c.status = StatusGameOver
		c.final = res
		c.out.GameOver(res)
	}
	c.out.TurnEnded(c)

	span.SetAttributes(
		attribute.Bool("took_time", res.TookTime),
		attribute.String("outcome", res.Outcome.String()),
		attribute.Int("player.hp", c.Player.HP),
	)
	return res, nil
}

// step runs the command, repeating it while the player has a repeat count.
func (c *Context) step(ctx context.Context, cmd entity.Command) (Result, error) {
	var res Result
	c.resting = false
	if !c.Player.Helpless() {
		c.Player.Multi = 0
		if (cmd.Kind == entity.CmdRest || cmd.Kind == entity.CmdSearch) && cmd.Count > 1 {
			c.Player.Multi = cmd.Count - 1
		}
		c.resting = cmd.Kind == entity.CmdRest
	}

	for {
		took, err := c.act(ctx, cmd)
		if err != nil {
			return res, err
		}
		if c.pending != nil && !c.Player.Helpless() {
			if err := c.applyTransition(ctx); err != nil {
				return res, err
			}
		}
		if took {
			res.TookTime = true
		}
		if c.over() {
			return c.finalResult(res.TookTime), nil
		}
		if took {
			if err := c.advance(); err != nil {
				return res, err
			}
			if c.over() {
				return c.finalResult(true), nil
			}
		}
		if !c.repeat() {
			return res, nil
		}
	}
}

func (c *Context) finalResult(tookTime bool) Result {
	res := c.final
	res.TookTime = tookTime
	return res
}

// repeat consumes one unit of the repeat count, stopping early when a
// rest is complete or a hostile monster is adjacent.
func (c *Context) repeat() bool {
	p := c.Player
	if p.Multi <= 0 {
		return false
	}
	if c.resting && p.GetHP() >= p.GetMaxHP() {
		p.Multi = 0
		return false
	}
	if c.hostileAdjacent() {
		p.Multi = 0
		return false
	}
	p.Multi--
	return true
}

// die ends the game with cause.
func (c *Context) die(cause string) {
	c.final = Result{Outcome: OutcomeDied, Cause: cause}
	c.message("You die...")
}

// over reports whether a terminal outcome has been reached.
func (c *Context) over() bool {
	return c.final.Outcome.Terminal()
}

func (c *Context) message(text string) {
	c.messages = append(c.messages, text)
	c.out.Message(text)
}

// CoreStream returns the stream every game-affecting draw comes from.
func (c *Context) CoreStream() *rng.Stream {
	return c.core
}

// DisplayStream returns the stream reserved for cosmetic draws.
func (c *Context) DisplayStream() *rng.Stream {
	return c.display
}

// Status returns whether the game still accepts commands.
func (c *Context) Status() Status {
	return c.status
}

// Config returns the configuration the game was created with.
func (c *Context) Config() Config {
	return c.cfg
}

// Final returns the terminal result. Before the game ends its outcome is
// OutcomeContinue.
func (c *Context) Final() Result {
	return c.final
}
