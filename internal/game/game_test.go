package game

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/samdwyer/nhparity/internal/combat"
	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/gamedata"
	"github.com/samdwyer/nhparity/internal/rng"
	"github.com/samdwyer/nhparity/internal/world"
)

// newTestContext builds a game by hand around one open room spanning
// (1,1)-(60,15), with the player at (10,7). Nothing has been drawn from
// the core stream yet and no monsters are ever spawned.
func newTestContext(t *testing.T, seed uint64) *Context {
	t.Helper()
	roles := gamedata.MustLoadRoleRegistry()
	role, race := roles.Role("valkyrie"), roles.Race("human")
	if role == nil || race == nil {
		t.Fatal("missing valkyrie or human")
	}

	p := &entity.Player{
		Name:        "Tester",
		Role:        role,
		Race:        race,
		Symbol:      '@',
		HP:          10,
		HPMax:       10,
		Level:       1,
		AC:          entity.BaseAC,
		Hunger:      entity.InitialNutrition,
		HungerState: entity.NotHungry,
		Movement:    entity.NormalSpeed,
	}
	p.Attrs = [gamedata.NumAttrs]int{16, 10, 10, 14, 14, 10}
	p.AttrMax = p.Attrs
	p.SetPosition(10, 7)

	l := world.NewLevel(1, world.KindOrdinary)
	for x := 1; x <= 60; x++ {
		for y := 1; y <= 15; y++ {
			l.SetType(x, y, world.RoomFloor)
		}
	}

	core := rng.NewStream("core", seed)
	return &Context{
		Player:          p,
		Monsters:        entity.NewMonsterList(),
		Level:           l,
		Turn:            1,
		core:            core,
		display:         rng.NewStream("display", seed),
		cfg:             Config{Seed: seed}.withDefaults(),
		species:         gamedata.NewSpeciesRegistry(nil),
		resolver:        combat.NewResolver(core),
		gen:             world.NewGenerator(core),
		out:             nopDisplay{},
		visited:         make(map[int]*savedLevel),
		engravings:      make(map[world.Point]string),
		nextAttribCheck: firstAttribCheck,
	}
}

func addMonster(t *testing.T, c *Context, id string, x, y int) *entity.Monster {
	t.Helper()
	sp := gamedata.MustLoadSpeciesRegistry().GetByID(id)
	if sp == nil {
		t.Fatalf("missing species %q", id)
	}
	m := &entity.Monster{Species: sp, X: x, Y: y, HP: 5, HPMax: 5, Level: sp.Level}
	c.Monsters.Add(m)
	return m
}

type recordingDisplay struct {
	messages []string
	levels   int
	turns    int
	results  []Result
}

func (d *recordingDisplay) Message(text string) { d.messages = append(d.messages, text) }
func (d *recordingDisplay) LevelChanged(*world.Level) { d.levels++ }
func (d *recordingDisplay) TurnEnded(*Context) { d.turns++ }
func (d *recordingDisplay) GameOver(res Result) { d.results = append(d.results, res) }

func TestNewInitialPlayer(t *testing.T) {
	c, err := New(context.Background(), Config{Seed: 42}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// character creation draws first, so a twin stream reproduces it
	roles := gamedata.MustLoadRoleRegistry()
	twin := entity.NewPlayer("Agent", roles.Role("valkyrie"), roles.Race("human"), rng.NewStream("core", 42))

	p := c.Player
	if p.HP != 16 || p.HPMax != 16 {
		t.Errorf("HP = %d/%d, want 16/16", p.HP, p.HPMax)
	}
	if p.HPMax != twin.HPMax || p.Attrs != twin.Attrs {
		t.Errorf("player = %d %v, want %d %v", p.HPMax, p.Attrs, twin.HPMax, twin.Attrs)
	}
	if c.Turn != 1 {
		t.Errorf("Turn = %d, want 1", c.Turn)
	}
	if c.Level.Depth != 1 {
		t.Errorf("Depth = %d, want 1", c.Level.Depth)
	}
	st, ok := c.Level.UpStairs()
	if !ok {
		t.Fatal("level has no up stairs")
	}
	if p.X != st.X || p.Y != st.Y {
		t.Errorf("player at (%d,%d), want up stairs (%d,%d)", p.X, p.Y, st.X, st.Y)
	}
	if c.DisplayStream().Draws() != 0 {
		t.Errorf("display stream drew %d values, want 0", c.DisplayStream().Draws())
	}
}

func TestNewUnknownRole(t *testing.T) {
	if _, err := New(context.Background(), Config{Seed: 1, Role: "jester"}, nil); err == nil {
		t.Error("New() with unknown role should fail")
	}
	if _, err := New(context.Background(), Config{Seed: 1, Race: "hobbit"}, nil); err == nil {
		t.Error("New() with unknown race should fail")
	}
}

type checkpoint struct {
	turn, hp, hunger, x, y, monsters int
	draws                            uint64
}

func playWaits(t *testing.T, seed uint64, steps int) []checkpoint {
	t.Helper()
	ctx := context.Background()
	c, err := New(ctx, Config{Seed: seed}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var out []checkpoint
	last := c.Turn
	for i := 1; i <= steps; i++ {
		_, err := c.Step(ctx, entity.Wait())
		if errors.Is(err, ErrGameOver) {
			break
		}
		if err != nil {
			t.Fatalf("Step() error = %v", err)
		}
		if c.Turn < last {
			t.Fatalf("turn went from %d to %d", last, c.Turn)
		}
		last = c.Turn
		if i%100 == 0 {
			p := c.Player
			out = append(out, checkpoint{c.Turn, p.HP, p.Hunger, p.X, p.Y, c.Monsters.Len(), c.CoreStream().Draws()})
		}
	}
	return out
}

func TestStepDeterministic(t *testing.T) {
	a := playWaits(t, 42, 1000)
	b := playWaits(t, 42, 1000)
	if len(a) == 0 {
		t.Fatal("no checkpoints recorded")
	}
	if !slices.Equal(a, b) {
		t.Errorf("same seed diverged:\n%v\n%v", a, b)
	}
}

func TestStepTurnAdvances(t *testing.T) {
	c := newTestContext(t, 3)
	res, err := c.Step(context.Background(), entity.Wait())
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !res.TookTime {
		t.Error("wait should take time")
	}
	if res.Turn != 2 || c.Turn != 2 {
		t.Errorf("Turn = %d, want 2", c.Turn)
	}
	if c.Player.Movement != entity.NormalSpeed {
		t.Errorf("Movement = %d, want %d", c.Player.Movement, entity.NormalSpeed)
	}
}

func TestStepNoopTakesNoTime(t *testing.T) {
	c := newTestContext(t, 3)
	res, err := c.Step(context.Background(), entity.Command{Kind: entity.CmdNoop})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if res.TookTime || c.Turn != 1 {
		t.Errorf("noop: TookTime = %v, Turn = %d, want false, 1", res.TookTime, c.Turn)
	}
	if c.CoreStream().Draws() != 0 {
		t.Errorf("noop drew %d values, want 0", c.CoreStream().Draws())
	}
}

func TestStepCancelled(t *testing.T) {
	c := newTestContext(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Step(ctx, entity.Wait()); !errors.Is(err, context.Canceled) {
		t.Errorf("Step() error = %v, want context.Canceled", err)
	}
	if c.Turn != 1 || c.CoreStream().Draws() != 0 {
		t.Errorf("cancelled step advanced the game: turn %d, %d draws", c.Turn, c.CoreStream().Draws())
	}
}

func TestStepDeathShortCircuits(t *testing.T) {
	c := newTestContext(t, 5)
	rec := &recordingDisplay{}
	c.out = rec
	c.Player.Timers.Stoned = 1

	res, err := c.Step(context.Background(), entity.Wait())
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if res.Outcome != OutcomeDied || res.Cause != "turned to stone" {
		t.Errorf("Step() = %v %q, want died \"turned to stone\"", res.Outcome, res.Cause)
	}
	if c.Status() != StatusGameOver {
		t.Errorf("Status() = %v, want game over", c.Status())
	}
	if len(rec.results) != 1 {
		t.Errorf("GameOver called %d times, want 1", len(rec.results))
	}

	again, err := c.Step(context.Background(), entity.Wait())
	if !errors.Is(err, ErrGameOver) {
		t.Errorf("Step() after death error = %v, want ErrGameOver", err)
	}
	if again.Cause != res.Cause {
		t.Errorf("Step() after death cause = %q, want %q", again.Cause, res.Cause)
	}
}

func TestRunEffectsStopsAtDeath(t *testing.T) {
	c := newTestContext(t, 5)
	c.Player.Timers.Stoned = 1
	c.Player.BlessCount = 5

	c.runEffects()
	if !c.over() {
		t.Fatal("stoning should end the game")
	}
	if c.Player.BlessCount != 5 {
		t.Errorf("BlessCount = %d, want 5: effects after death should not run", c.Player.BlessCount)
	}
}

func TestEffectNames(t *testing.T) {
	want := []string{
		"glib", "timers", "regions", "bless", "regen_hp", "exertion",
		"regen_energy", "teleport", "polymorph", "search", "sounds", "storms",
		"hunger", "spells", "exercise", "special_rooms", "engravings", "intervention",
	}
	if got := EffectNames(); !slices.Equal(got, want) {
		t.Errorf("EffectNames() = %v, want %v", got, want)
	}
}

func TestHelplessConsumesCommands(t *testing.T) {
	c := newTestContext(t, 9)
	c.fallAsleep(3)
	ctx := context.Background()

	for i := range 3 {
		res, err := c.Step(ctx, entity.MoveDir(entity.East))
		if err != nil {
			t.Fatalf("Step() error = %v", err)
		}
		if !res.TookTime {
			t.Errorf("step %d: helpless turn should take time", i)
		}
		if c.Player.X != 10 || c.Player.Y != 7 {
			t.Fatalf("step %d: helpless player moved to (%d,%d)", i, c.Player.X, c.Player.Y)
		}
		if i == 2 && !slices.Contains(res.Messages, "You wake up.") {
			t.Errorf("messages = %v, want wake up", res.Messages)
		}
	}
	if c.Player.Multi != 0 || c.sleeping {
		t.Errorf("Multi = %d, sleeping = %v, want 0, false", c.Player.Multi, c.sleeping)
	}

	if _, err := c.Step(ctx, entity.MoveDir(entity.East)); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if c.Player.X != 11 {
		t.Errorf("awake player X = %d, want 11", c.Player.X)
	}
}

func TestRepeatCount(t *testing.T) {
	tests := []struct {
		name     string
		cmd      entity.Command
		hp       int
		wantTurn int
	}{
		{"rest at full hp stops at once", entity.Rest(5), 10, 2},
		{"search repeats", entity.Command{Kind: entity.CmdSearch, Count: 3}, 10, 4},
		{"single search", entity.Search(), 10, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t, 11)
			c.Player.HP = tt.hp
			if _, err := c.Step(context.Background(), tt.cmd); err != nil {
				t.Fatalf("Step() error = %v", err)
			}
			if c.Turn != tt.wantTurn {
				t.Errorf("Turn = %d, want %d", c.Turn, tt.wantTurn)
			}
			if c.Player.Multi != 0 {
				t.Errorf("Multi = %d, want 0", c.Player.Multi)
			}
		})
	}
}

func TestRepeatStopsForHostile(t *testing.T) {
	c := newTestContext(t, 11)
	m := addMonster(t, c, "newt", 11, 7)
	m.Asleep = false
	if !c.hostileAdjacent() {
		t.Fatal("awake newt next to the player should count as hostile")
	}
	c.Player.Multi = 4
	if c.repeat() {
		t.Error("repeat() should stop next to a hostile monster")
	}
	if c.Player.Multi != 0 {
		t.Errorf("Multi = %d, want 0", c.Player.Multi)
	}

	m.Peaceful = true
	if c.hostileAdjacent() {
		t.Error("peaceful monster should not interrupt")
	}
}

func TestDisplayEvents(t *testing.T) {
	rec := &recordingDisplay{}
	c, err := New(context.Background(), Config{Seed: 8}, rec)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if rec.levels != 1 {
		t.Errorf("LevelChanged called %d times, want 1", rec.levels)
	}
	if _, err := c.Step(context.Background(), entity.Wait()); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if rec.turns != 1 {
		t.Errorf("TurnEnded called %d times, want 1", rec.turns)
	}
}
