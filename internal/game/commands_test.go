package game

import (
	"context"
	"slices"
	"testing"

	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/gamedata"
	"github.com/samdwyer/nhparity/internal/rng"
	"github.com/samdwyer/nhparity/internal/world"
)

func TestMoveIntoWallTakesNoTime(t *testing.T) {
	c := newTestContext(t, 1)
	c.Player.SetPosition(1, 1)

	res, err := c.Step(context.Background(), entity.MoveDir(entity.West))
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if res.TookTime {
		t.Error("walking into stone should take no time")
	}
	if c.Player.X != 1 || c.Turn != 1 {
		t.Errorf("player at x=%d turn %d, want x=1 turn 1", c.Player.X, c.Turn)
	}
}

func TestMoveOpensDoor(t *testing.T) {
	const seed = 21
	c := newTestContext(t, seed)
	c.Level.Cells[11][7] = world.Cell{Type: world.Door, Door: world.Closed}

	// the door roll is the first draw of the step
	twin := rng.NewStream("core", seed)
	p := c.Player
	wantOpen := twin.Rnl(20, 0) < (p.Attr(gamedata.AttrStr)+p.Attr(gamedata.AttrDex)+p.Attr(gamedata.AttrCon))/3

	res, err := c.Step(context.Background(), entity.MoveDir(entity.East))
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !res.TookTime {
		t.Error("opening a door should take time")
	}
	if p.X != 10 {
		t.Errorf("player X = %d, want 10: opening does not move", p.X)
	}
	open := c.Level.At(11, 7).Door&world.Open != 0
	if open != wantOpen {
		t.Errorf("door open = %v, want %v", open, wantOpen)
	}
}

func TestMoveLockedDoor(t *testing.T) {
	c := newTestContext(t, 21)
	c.Level.Cells[11][7] = world.Cell{Type: world.Door, Door: world.Locked}

	res, err := c.Step(context.Background(), entity.MoveDir(entity.East))
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if res.TookTime {
		t.Error("a locked door should take no time")
	}
	if !slices.Contains(res.Messages, "This door is locked.") {
		t.Errorf("messages = %v, want locked door message", res.Messages)
	}
	if c.CoreStream().Draws() != 0 {
		t.Errorf("locked door drew %d values, want 0", c.CoreStream().Draws())
	}
}

func TestMoveDiagonalDoorway(t *testing.T) {
	tests := []struct {
		name string
		door world.DoorState
		want bool
	}{
		{"open door blocks", world.Open, false},
		{"broken door allows", world.Broken, true},
		{"empty doorway allows", world.NoDoor, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t, 2)
			c.Level.Cells[11][8] = world.Cell{Type: world.Door, Door: tt.door}
			if got := c.moveDir(context.Background(), entity.SouthEast); got != tt.want {
				t.Errorf("moveDir() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPushBoulder(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(l *world.Level)
		wantMoved  bool
		wantRock   bool
		wantRockAt int
	}{
		{"rolls", func(*world.Level) {}, true, true, 12},
		{"blocked by wall", func(l *world.Level) { l.SetType(12, 7, world.VWall) }, false, true, 11},
		{"fills hole", func(l *world.Level) { l.AddTrap(world.TrapHole, 12, 7) }, true, false, 0},
		{"blocked by boulder", func(l *world.Level) {
			l.AddObject(world.Object{Kind: world.ObjectBoulder, X: 12, Y: 7, Quantity: 1})
		}, false, true, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t, 4)
			l := c.Level
			id := l.AddObject(world.Object{Kind: world.ObjectBoulder, X: 11, Y: 7, Quantity: 1})
			tt.setup(l)

			if got := c.moveDir(context.Background(), entity.East); got != tt.wantMoved {
				t.Errorf("moveDir() = %v, want %v", got, tt.wantMoved)
			}
			wantX := 10
			if tt.wantMoved {
				wantX = 11
			}
			if c.Player.X != wantX {
				t.Errorf("player X = %d, want %d", c.Player.X, wantX)
			}

			var rock *world.Object
			for i := range l.Objects {
				if l.Objects[i].ID == id {
					rock = &l.Objects[i]
				}
			}
			if (rock != nil) != tt.wantRock {
				t.Fatalf("boulder present = %v, want %v", rock != nil, tt.wantRock)
			}
			if rock != nil && rock.X != tt.wantRockAt {
				t.Errorf("boulder X = %d, want %d", rock.X, tt.wantRockAt)
			}
			if !tt.wantRock {
				if _, ok := l.TrapAt(12, 7); ok {
					t.Error("filled hole should be gone")
				}
			}
		})
	}
}

func TestPushBoulderSokobanDiagonal(t *testing.T) {
	c := newTestContext(t, 4)
	c.Level.Flags.Sokoban = true
	c.Level.AddObject(world.Object{Kind: world.ObjectBoulder, X: 11, Y: 8, Quantity: 1})

	if c.moveDir(context.Background(), entity.SouthEast) {
		t.Error("boulders should not roll diagonally in Sokoban")
	}
}

func TestPickUpGold(t *testing.T) {
	c := newTestContext(t, 4)
	c.Level.AddObject(world.Object{Kind: world.ObjectGold, X: 11, Y: 7, Quantity: 37})

	if !c.moveDir(context.Background(), entity.East) {
		t.Fatal("moveDir() = false, want true")
	}
	if c.Player.Gold != 37 {
		t.Errorf("Gold = %d, want 37", c.Player.Gold)
	}
	if len(c.Level.ObjectsAt(11, 7)) != 0 {
		t.Error("gold should be removed from the floor")
	}
}

func TestFallThroughHole(t *testing.T) {
	c := newTestContext(t, 6)
	c.Level.AddTrap(world.TrapHole, 11, 7)
	first := c.Level

	res, err := c.Step(context.Background(), entity.MoveDir(entity.East))
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !res.TookTime {
		t.Error("falling should take time")
	}
	if c.Level.Depth != 2 {
		t.Fatalf("Depth = %d, want 2", c.Level.Depth)
	}
	if saved, ok := c.visited[1]; !ok || saved.level != first {
		t.Error("the first level should be kept for a return visit")
	}
	if !c.Level.IsPassable(c.Player.X, c.Player.Y) {
		t.Errorf("player landed on impassable (%d,%d)", c.Player.X, c.Player.Y)
	}
}

func TestAttackPeacefulRefused(t *testing.T) {
	c := newTestContext(t, 4)
	m := addMonster(t, c, "gnome", 11, 7)
	m.Peaceful = true

	if c.moveDir(context.Background(), entity.East) {
		t.Error("attacking a peaceful monster should be refused")
	}
	if m.HP != m.HPMax || c.CoreStream().Draws() != 0 {
		t.Errorf("peaceful monster was attacked: hp %d, %d draws", m.HP, c.CoreStream().Draws())
	}
}

func TestAttackWakesMonster(t *testing.T) {
	c := newTestContext(t, 4)
	m := addMonster(t, c, "newt", 11, 7)
	m.Asleep = true

	if !c.moveDir(context.Background(), entity.East) {
		t.Error("attack should take time")
	}
	if c.Player.X != 10 {
		t.Errorf("player X = %d, want 10: attacking does not move", c.Player.X)
	}
	if m.IsAlive() && m.Asleep {
		t.Error("attacked monster should wake")
	}
}

func TestSearchFindsSecretDoor(t *testing.T) {
	c := newTestContext(t, 13)
	c.Level.Cells[11][7] = world.Cell{Type: world.SecretDoor}

	for range 200 {
		c.search()
		if c.Level.TypeAt(11, 7) == world.Door {
			break
		}
	}
	cell := c.Level.At(11, 7)
	if cell.Type != world.Door {
		t.Fatal("secret door not found in 200 searches")
	}
	if cell.Door&world.Closed == 0 {
		t.Errorf("found door state = %v, want closed", cell.Door)
	}
}

func TestSearchFindsSecretCorridor(t *testing.T) {
	c := newTestContext(t, 13)
	c.Level.Cells[9][6] = world.Cell{Type: world.SecretCorridor}
	c.Player.Multi = 5

	for range 200 {
		c.search()
		if c.Level.TypeAt(9, 6) == world.Corridor {
			break
		}
	}
	if c.Level.TypeAt(9, 6) != world.Corridor {
		t.Fatal("secret corridor not found in 200 searches")
	}
	if c.Player.Multi != 0 {
		t.Errorf("Multi = %d, want 0 after a find", c.Player.Multi)
	}
}

func TestStairs(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, Config{Seed: 17}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	first := c.Level

	res, err := c.Step(ctx, entity.Command{Kind: entity.CmdDescend})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if res.TookTime || c.Level != first {
		t.Error("descending off the stairs should be refused")
	}

	down, ok := first.DownStairs()
	if !ok {
		t.Fatal("first level has no down stairs")
	}
	c.Player.SetPosition(down.X, down.Y)
	if _, err := c.Step(ctx, entity.Command{Kind: entity.CmdDescend}); err != nil {
		t.Fatalf("descend error = %v", err)
	}
	if c.Level.Depth != 2 {
		t.Fatalf("Depth = %d, want 2", c.Level.Depth)
	}
	up, _ := c.Level.UpStairs()
	if c.Player.X != up.X || c.Player.Y != up.Y {
		t.Errorf("player at (%d,%d), want up stairs (%d,%d)", c.Player.X, c.Player.Y, up.X, up.Y)
	}

	if _, err := c.Step(ctx, entity.Command{Kind: entity.CmdAscend}); err != nil {
		t.Fatalf("ascend error = %v", err)
	}
	if c.Level != first {
		t.Fatal("climbing back should restore the first level")
	}
	if c.Player.X != down.X || c.Player.Y != down.Y {
		t.Errorf("player at (%d,%d), want down stairs (%d,%d)", c.Player.X, c.Player.Y, down.X, down.Y)
	}
}

func TestEscapeUpstairs(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, Config{Seed: 17}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := c.Step(ctx, entity.Command{Kind: entity.CmdAscend})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if res.Outcome != OutcomeEscaped {
		t.Errorf("Outcome = %v, want escaped", res.Outcome)
	}
	if _, err := c.Step(ctx, entity.Wait()); err != ErrGameOver {
		t.Errorf("Step() after escape error = %v, want ErrGameOver", err)
	}
}
