package world

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/samdwyer/nhparity/internal/gamedata"
	"github.com/samdwyer/nhparity/internal/rng"
)

func generate(t *testing.T, seed uint64, p Params) *Level {
	t.Helper()
	g := NewGenerator(rng.NewStream("core", seed))
	l, err := g.Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("Generate(seed=%d, %+v) error: %v", seed, p, err)
	}
	return l
}

func TestLevelReproducibility(t *testing.T) {
	for _, kind := range []LevelKind{KindOrdinary, KindMaze, KindBigRoom} {
		l1 := generate(t, 12345, Params{Depth: 3, Kind: kind})
		l2 := generate(t, 12345, Params{Depth: 3, Kind: kind})

		if len(l1.Rooms) != len(l2.Rooms) {
			t.Fatalf("%s: room count mismatch: %d != %d", kind, len(l1.Rooms), len(l2.Rooms))
		}
		for i := range l1.Rooms {
			if l1.Rooms[i] != l2.Rooms[i] {
				t.Errorf("%s: room %d mismatch: %+v != %+v", kind, i, l1.Rooms[i], l2.Rooms[i])
			}
		}
		if l1.Cells != l2.Cells {
			t.Errorf("%s: cells differ for identical seeds", kind)
		}
	}
}

func TestLevelDifferentSeeds(t *testing.T) {
	l1 := generate(t, 12345, Params{Depth: 1})
	l2 := generate(t, 54321, Params{Depth: 1})
	if l1.Cells == l2.Cells {
		t.Error("Levels with different seeds should not be identical")
	}
}

func TestConnectivityAcrossConfigurations(t *testing.T) {
	type config struct {
		seed uint64
		p    Params
	}
	var configs []config
	for seed := uint64(1); seed <= 20; seed++ {
		configs = append(configs, config{seed, Params{Depth: int(seed%12) + 1}})
	}
	for seed := uint64(100); seed < 106; seed++ {
		configs = append(configs, config{seed, Params{Depth: int(seed % 30), Kind: KindMaze}})
	}
	for _, name := range []string{"soko1a", "soko1b", "soko2a", "soko2b", "soko3a", "soko3b", "soko4a", "soko4b"} {
		configs = append(configs, config{7, Params{Depth: 6, Kind: KindSokoban, Special: name}})
	}
	configs = append(configs,
		config{42, Params{Depth: 10, Kind: KindBigRoom}},
		config{43, Params{Depth: 12, Kind: KindBigRoom}},
	)
	if len(configs) < 30 {
		t.Fatalf("only %d configurations", len(configs))
	}

	for _, c := range configs {
		l := generate(t, c.seed, c.p)
		if lost := l.UnreachableRooms(); len(lost) != 0 {
			t.Errorf("seed %d %s: unreachable rooms %v", c.seed, c.p.Kind, lost)
		}
		if !l.Connected() {
			t.Errorf("seed %d %s: level not connected", c.seed, c.p.Kind)
		}
		if len(l.Stairs) == 0 {
			t.Errorf("seed %d %s: no stairs", c.seed, c.p.Kind)
		}
	}
}

func TestOrdinaryLevelInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		l := generate(t, seed, Params{Depth: 4})

		if n := len(l.Rooms); n < minRooms || n > roomTargetBase+roomTargetRnd {
			t.Errorf("seed %d: %d rooms, want %d..%d", seed, n, minRooms, roomTargetBase+roomTargetRnd)
		}

		for i, r := range l.Rooms {
			if i > 0 && l.Rooms[i-1].Lx > r.Lx {
				t.Errorf("seed %d: rooms not sorted left to right at %d", seed, i)
			}
			if r.Irregular {
				t.Errorf("seed %d: ordinary room %d marked irregular", seed, i)
			}
			for j := i + 1; j < len(l.Rooms); j++ {
				if r.Overlaps(l.Rooms[j], roomBuffer) {
					t.Errorf("seed %d: rooms %d and %d overlap", seed, i, j)
				}
			}
			for x := r.Lx; x <= r.Hx; x++ {
				for y := r.Ly; y <= r.Hy; y++ {
					c := l.Cells[x][y]
					if c.Roomno != i+1 {
						t.Errorf("seed %d: cell (%d,%d) roomno = %d, want %d", seed, x, y, c.Roomno, i+1)
					}
					switch c.Type {
					case RoomFloor, Stairs, Fountain, Sink:
					default:
						t.Errorf("seed %d: room %d cell (%d,%d) = %s", seed, i, x, y, c.Type)
					}
				}
			}
			// walls or doors just outside the floor
			for x := r.Lx; x <= r.Hx; x++ {
				for _, y := range []int{r.Ly - 1, r.Hy + 1} {
					if tp := l.TypeAt(x, y); !tp.IsWall() && tp != Door && tp != SecretDoor {
						t.Errorf("seed %d: room %d border (%d,%d) = %s", seed, i, x, y, tp)
					}
				}
			}
		}

		up, okUp := l.UpStairs()
		down, okDown := l.DownStairs()
		if !okUp || !okDown {
			t.Fatalf("seed %d: missing stairs", seed)
		}
		if l.RoomIndexAt(up.X, up.Y) == l.RoomIndexAt(down.X, down.Y) {
			t.Errorf("seed %d: up and down stairs share a room", seed)
		}
		if down.Destination != 5 || up.Destination != 3 {
			t.Errorf("seed %d: stair destinations = %d/%d, want 3/5", seed, up.Destination, down.Destination)
		}

		for _, d := range l.Doors {
			if tp := l.TypeAt(d.X, d.Y); tp != Door && tp != SecretDoor {
				t.Errorf("seed %d: door index %v holds %s", seed, d, tp)
			}
		}
		for _, o := range l.Objects {
			if o.Kind == ObjectGold && o.Quantity < 2 {
				t.Errorf("seed %d: gold pile of %d", seed, o.Quantity)
			}
		}
	}
}

func TestMazeLevel(t *testing.T) {
	l := generate(t, 99, Params{Depth: 20, Kind: KindMaze})

	if !l.Flags.Maze {
		t.Error("maze level should carry the maze flag")
	}
	if _, ok := l.UpStairs(); !ok {
		t.Error("maze has no up stairs")
	}
	if _, ok := l.DownStairs(); !ok {
		t.Error("maze has no down stairs")
	}
	if l.Cells[0][0].Lit {
		t.Error("deep maze should be dark")
	}

	// wallify leaves no bare stone beside a passage
	for x := 1; x < COLNO-1; x++ {
		for y := 1; y < ROWNO-1; y++ {
			if l.Cells[x][y].Type != Stone {
				continue
			}
			for _, d := range [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				if mazePassage(l.Cells[x+d.X][y+d.Y].Type) {
					t.Fatalf("stone at (%d,%d) borders a passage", x, y)
				}
			}
		}
	}

	for i, r := range l.Rooms {
		if r.Type != RoomMaze {
			t.Errorf("maze room %d type = %s, want maze", i, r.Type)
		}
	}
}

func TestSpineTable(t *testing.T) {
	tests := []struct {
		idx  int
		want CellType
	}{
		{0, VWall},
		{3, HWall},
		{5, TRCorner},
		{6, TLCorner},
		{9, BRCorner},
		{10, BLCorner},
		{7, TDWall},
		{11, TUWall},
		{13, TLWall},
		{14, TRWall},
		{15, CrossWall},
	}
	for _, tt := range tests {
		if spine[tt.idx] != tt.want {
			t.Errorf("spine[%d] = %s, want %s", tt.idx, spine[tt.idx], tt.want)
		}
	}
}

func TestSokobanLevels(t *testing.T) {
	tests := []struct {
		name     string
		boulders int
		holes    int
		prize    int
	}{
		{"soko1a", 4, 0, 0},
		{"soko1b", 8, 0, 0},
		{"soko2a", 11, 4, 0},
		{"soko3b", 12, 4, 0},
		{"soko4a", 15, 4, 1},
		{"soko4b", 15, 4, 1},
	}
	for _, tt := range tests {
		l := generate(t, 1, Params{Depth: 6, Kind: KindSokoban, Special: tt.name})

		boulders, prize := 0, 0
		for _, o := range l.Objects {
			switch o.Kind {
			case ObjectBoulder:
				boulders++
				if l.TypeAt(o.X, o.Y) != RoomFloor {
					t.Errorf("%s: boulder at %d,%d on %s", tt.name, o.X, o.Y, l.TypeAt(o.X, o.Y))
				}
			case ObjectPrize:
				prize++
			}
		}
		if boulders != tt.boulders {
			t.Errorf("%s: %d boulders, want %d", tt.name, boulders, tt.boulders)
		}
		if prize != tt.prize {
			t.Errorf("%s: %d prizes, want %d", tt.name, prize, tt.prize)
		}
		if len(l.Traps) != tt.holes {
			t.Errorf("%s: %d holes, want %d", tt.name, len(l.Traps), tt.holes)
		}
		for _, tr := range l.Traps {
			if tr.Kind != TrapHole {
				t.Errorf("%s: trap kind %s, want hole", tt.name, tr.Kind)
			}
		}
		if !l.Flags.NoTeleport || !l.Flags.Sokoban || !l.Flags.HardFloor {
			t.Errorf("%s: flags = %+v, want no-teleport, sokoban and hard floor", tt.name, l.Flags)
		}
		if l.Name != tt.name {
			t.Errorf("%s: Name = %q", tt.name, l.Name)
		}
	}
}

func TestSokobanVariantDraw(t *testing.T) {
	s := rng.NewStream("core", 5)
	g := NewGenerator(s)
	l, err := g.Generate(context.Background(), Params{Depth: 7, Kind: KindSokoban, Special: "soko2"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if l.Name != "soko2a" && l.Name != "soko2b" {
		t.Errorf("Name = %q, want soko2a or soko2b", l.Name)
	}
	if s.Draws() != 1 {
		t.Errorf("variant selection drew %d values, want 1", s.Draws())
	}
}

func TestSokobanEntryStairsReachable(t *testing.T) {
	rows, err := gamedata.SokobanMap("soko1a")
	if err != nil {
		t.Fatalf("SokobanMap() error: %v", err)
	}
	l := NewLevel(1, KindSokoban)
	l.applyMap(rows)
	if !l.Connected() {
		t.Fatal("soko1a is not connected")
	}

	// a solid bottom wall would cut the up stairs off from the puzzle
	sealed := slices.Clone(rows)
	sealed[14] = "--------- ----|"
	l = NewLevel(1, KindSokoban)
	l.applyMap(sealed)
	if l.Connected() {
		t.Error("soko1a with a sealed stair room reports connected")
	}
}

func TestUnknownSpecial(t *testing.T) {
	g := NewGenerator(rng.NewStream("core", 1))
	_, err := g.Generate(context.Background(), Params{Kind: KindSokoban, Special: "soko9a"})
	if !errors.Is(err, ErrUnknownSpecial) {
		t.Fatalf("Generate(soko9a) error = %v, want ErrUnknownSpecial", err)
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		t.Error("unknown special level should not be wrapped as a generation fault")
	}
}

func TestBigRoom(t *testing.T) {
	l := generate(t, 8, Params{Depth: 11, Kind: KindBigRoom})
	if len(l.Rooms) != 1 || l.Rooms[0].Type != RoomBig {
		t.Fatalf("Rooms = %+v, want one big room", l.Rooms)
	}
	pillars := 0
	r := l.Rooms[0]
	if !r.Irregular {
		t.Error("big room with pillars is not marked irregular")
	}
	for x := r.Lx; x <= r.Hx; x++ {
		for y := r.Ly; y <= r.Hy; y++ {
			if l.Cells[x][y].Type == Stone {
				pillars++
			}
		}
	}
	if pillars < 1 || pillars > 14 {
		t.Errorf("%d pillars, want 1..14", pillars)
	}
	if len(l.Stairs) != 2 {
		t.Errorf("%d staircases, want 2", len(l.Stairs))
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGenerator(rng.NewStream("core", 1))
	if _, err := g.Generate(ctx, Params{Depth: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("Generate(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestGenerationError(t *testing.T) {
	err := error(&GenerationError{Attempts: 10, Depth: 3, Err: ErrUnreachableRoom})
	if !errors.Is(err, ErrUnreachableRoom) {
		t.Error("GenerationError should unwrap to its cause")
	}
	want := "world: generation failed at depth 3 after 10 attempts: unreachable room"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestParseLevelKind(t *testing.T) {
	for _, k := range []LevelKind{KindOrdinary, KindMaze, KindSokoban, KindBigRoom} {
		got, err := ParseLevelKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseLevelKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseLevelKind("castle"); err == nil {
		t.Error("ParseLevelKind(\"castle\") should fail")
	}
}
