package world

import (
	"testing"

	"github.com/samdwyer/nhparity/internal/rng"
)

func TestFindDoorPosFallbackCorner(t *testing.T) {
	// nothing but stone: every tier fails and the corner is returned
	l := NewLevel(1, KindOrdinary)
	s := rng.NewStream("core", 42)

	got := l.FindDoorPos(s, 10, 5, 10, 8)
	if got != (Point{10, 8}) {
		t.Errorf("FindDoorPos() = %v, want (10,8)", got)
	}
	if s.Draws() != 2 {
		t.Errorf("FindDoorPos() drew %d values, want 2", s.Draws())
	}
}

func TestFindDoorPosExistingDoor(t *testing.T) {
	// a wall whose only sites all touch a door: the door itself is reused
	l := NewLevel(1, KindOrdinary)
	for y := 5; y <= 7; y++ {
		l.Cells[10][y].Type = VWall
	}
	l.Cells[10][6].Type = Door
	s := rng.NewStream("core", 42)

	got := l.FindDoorPos(s, 10, 5, 10, 7)
	if got != (Point{10, 6}) {
		t.Errorf("FindDoorPos() = %v, want (10,6)", got)
	}
	if s.Draws() != 2 {
		t.Errorf("FindDoorPos() drew %d values, want 2", s.Draws())
	}
}

func TestFindDoorPosScan(t *testing.T) {
	// one legal site among stone: random pick or scan must land on it
	l := NewLevel(1, KindOrdinary)
	l.Cells[20][9].Type = HWall
	s := rng.NewStream("core", 7)

	got := l.FindDoorPos(s, 15, 9, 25, 9)
	if got != (Point{20, 9}) {
		t.Errorf("FindDoorPos() = %v, want (20,9)", got)
	}
	if s.Draws() != 2 {
		t.Errorf("FindDoorPos() drew %d values, want 2", s.Draws())
	}
}

func TestFindDoorPosRandomPick(t *testing.T) {
	// a clean wall accepts the random candidate, replayed on a twin stream
	l := NewLevel(1, KindOrdinary)
	for x := 15; x <= 25; x++ {
		l.Cells[x][9].Type = HWall
	}
	s := rng.NewStream("core", 11)
	twin := rng.NewStream("core", 11)

	got := l.FindDoorPos(s, 15, 9, 25, 9)
	want := Point{15 + twin.Rn2(11), 9 + twin.Rn2(1)}
	if got != want {
		t.Errorf("FindDoorPos() = %v, want %v", got, want)
	}
}

func TestOkdoor(t *testing.T) {
	l := NewLevel(1, KindOrdinary)
	l.Cells[5][5].Type = HWall
	l.Cells[6][5].Type = HWall
	l.Cells[7][5].Type = Door
	l.Cells[8][8].Type = TLCorner

	tests := []struct {
		x, y int
		want bool
	}{
		{5, 5, true},
		{6, 5, false}, // next to a door
		{7, 5, false}, // already a door
		{8, 8, false}, // corner
		{0, 0, false},
		{-1, 3, false},
	}
	for _, tt := range tests {
		if got := l.okdoor(tt.x, tt.y); got != tt.want {
			t.Errorf("okdoor(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestPlaceDoorOffWallIsOrdinary(t *testing.T) {
	l := NewLevel(1, KindOrdinary)
	for seed := uint64(1); seed <= 40; seed++ {
		l.Cells[5][5].Type = RoomFloor
		l.PlaceDoor(rng.NewStream("core", seed), 5, 5)
		if got := l.TypeAt(5, 5); got != Door {
			t.Fatalf("seed %d: PlaceDoor on floor = %s, want door", seed, got)
		}
	}
	if len(l.Doors) != 1 {
		t.Errorf("door index has %d entries, want 1", len(l.Doors))
	}
}

func TestSecretDoorState(t *testing.T) {
	l := NewLevel(1, KindOrdinary)
	for seed := uint64(1); seed <= 200; seed++ {
		l.Cells[5][5] = Cell{Type: VWall}
		l.dosdoor(rng.NewStream("core", seed), 5, 5, SecretDoor)
		c := l.Cells[5][5]
		if c.Type != SecretDoor {
			t.Fatalf("seed %d: type = %s, want sdoor", seed, c.Type)
		}
		if c.Door&(Closed|Locked) == 0 {
			t.Errorf("seed %d: secret door state %s, want closed or locked", seed, c.Door)
		}
		if c.Door&Trapped != 0 {
			t.Errorf("seed %d: secret door trapped at depth 1", seed)
		}
	}
}

func TestDigCorridorStraight(t *testing.T) {
	l := NewLevel(1, KindOrdinary)
	s := rng.NewStream("core", 3)

	if !l.DigCorridor(s, Point{5, 5}, Point{15, 5}, false) {
		t.Fatal("DigCorridor() = false, want true")
	}
	for x := 5; x <= 15; x++ {
		if tp := l.TypeAt(x, 5); tp != Corridor && tp != SecretCorridor {
			t.Errorf("cell (%d,5) = %s, want corridor", x, tp)
		}
	}
}

func TestDigCorridorRejectsEdges(t *testing.T) {
	l := NewLevel(1, KindOrdinary)
	s := rng.NewStream("core", 3)

	if l.DigCorridor(s, Point{0, 5}, Point{15, 5}, false) {
		t.Error("DigCorridor() from the map edge should fail")
	}
	if s.Draws() != 0 {
		t.Errorf("rejected DigCorridor() drew %d values, want 0", s.Draws())
	}
}

func TestDigCorridorStopsAtWall(t *testing.T) {
	l := NewLevel(1, KindOrdinary)
	for y := 1; y < ROWNO-1; y++ {
		l.Cells[10][y].Type = VWall
	}
	s := rng.NewStream("core", 3)
	if l.DigCorridor(s, Point{5, 5}, Point{15, 5}, false) {
		t.Error("DigCorridor() through a wall should fail")
	}
}

func TestJoinRooms(t *testing.T) {
	l := NewLevel(1, KindOrdinary)
	a := l.AddRoom(NewRoom(5, 5, 4, 3))
	b := l.AddRoom(NewRoom(30, 8, 5, 4))
	tr := NewConnectivityTracker(len(l.Rooms))

	l.JoinRooms(rng.NewStream("core", 9), a, b, false, tr)

	if !tr.Connected(a, b) {
		t.Error("rooms should be connected after JoinRooms")
	}
	if lost := l.UnreachableRooms(); len(lost) != 0 {
		t.Errorf("UnreachableRooms() = %v, want none", lost)
	}
	if len(l.Doors) != 2 {
		t.Errorf("%d doors placed, want 2", len(l.Doors))
	}
}

func TestConnectivityTracker(t *testing.T) {
	tr := NewConnectivityTracker(3)
	if tr.Connected(0, 1) {
		t.Error("fresh rooms should not be connected")
	}

	tr.Merge(2, 1)
	if !tr.Connected(1, 2) {
		t.Error("Merge(2,1) should connect 1 and 2")
	}

	// only one label is rewritten per merge
	tr.Merge(0, 2)
	if !tr.Connected(0, 2) {
		t.Error("Merge(0,2) should connect 0 and 2")
	}
	if tr.Connected(1, 2) {
		t.Error("room 1 keeps its old label after Merge(0,2)")
	}
	if tr.AllConnected() {
		t.Error("AllConnected() = true, want false")
	}

	tr.Merge(0, 1)
	if !tr.AllConnected() {
		t.Error("AllConnected() = false, want true")
	}
	if tr.Connected(0, 7) {
		t.Error("out-of-range rooms are never connected")
	}
}

func TestRoomOverlaps(t *testing.T) {
	r := NewRoom(10, 5, 4, 3) // floor 10..13 x 5..7
	tests := []struct {
		other Room
		want  bool
	}{
		{NewRoom(15, 5, 3, 3), true},  // shares the wall column
		{NewRoom(16, 5, 3, 3), false}, // walls side by side
		{NewRoom(17, 5, 3, 3), false},
		{NewRoom(10, 11, 3, 3), false},
		{NewRoom(0, 0, 2, 2), false},
	}
	for _, tt := range tests {
		if got := r.Overlaps(tt.other, 1); got != tt.want {
			t.Errorf("Overlaps(%+v) = %v, want %v", tt.other, got, tt.want)
		}
	}
}

func TestDigCorridorStepBudget(t *testing.T) {
	// (5,5) to (15,5) through open stone is an eleven step walk
	tests := []struct {
		limit int
		want  bool
	}{
		{10, true},
		{9, false},
	}
	saved := maxCorridorSteps
	defer func() { maxCorridorSteps = saved }()
	for _, tt := range tests {
		maxCorridorSteps = tt.limit
		l := NewLevel(1, KindOrdinary)
		s := rng.NewStream("core", 5)

		got := l.digCorridor(s, Point{5, 5}, Point{15, 5}, false, RoomFloor, Stone)
		if got != tt.want {
			t.Errorf("digCorridor() with limit %d = %v, want %v", tt.limit, got, tt.want)
		}
		if s.Draws() != 0 {
			t.Errorf("digCorridor() with limit %d drew %d values, want 0", tt.limit, s.Draws())
		}
	}
}
