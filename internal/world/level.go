package world

import "fmt"

const (
	// COLNO is the map width.
	COLNO = 80
	// ROWNO is the map height.
	ROWNO = 21
)

// Point is a map coordinate.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// LevelKind selects the generator used for a level.
type LevelKind uint8

const (
	KindOrdinary LevelKind = iota
	KindMaze
	KindSokoban
	KindBigRoom
)

// String returns the level kind name.
func (k LevelKind) String() string {
	switch k {
	case KindOrdinary:
		return "ordinary"
	case KindMaze:
		return "maze"
	case KindSokoban:
		return "sokoban"
	case KindBigRoom:
		return "bigroom"
	default:
		return "unknown"
	}
}

// ParseLevelKind converts a name produced by LevelKind.String back.
func ParseLevelKind(s string) (LevelKind, error) {
	switch s {
	case "", "ordinary":
		return KindOrdinary, nil
	case "maze":
		return KindMaze, nil
	case "sokoban":
		return KindSokoban, nil
	case "bigroom":
		return KindBigRoom, nil
	}
	return 0, fmt.Errorf("world: unknown level kind %q", s)
}

// ObjectKind identifies the floor objects the generator places.
type ObjectKind uint8

const (
	ObjectGold ObjectKind = iota
	ObjectBoulder
	ObjectPrize
)

// String returns the object kind name.
func (k ObjectKind) String() string {
	switch k {
	case ObjectGold:
		return "gold"
	case ObjectBoulder:
		return "boulder"
	case ObjectPrize:
		return "prize"
	default:
		return "unknown"
	}
}

// BUC is an object's blessed/uncursed/cursed state.
type BUC int8

const (
	Cursed   BUC = -1
	Uncursed BUC = 0
	Blessed  BUC = 1
)

// String returns the BUC name.
func (b BUC) String() string {
	switch b {
	case Cursed:
		return "cursed"
	case Uncursed:
		return "uncursed"
	case Blessed:
		return "blessed"
	default:
		return "unknown"
	}
}

// Object is an item lying on the floor.
type Object struct {
	ID          int
	Kind        ObjectKind
	X, Y        int
	Quantity    int
	Enchantment int
	BUC         BUC
}

// TrapKind identifies a trap.
type TrapKind uint8

const (
	TrapHole TrapKind = iota
	TrapTrapDoor
)

// String returns the trap kind name.
func (k TrapKind) String() string {
	switch k {
	case TrapHole:
		return "hole"
	case TrapTrapDoor:
		return "trapdoor"
	default:
		return "unknown"
	}
}

// Trap is a trap placed on the level.
type Trap struct {
	Kind TrapKind
	X, Y int
	Seen bool
}

// Stairway is a staircase and the depth it leads to.
type Stairway struct {
	X, Y        int
	Up          bool
	Destination int
}

// Flags are level-wide rules.
type Flags struct {
	NoTeleport bool
	Sokoban    bool
	HardFloor  bool
	Maze       bool
	Storms     bool
	Fountains  int
	Sinks      int
}

// Level is one generated dungeon level. Cells are indexed [x][y].
type Level struct {
	Depth   int
	Kind    LevelKind
	Name    string
	Cells   [COLNO][ROWNO]Cell
	Rooms   []Room
	Doors   []Point
	Objects []Object
	Traps   []Trap
	Stairs  []Stairway
	Flags   Flags

	nextObjectID int
}

// NewLevel creates a level of solid stone.
func NewLevel(depth int, kind LevelKind) *Level {
	return &Level{Depth: depth, Kind: kind, nextObjectID: 1}
}

// InBounds reports whether (x, y) lies on the map.
func InBounds(x, y int) bool {
	return x >= 0 && x < COLNO && y >= 0 && y < ROWNO
}

// At returns the cell at (x, y), or a stone cell off the map.
func (l *Level) At(x, y int) Cell {
	if !InBounds(x, y) {
		return Cell{}
	}
	return l.Cells[x][y]
}

// TypeAt returns the cell type at (x, y).
func (l *Level) TypeAt(x, y int) CellType {
	return l.At(x, y).Type
}

// SetType changes the terrain at (x, y); off-map writes are ignored.
func (l *Level) SetType(x, y int, t CellType) {
	if InBounds(x, y) {
		l.Cells[x][y].Type = t
	}
}

// IsPassable returns true if the given position can be walked on. Doors must
// not be closed or locked.
func (l *Level) IsPassable(x, y int) bool {
	c := l.At(x, y)
	if !c.Type.IsPassable() {
		return false
	}
	if c.Type == Door && c.Door&(Closed|Locked) != 0 {
		return false
	}
	return true
}

// RoomIndexAt returns the index of the room containing the position, or -1 if not in a room.
func (l *Level) RoomIndexAt(x, y int) int {
	for i, room := range l.Rooms {
		if room.Contains(x, y) {
			return i
		}
	}
	return -1
}

// fill sets every cell to t.
func (l *Level) fill(t CellType, lit bool) {
	for x := range l.Cells {
		for y := range l.Cells[x] {
			l.Cells[x][y] = Cell{Type: t, Lit: lit}
		}
	}
}

// addDoor records a door position once.
func (l *Level) addDoor(x, y int) {
	for _, p := range l.Doors {
		if p.X == x && p.Y == y {
			return
		}
	}
	l.Doors = append(l.Doors, Point{x, y})
}

// AddObject places an object and returns its assigned ID.
func (l *Level) AddObject(o Object) int {
	o.ID = l.nextObjectID
	l.nextObjectID++
	l.Objects = append(l.Objects, o)
	return o.ID
}

// ObjectsAt returns the indices of objects at (x, y) in placement order.
func (l *Level) ObjectsAt(x, y int) []int {
	var idx []int
	for i, o := range l.Objects {
		if o.X == x && o.Y == y {
			idx = append(idx, i)
		}
	}
	return idx
}

// RemoveObject deletes the object with the given ID, keeping order.
func (l *Level) RemoveObject(id int) bool {
	for i, o := range l.Objects {
		if o.ID == id {
			l.Objects = append(l.Objects[:i], l.Objects[i+1:]...)
			return true
		}
	}
	return false
}

// AddTrap places a trap at (x, y).
func (l *Level) AddTrap(kind TrapKind, x, y int) {
	l.Traps = append(l.Traps, Trap{Kind: kind, X: x, Y: y})
}

// TrapAt returns the trap at (x, y), if any.
func (l *Level) TrapAt(x, y int) (*Trap, bool) {
	for i := range l.Traps {
		if l.Traps[i].X == x && l.Traps[i].Y == y {
			return &l.Traps[i], true
		}
	}
	return nil, false
}

// UpStairs returns the first up staircase.
func (l *Level) UpStairs() (Stairway, bool) {
	for _, s := range l.Stairs {
		if s.Up {
			return s, true
		}
	}
	return Stairway{}, false
}

// DownStairs returns the first down staircase.
func (l *Level) DownStairs() (Stairway, bool) {
	for _, s := range l.Stairs {
		if !s.Up {
			return s, true
		}
	}
	return Stairway{}, false
}

// StairsAt returns the staircase at (x, y), if any.
func (l *Level) StairsAt(x, y int) (Stairway, bool) {
	for _, s := range l.Stairs {
		if s.X == x && s.Y == y {
			return s, true
		}
	}
	return Stairway{}, false
}

func (l *Level) addStairs(x, y int, up bool) {
	l.SetType(x, y, Stairs)
	dest := l.Depth + 1
	if up {
		dest = l.Depth - 1
	}
	l.Stairs = append(l.Stairs, Stairway{X: x, Y: y, Up: up, Destination: dest})
}

// Render returns the level as text rows, one rune per cell.
func (l *Level) Render() []string {
	rows := make([]string, ROWNO)
	for y := 0; y < ROWNO; y++ {
		line := make([]rune, COLNO)
		for x := 0; x < COLNO; x++ {
			line[x] = l.Cells[x][y].Type.Rune()
		}
		for _, s := range l.Stairs {
			if s.Y == y && s.Up {
				line[s.X] = '<'
			}
		}
		rows[y] = string(line)
	}
	return rows
}
