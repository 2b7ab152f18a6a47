// Package world provides dungeon generation and map management.
package world

// CellType is the terrain code of a single map cell. The numeric values are
// part of the snapshot format and must not be reordered.
type CellType uint8

const (
	Stone CellType = iota
	VWall
	HWall
	TLCorner
	TRCorner
	BLCorner
	BRCorner
	CrossWall
	TUWall
	TDWall
	TLWall
	TRWall
	DBWall
	Tree
	SecretDoor
	SecretCorridor
	Pool
	Moat
	Water
	DrawbridgeUp
	Lava
	IronBars
	Door
	Corridor
	RoomFloor
	Stairs
	Ladder
	Fountain
	Throne
	Sink
	Grave
	Altar
	Ice
	DrawbridgeDown
	Air
	Cloud
)

var cellTypeNames = [...]string{
	"stone", "vwall", "hwall", "tlcorner", "trcorner", "blcorner", "brcorner",
	"crosswall", "tuwall", "tdwall", "tlwall", "trwall", "dbwall", "tree",
	"sdoor", "scorr", "pool", "moat", "water", "drawbridge_up", "lava",
	"iron_bars", "door", "corr", "room", "stairs", "ladder", "fountain",
	"throne", "sink", "grave", "altar", "ice", "drawbridge_down", "air", "cloud",
}

// String returns the cell type's name.
func (t CellType) String() string {
	if int(t) < len(cellTypeNames) {
		return cellTypeNames[t]
	}
	return "unknown"
}

// IsWall reports whether t is one of the wall or corner types.
func (t CellType) IsWall() bool {
	return t >= VWall && t <= DBWall
}

// IsPassable reports whether a creature can stand on t. Secret doors and
// corridors are not passable until found.
func (t CellType) IsPassable() bool {
	switch t {
	case Door, Corridor, RoomFloor, Stairs, Ladder, Fountain, Throne, Sink,
		Grave, Altar, Ice, DrawbridgeDown, Air, Cloud:
		return true
	}
	return false
}

// connects reports whether t links cells for connectivity checks. Unlike
// IsPassable it includes undiscovered secret doors and corridors.
func (t CellType) connects() bool {
	return t.IsPassable() || t == SecretDoor || t == SecretCorridor
}

// Rune returns the cell's display character.
func (t CellType) Rune() rune {
	switch {
	case t == VWall:
		return '|'
	case t.IsWall():
		return '-'
	}
	switch t {
	case Door:
		return '+'
	case Corridor:
		return '#'
	case RoomFloor, Ice, DrawbridgeDown:
		return '.'
	case Stairs, Ladder:
		return '>'
	case Fountain, Sink:
		return '{'
	case Throne:
		return '\\'
	case Grave:
		return '|'
	case Altar:
		return '_'
	case Pool, Moat, Water, Lava:
		return '}'
	case Tree:
		return '#'
	case IronBars:
		return '#'
	}
	return ' '
}

// DoorState is the bit mask describing a door cell.
type DoorState uint8

const (
	NoDoor  DoorState = 0
	Broken  DoorState = 1 << 0
	Open    DoorState = 1 << 1
	Closed  DoorState = 1 << 2
	Locked  DoorState = 1 << 3
	Trapped DoorState = 1 << 4
)

// Has reports whether every bit of flag is set.
func (d DoorState) Has(flag DoorState) bool {
	return d&flag == flag && flag != 0
}

// String returns the primary state name without the trapped bit.
func (d DoorState) String() string {
	switch {
	case d&Broken != 0:
		return "broken"
	case d&Locked != 0:
		return "locked"
	case d&Closed != 0:
		return "closed"
	case d&Open != 0:
		return "open"
	}
	return "nodoor"
}

// Cell is a single map square.
type Cell struct {
	Type   CellType
	Door   DoorState
	Lit    bool
	Roomno int // 1-based index into Level.Rooms, 0 outside rooms
}
