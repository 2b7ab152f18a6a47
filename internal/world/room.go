package world

import "github.com/samdwyer/nhparity/internal/rng"

// RoomType classifies a room.
type RoomType uint8

const (
	RoomOrdinary RoomType = iota
	RoomBig
	RoomMaze
)

// String returns the room type name.
func (t RoomType) String() string {
	switch t {
	case RoomOrdinary:
		return "ordinary"
	case RoomBig:
		return "bigroom"
	case RoomMaze:
		return "maze"
	default:
		return "unknown"
	}
}

// Room is a rectangular room. The bounds are the floor cells; walls sit one
// cell outside them. An irregular room's bounds enclose its floor but may
// also hold other terrain, such as the pillars of the big room.
type Room struct {
	Lx, Ly    int
	Hx, Hy    int
	Type      RoomType
	Lit       bool
	Irregular bool
}

// NewRoom returns a lit ordinary room with its top-left floor cell at (x, y).
func NewRoom(x, y, width, height int) Room {
	return Room{Lx: x, Ly: y, Hx: x + width - 1, Hy: y + height - 1, Lit: true}
}

// Width returns the number of floor columns.
func (r Room) Width() int {
	return r.Hx - r.Lx + 1
}

// Height returns the number of floor rows.
func (r Room) Height() int {
	return r.Hy - r.Ly + 1
}

// Center returns the center coordinates of the room.
func (r Room) Center() (int, int) {
	return r.Lx + r.Width()/2, r.Ly + r.Height()/2
}

// Contains returns true if the given point is a floor cell of the room.
func (r Room) Contains(x, y int) bool {
	return x >= r.Lx && x <= r.Hx && y >= r.Ly && y <= r.Hy
}

// Overlaps reports whether the rooms intersect once both are grown by
// buffer cells. Growth toward the origin saturates at zero.
func (r Room) Overlaps(other Room, buffer int) bool {
	x1, y1 := satSub(r.Lx, buffer), satSub(r.Ly, buffer)
	x2, y2 := r.Hx+1+buffer, r.Hy+1+buffer
	ox1, oy1 := satSub(other.Lx, buffer), satSub(other.Ly, buffer)
	ox2, oy2 := other.Hx+1+buffer, other.Hy+1+buffer
	return !(x2 <= ox1 || x1 >= ox2 || y2 <= oy1 || y1 >= oy2)
}

// Somexy picks a random floor position in the room: x first, then y.
func (r Room) Somexy(s *rng.Stream) (int, int) {
	x := s.Rn1(r.Width(), r.Lx)
	y := s.Rn1(r.Height(), r.Ly)
	return x, y
}

func satSub(v, d int) int {
	if v < d {
		return 0
	}
	return v - d
}
