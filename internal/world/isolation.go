package world

import "github.com/samdwyer/nhparity/internal/rng"

// The methods below expose single generation steps so they can be driven
// against a hand-built level and compared draw for draw.

// FindDoorPos picks a door site in the wall segment (xl,yl)-(xh,yh).
func (l *Level) FindDoorPos(s *rng.Stream, xl, yl, xh, yh int) Point {
	x, y := l.finddpos(s, xl, yl, xh, yh)
	return Point{x, y}
}

// DigCorridor digs an ordinary corridor through stone from org to dest.
func (l *Level) DigCorridor(s *rng.Stream, org, dest Point, nxcor bool) bool {
	return l.digCorridor(s, org, dest, nxcor, Corridor, Stone)
}

// AddRoom appends r, carves its floor and walls and returns its index.
func (l *Level) AddRoom(r Room) int {
	l.Rooms = append(l.Rooms, r)
	i := len(l.Rooms) - 1
	l.carveRoom(i)
	return i
}

// JoinRooms connects rooms a and b. A nil tracker gets a fresh one.
func (l *Level) JoinRooms(s *rng.Stream, a, b int, nxcor bool, t *ConnectivityTracker) {
	if t == nil {
		t = NewConnectivityTracker(len(l.Rooms))
	}
	l.join(s, a, b, t, nxcor)
}

// MakeCorridors runs the full corridor pass over the level's rooms.
func (l *Level) MakeCorridors(s *rng.Stream) *ConnectivityTracker {
	return l.makeCorridors(s)
}

// PlaceDoor places a door at (x, y) with randomly rolled type and state.
func (l *Level) PlaceDoor(s *rng.Stream, x, y int) {
	l.dodoor(s, x, y)
}
