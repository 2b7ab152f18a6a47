package world

import "github.com/samdwyer/nhparity/internal/rng"

// reachMap marks the cells reached by a flood fill.
type reachMap [COLNO][ROWNO]bool

// flood marks every connecting cell orthogonally reachable from start.
func (l *Level) flood(start Point) *reachMap {
	var seen reachMap
	if !InBounds(start.X, start.Y) || !l.Cells[start.X][start.Y].Type.connects() {
		return &seen
	}
	seen[start.X][start.Y] = true
	stack := []Point{start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := p.X+d.X, p.Y+d.Y
			if !InBounds(nx, ny) || seen[nx][ny] || !l.Cells[nx][ny].Type.connects() {
				continue
			}
			seen[nx][ny] = true
			stack = append(stack, Point{nx, ny})
		}
	}
	return &seen
}

// floodOrigin returns the first connecting cell of the first room, or the
// first connecting cell in scan order on roomless levels.
func (l *Level) floodOrigin() (Point, bool) {
	if len(l.Rooms) > 0 {
		r := l.Rooms[0]
		for x := r.Lx; x <= r.Hx; x++ {
			for y := r.Ly; y <= r.Hy; y++ {
				if l.TypeAt(x, y).connects() {
					return Point{x, y}, true
				}
			}
		}
	}
	for x := 0; x < COLNO; x++ {
		for y := 0; y < ROWNO; y++ {
			if l.Cells[x][y].Type.connects() {
				return Point{x, y}, true
			}
		}
	}
	return Point{}, false
}

func (l *Level) roomReached(seen *reachMap, r Room) bool {
	for x := r.Lx; x <= r.Hx; x++ {
		for y := r.Ly; y <= r.Hy; y++ {
			if InBounds(x, y) && seen[x][y] {
				return true
			}
		}
	}
	return false
}

// UnreachableRooms returns the indices of rooms that cannot be reached from
// the first room over floor, corridor and door cells, secret ones included.
func (l *Level) UnreachableRooms() []int {
	origin, ok := l.floodOrigin()
	if !ok {
		return nil
	}
	seen := l.flood(origin)
	var out []int
	for i, r := range l.Rooms {
		if !l.roomReached(seen, r) {
			out = append(out, i)
		}
	}
	return out
}

// Connected reports whether every room, every staircase and, on roomless
// levels, every open cell lies in one region.
func (l *Level) Connected() bool {
	origin, ok := l.floodOrigin()
	if !ok {
		return len(l.Rooms) == 0
	}
	seen := l.flood(origin)
	for _, r := range l.Rooms {
		if !l.roomReached(seen, r) {
			return false
		}
	}
	for _, s := range l.Stairs {
		if !seen[s.X][s.Y] {
			return false
		}
	}
	if len(l.Rooms) == 0 {
		for x := 0; x < COLNO; x++ {
			for y := 0; y < ROWNO; y++ {
				if l.Cells[x][y].Type.connects() && !seen[x][y] {
					return false
				}
			}
		}
	}
	return true
}

// repairConnectivity joins each unreachable room to the nearest reachable
// one. It returns the rooms still unreachable afterwards.
func (l *Level) repairConnectivity(s *rng.Stream, t *ConnectivityTracker) []int {
	lost := l.UnreachableRooms()
	for _, i := range lost {
		target := l.nearestReachable(i, lost)
		if target < 0 {
			continue
		}
		l.join(s, i, target, t, false)
	}
	if len(lost) == 0 {
		return nil
	}
	return l.UnreachableRooms()
}

func (l *Level) nearestReachable(i int, lost []int) int {
	isLost := make(map[int]bool, len(lost))
	for _, j := range lost {
		isLost[j] = true
	}
	cx, cy := l.Rooms[i].Center()
	best, bestDist := -1, 0
	for j, r := range l.Rooms {
		if isLost[j] {
			continue
		}
		x, y := r.Center()
		d := abs(x-cx) + abs(y-cy)
		if best < 0 || d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}
