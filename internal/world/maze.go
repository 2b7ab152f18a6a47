package world

import "github.com/samdwyer/nhparity/internal/rng"

const (
	mazeLitDepth      = 10
	mazeRoomTries     = 50
	mazeStairTries    = 100
	mazeStairDistance = 20
)

// spine maps the passage neighbours of a wall cell, encoded as NSEW bits,
// to the wall piece drawn there.
var spine = [16]CellType{
	VWall, HWall, HWall, HWall,
	VWall, TRCorner, TLCorner, TDWall,
	VWall, BRCorner, BLCorner, TUWall,
	VWall, TLWall, TRWall, CrossWall,
}

// maze builds a maze level: a recursive backtracker over odd coordinates,
// one to three embedded rooms, wallification and far-apart stairs.
func (g *Generator) maze(depth int) (*Level, error) {
	s := g.rng
	l := NewLevel(depth, KindMaze)
	l.Flags.Maze = true
	l.fill(Stone, depth < mazeLitDepth)

	sx := 2 + s.Rn2((COLNO-4)/2)*2 + 1
	sy := 2 + s.Rn2((ROWNO-4)/2)*2 + 1
	l.carveMaze(s, sx, sy)

	for n := s.Rnd(3); n > 0; n-- {
		l.placeMazeRoom(s)
	}
	l.wallify()
	l.placeMazeStairs(s)

	if !l.Connected() {
		return nil, ErrUnreachableRoom
	}
	return l, nil
}

func (l *Level) carveMaze(s *rng.Stream, x, y int) {
	l.Cells[x][y].Type = Corridor

	dirs := [4]Point{{0, -2}, {0, 2}, {2, 0}, {-2, 0}}
	for i := 3; i > 0; i-- {
		j := s.Rn2(i + 1)
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}

	for _, d := range dirs {
		nx, ny := x+d.X, y+d.Y
		if nx < 2 || nx >= COLNO-2 || ny < 2 || ny >= ROWNO-2 {
			continue
		}
		if l.Cells[nx][ny].Type == Stone {
			l.Cells[x+d.X/2][y+d.Y/2].Type = Corridor
			l.carveMaze(s, nx, ny)
		}
	}
}

// placeMazeRoom carves a lit room over a mostly solid patch of the maze.
func (l *Level) placeMazeRoom(s *rng.Stream) {
	w := 3 + s.Rn2(4)
	h := 3 + s.Rn2(2)

	for try := 0; try < mazeRoomTries; try++ {
		x := 3 + s.Rn2(COLNO-w-6)
		y := 2 + s.Rn2(ROWNO-h-4)

		solid := 0
		for rx := x; rx < x+w; rx++ {
			for ry := y; ry < y+h; ry++ {
				if l.Cells[rx][ry].Type == Stone {
					solid++
				}
			}
		}
		if solid*100/(w*h) < 60 {
			continue
		}

		r := NewRoom(x, y, w, h)
		r.Type = RoomMaze
		l.Rooms = append(l.Rooms, r)
		for rx := x; rx < x+w; rx++ {
			for ry := y; ry < y+h; ry++ {
				l.Cells[rx][ry] = Cell{Type: RoomFloor, Lit: true, Roomno: len(l.Rooms)}
			}
		}
		l.connectMazeRoom(r)
		return
	}
}

func mazePassage(t CellType) bool {
	return t == Corridor || t == RoomFloor || t == Door
}

// connectMazeRoom opens the west wall when no corridor touches the room.
func (l *Level) connectMazeRoom(r Room) {
	for x := r.Lx; x <= r.Hx; x++ {
		if l.TypeAt(x, r.Ly-1) == Corridor || l.TypeAt(x, r.Hy+1) == Corridor {
			return
		}
	}
	for y := r.Ly; y <= r.Hy; y++ {
		if l.TypeAt(r.Lx-1, y) == Corridor || l.TypeAt(r.Hx+1, y) == Corridor {
			return
		}
	}
	if r.Lx > 2 {
		l.SetType(r.Lx-1, r.Ly+r.Height()/2, Corridor)
	}
}

// wallify turns stone next to a passage into the matching wall piece.
func (l *Level) wallify() {
	type update struct {
		x, y int
		t    CellType
	}
	var updates []update
	for x := 1; x < COLNO-1; x++ {
		for y := 1; y < ROWNO-1; y++ {
			if l.Cells[x][y].Type != Stone {
				continue
			}
			idx := 0
			if mazePassage(l.Cells[x][y-1].Type) {
				idx |= 8
			}
			if mazePassage(l.Cells[x][y+1].Type) {
				idx |= 4
			}
			if mazePassage(l.Cells[x+1][y].Type) {
				idx |= 2
			}
			if mazePassage(l.Cells[x-1][y].Type) {
				idx |= 1
			}
			if idx != 0 {
				updates = append(updates, update{x, y, spine[idx]})
			}
		}
	}
	for _, u := range updates {
		l.Cells[u.x][u.y].Type = u.t
	}
}

// placeMazeStairs samples open cells, keeping the down stairs at least
// mazeStairDistance steps from the up stairs. If sampling runs out the
// first and last open cells in scan order are used.
func (l *Level) placeMazeStairs(s *rng.Stream) {
	var up *Point
	placedDown := false
	for try := 0; try < mazeStairTries && !placedDown; try++ {
		x := 2 + s.Rn2(COLNO-4)
		y := 2 + s.Rn2(ROWNO-4)
		t := l.Cells[x][y].Type
		if t != Corridor && t != RoomFloor {
			continue
		}
		if up == nil {
			l.addStairs(x, y, true)
			up = &Point{x, y}
			continue
		}
		if abs(x-up.X)+abs(y-up.Y) < mazeStairDistance {
			continue
		}
		l.addStairs(x, y, false)
		placedDown = true
	}

	if up == nil {
		if p, ok := l.scanOpen(true); ok {
			l.addStairs(p.X, p.Y, true)
		}
	}
	if !placedDown {
		if p, ok := l.scanOpen(false); ok {
			l.addStairs(p.X, p.Y, false)
		}
	}
}

// scanOpen finds the first (or last) corridor or room cell in column order.
func (l *Level) scanOpen(first bool) (Point, bool) {
	var found Point
	ok := false
	for x := 0; x < COLNO; x++ {
		for y := 0; y < ROWNO; y++ {
			t := l.Cells[x][y].Type
			if t != Corridor && t != RoomFloor {
				continue
			}
			if first {
				return Point{x, y}, true
			}
			found, ok = Point{x, y}, true
		}
	}
	return found, ok
}
