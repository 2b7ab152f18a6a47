package world

import "github.com/samdwyer/nhparity/internal/rng"

// maxCorridorSteps bounds a single corridor walk. The count is tested
// before it is bumped, so a walk may take maxCorridorSteps+1 steps.
var maxCorridorSteps = 500

// digCorridor walks from org to dest turning background cells (btyp) into
// ftyp. The walk prefers the axis with more distance left, turns when the
// way ahead is blocked and backs up as a last resort. With nxcor set the
// walk may stop at random and drops the odd boulder. It returns false when
// the walk was abandoned.
func (l *Level) digCorridor(s *rng.Stream, org, dest Point, nxcor bool, ftyp, btyp CellType) bool {
	xx, yy := org.X, org.Y
	tx, ty := dest.X, dest.Y
	if xx <= 0 || yy <= 0 || tx <= 0 || ty <= 0 ||
		xx > COLNO-1 || tx > COLNO-1 || yy > ROWNO-1 || ty > ROWNO-1 {
		return false
	}

	var dx, dy int
	switch {
	case tx > xx:
		dx = 1
	case ty > yy:
		dy = 1
	case tx < xx:
		dx = -1
	default:
		dy = -1
	}

	xx -= dx
	yy -= dy
	open := func(t CellType) bool {
		return t == btyp || t == ftyp || t == SecretCorridor
	}

	for cct := 0; xx != tx || yy != ty; cct++ {
		if cct > maxCorridorSteps || (nxcor && s.Rn2(35) == 0) {
			return false
		}

		xx += dx
		yy += dy
		if xx >= COLNO-1 || xx <= 0 || yy <= 0 || yy >= ROWNO-1 {
			return false
		}

		c := &l.Cells[xx][yy]
		switch {
		case c.Type == btyp:
			if ftyp != Corridor || s.Rn2(100) != 0 {
				c.Type = ftyp
				if nxcor && s.Rn2(50) == 0 {
					l.AddObject(Object{Kind: ObjectBoulder, X: xx, Y: yy, Quantity: 1})
				}
			} else {
				c.Type = SecretCorridor
			}
		case c.Type != ftyp && c.Type != SecretCorridor:
			return false
		}

		dix := abs(xx - tx)
		diy := abs(yy - ty)
		if dix > diy && diy != 0 && s.Rn2(dix-diy+1) == 0 {
			dix = 0
		} else if diy > dix && dix != 0 && s.Rn2(diy-dix+1) == 0 {
			diy = 0
		}

		// change direction?
		if dy != 0 && dix > diy {
			ddx := 1
			if xx > tx {
				ddx = -1
			}
			if open(l.Cells[xx+ddx][yy].Type) {
				dx, dy = ddx, 0
				continue
			}
		} else if dx != 0 && diy > dix {
			ddy := 1
			if yy > ty {
				ddy = -1
			}
			if open(l.Cells[xx][yy+ddy].Type) {
				dx, dy = 0, ddy
				continue
			}
		}

		// straight on?
		if open(l.Cells[xx+dx][yy+dy].Type) {
			continue
		}

		if dx != 0 {
			dx = 0
			dy = 1
			if ty < yy {
				dy = -1
			}
		} else {
			dy = 0
			dx = 1
			if tx < xx {
				dx = -1
			}
		}
		if open(l.Cells[xx+dx][yy+dy].Type) {
			continue
		}
		dx, dy = -dx, -dy
	}
	return true
}

// join connects rooms a and b with a door on each facing wall and a corridor
// between them, merging their classes in t on success.
func (l *Level) join(s *rng.Stream, a, b int, t *ConnectivityTracker, nxcor bool) {
	if a < 0 || b < 0 || a >= len(l.Rooms) || b >= len(l.Rooms) || a == b {
		return
	}
	croom, troom := l.Rooms[a], l.Rooms[b]

	var dd Point
	var cx, cy, tx, ty int
	switch {
	case troom.Lx > croom.Hx:
		dd = Point{1, 0}
		xx := croom.Hx + 1
		txx := troom.Lx - 1
		cx, cy = l.finddpos(s, xx, croom.Ly, xx, croom.Hy)
		tx, ty = l.finddpos(s, txx, troom.Ly, txx, troom.Hy)
	case troom.Hy < croom.Ly:
		dd = Point{0, -1}
		yy := croom.Ly - 1
		tyy := troom.Hy + 1
		cx, cy = l.finddpos(s, croom.Lx, yy, croom.Hx, yy)
		tx, ty = l.finddpos(s, troom.Lx, tyy, troom.Hx, tyy)
	case troom.Hx < croom.Lx:
		dd = Point{-1, 0}
		xx := croom.Lx - 1
		txx := troom.Hx + 1
		cx, cy = l.finddpos(s, xx, croom.Ly, xx, croom.Hy)
		tx, ty = l.finddpos(s, txx, troom.Ly, txx, troom.Hy)
	default:
		dd = Point{0, 1}
		yy := croom.Hy + 1
		tyy := troom.Ly - 1
		cx, cy = l.finddpos(s, croom.Lx, yy, croom.Hx, yy)
		tx, ty = l.finddpos(s, troom.Lx, tyy, troom.Hx, tyy)
	}

	org := Point{cx + dd.X, cy + dd.Y}
	dest := Point{tx - dd.X, ty - dd.Y}

	if nxcor && org.X > 0 && org.Y > 0 && InBounds(org.X, org.Y) &&
		l.Cells[org.X][org.Y].Type != Stone {
		return
	}

	if l.okdoor(cx, cy) || !nxcor {
		l.dodoor(s, cx, cy)
	}

	if !l.digCorridor(s, org, dest, nxcor, Corridor, Stone) {
		return
	}

	if l.okdoor(tx, ty) || !nxcor {
		l.dodoor(s, tx, ty)
	}

	t.Merge(a, b)
}

// makeCorridors joins the level's rooms in four passes: neighbours in
// order, rooms two apart, any pair still apart, then a handful of extra
// corridors that may dead-end.
func (l *Level) makeCorridors(s *rng.Stream) *ConnectivityTracker {
	n := len(l.Rooms)
	t := NewConnectivityTracker(n)
	if n < 2 {
		return t
	}

	for a := 0; a < n-1; a++ {
		l.join(s, a, a+1, t, false)
		if s.Rn2(50) == 0 {
			break
		}
	}

	for a := 0; a < n-2; a++ {
		if !t.Connected(a, a+2) {
			l.join(s, a, a+2, t, false)
		}
	}

	joined := true
	for a := 0; joined && a < n; a++ {
		joined = false
		for b := 0; b < n; b++ {
			if !t.Connected(a, b) {
				l.join(s, a, b, t, false)
				joined = true
			}
		}
	}

	if n > 2 {
		for i := s.Rn2(n) + 4; i > 0; i-- {
			a := s.Rn2(n)
			b := s.Rn2(n - 2)
			if b >= a {
				b += 2
			}
			if b < n {
				l.join(s, a, b, t, true)
			}
		}
	}
	return t
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
