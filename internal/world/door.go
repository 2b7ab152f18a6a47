package world

import "github.com/samdwyer/nhparity/internal/rng"

// bydoor reports whether an orthogonal neighbour of (x, y) is a door.
func (l *Level) bydoor(x, y int) bool {
	for _, d := range [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		t := l.TypeAt(x+d.X, y+d.Y)
		if t == Door || t == SecretDoor {
			return true
		}
	}
	return false
}

// okdoor reports whether (x, y) is a straight wall with no adjacent door.
func (l *Level) okdoor(x, y int) bool {
	if !InBounds(x, y) {
		return false
	}
	t := l.Cells[x][y].Type
	if t != HWall && t != VWall {
		return false
	}
	return !l.bydoor(x, y)
}

// finddpos picks a door site inside the wall segment (xl,yl)-(xh,yh).
//
// One random candidate is tried first (two draws, always consumed). Failing
// that the segment is scanned for a legal site, then for any existing door.
// The last resort is the fixed corner (xl, yh).
func (l *Level) finddpos(s *rng.Stream, xl, yl, xh, yh int) (int, int) {
	x := xl + s.Rn2(max(satSub(xh, xl)+1, 1))
	y := yl + s.Rn2(max(satSub(yh, yl)+1, 1))
	if l.okdoor(x, y) {
		return x, y
	}

	for sx := xl; sx <= xh; sx++ {
		for sy := yl; sy <= yh; sy++ {
			if l.okdoor(sx, sy) {
				return sx, sy
			}
		}
	}

	for sx := xl; sx <= xh; sx++ {
		for sy := yl; sy <= yh; sy++ {
			t := l.TypeAt(sx, sy)
			if t == Door || t == SecretDoor {
				return sx, sy
			}
		}
	}

	return xl, yh
}

// dodoor places a door that is secret one time in eight.
func (l *Level) dodoor(s *rng.Stream, x, y int) {
	t := Door
	if s.Rn2(8) == 0 {
		t = SecretDoor
	}
	l.dosdoor(s, x, y, t)
}

// dosdoor places a door of type t and rolls its state. A site that is not a
// wall always becomes an ordinary door.
func (l *Level) dosdoor(s *rng.Stream, x, y int, t CellType) {
	if !InBounds(x, y) {
		return
	}
	if !l.Cells[x][y].Type.IsWall() {
		t = Door
	}
	c := &l.Cells[x][y]
	c.Type = t
	l.addDoor(x, y)

	if t == Door {
		if s.Rn2(3) != 0 {
			c.Door = NoDoor
		} else {
			var state DoorState
			switch {
			case s.Rn2(5) == 0:
				state = Open
			case s.Rn2(6) == 0:
				state = Locked
			default:
				state = Closed
			}
			if state != Open && l.Depth >= 5 && s.Rn2(25) == 0 {
				state |= Trapped
			}
			c.Door = state
		}
		// A trapped door this deep is a mimic in disguise; the doorway is
		// left empty.
		if c.Door&Trapped != 0 && l.Depth >= 9 && s.Rn2(5) == 0 {
			c.Door = NoDoor
		}
		return
	}

	state := Closed
	if s.Rn2(5) == 0 {
		state = Locked
	}
	if l.Depth >= 4 && s.Rn2(20) == 0 {
		state |= Trapped
	}
	c.Door = state
}
