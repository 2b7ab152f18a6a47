package world

import (
	"fmt"
	"strings"

	"github.com/samdwyer/nhparity/internal/gamedata"
	"github.com/samdwyer/nhparity/internal/rng"
)

const (
	bigRoomMargin = 3
	stairTries    = 100
)

// sokoban loads a Sokoban map. A name without a variant letter ("soko2")
// picks one of the two variants with a single draw.
func (g *Generator) sokoban(depth int, name string) (*Level, error) {
	name = strings.ToLower(name)
	if name == "" {
		name = fmt.Sprintf("soko%d", min(max(depth, 1), 4))
	}
	if len(name) == len("soko1") {
		name += string(rune('a' + g.rng.Rn2(2)))
	}
	rows, err := gamedata.SokobanMap(name)
	if err != nil {
		return nil, fmt.Errorf("world: %w: %s", ErrUnknownSpecial, name)
	}

	l := NewLevel(depth, KindSokoban)
	l.Name = name
	l.Flags.NoTeleport = true
	l.Flags.Sokoban = true
	l.Flags.HardFloor = true
	l.applyMap(rows)

	if !l.Connected() {
		return nil, ErrUnreachableRoom
	}
	return l, nil
}

// applyMap draws an ASCII map centred on the level.
func (l *Level) applyMap(rows []string) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	ox := satSub(COLNO, width) / 2
	oy := satSub(ROWNO, len(rows)) / 2

	for row, line := range rows {
		y := oy + row
		if y >= ROWNO {
			break
		}
		for col, ch := range line {
			x := ox + col
			if x >= COLNO {
				break
			}
			c := &l.Cells[x][y]
			switch ch {
			case '-':
				c.Type = HWall
			case '|':
				c.Type = VWall
			case '.':
				c.Type, c.Lit = RoomFloor, true
			case '0':
				c.Type, c.Lit = RoomFloor, true
				l.AddObject(Object{Kind: ObjectBoulder, X: x, Y: y, Quantity: 1})
			case '^':
				c.Type, c.Lit = RoomFloor, true
				l.AddTrap(TrapHole, x, y)
			case '*':
				c.Type, c.Lit = RoomFloor, true
				l.AddObject(Object{Kind: ObjectPrize, X: x, Y: y, Quantity: 1, BUC: Cursed})
			case '<', '>':
				c.Lit = true
				l.addStairs(x, y, ch == '<')
			case '+':
				c.Type, c.Lit = Door, true
				c.Door = Closed
				l.addDoor(x, y)
			case '#':
				c.Type, c.Lit = Corridor, true
			}
		}
	}
}

// bigRoom builds one large lit room broken up by a few pillars.
func (g *Generator) bigRoom(depth int) (*Level, error) {
	s := g.rng
	l := NewLevel(depth, KindBigRoom)

	r := Room{
		Lx: bigRoomMargin, Ly: bigRoomMargin,
		Hx: COLNO - bigRoomMargin - 1, Hy: ROWNO - bigRoomMargin - 1,
		Type: RoomBig, Lit: true, Irregular: true,
	}
	l.Rooms = append(l.Rooms, r)
	l.carveRoom(0)

	for n := 5 + s.Rn2(10); n > 0; n-- {
		x := bigRoomMargin + 2 + s.Rn2(COLNO-bigRoomMargin*2-4)
		y := bigRoomMargin + 2 + s.Rn2(ROWNO-bigRoomMargin*2-4)
		l.Cells[x][y].Type = Stone
	}

	l.placeRoomStairs(s, r, true)
	l.placeRoomStairs(s, r, false)

	if !l.Connected() {
		return nil, ErrUnreachableRoom
	}
	return l, nil
}

// placeRoomStairs samples plain floor in r for a staircase.
func (l *Level) placeRoomStairs(s *rng.Stream, r Room, up bool) {
	for try := 0; try < stairTries; try++ {
		x, y := r.Somexy(s)
		if l.Cells[x][y].Type == RoomFloor {
			l.addStairs(x, y, up)
			return
		}
	}
}
