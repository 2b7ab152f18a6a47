package game

import (
	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/world"
)

const (
	// Squared distance within which a sleeping monster may notice the player.
	wakeRange = 100
	// Squared distance beyond which hostile monsters lose interest.
	chaseRange = 100
	// Squared distance treated as within the player's sight when picking
	// spawn positions.
	sightRange = 64

	spawnTries = 50

	mazeMonstersBase     = 4
	mazeMonstersRange    = 4
	bigRoomMonstersBase  = 8
	bigRoomMonstersRange = 8
)

func dist2(x1, y1, x2, y2 int) int {
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}

// monsterTurn is one action of a monster: wake up, then flee, wander,
// attack or close in.
func (c *Context) monsterTurn(m *entity.Monster) {
	p := c.Player
	d := dist2(m.X, m.Y, p.X, p.Y)
	if m.Asleep && !c.disturb(m, d) {
		return
	}

	switch {
	case m.Fleeing:
		c.monsterMove(m, -1)
	case m.Peaceful || d >= chaseRange:
		c.monsterMove(m, 0)
	case d <= 2:
		c.monsterAttack(m)
	default:
		c.monsterMove(m, 1)
	}
}

// disturb wakes a sleeping monster close to the player. Dogs and humans
// always notice; anything else one time in seven.
func (c *Context) disturb(m *entity.Monster, d int) bool {
	if d >= wakeRange {
		return false
	}
	g := m.Glyph()
	if g != 'd' && g != '@' && c.core.Rn2(7) != 0 {
		return false
	}
	m.Asleep = false
	return true
}

// monsterMove steps a monster toward the player (appr 1), away from them
// (appr -1), or to a random neighbor (appr 0). The first candidate is
// always taken and replaced by any better one.
func (c *Context) monsterMove(m *entity.Monster, appr int) {
	p := c.Player
	bestX, bestY := m.X, m.Y
	bestDist := dist2(m.X, m.Y, p.X, p.Y)
	moved := false
	count := 0

	for _, pos := range c.monsterCandidates(m) {
		d := dist2(pos.X, pos.Y, p.X, p.Y)
		nearer := d < bestDist
		take := !moved
		switch appr {
		case 1:
			take = nearer || take
		case -1:
			take = !nearer || take
		default:
			count++
			take = c.core.Rn2(count) == 0 || take
		}
		if take {
			bestX, bestY, bestDist = pos.X, pos.Y, d
			moved = true
		}
	}
	if moved {
		m.SetPosition(bestX, bestY)
	}
}

// monsterCandidates lists the cells a monster may step to, column by
// column.
func (c *Context) monsterCandidates(m *entity.Monster) []world.Point {
	var out []world.Point
	for x := m.X - 1; x <= m.X+1; x++ {
		for y := m.Y - 1; y <= m.Y+1; y++ {
			if x == m.X && y == m.Y {
				continue
			}
			if !c.goodPos(x, y) {
				continue
			}
			if x != m.X && y != m.Y && (c.doorBlocksDiagonal(m.X, m.Y) || c.doorBlocksDiagonal(x, y)) {
				continue
			}
			out = append(out, world.Point{X: x, Y: y})
		}
	}
	return out
}

// goodPos reports whether a creature could be put at (x, y).
func (c *Context) goodPos(x, y int) bool {
	if !world.InBounds(x, y) || !c.Level.IsPassable(x, y) {
		return false
	}
	if x == c.Player.X && y == c.Player.Y {
		return false
	}
	if c.Monsters.At(x, y) != nil {
		return false
	}
	_, boulder := c.boulderAt(x, y)
	return !boulder
}

// doorBlocksDiagonal reports whether (x, y) is a doorway that cannot be
// entered or left diagonally.
func (c *Context) doorBlocksDiagonal(x, y int) bool {
	cell := c.Level.At(x, y)
	return cell.Type == world.Door && cell.Door&^world.Broken != world.NoDoor
}

// boulderAt returns the index of a boulder lying at (x, y).
func (c *Context) boulderAt(x, y int) (int, bool) {
	for _, i := range c.Level.ObjectsAt(x, y) {
		if c.Level.Objects[i].Kind == world.ObjectBoulder {
			return i, true
		}
	}
	return 0, false
}

// hostileAdjacent reports whether an awake hostile monster is next to the
// player.
func (c *Context) hostileAdjacent() bool {
	p := c.Player
	for _, m := range c.Monsters.All() {
		if m.IsAlive() && !m.Peaceful && !m.Asleep && dist2(m.X, m.Y, p.X, p.Y) <= 2 {
			return true
		}
	}
	return false
}

// spawnMonster creates a random monster somewhere on the level, preferably
// out of the player's sight.
func (c *Context) spawnMonster() *entity.Monster {
	x, y, ok := c.spawnSpot()
	if !ok {
		return nil
	}
	return c.makeMonster(x, y, false)
}

func (c *Context) spawnSpot() (int, int, bool) {
	p := c.Player
	for range spawnTries {
		x := c.core.Rn1(world.COLNO-3, 2)
		y := c.core.Rn2(world.ROWNO)
		if c.goodPos(x, y) && dist2(x, y, p.X, p.Y) > sightRange {
			return x, y, true
		}
	}
	for _, far := range []bool{true, false} {
		for x := 1; x < world.COLNO; x++ {
			for y := 0; y < world.ROWNO; y++ {
				if c.goodPos(x, y) && (!far || dist2(x, y, p.X, p.Y) > sightRange) {
					return x, y, true
				}
			}
		}
	}
	return 0, 0, false
}

// makeMonster picks a species suited to the depth and player level and
// puts it at (x, y). Monsters of the player's own race are peaceful.
func (c *Context) makeMonster(x, y int, asleep bool) *entity.Monster {
	depth := c.Level.Depth
	sp := c.species.SpawnRandom(c.core, depth/6, (depth+c.Player.Level)/2)
	if sp == nil {
		return nil
	}
	m := entity.NewMonster(sp, x, y, c.core)
	m.Asleep = asleep
	m.Peaceful = sp.Race != "" && sp.Race == c.Player.Race.ID
	c.Monsters.Add(m)
	return m
}

// populate stocks a freshly generated level. Monsters placed while the
// level is built start asleep.
func (c *Context) populate() {
	l := c.Level
	switch l.Kind {
	case world.KindSokoban:
		return
	case world.KindMaze:
		n := c.core.Rn1(mazeMonstersRange, mazeMonstersBase)
		for range n {
			if x, y, ok := c.spawnSpot(); ok {
				c.makeMonster(x, y, true)
			}
		}
	case world.KindBigRoom:
		if len(l.Rooms) == 0 {
			return
		}
		n := c.core.Rn1(bigRoomMonstersRange, bigRoomMonstersBase)
		for range n {
			x, y := l.Rooms[0].Somexy(c.core)
			if c.goodPos(x, y) {
				c.makeMonster(x, y, true)
			}
		}
	default:
		for _, r := range l.Rooms {
			if c.core.Rn2(3) != 0 {
				continue
			}
			x, y := r.Somexy(c.core)
			if c.goodPos(x, y) {
				c.makeMonster(x, y, true)
			}
		}
	}
}
