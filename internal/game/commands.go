package game

import (
	"context"
	"strconv"

	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/gamedata"
	"github.com/samdwyer/nhparity/internal/world"
)

// moveDir moves the player one square, fighting, opening doors or pushing
// boulders on the way. Moves that are refused take no time.
func (c *Context) moveDir(ctx context.Context, d entity.Direction) bool {
	p := c.Player
	dx, dy := d.Delta()
	x, y := p.X+dx, p.Y+dy
	if !world.InBounds(x, y) {
		return false
	}
	if m := c.Monsters.At(x, y); m != nil {
		return c.attack(ctx, m)
	}

	dest := c.Level.At(x, y)
	if dest.Type == world.Door {
		switch {
		case dest.Door&world.Locked != 0:
			c.message("This door is locked.")
			return false
		case dest.Door&world.Closed != 0:
			return c.openDoor(x, y)
		}
	}
	if dx != 0 && dy != 0 {
		if c.doorBlocksDiagonal(x, y) {
			c.message("You can't move diagonally into an intact doorway.")
			return false
		}
		if c.doorBlocksDiagonal(p.X, p.Y) {
			c.message("You can't move diagonally out of an intact doorway.")
			return false
		}
	}
	if !c.Level.IsPassable(x, y) {
		return false
	}
	if i, ok := c.boulderAt(x, y); ok && !c.pushBoulder(i, dx, dy) {
		return false
	}

	p.SetPosition(x, y)
	p.Moved = true
	c.pickUp()
	c.checkTrap()
	return true
}

// openDoor tries to open the closed door at (x, y). Failing still takes
// the turn.
func (c *Context) openDoor(x, y int) bool {
	p := c.Player
	str := p.Attr(gamedata.AttrStr)
	dex := p.Attr(gamedata.AttrDex)
	con := p.Attr(gamedata.AttrCon)
	if c.core.Rnl(20, p.Luck) < (str+dex+con)/3 {
		cell := &c.Level.Cells[x][y]
		cell.Door = cell.Door&world.Trapped | world.Open
		c.message("The door opens.")
	} else {
		c.exercise(gamedata.AttrStr, true)
		c.message("The door is stuck.")
	}
	return true
}

// pushBoulder shoves the boulder at object index i one square along
// (dx, dy). A hole swallows it. It reports whether the way is now clear.
func (c *Context) pushBoulder(i, dx, dy int) bool {
	l := c.Level
	if l.Flags.Sokoban && dx != 0 && dy != 0 {
		c.message("Boulders won't roll diagonally on this floor.")
		return false
	}
	b := l.Objects[i]
	rx, ry := b.X+dx, b.Y+dy
	if !world.InBounds(rx, ry) || !l.IsPassable(rx, ry) {
		c.message("You try to move the boulder, but in vain.")
		return false
	}
	if dx != 0 && dy != 0 && c.doorBlocksDiagonal(rx, ry) {
		c.message("You try to move the boulder, but in vain.")
		return false
	}
	if _, blocked := c.boulderAt(rx, ry); blocked {
		c.message("You try to move the boulder, but in vain.")
		return false
	}
	if c.Monsters.At(rx, ry) != nil {
		c.message("Perhaps that's why you cannot move past it.")
		return false
	}

	if trap, ok := l.TrapAt(rx, ry); ok && (trap.Kind == world.TrapHole || trap.Kind == world.TrapTrapDoor) {
		kind := trap.Kind
		c.removeTrap(rx, ry)
		l.RemoveObject(b.ID)
		c.message("The boulder fills a " + kind.String() + ".")
		return true
	}
	l.Objects[i].X, l.Objects[i].Y = rx, ry
	c.message("With great effort you move the boulder.")
	return true
}

func (c *Context) removeTrap(x, y int) {
	l := c.Level
	for i, t := range l.Traps {
		if t.X == x && t.Y == y {
			l.Traps = append(l.Traps[:i], l.Traps[i+1:]...)
			return
		}
	}
}

// pickUp collects gold and prizes at the player's feet.
func (c *Context) pickUp() {
	l := c.Level
	p := c.Player
	var taken []int
	for _, i := range l.ObjectsAt(p.X, p.Y) {
		o := l.Objects[i]
		switch o.Kind {
		case world.ObjectGold:
			p.Gold += o.Quantity
			c.message(strconv.Itoa(o.Quantity) + " gold pieces.")
		case world.ObjectPrize:
			p.AddItem(entity.ItemFromObject(o))
			c.message("You pick up the prize.")
		default:
			continue
		}
		taken = append(taken, o.ID)
	}
	for _, id := range taken {
		l.RemoveObject(id)
	}
}

// checkTrap springs a trap under the player. Holes drop them a level at
// the end of the move.
func (c *Context) checkTrap() {
	p := c.Player
	trap, ok := c.Level.TrapAt(p.X, p.Y)
	if !ok {
		return
	}
	trap.Seen = true
	switch trap.Kind {
	case world.TrapHole, world.TrapTrapDoor:
		c.message("You fall through a " + trap.Kind.String() + "!")
		c.pending = &transition{depth: c.Level.Depth + 1, how: arriveFall}
	}
}

// search looks for hidden doors, corridors and traps around the player.
func (c *Context) search() {
	p := c.Player
	l := c.Level
	for x := p.X - 1; x <= p.X+1; x++ {
		for y := p.Y - 1; y <= p.Y+1; y++ {
			if !world.InBounds(x, y) || (x == p.X && y == p.Y) {
				continue
			}
			cell := &l.Cells[x][y]
			switch cell.Type {
			case world.SecretDoor:
				if c.core.Rnl(7, p.Luck) != 0 {
					continue
				}
				cell.Type = world.Door
				if cell.Door&world.Locked == 0 {
					cell.Door |= world.Closed
				}
				c.exercise(gamedata.AttrWis, true)
				p.Multi = 0
				c.message("You find a hidden door.")
			case world.SecretCorridor:
				if c.core.Rnl(7, p.Luck) != 0 {
					continue
				}
				cell.Type = world.Corridor
				c.exercise(gamedata.AttrWis, true)
				p.Multi = 0
				c.message("You find a hidden passage.")
			default:
				if trap, ok := l.TrapAt(x, y); ok && !trap.Seen && c.core.Rnl(8, p.Luck) == 0 {
					trap.Seen = true
					p.Multi = 0
					c.message("You find a " + trap.Kind.String() + ".")
				}
			}
		}
	}
}

// useStairs climbs or descends the staircase under the player. Climbing
// out of the first level ends the game.
func (c *Context) useStairs(ctx context.Context, up bool) (bool, error) {
	p := c.Player
	st, ok := c.Level.StairsAt(p.X, p.Y)
	if !ok || st.Up != up {
		if up {
			c.message("You can't go up here.")
		} else {
			c.message("You can't go down here.")
		}
		return false, nil
	}

	depth := c.Level.Depth
	if up && depth <= 1 {
		c.final = Result{Outcome: OutcomeEscaped, Cause: "escaped the dungeon"}
		return true, nil
	}
	dest, how := st.Destination, arriveAscend
	if !up {
		how = arriveDescend
	}
	if dest == 0 {
		dest = depth - 1
		if !up {
			dest = depth + 1
		}
	}
	return true, c.changeLevel(ctx, dest, how)
}
