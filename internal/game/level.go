package game

import (
	"context"
	"fmt"

	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/world"
)

// arrival is how the player reaches a level, which decides where they land.
type arrival int

const (
	arriveStart   arrival = iota // new game, on the up stairs
	arriveDescend                // on the up stairs
	arriveAscend                 // on the down stairs
	arriveFall                   // anywhere
)

// transition is a level change waiting for the current move to finish.
type transition struct {
	depth int
	how   arrival
}

func (c *Context) applyTransition(ctx context.Context) error {
	t := c.pending
	c.pending = nil
	return c.changeLevel(ctx, t.depth, t.how)
}

// changeLevel files the current level away and enters depth.
func (c *Context) changeLevel(ctx context.Context, depth int, how arrival) error {
	c.visited[c.Level.Depth] = &savedLevel{
		level:      c.Level,
		monsters:   c.Monsters,
		regions:    c.regions,
		engravings: c.engravings,
	}
	return c.enterLevel(ctx, depth, how)
}

// enterLevel restores a visited level or generates and stocks a new one,
// then places the player.
func (c *Context) enterLevel(ctx context.Context, depth int, how arrival) error {
	if saved, ok := c.visited[depth]; ok {
		delete(c.visited, depth)
		c.Level = saved.level
		c.Monsters = saved.monsters
		c.regions = saved.regions
		c.engravings = saved.engravings
	} else {
		l, err := c.gen.Generate(ctx, c.cfg.levelParams(depth))
		if err != nil {
			return fmt.Errorf("game: enter depth %d: %w", depth, err)
		}
		c.Level = l
		c.Monsters = entity.NewMonsterList()
		c.regions = nil
		c.engravings = make(map[world.Point]string)
		// Off the map while the level is stocked.
		c.Player.SetPosition(0, 0)
		c.populate()
	}

	c.placePlayer(how)
	c.out.LevelChanged(c.Level)
	return nil
}

// placePlayer puts the player down according to how they arrived. A
// monster already standing there is moved aside.
func (c *Context) placePlayer(how arrival) {
	var (
		x, y int
		ok   bool
	)
	c.Player.SetPosition(0, 0)
	switch how {
	case arriveStart, arriveDescend:
		var st world.Stairway
		st, ok = c.Level.UpStairs()
		x, y = st.X, st.Y
	case arriveAscend:
		var st world.Stairway
		st, ok = c.Level.DownStairs()
		x, y = st.X, st.Y
	case arriveFall:
		x, y, ok = c.randomSpot()
	}
	if !ok {
		x, y, ok = c.firstPassable()
	}
	if !ok {
		return
	}
	c.Player.SetPosition(x, y)
	if m := c.Monsters.At(x, y); m != nil {
		c.displace(m)
	}
}

func (c *Context) firstPassable() (int, int, bool) {
	for x := 1; x < world.COLNO; x++ {
		for y := 0; y < world.ROWNO; y++ {
			if c.Level.IsPassable(x, y) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// displace moves m to the nearest free square, searching rings of
// growing radius. A monster with nowhere to go is removed.
func (c *Context) displace(m *entity.Monster) {
	for r := 1; r < world.COLNO; r++ {
		for x := m.X - r; x <= m.X+r; x++ {
			for y := m.Y - r; y <= m.Y+r; y++ {
				if max(abs(x-m.X), abs(y-m.Y)) != r {
					continue
				}
				if c.goodPos(x, y) {
					m.SetPosition(x, y)
					return
				}
			}
		}
	}
	c.Monsters.Remove(m.ID)
}
