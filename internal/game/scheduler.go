package game

import (
	"context"
	"fmt"

	"github.com/samdwyer/nhparity/internal/entity"
)

const (
	// maxSchedulerRounds bounds the new-turn rounds one action may take
	// before the player can move again.
	maxSchedulerRounds = 1000

	// Below the stronghold random generation speeds up.
	strongholdDepth = 27

	spawnRateDemigod = 25
	spawnRateDeep    = 50
	spawnRate        = 70
)

// act performs the player's part of a step and reports whether it took
// time. A helpless player loses the turn whatever the command.
func (c *Context) act(ctx context.Context, cmd entity.Command) (bool, error) {
	p := c.Player
	p.Moved = false
	if p.Multi < 0 {
		p.Multi++
		if p.Multi == 0 && c.onWake != nil {
			wake := c.onWake
			c.onWake = nil
			wake()
		}
		return true, nil
	}

	switch cmd.Kind {
	case entity.CmdWait, entity.CmdRest:
		return true, nil
	case entity.CmdSearch:
		c.search()
		return true, nil
	case entity.CmdMove:
		return c.moveDir(ctx, cmd.Dir), nil
	case entity.CmdDescend:
		return c.useStairs(ctx, false)
	case entity.CmdAscend:
		return c.useStairs(ctx, true)
	case entity.CmdNoop:
		return false, nil
	}
	return false, fmt.Errorf("game: unknown command %v", cmd.Kind)
}

// advance pays for the player's action and runs monsters and new turns
// until the player has a full move again. Monsters always get one pass,
// even when the player still has movement left over.
func (c *Context) advance() error {
	p := c.Player
	p.Movement -= entity.NormalSpeed
	for range maxSchedulerRounds {
		for {
			moved := c.moveMonsters()
			if c.over() || p.Movement >= entity.NormalSpeed {
				return nil
			}
			if !moved {
				break
			}
		}

		c.newTurn()
		if c.over() || p.Movement >= entity.NormalSpeed {
			return nil
		}
	}
	return ErrSchedulerStalled
}

// moveMonsters gives every monster with a full move one action, in list
// order. It reports whether any monster can still act afterwards.
func (c *Context) moveMonsters() bool {
	canMove := false
	for _, m := range c.Monsters.All() {
		if !m.IsAlive() || m.Movement < entity.NormalSpeed {
			continue
		}
		m.Movement -= entity.NormalSpeed
		if m.Movement >= entity.NormalSpeed {
			canMove = true
		}
		c.monsterTurn(m)
		if c.over() {
			break
		}
	}
	return canMove
}

// newTurn runs the bookkeeping done once nobody can move: monster upkeep,
// movement reallocation, random generation, the player's new movement,
// the turn counter and then the per-turn effects.
func (c *Context) newTurn() {
	c.monsterDistress()
	for _, m := range c.Monsters.All() {
		m.Movement += m.CalcMove(c.core)
	}

	if c.core.Rn2(c.spawnRate()) == 0 {
		c.spawnMonster()
	}

	p := c.Player
	p.Movement = max(p.Movement+c.playerMoveAmount(), 0)
	c.Turn++

	c.runEffects()
}

func (c *Context) spawnRate() int {
	switch {
	case c.Player.Demigod:
		return spawnRateDemigod
	case c.Level.Depth > strongholdDepth:
		return spawnRateDeep
	default:
		return spawnRate
	}
}

// monsterDistress regenerates monsters every twentieth turn and counts
// down flee timers.
func (c *Context) monsterDistress() {
	for _, m := range c.Monsters.All() {
		if m.HP < m.HPMax && c.Turn%20 == 0 {
			m.HP++
		}
		if m.FleeTimer > 0 {
			m.FleeTimer--
			if m.FleeTimer == 0 {
				m.Fleeing = false
			}
		}
	}
}

// playerMoveAmount returns the movement the player gains this turn.
func (c *Context) playerMoveAmount() int {
	p := c.Player
	amt := entity.NormalSpeed
	if p.Intrinsics.VeryFast {
		if c.core.Rn2(3) != 0 {
			amt += entity.NormalSpeed
		}
	} else if p.Intrinsics.Fast {
		if c.core.Rn2(3) == 0 {
			amt += entity.NormalSpeed
		}
	}

	switch p.Encumbrance {
	case entity.Burdened:
		amt -= amt / 4
	case entity.Stressed:
		amt -= amt / 2
	case entity.Strained:
		amt -= amt * 3 / 4
	case entity.Overtaxed, entity.Overloaded:
		amt -= amt * 7 / 8
	}
	return amt
}
