package game

import (
	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/gamedata"
)

const (
	// exerciseLimit caps accumulated exercise in either direction.
	exerciseLimit = 50
	// exerciseCap is the highest value exercise alone can raise to.
	exerciseCap = 18

	attribCheckBase  = 800
	attribCheckRange = 200
)

// exercise trains (up) or abuses an attribute. Intelligence and charisma
// cannot be exercised, and a polymorphed body only trains wisdom.
func (c *Context) exercise(attr int, up bool) {
	p := c.Player
	if attr == gamedata.AttrInt || attr == gamedata.AttrCha {
		return
	}
	if p.Polymorphed && attr != gamedata.AttrWis {
		return
	}
	if abs(p.Exercise[attr]) >= exerciseLimit {
		return
	}
	if up {
		if c.core.Rn2(19) > p.Attr(attr) {
			p.Exercise[attr]++
		}
	} else {
		p.Exercise[attr] -= c.core.Rn2(2)
	}
}

// exerciseCheck accumulates the periodic exercise and, once due, tests
// each exercised attribute for a change.
func (c *Context) exerciseCheck() {
	c.periodicExercise()

	p := c.Player
	if c.Turn < c.nextAttribCheck || p.Multi != 0 {
		return
	}
	for i := range gamedata.NumAttrs {
		ax := p.Exercise[i]
		if ax == 0 {
			continue
		}
		mod := sign(ax)
		if c.attrChangeable(i, ax) {
			threshold := abs(ax)
			if i != gamedata.AttrWis {
				threshold = abs(ax) * 2 / 3
			}
			if c.core.Rn2(exerciseLimit) <= threshold && p.AdjustAttr(i, mod) {
				ax = 0
				c.exerciseMessage(i, mod)
			}
		}
		p.Exercise[i] = abs(ax) / 2 * mod
	}
	c.nextAttribCheck += c.core.Rn1(attribCheckRange, attribCheckBase)
}

// attrChangeable reports whether exercise ax could still move attribute i.
func (c *Context) attrChangeable(i, ax int) bool {
	p := c.Player
	hi := min(p.Race.AttrMax[i], exerciseCap)
	if ax < 0 && p.Attrs[i] <= 3 || ax > 0 && p.Attrs[i] >= hi {
		return false
	}
	return !p.Polymorphed || i == gamedata.AttrWis
}

var exerciseMessages = [gamedata.NumAttrs][2]string{
	gamedata.AttrStr: {"You must have been exercising diligently.", "You must have been abusing your body."},
	gamedata.AttrWis: {"You must have been very observant.", "You haven't been paying attention."},
	gamedata.AttrDex: {"You must have been working on your reflexes.", "You haven't been working on reflexes lately."},
	gamedata.AttrCon: {"You must be leading a healthy life-style.", "You haven't been watching your health."},
}

func (c *Context) exerciseMessage(i, mod int) {
	msg := exerciseMessages[i][0]
	if mod < 0 {
		msg = exerciseMessages[i][1]
	}
	if msg != "" {
		c.message(msg)
	}
}

// periodicExercise trains or abuses attributes from the player's
// condition: hunger and load every ten turns, intrinsics and ailments
// every five.
func (c *Context) periodicExercise() {
	p := c.Player
	monk := p.Role.ID == "monk"

	if c.Turn%10 == 0 {
		switch entity.HungerStateFor(p.Hunger) {
		case entity.Satiated:
			c.exercise(gamedata.AttrDex, false)
			if monk {
				c.exercise(gamedata.AttrWis, false)
			}
		case entity.NotHungry:
			c.exercise(gamedata.AttrCon, true)
		case entity.Weak:
			c.exercise(gamedata.AttrStr, false)
			if monk {
				c.exercise(gamedata.AttrWis, true)
			}
		case entity.Fainting:
			c.exercise(gamedata.AttrCon, false)
		}

		switch p.Encumbrance {
		case entity.Stressed:
			c.exercise(gamedata.AttrStr, true)
		case entity.Strained:
			c.exercise(gamedata.AttrStr, true)
			c.exercise(gamedata.AttrDex, false)
		case entity.Overtaxed:
			c.exercise(gamedata.AttrDex, false)
			c.exercise(gamedata.AttrCon, false)
		}
	}

	if c.Turn%5 == 0 {
		t := p.Timers
		if p.Intrinsics.Regeneration {
			c.exercise(gamedata.AttrStr, true)
		}
		if t.Sick > 0 {
			c.exercise(gamedata.AttrCon, false)
		}
		if t.Confusion > 0 || t.Hallucination > 0 {
			c.exercise(gamedata.AttrWis, false)
		}
		if t.Fumbling > 0 || t.Stun > 0 {
			c.exercise(gamedata.AttrDex, false)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
