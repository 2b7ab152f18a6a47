package game

import (
	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/gamedata"
)

const (
	// A sleeping player burns food one turn in this many.
	sleepMetabolism = 10
	// Chance denominator base for fainting while merely Fainting.
	faintBase = 20
	// Starvation sets in below -(starveBase + starveCon*Con).
	starveBase = 200
	starveCon  = 20
)

// hunger burns the turn's nutrition and updates the hunger state.
func (c *Context) hunger() {
	p := c.Player
	if !c.sleeping || c.core.Rn2(sleepMetabolism) == 0 {
		p.Hunger--
	}
	if c.Turn%2 == 1 {
		if p.Intrinsics.Regeneration {
			p.Hunger--
		}
		if p.Encumbrance > entity.Burdened {
			p.Hunger--
		}
	} else if c.Turn%20 == 16 && p.HasAmulet {
		p.Hunger--
	}
	c.updateHungerState()
}

// updateHungerState recomputes the hunger state, fainting or starving
// the player when food has run out.
func (c *Context) updateHungerState() {
	p := c.Player
	h := p.Hunger
	next := entity.HungerStateFor(h)

	if next == entity.Fainting {
		fainted := p.HungerState == entity.Fainted
		if fainted {
			next = entity.Fainted
		}
		if p.HungerState <= entity.Weak || c.core.Rn2(faintBase-h/10) >= faintBase-1 {
			if !fainted && p.Multi >= 0 {
				duration := 10 - h/10
				c.message("You faint from lack of food.")
				p.Multi = -duration
				c.onWake = c.unfaint
				next = entity.Fainted
			}
		} else if h < -(starveBase + starveCon*p.Attr(gamedata.AttrCon)) {
			p.HungerState = entity.Starved
			c.die("starvation")
			return
		}
	}

	if next == p.HungerState {
		return
	}
	switch {
	case next >= entity.Weak && p.HungerState < entity.Weak:
		p.AdjustAttr(gamedata.AttrStr, -1)
	case next < entity.Weak && p.HungerState >= entity.Weak:
		p.AdjustAttr(gamedata.AttrStr, 1)
	}
	switch next {
	case entity.Hungry:
		c.message("You are beginning to feel hungry.")
	case entity.Weak:
		c.message("You are beginning to feel weak.")
	}
	p.HungerState = next
}

// unfaint wakes the player from a faint.
func (c *Context) unfaint() {
	if c.Player.HungerState > entity.Fainting {
		c.Player.HungerState = entity.Fainting
	}
	c.message("You regain consciousness.")
}
