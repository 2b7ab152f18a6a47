package game

import (
	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/gamedata"
)

const (
	// Experience level above which healing comes in bursts every third turn.
	burstHealLevel = 9
	// Constitution at or below which a burst heals a single point.
	burstHealCon = 12

	polyRegenPeriod = 20
	passOutTurns    = 10
)

// regenHP heals the player. Low level characters heal one point on a
// level dependent cadence; from level 10 healing is rolled every third
// turn and bounded by constitution and level.
func (c *Context) regenHP() {
	p := c.Player
	regen := p.Intrinsics.Regeneration
	light := p.Encumbrance < entity.Stressed

	if p.Polymorphed {
		if p.PolyHP < p.PolyHPMax && (regen || (light && c.Turn%polyRegenPeriod == 0)) {
			p.PolyHP++
		}
		return
	}
	if p.HP >= p.HPMax || !(light || !p.Moved || regen) {
		return
	}

	switch {
	case p.Level > burstHealLevel && c.Turn%3 == 0:
		heal := 1
		if con := p.Attr(gamedata.AttrCon); con > burstHealCon {
			heal = min(c.core.Rnd(con), p.Level-burstHealLevel)
		}
		p.HP = min(p.HP+heal, p.HPMax)
	case regen || (p.Level <= burstHealLevel && c.Turn%HealInterval(p.Level) == 0):
		p.HP++
	}
}

// HealInterval returns how many turns apart a character of the given
// level below 10 regains a hit point.
func HealInterval(level int) int {
	return (entity.MaxLevel+12)/(level+2) + 1
}

// exertion makes moving around heavily loaded cost hit points. With
// nothing left to lose the player passes out.
func (c *Context) exertion() {
	p := c.Player
	if p.Encumbrance <= entity.Stressed || !p.Moved {
		return
	}
	period := 30
	if p.Encumbrance >= entity.Overtaxed {
		period = 10
	}
	if c.Turn%period != 0 {
		return
	}

	switch {
	case p.Polymorphed && p.PolyHP > 1:
		p.PolyHP--
	case !p.Polymorphed && p.HP > 1:
		p.HP--
	default:
		c.message("You pass out from exertion!")
		c.exercise(gamedata.AttrCon, false)
		c.fallAsleep(passOutTurns)
	}
}

// fallAsleep leaves the player helpless for turns turns.
func (c *Context) fallAsleep(turns int) {
	p := c.Player
	p.Multi = -turns
	c.sleeping = true
	c.onWake = func() {
		c.sleeping = false
		c.message("You wake up.")
	}
}

// regenEnergy restores magical energy on a level and role dependent
// cadence.
func (c *Context) regenEnergy() {
	p := c.Player
	if p.Energy >= p.EnergyMax || p.Encumbrance >= entity.Stressed {
		return
	}
	factor := 4
	if p.Role.ID == "wizard" {
		factor = 3
	}
	interval := (entity.MaxLevel + 8 - p.Level) * factor / 6
	if interval <= 0 || c.Turn%interval != 0 {
		return
	}
	gain := c.core.Rn1((p.Attr(gamedata.AttrWis)+p.Attr(gamedata.AttrInt))/15+1, 1)
	p.Energy = min(p.Energy+gain, p.EnergyMax)
}
