package game

import (
	"strings"

	"github.com/samdwyer/nhparity/internal/gamedata"
	"github.com/samdwyer/nhparity/internal/world"
)

// effect is one named step of the once-per-turn pipeline.
type effect struct {
	name string
	run  func(c *Context)
}

// effects run in this order after every new turn. A step that ends the
// game stops the rest.
var effects = []effect{
	{"glib", (*Context).tickGlib},
	{"timers", (*Context).tickTimers},
	{"regions", (*Context).runRegions},
	{"bless", (*Context).tickBless},
	{"regen_hp", (*Context).regenHP},
	{"exertion", (*Context).exertion},
	{"regen_energy", (*Context).regenEnergy},
	{"teleport", (*Context).randomTeleport},
	{"polymorph", (*Context).randomPolymorph},
	{"search", (*Context).autoSearch},
	{"sounds", (*Context).dungeonSounds},
	{"storms", (*Context).storms},
	{"hunger", (*Context).hunger},
	{"spells", (*Context).ageSpells},
	{"exercise", (*Context).exerciseCheck},
	{"special_rooms", (*Context).specialRooms},
	{"engravings", (*Context).wipeEngraving},
	{"intervention", (*Context).intervention},
}

// EffectNames returns the per-turn effect steps in execution order.
func EffectNames() []string {
	names := make([]string, len(effects))
	for i, e := range effects {
		names[i] = e.name
	}
	return names
}

func (c *Context) runEffects() {
	for _, e := range effects {
		e.run(c)
		if c.over() {
			return
		}
	}
}

func (c *Context) tickGlib() {
	t := &c.Player.Timers
	if t.Glib > 0 {
		t.Glib--
		if t.Glib == 0 {
			c.message("Your fingers are no longer slippery.")
		}
	}
}

const (
	luckDecayPeriod        = 600
	luckDecayPeriodAmulet  = 300
	fumbleHelplessTurns    = 2
	polymorphDurationBase  = 500
	polymorphDurationRange = 500
)

// countdown decrements *t and reports whether it just expired.
func countdown(t *int) bool {
	if *t <= 0 {
		return false
	}
	*t--
	return *t == 0
}

// tickTimers counts down the timed status effects. The fatal ones kill
// when they run out.
func (c *Context) tickTimers() {
	p := c.Player
	t := &p.Timers

	if countdown(&t.Stun) {
		c.message("You feel a bit steadier now.")
	}
	if countdown(&t.Confusion) {
		c.message("You feel less confused now.")
	}
	if countdown(&t.Blind) {
		c.message("You can see again.")
	}
	if countdown(&t.Hallucination) {
		c.message("Everything looks SO boring now.")
	}
	if countdown(&t.Stoned) {
		c.die("turned to stone")
		return
	}
	if countdown(&t.Slimed) {
		c.die("turned into green slime")
		return
	}
	if countdown(&t.Strangled) {
		c.die("strangulation")
		return
	}
	if countdown(&t.Sick) {
		c.die("illness")
		return
	}
	if countdown(&t.Fumbling) && p.Multi >= 0 {
		c.message("You trip over something.")
		p.Multi = -fumbleHelplessTurns
	}
	if countdown(&p.PolyTimer) {
		p.Rehumanize()
		c.message("You return to human form!")
	}

	period := luckDecayPeriod
	if p.HasAmulet {
		period = luckDecayPeriodAmulet
	}
	if p.Luck != 0 && c.Turn%period == 0 {
		if p.Luck > 0 {
			p.Luck--
		} else {
			p.Luck++
		}
	}
}

// Region is a poison gas cloud covering a rectangle of the level.
type Region struct {
	Lx, Ly int
	Hx, Hy int
	TTL    int // Turns left
	Damage int
}

// Contains reports whether (x, y) lies inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.Lx && x <= r.Hx && y >= r.Ly && y <= r.Hy
}

// AddRegion places a gas cloud on the current level.
func (c *Context) AddRegion(r Region) {
	c.regions = append(c.regions, r)
}

// Regions returns the active gas clouds.
func (c *Context) Regions() []Region {
	return c.regions
}

// runRegions ages the clouds and then hurts everything inside them.
func (c *Context) runRegions() {
	live := c.regions[:0]
	for _, r := range c.regions {
		r.TTL--
		if r.TTL > 0 {
			live = append(live, r)
		}
	}
	c.regions = live

	p := c.Player
	for _, r := range c.regions {
		if r.Contains(p.X, p.Y) {
			c.message("The gas cloud is burning your lungs!")
			p.TakeDamage(c.core.Rnd(r.Damage) + 5)
			if !p.IsAlive() {
				c.die("gas cloud")
				return
			}
		}
		for _, m := range c.Monsters.All() {
			if m.IsAlive() && r.Contains(m.X, m.Y) {
				m.TakeDamage(c.core.Rnd(r.Damage) + 5)
			}
		}
	}
	c.Monsters.RemoveDead()
}

func (c *Context) tickBless() {
	if c.Player.BlessCount > 0 {
		c.Player.BlessCount--
	}
}

const (
	teleportChance  = 85
	polymorphChance = 100
	teleportTries   = 400
	teleportTrapsOK = 200
)

// randomTeleport moves a teleportitic player somewhere random.
func (c *Context) randomTeleport() {
	p := c.Player
	if !p.Intrinsics.Teleportation || c.core.Rn2(teleportChance) != 0 {
		return
	}
	if c.Level.Flags.NoTeleport {
		c.message("A mysterious force prevents you from teleporting!")
		return
	}
	if x, y, ok := c.randomSpot(); ok {
		p.SetPosition(x, y)
		c.message("You feel a wrenching sensation.")
	}
}

// randomSpot picks a random free position for the player. Traps are
// avoided for the first attempts.
func (c *Context) randomSpot() (int, int, bool) {
	for tries := 1; tries <= teleportTries; tries++ {
		x := c.core.Rnd(world.COLNO - 1)
		y := c.core.Rn2(world.ROWNO)
		if !c.goodPos(x, y) {
			continue
		}
		if _, trapped := c.Level.TrapAt(x, y); trapped && tries <= teleportTrapsOK {
			continue
		}
		return x, y, true
	}
	return 0, 0, false
}

// randomPolymorph turns a polymorphitic player into a random creature.
// A weak constitution may reject the change.
func (c *Context) randomPolymorph() {
	p := c.Player
	if !p.Intrinsics.Polymorph || c.core.Rn2(polymorphChance) != 0 {
		return
	}
	c.message("You feel a change coming over you.")
	if c.core.Rn2(20) > p.Attr(gamedata.AttrCon) {
		c.message("You shudder for a moment.")
		p.TakeDamage(c.core.Rnd(30))
		if !p.IsAlive() {
			c.die("system shock")
		}
		return
	}
	sp := c.species.SpawnRandom(c.core, 0, max(p.Level, 1))
	if sp == nil {
		return
	}
	hp := c.core.Rnd(4)
	if sp.Level > 0 {
		hp = c.core.D(sp.Level, 8)
	}
	p.Polymorph(sp.ID, hp, c.core.Rn1(polymorphDurationRange, polymorphDurationBase))
	c.message("You turn into a " + sp.Name + "!")
}

func (c *Context) autoSearch() {
	if c.Player.Intrinsics.Searching && c.Player.Multi >= 0 {
		c.search()
	}
}

var (
	fountainSounds = []string{
		"You hear bubbling water.",
		"You hear water falling on coins.",
		"You hear the splashing of a naiad.",
		"You hear a soda fountain!",
	}
	sinkSounds = []string{
		"You hear a slow drip.",
		"You hear a gurgling noise.",
		"You hear dishes being washed!",
	}
)

// dungeonSounds plays the ambient noises of fountains and sinks.
func (c *Context) dungeonSounds() {
	hallu := 0
	if c.Player.Timers.Hallucination > 0 {
		hallu = 1
	}
	if c.Level.Flags.Fountains > 0 && c.core.Rn2(400) == 0 {
		c.message(fountainSounds[c.core.Rn2(3)+hallu])
	}
	if c.Level.Flags.Sinks > 0 && c.core.Rn2(300) == 0 {
		c.message(sinkSounds[c.core.Rn2(2)+hallu])
	}
}

const (
	stormChance     = 8
	stormStrikesMax = 64
	stormTries      = 100
	thunderTurns    = 3
)

// storms throws lightning around stormy levels. A player standing in a
// cloud is stunned by the thunder.
func (c *Context) storms() {
	if !c.Level.Flags.Storms || c.core.Rn2(stormChance) != 0 {
		return
	}
	for n := c.core.Rnd(stormStrikesMax); n <= stormStrikesMax; n *= 2 {
		count := 0
		for {
			x := c.core.Rnd(world.COLNO - 1)
			y := c.core.Rn2(world.ROWNO)
			count++
			if count >= stormTries || c.Level.TypeAt(x, y) == world.Cloud {
				break
			}
		}
		if count < stormTries {
			c.core.Rn2(3) // bolt direction
			c.core.Rn2(3)
		}
	}

	p := c.Player
	if c.Level.TypeAt(p.X, p.Y) == world.Cloud {
		c.message("Kaboom!!!  Boom!!  Boom!!")
		if p.Multi >= 0 {
			p.Multi = -thunderTurns
		}
	} else {
		c.message("You hear a rumbling noise.")
	}
}

func (c *Context) ageSpells() {
	for i := range c.Player.Spells {
		if c.Player.Spells[i].Retention > 0 {
			c.Player.Spells[i].Retention--
		}
	}
}

const (
	amuletChance   = 15
	amuletWakeRate = 40
)

// specialRooms lets a carried Amulet stir up the level.
func (c *Context) specialRooms() {
	if !c.Player.HasAmulet || c.core.Rn2(amuletChance) != 0 {
		return
	}
	for _, m := range c.Monsters.All() {
		if m.Asleep && c.core.Rn2(amuletWakeRate) == 0 {
			m.Asleep = false
			c.message("You get the feeling that something is watching you.")
			return
		}
	}
}

// Engrave writes text in the dust at (x, y), replacing any engraving.
func (c *Context) Engrave(x, y int, text string) {
	c.engravings[world.Point{X: x, Y: y}] = text
}

// EngravingAt returns the engraving at (x, y).
func (c *Context) EngravingAt(x, y int) (string, bool) {
	text, ok := c.engravings[world.Point{X: x, Y: y}]
	return text, ok
}

// rubouts lists what a wiped character may degrade to.
var rubouts = map[byte]string{
	'A': "^", 'B': "Pb[", 'C': "(", 'D': "|)[", 'E': "|FL[_", 'F': "|-",
	'G': "C(", 'H': "|-", 'I': "|", 'K': "|<", 'L': "|_", 'M': "|",
	'N': "|\\", 'O': "C(", 'P': "F", 'Q': "C(", 'R': "PF", 'T': "|",
	'U': "J", 'V': "/\\", 'W': "V/\\", 'Z': "/", 'b': "|", 'd': "c|",
	'e': "c", 'g': "c", 'h': "n", 'j': "i", 'k': "|", 'l': "|",
	'm': "nr", 'n': "r", 'o': "c", 'q': "c", 'w': "v", 'y': "v",
	':': ".", ';': ",:", ',': ".", '=': "-", '+': "-|", '*': "+",
	'@': "0", '0': "C(", '1': "|", '6': "o", '7': "/", '8': "3o",
}

// wipeEngraving scuffs the engraving under the player now and then.
func (c *Context) wipeEngraving() {
	dex := c.Player.Attr(gamedata.AttrDex)
	if c.core.Rn2(40+3*dex) != 0 {
		return
	}
	cnt := c.core.Rnd(3)
	pos := world.Point{X: c.Player.X, Y: c.Player.Y}
	text, ok := c.engravings[pos]
	if !ok {
		return
	}
	text = strings.TrimLeft(c.wipeText(text, cnt), " ")
	if text == "" {
		delete(c.engravings, pos)
		return
	}
	c.engravings[pos] = text
}

// wipeText degrades cnt random characters of text.
func (c *Context) wipeText(text string, cnt int) string {
	b := []byte(text)
	if len(b) == 0 {
		return text
	}
	for range cnt {
		i := c.core.Rn2(len(b))
		useRubout := c.core.Rn2(4) != 0
		ch := b[i]
		if ch == ' ' {
			continue
		}
		if strings.IndexByte("?.,'`-|_", ch) >= 0 {
			b[i] = ' '
			continue
		}
		if to, ok := rubouts[ch]; ok && useRubout {
			b[i] = to[c.core.Rn2(len(to))]
			continue
		}
		b[i] = '?'
	}
	return string(b)
}

const (
	interventionBase  = 50
	interventionRange = 200
)

// intervention counts down to the next divine meddling with a demigod.
func (c *Context) intervention() {
	p := c.Player
	if !p.Demigod {
		return
	}
	if p.Intervention > 0 {
		p.Intervention--
	}
	if p.Intervention == 0 {
		c.intervene()
		p.Intervention = c.core.Rn1(interventionRange, interventionBase)
	}
}

// intervene picks one of the gods' nuisances.
func (c *Context) intervene() {
	switch c.core.Rn2(6) {
	case 0, 1:
		c.message("You feel vaguely nervous.")
	case 2:
		c.message("You feel that Moloch is displeased.")
		c.Player.Luck = max(c.Player.Luck-1, -10)
	case 3:
		if c.Level.Flags.NoTeleport {
			break
		}
		if x, y, ok := c.randomSpot(); ok {
			c.Player.SetPosition(x, y)
		}
	case 4:
		c.message("You feel a malignant aura surround you.")
		c.Player.BlessCount += 200
	case 5:
		c.spawnMonster()
	}
}
