// Package entity provides the player, monsters and the commands that drive them.
package entity

import (
	"github.com/samdwyer/nhparity/internal/combat"
	"github.com/samdwyer/nhparity/internal/gamedata"
	"github.com/samdwyer/nhparity/internal/rng"
)

const (
	// MaxLevel is the highest experience level.
	MaxLevel = 30
	// InitialNutrition is the hunger counter of a new character.
	InitialNutrition = 900
	// InitialBlessCount is the prayer timeout of a new character.
	InitialBlessCount = 300
	// BaseAC is the armor class of an unarmored character.
	BaseAC = 10

	attributePoints = 75
	attributeTries  = 100
)

// HungerState is the coarse nutrition status derived from the hunger counter.
type HungerState int

const (
	Satiated HungerState = iota
	NotHungry
	Hungry
	Weak
	Fainting
	Fainted
	Starved
)

// String returns the hunger state's status-line name.
func (h HungerState) String() string {
	switch h {
	case Satiated:
		return "Satiated"
	case NotHungry:
		return "Not Hungry"
	case Hungry:
		return "Hungry"
	case Weak:
		return "Weak"
	case Fainting:
		return "Fainting"
	case Fainted:
		return "Fainted"
	case Starved:
		return "Starved"
	default:
		return "Unknown"
	}
}

// HungerStateFor maps a nutrition counter onto a hunger state.
func HungerStateFor(nutrition int) HungerState {
	switch {
	case nutrition > 1000:
		return Satiated
	case nutrition > 150:
		return NotHungry
	case nutrition > 50:
		return Hungry
	case nutrition > 0:
		return Weak
	default:
		return Fainting
	}
}

// Encumbrance is how heavily the player is loaded.
type Encumbrance int

const (
	Unencumbered Encumbrance = iota
	Burdened
	Stressed
	Strained
	Overtaxed
	Overloaded
)

// Timers holds the player's countdown status effects. Zero means inactive.
type Timers struct {
	Stun          int
	Confusion     int
	Blind         int
	Hallucination int
	Stoned        int
	Slimed        int
	Strangled     int
	Sick          int
	Glib          int
	Fumbling      int
}

// Intrinsics are the player's permanent properties.
type Intrinsics struct {
	Fast          bool
	VeryFast      bool
	Regeneration  bool
	Teleportation bool
	Polymorph     bool
	Searching     bool
}

// Player is the hero.
type Player struct {
	Name   string
	Role   *gamedata.RoleDef
	Race   *gamedata.RaceDef
	Symbol rune
	X, Y   int

	HP, HPMax         int
	Energy, EnergyMax int
	AC                int
	Level             int
	Exp               int

	Attrs    [gamedata.NumAttrs]int // Current attribute values
	AttrMax  [gamedata.NumAttrs]int // Peak attribute values
	Exercise [gamedata.NumAttrs]int // Accumulated exercise (positive) or abuse

	Movement int
	Multi    int  // Negative: helpless for -Multi turns. Positive: repeat count.
	Moved    bool // Whether the last command moved the player

	Hunger      int
	HungerState HungerState
	Timers      Timers
	Intrinsics  Intrinsics
	Encumbrance Encumbrance

	Gold       int
	Luck       int
	BlessCount int
	Inventory  []Item
	Spells     []Spell
	HasAmulet  bool

	Demigod      bool
	Intervention int // Turns until the next divine intervention

	// Polymorph state. While Polymorphed, PolyHP takes the hits.
	Polymorphed bool
	PolyForm    string
	PolyHP      int
	PolyHPMax   int
	PolyTimer   int
}

// Spell is a known spell. Retention counts down to zero, at which point
// the spell is forgotten.
type Spell struct {
	Name      string
	Retention int
}

// SpellRetention is the retention of a freshly learned spell.
const SpellRetention = 20000

var startingSpells = map[string]string{
	"healer": "healing",
	"priest": "remove curse",
	"wizard": "force bolt",
}

// NewPlayer rolls a new level 1 character. Draws happen in a fixed order:
// attribute distribution, attribute variation, hit points, then energy.
func NewPlayer(name string, role *gamedata.RoleDef, race *gamedata.RaceDef, s *rng.Stream) *Player {
	p := &Player{
		Name:        name,
		Role:        role,
		Race:        race,
		Symbol:      '@',
		AC:          BaseAC,
		Hunger:      InitialNutrition,
		HungerState: NotHungry,
		BlessCount:  InitialBlessCount,
	}
	p.Intrinsics.Fast = role.Fast
	if spell, ok := startingSpells[role.ID]; ok {
		p.Spells = []Spell{{Name: spell, Retention: SpellRetention}}
	}
	p.rollAttributes(s)

	p.HPMax = p.NewHP(s)
	p.HP = p.HPMax
	p.EnergyMax = p.NewEnergy(s)
	p.Energy = p.EnergyMax
	p.Level = 1
	return p
}

// rollAttributes distributes the role's points up to the racial maximum,
// then nudges each attribute with a small chance.
func (p *Player) rollAttributes(s *rng.Stream) {
	np := attributePoints
	for i := range gamedata.NumAttrs {
		p.Attrs[i] = p.Role.AttrBase[i]
		np -= p.Attrs[i]
	}

	tries := 0
	for np > 0 && tries < attributeTries {
		x := s.Rn2(100)
		i := 0
		for i < gamedata.NumAttrs {
			x -= p.Role.AttrDist[i]
			if x <= 0 {
				break
			}
			i++
		}
		if i >= gamedata.NumAttrs {
			continue
		}
		if p.Attrs[i] >= p.Race.AttrMax[i] {
			tries++
			continue
		}
		tries = 0
		p.Attrs[i]++
		np--
	}
	p.AttrMax = p.Attrs

	for i := range gamedata.NumAttrs {
		if s.Rn2(20) != 0 {
			continue
		}
		p.AdjustAttr(i, s.Rn2(7)-2)
		if p.Attrs[i] < p.AttrMax[i] {
			p.AttrMax[i] = p.Attrs[i]
		}
	}
}

// AdjustAttr changes attribute i by delta within [3, racial max] and
// raises the peak value when the current value passes it.
func (p *Player) AdjustAttr(i, delta int) bool {
	old := p.Attrs[i]
	v := min(max(old+delta, 3), p.Race.AttrMax[i])
	p.Attrs[i] = v
	if v > p.AttrMax[i] {
		p.AttrMax[i] = v
	}
	return v != old
}

// Attr returns the current value of attribute i.
func (p *Player) Attr(i int) int {
	return p.Attrs[i]
}

// ConHPBonus returns the constitution adjustment applied to hit point gains.
func (p *Player) ConHPBonus() int {
	con := p.Attrs[gamedata.AttrCon]
	switch {
	case con <= 3:
		return -2
	case con <= 6:
		return -1
	case con <= 14:
		return 0
	case con <= 16:
		return 1
	case con == 17:
		return 2
	case con == 18:
		return 3
	default:
		return 4
	}
}

// NewHP rolls the hit points for the next level. At level 0 this is the
// starting total; afterwards it is the gain for one level.
func (p *Player) NewHP(s *rng.Stream) int {
	var hp int
	role, race := p.Role.HPAdv, p.Race.HPAdv
	switch {
	case p.Level == 0:
		hp = role.InFix + race.InFix
		if role.InRnd > 0 {
			hp += s.Rnd(role.InRnd)
		}
		if race.InRnd > 0 {
			hp += s.Rnd(race.InRnd)
		}
	case p.Level < p.Role.XLev:
		hp = role.LoFix + race.LoFix
		if role.LoRnd > 0 {
			hp += s.Rnd(role.LoRnd)
		}
		if race.LoRnd > 0 {
			hp += s.Rnd(race.LoRnd)
		}
		hp += p.ConHPBonus()
	default:
		hp = role.HiFix + race.HiFix
		if role.HiRnd > 0 {
			hp += s.Rnd(role.HiRnd)
		}
		if race.HiRnd > 0 {
			hp += s.Rnd(race.HiRnd)
		}
		hp += p.ConHPBonus()
	}
	if hp <= 0 {
		hp = 1
	}
	return hp
}

// NewEnergy rolls the energy for the next level, like NewHP.
func (p *Player) NewEnergy(s *rng.Stream) int {
	var en int
	role, race := p.Role.EnAdv, p.Race.EnAdv
	if p.Level == 0 {
		en = role.InFix + race.InFix
		if role.InRnd > 0 {
			en += s.Rnd(role.InRnd)
		}
		if race.InRnd > 0 {
			en += s.Rnd(race.InRnd)
		}
	} else {
		enrnd := p.Attrs[gamedata.AttrWis] / 2
		var enfix int
		if p.Level < p.Role.XLev {
			enrnd += role.LoRnd + race.LoRnd
			enfix = role.LoFix + race.LoFix
		} else {
			enrnd += role.HiRnd + race.HiRnd
			enfix = role.HiFix + race.HiFix
		}
		en = p.energyModifier(s.Rn1(enrnd, enfix))
	}
	if en <= 0 {
		en = 1
	}
	return en
}

func (p *Player) energyModifier(en int) int {
	switch p.Role.ID {
	case "priest", "wizard":
		return 2 * en
	case "healer", "knight":
		return 3 * en / 2
	case "barbarian", "valkyrie":
		return 3 * en / 4
	default:
		return en
	}
}

// ExperienceForLevel returns the experience needed to reach level+1.
func ExperienceForLevel(level int) int {
	switch {
	case level < 1:
		return 0
	case level < 10:
		return 10 * (1 << level)
	case level < 20:
		return 10000 * (1 << (level - 10))
	default:
		return 10000000 * (level - 19)
	}
}

// GainExperience adds exp and applies every level gained. It returns the
// number of levels gained.
func (p *Player) GainExperience(exp int, s *rng.Stream) int {
	p.Exp += exp
	gained := 0
	for p.Level < MaxLevel && p.Exp >= ExperienceForLevel(p.Level) {
		hp := p.NewHP(s)
		p.HPMax += hp
		p.HP += hp
		en := p.NewEnergy(s)
		p.EnergyMax += en
		p.Energy += en
		p.Level++
		gained++
	}
	return gained
}

// HitBonus returns the attribute to-hit bonus, including the small boost
// given to low level characters.
func (p *Player) HitBonus() int {
	bonus := combat.StrengthToHit(p.Attrs[gamedata.AttrStr])
	if p.Level < 3 {
		bonus++
	}
	return bonus + combat.DexterityToHit(p.Attrs[gamedata.AttrDex])
}

// DamageBonus returns the strength damage bonus. Polymorphed characters
// get none.
func (p *Player) DamageBonus() int {
	if p.Polymorphed {
		return 0
	}
	return combat.StrengthDamage(p.Attrs[gamedata.AttrStr])
}

// MeleeAttack returns the player's melee attack.
func (p *Player) MeleeAttack() gamedata.AttackDef {
	return gamedata.AttackDef{Kind: "weapon", Dice: 1, Sides: 6}
}

// Move updates the player position by the given delta.
func (p *Player) Move(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// SetPosition places the player at x, y.
func (p *Player) SetPosition(x, y int) {
	p.X = x
	p.Y = y
}

// Position returns the current x, y coordinates.
func (p *Player) Position() (int, int) {
	return p.X, p.Y
}

// Helpless reports whether the player is unable to act this turn.
func (p *Player) Helpless() bool {
	return p.Multi < 0
}

// AddItem adds an item to the inventory, stacking with an identical one.
func (p *Player) AddItem(item Item) {
	for i := range p.Inventory {
		if p.Inventory[i].Stacks(item) {
			p.Inventory[i].Quantity += item.Quantity
			return
		}
	}
	p.Inventory = append(p.Inventory, item)
}

// =============================================================================
// Combatant interface implementation
// =============================================================================

// GetName returns the player's name.
func (p *Player) GetName() string { return p.Name }

// IsAlive returns true if the player has HP remaining.
func (p *Player) IsAlive() bool { return p.HP > 0 }

// GetHP returns current HP, or the polymorphed form's HP.
func (p *Player) GetHP() int {
	if p.Polymorphed {
		return p.PolyHP
	}
	return p.HP
}

// GetMaxHP returns maximum HP.
func (p *Player) GetMaxHP() int {
	if p.Polymorphed {
		return p.PolyHPMax
	}
	return p.HPMax
}

// GetLevel returns the experience level.
func (p *Player) GetLevel() int { return p.Level }

// GetAC returns the armor class.
func (p *Player) GetAC() int { return p.AC }

// TakeDamage reduces HP and returns actual damage taken. Damage that
// exhausts a polymorphed form reverts the player to normal.
func (p *Player) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	if p.Polymorphed {
		actual := min(amount, p.PolyHP)
		p.PolyHP -= actual
		if p.PolyHP <= 0 {
			p.Rehumanize()
		}
		return actual
	}
	actual := min(amount, p.HP)
	p.HP -= actual
	return actual
}

// Heal restores HP and returns actual amount healed.
func (p *Player) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	if p.Polymorphed {
		actual := min(amount, p.PolyHPMax-p.PolyHP)
		p.PolyHP += actual
		return actual
	}
	actual := min(amount, p.HPMax-p.HP)
	p.HP += actual
	return actual
}

// Polymorph turns the player into form with the given hit points for
// duration turns.
func (p *Player) Polymorph(form string, hp, duration int) {
	p.Polymorphed = true
	p.PolyForm = form
	p.PolyHP = hp
	p.PolyHPMax = hp
	p.PolyTimer = duration
}

// Rehumanize returns the player to normal form.
func (p *Player) Rehumanize() {
	p.Polymorphed = false
	p.PolyForm = ""
	p.PolyHP = 0
	p.PolyHPMax = 0
	p.PolyTimer = 0
}

// Ensure Player implements combat.Combatant
var _ combat.Combatant = (*Player)(nil)
