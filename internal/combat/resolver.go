// Package combat resolves melee between the player and monsters.
package combat

import (
	"github.com/samdwyer/nhparity/internal/gamedata"
	"github.com/samdwyer/nhparity/internal/rng"
)

// Combatant is the interface for any entity that can take part in melee.
// Both the player and monsters implement this interface.
type Combatant interface {
	// Identity
	GetName() string
	IsAlive() bool

	// Stats
	GetHP() int
	GetMaxHP() int
	GetLevel() int
	GetAC() int

	// Mutations
	TakeDamage(amount int) int // Returns actual damage taken
	Heal(amount int) int       // Returns actual amount healed
}

// Result contains the outcome of a single attack.
type Result struct {
	Hit     bool
	Roll    int // The d20 roll the to-hit value was compared against
	Damage  int // Damage actually applied
	Killed  bool
	Message string
}

// Resolver rolls to-hit and damage on the stream it was created with.
type Resolver struct {
	rng *rng.Stream
}

// NewResolver creates a resolver drawing from s.
func NewResolver(s *rng.Stream) *Resolver {
	return &Resolver{rng: s}
}

// PlayerToHit returns the to-hit value for the player against target.
// helpless targets (asleep or unable to move) are easier to hit.
func PlayerToHit(player Combatant, target Combatant, luck, abon int, helpless bool) int {
	tmp := 1 + luck + abon + target.GetAC() + player.GetLevel()
	if helpless {
		tmp += 2
	}
	return tmp
}

// MonsterToHit returns the to-hit value for a monster against target.
// A negative target AC is randomized the usual way, which costs one draw.
func (r *Resolver) MonsterToHit(monster Combatant, target Combatant) int {
	return r.ACValue(target.GetAC()) + 10 + monster.GetLevel()
}

// ACValue converts an armor class to its to-hit contribution.
func (r *Resolver) ACValue(ac int) int {
	if ac >= 0 {
		return ac
	}
	return -r.rng.Rnd(-ac)
}

// Strike resolves attack number index (0-based) of attacker against target.
// The attack lands when toHit exceeds Rnd(20+index); damage is rolled from
// the attack dice plus bonus and is never less than 1 on a hit.
func (r *Resolver) Strike(attacker, target Combatant, atk gamedata.AttackDef, toHit, index, bonus int) Result {
	roll := r.rng.Rnd(20 + index)
	if toHit <= roll {
		return Result{
			Roll:    roll,
			Message: attacker.GetName() + " misses " + target.GetName() + ".",
		}
	}

	damage := r.rng.D(atk.Dice, atk.Sides) + bonus
	if damage < 1 {
		damage = 1
	}
	actual := target.TakeDamage(damage)

	result := Result{
		Hit:     true,
		Roll:    roll,
		Damage:  actual,
		Killed:  !target.IsAlive(),
		Message: attacker.GetName() + " hits " + target.GetName() + "!",
	}
	if result.Killed {
		result.Message = attacker.GetName() + " kills " + target.GetName() + "!"
	}
	return result
}

// StrengthToHit returns the to-hit bonus for a strength score.
func StrengthToHit(str int) int {
	switch {
	case str < 6:
		return -2
	case str < 8:
		return -1
	case str < 17:
		return 0
	case str <= 18:
		return 1
	default:
		return 2
	}
}

// DexterityToHit returns the to-hit bonus for a dexterity score.
func DexterityToHit(dex int) int {
	switch {
	case dex < 4:
		return -3
	case dex < 6:
		return -2
	case dex < 8:
		return -1
	case dex < 14:
		return 0
	default:
		return dex - 14
	}
}

// StrengthDamage returns the melee damage bonus for a strength score.
func StrengthDamage(str int) int {
	switch {
	case str < 6:
		return -1
	case str < 16:
		return 0
	case str < 18:
		return 1
	case str == 18:
		return 2
	default:
		return 3
	}
}
