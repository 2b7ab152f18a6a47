package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/nhparity/internal/gamedata"
	"github.com/samdwyer/nhparity/internal/rng"
)

// NormalSpeed is the movement cost of one action.
const NormalSpeed = 12

// SpeedState is a monster's temporary speed modifier.
type SpeedState int

const (
	SpeedNormal SpeedState = iota
	SpeedSlow
	SpeedFast
)

// Monster is a creature in the dungeon.
type Monster struct {
	ID       int                  // Stable identifier assigned by MonsterList
	Species  *gamedata.SpeciesDef // Read-only species definition
	X, Y     int
	HP       int
	HPMax    int
	Level    int
	Movement int
	Speed    SpeedState

	Asleep    bool
	Peaceful  bool
	Fleeing   bool
	FleeTimer int // Turns of fleeing left; 0 with Fleeing set means indefinitely
}

// NewMonster creates a monster of the given species at x, y and rolls its
// hit points: Rnd(4) for level 0 species, otherwise Level d8.
func NewMonster(species *gamedata.SpeciesDef, x, y int, s *rng.Stream) *Monster {
	m := &Monster{
		Species: species,
		X:       x,
		Y:       y,
		Level:   species.Level,
	}
	if m.Level <= 0 {
		m.HPMax = s.Rnd(4)
	} else {
		m.HPMax = s.D(m.Level, 8)
	}
	m.HP = m.HPMax
	return m
}

// Position returns the monster's current x, y coordinates.
func (m *Monster) Position() (int, int) {
	return m.X, m.Y
}

// SetPosition moves the monster to x, y.
func (m *Monster) SetPosition(x, y int) {
	m.X = x
	m.Y = y
}

// Glyph returns the display rune for this monster.
func (m *Monster) Glyph() rune {
	return m.Species.GlyphRune()
}

// Color returns the tcell color for this monster.
func (m *Monster) Color() tcell.Color {
	return m.Species.TCellColor()
}

// BaseSpeed returns the species speed.
func (m *Monster) BaseSpeed() int {
	return m.Species.Speed
}

// CalcMove returns the movement points the monster gains this turn. The
// fractional part of its speed is granted as a full action with matching
// probability, costing one draw.
func (m *Monster) CalcMove(s *rng.Stream) int {
	mmove := m.Species.Speed
	switch m.Speed {
	case SpeedSlow:
		mmove = (2*mmove + 1) / 3
	case SpeedFast:
		mmove = (4*mmove + 2) / 3
	}
	adj := mmove % NormalSpeed
	mmove -= adj
	if s.Rn2(NormalSpeed) < adj {
		mmove += NormalSpeed
	}
	return mmove
}

// Flee sets the monster fleeing for turns turns (0 = until cancelled).
func (m *Monster) Flee(turns int) {
	m.Fleeing = true
	m.FleeTimer = turns
}

// Attacks returns the species melee attacks.
func (m *Monster) Attacks() []gamedata.AttackDef {
	return m.Species.Attacks
}

// Experience returns the experience awarded for killing this monster.
func (m *Monster) Experience() int {
	return m.Species.Experience()
}

// =============================================================================
// Combatant interface implementation
// =============================================================================

// GetName returns the species name.
func (m *Monster) GetName() string { return m.Species.Name }

// IsAlive returns true if the monster has HP remaining.
func (m *Monster) IsAlive() bool { return m.HP > 0 }

// GetHP returns current HP.
func (m *Monster) GetHP() int { return m.HP }

// GetMaxHP returns maximum HP.
func (m *Monster) GetMaxHP() int { return m.HPMax }

// GetLevel returns the monster level.
func (m *Monster) GetLevel() int { return m.Level }

// GetAC returns the species armor class.
func (m *Monster) GetAC() int { return m.Species.AC }

// TakeDamage reduces HP and returns actual damage taken. Being hurt wakes
// the monster.
func (m *Monster) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, m.HP)
	m.HP -= actual
	m.Asleep = false
	return actual
}

// Heal restores HP and returns actual amount healed.
func (m *Monster) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, m.HPMax-m.HP)
	m.HP += actual
	return actual
}
