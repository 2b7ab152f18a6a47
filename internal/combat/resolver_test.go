package combat

import (
	"strings"
	"testing"

	"github.com/samdwyer/nhparity/internal/gamedata"
	"github.com/samdwyer/nhparity/internal/rng"
)

// mockCombatant is a test implementation of the Combatant interface.
type mockCombatant struct {
	name      string
	hp, maxHP int
	level     int
	ac        int
}

func newMockCombatant(name string, hp, level, ac int) *mockCombatant {
	return &mockCombatant{
		name:  name,
		hp:    hp,
		maxHP: hp,
		level: level,
		ac:    ac,
	}
}

func (m *mockCombatant) GetName() string { return m.name }
func (m *mockCombatant) IsAlive() bool   { return m.hp > 0 }
func (m *mockCombatant) GetHP() int      { return m.hp }
func (m *mockCombatant) GetMaxHP() int   { return m.maxHP }
func (m *mockCombatant) GetLevel() int   { return m.level }
func (m *mockCombatant) GetAC() int      { return m.ac }

func (m *mockCombatant) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > m.hp {
		actual = m.hp
	}
	m.hp -= actual
	return actual
}

func (m *mockCombatant) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if m.hp+actual > m.maxHP {
		actual = m.maxHP - m.hp
	}
	m.hp += actual
	return actual
}

func TestStrikeHit(t *testing.T) {
	s := rng.NewStream("core", 7)
	twin := rng.NewStream("core", 7)
	r := NewResolver(s)

	attacker := newMockCombatant("jackal", 3, 0, 7)
	target := newMockCombatant("you", 100, 1, 6)
	bite := gamedata.AttackDef{Kind: "bite", Dice: 1, Sides: 2}

	result := r.Strike(attacker, target, bite, 100, 0, 0)

	wantRoll := twin.Rnd(20)
	wantDamage := twin.D(1, 2)
	if !result.Hit {
		t.Fatalf("Strike() Hit = false, want true")
	}
	if result.Roll != wantRoll {
		t.Errorf("Strike() Roll = %d, want %d", result.Roll, wantRoll)
	}
	if result.Damage != wantDamage {
		t.Errorf("Strike() Damage = %d, want %d", result.Damage, wantDamage)
	}
	if target.hp != 100-wantDamage {
		t.Errorf("target HP = %d, want %d", target.hp, 100-wantDamage)
	}
	if result.Killed {
		t.Error("Strike() Killed = true, want false")
	}
	if s.Draws() != twin.Draws() {
		t.Errorf("Draws() = %d, want %d", s.Draws(), twin.Draws())
	}
}

func TestStrikeMissDrawsOnce(t *testing.T) {
	s := rng.NewStream("core", 11)
	r := NewResolver(s)

	attacker := newMockCombatant("newt", 2, 0, 8)
	target := newMockCombatant("you", 15, 1, 6)
	bite := gamedata.AttackDef{Kind: "bite", Dice: 1, Sides: 3}

	result := r.Strike(attacker, target, bite, 1, 0, 0)

	if result.Hit {
		t.Error("Strike() Hit = true, want false")
	}
	if target.hp != 15 {
		t.Errorf("target HP = %d, want 15", target.hp)
	}
	if s.Draws() != 1 {
		t.Errorf("Draws() = %d, want 1", s.Draws())
	}
	if !strings.Contains(result.Message, "misses") {
		t.Errorf("Message = %q, want a miss message", result.Message)
	}
}

func TestStrikeKills(t *testing.T) {
	r := NewResolver(rng.NewStream("core", 3))

	attacker := newMockCombatant("you", 16, 1, 6)
	target := newMockCombatant("lichen", 1, 0, 9)
	weapon := gamedata.AttackDef{Kind: "weapon", Dice: 1, Sides: 6}

	result := r.Strike(attacker, target, weapon, 100, 0, 0)

	if !result.Killed {
		t.Fatal("Strike() Killed = false, want true")
	}
	if result.Damage != 1 {
		t.Errorf("Strike() Damage = %d, want 1 (capped by remaining HP)", result.Damage)
	}
	if !strings.Contains(result.Message, "kills") {
		t.Errorf("Message = %q, want a kill message", result.Message)
	}
}

func TestStrikeMinimumDamage(t *testing.T) {
	r := NewResolver(rng.NewStream("core", 5))

	attacker := newMockCombatant("lichen", 4, 0, 9)
	target := newMockCombatant("you", 10, 1, 6)
	touch := gamedata.AttackDef{Kind: "touch"}

	result := r.Strike(attacker, target, touch, 100, 0, -3)

	if result.Damage != 1 {
		t.Errorf("Strike() Damage = %d, want 1", result.Damage)
	}
}

func TestPlayerToHit(t *testing.T) {
	player := newMockCombatant("you", 12, 3, 6)
	target := newMockCombatant("jackal", 3, 0, 7)

	tests := []struct {
		name     string
		luck     int
		abon     int
		helpless bool
		want     int
	}{
		{"plain", 0, 0, false, 11},
		{"lucky", 3, 0, false, 14},
		{"bonus", 0, 2, false, 13},
		{"helpless", 0, 0, true, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlayerToHit(player, target, tt.luck, tt.abon, tt.helpless); got != tt.want {
				t.Errorf("PlayerToHit() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMonsterToHit(t *testing.T) {
	s := rng.NewStream("core", 9)
	r := NewResolver(s)
	monster := newMockCombatant("gnome lord", 8, 2, 10)

	if got := r.MonsterToHit(monster, newMockCombatant("you", 10, 1, 4)); got != 16 {
		t.Errorf("MonsterToHit() = %d, want 16", got)
	}
	if s.Draws() != 0 {
		t.Errorf("Draws() = %d, want 0 for non-negative AC", s.Draws())
	}

	twin := rng.NewStream("core", 9)
	want := -twin.Rnd(3) + 12
	if got := r.MonsterToHit(monster, newMockCombatant("you", 10, 1, -3)); got != want {
		t.Errorf("MonsterToHit() = %d, want %d", got, want)
	}
	if s.Draws() != 1 {
		t.Errorf("Draws() = %d, want 1 for negative AC", s.Draws())
	}
}

func TestAttributeBonuses(t *testing.T) {
	tests := []struct {
		score     int
		strHit    int
		dexHit    int
		strDamage int
	}{
		{3, -2, -3, -1},
		{5, -2, -2, -1},
		{7, -1, -1, 0},
		{10, 0, 0, 0},
		{16, 0, 2, 1},
		{17, 1, 3, 1},
		{18, 1, 4, 2},
	}
	for _, tt := range tests {
		if got := StrengthToHit(tt.score); got != tt.strHit {
			t.Errorf("StrengthToHit(%d) = %d, want %d", tt.score, got, tt.strHit)
		}
		if got := DexterityToHit(tt.score); got != tt.dexHit {
			t.Errorf("DexterityToHit(%d) = %d, want %d", tt.score, got, tt.dexHit)
		}
		if got := StrengthDamage(tt.score); got != tt.strDamage {
			t.Errorf("StrengthDamage(%d) = %d, want %d", tt.score, got, tt.strDamage)
		}
	}
}

func TestMockCombatantHeal(t *testing.T) {
	m := newMockCombatant("you", 10, 1, 6)
	m.TakeDamage(4)
	if got := m.Heal(10); got != 4 {
		t.Errorf("Heal() = %d, want 4", got)
	}
	if m.hp != m.maxHP {
		t.Errorf("HP = %d, want %d", m.hp, m.maxHP)
	}
}
