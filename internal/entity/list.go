package entity

import (
	"slices"

	"github.com/samdwyer/nhparity/internal/combat"
)

// MonsterList holds the monsters on the current level in action order.
// IDs are assigned on insertion and never reused; removal keeps the
// relative order of the remaining monsters.
type MonsterList struct {
	monsters []*Monster
	nextID   int
}

// NewMonsterList creates an empty list whose first ID is 1.
func NewMonsterList() *MonsterList {
	return &MonsterList{nextID: 1}
}

// Add appends m, assigns it the next ID and returns that ID.
func (l *MonsterList) Add(m *Monster) int {
	m.ID = l.nextID
	l.nextID++
	l.monsters = append(l.monsters, m)
	return m.ID
}

// Remove deletes the monster with the given ID.
func (l *MonsterList) Remove(id int) bool {
	i := l.IndexOf(id)
	if i < 0 {
		return false
	}
	l.monsters = slices.Delete(l.monsters, i, i+1)
	return true
}

// RemoveDead deletes every monster with no HP left and returns them.
func (l *MonsterList) RemoveDead() []*Monster {
	var dead []*Monster
	l.monsters = slices.DeleteFunc(l.monsters, func(m *Monster) bool {
		if m.IsAlive() {
			return false
		}
		dead = append(dead, m)
		return true
	})
	return dead
}

// Get returns the monster with the given ID, or nil.
func (l *MonsterList) Get(id int) *Monster {
	if i := l.IndexOf(id); i >= 0 {
		return l.monsters[i]
	}
	return nil
}

// IndexOf returns the position of the monster with the given ID, or -1.
func (l *MonsterList) IndexOf(id int) int {
	return slices.IndexFunc(l.monsters, func(m *Monster) bool { return m.ID == id })
}

// At returns the living monster at x, y, or nil.
func (l *MonsterList) At(x, y int) *Monster {
	for _, m := range l.monsters {
		if m.X == x && m.Y == y && m.IsAlive() {
			return m
		}
	}
	return nil
}

// All returns the monsters in action order. The slice must not be modified.
func (l *MonsterList) All() []*Monster {
	return l.monsters
}

// Len returns the number of monsters.
func (l *MonsterList) Len() int {
	return len(l.monsters)
}

// NextID returns the ID the next added monster will get.
func (l *MonsterList) NextID() int {
	return l.nextID
}

// Clear removes every monster. IDs keep counting from where they were.
func (l *MonsterList) Clear() {
	l.monsters = nil
}

// Ensure Monster implements combat.Combatant
var _ combat.Combatant = (*Monster)(nil)
