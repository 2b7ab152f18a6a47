package game

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/nhparity/internal/combat"
	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/telemetry"
)

const (
	fleeChance   = 25
	fleeTurnsMax = 100
	fleeForever  = 3
)

// attack has the player fight the monster at the target square. Peaceful
// monsters are left alone and no time passes.
func (c *Context) attack(ctx context.Context, m *entity.Monster) bool {
	if m.Peaceful {
		c.message("You stop. The " + m.GetName() + " is in your way.")
		return false
	}

	tracer := telemetry.Tracer("combat")
	_, span := tracer.Start(ctx, "combat.attack")
	defer span.End()
	span.SetAttributes(
		attribute.Int("monster.id", m.ID),
		attribute.String("monster.species", m.Species.ID),
		attribute.Int("turn", c.Turn),
	)

	p := c.Player
	toHit := combat.PlayerToHit(p, m, p.Luck, p.HitBonus(), m.Asleep)
	res := c.resolver.Strike(p, m, p.MeleeAttack(), toHit, 0, p.DamageBonus())
	m.Asleep = false
	c.message(res.Message)
	span.SetAttributes(
		attribute.Bool("hit", res.Hit),
		attribute.Int("damage", res.Damage),
		attribute.Bool("killed", res.Killed),
	)

	switch {
	case res.Killed:
		if gained := p.GainExperience(m.Experience(), c.core); gained > 0 {
			c.message("Welcome to experience level " + strconv.Itoa(p.Level) + ".")
		}
		c.Monsters.RemoveDead()
	case res.Hit && c.core.Rn2(fleeChance) == 0 && m.HP < m.HPMax/2:
		turns := 0
		if c.core.Rn2(fleeForever) != 0 {
			turns = c.core.Rnd(fleeTurnsMax)
		}
		m.Flee(turns)
	}
	return true
}

// monsterAttack runs every attack of an adjacent monster against the
// player. The to-hit target is computed once for the whole sequence.
func (c *Context) monsterAttack(m *entity.Monster) {
	p := c.Player
	toHit := c.resolver.MonsterToHit(m, p)
	for i, atk := range m.Attacks() {
		res := c.resolver.Strike(m, p, atk, toHit, i, 0)
		c.message(res.Message)
		if !p.IsAlive() {
			c.die("killed by a " + m.GetName())
			return
		}
	}
}
