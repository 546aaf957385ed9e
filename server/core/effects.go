package core

import (
	cfg "github.com/automoto/bolt-arena/config"
	"github.com/automoto/bolt-arena/shared/gamemath"
	"github.com/automoto/bolt-arena/shared/messages"
	"github.com/automoto/bolt-arena/shared/netcomponents"
	"github.com/automoto/bolt-arena/shared/netconfig"
)

// arenaEffects implements bolt.Effects by broadcasting events and applying
// explosion damage inside the arena.
type arenaEffects struct {
	arena *Arena
}

func (e arenaEffects) PlaySound(pos gamemath.Vec2, sound netconfig.SoundID) {
	e.arena.broadcast(messages.SoundEvent{X: pos.X, Y: pos.Y, Sound: sound})
}

// SpawnExplosion announces an explosion and, when it is allowed to hurt
// anyone, damages and pushes every character within the blast radius.
func (e arenaEffects) SpawnExplosion(pos gamemath.Vec2, owner netconfig.ClientID, weapon netconfig.WeaponID, damageSelf, damageOthers bool) {
	e.arena.broadcast(messages.ExplosionEvent{
		X:            pos.X,
		Y:            pos.Y,
		OwnerID:      int(owner),
		Weapon:       weapon,
		DamageSelf:   damageSelf,
		DamageOthers: damageOthers,
	})
	if !damageSelf && !damageOthers {
		return
	}

	ex := cfg.Explosion
	for _, c := range e.arena.Characters() {
		if !c.Alive() {
			continue
		}
		self := c.Client == owner
		if (self && !damageSelf) || (!self && !damageOthers) {
			continue
		}
		dmg, force, ok := explosionDamage(pos, c.Pos(), ex)
		if !ok {
			continue
		}
		vel := netcomponents.NetVelocity.Get(c.entry())
		vel.SpeedX += force.X
		vel.SpeedY += force.Y
		c.TakeDamage(dmg, owner, weapon)
	}
}

// explosionDamage scales damage linearly from MaxDamage inside InnerRadius
// down to zero at Radius. A target at the exact center is pushed down.
func explosionDamage(center, target gamemath.Vec2, ex cfg.ExplosionConfig) (int, gamemath.Vec2, bool) {
	diff := target.Sub(center)
	l := diff.Len()
	if l >= ex.Radius {
		return 0, gamemath.Vec2{}, false
	}
	dir := gamemath.V(0, 1)
	if l > 0 {
		dir = diff.Normalize()
	}
	span := ex.Radius - ex.InnerRadius
	falloff := 1.0
	if span > 0 {
		falloff = 1 - gamemath.ClampFloat((l-ex.InnerRadius)/span, 0, 1)
	}
	raw := float64(ex.MaxDamage) * falloff
	dmg := int(raw)
	if dmg == 0 {
		return 0, gamemath.Vec2{}, false
	}
	return dmg, dir.Scale(raw * 2), true
}
