package core

import (
	"github.com/yohamta/donburi"
	"go.uber.org/zap"

	cfg "github.com/automoto/bolt-arena/config"
	"github.com/automoto/bolt-arena/shared/gamemath"
	"github.com/automoto/bolt-arena/shared/messages"
	"github.com/automoto/bolt-arena/shared/netconfig"
	"github.com/automoto/bolt-arena/tags"
)

// turretHandle implements bolt.Turret over a turret entity.
type turretHandle struct {
	arena  *Arena
	entity donburi.Entity
}

func (t turretHandle) data() *TurretData {
	return TurretComponent.Get(t.arena.world.Entry(t.entity))
}

func (t turretHandle) Owner() netconfig.ClientID { return t.data().Owner }

func (t turretHandle) TakeDamage(amount int, from netconfig.ClientID, weapon netconfig.WeaponID) {
	d := t.data()
	if d.Dead {
		return
	}
	d.Health -= amount
	t.arena.broadcast(messages.HitEvent{
		AttackerID: int(from),
		TargetKind: netconfig.TargetTurret,
		TargetID:   int(d.ID),
		Damage:     amount,
		X:          d.Pos.X,
		Y:          d.Pos.Y,
	})
	if d.Health > 0 {
		return
	}
	d.Dead = true
	t.arena.effects.SpawnExplosion(d.Pos, from, weapon, false, false)
	t.arena.logger.Debug("turret destroyed", zap.Uint32("id", d.ID), zap.Int("by", int(from)))
}

// wallHandle implements bolt.Wall over an explode wall entity.
type wallHandle struct {
	arena  *Arena
	entity donburi.Entity
}

func (w wallHandle) data() *ExplodeWallData {
	return ExplodeWallComponent.Get(w.arena.world.Entry(w.entity))
}

func (w wallHandle) Segment() (gamemath.Vec2, gamemath.Vec2) {
	d := w.data()
	return d.From, d.To
}

// TakeDamage blows the wall up once its health runs out. The blast damages
// everyone, the destroyer included.
func (w wallHandle) TakeDamage(amount int, from netconfig.ClientID, _ netconfig.WeaponID) {
	d := w.data()
	if d.Dead {
		return
	}
	d.Health -= amount
	mid := gamemath.Mix(d.From, d.To, 0.5)
	w.arena.broadcast(messages.HitEvent{
		AttackerID: int(from),
		TargetKind: netconfig.TargetWall,
		TargetID:   int(d.ID),
		Damage:     amount,
		X:          mid.X,
		Y:          mid.Y,
	})
	if d.Health > 0 {
		return
	}
	d.Dead = true
	w.arena.effects.PlaySound(mid, netconfig.SoundExplosion)
	w.arena.effects.SpawnExplosion(mid, from, netconfig.WeaponWallBlast, true, true)
	w.arena.logger.Debug("wall destroyed", zap.Uint32("id", d.ID), zap.Int("by", int(from)))
}

func (a *Arena) structID() uint32 {
	a.nextStructID++
	return a.nextStructID
}

func (a *Arena) addTurret(owner netconfig.ClientID, pos gamemath.Vec2, health int) donburi.Entity {
	if health <= 0 {
		health = cfg.Turret.Health
	}
	e := a.world.Create(tags.Turret, TurretComponent)
	TurretComponent.Set(a.world.Entry(e), &TurretData{
		ID:       a.structID(),
		Owner:    owner,
		Pos:      pos,
		Health:   health,
		Radius:   cfg.Turret.Radius,
		NextFire: a.tick + cfg.Turret.FireInterval,
	})
	a.turrets = append(a.turrets, e)
	return e
}

func (a *Arena) addWall(owner netconfig.ClientID, from, to gamemath.Vec2, health int) donburi.Entity {
	if health <= 0 {
		health = cfg.Wall.Health
	}
	e := a.world.Create(tags.ExplodeWall, ExplodeWallComponent)
	ExplodeWallComponent.Set(a.world.Entry(e), &ExplodeWallData{
		ID:     a.structID(),
		Owner:  owner,
		From:   from,
		To:     to,
		Health: health,
	})
	a.walls = append(a.walls, e)
	return e
}

func (a *Arena) ownedCount(entities []donburi.Entity, owner netconfig.ClientID, ownerOf func(*donburi.Entry) (netconfig.ClientID, bool)) int {
	n := 0
	for _, e := range entities {
		if o, alive := ownerOf(a.world.Entry(e)); alive && o == owner {
			n++
		}
	}
	return n
}

func turretOwner(e *donburi.Entry) (netconfig.ClientID, bool) {
	d := TurretComponent.Get(e)
	return d.Owner, !d.Dead
}

func wallOwner(e *donburi.Entry) (netconfig.ClientID, bool) {
	d := ExplodeWallComponent.Get(e)
	return d.Owner, !d.Dead
}

// BuildTurret places a turret owned by owner.
func (a *Arena) BuildTurret(owner netconfig.ClientID, pos gamemath.Vec2) error {
	if a.level.CheckPoint(pos) {
		return ErrBlocked
	}
	if a.ownedCount(a.turrets, owner, turretOwner) >= cfg.Turret.MaxPerPlayer {
		return ErrBuildLimit
	}
	a.addTurret(owner, pos, 0)
	return nil
}

// BuildWall places an explode wall owned by owner. Walls longer than the
// configured maximum are shortened from the far end.
func (a *Arena) BuildWall(owner netconfig.ClientID, from, to gamemath.Vec2) error {
	length := gamemath.Distance(from, to)
	if length == 0 {
		return ErrBadWall
	}
	if a.level.CheckPoint(from) {
		return ErrBlocked
	}
	if length > cfg.Wall.MaxLength {
		to = from.Add(to.Sub(from).Normalize().Scale(cfg.Wall.MaxLength))
	}
	if a.ownedCount(a.walls, owner, wallOwner) >= cfg.Wall.MaxPerPlayer {
		return ErrBuildLimit
	}
	a.addWall(owner, from, to, 0)
	return nil
}

func (a *Arena) removeOwnedStructures(owner netconfig.ClientID) {
	for _, e := range a.turrets {
		if d := TurretComponent.Get(a.world.Entry(e)); d.Owner == owner {
			d.Dead = true
		}
	}
	for _, e := range a.walls {
		if d := ExplodeWallComponent.Get(a.world.Entry(e)); d.Owner == owner {
			d.Dead = true
		}
	}
}

// thinkTurrets lets every ready turret fire at the closest enemy character
// in range and in line of sight.
func (a *Arena) thinkTurrets() {
	n := len(a.turrets)
	for i := 0; i < n; i++ {
		d := TurretComponent.Get(a.world.Entry(a.turrets[i]))
		if d.Dead || a.tick < d.NextFire {
			continue
		}
		target, ok := a.turretTarget(d)
		if !ok {
			continue
		}
		d.NextFire = a.tick + cfg.Turret.FireInterval
		dir := target.Sub(d.Pos).Normalize()
		a.FireBolt(d.Owner, d.Pos.Add(dir.Scale(d.Radius+1)), dir)
	}
}

func (a *Arena) turretTarget(d *TurretData) (gamemath.Vec2, bool) {
	var (
		best    gamemath.Vec2
		found   bool
		bestLen = cfg.Turret.Range
	)
	for _, c := range a.characters {
		if !c.Alive() || c.Client == d.Owner {
			continue
		}
		pos := c.Pos()
		dist := gamemath.Distance(d.Pos, pos)
		if dist > bestLen {
			continue
		}
		if _, _, blocked := a.level.IntersectLine(d.Pos, pos); blocked {
			continue
		}
		best, found, bestLen = pos, true, dist
	}
	return best, found
}
