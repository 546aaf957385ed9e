// Package bolt simulates the bouncing energy bolt: a projectile that speeds
// up every tick, burns energy with the distance it covers, reflects off
// static geometry and resolves hits against characters, turrets and
// destructible walls in that order.
//
// The simulator owns no world state. Everything it needs is injected through
// Env so the same code runs inside the server's arena and inside tests.
package bolt

//go:generate go tool mockgen -destination=./mocks/bolt_mock.go -package=mocks . Effects,Modifiers,Observer,Target

import (
	"github.com/automoto/bolt-arena/shared/gamemath"
	"github.com/automoto/bolt-arena/shared/messages"
	"github.com/automoto/bolt-arena/shared/netconfig"
)

// Target is anything a bolt can damage.
type Target interface {
	TakeDamage(amount int, from netconfig.ClientID, weapon netconfig.WeaponID)
}

// Turret is a damageable defense entity. Bolts never damage turrets owned
// by their own owner.
type Turret interface {
	Target
	Owner() netconfig.ClientID
}

// Wall is a destructible line-segment obstacle.
type Wall interface {
	Target
	Segment() (from, to gamemath.Vec2)
}

// World is the entity container a bolt lives in.
type World interface {
	Insert(b *Bolt)
	Destroy(b *Bolt)
	// Clipped reports whether pos is outside the simulated area.
	Clipped(pos gamemath.Vec2) bool
	// IntersectCharacter returns the character closest to from whose body
	// touches the segment, ignoring the character of exclude.
	IntersectCharacter(from, to gamemath.Vec2, radius float64, exclude netconfig.ClientID) (Target, gamemath.Vec2, bool)
	// IntersectTurret returns the turret closest to from that touches the segment.
	IntersectTurret(from, to gamemath.Vec2, radius float64) (Turret, gamemath.Vec2, bool)
	// IntersectTeleporter returns the exit position of a linked teleporter
	// touching the segment. Unlinked teleporters are ignored.
	IntersectTeleporter(from, to gamemath.Vec2, radius float64) (gamemath.Vec2, bool)
	// Walls lists the live destructible walls. The order must be stable
	// within a tick: the first wall crossed in this order is the one hit.
	Walls() []Wall
}

// Collision answers queries against the static tile geometry.
type Collision interface {
	// IntersectLine walks from→to and reports the first solid point and the
	// last free point before it.
	IntersectLine(from, to gamemath.Vec2) (hit, before gamemath.Vec2, ok bool)
	// MovePoint moves pos by vel, reflecting vel off solid tiles.
	MovePoint(pos, vel gamemath.Vec2, elasticity float64) (gamemath.Vec2, gamemath.Vec2)
}

// Modifiers reports the arena-wide modifiers currently in effect.
type Modifiers interface {
	IsActive(mod netconfig.Modifier) bool
}

// Effects receives world-visible side effects.
type Effects interface {
	PlaySound(pos gamemath.Vec2, sound netconfig.SoundID)
	SpawnExplosion(pos gamemath.Vec2, owner netconfig.ClientID, weapon netconfig.WeaponID, damageSelf, damageOthers bool)
}

// Observer is the client a snapshot is being built for.
type Observer interface {
	Clipped(pos gamemath.Vec2) bool
}

// Tuning holds the scalar constants of the bolt weapon.
type Tuning struct {
	Damage     int
	BounceCost float64
	BounceNum  int

	StartVelocity    float64
	Acceleration     float64
	SlowAcceleration float64

	HitRadius        float64
	TeleporterRadius float64
	TeleportLead     float64
	ProbeLength      float64
	Elasticity       float64

	Weapon      netconfig.WeaponID
	BounceSound netconfig.SoundID
}

// Env bundles the collaborators of a bolt.
type Env struct {
	World     World
	Collision Collision
	Modifiers Modifiers
	Effects   Effects
	Tuning    Tuning
}

// Bolt is one projectile in flight.
type Bolt struct {
	ID     uint32
	Pos    gamemath.Vec2
	Dir    gamemath.Vec2
	Vel    float64
	Energy float64
	// Bounces counts reflections off static geometry only.
	Bounces int
	Owner   netconfig.ClientID

	env       Env
	last      Path
	destroyed bool
}

// New fires a bolt: it registers with the world and is simulated once right
// away so it can hit something on the frame it was fired.
func New(env Env, id uint32, pos, dir gamemath.Vec2, energy float64, owner netconfig.ClientID) *Bolt {
	b := &Bolt{
		ID:     id,
		Pos:    pos,
		Dir:    dir,
		Vel:    env.Tuning.StartVelocity,
		Energy: energy,
		Owner:  owner,
		env:    env,
	}
	env.World.Insert(b)
	b.Tick()
	return b
}

// LastPath reports how the most recent tick moved the bolt. It is PathNone
// when that tick destroyed it instead.
func (b *Bolt) LastPath() Path { return b.last }

// Destroyed reports whether the bolt asked to be removed.
func (b *Bolt) Destroyed() bool { return b.destroyed }

// Destroy asks the world to remove the bolt. Later calls are no-ops.
func (b *Bolt) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.env.World.Destroy(b)
}

// Tick advances the bolt by one simulation step.
func (b *Bolt) Tick() {
	if b.destroyed {
		return
	}
	if b.Energy < 0 || b.env.World.Clipped(b.Pos) {
		b.last = PathNone
		b.Destroy()
		return
	}

	s := &step{from: b.Pos, to: b.Pos.Add(b.Dir.Scale(b.Vel))}
	b.Energy -= gamemath.Distance(s.from, s.to)
	if b.active(netconfig.ModifierSlow) {
		b.Vel += b.env.Tuning.SlowAcceleration
	} else {
		b.Vel += b.env.Tuning.Acceleration
	}

	b.last = b.resolve(s)
}

// Snap builds the snapshot record for observer, or reports false when the
// bolt is outside the observer's view.
func (b *Bolt) Snap(observer Observer, tick int) (messages.LaserItem, bool) {
	if observer.Clipped(b.Pos) {
		return messages.LaserItem{}, false
	}
	x, y := int32(b.Pos.X), int32(b.Pos.Y)
	return messages.LaserItem{
		ID:        b.ID,
		X:         x,
		Y:         y,
		FromX:     x,
		FromY:     y,
		StartTick: tick,
	}, true
}

func (b *Bolt) active(m netconfig.Modifier) bool {
	return b.env.Modifiers.IsActive(m)
}
