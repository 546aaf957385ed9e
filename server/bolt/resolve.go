package bolt

import (
	"github.com/automoto/bolt-arena/shared/gamemath"
	"github.com/automoto/bolt-arena/shared/netconfig"
)

// step is the travel segment of a single tick.
type step struct {
	from gamemath.Vec2
	to   gamemath.Vec2

	// exit is the linked teleporter destination, set by the teleport guard.
	exit gamemath.Vec2
	// before is the last free point ahead of static geometry, set by the
	// bounce guard.
	before gamemath.Vec2
}

// Path names the movement path a tick resolved through.
type Path int

const (
	PathNone Path = iota
	PathTeleport
	PathBounce
	PathGlue
	PathFree
)

func (p Path) String() string {
	switch p {
	case PathTeleport:
		return "teleport"
	case PathBounce:
		return "bounce"
	case PathGlue:
		return "glue"
	case PathFree:
		return "free"
	default:
		return "none"
	}
}

// transition is one guarded movement path. Exactly one transition runs per
// tick: the first whose guard matches.
type transition struct {
	path  Path
	guard func(b *Bolt, s *step) bool
	apply func(b *Bolt, s *step)
}

// transitions is ordered by priority. The free path always matches and
// must stay last.
var transitions = []transition{
	{path: PathTeleport, guard: (*Bolt).canTeleport, apply: (*Bolt).teleport},
	{path: PathBounce, guard: (*Bolt).canBounce, apply: (*Bolt).bounce},
	{path: PathGlue, guard: (*Bolt).glued, apply: (*Bolt).stick},
	{path: PathFree, guard: func(*Bolt, *step) bool { return true }, apply: (*Bolt).fly},
}

// resolve runs the first matching transition.
func (b *Bolt) resolve(s *step) Path {
	for _, t := range transitions {
		if t.guard(b, s) {
			t.apply(b, s)
			return t.path
		}
	}
	return PathNone
}

func (b *Bolt) canTeleport(s *step) bool {
	exit, ok := b.env.World.IntersectTeleporter(s.from, s.to, b.env.Tuning.TeleporterRadius)
	if !ok {
		return false
	}
	s.exit = exit
	return true
}

func (b *Bolt) teleport(s *step) {
	if b.hit(s.from, s.to) {
		return
	}
	b.Pos = s.exit.Add(b.Dir.Scale(b.env.Tuning.TeleportLead))
}

func (b *Bolt) canBounce(s *step) bool {
	if b.active(netconfig.ModifierPiercing) || b.active(netconfig.ModifierGlue) {
		return false
	}
	_, before, ok := b.env.Collision.IntersectLine(s.from, s.to)
	if !ok {
		return false
	}
	s.before = before
	return true
}

func (b *Bolt) bounce(s *step) {
	if b.hit(s.from, s.before) {
		return
	}
	t := b.env.Tuning

	pos, probe := b.env.Collision.MovePoint(s.before, b.Dir.Scale(t.ProbeLength), t.Elasticity)
	b.Pos = pos
	b.Dir = probe.Normalize()

	b.Bounces++
	b.Energy -= t.BounceCost
	if b.Bounces > t.BounceNum {
		b.Energy = -1
	}

	b.env.Effects.PlaySound(b.Pos, t.BounceSound)
	b.env.Effects.SpawnExplosion(b.Pos, b.Owner, t.Weapon, false, false)
}

func (b *Bolt) glued(*step) bool {
	return b.active(netconfig.ModifierGlue)
}

// stick hit-tests the unobstructed segment first, then clamps the endpoint
// to the surface.
func (b *Bolt) stick(s *step) {
	if b.hit(s.from, s.to) {
		return
	}
	if _, before, ok := b.env.Collision.IntersectLine(s.from, s.to); ok {
		b.Pos = before
		return
	}
	b.Pos = s.to
}

func (b *Bolt) fly(s *step) {
	if b.hit(s.from, s.to) {
		return
	}
	b.Pos = s.to
}

// hit tests characters, then turrets, then destructible walls against
// from→to and applies the first match.
func (b *Bolt) hit(from, to gamemath.Vec2) bool {
	w := b.env.World
	radius := b.env.Tuning.HitRadius

	if target, at, ok := w.IntersectCharacter(from, to, radius, b.Owner); ok {
		b.strike(target, at)
		return true
	}

	// Own turrets are transparent; the bolt goes on to the wall scan.
	if turret, at, ok := w.IntersectTurret(from, to, radius); ok && turret.Owner() != b.Owner {
		b.strike(turret, at)
		return true
	}

	for _, wall := range w.Walls() {
		wallFrom, wallTo := wall.Segment()
		if at, ok := gamemath.SegmentIntersection(from, to, wallFrom, wallTo); ok {
			b.strike(wall, at)
			return true
		}
	}
	return false
}

func (b *Bolt) strike(target Target, at gamemath.Vec2) {
	b.Pos = at
	if !b.active(netconfig.ModifierPiercing) {
		b.Energy = -1
	}
	if !b.active(netconfig.ModifierWallShot) || b.Bounces > 0 {
		target.TakeDamage(b.env.Tuning.Damage, b.Owner, b.env.Tuning.Weapon)
	}
}
