package bolt_test

import (
	"math"
	"testing"

	"github.com/automoto/bolt-arena/server/bolt"
	"github.com/automoto/bolt-arena/server/bolt/mocks"
	"github.com/automoto/bolt-arena/shared/gamemath"
	"github.com/automoto/bolt-arena/shared/netconfig"
	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"
)

const owner netconfig.ClientID = 3

type hit struct {
	target bolt.Target
	at     gamemath.Vec2
}

type turret struct {
	bolt.Target
	owner netconfig.ClientID
}

func (t turret) Owner() netconfig.ClientID { return t.owner }

type turretHit struct {
	t  turret
	at gamemath.Vec2
}

type wall struct {
	bolt.Target
	from, to gamemath.Vec2
}

func (w wall) Segment() (gamemath.Vec2, gamemath.Vec2) { return w.from, w.to }

// fakeWorld answers every intersection query with a fixed result,
// regardless of the segment.
type fakeWorld struct {
	bounds    float64
	character *hit
	turret    *turretHit
	exit      *gamemath.Vec2
	walls     []bolt.Wall

	inserted  int
	destroyed int
	excluded  []netconfig.ClientID
}

func (w *fakeWorld) Insert(*bolt.Bolt)  { w.inserted++ }
func (w *fakeWorld) Destroy(*bolt.Bolt) { w.destroyed++ }

func (w *fakeWorld) Clipped(pos gamemath.Vec2) bool {
	return w.bounds > 0 && (math.Abs(pos.X) > w.bounds || math.Abs(pos.Y) > w.bounds)
}

func (w *fakeWorld) IntersectCharacter(_, _ gamemath.Vec2, _ float64, exclude netconfig.ClientID) (bolt.Target, gamemath.Vec2, bool) {
	w.excluded = append(w.excluded, exclude)
	if w.character == nil {
		return nil, gamemath.Vec2{}, false
	}
	return w.character.target, w.character.at, true
}

func (w *fakeWorld) IntersectTurret(_, _ gamemath.Vec2, _ float64) (bolt.Turret, gamemath.Vec2, bool) {
	if w.turret == nil {
		return nil, gamemath.Vec2{}, false
	}
	return w.turret.t, w.turret.at, true
}

func (w *fakeWorld) IntersectTeleporter(_, _ gamemath.Vec2, _ float64) (gamemath.Vec2, bool) {
	if w.exit == nil {
		return gamemath.Vec2{}, false
	}
	return *w.exit, true
}

func (w *fakeWorld) Walls() []bolt.Wall { return w.walls }

// fakeCollision is a solid half-plane x >= wallX. Disabled when wallX is 0.
type fakeCollision struct {
	wallX float64
}

func (c fakeCollision) solid(p gamemath.Vec2) bool {
	return c.wallX != 0 && p.X >= c.wallX
}

func (c fakeCollision) IntersectLine(from, to gamemath.Vec2) (gamemath.Vec2, gamemath.Vec2, bool) {
	d := to.Sub(from)
	if !c.solid(to) || d.X == 0 {
		return to, to, false
	}
	at := from.Add(d.Scale((c.wallX - from.X) / d.X))
	return at, at.Sub(d.Normalize()), true
}

func (c fakeCollision) MovePoint(pos, vel gamemath.Vec2, elasticity float64) (gamemath.Vec2, gamemath.Vec2) {
	if c.solid(pos.Add(vel)) {
		vel.X = -vel.X * elasticity
	}
	return pos.Add(vel), vel
}

type modifierSet map[netconfig.Modifier]bool

func (m modifierSet) IsActive(mod netconfig.Modifier) bool { return m[mod] }

func tuning() bolt.Tuning {
	return bolt.Tuning{
		Damage:           5,
		BounceCost:       0,
		BounceNum:        1,
		StartVelocity:    1,
		Acceleration:     0.5,
		SlowAcceleration: 0.01,
		TeleporterRadius: 12,
		TeleportLead:     20,
		ProbeLength:      4,
		Elasticity:       1,
		Weapon:           netconfig.WeaponBolt,
		BounceSound:      netconfig.SoundBoltBounce,
	}
}

type fixture struct {
	world   *fakeWorld
	effects *mocks.MockEffects
	env     bolt.Env
}

func newFixture(t *testing.T, mods modifierSet) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		world:   &fakeWorld{bounds: 10000},
		effects: mocks.NewMockEffects(ctrl),
	}
	f.env = bolt.Env{
		World:     f.world,
		Collision: fakeCollision{},
		Modifiers: mods,
		Effects:   f.effects,
		Tuning:    tuning(),
	}
	return f
}

func near(a, b gamemath.Vec2) bool { return gamemath.Distance(a, b) < 1e-9 }

func TestNew_FreeFlight(t *testing.T) {
	f := newFixture(t, modifierSet{})

	b := bolt.New(f.env, 1, gamemath.V(0, 0), gamemath.V(1, 0), 100, owner)

	if f.world.inserted != 1 {
		t.Fatalf("inserted = %d, want 1", f.world.inserted)
	}
	if b.Vel != 1.5 {
		t.Errorf("Vel = %v, want 1.5", b.Vel)
	}
	if math.Abs(b.Energy-99) > 1e-9 {
		t.Errorf("Energy = %v, want 99", b.Energy)
	}
	if !near(b.Pos, gamemath.V(1, 0)) {
		t.Errorf("Pos = %+v, want (1,0)", b.Pos)
	}
	if b.LastPath() != bolt.PathFree {
		t.Errorf("LastPath() = %v, want free", b.LastPath())
	}

	b.Tick()
	if !near(b.Pos, gamemath.V(2.5, 0)) || b.Vel != 2 || math.Abs(b.Energy-97.5) > 1e-9 {
		t.Errorf("second tick: pos=%+v vel=%v energy=%v", b.Pos, b.Vel, b.Energy)
	}
	if len(f.world.excluded) == 0 || f.world.excluded[0] != owner {
		t.Errorf("character query excluded %v, want owner %d", f.world.excluded, owner)
	}
}

func TestTick_SlowModifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	mods := mocks.NewMockModifiers(ctrl)
	mods.EXPECT().IsActive(gomock.Any()).DoAndReturn(func(mod netconfig.Modifier) bool {
		return mod == netconfig.ModifierSlow
	}).AnyTimes()

	f := newFixture(t, nil)
	f.env.Modifiers = mods

	b := bolt.New(f.env, 1, gamemath.V(0, 0), gamemath.V(0, 1), 100, owner)
	if math.Abs(b.Vel-1.01) > 1e-12 {
		t.Errorf("Vel = %v, want 1.01", b.Vel)
	}
}

func TestTick_DestroysOnPreCheck(t *testing.T) {
	tests := []struct {
		name   string
		pos    gamemath.Vec2
		energy float64
	}{
		{name: "negative energy", pos: gamemath.V(0, 0), energy: -0.5},
		{name: "outside simulation", pos: gamemath.V(20000, 0), energy: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, modifierSet{})
			b := bolt.New(f.env, 1, tt.pos, gamemath.V(1, 0), tt.energy, owner)

			if !b.Destroyed() || f.world.destroyed != 1 {
				t.Fatalf("destroyed=%v calls=%d, want destroyed once", b.Destroyed(), f.world.destroyed)
			}
			if !near(b.Pos, tt.pos) {
				t.Errorf("destroyed bolt moved to %+v", b.Pos)
			}

			b.Tick()
			b.Destroy()
			if f.world.destroyed != 1 {
				t.Errorf("destroy calls = %d, want 1", f.world.destroyed)
			}
			if !near(b.Pos, tt.pos) {
				t.Errorf("destroyed bolt advanced to %+v", b.Pos)
			}
		})
	}
}

func TestTick_CharacterHit(t *testing.T) {
	tests := []struct {
		name       string
		mods       modifierSet
		bounces    int
		wantDamage bool
		wantEnergy func(float64) bool
	}{
		{
			name:       "terminal hit",
			mods:       modifierSet{},
			wantDamage: true,
			wantEnergy: func(e float64) bool { return e < 0 },
		},
		{
			name:       "piercing keeps the bolt alive",
			mods:       modifierSet{netconfig.ModifierPiercing: true},
			wantDamage: true,
			wantEnergy: func(e float64) bool { return e == 97.5 },
		},
		{
			name:       "wallshot before any bounce",
			mods:       modifierSet{netconfig.ModifierWallShot: true},
			wantDamage: false,
			wantEnergy: func(e float64) bool { return e < 0 },
		},
		{
			name:       "wallshot after a bounce",
			mods:       modifierSet{netconfig.ModifierWallShot: true},
			bounces:    1,
			wantDamage: true,
			wantEnergy: func(e float64) bool { return e < 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			target := mocks.NewMockTarget(ctrl)
			if tt.wantDamage {
				target.EXPECT().TakeDamage(5, owner, netconfig.WeaponBolt).Times(1)
			}

			f := newFixture(t, tt.mods)
			// One free step, then the character shows up on the next segment.
			b := bolt.New(f.env, 1, gamemath.V(0, 0), gamemath.V(1, 0), 100, owner)
			b.Bounces = tt.bounces
			f.world.character = &hit{target: target, at: gamemath.V(1.5, 0)}
			b.Tick()

			if !near(b.Pos, gamemath.V(1.5, 0)) {
				t.Errorf("Pos = %+v, want hit point", b.Pos)
			}
			if !tt.wantEnergy(b.Energy) {
				t.Errorf("Energy = %v", b.Energy)
			}
			if b.Bounces != tt.bounces {
				t.Errorf("Bounces = %d, hits must not count", b.Bounces)
			}
			if b.Destroyed() {
				t.Errorf("bolt destroyed on the hit tick")
			}
		})
	}
}

func TestTick_HitPriority(t *testing.T) {
	ctrl := gomock.NewController(t)
	character := mocks.NewMockTarget(ctrl)
	turretTarget := mocks.NewMockTarget(ctrl)
	wallTarget := mocks.NewMockTarget(ctrl)

	character.EXPECT().TakeDamage(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)
	turretTarget.EXPECT().TakeDamage(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)
	wallTarget.EXPECT().TakeDamage(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)

	f := newFixture(t, modifierSet{})
	f.world.character = &hit{target: character, at: gamemath.V(0.2, 0)}
	f.world.turret = &turretHit{t: turret{Target: turretTarget, owner: 7}, at: gamemath.V(0.4, 0)}
	f.world.walls = []bolt.Wall{wall{Target: wallTarget, from: gamemath.V(0.6, -5), to: gamemath.V(0.6, 5)}}

	b := bolt.New(f.env, 1, gamemath.V(0, 0), gamemath.V(1, 0), 100, owner)
	if !near(b.Pos, gamemath.V(0.2, 0)) {
		t.Fatalf("character should win, pos = %+v", b.Pos)
	}

	f.world.character = nil
	b = bolt.New(f.env, 2, gamemath.V(0, 0), gamemath.V(1, 0), 100, owner)
	if !near(b.Pos, gamemath.V(0.4, 0)) {
		t.Fatalf("turret should beat wall, pos = %+v", b.Pos)
	}

	f.world.turret = nil
	b = bolt.New(f.env, 3, gamemath.V(0, 0), gamemath.V(1, 0), 100, owner)
	if !near(b.Pos, gamemath.V(0.6, 0)) {
		t.Fatalf("wall hit expected, pos = %+v", b.Pos)
	}
}

func TestTick_OwnTurretFallsThroughToWalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	turretTarget := mocks.NewMockTarget(ctrl)
	wallTarget := mocks.NewMockTarget(ctrl)
	wallTarget.EXPECT().TakeDamage(5, owner, netconfig.WeaponBolt).Times(1)

	f := newFixture(t, modifierSet{})
	f.world.turret = &turretHit{t: turret{Target: turretTarget, owner: owner}, at: gamemath.V(0.3, 0)}
	f.world.walls = []bolt.Wall{wall{Target: wallTarget, from: gamemath.V(0.8, -1), to: gamemath.V(0.8, 1)}}

	b := bolt.New(f.env, 1, gamemath.V(0, 0), gamemath.V(1, 0), 100, owner)
	if !near(b.Pos, gamemath.V(0.8, 0)) {
		t.Errorf("Pos = %+v, want wall hit", b.Pos)
	}
}

func TestTick_FirstWallInOrderWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	far := mocks.NewMockTarget(ctrl)
	nearer := mocks.NewMockTarget(ctrl)
	far.EXPECT().TakeDamage(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)

	f := newFixture(t, modifierSet{})
	f.world.walls = []bolt.Wall{
		wall{Target: mocks.NewMockTarget(ctrl), from: gamemath.V(0.5, 1), to: gamemath.V(0.5, 5)},
		wall{Target: far, from: gamemath.V(0.9, -1), to: gamemath.V(0.9, 1)},
		wall{Target: nearer, from: gamemath.V(0.1, -1), to: gamemath.V(0.1, 1)},
	}

	b := bolt.New(f.env, 1, gamemath.V(0, 0), gamemath.V(1, 0), 100, owner)
	if !near(b.Pos, gamemath.V(0.9, 0)) {
		t.Errorf("Pos = %+v, want first wall in order at x=0.9", b.Pos)
	}
}

func TestTick_ParallelWallIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, modifierSet{})
	f.world.walls = []bolt.Wall{
		wall{Target: mocks.NewMockTarget(ctrl), from: gamemath.V(-5, 0), to: gamemath.V(5, 0)},
	}

	b := bolt.New(f.env, 1, gamemath.V(0, 0), gamemath.V(1, 0), 100, owner)
	if !near(b.Pos, gamemath.V(1, 0)) || b.Energy < 0 {
		t.Errorf("collinear wall registered a hit: pos=%+v energy=%v", b.Pos, b.Energy)
	}
}

func TestTick_Bounce(t *testing.T) {
	f := newFixture(t, modifierSet{})
	f.env.Collision = fakeCollision{wallX: 10}

	f.effects.EXPECT().PlaySound(gomock.Any(), netconfig.SoundBoltBounce).Times(2)
	f.effects.EXPECT().SpawnExplosion(gomock.Any(), owner, netconfig.WeaponBolt, false, false).Times(2)

	b := bolt.New(f.env, 1, gamemath.V(9.5, 0), gamemath.V(1, 0), 100, owner)

	if b.LastPath() != bolt.PathBounce {
		t.Fatalf("LastPath() = %v, want bounce", b.LastPath())
	}
	if b.Bounces != 1 {
		t.Errorf("Bounces = %d, want 1", b.Bounces)
	}
	if math.Abs(b.Dir.Len()-1) > 1e-9 || b.Dir.X >= 0 {
		t.Errorf("Dir = %+v, want unit vector heading back", b.Dir)
	}
	if b.Energy < 0 {
		t.Fatalf("first bounce within the limit killed the bolt")
	}

	// Head back into the wall for the second bounce, which exceeds the limit.
	b.Pos = gamemath.V(9.5, 0)
	b.Dir = gamemath.V(1, 0)
	b.Tick()

	if b.Bounces != 2 {
		t.Errorf("Bounces = %d, want 2", b.Bounces)
	}
	if b.Energy >= 0 {
		t.Errorf("Energy = %v, want negative after exceeding the bounce limit", b.Energy)
	}
	if b.Destroyed() {
		t.Fatalf("bolt destroyed on the bounce tick")
	}

	b.Tick()
	if !b.Destroyed() {
		t.Errorf("bolt not destroyed on the tick after its last bounce")
	}
}

func TestTick_BounceSuppressedByPiercing(t *testing.T) {
	f := newFixture(t, modifierSet{netconfig.ModifierPiercing: true})
	f.env.Collision = fakeCollision{wallX: 10}

	b := bolt.New(f.env, 1, gamemath.V(9.5, 0), gamemath.V(1, 0), 100, owner)
	if b.LastPath() != bolt.PathFree || b.Bounces != 0 {
		t.Errorf("path=%v bounces=%d, want free flight through the wall", b.LastPath(), b.Bounces)
	}
	if !near(b.Pos, gamemath.V(10.5, 0)) {
		t.Errorf("Pos = %+v, want (10.5,0)", b.Pos)
	}
}

func TestTick_Glue(t *testing.T) {
	f := newFixture(t, modifierSet{netconfig.ModifierGlue: true})
	f.env.Collision = fakeCollision{wallX: 10}

	b := bolt.New(f.env, 1, gamemath.V(9.5, 0), gamemath.V(1, 0), 100, owner)
	if b.LastPath() != bolt.PathGlue {
		t.Fatalf("LastPath() = %v, want glue", b.LastPath())
	}
	if b.Bounces != 0 {
		t.Errorf("Bounces = %d, glue never bounces", b.Bounces)
	}
	if b.Pos.X >= 10 {
		t.Errorf("Pos = %+v, want stuck before the surface", b.Pos)
	}
}

func TestTick_GlueHitWinsOverSticking(t *testing.T) {
	ctrl := gomock.NewController(t)
	target := mocks.NewMockTarget(ctrl)
	target.EXPECT().TakeDamage(5, owner, netconfig.WeaponBolt).Times(1)

	f := newFixture(t, modifierSet{netconfig.ModifierGlue: true})
	f.env.Collision = fakeCollision{wallX: 10}
	// The whole step is hit-tested, even the part past the surface.
	f.world.character = &hit{target: target, at: gamemath.V(10.2, 0)}

	b := bolt.New(f.env, 1, gamemath.V(9.5, 0), gamemath.V(1, 0), 100, owner)
	if b.LastPath() != bolt.PathGlue {
		t.Fatalf("LastPath() = %v, want glue", b.LastPath())
	}
	if !near(b.Pos, gamemath.V(10.2, 0)) {
		t.Errorf("Pos = %+v, want the hit point, not the surface", b.Pos)
	}
	if b.Energy >= 0 {
		t.Errorf("Energy = %v, want drained by the hit", b.Energy)
	}
}

func TestTick_TeleportBeatsGlue(t *testing.T) {
	f := newFixture(t, modifierSet{netconfig.ModifierGlue: true})
	f.env.Collision = fakeCollision{wallX: 10}
	exit := gamemath.V(500, 300)
	f.world.exit = &exit

	b := bolt.New(f.env, 1, gamemath.V(9.5, 0), gamemath.V(1, 0), 100, owner)
	if b.LastPath() != bolt.PathTeleport {
		t.Fatalf("LastPath() = %v, want teleport", b.LastPath())
	}
	if !near(b.Pos, gamemath.V(520, 300)) {
		t.Errorf("Pos = %+v, want exit plus lead", b.Pos)
	}
}

func TestTick_Teleport(t *testing.T) {
	f := newFixture(t, modifierSet{})
	exit := gamemath.V(500, 300)
	f.world.exit = &exit

	b := bolt.New(f.env, 1, gamemath.V(0, 0), gamemath.V(0, 1), 100, owner)
	if b.LastPath() != bolt.PathTeleport {
		t.Fatalf("LastPath() = %v, want teleport", b.LastPath())
	}
	if !near(b.Pos, gamemath.V(500, 320)) {
		t.Errorf("Pos = %+v, want exit plus lead", b.Pos)
	}
	if math.Abs(b.Energy-99) > 1e-9 {
		t.Errorf("Energy = %v, teleport still charges the unobstructed distance", b.Energy)
	}
}

func TestTick_TeleportSkippedOnHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	target := mocks.NewMockTarget(ctrl)
	target.EXPECT().TakeDamage(5, owner, netconfig.WeaponBolt)

	f := newFixture(t, modifierSet{})
	exit := gamemath.V(500, 300)
	f.world.exit = &exit
	f.world.character = &hit{target: target, at: gamemath.V(0, 0.5)}

	b := bolt.New(f.env, 1, gamemath.V(0, 0), gamemath.V(0, 1), 100, owner)
	if !near(b.Pos, gamemath.V(0, 0.5)) {
		t.Errorf("Pos = %+v, want character hit point", b.Pos)
	}
}

func TestSnap(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, modifierSet{})
	b := bolt.New(f.env, 42, gamemath.V(10.7, -3.2), gamemath.V(1, 0), 100, owner)

	visible := mocks.NewMockObserver(ctrl)
	visible.EXPECT().Clipped(b.Pos).Return(false)
	item, ok := b.Snap(visible, 1234)
	if !ok {
		t.Fatalf("Snap() suppressed for visible observer")
	}
	if item.ID != 42 || item.X != 11 || item.Y != -3 || item.FromX != item.X || item.FromY != item.Y || item.StartTick != 1234 {
		t.Errorf("Snap() = %+v", item)
	}

	hidden := mocks.NewMockObserver(ctrl)
	hidden.EXPECT().Clipped(gomock.Any()).Return(true)
	if _, ok := b.Snap(hidden, 1234); ok {
		t.Errorf("Snap() produced an item for a clipped observer")
	}
}

func TestTick_EnergyNeverIncreases(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mods := modifierSet{}
		for m := netconfig.Modifier(0); m < netconfig.ModifierCount; m++ {
			mods[m] = rapid.Bool().Draw(rt, m.String())
		}
		angle := rapid.Float64Range(0, 2*math.Pi).Draw(rt, "angle")
		energy := rapid.Float64Range(0, 2000).Draw(rt, "energy")
		ticks := rapid.IntRange(1, 60).Draw(rt, "ticks")

		f := &fakeWorld{bounds: 1000}
		env := bolt.Env{
			World:     f,
			Collision: fakeCollision{wallX: 200},
			Modifiers: mods,
			Effects:   nopEffects{},
			Tuning:    tuning(),
		}
		b := bolt.New(env, 1, gamemath.V(0, 0), gamemath.V(math.Cos(angle), math.Sin(angle)), energy, owner)
		for i := 0; i < ticks; i++ {
			before, dead := b.Energy, b.Destroyed()
			pos := b.Pos
			b.Tick()
			if b.Energy > before {
				rt.Fatalf("energy rose from %v to %v", before, b.Energy)
			}
			if before < 0 && !b.Destroyed() {
				rt.Fatalf("bolt with energy %v survived a tick", before)
			}
			if dead && b.Pos != pos {
				rt.Fatalf("destroyed bolt moved")
			}
			if b.LastPath() == bolt.PathBounce && math.Abs(b.Dir.Len()-1) > 1e-9 {
				rt.Fatalf("direction %+v not normalized after bounce", b.Dir)
			}
		}
		if f.destroyed > 1 {
			rt.Fatalf("destroyed %d times", f.destroyed)
		}
	})
}

type nopEffects struct{}

func (nopEffects) PlaySound(gamemath.Vec2, netconfig.SoundID) {}
func (nopEffects) SpawnExplosion(gamemath.Vec2, netconfig.ClientID, netconfig.WeaponID, bool, bool) {}
