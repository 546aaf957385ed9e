package core

import (
	"errors"
	"math"
	"slices"

	"github.com/yohamta/donburi"
	"go.uber.org/zap"

	cfg "github.com/automoto/bolt-arena/config"
	"github.com/automoto/bolt-arena/server/bolt"
	"github.com/automoto/bolt-arena/shared/gamemath"
	"github.com/automoto/bolt-arena/shared/leveldata"
	"github.com/automoto/bolt-arena/shared/messages"
	"github.com/automoto/bolt-arena/shared/netconfig"
	"github.com/automoto/bolt-arena/tags"
)

var (
	ErrBuildLimit    = errors.New("build limit reached")
	ErrBlocked       = errors.New("position blocked by level geometry")
	ErrBadWall       = errors.New("wall has zero length")
	ErrSlotTaken     = errors.New("client slot already has a character")
	ErrNoCharacter   = errors.New("no such character")
	ErrCharacterDead = errors.New("character is dead")
)

// snapIDReuseDelay keeps a released snapshot id out of circulation long
// enough for clients to drop the old bolt before the id reappears.
const snapIDReuseDelay = 50

// ArenaOptions wires an Arena to the rest of the server.
type ArenaOptions struct {
	Modifiers bolt.Modifiers
	// Broadcast delivers an event to every joined client. May be nil.
	Broadcast func(msg any)
	// OnSpawn is called once for every new character entity, typically to
	// register it for network sync. May be nil.
	OnSpawn  func(entity *donburi.Entity) error
	TickRate int
	Logger   *zap.Logger
}

// Arena is the world container for one match: characters, structures,
// teleporters and bolts over a donburi world and a ServerLevel. It
// implements bolt.World and is driven by the game loop goroutine only.
type Arena struct {
	world  donburi.World
	level  *ServerLevel
	logger *zap.Logger

	modifiers bolt.Modifiers
	effects   arenaEffects
	broadcast func(msg any)
	onSpawn   func(entity *donburi.Entity) error
	subSteps  int

	tick       int
	spawnCount int

	characters   []*Character // ordered by ClientID
	turrets      []donburi.Entity
	walls        []donburi.Entity // insertion order, the bolt hit order
	teleporters  []donburi.Entity
	bolts        []*bolt.Bolt // fire order
	boltEntities map[*bolt.Bolt]donburi.Entity
	boltBorn     map[*bolt.Bolt]int // tick a bolt was fired in
	doomed       []*bolt.Bolt

	snapIDs      *IDPool
	nextStructID uint32
}

// NewArena creates an arena and places the level's teleporters, turrets and
// explode walls.
func NewArena(world donburi.World, level *ServerLevel, opts ArenaOptions) *Arena {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	broadcast := opts.Broadcast
	if broadcast == nil {
		broadcast = func(any) {}
	}
	// Physics constants were tuned for 60 Hz.
	subSteps := 1
	if opts.TickRate > 0 && opts.TickRate < 60 {
		subSteps = 60 / opts.TickRate
	}

	a := &Arena{
		world:        world,
		level:        level,
		logger:       logger.Named("arena"),
		modifiers:    opts.Modifiers,
		broadcast:    broadcast,
		onSpawn:      opts.OnSpawn,
		subSteps:     subSteps,
		boltEntities: make(map[*bolt.Bolt]donburi.Entity),
		boltBorn:     make(map[*bolt.Bolt]int),
		snapIDs:      NewIDPool(snapIDReuseDelay),
	}
	a.effects = arenaEffects{arena: a}
	a.placeLevelEntities()
	return a
}

func (a *Arena) placeLevelEntities() {
	for _, t := range a.level.Data.Teleporters {
		e := a.world.Create(tags.Teleporter, TeleporterComponent)
		TeleporterComponent.Set(a.world.Entry(e), &TeleporterData{
			ID:     t.ID,
			Target: t.Target,
			Pos:    gamemath.V(t.X, t.Y),
		})
		a.teleporters = append(a.teleporters, e)
	}
	for _, t := range a.level.Data.Turrets {
		a.addTurret(netconfig.NoClient, gamemath.V(t.X, t.Y), t.Health)
	}
	for _, w := range a.level.Data.ExplodeWalls {
		from := gamemath.V(w.X, w.Y)
		a.addWall(netconfig.NoClient, from, from.Add(gamemath.V(w.DX, w.DY)), w.Health)
	}
}

// Level returns the arena's level.
func (a *Arena) Level() *ServerLevel { return a.level }

// CurrentTick returns the tick passed to the last Tick call.
func (a *Arena) CurrentTick() int { return a.tick }

func (a *Arena) boltEnv() bolt.Env {
	return bolt.Env{
		World:     a,
		Collision: a.level,
		Modifiers: a.modifiers,
		Effects:   a.effects,
		Tuning: bolt.Tuning{
			Damage:           cfg.Bolt.Damage,
			BounceCost:       cfg.Bolt.BounceCost,
			BounceNum:        cfg.Bolt.BounceNum,
			StartVelocity:    cfg.Bolt.StartVelocity,
			Acceleration:     cfg.Bolt.Acceleration,
			SlowAcceleration: cfg.Bolt.SlowAcceleration,
			HitRadius:        cfg.Bolt.HitRadius,
			TeleporterRadius: cfg.Bolt.TeleporterRadius,
			TeleportLead:     cfg.Bolt.TeleportLead,
			ProbeLength:      cfg.Bolt.ProbeLength,
			Elasticity:       cfg.Bolt.Elasticity,
			Weapon:           netconfig.WeaponBolt,
			BounceSound:      netconfig.SoundBoltBounce,
		},
	}
}

// FireBolt launches a bolt. The bolt is simulated once before FireBolt
// returns and may already be destroyed.
func (a *Arena) FireBolt(owner netconfig.ClientID, pos, dir gamemath.Vec2) *bolt.Bolt {
	id := a.snapIDs.Acquire(a.tick)
	a.effects.PlaySound(pos, netconfig.SoundBoltFire)
	return bolt.New(a.boltEnv(), id, pos, dir.Normalize(), cfg.Bolt.StartEnergy, owner)
}

// Fire shoots a bolt from a character along aim. A zero aim fires in the
// facing direction.
func (a *Arena) Fire(c *Character, aim gamemath.Vec2) (*bolt.Bolt, error) {
	if c == nil {
		return nil, ErrNoCharacter
	}
	if !c.Alive() {
		return nil, ErrCharacterDead
	}
	dir := aim.Normalize()
	if dir == (gamemath.Vec2{}) {
		dir = gamemath.V(float64(c.Direction()), 0)
	}
	start := c.Pos().Add(dir.Scale(cfg.Character.ProximityRadius * cfg.Bolt.SpawnOffset))
	return a.FireBolt(c.Client, start, dir), nil
}

// Bolts returns the live bolts in fire order.
func (a *Arena) Bolts() []*bolt.Bolt {
	out := make([]*bolt.Bolt, 0, len(a.bolts))
	for _, b := range a.bolts {
		if !b.Destroyed() {
			out = append(out, b)
		}
	}
	return out
}

// Insert implements bolt.World.
func (a *Arena) Insert(b *bolt.Bolt) {
	e := a.world.Create(tags.Bolt, BoltComponent)
	BoltComponent.Set(a.world.Entry(e), &BoltData{Bolt: b})
	a.bolts = append(a.bolts, b)
	a.boltEntities[b] = e
	a.boltBorn[b] = a.tick
}

// Destroy implements bolt.World. Removal is deferred to the end of the tick
// so the bolt list is never modified while it is being iterated.
func (a *Arena) Destroy(b *bolt.Bolt) {
	a.doomed = append(a.doomed, b)
}

// Clipped implements bolt.World.
func (a *Arena) Clipped(pos gamemath.Vec2) bool {
	return a.level.Clipped(pos)
}

// segmentReach finds where a body at center with the given reach touches
// the segment. dist is measured from the segment start.
func segmentReach(from, to, center gamemath.Vec2, reach float64) (at gamemath.Vec2, dist float64, ok bool) {
	at = gamemath.ClosestPointOnLine(from, to, center)
	if gamemath.Distance(center, at) >= reach {
		return at, 0, false
	}
	return at, gamemath.Distance(from, at), true
}

// IntersectCharacter implements bolt.World.
func (a *Arena) IntersectCharacter(from, to gamemath.Vec2, radius float64, exclude netconfig.ClientID) (bolt.Target, gamemath.Vec2, bool) {
	var (
		best    *Character
		bestAt  gamemath.Vec2
		bestLen = math.Inf(1)
	)
	for _, c := range a.characters {
		if c.Client == exclude || !c.Alive() {
			continue
		}
		at, dist, ok := segmentReach(from, to, c.Pos(), cfg.Character.ProximityRadius+radius)
		if ok && dist < bestLen {
			best, bestAt, bestLen = c, at, dist
		}
	}
	if best == nil {
		return nil, gamemath.Vec2{}, false
	}
	return best, bestAt, true
}

// IntersectTurret implements bolt.World.
func (a *Arena) IntersectTurret(from, to gamemath.Vec2, radius float64) (bolt.Turret, gamemath.Vec2, bool) {
	var (
		best    donburi.Entity
		found   bool
		bestAt  gamemath.Vec2
		bestLen = math.Inf(1)
	)
	for _, e := range a.turrets {
		t := TurretComponent.Get(a.world.Entry(e))
		if t.Dead {
			continue
		}
		at, dist, ok := segmentReach(from, to, t.Pos, t.Radius+radius)
		if ok && dist < bestLen {
			best, found, bestAt, bestLen = e, true, at, dist
		}
	}
	if !found {
		return nil, gamemath.Vec2{}, false
	}
	return turretHandle{arena: a, entity: best}, bestAt, true
}

// IntersectTeleporter implements bolt.World. Only the closest teleporter is
// considered: when it has no exit the bolt is not teleported, even if a
// linked teleporter is also touched.
func (a *Arena) IntersectTeleporter(from, to gamemath.Vec2, radius float64) (gamemath.Vec2, bool) {
	var (
		best    *TeleporterData
		bestLen = math.Inf(1)
	)
	for _, e := range a.teleporters {
		t := TeleporterComponent.Get(a.world.Entry(e))
		if _, dist, ok := segmentReach(from, to, t.Pos, radius); ok && dist < bestLen {
			best, bestLen = t, dist
		}
	}
	if best == nil || best.Target == leveldata.NoTeleporterTarget {
		return gamemath.Vec2{}, false
	}
	for _, e := range a.teleporters {
		if t := TeleporterComponent.Get(a.world.Entry(e)); t.ID == best.Target {
			return t.Pos, true
		}
	}
	return gamemath.Vec2{}, false
}

// Walls implements bolt.World.
func (a *Arena) Walls() []bolt.Wall {
	out := make([]bolt.Wall, 0, len(a.walls))
	for _, e := range a.walls {
		if !ExplodeWallComponent.Get(a.world.Entry(e)).Dead {
			out = append(out, wallHandle{arena: a, entity: e})
		}
	}
	return out
}

// BeginTick opens tick before Tick runs, so bolts fired by commands
// processed in between count as fired in tick.
func (a *Arena) BeginTick(tick int) {
	a.tick = tick
}

// Tick advances the arena by one server tick: character physics, turret
// targeting, then every bolt in fire order. Destroyed entities are removed
// at the end.
func (a *Arena) Tick(tick int) {
	a.tick = tick

	n := len(a.bolts)
	a.stepCharacters()
	a.thinkTurrets()

	// Bolts fired in this tick were already simulated once by bolt.New.
	for i := 0; i < n; i++ {
		if b := a.bolts[i]; a.boltBorn[b] != tick {
			b.Tick()
		}
	}

	a.flush()
	a.respawnCharacters()
}

func (a *Arena) flush() {
	for _, b := range a.doomed {
		e, ok := a.boltEntities[b]
		if !ok {
			continue
		}
		delete(a.boltEntities, b)
		delete(a.boltBorn, b)
		if a.world.Valid(e) {
			a.world.Remove(e)
		}
		a.snapIDs.Release(b.ID, a.tick)
	}
	a.doomed = a.doomed[:0]
	a.bolts = slices.DeleteFunc(a.bolts, (*bolt.Bolt).Destroyed)

	a.turrets = a.removeDead(a.turrets, func(e *donburi.Entry) bool {
		return TurretComponent.Get(e).Dead
	})
	a.walls = a.removeDead(a.walls, func(e *donburi.Entry) bool {
		return ExplodeWallComponent.Get(e).Dead
	})
}

func (a *Arena) removeDead(entities []donburi.Entity, dead func(*donburi.Entry) bool) []donburi.Entity {
	kept := entities[:0]
	for _, e := range entities {
		if !a.world.Valid(e) {
			continue
		}
		if dead(a.world.Entry(e)) {
			a.world.Remove(e)
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// Snapshot builds the bolt snapshot for one observer.
func (a *Arena) Snapshot(tick int, observer bolt.Observer) messages.Snapshot {
	snap := messages.Snapshot{Tick: tick}
	for _, b := range a.bolts {
		if b.Destroyed() {
			continue
		}
		if item, ok := b.Snap(observer, tick); ok {
			snap.Lasers = append(snap.Lasers, item)
		}
	}
	return snap
}

// Scores returns every character's score keyed by ClientID.
func (a *Arena) Scores() map[int]int {
	scores := make(map[int]int, len(a.characters))
	for _, c := range a.characters {
		scores[int(c.Client)] = c.Score()
	}
	return scores
}

func (a *Arena) broadcastScores() {
	a.broadcast(messages.ScoreUpdateEvent{Scores: a.Scores()})
}
