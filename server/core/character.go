package core

import (
	"slices"

	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"

	cfg "github.com/automoto/bolt-arena/config"
	"github.com/automoto/bolt-arena/shared/gamemath"
	"github.com/automoto/bolt-arena/shared/messages"
	"github.com/automoto/bolt-arena/shared/netcomponents"
	"github.com/automoto/bolt-arena/shared/netconfig"
	"github.com/automoto/bolt-arena/tags"
)

// CharacterPhysics holds per-character physics state on the server. This is
// not a donburi component: it exists only on the server and is never synced.
type CharacterPhysics struct {
	Object   *resolv.Object
	OnGround bool

	// Latest input snapshot (written by input handling, read by physics tick)
	Direction      int
	JumpPressed    bool
	JumpWasPressed bool // previous frame, for edge detection
}

// Character is a player's avatar. Replicated state lives in the entity's
// net components; the struct adds server-only bookkeeping.
type Character struct {
	Client netconfig.ClientID
	Name   string

	arena       *Arena
	entity      donburi.Entity
	phys        *CharacterPhysics
	respawnTick int
}

// AddCharacter creates the character of a client and spawns it at the next
// spawn point.
func (a *Arena) AddCharacter(client netconfig.ClientID, name string) (*Character, error) {
	if a.Character(client) != nil {
		return nil, ErrSlotTaken
	}

	entity := a.world.Create(
		tags.Character,
		netcomponents.NetPosition,
		netcomponents.NetVelocity,
		netcomponents.NetCharacter,
	)
	entry := a.world.Entry(entity)
	netcomponents.NetPosition.Set(entry, &netcomponents.NetPositionData{})
	netcomponents.NetVelocity.Set(entry, &netcomponents.NetVelocityData{})
	netcomponents.NetCharacter.Set(entry, &netcomponents.NetCharacterData{
		ClientID:  int(client),
		Name:      name,
		Direction: 1,
	})

	w, h := cfg.Character.Width, cfg.Character.Height
	obj := resolv.NewObject(0, 0, w, h, tags.ResolvCharacter)
	obj.SetShape(resolv.NewRectangle(0, 0, w, h))
	a.level.Space.Add(obj)

	c := &Character{
		Client: client,
		Name:   name,
		arena:  a,
		entity: entity,
		phys:   &CharacterPhysics{Object: obj},
	}
	c.spawn(a.level.SpawnPoint(a.spawnCount))
	a.spawnCount++

	if a.onSpawn != nil {
		if err := a.onSpawn(&entity); err != nil {
			a.level.Space.Remove(obj)
			a.world.Remove(entity)
			return nil, err
		}
	}

	i, _ := slices.BinarySearchFunc(a.characters, client, func(c *Character, id netconfig.ClientID) int {
		return int(c.Client) - int(id)
	})
	a.characters = slices.Insert(a.characters, i, c)

	a.logger.Info("character spawned", zap.Int("client", int(client)), zap.String("name", name))
	return c, nil
}

// RemoveCharacter deletes a client's character and every structure it built.
func (a *Arena) RemoveCharacter(client netconfig.ClientID) {
	i := slices.IndexFunc(a.characters, func(c *Character) bool { return c.Client == client })
	if i < 0 {
		return
	}
	c := a.characters[i]
	a.characters = slices.Delete(a.characters, i, i+1)

	a.level.Space.Remove(c.phys.Object)
	if a.world.Valid(c.entity) {
		a.world.Remove(c.entity)
	}
	a.removeOwnedStructures(client)
	a.logger.Info("character removed", zap.Int("client", int(client)))
}

// Character returns the character of client, or nil.
func (a *Arena) Character(client netconfig.ClientID) *Character {
	for _, c := range a.characters {
		if c.Client == client {
			return c
		}
	}
	return nil
}

// Characters returns all characters ordered by ClientID.
func (a *Arena) Characters() []*Character {
	return slices.Clone(a.characters)
}

func (c *Character) entry() *donburi.Entry {
	return c.arena.world.Entry(c.entity)
}

func (c *Character) state() *netcomponents.NetCharacterData {
	return netcomponents.NetCharacter.Get(c.entry())
}

// Entity returns the character's donburi entity.
func (c *Character) Entity() donburi.Entity { return c.entity }

// Pos returns the character's center.
func (c *Character) Pos() gamemath.Vec2 {
	obj := c.phys.Object
	return gamemath.V(obj.X+obj.W/2, obj.Y+obj.H/2)
}

// SetPos moves the character's center to p.
func (c *Character) SetPos(p gamemath.Vec2) {
	obj := c.phys.Object
	obj.X = p.X - obj.W/2
	obj.Y = p.Y - obj.H/2
	obj.Update()
	c.syncMotion()
}

func (c *Character) Alive() bool    { return c.state().Alive }
func (c *Character) Health() int    { return c.state().Health }
func (c *Character) Armor() int     { return c.state().Armor }
func (c *Character) Score() int     { return c.state().Score }
func (c *Character) Direction() int { return c.state().Direction }

// SetInput stores the movement part of a client's input for the next
// physics step.
func (c *Character) SetInput(in messages.PlayerInput) {
	c.phys.Direction = in.Direction
	c.phys.JumpPressed = in.Pressed(netconfig.ActionJump)
	st := c.state()
	st.LastInput = in.Sequence
	if in.Direction != 0 {
		st.Direction = in.Direction
	}
}

// TakeDamage implements bolt.Target. Self damage is halved, and armor soaks
// damage before health does.
func (c *Character) TakeDamage(amount int, from netconfig.ClientID, weapon netconfig.WeaponID) {
	st := c.state()
	if !st.Alive {
		return
	}
	if from == c.Client {
		amount = max(1, amount/2)
	}

	dmg := amount
	if dmg > 0 {
		if st.Armor > 0 {
			if dmg > 1 {
				st.Health--
				dmg--
			}
			if dmg > st.Armor {
				dmg -= st.Armor
				st.Armor = 0
			} else {
				st.Armor -= dmg
				dmg = 0
			}
		}
		st.Health -= dmg
	}

	pos := c.Pos()
	c.arena.broadcast(messages.HitEvent{
		AttackerID: int(from),
		TargetKind: netconfig.TargetCharacter,
		TargetID:   int(c.Client),
		Damage:     amount,
		X:          pos.X,
		Y:          pos.Y,
	})
	c.arena.effects.PlaySound(pos, netconfig.SoundHit)

	if st.Health <= 0 {
		c.die(from, weapon)
	}
}

func (c *Character) die(killer netconfig.ClientID, weapon netconfig.WeaponID) {
	st := c.state()
	st.Alive = false
	st.Health = 0
	c.respawnTick = c.arena.tick + cfg.Character.RespawnDelay

	if killer == c.Client {
		st.Score--
	} else if k := c.arena.Character(killer); k != nil {
		k.state().Score++
	}

	c.arena.broadcast(messages.DeathEvent{
		VictimID: int(c.Client),
		KillerID: int(killer),
		Weapon:   weapon,
	})
	c.arena.effects.PlaySound(c.Pos(), netconfig.SoundDeath)
	c.arena.broadcastScores()

	c.arena.logger.Debug("character died",
		zap.Int("client", int(c.Client)),
		zap.Int("killer", int(killer)),
		zap.Stringer("weapon", weapon))
}

func (c *Character) spawn(at gamemath.Vec2) {
	st := c.state()
	st.Alive = true
	st.Health = cfg.Character.Health
	st.Armor = cfg.Character.Armor

	vel := netcomponents.NetVelocity.Get(c.entry())
	vel.SpeedX, vel.SpeedY = 0, 0
	c.phys.OnGround = false
	c.SetPos(at)
}

func (c *Character) syncMotion() {
	p := c.Pos()
	pos := netcomponents.NetPosition.Get(c.entry())
	pos.X, pos.Y = p.X, p.Y
}

func (a *Arena) respawnCharacters() {
	for _, c := range a.characters {
		if c.Alive() || a.tick < c.respawnTick {
			continue
		}
		c.spawn(a.level.SpawnPoint(a.spawnCount))
		a.spawnCount++
	}
}
