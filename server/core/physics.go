package core

import (
	"math"

	cfg "github.com/automoto/bolt-arena/config"
	"github.com/automoto/bolt-arena/shared/gamemath"
	"github.com/automoto/bolt-arena/shared/netcomponents"
	"github.com/automoto/bolt-arena/tags"
)

// maxVertSpeed is a hard clamp on vertical movement per sub-step so fast
// falls cannot tunnel through one-tile floors.
const maxVertSpeed = 16.0

// stepCharacters runs sub-stepped physics for all living characters. Called
// once per server tick. Sub-stepping keeps the 60 Hz tuned constants valid at
// the server's lower tick rate.
func (a *Arena) stepCharacters() {
	for step := 0; step < a.subSteps; step++ {
		for _, c := range a.characters {
			if !c.Alive() {
				continue
			}
			vel := netcomponents.NetVelocity.Get(c.entry())
			stepCharacterPhysics(c.phys, vel)
		}
	}

	// After all sub-steps, write final positions.
	for _, c := range a.characters {
		c.phys.Object.Update()
		c.syncMotion()
	}
}

// stepCharacterPhysics performs a single 60 Hz physics sub-step.
func stepCharacterPhysics(pp *CharacterPhysics, vel *netcomponents.NetVelocityData) {
	ch := cfg.Character

	// --- Horizontal input ---
	if pp.Direction != 0 {
		vel.SpeedX += float64(pp.Direction) * ch.Acceleration
	}

	// --- Jump (edge-triggered) ---
	if pp.JumpPressed && !pp.JumpWasPressed && pp.OnGround {
		vel.SpeedY = -ch.JumpSpeed
		pp.OnGround = false
	}
	pp.JumpWasPressed = pp.JumpPressed

	// --- Friction (ground only) ---
	if pp.OnGround && pp.Direction == 0 {
		vel.SpeedX = gamemath.ApplyFriction(vel.SpeedX, ch.Friction)
	}

	vel.SpeedX = gamemath.ClampSpeed(vel.SpeedX, ch.MaxSpeed)

	// --- Gravity ---
	vel.SpeedY = math.Min(vel.SpeedY+ch.Gravity, ch.MaxFallSpeed)

	// --- Resolve horizontal collision ---
	dx := vel.SpeedX
	if dx != 0 {
		if check := pp.Object.Check(dx, 0, tags.ResolvSolid); check != nil {
			if solids := check.ObjectsByTags(tags.ResolvSolid); len(solids) > 0 {
				contact := check.ContactWithObject(solids[0])
				dx = contact.X()
				vel.SpeedX = 0
			}
		}
		pp.Object.X += dx
	}

	// --- Resolve vertical collision ---
	dy := gamemath.ClampSpeed(vel.SpeedY, maxVertSpeed)

	checkDist := dy
	if dy >= 0 {
		checkDist++
	}

	if check := pp.Object.Check(0, checkDist, tags.ResolvSolid); check != nil {
		if solids := check.ObjectsByTags(tags.ResolvSolid); len(solids) > 0 {
			contact := check.ContactWithObject(solids[0])
			pp.Object.Y += contact.Y()
			pp.OnGround = dy >= 0
			vel.SpeedY = 0
			pp.Object.Update()
			return
		}
	}

	// No collision: freefall
	pp.OnGround = false
	pp.Object.Y += dy
	pp.Object.Update()
}
