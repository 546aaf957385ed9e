// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must stay free of rendering and simulation
// dependencies so both the dedicated server and headless tools can import it.
package netconfig

import (
	"fmt"
	"strings"
)

// ClientID identifies a connected player slot. Bolts, turrets and walls carry
// the ClientID of the player that created them.
type ClientID int

// NoClient marks world-owned entities (level turrets, level walls).
const NoClient ClientID = -1

// WeaponID identifies the weapon a hit or explosion is attributed to.
type WeaponID int

const (
	WeaponNone WeaponID = iota
	WeaponBolt
	WeaponWallBlast
)

func (w WeaponID) String() string {
	switch w {
	case WeaponBolt:
		return "bolt"
	case WeaponWallBlast:
		return "wallblast"
	default:
		return "none"
	}
}

// SoundID identifies a one-shot world sound.
type SoundID int

const (
	SoundNone SoundID = iota
	SoundBoltFire
	SoundBoltBounce
	SoundHit
	SoundDeath
	SoundExplosion
	SoundTeleport
)

// TargetKind tells clients what kind of entity a hit landed on.
type TargetKind int

const (
	TargetCharacter TargetKind = iota
	TargetTurret
	TargetWall
)

func (k TargetKind) String() string {
	switch k {
	case TargetCharacter:
		return "character"
	case TargetTurret:
		return "turret"
	case TargetWall:
		return "wall"
	default:
		return "unknown"
	}
}

// BuildKind selects the structure a BuildRequest places.
type BuildKind int

const (
	BuildTurret BuildKind = iota
	BuildWall
)

// Modifier is an arena-wide rule change announced by the event rotation.
type Modifier int

const (
	ModifierPiercing Modifier = iota // hits do not stop bolts
	ModifierWallShot                 // bolts only damage after a bounce
	ModifierGlue                     // bolts stick to the first surface
	ModifierSlow                     // bolts barely accelerate
	ModifierCount                    // Must be last
)

var modifierNames = [ModifierCount]string{
	ModifierPiercing: "piercing",
	ModifierWallShot: "wallshot",
	ModifierGlue:     "glue",
	ModifierSlow:     "slow",
}

func (m Modifier) String() string {
	if m >= 0 && m < ModifierCount {
		return modifierNames[m]
	}
	return "unknown"
}

// ParseModifier maps a config or admin name back to its Modifier.
func ParseModifier(name string) (Modifier, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range modifierNames {
		if n == name {
			return Modifier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown modifier %q", name)
}

// ActionID represents a logical player action carried in PlayerInput.
type ActionID int

const (
	ActionNone ActionID = iota
	ActionMoveLeft
	ActionMoveRight
	ActionJump
	ActionFire
	ActionCount // Must be last - used for array sizing
)
