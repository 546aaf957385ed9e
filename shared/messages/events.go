package messages

import "github.com/automoto/bolt-arena/shared/netconfig"

// SoundEvent asks clients to play a one-shot sound at a world position.
type SoundEvent struct {
	X, Y  float64
	Sound netconfig.SoundID
}

// ExplosionEvent is broadcast for every explosion, damaging or cosmetic.
type ExplosionEvent struct {
	X, Y         float64
	OwnerID      int
	Weapon       netconfig.WeaponID
	DamageSelf   bool
	DamageOthers bool
}

// HitEvent is broadcast when an attack connects
type HitEvent struct {
	AttackerID int // ClientID of attacker
	TargetKind netconfig.TargetKind
	TargetID   int // ClientID for characters, structure id otherwise
	Damage     int
	X, Y       float64
}

// DeathEvent is broadcast when a character dies
type DeathEvent struct {
	VictimID int // ClientID of victim
	KillerID int // ClientID of killer (-1 if environmental)
	Weapon   netconfig.WeaponID
}

// ModifierChangeEvent is broadcast when the event rotation changes the active modifiers
type ModifierChangeEvent struct {
	Active []netconfig.Modifier
}

// ScoreUpdateEvent is broadcast when scores change
type ScoreUpdateEvent struct {
	Scores map[int]int // ClientID -> score
}

// LaserItem is the per-observer snapshot record of one bolt. A bolt reports
// itself as a zero-length beam, so From equals the current position.
type LaserItem struct {
	ID           uint32
	X, Y         int32
	FromX, FromY int32
	StartTick    int
}

// Snapshot carries every bolt visible to one observer for one server tick.
type Snapshot struct {
	Tick   int
	Lasers []LaserItem
}
