package core

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/bolt-arena/server/bolt"
	"github.com/automoto/bolt-arena/shared/gamemath"
	"github.com/automoto/bolt-arena/shared/netconfig"
)

// Server-only components. They are never synced: clients learn about
// structures through events and about bolts through snapshots.

type TurretData struct {
	ID       uint32
	Owner    netconfig.ClientID
	Pos      gamemath.Vec2
	Health   int
	Radius   float64
	NextFire int // tick
	Dead     bool
}

type ExplodeWallData struct {
	ID       uint32
	Owner    netconfig.ClientID
	From, To gamemath.Vec2
	Health   int
	Dead     bool
}

type TeleporterData struct {
	ID     int
	Target int
	Pos    gamemath.Vec2
}

type BoltData struct {
	Bolt *bolt.Bolt
}

var (
	TurretComponent      = donburi.NewComponentType[TurretData]()
	ExplodeWallComponent = donburi.NewComponentType[ExplodeWallData]()
	TeleporterComponent  = donburi.NewComponentType[TeleporterData]()
	BoltComponent        = donburi.NewComponentType[BoltData]()
)
