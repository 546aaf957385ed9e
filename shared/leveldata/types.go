// Package leveldata provides TMX level parsing shared between the server and
// headless tools. It has no dependencies on donburi or resolv: pure data only.
package leveldata

// Layer and object group names recognised in TMX files.
const (
	CollisionLayer     = "collision"
	PlayerSpawnGroup   = "PlayerSpawn"
	TeleporterGroup    = "Teleporter"
	TurretGroup        = "Turret"
	ExplodeWallGroup   = "ExplodeWall"
	NoTeleporterTarget = 0
)

// LevelData holds everything the server needs from a TMX level file.
type LevelData struct {
	SolidRects   []SolidRect
	SpawnPoints  []SpawnPoint
	Teleporters  []Teleporter
	Turrets      []TurretSpawn
	ExplodeWalls []ExplodeWallSpawn

	MapWidth   int // pixels
	MapHeight  int
	TileWidth  int
	TileHeight int
}

// SolidRect represents a solid collision tile.
type SolidRect struct {
	X, Y, W, H float64
}

// SpawnPoint represents a player spawn location.
type SpawnPoint struct {
	X, Y  float64
	Index int
}

// Teleporter is one end of a teleporter link. Target is the ID of the exit
// teleporter, or NoTeleporterTarget for a dead end.
type Teleporter struct {
	ID     int
	Target int
	X, Y   float64
}

// TurretSpawn is a world-owned turret placed by the level.
type TurretSpawn struct {
	X, Y   float64
	Health int // 0 = default
}

// ExplodeWallSpawn is a world-owned destructible wall from (X, Y) to
// (X+DX, Y+DY).
type ExplodeWallSpawn struct {
	X, Y   float64
	DX, DY float64
	Health int // 0 = default
}
