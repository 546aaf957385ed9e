package tags

import "github.com/yohamta/donburi"

var (
	Character   = donburi.NewTag().SetName("Character")
	Turret      = donburi.NewTag().SetName("Turret")
	ExplodeWall = donburi.NewTag().SetName("ExplodeWall")
	Teleporter  = donburi.NewTag().SetName("Teleporter")
	Bolt        = donburi.NewTag().SetName("Bolt")
)

// Resolv tags for physics collision
const (
	ResolvSolid     = "solid"
	ResolvCharacter = "character"
)
