package netcomponents

import (
	"github.com/automoto/bolt-arena/shared/gamemath"
	"github.com/yohamta/donburi"
)

// NetPositionData is a character's replicated center position.
type NetPositionData struct {
	X, Y float64
}

func (p NetPositionData) Vec() gamemath.Vec2 { return gamemath.V(p.X, p.Y) }

var NetPosition = donburi.NewComponentType[NetPositionData]()

// LerpNetPosition interpolates between two positions
func LerpNetPosition(from, to NetPositionData, t float64) *NetPositionData {
	p := gamemath.Mix(from.Vec(), to.Vec(), t)
	return &NetPositionData{X: p.X, Y: p.Y}
}

type NetVelocityData struct {
	SpeedX, SpeedY float64
}

var NetVelocity = donburi.NewComponentType[NetVelocityData]()

// LerpNetVelocity interpolates between two velocities
func LerpNetVelocity(from, to NetVelocityData, t float64) *NetVelocityData {
	return &NetVelocityData{
		SpeedX: from.SpeedX + (to.SpeedX-from.SpeedX)*t,
		SpeedY: from.SpeedY + (to.SpeedY-from.SpeedY)*t,
	}
}
