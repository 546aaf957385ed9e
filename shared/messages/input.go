package messages

import "github.com/automoto/bolt-arena/shared/netconfig"

// PlayerInput is sent from client to server each frame with the player's input state.
type PlayerInput struct {
	Sequence  uint32                      // Incrementing ID for reconciliation
	Actions   map[netconfig.ActionID]bool // Which actions are currently pressed
	Direction int                         // -1 left, 0 none, 1 right
	AimX      float64                     // Aim vector relative to the character, any length
	AimY      float64
	Timestamp int64 // Client timestamp (Unix ms)
}

// NewPlayerInput creates a PlayerInput with initialized map
func NewPlayerInput(seq uint32) PlayerInput {
	return PlayerInput{
		Sequence: seq,
		Actions:  make(map[netconfig.ActionID]bool),
	}
}

// Pressed reports whether action is held in this input frame.
func (in PlayerInput) Pressed(action netconfig.ActionID) bool {
	return in.Actions[action]
}

// BuildRequest asks the server to place an owned turret or explode wall.
// Walls span from (X, Y) to (ToX, ToY); turrets ignore the second point.
type BuildRequest struct {
	Kind     netconfig.BuildKind
	X, Y     float64
	ToX, ToY float64
}
