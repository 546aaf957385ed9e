package netcomponents

import "github.com/yohamta/donburi"

type NetCharacterData struct {
	ClientID  int
	Name      string
	Direction int // -1 left, 1 right
	Health    int
	Armor     int
	Score     int
	Alive     bool
	LastInput uint32 // Last input sequence processed by the server
}

var NetCharacter = donburi.NewComponentType[NetCharacterData]()
