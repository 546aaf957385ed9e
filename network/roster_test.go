package network

import (
	"testing"

	"github.com/automoto/bolt-arena/shared/netcomponents"
	"github.com/automoto/bolt-arena/shared/netconfig"
)

func character(client int, alive bool) netcomponents.NetCharacterData {
	return netcomponents.NetCharacterData{ClientID: client, Name: "p", Health: 10, Alive: alive}
}

func TestRoster_ApplyEntity(t *testing.T) {
	r := NewRoster()
	r.applyEntity(1, []any{character(3, true), netcomponents.NetPositionData{X: 10, Y: 20}})
	// Entities without character data are not characters.
	r.applyEntity(2, []any{netcomponents.NetPositionData{X: 1, Y: 1}})

	v, ok := r.Get(1)
	if !ok || v.ClientID != netconfig.ClientID(3) || v.X != 10 || v.Y != 20 || !v.Alive {
		t.Fatalf("Get(1) = %+v, %v", v, ok)
	}
	if _, ok := r.Get(2); ok {
		t.Error("position-only entity became a character")
	}

	// A later position-only update moves a known character.
	r.applyEntity(1, []any{netcomponents.NetPositionData{X: 50, Y: 20}})
	if v, _ := r.Get(1); v.X != 50 || v.Health != 10 {
		t.Errorf("after move = %+v", v)
	}
}

func TestRoster_Nearest(t *testing.T) {
	r := NewRoster()
	r.applyEntity(1, []any{character(0, true), netcomponents.NetPositionData{X: 0, Y: 0}})
	r.applyEntity(2, []any{character(1, true), netcomponents.NetPositionData{X: 300, Y: 0}})
	r.applyEntity(3, []any{character(2, true), netcomponents.NetPositionData{X: 100, Y: 0}})
	r.applyEntity(4, []any{character(3, false), netcomponents.NetPositionData{X: 10, Y: 0}})

	got, ok := r.Nearest(1, 0, 0)
	if !ok || got.NetworkID != 3 {
		t.Errorf("Nearest() = %+v, %v; want network id 3", got, ok)
	}

	chars := r.Characters()
	for i, c := range chars {
		if int(c.ClientID) != i {
			t.Errorf("Characters()[%d].ClientID = %d", i, c.ClientID)
		}
	}

	alone := NewRoster()
	alone.applyEntity(1, []any{character(0, true)})
	if _, ok := alone.Nearest(1, 0, 0); ok {
		t.Error("Nearest() found a target with nobody else around")
	}
}
