package network

import (
	"math"
	"slices"

	"github.com/leap-fish/necs/esync"

	"github.com/automoto/bolt-arena/shared/netcomponents"
	"github.com/automoto/bolt-arena/shared/netconfig"
)

// CharacterView is what a client knows about one replicated character.
type CharacterView struct {
	NetworkID esync.NetworkId
	ClientID  netconfig.ClientID
	Name      string
	X, Y      float64
	Health    int
	Alive     bool
}

// Roster tracks the replicated characters from world snapshots.
type Roster struct {
	views map[esync.NetworkId]CharacterView
	seen  map[esync.NetworkId]bool
}

func NewRoster() *Roster {
	return &Roster{
		views: make(map[esync.NetworkId]CharacterView),
		seen:  make(map[esync.NetworkId]bool),
	}
}

// Apply replaces the roster with the characters in snapshot. Components that
// fail to decode are skipped.
func (r *Roster) Apply(snapshot esync.WorldSnapshot) {
	clear(r.seen)
	for _, ent := range snapshot {
		var comps []any
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				continue
			}
			comps = append(comps, instance)
		}
		r.applyEntity(ent.Id, comps)
	}
	for id := range r.views {
		if !r.seen[id] {
			delete(r.views, id)
		}
	}
}

func (r *Roster) applyEntity(id esync.NetworkId, comps []any) {
	view, known := r.views[id]
	view.NetworkID = id
	isCharacter := known
	for _, data := range comps {
		switch v := data.(type) {
		case netcomponents.NetPositionData:
			view.X, view.Y = v.X, v.Y
		case netcomponents.NetCharacterData:
			view.ClientID = netconfig.ClientID(v.ClientID)
			view.Name = v.Name
			view.Health = v.Health
			view.Alive = v.Alive
			isCharacter = true
		}
	}
	if !isCharacter {
		return
	}
	r.views[id] = view
	r.seen[id] = true
}

// Get returns the view of the character replicated as id.
func (r *Roster) Get(id esync.NetworkId) (CharacterView, bool) {
	v, ok := r.views[id]
	return v, ok
}

// Characters returns every known character ordered by ClientID.
func (r *Roster) Characters() []CharacterView {
	out := make([]CharacterView, 0, len(r.views))
	for _, v := range r.views {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b CharacterView) int { return int(a.ClientID) - int(b.ClientID) })
	return out
}

// Nearest returns the closest living character to (x, y) other than self.
func (r *Roster) Nearest(self esync.NetworkId, x, y float64) (CharacterView, bool) {
	var (
		best     CharacterView
		found    bool
		bestDist = math.Inf(1)
	)
	for _, v := range r.Characters() {
		if v.NetworkID == self || !v.Alive {
			continue
		}
		if d := math.Hypot(v.X-x, v.Y-y); d < bestDist {
			best, found, bestDist = v, true, d
		}
	}
	return best, found
}
