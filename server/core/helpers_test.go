package core

import (
	"testing"

	"github.com/yohamta/donburi"
	"go.uber.org/zap"

	cfg "github.com/automoto/bolt-arena/config"
	"github.com/automoto/bolt-arena/shared/leveldata"
	"github.com/automoto/bolt-arena/shared/netconfig"
)

const tile = 32

// testLevelData is a 20x15 tile box: a floor on row 14, a wall on column 0
// and a pillar on column 15 from row 8 down to the floor.
func testLevelData() *leveldata.LevelData {
	d := &leveldata.LevelData{
		MapWidth:   20 * tile,
		MapHeight:  15 * tile,
		TileWidth:  tile,
		TileHeight: tile,
		SpawnPoints: []leveldata.SpawnPoint{
			{X: 100, Y: 434, Index: 0},
			{X: 300, Y: 434, Index: 1},
		},
		Teleporters: []leveldata.Teleporter{
			{ID: 1, Target: 2, X: 200, Y: 100},
			{ID: 2, Target: leveldata.NoTeleporterTarget, X: 400, Y: 100},
			{ID: 3, Target: leveldata.NoTeleporterTarget, X: 300, Y: 200},
		},
	}
	solid := func(col, row int) {
		d.SolidRects = append(d.SolidRects, leveldata.SolidRect{
			X: float64(col * tile), Y: float64(row * tile), W: tile, H: tile,
		})
	}
	for col := 0; col < 20; col++ {
		solid(col, 14)
	}
	for row := 0; row < 14; row++ {
		solid(0, row)
	}
	for row := 8; row < 14; row++ {
		solid(15, row)
	}
	return d
}

func testLevel(t *testing.T) *ServerLevel {
	t.Helper()
	return NewServerLevel("test", testLevelData(), cfg.Level.ClipMargin, zap.NewNop())
}

// modSet is a fixed set of active modifiers.
type modSet map[netconfig.Modifier]bool

func (m modSet) IsActive(mod netconfig.Modifier) bool { return m[mod] }

// recorder collects everything the arena broadcasts.
type recorder struct {
	msgs []any
}

func (r *recorder) broadcast(msg any) { r.msgs = append(r.msgs, msg) }

func collect[T any](r *recorder) []T {
	var out []T
	for _, m := range r.msgs {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func newTestArena(t *testing.T, mods modSet) (*Arena, *recorder) {
	t.Helper()
	t.Cleanup(cfg.Defaults)
	if mods == nil {
		mods = modSet{}
	}
	rec := &recorder{}
	a := NewArena(donburi.NewWorld(), testLevel(t), ArenaOptions{
		Modifiers: mods,
		Broadcast: rec.broadcast,
		TickRate:  cfg.Server.TickRate,
		Logger:    zap.NewNop(),
	})
	return a, rec
}

func mustAddCharacter(t *testing.T, a *Arena, client netconfig.ClientID) *Character {
	t.Helper()
	c, err := a.AddCharacter(client, "p")
	if err != nil {
		t.Fatalf("AddCharacter(%d) error = %v", client, err)
	}
	return c
}

// runTicks advances the arena up to n ticks, stopping early once done
// reports true. It returns the number of ticks run.
func runTicks(a *Arena, n int, done func() bool) int {
	for i := 1; i <= n; i++ {
		a.Tick(a.tick + 1)
		if done != nil && done() {
			return i
		}
	}
	return n
}
