package core

import (
	"fmt"
	"math"
	"os"
	"path"

	"github.com/solarlune/resolv"
	"go.uber.org/zap"

	"github.com/automoto/bolt-arena/shared/gamemath"
	"github.com/automoto/bolt-arena/shared/leveldata"
	"github.com/automoto/bolt-arena/tags"
)

// ServerLevel holds the server's collision space and placement data for a
// level. It answers the static geometry queries of the bolt simulator.
type ServerLevel struct {
	Name      string
	Space     *resolv.Space
	Data      *leveldata.LevelData
	MapWidth  int
	MapHeight int

	tileW, tileH float64
	// clipMargin is the number of tiles outside the map that still count as
	// inside the simulation.
	clipMargin float64
}

// NewServerLevel builds a resolv.Space from parsed level data. The cell size
// matches the tile size so a cell holds at most one solid tile.
func NewServerLevel(name string, data *leveldata.LevelData, clipMargin float64, logger *zap.Logger) *ServerLevel {
	tileW, tileH := data.TileWidth, data.TileHeight
	if tileW <= 0 || tileH <= 0 {
		tileW, tileH = 32, 32
	}
	space := resolv.NewSpace(data.MapWidth, data.MapHeight, tileW, tileH)

	for _, r := range data.SolidRects {
		obj := resolv.NewObject(r.X, r.Y, r.W, r.H, tags.ResolvSolid)
		obj.SetShape(resolv.NewRectangle(0, 0, r.W, r.H))
		space.Add(obj)
	}

	logger.Info("loaded level",
		zap.String("level", name),
		zap.Int("solid_tiles", len(data.SolidRects)),
		zap.Int("spawn_points", len(data.SpawnPoints)),
		zap.Int("teleporters", len(data.Teleporters)),
		zap.Int("width", data.MapWidth),
		zap.Int("height", data.MapHeight))

	return &ServerLevel{
		Name:       name,
		Space:      space,
		Data:       data,
		MapWidth:   data.MapWidth,
		MapHeight:  data.MapHeight,
		tileW:      float64(tileW),
		tileH:      float64(tileH),
		clipMargin: clipMargin,
	}
}

// LoadServerLevel loads levels/<name>.tmx from the assets directory.
func LoadServerLevel(assetsDir, name string, clipMargin float64, logger *zap.Logger) (*ServerLevel, error) {
	data, err := leveldata.LoadLevelData(os.DirFS(assetsDir), path.Join("levels", name+".tmx"))
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", name, err)
	}
	return NewServerLevel(name, data, clipMargin, logger), nil
}

// LoadAllServerLevels loads all .tmx levels from the given assets directory,
// returning a map of ServerLevel keyed by stem name plus a sorted name list.
func LoadAllServerLevels(assetsDir string, clipMargin float64, logger *zap.Logger) (map[string]*ServerLevel, []string, error) {
	dataMap, names, err := leveldata.LoadAllLevels(os.DirFS(assetsDir), "levels")
	if err != nil {
		return nil, nil, fmt.Errorf("load all levels: %w", err)
	}

	levels := make(map[string]*ServerLevel, len(names))
	for _, name := range names {
		levels[name] = NewServerLevel(name, dataMap[name], clipMargin, logger)
	}

	return levels, names, nil
}

// CheckPoint reports whether p lies inside a solid tile. Points outside the
// map are never solid.
func (l *ServerLevel) CheckPoint(p gamemath.Vec2) bool {
	if p.X < 0 || p.Y < 0 || p.X >= float64(l.MapWidth) || p.Y >= float64(l.MapHeight) {
		return false
	}
	cell := l.Space.Cell(l.Space.WorldToSpace(p.X, p.Y))
	if cell == nil {
		return false
	}
	for _, obj := range cell.Objects {
		if obj.HasTags(tags.ResolvSolid) {
			return true
		}
	}
	return false
}

// IntersectLine samples the segment at unit steps and returns the first
// solid point and the last free point before it. Without a hit both points
// are the segment end.
func (l *ServerLevel) IntersectLine(from, to gamemath.Vec2) (gamemath.Vec2, gamemath.Vec2, bool) {
	end := int(gamemath.Distance(from, to) + 1)
	last := from
	for i := 0; i <= end; i++ {
		p := gamemath.Mix(from, to, float64(i)/float64(end))
		if l.CheckPoint(p) {
			return p, last, true
		}
		last = p
	}
	return to, to, false
}

// MovePoint moves pos by vel. When the destination is solid the point stays
// put and vel is reflected on each blocked axis, or on both when only the
// diagonal is blocked.
func (l *ServerLevel) MovePoint(pos, vel gamemath.Vec2, elasticity float64) (gamemath.Vec2, gamemath.Vec2) {
	if !l.CheckPoint(pos.Add(vel)) {
		return pos.Add(vel), vel
	}

	out := vel
	affected := 0
	if l.CheckPoint(gamemath.V(pos.X+vel.X, pos.Y)) {
		out.X = -vel.X * elasticity
		affected++
	}
	if l.CheckPoint(gamemath.V(pos.X, pos.Y+vel.Y)) {
		out.Y = -vel.Y * elasticity
		affected++
	}
	if affected == 0 {
		out = vel.Scale(-elasticity)
	}
	return pos, out
}

// Clipped reports whether pos is outside the map extended by the clip margin.
func (l *ServerLevel) Clipped(pos gamemath.Vec2) bool {
	rx := math.Floor(math.Round(pos.X) / l.tileW)
	ry := math.Floor(math.Round(pos.Y) / l.tileH)
	cols := float64(l.MapWidth) / l.tileW
	rows := float64(l.MapHeight) / l.tileH
	return rx < -l.clipMargin || rx >= cols+l.clipMargin ||
		ry < -l.clipMargin || ry >= rows+l.clipMargin
}

// SpawnPoint picks the spawn point for the n-th spawn, cycling through the
// level's list. Levels without spawns use the map center.
func (l *ServerLevel) SpawnPoint(n int) gamemath.Vec2 {
	spawns := l.Data.SpawnPoints
	if len(spawns) == 0 {
		return gamemath.V(float64(l.MapWidth)/2, float64(l.MapHeight)/2)
	}
	sp := spawns[n%len(spawns)]
	return gamemath.V(sp.X, sp.Y)
}
