package leveldata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
)

// LoadLevelData parses a TMX file. It takes an fs.FS so callers can pass
// embed.FS or os.DirFS.
func LoadLevelData(fsys fs.FS, tmxPath string) (*LevelData, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	data := &LevelData{
		MapWidth:   levelMap.Width * levelMap.TileWidth,
		MapHeight:  levelMap.Height * levelMap.TileHeight,
		TileWidth:  levelMap.TileWidth,
		TileHeight: levelMap.TileHeight,
	}

	tileW := float64(levelMap.TileWidth)
	tileH := float64(levelMap.TileHeight)
	for _, layer := range levelMap.Layers {
		if layer.Name != CollisionLayer {
			continue
		}
		for y := 0; y < levelMap.Height; y++ {
			for x := 0; x < levelMap.Width; x++ {
				tile := layer.Tiles[y*levelMap.Width+x]
				if tile.IsNil() {
					continue
				}
				data.SolidRects = append(data.SolidRects, SolidRect{
					X: float64(x) * tileW,
					Y: float64(y) * tileH,
					W: tileW,
					H: tileH,
				})
			}
		}
		break
	}

	for _, og := range levelMap.ObjectGroups {
		for _, o := range og.Objects {
			x, y := o.X+o.Width/2, o.Y+o.Height/2
			switch og.Name {
			case PlayerSpawnGroup:
				data.SpawnPoints = append(data.SpawnPoints, SpawnPoint{
					X:     x,
					Y:     y,
					Index: o.Properties.GetInt("spawnIndex"),
				})
			case TeleporterGroup:
				data.Teleporters = append(data.Teleporters, Teleporter{
					ID:     o.Properties.GetInt("id"),
					Target: o.Properties.GetInt("target"),
					X:      x,
					Y:      y,
				})
			case TurretGroup:
				data.Turrets = append(data.Turrets, TurretSpawn{
					X:      x,
					Y:      y,
					Health: o.Properties.GetInt("health"),
				})
			case ExplodeWallGroup:
				data.ExplodeWalls = append(data.ExplodeWalls, ExplodeWallSpawn{
					X:      o.X,
					Y:      o.Y,
					DX:     float64(o.Properties.GetInt("dx")),
					DY:     float64(o.Properties.GetInt("dy")),
					Health: o.Properties.GetInt("health"),
				})
			}
		}
	}

	// Sort spawns by index, then left-to-right, for consistent assignment
	sort.SliceStable(data.SpawnPoints, func(i, j int) bool {
		a, b := data.SpawnPoints[i], data.SpawnPoints[j]
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.X < b.X
	})

	if err := data.validateTeleporters(); err != nil {
		return nil, fmt.Errorf("level %s: %w", tmxPath, err)
	}

	return data, nil
}

func (d *LevelData) validateTeleporters() error {
	ids := make(map[int]bool, len(d.Teleporters))
	for _, t := range d.Teleporters {
		if t.ID == NoTeleporterTarget {
			return fmt.Errorf("teleporter at (%.0f, %.0f) has no id", t.X, t.Y)
		}
		if ids[t.ID] {
			return fmt.Errorf("duplicate teleporter id %d", t.ID)
		}
		ids[t.ID] = true
	}
	for _, t := range d.Teleporters {
		if t.Target != NoTeleporterTarget && !ids[t.Target] {
			return fmt.Errorf("teleporter %d targets unknown teleporter %d", t.ID, t.Target)
		}
	}
	return nil
}

// LoadAllLevels discovers all .tmx files in levelsDir within fsys, loads each
// one, and returns a map keyed by stem name plus a sorted list of names.
func LoadAllLevels(fsys fs.FS, levelsDir string) (map[string]*LevelData, []string, error) {
	pattern := levelsDir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", levelsDir)
	}

	levels := make(map[string]*LevelData, len(matches))
	names := make([]string, 0, len(matches))

	for _, path := range matches {
		data, err := LoadLevelData(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		stem := strings.TrimSuffix(filepath.Base(path), ".tmx")
		levels[stem] = data
		names = append(names, stem)
	}

	sort.Strings(names)
	return levels, names, nil
}
