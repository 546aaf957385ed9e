package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// File mirrors the on-disk TOML layout. Every section is optional; missing
// keys keep their current value.
type File struct {
	Server    ServerConfig    `toml:"server"`
	Bolt      BoltConfig      `toml:"bolt"`
	Character CharacterConfig `toml:"character"`
	Turret    TurretConfig    `toml:"turret"`
	Wall      WallConfig      `toml:"wall"`
	Explosion ExplosionConfig `toml:"explosion"`
	Events    EventsConfig    `toml:"events"`
	View      ViewConfig      `toml:"view"`
	Level     LevelConfig     `toml:"level"`
}

type errUnknownConfig []string

func (e errUnknownConfig) Error() string {
	return "unknown config keys: [" + strings.Join(e, ", ") + "]"
}

// Load decodes a TOML file over the current configuration.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := Decode(string(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Decode applies TOML text over the current configuration. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func Decode(data string) error {
	f := current()
	meta, err := toml.Decode(data, &f)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var err errUnknownConfig
		for _, key := range undecoded {
			err = append(err, key.String())
		}
		return err
	}
	if err := f.validate(); err != nil {
		return err
	}
	apply(f)
	return nil
}

// LoadEnv reads optional .env files and applies BOLT_* environment overrides.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env: %w", err)
	}

	if v := os.Getenv("BOLT_SERVER_NAME"); v != "" {
		Server.Name = v
	}
	if v := os.Getenv("BOLT_SERVER_PORT"); v != "" {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("BOLT_SERVER_PORT: %w", err)
		}
		Server.Port = uint(port)
	}
	if v := os.Getenv("BOLT_MASTER_URL"); v != "" {
		Server.MasterURL = v
	}
	if v := os.Getenv("BOLT_SERVER_ADDRESS"); v != "" {
		Server.Address = v
	}
	if v := os.Getenv("BOLT_REGION"); v != "" {
		Server.Region = v
	}
	if v := os.Getenv("BOLT_LEVEL"); v != "" {
		Level.Name = v
	}
	return nil
}

func current() File {
	events := Events
	events.Pool = slices.Clone(Events.Pool)
	return File{
		Server:    Server,
		Bolt:      Bolt,
		Character: Character,
		Turret:    Turret,
		Wall:      Wall,
		Explosion: Explosion,
		Events:    events,
		View:      View,
		Level:     Level,
	}
}

func apply(f File) {
	Server = f.Server
	Bolt = f.Bolt
	Character = f.Character
	Turret = f.Turret
	Wall = f.Wall
	Explosion = f.Explosion
	Events = f.Events
	View = f.View
	Level = f.Level
}

func (f File) validate() error {
	if f.Server.TickRate <= 0 {
		return fmt.Errorf("server.tick-rate must be positive, got %d", f.Server.TickRate)
	}
	if f.Bolt.BounceNum < 0 {
		return fmt.Errorf("bolt.bounce-num must not be negative, got %d", f.Bolt.BounceNum)
	}
	if f.Bolt.StartVelocity <= 0 {
		return fmt.Errorf("bolt.start-velocity must be positive, got %v", f.Bolt.StartVelocity)
	}
	if f.Events.IdleChance < 0 || f.Events.IdleChance > 1 {
		return fmt.Errorf("events.idle-chance must be within [0, 1], got %v", f.Events.IdleChance)
	}
	return nil
}
