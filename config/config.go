package config

import "time"

// Duration wraps time.Duration so TOML files can use "800ms" style values.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return
}

// ServerConfig contains process-level settings for the dedicated server
type ServerConfig struct {
	Name       string `toml:"name"`
	Port       uint   `toml:"port"`
	TickRate   int    `toml:"tick-rate"` // simulation steps per second
	MaxPlayers int    `toml:"max-players"`
	Version    string `toml:"version"` // required client version, empty = accept any

	// Master server registration (empty MasterURL disables it)
	MasterURL string `toml:"master-url"`
	Address   string `toml:"address"` // public address advertised to the master
	Region    string `toml:"region"`
}

// BoltConfig contains the tuning of the bouncing energy bolt
type BoltConfig struct {
	Damage      int     `toml:"damage"`
	BounceCost  float64 `toml:"bounce-cost"` // energy removed per reflection
	BounceNum   int     `toml:"bounce-num"`  // reflections allowed before the bolt dies
	StartEnergy float64 `toml:"start-energy"`

	// Kinematics
	StartVelocity    float64 `toml:"start-velocity"`
	Acceleration     float64 `toml:"acceleration"`      // velocity gained per tick
	SlowAcceleration float64 `toml:"slow-acceleration"` // velocity gained per tick while "slow" is active

	// Collision
	HitRadius        float64 `toml:"hit-radius"`        // added to target proximity radius
	TeleporterRadius float64 `toml:"teleporter-radius"` // teleporter capture radius
	TeleportLead     float64 `toml:"teleport-lead"`     // distance past the exit teleporter
	ProbeLength      float64 `toml:"probe-length"`      // probe used to find the reflected direction
	Elasticity       float64 `toml:"elasticity"`

	// Firing
	FireDelay   Duration `toml:"fire-delay"`
	SpawnOffset float64  `toml:"spawn-offset"` // fraction of the character radius ahead of center
}

// CharacterConfig contains player character configuration values
type CharacterConfig struct {
	Health          int     `toml:"health"`
	Armor           int     `toml:"armor"`
	ProximityRadius float64 `toml:"proximity-radius"`
	RespawnDelay    int     `toml:"respawn-delay"` // ticks

	// Physics
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	Gravity      float64 `toml:"gravity"`
	JumpSpeed    float64 `toml:"jump-speed"`
	MaxSpeed     float64 `toml:"max-speed"`
	Acceleration float64 `toml:"acceleration"`
	Friction     float64 `toml:"friction"`
	MaxFallSpeed float64 `toml:"max-fall-speed"`
}

// TurretConfig contains buildable turret configuration
type TurretConfig struct {
	Health       int     `toml:"health"`
	Radius       float64 `toml:"radius"`
	MaxPerPlayer int     `toml:"max-per-player"`

	// Targeting
	Range        float64 `toml:"range"`
	FireInterval int     `toml:"fire-interval"` // ticks between shots
}

// WallConfig contains destructible wall configuration
type WallConfig struct {
	Health       int     `toml:"health"`
	MaxLength    float64 `toml:"max-length"`
	MaxPerPlayer int     `toml:"max-per-player"`
}

// ExplosionConfig contains radial damage of damaging explosions
type ExplosionConfig struct {
	Radius      float64 `toml:"radius"`
	InnerRadius float64 `toml:"inner-radius"`
	MaxDamage   int     `toml:"max-damage"`
}

// EventsConfig contains the modifier rotation settings
type EventsConfig struct {
	Enabled    bool     `toml:"enabled"`
	Interval   Duration `toml:"interval"`
	Pool       []string `toml:"pool"`        // modifier names eligible for rotation
	IdleChance float64  `toml:"idle-chance"` // chance a rotation picks no modifier
	Seed       int64    `toml:"seed"`        // 0 = seeded from the clock
}

// ViewConfig bounds what each client receives in its snapshot
type ViewConfig struct {
	ClipHalfWidth  float64 `toml:"clip-half-width"`
	ClipHalfHeight float64 `toml:"clip-half-height"`
	ClipRadius     float64 `toml:"clip-radius"`
}

// LevelConfig selects and bounds the arena map
type LevelConfig struct {
	Dir        string  `toml:"dir"`
	Name       string  `toml:"name"`
	ClipMargin float64 `toml:"clip-margin"` // tiles outside the map still inside the simulation
}

// Global configuration instances
var Server ServerConfig
var Bolt BoltConfig
var Character CharacterConfig
var Turret TurretConfig
var Wall WallConfig
var Explosion ExplosionConfig
var Events EventsConfig
var View ViewConfig
var Level LevelConfig

func init() {
	Defaults()
}

// Defaults resets every global configuration instance to its built-in values.
func Defaults() {
	Server = ServerConfig{
		Name:       "Bolt Arena",
		Port:       7373,
		TickRate:   50,
		MaxPlayers: 16,
		Region:     "local",
	}

	Bolt = BoltConfig{
		Damage:      5,
		BounceCost:  0,
		BounceNum:   1,
		StartEnergy: 800,

		StartVelocity:    1,
		Acceleration:     0.5,
		SlowAcceleration: 0.01,

		HitRadius:        0,
		TeleporterRadius: 12,
		TeleportLead:     20,
		ProbeLength:      4,
		Elasticity:       1,

		FireDelay:   Duration{800 * time.Millisecond},
		SpawnOffset: 0.75,
	}

	Character = CharacterConfig{
		Health:          10,
		Armor:           0,
		ProximityRadius: 28,
		RespawnDelay:    25,

		Width:        28,
		Height:       28,
		Gravity:      0.75,
		JumpSpeed:    15.0,
		MaxSpeed:     6.0,
		Acceleration: 0.75,
		Friction:     0.5,
		MaxFallSpeed: 10.0,
	}

	Turret = TurretConfig{
		Health:       10,
		Radius:       16,
		MaxPerPlayer: 2,

		Range:        400,
		FireInterval: 50,
	}

	Wall = WallConfig{
		Health:       5,
		MaxLength:    300,
		MaxPerPlayer: 2,
	}

	Explosion = ExplosionConfig{
		Radius:      135,
		InnerRadius: 48,
		MaxDamage:   6,
	}

	Events = EventsConfig{
		Enabled:    true,
		Interval:   Duration{30 * time.Second},
		Pool:       []string{"piercing", "wallshot", "glue", "slow"},
		IdleChance: 0.25,
	}

	View = ViewConfig{
		ClipHalfWidth:  1000,
		ClipHalfHeight: 800,
		ClipRadius:     1100,
	}

	Level = LevelConfig{
		Dir:        "assets",
		Name:       "arena",
		ClipMargin: 200,
	}
}
