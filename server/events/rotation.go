// Package events runs the arena-wide modifier rotation. Every interval the
// rotation picks one modifier from its pool, or none, and the bolt simulator
// reads the current set through IsActive.
package events

import (
	"math/rand"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/automoto/bolt-arena/shared/netconfig"
)

// Settings configures a Rotation.
type Settings struct {
	Enabled bool
	// Interval is the number of ticks between two picks.
	Interval   int
	Pool       []netconfig.Modifier
	IdleChance float64
	Seed       int64
}

// Rotation is the modifier service. It is not safe for concurrent use; the
// game loop owns it.
type Rotation struct {
	settings Settings
	rng      *rand.Rand
	logger   *zap.Logger

	active   [netconfig.ModifierCount]bool
	nextTick int
	forced   bool
}

// NewRotation creates a rotation with no active modifier. The first pick
// happens Interval ticks after the first call to Tick.
func NewRotation(settings Settings, logger *zap.Logger) *Rotation {
	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if settings.Interval < 1 {
		settings.Interval = 1
	}
	return &Rotation{
		settings: settings,
		rng:      rand.New(rand.NewSource(seed)),
		logger:   logger.Named("events"),
		nextTick: -1,
	}
}

// IntervalTicks converts a wall-clock interval to ticks at tickRate.
func IntervalTicks(interval time.Duration, tickRate int) int {
	n := int(interval.Seconds() * float64(tickRate))
	return max(n, 1)
}

// IsActive reports whether mod is currently in effect.
func (r *Rotation) IsActive(mod netconfig.Modifier) bool {
	if mod < 0 || mod >= netconfig.ModifierCount {
		return false
	}
	return r.active[mod]
}

// Active lists the active modifiers in enum order.
func (r *Rotation) Active() []netconfig.Modifier {
	var out []netconfig.Modifier
	for m, on := range r.active {
		if on {
			out = append(out, netconfig.Modifier(m))
		}
	}
	return out
}

// Tick advances the rotation and reports whether the active set changed.
// Forced modifiers stay until Clear.
func (r *Rotation) Tick(tick int) bool {
	if !r.settings.Enabled || r.forced {
		return false
	}
	if r.nextTick < 0 {
		r.nextTick = tick + r.settings.Interval
		return false
	}
	if tick < r.nextTick {
		return false
	}
	r.nextTick = tick + r.settings.Interval

	before := r.active
	r.active = [netconfig.ModifierCount]bool{}
	if len(r.settings.Pool) > 0 && r.rng.Float64() >= r.settings.IdleChance {
		r.active[r.settings.Pool[r.rng.Intn(len(r.settings.Pool))]] = true
	}
	if before == r.active {
		return false
	}
	r.logger.Info("modifier rotation", zap.Int("tick", tick), zap.Stringers("active", r.Active()))
	return true
}

// Force replaces the active set with mods and pauses the rotation.
func (r *Rotation) Force(mods ...netconfig.Modifier) {
	r.active = [netconfig.ModifierCount]bool{}
	for _, m := range mods {
		if m >= 0 && m < netconfig.ModifierCount {
			r.active[m] = true
		}
	}
	r.forced = true
	r.logger.Info("modifiers forced", zap.Stringers("active", r.Active()))
}

// Clear drops every active modifier and resumes the rotation.
func (r *Rotation) Clear() {
	r.active = [netconfig.ModifierCount]bool{}
	r.forced = false
	r.nextTick = -1
}

// ParsePool maps configured modifier names to modifiers, dropping duplicates.
func ParsePool(names []string) ([]netconfig.Modifier, error) {
	pool := make([]netconfig.Modifier, 0, len(names))
	for _, name := range names {
		m, err := netconfig.ParseModifier(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(pool, m) {
			pool = append(pool, m)
		}
	}
	return pool, nil
}
