package core

import (
	cfg "github.com/automoto/bolt-arena/config"
	"github.com/automoto/bolt-arena/server/bolt"
	"github.com/automoto/bolt-arena/shared/gamemath"
)

// IDPool hands out snapshot ids. A released id only becomes available again
// after delay ticks, and ids are reused oldest first.
type IDPool struct {
	delay int
	next  uint32
	free  []releasedID
}

type releasedID struct {
	id   uint32
	tick int
}

// NewIDPool creates a pool whose first id is 1.
func NewIDPool(delay int) *IDPool {
	return &IDPool{delay: delay, next: 1}
}

// Acquire returns a free id at tick.
func (p *IDPool) Acquire(tick int) uint32 {
	if len(p.free) > 0 && tick-p.free[0].tick >= p.delay {
		id := p.free[0].id
		p.free = p.free[1:]
		return id
	}
	id := p.next
	p.next++
	return id
}

// Release returns id to the pool at tick.
func (p *IDPool) Release(id uint32, tick int) {
	p.free = append(p.free, releasedID{id: id, tick: tick})
}

// InUse returns the number of ids handed out and not yet released.
func (p *IDPool) InUse() int {
	return int(p.next-1) - len(p.free)
}

// viewObserver implements bolt.Observer for a client looking at center.
type viewObserver struct {
	center gamemath.Vec2
	limits gamemath.ClipLimits
}

func (o viewObserver) Clipped(pos gamemath.Vec2) bool {
	return gamemath.NetworkClipped(o.center, pos, o.limits)
}

// ViewLimits returns the configured snapshot clipping region.
func ViewLimits() gamemath.ClipLimits {
	return gamemath.ClipLimits{
		HalfWidth:  cfg.View.ClipHalfWidth,
		HalfHeight: cfg.View.ClipHalfHeight,
		Radius:     cfg.View.ClipRadius,
	}
}

// ObserverAt returns an observer for a view centered on pos.
func ObserverAt(pos gamemath.Vec2) bolt.Observer {
	return viewObserver{center: pos, limits: ViewLimits()}
}
