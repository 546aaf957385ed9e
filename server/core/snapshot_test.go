package core

import (
	"testing"

	"github.com/automoto/bolt-arena/shared/gamemath"
)

func TestIDPool(t *testing.T) {
	p := NewIDPool(10)

	a, b := p.Acquire(0), p.Acquire(0)
	if a != 1 || b != 2 {
		t.Fatalf("first ids = %d, %d; want 1, 2", a, b)
	}

	p.Release(a, 5)
	p.Release(b, 6)
	if got := p.Acquire(14); got != 3 {
		t.Errorf("Acquire before delay = %d, want fresh id 3", got)
	}
	if got := p.Acquire(15); got != a {
		t.Errorf("Acquire after delay = %d, want reused %d", got, a)
	}
	if got := p.Acquire(15); got != 4 {
		t.Errorf("Acquire = %d, want 4 while %d is still cooling down", got, b)
	}
	if got := p.Acquire(16); got != b {
		t.Errorf("Acquire = %d, want reused %d", got, b)
	}
	if n := p.InUse(); n != 4 {
		t.Errorf("InUse() = %d, want 4", n)
	}
}

func TestViewObserver(t *testing.T) {
	o := ObserverAt(gamemath.V(0, 0))
	limits := ViewLimits()

	if o.Clipped(gamemath.V(limits.HalfWidth-1, 0)) {
		t.Error("point inside the view is clipped")
	}
	if !o.Clipped(gamemath.V(limits.HalfWidth+1, 0)) {
		t.Error("point right of the view is not clipped")
	}
	if !o.Clipped(gamemath.V(limits.HalfWidth-1, limits.HalfHeight-1)) {
		t.Error("corner beyond the view radius is not clipped")
	}
}
