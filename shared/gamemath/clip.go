package gamemath

import "math"

// ClipLimits bounds the region an observer receives snapshot items for.
type ClipLimits struct {
	HalfWidth  float64
	HalfHeight float64
	Radius     float64
}

// DefaultClipLimits matches a 1920x1080-ish view with some slack.
var DefaultClipLimits = ClipLimits{HalfWidth: 1000, HalfHeight: 800, Radius: 1100}

// NetworkClipped reports whether pos is outside the region visible from view.
func NetworkClipped(view, pos Vec2, limits ClipLimits) bool {
	dx := view.X - pos.X
	dy := view.Y - pos.Y
	if math.Abs(dx) > limits.HalfWidth || math.Abs(dy) > limits.HalfHeight {
		return true
	}
	return Distance(view, pos) > limits.Radius
}
