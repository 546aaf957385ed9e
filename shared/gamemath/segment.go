package gamemath

import "math"

// SegmentIntersection intersects segment A (a1→a2) with segment B (b1→b2)
// using the two-line determinant form. Parallel or degenerate pairs (a zero
// denominator) never intersect, and the infinite-line crossing is rejected
// unless it lies inside the bounding rectangle of both segments.
func SegmentIntersection(a1, a2, b1, b2 Vec2) (Vec2, bool) {
	x1, x2, x3, x4 := a1.X, a2.X, b1.X, b2.X
	y1, y2, y3, y4 := a1.Y, a2.Y, b1.Y, b2.Y

	d := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if d == 0 {
		return Vec2{}, false
	}

	pre := x1*y2 - y1*x2
	post := x3*y4 - y3*x4
	x := (pre*(x3-x4) - (x1-x2)*post) / d
	y := (pre*(y3-y4) - (y1-y2)*post) / d

	if !within(x, x1, x2) || !within(x, x3, x4) {
		return Vec2{}, false
	}
	if !within(y, y1, y2) || !within(y, y3, y4) {
		return Vec2{}, false
	}
	return Vec2{x, y}, true
}

func within(v, a, b float64) bool {
	return v >= math.Min(a, b) && v <= math.Max(a, b)
}
