package geometry

import "math"

// ClosestPointOnSegment projects p onto the segment [s1, s2] in the local
// tangent plane and returns the projected point pushed offsetMeters further
// away from p (beyond the wall), together with the distance in meters from p
// to the segment.
//
// The projection parameter is clamped to [0, 1]. A zero-length segment clamps
// to s1. When p lies on the segment there is no direction to push along, so
// the unshifted point is returned.
func ClosestPointOnSegment(s1, s2, p Point, offsetMeters float64) (Point, float64) {
	x1, y1 := project(s1)
	x2, y2 := project(s2)
	x3, y3 := project(p)

	dx := x2 - x1
	dy := y2 - y1

	t := -1.0
	if lenSq := dx*dx + dy*dy; lenSq != 0 {
		t = ((x3-x1)*dx + (y3-y1)*dy) / lenSq
	}

	var x4, y4 float64
	switch {
	case t < 0:
		x4, y4 = x1, y1
	case t > 1:
		x4, y4 = x2, y2
	default:
		x4 = x1 + t*dx
		y4 = y1 + t*dy
	}

	vx := x4 - x3
	vy := y4 - y3
	distance := EarthRadiusMeters * math.Hypot(vx, vy)

	if distance > 0 {
		scale := 1 + offsetMeters/distance
		x4 = x3 + vx*scale
		y4 = y3 + vy*scale
	}

	return unproject(x4, y4), distance
}
