package physics

import "math"

// EdgesCross tests all 16 edge pairs of two boxes for a strict crossing.
// Parallel or collinear edges never cross, so identical, nested or aligned
// end-to-end boxes can overlap without any crossing; see Collides.
func EdgesCross(a, b BoundingBox) bool {
	bEdges := b.Edges()
	for _, ea := range a.Edges() {
		for _, eb := range bEdges {
			if SegmentsIntersect(ea, eb) {
				return true
			}
		}
	}
	return false
}

// Collides reports whether two car rectangles overlap with positive area.
// Rectangles that only touch along an edge or at a corner do not collide.
func Collides(a, b BoundingBox) bool {
	return EdgesCross(a, b) || Overlaps(a, b)
}

// Overlaps is a separating axis test over the edge directions of both
// rectangles. Projections that only touch count as separated.
func Overlaps(a, b BoundingBox) bool {
	axes := [4]Point{
		a.FrontRight.Sub(a.FrontLeft),
		a.BackLeft.Sub(a.FrontLeft),
		b.FrontRight.Sub(b.FrontLeft),
		b.BackLeft.Sub(b.FrontLeft),
	}
	for _, axis := range axes {
		if axis.Norm() == 0 {
			continue
		}
		minA, maxA := project(a, axis)
		minB, maxB := project(b, axis)
		if maxA <= minB || maxB <= minA {
			return false
		}
	}
	return true
}

// project returns the extent of the box's corners along axis.
func project(b BoundingBox, axis Point) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, c := range b.Corners() {
		d := c.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
