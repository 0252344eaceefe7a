// Package physics provides the geometry, bounding box and collision primitives
// used by the simulation.
//
// Headings follow the screen convention used throughout the simulation:
// heading 0 faces up (negative Y) and positive headings turn clockwise.
package physics

import (
	"math"

	"github.com/golang/geo/r2"
)

// Point is a position or offset in world space.
type Point = r2.Point

// Pose is a car's position and heading in radians, normalized to (-π, π].
type Pose struct {
	X, Y    float64
	Heading float64
}

// Point returns the pose position.
func (p Pose) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

// Distance calculates the Euclidean distance between two points.
func Distance(p1, p2 Point) float64 {
	return p1.Sub(p2).Norm()
}

// RotateProject projects a local-frame offset (x, y) onto one world axis:
// x·cos(heading) + y·sin(heading). Callers swap and negate arguments to get
// the other axis.
func RotateProject(x, y, heading float64) float64 {
	return x*math.Cos(heading) + y*math.Sin(heading)
}

// NormalizeAngle wraps angle into (-π, π] with at most one full-turn correction.
// Inputs further than one extra turn out of range stay out of range.
func NormalizeAngle(angle float64) float64 {
	if angle > math.Pi {
		return angle - 2*math.Pi
	}
	if angle <= -math.Pi {
		return angle + 2*math.Pi
	}
	return angle
}
