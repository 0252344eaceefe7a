package car

import (
	"math"

	"github.com/tomz197/convoy/internal/physics"
)

// DefaultProximityThreshold is the distance under which a follower brakes.
const DefaultProximityThreshold = 100.0

// Bearing returns the signed angle from the heading of from to the direction
// of to, in (-π, π]. Negative means the target is to the left.
func Bearing(from, to physics.Pose) float64 {
	// atan2 measures from +X; heading 0 faces -Y, a quarter turn counter-clockwise.
	east := math.Atan2(to.Y-from.Y, to.X-from.X)
	north := physics.NormalizeAngle(east + math.Pi/2)
	return physics.NormalizeAngle(north - from.Heading)
}

// Decide steers a follower towards its target: brake when closer than
// threshold, accelerate otherwise, and turn towards the target's bearing.
//
// The controller keeps no memory, so a follower sitting on the threshold
// alternates between braking and accelerating.
func Decide(follower, target physics.Pose, threshold float64) Control {
	bearing := Bearing(follower, target)
	tooClose := physics.Distance(follower.Point(), target.Point()) < threshold

	return Control{
		Accelerate: !tooClose,
		Brake:      tooClose,
		SteerLeft:  bearing < 0,
		SteerRight: bearing > 0,
	}
}
