// Package car holds car state, the kinematics integrator and the pursuit
// controller that drives autonomous followers.
package car

import (
	"fmt"

	"github.com/tomz197/convoy/internal/physics"
)

// ID identifies a car within a simulation roster.
type ID int

const (
	PlayerID ID = 0  // The player car is always first in the roster
	NoTarget ID = -1 // Target of cars that follow nobody
)

// Kind says who produces a car's control decisions.
type Kind int

const (
	PlayerControlled     Kind = iota // Keyboard input
	AutonomousControlled             // Pursuit controller
)

func (k Kind) String() string {
	switch k {
	case PlayerControlled:
		return "player"
	case AutonomousControlled:
		return "autonomous"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Car is one simulated vehicle.
type Car struct {
	ID   ID
	Kind Kind
	Pose physics.Pose

	Velocity     float64 // Signed, forward positive
	Acceleration float64 // Recomputed every step
	Throttle     float64 // Acceleration applied while accelerating, fixed at creation

	Target ID // Car this one pursues, NoTarget for the player
}

// NewPlayer creates the player car.
func NewPlayer(pose physics.Pose, throttle float64) *Car {
	return &Car{
		ID:       PlayerID,
		Kind:     PlayerControlled,
		Pose:     pose,
		Throttle: throttle,
		Target:   NoTarget,
	}
}

// NewFollower creates an autonomous car that pursues target.
func NewFollower(id ID, pose physics.Pose, throttle float64, target ID) *Car {
	return &Car{
		ID:       id,
		Kind:     AutonomousControlled,
		Pose:     pose,
		Throttle: throttle,
		Target:   target,
	}
}

// Box returns the car's bounding box at its current pose.
func (c *Car) Box(d physics.Dimensions) physics.BoundingBox {
	return physics.NewBoundingBox(c.Pose, d)
}
