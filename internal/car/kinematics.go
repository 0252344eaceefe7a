package car

import (
	"math"

	"github.com/tomz197/convoy/internal/physics"
)

// Params are the integrator constants shared by every car.
type Params struct {
	BrakeRate       float64 // Magnitude of braking acceleration
	DragCoefficient float64 // Velocity divisor for linear drag
	TurnRate        float64 // Heading change per tick per unit of velocity
}

// Integrate advances a car by one tick and returns the new state.
// It depends only on its arguments.
//
// Braking only acts while moving forward. Steering is scaled by velocity, so a
// stationary car cannot turn and a reversing car turns the opposite way.
func Integrate(c Car, ctl Control, p Params) Car {
	c.Acceleration = 0
	if ctl.Accelerate {
		c.Acceleration = c.Throttle
	}
	if ctl.Brake && c.Velocity > 0 {
		c.Acceleration = -p.BrakeRate
	}

	c.Acceleration -= c.Velocity / p.DragCoefficient
	c.Velocity += c.Acceleration

	var turn float64
	if ctl.SteerRight {
		turn += p.TurnRate
	}
	if ctl.SteerLeft {
		turn -= p.TurnRate
	}
	c.Pose.Heading = physics.NormalizeAngle(c.Pose.Heading + turn*c.Velocity)

	// Heading 0 faces up (-Y).
	c.Pose.X += c.Velocity * math.Sin(c.Pose.Heading)
	c.Pose.Y -= c.Velocity * math.Cos(c.Pose.Heading)

	return c
}

// Step advances the car in place by one tick.
func (c *Car) Step(ctl Control, p Params) {
	*c = Integrate(*c, ctl, p)
}

// SteadyStateVelocity is the speed at which drag cancels the throttle.
func SteadyStateVelocity(throttle float64, p Params) float64 {
	return throttle * p.DragCoefficient
}
