package car

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/convoy/internal/physics"
)

const (
	playerAcc     = 0.008
	autonomousAcc = 0.005
)

var params = Params{BrakeRate: 0.01, DragCoefficient: 200, TurnRate: 0.015}

func TestIntegrateAcceleratesPlayerFasterThanFollower(t *testing.T) {
	player := Integrate(*NewPlayer(physics.Pose{}, playerAcc), Control{Accelerate: true}, params)
	follower := Integrate(*NewFollower(1, physics.Pose{}, autonomousAcc, PlayerID), Control{Accelerate: true}, params)

	assert.Equal(t, playerAcc, player.Velocity)
	assert.Equal(t, autonomousAcc, follower.Velocity)
}

func TestIntegrateBrakeOnlyWhileMovingForward(t *testing.T) {
	t.Run("moving forward", func(t *testing.T) {
		c := Car{Velocity: 1, Throttle: playerAcc}
		got := Integrate(c, Control{Brake: true}, params)
		assert.InDelta(t, -0.01-1.0/200, got.Acceleration, 1e-15)
		assert.Less(t, got.Velocity, 1.0)
	})

	t.Run("stationary", func(t *testing.T) {
		got := Integrate(Car{Throttle: playerAcc}, Control{Brake: true}, params)
		assert.Equal(t, 0.0, got.Acceleration)
		assert.Equal(t, 0.0, got.Velocity)
	})

	t.Run("reversing", func(t *testing.T) {
		got := Integrate(Car{Velocity: -0.5}, Control{Brake: true}, params)
		assert.InDelta(t, 0.5/200, got.Acceleration, 1e-15, "only drag applies")
	})

	t.Run("brake overrides throttle", func(t *testing.T) {
		got := Integrate(Car{Velocity: 1, Throttle: playerAcc}, Control{Accelerate: true, Brake: true}, params)
		assert.InDelta(t, -0.01-1.0/200, got.Acceleration, 1e-15)
	})
}

func TestIntegrateSteering(t *testing.T) {
	base := Car{Velocity: 1, Pose: physics.Pose{Heading: 0}}

	right := Integrate(base, Control{SteerRight: true}, params)
	left := Integrate(base, Control{SteerLeft: true}, params)
	both := Integrate(base, Control{SteerLeft: true, SteerRight: true}, params)

	assert.Greater(t, right.Pose.Heading, 0.0)
	assert.Less(t, left.Pose.Heading, 0.0)
	assert.Equal(t, 0.0, both.Pose.Heading)
	assert.InDelta(t, -left.Pose.Heading, right.Pose.Heading, 1e-15)
}

func TestIntegrateCannotTurnWhileStationary(t *testing.T) {
	c := Car{Pose: physics.Pose{Heading: 1.2}}
	got := Integrate(c, Control{SteerRight: true}, params)
	assert.Equal(t, 1.2, got.Pose.Heading)
	assert.Equal(t, physics.Pose{Heading: 1.2}, got.Pose)
}

func TestIntegrateMovesAlongHeading(t *testing.T) {
	up := Integrate(Car{Velocity: 2}, Control{}, params)
	assert.InDelta(t, 0.0, up.Pose.X, 1e-12)
	assert.Less(t, up.Pose.Y, 0.0, "heading 0 faces -Y")

	east := Integrate(Car{Velocity: 2, Pose: physics.Pose{Heading: math.Pi / 2}}, Control{}, params)
	assert.Greater(t, east.Pose.X, 0.0)
	assert.InDelta(t, 0.0, east.Pose.Y, 1e-12)
}

func TestIntegrateWrapsHeading(t *testing.T) {
	c := Car{Velocity: 10, Pose: physics.Pose{Heading: math.Pi - 0.01}}
	got := Integrate(c, Control{SteerRight: true}, params)
	assert.Less(t, got.Pose.Heading, 0.0)
	assert.Greater(t, got.Pose.Heading, -math.Pi)
}

func TestIntegrateIsDeterministic(t *testing.T) {
	c := Car{
		ID:       3,
		Kind:     AutonomousControlled,
		Pose:     physics.Pose{X: 12.5, Y: -7.25, Heading: 2.9},
		Velocity: 0.731,
		Throttle: autonomousAcc,
	}
	ctl := Control{Accelerate: true, SteerLeft: true}

	a := Integrate(c, ctl, params)
	b := Integrate(c, ctl, params)
	assert.Equal(t, a, b)

	stepped := c
	stepped.Step(ctl, params)
	assert.Equal(t, a, stepped)
}

func TestPlayerStraightLineApproachesSteadyState(t *testing.T) {
	player := NewPlayer(physics.Pose{X: 400, Y: 400, Heading: math.Pi / 2}, playerAcc)
	steady := SteadyStateVelocity(playerAcc, params)
	require.InDelta(t, 1.6, steady, 1e-12)

	prev := player.Velocity
	for range 50 {
		player.Step(Control{Accelerate: true}, params)

		assert.Equal(t, math.Pi/2, player.Pose.Heading)
		assert.Greater(t, player.Velocity, prev)
		assert.Less(t, player.Velocity, steady)
		prev = player.Velocity
	}

	// v_n = a·D·(1 - (1 - 1/D)^n)
	want := steady * (1 - math.Pow(1-1/params.DragCoefficient, 50))
	assert.InDelta(t, want, player.Velocity, 1e-9)
	assert.InDelta(t, 400.0, player.Pose.Y, 1e-9)
	assert.Greater(t, player.Pose.X, 400.0)
}

func TestDragSlowsCoastingCar(t *testing.T) {
	c := Car{Velocity: 1}
	for range 10 {
		c.Step(Control{}, params)
	}
	assert.InDelta(t, math.Pow(1-1/params.DragCoefficient, 10), c.Velocity, 1e-12)
}
