package sim

import (
	"slices"

	"github.com/samber/lo"

	"github.com/tomz197/convoy/internal/car"
	"github.com/tomz197/convoy/internal/physics"
)

// CarView is the read-only state of one car handed to renderers.
type CarView struct {
	ID       car.ID
	Kind     car.Kind
	Target   car.ID
	Pose     physics.Pose
	Velocity float64
	Box      physics.BoundingBox
}

// Snapshot is an immutable copy of the simulation after a tick.
type Snapshot struct {
	Tick            uint64
	Cars            []CarView // Index is the car ID
	Collisions      []Collision
	TotalCollisions int
}

// Snapshot copies the current state for rendering.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Tick: s.tick,
		Cars: lo.Map(s.cars, func(c *car.Car, i int) CarView {
			return CarView{
				ID:       c.ID,
				Kind:     c.Kind,
				Target:   c.Target,
				Pose:     c.Pose,
				Velocity: c.Velocity,
				Box:      s.boxes[i],
			}
		}),
		Collisions:      slices.Clone(s.collisions),
		TotalCollisions: s.totalHits,
	}
}

// Player returns the player's view.
func (sn Snapshot) Player() CarView {
	return sn.Cars[car.PlayerID]
}

// Colliding reports whether the car was part of a collision on this tick.
func (sn Snapshot) Colliding(id car.ID) bool {
	return lo.ContainsBy(sn.Collisions, func(c Collision) bool {
		return c.A == id || c.B == id
	})
}
