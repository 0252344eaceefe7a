package sim

import (
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/convoy/internal/car"
	"github.com/tomz197/convoy/internal/input"
	"github.com/tomz197/convoy/internal/physics"
)

// PlayerControl maps held input actions to the player's control decision.
func PlayerControl(a input.Actions) car.Control {
	return car.Control{
		Accelerate: a.Held(input.Up),
		Brake:      a.Held(input.Down),
		SteerLeft:  a.Held(input.Left),
		SteerRight: a.Held(input.Right),
	}
}

// Step advances the simulation by one tick and returns the collisions found.
//
// Every follower decides from the poses left by the previous tick before any
// car moves, then each car integrates and rebuilds its own box. Neither phase
// writes state another car reads, so both may run across workers.
func (s *State) Step(player car.Control) []Collision {
	s.tick++

	s.controls[car.PlayerID] = player
	s.each(func(i int) {
		c := s.cars[i]
		if c.Kind != car.AutonomousControlled {
			return
		}
		s.controls[i] = car.Decide(c.Pose, s.cars[c.Target].Pose, s.threshold)
	})

	s.each(func(i int) {
		c := s.cars[i]
		c.Step(s.controls[i], s.params)
		s.boxes[i] = c.Box(s.dims)
	})

	s.detectCollisions()
	return s.collisions
}

// each runs fn for every car index, split across the configured workers.
func (s *State) each(fn func(i int)) {
	n := len(s.cars)
	if s.workers <= 1 || n < 2 {
		for i := range n {
			fn(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	chunk := (n + s.workers - 1) / s.workers
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// detectCollisions tests every configured pair against the boxes of this tick.
func (s *State) detectCollisions() {
	var hits []Collision
	for _, p := range s.pairs {
		if physics.Collides(s.boxes[p[0]], s.boxes[p[1]]) {
			hit := Collision{A: car.ID(p[0]), B: car.ID(p[1]), Tick: s.tick}
			hits = append(hits, hit)
			s.log.Info("hit", "a", hit.A, "b", hit.B, "tick", hit.Tick)
		}
	}
	s.collisions = hits
	s.totalHits += len(hits)
}
