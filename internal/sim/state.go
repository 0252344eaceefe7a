// Package sim owns the simulation state and advances it one tick at a time:
// control decisions, integration, bounding boxes, then collision checks.
package sim

import (
	"errors"
	"fmt"

	"github.com/tomz197/convoy/internal/car"
	"github.com/tomz197/convoy/internal/config"
	"github.com/tomz197/convoy/internal/logger"
	"github.com/tomz197/convoy/internal/physics"
)

// ErrBrokenChain is returned when the follower roster does not form a single
// chain back to the player.
var ErrBrokenChain = errors.New("convoy chain is broken")

// Collision records two cars whose boxes overlapped on a tick.
type Collision struct {
	A, B car.ID
	Tick uint64
}

// State is the whole simulation: roster, tuning and per-tick buffers.
// It is owned by a single host loop; Step must not be called concurrently.
type State struct {
	cfg       config.Sim
	dims      physics.Dimensions
	params    car.Params
	threshold float64

	cars  []*car.Car // Index is the car ID
	boxes []physics.BoundingBox
	pairs []config.Pair

	controls []car.Control // Reused decision buffer

	tick       uint64
	collisions []Collision // Detected on the latest tick
	totalHits  int

	workers int
	log     *logger.Logger
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger used to report collisions.
func WithLogger(l *logger.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates the player and follower roster described by cfg.
func New(cfg config.Sim, opts ...Option) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &State{
		cfg: cfg,
		dims: physics.Dimensions{
			HalfWidth:   cfg.HalfWidth(),
			FrontOffset: cfg.FrontOffset,
			RearOffset:  cfg.RearOffset(),
		},
		params: car.Params{
			BrakeRate:       cfg.BrakeRate,
			DragCoefficient: cfg.DragCoefficient,
			TurnRate:        cfg.TurnRate,
		},
		threshold: cfg.ProximityThreshold,
		workers:   cfg.Workers,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cars = newRoster(cfg)
	if err := validateChain(s.cars); err != nil {
		return nil, err
	}

	pairs, err := collisionPairs(cfg.CollisionPolicy, cfg.CollisionPairs, len(s.cars))
	if err != nil {
		return nil, err
	}
	s.pairs = pairs

	s.controls = make([]car.Control, len(s.cars))
	s.boxes = make([]physics.BoundingBox, len(s.cars))
	for i, c := range s.cars {
		s.boxes[i] = c.Box(s.dims)
	}

	s.log.Debug("simulation created", "cars", len(s.cars), "policy", cfg.CollisionPolicy, "pairs", len(s.pairs), "workers", s.workers)
	return s, nil
}

// newRoster builds the player and a row of followers, each following the car before it.
func newRoster(cfg config.Sim) []*car.Car {
	cars := make([]*car.Car, 0, cfg.NumCars+1)

	ps := cfg.PlayerStart
	cars = append(cars, car.NewPlayer(physics.Pose{X: ps.X, Y: ps.Y, Heading: ps.Heading}, cfg.PlayerAcc))

	fs := cfg.FollowerStart
	for i := range cfg.NumCars {
		pose := physics.Pose{
			X:       fs.X + float64(i)*cfg.FollowerSpacingX,
			Y:       fs.Y,
			Heading: fs.Heading,
		}
		id := car.ID(i + 1)
		cars = append(cars, car.NewFollower(id, pose, cfg.AutonomousAcc, id-1))
	}
	return cars
}

// validateChain checks that the roster is indexed by ID, the player follows
// nobody, and every follower targets a car earlier in the roster. Targets
// always point backwards, so the chain cannot cycle.
func validateChain(cars []*car.Car) error {
	if len(cars) == 0 {
		return fmt.Errorf("%w: no player car", ErrBrokenChain)
	}
	for i, c := range cars {
		if c.ID != car.ID(i) {
			return fmt.Errorf("%w: car at index %d has ID %d", ErrBrokenChain, i, c.ID)
		}
		if i == 0 {
			if c.Kind != car.PlayerControlled || c.Target != car.NoTarget {
				return fmt.Errorf("%w: first car must be the untargeted player", ErrBrokenChain)
			}
			continue
		}
		if c.Kind != car.AutonomousControlled {
			return fmt.Errorf("%w: car %d is not autonomous", ErrBrokenChain, c.ID)
		}
		if c.Target < 0 || c.Target >= c.ID {
			return fmt.Errorf("%w: car %d targets %d", ErrBrokenChain, c.ID, c.Target)
		}
	}
	return nil
}

// Tick returns the number of completed ticks.
func (s *State) Tick() uint64 {
	return s.tick
}

// Len returns the number of cars including the player.
func (s *State) Len() int {
	return len(s.cars)
}

// Car returns a copy of the car with the given ID.
func (s *State) Car(id car.ID) (car.Car, bool) {
	if id < 0 || int(id) >= len(s.cars) {
		return car.Car{}, false
	}
	return *s.cars[id], true
}

// Player returns a copy of the player car.
func (s *State) Player() car.Car {
	return *s.cars[car.PlayerID]
}

// Box returns the bounding box of a car as of the latest tick.
func (s *State) Box(id car.ID) (physics.BoundingBox, bool) {
	if id < 0 || int(id) >= len(s.boxes) {
		return physics.BoundingBox{}, false
	}
	return s.boxes[id], true
}

// Pairs returns the car pairs checked for collisions every tick.
func (s *State) Pairs() []config.Pair {
	return append([]config.Pair(nil), s.pairs...)
}

// Dimensions returns the car rectangle used for every car.
func (s *State) Dimensions() physics.Dimensions {
	return s.dims
}

// TotalCollisions returns the number of collisions reported since creation.
func (s *State) TotalCollisions() int {
	return s.totalHits
}
