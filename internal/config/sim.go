package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CollisionPolicy selects which car pairs are tested for collisions each tick.
type CollisionPolicy string

const (
	PolicyLeader CollisionPolicy = "leader" // Player vs the first follower only
	PolicyPlayer CollisionPolicy = "player" // Player vs every follower
	PolicyAll    CollisionPolicy = "all"    // Every unordered pair of cars
	PolicyPairs  CollisionPolicy = "pairs"  // Explicit pair list from CollisionPairs
)

// Pair identifies two cars by ID. The player is ID 0, followers are 1..NumCars.
type Pair [2]int

// StartPose is a car's position and heading at creation.
type StartPose struct {
	X, Y, Heading float64
}

// Sim holds every tunable simulation parameter. It is loaded once at startup
// and treated as read-only afterwards.
type Sim struct {
	NumCars int // Autonomous followers in the convoy

	CarWidth    float64
	CarLength   float64
	FrontOffset float64 // Distance from the pivot to the front bumper

	TurnRate           float64 // Radians per tick per unit of velocity
	PlayerAcc          float64
	AutonomousAcc      float64
	BrakeRate          float64 // Magnitude of the braking acceleration
	DragCoefficient    float64 // Velocity divisor; larger means less drag
	ProximityThreshold float64 // Followers brake when closer than this to their target

	PlayerStart      StartPose
	FollowerStart    StartPose // Pose of follower 0
	FollowerSpacingX float64   // X offset between consecutive followers

	CollisionPolicy CollisionPolicy
	CollisionPairs  []Pair

	Workers int // Goroutines per phase; 1 runs each tick sequentially
}

// DefaultSim returns the reference tuning.
func DefaultSim() Sim {
	return Sim{
		NumCars:            20,
		CarWidth:           24,
		CarLength:          55,
		FrontOffset:        40,
		TurnRate:           0.015,
		PlayerAcc:          0.008,
		AutonomousAcc:      0.005,
		BrakeRate:          0.01,
		DragCoefficient:    200,
		ProximityThreshold: 100,
		PlayerStart:        StartPose{X: 400, Y: 400, Heading: math.Pi / 2},
		FollowerStart:      StartPose{X: 100, Y: 200, Heading: math.Pi},
		FollowerSpacingX:   50,
		CollisionPolicy:    PolicyLeader,
		Workers:            1,
	}
}

// RearOffset is the distance from the pivot to the rear bumper.
func (s Sim) RearOffset() float64 {
	return s.CarLength - s.FrontOffset
}

// HalfWidth is half the car width.
func (s Sim) HalfWidth() float64 {
	return s.CarWidth / 2
}

// LoadSim reads the simulation config from the environment on top of DefaultSim
// and validates it.
func LoadSim() (Sim, error) {
	s := DefaultSim()
	var errs []error

	intVar := func(key string, dst *int) {
		v, err := GetEnvInt(key, *dst)
		if err != nil {
			errs = append(errs, err)
		}
		*dst = v
	}
	floatVar := func(key string, dst *float64) {
		v, err := GetEnvFloat(key, *dst)
		if err != nil {
			errs = append(errs, err)
		}
		*dst = v
	}

	intVar("NUM_CARS", &s.NumCars)
	floatVar("CAR_WIDTH", &s.CarWidth)
	floatVar("CAR_LENGTH", &s.CarLength)
	floatVar("CAR_FRONT_OFFSET", &s.FrontOffset)
	floatVar("CAR_TURN_RATE", &s.TurnRate)
	floatVar("PLAYER_ACC", &s.PlayerAcc)
	floatVar("AUTONOMOUS_ACC", &s.AutonomousAcc)
	floatVar("BRAKE_RATE", &s.BrakeRate)
	floatVar("DRAG_CO", &s.DragCoefficient)
	floatVar("PROXIMITY_THRESHOLD", &s.ProximityThreshold)
	intVar("SIM_WORKERS", &s.Workers)

	s.CollisionPolicy = CollisionPolicy(GetEnv("COLLISION_POLICY", string(s.CollisionPolicy)))
	if raw := GetEnv("COLLISION_PAIRS", ""); raw != "" {
		pairs, err := ParsePairs(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("COLLISION_PAIRS: %w", err))
		}
		s.CollisionPairs = pairs
	}

	if err := errors.Join(errs...); err != nil {
		return s, err
	}
	return s, s.Validate()
}

// ParsePairs parses a comma separated list of "a-b" car ID pairs.
func ParsePairs(raw string) ([]Pair, error) {
	var pairs []Pair
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		left, right, ok := strings.Cut(field, "-")
		if !ok {
			return nil, fmt.Errorf("pair %q: expected form a-b", field)
		}
		a, err := strconv.Atoi(strings.TrimSpace(left))
		if err != nil {
			return nil, fmt.Errorf("pair %q: %w", field, err)
		}
		b, err := strconv.Atoi(strings.TrimSpace(right))
		if err != nil {
			return nil, fmt.Errorf("pair %q: %w", field, err)
		}
		pairs = append(pairs, Pair{a, b})
	}
	return pairs, nil
}

// Validate reports every out-of-range parameter.
func (s Sim) Validate() error {
	var errs []error
	if s.NumCars < 0 {
		errs = append(errs, fmt.Errorf("num cars must not be negative, got %d", s.NumCars))
	}
	if s.CarWidth <= 0 {
		errs = append(errs, fmt.Errorf("car width must be positive, got %g", s.CarWidth))
	}
	if s.CarLength <= 0 {
		errs = append(errs, fmt.Errorf("car length must be positive, got %g", s.CarLength))
	}
	if s.FrontOffset <= 0 || s.FrontOffset >= s.CarLength {
		errs = append(errs, fmt.Errorf("front offset must be within (0, %g), got %g", s.CarLength, s.FrontOffset))
	}
	if s.DragCoefficient <= 0 {
		errs = append(errs, fmt.Errorf("drag coefficient must be positive, got %g", s.DragCoefficient))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", s.Workers))
	}

	switch s.CollisionPolicy {
	case PolicyLeader, PolicyPlayer, PolicyAll:
	case PolicyPairs:
		for _, p := range s.CollisionPairs {
			if p[0] == p[1] {
				errs = append(errs, fmt.Errorf("collision pair %d-%d pairs a car with itself", p[0], p[1]))
				continue
			}
			for _, id := range p {
				if id < 0 || id > s.NumCars {
					errs = append(errs, fmt.Errorf("collision pair %d-%d: car %d out of range [0, %d]", p[0], p[1], id, s.NumCars))
				}
			}
		}
	default:
		errs = append(errs, fmt.Errorf("unknown collision policy %q", s.CollisionPolicy))
	}

	return errors.Join(errs...)
}
