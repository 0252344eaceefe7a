package config

import (
	"errors"
	"fmt"
	"time"
)

// View resolution - the visible viewport in world units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 640 // Logical viewport width
	ViewHeight = 480 // Logical viewport height
)

// Render area limits. Larger terminals get a centered, bordered canvas.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Road drawn behind the cars. Mirrors the strip of road tiles along the top of the world.
const (
	RoadTop       = 0.0
	RoadBottom    = 200.0
	RoadLength    = 20000.0
	MarkerSpacing = 100.0
)

// Frame timing. The simulation is stepped a fixed number of ticks per rendered frame.
const (
	DefaultFrameRate     = 60
	DefaultTicksPerFrame = 4
)

// HUD
const (
	HitFlashSeconds = 0.5
)

// FrameTime returns the target duration of one rendered frame.
func FrameTime(frameRate int) time.Duration {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return time.Second / time.Duration(frameRate)
}

// Timing controls how a host paces the simulation and samples input.
type Timing struct {
	FrameRate     int           // Frames per second
	TicksPerFrame int           // Simulation ticks per frame
	InputHold     time.Duration // How long a key counts as held after its last repeat
}

// DefaultInputHold covers the gap between a terminal's first key repeat and the next.
const DefaultInputHold = 120 * time.Millisecond

// LoadTiming reads FRAME_RATE, TICKS_PER_FRAME and INPUT_HOLD from the environment.
func LoadTiming() (Timing, error) {
	frameRate, err1 := GetEnvInt("FRAME_RATE", DefaultFrameRate)
	ticks, err2 := GetEnvInt("TICKS_PER_FRAME", DefaultTicksPerFrame)
	hold, err3 := GetEnvDuration("INPUT_HOLD", DefaultInputHold)
	t := Timing{FrameRate: frameRate, TicksPerFrame: ticks, InputHold: hold}
	if err := errors.Join(err1, err2, err3); err != nil {
		return t, err
	}
	if t.FrameRate <= 0 || t.TicksPerFrame <= 0 || t.InputHold <= 0 {
		return t, fmt.Errorf("timing values must be positive, got %+v", t)
	}
	return t, nil
}
