// Package loop hosts a simulation in a terminal: it samples input, steps the
// simulation a fixed number of ticks per frame, and draws the result.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/convoy/internal/config"
	"github.com/tomz197/convoy/internal/draw"
	"github.com/tomz197/convoy/internal/input"
	"github.com/tomz197/convoy/internal/logger"
	"github.com/tomz197/convoy/internal/sim"
)

// Options configures a terminal session.
type Options struct {
	Sim           config.Sim
	TermSizeFunc  draw.TermSizeFunc  // Defaults to the size of os.Stdout
	Renderer      *lipgloss.Renderer // Defaults to lipgloss.DefaultRenderer
	Logger        *logger.Logger     // Defaults to a discarding logger
	FrameRate     int                // Frames per second
	TicksPerFrame int                // Simulation ticks per frame
	HoldDuration  time.Duration      // Input hold window
}

func (o *Options) applyDefaults() {
	if o.TermSizeFunc == nil {
		o.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if o.Renderer == nil {
		o.Renderer = lipgloss.DefaultRenderer()
	}
	if o.Logger == nil {
		o.Logger = logger.Discard()
	}
	if o.FrameRate <= 0 {
		o.FrameRate = config.DefaultFrameRate
	}
	if o.TicksPerFrame <= 0 {
		o.TicksPerFrame = config.DefaultTicksPerFrame
	}
	if o.HoldDuration <= 0 {
		o.HoldDuration = config.DefaultInputHold
	}
}

// Run starts the main loop with the standard Input → Update → Draw cycle.
// It returns when the player quits, the input stream ends, or ctx is cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	opts.applyDefaults()
	log := opts.Logger

	state, err := sim.New(opts.Sim, sim.WithLogger(log))
	if err != nil {
		return fmt.Errorf("create simulation: %w", err)
	}
	stream := input.StartStreamHold(r, opts.HoldDuration)
	defer stream.Stop()

	f := &frame{
		canvas: draw.NewScaledCanvas(1, 1, config.ViewWidth, config.ViewHeight),
		out:    draw.NewChunkWriter(w, 0, 0),
		hud:    newHUD(opts.Renderer),
	}
	if err := f.resize(opts.TermSizeFunc); err != nil {
		return err
	}

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)

	frameTime := config.FrameTime(opts.FrameRate)
	log.Info("session started", "cars", state.Len(), "fps", opts.FrameRate, "ticks_per_frame", opts.TicksPerFrame)

	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Info("session cancelled", "tick", state.Tick())
			return nil
		default:
		}

		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		// ===== INPUT PHASE =====
		actions := input.ReadInput(stream)
		if actions.Quit || stream.Closed() {
			break
		}

		// ===== UPDATE PHASE =====
		ctl := sim.PlayerControl(actions)
		for range opts.TicksPerFrame {
			if hits := state.Step(ctl); len(hits) > 0 {
				f.hud.flash()
			}
		}
		f.hud.update(delta)

		if err := f.resize(opts.TermSizeFunc); err != nil {
			return err
		}

		// ===== DRAW PHASE =====
		if err := f.draw(state.Snapshot()); err != nil {
			return err
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}

	log.Info("session ended", "tick", state.Tick(), "hits", state.TotalCollisions())
	draw.ClearScreen(w)
	return nil
}
