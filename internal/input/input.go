// Package input turns a raw terminal byte stream into latched driving actions.
package input

import (
	"bufio"
	"sync"
	"time"

	"github.com/tomz197/convoy/internal/config"
)

// Action names one of the driving controls held through Actions.
type Action int

const (
	Left Action = iota
	Right
	Up
	Down
)

// Actions is the held state of every action for one frame.
type Actions struct {
	Left  bool
	Right bool
	Up    bool
	Down  bool
	Quit  bool
}

// Held reports whether the named action is currently held.
func (a Actions) Held(action Action) bool {
	switch action {
	case Left:
		return a.Left
	case Right:
		return a.Right
	case Up:
		return a.Up
	case Down:
		return a.Down
	default:
		return false
	}
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	hold   time.Duration
	closed bool

	done     chan struct{} // Closed by Stop
	stopOnce sync.Once
	exited   chan struct{} // Closed when the reader goroutine returns
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// Terminals send no key-up events, so a key counts as held while its repeats keep
// arriving within config.DefaultInputHold.
func StartStream(r *bufio.Reader) *Stream {
	return StartStreamHold(r, config.DefaultInputHold)
}

// StartStreamHold is StartStream with a custom hold window.
func StartStreamHold(r *bufio.Reader, hold time.Duration) *Stream {
	s := &Stream{
		ch:     make(chan byte, 128),
		hold:   hold,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go func() {
		defer close(s.exited)
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Stop releases the reader goroutine. A goroutine blocked inside ReadByte
// exits once that read returns. Safe to call more than once.
func (s *Stream) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys. Keys stay held until their
// repeats stop arriving for longer than the hold window.
func ReadInput(s *Stream) Actions {
	return readInputAt(s, time.Now())
}

func readInputAt(s *Stream, now time.Time) Actions {
	var buf []byte

	// Drain all available bytes
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	// Parse the collected bytes and update key state timestamps
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// Check for escape sequences (arrow keys)
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A': // Up arrow
				s.state.up = now
				i += 2
				continue
			case 'B': // Down arrow
				s.state.down = now
				i += 2
				continue
			case 'C': // Right arrow
				s.state.right = now
				i += 2
				continue
			case 'D': // Left arrow
				s.state.left = now
				i += 2
				continue
			}
		}

		applyByteToState(&s.state, b, now)
	}

	return Actions{
		Quit:  now.Sub(s.state.quit) < s.hold,
		Left:  now.Sub(s.state.left) < s.hold,
		Right: now.Sub(s.state.right) < s.hold,
		Up:    now.Sub(s.state.up) < s.hold,
		Down:  now.Sub(s.state.down) < s.hold,
	}
}

// ResetKeyInput forgets every held key.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03': // q or Ctrl+C
		state.quit = now
	case 'a', 'A', 'j', 'J':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'i', 'I':
		state.up = now
	case 's', 'S', 'k', 'K':
		state.down = now
	}
}
