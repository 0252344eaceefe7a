package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/convoy/internal/config"
)

// streamOf starts a stream over data and waits until the reader has ended,
// so every byte is buffered in the channel.
func streamOf(t *testing.T, data string) *Stream {
	t.Helper()
	s := StartStream(bufio.NewReader(strings.NewReader(data)))
	require.Eventually(t, func() bool { return len(s.ch) == len(data) || s.closed }, time.Second, time.Millisecond)
	return s
}

func TestReadInputKeys(t *testing.T) {
	s := streamOf(t, "wd")
	got := readInputAt(s, time.Now())
	assert.Equal(t, Actions{Up: true, Right: true}, got)
}

func TestReadInputArrowKeys(t *testing.T) {
	s := streamOf(t, "\x1b[A\x1b[D")
	got := readInputAt(s, time.Now())
	assert.Equal(t, Actions{Up: true, Left: true}, got)
}

func TestReadInputQuit(t *testing.T) {
	s := streamOf(t, "q")
	assert.True(t, readInputAt(s, time.Now()).Quit)
}

func TestHeldKeysExpire(t *testing.T) {
	s := streamOf(t, "s")
	now := time.Now()

	assert.True(t, readInputAt(s, now).Down)
	assert.True(t, readInputAt(s, now.Add(config.DefaultInputHold/2)).Down, "still held between repeats")
	assert.False(t, readInputAt(s, now.Add(config.DefaultInputHold)).Down, "released after the hold window")
}

func TestReadInputMarksClosedStream(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("")))
	require.Eventually(t, func() bool {
		ReadInput(s)
		return s.Closed()
	}, time.Second, time.Millisecond)
}

func TestResetKeyInput(t *testing.T) {
	s := streamOf(t, "a")
	now := time.Now()
	require.True(t, readInputAt(s, now).Left)

	ResetKeyInput(s)
	assert.False(t, readInputAt(s, now).Left)
}

func TestActionsHeld(t *testing.T) {
	a := Actions{Left: true, Down: true}
	assert.True(t, a.Held(Left))
	assert.False(t, a.Held(Right))
	assert.True(t, a.Held(Down))
	assert.False(t, a.Held(Action(9)))
}

func TestStopReleasesBlockedReader(t *testing.T) {
	// More input than the channel buffers, and nobody draining it.
	s := StartStream(bufio.NewReader(strings.NewReader(strings.Repeat("w", 1000))))
	require.Eventually(t, func() bool { return len(s.ch) == cap(s.ch) }, time.Second, time.Millisecond)

	s.Stop()
	s.Stop()

	select {
	case <-s.exited:
	case <-time.After(time.Second):
		t.Fatal("reader goroutine still blocked after Stop")
	}

	n := 0
	for range s.ch {
		n++
	}
	assert.Equal(t, cap(s.ch), n)
}
