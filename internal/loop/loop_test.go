package loop

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/convoy/internal/config"
	"github.com/tomz197/convoy/internal/draw"
	"github.com/tomz197/convoy/internal/sim"
)

func fixedSize(w, h int) draw.TermSizeFunc {
	return func() (int, int, error) { return w, h, nil }
}

func testOptions() Options {
	return Options{
		Sim:          config.DefaultSim(),
		TermSizeFunc: fixedSize(80, 24),
		Renderer:     lipgloss.NewRenderer(io.Discard),
		FrameRate:    1000,
	}
}

// blockingReader returns a reader that never yields input until the test ends.
func blockingReader(t *testing.T) *bufio.Reader {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	return bufio.NewReader(pr)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func renderCanvas(t *testing.T, c *draw.Canvas) string {
	t.Helper()
	var buf bytes.Buffer
	cw := draw.NewChunkWriter(&buf, 0, 0)
	c.Render(cw)
	require.NoError(t, cw.Flush())
	return buf.String()
}

func newSnapshot(t *testing.T) sim.Snapshot {
	t.Helper()
	s, err := sim.New(config.DefaultSim())
	require.NoError(t, err)
	return s.Snapshot()
}

func TestViewportCentresPlayer(t *testing.T) {
	snap := newSnapshot(t)
	v := newViewport(snap.Player())

	got := v.toView(snap.Player().Pose.Point())
	assert.Equal(t, draw.Point{X: config.ViewWidth / 2, Y: config.ViewHeight / 2}, got)
	assert.Equal(t, v.left+config.ViewWidth, v.right())
}

func TestGridStart(t *testing.T) {
	assert.Equal(t, -100.0, gridStart(-150))
	assert.Equal(t, 200.0, gridStart(200))
	assert.Equal(t, 300.0, gridStart(201))
}

func TestDrawSceneFillsPlayer(t *testing.T) {
	c := draw.NewScaledCanvas(160, 60, config.ViewWidth, config.ViewHeight)
	drawScene(c, newSnapshot(t))

	assert.Contains(t, renderCanvas(t, c), string(draw.BlockFull))
}

func TestDrawSceneEmptySnapshot(t *testing.T) {
	c := draw.NewCanvas(10, 5)
	drawScene(c, sim.Snapshot{})

	assert.Empty(t, renderCanvas(t, c))
}

func TestHUDFlashExpires(t *testing.T) {
	h := newHUD(lipgloss.NewRenderer(io.Discard))
	assert.False(t, h.flashing())

	h.flash()
	assert.True(t, h.flashing())

	h.update(200 * time.Millisecond)
	assert.True(t, h.flashing())

	h.update(time.Second)
	assert.False(t, h.flashing())
}

func TestHUDDraw(t *testing.T) {
	var buf bytes.Buffer
	cw := draw.NewChunkWriter(&buf, 0, 0)
	h := newHUD(lipgloss.NewRenderer(io.Discard))
	snap := newSnapshot(t)

	h.draw(cw, snap, 80, 24)
	require.NoError(t, cw.Flush())
	out := buf.String()
	assert.Contains(t, out, "speed")
	assert.Contains(t, out, "90°")
	assert.Contains(t, out, "hits")
	assert.Contains(t, out, controlsHelp)
	assert.NotContains(t, out, "HIT")

	buf.Reset()
	h.flash()
	h.draw(cw, snap, 80, 24)
	require.NoError(t, cw.Flush())
	assert.Contains(t, buf.String(), "HIT")
}

func TestRunQuitsOnKey(t *testing.T) {
	var buf bytes.Buffer
	r := bufio.NewReader(strings.NewReader("q"))

	err := Run(context.Background(), r, &buf, testOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(buf.String(), "\033[?25h"), "cursor restored")
}

func TestRunStopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := Run(ctx, blockingReader(t), &buf, testOptions())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "speed")
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	opts := testOptions()
	opts.Sim.DragCoefficient = 0

	err := Run(context.Background(), blockingReader(t), io.Discard, opts)
	assert.Error(t, err)
}

func TestRunReturnsWriteError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := Run(ctx, blockingReader(t), failingWriter{}, testOptions())
	assert.ErrorContains(t, err, "broken pipe")
}

func TestRunReturnsTermSizeError(t *testing.T) {
	opts := testOptions()
	opts.TermSizeFunc = func() (int, int, error) { return 0, 0, errors.New("not a terminal") }

	err := Run(context.Background(), blockingReader(t), io.Discard, opts)
	assert.ErrorContains(t, err, "not a terminal")
}
