package loop

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/tomz197/convoy/internal/car"
	"github.com/tomz197/convoy/internal/config"
	"github.com/tomz197/convoy/internal/draw"
	"github.com/tomz197/convoy/internal/sim"
)

// frame owns the per-session render targets.
type frame struct {
	canvas *draw.Canvas
	out    *draw.ChunkWriter
	hud    *hud
}

// resize checks for terminal resize and updates canvas scaling and centering.
func (f *frame) resize(size draw.TermSizeFunc) error {
	termWidth, termHeight, err := size()
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampTermSize(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)
	f.canvas.Resize(renderWidth, renderHeight)
	f.out.SetOffset(offsetCol, offsetRow)
	return nil
}

// draw clears the screen, rasterises the scene and writes the HUD on top.
func (f *frame) draw(snap sim.Snapshot) error {
	draw.ClearScreen(f.out)
	f.canvas.Clear()

	drawScene(f.canvas, snap)

	f.canvas.Render(f.out)
	f.canvas.RenderBorder(f.out)
	f.hud.draw(f.out, snap, f.canvas.TerminalWidth(), f.canvas.TerminalHeight())

	return f.out.Flush()
}

// viewport is the world rectangle visible on the canvas, centred on the player.
type viewport struct {
	left, top float64
}

func newViewport(center sim.CarView) viewport {
	return viewport{
		left: center.Pose.X - config.ViewWidth/2,
		top:  center.Pose.Y - config.ViewHeight/2,
	}
}

func (v viewport) right() float64  { return v.left + config.ViewWidth }
func (v viewport) bottom() float64 { return v.top + config.ViewHeight }

// toView maps a world point to logical canvas coordinates.
func (v viewport) toView(p draw.Point) draw.Point {
	return draw.Point{X: p.X - v.left, Y: p.Y - v.top}
}

// drawScene draws the background, the road and every car.
func drawScene(c *draw.Canvas, snap sim.Snapshot) {
	if len(snap.Cars) == 0 {
		return
	}
	v := newViewport(snap.Player())

	drawMarkers(c, v)
	drawRoad(c, v)

	// Player last so it stays on top.
	for i := len(snap.Cars) - 1; i >= 0; i-- {
		cv := snap.Cars[i]
		filled := cv.Kind == car.PlayerControlled || snap.Colliding(cv.ID)
		drawCar(c, v, cv, filled)
	}
}

// drawMarkers plots a fixed world grid so motion is visible off the road.
func drawMarkers(c *draw.Canvas, v viewport) {
	for x := gridStart(v.left); x < v.right(); x += config.MarkerSpacing {
		for y := gridStart(v.top); y < v.bottom(); y += config.MarkerSpacing {
			p := v.toView(draw.Point{X: x, Y: y})
			c.Plot(p)
		}
	}
}

// drawRoad draws both road edges and a dashed centre line, clipped to the road's length.
func drawRoad(c *draw.Canvas, v viewport) {
	x0 := lo.Clamp(v.left, 0, config.RoadLength)
	x1 := lo.Clamp(v.right(), 0, config.RoadLength)
	if x0 >= x1 {
		return
	}

	for _, y := range []float64{config.RoadTop, config.RoadBottom} {
		if y < v.top || y >= v.bottom() {
			continue
		}
		c.Line(v.toView(draw.Point{X: x0, Y: y}), v.toView(draw.Point{X: x1, Y: y}))
	}

	mid := (config.RoadTop + config.RoadBottom) / 2
	if mid < v.top || mid >= v.bottom() {
		return
	}
	dash := config.MarkerSpacing / 2
	for x := gridStart(x0); x < x1; x += config.MarkerSpacing {
		end := math.Min(x+dash, x1)
		c.Line(v.toView(draw.Point{X: x, Y: mid}), v.toView(draw.Point{X: end, Y: mid}))
	}
}

// drawCar draws a car's bounding box.
func drawCar(c *draw.Canvas, v viewport, cv sim.CarView, filled bool) {
	corners := cv.Box.Corners()
	points := c.BorrowPoints(len(corners))
	for i, p := range corners {
		points[i] = v.toView(p)
	}
	c.Polygon(points, filled)
}

// gridStart returns the first marker coordinate at or after from.
func gridStart(from float64) float64 {
	return math.Ceil(from/config.MarkerSpacing) * config.MarkerSpacing
}
