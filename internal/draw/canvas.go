package draw

import (
	"math"
	"slices"
	"strings"

	"github.com/golang/geo/r2"
)

// Canvas is a monochrome pixel buffer shown with half-block characters, two
// pixels stacked in every terminal cell. Drawing calls take viewport units,
// which are scaled to the current terminal size.
type Canvas struct {
	cols, rows int
	pixels     []bool // Row-major, cols wide and rows*2 tall

	view  r2.Point // Size of the drawing area in viewport units
	scale r2.Point // Pixels per viewport unit

	scanBuf   []float64 // Scanline crossings, reused per fill
	pixelBuf  []Point   // Polygon corners in pixel space, reused per fill
	pointsBuf []Point
}

// NewCanvas creates a canvas that maps one viewport unit to one pixel.
func NewCanvas(cols, rows int) *Canvas {
	return NewScaledCanvas(cols, rows, float64(cols), float64(rows*2))
}

// NewScaledCanvas creates a canvas of cols×rows cells showing a viewWidth×viewHeight viewport.
func NewScaledCanvas(cols, rows int, viewWidth, viewHeight float64) *Canvas {
	c := &Canvas{view: r2.Point{X: viewWidth, Y: viewHeight}}
	c.Resize(cols, rows)
	return c
}

// Resize fits the viewport to a new cell grid. Pixels are cleared when the grid changes.
func (c *Canvas) Resize(cols, rows int) {
	if c.pixels == nil || cols != c.cols || rows != c.rows {
		c.cols, c.rows = cols, rows
		c.pixels = make([]bool, cols*rows*2)
	}
	c.scale = r2.Point{X: float64(cols) / c.view.X, Y: float64(rows*2) / c.view.Y}
}

// Clear turns every pixel off.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// TerminalWidth returns the canvas width in cells.
func (c *Canvas) TerminalWidth() int {
	return c.cols
}

// TerminalHeight returns the canvas height in cells.
func (c *Canvas) TerminalHeight() int {
	return c.rows
}

// BorrowPoints returns a scratch slice of n points, valid until the next call.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.pointsBuf) < n {
		c.pointsBuf = make([]Point, n)
	}
	return c.pointsBuf[:n]
}

func (c *Canvas) toPixel(p Point) (int, int) {
	return int(math.Round(p.X * c.scale.X)), int(math.Round(p.Y * c.scale.Y))
}

// set lights a pixel; anything off the canvas is clipped.
func (c *Canvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows*2 {
		return
	}
	c.pixels[y*c.cols+x] = true
}

func (c *Canvas) lit(x, y int) bool {
	return c.pixels[y*c.cols+x]
}

// Plot lights the pixel under p.
func (c *Canvas) Plot(p Point) {
	c.set(c.toPixel(p))
}

// Line draws a segment with Bresenham's algorithm.
func (c *Canvas) Line(a, b Point) {
	x, y := c.toPixel(a)
	x1, y1 := c.toPixel(b)

	dx, dy := abs(x1-x), -abs(y1-y)
	sx, sy := 1, 1
	if x > x1 {
		sx = -1
	}
	if y > y1 {
		sy = -1
	}

	e := dx + dy
	for {
		c.set(x, y)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// Polygon draws the closed outline through points, and fills it when filled is set.
func (c *Canvas) Polygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fill(points)
	}
	prev := points[len(points)-1]
	for _, p := range points {
		c.Line(prev, p)
		prev = p
	}
}

// fill lights every pixel whose centre row crosses the polygon interior (even-odd rule).
func (c *Canvas) fill(points []Point) {
	px := c.pixelBuf[:0]
	for _, p := range points {
		px = append(px, Point{X: p.X * c.scale.X, Y: p.Y * c.scale.Y})
	}
	c.pixelBuf = px

	top, bottom := px[0].Y, px[0].Y
	for _, p := range px[1:] {
		top = math.Min(top, p.Y)
		bottom = math.Max(bottom, p.Y)
	}

	for y := int(math.Floor(top)); y <= int(math.Ceil(bottom)); y++ {
		scan := float64(y) + 0.5
		xs := c.scanBuf[:0]
		prev := px[len(px)-1]
		for _, p := range px {
			if (prev.Y <= scan) != (p.Y <= scan) {
				t := (scan - prev.Y) / (p.Y - prev.Y)
				xs = append(xs, prev.X+t*(p.X-prev.X))
			}
			prev = p
		}
		slices.Sort(xs)
		c.scanBuf = xs

		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				c.set(x, y)
			}
		}
	}
}

// cell returns the half-block for a cell, or 0 when the cell is empty.
func (c *Canvas) cell(col, row int) rune {
	top, bottom := c.lit(col, row*2), c.lit(col, row*2+1)
	switch {
	case top && bottom:
		return BlockFull
	case top:
		return BlockUpperHalf
	case bottom:
		return BlockLowerHalf
	}
	return 0
}

// Render queues the lit cells on cw. Runs of adjacent cells share one cursor move.
func (c *Canvas) Render(cw *ChunkWriter) {
	for row := range c.rows {
		inRun := false
		for col := range c.cols {
			ch := c.cell(col, row)
			if ch == 0 {
				inRun = false
				continue
			}
			if !inRun {
				cw.MoveCursor(col+1, row+1)
				inRun = true
			}
			cw.WriteRune(ch)
		}
	}
}

// RenderBorder frames the canvas when cw's offset leaves room around it:
// horizontal bars need a row offset, vertical bars a column offset.
func (c *Canvas) RenderBorder(cw *ChunkWriter) {
	offCol, offRow := cw.Offset()
	sides, ends := offCol >= 1, offRow >= 1

	bar := strings.Repeat("─", c.cols)
	if ends {
		for _, line := range []struct {
			row         int
			left, right string
		}{{0, "┌", "┐"}, {c.rows + 1, "└", "┘"}} {
			if sides {
				cw.WriteAt(0, line.row, line.left+bar+line.right)
			} else {
				cw.WriteAt(1, line.row, bar)
			}
		}
	}
	if sides {
		for row := 1; row <= c.rows; row++ {
			cw.WriteAt(0, row, "│")
			cw.WriteAt(c.cols+1, row, "│")
		}
	}
}
