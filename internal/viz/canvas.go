package viz

import (
	"strings"

	"github.com/san-kum/swingsim/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells, each holding 2x4 dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots is the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights the dot at (x, y). Dots off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect outlines the rectangle with corners (x0, y0) and (x1, y1).
func (c *Canvas) DrawRect(x0, y0, x1, y1 int) {
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps a world rectangle onto a canvas, keeping the aspect ratio
// and centring the slack. World y grows downwards, as on screen.
type Viewport struct {
	Min, Max dynamo.Vec2

	scale  float64
	offX   float64
	offY   float64
	fitted bool
}

func NewViewport(min, max dynamo.Vec2) *Viewport {
	return &Viewport{Min: min, Max: max}
}

// Fit computes the mapping for a canvas of w x h dots.
func (v *Viewport) Fit(w, h int) {
	ww := v.Max.X - v.Min.X
	wh := v.Max.Y - v.Min.Y
	if ww <= 0 {
		ww = 1
	}
	if wh <= 0 {
		wh = 1
	}
	v.scale = min(float64(w-1)/ww, float64(h-1)/wh)
	v.offX = (float64(w-1) - ww*v.scale) / 2
	v.offY = (float64(h-1) - wh*v.scale) / 2
	v.fitted = true
}

// Project converts a world point to dot coordinates.
func (v *Viewport) Project(p dynamo.Vec2) (int, int) {
	return int(v.offX + (p.X-v.Min.X)*v.scale + 0.5), int(v.offY + (p.Y-v.Min.Y)*v.scale + 0.5)
}

// Scale is the number of dots per world unit.
func (v *Viewport) Scale() float64 { return v.scale }
