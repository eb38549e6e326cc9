package analysis

import (
	"strings"

	"github.com/san-kum/swingsim/internal/dynamo"
)

// PathToASCII plots points on a width x height grid of characters. Screen
// coordinates are kept, so y grows downwards. Later points are drawn with
// heavier marks.
func PathToASCII(points []dynamo.Vec2, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	marks := []rune{'.', 'o', '•'}
	for i, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := int((p.Y - minY) / rangeY * float64(height-1))
		canvas[row][col] = marks[i*len(marks)/len(points)]
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossings returns the indices where data rises through threshold: the
// previous sample is below it and this one is not.
func Crossings(data []float64, threshold float64) []int {
	var out []int
	for i := 1; i < len(data); i++ {
		if data[i-1] < threshold && data[i] >= threshold {
			out = append(out, i)
		}
	}
	return out
}

// CrossingPeriod is the mean spacing, in samples, between upward crossings
// of the series mean. It reports false with fewer than two crossings.
func CrossingPeriod(data []float64) (float64, bool) {
	if len(data) == 0 {
		return 0, false
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	idx := Crossings(data, mean)
	if len(idx) < 2 {
		return 0, false
	}
	return float64(idx[len(idx)-1]-idx[0]) / float64(len(idx)-1), true
}
