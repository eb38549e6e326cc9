package storage

import (
	"fmt"
	"strings"

	"github.com/san-kum/swingsim/internal/dynamo"
)

// RopeSVG draws the final frame's particles as a polyline and the path the
// last particle traced over the run. Screen coordinates are kept: y grows
// downwards.
func RopeSVG(frames []dynamo.Frame, width, height int) string {
	if len(frames) == 0 || len(frames[len(frames)-1].Positions) == 0 {
		return ""
	}

	final := frames[len(frames)-1].Positions
	trail := make([]dynamo.Vec2, 0, len(frames))
	for _, f := range frames {
		if n := len(f.Positions); n > 0 {
			trail = append(trail, f.Positions[n-1])
		}
	}

	// Find bounds
	minX, maxX := final[0].X, final[0].X
	minY, maxY := final[0].Y, final[0].Y
	for _, pts := range [][]dynamo.Vec2{final, trail} {
		for _, p := range pts {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	project := func(p dynamo.Vec2) (float64, float64) {
		return (p.X - minX) / rangeX * float64(width), (p.Y - minY) / rangeY * float64(height)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	if len(trail) > 1 {
		sb.WriteString(`<path fill="none" stroke="#ff1493" stroke-width="1" stroke-opacity="0.6" d="`)
		for i, p := range trail {
			x, y := project(p)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString(`<polyline fill="none" stroke="#1e90ff" stroke-width="2" points="`)
	for i, p := range final {
		x, y := project(p)
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	sb.WriteString("\"/>\n<g fill=\"#ffff00\">\n")
	for _, p := range final {
		x, y := project(p)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\"/>\n", x, y)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
