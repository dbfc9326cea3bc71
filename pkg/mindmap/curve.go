package mindmap

import (
	"fmt"
	"math"
)

// Curve policy: the control point sits this far off the chord, as a fraction
// of the chord length, and never closer than minCurveOffset.
const (
	curveOffsetFraction = 0.1
	minCurveOffset      = 20.0
)

// Point is a position on the virtual canvas.
type Point struct {
	X, Y float64
}

// Curve returns the control point of the quadratic curve from a to b. The
// control point is offset from the chord midpoint along the left-hand
// perpendicular (-dy, dx); for a zero-length chord it is the midpoint.
func Curve(a, b Point) Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	mid := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	length := math.Hypot(dx, dy)
	if length == 0 {
		return mid
	}
	offset := max(minCurveOffset, length*curveOffsetFraction)
	return Point{
		X: mid.X - dy/length*offset,
		Y: mid.Y + dx/length*offset,
	}
}

// EdgePath returns SVG path data for the curve from a to b.
func EdgePath(a, b Point) string {
	c := Curve(a, b)
	return fmt.Sprintf("M %.2f %.2f Q %.2f %.2f %.2f %.2f", a.X, a.Y, c.X, c.Y, b.X, b.Y)
}
