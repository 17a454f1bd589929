package canvas

import "github.com/trishajanath/altx-canvas/api/schemas"

// CubicBezier is a cubic Bézier curve in graph space.
type CubicBezier struct {
	P0, P1, P2, P3 schemas.Position
}

// EdgeCurve builds the curve used to render an edge between two node
// centers: both control points sit at the horizontal midpoint, which yields
// a smooth S-curve for horizontally laid-out chains.
func EdgeCurve(from, to schemas.Position) CubicBezier {
	midX := (from.X + to.X) / 2
	return CubicBezier{
		P0: from,
		P1: schemas.Position{X: midX, Y: from.Y},
		P2: schemas.Position{X: midX, Y: to.Y},
		P3: to,
	}
}

// PointAt evaluates the curve at parameter t in [0, 1]. Out-of-range values
// are clamped so an animation driver can never push a packet off the curve.
func (c CubicBezier) PointAt(t float64) schemas.Position {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	u := 1 - t
	// Standard cubic Bernstein form.
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return schemas.Position{
		X: b0*c.P0.X + b1*c.P1.X + b2*c.P2.X + b3*c.P3.X,
		Y: b0*c.P0.Y + b1*c.P1.Y + b2*c.P2.Y + b3*c.P3.Y,
	}
}
