package geo

import "math"

// QuadCurve is the quadratic Bézier every connection renders as:
// M Start Q Control End.
type QuadCurve struct {
	Start   *Point
	Control *Point
	End     *Point
}

func NewQuadCurve(start, control, end *Point) QuadCurve {
	return QuadCurve{Start: start, Control: control, End: end}
}

// PerpendicularUnit returns the unit vector perpendicular (left normal) to
// src->dst. When the centers coincide the perpendicular is undefined, so it
// falls back to pointing straight down to keep curve math total.
func PerpendicularUnit(src, dst *Point) Vector {
	if src.X == dst.X && src.Y == dst.Y {
		return NewVector(0, 1)
	}
	nx, ny := GetUnitNormalVector(src.X, src.Y, dst.X, dst.Y)
	return NewVector(nx, ny)
}

// CurveControlPoint derives the control point from the signed curve offset:
// the midpoint of src->dst pushed offset units along the perpendicular.
func CurveControlPoint(src, dst *Point, offset float64) *Point {
	mid := src.Interpolate(dst, 0.5)
	return mid.AddVector(PerpendicularUnit(src, dst).Multiply(offset))
}

// CurveOffsetFor inverts CurveControlPoint: it projects mid->p onto the
// perpendicular unit vector, giving the signed offset that would place
// the control point nearest p. Used when dragging a connection's curve.
func CurveOffsetFor(src, dst, p *Point) float64 {
	mid := src.Interpolate(dst, 0.5)
	perp := PerpendicularUnit(src, dst)
	return (p.X-mid.X)*perp[0] + (p.Y-mid.Y)*perp[1]
}

// At evaluates the curve at t in [0,1].
func (q QuadCurve) At(t float64) *Point {
	mt := 1 - t
	return NewPoint(
		mt*mt*q.Start.X+2*mt*t*q.Control.X+t*t*q.End.X,
		mt*mt*q.Start.Y+2*mt*t*q.Control.Y+t*t*q.End.Y,
	)
}

// TangentAt returns the unit tangent of the curve at t. Degenerate curves
// (all three points coincident) get the same downward fallback as
// PerpendicularUnit.
func (q QuadCurve) TangentAt(t float64) Vector {
	mt := 1 - t
	dx := 2*mt*(q.Control.X-q.Start.X) + 2*t*(q.End.X-q.Control.X)
	dy := 2*mt*(q.Control.Y-q.Start.Y) + 2*t*(q.End.Y-q.Control.Y)
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return NewVector(0, 1)
	}
	return NewVector(dx/length, dy/length)
}

// NormalAt is TangentAt rotated 90 degrees counter-clockwise.
func (q QuadCurve) NormalAt(t float64) Vector {
	tangent := q.TangentAt(t)
	return NewVector(-tangent[1], tangent[0])
}

const curveDistanceSamples = 25

// DistanceTo approximates the distance from p to the curve by sampling.
// Precision is more than enough for pointer hit-testing.
func (q QuadCurve) DistanceTo(p *Point) float64 {
	min := math.Inf(1)
	prev := q.Start
	for i := 1; i <= curveDistanceSamples; i++ {
		t := float64(i) / curveDistanceSamples
		cur := q.At(t)
		if d := p.DistanceToLine(prev, cur); d < min {
			min = d
		}
		prev = cur
	}
	return min
}

// Flatten approximates the curve as a polyline with n segments, used by the
// raster path builder.
func (q QuadCurve) Flatten(n int) []*Point {
	if n < 1 {
		n = 1
	}
	pts := make([]*Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, q.At(float64(i)/float64(n)))
	}
	return pts
}
