package geo

import "math"

type Ellipse struct {
	Center *Point
	Rx     float64
	Ry     float64
}

func NewEllipse(center *Point, rx, ry float64) *Ellipse {
	return &Ellipse{
		Center: center,
		Rx:     rx,
		Ry:     ry,
	}
}

// PointAtAngle returns the parametric boundary point at the given angle from center.
func (e Ellipse) PointAtAngle(angle float64) *Point {
	return NewPoint(
		e.Center.X+math.Cos(angle)*e.Rx,
		e.Center.Y+math.Sin(angle)*e.Ry,
	)
}

func (e Ellipse) Contains(p *Point) bool {
	if e.Rx <= 0 || e.Ry <= 0 {
		return false
	}
	dx := (p.X - e.Center.X) / e.Rx
	dy := (p.Y - e.Center.Y) / e.Ry
	return dx*dx+dy*dy <= 1
}
